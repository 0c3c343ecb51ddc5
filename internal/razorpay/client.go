// Package razorpay is a minimal Razorpay Orders API client covering what the
// bot needs: order creation with metadata notes and webhook signature checks.
package razorpay

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

const defaultAPIURL = "https://api.razorpay.com/v1"

// Client calls the Razorpay REST API with basic auth.
type Client struct {
	keyID      string
	keySecret  string
	apiURL     string
	httpClient *http.Client
}

// NewClient creates a Razorpay client for the given key pair.
func NewClient(keyID, keySecret string) *Client {
	return &Client{
		keyID:      keyID,
		keySecret:  keySecret,
		apiURL:     defaultAPIURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// WithBaseURL overrides the API base URL, used by tests.
func (c *Client) WithBaseURL(base string) *Client {
	c.apiURL = base
	return c
}

// OrderNotes is the metadata attached to an order so the webhook can map a
// captured payment back to the user and semester it unlocks.
type OrderNotes struct {
	UserID   string `json:"user_id"`
	ChatID   string `json:"chat_id"`
	Semester string `json:"semester"`
}

// CreateOrderRequest is the Orders API request body. Amount is in paise.
type CreateOrderRequest struct {
	Amount   int64      `json:"amount"`
	Currency string     `json:"currency"`
	Notes    OrderNotes `json:"notes"`
}

// Order is the subset of the Orders API response the bot uses.
type Order struct {
	ID       string     `json:"id"`
	Amount   int64      `json:"amount"`
	Currency string     `json:"currency"`
	Status   string     `json:"status"`
	Notes    OrderNotes `json:"notes"`
}

// CreateOrder creates an order for the given amount in rupees.
func (c *Client) CreateOrder(ctx context.Context, amountRupees int, notes OrderNotes) (*Order, error) {
	body := CreateOrderRequest{
		Amount:   int64(amountRupees) * 100,
		Currency: "INR",
		Notes:    notes,
	}

	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(body); err != nil {
		return nil, fmt.Errorf("encode order request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL+"/orders", &buf)
	if err != nil {
		return nil, fmt.Errorf("build order request: %w", err)
	}
	req.SetBasicAuth(c.keyID, c.keySecret)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return nil, fmt.Errorf("create order: unexpected status %s", resp.Status)
	}

	var order Order
	if err := json.NewDecoder(resp.Body).Decode(&order); err != nil {
		return nil, fmt.Errorf("decode order response: %w", err)
	}
	if order.ID == "" {
		return nil, fmt.Errorf("create order: response missing order id")
	}
	return &order, nil
}

// CheckoutURL returns the embedded checkout link for an order. A non-empty
// callbackURL is where the gateway redirects the browser after a successful
// payment.
func (c *Client) CheckoutURL(orderID, callbackURL string) string {
	link := fmt.Sprintf("%s/checkout/embedded?key_id=%s&order_id=%s",
		c.apiURL, url.QueryEscape(c.keyID), url.QueryEscape(orderID))
	if callbackURL != "" {
		link += "&callback_url=" + url.QueryEscape(callbackURL) + "&callback_method=get"
	}
	return link
}
