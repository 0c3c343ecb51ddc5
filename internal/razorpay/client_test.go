package razorpay

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateOrder(t *testing.T) {
	var got CreateOrderRequest

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/orders", r.URL.Path)

		user, pass, ok := r.BasicAuth()
		require.True(t, ok)
		assert.Equal(t, "rzp_test_key", user)
		assert.Equal(t, "rzp_test_secret", pass)

		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(Order{
			ID:       "order_xyz",
			Amount:   got.Amount,
			Currency: got.Currency,
			Status:   "created",
			Notes:    got.Notes,
		})
	}))
	defer srv.Close()

	c := NewClient("rzp_test_key", "rzp_test_secret").WithBaseURL(srv.URL)

	order, err := c.CreateOrder(context.Background(), 10, OrderNotes{
		UserID:   "42",
		ChatID:   "42",
		Semester: "2nd Semester",
	})
	require.NoError(t, err)

	assert.Equal(t, "order_xyz", order.ID)
	assert.Equal(t, int64(1000), got.Amount, "amount is sent in paise")
	assert.Equal(t, "INR", got.Currency)
	assert.Equal(t, "2nd Semester", got.Notes.Semester)
}

func TestCreateOrderErrors(t *testing.T) {
	t.Run("gateway error status", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			http.Error(w, `{"error":{"code":"BAD_REQUEST_ERROR"}}`, http.StatusBadRequest)
		}))
		defer srv.Close()

		c := NewClient("k", "s").WithBaseURL(srv.URL)
		_, err := c.CreateOrder(context.Background(), 10, OrderNotes{})
		assert.Error(t, err)
	})

	t.Run("missing order id", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(`{}`))
		}))
		defer srv.Close()

		c := NewClient("k", "s").WithBaseURL(srv.URL)
		_, err := c.CreateOrder(context.Background(), 10, OrderNotes{})
		assert.Error(t, err)
	})
}

func TestCheckoutURL(t *testing.T) {
	c := NewClient("rzp_test_key", "secret")

	plain := c.CheckoutURL("order_xyz", "")
	assert.Equal(t,
		"https://api.razorpay.com/v1/checkout/embedded?key_id=rzp_test_key&order_id=order_xyz",
		plain)

	withCallback := c.CheckoutURL("order_xyz", "https://bot.example.com/payment_success?user_id=42&chat_id=42&semester=2nd+Semester")
	assert.Contains(t, withCallback, "callback_url=https%3A%2F%2Fbot.example.com%2Fpayment_success")
	assert.Contains(t, withCallback, "callback_method=get")
}
