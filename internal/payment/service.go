// Package payment orchestrates the per-(user, semester) unlock flow:
// Locked -> AwaitingPayment -> Paid. Paid is terminal; there is no refund or
// expiry.
package payment

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"log/slog"

	"github.com/codecrafter02/papersbot/internal/logger"
	"github.com/codecrafter02/papersbot/internal/razorpay"
	"github.com/codecrafter02/papersbot/internal/store"
)

// Gateway is the slice of the Razorpay client the orchestrator needs.
type Gateway interface {
	CreateOrder(ctx context.Context, amountRupees int, notes razorpay.OrderNotes) (*razorpay.Order, error)
	CheckoutURL(orderID, callbackURL string) string
}

// Notifier pushes payment outcomes back into the chat. Implemented by the bot
// layer; the gateway webhook and the success redirect both go through it.
type Notifier interface {
	PaymentConfirmed(ctx context.Context, chatID, userID int64, semester string, navMessageID int64)
}

// Confirmation identifies a payment that was matched to a user and semester.
type Confirmation struct {
	UserID       int64
	ChatID       int64
	Semester     string
	NavMessageID int64
	// AlreadyPaid reports that the entitlement existed before this event;
	// the gateway webhook and the user poll can race and both confirm.
	AlreadyPaid bool
}

// Service drives checkout creation and payment confirmation.
type Service struct {
	gateway      Gateway
	entitlements store.Entitlements
	pending      store.PendingPayments
	notifier     Notifier
	priceRupees  int
	// successBase is the externally reachable base URL for the post-payment
	// browser redirect; empty disables the callback.
	successBase string
}

// NewService wires the orchestrator. The notifier is attached later via
// SetNotifier because the bot layer is constructed after the service.
func NewService(gateway Gateway, st *store.Store, priceRupees int, successBaseURL string) *Service {
	return &Service{
		gateway:      gateway,
		entitlements: st.Entitlements,
		pending:      st.PendingPayments,
		priceRupees:  priceRupees,
		successBase:  strings.TrimRight(successBaseURL, "/"),
	}
}

// SetNotifier attaches the chat notifier.
func (s *Service) SetNotifier(n Notifier) {
	s.notifier = n
}

// PriceRupees returns the configured unlock price.
func (s *Service) PriceRupees() int {
	return s.priceRupees
}

// IsUnlocked reports whether the user already paid for the semester. A
// storage failure degrades to "not paid" so the bot stays responsive; the
// error is logged, not propagated.
func (s *Service) IsUnlocked(ctx context.Context, userID int64, semester string) bool {
	paid, err := s.entitlements.IsPaid(ctx, userID, semester)
	if err != nil {
		logger.LogCtx(ctx, logger.Pay, slog.LevelError, "entitlement check failed, defaulting to locked",
			slog.String("event", "entitlement.check"),
			slog.Int64("user_id", userID),
			slog.String("semester", semester),
			slog.String("err", err.Error()),
		)
		return false
	}
	return paid
}

// BeginCheckout moves (user, semester) from Locked to AwaitingPayment: it
// creates a gateway order carrying the user, chat, and semester as notes,
// records the pending payment, and returns the checkout link.
func (s *Service) BeginCheckout(ctx context.Context, userID, chatID, navMessageID int64, semester string) (string, error) {
	order, err := s.gateway.CreateOrder(ctx, s.priceRupees, razorpay.OrderNotes{
		UserID:   strconv.FormatInt(userID, 10),
		ChatID:   strconv.FormatInt(chatID, 10),
		Semester: semester,
	})
	if err != nil {
		return "", fmt.Errorf("begin checkout: %w", err)
	}

	err = s.pending.Put(ctx, store.PendingPayment{
		OrderID:      order.ID,
		UserID:       userID,
		ChatID:       chatID,
		Semester:     semester,
		NavMessageID: navMessageID,
	})
	if err != nil {
		// The order exists at the gateway; the notes metadata still lets the
		// webhook resolve it, so the checkout proceeds.
		logger.LogCtx(ctx, logger.Pay, slog.LevelError, "pending payment record failed",
			slog.String("event", "pending.put"),
			slog.String("order_id", order.ID),
			slog.String("err", err.Error()),
		)
	}

	logger.LogCtx(ctx, logger.Pay, slog.LevelInfo, "checkout created",
		slog.String("event", "checkout.created"),
		slog.String("order_id", order.ID),
		slog.Int64("user_id", userID),
		slog.String("semester", semester),
		slog.Int("amount_rupees", s.priceRupees),
	)
	return s.gateway.CheckoutURL(order.ID, s.successURL(userID, chatID, semester)), nil
}

// successURL builds the browser redirect target for a checkout; it carries
// the identity so the landing page can settle without waiting on the webhook.
func (s *Service) successURL(userID, chatID int64, semester string) string {
	if s.successBase == "" {
		return ""
	}
	return fmt.Sprintf("%s/payment_success?user_id=%d&chat_id=%d&semester=%s",
		s.successBase, userID, chatID, url.QueryEscape(semester))
}

// ConfirmOrder transitions AwaitingPayment to Paid for a gateway-confirmed
// order. The pending record is consumed when present; otherwise the order
// notes are the fallback identity. Confirming an already-paid pair is a
// no-op on the entitlement.
func (s *Service) ConfirmOrder(ctx context.Context, orderID string, notes razorpay.OrderNotes) (Confirmation, error) {
	pp, found, err := s.pending.Take(ctx, orderID)
	if err != nil {
		logger.LogCtx(ctx, logger.Pay, slog.LevelError, "pending payment lookup failed",
			slog.String("event", "pending.take"),
			slog.String("order_id", orderID),
			slog.String("err", err.Error()),
		)
	}

	conf := Confirmation{
		UserID:       pp.UserID,
		ChatID:       pp.ChatID,
		Semester:     pp.Semester,
		NavMessageID: pp.NavMessageID,
	}
	if !found {
		userID, _ := strconv.ParseInt(notes.UserID, 10, 64)
		chatID, _ := strconv.ParseInt(notes.ChatID, 10, 64)
		conf = Confirmation{UserID: userID, ChatID: chatID, Semester: notes.Semester}
	}
	if conf.UserID == 0 || conf.Semester == "" {
		return Confirmation{}, fmt.Errorf("confirm order %s: no pending record and incomplete notes", orderID)
	}

	return s.settle(ctx, conf)
}

// ConfirmDirect marks the entitlement paid from the success-redirect side
// channel, which carries the identity in query parameters instead of an
// order.
func (s *Service) ConfirmDirect(ctx context.Context, userID, chatID int64, semester string) (Confirmation, error) {
	return s.settle(ctx, Confirmation{UserID: userID, ChatID: chatID, Semester: semester})
}

func (s *Service) settle(ctx context.Context, conf Confirmation) (Confirmation, error) {
	already, err := s.entitlements.IsPaid(ctx, conf.UserID, conf.Semester)
	if err != nil {
		logger.LogCtx(ctx, logger.Pay, slog.LevelError, "entitlement pre-check failed",
			slog.String("event", "entitlement.check"),
			slog.Int64("user_id", conf.UserID),
			slog.String("semester", conf.Semester),
			slog.String("err", err.Error()),
		)
	}
	conf.AlreadyPaid = already

	if err := s.entitlements.MarkPaid(ctx, conf.UserID, conf.Semester); err != nil {
		return conf, fmt.Errorf("mark paid: %w", err)
	}

	logger.LogCtx(ctx, logger.Pay, slog.LevelInfo, "payment confirmed",
		slog.String("event", "payment.confirmed"),
		slog.Int64("user_id", conf.UserID),
		slog.String("semester", conf.Semester),
		slog.Bool("already_paid", conf.AlreadyPaid),
	)

	if s.notifier != nil && !conf.AlreadyPaid && conf.ChatID != 0 {
		s.notifier.PaymentConfirmed(ctx, conf.ChatID, conf.UserID, conf.Semester, conf.NavMessageID)
	}
	return conf, nil
}
