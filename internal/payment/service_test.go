package payment

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codecrafter02/papersbot/internal/logger"
	"github.com/codecrafter02/papersbot/internal/razorpay"
	"github.com/codecrafter02/papersbot/internal/store"
)

type fakeGateway struct {
	orders    int
	lastNotes razorpay.OrderNotes
	fail      bool
}

func (g *fakeGateway) CreateOrder(_ context.Context, amountRupees int, notes razorpay.OrderNotes) (*razorpay.Order, error) {
	if g.fail {
		return nil, errors.New("gateway down")
	}
	g.orders++
	g.lastNotes = notes
	return &razorpay.Order{
		ID:       fmt.Sprintf("order_%d", g.orders),
		Amount:   int64(amountRupees) * 100,
		Currency: "INR",
		Status:   "created",
		Notes:    notes,
	}, nil
}

func (g *fakeGateway) CheckoutURL(orderID, callbackURL string) string {
	url := "https://checkout.test/" + orderID
	if callbackURL != "" {
		url += "?cb=" + callbackURL
	}
	return url
}

type recordingNotifier struct {
	calls    int
	chatID   int64
	userID   int64
	semester string
}

func (n *recordingNotifier) PaymentConfirmed(_ context.Context, chatID, userID int64, semester string, _ int64) {
	n.calls++
	n.chatID = chatID
	n.userID = userID
	n.semester = semester
}

type failingEntitlements struct{}

func (failingEntitlements) IsPaid(context.Context, int64, string) (bool, error) {
	return false, errors.New("db down")
}
func (failingEntitlements) MarkPaid(context.Context, int64, string) error {
	return errors.New("db down")
}

func newTestService(t *testing.T) (*Service, *fakeGateway, *store.Store, *recordingNotifier) {
	t.Helper()
	gw := &fakeGateway{}
	st := store.NewMemory()
	n := &recordingNotifier{}
	svc := NewService(gw, st, 10, "https://bot.example.com")
	svc.SetNotifier(n)
	return svc, gw, st, n
}

func TestBeginCheckout(t *testing.T) {
	ctx := context.Background()
	svc, gw, st, _ := newTestService(t)

	url, err := svc.BeginCheckout(ctx, 42, 42, 777, "2nd Semester")
	require.NoError(t, err)
	assert.Contains(t, url, "order_1")
	assert.Contains(t, url, "payment_success")

	assert.Equal(t, "42", gw.lastNotes.UserID)
	assert.Equal(t, "2nd Semester", gw.lastNotes.Semester)

	pp, found, err := st.PendingPayments.Take(ctx, "order_1")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, int64(42), pp.UserID)
	assert.Equal(t, int64(777), pp.NavMessageID)
}

func TestBeginCheckoutGatewayFailure(t *testing.T) {
	svc, gw, _, _ := newTestService(t)
	gw.fail = true

	_, err := svc.BeginCheckout(context.Background(), 42, 42, 0, "2nd Semester")
	assert.Error(t, err)
}

func TestConfirmOrderFromPendingRecord(t *testing.T) {
	ctx := context.Background()
	svc, _, _, n := newTestService(t)

	_, err := svc.BeginCheckout(ctx, 42, 99, 777, "2nd Semester")
	require.NoError(t, err)

	conf, err := svc.ConfirmOrder(ctx, "order_1", razorpay.OrderNotes{})
	require.NoError(t, err)

	assert.Equal(t, int64(42), conf.UserID)
	assert.Equal(t, int64(99), conf.ChatID)
	assert.Equal(t, "2nd Semester", conf.Semester)
	assert.False(t, conf.AlreadyPaid)
	assert.True(t, svc.IsUnlocked(ctx, 42, "2nd Semester"))

	require.Equal(t, 1, n.calls)
	assert.Equal(t, int64(99), n.chatID)
	assert.Equal(t, "2nd Semester", n.semester)

	// Other semesters stay locked.
	assert.False(t, svc.IsUnlocked(ctx, 42, "3rd Semester"))
}

func TestConfirmOrderFallsBackToNotes(t *testing.T) {
	ctx := context.Background()
	svc, _, _, n := newTestService(t)

	conf, err := svc.ConfirmOrder(ctx, "order_unseen", razorpay.OrderNotes{
		UserID:   "42",
		ChatID:   "42",
		Semester: "5th Semester",
	})
	require.NoError(t, err)

	assert.Equal(t, int64(42), conf.UserID)
	assert.True(t, svc.IsUnlocked(ctx, 42, "5th Semester"))
	assert.Equal(t, 1, n.calls)
}

func TestConfirmOrderWithoutIdentity(t *testing.T) {
	svc, _, _, _ := newTestService(t)

	_, err := svc.ConfirmOrder(context.Background(), "order_unseen", razorpay.OrderNotes{})
	assert.Error(t, err)
}

func TestConfirmIsIdempotent(t *testing.T) {
	ctx := context.Background()
	svc, _, _, n := newTestService(t)

	_, err := svc.BeginCheckout(ctx, 42, 42, 0, "2nd Semester")
	require.NoError(t, err)

	// Webhook lands first, then the success redirect for the same payment.
	first, err := svc.ConfirmOrder(ctx, "order_1", razorpay.OrderNotes{
		UserID: "42", ChatID: "42", Semester: "2nd Semester",
	})
	require.NoError(t, err)
	assert.False(t, first.AlreadyPaid)

	second, err := svc.ConfirmDirect(ctx, 42, 42, "2nd Semester")
	require.NoError(t, err)
	assert.True(t, second.AlreadyPaid)

	assert.Equal(t, 1, n.calls, "only the first confirmation notifies the chat")
	assert.True(t, svc.IsUnlocked(ctx, 42, "2nd Semester"))
}

func TestIsUnlockedDegradesToLocked(t *testing.T) {
	st := store.NewMemory()
	st.Entitlements = failingEntitlements{}
	svc := NewService(&fakeGateway{}, st, 10, "")

	assert.False(t, svc.IsUnlocked(context.Background(), 42, "2nd Semester"))
}

type captureHandler struct {
	records []slog.Record
}

func (h *captureHandler) Enabled(context.Context, slog.Level) bool { return true }
func (h *captureHandler) Handle(_ context.Context, r slog.Record) error {
	h.records = append(h.records, r.Clone())
	return nil
}
func (h *captureHandler) WithAttrs([]slog.Attr) slog.Handler { return h }
func (h *captureHandler) WithGroup(string) slog.Handler      { return h }

func TestErrorLogsCarryRequestCorrelation(t *testing.T) {
	h := &captureHandler{}
	prev := logger.Pay
	logger.Pay = slog.New(h)
	t.Cleanup(func() { logger.Pay = prev })

	st := store.NewMemory()
	st.Entitlements = failingEntitlements{}
	svc := NewService(&fakeGateway{}, st, 10, "")

	ctx := logger.WithUpdateMeta(logger.WithRID(context.Background(), "10:99:42"), 10, 42, 99)
	svc.IsUnlocked(ctx, 42, "2nd Semester")

	require.Len(t, h.records, 1)
	var rid string
	h.records[0].Attrs(func(a slog.Attr) bool {
		if a.Key == "rid" {
			rid = a.Value.String()
		}
		return true
	})
	assert.Equal(t, "10:99:42", rid)
}
