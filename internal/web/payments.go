package web

import (
	"encoding/json"
	"io"
	"net/http"
	"strconv"

	"log/slog"

	"github.com/go-chi/render"

	"github.com/codecrafter02/papersbot/internal/logger"
	"github.com/codecrafter02/papersbot/internal/metrics"
	"github.com/codecrafter02/papersbot/internal/razorpay"
)

// maxWebhookBody bounds the gateway payload; real events are well under 64KB.
const maxWebhookBody = 1 << 20

// webhookEvent mirrors the slice of the Razorpay event envelope we act on.
type webhookEvent struct {
	Event   string `json:"event"`
	Payload struct {
		Payment struct {
			Entity struct {
				OrderID string              `json:"order_id"`
				Notes   razorpay.OrderNotes `json:"notes"`
			} `json:"entity"`
		} `json:"payment"`
		PaymentLink struct {
			Entity struct {
				OrderID string              `json:"order_id"`
				Notes   razorpay.OrderNotes `json:"notes"`
			} `json:"entity"`
		} `json:"payment_link"`
	} `json:"payload"`
}

// handlePaymentWebhook verifies the gateway signature and settles the order.
// Every outcome past the signature check returns 200: Razorpay retries
// non-2xx responses, and a malformed or already-settled event gains nothing
// from a retry.
func (s *Server) handlePaymentWebhook(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxWebhookBody))
	if err != nil {
		metrics.WebhookRejected.WithLabelValues("read").Inc()
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, map[string]string{"status": "bad request"})
		return
	}

	signature := r.Header.Get("X-Razorpay-Signature")
	if !razorpay.VerifyWebhookSignature(body, signature, s.webhookSecret) {
		metrics.WebhookRejected.WithLabelValues("signature").Inc()
		logger.Web.Warn("webhook signature rejected",
			slog.String("event", "payment.webhook"),
			slog.String("remote", r.RemoteAddr),
		)
		render.Status(r, http.StatusUnauthorized)
		render.JSON(w, r, map[string]string{"status": "invalid signature"})
		return
	}

	var evt webhookEvent
	if err := json.Unmarshal(body, &evt); err != nil {
		metrics.WebhookRejected.WithLabelValues("malformed").Inc()
		logger.Web.Warn("webhook payload malformed",
			slog.String("event", "payment.webhook"),
			slog.String("err", err.Error()),
		)
		render.JSON(w, r, map[string]string{"status": "ignored"})
		return
	}

	switch evt.Event {
	case "payment.captured", "payment_link.paid":
	default:
		render.JSON(w, r, map[string]string{"status": "ignored"})
		return
	}

	orderID := evt.Payload.Payment.Entity.OrderID
	notes := evt.Payload.Payment.Entity.Notes
	if orderID == "" {
		orderID = evt.Payload.PaymentLink.Entity.OrderID
		notes = evt.Payload.PaymentLink.Entity.Notes
	}
	if orderID == "" {
		metrics.WebhookRejected.WithLabelValues("no_order").Inc()
		render.JSON(w, r, map[string]string{"status": "ignored"})
		return
	}

	conf, err := s.payments.ConfirmOrder(r.Context(), orderID, notes)
	if err != nil {
		logger.Web.Error("webhook settlement failed",
			slog.String("event", "payment.webhook"),
			slog.String("order_id", orderID),
			slog.String("err", err.Error()),
		)
		render.JSON(w, r, map[string]string{"status": "error"})
		return
	}

	if !conf.AlreadyPaid {
		metrics.PaymentsConfirmed.WithLabelValues("webhook").Inc()
	}
	logger.Web.Info("payment settled via webhook",
		slog.String("event", "payment.webhook"),
		slog.String("order_id", orderID),
		slog.Int64("user_id", conf.UserID),
		slog.String("semester", conf.Semester),
		slog.Bool("already_paid", conf.AlreadyPaid),
	)
	render.JSON(w, r, map[string]string{"status": "ok"})
}

// handlePaymentSuccess is the browser landing page after checkout. It marks
// the entitlement directly so the user is unlocked even if the webhook is
// delayed or lost.
func (s *Server) handlePaymentSuccess(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	userID, _ := strconv.ParseInt(q.Get("user_id"), 10, 64)
	chatID, _ := strconv.ParseInt(q.Get("chat_id"), 10, 64)
	semester := q.Get("semester")

	w.Header().Set("Content-Type", "text/html; charset=utf-8")

	if userID == 0 || semester == "" {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(successPage("⚠️ Missing payment details", "Return to the Telegram bot and tap “I've Paid”.")))
		return
	}

	conf, err := s.payments.ConfirmDirect(r.Context(), userID, chatID, semester)
	if err != nil {
		logger.Web.Error("redirect settlement failed",
			slog.String("event", "payment.redirect"),
			slog.Int64("user_id", userID),
			slog.String("semester", semester),
			slog.String("err", err.Error()),
		)
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(successPage("⚠️ Something went wrong", "Return to the Telegram bot and tap “I've Paid”.")))
		return
	}

	if !conf.AlreadyPaid {
		metrics.PaymentsConfirmed.WithLabelValues("redirect").Inc()
	}
	_, _ = w.Write([]byte(successPage("✅ Payment Successful!", semester+" is unlocked. Head back to the Telegram bot to download your papers.")))
}

func successPage(title, detail string) string {
	return `<!DOCTYPE html>
<html>
<head>
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>` + title + `</title>
<style>
body { font-family: sans-serif; text-align: center; padding: 48px 16px; background: #f5f7fa; }
.card { max-width: 420px; margin: 0 auto; background: #fff; border-radius: 12px; padding: 32px; box-shadow: 0 2px 8px rgba(0,0,0,.08); }
h1 { font-size: 1.4em; }
</style>
</head>
<body>
<div class="card">
<h1>` + title + `</h1>
<p>` + detail + `</p>
</div>
</body>
</html>`
}
