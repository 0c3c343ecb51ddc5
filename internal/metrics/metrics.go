// Package metrics exposes Prometheus counters shared by the bot handlers and
// the payment HTTP surface.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// UpdatesProcessed counts handled Telegram updates by kind.
	UpdatesProcessed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "papersbot_updates_processed_total",
		Help: "Telegram updates processed, by update kind.",
	}, []string{"kind"})

	// DocumentsSent counts delivered paper PDFs.
	DocumentsSent = promauto.NewCounter(prometheus.CounterOpts{
		Name: "papersbot_documents_sent_total",
		Help: "Paper documents delivered to users.",
	})

	// DocumentsMissing counts resolution probes that found no file.
	DocumentsMissing = promauto.NewCounter(prometheus.CounterOpts{
		Name: "papersbot_documents_missing_total",
		Help: "Paper lookups that found no file on disk.",
	})

	// PaymentsConfirmed counts confirmed semester unlocks by source.
	PaymentsConfirmed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "papersbot_payments_confirmed_total",
		Help: "Semester unlock confirmations, by source.",
	}, []string{"source"})

	// WebhookRejected counts payment webhook requests rejected at the
	// boundary.
	WebhookRejected = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "papersbot_payment_webhook_rejected_total",
		Help: "Payment webhook requests rejected before processing, by reason.",
	}, []string{"reason"})
)
