package web

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"log/slog"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/codecrafter02/papersbot/internal/config"
	"github.com/codecrafter02/papersbot/internal/logger"
	"github.com/codecrafter02/papersbot/internal/payment"
)

// Server is the HTTP sidecar next to the bot: gateway webhook, browser
// success page, health and metrics. Telegram traffic never passes through
// here; the bot owns its own transport.
type Server struct {
	http          *http.Server
	payments      *payment.Service
	webhookSecret string
}

func New(cfg config.ServerConfig, pay config.PaymentsConfig, payments *payment.Service) *Server {
	s := &Server{
		payments:      payments,
		webhookSecret: pay.WebhookSecret,
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/", s.handleHealth)
	r.Post("/payment_webhook", s.handlePaymentWebhook)
	r.Get("/payment_success", s.handlePaymentSuccess)
	r.Handle("/metrics", promhttp.Handler())

	s.http = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Listen, cfg.Port),
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	return s
}

// Handler exposes the routed handler, used by tests.
func (s *Server) Handler() http.Handler {
	return s.http.Handler
}

// Start blocks until the listener fails or Shutdown is called.
func (s *Server) Start() error {
	logger.Web.Info("http server listening",
		slog.String("event", "web.start"),
		slog.String("addr", s.http.Addr),
	)
	err := s.http.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("Bot is Live"))
}
