// Package bot wires the Telegram side of the past-papers service: command and
// callback handling, menu rendering, navigation-message tracking, and
// document delivery.
package bot

import (
	"fmt"
	"time"

	"log/slog"

	tele "gopkg.in/telebot.v4"

	"github.com/codecrafter02/papersbot/internal/catalog"
	"github.com/codecrafter02/papersbot/internal/config"
	"github.com/codecrafter02/papersbot/internal/logger"
	"github.com/codecrafter02/papersbot/internal/papers"
	"github.com/codecrafter02/papersbot/internal/payment"
	"github.com/codecrafter02/papersbot/internal/store"
	"github.com/codecrafter02/papersbot/internal/telegram"
)

// Bot owns the telebot instance and all handler state.
type Bot struct {
	tb          *tele.Bot
	catalog     *catalog.Catalog
	resolver    *papers.Resolver
	sessions    store.Sessions
	payments    *payment.Service
	feedbackURL string
}

// New builds the bot, its poller, and registers all routes.
func New(cfg *config.Config, cat *catalog.Catalog, st *store.Store, payments *payment.Service) (*Bot, error) {
	tb, err := tele.NewBot(tele.Settings{
		Token:  cfg.Telegram.Token,
		Poller: telegram.BuildPoller(cfg),
		Client: telegram.BuildHTTPClient(),
	})
	if err != nil {
		return nil, fmt.Errorf("bot initialization failed: %w", err)
	}

	b := &Bot{
		tb:          tb,
		catalog:     cat,
		resolver:    papers.NewResolver(cfg.Content.PaperFolder),
		sessions:    st.Sessions,
		payments:    payments,
		feedbackURL: cfg.Content.FeedbackURL,
	}

	tb.Use(telegram.RecoverMiddleware)
	if interval := time.Duration(cfg.RateLimit.IntervalMS) * time.Millisecond; interval > 0 {
		tb.Use(telegram.RateLimitMiddleware(interval))
	}
	tb.Use(telegram.LoggerMiddleware)

	tb.Handle("/start", b.handleStart)
	tb.Handle(tele.OnCallback, b.handleCallback)

	if err := tb.SetCommands(defaultCommands()); err != nil {
		logger.Bot.Warn("set commands failed",
			slog.String("event", "wire"),
			slog.String("err", err.Error()),
		)
	}

	return b, nil
}

// defaultCommands is the command menu registered with setMyCommands, which
// takes command names without the leading slash.
func defaultCommands() []tele.Command {
	return []tele.Command{
		{Text: "start", Description: "Show the semester menu"},
	}
}

// Start runs the update loop; it blocks until Stop is called.
func (b *Bot) Start() {
	logger.Bot.Info("bot started",
		slog.String("event", "start"),
		slog.String("username", b.tb.Me.Username),
	)
	b.tb.Start()
}

// Stop terminates the update loop.
func (b *Bot) Stop() {
	b.tb.Stop()
}
