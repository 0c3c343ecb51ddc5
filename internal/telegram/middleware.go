package telegram

import (
	"runtime/debug"
	"sync"
	"time"

	"log/slog"

	tele "gopkg.in/telebot.v4"

	"github.com/codecrafter02/papersbot/internal/logger"
)

// RecoverMiddleware catches panics in handlers and prevents the bot from
// crashing. Nothing in the bot is fatal to the process.
func RecoverMiddleware(next tele.HandlerFunc) tele.HandlerFunc {
	return func(c tele.Context) error {
		defer func() {
			if r := recover(); r != nil {
				logger.Bot.Error("panic recovered",
					slog.String("event", "panic"),
					slog.Any("err", r),
					slog.String("stack", string(debug.Stack())),
				)
			}
		}()
		return next(c)
	}
}

// LoggerMiddleware logs one receipt line per update and stores a correlation
// id on the context for downstream handlers.
func LoggerMiddleware(next tele.HandlerFunc) tele.HandlerFunc {
	return func(c tele.Context) error {
		upd := c.Update()
		chatID, userID := int64(0), int64(0)
		if chat := c.Chat(); chat != nil {
			chatID = chat.ID
		}
		if user := c.Sender(); user != nil {
			userID = user.ID
		}

		rid := logger.BuildRID(upd.ID, chatID, userID)
		c.Set("rid", rid)
		c.Set("update_start", time.Now())

		attrs := []any{
			slog.String("event", "update.received"),
			slog.String("rid", rid),
			slog.Int("update_id", upd.ID),
			slog.Int64("chat_id", chatID),
			slog.Int64("user_id", userID),
		}
		switch {
		case upd.Callback != nil:
			attrs = append(attrs, slog.String("payload", logger.SanitizeLimit(upd.Callback.Data, 256)))
		case upd.Message != nil:
			attrs = append(attrs, slog.String("payload", logger.SanitizeLimit(c.Text(), 256)))
		}
		logger.Bot.Debug("update received", attrs...)

		return next(c)
	}
}

// RateLimitMiddleware enforces a minimum interval between updates from the
// same user. Limited updates are dropped silently.
func RateLimitMiddleware(interval time.Duration) tele.MiddlewareFunc {
	var (
		lastSeen   = make(map[int64]time.Time)
		lastSeenMu sync.Mutex
	)
	return func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			user := c.Sender()
			if user == nil || interval <= 0 {
				return next(c)
			}

			now := time.Now()
			lastSeenMu.Lock()
			if last, ok := lastSeen[user.ID]; ok && now.Sub(last) < interval {
				lastSeenMu.Unlock()
				logger.Bot.Warn("rate limit",
					slog.String("event", "rate_limit"),
					slog.Int64("user_id", user.ID),
				)
				return nil
			}
			lastSeen[user.ID] = now
			lastSeenMu.Unlock()
			return next(c)
		}
	}
}
