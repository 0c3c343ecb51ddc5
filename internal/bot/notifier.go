package bot

import (
	"context"
	"fmt"

	"log/slog"

	tele "gopkg.in/telebot.v4"

	"github.com/codecrafter02/papersbot/internal/logger"
	"github.com/codecrafter02/papersbot/internal/store"
)

// PaymentConfirmed announces a settled payment in the user's chat and swaps
// the payment screen for the subject menu. Called from the payment service
// once the entitlement is persisted, so delivery failures here are
// cosmetic and only logged.
func (b *Bot) PaymentConfirmed(ctx context.Context, chatID, userID int64, semester string, navMessageID int64) {
	success := fmt.Sprintf(
		"✅ *Payment Successful!*\n\n🎉 *%s Unlocked!*\n\nSelect a subject below to download your papers 👇",
		semester,
	)
	if _, err := b.tb.Send(tele.ChatID(chatID), success, &tele.SendOptions{ParseMode: tele.ModeMarkdown}); err != nil {
		logger.Bot.Warn("payment confirmation message failed",
			slog.String("event", "payment.notify"),
			slog.Int64("chat_id", chatID),
			slog.String("err", err.Error()),
		)
	}

	if navMessageID == 0 {
		if sess := b.session(ctx, userID); sess.NavMessageID != 0 {
			navMessageID = sess.NavMessageID
		}
	}

	text := fmt.Sprintf("📘 *%s*\n✅ Unlocked\n\nSelect a subject:", semester)
	newID, err := b.renderNav(chatID, navMessageID, text, b.subjectMenu(semester))
	if err != nil {
		logger.Bot.Warn("post-payment menu render failed",
			slog.String("event", "payment.notify"),
			slog.Int64("chat_id", chatID),
			slog.String("err", err.Error()),
		)
		return
	}
	b.saveSession(ctx, store.Session{
		UserID:       userID,
		Semester:     semester,
		NavMessageID: newID,
	})
}
