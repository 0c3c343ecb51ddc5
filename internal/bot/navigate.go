package bot

import (
	"errors"
	"strconv"

	"log/slog"

	tele "gopkg.in/telebot.v4"

	"github.com/codecrafter02/papersbot/internal/logger"
)

func storedMessage(chatID, messageID int64) tele.Editable {
	return &tele.StoredMessage{
		MessageID: strconv.FormatInt(messageID, 10),
		ChatID:    chatID,
	}
}

// renderNav updates the tracked navigation message in place. An edit rejected
// because the content is unchanged counts as success; any other rejection
// falls back to sending a fresh message. The returned id is the message now
// carrying the menu; callers re-point the session at it.
func (b *Bot) renderNav(chatID, navMessageID int64, text string, markup *tele.ReplyMarkup) (int64, error) {
	opts := &tele.SendOptions{ParseMode: tele.ModeMarkdown, ReplyMarkup: markup}

	if navMessageID != 0 {
		_, err := b.tb.Edit(storedMessage(chatID, navMessageID), text, opts)
		if err == nil || errors.Is(err, tele.ErrSameMessageContent) {
			return navMessageID, nil
		}
		logger.Bot.Debug("nav edit failed, sending new message",
			slog.String("event", "nav.replace"),
			slog.Int64("chat_id", chatID),
			slog.Int64("nav_message_id", navMessageID),
			slog.String("err", err.Error()),
		)
	}

	msg, err := b.tb.Send(tele.ChatID(chatID), text, opts)
	if err != nil {
		return navMessageID, err
	}
	return int64(msg.ID), nil
}
