package bot

import (
	"fmt"
	"path/filepath"

	"log/slog"

	tele "gopkg.in/telebot.v4"

	"github.com/codecrafter02/papersbot/internal/logger"
	"github.com/codecrafter02/papersbot/internal/metrics"
	"github.com/codecrafter02/papersbot/internal/papers"
)

// sendSubjectFiles delivers both papers for the subject, one message per
// file. A missing file turns into a chat notice instead of an error so the
// other paper still goes out.
func (b *Bot) sendSubjectFiles(chatID int64, semester, subject string) {
	for _, paper := range b.resolver.Resolve(semester, subject) {
		if !paper.Exists {
			metrics.DocumentsMissing.Inc()
			logger.Bot.Warn("paper file missing",
				slog.String("event", "document"),
				slog.String("semester", semester),
				slog.String("subject", subject),
				slog.String("path", paper.Path),
			)
			if _, err := b.tb.Send(tele.ChatID(chatID), missingNotice(paper.Kind, subject)); err != nil {
				logger.Bot.Warn("missing-file notice failed",
					slog.String("event", "send"),
					slog.String("err", err.Error()),
				)
			}
			continue
		}

		doc := &tele.Document{
			File:     tele.FromDisk(paper.Path),
			FileName: filepath.Base(paper.Path),
			Caption:  caption(paper.Kind, subject),
		}
		if _, err := b.tb.Send(tele.ChatID(chatID), doc); err != nil {
			logger.Bot.Error("document send failed",
				slog.String("event", "document"),
				slog.String("path", paper.Path),
				slog.String("err", err.Error()),
			)
			continue
		}
		metrics.DocumentsSent.Inc()
	}
}

func caption(kind papers.Kind, subject string) string {
	if kind == papers.KindGuess {
		return fmt.Sprintf("📝 Guess Paper • %s", subject)
	}
	return fmt.Sprintf("📄 Previous Year • %s", subject)
}

func missingNotice(kind papers.Kind, subject string) string {
	if kind == papers.KindGuess {
		return fmt.Sprintf("❌ Guess paper not found for %s!", subject)
	}
	return fmt.Sprintf("❌ Previous year file not found for %s!", subject)
}
