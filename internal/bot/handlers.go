package bot

import (
	"context"
	"fmt"

	"log/slog"

	tele "gopkg.in/telebot.v4"

	"github.com/codecrafter02/papersbot/internal/logger"
	"github.com/codecrafter02/papersbot/internal/metrics"
	"github.com/codecrafter02/papersbot/internal/store"
)

const promptRestart = "❗Please select a semester first using /start"

// requestContext carries the update's correlation metadata into the storage
// and payment layers.
func requestContext(c tele.Context) context.Context {
	ctx := context.Background()
	if rid, ok := c.Get("rid").(string); ok && rid != "" {
		ctx = logger.WithRID(ctx, rid)
	}
	chatID, userID := int64(0), int64(0)
	if chat := c.Chat(); chat != nil {
		chatID = chat.ID
	}
	if user := c.Sender(); user != nil {
		userID = user.ID
	}
	return logger.WithUpdateMeta(ctx, c.Update().ID, userID, chatID)
}

func (b *Bot) handleStart(c tele.Context) error {
	metrics.UpdatesProcessed.WithLabelValues("message").Inc()
	ctx := requestContext(c)

	welcome := fmt.Sprintf(
		"🎓 *Welcome to B.Pharm Study Material Bot!*\n\n"+
			"📚 Select your semester to get started:\n\n"+
			"💡 Each semester contains:\n"+
			"   • Previous Year Papers\n"+
			"   • Guess Papers\n"+
			"   • All Subjects\n\n"+
			"💰 One-time payment: ₹%d/semester",
		b.payments.PriceRupees(),
	)

	msg, err := b.tb.Send(c.Chat(), welcome, &tele.SendOptions{
		ParseMode:   tele.ModeMarkdown,
		ReplyMarkup: b.semesterMenu(),
	})
	if err != nil {
		return fmt.Errorf("send welcome: %w", err)
	}

	b.saveSession(ctx, store.Session{
		UserID:       c.Sender().ID,
		NavMessageID: int64(msg.ID),
	})
	return nil
}

func (b *Bot) handleCallback(c tele.Context) error {
	cb := c.Callback()
	if cb == nil || cb.Message == nil {
		return nil
	}
	metrics.UpdatesProcessed.WithLabelValues("callback").Inc()

	ctx := requestContext(c)
	chatID := c.Chat().ID
	userID := c.Sender().ID
	msgID := int64(cb.Message.ID)

	action := ParseAction(b.catalog, cb.Data)

	switch action.Kind {
	case ActionSemester:
		_ = c.Respond()
		return b.openSemester(ctx, chatID, userID, msgID, action.Semester)

	case ActionSubject:
		return b.deliverSubject(ctx, c, action.Subject)

	case ActionBackSubjects:
		_ = c.Respond()
		return b.backToSubjects(ctx, chatID, userID)

	case ActionBackSemesters:
		_ = c.Respond()
		return b.backToSemesters(ctx, chatID, userID, msgID)

	case ActionCheckPayment:
		return b.checkPayment(ctx, c, action.Semester)

	default:
		_ = c.Respond()
		return c.Send("❗Unknown command. Please use /start to begin.")
	}
}

// openSemester routes a semester selection: subjects when unlocked, the
// payment screen otherwise. The selection message becomes the navigation
// surface.
func (b *Bot) openSemester(ctx context.Context, chatID, userID, navMessageID int64, semester string) error {
	b.saveSession(ctx, store.Session{
		UserID:       userID,
		Semester:     semester,
		NavMessageID: navMessageID,
	})

	if b.payments.IsUnlocked(ctx, userID, semester) {
		return b.showSubjects(ctx, chatID, userID, navMessageID, semester)
	}
	return b.showPaymentScreen(ctx, chatID, userID, navMessageID, semester)
}

func (b *Bot) showSubjects(ctx context.Context, chatID, userID, navMessageID int64, semester string) error {
	text := fmt.Sprintf("📘 *%s*\n✅ Unlocked\n\nSelect a subject:", semester)
	newID, err := b.renderNav(chatID, navMessageID, text, b.subjectMenu(semester))
	if err != nil {
		return fmt.Errorf("render subjects: %w", err)
	}
	b.saveSession(ctx, store.Session{
		UserID:       userID,
		Semester:     semester,
		NavMessageID: newID,
	})
	return nil
}

func (b *Bot) showPaymentScreen(ctx context.Context, chatID, userID, navMessageID int64, semester string) error {
	checkoutURL, err := b.payments.BeginCheckout(ctx, userID, chatID, navMessageID, semester)
	if err != nil {
		logger.LogCtx(ctx, logger.Bot, slog.LevelError, "checkout creation failed",
			slog.String("event", "checkout"),
			slog.Int64("user_id", userID),
			slog.String("semester", semester),
			slog.String("err", err.Error()),
		)
		_, sendErr := b.tb.Send(tele.ChatID(chatID), "❌ Error creating payment. Please try again.")
		return sendErr
	}

	text := fmt.Sprintf(
		"🔒 *%s*\n\n"+
			"💰 Price: ₹%d (One-time payment)\n"+
			"✅ Lifetime access to all subjects\n"+
			"📚 Previous year papers + Guess papers\n\n"+
			"Click the button below to pay:",
		semester, b.payments.PriceRupees(),
	)

	newID, err := b.renderNav(chatID, navMessageID, text, paymentMenu(checkoutURL, semester, b.payments.PriceRupees()))
	if err != nil {
		return fmt.Errorf("render payment screen: %w", err)
	}
	b.saveSession(ctx, store.Session{
		UserID:       userID,
		Semester:     semester,
		NavMessageID: newID,
	})
	return nil
}

// deliverSubject gates the subject behind session and entitlement checks,
// then sends both documents and a fresh navigation message.
func (b *Bot) deliverSubject(ctx context.Context, c tele.Context, subject string) error {
	chatID := c.Chat().ID
	userID := c.Sender().ID
	msgID := int64(c.Callback().Message.ID)

	sess := b.session(ctx, userID)
	if sess.Semester == "" {
		_ = c.Respond()
		return c.Send(promptRestart)
	}
	if !b.catalog.HasSubject(sess.Semester, subject) {
		// The subject belongs to a different semester; stale keyboard.
		_ = c.Respond()
		return c.Send(promptRestart)
	}
	if !b.payments.IsUnlocked(ctx, userID, sess.Semester) {
		return c.Respond(&tele.CallbackResponse{
			Text:      "❌ Please pay to unlock this semester first!",
			ShowAlert: true,
		})
	}
	_ = c.Respond()

	sess.Subject = subject
	b.saveSession(ctx, sess)

	// Freeze the old navigation message so its keyboard disappears.
	selected := fmt.Sprintf("✅ Selected: *%s*", subject)
	if _, err := b.tb.Edit(storedMessage(chatID, msgID), selected, &tele.SendOptions{ParseMode: tele.ModeMarkdown}); err != nil {
		logger.Bot.Debug("freeze nav message failed",
			slog.String("event", "nav.freeze"),
			slog.Int64("chat_id", chatID),
			slog.String("err", err.Error()),
		)
	}

	loading, err := b.tb.Send(tele.ChatID(chatID),
		fmt.Sprintf("📂 Loading files for: *%s*...", subject),
		&tele.SendOptions{ParseMode: tele.ModeMarkdown})
	if err != nil {
		logger.Bot.Warn("loading message failed",
			slog.String("event", "send"),
			slog.String("err", err.Error()),
		)
	}

	b.sendSubjectFiles(chatID, sess.Semester, subject)

	nav, err := b.tb.Send(tele.ChatID(chatID),
		fmt.Sprintf("📂 Files sent for: *%s*\n\nChoose next action:", subject),
		&tele.SendOptions{ParseMode: tele.ModeMarkdown, ReplyMarkup: afterFilesMenu()})
	if err == nil {
		sess.NavMessageID = int64(nav.ID)
		b.saveSession(ctx, sess)
	}

	if loading != nil {
		if err := b.tb.Delete(loading); err != nil {
			logger.Bot.Debug("delete loading message failed",
				slog.String("event", "delete"),
				slog.String("err", err.Error()),
			)
		}
	}
	return nil
}

func (b *Bot) backToSubjects(ctx context.Context, chatID, userID int64) error {
	sess := b.session(ctx, userID)
	if sess.Semester == "" {
		_, err := b.tb.Send(tele.ChatID(chatID), promptRestart)
		return err
	}
	if !b.payments.IsUnlocked(ctx, userID, sess.Semester) {
		return b.showPaymentScreen(ctx, chatID, userID, sess.NavMessageID, sess.Semester)
	}
	return b.showSubjects(ctx, chatID, userID, sess.NavMessageID, sess.Semester)
}

func (b *Bot) backToSemesters(ctx context.Context, chatID, userID, msgID int64) error {
	sess := b.session(ctx, userID)
	navID := sess.NavMessageID
	if navID == 0 {
		navID = msgID
	}

	newID, err := b.renderNav(chatID, navID, "📚 Select Semester:", b.semesterMenu())
	if err != nil {
		return fmt.Errorf("render semesters: %w", err)
	}
	sess.UserID = userID
	sess.Semester = ""
	sess.Subject = ""
	sess.NavMessageID = newID
	b.saveSession(ctx, sess)
	return nil
}

// checkPayment is the user-initiated "I've paid" poll. It re-checks the
// entitlement store; the gateway webhook may have landed first, which makes
// both paths idempotent.
func (b *Bot) checkPayment(ctx context.Context, c tele.Context, semester string) error {
	chatID := c.Chat().ID
	userID := c.Sender().ID
	msgID := int64(c.Callback().Message.ID)

	if !b.payments.IsUnlocked(ctx, userID, semester) {
		return c.Respond(&tele.CallbackResponse{
			Text:      "⏳ Payment not confirmed yet. Complete the payment and try again.",
			ShowAlert: true,
		})
	}
	_ = c.Respond()
	metrics.PaymentsConfirmed.WithLabelValues("poll").Inc()
	return b.showSubjects(ctx, chatID, userID, msgID, semester)
}

// session loads the user session, degrading to an empty session on storage
// failure so the handler can still prompt a restart.
func (b *Bot) session(ctx context.Context, userID int64) store.Session {
	sess, err := b.sessions.Get(ctx, userID)
	if err != nil {
		logger.LogCtx(ctx, logger.Bot, slog.LevelError, "session load failed",
			slog.String("event", "session.get"),
			slog.Int64("user_id", userID),
			slog.String("err", err.Error()),
		)
		return store.Session{UserID: userID}
	}
	return sess
}

// saveSession persists the session; failures are logged and absorbed so a
// storage outage degrades navigation instead of breaking the handler.
func (b *Bot) saveSession(ctx context.Context, sess store.Session) {
	if err := b.sessions.Save(ctx, sess); err != nil {
		logger.LogCtx(ctx, logger.Bot, slog.LevelError, "session save failed",
			slog.String("event", "session.save"),
			slog.Int64("user_id", sess.UserID),
			slog.String("err", err.Error()),
		)
	}
}
