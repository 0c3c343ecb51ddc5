package bot

import (
	"fmt"

	tele "gopkg.in/telebot.v4"
)

// column builds a single-column inline keyboard from prepared rows.
func column(rows ...[]tele.InlineButton) *tele.ReplyMarkup {
	return &tele.ReplyMarkup{InlineKeyboard: rows}
}

func dataRow(text, data string) []tele.InlineButton {
	return []tele.InlineButton{{Text: text, Data: data}}
}

func urlRow(text, url string) []tele.InlineButton {
	return []tele.InlineButton{{Text: text, URL: url}}
}

// semesterMenu renders one button per catalog semester plus the fixed
// feedback link.
func (b *Bot) semesterMenu() *tele.ReplyMarkup {
	var rows [][]tele.InlineButton
	for _, sem := range b.catalog.Semesters() {
		rows = append(rows, dataRow(sem, sem))
	}
	if b.feedbackURL != "" {
		rows = append(rows, urlRow("📩 Feedback", b.feedbackURL))
	}
	return column(rows...)
}

// subjectMenu renders one button per subject of the semester, with the back
// escape appended.
func (b *Bot) subjectMenu(semester string) *tele.ReplyMarkup {
	var rows [][]tele.InlineButton
	for _, subject := range b.catalog.Subjects(semester) {
		rows = append(rows, dataRow(subject, subject))
	}
	rows = append(rows, dataRow("🔙 Back to Semesters", dataBackSemesters))
	return column(rows...)
}

// paymentMenu renders the checkout link, the "I've paid" poll button, and the
// back escape for a locked semester.
func paymentMenu(checkoutURL, semester string, priceRupees int) *tele.ReplyMarkup {
	return column(
		urlRow(fmt.Sprintf("💳 Pay ₹%d to Unlock", priceRupees), checkoutURL),
		dataRow("✅ I've Paid", dataCheckPaymentPrefix+semester),
		dataRow("🔙 Back to Semesters", dataBackSemesters),
	)
}

// afterFilesMenu is the navigation keyboard sent after document delivery.
func afterFilesMenu() *tele.ReplyMarkup {
	return column(
		dataRow("⬅ Back to Subjects", dataBackSubjects),
		dataRow("🔙 Back to Semesters", dataBackSemesters),
	)
}
