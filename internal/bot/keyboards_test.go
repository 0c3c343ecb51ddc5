package bot

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codecrafter02/papersbot/internal/catalog"
	"github.com/codecrafter02/papersbot/internal/papers"
)

func testBot() *Bot {
	return &Bot{
		catalog:     catalog.Default(),
		feedbackURL: "https://t.me/feedback",
	}
}

func TestSemesterMenu(t *testing.T) {
	b := testBot()
	semesters := b.catalog.Semesters()

	menu := b.semesterMenu()
	require.Len(t, menu.InlineKeyboard, len(semesters)+1, "one row per semester plus feedback")

	for i, sem := range semesters {
		row := menu.InlineKeyboard[i]
		require.Len(t, row, 1)
		assert.Equal(t, sem, row[0].Text)
		assert.Equal(t, sem, row[0].Data)
	}

	feedback := menu.InlineKeyboard[len(semesters)][0]
	assert.Equal(t, "https://t.me/feedback", feedback.URL)
	assert.Empty(t, feedback.Data)
}

func TestSemesterMenuWithoutFeedbackURL(t *testing.T) {
	b := testBot()
	b.feedbackURL = ""

	menu := b.semesterMenu()
	assert.Len(t, menu.InlineKeyboard, len(b.catalog.Semesters()))
}

func TestSubjectMenu(t *testing.T) {
	b := testBot()
	subjects := b.catalog.Subjects("2nd Semester")

	menu := b.subjectMenu("2nd Semester")
	require.Len(t, menu.InlineKeyboard, len(subjects)+1, "one row per subject plus back")

	for i, subject := range subjects {
		row := menu.InlineKeyboard[i]
		require.Len(t, row, 1)
		assert.Equal(t, subject, row[0].Text)
		assert.Equal(t, subject, row[0].Data)
	}

	back := menu.InlineKeyboard[len(subjects)][0]
	assert.Equal(t, dataBackSemesters, back.Data)
}

func TestSubjectMenuMatchesCatalogPerSemester(t *testing.T) {
	b := testBot()
	for _, sem := range b.catalog.Semesters() {
		menu := b.subjectMenu(sem)
		subjects := b.catalog.Subjects(sem)
		require.Len(t, menu.InlineKeyboard, len(subjects)+1, sem)
		for i, subject := range subjects {
			assert.Equal(t, subject, menu.InlineKeyboard[i][0].Data, sem)
		}
	}
}

func TestPaymentMenu(t *testing.T) {
	menu := paymentMenu("https://checkout.test/order_1", "2nd Semester", 10)
	require.Len(t, menu.InlineKeyboard, 3)

	pay := menu.InlineKeyboard[0][0]
	assert.Equal(t, "💳 Pay ₹10 to Unlock", pay.Text)
	assert.Equal(t, "https://checkout.test/order_1", pay.URL)

	poll := menu.InlineKeyboard[1][0]
	assert.Equal(t, dataCheckPaymentPrefix+"2nd Semester", poll.Data)

	back := menu.InlineKeyboard[2][0]
	assert.Equal(t, dataBackSemesters, back.Data)
}

func TestPaymentMenuPollRoundTripsThroughParse(t *testing.T) {
	cat := catalog.Default()
	menu := paymentMenu("https://checkout.test/order_1", "5th Semester", 10)

	action := ParseAction(cat, menu.InlineKeyboard[1][0].Data)
	assert.Equal(t, Action{Kind: ActionCheckPayment, Semester: "5th Semester"}, action)
}

func TestAfterFilesMenu(t *testing.T) {
	menu := afterFilesMenu()
	require.Len(t, menu.InlineKeyboard, 2)
	assert.Equal(t, dataBackSubjects, menu.InlineKeyboard[0][0].Data)
	assert.Equal(t, dataBackSemesters, menu.InlineKeyboard[1][0].Data)
}

func TestCaptionsAndMissingNotices(t *testing.T) {
	assert.Equal(t, "📄 Previous Year • Biochemistry", caption(papers.KindPrevious, "Biochemistry"))
	assert.Equal(t, "📝 Guess Paper • Biochemistry", caption(papers.KindGuess, "Biochemistry"))

	prev := missingNotice(papers.KindPrevious, "Biochemistry")
	guess := missingNotice(papers.KindGuess, "Biochemistry")
	assert.Equal(t, "❌ Previous year file not found for Biochemistry!", prev)
	assert.Equal(t, "❌ Guess paper not found for Biochemistry!", guess)
	assert.NotEqual(t, prev, guess, "each missing paper gets its own notice")
}

func TestDefaultCommands(t *testing.T) {
	cmds := defaultCommands()
	require.NotEmpty(t, cmds)
	for _, cmd := range cmds {
		assert.False(t, strings.HasPrefix(cmd.Text, "/"), "setMyCommands takes names without the slash")
		assert.Equal(t, strings.ToLower(cmd.Text), cmd.Text)
		assert.NotEmpty(t, cmd.Description)
	}
	assert.Equal(t, "start", cmds[0].Text)
}
