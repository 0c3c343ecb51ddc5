package bot

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/codecrafter02/papersbot/internal/catalog"
)

func TestParseAction(t *testing.T) {
	cat := catalog.Default()

	tests := []struct {
		name string
		data string
		want Action
	}{
		{"semester", "2nd Semester", Action{Kind: ActionSemester, Semester: "2nd Semester"}},
		{"semester with telebot prefix", "\f2nd Semester", Action{Kind: ActionSemester, Semester: "2nd Semester"}},
		{"subject", "Biochemistry", Action{Kind: ActionSubject, Subject: "Biochemistry"}},
		{"back to semesters", "BACK_SEMESTERS", Action{Kind: ActionBackSemesters}},
		{"back to subjects", "BACK_SUBJECTS", Action{Kind: ActionBackSubjects}},
		{"check payment", "CHECK_PAYMENT_3rd Semester", Action{Kind: ActionCheckPayment, Semester: "3rd Semester"}},
		{"check payment unknown semester", "CHECK_PAYMENT_13th Semester", Action{Kind: ActionUnknown}},
		{"empty", "", Action{Kind: ActionUnknown}},
		{"garbage", "DROP TABLE", Action{Kind: ActionUnknown}},
		{"case mismatch is unknown", "2nd semester", Action{Kind: ActionUnknown}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseAction(cat, tt.data))
		})
	}
}
