package bot

import "strings"

// ActionKind tags the inbound callback actions. All callback payloads go
// through ParseAction exactly once; handlers switch on the resulting kind.
type ActionKind int

const (
	// ActionUnknown is any payload that matches nothing below.
	ActionUnknown ActionKind = iota
	// ActionSemester selects a catalog semester.
	ActionSemester
	// ActionSubject selects a subject within the session's semester.
	ActionSubject
	// ActionBackSemesters returns to the semester menu.
	ActionBackSemesters
	// ActionBackSubjects returns to the subject menu of the session's
	// semester.
	ActionBackSubjects
	// ActionCheckPayment is the user-initiated "I've paid" poll for a
	// semester.
	ActionCheckPayment
)

// Callback payload sentinels, kept wire-compatible with the original bot so
// stale keyboards from before a redeploy still resolve.
const (
	dataBackSemesters      = "BACK_SEMESTERS"
	dataBackSubjects       = "BACK_SUBJECTS"
	dataCheckPaymentPrefix = "CHECK_PAYMENT_"
)

// Action is the parsed form of a callback payload.
type Action struct {
	Kind     ActionKind
	Semester string
	Subject  string
}

// SemesterLookup is the slice of the catalog ParseAction needs.
type SemesterLookup interface {
	HasSemester(semester string) bool
	IsSubject(subject string) bool
}

// ParseAction maps an opaque callback payload to a tagged Action. Semester
// labels win over everything, then the fixed sentinels, then subject names;
// anything else is unknown.
func ParseAction(catalog SemesterLookup, data string) Action {
	// Telebot prefixes callback data it generated itself.
	data = strings.TrimPrefix(strings.TrimSpace(data), "\f")

	switch {
	case data == "":
		return Action{Kind: ActionUnknown}
	case catalog.HasSemester(data):
		return Action{Kind: ActionSemester, Semester: data}
	case data == dataBackSemesters:
		return Action{Kind: ActionBackSemesters}
	case data == dataBackSubjects:
		return Action{Kind: ActionBackSubjects}
	case strings.HasPrefix(data, dataCheckPaymentPrefix):
		semester := strings.TrimPrefix(data, dataCheckPaymentPrefix)
		if !catalog.HasSemester(semester) {
			return Action{Kind: ActionUnknown}
		}
		return Action{Kind: ActionCheckPayment, Semester: semester}
	case catalog.IsSubject(data):
		return Action{Kind: ActionSubject, Subject: data}
	default:
		return Action{Kind: ActionUnknown}
	}
}
