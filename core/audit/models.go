package audit

import "time"

// Actions recorded against a roster.
const (
	ActionRosterCreated  = "roster.created"
	ActionRosterDeleted  = "roster.deleted"
	ActionStudentAdded   = "roster.student_added"
	ActionStudentRemoved = "roster.student_removed"
	ActionGradesRecorded = "roster.grades_recorded"
)

type Entry struct {
	ID        string    `json:"id"`
	Actor     string    `json:"actor"` // subject of the caller's token; "" for tooling
	Action    string    `json:"action"`
	RosterID  string    `json:"roster_id"`
	StudentID string    `json:"student_id,omitempty"`
	Detail    string    `json:"detail"`
	CreatedAt time.Time `json:"created_at"` // UTC
}

// PageQuery carries caller-owned cursor state; two concurrent queries never
// share position.
type PageQuery struct {
	RosterID string `query:"roster_id"`
	Cursor   string `query:"cursor"`
	Limit    int    `query:"limit"`
}

type Page struct {
	Entries    []Entry `json:"entries"`
	NextCursor string  `json:"next_cursor,omitempty"`
}
