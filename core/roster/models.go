package roster

import (
	"sort"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/volatiletech/null/v8"

	"github.com/shsportal/backend/core"
	"github.com/shsportal/backend/core/directory"
)

// ClassRoster is the set of students assigned to one class offering
// (section × subject × semester × school year). At most one roster may exist
// per (SectionID, SubjectID, Semester, SchoolYear).
//
// The *Name fields are snapshots taken at write time: renaming a teacher or
// section in the directory never rewrites history.
type ClassRoster struct {
	ID          string                 `json:"id"`
	SectionID   string                 `json:"section_id"`
	SectionName string                 `json:"section_name"`
	SubjectID   string                 `json:"subject_id"`
	SubjectName string                 `json:"subject_name"`
	TeacherID   string                 `json:"teacher_id"`
	TeacherName string                 `json:"teacher_name"`
	GradeLevel  string                 `json:"grade_level"` // "Grade 11" | "Grade 12"
	Semester    string                 `json:"semester"`    // "1st" | "2nd"
	SchoolYear  string                 `json:"school_year"` // "YYYY-YYYY"
	StudentIDs  []string               `json:"student_ids"`
	Entries     map[string]*GradeEntry `json:"grade_entries,omitempty"` // keyed by student ID
	CreatedAt   time.Time              `json:"created_at"`              // UTC

	// EnrolledCount is len(StudentIDs); reported on creation so callers learn
	// how many students were auto-enrolled.
	EnrolledCount int `json:"enrolled_count"`
}

func (r *ClassRoster) HasStudent(studentID string) bool {
	_, ok := r.Entries[studentID]
	return ok
}

// SortedEntries returns the roster's grade entries in surname order
// (entry names are stored surname-first).
func (r *ClassRoster) SortedEntries() []GradeEntry {
	entries := make([]GradeEntry, 0, len(r.Entries))
	for _, e := range r.Entries {
		entries = append(entries, *e)
	}
	sort.SliceStable(entries, func(i, j int) bool {
		ni, nj := strings.ToLower(entries[i].StudentName), strings.ToLower(entries[j].StudentName)
		if ni != nj {
			return ni < nj
		}
		return entries[i].StudentID < entries[j].StudentID
	})
	return entries
}

// GradeEntry records one student's quarter grades within one roster. Each
// grade field is a two-state machine: absent (null) → set; there is no
// transition back, and no transition from one set value to another. FinalGrade
// and Rating are derived from the two quarter grades and inherit their
// immutability.
type GradeEntry struct {
	StudentID     string    `json:"student_id"`
	StudentName   string    `json:"student_name"` // snapshot, surname-first
	FirstQuarter  null.Int  `json:"first_quarter_grade"`
	SecondQuarter null.Int  `json:"second_quarter_grade"`
	FinalGrade    null.Int  `json:"final_grade"`
	Rating        string    `json:"rating"`
	Remarks       string    `json:"remarks"`
	CreatedAt     time.Time `json:"created_at"` // UTC
}

// NewRoster contains information needed to create a new ClassRoster.
type NewRoster struct {
	SectionID  string `json:"section_id" validate:"required"`
	SubjectID  string `json:"subject_id" validate:"required"`
	TeacherID  string `json:"teacher_id" validate:"required"`
	GradeLevel string `json:"grade_level" validate:"required,oneof='Grade 11' 'Grade 12'"`
	Semester   string `json:"semester" validate:"required,oneof=1st 2nd"`
	SchoolYear string `json:"school_year" validate:"required,schoolyear"`
}

func (nr *NewRoster) Validate(validate *validator.Validate) error {
	nr.SectionID = core.CleanString(nr.SectionID)
	nr.SubjectID = core.CleanString(nr.SubjectID)
	nr.TeacherID = core.CleanString(nr.TeacherID)
	nr.GradeLevel = core.CleanString(nr.GradeLevel)
	nr.Semester = core.CleanString(nr.Semester)
	nr.SchoolYear = core.CleanString(nr.SchoolYear)
	return validate.Struct(nr)
}

// GradeSubmission is one student's partial update: any subset of the two
// quarter grades and remarks. Absent fields are not targeted at all.
type GradeSubmission struct {
	StudentID     string      `json:"student_id"`
	FirstQuarter  null.Int    `json:"first_quarter_grade"`
	SecondQuarter null.Int    `json:"second_quarter_grade"`
	Remarks       null.String `json:"remarks"`
}

// targetsAnything reports whether the submission carries at least one field.
func (gs GradeSubmission) targetsAnything() bool {
	return gs.FirstQuarter.Valid || gs.SecondQuarter.Valid || gs.Remarks.Valid
}

// Candidates are the two disjoint pools presented by the membership editor.
type Candidates struct {
	Available []directory.Student `json:"available"`
	Enrolled  []directory.Student `json:"enrolled"`
}

// FieldState tells the UI whether a grade field must render read-only.
type FieldState string

const (
	FieldLocked   FieldState = "locked"   // committed, render read-only
	FieldEditable FieldState = "editable" // absent, render an input
)

func fieldState(committed bool) FieldState {
	if committed {
		return FieldLocked
	}
	return FieldEditable
}

// DisplayEntry is the readDisplayState projection of one GradeEntry.
type DisplayEntry struct {
	Entry         GradeEntry `json:"entry"`
	FirstQuarter  FieldState `json:"first_quarter_grade"`
	SecondQuarter FieldState `json:"second_quarter_grade"`
	Remarks       FieldState `json:"remarks"`
}

type QueryFilter struct {
	TeacherID  string `query:"teacher_id"`
	SectionID  string `query:"section_id"`
	Semester   string `query:"semester"`
	SchoolYear string `query:"school_year"`
}

func (qf *QueryFilter) IsEmpty() bool {
	return qf.TeacherID == "" && qf.SectionID == "" && qf.Semester == "" && qf.SchoolYear == ""
}

func (qf *QueryFilter) Clean() {
	qf.TeacherID = core.CleanString(qf.TeacherID)
	qf.SectionID = core.CleanString(qf.SectionID)
	qf.Semester = core.CleanString(qf.Semester)
	qf.SchoolYear = core.CleanString(qf.SchoolYear)
}
