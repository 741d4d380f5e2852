package directory

import "strings"

// Grade levels offered by the senior-high department.
const (
	GradeLevel11 = "Grade 11"
	GradeLevel12 = "Grade 12"
)

// Semesters of a school year.
const (
	Semester1st = "1st"
	Semester2nd = "2nd"
)

// EnrollmentStatusApproved marks an enrollment accepted by the registrar.
// Records in any other status are invisible to the roster core.
const EnrollmentStatusApproved = "approved"

type Strand struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type Section struct {
	ID         string `json:"id"`
	StrandID   string `json:"strand_id"`
	Name       string `json:"name"`
	GradeLevel string `json:"grade_level"`
}

type Subject struct {
	ID         string `json:"id"`
	StrandID   string `json:"strand_id"`
	Name       string `json:"name"`
	GradeLevel string `json:"grade_level"`
	Semester   string `json:"semester"`
}

type Teacher struct {
	ID        string `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
}

// FullName returns "FirstName LastName".
func (t Teacher) FullName() string {
	return strings.TrimSpace(t.FirstName + " " + t.LastName)
}

type Student struct {
	ID         string `json:"id"`
	FirstName  string `json:"first_name"`
	MiddleName string `json:"middle_name"`
	LastName   string `json:"last_name"`
}

// DisplayName returns "LastName, FirstName MiddleName", the surname-first form
// used on rosters and grade sheets.
func (s Student) DisplayName() string {
	name := s.LastName + ", " + s.FirstName
	if s.MiddleName != "" {
		name += " " + s.MiddleName
	}
	return name
}

// EnrollmentRecord associates a student with one (section, schoolYear, semester)
// at a time. It is owned by the enrollment-approval workflow; this core only
// ever reads it.
type EnrollmentRecord struct {
	StudentID  string `json:"student_id"`
	SectionID  string `json:"section_id"`
	SchoolYear string `json:"school_year"`
	Semester   string `json:"semester"`
	Status     string `json:"status"`
}
