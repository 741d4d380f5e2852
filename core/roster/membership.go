package roster

import (
	"context"
	"strings"
	"time"

	"github.com/shsportal/backend/core"
	"github.com/shsportal/backend/core/audit"
	"github.com/shsportal/backend/core/directory"
)

// ListCandidates splits the enrolled students of the roster's school term into
// two disjoint pools: those not yet on the roster ("available") and current
// members ("enrolled"). `search` is an optional case-insensitive substring
// filter over full name and student ID.
func (svc *service) ListCandidates(ctx context.Context, rosterID, search string) (Candidates, error) {
	ros, err := svc.repo.GetRoster(ctx, rosterID)
	if err != nil {
		return Candidates{}, err
	}

	students, err := svc.dir.FindEnrolledStudents(ctx, ros.SchoolYear, ros.Semester)
	if err != nil {
		return Candidates{}, err
	}

	search = core.CleanString(search, true /* lower */)
	cands := Candidates{
		Available: make([]directory.Student, 0, len(students)),
		Enrolled:  make([]directory.Student, 0, len(ros.StudentIDs)),
	}
	for _, student := range students {
		if !matchesStudent(student, search) {
			continue
		}
		if ros.HasStudent(student.ID) {
			cands.Enrolled = append(cands.Enrolled, student)
		} else {
			cands.Available = append(cands.Available, student)
		}
	}
	return cands, nil
}

// AddStudent enrolls a student onto the roster with a fresh, empty grade
// entry. Adding a current member is a no-op success and never resets their
// entry. The membership change is atomic to concurrent readers and writers.
func (svc *service) AddStudent(ctx context.Context, rosterID, studentID string) (ClassRoster, error) {
	studentID = core.CleanString(studentID)
	if studentID == "" {
		return ClassRoster{}, core.NewValidationError(nil, core.FieldError{Field: "student_id", Error: "this field is required"})
	}

	var added bool
	updated, err := svc.repo.UpdateRoster(ctx, rosterID, func(ros *ClassRoster) error {
		if ros.HasStudent(studentID) {
			return nil // idempotent add
		}

		students, err := svc.dir.FindEnrolledStudents(ctx, ros.SchoolYear, ros.Semester)
		if err != nil {
			return err
		}
		var student directory.Student
		var eligible bool
		for _, s := range students {
			if s.ID == studentID {
				student, eligible = s, true
				break
			}
		}
		if !eligible {
			return core.NewValidationError(nil, core.FieldError{
				Field: "student_id",
				Error: "student is not enrolled for " + ros.SchoolYear + ", " + ros.Semester + " semester",
			})
		}

		ros.StudentIDs = append(ros.StudentIDs, studentID)
		ros.Entries[studentID] = &GradeEntry{
			StudentID:   studentID,
			StudentName: student.DisplayName(),
			CreatedAt:   time.Now().UTC(),
		}
		added = true
		return nil
	})
	if err != nil {
		return ClassRoster{}, err
	}

	if added {
		svc.auditSvc.Record(ctx, audit.Entry{
			Actor:     audit.ActorFromContext(ctx),
			Action:    audit.ActionStudentAdded,
			RosterID:  rosterID,
			StudentID: studentID,
		})
	}
	return updated, nil
}

// RemoveStudent takes a student off the roster and discards their grade entry,
// committed grades included, so the caller must pass an explicit confirmation
// flag. The student returns to the available pool as long as their enrollment
// still stands.
func (svc *service) RemoveStudent(ctx context.Context, rosterID, studentID string, confirm bool) (ClassRoster, error) {
	if !confirm {
		return ClassRoster{}, ErrConfirmationRequired
	}

	updated, err := svc.repo.UpdateRoster(ctx, rosterID, func(ros *ClassRoster) error {
		if !ros.HasStudent(studentID) {
			return ErrStudentNotFound
		}
		for i, id := range ros.StudentIDs {
			if id == studentID {
				ros.StudentIDs = append(ros.StudentIDs[:i], ros.StudentIDs[i+1:]...)
				break
			}
		}
		delete(ros.Entries, studentID)
		return nil
	})
	if err != nil {
		return ClassRoster{}, err
	}

	svc.auditSvc.Record(ctx, audit.Entry{
		Actor:     audit.ActorFromContext(ctx),
		Action:    audit.ActionStudentRemoved,
		RosterID:  rosterID,
		StudentID: studentID,
		Detail:    "grade entry discarded",
	})
	return updated, nil
}

func matchesStudent(student directory.Student, search string) bool {
	if search == "" {
		return true
	}
	return strings.Contains(strings.ToLower(student.DisplayName()), search) ||
		strings.Contains(strings.ToLower(student.ID), search)
}
