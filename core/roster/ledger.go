package roster

import (
	"context"
	"fmt"
	"math"
	"net/mail"
	"strings"

	"github.com/volatiletech/null/v8"

	"github.com/shsportal/backend/core"
	"github.com/shsportal/backend/core/audit"
)

// Valid range for a submitted quarter grade, closed interval.
const (
	GradeMin = 75
	GradeMax = 100
)

// Honor ratings derived from the final grade.
const (
	RatingHighestHonors = "With Highest Honors" // final >= 98
	RatingHighHonors    = "With High Honors"    // 95 <= final < 98
	RatingHonors        = "With Honors"         // 90 <= final < 95
)

// SubmitGrades applies a batch of per-student partial updates to the roster's
// grade ledger. The whole batch validates before anything is written; every
// targeted field follows the write-once rule (a committed value wins over the
// submission, unconditionally); final grades and ratings are derived once both
// quarters are committed; and a batch that commits nothing at all fails with
// ErrNoChanges instead of reporting a misleading successful save.
func (svc *service) SubmitGrades(ctx context.Context, rosterID string, submissions []GradeSubmission) ([]GradeEntry, error) {
	if err := validateSubmissions(submissions); err != nil {
		return nil, err
	}

	var derived []GradeEntry
	var committed int
	updated, err := svc.repo.UpdateRoster(ctx, rosterID, func(ros *ClassRoster) error {
		derived, committed = nil, 0 // reset in case the transaction retried

		for _, sub := range submissions {
			entry, ok := ros.Entries[sub.StudentID]
			if !ok {
				return core.NewValidationError(ErrStudentNotFound, core.FieldError{
					Field: sub.StudentID,
					Error: ErrStudentNotFound.Error(),
				})
			}
			committed += mergeSubmission(entry, sub)
		}

		// derive final grades for every entry that just got its second quarter;
		// previously derived values stay untouched.
		for _, entry := range ros.Entries {
			if deriveFinalGrade(entry) {
				committed++
				derived = append(derived, *entry)
			}
		}

		if committed == 0 {
			return ErrNoChanges
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	svc.auditSvc.Record(ctx, audit.Entry{
		Actor:    audit.ActorFromContext(ctx),
		Action:   audit.ActionGradesRecorded,
		RosterID: rosterID,
		Detail:   fmt.Sprintf("%d field(s) committed, %d final grade(s) derived", committed, len(derived)),
	})
	if len(derived) > 0 {
		svc.sendFinalGradeNotice(ctx, updated, derived)
	}
	return updated.SortedEntries(), nil
}

// ReadDisplayState reports, per student, whether each grade field is locked
// (committed, render read-only) or editable (absent, render an input). Pure
// projection; never mutates.
func (svc *service) ReadDisplayState(ctx context.Context, rosterID string) ([]DisplayEntry, error) {
	ros, err := svc.repo.GetRoster(ctx, rosterID)
	if err != nil {
		return nil, err
	}

	entries := ros.SortedEntries()
	states := make([]DisplayEntry, 0, len(entries))
	for _, entry := range entries {
		states = append(states, DisplayEntry{
			Entry:         entry,
			FirstQuarter:  fieldState(entry.FirstQuarter.Valid),
			SecondQuarter: fieldState(entry.SecondQuarter.Valid),
			Remarks:       fieldState(entry.Remarks != ""),
		})
	}
	return states, nil
}

// validateSubmissions rejects the whole batch when any submitted grade falls
// outside [GradeMin, GradeMax], naming every offending student/field.
func validateSubmissions(submissions []GradeSubmission) error {
	if len(submissions) == 0 {
		return core.NewValidationError(fmt.Errorf("no grade submissions provided"))
	}

	var fldErrs []core.FieldError
	rangeErr := fmt.Sprintf("grade must be between %d and %d", GradeMin, GradeMax)
	for _, sub := range submissions {
		if sub.StudentID == "" {
			fldErrs = append(fldErrs, core.FieldError{Field: "student_id", Error: "this field is required"})
			continue
		}
		if !sub.targetsAnything() {
			fldErrs = append(fldErrs, core.FieldError{Field: sub.StudentID, Error: "submission targets no field"})
			continue
		}
		if sub.FirstQuarter.Valid && !gradeInRange(sub.FirstQuarter.Int) {
			fldErrs = append(fldErrs, core.FieldError{Field: sub.StudentID + ".first_quarter_grade", Error: rangeErr})
		}
		if sub.SecondQuarter.Valid && !gradeInRange(sub.SecondQuarter.Int) {
			fldErrs = append(fldErrs, core.FieldError{Field: sub.StudentID + ".second_quarter_grade", Error: rangeErr})
		}
	}
	if len(fldErrs) > 0 {
		return core.NewValidationError(fmt.Errorf("invalid grade submission"), fldErrs...)
	}
	return nil
}

func gradeInRange(grade int) bool {
	return GradeMin <= grade && grade <= GradeMax
}

// mergeSubmission applies the write-once merge for one student and returns the
// number of fields that transitioned from absent to set. Fields already
// committed keep their stored value; the submitted value is discarded.
func mergeSubmission(entry *GradeEntry, sub GradeSubmission) int {
	var committed int
	if sub.FirstQuarter.Valid && !entry.FirstQuarter.Valid {
		entry.FirstQuarter = sub.FirstQuarter
		committed++
	}
	if sub.SecondQuarter.Valid && !entry.SecondQuarter.Valid {
		entry.SecondQuarter = sub.SecondQuarter
		committed++
	}
	if sub.Remarks.Valid && sub.Remarks.String != "" && entry.Remarks == "" {
		entry.Remarks = sub.Remarks.String
		committed++
	}
	return committed
}

// deriveFinalGrade computes the final grade and honor rating once both quarter
// grades are committed. Derived values are write-once themselves: an entry
// whose final grade is already set is left alone.
func deriveFinalGrade(entry *GradeEntry) bool {
	if entry.FinalGrade.Valid || !entry.FirstQuarter.Valid || !entry.SecondQuarter.Valid {
		return false
	}
	final := roundHalfUp(float64(entry.FirstQuarter.Int+entry.SecondQuarter.Int) / 2)
	entry.FinalGrade = null.IntFrom(final)
	entry.Rating = RatingFor(final)
	return true
}

// RatingFor maps a final grade to its honor rating; grades below 90 carry no
// rating.
func RatingFor(final int) string {
	switch {
	case final >= 98:
		return RatingHighestHonors
	case final >= 95:
		return RatingHighHonors
	case final >= 90:
		return RatingHonors
	default:
		return ""
	}
}

func roundHalfUp(val float64) int {
	return int(math.Floor(val + 0.5))
}

// sendFinalGradeNotice mails the roster's teacher a summary of newly derived
// final grades. Best-effort: a failed lookup only logs.
func (svc *service) sendFinalGradeNotice(ctx context.Context, ros ClassRoster, derived []GradeEntry) {
	teacher, err := svc.dir.GetTeacher(ctx, ros.TeacherID)
	if err != nil {
		svc.logger.Error(fmt.Sprintf("looking up teacher %s for grade notice: %v", ros.TeacherID, err), err)
		return
	}
	if teacher.Email == "" {
		return
	}

	var body strings.Builder
	fmt.Fprintf(&body, "Final grades were computed for %s - %s (%s, %s semester, %s):\n\n",
		ros.SubjectName, ros.SectionName, ros.GradeLevel, ros.Semester, ros.SchoolYear)
	for _, entry := range derived {
		fmt.Fprintf(&body, "  %s: %d", entry.StudentName, entry.FinalGrade.Int)
		if entry.Rating != "" {
			fmt.Fprintf(&body, " (%s)", entry.Rating)
		}
		body.WriteString("\n")
	}
	fmt.Fprintf(&body, "\nReview the class record at %s/rosters/%s\n", svc.conf.FrontendBaseURL, ros.ID)

	svc.mailSvc.SendMessages(&core.EmailMessage{
		To:      []mail.Address{{Name: teacher.FullName(), Address: teacher.Email}},
		Subject: fmt.Sprintf("Final grades posted - %s (%s)", ros.SubjectName, ros.SectionName),
		BodyStr: body.String(),
	})
}
