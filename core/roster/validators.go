package roster

import (
	"fmt"

	"github.com/shsportal/backend/core"
)

// validateRequired guards the service-level contract: a roster can never be
// created with a missing key field, whether or not the caller ran the full
// struct validation first.
func (nr NewRoster) validateRequired() error {
	required := []struct {
		field string
		value string
	}{
		{"section_id", nr.SectionID},
		{"subject_id", nr.SubjectID},
		{"teacher_id", nr.TeacherID},
		{"grade_level", nr.GradeLevel},
		{"semester", nr.Semester},
		{"school_year", nr.SchoolYear},
	}

	var fldErrs []core.FieldError
	for _, req := range required {
		if req.value == "" {
			fldErrs = append(fldErrs, core.FieldError{Field: req.field, Error: "this field is required"})
		}
	}
	if len(fldErrs) > 0 {
		return core.NewValidationError(fmt.Errorf("missing required fields"), fldErrs...)
	}
	return nil
}
