package core_test

import (
	"testing"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/shsportal/backend/core"
	"github.com/shsportal/backend/core/roster"
)

func newValidator(t *testing.T) (*validator.Validate, ut.Translator) {
	t.Helper()
	_en := en.New()
	uni := ut.New(_en, _en)
	translator, ok := uni.GetTranslator("en")
	if !ok {
		t.Fatal("en translator not found")
	}
	validate := validator.New()
	core.InitValidators(validate, translator)
	return validate, translator
}

// fieldErrors maps JSON field names to translated messages.
func fieldErrors(t *testing.T, err error, translator ut.Translator) map[string]string {
	t.Helper()
	vErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		t.Fatalf("error = %v, want validator.ValidationErrors", err)
	}
	flds := make(map[string]string, len(vErrs))
	for _, fe := range vErrs {
		flds[fe.Field()] = fe.Translate(translator)
	}
	return flds
}

func Test_schoolYearValidation(t *testing.T) {
	validate, translator := newValidator(t)

	tests := []struct {
		year    string
		wantErr bool
	}{
		{year: "2025-2026"},
		{year: "1999-2000"},
		{year: "2025-2027", wantErr: true}, // not consecutive
		{year: "2026-2025", wantErr: true},
		{year: "20252026", wantErr: true},
		{year: "2025/2026", wantErr: true},
		{year: "abcd-efgh", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.year, func(t *testing.T) {
			nr := roster.NewRoster{
				SectionID:  "stem-11a",
				SubjectID:  "gen-math",
				TeacherID:  "t-reyes",
				GradeLevel: "Grade 11",
				Semester:   "1st",
				SchoolYear: tt.year,
			}
			err := nr.Validate(validate)
			if !tt.wantErr {
				if err != nil {
					t.Fatalf("Validate() failed: %v", err)
				}
				return
			}
			flds := fieldErrors(t, err, translator)
			if msg, ok := flds["school_year"]; !ok {
				t.Errorf("fields = %v, want school_year", flds)
			} else if msg != "must be two consecutive years in YYYY-YYYY format" {
				t.Errorf("message = %q", msg)
			}
		})
	}
}

func Test_newRosterValidation(t *testing.T) {
	validate, translator := newValidator(t)

	t.Run("missing fields use json names", func(t *testing.T) {
		nr := roster.NewRoster{SchoolYear: "2025-2026"}
		flds := fieldErrors(t, nr.Validate(validate), translator)
		for _, field := range []string{"section_id", "subject_id", "teacher_id", "grade_level", "semester"} {
			if msg, ok := flds[field]; !ok {
				t.Errorf("fields = %v, want %s", flds, field)
			} else if msg != "this field is required" {
				t.Errorf("%s message = %q", field, msg)
			}
		}
	})

	t.Run("grade level and semester are enumerated", func(t *testing.T) {
		nr := roster.NewRoster{
			SectionID:  "stem-11a",
			SubjectID:  "gen-math",
			TeacherID:  "t-reyes",
			GradeLevel: "Grade 13",
			Semester:   "3rd",
			SchoolYear: "2025-2026",
		}
		flds := fieldErrors(t, nr.Validate(validate), translator)
		if _, ok := flds["grade_level"]; !ok {
			t.Errorf("fields = %v, want grade_level", flds)
		}
		if _, ok := flds["semester"]; !ok {
			t.Errorf("fields = %v, want semester", flds)
		}
	})

	t.Run("values are trimmed before validation", func(t *testing.T) {
		nr := roster.NewRoster{
			SectionID:  "  stem-11a  ",
			SubjectID:  "gen-math",
			TeacherID:  "t-reyes",
			GradeLevel: "Grade 11",
			Semester:   "1st",
			SchoolYear: " 2025-2026 ",
		}
		if err := nr.Validate(validate); err != nil {
			t.Fatalf("Validate() failed: %v", err)
		}
		if nr.SectionID != "stem-11a" || nr.SchoolYear != "2025-2026" {
			t.Errorf("values not cleaned: %+v", nr)
		}
	})
}
