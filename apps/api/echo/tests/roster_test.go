package tests

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/volatiletech/null/v8"

	"github.com/shsportal/backend/core/roster"
	testutil "github.com/shsportal/backend/tests"
)

func Test_rosterApi_create(t *testing.T) {
	ta := setup(t)

	t.Run("requires a token", func(t *testing.T) {
		req, rec := newRequest(http.MethodPost, "/v1/rosters", marshallObj(t, testutil.NewRoster()))
		ta.app.ServeHTTP(rec, req)
		checkCode(t, rec, http.StatusUnauthorized)

		var body httpErr
		decodeBody(t, rec, &body)
		assert.Equal(t, errMissingToken, body)
	})

	t.Run("students may not create rosters", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPost, "/v1/rosters", ta.studentToken(t), marshallObj(t, testutil.NewRoster()))
		ta.app.ServeHTTP(rec, req)
		checkCode(t, rec, http.StatusForbidden)
	})

	t.Run("teacher creates a roster with auto-enrollment", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPost, "/v1/rosters", ta.teacherToken(t), marshallObj(t, testutil.NewRoster()))
		ta.app.ServeHTTP(rec, req)
		checkCode(t, rec, http.StatusCreated)

		var ros roster.ClassRoster
		decodeBody(t, rec, &ros)
		assert.Equal(t, 3, ros.EnrolledCount)
		assert.Equal(t, []string{"s-cruz", "s-lim", "s-santos"}, ros.StudentIDs)
		assert.Equal(t, "STEM 11-A", ros.SectionName)
	})

	t.Run("duplicate offering conflicts", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPost, "/v1/rosters", ta.teacherToken(t), marshallObj(t, testutil.NewRoster()))
		ta.app.ServeHTTP(rec, req)
		checkCode(t, rec, http.StatusConflict)
	})

	t.Run("invalid school year", func(t *testing.T) {
		nr := testutil.NewRoster()
		nr.SchoolYear = "2025-2028"
		req, rec := newAuthRequest(http.MethodPost, "/v1/rosters", ta.teacherToken(t), marshallObj(t, nr))
		ta.app.ServeHTTP(rec, req)
		checkCode(t, rec, http.StatusBadRequest)

		var fldErrs map[string]string
		decodeBody(t, rec, &fldErrs)
		assert.Contains(t, fldErrs, "school_year")
	})
}

func Test_rosterApi_retrieveQueryDestroy(t *testing.T) {
	ta := setup(t)
	ros := testutil.CreateRoster(t, ta.rosterSvc, testutil.NewRoster())

	t.Run("retrieve", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/v1/rosters/"+ros.ID, ta.studentToken(t))
		ta.app.ServeHTTP(rec, req)
		checkCode(t, rec, http.StatusOK)

		var got roster.ClassRoster
		decodeBody(t, rec, &got)
		assert.Equal(t, ros.ID, got.ID)
		assert.Len(t, got.Entries, 3)
	})

	t.Run("retrieve unknown", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/v1/rosters/nope", ta.studentToken(t))
		ta.app.ServeHTTP(rec, req)
		checkCode(t, rec, http.StatusNotFound)
	})

	t.Run("query with filter", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/v1/rosters?teacher_id="+testutil.TeacherID, ta.teacherToken(t))
		ta.app.ServeHTTP(rec, req)
		checkCode(t, rec, http.StatusOK)

		var got []roster.ClassRoster
		decodeBody(t, rec, &got)
		assert.Len(t, got, 1)
	})

	t.Run("query no match returns empty list", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/v1/rosters?section_id="+testutil.SectionBID, ta.teacherToken(t))
		ta.app.ServeHTTP(rec, req)
		checkCode(t, rec, http.StatusOK)
		assert.JSONEq(t, "[]", rec.Body.String())
	})

	t.Run("destroy", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodDelete, "/v1/rosters/"+ros.ID, ta.teacherToken(t))
		ta.app.ServeHTTP(rec, req)
		checkCode(t, rec, http.StatusNoContent)

		req, rec = newAuthRequest(http.MethodDelete, "/v1/rosters/"+ros.ID, ta.teacherToken(t))
		ta.app.ServeHTTP(rec, req)
		checkCode(t, rec, http.StatusNotFound)
	})
}

func Test_rosterApi_membership(t *testing.T) {
	ta := setup(t)
	ros := testutil.CreateRoster(t, ta.rosterSvc, testutil.NewRoster())

	t.Run("candidates", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/v1/rosters/"+ros.ID+"/candidates", ta.teacherToken(t))
		ta.app.ServeHTTP(rec, req)
		checkCode(t, rec, http.StatusOK)

		var cands roster.Candidates
		decodeBody(t, rec, &cands)
		assert.Len(t, cands.Available, 1)
		assert.Len(t, cands.Enrolled, 3)
	})

	t.Run("add student", func(t *testing.T) {
		body := marshallObj(t, AddStudentBody{StudentID: "s-tan"})
		req, rec := newAuthRequest(http.MethodPost, "/v1/rosters/"+ros.ID+"/students", ta.teacherToken(t), body)
		ta.app.ServeHTTP(rec, req)
		checkCode(t, rec, http.StatusOK)

		var got roster.ClassRoster
		decodeBody(t, rec, &got)
		assert.Contains(t, got.StudentIDs, "s-tan")
	})

	t.Run("add requires student_id", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPost, "/v1/rosters/"+ros.ID+"/students", ta.teacherToken(t), []byte(`{}`))
		ta.app.ServeHTTP(rec, req)
		checkCode(t, rec, http.StatusBadRequest)
	})

	t.Run("remove requires confirmation", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodDelete, "/v1/rosters/"+ros.ID+"/students/s-tan", ta.teacherToken(t))
		ta.app.ServeHTTP(rec, req)
		checkCode(t, rec, http.StatusBadRequest)
	})

	t.Run("confirmed removal", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodDelete, "/v1/rosters/"+ros.ID+"/students/s-tan?confirm=true", ta.teacherToken(t))
		ta.app.ServeHTTP(rec, req)
		checkCode(t, rec, http.StatusOK)

		var got roster.ClassRoster
		decodeBody(t, rec, &got)
		assert.NotContains(t, got.StudentIDs, "s-tan")
	})

	t.Run("remove non-member", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodDelete, "/v1/rosters/"+ros.ID+"/students/s-tan?confirm=true", ta.teacherToken(t))
		ta.app.ServeHTTP(rec, req)
		checkCode(t, rec, http.StatusNotFound)
	})
}

func Test_rosterApi_grades(t *testing.T) {
	ta := setup(t)
	ros := testutil.CreateRoster(t, ta.rosterSvc, testutil.NewRoster())

	submission := []roster.GradeSubmission{
		{StudentID: "s-cruz", FirstQuarter: null.IntFrom(96), SecondQuarter: null.IntFrom(100)},
	}

	t.Run("students may not submit", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPut, "/v1/rosters/"+ros.ID+"/grades", ta.studentToken(t), marshallObj(t, submission))
		ta.app.ServeHTTP(rec, req)
		checkCode(t, rec, http.StatusForbidden)
	})

	t.Run("submit and derive", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPut, "/v1/rosters/"+ros.ID+"/grades", ta.teacherToken(t), marshallObj(t, submission))
		ta.app.ServeHTTP(rec, req)
		checkCode(t, rec, http.StatusOK)

		var entries []roster.GradeEntry
		decodeBody(t, rec, &entries)
		assert.Len(t, entries, 3)
		assert.Equal(t, "s-cruz", entries[0].StudentID) // surname order
		assert.Equal(t, 98, entries[0].FinalGrade.Int)
		assert.Equal(t, roster.RatingHighestHonors, entries[0].Rating)
	})

	t.Run("no-op resubmission", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPut, "/v1/rosters/"+ros.ID+"/grades", ta.teacherToken(t), marshallObj(t, submission))
		ta.app.ServeHTTP(rec, req)
		checkCode(t, rec, http.StatusBadRequest)
	})

	t.Run("out-of-range grade names the field", func(t *testing.T) {
		bad := []roster.GradeSubmission{{StudentID: "s-lim", FirstQuarter: null.IntFrom(74)}}
		req, rec := newAuthRequest(http.MethodPut, "/v1/rosters/"+ros.ID+"/grades", ta.teacherToken(t), marshallObj(t, bad))
		ta.app.ServeHTTP(rec, req)
		checkCode(t, rec, http.StatusBadRequest)

		var fldErrs map[string]string
		decodeBody(t, rec, &fldErrs)
		assert.Contains(t, fldErrs, "s-lim.first_quarter_grade")
	})

	t.Run("grade sheet display state", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/v1/rosters/"+ros.ID+"/grades", ta.studentToken(t))
		ta.app.ServeHTTP(rec, req)
		checkCode(t, rec, http.StatusOK)

		var states []roster.DisplayEntry
		decodeBody(t, rec, &states)
		assert.Len(t, states, 3)
		assert.Equal(t, roster.FieldLocked, states[0].FirstQuarter)
		assert.Equal(t, roster.FieldEditable, states[1].FirstQuarter)
	})

	t.Run("unknown roster", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPut, "/v1/rosters/nope/grades", ta.teacherToken(t), marshallObj(t, submission))
		ta.app.ServeHTTP(rec, req)
		checkCode(t, rec, http.StatusNotFound)
	})
}

// AddStudentBody mirrors the request payload of POST /v1/rosters/:id/students.
type AddStudentBody struct {
	StudentID string `json:"student_id"`
}
