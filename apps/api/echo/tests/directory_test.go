package tests

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/shsportal/backend/core/directory"
	testutil "github.com/shsportal/backend/tests"
)

func Test_directoryApi(t *testing.T) {
	ta := setup(t)
	token := ta.studentToken(t)

	t.Run("requires a token", func(t *testing.T) {
		req, rec := newRequest(http.MethodGet, "/v1/directory/strands")
		ta.app.ServeHTTP(rec, req)
		checkCode(t, rec, http.StatusUnauthorized)
	})

	t.Run("strands", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/v1/directory/strands", token)
		ta.app.ServeHTTP(rec, req)
		checkCode(t, rec, http.StatusOK)

		var strands []directory.Strand
		decodeBody(t, rec, &strands)
		assert.Len(t, strands, 1)
		assert.Equal(t, testutil.StrandID, strands[0].ID)
	})

	t.Run("sections by strand", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/v1/directory/strands/"+testutil.StrandID+"/sections", token)
		ta.app.ServeHTTP(rec, req)
		checkCode(t, rec, http.StatusOK)

		var sections []directory.Section
		decodeBody(t, rec, &sections)
		assert.Len(t, sections, 2)
	})

	t.Run("subjects by strand", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/v1/directory/strands/"+testutil.StrandID+"/subjects", token)
		ta.app.ServeHTTP(rec, req)
		checkCode(t, rec, http.StatusOK)

		var subjects []directory.Subject
		decodeBody(t, rec, &subjects)
		assert.Len(t, subjects, 1)
	})

	t.Run("teachers", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodGet, "/v1/directory/teachers", token)
		ta.app.ServeHTTP(rec, req)
		checkCode(t, rec, http.StatusOK)

		var teachers []directory.Teacher
		decodeBody(t, rec, &teachers)
		assert.Len(t, teachers, 1)
		assert.Equal(t, "Liza Reyes", teachers[0].FullName())
	})
}
