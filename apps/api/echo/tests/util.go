package tests

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	. "github.com/shsportal/backend/apps/api/echo"
	"github.com/shsportal/backend/core"
	"github.com/shsportal/backend/core/audit"
	"github.com/shsportal/backend/core/directory"
	"github.com/shsportal/backend/core/roster"
	emailsvc "github.com/shsportal/backend/services/email"
	dummydb "github.com/shsportal/backend/storage/database/dummy"
	testutil "github.com/shsportal/backend/tests"
)

var errMissingToken = httpErr{Error: "missing or malformed jwt"}

type testApp struct {
	app       *Server
	db        *dummydb.DB
	conf      *core.Config
	rosterSvc roster.Service
}

func setup(t *testing.T) *testApp {
	conf := testutil.NewConfig()

	// set up DB & repos
	db := testutil.PrepareDB(t)
	testutil.SeedDirectory(db)

	// set up services
	logger := testutil.NewLogger(t)
	dirSvc := directory.NewService(dummydb.NewDirectoryRepository(db))
	auditSvc := audit.NewService(dummydb.NewAuditRepository(db), logger)
	mailSvc := emailsvc.NewConsoleServiceMock(conf)
	rosterSvc := roster.NewService(dummydb.NewRosterRepository(db), dirSvc, auditSvc, mailSvc, logger, conf)

	validate := validator.New()
	translator := newTranslator()
	core.InitValidators(validate, translator)

	// set up server
	app := NewServer(
		ServerDeps{
			Conf:       conf,
			Logger:     logger,
			RosterSvc:  rosterSvc,
			DirSvc:     dirSvc,
			AuditSvc:   auditSvc,
			Validate:   validate,
			Translator: translator,
		},
	)
	return &testApp{app: app, db: db, conf: conf, rosterSvc: rosterSvc}
}

func newTranslator() ut.Translator {
	_en := en.New()
	uni := ut.New(_en, _en)
	translator, _ := uni.GetTranslator("en")
	return translator
}

type httpErr struct {
	Error string `json:"error"`
}

func newAuthRequest(method, path, token string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	var body bytes.Buffer
	if len(data) > 0 {
		body.Write(data[0])
	}
	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	return req, rec
}

func newRequest(method, path string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	return newAuthRequest(method, path, "", data...)
}

func (ta *testApp) adminToken(t *testing.T) string {
	return ta.getToken(t, "u-admin", true, false)
}

func (ta *testApp) teacherToken(t *testing.T) string {
	return ta.getToken(t, testutil.TeacherID, false, true)
}

func (ta *testApp) studentToken(t *testing.T) string {
	return ta.getToken(t, "s-cruz", false, false)
}

func (ta *testApp) getToken(t *testing.T, subject string, isAdmin, isTeacher bool) string {
	t.Helper()
	claims := GetClaims(ta.conf, subject, subject, isAdmin, isTeacher, !(isAdmin || isTeacher))
	token, err := GenerateToken(claims, ta.conf)
	if err != nil {
		t.Fatalf("getToken() failed: %v", err)
	}
	return token
}

func marshallObj(t *testing.T, obj interface{}) []byte {
	data, err := json.Marshal(obj)
	if err != nil {
		t.Fatalf("marshallObj() failed: %v", err)
	}
	return data
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, dst interface{}) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), dst); err != nil {
		t.Fatalf("decoding response body %q: %v", rec.Body.String(), err)
	}
}

func checkCode(t *testing.T, rec *httptest.ResponseRecorder, want int) {
	t.Helper()
	if rec.Code != want {
		t.Fatalf("failed! code = %v; wantCode %v; body = %s", rec.Code, want, rec.Body.String())
	}
}
