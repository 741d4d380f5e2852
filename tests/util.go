package testutil

import (
	"context"
	"net/mail"
	"testing"
	"time"

	"github.com/shsportal/backend/core"
	"github.com/shsportal/backend/core/audit"
	"github.com/shsportal/backend/core/directory"
	"github.com/shsportal/backend/core/roster"
	emailsvc "github.com/shsportal/backend/services/email"
	dummydb "github.com/shsportal/backend/storage/database/dummy"
)

// NewConfig returns a config suitable for tests.
func NewConfig() *core.Config {
	return &core.Config{
		AppName:          "SHS Portal",
		Env:              "TEST",
		Debug:            true,
		TestMode:         true,
		Build:            "test",
		SecretKey:        "0J#B!>wLKgGHh3(bg(Fs1I9Ne&.Y8K",
		FrontendBaseURL:  "http://localhost:3000",
		DefaultFromEmail: mail.Address{Address: "noreply@test.local"},
		Server: core.ServerConfig{
			Host:          "localhost",
			Port:          "8000",
			JWTExpiration: time.Hour,
		},
	}
}

// Logger satisfies core.Logger; everything goes to the test log.
type Logger struct {
	t *testing.T
}

func NewLogger(t *testing.T) *Logger { return &Logger{t: t} }

func (l *Logger) log(level, msg string, args []interface{}) {
	l.t.Helper()
	l.t.Logf("%s: %s %v", level, msg, args)
}

func (l *Logger) Debug(msg string, args ...interface{}) { l.log("DEBUG", msg, args) }
func (l *Logger) Info(msg string, args ...interface{})  { l.log("INFO", msg, args) }
func (l *Logger) Warn(msg string, args ...interface{})  { l.log("WARN", msg, args) }
func (l *Logger) Error(msg string, args ...interface{}) { l.log("ERROR", msg, args) }
func (l *Logger) Fatal(msg string, args ...interface{}) {
	l.t.Helper()
	l.t.Fatalf("FATAL: %s %v", msg, args)
}

// PrepareDB opens a fresh in-memory database.
func PrepareDB(t *testing.T) *dummydb.DB {
	db, err := dummydb.Open()
	if err != nil {
		t.Fatalf("dummydb.Open() failed: %v", err)
	}
	return db
}

// Services builds the full service stack over the dummy database, with a
// synchronous console email mock.
func Services(t *testing.T, db *dummydb.DB, conf *core.Config) (roster.Service, directory.Service, *audit.Service) {
	logger := NewLogger(t)
	dirSvc := directory.NewService(dummydb.NewDirectoryRepository(db))
	auditSvc := audit.NewService(dummydb.NewAuditRepository(db), logger)
	mailSvc := emailsvc.NewConsoleServiceMock(conf)
	rosterSvc := roster.NewService(dummydb.NewRosterRepository(db), dirSvc, auditSvc, mailSvc, logger, conf)
	return rosterSvc, dirSvc, auditSvc
}

// Standard fixture: one strand, two Grade 11 sections, one subject, one
// teacher, five students. Cruz, Lim and Santos hold approved enrollments in
// STEM 11-A for the 1st semester of 2025-2026; Uy is pending there; Tan is
// approved in STEM 11-B.
const (
	StrandID   = "stem"
	SectionID  = "stem-11a"
	SectionBID = "stem-11b"
	SubjectID  = "gen-math"
	TeacherID  = "t-reyes"
	SchoolYear = "2025-2026"
)

func SeedDirectory(db *dummydb.DB) {
	db.SeedStrands(directory.Strand{ID: StrandID, Name: "Science, Technology, Engineering and Mathematics"})
	db.SeedSections(
		directory.Section{ID: SectionID, StrandID: StrandID, Name: "STEM 11-A", GradeLevel: directory.GradeLevel11},
		directory.Section{ID: SectionBID, StrandID: StrandID, Name: "STEM 11-B", GradeLevel: directory.GradeLevel11},
	)
	db.SeedSubjects(directory.Subject{
		ID: SubjectID, StrandID: StrandID, Name: "General Mathematics",
		GradeLevel: directory.GradeLevel11, Semester: directory.Semester1st,
	})
	db.SeedTeachers(directory.Teacher{ID: TeacherID, FirstName: "Liza", LastName: "Reyes", Email: "liza.reyes@shs.test"})
	db.SeedStudents(
		directory.Student{ID: "s-cruz", FirstName: "Ana", MiddleName: "B", LastName: "Cruz"},
		directory.Student{ID: "s-lim", FirstName: "Karlo", LastName: "Lim"},
		directory.Student{ID: "s-santos", FirstName: "Bea", MiddleName: "D", LastName: "Santos"},
		directory.Student{ID: "s-uy", FirstName: "Paolo", LastName: "Uy"},
		directory.Student{ID: "s-tan", FirstName: "Mika", LastName: "Tan"},
	)
	db.SeedEnrollments(
		directory.EnrollmentRecord{StudentID: "s-cruz", SectionID: SectionID, SchoolYear: SchoolYear, Semester: directory.Semester1st, Status: directory.EnrollmentStatusApproved},
		directory.EnrollmentRecord{StudentID: "s-lim", SectionID: SectionID, SchoolYear: SchoolYear, Semester: directory.Semester1st, Status: directory.EnrollmentStatusApproved},
		directory.EnrollmentRecord{StudentID: "s-santos", SectionID: SectionID, SchoolYear: SchoolYear, Semester: directory.Semester1st, Status: directory.EnrollmentStatusApproved},
		directory.EnrollmentRecord{StudentID: "s-uy", SectionID: SectionID, SchoolYear: SchoolYear, Semester: directory.Semester1st, Status: "pending"},
		directory.EnrollmentRecord{StudentID: "s-tan", SectionID: SectionBID, SchoolYear: SchoolYear, Semester: directory.Semester1st, Status: directory.EnrollmentStatusApproved},
	)
}

// NewRoster returns a valid creation payload against the standard fixture.
func NewRoster() roster.NewRoster {
	return roster.NewRoster{
		SectionID:  SectionID,
		SubjectID:  SubjectID,
		TeacherID:  TeacherID,
		GradeLevel: directory.GradeLevel11,
		Semester:   directory.Semester1st,
		SchoolYear: SchoolYear,
	}
}

// CreateRoster creates a roster via the service against the standard fixture.
func CreateRoster(t *testing.T, svc roster.Service, nr roster.NewRoster) roster.ClassRoster {
	t.Helper()
	ros, err := svc.Create(ContextWithActor("t-reyes"), nr)
	if err != nil {
		t.Fatalf("CreateRoster() failed: %v", err)
	}
	return ros
}

// ContextWithActor stamps an actor for the audit trail, as the JWT middleware
// does in the API.
func ContextWithActor(actor string) context.Context {
	return audit.WithActor(context.Background(), actor)
}
