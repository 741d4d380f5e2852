package roster_test

import (
	"context"
	"testing"

	"github.com/pkg/errors"

	"github.com/shsportal/backend/core"
	"github.com/shsportal/backend/core/audit"
	"github.com/shsportal/backend/core/directory"
	"github.com/shsportal/backend/core/roster"
	dummydb "github.com/shsportal/backend/storage/database/dummy"
	testutil "github.com/shsportal/backend/tests"
)

type testDeps struct {
	db       *dummydb.DB
	svc      roster.Service
	dirSvc   directory.Service
	auditSvc *audit.Service
}

func setup(t *testing.T) testDeps {
	db := testutil.PrepareDB(t)
	testutil.SeedDirectory(db)
	svc, dirSvc, auditSvc := testutil.Services(t, db, testutil.NewConfig())
	return testDeps{db: db, svc: svc, dirSvc: dirSvc, auditSvc: auditSvc}
}

func assertValidationField(t *testing.T, err error, field string) {
	t.Helper()
	vErr, ok := errors.Cause(err).(*core.ValidationError)
	if !ok {
		t.Fatalf("expected *core.ValidationError, got %[1]T: %[1]v", err)
	}
	for _, fErr := range vErr.Fields {
		if fErr.Field == field {
			return
		}
	}
	t.Errorf("no error recorded for field %q: %+v", field, vErr.Fields)
}

func TestService_Create(t *testing.T) {
	deps := setup(t)
	ctx := context.Background()

	ros, err := deps.svc.Create(ctx, testutil.NewRoster())
	if err != nil {
		t.Fatalf("Create() failed: %v", err)
	}
	if ros.ID == "" {
		t.Error("Create() returned empty ID")
	}
	if ros.EnrolledCount != 3 {
		t.Errorf("EnrolledCount = %d, want 3", ros.EnrolledCount)
	}

	// auto-enrolled in surname order even though the dummy store returns
	// matches unordered
	wantIDs := []string{"s-cruz", "s-lim", "s-santos"}
	if len(ros.StudentIDs) != len(wantIDs) {
		t.Fatalf("StudentIDs = %v, want %v", ros.StudentIDs, wantIDs)
	}
	for i, id := range wantIDs {
		if ros.StudentIDs[i] != id {
			t.Errorf("StudentIDs[%d] = %s, want %s", i, ros.StudentIDs[i], id)
		}
	}

	// display names snapshotted surname-first
	if got := ros.Entries["s-cruz"].StudentName; got != "Cruz, Ana B" {
		t.Errorf("StudentName = %q, want %q", got, "Cruz, Ana B")
	}
	if ros.SectionName != "STEM 11-A" || ros.SubjectName != "General Mathematics" || ros.TeacherName != "Liza Reyes" {
		t.Errorf("unexpected snapshots: %q %q %q", ros.SectionName, ros.SubjectName, ros.TeacherName)
	}

	// pending enrollments are invisible
	if ros.HasStudent("s-uy") {
		t.Error("pending student s-uy must not be auto-enrolled")
	}
}

func TestService_Create_duplicateOffering(t *testing.T) {
	deps := setup(t)
	ctx := context.Background()

	if _, err := deps.svc.Create(ctx, testutil.NewRoster()); err != nil {
		t.Fatalf("Create() failed: %v", err)
	}
	if _, err := deps.svc.Create(ctx, testutil.NewRoster()); errors.Cause(err) != roster.ErrRosterExists {
		t.Errorf("Create() error = %v, want ErrRosterExists", err)
	}

	// a different semester is a different offering
	nr := testutil.NewRoster()
	nr.Semester = directory.Semester2nd
	if _, err := deps.svc.Create(ctx, nr); err != nil {
		t.Errorf("Create() with different semester failed: %v", err)
	}
}

func TestService_Create_validation(t *testing.T) {
	deps := setup(t)
	ctx := context.Background()

	t.Run("missing fields", func(t *testing.T) {
		_, err := deps.svc.Create(ctx, roster.NewRoster{SectionID: testutil.SectionID})
		assertValidationField(t, err, "teacher_id")
		assertValidationField(t, err, "school_year")
	})

	t.Run("unknown section", func(t *testing.T) {
		nr := testutil.NewRoster()
		nr.SectionID = "nope"
		_, err := deps.svc.Create(ctx, nr)
		assertValidationField(t, err, "section_id")
	})

	t.Run("unknown teacher", func(t *testing.T) {
		nr := testutil.NewRoster()
		nr.TeacherID = "nope"
		_, err := deps.svc.Create(ctx, nr)
		assertValidationField(t, err, "teacher_id")
	})
}

func TestService_Create_snapshotSemantics(t *testing.T) {
	deps := setup(t)
	ctx := context.Background()

	ros := testutil.CreateRoster(t, deps.svc, testutil.NewRoster())

	// renaming the teacher in the directory must not rewrite history
	deps.db.SeedTeachers(directory.Teacher{ID: testutil.TeacherID, FirstName: "Luisa", LastName: "Ramos"})

	refreshed, err := deps.svc.GetByID(ctx, ros.ID)
	if err != nil {
		t.Fatalf("GetByID() failed: %v", err)
	}
	if refreshed.TeacherName != "Liza Reyes" {
		t.Errorf("TeacherName = %q, want snapshot %q", refreshed.TeacherName, "Liza Reyes")
	}
}

func TestService_Delete(t *testing.T) {
	deps := setup(t)
	ctx := context.Background()

	ros := testutil.CreateRoster(t, deps.svc, testutil.NewRoster())

	if err := deps.svc.Delete(ctx, ros.ID); err != nil {
		t.Fatalf("Delete() failed: %v", err)
	}
	if _, err := deps.svc.GetByID(ctx, ros.ID); errors.Cause(err) != roster.ErrRosterNotFound {
		t.Errorf("GetByID() after delete error = %v, want ErrRosterNotFound", err)
	}
	if err := deps.svc.Delete(ctx, ros.ID); errors.Cause(err) != roster.ErrRosterNotFound {
		t.Errorf("Delete() twice error = %v, want ErrRosterNotFound", err)
	}
}

func TestService_Query(t *testing.T) {
	deps := setup(t)
	ctx := context.Background()

	deps.db.SeedSubjects(directory.Subject{
		ID: "earth-sci", StrandID: testutil.StrandID, Name: "Earth Science",
		GradeLevel: directory.GradeLevel11, Semester: directory.Semester1st,
	})

	testutil.CreateRoster(t, deps.svc, testutil.NewRoster())
	nr := testutil.NewRoster()
	nr.SubjectID = "earth-sci"
	testutil.CreateRoster(t, deps.svc, nr)

	t.Run("no filter", func(t *testing.T) {
		rosters, err := deps.svc.Query(ctx, nil)
		if err != nil {
			t.Fatalf("Query() failed: %v", err)
		}
		if len(rosters) != 2 {
			t.Errorf("len(rosters) = %d, want 2", len(rosters))
		}
		// list views carry membership only
		for _, ros := range rosters {
			if ros.Entries != nil {
				t.Errorf("roster %s carries grade entries in a list view", ros.ID)
			}
		}
	})

	t.Run("by teacher", func(t *testing.T) {
		rosters, err := deps.svc.Query(ctx, &roster.QueryFilter{TeacherID: testutil.TeacherID})
		if err != nil {
			t.Fatalf("Query() failed: %v", err)
		}
		if len(rosters) != 2 {
			t.Errorf("len(rosters) = %d, want 2", len(rosters))
		}
	})

	t.Run("no match", func(t *testing.T) {
		rosters, err := deps.svc.Query(ctx, &roster.QueryFilter{SectionID: testutil.SectionBID})
		if err != nil {
			t.Fatalf("Query() failed: %v", err)
		}
		if len(rosters) != 0 {
			t.Errorf("len(rosters) = %d, want 0", len(rosters))
		}
	})
}
