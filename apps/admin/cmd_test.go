package main

import (
	"context"
	"database/sql"
	"testing"

	"github.com/pkg/errors"

	"github.com/shsportal/backend/core/roster"
	testutil "github.com/shsportal/backend/tests"
)

func newTestCLI(t *testing.T) *commandLine {
	t.Helper()
	db := testutil.PrepareDB(t)
	testutil.SeedDirectory(db)
	rosterSvc, _, _ := testutil.Services(t, db, testutil.NewConfig())
	return &commandLine{rosterSvc: rosterSvc}
}

func Test_commandLine_run_help(t *testing.T) {
	cli := newTestCLI(t)

	tests := []struct {
		name string
		args []string
	}{
		{name: "no command", args: []string{"admin"}},
		{name: "unknown command", args: []string{"admin", "frobnicate"}},
		{name: "migrate without subcommand", args: []string{"admin", "migrate"}},
		{name: "deleteroster without -yes", args: []string{"admin", "deleteroster", "-id", "some-id"}},
		{name: "deleteroster without -id", args: []string{"admin", "deleteroster", "-yes"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := cli.run(tt.args); err != errHelp {
				t.Errorf("run() error = %v, want errHelp", err)
			}
		})
	}
}

func Test_commandLine_migrate(t *testing.T) {
	origRun := gooseRunFunc
	defer func() { gooseRunFunc = origRun }()

	var gotCommand, gotDir string
	var gotArgs []string
	gooseRunFunc = func(command string, db *sql.DB, dir string, args ...string) error {
		gotCommand = command
		gotDir = dir
		gotArgs = args
		return nil
	}

	cli := &commandLine{}
	if err := cli.run([]string{"admin", "migrate", "up-to", "20250901000000"}); err != nil {
		t.Fatalf("run() failed: %v", err)
	}
	if gotCommand != "up-to" {
		t.Errorf("command = %q, want %q", gotCommand, "up-to")
	}
	if gotDir != "migrations" {
		t.Errorf("dir = %q, want %q", gotDir, "migrations")
	}
	if len(gotArgs) != 1 || gotArgs[0] != "20250901000000" {
		t.Errorf("args = %v, want [20250901000000]", gotArgs)
	}
}

func Test_commandLine_rosters(t *testing.T) {
	cli := newTestCLI(t)
	ctx := context.Background()

	createArgs := []string{
		"admin", "createroster",
		"-section", testutil.SectionID,
		"-subject", testutil.SubjectID,
		"-teacher", testutil.TeacherID,
		"-grade-level", "Grade 11",
		"-semester", "1st",
		"-year", testutil.SchoolYear,
	}
	if err := cli.run(createArgs); err != nil {
		t.Fatalf("run(createroster) failed: %v", err)
	}

	rosters, err := cli.rosterSvc.Query(ctx, &roster.QueryFilter{TeacherID: testutil.TeacherID})
	if err != nil {
		t.Fatalf("Query() failed: %v", err)
	}
	if len(rosters) != 1 {
		t.Fatalf("len(rosters) = %d, want 1", len(rosters))
	}
	if rosters[0].EnrolledCount != 3 {
		t.Errorf("EnrolledCount = %d, want 3", rosters[0].EnrolledCount)
	}

	t.Run("duplicate offering", func(t *testing.T) {
		if err := cli.run(createArgs); errors.Cause(err) != roster.ErrRosterExists {
			t.Errorf("run() error = %v, want ErrRosterExists", err)
		}
	})

	t.Run("missing flags", func(t *testing.T) {
		if err := cli.run([]string{"admin", "createroster", "-section", testutil.SectionID}); err == nil {
			t.Error("run() succeeded with an incomplete roster")
		}
	})

	t.Run("confirmed deletion", func(t *testing.T) {
		deleteArgs := []string{"admin", "deleteroster", "-id", rosters[0].ID, "-yes"}
		if err := cli.run(deleteArgs); err != nil {
			t.Fatalf("run(deleteroster) failed: %v", err)
		}
		if err := cli.run(deleteArgs); errors.Cause(err) != roster.ErrRosterNotFound {
			t.Errorf("run() error = %v, want ErrRosterNotFound", err)
		}
	})
}
