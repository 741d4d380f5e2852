package audit_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/pkg/errors"

	"github.com/shsportal/backend/core"
	"github.com/shsportal/backend/core/audit"
	dummydb "github.com/shsportal/backend/storage/database/dummy"
	testutil "github.com/shsportal/backend/tests"
)

func setup(t *testing.T) (*audit.Service, audit.Repository) {
	t.Helper()
	db := testutil.PrepareDB(t)
	repo := dummydb.NewAuditRepository(db)
	return audit.NewService(repo, testutil.NewLogger(t)), repo
}

// seedEntries inserts n entries with distinct ascending timestamps, newest
// last, so paging order is deterministic.
func seedEntries(t *testing.T, repo audit.Repository, rosterID string, n int) {
	t.Helper()
	base := time.Date(2026, 8, 1, 8, 0, 0, 0, time.UTC)
	for i := 0; i < n; i++ {
		err := repo.InsertEntry(context.Background(), audit.Entry{
			ID:        fmt.Sprintf("e-%03d", i),
			Actor:     "t-reyes",
			Action:    audit.ActionGradesRecorded,
			RosterID:  rosterID,
			Detail:    fmt.Sprintf("entry %d", i),
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		})
		if err != nil {
			t.Fatalf("InsertEntry() failed: %v", err)
		}
	}
}

func TestService_Record(t *testing.T) {
	svc, _ := setup(t)
	ctx := context.Background()

	svc.Record(ctx, audit.Entry{Actor: "t-reyes", Action: audit.ActionRosterCreated, RosterID: "r1"})

	page, err := svc.Page(ctx, audit.PageQuery{})
	if err != nil {
		t.Fatalf("Page() failed: %v", err)
	}
	if len(page.Entries) != 1 {
		t.Fatalf("len(Entries) = %d, want 1", len(page.Entries))
	}
	entry := page.Entries[0]
	if entry.ID == "" {
		t.Error("Record() did not assign an id")
	}
	if entry.CreatedAt.IsZero() || entry.CreatedAt.Location() != time.UTC {
		t.Errorf("CreatedAt = %v, want a UTC timestamp", entry.CreatedAt)
	}
}

func TestService_Page(t *testing.T) {
	svc, repo := setup(t)
	ctx := context.Background()
	seedEntries(t, repo, "r1", 25)

	t.Run("walks the full trail newest first", func(t *testing.T) {
		var collected []audit.Entry
		cursor := ""
		for pageNum := 0; ; pageNum++ {
			page, err := svc.Page(ctx, audit.PageQuery{Cursor: cursor, Limit: 10})
			if err != nil {
				t.Fatalf("Page() failed: %v", err)
			}
			wantLen := 10
			if pageNum == 2 {
				wantLen = 5
			}
			if len(page.Entries) != wantLen {
				t.Fatalf("page %d: len(Entries) = %d, want %d", pageNum, len(page.Entries), wantLen)
			}
			collected = append(collected, page.Entries...)
			if page.NextCursor == "" {
				break
			}
			cursor = page.NextCursor
		}

		if len(collected) != 25 {
			t.Fatalf("collected %d entries, want 25", len(collected))
		}
		// newest first across page boundaries, no overlaps
		for i := 1; i < len(collected); i++ {
			if !collected[i].CreatedAt.Before(collected[i-1].CreatedAt) {
				t.Fatalf("entries out of order at %d: %v then %v", i, collected[i-1].CreatedAt, collected[i].CreatedAt)
			}
		}
		if collected[0].ID != "e-024" || collected[24].ID != "e-000" {
			t.Errorf("walk spans %s..%s, want e-024..e-000", collected[0].ID, collected[24].ID)
		}
	})

	t.Run("filters by roster", func(t *testing.T) {
		seedEntries(t, repo, "r2", 3)

		page, err := svc.Page(ctx, audit.PageQuery{RosterID: "r2"})
		if err != nil {
			t.Fatalf("Page() failed: %v", err)
		}
		if len(page.Entries) != 3 {
			t.Fatalf("len(Entries) = %d, want 3", len(page.Entries))
		}
		for _, e := range page.Entries {
			if e.RosterID != "r2" {
				t.Errorf("entry %s belongs to roster %s", e.ID, e.RosterID)
			}
		}
	})

	t.Run("default limit", func(t *testing.T) {
		page, err := svc.Page(ctx, audit.PageQuery{})
		if err != nil {
			t.Fatalf("Page() failed: %v", err)
		}
		// 28 entries total fit in the default page of 50
		if len(page.Entries) != 28 {
			t.Errorf("len(Entries) = %d, want 28", len(page.Entries))
		}
		if page.NextCursor != "" {
			t.Errorf("NextCursor = %q, want none", page.NextCursor)
		}
	})

	t.Run("no match returns an empty page", func(t *testing.T) {
		page, err := svc.Page(ctx, audit.PageQuery{RosterID: "nope"})
		if err != nil {
			t.Fatalf("Page() failed: %v", err)
		}
		if page.Entries == nil || len(page.Entries) != 0 {
			t.Errorf("Entries = %v, want an empty slice", page.Entries)
		}
	})
}

func TestService_Page_invalidCursor(t *testing.T) {
	svc, _ := setup(t)

	for _, cursor := range []string{"%%", "bm90LWEtY3Vyc29y", "fHw"} {
		_, err := svc.Page(context.Background(), audit.PageQuery{Cursor: cursor})
		vErr, ok := errors.Cause(err).(*core.ValidationError)
		if !ok {
			t.Fatalf("Page(%q) error = %v, want *core.ValidationError", cursor, err)
		}
		if len(vErr.Fields) != 1 || vErr.Fields[0].Field != "cursor" {
			t.Errorf("Page(%q) fields = %+v, want the cursor field", cursor, vErr.Fields)
		}
	}
}
