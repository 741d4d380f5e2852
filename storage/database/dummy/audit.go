package dummydb

import (
	"context"
	"sort"

	"github.com/shsportal/backend/core/audit"
)

type auditRepository struct {
	db *DB
}

var _ audit.Repository = (*auditRepository)(nil) // interface compliance check

func NewAuditRepository(db *DB) *auditRepository {
	return &auditRepository{db: db}
}

func (repo auditRepository) InsertEntry(ctx context.Context, entry audit.Entry) error {
	tbl := repo.db.audit
	tbl.Lock()
	defer tbl.Unlock()

	tbl.table = append(tbl.table, entry)
	return nil
}

func (repo auditRepository) QueryEntriesBefore(ctx context.Context, rosterID string, pos audit.Position, limit int) ([]audit.Entry, error) {
	tbl := repo.db.audit
	tbl.RLock()
	defer tbl.RUnlock()

	entries := make([]audit.Entry, 0)
	for _, e := range tbl.table {
		if rosterID != "" && e.RosterID != rosterID {
			continue
		}
		if !pos.CreatedAt.IsZero() {
			// strictly older than pos on (created_at, id)
			if e.CreatedAt.After(pos.CreatedAt) {
				continue
			}
			if e.CreatedAt.Equal(pos.CreatedAt) && e.ID >= pos.ID {
				continue
			}
		}
		entries = append(entries, e)
	}

	sort.SliceStable(entries, func(i, j int) bool {
		if !entries[i].CreatedAt.Equal(entries[j].CreatedAt) {
			return entries[i].CreatedAt.After(entries[j].CreatedAt)
		}
		return entries[i].ID > entries[j].ID
	})
	if len(entries) > limit {
		entries = entries[:limit]
	}
	return entries, nil
}
