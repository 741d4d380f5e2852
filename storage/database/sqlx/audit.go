package sqlxrepos

import (
	"context"
	"strconv"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/shsportal/backend/core"
	"github.com/shsportal/backend/core/audit"
)

type auditRepository struct {
	db *sqlx.DB
}

var _ audit.Repository = (*auditRepository)(nil) // interface compliance check

func NewAuditRepository(db *sqlx.DB) *auditRepository {
	return &auditRepository{db: db}
}

type auditRow struct {
	ID        string    `db:"id"`
	Actor     string    `db:"actor"`
	Action    string    `db:"action"`
	RosterID  string    `db:"roster_id"`
	StudentID string    `db:"student_id"`
	Detail    string    `db:"detail"`
	CreatedAt time.Time `db:"created_at"`
}

func (repo auditRepository) InsertEntry(ctx context.Context, entry audit.Entry) error {
	_, err := repo.db.NamedExecContext(ctx, `
		INSERT INTO audit_log (id, actor, action, roster_id, student_id, detail, created_at)
		VALUES (:id, :actor, :action, :roster_id, :student_id, :detail, :created_at)`,
		auditRow(entry))
	if err != nil {
		return core.NewStorageError(err, "inserting audit entry")
	}
	return nil
}

func (repo auditRepository) QueryEntriesBefore(ctx context.Context, rosterID string, pos audit.Position, limit int) ([]audit.Entry, error) {
	query := `SELECT * FROM audit_log`
	var args []interface{}

	// keyset pagination on (created_at, id); matches audit_log_page_idx
	if !pos.CreatedAt.IsZero() {
		query += ` WHERE (created_at, id) < ($1, $2)`
		args = append(args, pos.CreatedAt, pos.ID)
	}
	if rosterID != "" {
		if len(args) > 0 {
			query += ` AND roster_id = $3`
		} else {
			query += ` WHERE roster_id = $1`
		}
		args = append(args, rosterID)
	}
	query += ` ORDER BY created_at DESC, id DESC LIMIT ` + strconv.Itoa(limit)

	var rows []auditRow
	if err := repo.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, core.NewStorageError(err, "querying audit entries")
	}

	entries := make([]audit.Entry, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, audit.Entry(row))
	}
	return entries, nil
}
