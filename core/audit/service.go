package audit

import (
	"context"
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/shsportal/backend/core"
)

const (
	defaultPageSize = 50
	maxPageSize     = 500
)

var errInvalidCursor = errors.New("invalid cursor")

type (
	// Position is a keyset cursor: entries strictly older than it are returned,
	// newest first.
	Position struct {
		CreatedAt time.Time
		ID        string
	}

	Repository interface {
		InsertEntry(ctx context.Context, entry Entry) error
		// QueryEntriesBefore returns up to limit entries older than pos (or the
		// newest entries when pos is zero), ordered newest first.
		QueryEntriesBefore(ctx context.Context, rosterID string, pos Position, limit int) ([]Entry, error)
	}

	// Service is an explicit query/record object; all cursor state lives in the
	// request, never in the service, so independent callers can page
	// concurrently.
	Service struct {
		repo   Repository
		logger core.Logger
	}
)

func NewService(repo Repository, logger core.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// Record persists an audit entry best-effort: failures are logged and
// swallowed so they can never fail the audited operation.
func (svc *Service) Record(ctx context.Context, entry Entry) {
	entry.ID = uuid.New().String()
	entry.CreatedAt = time.Now().UTC()
	if err := svc.repo.InsertEntry(ctx, entry); err != nil {
		svc.logger.Error(fmt.Sprintf("recording audit entry: %v", err), err)
	}
}

func (svc *Service) Page(ctx context.Context, query PageQuery) (Page, error) {
	limit := query.Limit
	if limit <= 0 {
		limit = defaultPageSize
	} else if limit > maxPageSize {
		limit = maxPageSize
	}

	var pos Position
	if query.Cursor != "" {
		var err error
		if pos, err = decodeCursor(query.Cursor); err != nil {
			return Page{}, core.NewValidationError(err, core.FieldError{Field: "cursor", Error: err.Error()})
		}
	}

	// fetch one extra entry to know whether another page exists
	entries, err := svc.repo.QueryEntriesBefore(ctx, query.RosterID, pos, limit+1)
	if err != nil {
		return Page{}, err
	}

	page := Page{Entries: entries}
	if len(entries) > limit {
		page.Entries = entries[:limit]
		last := page.Entries[limit-1]
		page.NextCursor = encodeCursor(Position{CreatedAt: last.CreatedAt, ID: last.ID})
	}
	if page.Entries == nil {
		page.Entries = []Entry{}
	}
	return page, nil
}

func encodeCursor(pos Position) string {
	raw := strconv.FormatInt(pos.CreatedAt.UnixNano(), 10) + "|" + pos.ID
	return base64.RawURLEncoding.EncodeToString([]byte(raw))
}

func decodeCursor(cursor string) (Position, error) {
	raw, err := base64.RawURLEncoding.DecodeString(cursor)
	if err != nil {
		return Position{}, errInvalidCursor
	}
	parts := strings.SplitN(string(raw), "|", 2)
	if len(parts) != 2 {
		return Position{}, errInvalidCursor
	}
	nanos, err := strconv.ParseInt(parts[0], 10, 64)
	if err != nil {
		return Position{}, errInvalidCursor
	}
	return Position{CreatedAt: time.Unix(0, nanos).UTC(), ID: parts[1]}, nil
}
