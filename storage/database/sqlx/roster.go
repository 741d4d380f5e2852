package sqlxrepos

import (
	"context"
	"database/sql"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/volatiletech/null/v8"

	"github.com/shsportal/backend/core"
	"github.com/shsportal/backend/core/roster"
)

type rosterRepository struct {
	db *sqlx.DB
}

var _ roster.Repository = (*rosterRepository)(nil) // interface compliance check

func NewRosterRepository(db *sqlx.DB) *rosterRepository {
	return &rosterRepository{db: db}
}

type rosterRow struct {
	ID          string    `db:"id"`
	SectionID   string    `db:"section_id"`
	SectionName string    `db:"section_name"`
	SubjectID   string    `db:"subject_id"`
	SubjectName string    `db:"subject_name"`
	TeacherID   string    `db:"teacher_id"`
	TeacherName string    `db:"teacher_name"`
	GradeLevel  string    `db:"grade_level"`
	Semester    string    `db:"semester"`
	SchoolYear  string    `db:"school_year"`
	CreatedAt   time.Time `db:"created_at"`
}

type entryRow struct {
	RosterID      string    `db:"roster_id"`
	StudentID     string    `db:"student_id"`
	StudentName   string    `db:"student_name"`
	FirstQuarter  null.Int  `db:"first_quarter"`
	SecondQuarter null.Int  `db:"second_quarter"`
	FinalGrade    null.Int  `db:"final_grade"`
	Rating        string    `db:"rating"`
	Remarks       string    `db:"remarks"`
	CreatedAt     time.Time `db:"created_at"`
}

func (repo rosterRepository) toRow(ros roster.ClassRoster) rosterRow {
	return rosterRow{
		ID:          ros.ID,
		SectionID:   ros.SectionID,
		SectionName: ros.SectionName,
		SubjectID:   ros.SubjectID,
		SubjectName: ros.SubjectName,
		TeacherID:   ros.TeacherID,
		TeacherName: ros.TeacherName,
		GradeLevel:  ros.GradeLevel,
		Semester:    ros.Semester,
		SchoolYear:  ros.SchoolYear,
		CreatedAt:   ros.CreatedAt.UTC(),
	}
}

func (repo rosterRepository) fromRow(row rosterRow, entries []entryRow) roster.ClassRoster {
	ros := roster.ClassRoster{
		ID:          row.ID,
		SectionID:   row.SectionID,
		SectionName: row.SectionName,
		SubjectID:   row.SubjectID,
		SubjectName: row.SubjectName,
		TeacherID:   row.TeacherID,
		TeacherName: row.TeacherName,
		GradeLevel:  row.GradeLevel,
		Semester:    row.Semester,
		SchoolYear:  row.SchoolYear,
		CreatedAt:   row.CreatedAt,
		StudentIDs:  make([]string, 0, len(entries)),
		Entries:     make(map[string]*roster.GradeEntry, len(entries)),
	}
	for _, e := range entries {
		entry := roster.GradeEntry{
			StudentID:     e.StudentID,
			StudentName:   e.StudentName,
			FirstQuarter:  e.FirstQuarter,
			SecondQuarter: e.SecondQuarter,
			FinalGrade:    e.FinalGrade,
			Rating:        e.Rating,
			Remarks:       e.Remarks,
			CreatedAt:     e.CreatedAt,
		}
		ros.StudentIDs = append(ros.StudentIDs, e.StudentID)
		ros.Entries[e.StudentID] = &entry
	}
	return ros
}

// trapNoRowsErr maps psql "no rows" err to roster.ErrRosterNotFound
func (repo rosterRepository) trapNoRowsErr(err error, msg string) error {
	if err == sql.ErrNoRows {
		return roster.ErrRosterNotFound
	}
	return core.NewStorageError(err, msg)
}

// isOfferingConflict reports whether err is a unique violation of the
// one-roster-per-offering constraint.
func isOfferingConflict(err error) bool {
	if pqErr, ok := err.(*pq.Error); ok {
		return pqErr.Code == "23505" && pqErr.Constraint == "class_roster_offering_key"
	}
	return false
}

const insertEntryQuery = `
	INSERT INTO grade_entry (roster_id, student_id, student_name, first_quarter, second_quarter, final_grade, rating, remarks, created_at)
	VALUES (:roster_id, :student_id, :student_name, :first_quarter, :second_quarter, :final_grade, :rating, :remarks, :created_at)`

func (repo rosterRepository) insertEntries(ctx context.Context, tx *sqlx.Tx, rosterID string, ros roster.ClassRoster) error {
	for _, entry := range ros.Entries {
		row := entryRow{
			RosterID:      rosterID,
			StudentID:     entry.StudentID,
			StudentName:   entry.StudentName,
			FirstQuarter:  entry.FirstQuarter,
			SecondQuarter: entry.SecondQuarter,
			FinalGrade:    entry.FinalGrade,
			Rating:        entry.Rating,
			Remarks:       entry.Remarks,
			CreatedAt:     entry.CreatedAt.UTC(),
		}
		if _, err := tx.NamedExecContext(ctx, insertEntryQuery, row); err != nil {
			return core.NewStorageError(err, "inserting grade entry")
		}
	}
	return nil
}

func (repo rosterRepository) CreateRoster(ctx context.Context, ros roster.ClassRoster) (roster.ClassRoster, error) {
	ros.ID = uuid.New().String()

	tx, err := repo.db.BeginTxx(ctx, nil)
	if err != nil {
		return roster.ClassRoster{}, core.NewStorageError(err, "beginning transaction")
	}
	defer func() { _ = tx.Rollback() }()

	// the unique constraint makes the duplicate check and the insert one
	// indivisible operation; two concurrent creators cannot both pass.
	_, err = tx.NamedExecContext(ctx, `
		INSERT INTO class_roster (id, section_id, section_name, subject_id, subject_name, teacher_id, teacher_name, grade_level, semester, school_year, created_at)
		VALUES (:id, :section_id, :section_name, :subject_id, :subject_name, :teacher_id, :teacher_name, :grade_level, :semester, :school_year, :created_at)`,
		repo.toRow(ros))
	if err != nil {
		if isOfferingConflict(err) {
			return roster.ClassRoster{}, roster.ErrRosterExists
		}
		return roster.ClassRoster{}, core.NewStorageError(err, "inserting roster")
	}

	if err = repo.insertEntries(ctx, tx, ros.ID, ros); err != nil {
		return roster.ClassRoster{}, err
	}

	if err = tx.Commit(); err != nil {
		return roster.ClassRoster{}, core.NewStorageError(err, "committing roster insert")
	}
	return ros, nil
}

func (repo rosterRepository) getRoster(ctx context.Context, q sqlx.QueryerContext, id string, lock bool) (roster.ClassRoster, error) {
	if _, err := uuid.Parse(id); err != nil {
		return roster.ClassRoster{}, roster.ErrRosterNotFound
	}

	query := `SELECT * FROM class_roster WHERE id = $1`
	if lock {
		query += ` FOR UPDATE`
	}

	var row rosterRow
	if err := sqlx.GetContext(ctx, q, &row, query, id); err != nil {
		return roster.ClassRoster{}, repo.trapNoRowsErr(err, "finding roster by ID")
	}

	var entries []entryRow
	err := sqlx.SelectContext(ctx, q, &entries,
		`SELECT * FROM grade_entry WHERE roster_id = $1 ORDER BY lower(student_name), student_id`, id)
	if err != nil {
		return roster.ClassRoster{}, core.NewStorageError(err, "querying grade entries")
	}
	return repo.fromRow(row, entries), nil
}

func (repo rosterRepository) GetRoster(ctx context.Context, id string) (roster.ClassRoster, error) {
	return repo.getRoster(ctx, repo.db, id, false)
}

func (repo rosterRepository) QueryRosters(ctx context.Context, filter *roster.QueryFilter, ordering []core.DBOrdering) ([]roster.ClassRoster, error) {
	query := `SELECT * FROM class_roster`
	var clauses []string
	var args []interface{}

	arg := func(val string) string {
		args = append(args, val)
		return "$" + strconv.Itoa(len(args))
	}
	if filter != nil {
		if filter.TeacherID != "" {
			clauses = append(clauses, "teacher_id = "+arg(filter.TeacherID))
		}
		if filter.SectionID != "" {
			clauses = append(clauses, "section_id = "+arg(filter.SectionID))
		}
		if filter.Semester != "" {
			clauses = append(clauses, "semester = "+arg(filter.Semester))
		}
		if filter.SchoolYear != "" {
			clauses = append(clauses, "school_year = "+arg(filter.SchoolYear))
		}
	}
	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}

	if len(ordering) > 0 {
		orderList := make([]string, 0, len(ordering))
		for _, ord := range ordering {
			orderList = append(orderList, ord.String())
		}
		query += " ORDER BY " + strings.Join(orderList, ", ")
	} else {
		query += " ORDER BY created_at DESC"
	}

	var rows []rosterRow
	if err := sqlx.SelectContext(ctx, repo.db, &rows, query, args...); err != nil {
		return nil, core.NewStorageError(err, "querying rosters")
	}

	rosters := make([]roster.ClassRoster, 0, len(rows))
	for _, row := range rows {
		rosters = append(rosters, repo.fromRow(row, nil))
	}
	return rosters, nil
}

func (repo rosterRepository) DeleteRoster(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return roster.ErrRosterNotFound
	}

	// grade entries go with the roster (ON DELETE CASCADE)
	res, err := repo.db.ExecContext(ctx, `DELETE FROM class_roster WHERE id = $1`, id)
	if err != nil {
		return core.NewStorageError(err, "deleting roster")
	}
	cnt, err := res.RowsAffected()
	if err != nil {
		return core.NewStorageError(err, "deleting roster")
	}
	if cnt == 0 {
		return roster.ErrRosterNotFound
	}
	return nil
}

func (repo rosterRepository) UpdateRoster(ctx context.Context, id string, fn func(*roster.ClassRoster) error) (roster.ClassRoster, error) {
	tx, err := repo.db.BeginTxx(ctx, nil)
	if err != nil {
		return roster.ClassRoster{}, core.NewStorageError(err, "beginning transaction")
	}
	defer func() { _ = tx.Rollback() }()

	// row lock for the duration of the read-modify-write; concurrent updaters
	// queue here instead of clobbering each other.
	ros, err := repo.getRoster(ctx, tx, id, true)
	if err != nil {
		return roster.ClassRoster{}, err
	}

	if err = fn(&ros); err != nil {
		return roster.ClassRoster{}, err
	}

	if _, err = tx.ExecContext(ctx, `DELETE FROM grade_entry WHERE roster_id = $1`, id); err != nil {
		return roster.ClassRoster{}, core.NewStorageError(err, "replacing grade entries")
	}
	if err = repo.insertEntries(ctx, tx, id, ros); err != nil {
		return roster.ClassRoster{}, err
	}

	if err = tx.Commit(); err != nil {
		return roster.ClassRoster{}, core.NewStorageError(err, "committing roster update")
	}
	return ros, nil
}
