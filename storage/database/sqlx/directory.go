package sqlxrepos

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"

	"github.com/shsportal/backend/core"
	"github.com/shsportal/backend/core/directory"
)

type directoryRepository struct {
	db *sqlx.DB
}

var _ directory.Repository = (*directoryRepository)(nil) // interface compliance check

func NewDirectoryRepository(db *sqlx.DB) *directoryRepository {
	return &directoryRepository{db: db}
}

type strandRow struct {
	ID   string `db:"id"`
	Name string `db:"name"`
}

type sectionRow struct {
	ID         string `db:"id"`
	StrandID   string `db:"strand_id"`
	Name       string `db:"name"`
	GradeLevel string `db:"grade_level"`
}

type subjectRow struct {
	ID         string `db:"id"`
	StrandID   string `db:"strand_id"`
	Name       string `db:"name"`
	GradeLevel string `db:"grade_level"`
	Semester   string `db:"semester"`
}

type teacherRow struct {
	ID        string `db:"id"`
	FirstName string `db:"first_name"`
	LastName  string `db:"last_name"`
	Email     string `db:"email"`
}

type studentRow struct {
	ID         string `db:"id"`
	FirstName  string `db:"first_name"`
	MiddleName string `db:"middle_name"`
	LastName   string `db:"last_name"`
}

// trapNoRowsErr maps psql "no rows" err to directory.ErrNotFound
func (repo directoryRepository) trapNoRowsErr(err error, msg string) error {
	if err == sql.ErrNoRows {
		return directory.ErrNotFound
	}
	return core.NewStorageError(err, msg)
}

func (repo directoryRepository) QueryStrands(ctx context.Context) ([]directory.Strand, error) {
	var rows []strandRow
	err := repo.db.SelectContext(ctx, &rows, `SELECT * FROM strand ORDER BY name`)
	if err != nil {
		return nil, core.NewStorageError(err, "querying strands")
	}

	strands := make([]directory.Strand, 0, len(rows))
	for _, row := range rows {
		strands = append(strands, directory.Strand(row))
	}
	return strands, nil
}

func (repo directoryRepository) QuerySectionsByStrand(ctx context.Context, strandID string) ([]directory.Section, error) {
	var rows []sectionRow
	err := repo.db.SelectContext(ctx, &rows,
		`SELECT * FROM section WHERE strand_id = $1 ORDER BY grade_level, name`, strandID)
	if err != nil {
		return nil, core.NewStorageError(err, "querying sections")
	}

	sections := make([]directory.Section, 0, len(rows))
	for _, row := range rows {
		sections = append(sections, directory.Section(row))
	}
	return sections, nil
}

func (repo directoryRepository) QuerySubjectsByStrand(ctx context.Context, strandID string) ([]directory.Subject, error) {
	var rows []subjectRow
	err := repo.db.SelectContext(ctx, &rows,
		`SELECT * FROM subject WHERE strand_id = $1 ORDER BY grade_level, semester, name`, strandID)
	if err != nil {
		return nil, core.NewStorageError(err, "querying subjects")
	}

	subjects := make([]directory.Subject, 0, len(rows))
	for _, row := range rows {
		subjects = append(subjects, directory.Subject(row))
	}
	return subjects, nil
}

func (repo directoryRepository) QueryTeachers(ctx context.Context) ([]directory.Teacher, error) {
	var rows []teacherRow
	err := repo.db.SelectContext(ctx, &rows,
		`SELECT * FROM teacher ORDER BY lower(last_name), lower(first_name)`)
	if err != nil {
		return nil, core.NewStorageError(err, "querying teachers")
	}

	teachers := make([]directory.Teacher, 0, len(rows))
	for _, row := range rows {
		teachers = append(teachers, directory.Teacher(row))
	}
	return teachers, nil
}

func (repo directoryRepository) GetSection(ctx context.Context, id string) (directory.Section, error) {
	var row sectionRow
	if err := repo.db.GetContext(ctx, &row, `SELECT * FROM section WHERE id = $1`, id); err != nil {
		return directory.Section{}, repo.trapNoRowsErr(err, "finding section by ID")
	}
	return directory.Section(row), nil
}

func (repo directoryRepository) GetSubject(ctx context.Context, id string) (directory.Subject, error) {
	var row subjectRow
	if err := repo.db.GetContext(ctx, &row, `SELECT * FROM subject WHERE id = $1`, id); err != nil {
		return directory.Subject{}, repo.trapNoRowsErr(err, "finding subject by ID")
	}
	return directory.Subject(row), nil
}

func (repo directoryRepository) GetTeacher(ctx context.Context, id string) (directory.Teacher, error) {
	var row teacherRow
	if err := repo.db.GetContext(ctx, &row, `SELECT * FROM teacher WHERE id = $1`, id); err != nil {
		return directory.Teacher{}, repo.trapNoRowsErr(err, "finding teacher by ID")
	}
	return directory.Teacher(row), nil
}

func (repo directoryRepository) GetStudent(ctx context.Context, id string) (directory.Student, error) {
	var row studentRow
	if err := repo.db.GetContext(ctx, &row, `SELECT * FROM student WHERE id = $1`, id); err != nil {
		return directory.Student{}, repo.trapNoRowsErr(err, "finding student by ID")
	}
	return directory.Student(row), nil
}

const eligibleStudentsQuery = `
	SELECT s.*
	FROM student s
	INNER JOIN enrollment e ON e.student_id = s.id
	WHERE e.section_id = $1 AND e.school_year = $2 AND e.semester = $3 AND e.status = $4
	ORDER BY lower(s.last_name), lower(s.first_name)`

func (repo directoryRepository) QueryEligibleStudents(ctx context.Context, sectionID, schoolYear, semester string) ([]directory.Student, bool, error) {
	var rows []studentRow
	err := repo.db.SelectContext(ctx, &rows, eligibleStudentsQuery,
		sectionID, schoolYear, semester, directory.EnrollmentStatusApproved)
	if err != nil {
		return nil, false, core.NewStorageError(err, "querying eligible students")
	}
	return repo.toStudents(rows), true, nil
}

const enrolledStudentsQuery = `
	SELECT s.*
	FROM student s
	INNER JOIN enrollment e ON e.student_id = s.id
	WHERE e.school_year = $1 AND e.semester = $2 AND e.status = $3
	ORDER BY lower(s.last_name), lower(s.first_name)`

func (repo directoryRepository) QueryEnrolledStudents(ctx context.Context, schoolYear, semester string) ([]directory.Student, bool, error) {
	var rows []studentRow
	err := repo.db.SelectContext(ctx, &rows, enrolledStudentsQuery,
		schoolYear, semester, directory.EnrollmentStatusApproved)
	if err != nil {
		return nil, false, core.NewStorageError(err, "querying enrolled students")
	}
	return repo.toStudents(rows), true, nil
}

func (repo directoryRepository) toStudents(rows []studentRow) []directory.Student {
	students := make([]directory.Student, 0, len(rows))
	for _, row := range rows {
		students = append(students, directory.Student(row))
	}
	return students
}
