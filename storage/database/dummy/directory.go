package dummydb

import (
	"context"

	"github.com/shsportal/backend/core/directory"
)

type directoryRepository struct {
	db *DB
}

var _ directory.Repository = (*directoryRepository)(nil) // interface compliance check

func NewDirectoryRepository(db *DB) *directoryRepository {
	return &directoryRepository{db: db}
}

// Seed helpers; intended for tests and local tooling.

func (db *DB) SeedStrands(strands ...directory.Strand) {
	db.directory.Lock()
	defer db.directory.Unlock()
	for _, s := range strands {
		db.directory.strands[s.ID] = s
	}
}

func (db *DB) SeedSections(sections ...directory.Section) {
	db.directory.Lock()
	defer db.directory.Unlock()
	for _, s := range sections {
		db.directory.sections[s.ID] = s
	}
}

func (db *DB) SeedSubjects(subjects ...directory.Subject) {
	db.directory.Lock()
	defer db.directory.Unlock()
	for _, s := range subjects {
		db.directory.subjects[s.ID] = s
	}
}

func (db *DB) SeedTeachers(teachers ...directory.Teacher) {
	db.directory.Lock()
	defer db.directory.Unlock()
	for _, t := range teachers {
		db.directory.teachers[t.ID] = t
	}
}

func (db *DB) SeedStudents(students ...directory.Student) {
	db.directory.Lock()
	defer db.directory.Unlock()
	for _, s := range students {
		db.directory.students[s.ID] = s
	}
}

func (db *DB) SeedEnrollments(enrollments ...directory.EnrollmentRecord) {
	db.directory.Lock()
	defer db.directory.Unlock()
	db.directory.enrollments = append(db.directory.enrollments, enrollments...)
}

func (repo directoryRepository) QueryStrands(ctx context.Context) ([]directory.Strand, error) {
	tbl := repo.db.directory
	tbl.RLock()
	defer tbl.RUnlock()

	strands := make([]directory.Strand, 0, len(tbl.strands))
	for _, s := range tbl.strands {
		strands = append(strands, s)
	}
	return strands, nil
}

func (repo directoryRepository) QuerySectionsByStrand(ctx context.Context, strandID string) ([]directory.Section, error) {
	tbl := repo.db.directory
	tbl.RLock()
	defer tbl.RUnlock()

	sections := make([]directory.Section, 0)
	for _, s := range tbl.sections {
		if s.StrandID == strandID {
			sections = append(sections, s)
		}
	}
	return sections, nil
}

func (repo directoryRepository) QuerySubjectsByStrand(ctx context.Context, strandID string) ([]directory.Subject, error) {
	tbl := repo.db.directory
	tbl.RLock()
	defer tbl.RUnlock()

	subjects := make([]directory.Subject, 0)
	for _, s := range tbl.subjects {
		if s.StrandID == strandID {
			subjects = append(subjects, s)
		}
	}
	return subjects, nil
}

func (repo directoryRepository) QueryTeachers(ctx context.Context) ([]directory.Teacher, error) {
	tbl := repo.db.directory
	tbl.RLock()
	defer tbl.RUnlock()

	teachers := make([]directory.Teacher, 0, len(tbl.teachers))
	for _, t := range tbl.teachers {
		teachers = append(teachers, t)
	}
	return teachers, nil
}

func (repo directoryRepository) GetSection(ctx context.Context, id string) (directory.Section, error) {
	tbl := repo.db.directory
	tbl.RLock()
	defer tbl.RUnlock()

	if s, ok := tbl.sections[id]; ok {
		return s, nil
	}
	return directory.Section{}, directory.ErrNotFound
}

func (repo directoryRepository) GetSubject(ctx context.Context, id string) (directory.Subject, error) {
	tbl := repo.db.directory
	tbl.RLock()
	defer tbl.RUnlock()

	if s, ok := tbl.subjects[id]; ok {
		return s, nil
	}
	return directory.Subject{}, directory.ErrNotFound
}

func (repo directoryRepository) GetTeacher(ctx context.Context, id string) (directory.Teacher, error) {
	tbl := repo.db.directory
	tbl.RLock()
	defer tbl.RUnlock()

	if t, ok := tbl.teachers[id]; ok {
		return t, nil
	}
	return directory.Teacher{}, directory.ErrNotFound
}

func (repo directoryRepository) GetStudent(ctx context.Context, id string) (directory.Student, error) {
	tbl := repo.db.directory
	tbl.RLock()
	defer tbl.RUnlock()

	if s, ok := tbl.students[id]; ok {
		return s, nil
	}
	return directory.Student{}, directory.ErrNotFound
}

// QueryEligibleStudents returns matches in map iteration order and reports
// ordered=false; the service layer sorts.
func (repo directoryRepository) QueryEligibleStudents(ctx context.Context, sectionID, schoolYear, semester string) ([]directory.Student, bool, error) {
	tbl := repo.db.directory
	tbl.RLock()
	defer tbl.RUnlock()

	students := make([]directory.Student, 0)
	for _, e := range tbl.enrollments {
		if e.SectionID != sectionID || e.SchoolYear != schoolYear || e.Semester != semester {
			continue
		}
		if e.Status != directory.EnrollmentStatusApproved {
			continue
		}
		if s, ok := tbl.students[e.StudentID]; ok {
			students = append(students, s)
		}
	}
	return students, false, nil
}

func (repo directoryRepository) QueryEnrolledStudents(ctx context.Context, schoolYear, semester string) ([]directory.Student, bool, error) {
	tbl := repo.db.directory
	tbl.RLock()
	defer tbl.RUnlock()

	students := make([]directory.Student, 0)
	for _, e := range tbl.enrollments {
		if e.SchoolYear != schoolYear || e.Semester != semester {
			continue
		}
		if e.Status != directory.EnrollmentStatusApproved {
			continue
		}
		if s, ok := tbl.students[e.StudentID]; ok {
			students = append(students, s)
		}
	}
	return students, false, nil
}
