package directory

import (
	"context"
	"errors"
	"sort"
	"strings"
)

var (
	// errors
	ErrNotFound = errors.New("directory record not found")
)

type (
	Repository interface {
		QueryStrands(ctx context.Context) ([]Strand, error)
		QuerySectionsByStrand(ctx context.Context, strandID string) ([]Section, error)
		QuerySubjectsByStrand(ctx context.Context, strandID string) ([]Subject, error)
		QueryTeachers(ctx context.Context) ([]Teacher, error)
		GetSection(ctx context.Context, id string) (Section, error)
		GetSubject(ctx context.Context, id string) (Subject, error)
		GetTeacher(ctx context.Context, id string) (Teacher, error)
		GetStudent(ctx context.Context, id string) (Student, error)
		// QueryEligibleStudents returns students holding an approved enrollment
		// matching (sectionID, schoolYear, semester). `ordered` reports whether
		// the backing store could serve the surname ordering itself; when it
		// could not, the caller is expected to sort client-side.
		QueryEligibleStudents(ctx context.Context, sectionID, schoolYear, semester string) (students []Student, ordered bool, err error)
		// QueryEnrolledStudents is QueryEligibleStudents across all sections of
		// the given (schoolYear, semester).
		QueryEnrolledStudents(ctx context.Context, schoolYear, semester string) (students []Student, ordered bool, err error)
	}

	Service interface {
		ListStrands(ctx context.Context) ([]Strand, error)
		ListSectionsByStrand(ctx context.Context, strandID string) ([]Section, error)
		ListSubjectsByStrand(ctx context.Context, strandID string) ([]Subject, error)
		ListTeachers(ctx context.Context) ([]Teacher, error)
		GetSection(ctx context.Context, id string) (Section, error)
		GetSubject(ctx context.Context, id string) (Subject, error)
		GetTeacher(ctx context.Context, id string) (Teacher, error)
		GetStudent(ctx context.Context, id string) (Student, error)
		// FindEligibleStudents returns eligible students for a class offering,
		// always ordered by surname then given name, ascending, case-insensitive,
		// regardless of whether the backing store could serve that ordering.
		FindEligibleStudents(ctx context.Context, sectionID, schoolYear, semester string) ([]Student, error)
		// FindEnrolledStudents returns all enrolled students of a school term in
		// the same ordering.
		FindEnrolledStudents(ctx context.Context, schoolYear, semester string) ([]Student, error)
	}

	service struct {
		repo Repository
	}
)

var _ Service = (*service)(nil)

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (svc *service) ListStrands(ctx context.Context) ([]Strand, error) {
	return svc.repo.QueryStrands(ctx)
}

func (svc *service) ListSectionsByStrand(ctx context.Context, strandID string) ([]Section, error) {
	return svc.repo.QuerySectionsByStrand(ctx, strandID)
}

func (svc *service) ListSubjectsByStrand(ctx context.Context, strandID string) ([]Subject, error) {
	return svc.repo.QuerySubjectsByStrand(ctx, strandID)
}

func (svc *service) ListTeachers(ctx context.Context) ([]Teacher, error) {
	return svc.repo.QueryTeachers(ctx)
}

func (svc *service) GetSection(ctx context.Context, id string) (Section, error) {
	return svc.repo.GetSection(ctx, id)
}

func (svc *service) GetSubject(ctx context.Context, id string) (Subject, error) {
	return svc.repo.GetSubject(ctx, id)
}

func (svc *service) GetTeacher(ctx context.Context, id string) (Teacher, error) {
	return svc.repo.GetTeacher(ctx, id)
}

func (svc *service) GetStudent(ctx context.Context, id string) (Student, error) {
	return svc.repo.GetStudent(ctx, id)
}

func (svc *service) FindEligibleStudents(ctx context.Context, sectionID, schoolYear, semester string) ([]Student, error) {
	students, ordered, err := svc.repo.QueryEligibleStudents(ctx, sectionID, schoolYear, semester)
	if err != nil {
		return nil, err
	}
	if !ordered {
		SortStudents(students)
	}
	return students, nil
}

func (svc *service) FindEnrolledStudents(ctx context.Context, schoolYear, semester string) ([]Student, error) {
	students, ordered, err := svc.repo.QueryEnrolledStudents(ctx, schoolYear, semester)
	if err != nil {
		return nil, err
	}
	if !ordered {
		SortStudents(students)
	}
	return students, nil
}

// SortStudents orders students by surname then given name, ascending,
// case-insensitive. This must match the ordering of the stores that can sort
// server-side so that both paths are observably identical.
func SortStudents(students []Student) {
	sort.SliceStable(students, func(i, j int) bool {
		li, lj := strings.ToLower(students[i].LastName), strings.ToLower(students[j].LastName)
		if li != lj {
			return li < lj
		}
		return strings.ToLower(students[i].FirstName) < strings.ToLower(students[j].FirstName)
	})
}
