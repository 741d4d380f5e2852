package roster

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shsportal/backend/core"
	"github.com/shsportal/backend/core/audit"
	"github.com/shsportal/backend/core/directory"
)

var (
	// errors
	ErrRosterNotFound       = errors.New("class roster not found")
	ErrRosterExists         = errors.New("a class roster already exists for this section, subject, semester and school year")
	ErrStudentNotFound      = errors.New("student is not a member of this roster")
	ErrNoChanges            = errors.New("every submitted field is already committed")
	ErrConfirmationRequired = errors.New("student removal discards recorded grades and must be explicitly confirmed")
)

type (
	Repository interface {
		// CreateRoster persists a roster and its initial grade entries. The
		// duplicate check on (SectionID, SubjectID, Semester, SchoolYear) and the
		// insert execute as one transaction; a concurrent duplicate create loses
		// with ErrRosterExists.
		CreateRoster(ctx context.Context, ros ClassRoster) (ClassRoster, error)
		GetRoster(ctx context.Context, id string) (ClassRoster, error)
		// QueryRosters applies AND operation on available QueryFilter fields.
		// Returned rosters carry membership but no grade entries.
		QueryRosters(ctx context.Context, filter *QueryFilter, ordering []core.DBOrdering) ([]ClassRoster, error)
		DeleteRoster(ctx context.Context, id string) error
		// UpdateRoster loads the roster under an exclusive lock, applies fn and
		// persists the result within the same transaction. Any error returned by
		// fn aborts the transaction with the stored state untouched.
		UpdateRoster(ctx context.Context, id string, fn func(*ClassRoster) error) (ClassRoster, error)
	}

	Service interface {
		// Roster Manager
		Create(ctx context.Context, nr NewRoster) (ClassRoster, error)
		Delete(ctx context.Context, id string) error
		GetByID(ctx context.Context, id string) (ClassRoster, error)
		Query(ctx context.Context, filter *QueryFilter, ordering ...core.DBOrdering) ([]ClassRoster, error)

		// Membership Editor
		ListCandidates(ctx context.Context, rosterID, search string) (Candidates, error)
		AddStudent(ctx context.Context, rosterID, studentID string) (ClassRoster, error)
		RemoveStudent(ctx context.Context, rosterID, studentID string, confirm bool) (ClassRoster, error)

		// Grade Ledger
		SubmitGrades(ctx context.Context, rosterID string, submissions []GradeSubmission) ([]GradeEntry, error)
		ReadDisplayState(ctx context.Context, rosterID string) ([]DisplayEntry, error)
	}

	service struct {
		repo     Repository
		dir      directory.Service
		auditSvc *audit.Service
		mailSvc  core.EmailService
		logger   core.Logger
		conf     *core.Config
	}
)

var _ Service = (*service)(nil)

func NewService(
	repo Repository,
	dir directory.Service,
	auditSvc *audit.Service,
	mailSvc core.EmailService,
	logger core.Logger,
	conf *core.Config,
) Service {
	return &service{
		repo:     repo,
		dir:      dir,
		auditSvc: auditSvc,
		mailSvc:  mailSvc,
		logger:   logger,
		conf:     conf,
	}
}

func (svc *service) Create(ctx context.Context, nr NewRoster) (ClassRoster, error) {
	if err := nr.validateRequired(); err != nil {
		return ClassRoster{}, err
	}

	// snapshot display names at write time
	section, err := svc.dir.GetSection(ctx, nr.SectionID)
	if err != nil {
		return ClassRoster{}, svc.trapDirNotFound(err, "section_id")
	}
	subject, err := svc.dir.GetSubject(ctx, nr.SubjectID)
	if err != nil {
		return ClassRoster{}, svc.trapDirNotFound(err, "subject_id")
	}
	teacher, err := svc.dir.GetTeacher(ctx, nr.TeacherID)
	if err != nil {
		return ClassRoster{}, svc.trapDirNotFound(err, "teacher_id")
	}

	// auto-enroll every eligible student, in surname order
	students, err := svc.dir.FindEligibleStudents(ctx, nr.SectionID, nr.SchoolYear, nr.Semester)
	if err != nil {
		return ClassRoster{}, err
	}

	now := time.Now().UTC()
	ros := ClassRoster{
		SectionID:   nr.SectionID,
		SectionName: section.Name,
		SubjectID:   nr.SubjectID,
		SubjectName: subject.Name,
		TeacherID:   nr.TeacherID,
		TeacherName: teacher.FullName(),
		GradeLevel:  nr.GradeLevel,
		Semester:    nr.Semester,
		SchoolYear:  nr.SchoolYear,
		StudentIDs:  make([]string, 0, len(students)),
		Entries:     make(map[string]*GradeEntry, len(students)),
		CreatedAt:   now,
	}
	for _, student := range students {
		ros.StudentIDs = append(ros.StudentIDs, student.ID)
		ros.Entries[student.ID] = &GradeEntry{
			StudentID:   student.ID,
			StudentName: student.DisplayName(),
			CreatedAt:   now,
		}
	}

	created, err := svc.repo.CreateRoster(ctx, ros)
	if err != nil {
		return ClassRoster{}, err
	}
	created.EnrolledCount = len(created.StudentIDs)

	svc.auditSvc.Record(ctx, audit.Entry{
		Actor:    audit.ActorFromContext(ctx),
		Action:   audit.ActionRosterCreated,
		RosterID: created.ID,
		Detail:   fmt.Sprintf("%s - %s (%s, %s sem %s); %d students auto-enrolled", subject.Name, section.Name, nr.GradeLevel, nr.Semester, nr.SchoolYear, created.EnrolledCount),
	})
	return created, nil
}

func (svc *service) Delete(ctx context.Context, id string) error {
	if err := svc.repo.DeleteRoster(ctx, id); err != nil {
		return err
	}
	svc.auditSvc.Record(ctx, audit.Entry{
		Actor:    audit.ActorFromContext(ctx),
		Action:   audit.ActionRosterDeleted,
		RosterID: id,
		Detail:   "roster and all grade entries discarded",
	})
	return nil
}

func (svc *service) GetByID(ctx context.Context, id string) (ClassRoster, error) {
	return svc.repo.GetRoster(ctx, id)
}

func (svc *service) Query(ctx context.Context, filter *QueryFilter, ordering ...core.DBOrdering) ([]ClassRoster, error) {
	if filter != nil {
		filter.Clean()
	}
	return svc.repo.QueryRosters(ctx, filter, ordering)
}

// trapDirNotFound maps a directory miss on a referenced id to a
// caller-correctable validation error.
func (svc *service) trapDirNotFound(err error, field string) error {
	if errors.Is(err, directory.ErrNotFound) {
		return core.NewValidationError(err, core.FieldError{Field: field, Error: "unknown " + field})
	}
	return err
}
