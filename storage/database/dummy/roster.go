package dummydb

import (
	"context"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/shsportal/backend/core"
	"github.com/shsportal/backend/core/roster"
)

type rosterRepository struct {
	db *DB
}

var _ roster.Repository = (*rosterRepository)(nil) // interface compliance check

func NewRosterRepository(db *DB) *rosterRepository {
	return &rosterRepository{db: db}
}

// copyRoster detaches a roster from the table so callers can never mutate
// stored state outside UpdateRoster.
func copyRoster(ros roster.ClassRoster) roster.ClassRoster {
	cp := ros
	cp.StudentIDs = append([]string(nil), ros.StudentIDs...)
	cp.Entries = make(map[string]*roster.GradeEntry, len(ros.Entries))
	for id, entry := range ros.Entries {
		e := *entry
		cp.Entries[id] = &e
	}
	return cp
}

func sameOffering(a, b roster.ClassRoster) bool {
	return a.SectionID == b.SectionID &&
		a.SubjectID == b.SubjectID &&
		a.Semester == b.Semester &&
		a.SchoolYear == b.SchoolYear
}

func (repo rosterRepository) CreateRoster(ctx context.Context, ros roster.ClassRoster) (roster.ClassRoster, error) {
	tbl := repo.db.roster
	tbl.Lock()
	defer tbl.Unlock()

	// duplicate check and insert happen under the same lock
	for _, existing := range tbl.table {
		if sameOffering(*existing, ros) {
			return roster.ClassRoster{}, roster.ErrRosterExists
		}
	}

	ros.ID = uuid.New().String()
	stored := copyRoster(ros)
	tbl.table[ros.ID] = &stored
	return ros, nil
}

func (repo rosterRepository) GetRoster(ctx context.Context, id string) (roster.ClassRoster, error) {
	tbl := repo.db.roster
	tbl.RLock()
	defer tbl.RUnlock()

	ros, ok := tbl.table[id]
	if !ok {
		return roster.ClassRoster{}, roster.ErrRosterNotFound
	}
	return copyRoster(*ros), nil
}

func (repo rosterRepository) QueryRosters(ctx context.Context, filter *roster.QueryFilter, ordering []core.DBOrdering) ([]roster.ClassRoster, error) {
	tbl := repo.db.roster
	tbl.RLock()
	defer tbl.RUnlock()

	rosters := make([]roster.ClassRoster, 0, len(tbl.table))
	for _, ros := range tbl.table {
		if filter != nil {
			if filter.TeacherID != "" && ros.TeacherID != filter.TeacherID {
				continue
			}
			if filter.SectionID != "" && ros.SectionID != filter.SectionID {
				continue
			}
			if filter.Semester != "" && ros.Semester != filter.Semester {
				continue
			}
			if filter.SchoolYear != "" && ros.SchoolYear != filter.SchoolYear {
				continue
			}
		}
		cp := copyRoster(*ros)
		cp.Entries = nil // membership only, per Repository contract
		rosters = append(rosters, cp)
	}

	sortRosters(rosters, ordering)
	return rosters, nil
}

func sortRosters(rosters []roster.ClassRoster, ordering []core.DBOrdering) {
	less := func(a, b roster.ClassRoster) bool { // default: newest first
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.After(b.CreatedAt)
		}
		return a.ID < b.ID
	}
	if len(ordering) > 0 {
		ord := ordering[0]
		less = func(a, b roster.ClassRoster) bool {
			va, vb := rosterField(a, ord.Field), rosterField(b, ord.Field)
			if ord.Ascending {
				return va < vb
			}
			return va > vb
		}
	}
	sort.SliceStable(rosters, func(i, j int) bool { return less(rosters[i], rosters[j]) })
}

func rosterField(ros roster.ClassRoster, field string) string {
	switch field {
	case "section_name":
		return strings.ToLower(ros.SectionName)
	case "subject_name":
		return strings.ToLower(ros.SubjectName)
	case "teacher_name":
		return strings.ToLower(ros.TeacherName)
	case "school_year":
		return ros.SchoolYear
	default:
		return ros.CreatedAt.Format("2006-01-02T15:04:05.000000000") + ros.ID
	}
}

func (repo rosterRepository) DeleteRoster(ctx context.Context, id string) error {
	tbl := repo.db.roster
	tbl.Lock()
	defer tbl.Unlock()

	if _, ok := tbl.table[id]; !ok {
		return roster.ErrRosterNotFound
	}
	delete(tbl.table, id)
	return nil
}

func (repo rosterRepository) UpdateRoster(ctx context.Context, id string, fn func(*roster.ClassRoster) error) (roster.ClassRoster, error) {
	tbl := repo.db.roster
	tbl.Lock()
	defer tbl.Unlock()

	stored, ok := tbl.table[id]
	if !ok {
		return roster.ClassRoster{}, roster.ErrRosterNotFound
	}

	// fn runs against a copy; the table only sees the result on success
	ros := copyRoster(*stored)
	if err := fn(&ros); err != nil {
		return roster.ClassRoster{}, err
	}

	updated := copyRoster(ros)
	tbl.table[id] = &updated
	return ros, nil
}
