package dummydb

import (
	"sync"

	"github.com/shsportal/backend/core/audit"
	"github.com/shsportal/backend/core/directory"
	"github.com/shsportal/backend/core/roster"
)

type (
	DB struct {
		roster    *rosterTable
		directory *directoryTable
		audit     *auditTable
	}

	rosterTable struct {
		sync.RWMutex
		table map[string]*roster.ClassRoster
	}

	directoryTable struct {
		sync.RWMutex
		strands     map[string]directory.Strand
		sections    map[string]directory.Section
		subjects    map[string]directory.Subject
		teachers    map[string]directory.Teacher
		students    map[string]directory.Student
		enrollments []directory.EnrollmentRecord
	}

	auditTable struct {
		sync.RWMutex
		table []audit.Entry
	}
)

func Open() (*DB, error) {
	db := &DB{
		roster: &rosterTable{table: make(map[string]*roster.ClassRoster)},
		directory: &directoryTable{
			strands:  make(map[string]directory.Strand),
			sections: make(map[string]directory.Section),
			subjects: make(map[string]directory.Subject),
			teachers: make(map[string]directory.Teacher),
			students: make(map[string]directory.Student),
		},
		audit: &auditTable{},
	}
	return db, nil
}
