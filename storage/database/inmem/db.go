package inmemdb

import (
	"sync"

	"github.com/trezcool/gradebook/core/school"
)

type (
	// DB keeps every table behind a single lock: national IDs are unique across
	// the teacher and student tables, so a create must see both.
	DB struct {
		sync.RWMutex
		teacher *teacherTable
		student *studentTable
		class   *classTable
	}

	teacherTable struct {
		rows  []*school.Teacher
		index map[string]*school.Teacher // by national ID
	}

	studentTable struct {
		rows       []*school.Student
		index      map[string]*school.Student // by enrollment
		nationalID map[string]*school.Student
	}

	classTable struct {
		rows  []*school.Class
		index map[string]*school.Class // by ClassKey.Index()
	}
)

func Open() (*DB, error) {
	db := &DB{}
	db.reset()
	return db, nil
}

func (db *DB) reset() {
	db.teacher = &teacherTable{index: make(map[string]*school.Teacher)}
	db.student = &studentTable{
		index:      make(map[string]*school.Student),
		nationalID: make(map[string]*school.Student),
	}
	db.class = &classTable{index: make(map[string]*school.Class)}
}
