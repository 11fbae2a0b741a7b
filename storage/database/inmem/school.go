package inmemdb

import (
	"github.com/trezcool/gradebook/core/school"
)

type schoolRepository struct {
	db *DB
}

var _ school.Repository = (*schoolRepository)(nil) // interface compliance check

func NewSchoolRepository(db *DB) school.Repository {
	return &schoolRepository{db: db}
}

func (repo *schoolRepository) nationalIDExists(id string) bool {
	if _, ok := repo.db.teacher.index[id]; ok {
		return true
	}
	_, ok := repo.db.student.nationalID[id]
	return ok
}

func (repo *schoolRepository) CreateTeacher(t *school.Teacher) error {
	if t == nil {
		return school.ErrNilEntity
	}
	repo.db.Lock()
	defer repo.db.Unlock()

	if repo.nationalIDExists(t.NationalID) {
		return school.ErrNationalIDExists
	}
	repo.db.teacher.rows = append(repo.db.teacher.rows, t)
	repo.db.teacher.index[t.NationalID] = t
	return nil
}

func (repo *schoolRepository) CreateStudent(s *school.Student) error {
	if s == nil {
		return school.ErrNilEntity
	}
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.student.index[s.Enrollment]; ok {
		return school.ErrEnrollmentExists
	}
	if repo.nationalIDExists(s.NationalID) {
		return school.ErrNationalIDExists
	}
	repo.db.student.rows = append(repo.db.student.rows, s)
	repo.db.student.index[s.Enrollment] = s
	repo.db.student.nationalID[s.NationalID] = s
	return nil
}

func (repo *schoolRepository) CreateClass(c *school.Class) error {
	if c == nil {
		return school.ErrNilEntity
	}
	repo.db.Lock()
	defer repo.db.Unlock()

	key := c.Key().Index()
	if _, ok := repo.db.class.index[key]; ok {
		return school.ErrClassExists
	}
	repo.db.class.rows = append(repo.db.class.rows, c)
	repo.db.class.index[key] = c
	return nil
}

func (repo *schoolRepository) GetTeacher(nationalID string) (*school.Teacher, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if t, ok := repo.db.teacher.index[nationalID]; ok {
		return t, nil
	}
	return nil, school.ErrNotFound
}

func (repo *schoolRepository) GetStudent(enrollment string) (*school.Student, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if s, ok := repo.db.student.index[enrollment]; ok {
		return s, nil
	}
	return nil, school.ErrNotFound
}

func (repo *schoolRepository) GetClass(key school.ClassKey) (*school.Class, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if c, ok := repo.db.class.index[key.Index()]; ok {
		return c, nil
	}
	return nil, school.ErrNotFound
}

func (repo *schoolRepository) QueryAllTeachers() ([]*school.Teacher, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()
	return append([]*school.Teacher(nil), repo.db.teacher.rows...), nil
}

func (repo *schoolRepository) QueryAllStudents() ([]*school.Student, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()
	return append([]*school.Student(nil), repo.db.student.rows...), nil
}

func (repo *schoolRepository) QueryAllClasses() ([]*school.Class, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()
	return append([]*school.Class(nil), repo.db.class.rows...), nil
}

func (repo *schoolRepository) Reset() error {
	repo.db.Lock()
	defer repo.db.Unlock()
	repo.db.reset()
	return nil
}
