package school

import (
	"sort"
	"strings"

	"github.com/pkg/errors"

	"github.com/trezcool/gradebook/core"
)

var (
	// errors
	ErrNotFound         = errors.New("not found")
	ErrNilEntity        = errors.New("cannot register a nil entity")
	ErrNationalIDExists = errors.New("a person with this national ID already exists")
	ErrEnrollmentExists = errors.New("a student with this enrollment already exists")
	ErrClassExists      = errors.New("a class with this name, year and term already exists")
)

type (
	// Repository is the entity directory. Create* enforce key uniqueness;
	// Query* return entities in insertion order.
	Repository interface {
		CreateTeacher(t *Teacher) error
		CreateStudent(s *Student) error
		CreateClass(c *Class) error
		GetTeacher(nationalID string) (*Teacher, error)
		GetStudent(enrollment string) (*Student, error)
		GetClass(key ClassKey) (*Class, error)
		QueryAllTeachers() ([]*Teacher, error)
		QueryAllStudents() ([]*Student, error)
		QueryAllClasses() ([]*Class, error)
		Reset() error
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// asValidationError converts uniqueness sentinels into a *core.ValidationError.
func asValidationError(err error) error {
	var field string
	switch errors.Cause(err) {
	case ErrNationalIDExists:
		field = "national_id"
	case ErrEnrollmentExists:
		field = "enrollment"
	case ErrClassExists:
		field = "name"
	case ErrNilEntity:
		return core.NewValidationError(ErrNilEntity)
	default:
		return err
	}
	return core.NewValidationError(errors.Cause(err), core.FieldError{Field: field, Error: errors.Cause(err).Error()})
}

func (svc *Service) RegisterTeacher(nt NewTeacher) (*Teacher, error) {
	if err := nt.Validate(); err != nil {
		return nil, err
	}
	t := &Teacher{
		Person: Person{Name: nt.Name, NationalID: nt.NationalID},
		Salary: nt.Salary,
	}
	if err := svc.repo.CreateTeacher(t); err != nil {
		return nil, asValidationError(err)
	}
	return t, nil
}

func (svc *Service) RegisterStudent(ns NewStudent) (*Student, error) {
	if err := ns.Validate(); err != nil {
		return nil, err
	}
	s := &Student{
		Person:     Person{Name: ns.Name, NationalID: ns.NationalID},
		Enrollment: ns.Enrollment,
	}
	if err := svc.repo.CreateStudent(s); err != nil {
		return nil, asValidationError(err)
	}
	return s, nil
}

// RegisterClass registers a Class whose Teacher and roster Students all exist.
// Unresolved references are reported wrapping ErrNotFound.
func (svc *Service) RegisterClass(nc NewClass) (*Class, error) {
	if err := nc.Validate(); err != nil {
		return nil, err
	}
	if _, err := svc.repo.GetTeacher(nc.TeacherID); err != nil {
		return nil, errors.Wrapf(err, "teacher %q", nc.TeacherID)
	}
	for _, enr := range nc.Roster {
		if _, err := svc.repo.GetStudent(enr); err != nil {
			return nil, errors.Wrapf(err, "student %q", enr)
		}
	}
	c := &Class{
		Name:        nc.Name,
		Year:        nc.Year,
		Term:        nc.Term,
		TeacherID:   nc.TeacherID,
		Roster:      append([]string(nil), nc.Roster...),
		Evaluations: append([]Evaluation(nil), nc.Evaluations...),
	}
	if err := svc.repo.CreateClass(c); err != nil {
		return nil, asValidationError(err)
	}
	return c, nil
}

func (svc *Service) FindTeacher(nationalID string) (*Teacher, error) {
	return svc.repo.GetTeacher(core.CleanString(nationalID))
}

func (svc *Service) FindStudent(enrollment string) (*Student, error) {
	return svc.repo.GetStudent(core.CleanString(enrollment))
}

func (svc *Service) FindClass(key ClassKey) (*Class, error) {
	return svc.repo.GetClass(key)
}

func (svc *Service) Teachers() ([]*Teacher, error) {
	return svc.repo.QueryAllTeachers()
}

func (svc *Service) Students() ([]*Student, error) {
	return svc.repo.QueryAllStudents()
}

func (svc *Service) Classes() ([]*Class, error) {
	return svc.repo.QueryAllClasses()
}

// SortedClasses lists classes by term desc, year desc, name asc, then teacher name asc
// (names compared case-insensitively).
func (svc *Service) SortedClasses() ([]*Class, error) {
	classes, err := svc.repo.QueryAllClasses()
	if err != nil {
		return nil, err
	}
	teacherName := func(c *Class) string {
		if t, err := svc.repo.GetTeacher(c.TeacherID); err == nil {
			return strings.ToLower(t.Name)
		}
		return ""
	}
	sort.SliceStable(classes, func(i, j int) bool {
		ci, cj := classes[i], classes[j]
		if ci.Term != cj.Term {
			return ci.Term > cj.Term
		}
		if ci.Year != cj.Year {
			return ci.Year > cj.Year
		}
		if ni, nj := strings.ToLower(ci.Name), strings.ToLower(cj.Name); ni != nj {
			return ni < nj
		}
		return teacherName(ci) < teacherName(cj)
	})
	return classes, nil
}

// Reset empties the directory, ahead of a full reload.
func (svc *Service) Reset() error {
	return svc.repo.Reset()
}
