package school

import (
	"strconv"
	"strings"

	"github.com/trezcool/gradebook/core"
)

// Terms
const (
	FirstTerm  = 1
	SecondTerm = 2
)

type Person struct {
	Name       string `json:"name"`
	NationalID string `json:"national_id"`
}

func (p Person) String() string {
	return p.Name + " (ID: " + p.NationalID + ")"
}

type Teacher struct {
	Person
	Salary float64 `json:"salary"`
}

type Student struct {
	Person
	Enrollment string `json:"enrollment"`
}

func (s Student) String() string {
	return s.Name + " (Enrollment: " + s.Enrollment + ")"
}

// ClassKey identifies a Class. Name is compared case-insensitively.
type ClassKey struct {
	Name string
	Year int
	Term int
}

func (k ClassKey) String() string {
	return k.Name + " (" + strconv.Itoa(k.Year) + "/" + strconv.Itoa(k.Term) + ")"
}

// Index returns the normalized form of the key used for lookups.
func (k ClassKey) Index() string {
	return strings.ToLower(core.CleanString(k.Name)) + "|" + strconv.Itoa(k.Year) + "|" + strconv.Itoa(k.Term)
}

// Class is a course offering. Students and the Teacher are held as keys
// and resolved through the Service when needed.
type Class struct {
	Name        string       `json:"name"`
	Year        int          `json:"year"`
	Term        int          `json:"term"`
	TeacherID   string       `json:"teacher_id"` // Teacher.NationalID
	Roster      []string     `json:"roster"`     // Student.Enrollment, in enrollment order
	Evaluations []Evaluation `json:"-"`
}

func (c *Class) Key() ClassKey {
	return ClassKey{Name: c.Name, Year: c.Year, Term: c.Term}
}

// MaxTotal is the sum of the max values of all evaluations.
func (c *Class) MaxTotal() float64 {
	var total float64
	for _, ev := range c.Evaluations {
		total += ev.Header().MaxValue
	}
	return total
}

// NewTeacher contains information needed to register a new Teacher.
type NewTeacher struct {
	Name       string  `json:"name" validate:"notblank,linefield"`
	NationalID string  `json:"national_id" validate:"notblank,linefield"`
	Salary     float64 `json:"salary" validate:"gte=0"`
}

func (nt *NewTeacher) Validate() error {
	nt.Name = core.CleanString(nt.Name)
	nt.NationalID = core.CleanString(nt.NationalID)
	return core.ValidateStruct(nt)
}

// NewStudent contains information needed to register a new Student.
type NewStudent struct {
	Name       string `json:"name" validate:"notblank,linefield"`
	NationalID string `json:"national_id" validate:"notblank,linefield"`
	Enrollment string `json:"enrollment" validate:"notblank,linefield"`
}

func (ns *NewStudent) Validate() error {
	ns.Name = core.CleanString(ns.Name)
	ns.NationalID = core.CleanString(ns.NationalID)
	ns.Enrollment = core.CleanString(ns.Enrollment)
	return core.ValidateStruct(ns)
}

// NewClass contains information needed to register a new Class.
// References are checked by Service.RegisterClass.
type NewClass struct {
	Name        string       `json:"name" validate:"notblank,linefield"`
	Year        int          `json:"year" validate:"gt=0"`
	Term        int          `json:"term" validate:"oneof=1 2"`
	TeacherID   string       `json:"teacher_id" validate:"notblank"`
	Roster      []string     `json:"roster" validate:"unique,dive,notblank"`
	Evaluations []Evaluation `json:"evaluations" validate:"dive,required"`
}

func (nc *NewClass) Validate() error {
	nc.Name = core.CleanString(nc.Name)
	nc.TeacherID = core.CleanString(nc.TeacherID)
	for i := range nc.Roster {
		nc.Roster[i] = core.CleanString(nc.Roster[i])
	}
	return core.ValidateStruct(nc)
}
