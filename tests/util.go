package testutil

import (
	"fmt"
	"sync"
	"testing"

	"github.com/trezcool/gradebook/core"
	"github.com/trezcool/gradebook/core/school"
	inmemdb "github.com/trezcool/gradebook/storage/database/inmem"
)

// NewService returns a Service over a fresh in-memory directory.
func NewService(t *testing.T) *school.Service {
	db, err := inmemdb.Open()
	if err != nil {
		t.Fatalf("inmemdb.Open() failed: %v", err)
	}
	return school.NewService(inmemdb.NewSchoolRepository(db))
}

func CreateTeacher(t *testing.T, svc *school.Service, name, nationalID string, salary float64) *school.Teacher {
	tchr, err := svc.RegisterTeacher(school.NewTeacher{Name: name, NationalID: nationalID, Salary: salary})
	if err != nil {
		t.Fatalf("createTeacher() failed: %v", err)
	}
	return tchr
}

func CreateStudent(t *testing.T, svc *school.Service, name, nationalID, enrollment string) *school.Student {
	st, err := svc.RegisterStudent(school.NewStudent{Name: name, NationalID: nationalID, Enrollment: enrollment})
	if err != nil {
		t.Fatalf("createStudent() failed: %v", err)
	}
	return st
}

func CreateClass(
	t *testing.T,
	svc *school.Service,
	name string,
	year, term int,
	teacherID string,
	roster []string,
	evals ...school.Evaluation,
) *school.Class {
	c, err := svc.RegisterClass(school.NewClass{
		Name:        name,
		Year:        year,
		Term:        term,
		TeacherID:   teacherID,
		Roster:      roster,
		Evaluations: evals,
	})
	if err != nil {
		t.Fatalf("createClass() failed: %v", err)
	}
	return c
}

// Header builds a valid evaluation header dated day/month/2024.
func Header(name string, day, month int, maxValue float64) school.EvaluationHeader {
	return school.EvaluationHeader{
		Name:     name,
		Date:     school.Date{Day: day, Month: month, Year: 2024},
		MaxValue: maxValue,
	}
}

// Entry is a message recorded by a Logger.
type Entry struct {
	Level string
	Msg   string
}

// Logger is a core.Logger that records messages instead of printing them.
type Logger struct {
	mu      sync.Mutex
	Entries []Entry
}

var _ core.Logger = (*Logger)(nil)

func (l *Logger) record(level, msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.Entries = append(l.Entries, Entry{Level: level, Msg: msg})
}

// Messages returns the recorded messages of the given level.
func (l *Logger) Messages(level string) []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	var msgs []string
	for _, e := range l.Entries {
		if e.Level == level {
			msgs = append(msgs, e.Msg)
		}
	}
	return msgs
}

func (l *Logger) Debug(msg string, _ ...interface{}) { l.record("DEBUG", msg) }
func (l *Logger) Info(msg string, _ ...interface{})  { l.record("INFO", msg) }
func (l *Logger) Warn(msg string, _ ...interface{})  { l.record("WARN", msg) }
func (l *Logger) Error(msg string, _ ...interface{}) { l.record("ERROR", msg) }
func (l *Logger) Fatal(msg string, _ ...interface{}) { panic(fmt.Sprintf("fatal: %s", msg)) }
