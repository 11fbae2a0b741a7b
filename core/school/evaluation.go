package school

import (
	"fmt"
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/gradebook/core"
)

var (
	// errors
	ErrNegativeGrade   = errors.New("grade cannot be negative")
	ErrDuplicateMember = errors.New("student is already a member of this group")
	ErrGroupTooLarge   = errors.New("group exceeds the maximum group size")
	ErrScoreCount      = errors.New("number of scores does not match the number of questions")
	ErrDuplicateSheet  = errors.New("student already has scores for this exam")
)

// EvaluationKind tags the concrete type behind an Evaluation.
type EvaluationKind int

const (
	KindExam EvaluationKind = iota + 1
	KindAssignment
)

func (k EvaluationKind) String() string {
	switch k {
	case KindExam:
		return "exam"
	case KindAssignment:
		return "assignment"
	default:
		return "unknown"
	}
}

type Date struct {
	Day   int `json:"day"`
	Month int `json:"month"`
	Year  int `json:"year"`
}

func (d Date) String() string {
	return fmt.Sprintf("%02d/%02d/%04d", d.Day, d.Month, d.Year)
}

// After reports whether d is strictly later than other.
func (d Date) After(other Date) bool {
	if d.Year != other.Year {
		return d.Year > other.Year
	}
	if d.Month != other.Month {
		return d.Month > other.Month
	}
	return d.Day > other.Day
}

// valid reports whether d is a real calendar date.
func (d Date) valid() bool {
	if d.Year <= 0 || d.Month < 1 || d.Month > 12 || d.Day < 1 {
		return false
	}
	t := time.Date(d.Year, time.Month(d.Month), d.Day, 0, 0, 0, 0, time.UTC)
	return t.Day() == d.Day && int(t.Month()) == d.Month
}

// EvaluationHeader holds the attributes shared by every kind of evaluation.
type EvaluationHeader struct {
	Name     string  `json:"name" validate:"notblank,linefield"`
	Date     Date    `json:"date"`
	MaxValue float64 `json:"max_value" validate:"gt=0"`
}

// Evaluation is either an *Exam or an *Assignment.
type Evaluation interface {
	Kind() EvaluationKind
	Header() EvaluationHeader
	// Grade returns the grade earned by the student with the given enrollment, 0 if absent.
	Grade(enrollment string) float64

	isEvaluation()
}

// ExamSheet holds one student's per-question scores.
type ExamSheet struct {
	Enrollment string    `json:"enrollment"`
	Scores     []float64 `json:"scores"`
}

func (s ExamSheet) Total() float64 {
	var total float64
	for _, score := range s.Scores {
		total += score
	}
	return total
}

type Exam struct {
	EvaluationHeader
	QuestionCount int `json:"question_count" validate:"gt=0"`

	sheets []ExamSheet
}

var _ Evaluation = (*Exam)(nil) // interface compliance check

func NewExam(hdr EvaluationHeader, questionCount int) (*Exam, error) {
	hdr.Name = core.CleanString(hdr.Name)
	ex := &Exam{EvaluationHeader: hdr, QuestionCount: questionCount}
	if err := core.ValidateStruct(ex); err != nil {
		return nil, err
	}
	return ex, nil
}

func (ex *Exam) Kind() EvaluationKind     { return KindExam }
func (ex *Exam) Header() EvaluationHeader { return ex.EvaluationHeader }
func (ex *Exam) isEvaluation()            {}

// AddSheet records the scores of a student; one score per question, each >= 0.
func (ex *Exam) AddSheet(enrollment string, scores []float64) error {
	enrollment = core.CleanString(enrollment)
	if _, ok := ex.Sheet(enrollment); ok {
		return core.NewValidationError(ErrDuplicateSheet, core.FieldError{Field: "enrollment", Error: ErrDuplicateSheet.Error()})
	}
	if len(scores) != ex.QuestionCount {
		return core.NewValidationError(ErrScoreCount, core.FieldError{
			Field: "scores",
			Error: fmt.Sprintf("expected %d scores, got %d", ex.QuestionCount, len(scores)),
		})
	}
	for i, score := range scores {
		if score < 0 {
			return core.NewValidationError(ErrNegativeGrade, core.FieldError{
				Field: fmt.Sprintf("scores[%d]", i),
				Error: ErrNegativeGrade.Error(),
			})
		}
	}
	ex.sheets = append(ex.sheets, ExamSheet{Enrollment: enrollment, Scores: append([]float64(nil), scores...)})
	return nil
}

func (ex *Exam) Sheet(enrollment string) (ExamSheet, bool) {
	for _, sheet := range ex.sheets {
		if sheet.Enrollment == enrollment {
			return sheet, true
		}
	}
	return ExamSheet{}, false
}

func (ex *Exam) Sheets() []ExamSheet {
	return append([]ExamSheet(nil), ex.sheets...)
}

func (ex *Exam) Grade(enrollment string) float64 {
	if sheet, ok := ex.Sheet(enrollment); ok {
		return sheet.Total()
	}
	return 0
}

// Group is a team of students sharing one grade.
type Group struct {
	members []string
	grade   float64
	graded  bool
}

func NewGroup() *Group {
	return &Group{}
}

func (g *Group) AddMember(enrollment string) error {
	enrollment = core.CleanString(enrollment)
	if g.HasMember(enrollment) {
		return core.NewValidationError(ErrDuplicateMember, core.FieldError{Field: "members", Error: ErrDuplicateMember.Error()})
	}
	g.members = append(g.members, enrollment)
	return nil
}

func (g *Group) HasMember(enrollment string) bool {
	for _, m := range g.members {
		if m == enrollment {
			return true
		}
	}
	return false
}

func (g *Group) Members() []string {
	return append([]string(nil), g.members...)
}

// SetGrade sets the shared grade. A negative grade is rejected and leaves the grade untouched.
func (g *Group) SetGrade(grade float64) error {
	if grade < 0 {
		return core.NewValidationError(ErrNegativeGrade, core.FieldError{Field: "grade", Error: ErrNegativeGrade.Error()})
	}
	g.grade = grade
	g.graded = true
	return nil
}

// Grade returns the shared grade and whether it has been set.
func (g *Group) Grade() (float64, bool) {
	return g.grade, g.graded
}

type Assignment struct {
	EvaluationHeader
	MaxGroupSize int `json:"max_group_size" validate:"gt=0"`

	groups []*Group
}

var _ Evaluation = (*Assignment)(nil) // interface compliance check

func NewAssignment(hdr EvaluationHeader, maxGroupSize int) (*Assignment, error) {
	hdr.Name = core.CleanString(hdr.Name)
	as := &Assignment{EvaluationHeader: hdr, MaxGroupSize: maxGroupSize}
	if err := core.ValidateStruct(as); err != nil {
		return nil, err
	}
	return as, nil
}

func (as *Assignment) Kind() EvaluationKind     { return KindAssignment }
func (as *Assignment) Header() EvaluationHeader { return as.EvaluationHeader }
func (as *Assignment) isEvaluation()            {}

func (as *Assignment) AddGroup(g *Group) error {
	if g == nil {
		return ErrNilEntity
	}
	if len(g.members) > as.MaxGroupSize {
		return core.NewValidationError(ErrGroupTooLarge, core.FieldError{
			Field: "members",
			Error: fmt.Sprintf("group has %d members, at most %d allowed", len(g.members), as.MaxGroupSize),
		})
	}
	as.groups = append(as.groups, g)
	return nil
}

func (as *Assignment) Groups() []*Group {
	return append([]*Group(nil), as.groups...)
}

func (as *Assignment) Grade(enrollment string) float64 {
	for _, g := range as.groups {
		if g.HasMember(enrollment) {
			grade, _ := g.Grade()
			return grade
		}
	}
	return 0
}
