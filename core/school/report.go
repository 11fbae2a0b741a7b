package school

import (
	"math"
	"sort"
	"strings"

	"github.com/pkg/errors"
)

const maxFinalScore = 100

type ReportRow struct {
	Student *Student
	Grades  []float64 // one per Report.Evaluations entry
	Final   float64
}

// Report is the grade report of a Class.
type Report struct {
	Class       *Class
	Teacher     *Teacher
	Evaluations []Evaluation // ordered by application date
	Rows        []ReportRow  // ordered by final score desc, name asc, enrollment asc
	Average     float64
}

// FinalScore sums grades and caps the result at the class max total and at 100.
func FinalScore(grades []float64, maxTotal float64) float64 {
	var sum float64
	for _, g := range grades {
		sum += g
	}
	return math.Min(sum, math.Min(maxTotal, maxFinalScore))
}

// ClassReport computes the grades of every roster Student still in the directory.
func (svc *Service) ClassReport(c *Class) (Report, error) {
	teacher, err := svc.repo.GetTeacher(c.TeacherID)
	if err != nil {
		return Report{}, errors.Wrapf(err, "teacher %q", c.TeacherID)
	}

	evals := append([]Evaluation(nil), c.Evaluations...)
	sort.SliceStable(evals, func(i, j int) bool {
		return evals[j].Header().Date.After(evals[i].Header().Date)
	})

	rpt := Report{Class: c, Teacher: teacher, Evaluations: evals}
	maxTotal := c.MaxTotal()
	var sum float64
	for _, enr := range c.Roster {
		st, err := svc.repo.GetStudent(enr)
		if err != nil {
			return Report{}, errors.Wrapf(err, "student %q", enr)
		}
		row := ReportRow{Student: st, Grades: make([]float64, len(evals))}
		for i, ev := range evals {
			row.Grades[i] = ev.Grade(enr)
		}
		row.Final = FinalScore(row.Grades, maxTotal)
		sum += row.Final
		rpt.Rows = append(rpt.Rows, row)
	}
	if len(rpt.Rows) > 0 {
		rpt.Average = sum / float64(len(rpt.Rows))
	}

	sort.SliceStable(rpt.Rows, func(i, j int) bool {
		ri, rj := rpt.Rows[i], rpt.Rows[j]
		if ri.Final != rj.Final {
			return ri.Final > rj.Final
		}
		if ni, nj := strings.ToLower(ri.Student.Name), strings.ToLower(rj.Student.Name); ni != nj {
			return ni < nj
		}
		return ri.Student.Enrollment < rj.Student.Enrollment
	})
	return rpt, nil
}
