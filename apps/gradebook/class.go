package main

import (
	"fmt"
	"io"

	"github.com/pkg/errors"

	"github.com/trezcool/gradebook/core/school"
)

func (sh *shell) registerClass() error {
	var (
		nc  school.NewClass
		err error
	)
	if nc.Name, err = sh.in.line("Class name: "); err != nil {
		return err
	}
	if nc.Year, err = sh.in.intAtLeast("Class year: ", 1); err != nil {
		return err
	}
	for {
		if nc.Term, err = sh.in.integer("Class term (1 or 2): "); err != nil {
			return err
		}
		if nc.Term == school.FirstTerm || nc.Term == school.SecondTerm {
			break
		}
		if !sh.in.retry("Invalid term. It must be 1 or 2.") {
			return errors.Errorf("invalid term %d", nc.Term)
		}
	}

	teacherID, err := sh.in.line("Teacher national ID: ")
	if err != nil {
		return err
	}
	teacher, err := sh.svc.FindTeacher(teacherID)
	if err != nil {
		return errors.Wrapf(err, "teacher %q", teacherID)
	}
	nc.TeacherID = teacher.NationalID

	roster, err := sh.readRoster()
	if err != nil {
		return err
	}
	for _, st := range roster {
		nc.Roster = append(nc.Roster, st.Enrollment)
	}

	evals, err := sh.in.intAtLeast("Number of evaluations: ", 0)
	if err != nil {
		return err
	}
	for i := 0; i < evals; i++ {
		sh.in.say("\nEvaluation %d of %d:\n", i+1, evals)
		ev, err := sh.readEvaluation(roster)
		if err == io.EOF {
			return err
		}
		if err != nil {
			if sh.in.retry("Evaluation %d not registered: %v", i+1, err) {
				i--
				continue
			}
			return err
		}
		nc.Evaluations = append(nc.Evaluations, ev)
	}

	c, err := sh.svc.RegisterClass(nc)
	if err != nil {
		return err
	}
	fmt.Fprintf(sh.out, "Class %s registered.\n", c.Key())
	sh.save()
	return nil
}

// readRoster asks for the class students. Unknown or repeated enrollments are
// asked again on a terminal and dropped otherwise.
func (sh *shell) readRoster() ([]*school.Student, error) {
	sh.listStudents()
	count, err := sh.in.intAtLeast("Number of students: ", 0)
	if err != nil {
		return nil, err
	}
	var roster []*school.Student
	seen := make(map[string]bool)
	for i := 0; i < count; i++ {
		enr, err := sh.in.line(fmt.Sprintf("Enrollment of student %d: ", i+1))
		if err != nil {
			return nil, err
		}
		st, err := sh.svc.FindStudent(enr)
		if err != nil {
			if sh.in.retry("Student %q not found.", enr) {
				i--
			}
			continue
		}
		if seen[st.Enrollment] {
			if sh.in.retry("Student %q already listed.", enr) {
				i--
			}
			continue
		}
		seen[st.Enrollment] = true
		roster = append(roster, st)
	}
	return roster, nil
}

func (sh *shell) readHeader(kind school.EvaluationKind) (school.EvaluationHeader, error) {
	var (
		hdr school.EvaluationHeader
		err error
	)
	if hdr.Name, err = sh.in.line(fmt.Sprintf("Name of the %s: ", kind)); err != nil {
		return hdr, err
	}
	if hdr.Date.Day, err = sh.in.integer("Day: "); err != nil {
		return hdr, err
	}
	if hdr.Date.Month, err = sh.in.integer("Month: "); err != nil {
		return hdr, err
	}
	if hdr.Date.Year, err = sh.in.integer("Year: "); err != nil {
		return hdr, err
	}
	hdr.MaxValue, err = sh.in.numberAbove("Max value: ", 0, false)
	return hdr, err
}

func (sh *shell) readEvaluation(roster []*school.Student) (school.Evaluation, error) {
	var kind int
	for {
		var err error
		if kind, err = sh.in.integer("Type: 1) exam 2) assignment: "); err != nil {
			return nil, err
		}
		if kind == int(school.KindExam) || kind == int(school.KindAssignment) {
			break
		}
		if !sh.in.retry("Invalid type. Enter 1 for exam or 2 for assignment.") {
			return nil, errors.Errorf("invalid evaluation type %d", kind)
		}
	}

	hdr, err := sh.readHeader(school.EvaluationKind(kind))
	if err != nil {
		return nil, err
	}
	if school.EvaluationKind(kind) == school.KindExam {
		return sh.readExam(hdr, roster)
	}
	return sh.readAssignment(hdr)
}

func (sh *shell) readExam(hdr school.EvaluationHeader, roster []*school.Student) (*school.Exam, error) {
	questions, err := sh.in.intAtLeast("Number of questions: ", 1)
	if err != nil {
		return nil, err
	}
	ex, err := school.NewExam(hdr, questions)
	if err != nil {
		return nil, err
	}
	for _, st := range roster {
		sh.in.say("Scores of %s:\n", st.Name)
		var scores []float64
		for q := 0; q < questions; q++ {
			score, err := sh.in.numberAbove(fmt.Sprintf("Question %d: ", q+1), 0, true)
			if err != nil {
				return nil, err
			}
			scores = append(scores, score)
		}
		if err := ex.AddSheet(st.Enrollment, scores); err != nil {
			return nil, err
		}
	}
	return ex, nil
}

func (sh *shell) readAssignment(hdr school.EvaluationHeader) (*school.Assignment, error) {
	maxSize, err := sh.in.intAtLeast("Max group size: ", 1)
	if err != nil {
		return nil, err
	}
	as, err := school.NewAssignment(hdr, maxSize)
	if err != nil {
		return nil, err
	}
	groups, err := sh.in.intAtLeast("Number of groups: ", 0)
	if err != nil {
		return nil, err
	}
	for g := 0; g < groups; g++ {
		sh.in.say("Group %d:\n", g+1)
		grp, err := sh.readGroup()
		if err != nil {
			return nil, err
		}
		if err := as.AddGroup(grp); err != nil {
			return nil, err
		}
	}
	return as, nil
}

func (sh *shell) readGroup() (*school.Group, error) {
	members, err := sh.in.intAtLeast("Number of students in this group: ", 1)
	if err != nil {
		return nil, err
	}
	grp := school.NewGroup()
	for i := 0; i < members; i++ {
		enr, err := sh.in.line(fmt.Sprintf("Enrollment of member %d: ", i+1))
		if err != nil {
			return nil, err
		}
		st, err := sh.svc.FindStudent(enr)
		if err != nil {
			if sh.in.retry("Student %q not found.", enr) {
				i--
			}
			continue
		}
		if err := grp.AddMember(st.Enrollment); err != nil {
			if sh.in.retry("Student %q already in this group.", enr) {
				i--
			}
		}
	}

	for {
		grade, err := sh.in.number("Group grade: ")
		if err != nil {
			return nil, err
		}
		err = grp.SetGrade(grade)
		if err == nil {
			return grp, nil
		}
		if !sh.in.retry("Invalid grade: %v", err) {
			return nil, err
		}
	}
}
