package datafile

import (
	"fmt"
	"io"
	"strings"

	"github.com/pkg/errors"
	"github.com/pmezard/go-difflib/difflib"

	"github.com/trezcool/gradebook/core"
	"github.com/trezcool/gradebook/core/school"
)

const tagHintMinRatio = .6

// Summary counts what a load did.
type Summary struct {
	Teachers    int
	Students    int
	Classes     int
	Skipped     int // records read but discarded
	UnknownTags int // lines dropped while looking for a tag
	Ended       bool
}

// Loader registers the records of a data stream into the directory.
type Loader struct {
	svc *school.Service
	log core.Logger
}

func NewLoader(svc *school.Service, logger core.Logger) *Loader {
	return &Loader{svc: svc, log: logger}
}

// Load reads records until FIM or the end of r. Faulty records are logged and skipped.
// It returns an *AbortError when the stream cannot be resynchronized; records loaded
// up to that point stay registered.
func (l *Loader) Load(r io.Reader) (Summary, error) {
	var sum Summary
	src := NewSource(r)
	for {
		line, err := src.Next()
		if err == io.EOF {
			return sum, nil
		}
		if err != nil {
			return sum, &AbortError{Line: src.Line(), Field: "tag", Reason: ReadFailure, Err: errors.Wrap(err, "reading data file")}
		}

		tag := normalizeTag(line)
		switch tag {
		case TagTeacher:
			err = l.loadTeacher(newRecordReader(src, tag))
			if err == nil {
				sum.Teachers++
			}
		case TagStudent:
			err = l.loadStudent(newRecordReader(src, tag))
			if err == nil {
				sum.Students++
			}
		case TagClass:
			err = l.loadClass(newRecordReader(src, tag))
			if err == nil {
				sum.Classes++
			}
		case TagEnd:
			sum.Ended = true
			return sum, nil
		default:
			sum.UnknownTags++
			l.unknownTag(line, src.Line())
			continue
		}

		switch err := err.(type) {
		case nil:
		case *AbortError:
			l.log.Error("data file load aborted: "+err.Error(), err)
			return sum, err
		default:
			sum.Skipped++
			l.log.Warn("skipping record: "+err.Error(), err)
		}
	}
}

func (l *Loader) unknownTag(line string, lineNo int) {
	msg := fmt.Sprintf("unknown tag %q at line %d; dropping line", strings.TrimSpace(line), lineNo)
	if hint := closestTag(line); hint != "" {
		msg += " (did you mean " + hint + "?)"
	}
	l.log.Warn(msg)
}

// closestTag returns the top-level tag most similar to line, if similar enough.
func closestTag(line string) string {
	word := strings.Split(normalizeTag(line), "")
	var best string
	var bestRatio float64
	for _, tag := range topLevelTags {
		ratio := difflib.NewMatcher(word, strings.Split(tag, "")).Ratio()
		if ratio > bestRatio {
			best, bestRatio = tag, ratio
		}
	}
	if bestRatio < tagHintMinRatio {
		return ""
	}
	return best
}

func (l *Loader) loadTeacher(rd *recordReader) error {
	nt, err := decodeTeacher(rd)
	if err != nil {
		return err
	}
	if _, err := l.svc.RegisterTeacher(nt); err != nil {
		return &RecordError{Tag: rd.tag, Line: rd.line, Reason: Rejected, Err: err}
	}
	return nil
}

func (l *Loader) loadStudent(rd *recordReader) error {
	ns, err := decodeStudent(rd)
	if err != nil {
		return err
	}
	if _, err := l.svc.RegisterStudent(ns); err != nil {
		return &RecordError{Tag: rd.tag, Line: rd.line, Reason: Rejected, Err: err}
	}
	return nil
}

// loadClass builds a Class from a fully read TUR record. The Teacher must resolve;
// roster and group members that do not resolve are dropped one by one.
func (l *Loader) loadClass(rd *recordReader) error {
	rec, err := decodeClass(rd)
	if err != nil {
		return err
	}
	reject := func(reason Reason, field string, err error) error {
		return &RecordError{Tag: rd.tag, Line: rd.line, Field: field, Reason: reason, Err: err}
	}

	if _, err := l.svc.FindTeacher(rec.TeacherID); err != nil {
		return reject(BadReference, "teacherId", errors.Wrapf(err, "teacher %q", rec.TeacherID))
	}

	// kept[i] is the record roster position of nc.Roster[i]
	nc := school.NewClass{Name: rec.Name, Year: rec.Year, Term: rec.Term, TeacherID: rec.TeacherID}
	var kept []int
	seen := make(map[string]bool, len(rec.Roster))
	for pos, enr := range rec.Roster {
		if seen[enr] {
			l.log.Warn(fmt.Sprintf("class %s: student %q listed twice; ignoring repeat", rec.Name, enr))
			continue
		}
		if _, err := l.svc.FindStudent(enr); err != nil {
			l.log.Warn(fmt.Sprintf("class %s: student %q not found; ignoring this student", rec.Name, enr))
			continue
		}
		seen[enr] = true
		nc.Roster = append(nc.Roster, enr)
		kept = append(kept, pos)
	}

	for _, evRec := range rec.Evaluations {
		var (
			ev  school.Evaluation
			err error
		)
		switch evRec.Kind {
		case school.KindExam:
			ev, err = l.buildExam(evRec, nc.Roster, kept)
		case school.KindAssignment:
			ev, err = l.buildAssignment(rec.Name, evRec)
		}
		if err != nil {
			return reject(Rejected, evRec.Kind.String()+" "+evRec.Header.Name, err)
		}
		nc.Evaluations = append(nc.Evaluations, ev)
	}

	if _, err := l.svc.RegisterClass(nc); err != nil {
		if errors.Cause(err) == school.ErrNotFound {
			return reject(BadReference, "", err)
		}
		return reject(Rejected, "", err)
	}
	return nil
}

func (l *Loader) buildExam(rec evaluationRecord, roster []string, kept []int) (*school.Exam, error) {
	ex, err := school.NewExam(rec.Header, rec.QuestionCount)
	if err != nil {
		return nil, err
	}
	for i, enr := range roster {
		if err := ex.AddSheet(enr, rec.Scores[kept[i]]); err != nil {
			return nil, errors.Wrapf(err, "scores of student %q", enr)
		}
	}
	return ex, nil
}

func (l *Loader) buildAssignment(class string, rec evaluationRecord) (*school.Assignment, error) {
	as, err := school.NewAssignment(rec.Header, rec.MaxGroupSize)
	if err != nil {
		return nil, err
	}
	for _, grpRec := range rec.Groups {
		grp := school.NewGroup()
		for _, enr := range grpRec.Members {
			if _, err := l.svc.FindStudent(enr); err != nil {
				l.log.Warn(fmt.Sprintf("class %s, assignment %s: student %q not found; ignoring this member", class, rec.Header.Name, enr))
				continue
			}
			if err := grp.AddMember(enr); err != nil {
				l.log.Warn(fmt.Sprintf("class %s, assignment %s: student %q listed twice in a group; ignoring repeat", class, rec.Header.Name, enr))
			}
		}
		if err := grp.SetGrade(grpRec.Grade); err != nil {
			return nil, err
		}
		if err := as.AddGroup(grp); err != nil {
			return nil, err
		}
	}
	return as, nil
}
