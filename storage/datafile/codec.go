package datafile

import (
	"bufio"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/trezcool/gradebook/core"
	"github.com/trezcool/gradebook/core/school"
)

// Record tags
const (
	TagTeacher    = "PROF"
	TagStudent    = "ALU"
	TagClass      = "TUR"
	TagExam       = "PROV"
	TagAssignment = "TRAB"
	TagEnd        = "FIM"
)

var topLevelTags = []string{TagTeacher, TagStudent, TagClass, TagEnd}

func normalizeTag(line string) string {
	return strings.ToUpper(strings.TrimSpace(line))
}

// recordReader walks the grammar of a single record.
// After the first failure it keeps reading the remaining fields without
// interpreting them, so decoding and consuming follow the same path.
// Count fields are always parsed since they drive the shape of what follows.
type recordReader struct {
	src   *Source
	tag   string
	line  int
	err   *RecordError
	abort *AbortError
	eof   bool
}

func newRecordReader(src *Source, tag string) *recordReader {
	return &recordReader{src: src, tag: tag, line: src.Line()}
}

func (rd *recordReader) fail(field string, reason Reason, err error) {
	if rd.err == nil {
		rd.err = &RecordError{Tag: rd.tag, Line: rd.line, Field: field, Reason: reason, Err: err}
	}
}

func (rd *recordReader) abortf(field string, reason Reason, err error) {
	if rd.abort == nil {
		rd.abort = &AbortError{Tag: rd.tag, Line: rd.src.Line(), Field: field, Reason: reason, Err: err}
	}
}

// more reports whether there is anything left to read for this record.
func (rd *recordReader) more() bool {
	return rd.abort == nil && !rd.eof
}

func (rd *recordReader) skipping() bool {
	return rd.err != nil
}

// result returns the outcome of the record: nil, a *RecordError or an *AbortError.
func (rd *recordReader) result() error {
	if rd.abort != nil {
		return rd.abort
	}
	if rd.err != nil {
		return rd.err
	}
	return nil
}

func (rd *recordReader) next(field string) (string, bool) {
	if !rd.more() {
		return "", false
	}
	line, err := rd.src.Next()
	if err == io.EOF {
		rd.eof = true
		rd.fail(field, MissingField, errEndOfInput)
		return "", false
	}
	if err != nil {
		rd.abortf(field, ReadFailure, errors.Wrap(err, "reading data file"))
		return "", false
	}
	return line, true
}

func (rd *recordReader) text(field string) string {
	line, _ := rd.next(field)
	return core.CleanString(line)
}

func (rd *recordReader) number(field string) float64 {
	line, ok := rd.next(field)
	if !ok || rd.skipping() {
		return 0
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(line), 64)
	if err == nil && (math.IsNaN(f) || math.IsInf(f, 0)) {
		err = errors.New("not a finite number")
	}
	if err != nil {
		rd.fail(field, BadNumber, errors.Errorf("%q at line %d", line, rd.src.Line()))
		return 0
	}
	return f
}

func (rd *recordReader) integer(field string) int {
	line, ok := rd.next(field)
	if !ok || rd.skipping() {
		return 0
	}
	n, err := strconv.Atoi(strings.TrimSpace(line))
	if err != nil {
		rd.fail(field, BadNumber, errors.Errorf("%q at line %d", line, rd.src.Line()))
		return 0
	}
	return n
}

// count reads a block arity. A count that cannot be read leaves the rest of the
// stream unaligned, so it aborts the load instead of skipping the record.
func (rd *recordReader) count(field string) int {
	line, ok := rd.next(field)
	if !ok {
		return 0
	}
	n, err := strconv.Atoi(strings.TrimSpace(line))
	if err != nil || n < 0 {
		rd.abortf(field, BadNumber, errors.Errorf("invalid count %q", line))
		return 0
	}
	return n
}

type classRecord struct {
	Name        string
	Year        int
	Term        int
	TeacherID   string
	Roster      []string
	Evaluations []evaluationRecord
}

type evaluationRecord struct {
	Kind   school.EvaluationKind
	Header school.EvaluationHeader

	// exam
	QuestionCount int
	Scores        [][]float64 // per roster position, as written in the record

	// assignment
	MaxGroupSize int
	Groups       []groupRecord
}

type groupRecord struct {
	Members []string
	Grade   float64
}

func decodeTeacher(rd *recordReader) (school.NewTeacher, error) {
	var nt school.NewTeacher
	nt.Name = rd.text("name")
	nt.NationalID = rd.text("id")
	nt.Salary = rd.number("salary")
	return nt, rd.result()
}

func decodeStudent(rd *recordReader) (school.NewStudent, error) {
	var ns school.NewStudent
	ns.Name = rd.text("name")
	ns.NationalID = rd.text("id")
	ns.Enrollment = rd.text("enrollment")
	return ns, rd.result()
}

func decodeClass(rd *recordReader) (classRecord, error) {
	var rec classRecord
	rec.Name = rd.text("name")
	rec.Year = rd.integer("year")
	rec.Term = rd.integer("term")
	rec.TeacherID = rd.text("teacherId")

	students := rd.count("studentCount")
	for i := 0; i < students && rd.more(); i++ {
		rec.Roster = append(rec.Roster, rd.text("studentId"))
	}

	evals := rd.count("evalCount")
	for i := 0; i < evals && rd.more(); i++ {
		rec.Evaluations = append(rec.Evaluations, decodeEvaluation(rd, students))
	}
	return rec, rd.result()
}

// decodeEvaluation reads one PROV or TRAB block. students is the roster size
// declared by the enclosing record: an exam holds that many score blocks.
func decodeEvaluation(rd *recordReader, students int) evaluationRecord {
	var rec evaluationRecord
	tag, ok := rd.next("evaluation tag")
	if !ok {
		return rec
	}
	switch normalizeTag(tag) {
	case TagExam:
		rec.Kind = school.KindExam
	case TagAssignment:
		rec.Kind = school.KindAssignment
	default:
		rd.abortf("evaluation tag", UnknownTag, errors.Errorf("unknown evaluation tag %q", tag))
		return rec
	}

	rec.Header.Name = rd.text("name")
	rec.Header.Date.Day = rd.integer("day")
	rec.Header.Date.Month = rd.integer("month")
	rec.Header.Date.Year = rd.integer("year")
	rec.Header.MaxValue = rd.number("maxValue")

	switch rec.Kind {
	case school.KindExam:
		rec.QuestionCount = rd.count("questionCount")
		for s := 0; s < students && rd.more(); s++ {
			var scores []float64
			for q := 0; q < rec.QuestionCount && rd.more(); q++ {
				scores = append(scores, rd.number("grade"))
			}
			rec.Scores = append(rec.Scores, scores)
		}
	case school.KindAssignment:
		rec.MaxGroupSize = rd.integer("maxGroupSize")
		groups := rd.count("groupCount")
		for g := 0; g < groups && rd.more(); g++ {
			var grp groupRecord
			members := rd.count("memberCount")
			for m := 0; m < members && rd.more(); m++ {
				grp.Members = append(grp.Members, rd.text("memberId"))
			}
			grp.Grade = rd.number("groupGrade")
			rec.Groups = append(rec.Groups, grp)
		}
	}
	return rec
}

// recordWriter writes one field per line; the first write error sticks.
type recordWriter struct {
	w   *bufio.Writer
	err error
}

func newRecordWriter(w io.Writer) *recordWriter {
	return &recordWriter{w: bufio.NewWriter(w)}
}

func (rw *recordWriter) line(s string) {
	if rw.err != nil {
		return
	}
	if _, err := rw.w.WriteString(s); err != nil {
		rw.err = err
		return
	}
	rw.err = rw.w.WriteByte('\n')
}

func (rw *recordWriter) integer(n int) {
	rw.line(strconv.Itoa(n))
}

func (rw *recordWriter) number(f float64) {
	rw.line(strconv.FormatFloat(f, 'f', -1, 64))
}

func (rw *recordWriter) flush() error {
	if rw.err != nil {
		return rw.err
	}
	return rw.w.Flush()
}

func encodeTeacher(rw *recordWriter, t *school.Teacher) {
	rw.line(TagTeacher)
	rw.line(t.Name)
	rw.line(t.NationalID)
	rw.number(t.Salary)
}

func encodeStudent(rw *recordWriter, s *school.Student) {
	rw.line(TagStudent)
	rw.line(s.Name)
	rw.line(s.NationalID)
	rw.line(s.Enrollment)
}

func encodeClass(rw *recordWriter, c *school.Class) {
	rw.line(TagClass)
	rw.line(c.Name)
	rw.integer(c.Year)
	rw.integer(c.Term)
	rw.line(c.TeacherID)
	rw.integer(len(c.Roster))
	for _, enr := range c.Roster {
		rw.line(enr)
	}
	rw.integer(len(c.Evaluations))
	for _, ev := range c.Evaluations {
		encodeEvaluation(rw, ev, c.Roster)
	}
}

func encodeHeader(rw *recordWriter, tag string, hdr school.EvaluationHeader) {
	rw.line(tag)
	rw.line(hdr.Name)
	rw.integer(hdr.Date.Day)
	rw.integer(hdr.Date.Month)
	rw.integer(hdr.Date.Year)
	rw.number(hdr.MaxValue)
}

// encodeEvaluation writes an evaluation block; exam scores follow roster order.
func encodeEvaluation(rw *recordWriter, ev school.Evaluation, roster []string) {
	switch ev := ev.(type) {
	case *school.Exam:
		encodeHeader(rw, TagExam, ev.Header())
		rw.integer(ev.QuestionCount)
		for _, enr := range roster {
			sheet, ok := ev.Sheet(enr)
			for q := 0; q < ev.QuestionCount; q++ {
				var score float64
				if ok && q < len(sheet.Scores) {
					score = sheet.Scores[q]
				}
				rw.number(score)
			}
		}
	case *school.Assignment:
		encodeHeader(rw, TagAssignment, ev.Header())
		rw.integer(ev.MaxGroupSize)
		groups := ev.Groups()
		rw.integer(len(groups))
		for _, g := range groups {
			members := g.Members()
			rw.integer(len(members))
			for _, enr := range members {
				rw.line(enr)
			}
			grade, _ := g.Grade()
			rw.number(grade)
		}
	}
}
