package datafile

import (
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/gradebook/core/school"
	"github.com/trezcool/gradebook/tests"
)

func lines(ls ...string) string {
	return strings.Join(ls, "\n") + "\n"
}

var (
	profAda  = []string{"PROF", "Ada", "T1", "1000"}
	aluOne   = []string{"ALU", "One", "111", "S1"}
	aluTwo   = []string{"ALU", "Two", "222", "S2"}
	aluThree = []string{"ALU", "Three", "333", "S3"}
)

func join(blocks ...[]string) []string {
	var out []string
	for _, b := range blocks {
		out = append(out, b...)
	}
	return out
}

func setupLoader(t *testing.T) (*Loader, *school.Service, *testutil.Logger) {
	svc := testutil.NewService(t)
	log := &testutil.Logger{}
	return NewLoader(svc, log), svc, log
}

func TestLoader_Load(t *testing.T) {
	input := lines(join(
		[]string{"# gradebook data"},
		profAda,
		aluOne,
		aluTwo,
		[]string{
			"tur",
			"Algorithms", "2024", "1", "T1",
			"2", "S1", "S2",
			"2",
			"PROV", "P1", "10", "3", "2024", "20",
			"2",
			"10", "5",
			"8", "8",
			"trab", "T1", "20", "4", "2024", "10",
			"2",
			"1",
			"2", "S1", "S2", "7.5",
		},
		[]string{" fim "},
		aluThree,
	)...)

	loader, svc, log := setupLoader(t)
	sum, err := loader.Load(strings.NewReader(input))
	require.NoError(t, err)
	assert.Equal(t, Summary{Teachers: 1, Students: 2, Classes: 1, Ended: true}, sum)
	assert.Empty(t, log.Messages("WARN"))

	c, err := svc.FindClass(school.ClassKey{Name: "Algorithms", Year: 2024, Term: 1})
	require.NoError(t, err)
	assert.Equal(t, []string{"S1", "S2"}, c.Roster)
	require.Len(t, c.Evaluations, 2)
	assert.Equal(t, 22.5, c.Evaluations[0].Grade("S1")+c.Evaluations[1].Grade("S1"))

	_, err = svc.FindStudent("S3")
	assert.Equal(t, school.ErrNotFound, err, "nothing is read after FIM")
}

func TestLoader_Load_unresolvedTeacher(t *testing.T) {
	input := lines(join(
		aluOne,
		[]string{
			"TUR", "Orphan", "2024", "1", "NOBODY",
			"1", "S1",
			"1",
			"PROV", "P1", "10", "3", "2024", "20", "2", "1", "2",
		},
		profAda,
	)...)

	loader, svc, log := setupLoader(t)
	sum, err := loader.Load(strings.NewReader(input))
	require.NoError(t, err)
	assert.Equal(t, 1, sum.Teachers)
	assert.Equal(t, 0, sum.Classes)
	assert.Equal(t, 1, sum.Skipped)

	classes, _ := svc.Classes()
	assert.Empty(t, classes)
	_, err = svc.FindTeacher("T1")
	assert.NoError(t, err, "the PROF after the skipped class loads")

	warns := log.Messages("WARN")
	require.Len(t, warns, 1)
	assert.Contains(t, warns[0], "unresolved reference")
}

func TestLoader_Load_malformedGrade(t *testing.T) {
	// 3 questions x 2 students: six grade lines, one of them malformed
	input := lines(join(
		profAda,
		aluOne,
		aluTwo,
		[]string{
			"TUR", "Algorithms", "2024", "1", "T1",
			"2", "S1", "S2",
			"1",
			"PROV", "P1", "10", "3", "2024", "20",
			"3",
			"10", "x", "5",
			"8", "8", "8",
		},
		aluThree,
		[]string{"FIM"},
	)...)

	loader, svc, log := setupLoader(t)
	sum, err := loader.Load(strings.NewReader(input))
	require.NoError(t, err)
	assert.Equal(t, Summary{Teachers: 1, Students: 3, Skipped: 1, Ended: true}, sum)

	_, err = svc.FindStudent("S3")
	assert.NoError(t, err)

	warns := log.Messages("WARN")
	require.Len(t, warns, 1)
	assert.Contains(t, warns[0], "bad number")
	assert.Contains(t, warns[0], `"x"`)
}

func TestLoader_Load_unresolvedMembers(t *testing.T) {
	input := lines(join(
		profAda,
		aluOne,
		aluTwo,
		[]string{
			"TUR", "Algorithms", "2024", "1", "T1",
			"4", "S1", "S9", "S2", "S1",
			"2",
			"PROV", "P1", "10", "3", "2024", "20",
			"1",
			"5", "6", "7", "9",
			"TRAB", "T1", "20", "4", "2024", "10",
			"3", "1",
			"3", "S1", "S9", "S2", "4",
		},
	)...)

	loader, svc, log := setupLoader(t)
	sum, err := loader.Load(strings.NewReader(input))
	require.NoError(t, err)
	assert.Equal(t, 1, sum.Classes)
	assert.False(t, sum.Ended)

	c, err := svc.FindClass(school.ClassKey{Name: "algorithms", Year: 2024, Term: 1})
	require.NoError(t, err)
	assert.Equal(t, []string{"S1", "S2"}, c.Roster)

	ex := c.Evaluations[0].(*school.Exam)
	assert.Equal(t, 5.0, ex.Grade("S1"))
	assert.Equal(t, 7.0, ex.Grade("S2"), "scores follow the student they were written for")

	as := c.Evaluations[1].(*school.Assignment)
	require.Len(t, as.Groups(), 1)
	assert.Equal(t, []string{"S1", "S2"}, as.Groups()[0].Members())

	assert.Len(t, log.Messages("WARN"), 3)
}

func TestLoader_Load_rejectedRecords(t *testing.T) {
	input := lines(join(
		profAda,
		[]string{"PROF", "Copycat", "T1", "10"},
		[]string{"PROF", "Broke", "T2", "-10"},
		[]string{"ALU", "Dup", "T1", "S4"},
		aluOne,
		[]string{
			"TUR", "Algorithms", "2024", "3", "T1",
			"1", "S1",
			"0",
		},
		[]string{
			"TUR", "Algorithms", "2024", "1", "T1",
			"1", "S1",
			"1",
			"TRAB", "T1", "31", "2", "2024", "10",
			"1", "1",
			"1", "S1", "-1",
		},
		[]string{"FIM"},
	)...)

	loader, svc, log := setupLoader(t)
	sum, err := loader.Load(strings.NewReader(input))
	require.NoError(t, err)
	assert.Equal(t, Summary{Teachers: 1, Students: 1, Skipped: 5, Ended: true}, sum)

	teachers, _ := svc.Teachers()
	require.Len(t, teachers, 1)
	assert.Equal(t, "Ada", teachers[0].Name)
	for _, msg := range log.Messages("WARN") {
		assert.Contains(t, msg, "rejected")
	}
}

func TestLoader_Load_unknownTag(t *testing.T) {
	input := lines(join(
		[]string{"PRFO", "garbage"},
		profAda,
		[]string{"FIM"},
	)...)

	loader, _, log := setupLoader(t)
	sum, err := loader.Load(strings.NewReader(input))
	require.NoError(t, err)
	assert.Equal(t, 2, sum.UnknownTags)
	assert.Equal(t, 1, sum.Teachers)

	warns := log.Messages("WARN")
	require.Len(t, warns, 2)
	assert.Contains(t, warns[0], "did you mean PROF?")
	assert.NotContains(t, warns[1], "did you mean")
}

func TestLoader_Load_truncated(t *testing.T) {
	loader, svc, log := setupLoader(t)
	sum, err := loader.Load(strings.NewReader(lines(join(profAda, []string{"ALU", "One", "111"})...)))
	require.NoError(t, err)
	assert.Equal(t, Summary{Teachers: 1, Skipped: 1}, sum)

	students, _ := svc.Students()
	assert.Empty(t, students)
	warns := log.Messages("WARN")
	require.Len(t, warns, 1)
	assert.Contains(t, warns[0], "missing field")
}

func TestLoader_Load_abort(t *testing.T) {
	tests := []struct {
		name   string
		input  []string
		field  string
		reason Reason
	}{
		{
			name:   "bad student count",
			input:  []string{"TUR", "Algorithms", "2024", "1", "T1", "two", "S1", "0"},
			field:  "studentCount",
			reason: BadNumber,
		},
		{
			name:   "negative evaluation count",
			input:  []string{"TUR", "Algorithms", "2024", "1", "T1", "0", "-1"},
			field:  "evalCount",
			reason: BadNumber,
		},
		{
			name:   "unknown evaluation tag",
			input:  []string{"TUR", "Algorithms", "2024", "1", "T1", "0", "1", "QUIZ"},
			field:  "evaluation tag",
			reason: UnknownTag,
		},
		{
			name:   "bad group member count",
			input:  []string{"TUR", "Algorithms", "2024", "1", "T1", "0", "1", "TRAB", "T1", "1", "1", "2024", "10", "2", "1", "many"},
			field:  "memberCount",
			reason: BadNumber,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			loader, svc, log := setupLoader(t)
			sum, err := loader.Load(strings.NewReader(lines(join(profAda, tt.input, aluOne)...)))

			var abort *AbortError
			require.True(t, errors.As(err, &abort), "Load() error = %v, want *AbortError", err)
			assert.Equal(t, tt.field, abort.Field)
			assert.Equal(t, tt.reason, abort.Reason)
			assert.Equal(t, 1, sum.Teachers, "records loaded before the abort are kept")
			assert.Len(t, log.Messages("ERROR"), 1)

			_, err = svc.FindStudent("S1")
			assert.Equal(t, school.ErrNotFound, err, "nothing is read after an abort")
		})
	}
}

func TestLoader_Load_hugeCounts(t *testing.T) {
	tests := []struct {
		name  string
		input []string
	}{
		{
			name:  "question count",
			input: []string{"TUR", "Algorithms", "2024", "1", "T1", "1", "S1", "1", "PROV", "P1", "10", "3", "2024", "20", "4000000000000", "1"},
		},
		{
			name:  "student count",
			input: []string{"TUR", "Algorithms", "2024", "1", "T1", "4000000000000", "S1"},
		},
		{
			name:  "group count",
			input: []string{"TUR", "Algorithms", "2024", "1", "T1", "0", "1", "TRAB", "T1", "1", "1", "2024", "10", "2", "4000000000000", "1", "S1", "5"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			loader, svc, log := setupLoader(t)
			sum, err := loader.Load(strings.NewReader(lines(join(profAda, aluOne, tt.input)...)))
			require.NoError(t, err)
			assert.Equal(t, Summary{Teachers: 1, Students: 1, Skipped: 1}, sum)

			classes, _ := svc.Classes()
			assert.Empty(t, classes)
			warns := log.Messages("WARN")
			require.Len(t, warns, 1)
			assert.Contains(t, warns[0], "missing field")
		})
	}
}

func TestLoader_Load_readFailure(t *testing.T) {
	loader, _, _ := setupLoader(t)
	_, err := loader.Load(strings.NewReader(lines(strings.Repeat("x", maxLineSize+1))))

	var abort *AbortError
	require.True(t, errors.As(err, &abort), "Load() error = %v, want *AbortError", err)
	assert.Equal(t, ReadFailure, abort.Reason)
	assert.Contains(t, abort.Error(), "(tag): read failure")
}
