package school_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/gradebook/core/school"
	"github.com/trezcool/gradebook/tests"
)

func TestFinalScore(t *testing.T) {
	tests := []struct {
		name     string
		grades   []float64
		maxTotal float64
		want     float64
	}{
		{name: "no grade", maxTotal: 100, want: 0},
		{name: "under both caps", grades: []float64{10, 5}, maxTotal: 20, want: 15},
		{name: "capped at max total", grades: []float64{15, 10}, maxTotal: 20, want: 20},
		{name: "capped at 100", grades: []float64{80, 40}, maxTotal: 150, want: 100},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, school.FinalScore(tt.grades, tt.maxTotal))
		})
	}
}

func TestService_ClassReport(t *testing.T) {
	svc := testutil.NewService(t)
	testutil.CreateTeacher(t, svc, "Teacher", "999", 10)
	testutil.CreateStudent(t, svc, "Student One", "111", "S1")
	testutil.CreateStudent(t, svc, "Student Two", "222", "S2")

	ex, err := school.NewExam(testutil.Header("P1", 10, 3, 20), 2)
	require.NoError(t, err)
	require.NoError(t, ex.AddSheet("S1", []float64{10, 5}))
	require.NoError(t, ex.AddSheet("S2", []float64{8, 8}))
	c := testutil.CreateClass(t, svc, "Algorithms", 2024, school.FirstTerm, "999", []string{"S1", "S2"}, ex)

	rpt, err := svc.ClassReport(c)
	require.NoError(t, err)
	assert.Equal(t, "Teacher", rpt.Teacher.Name)
	require.Len(t, rpt.Rows, 2)
	assert.Equal(t, "S2", rpt.Rows[0].Student.Enrollment)
	assert.Equal(t, 16.0, rpt.Rows[0].Final)
	assert.Equal(t, "S1", rpt.Rows[1].Student.Enrollment)
	assert.Equal(t, 15.0, rpt.Rows[1].Final)
	assert.Equal(t, 15.5, rpt.Average)
}

func TestService_ClassReport_ordering(t *testing.T) {
	svc := testutil.NewService(t)
	testutil.CreateTeacher(t, svc, "Teacher", "999", 10)
	testutil.CreateStudent(t, svc, "bruno", "1", "E3")
	testutil.CreateStudent(t, svc, "Ana", "2", "E2")
	testutil.CreateStudent(t, svc, "Bruno", "3", "E1")
	testutil.CreateStudent(t, svc, "Carla", "4", "E4")

	late, err := school.NewAssignment(testutil.Header("T1", 20, 6, 10), 4)
	require.NoError(t, err)
	grp := school.NewGroup()
	for _, enr := range []string{"E1", "E2", "E3"} {
		require.NoError(t, grp.AddMember(enr))
	}
	require.NoError(t, grp.SetGrade(6))
	require.NoError(t, late.AddGroup(grp))

	early, err := school.NewExam(testutil.Header("P1", 1, 3, 10), 1)
	require.NoError(t, err)
	for _, enr := range []string{"E1", "E2", "E3", "E4"} {
		require.NoError(t, early.AddSheet(enr, []float64{4}))
	}

	c := testutil.CreateClass(t, svc, "Databases", 2024, 1, "999", []string{"E1", "E2", "E3", "E4"}, late, early)
	rpt, err := svc.ClassReport(c)
	require.NoError(t, err)

	require.Len(t, rpt.Evaluations, 2)
	assert.Equal(t, "P1", rpt.Evaluations[0].Header().Name, "evaluations follow their dates")

	var got []string
	for _, row := range rpt.Rows {
		got = append(got, row.Student.Enrollment)
	}
	assert.Equal(t, []string{"E2", "E1", "E3", "E4"}, got)
	assert.Equal(t, []float64{4, 6}, rpt.Rows[0].Grades)
	assert.Equal(t, 4.0, rpt.Rows[3].Final)
	assert.InDelta(t, 8.5, rpt.Average, 1e-9)
}
