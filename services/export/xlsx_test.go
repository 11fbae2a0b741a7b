package exportsvc

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/trezcool/gradebook/core/school"
)

func Test_sheetName(t *testing.T) {
	used := map[string]bool{}
	tests := []struct {
		name  string
		class *school.Class
		want  string
	}{
		{name: "plain", class: &school.Class{Name: "Algorithms", Year: 2024, Term: 1}, want: "Algorithms 2024-1"},
		{name: "forbidden chars", class: &school.Class{Name: "I/O [lab]: why?", Year: 2024, Term: 2}, want: "I-O (lab)- why 2024-2"},
		{name: "too long", class: &school.Class{Name: strings.Repeat("x", 40), Year: 2024, Term: 1}, want: strings.Repeat("x", 31)},
		{name: "taken", class: &school.Class{Name: "ALGORITHMS", Year: 2024, Term: 1}, want: "ALGORITHMS 2024-1 #4"},
	}
	for i, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := sheetName(tt.class, i, used)
			assert.Equal(t, tt.want, got)
			assert.LessOrEqual(t, len(got), maxSheetNameLen)
		})
	}
}

func TestWriteReports(t *testing.T) {
	c := &school.Class{Name: "Empty", Year: 2024, Term: 1}
	var buf bytes.Buffer
	require.NoError(t, WriteReports(&buf, []school.Report{{Class: c, Teacher: &school.Teacher{}}}))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	assert.Equal(t, []string{"Empty 2024-1"}, f.GetSheetList())
	rows, err := f.GetRows("Empty 2024-1")
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"Enrollment", "Student", "Final"}, {"Average", "", "0"}}, rows)
}
