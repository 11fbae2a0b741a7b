// Package exportsvc writes grade reports to spreadsheets.
package exportsvc

import (
	"io"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/xuri/excelize/v2"

	"github.com/trezcool/gradebook/core/school"
)

const maxSheetNameLen = 31

var sheetNameReplacer = strings.NewReplacer(":", "-", "\\", "-", "/", "-", "?", "", "*", "", "[", "(", "]", ")")

// WriteReports writes one sheet per report to w, in order.
func WriteReports(w io.Writer, reports []school.Report) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	defaultSheet := f.GetSheetName(0)
	used := make(map[string]bool, len(reports))
	for i, rpt := range reports {
		name := sheetName(rpt.Class, i, used)
		if _, err := f.NewSheet(name); err != nil {
			return errors.Wrapf(err, "creating sheet %q", name)
		}
		if err := writeReport(f, name, rpt); err != nil {
			return errors.Wrapf(err, "writing sheet %q", name)
		}
	}
	if len(reports) > 0 {
		if err := f.DeleteSheet(defaultSheet); err != nil {
			return errors.Wrap(err, "deleting default sheet")
		}
		f.SetActiveSheet(0)
	}
	return errors.Wrap(f.Write(w), "writing spreadsheet")
}

func writeReport(f *excelize.File, sheet string, rpt school.Report) error {
	header := []interface{}{"Enrollment", "Student"}
	for _, ev := range rpt.Evaluations {
		hdr := ev.Header()
		header = append(header, hdr.Name+" ("+hdr.Date.String()+")")
	}
	header = append(header, "Final")
	if err := setRow(f, sheet, 1, header); err != nil {
		return err
	}

	for i, row := range rpt.Rows {
		values := []interface{}{row.Student.Enrollment, row.Student.Name}
		for _, g := range row.Grades {
			values = append(values, g)
		}
		values = append(values, row.Final)
		if err := setRow(f, sheet, i+2, values); err != nil {
			return err
		}
	}

	footer := make([]interface{}, len(header))
	footer[0] = "Average"
	footer[len(footer)-1] = rpt.Average
	return setRow(f, sheet, len(rpt.Rows)+2, footer)
}

func setRow(f *excelize.File, sheet string, row int, values []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	return f.SetSheetRow(sheet, cell, &values)
}

// sheetName derives a unique, valid sheet name from the class key.
func sheetName(c *school.Class, idx int, used map[string]bool) string {
	name := sheetNameReplacer.Replace(c.Name + " " + strconv.Itoa(c.Year) + "-" + strconv.Itoa(c.Term))
	if len(name) > maxSheetNameLen {
		name = name[:maxSheetNameLen]
	}
	if used[strings.ToLower(name)] {
		suffix := " #" + strconv.Itoa(idx+1)
		if len(name)+len(suffix) > maxSheetNameLen {
			name = name[:maxSheetNameLen-len(suffix)]
		}
		name += suffix
	}
	used[strings.ToLower(name)] = true
	return name
}
