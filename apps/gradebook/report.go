package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/trezcool/gradebook/core/school"
	exportsvc "github.com/trezcool/gradebook/services/export"
	"github.com/trezcool/gradebook/storage/datafile"
)

// report loads a data file, prints its grade reports and optionally exports them.
func (cli *commandLine) report(store *datafile.Store, xlsxPath string) error {
	if _, err := store.Load(); err != nil {
		return err
	}
	if err := printClasses(cli.out, cli.svc); err != nil {
		return err
	}
	if xlsxPath == "" {
		return nil
	}

	reports, err := classReports(cli.svc)
	if err != nil {
		return err
	}
	f, err := os.Create(xlsxPath)
	if err != nil {
		return errors.Wrap(err, "creating spreadsheet")
	}
	if err := exportsvc.WriteReports(f, reports); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return errors.Wrap(err, "closing spreadsheet")
	}
	fmt.Fprintf(cli.out, "Reports written to %s\n", xlsxPath)
	return nil
}

func classReports(svc *school.Service) ([]school.Report, error) {
	classes, err := svc.SortedClasses()
	if err != nil {
		return nil, err
	}
	reports := make([]school.Report, 0, len(classes))
	for _, c := range classes {
		rpt, err := svc.ClassReport(c)
		if err != nil {
			return nil, errors.Wrapf(err, "report of class %s", c.Key())
		}
		reports = append(reports, rpt)
	}
	return reports, nil
}

// printClasses lists the classes, then prints the grade report of each.
func printClasses(w io.Writer, svc *school.Service) error {
	reports, err := classReports(svc)
	if err != nil {
		return err
	}
	if len(reports) == 0 {
		fmt.Fprintln(w, "No classes registered.")
		return nil
	}

	fmt.Fprintln(w, "Registered classes:")
	for _, rpt := range reports {
		fmt.Fprintf(w, "* %s - Teacher: %s\n", rpt.Class.Key(), rpt.Teacher.Name)
	}
	fmt.Fprintln(w)
	for _, rpt := range reports {
		printReport(w, rpt)
		fmt.Fprintln(w)
	}
	return nil
}

func printReport(w io.Writer, rpt school.Report) {
	fmt.Fprintf(w, "Grades of class %s:\n", rpt.Class.Key())
	if len(rpt.Rows) == 0 {
		fmt.Fprintln(w, "No students in this class.")
		return
	}
	for _, row := range rpt.Rows {
		grades := make([]string, len(row.Grades))
		for i, g := range row.Grades {
			grades[i] = strconv.FormatFloat(g, 'f', 2, 64)
		}
		fmt.Fprintf(w, "%s: %s => final %.2f\n", row.Student, strings.Join(grades, " "), row.Final)
	}
	fmt.Fprintf(w, "Class average: %.2f\n", rpt.Average)
}
