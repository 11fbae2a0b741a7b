package main

import (
	"fmt"
	"io"

	"github.com/pkg/errors"

	"github.com/trezcool/gradebook/core"
	"github.com/trezcool/gradebook/core/school"
	"github.com/trezcool/gradebook/storage/datafile"
)

const menuText = `
*********************
Choose an option:
1) Register teacher
2) Register student
3) Register class
4) List classes
0) Exit
Option: `

type shell struct {
	svc   *school.Service
	store *datafile.Store
	log   core.Logger
	in    *prompter
	out   io.Writer
}

// shell loads the data file and serves menu commands until exit or end of input.
func (cli *commandLine) shell(store *datafile.Store) error {
	if _, err := store.Load(); err != nil {
		fmt.Fprintf(cli.out, "Could not load %s: %v\nChanges will not be saved.\n", store.Path(), err)
	}

	in, interactive, closeInput, err := cli.openInput()
	if err != nil {
		return errors.Wrap(err, "opening command input")
	}
	defer closeInput()

	sh := &shell{
		svc:   cli.svc,
		store: store,
		log:   cli.log,
		in:    newPrompter(in, cli.out, interactive),
		out:   cli.out,
	}
	sh.loop()
	return nil
}

func (sh *shell) loop() {
	for {
		op, err := sh.in.integer(menuText)
		if err == io.EOF {
			fmt.Fprintln(sh.out, "End of input.")
			return
		}
		if err != nil {
			fmt.Fprintf(sh.out, "Error: %v\n", err)
			continue
		}

		switch op {
		case 0:
			fmt.Fprintln(sh.out, "Bye!")
			return
		case 1:
			err = sh.registerTeacher()
		case 2:
			err = sh.registerStudent()
		case 3:
			err = sh.registerClass()
		case 4:
			err = printClasses(sh.out, sh.svc)
		default:
			fmt.Fprintln(sh.out, "Invalid option. Try again.")
			continue
		}

		if err == io.EOF {
			fmt.Fprintln(sh.out, "Unexpected end of input.")
			return
		}
		if err != nil {
			fmt.Fprintf(sh.out, "Error: %v\n", err)
		}
	}
}

// save persists the directory after a successful command. Failures are reported only.
func (sh *shell) save() {
	if err := sh.store.Save(); err != nil {
		sh.log.Error("saving data file failed", err)
		fmt.Fprintf(sh.out, "Could not save %s: %v\n", sh.store.Path(), err)
	}
}

func (sh *shell) listTeachers() {
	if !sh.in.interactive {
		return
	}
	teachers, err := sh.svc.Teachers()
	if err != nil || len(teachers) == 0 {
		fmt.Fprintln(sh.out, "No teachers registered yet.")
		return
	}
	fmt.Fprintln(sh.out, "Registered teachers:")
	for _, t := range teachers {
		fmt.Fprintf(sh.out, "* %s\n", t)
	}
}

func (sh *shell) listStudents() {
	if !sh.in.interactive {
		return
	}
	students, err := sh.svc.Students()
	if err != nil || len(students) == 0 {
		fmt.Fprintln(sh.out, "No students registered yet.")
		return
	}
	fmt.Fprintln(sh.out, "Registered students:")
	for _, s := range students {
		fmt.Fprintf(sh.out, "* %s\n", s)
	}
}

func (sh *shell) registerTeacher() error {
	sh.listTeachers()
	var (
		nt  school.NewTeacher
		err error
	)
	if nt.Name, err = sh.in.line("Teacher name: "); err != nil {
		return err
	}
	if nt.NationalID, err = sh.in.line("Teacher national ID: "); err != nil {
		return err
	}
	if nt.Salary, err = sh.in.number("Teacher salary: "); err != nil {
		return err
	}

	t, err := sh.svc.RegisterTeacher(nt)
	if err != nil {
		return err
	}
	fmt.Fprintf(sh.out, "Teacher %s registered.\n", t.Name)
	sh.save()
	return nil
}

func (sh *shell) registerStudent() error {
	sh.listStudents()
	var (
		ns  school.NewStudent
		err error
	)
	if ns.Name, err = sh.in.line("Student name: "); err != nil {
		return err
	}
	if ns.NationalID, err = sh.in.line("Student national ID: "); err != nil {
		return err
	}
	if ns.Enrollment, err = sh.in.line("Student enrollment: "); err != nil {
		return err
	}

	s, err := sh.svc.RegisterStudent(ns)
	if err != nil {
		return err
	}
	fmt.Fprintf(sh.out, "Student %s registered.\n", s.Name)
	sh.save()
	return nil
}
