package datafile

import (
	"io"

	"github.com/pkg/errors"

	"github.com/trezcool/gradebook/core/school"
)

// Dump writes the whole directory to w: teachers, students, then classes, in
// registration order, followed by FIM.
func Dump(w io.Writer, svc *school.Service) error {
	teachers, err := svc.Teachers()
	if err != nil {
		return errors.Wrap(err, "listing teachers")
	}
	students, err := svc.Students()
	if err != nil {
		return errors.Wrap(err, "listing students")
	}
	classes, err := svc.Classes()
	if err != nil {
		return errors.Wrap(err, "listing classes")
	}

	rw := newRecordWriter(w)
	for _, t := range teachers {
		encodeTeacher(rw, t)
	}
	for _, s := range students {
		encodeStudent(rw, s)
	}
	for _, c := range classes {
		encodeClass(rw, c)
	}
	rw.line(TagEnd)
	return errors.Wrap(rw.flush(), "writing data file")
}
