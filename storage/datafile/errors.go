package datafile

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	errEndOfInput  = errors.New("unexpected end of input")
	ErrStoreLocked = errors.New("store was only partially loaded; refusing to overwrite it")
)

// Reason classifies why a record was skipped or a load aborted.
type Reason int

const (
	MissingField Reason = iota + 1
	BadNumber
	UnknownTag
	BadReference
	Rejected // failed validation or registration
	ReadFailure
)

func (r Reason) String() string {
	switch r {
	case MissingField:
		return "missing field"
	case BadNumber:
		return "bad number"
	case BadReference:
		return "unresolved reference"
	case UnknownTag:
		return "unknown tag"
	case Rejected:
		return "rejected"
	case ReadFailure:
		return "read failure"
	default:
		return "unknown reason"
	}
}

// RecordError reports a record that was read in full but discarded.
// The stream is aligned on the line following the record.
type RecordError struct {
	Tag    string
	Line   int // line of the record tag
	Field  string
	Reason Reason
	Err    error
}

func (e *RecordError) Error() string {
	msg := fmt.Sprintf("%s record at line %d: %s", e.Tag, e.Line, e.Reason)
	if e.Field != "" {
		msg += " (" + e.Field + ")"
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *RecordError) Unwrap() error { return e.Err }

// AbortError reports a fault after which the record boundaries cannot be recovered.
type AbortError struct {
	Tag    string
	Line   int // line of the offending field
	Field  string
	Reason Reason
	Err    error
}

func (e *AbortError) Error() string {
	where := e.Field
	if e.Tag != "" {
		where = e.Tag + " " + e.Field
	}
	return fmt.Sprintf("load aborted at line %d (%s): %s: %v", e.Line, where, e.Reason, e.Err)
}

func (e *AbortError) Unwrap() error { return e.Err }
