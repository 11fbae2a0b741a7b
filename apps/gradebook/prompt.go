package main

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/trezcool/gradebook/storage/datafile"
)

// prompter reads answers from the command source. Prompts are only shown to a
// terminal; a bad number is asked again there and fails the command otherwise.
type prompter struct {
	src         *datafile.Source
	out         io.Writer
	interactive bool
}

func newPrompter(in io.Reader, out io.Writer, interactive bool) *prompter {
	return &prompter{src: datafile.NewSource(in), out: out, interactive: interactive}
}

func (p *prompter) say(format string, args ...interface{}) {
	if p.interactive {
		fmt.Fprintf(p.out, format, args...)
	}
}

// line returns the next answer, or io.EOF when the source is exhausted.
func (p *prompter) line(msg string) (string, error) {
	p.say("%s", msg)
	line, err := p.src.Next()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func (p *prompter) integer(msg string) (int, error) {
	for {
		line, err := p.line(msg)
		if err != nil {
			return 0, err
		}
		n, err := strconv.Atoi(line)
		if err == nil {
			return n, nil
		}
		if !p.interactive {
			return 0, errors.Errorf("invalid integer %q at line %d", line, p.src.Line())
		}
		fmt.Fprintln(p.out, "Invalid number! Try again.")
	}
}

func (p *prompter) number(msg string) (float64, error) {
	for {
		line, err := p.line(msg)
		if err != nil {
			return 0, err
		}
		f, err := strconv.ParseFloat(line, 64)
		if err == nil && !math.IsNaN(f) && !math.IsInf(f, 0) {
			return f, nil
		}
		if !p.interactive {
			return 0, errors.Errorf("invalid number %q at line %d", line, p.src.Line())
		}
		fmt.Fprintln(p.out, "Invalid number! Try again.")
	}
}

// retry reports whether a rejected answer should be asked again.
func (p *prompter) retry(format string, args ...interface{}) bool {
	fmt.Fprintf(p.out, format+"\n", args...)
	return p.interactive
}

// intAtLeast asks for an integer no lower than min.
func (p *prompter) intAtLeast(msg string, min int) (int, error) {
	for {
		n, err := p.integer(msg)
		if err != nil {
			return 0, err
		}
		if n >= min {
			return n, nil
		}
		if !p.retry("Must be at least %d.", min) {
			return 0, errors.Errorf("%d is lower than %d", n, min)
		}
	}
}

// numberAbove asks for a number greater than min, or equal to it when orEqual is set.
func (p *prompter) numberAbove(msg string, min float64, orEqual bool) (float64, error) {
	for {
		f, err := p.number(msg)
		if err != nil {
			return 0, err
		}
		if f > min || (orEqual && f == min) {
			return f, nil
		}
		if !p.retry("Invalid value %v.", f) {
			return 0, errors.Errorf("invalid value %v", f)
		}
	}
}
