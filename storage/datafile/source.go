package datafile

import (
	"bufio"
	"io"
	"strings"
)

const maxLineSize = 1024 * 1024

// Source yields data lines, skipping blank lines and `#` comments.
// It returns io.EOF once the input is exhausted.
type Source struct {
	sc   *bufio.Scanner
	line int // physical number of the last line read
}

func NewSource(r io.Reader) *Source {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 4096), maxLineSize)
	return &Source{sc: sc}
}

// Next returns the next data line, without its line terminator.
func (s *Source) Next() (string, error) {
	for s.sc.Scan() {
		s.line++
		text := strings.TrimRight(s.sc.Text(), "\r")
		trimmed := strings.TrimSpace(text)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}
		return text, nil
	}
	if err := s.sc.Err(); err != nil {
		return "", err
	}
	return "", io.EOF
}

// Line returns the physical line number of the last line read (1-based).
func (s *Source) Line() int {
	return s.line
}
