package logsvc

import (
	"bytes"
	"errors"
	"log"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/trezcool/gradebook/core"
	"github.com/trezcool/gradebook/core/school"
)

func TestRollbarLogger(t *testing.T) {
	tests := []struct {
		name  string
		debug bool
		want  string
	}{
		{name: "quiet", want: "INFO loaded\nWARN skipping record\n"},
		{name: "debug", debug: true, want: "DEBUG details\nINFO loaded\nAda (ID: T1)\nWARN skipping record\nboom\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			l := NewRollbarLogger(log.New(&buf, "", 0), &core.Config{Env: "TEST", Debug: tt.debug, TestMode: true})

			l.Debug("details")
			l.Info("loaded", school.Person{Name: "Ada", NationalID: "T1"})
			l.Warn("skipping record", errors.New("boom"))
			assert.Equal(t, tt.want, buf.String())
		})
	}
}
