// FILE: lixenwraith/fanlog/record.go
package fanlog

import (
	"fmt"
	"time"

	"github.com/lixenwraith/fanlog/formatter"
)

// Record represents a single log event as it moves from a logger to its sinks
type Record struct {
	Time       time.Time
	Level      Level
	LoggerName string // Name of the leaf logger delivering the record
	Template   string // printf template, empty for plain args
	Args       []any
	Formatted  []byte // Output of the delivering logger's formatter
}

// newRecord creates a record stamped with the current time
func newRecord(name string, level Level, template string, args []any) Record {
	return Record{
		Time:       time.Now(),
		Level:      level,
		LoggerName: name,
		Template:   template,
		Args:       args,
	}
}

// view returns a copy of the record addressed to another logger, with formatting cleared.
// Composite fan-out passes views so no record is ever shared between children.
func (r Record) view(name string) Record {
	r.LoggerName = name
	r.Formatted = nil
	return r
}

// Message renders the template, or the space separated args when there is none
func (r *Record) Message() string {
	if r.Template != "" {
		return fmt.Sprintf(r.Template, r.Args...)
	}
	return string(formatter.New().Type("raw").FormatArgs(r.Args...))
}

// entry converts the record to the formatter's input
func (r *Record) entry() formatter.Entry {
	e := formatter.Entry{
		Time:       r.Time,
		Level:      r.Level.String(),
		ShortLevel: r.Level.ShortName(),
		LoggerName: r.LoggerName,
		Args:       r.Args,
	}
	if r.Template != "" {
		e.Args = []any{fmt.Sprintf(r.Template, r.Args...)}
	}
	return e
}
