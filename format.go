// FILE: lixenwraith/fanlog/format.go
package fanlog

import (
	"github.com/lixenwraith/fanlog/formatter"
)

// Formatter turns a record into the bytes handed to sinks.
// Implementations must be safe for concurrent use.
type Formatter interface {
	Format(rec *Record) []byte
}

// PatternFormatter adapts formatter.Formatter to the Formatter contract
type PatternFormatter struct {
	f *formatter.Formatter
}

// NewPatternFormatter creates a txt formatter rendering pattern
func NewPatternFormatter(pattern string) *PatternFormatter {
	return &PatternFormatter{f: formatter.New().Type("txt").Pattern(pattern)}
}

// NewFormatter wraps a configured formatter.Formatter. The wrapper owns f from here on.
func NewFormatter(f *formatter.Formatter) *PatternFormatter {
	if f == nil {
		f = formatter.New()
	}
	return &PatternFormatter{f: f}
}

// Format renders the record
func (p *PatternFormatter) Format(rec *Record) []byte {
	return p.f.Format(rec.entry())
}

// WithPattern returns a copy rendering pattern with the same output settings
func (p *PatternFormatter) WithPattern(pattern string) *PatternFormatter {
	return &PatternFormatter{f: p.f.Clone().Type("txt").Pattern(pattern)}
}

// defaultFormatter is installed on loggers created without one
func defaultFormatter() Formatter {
	return NewPatternFormatter(DefaultPattern)
}
