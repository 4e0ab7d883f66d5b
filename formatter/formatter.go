// Package formatter renders log entries to bytes in txt, json or raw form,
// or through an spdlog-style pattern.
package formatter

import (
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/lixenwraith/fanlog/sanitizer"
)

// DefaultTimestampFormat is used when no timestamp format is configured
const DefaultTimestampFormat = time.RFC3339Nano

// Entry is the formatter's view of a record
type Entry struct {
	Time       time.Time
	Level      string // Long lowercase level name
	ShortLevel string // One letter level name
	LoggerName string
	Args       []any
}

// Formatter holds output settings. Configure it before sharing: Format is safe
// for concurrent use, the setters are not.
type Formatter struct {
	sanitizer       *sanitizer.Sanitizer
	format          string
	timestampFormat string
	showTimestamp   bool
	showLevel       bool
	showName        bool
	pattern         []token
}

// New creates a txt formatter with the provided sanitizer
func New(s ...*sanitizer.Sanitizer) *Formatter {
	var san *sanitizer.Sanitizer
	if len(s) > 0 && s[0] != nil {
		san = s[0]
	} else {
		san = sanitizer.New()
	}
	return &Formatter{
		sanitizer:       san,
		format:          "txt",
		timestampFormat: DefaultTimestampFormat,
		showTimestamp:   true,
		showLevel:       true,
		showName:        true,
	}
}

// Type sets the output format ("txt", "json", or "raw")
func (f *Formatter) Type(format string) *Formatter {
	f.format = format
	return f
}

// TimestampFormat sets the timestamp layout used by txt, json and the %t flag
func (f *Formatter) TimestampFormat(format string) *Formatter {
	if format != "" {
		f.timestampFormat = format
	}
	return f
}

// ShowLevel sets whether to include level in output
func (f *Formatter) ShowLevel(show bool) *Formatter {
	f.showLevel = show
	return f
}

// ShowTimestamp sets whether to include timestamp in output
func (f *Formatter) ShowTimestamp(show bool) *Formatter {
	f.showTimestamp = show
	return f
}

// ShowName sets whether to include the logger name in output
func (f *Formatter) ShowName(show bool) *Formatter {
	f.showName = show
	return f
}

// Pattern sets a txt pattern, overriding the txt field layout. Empty clears it.
func (f *Formatter) Pattern(pattern string) *Formatter {
	f.pattern = compilePattern(pattern)
	return f
}

// Clone returns an independent copy that can be reconfigured without affecting f
func (f *Formatter) Clone() *Formatter {
	c := *f
	return &c
}

// HasPattern reports whether a pattern is set
func (f *Formatter) HasPattern() bool {
	return len(f.pattern) > 0
}

// Format renders an entry using the configured format
func (f *Formatter) Format(e Entry) []byte {
	buf := make([]byte, 0, 128)

	switch f.format {
	case "raw":
		serializer := sanitizer.NewSerializer("raw", f.sanitizer)
		for i, arg := range e.Args {
			f.convertValue(&buf, arg, serializer, i > 0)
		}
		return buf

	case "json":
		return f.formatJSON(buf, e)

	default:
		if len(f.pattern) > 0 {
			return f.formatPattern(buf, e)
		}
		return f.formatTxt(buf, e)
	}
}

// FormatArgs formats multiple arguments as space-separated values
func (f *Formatter) FormatArgs(args ...any) []byte {
	buf := make([]byte, 0, 64)
	serializer := sanitizer.NewSerializer(f.format, f.sanitizer)
	for i, arg := range args {
		f.convertValue(&buf, arg, serializer, i > 0)
	}
	return buf
}

// convertValue provides unified type conversion
func (f *Formatter) convertValue(buf *[]byte, v any, serializer *sanitizer.Serializer, needsSpace bool) {
	if needsSpace && len(*buf) > 0 {
		*buf = append(*buf, ' ')
	}

	switch val := v.(type) {
	case string:
		serializer.WriteString(buf, val)

	case []byte:
		serializer.WriteString(buf, string(val))

	case rune:
		var runeStr [utf8.UTFMax]byte
		n := utf8.EncodeRune(runeStr[:], val)
		serializer.WriteString(buf, string(runeStr[:n]))

	case int:
		serializer.WriteNumber(buf, strconv.FormatInt(int64(val), 10))

	case int64:
		serializer.WriteNumber(buf, strconv.FormatInt(val, 10))

	case uint:
		serializer.WriteNumber(buf, strconv.FormatUint(uint64(val), 10))

	case uint64:
		serializer.WriteNumber(buf, strconv.FormatUint(val, 10))

	case float32:
		serializer.WriteNumber(buf, strconv.FormatFloat(float64(val), 'f', -1, 32))

	case float64:
		serializer.WriteNumber(buf, strconv.FormatFloat(val, 'f', -1, 64))

	case bool:
		serializer.WriteBool(buf, val)

	case nil:
		serializer.WriteNil(buf)

	case time.Time:
		serializer.WriteString(buf, val.Format(f.timestampFormat))

	case error:
		serializer.WriteString(buf, val.Error())

	case fmt.Stringer:
		serializer.WriteString(buf, val.String())

	default:
		serializer.WriteComplex(buf, val)
	}
}

// writeMessage writes args for txt and pattern output; plain strings stay unquoted
func (f *Formatter) writeMessage(buf *[]byte, args []any, serializer *sanitizer.Serializer, needsSpace bool) {
	for _, arg := range args {
		if s, ok := arg.(string); ok {
			if needsSpace {
				*buf = append(*buf, ' ')
			}
			serializer.WriteBare(buf, s)
		} else {
			f.convertValue(buf, arg, serializer, needsSpace)
		}
		needsSpace = true
	}
}

// formatJSON unifies JSON output
func (f *Formatter) formatJSON(buf []byte, e Entry) []byte {
	serializer := sanitizer.NewSerializer("json", f.sanitizer)
	buf = append(buf, '{')
	needsComma := false

	if f.showTimestamp {
		buf = append(buf, `"time":"`...)
		buf = e.Time.AppendFormat(buf, f.timestampFormat)
		buf = append(buf, '"')
		needsComma = true
	}

	if f.showLevel {
		if needsComma {
			buf = append(buf, ',')
		}
		buf = append(buf, `"level":"`...)
		buf = append(buf, strings.ToUpper(e.Level)...)
		buf = append(buf, '"')
		needsComma = true
	}

	if f.showName && e.LoggerName != "" {
		if needsComma {
			buf = append(buf, ',')
		}
		buf = append(buf, `"logger":`...)
		serializer.WriteString(&buf, e.LoggerName)
		needsComma = true
	}

	if len(e.Args) > 0 {
		if needsComma {
			buf = append(buf, ',')
		}
		buf = append(buf, `"fields":[`...)
		for i, arg := range e.Args {
			if i > 0 {
				buf = append(buf, ',')
			}
			f.convertValue(&buf, arg, serializer, false)
		}
		buf = append(buf, ']')
	}

	return append(buf, '}', '\n')
}

// formatTxt handles txt format output
func (f *Formatter) formatTxt(buf []byte, e Entry) []byte {
	serializer := sanitizer.NewSerializer("txt", f.sanitizer)
	needsSpace := false

	if f.showTimestamp {
		buf = e.Time.AppendFormat(buf, f.timestampFormat)
		needsSpace = true
	}

	if f.showLevel {
		if needsSpace {
			buf = append(buf, ' ')
		}
		buf = append(buf, strings.ToUpper(e.Level)...)
		needsSpace = true
	}

	if f.showName && e.LoggerName != "" {
		if needsSpace {
			buf = append(buf, ' ')
		}
		buf = append(buf, '[')
		serializer.WriteBare(&buf, e.LoggerName)
		buf = append(buf, ']')
		needsSpace = true
	}

	f.writeMessage(&buf, e.Args, serializer, needsSpace)

	return append(buf, '\n')
}
