// Package sanitizer cleans strings before they are embedded in log output.
// A Sanitizer is a list of rules; each rule pairs a filter mask with a transform.
// Sanitizers are immutable once built and safe for concurrent use.
package sanitizer

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"strconv"
	"unicode"
	"unicode/utf8"

	"github.com/davecgh/go-spew/spew"
)

// Filter flags for character matching
const (
	FilterNonPrintable uint64 = 1 << iota // Runes not printable per strconv.IsPrint
	FilterControl                         // unicode.IsControl
	FilterWhitespace                      // unicode.IsSpace
)

// Transform flags for character transformation
const (
	TransformStrip      uint64 = 1 << iota // Drop the rune
	TransformHexEncode                     // "<XXYY>" of the rune's UTF-8 bytes
	TransformJSONEscape                    // Backslash escape, \u00XX for the rest
)

// PolicyPreset names a pre-configured rule set
type PolicyPreset string

const (
	PolicyRaw  PolicyPreset = "raw"  // Passthrough
	PolicyJSON PolicyPreset = "json" // Strings embedded in JSON
	PolicyTxt  PolicyPreset = "txt"  // Text written to files or terminals
)

type rule struct {
	filter    uint64
	transform uint64
}

var policyRules = map[PolicyPreset][]rule{
	PolicyRaw:  {},
	PolicyTxt:  {{filter: FilterNonPrintable, transform: TransformHexEncode}},
	PolicyJSON: {{filter: FilterControl, transform: TransformJSONEscape}},
}

// Sanitizer applies its rules in order, first match wins
type Sanitizer struct {
	rules []rule
}

// New creates a passthrough sanitizer
func New() *Sanitizer {
	return &Sanitizer{}
}

// Rule returns a sanitizer extended with a custom rule
func (s *Sanitizer) Rule(filter uint64, transform uint64) *Sanitizer {
	rules := make([]rule, len(s.rules), len(s.rules)+1)
	copy(rules, s.rules)
	return &Sanitizer{rules: append(rules, rule{filter: filter, transform: transform})}
}

// Policy returns a sanitizer extended with a preset's rules
func (s *Sanitizer) Policy(preset PolicyPreset) *Sanitizer {
	out := s
	for _, r := range policyRules[preset] {
		out = out.Rule(r.filter, r.transform)
	}
	return out
}

// Sanitize applies all configured rules to data
func (s *Sanitizer) Sanitize(data string) string {
	if len(s.rules) == 0 {
		return data
	}
	return string(s.AppendSanitized(make([]byte, 0, len(data)), data))
}

// AppendSanitized appends the sanitized form of data to buf
func (s *Sanitizer) AppendSanitized(buf []byte, data string) []byte {
	for _, r := range data {
		matched := false
		for _, rl := range s.rules {
			if matchesFilter(r, rl.filter) {
				buf = applyTransform(buf, r, rl.transform)
				matched = true
				break
			}
		}
		if !matched {
			buf = utf8.AppendRune(buf, r)
		}
	}
	return buf
}

func matchesFilter(r rune, mask uint64) bool {
	if mask&FilterNonPrintable != 0 && !strconv.IsPrint(r) {
		return true
	}
	if mask&FilterControl != 0 && unicode.IsControl(r) {
		return true
	}
	if mask&FilterWhitespace != 0 && unicode.IsSpace(r) {
		return true
	}
	return false
}

func applyTransform(buf []byte, r rune, mask uint64) []byte {
	switch {
	case mask&TransformStrip != 0:
		return buf

	case mask&TransformHexEncode != 0:
		var runeBytes [utf8.UTFMax]byte
		n := utf8.EncodeRune(runeBytes[:], r)
		buf = append(buf, '<')
		buf = hex.AppendEncode(buf, runeBytes[:n])
		return append(buf, '>')

	case mask&TransformJSONEscape != 0:
		switch r {
		case '\n':
			return append(buf, '\\', 'n')
		case '\r':
			return append(buf, '\\', 'r')
		case '\t':
			return append(buf, '\\', 't')
		case '\b':
			return append(buf, '\\', 'b')
		case '\f':
			return append(buf, '\\', 'f')
		case '"':
			return append(buf, '\\', '"')
		case '\\':
			return append(buf, '\\', '\\')
		}
		if r < 0x20 || r == 0x7f {
			return fmt.Appendf(buf, "\\u%04x", r)
		}
	}
	return utf8.AppendRune(buf, r)
}

// Serializer writes values with format-specific quoting and escaping
type Serializer struct {
	format    string
	sanitizer *Sanitizer
}

// NewSerializer creates a serializer for "txt", "json" or "raw" output
func NewSerializer(format string, san *Sanitizer) *Serializer {
	if san == nil {
		san = New()
	}
	return &Serializer{format: format, sanitizer: san}
}

// WriteString writes a string with format-specific handling
func (se *Serializer) WriteString(buf *[]byte, s string) {
	switch se.format {
	case "txt":
		sanitized := se.sanitizer.Sanitize(s)
		if !se.NeedsQuotes(sanitized) {
			*buf = append(*buf, sanitized...)
			return
		}
		*buf = append(*buf, '"')
		for i := 0; i < len(sanitized); i++ {
			if sanitized[i] == '"' || sanitized[i] == '\\' {
				*buf = append(*buf, '\\')
			}
			*buf = append(*buf, sanitized[i])
		}
		*buf = append(*buf, '"')

	case "json":
		*buf = append(*buf, '"')
		*buf = appendJSONEscaped(*buf, s)
		*buf = append(*buf, '"')

	default:
		*buf = se.sanitizer.AppendSanitized(*buf, s)
	}
}

// appendJSONEscaped escapes quotes, backslashes and everything outside printable ASCII
func appendJSONEscaped(buf []byte, s string) []byte {
	for i := 0; i < len(s); {
		c := s[i]
		if c >= ' ' && c != '"' && c != '\\' && c < 0x7f {
			start := i
			for i < len(s) && s[i] >= ' ' && s[i] != '"' && s[i] != '\\' && s[i] < 0x7f {
				i++
			}
			buf = append(buf, s[start:i]...)
			continue
		}
		switch c {
		case '\\', '"':
			buf = append(buf, '\\', c)
		case '\n':
			buf = append(buf, '\\', 'n')
		case '\r':
			buf = append(buf, '\\', 'r')
		case '\t':
			buf = append(buf, '\\', 't')
		case '\b':
			buf = append(buf, '\\', 'b')
		case '\f':
			buf = append(buf, '\\', 'f')
		default:
			if c < 0x80 {
				buf = fmt.Appendf(buf, "\\u%04x", c)
			} else {
				// Multi-byte UTF-8 passes through unchanged
				r, size := utf8.DecodeRuneInString(s[i:])
				if r == utf8.RuneError && size == 1 {
					buf = append(buf, "\ufffd"...)
				} else {
					buf = append(buf, s[i:i+size]...)
				}
				i += size
				continue
			}
		}
		i++
	}
	return buf
}

// WriteBare writes a sanitized string without quoting
func (se *Serializer) WriteBare(buf *[]byte, s string) {
	*buf = se.sanitizer.AppendSanitized(*buf, s)
}

// WriteNumber writes a pre-rendered number
func (se *Serializer) WriteNumber(buf *[]byte, n string) {
	*buf = append(*buf, n...)
}

// WriteBool writes a boolean value
func (se *Serializer) WriteBool(buf *[]byte, b bool) {
	*buf = strconv.AppendBool(*buf, b)
}

// WriteNil writes a nil value
func (se *Serializer) WriteNil(buf *[]byte) {
	if se.format == "raw" {
		*buf = append(*buf, "nil"...)
		return
	}
	*buf = append(*buf, "null"...)
}

// WriteComplex writes structs, maps, slices and pointers.
// Raw output carries spew's type and size information.
func (se *Serializer) WriteComplex(buf *[]byte, v any) {
	if se.format == "raw" {
		var b bytes.Buffer
		dumper := &spew.ConfigState{
			Indent:                  " ",
			MaxDepth:                10,
			DisablePointerAddresses: true,
			DisableCapacities:       true,
			SortKeys:                true,
		}
		dumper.Fdump(&b, v)
		*buf = append(*buf, bytes.TrimSpace(b.Bytes())...)
		return
	}
	se.WriteString(buf, fmt.Sprintf("%+v", v))
}

// NeedsQuotes determines if quoting is needed
func (se *Serializer) NeedsQuotes(s string) bool {
	switch se.format {
	case "json":
		return true
	case "txt":
		if len(s) == 0 {
			return true
		}
		for _, r := range s {
			if unicode.IsSpace(r) || !unicode.IsPrint(r) {
				return true
			}
			switch r {
			case '"', '\'', '\\', '$', '`', '!', '&', '|', ';',
				'(', ')', '<', '>', '*', '?', '[', ']', '{', '}',
				'~', '#', '%', '=':
				return true
			}
		}
		return false
	default:
		return false
	}
}
