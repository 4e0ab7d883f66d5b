package formatter

import (
	"strconv"

	"github.com/lixenwraith/fanlog/sanitizer"
)

// Pattern flags:
//
//	%Y year, %m month, %d day, %H hour, %M minute, %S second
//	%e milliseconds, %f microseconds, %t timestamp in the configured layout
//	%n logger name, %l level name, %L short level, %v message, %% literal percent
//
// Unknown flags are copied through unchanged.
type token struct {
	flag    byte // 0 for literal text
	literal string
}

func compilePattern(pattern string) []token {
	var tokens []token
	var lit []byte

	flushLiteral := func() {
		if len(lit) > 0 {
			tokens = append(tokens, token{literal: string(lit)})
			lit = lit[:0]
		}
	}

	for i := 0; i < len(pattern); i++ {
		c := pattern[i]
		if c != '%' || i+1 == len(pattern) {
			lit = append(lit, c)
			continue
		}
		i++
		switch flag := pattern[i]; flag {
		case 'Y', 'm', 'd', 'H', 'M', 'S', 'e', 'f', 't', 'n', 'l', 'L', 'v':
			flushLiteral()
			tokens = append(tokens, token{flag: flag})
		case '%':
			lit = append(lit, '%')
		default:
			lit = append(lit, '%', flag)
		}
	}
	flushLiteral()
	return tokens
}

// formatPattern renders the compiled pattern followed by a newline
func (f *Formatter) formatPattern(buf []byte, e Entry) []byte {
	serializer := sanitizer.NewSerializer("txt", f.sanitizer)
	t := e.Time

	for _, tok := range f.pattern {
		switch tok.flag {
		case 0:
			buf = append(buf, tok.literal...)
		case 'Y':
			buf = appendPadded(buf, t.Year(), 4)
		case 'm':
			buf = appendPadded(buf, int(t.Month()), 2)
		case 'd':
			buf = appendPadded(buf, t.Day(), 2)
		case 'H':
			buf = appendPadded(buf, t.Hour(), 2)
		case 'M':
			buf = appendPadded(buf, t.Minute(), 2)
		case 'S':
			buf = appendPadded(buf, t.Second(), 2)
		case 'e':
			buf = appendPadded(buf, t.Nanosecond()/1e6, 3)
		case 'f':
			buf = appendPadded(buf, t.Nanosecond()/1e3, 6)
		case 't':
			buf = t.AppendFormat(buf, f.timestampFormat)
		case 'n':
			serializer.WriteBare(&buf, e.LoggerName)
		case 'l':
			buf = append(buf, e.Level...)
		case 'L':
			buf = append(buf, e.ShortLevel...)
		case 'v':
			f.writeMessage(&buf, e.Args, serializer, false)
		}
	}

	return append(buf, '\n')
}

func appendPadded(buf []byte, v int, width int) []byte {
	s := strconv.Itoa(v)
	for i := len(s); i < width; i++ {
		buf = append(buf, '0')
	}
	return append(buf, s...)
}
