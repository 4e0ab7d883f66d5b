// Package compat adapts fanlog loggers to the logging interfaces of gnet and fasthttp
package compat

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/lixenwraith/fanlog"
	"github.com/panjf2000/gnet/v2/pkg/logging"
)

var _ logging.Logger = (*GnetAdapter)(nil)

// GnetAdapter implements gnet's logging.Logger over any fanlog logger or composite
type GnetAdapter struct {
	logger       fanlog.Interface
	structured   bool
	fatalHandler func(msg string) // Customizable fatal behavior
}

// NewGnetAdapter creates a new gnet-compatible logger adapter
func NewGnetAdapter(logger fanlog.Interface, opts ...GnetOption) *GnetAdapter {
	adapter := &GnetAdapter{
		logger: logger,
		fatalHandler: func(msg string) {
			os.Exit(1) // Default behavior matches gnet expectations
		},
	}

	for _, opt := range opts {
		opt(adapter)
	}

	return adapter
}

// GnetOption allows customizing adapter behavior
type GnetOption func(*GnetAdapter)

// WithFatalHandler sets a custom fatal handler
func WithFatalHandler(handler func(string)) GnetOption {
	return func(a *GnetAdapter) {
		a.fatalHandler = handler
	}
}

// WithStructuredFields turns "key=%v" pieces of gnet format strings into key/value args
func WithStructuredFields(enable bool) GnetOption {
	return func(a *GnetAdapter) {
		a.structured = enable
	}
}

func (a *GnetAdapter) fields(format string, args []any) []any {
	if a.structured {
		return append(parseFormat(format, args), "source", "gnet")
	}
	return []any{"msg", fmt.Sprintf(format, args...), "source", "gnet"}
}

// Debugf logs at debug level with printf-style formatting
func (a *GnetAdapter) Debugf(format string, args ...any) {
	a.logger.Debug(a.fields(format, args)...)
}

// Infof logs at info level with printf-style formatting
func (a *GnetAdapter) Infof(format string, args ...any) {
	a.logger.Info(a.fields(format, args)...)
}

// Warnf logs at warn level with printf-style formatting
func (a *GnetAdapter) Warnf(format string, args ...any) {
	a.logger.Warn(a.fields(format, args)...)
}

// Errorf logs at error level with printf-style formatting
func (a *GnetAdapter) Errorf(format string, args ...any) {
	a.logger.Error(a.fields(format, args)...)
}

// Fatalf logs at critical level, flushes, and triggers the fatal handler
func (a *GnetAdapter) Fatalf(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	a.logger.Critical(append(a.fields(format, args), "fatal", true)...)

	_ = a.logger.Flush()

	if a.fatalHandler != nil {
		a.fatalHandler(msg)
	}
}

var keyValuePattern = regexp.MustCompile(`(\w+)\s*[:=]\s*%[vsdqxXeEfFgGpbcU]`)

// parseFormat extracts "key=%v" / "key: %v" pairs from a printf format.
// Text before the first pair becomes "msg"; leftovers are appended to it.
func parseFormat(format string, args []any) []any {
	matches := keyValuePattern.FindAllStringSubmatchIndex(format, -1)
	if len(matches) == 0 || len(matches) > len(args) {
		return []any{"msg", fmt.Sprintf(format, args...)}
	}

	fields := make([]any, 0, len(matches)*2+2)
	msg := ""
	lastEnd := 0
	argIndex := 0

	for _, match := range matches {
		if match[0] > lastEnd && msg == "" && argIndex == 0 {
			msg = strings.TrimSpace(format[lastEnd:match[0]])
		}
		fields = append(fields, format[match[2]:match[3]], args[argIndex])
		argIndex++
		lastEnd = match[1]
	}

	if lastEnd < len(format) {
		remaining := format[lastEnd:]
		if rest := args[argIndex:]; len(rest) > 0 {
			remaining = fmt.Sprintf(remaining, rest...)
		}
		if remaining = strings.TrimSpace(remaining); remaining != "" {
			msg = strings.TrimSpace(msg + " " + remaining)
		}
	}

	if msg != "" {
		fields = append([]any{"msg", msg}, fields...)
	}
	return fields
}
