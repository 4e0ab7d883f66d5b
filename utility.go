// FILE: lixenwraith/fanlog/utility.go
package fanlog

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"sync/atomic"
	"time"
)

// Sentinel errors returned by sinks and configuration
var (
	ErrSinkClosed    = errors.New("fanlog: sink closed")
	ErrSinkBroken    = errors.New("fanlog: sink broken by failed rotation")
	ErrInvalidConfig = errors.New("fanlog: invalid configuration")
)

// ErrorHandler receives runtime delivery failures instead of the caller
type ErrorHandler func(loggerName string, err error)

const errorPrefix = "fanlog: "

// fmtErrorf wrapper. Wrapped fanlog errors lose their own prefix so it appears once.
func fmtErrorf(format string, args ...any) error {
	if !strings.HasPrefix(format, errorPrefix) {
		format = errorPrefix + format
	}
	return fmt.Errorf(format, unprefixArgs(args)...)
}

// unprefixed shows a wrapped error without the package prefix; errors.Is still reaches it
type unprefixed struct{ err error }

func (u unprefixed) Error() string { return strings.TrimPrefix(u.err.Error(), errorPrefix) }
func (u unprefixed) Unwrap() error { return u.err }

func unprefixArgs(args []any) []any {
	out := make([]any, len(args))
	for i, a := range args {
		if err, ok := a.(error); ok && strings.HasPrefix(err.Error(), errorPrefix) {
			a = unprefixed{err: err}
		}
		out[i] = a
	}
	return out
}

// combineErrors helper
func combineErrors(err1, err2 error) error {
	if err1 == nil {
		return err2
	}
	if err2 == nil {
		return err1
	}
	return fmt.Errorf("%v; %w", err1, unprefixArgs([]any{err2})[0].(error))
}

// parseKeyValue splits a "key=value" string.
func parseKeyValue(arg string) (string, string, error) {
	parts := strings.SplitN(strings.TrimSpace(arg), "=", 2)
	if len(parts) != 2 {
		return "", "", fmtErrorf("invalid format in override string '%s', expected key=value", arg)
	}
	key := strings.TrimSpace(parts[0])
	value := strings.TrimSpace(parts[1])
	if key == "" {
		return "", "", fmtErrorf("key cannot be empty in override string '%s'", arg)
	}
	return key, value, nil
}

// internalLog writes library diagnostics to stderr
func internalLog(format string, args ...any) {
	if !strings.HasPrefix(format, "fanlog: ") {
		format = "fanlog: " + format
	}
	fmt.Fprintf(os.Stderr, format, args...)
}

// newDefaultErrorHandler reports to stderr at most once per second
func newDefaultErrorHandler() ErrorHandler {
	var lastErr atomic.Int64
	return func(loggerName string, err error) {
		now := time.Now().Unix()
		last := lastErr.Load()
		if now-last < 1 || !lastErr.CompareAndSwap(last, now) {
			return
		}
		internalLog("[%s] %v\n", loggerName, err)
	}
}
