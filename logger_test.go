// FILE: lixenwraith/fanlog/logger_test.go
package fanlog

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m,
		// lumberjack starts millRun once per Logger and Close never stops it
		goleak.IgnoreTopFunction("gopkg.in/natefinch/lumberjack%2ev2.(*Logger).millRun"),
	)
}

// journal records sink writes across sinks in call order
type journal struct {
	mu      sync.Mutex
	entries []string
}

func (j *journal) add(entry string) {
	j.mu.Lock()
	j.entries = append(j.entries, entry)
	j.mu.Unlock()
}

func (j *journal) snapshot() []string {
	j.mu.Lock()
	defer j.mu.Unlock()
	return append([]string(nil), j.entries...)
}

// memorySink keeps formatted records in memory and can be told to fail
type memorySink struct {
	sinkBase
	tag       string
	journal   *journal
	lines     []string
	flushes   int
	closed    bool
	failWith  error
	panicWith any
}

func newMemorySink() *memorySink {
	return &memorySink{sinkBase: newSinkBase(MultiThreaded)}
}

func (s *memorySink) Log(rec *Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.panicWith != nil {
		panic(s.panicWith)
	}
	if s.failWith != nil {
		return s.failWith
	}
	line := string(rec.Formatted)
	s.lines = append(s.lines, line)
	if s.journal != nil {
		s.journal.add(s.tag + ":" + line)
	}
	return nil
}

func (s *memorySink) Flush() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.flushes++
	return nil
}

func (s *memorySink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return s.failWith
}

func (s *memorySink) Lines() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.lines...)
}

func (s *memorySink) Flushes() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.flushes
}

// errorRecorder collects errors passed to an ErrorHandler
type errorRecorder struct {
	mu     sync.Mutex
	names  []string
	errors []error
}

func (r *errorRecorder) handler() ErrorHandler {
	return func(name string, err error) {
		r.mu.Lock()
		r.names = append(r.names, name)
		r.errors = append(r.errors, err)
		r.mu.Unlock()
	}
}

func (r *errorRecorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.errors)
}

// createTestLogger creates a trace-level logger rendering only the message
func createTestLogger(t *testing.T, name string, sinks ...Sink) *Logger {
	t.Helper()
	if len(sinks) == 0 {
		sinks = []Sink{newMemorySink()}
	}
	l := NewLogger(name, sinks...)
	l.SetLevel(LevelTrace)
	l.SetPattern("%v")
	return l
}

// countingFormatter counts Format calls
type countingFormatter struct {
	calls atomic.Int64
}

func (f *countingFormatter) Format(rec *Record) []byte {
	f.calls.Add(1)
	return []byte(rec.Message() + "\n")
}

type panickingFormatter struct{}

func (panickingFormatter) Format(*Record) []byte {
	panic("formatter exploded")
}

func TestNewLogger(t *testing.T) {
	s := newMemorySink()
	l := NewLogger("app", s, nil)

	assert.Equal(t, "app", l.Name())
	assert.Equal(t, LevelTrace, l.Level())
	assert.Equal(t, LevelOff, l.FlushLevel())
	assert.NotNil(t, l.Formatter())
	assert.NotNil(t, l.ErrorHandler())
	require.Len(t, l.Sinks(), 1, "nil sinks are skipped")
	assert.Same(t, s, l.Sinks()[0])
}

func TestNewLoggerPermissive(t *testing.T) {
	s := newMemorySink()
	l := NewLogger("fresh", s)
	l.SetPattern("%l %v")

	l.Trace("trace")
	l.Debug("debug")

	assert.Equal(t, []string{"trace trace\n", "debug debug\n"}, s.Lines())
}

func TestLoggerDefaultPattern(t *testing.T) {
	s := newMemorySink()
	l := NewLogger("app", s)
	l.Info("hello", "world")

	lines := s.Lines()
	require.Len(t, lines, 1)
	assert.Regexp(t, `^\[\d{4}-\d{2}-\d{2} \d{2}:\d{2}:\d{2}\.\d{3}\] \[app\] \[info\] hello world\n$`, lines[0])
}

func TestLoggerTwoGates(t *testing.T) {
	verbose := newMemorySink()
	errorsOnly := newMemorySink()
	errorsOnly.SetLevel(LevelError)

	l := createTestLogger(t, "gates", verbose, errorsOnly)
	l.SetLevel(LevelInfo)

	l.Debug("below logger")
	l.Info("info")
	l.Error("error")

	assert.Equal(t, []string{"info\n", "error\n"}, verbose.Lines())
	assert.Equal(t, []string{"error\n"}, errorsOnly.Lines())

	// Raising a sink threshold does not change the logger gate
	verbose.SetLevel(LevelCritical)
	l.Warn("warn")
	l.Critical("critical")
	assert.Equal(t, []string{"info\n", "error\n", "critical\n"}, verbose.Lines())
	assert.Equal(t, []string{"error\n", "critical\n"}, errorsOnly.Lines())
}

func TestLoggerShouldLog(t *testing.T) {
	tests := []struct {
		threshold Level
		level     Level
		want      bool
	}{
		{LevelInfo, LevelDebug, false},
		{LevelInfo, LevelInfo, true},
		{LevelInfo, LevelCritical, true},
		{LevelTrace, LevelTrace, true},
		{LevelOff, LevelCritical, false},
		{LevelTrace, LevelOff, false},
	}

	l := NewLogger("x")
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%s_%s", tt.threshold, tt.level), func(t *testing.T) {
			l.SetLevel(tt.threshold)
			assert.Equal(t, tt.want, l.ShouldLog(tt.level))
		})
	}
}

func TestLoggerOff(t *testing.T) {
	s := newMemorySink()
	l := createTestLogger(t, "off", s)

	l.Log(LevelOff, "never")
	assert.Empty(t, s.Lines(), "records at LevelOff are discarded")

	l.SetLevel(LevelOff)
	l.Critical("muted")
	assert.Empty(t, s.Lines())

	l.SetLevel(LevelTrace)
	s.SetLevel(LevelOff)
	l.Critical("sink muted")
	assert.Empty(t, s.Lines())
}

func TestLoggerPrintf(t *testing.T) {
	s := newMemorySink()
	l := createTestLogger(t, "printf", s)

	l.Infof("x=%d y=%s", 5, "z")
	l.Logf(LevelWarn, "%.1f%%", 99.5)
	l.Tracef("t")
	l.Debugf("d")
	l.Warnf("w")
	l.Errorf("e")
	l.Criticalf("c")

	assert.Equal(t, []string{"x=5 y=z\n", "99.5%\n", "t\n", "d\n", "w\n", "e\n", "c\n"}, s.Lines())
}

func TestLoggerFlushOn(t *testing.T) {
	a, b := newMemorySink(), newMemorySink()
	b.SetLevel(LevelCritical)
	l := createTestLogger(t, "flush", a, b)

	l.Error("no flush by default")
	assert.Zero(t, a.Flushes())

	l.FlushOn(LevelWarn)
	l.Info("below flush level")
	assert.Zero(t, a.Flushes())

	l.Warn("flush")
	assert.Equal(t, 1, a.Flushes())
	assert.Equal(t, 1, b.Flushes(), "flush reaches every sink, even ones that rejected the record")

	require.NoError(t, l.Flush())
	assert.Equal(t, 2, a.Flushes())
}

func TestLoggerFormatsOnce(t *testing.T) {
	f := &countingFormatter{}
	rejecting := newMemorySink()
	rejecting.SetLevel(LevelError)
	l := createTestLogger(t, "once", newMemorySink(), newMemorySink(), rejecting)
	l.SetFormatter(f)

	l.Info("accepted by two sinks")
	assert.Equal(t, int64(1), f.calls.Load())

	only := newMemorySink()
	only.SetLevel(LevelOff)
	quiet := createTestLogger(t, "quiet", only)
	quiet.SetFormatter(f)
	quiet.Info("nobody wants this")
	assert.Equal(t, int64(1), f.calls.Load(), "no sink accepted, nothing to format")
}

func TestLoggerSinkFailureIsolation(t *testing.T) {
	failing := newMemorySink()
	failing.failWith = errors.New("disk on fire")
	panicking := newMemorySink()
	panicking.panicWith = "boom"
	healthy := newMemorySink()

	rec := &errorRecorder{}
	l := createTestLogger(t, "isolated", failing, panicking, healthy)
	l.SetErrorHandler(rec.handler())

	assert.NotPanics(t, func() { l.Info("still delivered") })
	assert.Equal(t, []string{"still delivered\n"}, healthy.Lines())

	require.Equal(t, 2, rec.count())
	assert.Equal(t, []string{"isolated", "isolated"}, rec.names)
	assert.ErrorContains(t, rec.errors[0], "disk on fire")
	assert.ErrorContains(t, rec.errors[1], "sink panic: boom")
}

func TestLoggerFormatterPanic(t *testing.T) {
	s := newMemorySink()
	rec := &errorRecorder{}
	l := createTestLogger(t, "fmtpanic", s)
	l.SetErrorHandler(rec.handler())
	l.SetFormatter(panickingFormatter{})

	assert.NotPanics(t, func() { l.Info("x") })
	assert.Empty(t, s.Lines())
	require.Equal(t, 1, rec.count())
	assert.ErrorContains(t, rec.errors[0], "formatter panic")
}

func TestLoggerSetPattern(t *testing.T) {
	s := newMemorySink()
	l := NewLogger("pat", s)
	l.SetFormatter(NewFormatter(nil))

	l.SetPattern("%n|%L|%v")
	l.Warn("a")
	l.SetPattern("%l %v")
	l.Warn("b")

	assert.Equal(t, []string{"pat|W|a\n", "warn b\n"}, s.Lines())
}

func TestLoggerSetFormatterNil(t *testing.T) {
	s := newMemorySink()
	l := createTestLogger(t, "nilfmt", s)
	l.SetFormatter(nil)
	l.Info("x")

	require.Len(t, s.Lines(), 1)
	assert.Contains(t, s.Lines()[0], "[nilfmt] [info] x")
}

func TestLoggerSetErrorHandlerNil(t *testing.T) {
	l := NewLogger("h")
	rec := &errorRecorder{}
	l.SetErrorHandler(rec.handler())
	l.SetErrorHandler(nil)
	assert.NotNil(t, l.ErrorHandler())
}

func TestLoggerClose(t *testing.T) {
	a, b := newMemorySink(), newMemorySink()
	b.failWith = errors.New("close failed")
	l := createTestLogger(t, "close", a, b)

	err := l.Close()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "close failed")
	assert.True(t, a.closed)
	assert.True(t, b.closed)
	assert.Equal(t, 1, a.Flushes())
}

func TestLoggerConcurrent(t *testing.T) {
	s := newMemorySink()
	l := createTestLogger(t, "concurrent", s)

	const goroutines, perGoroutine = 8, 250
	var wg sync.WaitGroup
	for g := 0; g < goroutines; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for i := 0; i < perGoroutine; i++ {
				l.Infof("g%d-%d", g, i)
				if i%50 == 0 {
					l.SetPattern("%v")
					l.SetLevel(LevelTrace)
				}
			}
		}(g)
	}
	wg.Wait()

	lines := s.Lines()
	assert.Len(t, lines, goroutines*perGoroutine)
	seen := make(map[string]bool, len(lines))
	for _, line := range lines {
		assert.False(t, seen[line], "duplicate %q", line)
		seen[line] = true
	}
}
