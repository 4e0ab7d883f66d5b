// FILE: lixenwraith/fanlog/logger.go
package fanlog

import (
	"sync/atomic"
)

// Logger formats each accepted record once and hands it to its sinks.
// The name and sink list are fixed at construction; level, flush level,
// formatter and error handler can be changed concurrently with logging.
type Logger struct {
	emitter
	name       string
	sinks      []Sink
	level      atomic.Int32
	flushLevel atomic.Int32
	formatter  atomic.Pointer[formatterBox]
	errHandler atomic.Pointer[ErrorHandler]
}

// formatterBox lets differently typed formatters share one atomic pointer
type formatterBox struct {
	f Formatter
}

// NewLogger creates a logger at LevelTrace with the default pattern formatter.
// Nil sinks are skipped.
func NewLogger(name string, sinks ...Sink) *Logger {
	l := &Logger{name: name}
	l.emitter = emitter{logFn: l.log}

	l.sinks = make([]Sink, 0, len(sinks))
	for _, s := range sinks {
		if s != nil {
			l.sinks = append(l.sinks, s)
		}
	}

	l.level.Store(int32(LevelTrace))
	l.flushLevel.Store(int32(LevelOff))
	l.formatter.Store(&formatterBox{f: defaultFormatter()})
	h := newDefaultErrorHandler()
	l.errHandler.Store(&h)
	return l
}

// Name returns the logger name
func (l *Logger) Name() string {
	return l.name
}

// Sinks returns a copy of the sink list
func (l *Logger) Sinks() []Sink {
	out := make([]Sink, len(l.sinks))
	copy(out, l.sinks)
	return out
}

// SetLevel replaces the logger threshold
func (l *Logger) SetLevel(level Level) {
	l.level.Store(int32(level))
}

// Level returns the logger threshold
func (l *Logger) Level() Level {
	return Level(l.level.Load())
}

// ShouldLog reports whether a record at level passes the logger threshold
func (l *Logger) ShouldLog(level Level) bool {
	return level.passes(l.Level())
}

// FlushOn flushes all sinks after any record at or above level. LevelOff disables it.
func (l *Logger) FlushOn(level Level) {
	l.flushLevel.Store(int32(level))
}

// FlushLevel returns the automatic flush threshold
func (l *Logger) FlushLevel() Level {
	return Level(l.flushLevel.Load())
}

func (l *Logger) shouldFlushOn(level Level) bool {
	return level.passes(l.FlushLevel())
}

// SetFormatter replaces the formatter; nil restores the default
func (l *Logger) SetFormatter(f Formatter) {
	if f == nil {
		f = defaultFormatter()
	}
	l.formatter.Store(&formatterBox{f: f})
}

// Formatter returns the current formatter
func (l *Logger) Formatter() Formatter {
	return l.formatter.Load().f
}

// SetPattern switches to a pattern formatter.
// Output settings of a current PatternFormatter carry over.
func (l *Logger) SetPattern(pattern string) {
	if pf, ok := l.Formatter().(*PatternFormatter); ok {
		l.SetFormatter(pf.WithPattern(pattern))
		return
	}
	l.SetFormatter(NewPatternFormatter(pattern))
}

// SetErrorHandler installs the handler for sink failures; nil restores the default
func (l *Logger) SetErrorHandler(h ErrorHandler) {
	if h == nil {
		h = newDefaultErrorHandler()
	}
	l.errHandler.Store(&h)
}

// ErrorHandler returns the current error handler
func (l *Logger) ErrorHandler() ErrorHandler {
	return *l.errHandler.Load()
}

func (l *Logger) handleError(err error) {
	l.ErrorHandler()(l.name, err)
}

// log is the entry point of every logging method
func (l *Logger) log(level Level, template string, args []any) {
	if !l.ShouldLog(level) {
		return
	}
	rec := newRecord(l.name, level, template, args)
	l.sinkIt(&rec)
	if l.shouldFlushOn(level) {
		l.flushQuietly()
	}
}

// sinkIt formats rec once, on the first sink that accepts it, and delivers it.
// Failures go to the error handler and never stop delivery to later sinks.
func (l *Logger) sinkIt(rec *Record) {
	formatted := false
	for _, s := range l.sinks {
		if !s.ShouldLog(rec.Level) {
			continue
		}
		if !formatted {
			if !l.format(rec) {
				return
			}
			formatted = true
		}
		l.deliver(s, rec)
	}
}

func (l *Logger) format(rec *Record) (ok bool) {
	defer func() {
		if r := recover(); r != nil {
			l.handleError(fmtErrorf("formatter panic: %v", r))
			ok = false
		}
	}()
	rec.Formatted = l.Formatter().Format(rec)
	return true
}

func (l *Logger) deliver(s Sink, rec *Record) {
	defer func() {
		if r := recover(); r != nil {
			l.handleError(fmtErrorf("sink panic: %v", r))
		}
	}()
	if err := s.Log(rec); err != nil {
		l.handleError(err)
	}
}

// Flush flushes every sink and returns their combined errors
func (l *Logger) Flush() error {
	var err error
	for _, s := range l.sinks {
		err = combineErrors(err, l.flushSink(s))
	}
	return err
}

// flushQuietly is the automatic flush, failures go to the error handler
func (l *Logger) flushQuietly() {
	for _, s := range l.sinks {
		if err := l.flushSink(s); err != nil {
			l.handleError(err)
		}
	}
}

func (l *Logger) flushSink(s Sink) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmtErrorf("sink flush panic: %v", r)
		}
	}()
	return s.Flush()
}

// Close flushes and closes every sink. The logger must not be used afterwards.
func (l *Logger) Close() error {
	var finalErr error
	for _, s := range l.sinks {
		if err := l.flushSink(s); err != nil {
			finalErr = combineErrors(finalErr, err)
		}
		if err := s.Close(); err != nil {
			finalErr = combineErrors(finalErr, err)
		}
	}
	return finalErr
}
