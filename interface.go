// FILE: interface.go
package fanlog

// Interface is the logging surface shared by *Logger and *CompositeLogger
type Interface interface {
	Name() string
	Level() Level
	ShouldLog(level Level) bool

	Log(level Level, args ...any)
	Logf(level Level, template string, args ...any)

	Trace(args ...any)
	Debug(args ...any)
	Info(args ...any)
	Warn(args ...any)
	Error(args ...any)
	Critical(args ...any)

	Tracef(template string, args ...any)
	Debugf(template string, args ...any)
	Infof(template string, args ...any)
	Warnf(template string, args ...any)
	Errorf(template string, args ...any)
	Criticalf(template string, args ...any)

	SetPattern(pattern string)
	SetFormatter(f Formatter)
	SetErrorHandler(h ErrorHandler)
	ErrorHandler() ErrorHandler
	Flush() error
}

var (
	_ Interface = (*Logger)(nil)
	_ Interface = (*CompositeLogger)(nil)
)
