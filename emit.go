package fanlog

// emitter provides the per-level logging methods on top of a single log function
type emitter struct {
	logFn func(level Level, template string, args []any)
}

// Log logs args at level
func (e emitter) Log(level Level, args ...any) {
	e.logFn(level, "", args)
}

// Logf logs a printf-style message at level
func (e emitter) Logf(level Level, template string, args ...any) {
	e.logFn(level, template, args)
}

// Trace logs a message at trace level
func (e emitter) Trace(args ...any) {
	e.logFn(LevelTrace, "", args)
}

// Debug logs a message at debug level
func (e emitter) Debug(args ...any) {
	e.logFn(LevelDebug, "", args)
}

// Info logs a message at info level
func (e emitter) Info(args ...any) {
	e.logFn(LevelInfo, "", args)
}

// Warn logs a message at warning level
func (e emitter) Warn(args ...any) {
	e.logFn(LevelWarn, "", args)
}

// Error logs a message at error level
func (e emitter) Error(args ...any) {
	e.logFn(LevelError, "", args)
}

// Critical logs a message at critical level
func (e emitter) Critical(args ...any) {
	e.logFn(LevelCritical, "", args)
}

func (e emitter) Tracef(template string, args ...any) {
	e.logFn(LevelTrace, template, args)
}

func (e emitter) Debugf(template string, args ...any) {
	e.logFn(LevelDebug, template, args)
}

func (e emitter) Infof(template string, args ...any) {
	e.logFn(LevelInfo, template, args)
}

func (e emitter) Warnf(template string, args ...any) {
	e.logFn(LevelWarn, template, args)
}

func (e emitter) Errorf(template string, args ...any) {
	e.logFn(LevelError, template, args)
}

func (e emitter) Criticalf(template string, args ...any) {
	e.logFn(LevelCritical, template, args)
}
