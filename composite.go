// FILE: lixenwraith/fanlog/composite.go
package fanlog

import (
	"sync/atomic"
)

// CompositeLogger fans each call out to child loggers in construction order.
// It accepts every level; each child applies its own threshold, formatter,
// sinks and flush policy. Children may be shared with other holders.
type CompositeLogger struct {
	emitter
	name       string
	loggers    []*Logger
	errHandler atomic.Pointer[ErrorHandler]
}

// NewCompositeLogger creates a composite over loggers. A nil child is an error.
func NewCompositeLogger(name string, loggers ...*Logger) (*CompositeLogger, error) {
	for i, child := range loggers {
		if child == nil {
			return nil, fmtErrorf("composite logger '%s': child %d is nil", name, i)
		}
	}

	c := &CompositeLogger{
		name:    name,
		loggers: append([]*Logger(nil), loggers...),
	}
	c.emitter = emitter{logFn: c.log}
	h := newDefaultErrorHandler()
	c.errHandler.Store(&h)
	return c, nil
}

// Name returns the composite's own name; records carry the child's name
func (c *CompositeLogger) Name() string {
	return c.name
}

// Level is always LevelTrace, filtering belongs to the children
func (c *CompositeLogger) Level() Level {
	return LevelTrace
}

// ShouldLog accepts every level except LevelOff
func (c *CompositeLogger) ShouldLog(level Level) bool {
	return level.passes(LevelTrace)
}

// Loggers returns a copy of the child list
func (c *CompositeLogger) Loggers() []*Logger {
	out := make([]*Logger, len(c.loggers))
	copy(out, c.loggers)
	return out
}

// At returns the child at index, panicking when out of range like a slice
func (c *CompositeLogger) At(index int) *Logger {
	return c.loggers[index]
}

// Len returns the number of children
func (c *CompositeLogger) Len() int {
	return len(c.loggers)
}

func (c *CompositeLogger) log(level Level, template string, args []any) {
	if !c.ShouldLog(level) {
		return
	}
	rec := newRecord(c.name, level, template, args)
	for _, child := range c.loggers {
		view := rec.view(child.name)
		c.deliver(child, &view)
	}
}

// deliver runs one child's gate, sinks and flush policy. A panic escaping the
// child is reported to the child's handler and the next child still runs.
func (c *CompositeLogger) deliver(child *Logger, view *Record) {
	defer func() {
		if r := recover(); r != nil {
			child.handleError(fmtErrorf("composite logger '%s': child panic: %v", c.name, r))
		}
	}()

	if child.ShouldLog(view.Level) {
		child.sinkIt(view)
	}
	if child.shouldFlushOn(view.Level) {
		child.flushQuietly()
	}
}

// SetPattern sets pattern on every child
func (c *CompositeLogger) SetPattern(pattern string) {
	for _, child := range c.loggers {
		child.SetPattern(pattern)
	}
}

// SetFormatter installs f on every child. Formatters are stateless, so one is shared.
func (c *CompositeLogger) SetFormatter(f Formatter) {
	for _, child := range c.loggers {
		child.SetFormatter(f)
	}
}

// SetErrorHandler installs h on the composite and every child
func (c *CompositeLogger) SetErrorHandler(h ErrorHandler) {
	if h == nil {
		h = newDefaultErrorHandler()
	}
	c.errHandler.Store(&h)
	for _, child := range c.loggers {
		child.SetErrorHandler(h)
	}
}

// ErrorHandler returns the handler last installed through the composite
func (c *CompositeLogger) ErrorHandler() ErrorHandler {
	return *c.errHandler.Load()
}

// Flush flushes every child in order and returns their combined errors
func (c *CompositeLogger) Flush() error {
	var err error
	for _, child := range c.loggers {
		err = combineErrors(err, child.Flush())
	}
	return err
}
