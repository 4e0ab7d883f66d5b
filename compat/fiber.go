package compat

import (
	"fmt"
	"os"
	"strings"

	"github.com/lixenwraith/fanlog"
)

// FiberAdapter provides the method set of Fiber's log.AllLogger (CommonLogger plus io.Writer)
// over any fanlog logger or composite. Fiber itself is not imported.
type FiberAdapter struct {
	logger       fanlog.Interface
	fatalHandler func(msg string) // Customizable fatal behavior
	panicHandler func(msg string) // Customizable panic behavior
}

// NewFiberAdapter creates a new Fiber-compatible logger adapter
func NewFiberAdapter(logger fanlog.Interface, opts ...FiberOption) *FiberAdapter {
	adapter := &FiberAdapter{
		logger: logger,
		fatalHandler: func(msg string) {
			os.Exit(1)
		},
		panicHandler: func(msg string) {
			panic(msg)
		},
	}

	for _, opt := range opts {
		opt(adapter)
	}

	return adapter
}

// FiberOption allows customizing adapter behavior
type FiberOption func(*FiberAdapter)

// WithFiberFatalHandler sets a custom fatal handler
func WithFiberFatalHandler(handler func(string)) FiberOption {
	return func(a *FiberAdapter) {
		a.fatalHandler = handler
	}
}

// WithFiberPanicHandler sets a custom panic handler
func WithFiberPanicHandler(handler func(string)) FiberOption {
	return func(a *FiberAdapter) {
		a.panicHandler = handler
	}
}

// emit logs msg with the fiber source tag, then any extra pairs
func (a *FiberAdapter) emit(level fanlog.Level, msg string, keysAndValues ...any) {
	fields := make([]any, 0, len(keysAndValues)+4)
	fields = append(fields, "msg", msg, "source", "fiber")
	fields = append(fields, keysAndValues...)
	a.logger.Log(level, fields...)
}

// terminate flushes so the record survives, then hands off to handler
func (a *FiberAdapter) terminate(handler func(string), msg string) {
	_ = a.logger.Flush()
	if handler != nil {
		handler(msg)
	}
}

// --- Logger methods ---

func (a *FiberAdapter) Trace(v ...any) { a.emit(fanlog.LevelTrace, fmt.Sprint(v...)) }
func (a *FiberAdapter) Debug(v ...any) { a.emit(fanlog.LevelDebug, fmt.Sprint(v...)) }
func (a *FiberAdapter) Info(v ...any)  { a.emit(fanlog.LevelInfo, fmt.Sprint(v...)) }
func (a *FiberAdapter) Warn(v ...any)  { a.emit(fanlog.LevelWarn, fmt.Sprint(v...)) }
func (a *FiberAdapter) Error(v ...any) { a.emit(fanlog.LevelError, fmt.Sprint(v...)) }

// Fatal logs at critical level and triggers the fatal handler
func (a *FiberAdapter) Fatal(v ...any) {
	msg := fmt.Sprint(v...)
	a.emit(fanlog.LevelCritical, msg, "fatal", true)
	a.terminate(a.fatalHandler, msg)
}

// Panic logs at critical level and triggers the panic handler
func (a *FiberAdapter) Panic(v ...any) {
	msg := fmt.Sprint(v...)
	a.emit(fanlog.LevelCritical, msg, "panic", true)
	a.terminate(a.panicHandler, msg)
}

// --- FormatLogger methods ---

func (a *FiberAdapter) Tracef(format string, v ...any) {
	a.emit(fanlog.LevelTrace, fmt.Sprintf(format, v...))
}

func (a *FiberAdapter) Debugf(format string, v ...any) {
	a.emit(fanlog.LevelDebug, fmt.Sprintf(format, v...))
}

func (a *FiberAdapter) Infof(format string, v ...any) {
	a.emit(fanlog.LevelInfo, fmt.Sprintf(format, v...))
}

func (a *FiberAdapter) Warnf(format string, v ...any) {
	a.emit(fanlog.LevelWarn, fmt.Sprintf(format, v...))
}

func (a *FiberAdapter) Errorf(format string, v ...any) {
	a.emit(fanlog.LevelError, fmt.Sprintf(format, v...))
}

func (a *FiberAdapter) Fatalf(format string, v ...any) {
	msg := fmt.Sprintf(format, v...)
	a.emit(fanlog.LevelCritical, msg, "fatal", true)
	a.terminate(a.fatalHandler, msg)
}

func (a *FiberAdapter) Panicf(format string, v ...any) {
	msg := fmt.Sprintf(format, v...)
	a.emit(fanlog.LevelCritical, msg, "panic", true)
	a.terminate(a.panicHandler, msg)
}

// --- WithLogger methods, structured key-value pairs ---

func (a *FiberAdapter) Tracew(msg string, keysAndValues ...any) {
	a.emit(fanlog.LevelTrace, msg, keysAndValues...)
}

func (a *FiberAdapter) Debugw(msg string, keysAndValues ...any) {
	a.emit(fanlog.LevelDebug, msg, keysAndValues...)
}

func (a *FiberAdapter) Infow(msg string, keysAndValues ...any) {
	a.emit(fanlog.LevelInfo, msg, keysAndValues...)
}

func (a *FiberAdapter) Warnw(msg string, keysAndValues ...any) {
	a.emit(fanlog.LevelWarn, msg, keysAndValues...)
}

func (a *FiberAdapter) Errorw(msg string, keysAndValues ...any) {
	a.emit(fanlog.LevelError, msg, keysAndValues...)
}

func (a *FiberAdapter) Fatalw(msg string, keysAndValues ...any) {
	a.emit(fanlog.LevelCritical, msg, append([]any{"fatal", true}, keysAndValues...)...)
	a.terminate(a.fatalHandler, msg)
}

func (a *FiberAdapter) Panicw(msg string, keysAndValues ...any) {
	a.emit(fanlog.LevelCritical, msg, append([]any{"panic", true}, keysAndValues...)...)
	a.terminate(a.panicHandler, msg)
}

// Write lets Fiber middleware that takes an io.Writer log through the adapter
func (a *FiberAdapter) Write(p []byte) (n int, err error) {
	a.emit(fanlog.LevelInfo, strings.TrimSuffix(string(p), "\n"))
	return len(p), nil
}
