package compat

import (
	"fmt"

	"github.com/lixenwraith/fanlog"
)

// Builder creates gnet, fasthttp and Fiber adapters sharing one logger.
// The logger is either provided with WithLogger or built from a *fanlog.Config.
type Builder struct {
	logger fanlog.Interface
	logCfg *fanlog.Config
	err    error
}

// NewBuilder creates a new adapter builder
func NewBuilder() *Builder {
	return &Builder{}
}

// WithLogger specifies an existing logger or composite to use for the adapters.
// If this is set WithConfig is ignored.
func (b *Builder) WithLogger(l fanlog.Interface) *Builder {
	if l == nil {
		b.err = fmt.Errorf("fanlog/compat: provided logger cannot be nil")
		return b
	}
	b.logger = l
	return b
}

// WithConfig provides a configuration for a new logger instance.
// If neither WithLogger nor WithConfig is used, a default logger writing to stdout is created.
func (b *Builder) WithConfig(cfg *fanlog.Config) *Builder {
	b.logCfg = cfg
	return b
}

// getLogger resolves the logger to be used, creating one if necessary
func (b *Builder) getLogger() (fanlog.Interface, error) {
	if b.err != nil {
		return nil, b.err
	}

	if b.logger != nil {
		return b.logger, nil
	}

	cfg := b.logCfg
	if cfg == nil {
		cfg = fanlog.DefaultConfig()
		cfg.EnableStdout = true
	}

	l, err := fanlog.NewLoggerFromConfig(cfg)
	if err != nil {
		return nil, err
	}

	// Cache the newly created logger for subsequent builds with this builder
	b.logger = l
	return l, nil
}

// BuildGnet creates a gnet adapter
func (b *Builder) BuildGnet(opts ...GnetOption) (*GnetAdapter, error) {
	l, err := b.getLogger()
	if err != nil {
		return nil, err
	}
	return NewGnetAdapter(l, opts...), nil
}

// BuildFastHTTP creates a fasthttp adapter
func (b *Builder) BuildFastHTTP(opts ...FastHTTPOption) (*FastHTTPAdapter, error) {
	l, err := b.getLogger()
	if err != nil {
		return nil, err
	}
	return NewFastHTTPAdapter(l, opts...), nil
}

// BuildFiber creates a Fiber-compatible adapter
func (b *Builder) BuildFiber(opts ...FiberOption) (*FiberAdapter, error) {
	l, err := b.getLogger()
	if err != nil {
		return nil, err
	}
	return NewFiberAdapter(l, opts...), nil
}

// GetLogger returns the underlying logger, creating it if needed
func (b *Builder) GetLogger() (fanlog.Interface, error) {
	return b.getLogger()
}

// --- Example Usage ---
//
//	console := fanlog.NewLogger("console", fanlog.NewStdoutSink(fanlog.MultiThreaded))
//	audit, _ := fanlog.NewFileSink("logs/audit.log", fanlog.FileSinkOptions{})
//	both, _ := fanlog.NewCompositeLogger("net", console, fanlog.NewLogger("audit", audit))
//
//	builder := compat.NewBuilder().WithLogger(both)
//	gnetLogger, _ := builder.BuildGnet(compat.WithStructuredFields(true))
//	fasthttpLogger, _ := builder.BuildFastHTTP()
//	fiberLogger, _ := builder.BuildFiber()
//
//	go gnet.Run(events, "tcp://:9000", gnet.WithLogger(gnetLogger))
//	server := &fasthttp.Server{Handler: handler, Logger: fasthttpLogger}
//	log.SetLogger(fiberLogger) // github.com/gofiber/fiber/v2/log
