package fanlog

import (
	"os"
	"path/filepath"

	"gopkg.in/natefinch/lumberjack.v2"
)

// LumberjackSinkOptions configures a LumberjackSink
type LumberjackSinkOptions struct {
	Filename   string
	MaxSizeMB  int  // Exact on-disk size before rotating
	MaxBackups int  // Timestamped backups retained, 0 keeps all
	MaxAgeDays int  // Backup age limit, 0 disables
	Compress   bool // gzip rotated backups
	Mode       LockMode
}

// LumberjackSink rotates by exact size into timestamped backups (name-<time>.ext)
// with age and count retention. Use RotatingFileSink for the numbered ring.
type LumberjackSink struct {
	sinkBase
	lj     *lumberjack.Logger
	closed bool
}

// NewLumberjackSink creates the sink; the directory is created eagerly so path errors surface here
func NewLumberjackSink(opts LumberjackSinkOptions) (*LumberjackSink, error) {
	if opts.Filename == "" {
		return nil, fmtErrorf("lumberjack sink: filename cannot be empty")
	}
	if opts.MaxSizeMB < 0 || opts.MaxBackups < 0 || opts.MaxAgeDays < 0 {
		return nil, fmtErrorf("lumberjack sink '%s': limits cannot be negative", opts.Filename)
	}
	if dir := filepath.Dir(opts.Filename); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmtErrorf("lumberjack sink '%s': failed to create log directory: %w", opts.Filename, err)
		}
	}

	return &LumberjackSink{
		sinkBase: newSinkBase(opts.Mode),
		lj: &lumberjack.Logger{
			Filename:   opts.Filename,
			MaxSize:    opts.MaxSizeMB,
			MaxBackups: opts.MaxBackups,
			MaxAge:     opts.MaxAgeDays,
			Compress:   opts.Compress,
			LocalTime:  true,
		},
	}, nil
}

// Log writes the record's formatted bytes
func (s *LumberjackSink) Log(rec *Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !rec.Level.passes(s.Level()) {
		return nil
	}

	if s.closed {
		return ErrSinkClosed
	}
	if _, err := s.lj.Write(rec.Formatted); err != nil {
		return fmtErrorf("lumberjack sink '%s': write failed: %w", s.lj.Filename, err)
	}
	return nil
}

// Rotate forces a rotation regardless of size
func (s *LumberjackSink) Rotate() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lj.Rotate()
}

// Flush is a no-op, lumberjack writes through to the file
func (s *LumberjackSink) Flush() error {
	return nil
}

// Close closes the current file
func (s *LumberjackSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true
	return s.lj.Close()
}
