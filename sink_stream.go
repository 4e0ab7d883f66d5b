package fanlog

import (
	"io"
	"os"
)

// StreamSink writes formatted records to an io.Writer
type StreamSink struct {
	sinkBase
	w      io.Writer
	closed bool
}

// NewStreamSink creates a sink over w
func NewStreamSink(w io.Writer, mode LockMode) *StreamSink {
	if w == nil {
		w = io.Discard
	}
	return &StreamSink{sinkBase: newSinkBase(mode), w: w}
}

// NewStdoutSink creates a sink writing to standard output
func NewStdoutSink(mode LockMode) *StreamSink {
	return NewStreamSink(os.Stdout, mode)
}

// NewStderrSink creates a sink writing to standard error
func NewStderrSink(mode LockMode) *StreamSink {
	return NewStreamSink(os.Stderr, mode)
}

// Log writes the record's formatted bytes
func (s *StreamSink) Log(rec *Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !rec.Level.passes(s.Level()) {
		return nil
	}

	if s.closed {
		return ErrSinkClosed
	}
	if _, err := s.w.Write(rec.Formatted); err != nil {
		return fmtErrorf("stream write failed: %w", err)
	}
	return nil
}

// Flush forwards to the writer's Flush or Sync when it has one.
// Sync errors on terminals and pipes are ignored.
func (s *StreamSink) Flush() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch w := s.w.(type) {
	case interface{ Flush() error }:
		if err := w.Flush(); err != nil {
			return fmtErrorf("stream flush failed: %w", err)
		}
	case *os.File:
		_ = w.Sync()
	}
	return nil
}

// Close flushes the stream and stops further writes; the writer itself stays open
func (s *StreamSink) Close() error {
	err := s.Flush()
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
	return err
}
