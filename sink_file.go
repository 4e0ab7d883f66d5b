package fanlog

import (
	"github.com/gofrs/flock"
)

// FileSinkOptions configures a FileSink
type FileSinkOptions struct {
	Truncate    bool     // Truncate an existing file on open
	ProcessLock bool     // Hold an flock on <path>.lock around each write
	Mode        LockMode // In-process lock policy
}

// FileSink appends formatted records to a single file
type FileSink struct {
	sinkBase
	file fileHelper
	lock *flock.Flock
}

// NewFileSink opens path and returns a sink writing to it
func NewFileSink(path string, opts FileSinkOptions) (*FileSink, error) {
	s := &FileSink{sinkBase: newSinkBase(opts.Mode)}
	if err := s.file.open(path, opts.Truncate); err != nil {
		return nil, fmtErrorf("file sink '%s': %w", path, err)
	}
	if opts.ProcessLock {
		s.lock = flock.New(path + ".lock")
	}
	return s, nil
}

// Path returns the file the sink writes to
func (s *FileSink) Path() string {
	return s.file.path
}

// Log writes the record's formatted bytes
func (s *FileSink) Log(rec *Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !rec.Level.passes(s.Level()) {
		return nil
	}

	if s.lock != nil {
		if err := s.lock.Lock(); err != nil {
			return fmtErrorf("failed to acquire lock for '%s': %w", s.file.path, err)
		}
		defer func() { _ = s.lock.Unlock() }()
	}
	return s.file.write(rec.Formatted)
}

// Flush syncs the file
func (s *FileSink) Flush() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.file.flush()
}

// Close syncs and closes the file
func (s *FileSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := s.file.flush()
	err = combineErrors(err, s.file.close())
	if s.lock != nil {
		err = combineErrors(err, s.lock.Close())
		s.lock = nil
	}
	return err
}
