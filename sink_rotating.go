// FILE: lixenwraith/fanlog/sink_rotating.go
package fanlog

import (
	"os"
	"strconv"
	"sync/atomic"
)

// recordMetadataSize is the fixed per-record addition to the size estimate (the timestamp)
const recordMetadataSize = 8

// RotatingFileSinkOptions configures a RotatingFileSink
type RotatingFileSinkOptions struct {
	BaseFilename string   // Path without extension, e.g. "logs/app"
	Extension    string   // Including the dot, e.g. ".log"
	MaxSize      int64    // Estimated bytes before rotating, must be positive
	MaxFiles     int      // Backups kept, 0 truncates the active file on rotation
	Truncate     bool     // Truncate the active file at construction, otherwise its size seeds the estimate
	Compress     bool     // Write each file as a zstd stream
	Mode         LockMode // In-process lock policy
}

// RotatingStats is a snapshot of a rotating sink's counters
type RotatingStats struct {
	Rotations      uint64
	RecordsWritten uint64
	CurrentSize    int64 // Running estimate for the active file
}

// RotatingFileSink keeps a bounded ring of numbered backups:
// base.ext is active, base.1.ext the most recent backup, base.N.ext the oldest.
type RotatingFileSink struct {
	sinkBase
	opts        RotatingFileSinkOptions
	file        fileHelper
	currentSize int64
	broken      error

	rotations atomic.Uint64
	records   atomic.Uint64
}

// CalcFilename returns the path of the file at index: base+ext for 0, base.index+ext otherwise
func CalcFilename(base string, index int, ext string) string {
	if index == 0 {
		return base + ext
	}
	return base + "." + strconv.Itoa(index) + ext
}

// NewRotatingFileSink opens the active file and returns the sink
func NewRotatingFileSink(opts RotatingFileSinkOptions) (*RotatingFileSink, error) {
	if opts.BaseFilename == "" {
		return nil, fmtErrorf("rotating file sink: base filename cannot be empty")
	}
	if opts.MaxSize <= 0 {
		return nil, fmtErrorf("rotating file sink '%s': max size must be positive: %d", opts.BaseFilename, opts.MaxSize)
	}
	if opts.MaxFiles < 0 {
		return nil, fmtErrorf("rotating file sink '%s': max files cannot be negative: %d", opts.BaseFilename, opts.MaxFiles)
	}

	s := &RotatingFileSink{
		sinkBase: newSinkBase(opts.Mode),
		opts:     opts,
		file:     fileHelper{compress: opts.Compress},
	}
	path := CalcFilename(opts.BaseFilename, 0, opts.Extension)
	if err := s.file.open(path, opts.Truncate); err != nil {
		return nil, fmtErrorf("rotating file sink '%s': %w", path, err)
	}
	if !opts.Truncate {
		info, err := os.Stat(path)
		if err != nil {
			_ = s.file.close()
			return nil, fmtErrorf("rotating file sink '%s': %w", path, err)
		}
		s.currentSize = info.Size()
	}
	return s, nil
}

// Path returns the active file path
func (s *RotatingFileSink) Path() string {
	return CalcFilename(s.opts.BaseFilename, 0, s.opts.Extension)
}

// estimateSize is the record's contribution to the running size.
// It approximates the stored size and is not the exact byte count written.
func estimateSize(rec *Record) int64 {
	return int64(len(rec.Formatted) + len(rec.LoggerName) + recordMetadataSize)
}

// Log gates on the threshold, accounts for the record, rotates first if the estimate crosses MaxSize, then writes
func (s *RotatingFileSink) Log(rec *Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !rec.Level.passes(s.Level()) {
		return nil
	}

	if s.broken != nil {
		return s.broken
	}
	if !s.file.isOpen() {
		return ErrSinkClosed
	}

	var closeErr error
	contribution := estimateSize(rec)
	if s.currentSize+contribution > s.opts.MaxSize {
		// A close failure is reported but does not stop the rotation
		closeErr = s.file.close()
		if err := s.rotate(); err != nil {
			s.broken = fmtErrorf("%w: %w", ErrSinkBroken, combineErrors(closeErr, err))
			return s.broken
		}
		s.currentSize = contribution
	} else {
		s.currentSize += contribution
	}

	err := s.file.write(rec.Formatted)
	if err == nil {
		s.records.Add(1)
	}
	if closeErr != nil {
		err = combineErrors(fmtErrorf("rotating file sink: closing before rotation: %w", closeErr), err)
	}
	return err
}

// rotate shifts backups from the oldest slot down, then reopens a truncated active file.
// The active file must already be closed.
//
//	base.ext   -> base.1.ext
//	base.1.ext -> base.2.ext
//	base.N.ext -> deleted
func (s *RotatingFileSink) rotate() error {
	base, ext := s.opts.BaseFilename, s.opts.Extension
	for i := s.opts.MaxFiles; i > 0; i-- {
		src := CalcFilename(base, i-1, ext)
		target := CalcFilename(base, i, ext)

		if fileExists(target) {
			if err := os.Remove(target); err != nil {
				return fmtErrorf("rotating file sink: failed removing '%s': %w", target, err)
			}
		}
		if fileExists(src) {
			if err := os.Rename(src, target); err != nil {
				return fmtErrorf("rotating file sink: failed renaming '%s' to '%s': %w", src, target, err)
			}
		}
	}

	if err := s.file.reopen(true); err != nil {
		return err
	}
	s.rotations.Add(1)
	return nil
}

// Flush flushes the encoder, if any, and syncs the active file
func (s *RotatingFileSink) Flush() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.file.flush()
}

// Close finalizes and closes the active file
func (s *RotatingFileSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.file.close()
}

// Stats returns the sink's counters
func (s *RotatingFileSink) Stats() RotatingStats {
	s.mu.Lock()
	current := s.currentSize
	s.mu.Unlock()
	return RotatingStats{
		Rotations:      s.rotations.Load(),
		RecordsWritten: s.records.Load(),
		CurrentSize:    current,
	}
}
