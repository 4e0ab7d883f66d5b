// FILE: lixenwraith/fanlog/storage.go
package fanlog

import (
	"errors"
	"io"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/zstd"
)

// fileHelper owns one open destination file and, when compressing,
// the zstd encoder layered on it
type fileHelper struct {
	path     string
	compress bool
	file     *os.File
	enc      *zstd.Encoder
	w        io.Writer
}

// open creates parent directories and opens path for appending, truncating if requested
func (h *fileHelper) open(path string, truncate bool) error {
	if err := h.close(); err != nil {
		return err
	}

	h.path = path
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmtErrorf("failed to create log directory '%s': %w", dir, err)
		}
	}

	flags := os.O_APPEND | os.O_CREATE | os.O_WRONLY
	if truncate {
		flags |= os.O_TRUNC
	}
	file, err := os.OpenFile(path, flags, 0644)
	if err != nil {
		return fmtErrorf("failed to open/create log file '%s': %w", path, err)
	}

	h.file = file
	h.w = file
	if h.compress {
		enc, err := zstd.NewWriter(file, zstd.WithEncoderLevel(zstd.SpeedFastest))
		if err != nil {
			_ = file.Close()
			h.file = nil
			return fmtErrorf("failed to start zstd stream for '%s': %w", path, err)
		}
		h.enc = enc
		h.w = enc
	}
	return nil
}

// reopen opens the last used path again
func (h *fileHelper) reopen(truncate bool) error {
	if h.path == "" {
		return fmtErrorf("failed re-opening file, it was not opened before")
	}
	return h.open(h.path, truncate)
}

func (h *fileHelper) isOpen() bool {
	return h.file != nil
}

func (h *fileHelper) write(p []byte) error {
	if h.file == nil {
		return ErrSinkClosed
	}
	if _, err := h.w.Write(p); err != nil {
		return fmtErrorf("failed writing to '%s': %w", h.path, err)
	}
	return nil
}

// flush pushes encoder output to the file and syncs it
func (h *fileHelper) flush() error {
	if h.file == nil {
		return nil
	}
	if h.enc != nil {
		if err := h.enc.Flush(); err != nil {
			return fmtErrorf("failed flushing zstd stream '%s': %w", h.path, err)
		}
	}
	if err := h.file.Sync(); err != nil {
		return fmtErrorf("failed to sync log file '%s': %w", h.path, err)
	}
	return nil
}

// close finalizes the encoder frame and closes the file
func (h *fileHelper) close() error {
	if h.file == nil {
		return nil
	}
	var finalErr error
	if h.enc != nil {
		if err := h.enc.Close(); err != nil {
			finalErr = fmtErrorf("failed closing zstd stream '%s': %w", h.path, err)
		}
		h.enc = nil
	}
	if err := h.file.Close(); err != nil {
		finalErr = combineErrors(finalErr, fmtErrorf("failed to close log file '%s': %w", h.path, err))
	}
	h.file = nil
	h.w = nil
	return finalErr
}

// fileExists reports whether path names an existing entry
func fileExists(path string) bool {
	_, err := os.Stat(path)
	return !errors.Is(err, os.ErrNotExist)
}
