// FILE: lixenwraith/fanlog/sink.go
package fanlog

import (
	"sync"
	"sync/atomic"
)

// Sink is a leaf destination for formatted records.
// Log drops records below the sink threshold inside the same critical section as the write.
type Sink interface {
	ShouldLog(level Level) bool
	Log(rec *Record) error
	Flush() error
	SetLevel(level Level)
	Level() Level
	Close() error
}

// LockMode selects the mutual exclusion used inside a sink
type LockMode int

const (
	// MultiThreaded serializes writes, size accounting and rotation with a mutex
	MultiThreaded LockMode = iota
	// SingleThreaded uses no lock; the integrator guarantees a single writer
	SingleThreaded
)

// ParseLockMode converts "mt" / "st" to a LockMode
func ParseLockMode(s string) (LockMode, error) {
	switch s {
	case "mt", "":
		return MultiThreaded, nil
	case "st":
		return SingleThreaded, nil
	default:
		return MultiThreaded, fmtErrorf("invalid sink lock mode '%s' (use mt or st)", s)
	}
}

// noLock satisfies sync.Locker without locking
type noLock struct{}

func (noLock) Lock()   {}
func (noLock) Unlock() {}

func newLocker(mode LockMode) sync.Locker {
	if mode == SingleThreaded {
		return noLock{}
	}
	return &sync.Mutex{}
}

// sinkBase carries the threshold and lock shared by all concrete sinks
type sinkBase struct {
	level atomic.Int32
	mu    sync.Locker
}

func newSinkBase(mode LockMode) sinkBase {
	return sinkBase{mu: newLocker(mode)}
}

// ShouldLog reports whether a record at level passes the sink threshold
func (b *sinkBase) ShouldLog(level Level) bool {
	return level.passes(b.Level())
}

// SetLevel replaces the sink threshold
func (b *sinkBase) SetLevel(level Level) {
	b.level.Store(int32(level))
}

// Level returns the sink threshold
func (b *sinkBase) Level() Level {
	return Level(b.level.Load())
}
