// FILE: lixenwraith/fanlog/level.go
package fanlog

import (
	"strconv"
	"strings"
)

// Level is the severity of a record and the threshold of loggers and sinks
type Level int8

// Severity levels, ordered by urgency
const (
	LevelTrace Level = iota
	LevelDebug
	LevelInfo
	LevelWarn
	LevelError
	LevelCritical
	LevelOff // Sentinel, never passes a threshold
)

var levelNames = [...]string{"trace", "debug", "info", "warn", "error", "critical", "off"}

var levelShortNames = [...]string{"T", "D", "I", "W", "E", "C", "O"}

// String returns the lowercase level name
func (l Level) String() string {
	if l < LevelTrace || l > LevelOff {
		return "level(" + strconv.Itoa(int(l)) + ")"
	}
	return levelNames[l]
}

// ShortName returns the single letter level name
func (l Level) ShortName() string {
	if l < LevelTrace || l > LevelOff {
		return "?"
	}
	return levelShortNames[l]
}

// passes reports whether a record at level l clears threshold.
// LevelOff on either side always fails.
func (l Level) passes(threshold Level) bool {
	return l != LevelOff && threshold != LevelOff && l >= threshold
}

// ParseLevel converts a level name or its numeric value to a Level
func ParseLevel(levelStr string) (Level, error) {
	s := strings.ToLower(strings.TrimSpace(levelStr))
	switch s {
	case "trace", "t":
		return LevelTrace, nil
	case "debug", "d":
		return LevelDebug, nil
	case "info", "i":
		return LevelInfo, nil
	case "warn", "warning", "w":
		return LevelWarn, nil
	case "error", "err", "e":
		return LevelError, nil
	case "critical", "fatal", "c":
		return LevelCritical, nil
	case "off", "none", "o":
		return LevelOff, nil
	}

	if n, err := strconv.Atoi(s); err == nil && n >= int(LevelTrace) && n <= int(LevelOff) {
		return Level(n), nil
	}

	return LevelOff, fmtErrorf("invalid level string: '%s' (use trace, debug, info, warn, error, critical, off)", levelStr)
}
