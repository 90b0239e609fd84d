package logger

import (
	"github.com/philipp01105/rotlog/core"
)

// Level Re-export type and constants for convenience
type Level = core.Level

const (
	DebugLevel    = core.DebugLevel
	InfoLevel     = core.InfoLevel
	WarnLevel     = core.WarnLevel
	ErrorLevel    = core.ErrorLevel
	CriticalLevel = core.CriticalLevel
)

// ParseLevel converts a level name or number to a Level, falling back to
// InfoLevel for anything it does not recognise.
func ParseLevel(s string) Level {
	if l, ok := core.ParseLevel(s); ok {
		return l
	}
	return InfoLevel
}
