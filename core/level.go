package core

import (
	"strconv"
	"strings"
)

// Level is a numeric severity. Records whose level is below a threshold
// are dropped. The built-in levels are spaced by ten so that callers can
// define intermediate levels.
type Level int

const (
	// DebugLevel for detailed debugging information
	DebugLevel Level = 10
	// InfoLevel for general informational messages
	InfoLevel Level = 20
	// WarnLevel for warning messages
	WarnLevel Level = 30
	// ErrorLevel for error messages
	ErrorLevel Level = 40
	// CriticalLevel for failures the application may not survive
	CriticalLevel Level = 50
)

// String returns the name of the level
func (l Level) String() string {
	switch l {
	case DebugLevel:
		return "DEBUG"
	case InfoLevel:
		return "INFO"
	case WarnLevel:
		return "WARNING"
	case ErrorLevel:
		return "ERROR"
	case CriticalLevel:
		return "CRITICAL"
	default:
		return "Level " + strconv.Itoa(int(l))
	}
}

// ParseLevel converts a level name or number to a Level.
// Unknown names yield InfoLevel and false.
func ParseLevel(s string) (Level, bool) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "DEBUG":
		return DebugLevel, true
	case "INFO":
		return InfoLevel, true
	case "WARN", "WARNING":
		return WarnLevel, true
	case "ERROR":
		return ErrorLevel, true
	case "CRITICAL", "FATAL":
		return CriticalLevel, true
	}
	if n, err := strconv.Atoi(strings.TrimSpace(s)); err == nil {
		return Level(n), true
	}
	return InfoLevel, false
}
