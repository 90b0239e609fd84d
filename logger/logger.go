package logger

import (
	"fmt"
	"slices"
	"sync/atomic"

	"github.com/philipp01105/rotlog/core"
	"github.com/philipp01105/rotlog/handler"
)

// callerSkip is the number of frames between the user's call and the
// core.GetCaller call inside log.
const callerSkip = 2

// Logger is a named sink that drops records below its level and forwards
// the rest to its handlers. Loggers are created and handed out by a
// Registry; there is no parent logger and records never propagate
// anywhere else.
//
// A Logger is safe for concurrent use. The level and the handler list are
// read without locks on every call.
type Logger struct {
	name     string
	level    atomic.Int64
	handlers atomic.Pointer[[]handler.Handler]
}

func newLogger(name string, level core.Level) *Logger {
	l := &Logger{name: name}
	l.level.Store(int64(level))
	l.handlers.Store(&[]handler.Handler{})
	return l
}

// Name returns the logger's name
func (l *Logger) Name() string {
	return l.name
}

// Level returns the minimum severity the logger forwards
func (l *Logger) Level() core.Level {
	return core.Level(l.level.Load())
}

// SetLevel changes the minimum severity the logger forwards
func (l *Logger) SetLevel(level core.Level) {
	l.level.Store(int64(level))
}

// Enabled reports whether a record at level would be forwarded
func (l *Logger) Enabled(level core.Level) bool {
	return level >= l.Level()
}

// Handlers returns a copy of the attached handlers in attachment order
func (l *Logger) Handlers() []handler.Handler {
	return slices.Clone(*l.handlers.Load())
}

func (l *Logger) hasHandler(h handler.Handler) bool {
	return slices.Contains(*l.handlers.Load(), h)
}

// attach adds h unless it is already attached. Writers to the handler
// list are serialised by the owning Registry.
func (l *Logger) attach(h handler.Handler) bool {
	cur := *l.handlers.Load()
	if slices.Contains(cur, h) {
		return false
	}
	next := make([]handler.Handler, len(cur), len(cur)+1)
	copy(next, cur)
	next = append(next, h)
	l.handlers.Store(&next)
	return true
}

// Log logs a message at the given level. The message is used as a
// fmt format string when args are given.
func (l *Logger) Log(level core.Level, msg string, args ...any) {
	if !l.Enabled(level) {
		return
	}
	l.log(level, msg, args)
}

// LogWithCaller logs a message with an explicit call site instead of the
// one found on the stack. Adapters that sit between user code and the
// Logger use it to report their caller's location.
func (l *Logger) LogWithCaller(level core.Level, caller core.CallerInfo, msg string, args ...any) {
	if !l.Enabled(level) {
		return
	}
	l.dispatch(level, caller, msg, args)
}

// Debug logs a debug message
func (l *Logger) Debug(msg string, args ...any) {
	if !l.Enabled(core.DebugLevel) {
		return
	}
	l.log(core.DebugLevel, msg, args)
}

// Info logs an info message
func (l *Logger) Info(msg string, args ...any) {
	if !l.Enabled(core.InfoLevel) {
		return
	}
	l.log(core.InfoLevel, msg, args)
}

// Warn logs a warning message
func (l *Logger) Warn(msg string, args ...any) {
	if !l.Enabled(core.WarnLevel) {
		return
	}
	l.log(core.WarnLevel, msg, args)
}

// Error logs an error message
func (l *Logger) Error(msg string, args ...any) {
	if !l.Enabled(core.ErrorLevel) {
		return
	}
	l.log(core.ErrorLevel, msg, args)
}

// Critical logs a critical message. Unlike a fatal log it does not exit.
func (l *Logger) Critical(msg string, args ...any) {
	if !l.Enabled(core.CriticalLevel) {
		return
	}
	l.log(core.CriticalLevel, msg, args)
}

// log must be called directly by the exported method the user called
func (l *Logger) log(level core.Level, msg string, args []any) {
	l.dispatch(level, core.GetCaller(callerSkip), msg, args)
}

func (l *Logger) dispatch(level core.Level, caller core.CallerInfo, msg string, args []any) {
	handlers := *l.handlers.Load()
	if len(handlers) == 0 {
		return
	}

	if len(args) > 0 {
		msg = fmt.Sprintf(msg, args...)
	}

	entry := core.GetEntry()
	entry.Level = level
	entry.Logger = l.name
	entry.Message = msg
	entry.Caller = caller

	// Handler errors are counted in the handler's stats; a failed write
	// must not fail the caller.
	for _, h := range handlers {
		_ = h.Handle(entry)
	}

	core.PutEntry(entry)
}
