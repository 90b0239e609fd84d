package logger

import (
	"context"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/philipp01105/rotlog/core"
	"github.com/philipp01105/rotlog/formatter"
)

// SlogHandler is an adapter that implements slog.Handler on top of a
// Logger, so code written against log/slog ends up in the same rotating
// files. Attributes are appended to the message as key=value pairs.
type SlogHandler struct {
	logger *Logger
	attrs  string
	group  string
}

// NewSlogHandler creates a new slog.Handler adapter writing to l
func NewSlogHandler(l *Logger) *SlogHandler {
	return &SlogHandler{logger: l}
}

// Slog returns a *slog.Logger writing to l
func (l *Logger) Slog() *slog.Logger {
	return slog.New(NewSlogHandler(l))
}

// Enabled reports whether the handler handles records at the given level.
func (s *SlogHandler) Enabled(_ context.Context, level slog.Level) bool {
	return s.logger.Enabled(slogLevelToCore(level))
}

// Handle renders the record's attributes into its message and passes it
// to the logger with the record's call site.
func (s *SlogHandler) Handle(_ context.Context, record slog.Record) error {
	level := slogLevelToCore(record.Level)
	if !s.logger.Enabled(level) {
		return nil
	}

	msg := record.Message
	if s.attrs != "" || record.NumAttrs() > 0 {
		buf := formatter.GetBuffer()
		defer formatter.PutBuffer(buf)

		buf.WriteString(record.Message)
		buf.WriteString(s.attrs)
		record.Attrs(func(a slog.Attr) bool {
			appendAttr(buf, s.group, a)
			return true
		})
		msg = buf.String()
	}

	s.logger.LogWithCaller(level, core.CallerFromPC(record.PC), msg)
	return nil
}

// WithAttrs returns a new SlogHandler with additional attributes.
func (s *SlogHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	if len(attrs) == 0 {
		return s
	}
	var b strings.Builder
	b.WriteString(s.attrs)
	for _, a := range attrs {
		appendAttr(&b, s.group, a)
	}
	return &SlogHandler{
		logger: s.logger,
		attrs:  b.String(),
		group:  s.group,
	}
}

// WithGroup returns a new SlogHandler with the given group name.
func (s *SlogHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return s
	}
	newGroup := name
	if s.group != "" {
		newGroup = s.group + "." + name
	}
	return &SlogHandler{
		logger: s.logger,
		attrs:  s.attrs,
		group:  newGroup,
	}
}

// slogLevelToCore converts a slog.Level to a core.Level.
// Levels at least four above LevelError map to CriticalLevel.
func slogLevelToCore(level slog.Level) core.Level {
	switch {
	case level >= slog.LevelError+4:
		return core.CriticalLevel
	case level >= slog.LevelError:
		return core.ErrorLevel
	case level >= slog.LevelWarn:
		return core.WarnLevel
	case level >= slog.LevelInfo:
		return core.InfoLevel
	default:
		return core.DebugLevel
	}
}

type stringWriter interface {
	WriteString(s string) (int, error)
	WriteByte(c byte) error
}

// appendAttr writes " key=value", flattening groups into dotted keys
func appendAttr(w stringWriter, group string, a slog.Attr) {
	a.Value = a.Value.Resolve()
	if a.Equal(slog.Attr{}) {
		return
	}

	key := a.Key
	if group != "" && key != "" {
		key = group + "." + key
	} else if key == "" {
		key = group
	}

	if a.Value.Kind() == slog.KindGroup {
		for _, ga := range a.Value.Group() {
			appendAttr(w, key, ga)
		}
		return
	}

	w.WriteByte(' ')
	w.WriteString(key)
	w.WriteByte('=')
	w.WriteString(attrValue(a.Value))
}

func attrValue(v slog.Value) string {
	switch v.Kind() {
	case slog.KindString:
		s := v.String()
		if s == "" || strings.ContainsAny(s, " =\"\t\n") {
			return strconv.Quote(s)
		}
		return s
	case slog.KindTime:
		return v.Time().Format(time.RFC3339Nano)
	default:
		return v.String()
	}
}
