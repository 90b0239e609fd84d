package zapadapter

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/philipp01105/rotlog/core"
	"github.com/philipp01105/rotlog/formatter"
	"github.com/philipp01105/rotlog/logger"
)

// Core is a zapcore.Core that writes through a rotlog Logger. Fields are
// rendered as key=value pairs after the message.
type Core struct {
	logger *logger.Logger
	// context holds the pre-rendered fields added with With
	context string
	// namespace prefixes keys after a zap.Namespace field
	namespace string
}

var _ zapcore.Core = (*Core)(nil)

// NewCore returns a zapcore.Core writing to l
func NewCore(l *logger.Logger) *Core {
	return &Core{logger: l}
}

// New returns a *zap.Logger writing to l with caller reporting enabled
func New(l *logger.Logger, opts ...zap.Option) *zap.Logger {
	return zap.New(NewCore(l), append([]zap.Option{zap.AddCaller()}, opts...)...)
}

// Enabled reports whether the rotlog Logger accepts records at lvl
func (c *Core) Enabled(lvl zapcore.Level) bool {
	return c.logger.Enabled(levelOf(lvl))
}

// With returns a Core that appends fields to every record
func (c *Core) With(fields []zapcore.Field) zapcore.Core {
	if len(fields) == 0 {
		return c
	}
	var b strings.Builder
	b.WriteString(c.context)
	ns := appendFields(&b, c.namespace, fields)
	return &Core{logger: c.logger, context: b.String(), namespace: ns}
}

// Check adds the core to ce if the entry's level is enabled
func (c *Core) Check(ent zapcore.Entry, ce *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if c.Enabled(ent.Level) {
		return ce.AddCore(ent, c)
	}
	return ce
}

// Write renders the entry and passes it to the Logger with zap's caller
func (c *Core) Write(ent zapcore.Entry, fields []zapcore.Field) error {
	buf := formatter.GetBuffer()
	defer formatter.PutBuffer(buf)

	if ent.LoggerName != "" {
		buf.WriteString(ent.LoggerName)
		buf.WriteString(": ")
	}
	buf.WriteString(ent.Message)
	buf.WriteString(c.context)
	appendFields(buf, c.namespace, fields)

	var caller core.CallerInfo
	if ent.Caller.Defined {
		caller = core.CallerInfo{
			File:      ent.Caller.File,
			ShortFile: filepath.Base(ent.Caller.File),
			Line:      ent.Caller.Line,
			Function:  ent.Caller.Function,
			Defined:   true,
		}
	}

	c.logger.LogWithCaller(levelOf(ent.Level), caller, buf.String())
	return nil
}

// Sync is a no-op: file handlers write without buffering
func (c *Core) Sync() error {
	return nil
}

// levelOf maps zap levels onto rotlog levels. DPanic, Panic and Fatal
// become CriticalLevel; zap itself still panics or exits afterwards.
func levelOf(lvl zapcore.Level) core.Level {
	switch {
	case lvl >= zapcore.DPanicLevel:
		return core.CriticalLevel
	case lvl >= zapcore.ErrorLevel:
		return core.ErrorLevel
	case lvl >= zapcore.WarnLevel:
		return core.WarnLevel
	case lvl >= zapcore.InfoLevel:
		return core.InfoLevel
	default:
		return core.DebugLevel
	}
}

type stringWriter interface {
	WriteString(s string) (int, error)
	WriteByte(c byte) error
}

// appendFields writes " key=value" per field and returns the namespace in
// effect after the last field.
func appendFields(w stringWriter, ns string, fields []zapcore.Field) string {
	for _, f := range fields {
		if f.Type == zapcore.NamespaceType {
			ns = qualify(ns, f.Key)
			continue
		}
		if f.Type == zapcore.SkipType {
			continue
		}

		enc := zapcore.NewMapObjectEncoder()
		f.AddTo(enc)
		v, ok := enc.Fields[f.Key]
		if !ok {
			continue
		}
		w.WriteByte(' ')
		w.WriteString(qualify(ns, f.Key))
		w.WriteByte('=')
		w.WriteString(formatValue(v))
	}
	return ns
}

func qualify(ns, key string) string {
	if ns == "" {
		return key
	}
	return ns + "." + key
}

func formatValue(v any) string {
	switch val := v.(type) {
	case string:
		if val == "" || strings.ContainsAny(val, " =\"\t\n") {
			return strconv.Quote(val)
		}
		return val
	case time.Time:
		return val.Format(time.RFC3339Nano)
	case []byte:
		return strconv.Quote(string(val))
	default:
		return fmt.Sprint(val)
	}
}
