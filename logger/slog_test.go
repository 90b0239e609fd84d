package logger

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/philipp01105/rotlog/core"
)

func TestSlogHandler_Attrs(t *testing.T) {
	l, rec := newRecordingLogger(DebugLevel)
	log := l.Slog()

	log.Info("user login", "user", "alice", "id", 42, "ok", true)
	log.Info("no attrs")
	log.Warn("spaced", slog.String("path", "/tmp/my file"), slog.String("empty", ""))

	assert.Equal(t, []string{
		"user login user=alice id=42 ok=true",
		"no attrs",
		`spaced path="/tmp/my file" empty=""`,
	}, rec.Messages())
}

func TestSlogHandler_WithAttrsAndGroup(t *testing.T) {
	l, rec := newRecordingLogger(DebugLevel)
	log := l.Slog().With("service", "api").WithGroup("req").With("id", 7)

	log.Info("handled", "status", 200, slog.Group("timing", slog.Duration("total", 1500*time.Millisecond)))

	assert.Equal(t, []string{
		"handled service=api req.id=7 req.status=200 req.timing.total=1.5s",
	}, rec.Messages())
}

func TestSlogHandler_Levels(t *testing.T) {
	l, rec := newRecordingLogger(WarnLevel)
	h := NewSlogHandler(l)
	ctx := context.Background()

	assert.False(t, h.Enabled(ctx, slog.LevelInfo))
	assert.True(t, h.Enabled(ctx, slog.LevelWarn))

	log := slog.New(h)
	log.Info("dropped")
	log.Warn("warn")
	log.Error("error")
	log.Log(ctx, slog.LevelError+4, "critical")

	entries := rec.Entries()
	require.Len(t, entries, 3)
	assert.Equal(t, core.WarnLevel, entries[0].Level)
	assert.Equal(t, core.ErrorLevel, entries[1].Level)
	assert.Equal(t, core.CriticalLevel, entries[2].Level)
}

func TestSlogHandler_Caller(t *testing.T) {
	l, rec := newRecordingLogger(DebugLevel)

	l.Slog().Info("where")

	entries := rec.Entries()
	require.Len(t, entries, 1)
	assert.True(t, entries[0].Caller.Defined)
	assert.Equal(t, "slog_test.go", entries[0].Caller.ShortFile)
	assert.Equal(t, "TestSlogHandler_Caller", entries[0].Caller.ShortFunction())
}

func TestSlogHandler_PercentIsLiteral(t *testing.T) {
	l, rec := newRecordingLogger(DebugLevel)

	l.Slog().Info("100% done", "rate", "5%")

	assert.Equal(t, []string{"100% done rate=5%"}, rec.Messages())
}
