package handler

import (
	"io"
	"os"
	"sync"

	"github.com/philipp01105/rotlog/core"
	"github.com/philipp01105/rotlog/formatter"
)

// WriterHandler writes log entries to an io.Writer such as os.Stderr.
// It never rotates and never closes the writer.
type WriterHandler struct {
	writer          io.Writer
	formatter       formatter.Formatter
	bufferFormatter formatter.BufferFormatter
	level           core.Level
	stats           *Stats
	mu              sync.Mutex
	closed          bool
}

// WriterConfig holds configuration for a WriterHandler
type WriterConfig struct {
	// Writer to write to (default: os.Stderr)
	Writer io.Writer
	// Formatter to use (default: TextFormatter with the default templates)
	Formatter formatter.Formatter
	// Level is the minimum severity written (default: every level)
	Level core.Level
}

// NewWriterHandler creates a new writer handler
func NewWriterHandler(cfg WriterConfig) *WriterHandler {
	if cfg.Writer == nil {
		cfg.Writer = os.Stderr
	}
	if cfg.Formatter == nil {
		cfg.Formatter = formatter.MustTextFormatter(formatter.Config{})
	}

	h := &WriterHandler{
		writer:    cfg.Writer,
		formatter: cfg.Formatter,
		level:     cfg.Level,
		stats:     NewStats(),
	}
	h.bufferFormatter, _ = cfg.Formatter.(formatter.BufferFormatter)
	return h
}

// Handle formats the entry and writes it in a single Write call
func (h *WriterHandler) Handle(entry *core.Entry) error {
	if entry.Level < h.level {
		h.stats.IncrementFiltered()
		return nil
	}

	if h.bufferFormatter != nil {
		buf := formatter.GetBuffer()
		defer formatter.PutBuffer(buf)
		h.bufferFormatter.FormatEntry(entry, buf)
		return h.write(buf.Bytes())
	}

	data, err := h.formatter.Format(entry)
	if err != nil {
		h.stats.IncrementErrors()
		return err
	}
	return h.write(data)
}

func (h *WriterHandler) write(p []byte) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return ErrClosed
	}
	if _, err := h.writer.Write(p); err != nil {
		h.stats.IncrementErrors()
		return err
	}
	h.stats.IncrementProcessed()
	return nil
}

// Level returns the handler's minimum severity
func (h *WriterHandler) Level() core.Level {
	return h.level
}

// Stats returns a snapshot of the current statistics
func (h *WriterHandler) Stats() Snapshot {
	return h.stats.GetSnapshot()
}

// Close marks the handler closed. The underlying writer is left open.
func (h *WriterHandler) Close() error {
	h.mu.Lock()
	h.closed = true
	h.mu.Unlock()
	return nil
}
