package handler

import (
	"errors"

	"github.com/philipp01105/rotlog/core"
)

// ErrClosed is returned by Handle after the handler has been closed
var ErrClosed = errors.New("handler is closed")

// Handler defines the interface for log handlers
type Handler interface {
	// Handle writes a log entry. Entries below Level are dropped without
	// I/O. The entry must not be retained after Handle returns.
	Handle(entry *core.Entry) error

	// Level returns the handler's minimum severity
	Level() core.Level

	// Close closes the handler and releases resources
	Close() error
}
