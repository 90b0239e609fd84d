package logger

import (
	"github.com/philipp01105/rotlog/core"
	"github.com/philipp01105/rotlog/handler"
)

// Manager ties a handler registry to a logger registry. GetLogger is the
// single entry point: it builds (or reuses) the rotating file handler for
// the requested path and returns the named logger with that handler
// attached.
//
// Applications usually create one Manager at startup and pass it to the
// code that needs loggers. Default returns a process-wide Manager for code
// that cannot be given one.
type Manager struct {
	handlers *handler.Registry
	loggers  *Registry
}

// NewManager creates a Manager with empty registries
func NewManager() *Manager {
	return &Manager{
		handlers: handler.NewRegistry(),
		loggers:  NewRegistry(),
	}
}

// GetLogger returns the logger called name, writing to the file described
// by the handler defaults plus opts.
//
// The first call for a file path decides that file's rotation and format;
// later calls for the same path reuse the handler and ignore their options.
// The first call that attaches a handler to a logger sets its level.
//
// Errors are *core.DirectoryCreationError, *core.HandlerCreationError or
// *core.LoggerCreationError. Nothing is registered when an error is
// returned.
func (m *Manager) GetLogger(name string, level core.Level, opts ...Option) (*Logger, error) {
	if name == "" {
		name = DefaultName
	}

	cfg := handler.DefaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	h, err := m.handlers.GetOrCreate(cfg)
	if err != nil {
		return nil, err
	}
	return m.loggers.GetOrCreate(Config{Name: name, Level: level, Handler: h})
}

// Handlers returns the registry of file handlers
func (m *Manager) Handlers() *handler.Registry {
	return m.handlers
}

// Loggers returns the registry of loggers
func (m *Manager) Loggers() *Registry {
	return m.loggers
}

// Reset forgets every logger and closes and forgets every handler, so
// the next GetLogger call configures everything from scratch. Loggers
// obtained before Reset keep their closed handlers and write nothing.
func (m *Manager) Reset() error {
	m.loggers.Reset()
	return m.handlers.Reset()
}

// Close closes every handler at shutdown
func (m *Manager) Close() error {
	return m.handlers.Close()
}
