package logger

import (
	"sync"

	"github.com/philipp01105/rotlog/core"
)

var (
	defaultManager *Manager
	defaultMu      sync.RWMutex
)

// Default returns the process-wide Manager, creating it on first use
func Default() *Manager {
	defaultMu.RLock()
	m := defaultManager
	defaultMu.RUnlock()
	if m != nil {
		return m
	}

	defaultMu.Lock()
	defer defaultMu.Unlock()
	if defaultManager == nil {
		defaultManager = NewManager()
	}
	return defaultManager
}

// SetDefault replaces the process-wide Manager. The previous one is left
// open.
func SetDefault(m *Manager) {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	defaultManager = m
}

// ResetDefault resets the process-wide Manager and discards it, so the
// next Default call starts with empty registries.
func ResetDefault() error {
	defaultMu.Lock()
	m := defaultManager
	defaultManager = nil
	defaultMu.Unlock()

	if m == nil {
		return nil
	}
	return m.Reset()
}

// GetLogger returns a logger from the process-wide Manager.
// See Manager.GetLogger.
func GetLogger(name string, level core.Level, opts ...Option) (*Logger, error) {
	return Default().GetLogger(name, level, opts...)
}
