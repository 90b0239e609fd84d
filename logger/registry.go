package logger

import (
	"errors"
	"sort"
	"sync"

	"github.com/philipp01105/rotlog/core"
	"github.com/philipp01105/rotlog/handler"
)

// DefaultName is the logger name used when none is given
const DefaultName = "Unknown"

// ErrNoHandler is returned when a logger is requested without a handler
var ErrNoHandler = errors.New("handler is required")

// Config describes the logger a Registry should return
type Config struct {
	// Name identifies the logger (default: DefaultName)
	Name string
	// Level is applied when Handler is newly attached to the logger
	Level core.Level
	// Handler is attached to the logger unless it already is
	Handler handler.Handler
}

// Registry hands out one Logger per name.
//
// Asking for an existing name returns the same Logger. The requested
// handler is attached only if the logger does not have it yet, and the
// requested level is applied only together with such a new attachment.
// Repeated calls with an already attached handler leave the logger
// untouched, whatever level they ask for.
type Registry struct {
	mu      sync.Mutex
	loggers map[string]*Logger
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{loggers: make(map[string]*Logger)}
}

// GetOrCreate returns the logger named cfg.Name, creating it if needed,
// with cfg.Handler attached exactly once.
func (r *Registry) GetOrCreate(cfg Config) (*Logger, error) {
	if cfg.Name == "" {
		cfg.Name = DefaultName
	}
	if cfg.Handler == nil {
		return nil, &core.LoggerCreationError{Name: cfg.Name, Err: ErrNoHandler}
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	l, ok := r.loggers[cfg.Name]
	if !ok {
		l = newLogger(cfg.Name, cfg.Level)
		r.loggers[cfg.Name] = l
	}
	if !l.hasHandler(cfg.Handler) {
		l.SetLevel(cfg.Level)
		l.attach(cfg.Handler)
	}
	return l, nil
}

// Lookup returns the logger registered under name, if any
func (r *Registry) Lookup(name string) (*Logger, bool) {
	if name == "" {
		name = DefaultName
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	l, ok := r.loggers[name]
	return l, ok
}

// Names returns the registered logger names in sorted order
func (r *Registry) Names() []string {
	r.mu.Lock()
	names := make([]string, 0, len(r.loggers))
	for name := range r.loggers {
		names = append(names, name)
	}
	r.mu.Unlock()

	sort.Strings(names)
	return names
}

// Len returns the number of registered loggers
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.loggers)
}

// Reset forgets every logger. Handlers are owned by the handler registry
// and are not closed here.
func (r *Registry) Reset() {
	r.mu.Lock()
	r.loggers = make(map[string]*Logger)
	r.mu.Unlock()
}
