package handler

import (
	"errors"
	"path/filepath"
	"sort"
	"sync"

	"github.com/philipp01105/rotlog/core"
)

// Registry hands out one FileHandler per log file path. The first Config
// seen for a path decides how that file is rotated and rendered; later
// requests for the same path get the existing handler whatever their
// Config says.
//
// A Registry is safe for concurrent use. Construction of a handler runs
// at most once per path even when many goroutines ask for it together.
// The directory and file I/O of a construction happens outside the
// registry lock, so lookups of other paths never wait for it.
type Registry struct {
	mu       sync.RWMutex
	handlers map[string]*registryEntry
	// build constructs handlers; tests replace it to observe construction
	build func(Config) (*FileHandler, error)
}

// registryEntry is a handler that is built or being built. ready is
// closed once h and err are set.
type registryEntry struct {
	ready chan struct{}
	h     *FileHandler
	err   error
}

// done reports whether construction has finished without blocking
func (e *registryEntry) done() bool {
	select {
	case <-e.ready:
		return true
	default:
		return false
	}
}

// NewRegistry creates an empty registry
func NewRegistry() *Registry {
	return &Registry{
		handlers: make(map[string]*registryEntry),
		build:    NewFileHandler,
	}
}

// registryKey is the identity of a handler: its cleaned absolute path
func registryKey(path string) (string, error) {
	if path == "" {
		return "", ErrNoFilePath
	}
	return filepath.Abs(path)
}

// GetOrCreate returns the handler for cfg.FilePath, creating it (and its
// directory) on first use. Concurrent callers for a path that is being
// built wait for that construction and share its result. On failure
// nothing is cached and the error is a *core.DirectoryCreationError or
// *core.HandlerCreationError.
func (r *Registry) GetOrCreate(cfg Config) (*FileHandler, error) {
	key, err := registryKey(cfg.FilePath)
	if err != nil {
		return nil, &core.HandlerCreationError{Path: cfg.FilePath, Err: err}
	}

	r.mu.RLock()
	e, ok := r.handlers[key]
	r.mu.RUnlock()

	if !ok {
		r.mu.Lock()
		// Another goroutine may have registered it while we waited.
		e, ok = r.handlers[key]
		if !ok {
			e = &registryEntry{ready: make(chan struct{})}
			r.handlers[key] = e
		}
		r.mu.Unlock()

		if !ok {
			cfg.FilePath = key
			r.construct(key, e, cfg)
		}
	}

	<-e.ready
	return e.h, e.err
}

// construct builds the handler for e and publishes the result. A failed
// entry is removed so the next GetOrCreate tries again.
func (r *Registry) construct(key string, e *registryEntry, cfg Config) {
	e.h, e.err = r.build(cfg)
	if e.err != nil {
		r.mu.Lock()
		if r.handlers[key] == e {
			delete(r.handlers, key)
		}
		r.mu.Unlock()
	}
	close(e.ready)
}

// Lookup returns the handler registered for path, if any. A handler that
// is still being built is not reported.
func (r *Registry) Lookup(path string) (*FileHandler, bool) {
	key, err := registryKey(path)
	if err != nil {
		return nil, false
	}
	r.mu.RLock()
	e, ok := r.handlers[key]
	r.mu.RUnlock()
	if !ok || !e.done() || e.err != nil {
		return nil, false
	}
	return e.h, true
}

// Len returns the number of registered handlers
func (r *Registry) Len() int {
	return len(r.Handlers())
}

// Handlers returns the registered handlers ordered by path
func (r *Registry) Handlers() []*FileHandler {
	r.mu.RLock()
	out := make([]*FileHandler, 0, len(r.handlers))
	for _, e := range r.handlers {
		if e.done() && e.err == nil {
			out = append(out, e.h)
		}
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		return out[i].Path() < out[j].Path()
	})
	return out
}

// Reset closes every handler and empties the registry, so the next
// GetOrCreate for a path builds a fresh handler from its Config. Handlers
// under construction are waited for and closed as well.
func (r *Registry) Reset() error {
	r.mu.Lock()
	entries := r.handlers
	r.handlers = make(map[string]*registryEntry)
	r.mu.Unlock()

	var errs []error
	for _, e := range entries {
		<-e.ready
		if e.err != nil {
			continue
		}
		if err := e.h.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Close closes every handler. It is meant for process shutdown; handlers
// stay registered and reject further records with ErrClosed.
func (r *Registry) Close() error {
	var errs []error
	for _, h := range r.Handlers() {
		if err := h.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
