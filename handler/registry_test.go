package handler

import (
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/philipp01105/rotlog/core"
)

func TestRegistry_SamePathSharesHandler(t *testing.T) {
	r := NewRegistry()
	defer r.Close()

	path := filepath.Join(t.TempDir(), "app.log")
	first, err := r.GetOrCreate(Config{FilePath: path, BackupCount: 3})
	require.NoError(t, err)

	// A later, different config for the same file is ignored.
	second, err := r.GetOrCreate(Config{FilePath: path, When: Hour, Interval: 6, BackupCount: 10})
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.Equal(t, 3, second.Config().BackupCount)
	assert.Equal(t, Midnight, second.Config().When)
	assert.Equal(t, 1, r.Len())
}

func TestRegistry_RelativeAndAbsolutePathMatch(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	r := NewRegistry()
	defer r.Close()

	rel, err := r.GetOrCreate(Config{FilePath: filepath.Join("logs", "app.log")})
	require.NoError(t, err)

	abs, err := r.GetOrCreate(Config{FilePath: filepath.Join(dir, "logs", ".", "app.log")})
	require.NoError(t, err)

	assert.Same(t, rel, abs)
	assert.True(t, filepath.IsAbs(rel.Path()))

	found, ok := r.Lookup("logs/app.log")
	assert.True(t, ok)
	assert.Same(t, rel, found)
}

func TestRegistry_DistinctPaths(t *testing.T) {
	r := NewRegistry()
	defer r.Close()

	dir := t.TempDir()
	b, err := r.GetOrCreate(Config{FilePath: filepath.Join(dir, "b.log")})
	require.NoError(t, err)
	a, err := r.GetOrCreate(Config{FilePath: filepath.Join(dir, "a.log")})
	require.NoError(t, err)

	assert.NotSame(t, a, b)
	assert.Equal(t, 2, r.Len())
	assert.Equal(t, []*FileHandler{a, b}, r.Handlers())

	_, ok := r.Lookup(filepath.Join(dir, "c.log"))
	assert.False(t, ok)
	_, ok = r.Lookup("")
	assert.False(t, ok)
}

func TestRegistry_ConcurrentGetOrCreate(t *testing.T) {
	r := NewRegistry()
	defer r.Close()

	cfg := Config{FilePath: filepath.Join(t.TempDir(), "shared", "app.log")}

	const goroutines = 32
	results := make([]*FileHandler, goroutines)
	var wg sync.WaitGroup
	start := make(chan struct{})
	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			<-start
			h, err := r.GetOrCreate(cfg)
			assert.NoError(t, err)
			results[i] = h
		}(i)
	}
	close(start)
	wg.Wait()

	require.NotNil(t, results[0])
	for _, h := range results[1:] {
		assert.Same(t, results[0], h)
	}
	assert.Equal(t, 1, r.Len())
}

func TestRegistry_FailureIsNotCached(t *testing.T) {
	r := NewRegistry()
	defer r.Close()

	blocker := filepath.Join(t.TempDir(), "logs")
	require.NoError(t, os.WriteFile(blocker, nil, 0644))
	cfg := Config{FilePath: filepath.Join(blocker, "app.log")}

	_, err := r.GetOrCreate(cfg)
	var dirErr *core.DirectoryCreationError
	require.True(t, errors.As(err, &dirErr), "got %T: %v", err, err)
	assert.Zero(t, r.Len())

	require.NoError(t, os.Remove(blocker))
	h, err := r.GetOrCreate(cfg)
	require.NoError(t, err)
	assert.NotNil(t, h)
	assert.Equal(t, 1, r.Len())
}

func TestRegistry_InvalidConfig(t *testing.T) {
	r := NewRegistry()
	defer r.Close()

	_, err := r.GetOrCreate(Config{})
	var handlerErr *core.HandlerCreationError
	require.True(t, errors.As(err, &handlerErr))
	assert.ErrorIs(t, err, ErrNoFilePath)

	_, err = r.GetOrCreate(Config{FilePath: filepath.Join(t.TempDir(), "app.log"), When: Minute})
	require.True(t, errors.As(err, &handlerErr))
	assert.ErrorIs(t, err, errInvalidInterval)
	assert.Zero(t, r.Len())
}

func TestRegistry_Reset(t *testing.T) {
	r := NewRegistry()
	defer r.Close()

	cfg := Config{FilePath: filepath.Join(t.TempDir(), "app.log")}
	old, err := r.GetOrCreate(cfg)
	require.NoError(t, err)

	require.NoError(t, r.Reset())
	assert.Zero(t, r.Len())
	assert.ErrorIs(t, old.Handle(newTestEntry(nil, core.InfoLevel, "late")), ErrClosed)

	fresh, err := r.GetOrCreate(cfg)
	require.NoError(t, err)
	assert.NotSame(t, old, fresh)
}

func TestRegistry_Close(t *testing.T) {
	r := NewRegistry()
	h, err := r.GetOrCreate(Config{FilePath: filepath.Join(t.TempDir(), "app.log")})
	require.NoError(t, err)

	require.NoError(t, r.Close())
	assert.Equal(t, 1, r.Len())
	assert.ErrorIs(t, h.Handle(newTestEntry(nil, core.InfoLevel, "late")), ErrClosed)
}

// blockingBuild makes r's next constructions wait until release is closed.
// started receives the path of each construction as it begins.
func blockingBuild(r *Registry) (started chan string, release chan struct{}) {
	started = make(chan string, 4)
	release = make(chan struct{})
	r.build = func(cfg Config) (*FileHandler, error) {
		started <- cfg.FilePath
		<-release
		return NewFileHandler(cfg)
	}
	return started, release
}

func TestRegistry_ConstructionDoesNotBlockOtherPaths(t *testing.T) {
	r := NewRegistry()
	defer r.Close()

	dir := t.TempDir()
	cached, err := r.GetOrCreate(Config{FilePath: filepath.Join(dir, "cached.log")})
	require.NoError(t, err)

	started, release := blockingBuild(r)
	slowPath := filepath.Join(dir, "slow.log")
	slow := make(chan *FileHandler, 1)
	go func() {
		h, err := r.GetOrCreate(Config{FilePath: slowPath})
		assert.NoError(t, err)
		slow <- h
	}()
	assert.Equal(t, slowPath, <-started)

	// The cached path and the read-only accessors answer while slow.log
	// is still under construction.
	done := make(chan struct{})
	go func() {
		defer close(done)
		h, err := r.GetOrCreate(Config{FilePath: filepath.Join(dir, "cached.log")})
		assert.NoError(t, err)
		assert.Same(t, cached, h)
		assert.Equal(t, 1, r.Len())
		_, ok := r.Lookup(slowPath)
		assert.False(t, ok)
	}()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("lookup of a cached path blocked behind a construction")
	}

	close(release)
	h := <-slow
	require.NotNil(t, h)
	found, ok := r.Lookup(slowPath)
	assert.True(t, ok)
	assert.Same(t, h, found)
	assert.Equal(t, 2, r.Len())
}

func TestRegistry_WaitersShareConstruction(t *testing.T) {
	r := NewRegistry()
	defer r.Close()

	started, release := blockingBuild(r)
	cfg := Config{FilePath: filepath.Join(t.TempDir(), "app.log")}

	const goroutines = 8
	results := make(chan *FileHandler, goroutines)
	for i := 0; i < goroutines; i++ {
		go func() {
			h, err := r.GetOrCreate(cfg)
			assert.NoError(t, err)
			results <- h
		}()
	}
	<-started
	close(release)

	first := <-results
	require.NotNil(t, first)
	for i := 1; i < goroutines; i++ {
		assert.Same(t, first, <-results)
	}
	// Only one construction ran.
	assert.Empty(t, started)
}
