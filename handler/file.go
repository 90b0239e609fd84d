package handler

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/philipp01105/rotlog/core"
	"github.com/philipp01105/rotlog/formatter"
)

// FileHandler writes log entries to a file and rolls it over on time
// boundaries, keeping at most BackupCount archives next to it.
//
// Every Handle call checks the rollover time, rotates if it is due and
// writes the record while holding the handler's mutex, so concurrent
// writers never interleave with a rotation.
type FileHandler struct {
	path            string
	cfg             Config
	policy          rotationPolicy
	formatter       formatter.Formatter
	bufferFormatter formatter.BufferFormatter
	encoder         *textEncoder
	level           core.Level
	now             func() time.Time
	stats           *Stats

	mu         sync.Mutex
	file       *os.File
	rolloverAt time.Time
	closed     bool
}

// NewFileHandler creates the parent directory of cfg.FilePath and returns
// a handler for it. Directory failures are reported as
// *core.DirectoryCreationError; any other failure as
// *core.HandlerCreationError.
func NewFileHandler(cfg Config) (*FileHandler, error) {
	applyFileDefaults(&cfg)
	if cfg.AtTime != nil {
		at := *cfg.AtTime
		cfg.AtTime = &at
	}
	if cfg.FilePath == "" {
		return nil, &core.HandlerCreationError{Err: ErrNoFilePath}
	}

	path, err := filepath.Abs(cfg.FilePath)
	if err != nil {
		return nil, &core.HandlerCreationError{Path: cfg.FilePath, Err: err}
	}
	cfg.FilePath = path

	if err := ensureDir(filepath.Dir(path)); err != nil {
		return nil, err
	}

	h, err := newFileHandler(cfg)
	if err != nil {
		return nil, &core.HandlerCreationError{Path: path, Err: err}
	}
	return h, nil
}

// ensureDir creates dir and any missing parents. An existing directory is
// not an error.
func ensureDir(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return &core.DirectoryCreationError{Dir: dir, Err: err}
	}
	return nil
}

func newFileHandler(cfg Config) (*FileHandler, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	policy, err := newRotationPolicy(cfg)
	if err != nil {
		return nil, err
	}
	f, err := formatter.NewTextFormatter(formatter.Config{
		MessageTemplate:   cfg.MessageTemplate,
		TimestampTemplate: cfg.TimestampTemplate,
	})
	if err != nil {
		return nil, err
	}
	enc, err := newTextEncoder(cfg.Encoding, cfg.Errors)
	if err != nil {
		return nil, err
	}

	h := &FileHandler{
		path:      cfg.FilePath,
		cfg:       cfg,
		policy:    policy,
		formatter: f,
		encoder:   enc,
		level:     cfg.Level,
		now:       cfg.Clock,
		stats:     NewStats(),
	}
	h.bufferFormatter, _ = h.formatter.(formatter.BufferFormatter)

	// An existing file continues its period from its last modification.
	start := h.now()
	if info, err := os.Stat(h.path); err == nil {
		start = info.ModTime()
	}
	h.rolloverAt = policy.next(start)

	if !cfg.Delay {
		if err := h.open(); err != nil {
			return nil, err
		}
	}
	return h, nil
}

// Handle writes the entry, rotating the file first if its period is over.
// Entries below the handler's level are counted as filtered and dropped.
func (h *FileHandler) Handle(entry *core.Entry) error {
	if entry.Level < h.level {
		h.stats.IncrementFiltered()
		return nil
	}

	buf := formatter.GetBuffer()
	defer formatter.PutBuffer(buf)

	if h.bufferFormatter != nil {
		h.bufferFormatter.FormatEntry(entry, buf)
	} else {
		data, err := h.formatter.Format(entry)
		if err != nil {
			h.stats.IncrementErrors()
			return err
		}
		buf.Write(data)
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return ErrClosed
	}

	var rotateErr error
	if now := h.now(); !now.Before(h.rolloverAt) {
		if rotateErr = h.rollover(now); rotateErr != nil {
			h.stats.IncrementErrors()
		}
	}

	if err := h.write(buf.Bytes()); err != nil {
		h.stats.IncrementErrors()
		return errors.Join(rotateErr, err)
	}
	h.stats.IncrementProcessed()
	return rotateErr
}

// write encodes and appends one record. Callers must hold h.mu.
func (h *FileHandler) write(p []byte) error {
	data, err := h.encoder.encode(p)
	if err != nil {
		return err
	}
	if h.file == nil {
		if err := h.open(); err != nil {
			return err
		}
	}
	_, err = h.file.Write(data)
	return err
}

func (h *FileHandler) open() error {
	file, err := os.OpenFile(h.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return err
	}
	h.file = file
	return nil
}

// rollover closes the live file, archives it under the name of the period
// that just ended and drops the oldest archives beyond BackupCount. The
// next rollover time is advanced even if archiving fails, so a broken
// rename is reported once per period rather than on every write.
// Callers must hold h.mu.
func (h *FileHandler) rollover(now time.Time) error {
	var errs []error
	if h.file != nil {
		if err := h.file.Close(); err != nil {
			errs = append(errs, err)
		}
		h.file = nil
	}

	// Special files such as /dev/null are written to but never renamed.
	if info, err := os.Stat(h.path); err == nil && info.Mode().IsRegular() {
		archive := h.policy.archiveName(h.path, h.rolloverAt)
		if err := os.Remove(archive); err != nil && !errors.Is(err, fs.ErrNotExist) {
			errs = append(errs, err)
		}
		if err := os.Rename(h.path, archive); err != nil {
			errs = append(errs, fmt.Errorf("archive log file: %w", err))
		} else {
			h.stats.IncrementRotations()
		}
	}

	if err := h.removeExpiredArchives(); err != nil {
		errs = append(errs, err)
	}

	h.rolloverAt = h.policy.next(now)

	if !h.cfg.Delay {
		if err := h.open(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// removeExpiredArchives deletes the oldest archives so that at most
// BackupCount remain. Archive names sort chronologically.
func (h *FileHandler) removeExpiredArchives() error {
	if h.cfg.BackupCount == 0 {
		return nil
	}
	archives, err := h.Archives()
	if err != nil {
		return err
	}
	if len(archives) <= h.cfg.BackupCount {
		return nil
	}

	var errs []error
	for _, name := range archives[:len(archives)-h.cfg.BackupCount] {
		if err := os.Remove(name); err != nil && !errors.Is(err, fs.ErrNotExist) {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Archives returns the paths of the rotated files belonging to this
// handler, oldest first.
func (h *FileHandler) Archives() ([]string, error) {
	dir, base := filepath.Split(h.path)
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var archives []string
	for _, e := range entries {
		if e.IsDir() || !h.policy.isArchive(base, e.Name()) {
			continue
		}
		archives = append(archives, filepath.Join(dir, e.Name()))
	}
	sort.Strings(archives)
	return archives, nil
}

// Path returns the absolute path of the live log file
func (h *FileHandler) Path() string {
	return h.path
}

// Config returns the configuration the handler was built with, with
// defaults applied and FilePath made absolute.
func (h *FileHandler) Config() Config {
	cfg := h.cfg
	if cfg.AtTime != nil {
		at := *cfg.AtTime
		cfg.AtTime = &at
	}
	return cfg
}

// Level returns the handler's minimum severity
func (h *FileHandler) Level() core.Level {
	return h.level
}

// RolloverAt returns the time of the next rollover
func (h *FileHandler) RolloverAt() time.Time {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.rolloverAt
}

// Stats returns a snapshot of the current statistics
func (h *FileHandler) Stats() Snapshot {
	return h.stats.GetSnapshot()
}

// Close closes the live file. Further calls to Handle return ErrClosed.
func (h *FileHandler) Close() error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return nil
	}
	h.closed = true

	if h.file == nil {
		return nil
	}
	err := h.file.Close()
	h.file = nil
	return err
}
