package handler

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/philipp01105/rotlog/core"
	"github.com/philipp01105/rotlog/formatter"
)

// Defaults applied by DefaultConfig
const (
	DefaultInterval    = 1
	DefaultBackupCount = 99
	DefaultEncoding    = "utf-8"
	DefaultFileName    = "Unknown.log"
	DefaultLogDir      = "Logs"
)

// ErrNoFilePath is returned when a Config has no FilePath
var ErrNoFilePath = errors.New("file path is required")

// Config describes a rotating log file: where it lives, when it rolls
// over, how many archives are kept and how records are rendered.
//
// A FileHandler copies its Config at construction; later changes to the
// caller's value have no effect.
type Config struct {
	// FilePath is the path of the live log file. Archives are created
	// next to it as FilePath + "." + timestamp.
	FilePath string
	// When selects the rotation unit (default: Midnight)
	When RotationUnit
	// Interval is the number of units between rollovers. It must be
	// positive and is ignored for Midnight and weekly rotation.
	Interval int
	// BackupCount caps the number of archives kept (0 = keep all)
	BackupCount int
	// Encoding names the file's character encoding (default: utf-8).
	// An empty string means the platform default, which is UTF-8.
	Encoding string
	// Errors selects how characters the encoding cannot represent are
	// handled: "strict" (default), "replace" or "xmlcharrefreplace".
	Errors string
	// Delay postpones opening the file until the first record is written
	Delay bool
	// UTC computes rollover boundaries and archive names in UTC. Record
	// timestamps are rendered in the entry's own (local) time either way.
	UTC bool
	// AtTime is the rollover time of day for Midnight and weekly rotation
	AtTime *TimeOfDay
	// Level is the handler's minimum severity (default: DebugLevel)
	Level core.Level
	// MessageTemplate is the record layout (default: formatter.DefaultMessageTemplate)
	MessageTemplate string
	// TimestampTemplate is the strftime layout of %(asctime)s
	// (default: formatter.DefaultTimestampTemplate)
	TimestampTemplate string
	// Clock returns the current time for rollover decisions (default: time.Now)
	Clock func() time.Time
}

// DefaultConfig returns the configuration used when the caller overrides
// nothing: $HOME/Logs/Unknown.log, rotated at midnight local time, 99
// archives, UTF-8, DebugLevel and the default templates.
func DefaultConfig() Config {
	return Config{
		FilePath:          defaultFilePath(),
		When:              Midnight,
		Interval:          DefaultInterval,
		BackupCount:       DefaultBackupCount,
		Encoding:          DefaultEncoding,
		Level:             core.DebugLevel,
		MessageTemplate:   formatter.DefaultMessageTemplate,
		TimestampTemplate: formatter.DefaultTimestampTemplate,
	}
}

func defaultFilePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = os.TempDir()
	}
	return filepath.Join(home, DefaultLogDir, DefaultFileName)
}

// Validate checks the rotation settings without touching the filesystem
func (c Config) Validate() error {
	if c.FilePath == "" {
		return ErrNoFilePath
	}
	if c.BackupCount < 0 {
		return fmt.Errorf("backup count must not be negative, got %d", c.BackupCount)
	}
	_, err := newRotationPolicy(c)
	return err
}

// applyFileDefaults fills in zero-value fields that have no meaningful
// zero: the clock and the templates.
func applyFileDefaults(cfg *Config) {
	if cfg.Clock == nil {
		cfg.Clock = time.Now
	}
	if cfg.MessageTemplate == "" {
		cfg.MessageTemplate = formatter.DefaultMessageTemplate
	}
	if cfg.TimestampTemplate == "" {
		cfg.TimestampTemplate = formatter.DefaultTimestampTemplate
	}
}
