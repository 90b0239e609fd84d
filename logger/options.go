package logger

import (
	"time"

	"github.com/philipp01105/rotlog/core"
	"github.com/philipp01105/rotlog/handler"
)

// Option adjusts the handler configuration built by GetLogger.
// Options only matter for the first request of a file path; the handler
// for a path is built once and reused afterwards.
type Option func(*handler.Config)

// WithHandlerConfig replaces the whole handler configuration. Options
// given after it still apply on top.
func WithHandlerConfig(cfg handler.Config) Option {
	return func(c *handler.Config) {
		*c = cfg
	}
}

// WithFilePath sets the live log file (default: $HOME/Logs/Unknown.log)
func WithFilePath(path string) Option {
	return func(c *handler.Config) {
		c.FilePath = path
	}
}

// WithRotation rotates every interval units (default: at midnight)
func WithRotation(unit handler.RotationUnit, interval int) Option {
	return func(c *handler.Config) {
		c.When = unit
		c.Interval = interval
	}
}

// WithWeekday rotates once a week at the start of day, where 0 is Monday
// and 6 is Sunday. Days outside that range make GetLogger fail.
func WithWeekday(day int) Option {
	return func(c *handler.Config) {
		u, err := handler.WeekdayUnit(day)
		if err != nil {
			u = -1
		}
		c.When = u
	}
}

// WithAtTime sets the time of day for midnight and weekly rotation
func WithAtTime(at handler.TimeOfDay) Option {
	return func(c *handler.Config) {
		c.AtTime = &at
	}
}

// WithBackupCount sets how many archives are kept (0 keeps all)
func WithBackupCount(n int) Option {
	return func(c *handler.Config) {
		c.BackupCount = n
	}
}

// WithEncoding sets the file's character encoding (default: utf-8)
func WithEncoding(name string) Option {
	return func(c *handler.Config) {
		c.Encoding = name
	}
}

// WithEncodingErrors sets the policy for characters the encoding cannot
// represent: handler.ErrorsStrict, ErrorsReplace or ErrorsXMLCharRefReplace.
func WithEncodingErrors(policy string) Option {
	return func(c *handler.Config) {
		c.Errors = policy
	}
}

// WithDelay postpones creating the file until the first record
func WithDelay(delay bool) Option {
	return func(c *handler.Config) {
		c.Delay = delay
	}
}

// WithUTC computes rollover times and archive names in UTC
func WithUTC(utc bool) Option {
	return func(c *handler.Config) {
		c.UTC = utc
	}
}

// WithHandlerLevel sets the handler's own minimum severity (default: DebugLevel)
func WithHandlerLevel(level core.Level) Option {
	return func(c *handler.Config) {
		c.Level = level
	}
}

// WithMessageTemplate sets the record layout
func WithMessageTemplate(tmpl string) Option {
	return func(c *handler.Config) {
		c.MessageTemplate = tmpl
	}
}

// WithTimestampTemplate sets the strftime layout of %(asctime)s
func WithTimestampTemplate(tmpl string) Option {
	return func(c *handler.Config) {
		c.TimestampTemplate = tmpl
	}
}

// WithClock sets the time source used for rollover decisions.
// Passing nil is ignored.
func WithClock(now func() time.Time) Option {
	return func(c *handler.Config) {
		if now != nil {
			c.Clock = now
		}
	}
}
