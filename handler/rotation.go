package handler

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// RotationUnit selects when a FileHandler rolls its file over
type RotationUnit int

const (
	// Midnight rotates once a day at midnight, or at AtTime if set. It is
	// the zero value.
	Midnight RotationUnit = iota
	// Second rotates every Interval seconds
	Second
	// Minute rotates every Interval minutes
	Minute
	// Hour rotates every Interval hours
	Hour
	// Day rotates every Interval days, counted from the file's start time
	Day
	// Monday through Sunday rotate once a week at the start of that day,
	// or at AtTime on that day if set.
	Monday
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
	Sunday
)

// WeekdayUnit returns the weekly rotation unit for day, where 0 is Monday
// and 6 is Sunday.
func WeekdayUnit(day int) (RotationUnit, error) {
	if day < 0 || day > 6 {
		return 0, fmt.Errorf("invalid weekday %d: must be 0 (Monday) to 6 (Sunday)", day)
	}
	return Monday + RotationUnit(day), nil
}

// IsWeekday reports whether u is one of the weekly units
func (u RotationUnit) IsWeekday() bool {
	return u >= Monday && u <= Sunday
}

// Weekday returns 0 (Monday) to 6 (Sunday) for weekly units and -1 otherwise
func (u RotationUnit) Weekday() int {
	if !u.IsWeekday() {
		return -1
	}
	return int(u - Monday)
}

func (u RotationUnit) valid() bool {
	return u >= Midnight && u <= Sunday
}

// String returns the short unit name: S, M, H, D, MIDNIGHT or W0 to W6
func (u RotationUnit) String() string {
	switch {
	case u == Second:
		return "S"
	case u == Minute:
		return "M"
	case u == Hour:
		return "H"
	case u == Day:
		return "D"
	case u == Midnight:
		return "MIDNIGHT"
	case u.IsWeekday():
		return "W" + strconv.Itoa(u.Weekday())
	default:
		return "RotationUnit(" + strconv.Itoa(int(u)) + ")"
	}
}

// ParseRotationUnit parses S, M, H, D, MIDNIGHT or W0 to W6 (case-insensitive)
func ParseRotationUnit(s string) (RotationUnit, error) {
	switch v := strings.ToUpper(strings.TrimSpace(s)); v {
	case "S":
		return Second, nil
	case "M":
		return Minute, nil
	case "H":
		return Hour, nil
	case "D":
		return Day, nil
	case "MIDNIGHT":
		return Midnight, nil
	default:
		if len(v) == 2 && v[0] == 'W' && v[1] >= '0' && v[1] <= '6' {
			return WeekdayUnit(int(v[1] - '0'))
		}
		return 0, fmt.Errorf("invalid rotation unit %q", s)
	}
}

// MarshalText implements encoding.TextMarshaler
func (u RotationUnit) MarshalText() ([]byte, error) {
	if !u.valid() {
		return nil, fmt.Errorf("invalid rotation unit %d", int(u))
	}
	return []byte(u.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (u *RotationUnit) UnmarshalText(text []byte) error {
	v, err := ParseRotationUnit(string(text))
	if err != nil {
		return err
	}
	*u = v
	return nil
}

// TimeOfDay is a wall-clock time used as the rollover moment for
// Midnight and weekly rotation.
type TimeOfDay struct {
	Hour   int
	Minute int
	Second int
}

// Validate reports whether t is a real time of day
func (t TimeOfDay) Validate() error {
	if t.Hour < 0 || t.Hour > 23 || t.Minute < 0 || t.Minute > 59 || t.Second < 0 || t.Second > 59 {
		return fmt.Errorf("invalid time of day %02d:%02d:%02d", t.Hour, t.Minute, t.Second)
	}
	return nil
}

// String returns t as HH:MM:SS
func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d:%02d", t.Hour, t.Minute, t.Second)
}

// ParseTimeOfDay parses HH:MM or HH:MM:SS
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) < 2 || len(parts) > 3 {
		return TimeOfDay{}, fmt.Errorf("invalid time of day %q", s)
	}
	var vals [3]int
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil {
			return TimeOfDay{}, fmt.Errorf("invalid time of day %q: %w", s, err)
		}
		vals[i] = n
	}
	t := TimeOfDay{Hour: vals[0], Minute: vals[1], Second: vals[2]}
	return t, t.Validate()
}

var errInvalidInterval = errors.New("rotation interval must be positive")

// rotationPolicy computes rollover times and archive names for one file
type rotationPolicy struct {
	unit     RotationUnit
	interval time.Duration
	atTime   TimeOfDay
	loc      *time.Location
	suffix   string
	archive  *regexp.Regexp
}

var (
	secondArchive = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}_\d{2}-\d{2}-\d{2}$`)
	minuteArchive = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}_\d{2}-\d{2}$`)
	hourArchive   = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}_\d{2}$`)
	dayArchive    = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
)

func newRotationPolicy(cfg Config) (rotationPolicy, error) {
	p := rotationPolicy{unit: cfg.When, loc: time.Local}
	if cfg.UTC {
		p.loc = time.UTC
	}

	n := time.Duration(cfg.Interval)
	switch {
	case cfg.When == Second:
		p.interval, p.suffix, p.archive = n*time.Second, "2006-01-02_15-04-05", secondArchive
	case cfg.When == Minute:
		p.interval, p.suffix, p.archive = n*time.Minute, "2006-01-02_15-04", minuteArchive
	case cfg.When == Hour:
		p.interval, p.suffix, p.archive = n*time.Hour, "2006-01-02_15", hourArchive
	case cfg.When == Day:
		p.interval, p.suffix, p.archive = n*24*time.Hour, "2006-01-02", dayArchive
	case cfg.When == Midnight:
		p.interval, p.suffix, p.archive = 24*time.Hour, "2006-01-02", dayArchive
	case cfg.When.IsWeekday():
		p.interval, p.suffix, p.archive = 7*24*time.Hour, "2006-01-02", dayArchive
	default:
		return p, fmt.Errorf("invalid rotation unit %d", int(cfg.When))
	}

	if !p.calendar() && cfg.Interval <= 0 {
		return p, fmt.Errorf("%w, got %d", errInvalidInterval, cfg.Interval)
	}
	if cfg.AtTime != nil {
		if err := cfg.AtTime.Validate(); err != nil {
			return p, err
		}
		p.atTime = *cfg.AtTime
	}
	return p, nil
}

// calendar reports whether rollovers follow the wall clock rather than a
// fixed interval.
func (p rotationPolicy) calendar() bool {
	return p.unit == Midnight || p.unit.IsWeekday()
}

// next returns the first rollover time strictly after now
func (p rotationPolicy) next(now time.Time) time.Time {
	if !p.calendar() {
		return now.Add(p.interval)
	}

	t := now.In(p.loc)
	at := time.Date(t.Year(), t.Month(), t.Day(), p.atTime.Hour, p.atTime.Minute, p.atTime.Second, 0, p.loc)
	if !at.After(t) {
		at = at.AddDate(0, 0, 1)
	}
	if p.unit.IsWeekday() {
		// time.Weekday counts from Sunday; rotation units count from Monday.
		day := (int(at.Weekday()) + 6) % 7
		at = at.AddDate(0, 0, (p.unit.Weekday()-day+7)%7)
	}
	return at
}

// periodStart returns the start of the period that ends at rolloverAt
func (p rotationPolicy) periodStart(rolloverAt time.Time) time.Time {
	switch {
	case p.unit == Midnight:
		return rolloverAt.In(p.loc).AddDate(0, 0, -1)
	case p.unit.IsWeekday():
		return rolloverAt.In(p.loc).AddDate(0, 0, -7)
	default:
		return rolloverAt.Add(-p.interval)
	}
}

// archiveName returns the name the live file is renamed to when the
// period ending at rolloverAt is closed.
func (p rotationPolicy) archiveName(path string, rolloverAt time.Time) string {
	return path + "." + p.periodStart(rolloverAt).In(p.loc).Format(p.suffix)
}

// isArchive reports whether name (a base name) is an archive of base
func (p rotationPolicy) isArchive(base, name string) bool {
	prefix := base + "."
	if !strings.HasPrefix(name, prefix) {
		return false
	}
	return p.archive.MatchString(name[len(prefix):])
}
