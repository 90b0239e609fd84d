package formatter

import (
	"bytes"
	"fmt"

	"github.com/philipp01105/rotlog/core"
)

// TextFormatter renders entries as one line of text per record using a
// parsed message template.
type TextFormatter struct {
	Config
	message   *Template
	timestamp *TimeLayout
}

// NewTextFormatter parses the templates in cfg and returns a formatter.
// Empty templates fall back to DefaultMessageTemplate and
// DefaultTimestampTemplate.
func NewTextFormatter(cfg Config) (*TextFormatter, error) {
	if cfg.MessageTemplate == "" {
		cfg.MessageTemplate = DefaultMessageTemplate
	}
	if cfg.TimestampTemplate == "" {
		cfg.TimestampTemplate = DefaultTimestampTemplate
	}

	msg, err := ParseTemplate(cfg.MessageTemplate)
	if err != nil {
		return nil, fmt.Errorf("message template: %w", err)
	}
	ts, err := ParseTimeLayout(cfg.TimestampTemplate)
	if err != nil {
		return nil, fmt.Errorf("timestamp template: %w", err)
	}
	return &TextFormatter{Config: cfg, message: msg, timestamp: ts}, nil
}

// MustTextFormatter is like NewTextFormatter but panics on invalid templates.
// It is meant for templates that are compile-time constants.
func MustTextFormatter(cfg Config) *TextFormatter {
	f, err := NewTextFormatter(cfg)
	if err != nil {
		panic(err)
	}
	return f
}

// Format formats an entry as text
func (f *TextFormatter) Format(entry *core.Entry) ([]byte, error) {
	buf := GetBuffer()
	defer PutBuffer(buf)

	f.FormatEntry(entry, buf)

	// Copy buffer content to return
	result := make([]byte, buf.Len())
	copy(result, buf.Bytes())
	return result, nil
}

// FormatEntry formats an entry into the given buffer (implements BufferFormatter).
func (f *TextFormatter) FormatEntry(entry *core.Entry, buf *bytes.Buffer) {
	f.message.render(entry, f.timestamp, f.UTC, buf)
	buf.WriteByte('\n')
}
