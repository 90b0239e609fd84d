package formatter

import (
	"bytes"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/philipp01105/rotlog/core"
)

// ErrInvalidTemplate is wrapped by every template parse error
var ErrInvalidTemplate = errors.New("invalid template")

type fieldID uint8

const (
	fieldLiteral fieldID = iota
	fieldAsctime
	fieldCreated
	fieldFilename
	fieldFuncName
	fieldLevelname
	fieldLevelno
	fieldLineno
	fieldMessage
	fieldModule
	fieldMsecs
	fieldName
	fieldPathname
	fieldProcess
)

var fieldNames = map[string]fieldID{
	"asctime":   fieldAsctime,
	"created":   fieldCreated,
	"filename":  fieldFilename,
	"funcName":  fieldFuncName,
	"levelname": fieldLevelname,
	"levelno":   fieldLevelno,
	"lineno":    fieldLineno,
	"message":   fieldMessage,
	"module":    fieldModule,
	"msecs":     fieldMsecs,
	"name":      fieldName,
	"pathname":  fieldPathname,
	"process":   fieldProcess,
}

// numeric fields accept the d and f conversions
func (f fieldID) numeric() bool {
	switch f {
	case fieldCreated, fieldLevelno, fieldLineno, fieldMsecs, fieldProcess:
		return true
	}
	return false
}

type segment struct {
	literal   string
	field     fieldID
	leftAlign bool
	zeroPad   bool
	width     int
	conv      byte
}

// Template is a parsed message template
type Template struct {
	source   string
	segments []segment
}

// ParseTemplate parses a %-style message template such as
// "%(asctime)s [%(levelname)-8s] %(message)s".
func ParseTemplate(s string) (*Template, error) {
	t := &Template{source: s}
	var lit strings.Builder

	flush := func() {
		if lit.Len() > 0 {
			t.segments = append(t.segments, segment{literal: lit.String()})
			lit.Reset()
		}
	}

	for i := 0; i < len(s); {
		c := s[i]
		if c != '%' {
			lit.WriteByte(c)
			i++
			continue
		}
		if i+1 >= len(s) {
			return nil, fmt.Errorf("%w: dangling %% at offset %d", ErrInvalidTemplate, i)
		}
		if s[i+1] == '%' {
			lit.WriteByte('%')
			i += 2
			continue
		}
		if s[i+1] != '(' {
			return nil, fmt.Errorf("%w: expected %%( at offset %d", ErrInvalidTemplate, i)
		}

		end := strings.IndexByte(s[i+2:], ')')
		if end < 0 {
			return nil, fmt.Errorf("%w: unterminated field at offset %d", ErrInvalidTemplate, i)
		}
		name := s[i+2 : i+2+end]
		id, ok := fieldNames[name]
		if !ok {
			return nil, fmt.Errorf("%w: unknown field %q at offset %d", ErrInvalidTemplate, name, i)
		}

		j := i + 2 + end + 1
		seg := segment{field: id}
		for ; j < len(s) && (s[j] == '-' || s[j] == '0'); j++ {
			if s[j] == '-' {
				seg.leftAlign = true
			} else {
				seg.zeroPad = true
			}
		}
		start := j
		for j < len(s) && s[j] >= '0' && s[j] <= '9' {
			j++
		}
		if j > start {
			seg.width, _ = strconv.Atoi(s[start:j])
		}
		if j >= len(s) {
			return nil, fmt.Errorf("%w: missing conversion for field %q", ErrInvalidTemplate, name)
		}
		seg.conv = s[j]
		switch seg.conv {
		case 's':
		case 'd', 'f':
			if !id.numeric() {
				return nil, fmt.Errorf("%w: conversion %%%c needs a numeric field, got %q", ErrInvalidTemplate, seg.conv, name)
			}
		default:
			return nil, fmt.Errorf("%w: unsupported conversion %q for field %q", ErrInvalidTemplate, seg.conv, name)
		}
		// Zeros only pad right-aligned numbers, as in printf.
		seg.zeroPad = seg.zeroPad && seg.conv != 's' && !seg.leftAlign

		flush()
		t.segments = append(t.segments, seg)
		i = j + 1
	}
	flush()
	return t, nil
}

// String returns the template source
func (t *Template) String() string {
	return t.source
}

// render writes the entry into buf, using ts for %(asctime)s
func (t *Template) render(entry *core.Entry, ts *TimeLayout, utc bool, buf *bytes.Buffer) {
	when := entry.Time
	if utc {
		when = when.UTC()
	}
	for i := range t.segments {
		seg := &t.segments[i]
		if seg.field == fieldLiteral {
			buf.WriteString(seg.literal)
			continue
		}
		if seg.width == 0 {
			writeField(buf, seg, entry, ts, when)
			continue
		}

		// Padded: render into the tail of buf, then shift if right-aligned.
		start := buf.Len()
		writeField(buf, seg, entry, ts, when)
		n := utf8.RuneCount(buf.Bytes()[start:])
		if n >= seg.width {
			continue
		}
		pad := seg.width - n
		if seg.leftAlign {
			for k := 0; k < pad; k++ {
				buf.WriteByte(' ')
			}
			continue
		}
		value := append([]byte(nil), buf.Bytes()[start:]...)
		buf.Truncate(start)
		fill := byte(' ')
		if seg.zeroPad {
			fill = '0'
			if len(value) > 0 && value[0] == '-' {
				buf.WriteByte('-')
				value = value[1:]
			}
		}
		for k := 0; k < pad; k++ {
			buf.WriteByte(fill)
		}
		buf.Write(value)
	}
}

func writeField(buf *bytes.Buffer, seg *segment, e *core.Entry, ts *TimeLayout, when time.Time) {
	switch seg.field {
	case fieldAsctime:
		buf.Write(ts.AppendFormat(buf.AvailableBuffer(), when))
	case fieldCreated:
		secs := float64(when.UnixNano()) / 1e9
		if seg.conv == 'd' {
			buf.Write(strconv.AppendInt(buf.AvailableBuffer(), int64(secs), 10))
		} else {
			buf.Write(strconv.AppendFloat(buf.AvailableBuffer(), secs, 'f', 6, 64))
		}
	case fieldFilename:
		buf.WriteString(e.Caller.ShortFile)
	case fieldFuncName:
		buf.WriteString(e.Caller.ShortFunction())
	case fieldLevelname:
		buf.WriteString(e.Level.String())
	case fieldLevelno:
		writeNumber(buf, seg.conv, int64(e.Level))
	case fieldLineno:
		writeNumber(buf, seg.conv, int64(e.Caller.Line))
	case fieldMessage:
		buf.WriteString(e.Message)
	case fieldModule:
		buf.WriteString(e.Caller.Module())
	case fieldMsecs:
		writeNumber(buf, seg.conv, int64(e.Time.Nanosecond()/1e6))
	case fieldName:
		buf.WriteString(e.Logger)
	case fieldPathname:
		buf.WriteString(e.Caller.File)
	case fieldProcess:
		writeNumber(buf, seg.conv, int64(core.PID()))
	}
}

func writeNumber(buf *bytes.Buffer, conv byte, v int64) {
	if conv == 'f' {
		buf.Write(strconv.AppendFloat(buf.AvailableBuffer(), float64(v), 'f', 6, 64))
		return
	}
	buf.Write(strconv.AppendInt(buf.AvailableBuffer(), v, 10))
}
