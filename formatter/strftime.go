package formatter

import (
	"fmt"
	"strings"
	"time"
)

// strftime directives mapped to the equivalent Go layout token. Each token
// is formatted on its own, so literal text in a template is never
// mistaken for a Go layout element.
var strftimeLayouts = map[byte]string{
	'Y': "2006",
	'y': "06",
	'm': "01",
	'd': "02",
	'H': "15",
	'I': "03",
	'M': "04",
	'S': "05",
	'p': "PM",
	'b': "Jan",
	'B': "January",
	'a': "Mon",
	'A': "Monday",
	'z': "-0700",
	'Z': "MST",
}

type timePart struct {
	literal   string
	directive byte
	layout    string
}

// TimeLayout is a parsed strftime timestamp template
type TimeLayout struct {
	source string
	parts  []timePart
}

// ParseTimeLayout parses a strftime template such as "%Y-%m-%d %H:%M:%S".
// Besides the directives in strftimeLayouts it supports %j (day of year),
// %f (microseconds) and %% (literal percent).
func ParseTimeLayout(s string) (*TimeLayout, error) {
	l := &TimeLayout{source: s}
	var lit strings.Builder
	flush := func() {
		if lit.Len() > 0 {
			l.parts = append(l.parts, timePart{literal: lit.String()})
			lit.Reset()
		}
	}

	for i := 0; i < len(s); i++ {
		if s[i] != '%' {
			lit.WriteByte(s[i])
			continue
		}
		if i+1 >= len(s) {
			return nil, fmt.Errorf("%w: dangling %% in timestamp template at offset %d", ErrInvalidTemplate, i)
		}
		i++
		d := s[i]
		switch d {
		case '%':
			lit.WriteByte('%')
			continue
		case 'j', 'f':
			flush()
			l.parts = append(l.parts, timePart{directive: d})
			continue
		}
		layout, ok := strftimeLayouts[d]
		if !ok {
			return nil, fmt.Errorf("%w: unknown timestamp directive %%%c", ErrInvalidTemplate, d)
		}
		flush()
		l.parts = append(l.parts, timePart{directive: d, layout: layout})
	}
	flush()
	return l, nil
}

// AppendFormat appends t rendered with the layout to b
func (l *TimeLayout) AppendFormat(b []byte, t time.Time) []byte {
	for _, p := range l.parts {
		switch {
		case p.directive == 0:
			b = append(b, p.literal...)
		case p.directive == 'j':
			b = appendPadded(b, t.YearDay(), 3)
		case p.directive == 'f':
			b = appendPadded(b, t.Nanosecond()/1000, 6)
		default:
			b = t.AppendFormat(b, p.layout)
		}
	}
	return b
}

// Format returns t rendered with the layout
func (l *TimeLayout) Format(t time.Time) string {
	return string(l.AppendFormat(make([]byte, 0, 32), t))
}

// String returns the template source
func (l *TimeLayout) String() string {
	return l.source
}

func appendPadded(b []byte, v, width int) []byte {
	var tmp [20]byte
	i := len(tmp)
	for v >= 10 || width > 1 {
		i--
		tmp[i] = byte('0' + v%10)
		v /= 10
		width--
	}
	i--
	tmp[i] = byte('0' + v)
	return append(b, tmp[i:]...)
}
