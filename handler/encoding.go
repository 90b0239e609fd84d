package handler

import (
	"bytes"
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/transform"
)

// Encoding error policies accepted by Config.Errors
const (
	ErrorsStrict            = "strict"
	ErrorsReplace           = "replace"
	ErrorsXMLCharRefReplace = "xmlcharrefreplace"
)

// textEncoder converts formatted UTF-8 records into the file's encoding.
// It is not safe for concurrent use; FileHandler calls it under its mutex.
type textEncoder struct {
	name string
	// enc is nil for UTF-8 output
	enc *encoding.Encoder
	// sanitize replaces invalid UTF-8 sequences with U+FFFD
	sanitize bool
}

var replacementChar = []byte("\uFFFD")

func newTextEncoder(name, policy string) (*textEncoder, error) {
	switch policy {
	case "", ErrorsStrict, ErrorsReplace, ErrorsXMLCharRefReplace:
	default:
		return nil, fmt.Errorf("unknown encoding error policy %q", policy)
	}

	normalized := strings.ToLower(strings.TrimSpace(name))
	if isUTF8(normalized) {
		return &textEncoder{name: "utf-8", sanitize: policy != "" && policy != ErrorsStrict}, nil
	}

	e, canonical, err := lookupEncoding(normalized)
	if err != nil {
		return nil, fmt.Errorf("unknown encoding %q: %w", name, err)
	}
	if canonical == "utf-8" {
		return &textEncoder{name: canonical, sanitize: policy != "" && policy != ErrorsStrict}, nil
	}

	t := &textEncoder{name: canonical}
	switch policy {
	case ErrorsReplace:
		t.enc = encoding.ReplaceUnsupported(e.NewEncoder())
	case ErrorsXMLCharRefReplace:
		t.enc = encoding.HTMLEscapeUnsupported(e.NewEncoder())
	default:
		t.enc = e.NewEncoder()
	}
	return t, nil
}

func isUTF8(name string) bool {
	return name == "" || name == "utf-8" || name == "utf8"
}

// strictLabels are names whose WHATWG meaning (windows-1252) is wider
// than the character set they name. They resolve to the exact set so
// that the strict policy rejects what the set cannot hold.
var strictLabels = map[string]struct {
	enc  encoding.Encoding
	name string
}{
	"ascii":      {asciiEncoding{}, "ascii"},
	"us-ascii":   {asciiEncoding{}, "ascii"},
	"us":         {asciiEncoding{}, "ascii"},
	"646":        {asciiEncoding{}, "ascii"},
	"cp367":      {asciiEncoding{}, "ascii"},
	"csascii":    {asciiEncoding{}, "ascii"},
	"iso646-us":  {asciiEncoding{}, "ascii"},
	"latin1":     {charmap.ISO8859_1, "iso-8859-1"},
	"latin-1":    {charmap.ISO8859_1, "iso-8859-1"},
	"latin":      {charmap.ISO8859_1, "iso-8859-1"},
	"l1":         {charmap.ISO8859_1, "iso-8859-1"},
	"iso-8859-1": {charmap.ISO8859_1, "iso-8859-1"},
	"iso8859-1":  {charmap.ISO8859_1, "iso-8859-1"},
	"iso-ir-100": {charmap.ISO8859_1, "iso-8859-1"},
	"cp819":      {charmap.ISO8859_1, "iso-8859-1"},
	"8859":       {charmap.ISO8859_1, "iso-8859-1"},
}

// lookupEncoding resolves an encoding name and returns it with its
// canonical name. It accepts the WHATWG labels and the underscore
// spellings common in other ecosystems ("iso_8859_1", "shift_jis").
func lookupEncoding(name string) (encoding.Encoding, string, error) {
	if l, ok := strictLabels[strings.ReplaceAll(name, "_", "-")]; ok {
		return l.enc, l.name, nil
	}

	e, err := htmlindex.Get(name)
	if err != nil {
		for _, alt := range []string{
			strings.ReplaceAll(name, "_", "-"),
			strings.ReplaceAll(name, "-", "_"),
		} {
			if alt == name {
				continue
			}
			if altEnc, altErr := htmlindex.Get(alt); altErr == nil {
				e, err = altEnc, nil
				break
			}
		}
	}
	if err != nil {
		return nil, "", err
	}
	canonical, _ := htmlindex.Name(e)
	return e, canonical, nil
}

// asciiEncoding is 7-bit US-ASCII. Runes above U+007F are reported as
// unsupported, so the error policies apply to them.
type asciiEncoding struct{}

func (asciiEncoding) NewDecoder() *encoding.Decoder {
	return &encoding.Decoder{Transformer: encoding.UTF8Validator}
}

func (asciiEncoding) NewEncoder() *encoding.Encoder {
	return &encoding.Encoder{Transformer: asciiEncoder{}}
}

// asciiUnsupportedError is recognised by encoding.ReplaceUnsupported and
// encoding.HTMLEscapeUnsupported through its Replacement method.
type asciiUnsupportedError struct{}

func (asciiUnsupportedError) Error() string { return "encoding: rune not supported by ascii" }

func (asciiUnsupportedError) Replacement() byte { return '?' }

type asciiEncoder struct{ transform.NopResetter }

func (asciiEncoder) Transform(dst, src []byte, atEOF bool) (nDst, nSrc int, err error) {
	for nSrc < len(src) {
		c := src[nSrc]
		if c >= utf8.RuneSelf {
			if !atEOF && !utf8.FullRune(src[nSrc:]) {
				return nDst, nSrc, transform.ErrShortSrc
			}
			return nDst, nSrc, asciiUnsupportedError{}
		}
		if nDst >= len(dst) {
			return nDst, nSrc, transform.ErrShortDst
		}
		dst[nDst] = c
		nDst++
		nSrc++
	}
	return nDst, nSrc, nil
}

// encode returns p in the target encoding. The result may alias p.
func (t *textEncoder) encode(p []byte) ([]byte, error) {
	if t.enc == nil {
		if t.sanitize {
			return bytes.ToValidUTF8(p, replacementChar), nil
		}
		return p, nil
	}
	out, err := t.enc.Bytes(p)
	if err != nil {
		return nil, fmt.Errorf("encode record as %s: %w", t.name, err)
	}
	return out, nil
}
