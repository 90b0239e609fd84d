package handler

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/philipp01105/rotlog/core"
)

func TestNewTextEncoder(t *testing.T) {
	tests := []struct {
		name, policy string
		in, want     string
	}{
		{"", "", "café", "café"},
		{"UTF8", ErrorsStrict, "café", "café"},
		{"utf-8", ErrorsReplace, "a\xffb", "a\uFFFDb"},
		{"utf-8", ErrorsStrict, "a\xffb", "a\xffb"},
		{"windows-1252", "", "café", "caf\xe9"},
		{"ISO_8859_1", "", "café", "caf\xe9"},
		{"latin1", ErrorsXMLCharRefReplace, "smile 😀", "smile &#128512;"},
		{"windows-1252", "", "5€", "5\x80"},
		{"ascii", "", "plain", "plain"},
		{"ascii", ErrorsReplace, "café", "caf?"},
		{"US-ASCII", ErrorsXMLCharRefReplace, "café", "caf&#233;"},
		{"latin-1", ErrorsReplace, "5€", "5\x1a"},
	}
	for _, tt := range tests {
		enc, err := newTextEncoder(tt.name, tt.policy)
		require.NoError(t, err, tt.name)
		got, err := enc.encode([]byte(tt.in))
		require.NoError(t, err, tt.name)
		assert.Equal(t, tt.want, string(got), "%s/%s", tt.name, tt.policy)
	}
}

func TestNewTextEncoder_Errors(t *testing.T) {
	_, err := newTextEncoder("klingon-8", "")
	assert.Error(t, err)

	_, err = newTextEncoder("utf-8", "ignore-everything")
	assert.Error(t, err)

	strict, err := newTextEncoder("windows-1252", ErrorsStrict)
	require.NoError(t, err)
	_, err = strict.encode([]byte("😀"))
	assert.Error(t, err)

	replace, err := newTextEncoder("windows-1252", ErrorsReplace)
	require.NoError(t, err)
	got, err := replace.encode([]byte("x😀"))
	require.NoError(t, err)
	assert.Len(t, got, 2)
	assert.Equal(t, byte('x'), got[0])
}

func TestNewTextEncoder_ExactCharacterSets(t *testing.T) {
	tests := []struct {
		name, canonical, rejected string
	}{
		{"ascii", "ascii", "café"},
		{"us-ascii", "ascii", "café"},
		{"latin1", "iso-8859-1", "5€"},
		{"ISO-8859-1", "iso-8859-1", "5€"},
		{"iso_8859_1", "iso-8859-1", "5€"},
	}
	for _, tt := range tests {
		enc, err := newTextEncoder(tt.name, ErrorsStrict)
		require.NoError(t, err, tt.name)
		assert.Equal(t, tt.canonical, enc.name, tt.name)

		_, err = enc.encode([]byte(tt.rejected))
		assert.Error(t, err, "%s must reject %q", tt.name, tt.rejected)
	}

	ascii, err := newTextEncoder("ascii", ErrorsStrict)
	require.NoError(t, err)
	got, err := ascii.encode([]byte("disk 98% full\n"))
	require.NoError(t, err)
	assert.Equal(t, "disk 98% full\n", string(got))
}

func TestFileHandler_Encoding(t *testing.T) {
	dir := t.TempDir()
	clock := newFakeClock(time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC))

	cfg := secondConfig(filepath.Join(dir, "latin.log"), clock)
	cfg.Encoding = "windows-1252"
	h, err := NewFileHandler(cfg)
	require.NoError(t, err)
	defer h.Close()

	require.NoError(t, h.Handle(newTestEntry(clock, core.InfoLevel, "café")))
	assert.Equal(t, "caf\xe9\n", readFile(t, h.Path()))

	// Strict encoding reports the record instead of writing it.
	err = h.Handle(newTestEntry(clock, core.InfoLevel, "😀"))
	assert.Error(t, err)
	assert.Equal(t, "caf\xe9\n", readFile(t, h.Path()))
	assert.Equal(t, uint64(1), h.Stats().Errors)
}
