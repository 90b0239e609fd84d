package formatter

import (
	"bytes"
	"sync"

	"github.com/philipp01105/rotlog/core"
)

// Formatter defines the interface for log formatters
type Formatter interface {
	// Format formats a log entry into bytes
	Format(entry *core.Entry) ([]byte, error)
}

// BufferFormatter is an optional interface that formatters can implement
// to format directly into a caller-provided buffer, avoiding internal
// buffer pool overhead.
type BufferFormatter interface {
	// FormatEntry formats a log entry into the given buffer.
	FormatEntry(entry *core.Entry, buf *bytes.Buffer)
}

const (
	// DefaultMessageTemplate renders time, padded level, padded logger
	// name, call site and message.
	DefaultMessageTemplate = "%(asctime)s [%(levelname)-8s] %(name)-15s %(funcName)s:%(lineno)d - %(message)s"
	// DefaultTimestampTemplate is the strftime layout for %(asctime)s
	DefaultTimestampTemplate = "%Y-%m-%d %H:%M:%S"
)

// Config holds formatter configuration
type Config struct {
	// MessageTemplate is the record layout (default: DefaultMessageTemplate)
	MessageTemplate string
	// TimestampTemplate is the strftime layout of %(asctime)s
	// (default: DefaultTimestampTemplate)
	TimestampTemplate string
	// UTC renders timestamps in UTC instead of local time
	UTC bool
}

// bufferPool is a pool of bytes.Buffer to reduce allocations
var bufferPool = &sync.Pool{
	New: func() interface{} {
		b := new(bytes.Buffer)
		b.Grow(256)
		return b
	},
}

// GetBuffer returns an empty buffer from the shared pool
func GetBuffer() *bytes.Buffer {
	buf := bufferPool.Get().(*bytes.Buffer)
	buf.Reset()
	return buf
}

// PutBuffer returns a buffer to the shared pool
func PutBuffer(buf *bytes.Buffer) {
	if buf.Cap() > 64*1024 { // Don't keep very large buffers
		return
	}
	bufferPool.Put(buf)
}
