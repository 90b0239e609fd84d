// Package formatter renders log entries into lines of text.
//
// A TextFormatter is built from two templates that are parsed and
// validated once, when the formatter is created:
//
//   - the message template, a small %-style language:
//     %(field)s, %(field)-15s, %(field)8s, %(lineno)d, %(msecs)03d,
//     %(created)f and %%. The 0 flag zero-pads numeric conversions.
//     Known fields are asctime, created, filename, funcName, levelname,
//     levelno, lineno, message, module, msecs, name, pathname and process.
//   - the timestamp template used for %(asctime)s, written with strftime
//     directives such as %Y-%m-%d %H:%M:%S.
//
// Unknown fields, unknown directives and malformed specifiers are
// reported by NewTextFormatter as errors wrapping ErrInvalidTemplate.
//
// Formatters implement BufferFormatter as well as Formatter. Handlers
// check for BufferFormatter at construction time and format into a
// pooled bytes.Buffer. Buffers larger than 64 KiB are not returned to
// the pool.
package formatter
