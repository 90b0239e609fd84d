// Package handler provides the Handler interface and the outputs a
// Logger writes to.
//
// FileHandler is the main implementation. It appends rendered records to
// a log file and rolls the file over on time boundaries: every N seconds,
// minutes, hours or days, at midnight, or once a week on a chosen
// weekday. The closed period is renamed to FilePath plus a timestamp
// suffix and the oldest archives beyond BackupCount are deleted.
//
// Registry hands out one FileHandler per file path, so every logger that
// names the same file shares a single handle and a single rotation
// schedule. The first Config registered for a path wins.
//
// WriterHandler writes to any io.Writer and is meant for consoles and
// tests.
//
// Every handler counts processed, filtered and failed records in a Stats
// value that can be read at runtime for monitoring.
package handler
