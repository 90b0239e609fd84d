// Package core defines the shared types used across rotlog.
//
// It provides the numeric Level used for severity thresholds, the Entry
// type that carries one record from a Logger to its handlers, CallerInfo
// for call-site context, and the three construction-time error types:
// DirectoryCreationError, HandlerCreationError and LoggerCreationError.
// All three wrap their cause, so errors.Is and errors.As see through them.
//
// Entry objects are pooled via sync.Pool. Loggers get an Entry with
// GetEntry after the level check has passed and return it with PutEntry
// once every attached handler has consumed it. Handlers must not retain
// an Entry after Handle returns.
package core
