package core

import "fmt"

// DirectoryCreationError reports that the parent directory of a log file
// could not be created.
type DirectoryCreationError struct {
	Dir string
	Err error
}

func (e *DirectoryCreationError) Error() string {
	return fmt.Sprintf("rotlog: create log directory %q: %v", e.Dir, e.Err)
}

func (e *DirectoryCreationError) Unwrap() error { return e.Err }

// HandlerCreationError reports that a rotating file handler could not be
// constructed: bad rotation settings, an unknown encoding, an invalid
// template, or a file that could not be opened.
type HandlerCreationError struct {
	Path string
	Err  error
}

func (e *HandlerCreationError) Error() string {
	return fmt.Sprintf("rotlog: create handler for %q: %v", e.Path, e.Err)
}

func (e *HandlerCreationError) Unwrap() error { return e.Err }

// LoggerCreationError reports that a logger could not be created or its
// handler could not be attached.
type LoggerCreationError struct {
	Name string
	Err  error
}

func (e *LoggerCreationError) Error() string {
	return fmt.Sprintf("rotlog: create logger %q: %v", e.Name, e.Err)
}

func (e *LoggerCreationError) Unwrap() error { return e.Err }
