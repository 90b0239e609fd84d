package core

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"time"
)

// Entry is a single log record on its way from a Logger to its handlers
type Entry struct {
	Time    time.Time
	Level   Level
	Logger  string
	Message string
	Caller  CallerInfo
}

// CallerInfo describes the call site that produced a record
type CallerInfo struct {
	File      string
	ShortFile string
	Line      int
	Function  string
	Defined   bool
}

// entryPool is a pool of Entry objects to reduce allocations
var entryPool = sync.Pool{
	New: func() interface{} {
		return &Entry{}
	},
}

// GetEntry retrieves an Entry from the pool
func GetEntry() *Entry {
	e := entryPool.Get().(*Entry)
	e.Time = time.Now()
	e.Caller = CallerInfo{}
	return e
}

// PutEntry returns an Entry to the pool
func PutEntry(e *Entry) {
	if e == nil {
		return
	}
	e.Logger = ""
	e.Message = ""
	e.Caller = CallerInfo{}
	entryPool.Put(e)
}

// GetCaller retrieves caller information skip frames above its own caller
func GetCaller(skip int) CallerInfo {
	pc, file, line, ok := runtime.Caller(skip + 1)
	if !ok {
		return CallerInfo{}
	}
	return callerFromPC(pc, file, line)
}

// CallerFromPC builds a CallerInfo from a program counter, as recorded by
// log/slog and zap.
func CallerFromPC(pc uintptr) CallerInfo {
	if pc == 0 {
		return CallerInfo{}
	}
	frames := runtime.CallersFrames([]uintptr{pc})
	f, _ := frames.Next()
	if f.File == "" {
		return CallerInfo{}
	}
	return CallerInfo{
		File:      f.File,
		ShortFile: filepath.Base(f.File),
		Line:      f.Line,
		Function:  f.Function,
		Defined:   true,
	}
}

func callerFromPC(pc uintptr, file string, line int) CallerInfo {
	var funcName string
	if fn := runtime.FuncForPC(pc); fn != nil {
		funcName = fn.Name()
	}
	return CallerInfo{
		File:      file,
		ShortFile: filepath.Base(file),
		Line:      line,
		Function:  funcName,
		Defined:   true,
	}
}

// ShortFunction strips the import path and package name from a fully
// qualified Go function name: "example.com/app/db.(*Conn).Query" becomes
// "(*Conn).Query".
func (c CallerInfo) ShortFunction() string {
	fn := c.Function
	if i := strings.LastIndexByte(fn, '/'); i >= 0 {
		fn = fn[i+1:]
	}
	if i := strings.IndexByte(fn, '.'); i >= 0 {
		return fn[i+1:]
	}
	return fn
}

// Module returns the source file name without its extension
func (c CallerInfo) Module() string {
	base := c.ShortFile
	return base[:len(base)-len(filepath.Ext(base))]
}

// pid is cached once; it never changes for the life of the process.
var pid = os.Getpid()

// PID returns the current process id
func PID() int {
	return pid
}
