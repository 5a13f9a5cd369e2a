package log

import (
	"path/filepath"
	"runtime"
	"strconv"
)

const pkgPath = "github.com/uncomputable/simplicity/log"

var skipFunc = map[string]bool{
	pkgPath + ".Write":    true,
	pkgPath + ".Messagef": true,
	pkgPath + ".Error":    true,
	pkgPath + ".Fatal":    true,
}

// SkipFunc removes the named function from at=[file:line]
// entries printed to the log output.
// The provided name should be a fully-qualified function name
// comprising the import path and identifier separated by a dot.
// SkipFunc must not be called concurrently with any function
// in this package (including itself).
func SkipFunc(name string) {
	skipFunc[name] = true
}

// caller returns a string containing filename and line number of
// the deepest function invocation on the calling goroutine's stack,
// after skipping functions in skipFunc and the caller function itself.
// If no stack information is available, it returns "?:?".
func caller() string {
	pc := make([]uintptr, 16)
	n := runtime.Callers(2, pc)
	frames := runtime.CallersFrames(pc[:n])
	for {
		f, more := frames.Next()
		if f.Function == "" {
			return "?:?"
		}
		if !skipFunc[f.Function] {
			return filepath.Base(f.File) + ":" + strconv.Itoa(f.Line)
		}
		if !more {
			return "?:?"
		}
	}
}
