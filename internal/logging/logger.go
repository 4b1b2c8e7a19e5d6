// Package logging is the leveled progress logger shared by every command.
//
// Lines go to stderr as "gosurface: 15:04:05 [LEVEL] message". Warnings and
// errors always print; debug and info lines need --verbose or
// GOSURFACE_VERBOSE=1.
package logging

import (
	"io"
	"log"
	"os"
	"sync/atomic"
)

// Level is the minimum severity that is printed.
type Level int32

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	default:
		return "ERROR"
	}
}

var (
	logger = log.New(os.Stderr, "gosurface: ", log.Ltime)
	level  atomic.Int32
)

func init() {
	SetVerbose(os.Getenv("GOSURFACE_VERBOSE") == "1")
}

// SetVerbose switches between printing everything and only warnings and
// errors.
func SetVerbose(enabled bool) {
	if enabled {
		SetLevel(LevelDebug)
		return
	}
	SetLevel(LevelWarn)
}

func SetLevel(l Level) { level.Store(int32(l)) }

// Enabled reports whether lines at l are printed.
func Enabled(l Level) bool { return l >= Level(level.Load()) }

// SetOutput redirects logger output (useful for testing)
func SetOutput(w io.Writer) {
	logger.SetOutput(w)
}

func logf(l Level, format string, args ...interface{}) {
	if !Enabled(l) {
		return
	}
	logger.Printf("["+l.String()+"] "+format, args...)
}

func Debugf(format string, args ...interface{}) { logf(LevelDebug, format, args...) }

func Infof(format string, args ...interface{}) { logf(LevelInfo, format, args...) }

func Warnf(format string, args ...interface{}) { logf(LevelWarn, format, args...) }

func Errorf(format string, args ...interface{}) { logf(LevelError, format, args...) }
