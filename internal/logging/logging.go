// Package logging configures the process-wide standard logger.
//
// Log lines always go to stderr; stdout carries results and the MCP protocol.
// When a log file is configured, lines are also written to a size-rotated file.
package logging

import (
	"fmt"
	"io"
	"log"
	"os"
	"sync/atomic"

	"gopkg.in/natefinch/lumberjack.v2"
)

var debug atomic.Bool

// Setup points the standard logger at stderr and, when logFile is set, a
// rotating log file. The returned function closes the file.
func Setup(logFile string, debugEnabled bool) func() error {
	return setup(os.Stderr, logFile, debugEnabled)
}

func setup(stderr io.Writer, logFile string, debugEnabled bool) func() error {
	debug.Store(debugEnabled)
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)

	if logFile == "" {
		log.SetOutput(stderr)
		return func() error { return nil }
	}

	rotator := &lumberjack.Logger{
		Filename:   logFile,
		MaxSize:    10, // MB
		MaxBackups: 2,
		MaxAge:     28, // days
		Compress:   true,
	}
	log.SetOutput(io.MultiWriter(stderr, rotator))
	return rotator.Close
}

// DebugEnabled reports whether Debugf writes anything.
func DebugEnabled() bool {
	return debug.Load()
}

// Printf logs through the standard logger.
func Printf(format string, v ...interface{}) {
	log.Output(2, fmt.Sprintf(format, v...))
}

// Debugf logs with a [DEBUG] prefix when debug logging is on.
func Debugf(format string, v ...interface{}) {
	if !debug.Load() {
		return
	}
	log.Output(2, "[DEBUG] "+fmt.Sprintf(format, v...))
}
