// Package log is the diagnostic logger for tabdl.  Lines are written to
// stderr as "YYYY-MM-DD HH:MM:SS ZON [LEVEL] - message" - this exact shape
// is relied on by downstream log scrapers, so don't change it.
package log

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/jwalton/gchalk"
)

const timestampLayout = "2006-01-02 15:04:05 MST"

// Level is the severity of a log line.
type Level string

const (
	LevelInfo    Level = "INFO"
	LevelWarning Level = "WARNING"
	LevelError   Level = "ERROR"
)

// Logger writes timestamped, level-tagged lines to a diagnostic stream.
// The zero value is a silent logger; set Verbose to enable output.
type Logger struct {
	// Verbose enables output.  When false, Log is a no-op.
	Verbose bool
	// Out is the stream to write to.  Defaults to stderr.
	Out io.Writer
}

// NewLogger returns a Logger writing to stderr.
func NewLogger(verbose bool) *Logger {
	return &Logger{Verbose: verbose, Out: os.Stderr}
}

// Log writes a line at the given level.  No-op when the logger is not
// verbose.
func (l *Logger) Log(message string, level Level) {
	if !l.Verbose {
		return
	}

	out := l.Out
	if out == nil {
		out = os.Stderr
	}

	line := fmt.Sprintf("%s [%s] - %s\n", time.Now().Format(timestampLayout), level, message)

	// Only color when writing to the real stderr - any other sink gets the
	// plain line, escape-free.
	if file, ok := out.(*os.File); ok && file == os.Stderr {
		line = colorize(line, level)
	}

	fmt.Fprint(out, line)
}

// Info logs a message at INFO level.
func (l *Logger) Info(message string) {
	l.Log(message, LevelInfo)
}

// Warning logs a message at WARNING level.
func (l *Logger) Warning(message string) {
	l.Log(message, LevelWarning)
}

// Error logs a message at ERROR level.
func (l *Logger) Error(message string) {
	l.Log(message, LevelError)
}

func colorize(line string, level Level) string {
	switch level {
	case LevelWarning:
		return gchalk.Stderr.Yellow(line)
	case LevelError:
		return gchalk.Stderr.BrightRed(line)
	default:
		return line
	}
}

// LogError writes an error message to stderr.
func LogError(message interface{}) {
	LogErrorf("%v", message)
}

// LogErrorf writes a formatted error message to stderr.
func LogErrorf(message string, a ...interface{}) {
	os.Stderr.Write([]byte(gchalk.Stderr.BrightRed(fmt.Sprintf(message, a...)) + "\n"))
}

// LogFatal writes an error message to stderr, and then exits with a non-zero
// status code.
func LogFatal(message interface{}) {
	LogFatalf("%v", message)
}

// DieOnError will write an error message to stderr and exit with non-zero
// status if err is not nil.
func DieOnError(err error) {
	if err != nil {
		LogFatalf("%v", err)
	}
}

// LogFatalf writes a formatted error message to stderr, and then exits with
// a non-zero status code.
func LogFatalf(message string, a ...interface{}) {
	LogErrorf(message, a...)
	os.Exit(1)
}
