package log

import (
	"bytes"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
)

// Scrapers depend on this exact line shape.
var lineFormat = regexp.MustCompile(`^\d{4}-\d{2}-\d{2} \d{2}:\d{2}:\d{2} [A-Za-z0-9+-]+ \[INFO\] - hello world\n$`)

func TestLogFormat(t *testing.T) {
	buffer := &bytes.Buffer{}
	logger := &Logger{Verbose: true, Out: buffer}

	logger.Info("hello world")

	assert.Regexp(t, lineFormat, buffer.String())
}

func TestLogLevels(t *testing.T) {
	buffer := &bytes.Buffer{}
	logger := &Logger{Verbose: true, Out: buffer}

	logger.Log("warn", LevelWarning)
	assert.Contains(t, buffer.String(), "[WARNING] - warn")

	buffer.Reset()
	logger.Log("boom", LevelError)
	assert.Contains(t, buffer.String(), "[ERROR] - boom")
}

// A non-stderr sink gets the plain line with no ANSI escapes, whatever the
// process's stderr happens to be.
func TestLogNoEscapesForCustomWriter(t *testing.T) {
	buffer := &bytes.Buffer{}
	logger := &Logger{Verbose: true, Out: buffer}

	logger.Error("boom")

	assert.NotContains(t, buffer.String(), "\x1b[")
	assert.Regexp(t, `\[ERROR\] - boom\n$`, buffer.String())
}

func TestLogNotVerbose(t *testing.T) {
	buffer := &bytes.Buffer{}
	logger := &Logger{Verbose: false, Out: buffer}

	logger.Info("should not appear")
	logger.Error("should not appear either")

	assert.Empty(t, buffer.String())
}
