// Package outcome assembles the uniform result record that every fetch
// returns.  Callers branch on the record's fields (Success, ExitCode,
// IsTimeout) instead of re-parsing error text; the CLI maps ExitCode
// straight to the process exit status.
//
// Records are built through Success and Failure rather than struct
// literals.  Failure derives the exit code, message, and timeout flag from
// the classifier's verdict, and Success forces exit code 0, so a record
// can never claim success with a failing exit code or a timeout with the
// wrong code.
package outcome

import (
	"fmt"
	"strings"
	"time"

	"github.com/jwalton/tabdl/pkg/classify"
	"github.com/jwalton/tabdl/pkg/table"
)

const timestampLayout = "2006-01-02 15:04:05 MST"

// Record is the uniform result of a fetch.
type Record struct {
	// Success is true iff the fetch completed without error.
	Success bool
	// Table is the parsed payload.  Nil unless Success is true.
	Table *table.Table
	// ExitCode is the process exit code for this outcome: 0 success,
	// 1 generic failure, 2 timeout.
	ExitCode int
	// Message is a human-readable description.  Never empty on failure.
	Message string
	// Checksum is the hex digest of the payload, or "" if not computed.
	// Always "" on failure.
	Checksum string
	// IsTimeout is true when the failure was classified as a timeout.
	IsTimeout bool
	// CreatedAt is the time the record was built.
	CreatedAt time.Time
}

// Option is an option that can be passed to Success.
type Option func(*Record)

// WithChecksum attaches a payload digest to a success record.
func WithChecksum(digest string) Option {
	return func(record *Record) {
		record.Checksum = digest
	}
}

// WithMessage sets the message on a success record.  If unset, the message
// defaults to "OK".
func WithMessage(message string) Option {
	return func(record *Record) {
		record.Message = message
	}
}

// Success builds a record for a completed fetch.  The exit code is always
// 0 and the timeout flag always false.
func Success(tbl *table.Table, options ...Option) *Record {
	record := &Record{
		Success:   true,
		Table:     tbl,
		ExitCode:  classify.ExitSuccess,
		Message:   "OK",
		CreatedAt: time.Now(),
	}

	for _, option := range options {
		option(record)
	}

	return record
}

// Failure builds a record from the classifier's verdict.  Exit code,
// message, and the timeout flag all come from the verdict, so the record
// cannot contradict the classification.
func Failure(verdict classify.Verdict) *Record {
	return &Record{
		Success:   false,
		ExitCode:  verdict.ExitCode,
		Message:   verdict.Message,
		IsTimeout: verdict.Category == classify.Timeout,
		CreatedAt: time.Now(),
	}
}

// FailureErr is a convenience wrapper that classifies err and builds a
// failure record from the verdict.
func FailureErr(err error) *Record {
	return Failure(classify.ClassifyErr(err))
}

// Summary returns a one-line human-readable view of the record.  This is
// presentation only - nothing parses it.
func (record *Record) Summary() string {
	var b strings.Builder

	if record.Success {
		b.WriteString("SUCCESS")
	} else {
		b.WriteString("FAILED")
	}
	fmt.Fprintf(&b, " (exit %d): %s", record.ExitCode, record.Message)

	if record.Table != nil {
		fmt.Fprintf(&b, " (%d rows)", record.Table.NumRows())
	}
	if record.Checksum != "" {
		fmt.Fprintf(&b, " [blake3:%s]", record.Checksum)
	}
	fmt.Fprintf(&b, " at %s", record.CreatedAt.Format(timestampLayout))

	return b.String()
}
