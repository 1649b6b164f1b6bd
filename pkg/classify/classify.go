// Package classify turns raw error text from a failed download into a
// categorized verdict with a stable exit code and message.  The download
// layer reports failures as human-readable strings; callers that want to
// branch on the kind of failure (retry on timeout, alert on connectivity,
// give up on HTTP errors) go through this package instead of re-parsing
// that text themselves.
package classify

import "strings"

// Category describes the kind of failure a raw error message represents.
type Category int

const (
	// Unknown is the fallback category when no pattern matches.
	Unknown Category = iota
	// Timeout means the server or gateway timed out.
	Timeout
	// Connectivity means the network itself failed (DNS, refused, unreachable).
	Connectivity
	// HTTP means the server replied with an error status.
	HTTP
)

func (c Category) String() string {
	switch c {
	case Timeout:
		return "timeout"
	case Connectivity:
		return "connectivity"
	case HTTP:
		return "http"
	default:
		return "unknown"
	}
}

// Exit codes reported to process-level consumers.  These are a contract
// with schedulers and CI wrappers - don't renumber them.
const (
	ExitSuccess = 0
	ExitFailure = 1
	ExitTimeout = 2
)

// unknownErrorText is substituted when no error text is available.
const unknownErrorText = "Unknown error"

// Verdict is the classifier's judgment of a single raw error message.
// It is produced once per message and immediately consumed to build an
// outcome record; it is never stored.
type Verdict struct {
	// Category is the kind of failure.
	Category Category
	// ExitCode is the process exit code for this kind of failure.
	ExitCode int
	// Message is the raw message with the category's prefix applied.
	Message string
}

// rule maps a category to the substrings that select it.  Rules are
// tested in order and the first hit wins, so a message mentioning both
// "connection" and "timed out" is a timeout.  Some numeric patterns
// deliberately overlap across categories (504 is timeout-only, 502/503
// are http-only); the ordering resolves the ambiguity.
type rule struct {
	category Category
	exitCode int
	prefix   string
	patterns []string
}

var rules = []rule{
	{
		category: Timeout,
		exitCode: ExitTimeout,
		prefix:   "Server timeout: ",
		patterns: []string{
			"timeout", "timed out", "time out", "connection timed out",
			"request timeout", "gateway timeout", "504", "408",
		},
	},
	{
		category: Connectivity,
		exitCode: ExitFailure,
		prefix:   "Network connectivity issue: ",
		patterns: []string{
			"resolve", "connection", "network", "internet",
			"dns", "refused", "unreachable", "host",
		},
	},
	{
		category: HTTP,
		exitCode: ExitFailure,
		prefix:   "HTTP error: ",
		patterns: []string{
			"http error", "status code", "400", "401",
			"403", "404", "500", "502", "503",
		},
	},
}

func matches(lowered string, patterns []string) bool {
	for _, pattern := range patterns {
		if strings.Contains(lowered, pattern) {
			return true
		}
	}
	return false
}

// Classify categorizes a raw error message.  Matching is case-insensitive
// and an empty message is treated as the literal text "Unknown error".
// Classify always returns a verdict - malformed input falls through to the
// Unknown category rather than producing an error.
func Classify(raw string) Verdict {
	if raw == "" {
		raw = unknownErrorText
	}

	lowered := strings.ToLower(raw)
	for _, r := range rules {
		if matches(lowered, r.patterns) {
			return Verdict{
				Category: r.category,
				ExitCode: r.exitCode,
				Message:  r.prefix + raw,
			}
		}
	}

	return Verdict{
		Category: Unknown,
		ExitCode: ExitFailure,
		Message:  "API error: " + raw,
	}
}

// ClassifyErr is a convenience wrapper for classifying a Go error.  A nil
// error behaves the same as absent text.
func ClassifyErr(err error) Verdict {
	if err == nil {
		return Classify("")
	}
	return Classify(err.Error())
}

// IsTimeout returns true if message looks like a server or gateway timeout.
// Empty input is never a timeout.
func IsTimeout(message string) bool {
	return message != "" && matches(strings.ToLower(message), rules[0].patterns)
}

// IsConnectivity returns true if message looks like a network-level failure.
// Note this tests only the connectivity patterns - a message matching both
// timeout and connectivity patterns is still classified as a timeout by
// Classify.
func IsConnectivity(message string) bool {
	return message != "" && matches(strings.ToLower(message), rules[1].patterns)
}

// IsHTTP returns true if message looks like an HTTP status error.
func IsHTTP(message string) bool {
	return message != "" && matches(strings.ToLower(message), rules[2].patterns)
}
