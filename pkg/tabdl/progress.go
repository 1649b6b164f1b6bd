package tabdl

import (
	"github.com/jwalton/tabdl/pkg/download"
	"github.com/jwalton/tabdl/pkg/outcome"
)

// FetchReporter is an interface for receiving progress updates from tabdl.
type FetchReporter interface {
	// FetchStart is called when a fetch begins.
	FetchStart(url string)
	// FetchProgress is called with transfer progress when a fetch is
	// saving to disk.  In-memory fetches don't report progress.
	FetchProgress(url string, progress *download.Progress)
	// FetchEnd is called with the outcome record when a fetch finishes,
	// successfully or not.
	FetchEnd(url string, record *outcome.Record)
	// Done is called when the caller is finished with the reporter.
	Done()
}

// NewDownloadProgressWrapper returns a download.FileProgressCallback which
// forwards progress to the given reporter.
func NewDownloadProgressWrapper(reporter FetchReporter, url string) download.FileProgressCallback {
	return func(progress *download.Progress) {
		if reporter != nil {
			reporter.FetchProgress(url, progress)
		}
	}
}
