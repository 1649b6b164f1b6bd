// Package reporters contains FetchReporter implementations for the tabdl CLI.
package reporters

import (
	"fmt"
	"os"
	"sync"

	"github.com/jwalton/gchalk"
	"github.com/jwalton/tabdl/pkg/download"
	"github.com/jwalton/tabdl/pkg/outcome"
	"github.com/jwalton/tabdl/pkg/tabdl"
)

type verboseReporter struct {
	mutex sync.Mutex
}

func (p *verboseReporter) log(message string, a ...interface{}) {
	p.mutex.Lock()
	fmt.Println(fmt.Sprintf(message, a...))
	p.mutex.Unlock()
}

func (p *verboseReporter) logError(message string, a ...interface{}) {
	p.mutex.Lock()
	os.Stderr.WriteString(gchalk.Stderr.BrightRed(fmt.Sprintf(message, a...) + "\n"))
	p.mutex.Unlock()
}

func (p *verboseReporter) FetchStart(url string) {
	p.log("Fetching:   %s", url)
}

func (p *verboseReporter) FetchProgress(url string, progress *download.Progress) {
	if progress.Warning != "" {
		p.log("Warning:    %s: %s", url, progress.Warning)
	}
	if progress.Done {
		p.log("Downloaded: %s %v/%v bytes", url, progress.Written, progress.Total)
	}
}

func (p *verboseReporter) FetchEnd(url string, record *outcome.Record) {
	if record.Success {
		p.log("Done:       %s", record.Message)
	} else {
		p.logError("Error:      %s: %s", url, record.Message)
	}
}

func (p *verboseReporter) Done() {}

// NewVerboseReporter returns a new FetchReporter which logs all activity to
// stdout.
func NewVerboseReporter() tabdl.FetchReporter {
	return &verboseReporter{}
}
