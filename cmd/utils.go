package cmd

import (
	"os"

	"github.com/jwalton/go-supportscolor"
	"github.com/jwalton/tabdl/cmd/reporters"
	"github.com/jwalton/tabdl/pkg/classify"
	"github.com/jwalton/tabdl/pkg/outcome"
	"github.com/jwalton/tabdl/pkg/tabdl"
)

func getReporter(verbose bool) tabdl.FetchReporter {
	var result tabdl.FetchReporter

	if verbose || !supportscolor.Stdout().SupportsColor {
		result = reporters.NewVerboseReporter()
	} else {
		var err error
		result, err = reporters.NewProgressBarReporter()
		if err != nil {
			result = reporters.NewVerboseReporter()
		}
	}

	return result
}

// outcomeForSave builds the outcome record for a raw save-to-disk download.
func outcomeForSave(err error, filename string) *outcome.Record {
	if err != nil {
		return outcome.FailureErr(err)
	}
	return outcome.Success(nil, outcome.WithMessage("Saved "+filename))
}

// exit maps the outcome's exit code to the process exit status.  Success
// falls through to a normal return.
func exit(code int) {
	if code != classify.ExitSuccess {
		os.Exit(code)
	}
}
