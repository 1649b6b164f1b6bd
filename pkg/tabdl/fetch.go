// Package tabdl fetches tabular data from URLs and reports each fetch as a
// uniform outcome record.  A fetch never panics or escalates - whatever
// goes wrong, the caller gets back a record whose exit code and message
// come from classifying the failure.
package tabdl

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/jwalton/tabdl/pkg/checksum"
	"github.com/jwalton/tabdl/pkg/download"
	"github.com/jwalton/tabdl/pkg/outcome"
	"github.com/jwalton/tabdl/pkg/table"
)

// Format identifies the format of a remote tabular resource.
type Format string

const (
	// FormatAuto sniffs the format from the server's mime type and the URL.
	FormatAuto Format = "auto"
	// FormatCSV parses the payload as CSV.
	FormatCSV Format = "csv"
	// FormatHTML extracts the first <table> from an HTML payload.
	FormatHTML Format = "html"
)

// FetchOptions are options for a single fetch.
type FetchOptions struct {
	// Format is the payload format.  Defaults to FormatAuto.
	Format Format
	// Checksum enables computing a digest of the raw payload.
	Checksum bool
}

var client = download.NewClient()

// Fetch downloads the tabular resource at url and returns an outcome
// record.  Fetch always returns a record - on failure the record carries
// the classified exit code and message.  reporter may be nil.
func Fetch(url string, options FetchOptions, reporter FetchReporter) *outcome.Record {
	return fetchWithClient(client, url, options, reporter)
}

func fetchWithClient(
	client *download.Client,
	url string,
	options FetchOptions,
	reporter FetchReporter,
) *outcome.Record {
	if reporter != nil {
		reporter.FetchStart(url)
	}

	record := doFetch(client, url, options)

	if reporter != nil {
		reporter.FetchEnd(url, record)
	}

	return record
}

func doFetch(client *download.Client, url string, options FetchOptions) *outcome.Record {
	format := options.Format
	if format == "" {
		format = FormatAuto
	}

	if format == FormatAuto {
		// Ask the server what this is.  If the probe fails we'll fall back
		// to guessing from the URL; the GET below will surface any real error.
		info, _ := client.GetFileInfo(url)
		format = detectFormat(url, info)
	}

	data, err := client.GetBytes(url)
	if err != nil {
		return outcome.FailureErr(err)
	}

	tbl, err := parse(format, data)
	if err != nil {
		return outcome.FailureErr(err)
	}

	successOptions := []outcome.Option{
		outcome.WithMessage(fmt.Sprintf("Fetched %d rows from %s", tbl.NumRows(), url)),
	}
	if options.Checksum {
		successOptions = append(successOptions, outcome.WithChecksum(checksum.Sum(data)))
	}

	return outcome.Success(tbl, successOptions...)
}

// detectFormat picks a parser from the HEAD probe's mime type, falling back
// to the URL extension.  CSV is the default when nothing else matches.
func detectFormat(url string, info *download.RemoteFileInfo) Format {
	if info != nil {
		switch info.MimeType {
		case "text/html", "application/xhtml+xml":
			return FormatHTML
		case "text/csv", "application/csv":
			return FormatCSV
		}
	}

	if strings.HasSuffix(strings.ToLower(url), ".html") || strings.HasSuffix(strings.ToLower(url), ".htm") {
		return FormatHTML
	}

	return FormatCSV
}

// closedRecord is the outcome delivered for fetches queued after Close.
func closedRecord() *outcome.Record {
	return outcome.FailureErr(fmt.Errorf("fetcher closed"))
}

func parse(format Format, data []byte) (*table.Table, error) {
	switch format {
	case FormatHTML:
		return table.ExtractHTML(bytes.NewReader(data))
	default:
		return table.ReadCSV(bytes.NewReader(data))
	}
}
