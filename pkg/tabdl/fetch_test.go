package tabdl

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/jwalton/tabdl/pkg/download"
	"github.com/jwalton/tabdl/pkg/outcome"
)

type recordingReporter struct {
	mutex   sync.Mutex
	started []string
	records map[string]*outcome.Record
}

func newRecordingReporter() *recordingReporter {
	return &recordingReporter{records: map[string]*outcome.Record{}}
}

func (r *recordingReporter) FetchStart(url string) {
	r.mutex.Lock()
	r.started = append(r.started, url)
	r.mutex.Unlock()
}

func (r *recordingReporter) FetchProgress(url string, progress *download.Progress) {}

func (r *recordingReporter) FetchEnd(url string, record *outcome.Record) {
	r.mutex.Lock()
	r.records[url] = record
	r.mutex.Unlock()
}

func (r *recordingReporter) Done() {}

func testClient() *download.Client {
	return download.NewClient(download.MaxRetries(0), download.RetryDelay(time.Millisecond))
}

func TestFetchCSV(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/csv")
		w.Write([]byte("name,age\nalice,30\nbob,25\n"))
	}))
	defer server.Close()

	reporter := newRecordingReporter()
	record := fetchWithClient(testClient(), server.URL, FetchOptions{}, reporter)

	require.True(t, record.Success)
	assert.Equal(t, 0, record.ExitCode)
	assert.Equal(t, 2, record.Table.NumRows())
	assert.Equal(t, []string{"name", "age"}, record.Table.Columns)
	assert.Contains(t, record.Message, "Fetched 2 rows")

	assert.Equal(t, []string{server.URL}, reporter.started)
	assert.Equal(t, record, reporter.records[server.URL])
}

func TestFetchHTMLTable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write([]byte(`<html><body><table>
			<tr><th>city</th></tr>
			<tr><td>yyz</td></tr>
		</table></body></html>`))
	}))
	defer server.Close()

	record := fetchWithClient(testClient(), server.URL, FetchOptions{}, nil)

	require.True(t, record.Success)
	assert.Equal(t, []string{"city"}, record.Table.Columns)
	assert.Equal(t, 1, record.Table.NumRows())
}

func TestFetchWithChecksum(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/csv")
		w.Write([]byte("a\n1\n"))
	}))
	defer server.Close()

	record := fetchWithClient(testClient(), server.URL, FetchOptions{Checksum: true}, nil)

	require.True(t, record.Success)
	assert.Len(t, record.Checksum, 64)
}

func TestFetchHTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(404)
	}))
	defer server.Close()

	record := fetchWithClient(testClient(), server.URL, FetchOptions{Format: FormatCSV}, nil)

	require.False(t, record.Success)
	assert.Equal(t, 1, record.ExitCode)
	assert.False(t, record.IsTimeout)
	assert.Equal(t, "HTTP error: Server replied with status code 404", record.Message)
	assert.Nil(t, record.Table)
}

func TestFetchGatewayTimeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(504)
	}))
	defer server.Close()

	record := fetchWithClient(testClient(), server.URL, FetchOptions{Format: FormatCSV}, nil)

	require.False(t, record.Success)
	assert.Equal(t, 2, record.ExitCode)
	assert.True(t, record.IsTimeout)
	assert.Equal(t, "Server timeout: Server replied with status code 504", record.Message)
}

type errorTransport struct {
	err error
}

func (t errorTransport) RoundTrip(*http.Request) (*http.Response, error) {
	return nil, t.err
}

func TestFetchConnectivityError(t *testing.T) {
	// Simulate a DNS failure from the network stack.
	httpClient := &http.Client{
		Transport: errorTransport{err: errors.New("dial tcp: lookup api.example.test: no such host")},
	}
	client := download.NewClient(
		download.WithClient(httpClient),
		download.MaxRetries(0),
		download.RetryDelay(time.Millisecond),
	)

	record := fetchWithClient(client, "http://api.example.test/data", FetchOptions{Format: FormatCSV}, nil)

	require.False(t, record.Success)
	assert.Equal(t, 1, record.ExitCode)
	assert.False(t, record.IsTimeout)
	assert.Contains(t, record.Message, "Network connectivity issue: ")
}

func TestFetchParseError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte("<html><body><p>not a table</p></body></html>"))
	}))
	defer server.Close()

	record := fetchWithClient(testClient(), server.URL, FetchOptions{}, nil)

	require.False(t, record.Success)
	assert.Equal(t, 1, record.ExitCode)
	assert.NotEmpty(t, record.Message)
}

func TestDetectFormat(t *testing.T) {
	assert.Equal(t, FormatHTML, detectFormat("http://x/data", &download.RemoteFileInfo{MimeType: "text/html"}))
	assert.Equal(t, FormatCSV, detectFormat("http://x/data", &download.RemoteFileInfo{MimeType: "text/csv"}))
	assert.Equal(t, FormatHTML, detectFormat("http://x/page.html", &download.RemoteFileInfo{}))
	assert.Equal(t, FormatCSV, detectFormat("http://x/data.csv", &download.RemoteFileInfo{}))
	assert.Equal(t, FormatCSV, detectFormat("http://x/data", nil))
}
