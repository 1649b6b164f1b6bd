// Package download is the HTTP layer tabdl fetches data through.  It
// retries recoverable errors, can resume interrupted file transfers, and
// reports failures as plain text messages - the classify package turns
// those messages into verdicts.
package download

import (
	"errors"
	"fmt"
	"io"
	"io/ioutil"
	"net/http"
	"os"
	"strings"
	"time"
)

const partialSuffix = ".part"
const defaultMaxRetries = 5
const defaultRetryDelay = 5 * time.Second
const defaultUserAgent = "tabdl"

// Client is a client to use for downloading data.  Note that you must
// construct a Client via `NewClient`.
type Client struct {
	httpClient *http.Client
	userAgent  string
	MaxRetries uint
	RetryDelay time.Duration
}

// Option is an option that can be passed to NewClient.
type Option func(client *Client)

// WithClient is an option for NewClient that allows you to specify the
// http.Client to use.  If unspecified, the Client will use
// http.DefaultClient.
func WithClient(httpClient *http.Client) Option {
	return func(client *Client) {
		client.httpClient = httpClient
	}
}

// MaxRetries is an option for NewClient that sets the maximum number of
// times the Client will attempt the same fetch before giving up.  The
// Client only retries "recoverable" errors, such as 5xx replies.
func MaxRetries(retries uint) Option {
	return func(client *Client) {
		client.MaxRetries = retries
	}
}

// RetryDelay is an option for NewClient that sets the pause between retries.
func RetryDelay(delay time.Duration) Option {
	return func(client *Client) {
		client.RetryDelay = delay
	}
}

// UserAgent is an option for NewClient that sets the User-Agent header sent
// with every request.
func UserAgent(userAgent string) Option {
	return func(client *Client) {
		client.userAgent = userAgent
	}
}

// NewClient creates a new download Client.
func NewClient(options ...Option) *Client {
	client := &Client{
		httpClient: http.DefaultClient,
		userAgent:  defaultUserAgent,
		MaxRetries: defaultMaxRetries,
		RetryDelay: defaultRetryDelay,
	}

	for _, option := range options {
		option(client)
	}

	return client
}

// NewGetRequest creates a GET request with the client's User-Agent set.
func (client *Client) NewGetRequest(url string) (*http.Request, error) {
	req, err := http.NewRequest("GET", url, nil)
	if err != nil {
		return nil, err
	}

	req.Header.Set("User-Agent", client.userAgent)
	return req, nil
}

// GetBytes fetches the contents of a URL into memory, retrying recoverable
// errors.  This is the path tabular payloads come in through; the error
// text returned here is what gets classified on the failure path.
func (client *Client) GetBytes(url string) ([]byte, error) {
	request, err := client.NewGetRequest(url)
	if err != nil {
		return nil, err
	}

	triesLeft := client.MaxRetries + 1
	for {
		data, httpErr := client.doGetBytes(request)
		if httpErr == nil {
			return data, nil
		}

		triesLeft--
		if !httpErr.canRetry || triesLeft <= 0 {
			return nil, httpErr
		}

		// Short pause here, to give the server time to think about
		// it's life choices...
		<-time.After(client.RetryDelay)
	}
}

func (client *Client) doGetBytes(request *http.Request) ([]byte, *httpError) {
	resp, err := client.httpClient.Do(request)
	if err != nil {
		return nil, &httpError{message: err.Error()}
	}
	defer resp.Body.Close()

	if httpErr := checkStatus(resp); httpErr != nil {
		return nil, httpErr
	}

	data, err := ioutil.ReadAll(resp.Body)
	if err != nil {
		return nil, &httpError{
			canRetry: true,
			message:  fmt.Sprintf("Error reading %s: %v", request.URL.String(), err),
		}
	}

	return data, nil
}

// checkStatus converts an error reply into an httpError.  5xx replies are
// retryable; everything else in the error range is not.  The message
// includes the numeric status so the classifier can categorize it.
func checkStatus(resp *http.Response) *httpError {
	if resp.StatusCode >= 500 && resp.StatusCode < 600 {
		return &httpError{canRetry: true, message: fmt.Sprintf("Server replied with status code %d", resp.StatusCode)}
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &httpError{message: fmt.Sprintf("Server replied with status code %d", resp.StatusCode)}
	}
	return nil
}

// GetFile downloads a file using a simple GET request to the specified URL.
func (client *Client) GetFile(url string, filename string, reporter FileProgressCallback) (written int64, err error) {
	request, err := client.NewGetRequest(url)
	if err != nil {
		if reporter != nil {
			reporter(newErrorProgress(request, url, filename, nil, err))
		}
		return 0, err
	}

	return client.Do(request, filename, reporter)
}

// Do will execute an http.Request, similar to `http.Do`, but will save the
// result to the specified filename, and will call `reporter` with progress
// as the file is downloaded.  Do() will also automatically retry on errors,
// and will resume a file if the transfer is interrupted.
//
// The file actually written to disk will be `filename.part` - the file will
// be renamed to the final filename once the download is complete.
func (client *Client) Do(
	request *http.Request,
	filename string,
	reporter FileProgressCallback,
) (written int64, err error) {
	return client.DoWithFileInfo(request, filename, nil, reporter)
}

// DoWithFileInfo is similar to Do(), but will not try to fetch
// RemoteFileInfo from the remote server if you pass a non-nil remoteInfo -
// handy when you've already fetched the file info.
func (client *Client) DoWithFileInfo(
	request *http.Request,
	filename string,
	remoteInfo *RemoteFileInfo,
	reporter FileProgressCallback,
) (written int64, err error) {
	if remoteInfo == nil {
		// Ignore error from DoFileInfo - possibly the remote doesn't support HEAD.
		// Press on, and we'll probably error out down below.
		remoteInfo, _ = client.DoFileInfo(request)
	}
	pw := newProgressWriter(request, filename, remoteInfo, reporter)
	var totalWritten int64 = 0

	triesLeft := client.MaxRetries + 1
	downloading := true
	for downloading {
		written, httpErr := client.doDownload(request, filename, remoteInfo, pw)
		totalWritten += written

		if httpErr != nil {
			if httpErr.canRetry {
				if strings.Contains(httpErr.Error(), "INTERNAL_ERROR") && written > 0 && remoteInfo.CanResume {
					// See these fairly often from some servers - if we see these
					// and `remoteInfo.CanResume`, then don't count against triesLeft,
					// keep going.
				} else {
					pw.Warn(fmt.Sprintf("Error: %v - will retry", httpErr))
					triesLeft--
					<-time.After(client.RetryDelay)
				}
			}

			if !httpErr.canRetry || triesLeft <= 0 {
				downloading = false
				err = httpErr
			}
		} else {
			// We're done!
			downloading = false
		}
	}

	pw.Close(err)

	return totalWritten, err
}

// openFileForWriting opens a file for writing.
//
// If canResume is true, and the file already exists, we'll open it for
// appending.  Returns the file, the place we would like to start writing in
// the file, and an error.
func openFileForWriting(filename string, canResume bool) (file *os.File, size int64, httpErr *httpError) {
	// See if the file already exists.
	info, err := os.Stat(filename)
	if errors.Is(err, os.ErrNotExist) {
		// Drop through to create a new file case below.
	} else if err != nil {
		return nil, 0, &httpError{message: "Could not stat file " + filename}
	} else if canResume {
		// We can resume!
		file, err := os.OpenFile(filename, os.O_APPEND|os.O_WRONLY|os.O_CREATE, 0644)
		if err != nil {
			return nil, 0, &httpError{message: "Could not open file for appending"}
		}
		return file, info.Size(), nil
	}

	// Create a new file
	file, err = os.OpenFile(filename, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return nil, 0, &httpError{message: "Could not open file"}
	}
	return file, 0, nil
}

func (client *Client) doDownload(
	request *http.Request,
	filename string,
	remoteInfo *RemoteFileInfo,
	pw *progressWriter,
) (written int64, httpErr *httpError) {
	file, existingSize, httpErr := openFileForWriting(filename+partialSuffix, remoteInfo.CanResume)
	// Don't defer close of the file so we can rename the file after we close it.

	if httpErr != nil {
		return 0, httpErr
	}

	// Start the HTTP request.
	var err error
	var resp *http.Response
	if existingSize > 0 {
		resp, err = client.resumeDownload(request, existingSize, remoteInfo.Size-1)
		pw.setSize(existingSize)
	} else {
		resp, err = client.httpClient.Do(request)
		pw.setSize(0)
	}

	if err != nil {
		_ = file.Close()
		return 0, &httpError{message: err.Error()}
	}

	defer resp.Body.Close()

	if httpErr := checkStatus(resp); httpErr != nil {
		_ = file.Close()
		return 0, httpErr
	}

	if resp.ContentLength > -1 {
		pw.progress.Total = existingSize + resp.ContentLength
	} else {
		pw.progress.Total = -1
	}

	// Copy data from the HTTP request to the file.
	written, err = io.Copy(file, io.TeeReader(resp.Body, pw))
	if err != nil {
		_ = file.Close()
		// Sometimes we see random "stream error: stream ID x; INTERNAL_ERROR"
		// from certain sites.  If we see these, especially if the server
		// supports resume, we should retry.
		httpErr = &httpError{canRetry: true, message: fmt.Sprintf("Error downloading %s: %v", request.URL.String(), err)}
		return written, httpErr
	}

	if err = file.Close(); err != nil {
		httpErr = &httpError{message: fmt.Sprintf("Error closing %s: %v", filename+partialSuffix, err)}
		return written, httpErr
	}

	// Move the file to the final destination.
	if err = os.Rename(filename+partialSuffix, filename); err != nil {
		httpErr = &httpError{
			message: fmt.Sprintf("Error renaming %s to %s: %v", filename+partialSuffix, filename, err),
		}
		return written, httpErr
	}

	// Set the modified time of the file to match the one on the server.
	if remoteInfo.LastModified != nil {
		_ = os.Chtimes(filename, time.Now(), *remoteInfo.LastModified)
	}

	return written, nil
}

func (client *Client) resumeDownload(request *http.Request, start int64, end int64) (*http.Response, error) {
	req := request.Clone(request.Context())
	req.Header.Add("Range", fmt.Sprintf("bytes=%d-%d", start, end))
	return client.httpClient.Do(req)
}
