package download

import (
	"sync/atomic"
	"time"

	"github.com/cavaliercoder/grab"
)

// Response is a thread-safe object for reading data about a file transfer
// in progress.  Responses are returned by SaveFile.
type Response struct {
	// URL is the URL this file is being downloaded from.
	URL string
	// File is the full path of the file on disk.
	File string
	resp *grab.Response
	done int32
}

// SaveFile starts downloading a URL straight to disk, via grab, and returns
// immediately.  Use the returned Response to poll the transfer, or Wait to
// block until it finishes.  This is the raw save path (`tabdl get --save`);
// payloads that need parsing go through GetBytes instead.
func (client *Client) SaveFile(url string, filename string) (*Response, error) {
	req, err := grab.NewRequest(filename, url)
	if err != nil {
		return nil, err
	}
	req.HTTPRequest.Header.Set("User-Agent", client.userAgent)

	grabClient := grab.NewClient()
	grabClient.HTTPClient = client.httpClient

	resp := grabClient.Do(req)

	response := &Response{
		URL:  url,
		File: resp.Filename,
		resp: resp,
	}

	go func() {
		<-resp.Done
		response.setDone()
	}()

	return response, nil
}

// Wait blocks until the transfer completes, and returns the transfer error,
// if any.
func (r *Response) Wait() error {
	err := r.resp.Err()
	r.setDone()
	return err
}

// Poll sends transfer progress to reporter every interval until the
// transfer completes, then returns the transfer error, if any.  grab
// closes the underlying Done channel on completion, so Poll can be used
// alongside Wait.
func (r *Response) Poll(interval time.Duration, reporter FileProgressCallback) error {
	progress := &Progress{URL: r.URL, File: r.File}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			r.updateProgress(progress)
			if reporter != nil {
				reporter(progress)
			}
		case <-r.resp.Done:
			r.setDone()
			r.updateProgress(progress)
			progress.Done = true
			progress.Err = r.resp.Err()
			if reporter != nil {
				reporter(progress)
			}
			return progress.Err
		}
	}
}

func (r *Response) updateProgress(progress *Progress) {
	progress.Total = r.resp.Size()
	progress.Written = r.resp.BytesComplete()
	if progress.Total > 0 {
		progress.PercentComplete = float64(progress.Written) / float64(progress.Total) * 100.0
	} else {
		progress.PercentComplete = -1
	}
}

// Size returns the total size of this file, or -1 if the size is unknown.
func (r *Response) Size() int64 {
	return r.resp.Size()
}

// Written returns the number of bytes written to disk.
func (r *Response) Written() int64 {
	return r.resp.BytesComplete()
}

// Done returns true if this file transfer is complete.
func (r *Response) Done() bool {
	return atomic.LoadInt32(&r.done) == 1
}

func (r *Response) setDone() {
	atomic.StoreInt32(&r.done, 1)
}

// Err returns an error if this transfer failed, or nil if successful or not
// complete yet.
func (r *Response) Err() error {
	if r.Done() {
		return r.resp.Err()
	}
	return nil
}
