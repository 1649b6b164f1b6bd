package tabdl

import (
	"sync"
	"sync/atomic"

	"github.com/jwalton/tabdl/pkg/download"
)

const defaultMaxConcurrency = 4

// Fetcher is an object that can fetch multiple tabular resources.
type Fetcher interface {
	// FetchURL queues a URL to be fetched.  The outcome is delivered to
	// the reporter's FetchEnd.
	FetchURL(url string, options FetchOptions, reporter FetchReporter)

	// Wait will block until all queued fetches are done.
	Wait()

	// Close will shut down the Fetcher and prevent any further fetches.
	Close()

	// IsClosed will return true if this Fetcher has been closed.
	IsClosed() bool
}

type fetchRequest struct {
	url      string
	options  FetchOptions
	reporter FetchReporter
}

type concurrentFetcher struct {
	client *download.Client
	ch     chan *fetchRequest
	wg     *sync.WaitGroup
	// mutex serializes queueing against Close, so FetchURL can never send
	// on a closed channel.
	mutex          sync.Mutex
	closed         int32
	maxConcurrency uint
}

// FetcherOption is an option that can be passed to NewConcurrentFetcher().
type FetcherOption func(*concurrentFetcher)

// SetMaxConcurrency is an option for NewConcurrentFetcher which sets the
// maximum number of goroutines which will be spawned to fetch URLs.
func SetMaxConcurrency(maxConcurrency uint) FetcherOption {
	return func(fetcher *concurrentFetcher) {
		if fetcher.ch == nil && maxConcurrency > 0 {
			fetcher.maxConcurrency = maxConcurrency
			fetcher.ch = make(chan *fetchRequest, maxConcurrency*10)
		}
	}
}

// SetClient is an option for NewConcurrentFetcher which sets the download
// client to fetch through.
func SetClient(client *download.Client) FetcherOption {
	return func(fetcher *concurrentFetcher) {
		fetcher.client = client
	}
}

// NewConcurrentFetcher returns a Fetcher which fetches multiple URLs
// simultaneously in goroutines.
func NewConcurrentFetcher(options ...FetcherOption) Fetcher {
	fetcher := &concurrentFetcher{
		client: client,
		wg:     &sync.WaitGroup{},
	}

	for _, option := range options {
		option(fetcher)
	}

	if fetcher.ch == nil {
		SetMaxConcurrency(defaultMaxConcurrency)(fetcher)
	}

	for i := uint(0); i < fetcher.maxConcurrency; i++ {
		go fetcher.startWorker(fetcher.ch)
	}

	return fetcher
}

// startWorker will start a worker that listens to the specified channel,
// and fetches any URLs sent to the channel.  If the channel closes, the
// worker will finish the fetch it is working on, and then terminate.
func (fetcher *concurrentFetcher) startWorker(ch <-chan *fetchRequest) {
	for req := range ch {
		fetchWithClient(fetcher.client, req.url, req.options, req.reporter)
		fetcher.wg.Done()
	}
}

func (fetcher *concurrentFetcher) FetchURL(url string, options FetchOptions, reporter FetchReporter) {
	fetcher.mutex.Lock()
	if fetcher.IsClosed() {
		fetcher.mutex.Unlock()
		if reporter != nil {
			reporter.FetchEnd(url, closedRecord())
		}
		return
	}
	fetcher.wg.Add(1)
	fetcher.ch <- &fetchRequest{url, options, reporter}
	fetcher.mutex.Unlock()
}

func (fetcher *concurrentFetcher) Wait() {
	fetcher.wg.Wait()
}

func (fetcher *concurrentFetcher) Close() {
	fetcher.mutex.Lock()
	if atomic.CompareAndSwapInt32(&fetcher.closed, 0, 1) {
		// Stop the workers...
		close(fetcher.ch)
	}
	fetcher.mutex.Unlock()

	// Block until everything is done.
	fetcher.wg.Wait()
}

func (fetcher *concurrentFetcher) IsClosed() bool {
	return atomic.LoadInt32(&fetcher.closed) == 1
}
