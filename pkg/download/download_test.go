package download

import (
	"io/ioutil"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetBytes(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "tabdl", r.Header.Get("User-Agent"))
		w.Write([]byte("name,age\nalice,30\n"))
	}))
	defer server.Close()

	client := NewClient()
	data, err := client.GetBytes(server.URL)
	require.NoError(t, err)
	assert.Equal(t, "name,age\nalice,30\n", string(data))
}

func TestGetBytesNotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(404)
	}))
	defer server.Close()

	client := NewClient()
	_, err := client.GetBytes(server.URL)
	require.Error(t, err)

	// The error text carries the status code for the classifier.
	assert.Equal(t, "Server replied with status code 404", err.Error())
}

func TestGetBytesRetriesServerErrors(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			w.WriteHeader(503)
			return
		}
		w.Write([]byte("ok"))
	}))
	defer server.Close()

	client := NewClient(MaxRetries(5), RetryDelay(time.Millisecond))
	data, err := client.GetBytes(server.URL)
	require.NoError(t, err)
	assert.Equal(t, "ok", string(data))
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
}

func TestGetBytesGivesUpAfterMaxRetries(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(504)
	}))
	defer server.Close()

	client := NewClient(MaxRetries(1), RetryDelay(time.Millisecond))
	_, err := client.GetBytes(server.URL)
	require.Error(t, err)
	assert.Equal(t, "Server replied with status code 504", err.Error())
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestGetBytesDoesNotRetryClientErrors(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(403)
	}))
	defer server.Close()

	client := NewClient(MaxRetries(5), RetryDelay(time.Millisecond))
	_, err := client.GetBytes(server.URL)
	require.Error(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestGetFile(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("file contents"))
	}))
	defer server.Close()

	dir := t.TempDir()
	filename := filepath.Join(dir, "out.csv")

	var sawDone bool
	client := NewClient(RetryDelay(time.Millisecond))
	written, err := client.GetFile(server.URL, filename, func(progress *Progress) {
		if progress.Done {
			sawDone = true
			assert.NoError(t, progress.Err)
		}
	})
	require.NoError(t, err)
	assert.Equal(t, int64(13), written)
	assert.True(t, sawDone)

	data, err := ioutil.ReadFile(filename)
	require.NoError(t, err)
	assert.Equal(t, "file contents", string(data))

	// The .part file should be gone.
	_, err = os.Stat(filename + partialSuffix)
	assert.True(t, os.IsNotExist(err))
}

func TestGetFileServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(500)
	}))
	defer server.Close()

	dir := t.TempDir()

	client := NewClient(MaxRetries(0), RetryDelay(time.Millisecond))
	_, err := client.GetFile(server.URL, filepath.Join(dir, "out.bin"), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "500")
}
