package download

// httpError is a download failure.  The message is plain text meant for
// the classifier; canRetry marks recoverable failures the client's retry
// loop is allowed to re-attempt.
type httpError struct {
	message  string
	canRetry bool
}

func (err *httpError) Error() string {
	return err.message
}
