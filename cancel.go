package kurir

import "sync"

// CancelFunc requests cancellation of the operation its token is attached to.
// The message becomes the CancelError carried to every observer. Calling it
// more than once has no effect beyond the first call.
type CancelFunc func(message string)

// CancelToken is a one-shot, observe-many cancellation signal. A token is
// created per logical operation and may be shared across sequential dispatch
// attempts; once canceled it stays canceled.
//
// The transport observes Done() to abort in-flight I/O, while synchronous
// call sites use ThrowIfRequested to bail out before committing work.
type CancelToken struct {
	mu     sync.Mutex
	reason *CancelError
	done   chan struct{}
}

// NewCancelToken constructs a token, synchronously invoking executor with the
// cancel function bound to it. Returns an InvalidArgument error if executor
// is nil.
func NewCancelToken(executor func(cancel CancelFunc)) (*CancelToken, error) {
	if executor == nil {
		return nil, &ClientError{
			Type:    ErrorTypeInvalidArgument,
			Message: "cancel token executor must not be nil",
		}
	}

	token := &CancelToken{done: make(chan struct{})}
	executor(token.cancel)
	return token, nil
}

// cancel performs the single pending -> canceled transition. First call wins;
// later calls are no-ops. Safe to call from any goroutine.
func (t *CancelToken) cancel(message string) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.reason != nil {
		return
	}
	t.reason = &CancelError{Message: message}
	close(t.done)
}

// ThrowIfRequested returns the stored CancelError if cancellation has been
// requested, nil otherwise.
func (t *CancelToken) ThrowIfRequested() error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.reason != nil {
		return t.reason
	}
	return nil
}

// Done returns a channel closed when cancellation occurs. Any number of
// observers may wait on it; all are released by the single settlement.
func (t *CancelToken) Done() <-chan struct{} {
	return t.done
}

// Reason returns the CancelError set at cancellation, or nil while the token
// is still pending.
func (t *CancelToken) Reason() *CancelError {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.reason
}

// CancelTokenSource pairs a token with its external cancel function.
type CancelTokenSource struct {
	Token  *CancelToken
	Cancel CancelFunc
}

// NewCancelTokenSource returns a token together with its cancel function, for
// call sites that do not need the executor pattern. Cancellation semantics
// are identical to NewCancelToken.
func NewCancelTokenSource() *CancelTokenSource {
	var cancel CancelFunc
	token, _ := NewCancelToken(func(c CancelFunc) {
		cancel = c
	})
	return &CancelTokenSource{Token: token, Cancel: cancel}
}
