package kurir

import "sync"

// InterceptorOptions tunes how a registered interceptor participates in the
// dispatch chain.
type InterceptorOptions struct {
	// Synchronous declares that the fulfillment handler never needs to
	// suspend. A dispatch whose kept request interceptors are all synchronous
	// runs inline in the caller's goroutine instead of scheduling the chain.
	// Only meaningful for request interceptors.
	Synchronous bool

	// RunWhen, when set, is consulted per dispatch with the merged
	// configuration; returning false excludes the entry from that dispatch's
	// chain. Only meaningful for request interceptors.
	RunWhen func(*RequestConfig) bool
}

type interceptorEntry[T any] struct {
	onFulfilled func(T) (T, error)
	onRejected  func(error) (T, error)
	synchronous bool
	runWhen     func(*RequestConfig) bool
}

// interceptorRegistry is an ordered arena of interceptor entries with stable
// integer handles. Ejected slots are tombstoned rather than compacted so ids
// issued earlier stay valid. Mutation and snapshotting are mutex-guarded; a
// dispatch operates on a snapshot, so Use/Eject during an in-flight dispatch
// never affects it.
type interceptorRegistry[T any] struct {
	mu      sync.Mutex
	base    int
	entries []*interceptorEntry[T]
}

// Use appends an interceptor pair and returns an id usable with Eject. Either
// handler may be nil; a missing handler passes the value through unchanged on
// its rail.
func (r *interceptorRegistry[T]) Use(onFulfilled func(T) (T, error), onRejected func(error) (T, error), opts *InterceptorOptions) int {
	entry := &interceptorEntry[T]{
		onFulfilled: onFulfilled,
		onRejected:  onRejected,
	}
	if opts != nil {
		entry.synchronous = opts.Synchronous
		entry.runWhen = opts.RunWhen
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, entry)
	return r.base + len(r.entries) - 1
}

// Eject removes the entry registered under id. Unknown or already ejected ids
// are a no-op.
func (r *interceptorRegistry[T]) Eject(id int) {
	r.mu.Lock()
	defer r.mu.Unlock()

	idx := id - r.base
	if idx < 0 || idx >= len(r.entries) {
		return
	}
	r.entries[idx] = nil
}

// Clear removes all entries. Ids issued afterwards never collide with ids
// issued before.
func (r *interceptorRegistry[T]) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.base += len(r.entries)
	r.entries = nil
}

// Len reports the number of live entries.
func (r *interceptorRegistry[T]) Len() int {
	n := 0
	r.forEach(func(*interceptorEntry[T]) {
		n++
	})
	return n
}

// forEach visits live entries in insertion order against the registry's
// current state. It holds the lock for the duration of the walk; visitors
// must not mutate the registry.
func (r *interceptorRegistry[T]) forEach(visit func(*interceptorEntry[T])) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, entry := range r.entries {
		if entry != nil {
			visit(entry)
		}
	}
}

// snapshot returns the live entries in insertion order. The returned slice is
// independent of later registry mutation.
func (r *interceptorRegistry[T]) snapshot() []*interceptorEntry[T] {
	var entries []*interceptorEntry[T]
	r.forEach(func(entry *interceptorEntry[T]) {
		entries = append(entries, entry)
	})
	return entries
}

// RequestInterceptors is the registry of request-phase interceptors. During a
// dispatch the kept entries run last-registered-first, so the most recently
// added interceptor sees the configuration first.
type RequestInterceptors struct {
	interceptorRegistry[*RequestConfig]
}

// chainFor builds the request chain for one dispatch: entries kept by RunWhen
// in last-registered-first order, plus whether every kept entry declared
// itself synchronous (true for an empty chain).
func (r *RequestInterceptors) chainFor(cfg *RequestConfig) ([]*interceptorEntry[*RequestConfig], bool) {
	live := r.snapshot()

	allSynchronous := true
	var chain []*interceptorEntry[*RequestConfig]
	for _, entry := range live {
		if entry.runWhen != nil && !entry.runWhen(cfg) {
			continue
		}
		allSynchronous = allSynchronous && entry.synchronous
		// prepend: later registrations run first
		chain = append([]*interceptorEntry[*RequestConfig]{entry}, chain...)
	}
	return chain, allSynchronous
}

// ResponseInterceptors is the registry of response-phase interceptors. They
// run in registration order after the transport settles.
type ResponseInterceptors struct {
	interceptorRegistry[*Response]
}

// chain returns the response chain for one dispatch, in registration order.
func (r *ResponseInterceptors) chain() []*interceptorEntry[*Response] {
	return r.snapshot()
}

// Interceptors groups the two registries exposed per client.
type Interceptors struct {
	Request  *RequestInterceptors
	Response *ResponseInterceptors
}
