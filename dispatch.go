package kurir

import (
	"net/url"
	"time"
)

// stage is one (success-handler, failure-handler) pair of the untyped
// two-rail chain used by the asynchronous strategy. A nil handler passes the
// current value through unchanged on its rail.
type stage struct {
	onFulfilled func(any) (any, error)
	onRejected  func(error) (any, error)
}

// Dispatch runs cfg through the pipeline and returns its deferred result:
// merge with defaults, resolve the method, validate transitional options,
// build a fresh interceptor chain and execute it around exactly one transport
// invocation.
//
// Validation failures are returned synchronously, before any future is
// created and before any interceptor runs. Every other failure settles the
// returned future on its error rail.
func (c *Client) Dispatch(cfg *RequestConfig) (*Future, error) {
	merged := MergeConfig(c.defaults, cfg)
	merged.Method = resolveMethod(merged.Method)

	if err := validateTransitional(merged.Transitional); err != nil {
		if clientErr, ok := err.(*ClientError); ok {
			c.metrics.RecordValidationFailure(clientErr.Key)
		}
		return nil, err
	}

	endpoint := c.endpointFor(merged)

	var requestID string
	if c.debug != nil && c.debug.Enabled && c.debug.RequestIDGen != nil {
		requestID = c.debug.RequestIDGen()
	}
	if c.debug != nil && c.debug.Enabled && c.debug.LogDispatch && c.logger != nil {
		c.logger.Debug("Starting dispatch", "requestID", requestID, "method", merged.Method, "url", merged.URL, "endpoint", endpoint)
	}

	requestChain, allSynchronous := c.interceptors.Request.chainFor(merged)
	responseChain := c.interceptors.Response.chain()

	if c.debug != nil && c.debug.Enabled && c.debug.LogInterceptors && c.logger != nil {
		c.logger.Debug("Interceptor chain built", "requestID", requestID,
			"requestInterceptors", len(requestChain), "responseInterceptors", len(responseChain),
			"synchronous", allSynchronous)
	}

	c.metrics.RecordDispatchStart(merged.Method, endpoint)

	start := time.Now()
	fut := newFuture()
	settle := func(resp *Response, err error) {
		fut.settle(resp, err)
		c.metrics.RecordDispatchEnd(merged.Method, endpoint)
		c.metrics.RecordDispatch(merged.Method, endpoint, outcomeLabel(resp, err), time.Since(start))
		if IsCancel(err) {
			c.metrics.RecordCancellation(merged.Method, endpoint)
		}

		if c.debug != nil && c.debug.Enabled && c.debug.LogDispatch && c.logger != nil {
			if err != nil {
				c.logger.Debug("Dispatch settled", "requestID", requestID, "error", err.Error())
			} else {
				c.logger.Debug("Dispatch settled", "requestID", requestID, "status", resp.StatusCode)
			}
		}
	}

	if allSynchronous {
		// Every kept request interceptor declared itself synchronous: run the
		// whole chain inline so the future is settled, or the transport
		// already invoked, by the time Dispatch returns.
		c.dispatchSync(merged, requestChain, responseChain, settle)
		return fut, nil
	}

	go c.dispatchAsync(merged, requestChain, responseChain, settle)
	return fut, nil
}

// dispatchSync applies request interceptors by direct call. A failing
// interceptor has its rejection handler invoked, later request interceptors
// and the transport are skipped, and the future settles failed. The transport
// outcome then flows through the response chain.
func (c *Client) dispatchSync(cfg *RequestConfig, requestChain []*interceptorEntry[*RequestConfig], responseChain []*interceptorEntry[*Response], settle func(*Response, error)) {
	current := cfg
	for _, entry := range requestChain {
		if entry.onFulfilled == nil {
			continue
		}
		next, err := entry.onFulfilled(current)
		if err != nil {
			c.metrics.RecordInterceptorRejection("request")
			if entry.onRejected != nil {
				if _, rerr := entry.onRejected(err); rerr != nil {
					err = rerr
				}
			}
			settle(nil, err)
			return
		}
		if next != nil {
			current = next
		}
	}

	resp, err := c.transport.Dispatch(current)
	c.runResponseChain(resp, err, responseChain, settle)
}

// runResponseChain folds the response interceptors over the transport outcome
// with two-rail propagation: a failure skips fulfillment handlers until a
// rejection handler recovers by returning a response with a nil error.
func (c *Client) runResponseChain(resp *Response, err error, responseChain []*interceptorEntry[*Response], settle func(*Response, error)) {
	for _, entry := range responseChain {
		if err == nil {
			if entry.onFulfilled == nil {
				continue
			}
			next, ferr := entry.onFulfilled(resp)
			if ferr != nil {
				c.metrics.RecordInterceptorRejection("response")
				resp, err = nil, ferr
			} else if next != nil {
				resp = next
			}
		} else {
			if entry.onRejected == nil {
				continue
			}
			recovered, rerr := entry.onRejected(err)
			if rerr != nil {
				err = rerr
			} else if recovered != nil {
				resp, err = recovered, nil
			}
		}
	}
	settle(resp, err)
}

// dispatchAsync builds the single ordered stage list
// [reqN, …, req1, transport, resp1, …, respM] and folds it over the merged
// configuration in its own goroutine. Request entries are already in
// last-registered-first order.
func (c *Client) dispatchAsync(cfg *RequestConfig, requestChain []*interceptorEntry[*RequestConfig], responseChain []*interceptorEntry[*Response], settle func(*Response, error)) {
	stages := make([]stage, 0, len(requestChain)+len(responseChain)+1)

	for _, entry := range requestChain {
		stages = append(stages, stage{
			onFulfilled: adaptFulfilled(entry.onFulfilled, "request", c.metrics),
			onRejected:  adaptRejected(entry.onRejected),
		})
	}

	stages = append(stages, stage{
		onFulfilled: func(v any) (any, error) {
			resp, err := c.transport.Dispatch(v.(*RequestConfig))
			if err != nil {
				return nil, err
			}
			return resp, nil
		},
	})

	for _, entry := range responseChain {
		stages = append(stages, stage{
			onFulfilled: adaptFulfilled(entry.onFulfilled, "response", c.metrics),
			onRejected:  adaptRejected(entry.onRejected),
		})
	}

	var value any = cfg
	var err error
	for _, st := range stages {
		if err == nil {
			if st.onFulfilled == nil {
				continue
			}
			next, ferr := st.onFulfilled(value)
			if ferr != nil {
				err = ferr
			} else {
				value = next
			}
		} else {
			if st.onRejected == nil {
				continue
			}
			recovered, rerr := st.onRejected(err)
			if recovered != nil {
				value, err = recovered, nil
			} else {
				err = rerr
			}
		}
	}

	if err != nil {
		settle(nil, err)
		return
	}
	resp, _ := value.(*Response)
	settle(resp, nil)
}

// adaptFulfilled lifts a typed fulfillment handler onto the untyped chain. A
// handler returning a nil value with a nil error keeps the current value.
func adaptFulfilled[T comparable](fn func(T) (T, error), phase string, metrics *MetricsCollector) func(any) (any, error) {
	if fn == nil {
		return nil
	}
	var zero T
	return func(v any) (any, error) {
		typed, _ := v.(T)
		next, err := fn(typed)
		if err != nil {
			metrics.RecordInterceptorRejection(phase)
			return nil, err
		}
		if next == zero {
			return v, nil
		}
		return next, nil
	}
}

// adaptRejected lifts a typed rejection handler onto the untyped chain. Only
// a non-nil value with a nil error recovers the rail; a handler returning
// (nil, nil) observes the failure and passes the original error along.
func adaptRejected[T comparable](fn func(error) (T, error)) func(error) (any, error) {
	if fn == nil {
		return nil
	}
	var zero T
	return func(err error) (any, error) {
		recovered, rerr := fn(err)
		if rerr != nil {
			return nil, rerr
		}
		if recovered == zero {
			return nil, err
		}
		return recovered, nil
	}
}

func outcomeLabel(resp *Response, err error) string {
	switch {
	case IsCancel(err):
		return "canceled"
	case err != nil:
		return "error"
	default:
		return "success"
	}
}

// endpointFor extracts a host+path endpoint label for metrics and logging.
func (c *Client) endpointFor(cfg *RequestConfig) string {
	raw, err := c.urlResolver(cfg)
	if err != nil {
		return "unknown"
	}
	u, err := url.Parse(raw)
	if err != nil {
		return "unknown"
	}

	endpoint := u.Host
	if u.Path != "" && u.Path != "/" {
		endpoint += u.Path
	} else {
		endpoint += "/"
	}
	return endpoint
}
