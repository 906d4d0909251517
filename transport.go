package kurir

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"strings"
	"time"
)

// Transport performs the actual network I/O for one dispatch. It receives the
// fully merged, validated configuration, must consult cfg.CancelToken if
// present, and must return a typed error (not a bare one) on protocol or
// network failure. The pipeline invokes it exactly once per dispatch.
type Transport interface {
	Dispatch(cfg *RequestConfig) (*Response, error)
}

// TransportFunc adapts a function to the Transport interface.
type TransportFunc func(*RequestConfig) (*Response, error)

// Dispatch implements Transport.
func (f TransportFunc) Dispatch(cfg *RequestConfig) (*Response, error) {
	return f(cfg)
}

// HTTPTransport is the default Transport, backed by net/http. It honors the
// configuration's context, timeout and cancel token, and buffers the response
// body so interceptors can read it repeatedly.
type HTTPTransport struct {
	client  *http.Client
	resolve URLResolver
}

// NewHTTPTransport wraps client, defaulting to a 30 second timeout client
// when nil.
func NewHTTPTransport(client *http.Client) *HTTPTransport {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	return &HTTPTransport{
		client:  client,
		resolve: ResolveURL,
	}
}

// Dispatch implements Transport.
func (t *HTTPTransport) Dispatch(cfg *RequestConfig) (*Response, error) {
	if cfg.CancelToken != nil {
		if err := cfg.CancelToken.ThrowIfRequested(); err != nil {
			return nil, err
		}
	}

	ctx := cfg.Context
	if ctx == nil {
		ctx = context.Background()
	}
	if cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.Timeout)
		defer cancel()
	}
	if cfg.CancelToken != nil {
		var cancel context.CancelFunc
		ctx, cancel = context.WithCancel(ctx)
		defer cancel()

		stop := make(chan struct{})
		defer close(stop)
		go func() {
			select {
			case <-cfg.CancelToken.Done():
				cancel()
			case <-stop:
			}
		}()
	}

	fullURL, err := t.resolve(cfg)
	if err != nil {
		return nil, &ClientError{
			Type:    ErrorTypeTransport,
			Message: "resolving request URL failed",
			Cause:   err,
		}
	}

	var body io.Reader
	if len(cfg.Body) > 0 {
		body = bytes.NewReader(cfg.Body)
	}

	req, err := http.NewRequestWithContext(ctx, strings.ToUpper(cfg.Method), fullURL, body)
	if err != nil {
		return nil, &ClientError{
			Type:    ErrorTypeTransport,
			Message: "building request failed",
			Cause:   err,
		}
	}
	for key, values := range cfg.Header {
		for _, value := range values {
			req.Header.Add(key, value)
		}
	}

	httpResp, err := t.client.Do(req)
	if err != nil {
		// A request aborted through the token settles with the token's
		// reason, not the wrapped context error.
		if cfg.CancelToken != nil {
			if reason := cfg.CancelToken.Reason(); reason != nil {
				return nil, reason
			}
		}
		return nil, &ClientError{
			Type:    ErrorTypeTransport,
			Message: "request failed",
			Cause:   err,
		}
	}
	defer httpResp.Body.Close()

	data, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, &ClientError{
			Type:    ErrorTypeTransport,
			Message: "reading response body failed",
			Cause:   err,
		}
	}

	return &Response{
		StatusCode: httpResp.StatusCode,
		Status:     httpResp.Status,
		Header:     httpResp.Header.Clone(),
		Body:       data,
		Config:     cfg,
	}, nil
}
