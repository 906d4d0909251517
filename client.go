package kurir

import (
	"context"
	"net/http"
	"strings"
)

// Client dispatches request configurations through an ordered chain of
// request and response interceptors around a single transport invocation.
// It is safe for concurrent use; interceptors may be registered and ejected
// while dispatches are in flight.
type Client struct {
	transport    Transport
	httpClient   *http.Client
	defaults     *RequestConfig
	interceptors Interceptors
	urlResolver  URLResolver
	logger       Logger
	debug        *DebugConfig
	metrics      *MetricsCollector
}

// New constructs a Client using the provided functional options. Without
// options the client dispatches through an HTTPTransport with a 30 second
// timeout.
func New(options ...Option) *Client {
	client := &Client{
		defaults:    &RequestConfig{},
		urlResolver: ResolveURL,
		debug:       DefaultDebugConfig(),
		interceptors: Interceptors{
			Request:  &RequestInterceptors{},
			Response: &ResponseInterceptors{},
		},
	}

	for _, option := range options {
		option(client)
	}

	if client.transport == nil {
		transport := NewHTTPTransport(client.httpClient)
		transport.resolve = client.urlResolver
		client.transport = transport
	}

	return client
}

// Interceptors exposes the request and response interceptor registries.
func (c *Client) Interceptors() *Interceptors {
	return &c.interceptors
}

// Defaults returns the instance-level default configuration. Mutating it
// affects subsequent dispatches only.
func (c *Client) Defaults() *RequestConfig {
	return c.defaults
}

// Do dispatches cfg and blocks until its future settles or ctx is done.
func (c *Client) Do(ctx context.Context, cfg *RequestConfig) (*Response, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if cfg == nil {
		cfg = &RequestConfig{}
	}
	if cfg.Context == nil {
		cfg = cfg.Clone()
		cfg.Context = ctx
	}

	fut, err := c.Dispatch(cfg)
	if err != nil {
		return nil, err
	}
	return fut.Wait(ctx)
}

// methodHasBody is the closed set of convenience verbs and whether each one
// carries a request body.
var methodHasBody = map[string]bool{
	"get":     false,
	"delete":  false,
	"head":    false,
	"options": false,
	"post":    true,
	"put":     true,
	"patch":   true,
}

func (c *Client) doMethod(ctx context.Context, method, rawURL string, body []byte, cfg *RequestConfig) (*Response, error) {
	merged := cfg.Clone()
	merged.Method = method
	merged.URL = rawURL
	if methodHasBody[method] {
		merged.Body = body
	}
	return c.Do(ctx, merged)
}

// Get dispatches a GET request to url.
func (c *Client) Get(ctx context.Context, url string, cfg *RequestConfig) (*Response, error) {
	return c.doMethod(ctx, "get", url, nil, cfg)
}

// Delete dispatches a DELETE request to url.
func (c *Client) Delete(ctx context.Context, url string, cfg *RequestConfig) (*Response, error) {
	return c.doMethod(ctx, "delete", url, nil, cfg)
}

// Head dispatches a HEAD request to url.
func (c *Client) Head(ctx context.Context, url string, cfg *RequestConfig) (*Response, error) {
	return c.doMethod(ctx, "head", url, nil, cfg)
}

// Options dispatches an OPTIONS request to url.
func (c *Client) Options(ctx context.Context, url string, cfg *RequestConfig) (*Response, error) {
	return c.doMethod(ctx, "options", url, nil, cfg)
}

// Post dispatches a POST request with body to url.
func (c *Client) Post(ctx context.Context, url string, body []byte, cfg *RequestConfig) (*Response, error) {
	return c.doMethod(ctx, "post", url, body, cfg)
}

// Put dispatches a PUT request with body to url.
func (c *Client) Put(ctx context.Context, url string, body []byte, cfg *RequestConfig) (*Response, error) {
	return c.doMethod(ctx, "put", url, body, cfg)
}

// Patch dispatches a PATCH request with body to url.
func (c *Client) Patch(ctx context.Context, url string, body []byte, cfg *RequestConfig) (*Response, error) {
	return c.doMethod(ctx, "patch", url, body, cfg)
}

// GetURI builds the final URL for cfg merged with the client defaults,
// without dispatching. A leading "?" (empty URL, params only) is stripped.
func (c *Client) GetURI(cfg *RequestConfig) (string, error) {
	merged := MergeConfig(c.defaults, cfg)
	resolved, err := c.urlResolver(merged)
	if err != nil {
		return "", err
	}
	return strings.TrimPrefix(resolved, "?"), nil
}
