package kurir

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// RequestConfig describes one request. A config merged with the client
// defaults is what flows through the interceptor chain; each request
// interceptor receives the previous one's output and may return a replacement.
type RequestConfig struct {
	// Method is the HTTP method, kept lower-case inside the pipeline. Empty
	// means "use the client default, else get".
	Method string

	// URL is the request target, absolute or relative to BaseURL.
	URL string

	// BaseURL is prepended to relative URLs by the URL resolver.
	BaseURL string

	Header http.Header
	Params url.Values
	Body   []byte

	// Timeout bounds the transport call. Zero means no per-request timeout.
	Timeout time.Duration

	// Context, when set, is used by the transport for the underlying request.
	Context context.Context

	// CancelToken lets any holder abort the dispatch; the transport watches
	// it during I/O.
	CancelToken *CancelToken

	// Transitional holds behavior toggles validated before dispatch. Known
	// keys must carry bool values; unknown keys are tolerated.
	Transitional map[string]any

	// Metadata is a free-form bag for interceptors to communicate through.
	// It is deep-merged key-by-key like Header and Params.
	Metadata map[string]any
}

// Clone returns a copy of the config with its maps duplicated, so a stage
// holding the clone is isolated from later mutation of the original.
func (c *RequestConfig) Clone() *RequestConfig {
	if c == nil {
		return &RequestConfig{}
	}
	clone := *c
	if c.Header != nil {
		clone.Header = c.Header.Clone()
	}
	if c.Params != nil {
		clone.Params = make(url.Values, len(c.Params))
		for k, vs := range c.Params {
			clone.Params[k] = append([]string(nil), vs...)
		}
	}
	if c.Transitional != nil {
		clone.Transitional = make(map[string]any, len(c.Transitional))
		for k, v := range c.Transitional {
			clone.Transitional[k] = v
		}
	}
	if c.Metadata != nil {
		clone.Metadata = make(map[string]any, len(c.Metadata))
		for k, v := range c.Metadata {
			clone.Metadata[k] = v
		}
	}
	return &clone
}

// Response is the settled value of a successful dispatch.
type Response struct {
	StatusCode int
	Status     string
	Header     http.Header
	Body       []byte

	// Config is the effective configuration the transport was invoked with.
	Config *RequestConfig
}

// MergeConfig merges a per-call configuration over instance defaults into one
// effective configuration. Scalar keys present in override win; Header,
// Params, Transitional and Metadata are merged key-by-key; keys absent from
// both stay absent. The inputs are never mutated.
func MergeConfig(defaults, override *RequestConfig) *RequestConfig {
	if defaults == nil {
		defaults = &RequestConfig{}
	}
	if override == nil {
		override = &RequestConfig{}
	}

	merged := &RequestConfig{
		Method:       firstNonEmpty(override.Method, defaults.Method),
		URL:          firstNonEmpty(override.URL, defaults.URL),
		BaseURL:      firstNonEmpty(override.BaseURL, defaults.BaseURL),
		Header:       mergeHeaders(defaults.Header, override.Header),
		Params:       mergeValues(defaults.Params, override.Params),
		Body:         override.Body,
		Timeout:      override.Timeout,
		Context:      override.Context,
		CancelToken:  override.CancelToken,
		Transitional: mergeMaps(defaults.Transitional, override.Transitional),
		Metadata:     mergeMaps(defaults.Metadata, override.Metadata),
	}

	if merged.Body == nil {
		merged.Body = defaults.Body
	}
	if merged.Timeout == 0 {
		merged.Timeout = defaults.Timeout
	}
	if merged.Context == nil {
		merged.Context = defaults.Context
	}
	if merged.CancelToken == nil {
		merged.CancelToken = defaults.CancelToken
	}

	return merged
}

// resolveMethod applies the method invariant: always lower-case, "get" when
// neither the call nor the defaults name one.
func resolveMethod(method string) string {
	if method == "" {
		return "get"
	}
	return strings.ToLower(method)
}

func firstNonEmpty(override, fallback string) string {
	if override != "" {
		return override
	}
	return fallback
}

func mergeHeaders(defaults, override http.Header) http.Header {
	if defaults == nil && override == nil {
		return nil
	}
	merged := make(http.Header, len(defaults)+len(override))
	for k, vs := range defaults {
		merged[k] = append([]string(nil), vs...)
	}
	for k, vs := range override {
		merged[k] = append([]string(nil), vs...)
	}
	return merged
}

func mergeValues(defaults, override url.Values) url.Values {
	if defaults == nil && override == nil {
		return nil
	}
	merged := make(url.Values, len(defaults)+len(override))
	for k, vs := range defaults {
		merged[k] = append([]string(nil), vs...)
	}
	for k, vs := range override {
		merged[k] = append([]string(nil), vs...)
	}
	return merged
}

func mergeMaps(defaults, override map[string]any) map[string]any {
	if defaults == nil && override == nil {
		return nil
	}
	merged := make(map[string]any, len(defaults)+len(override))
	for k, v := range defaults {
		merged[k] = v
	}
	for k, v := range override {
		merged[k] = v
	}
	return merged
}
