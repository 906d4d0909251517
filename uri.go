package kurir

import "strings"

// URLResolver builds the final request URL from an effective configuration.
// The default resolver joins BaseURL with relative URLs and appends the
// serialized Params; custom transports may bring their own.
type URLResolver func(cfg *RequestConfig) (string, error)

// ResolveURL is the default URLResolver.
func ResolveURL(cfg *RequestConfig) (string, error) {
	raw := cfg.URL
	if cfg.BaseURL != "" && !isAbsoluteURL(raw) {
		raw = joinURL(cfg.BaseURL, raw)
	}

	if len(cfg.Params) == 0 {
		return raw, nil
	}

	separator := "?"
	if strings.Contains(raw, "?") {
		separator = "&"
	}
	return raw + separator + cfg.Params.Encode(), nil
}

// isAbsoluteURL reports whether u carries its own scheme or authority, in
// which case BaseURL is ignored.
func isAbsoluteURL(u string) bool {
	return strings.Contains(u, "://") || strings.HasPrefix(u, "//")
}

// joinURL combines a base URL and a relative path with exactly one slash
// between them.
func joinURL(base, relative string) string {
	if relative == "" {
		return base
	}
	return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(relative, "/")
}
