// Package kurir is a request dispatch pipeline with cooperative cancellation:
//
//   - Ordered request/response interceptor chains (request interceptors run
//     last-registered-first, response interceptors in registration order)
//   - Per-entry lifecycle: stable eject handles, conditional RunWhen opt-out
//   - Synchronous fast path: an all-synchronous request chain runs inline
//     without a scheduling round-trip
//   - One-shot, observe-many cancel tokens threaded through to the transport
//   - Config merging (per-call over instance defaults, headers merged deeply)
//   - Prometheus metrics and structured debug logging
//
// Design goals:
//   - Small surface area, functional options configure everything
//   - The transport is a collaborator behind one interface; net/http backs it
//     by default but anything honoring the cancel token can replace it
//   - Safe concurrent use of a single *Client instance
//
// Typical usage:
//
//	client := kurir.New(
//	    kurir.WithBaseURL("https://api.example.com"),
//	    kurir.WithTimeout(10*time.Second),
//	)
//	client.Interceptors().Request.Use(func(cfg *kurir.RequestConfig) (*kurir.RequestConfig, error) {
//	    cfg.Header.Set("Authorization", "Bearer "+token)
//	    return cfg, nil
//	}, nil, &kurir.InterceptorOptions{Synchronous: true})
//	resp, err := client.Get(ctx, "/data", nil)
//
// Cancellation is requested through a CancelTokenSource shared with the
// configuration; the first cancel wins, later calls are no-ops, and every
// observer of the token sees the same CancelError.
package kurir
