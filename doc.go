// Package backendapi is a client-side request orchestration layer for
// backends that answer with a {status, data, statusInfo} envelope:
//
//   - Logical endpoint configuration (local tables, YAML files, one-time
//     remote loads behind a deferred gate)
//   - In-flight duplicate interception keyed by a stable request fingerprint
//   - Response caching with per-call TTL (in-memory, LRU or Redis backed)
//   - Canonical envelope normalization with per-call overrides
//   - One failure path for all three error categories: A (transport not
//     issued), H (protocol failure), B (business failure)
//   - Reference-counted loading indicator and dismissable failure tips via a
//     pluggable Notifier
//   - Prometheus metrics and lightweight structured debug logging
//
// Design goals:
//   - Small surface area: functional options configure everything
//   - One state machine: every call is CREATED, then CACHE_HIT,
//     DUPLICATE_BLOCKED or IN_FLIGHT, then SETTLED
//   - Safe concurrent use of a single *Client instance
//   - Extensibility via the injected Transport, Cache, Notifier and the
//     overridable normalizer / fail hook
//
// Typical usage:
//
//	api := backendapi.New(
//	    backendapi.WithEndpoints(map[string]backendapi.Endpoint{
//	        "getUser": {Method: "GET", URL: "https://api.example.com/user"},
//	    }),
//	    backendapi.WithInMemoryCache(),
//	    backendapi.WithMetrics(),
//	)
//	res, err := api.Send(ctx, "getUser/42",
//	    backendapi.WithCallCacheTTL(time.Minute),
//	)
//
// There are no automatic retries: every call performs exactly one exchange
// and every failure is reported exactly once.
package backendapi
