// Package losapi provides the request-construction and response-handling core
// of the LOS HTTP API client:
//
//   - Deterministic request building from a base endpoint plus per-call options
//     (query merging, additive header merging, JSON body encoding)
//   - Immutable client configuration with copy-on-write With* mutators
//   - A swappable Transport capability and a typed failure taxonomy
//     (connection / client / server / bad-response / runtime / configuration)
//   - Response memoization for GET-style calls via a pluggable Cache
//   - Lifecycle notifications (request.pre / request.post / request.fail)
//   - Prometheus metrics and lightweight structured debug logging
//
// Design goals:
//   - Small surface area – functional options configure everything
//   - One call, one round trip: no retries, pooling or scheduling in this core
//   - Safe concurrent use: every Client derived via a With* mutator shares
//     nothing mutable with its ancestor except the cache/transport handles
//   - Extensibility via pluggable transport, cache, notifier and resource
//     shaping
//
// Typical usage:
//
//	client := losapi.New("https://api.example.com/",
//	    losapi.WithInMemoryCache(),
//	    losapi.WithDefaultTTL(10*time.Minute),
//	    losapi.WithMetrics(),
//	)
//	res, err := client.Get(ctx, "/loans/42", nil)
//
// Non-2xx/3xx statuses fail with a BadResponse error by default; pass
// CallOptions{HTTPErrors: losapi.Bool(false)} to receive such responses as
// ordinary resources instead. Transport-level failures (DNS, TCP, TLS) are
// independent of that flag and always classify as connection errors.
package losapi
