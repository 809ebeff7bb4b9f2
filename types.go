package losapi

import (
	"net/http"
	"time"
)

// Transport is the capability that performs the actual network send/receive.
// Implementations must support any request method, absolute URIs, multi-valued
// headers and an opaque body stream, and must be safe for concurrent use.
type Transport interface {
	Send(req *http.Request) (*http.Response, error)
}

// TransportFunc adapts a plain function to the Transport interface.
type TransportFunc func(*http.Request) (*http.Response, error)

// Send calls f(req).
func (f TransportFunc) Send(req *http.Request) (*http.Response, error) {
	return f(req)
}

// StatusCoder is implemented by transport errors that already carry an HTTP
// status class. A 4xx code classifies the failure as a client error, a 5xx
// code as a server error.
type StatusCoder interface {
	StatusCode() int
}

// Cache is the capability used for response memoization. Values are
// JSON-serialized response bodies keyed by caller-chosen strings.
type Cache interface {
	Has(key string) bool
	Get(key string) (string, bool)
	Set(key string, value string, ttl time.Duration) error
}

// CallOptions configures a single call. Per-call options are merged with the
// client's default options: headers and query values combine, scalar settings
// from the call win on conflict.
type CallOptions struct {
	// Query is merged into the resolved URL's query string. Accepted types:
	// url.Values, map[string]string, map[string][]string, a pre-encoded query
	// string, or a struct with `url:"..."` tags. Call-supplied keys override
	// same-named keys already present on the URL.
	Query any

	// Headers are ADDED to the request, keeping any default values for the
	// same name side by side (use Client.WithHeader to replace instead).
	Headers http.Header

	// Body is the request body. string, []byte and io.Reader values are used
	// verbatim; any other value is JSON-encoded and implies a
	// Content-Type: application/json header unless one is already present.
	Body any

	// AddRequestID injects an X-Request-Id header when none is present,
	// using the client's fixed id if configured, else the id generator.
	AddRequestID bool

	// AddRequestDepth increments an existing X-Request-Depth header by one,
	// or sets it to 1 when absent.
	AddRequestDepth bool

	// AddRequestTime attaches an X-Response-Time header (elapsed
	// milliseconds, two decimals) to the received response.
	AddRequestTime bool

	// HTTPErrors controls whether statuses outside [200,400) fail with a
	// BadResponse error. nil means true. It never suppresses transport-level
	// connection/client/server failures.
	HTTPErrors *bool

	// RawResponse suppresses resource shaping: the call returns a nil
	// Resource and the received response stays available via LastResponse.
	RawResponse bool
}

// Bool returns a pointer to b, for use in CallOptions.HTTPErrors.
func Bool(b bool) *bool { return &b }

// IDGenerator produces correlation ids for X-Request-Id headers.
type IDGenerator func() string

// ResourceFactory shapes a received response into a Resource. It must be a
// pure function of the response.
type ResourceFactory func(resp *http.Response) (*Resource, error)

// Option represents a construction-time configuration option.
type Option func(*Client)

// DebugConfig controls the client's debug logging.
type DebugConfig struct {
	Enabled     bool
	LogRequests bool
	LogCache    bool
	LogEvents   bool
}

// DefaultDebugConfig returns a disabled config with all categories selected.
func DefaultDebugConfig() *DebugConfig {
	return &DebugConfig{
		Enabled:     false,
		LogRequests: true,
		LogCache:    true,
		LogEvents:   true,
	}
}
