package losapi

import (
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"time"
)

// Error type identifiers used in ClientError.Type.
const (
	// ErrorTypeConnection marks failures where the target could not be
	// reached at all (DNS, TCP, TLS).
	ErrorTypeConnection = "Connection"
	// ErrorTypeClient marks 4xx-class failures reported by the transport
	// layer itself, before any response reaches the status check.
	ErrorTypeClient = "Client"
	// ErrorTypeServer marks 5xx-class failures reported by the transport
	// layer itself.
	ErrorTypeServer = "Server"
	// ErrorTypeBadResponse marks a fully received response whose status is
	// outside [200,400) under an active HTTPErrors policy.
	ErrorTypeBadResponse = "BadResponse"
	// ErrorTypeRuntime is the catch-all for unexpected dispatch failures.
	ErrorTypeRuntime = "Runtime"
	// ErrorTypeConfiguration marks missing or unusable capabilities, e.g. a
	// cached call without a cache configured.
	ErrorTypeConfiguration = "Configuration"
	// ErrorTypeValidation marks invalid construction-time configuration or
	// malformed call options.
	ErrorTypeValidation = "Validation"
)

// Sentinel errors for common failure scenarios
var (
	// ErrNoCache is returned by GetCached when no cache capability is
	// configured.
	ErrNoCache = errors.New("losapi: no cache configured")

	// ErrInvalidCacheKey is returned for malformed (empty) cache keys.
	ErrInvalidCacheKey = errors.New("losapi: invalid cache key")
)

// ClientError is the common failure taxonomy surfaced to callers. Type
// identifies the kind; Response is populated for bad-response failures so the
// caller can inspect the full received response.
type ClientError struct {
	Type       string
	Message    string
	Cause      error
	RequestID  string
	Method     string
	URL        string
	Endpoint   string
	StatusCode int
	Response   *http.Response
	Timestamp  time.Time
	Duration   time.Duration
}

// Error implements the error interface.
func (e *ClientError) Error() string {
	if e == nil {
		return "<nil>"
	}
	msg := fmt.Sprintf("%s: %s", e.Type, e.Message)
	if e.Cause != nil {
		msg = fmt.Sprintf("%s (%v)", msg, e.Cause)
	}
	if e.RequestID != "" {
		msg = fmt.Sprintf("[%s] %s", e.RequestID, msg)
	}
	if e.StatusCode > 0 {
		msg = fmt.Sprintf("%s (status %d)", msg, e.StatusCode)
	}
	return msg
}

// Unwrap returns the underlying cause.
func (e *ClientError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

// Is compares error types for errors.Is.
func (e *ClientError) Is(target error) bool {
	if e == nil {
		return false
	}
	if targetErr, ok := target.(*ClientError); ok {
		return e.Type == targetErr.Type
	}
	return false
}

// DebugInfo renders a multi-line string with diagnostic context.
func (e *ClientError) DebugInfo() string {
	if e == nil {
		return "Error: <nil>"
	}
	info := fmt.Sprintf("Error Type: %s\n", e.Type)
	info += fmt.Sprintf("Message: %s\n", e.Message)
	if e.RequestID != "" {
		info += fmt.Sprintf("Request ID: %s\n", e.RequestID)
	}
	if e.Method != "" {
		info += fmt.Sprintf("Method: %s\n", e.Method)
	}
	if e.URL != "" {
		info += fmt.Sprintf("URL: %s\n", e.URL)
	}
	if e.Endpoint != "" {
		info += fmt.Sprintf("Endpoint: %s\n", e.Endpoint)
	}
	if e.StatusCode > 0 {
		info += fmt.Sprintf("Status Code: %d\n", e.StatusCode)
	}
	if !e.Timestamp.IsZero() {
		info += fmt.Sprintf("Timestamp: %s\n", e.Timestamp.Format(time.RFC3339))
	}
	if e.Duration > 0 {
		info += fmt.Sprintf("Duration: %v\n", e.Duration)
	}
	if e.Cause != nil {
		info += fmt.Sprintf("Cause: %v\n", e.Cause)
	}
	return info
}

// IsBadResponse reports whether err is a bad-response failure; the received
// response is available via AsClientError(err).Response.
func IsBadResponse(err error) bool {
	var ce *ClientError
	return errors.As(err, &ce) && ce.Type == ErrorTypeBadResponse
}

// IsConnectionError reports whether err classifies as a connection failure.
func IsConnectionError(err error) bool {
	var ce *ClientError
	return errors.As(err, &ce) && ce.Type == ErrorTypeConnection
}

// AsClientError extracts the *ClientError from err's chain, or nil.
func AsClientError(err error) *ClientError {
	var ce *ClientError
	if errors.As(err, &ce) {
		return ce
	}
	return nil
}

// classifyTransportError maps a transport failure onto the taxonomy.
// Already-classified *ClientError values pass through, status-bearing errors
// split into client/server classes, network reachability failures become
// connection errors and everything else is a runtime error with status 500.
func classifyTransportError(err error) (string, int) {
	var ce *ClientError
	if errors.As(err, &ce) {
		return ce.Type, ce.StatusCode
	}

	var sc StatusCoder
	if errors.As(err, &sc) {
		code := sc.StatusCode()
		switch {
		case code >= 400 && code < 500:
			return ErrorTypeClient, code
		case code >= 500 && code < 600:
			return ErrorTypeServer, code
		}
	}

	var urlErr *url.Error
	var opErr *net.OpError
	var dnsErr *net.DNSError
	if errors.As(err, &urlErr) || errors.As(err, &opErr) || errors.As(err, &dnsErr) {
		return ErrorTypeConnection, 0
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return ErrorTypeConnection, 0
	}

	return ErrorTypeRuntime, 500
}
