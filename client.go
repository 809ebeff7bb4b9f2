package losapi

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

// Client is an immutable API client configuration. All With* methods are
// copy-on-write: they return a new Client sharing nothing mutable with the
// original except the deliberately aliased transport and cache handles, so a
// derived Client is safe to use concurrently with its ancestor.
type Client struct {
	rootURL    *url.URL
	header     http.Header
	defaults   CallOptions
	transport  Transport
	cache      Cache
	defaultTTL time.Duration
	requestID  string
	idGen      IDGenerator
	factory    ResourceFactory
	notifier   Notifier
	metrics    *MetricsCollector
	logger     Logger
	debug      *DebugConfig
	extra      map[string]any

	// last is a diagnostic snapshot of the most recent received response.
	// It is overwritten on every call and is the one piece of deliberately
	// call-ordering-dependent state on a Client.
	last *responseSnapshot

	validationError error
}

type responseSnapshot struct {
	v atomic.Pointer[http.Response]
}

// DefaultTTL is the fallback cache lifetime when neither the call nor the
// client configuration supplies one.
const DefaultTTL = 600 * time.Second

// New constructs a Client for the given root URL using the provided
// functional options. A best effort validation is performed; call IsValid /
// ValidationError for errors.
func New(root string, options ...Option) *Client {
	client := &Client{
		header: http.Header{
			"User-Agent": {defaultUserAgent()},
			"Accept":     {acceptedMediaTypes},
		},
		transport:  NewHTTPTransport(&http.Client{Timeout: 30 * time.Second}),
		defaultTTL: DefaultTTL,
		idGen:      DefaultIDGenerator,
		factory:    ResourceFromResponse,
		debug:      DefaultDebugConfig(),
		last:       &responseSnapshot{},
	}

	u, err := url.Parse(root)
	if err != nil {
		client.validationError = &ClientError{
			Type:    ErrorTypeValidation,
			Message: "malformed root URL",
			Cause:   err,
			URL:     root,
		}
	} else {
		client.rootURL = u
	}

	for _, option := range options {
		option(client)
	}

	if err := client.ValidateConfiguration(); err != nil {
		client.validationError = err
	}

	return client
}

// clone deep-copies the owned sub-objects (header template, default options,
// extra metadata) and allocates a fresh last-response slot; transport and
// cache handles are aliased on purpose.
func (c *Client) clone() *Client {
	out := *c
	out.header = c.header.Clone()
	if out.header == nil {
		out.header = http.Header{}
	}
	if c.defaults.Headers != nil {
		out.defaults.Headers = c.defaults.Headers.Clone()
	}
	if c.extra != nil {
		out.extra = make(map[string]any, len(c.extra))
		for k, v := range c.extra {
			out.extra[k] = v
		}
	}
	out.last = &responseSnapshot{}
	return &out
}

// RootURL returns the configured base URL.
func (c *Client) RootURL() *url.URL {
	if c.rootURL == nil {
		return nil
	}
	u := *c.rootURL
	return &u
}

// WithRootURL returns a new Client targeting root.
func (c *Client) WithRootURL(root string) *Client {
	out := c.clone()
	u, err := url.Parse(root)
	if err != nil {
		out.validationError = &ClientError{
			Type:    ErrorTypeValidation,
			Message: "malformed root URL",
			Cause:   err,
			URL:     root,
		}
		return out
	}
	out.rootURL = u
	return out
}

// Header returns a copy of the default header template.
func (c *Client) Header() http.Header {
	return c.header.Clone()
}

// WithHeader returns a new Client whose default header name is set to the
// given values, replacing all prior values for that name.
func (c *Client) WithHeader(name string, values ...string) *Client {
	out := c.clone()
	out.header.Del(name)
	for _, v := range values {
		out.header.Add(name, v)
	}
	return out
}

// WithAddedHeader returns a new Client with values appended to the default
// header name, keeping any existing values.
func (c *Client) WithAddedHeader(name string, values ...string) *Client {
	out := c.clone()
	for _, v := range values {
		out.header.Add(name, v)
	}
	return out
}

// WithoutHeader returns a new Client with all values for name removed.
func (c *Client) WithoutHeader(name string) *Client {
	out := c.clone()
	out.header.Del(name)
	return out
}

// Transport returns the active transport handle.
func (c *Client) Transport() Transport {
	return c.transport
}

// WithTransport returns a new Client sending through t.
func (c *Client) WithTransport(t Transport) *Client {
	out := c.clone()
	out.transport = t
	return out
}

// WithCache returns a new Client using the given cache capability.
func (c *Client) WithCache(cache Cache) *Client {
	out := c.clone()
	out.cache = cache
	return out
}

// Extra returns the caller-attached metadata stored under key.
func (c *Client) Extra(key string) (any, bool) {
	v, ok := c.extra[key]
	return v, ok
}

// WithExtra returns a new Client with metadata attached under key.
func (c *Client) WithExtra(key string, value any) *Client {
	out := c.clone()
	if out.extra == nil {
		out.extra = map[string]any{}
	}
	out.extra[key] = value
	return out
}

// LastResponse returns the most recently received response, or nil. It is a
// diagnostic snapshot valid only immediately after a call; under concurrent
// use of one Client instance the value is whichever call finished last.
func (c *Client) LastResponse() *http.Response {
	return c.last.v.Load()
}

func (c *Client) setLastResponse(resp *http.Response) {
	c.last.v.Store(resp)
}

// IsValid reports whether configuration validation passed at construction.
func (c *Client) IsValid() bool {
	return c.validationError == nil
}

// ValidationError returns the configuration validation error, if any.
func (c *Client) ValidationError() error {
	return c.validationError
}

// Get performs a GET call against target.
func (c *Client) Get(ctx context.Context, target string, opts *CallOptions) (*Resource, error) {
	return c.Request(ctx, http.MethodGet, target, opts)
}

// Post performs a POST call against target.
func (c *Client) Post(ctx context.Context, target string, opts *CallOptions) (*Resource, error) {
	return c.Request(ctx, http.MethodPost, target, opts)
}

// Put performs a PUT call against target.
func (c *Client) Put(ctx context.Context, target string, opts *CallOptions) (*Resource, error) {
	return c.Request(ctx, http.MethodPut, target, opts)
}

// Patch performs a call against target. Note: Patch issues the PUT method,
// matching the upstream API contract this client was written for.
func (c *Client) Patch(ctx context.Context, target string, opts *CallOptions) (*Resource, error) {
	return c.Request(ctx, http.MethodPut, target, opts)
}

// Delete performs a DELETE call against target.
func (c *Client) Delete(ctx context.Context, target string, opts *CallOptions) (*Resource, error) {
	return c.Request(ctx, http.MethodDelete, target, opts)
}

// DefaultIDGenerator returns a random UUID for X-Request-Id headers.
func DefaultIDGenerator() string {
	return uuid.NewString()
}

// NewHTTPTransport wraps an *http.Client as a Transport. A nil client uses
// http.DefaultClient.
func NewHTTPTransport(client *http.Client) Transport {
	if client == nil {
		client = http.DefaultClient
	}
	return &httpTransport{client: client}
}

type httpTransport struct {
	client *http.Client
}

func (t *httpTransport) Send(req *http.Request) (*http.Response, error) {
	return t.client.Do(req)
}

func getEndpointFromRequest(req *http.Request) string {
	if req == nil || req.URL == nil {
		return "unknown"
	}

	host := req.URL.Host
	path := req.URL.Path

	var builder strings.Builder
	builder.WriteString(host)

	if path != "" && path != "/" {
		builder.WriteString(path)
	} else {
		builder.WriteByte('/')
	}

	return builder.String()
}
