package losapi

import (
	"fmt"
	"net/http"
	"time"
)

// WithTransport sets the transport capability used to send requests.
func WithTransport(t Transport) Option {
	return func(c *Client) {
		c.transport = t
	}
}

// WithHTTPClient sends requests through the given *http.Client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		c.transport = NewHTTPTransport(client)
	}
}

// WithTimeout sets the round-trip timeout on the default HTTP transport.
// It has no effect on a custom Transport.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if t, ok := c.transport.(*httpTransport); ok {
			t.client.Timeout = d
		}
	}
}

// WithInMemoryCache enables response memoization with the built-in sharded
// in-memory cache.
func WithInMemoryCache() Option {
	return func(c *Client) {
		c.cache = NewInMemoryCache()
	}
}

// WithCustomCache sets a custom cache capability.
func WithCustomCache(cache Cache) Option {
	return func(c *Client) {
		c.cache = cache
	}
}

// WithDefaultTTL sets the cache lifetime used when a cached call supplies
// none.
func WithDefaultTTL(d time.Duration) Option {
	return func(c *Client) {
		c.defaultTTL = d
	}
}

// WithHeaders merges headers into the default header template (replace
// semantics per name).
func WithHeaders(headers http.Header) Option {
	return func(c *Client) {
		for name, values := range headers {
			c.header.Del(name)
			for _, v := range values {
				c.header.Add(name, v)
			}
		}
	}
}

// WithUserAgent overrides the default User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		c.header.Set("User-Agent", ua)
	}
}

// WithDefaultOptions sets options applied to every call before the per-call
// options are merged in.
func WithDefaultOptions(opts CallOptions) Option {
	return func(c *Client) {
		c.defaults = opts
	}
}

// WithRequestID sets a fixed process-level correlation id. When set it takes
// precedence over generated ids for X-Request-Id headers.
func WithRequestID(id string) Option {
	return func(c *Client) {
		c.requestID = id
	}
}

// WithIDGenerator sets the generator used for X-Request-Id headers, e.g. a
// deterministic one in tests.
func WithIDGenerator(gen IDGenerator) Option {
	return func(c *Client) {
		c.idGen = gen
	}
}

// WithResourceFactory sets the function shaping responses into resources.
func WithResourceFactory(factory ResourceFactory) Option {
	return func(c *Client) {
		c.factory = factory
	}
}

// WithNotifier sets the lifecycle notifier. Use Notifiers to fan out to
// several listeners.
func WithNotifier(n Notifier) Option {
	return func(c *Client) {
		c.notifier = n
	}
}

// WithMetrics enables Prometheus metrics collection.
func WithMetrics() Option {
	return func(c *Client) {
		c.metrics = NewMetricsCollector()
	}
}

// WithMetricsCollector sets a custom metrics collector.
func WithMetricsCollector(collector *MetricsCollector) Option {
	return func(c *Client) {
		c.metrics = collector
	}
}

// WithLogger sets a custom logger for debug output.
func WithLogger(logger Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithSimpleLogger enables debug logging with a plain console logger.
func WithSimpleLogger() Option {
	return func(c *Client) {
		if c.debug == nil {
			c.debug = DefaultDebugConfig()
		}
		c.debug.Enabled = true
		c.logger = NewSimpleLogger()
	}
}

// WithStructuredLogger enables debug logging with the zerolog-backed logger.
func WithStructuredLogger() Option {
	return func(c *Client) {
		if c.debug == nil {
			c.debug = DefaultDebugConfig()
		}
		c.debug.Enabled = true
		c.logger = NewStructuredLogger(nil)
	}
}

// WithDebug enables debug logging with default configuration.
func WithDebug() Option {
	return func(c *Client) {
		if c.debug == nil {
			c.debug = DefaultDebugConfig()
		}
		c.debug.Enabled = true
	}
}

// WithDebugConfig sets custom debug configuration.
func WithDebugConfig(config *DebugConfig) Option {
	return func(c *Client) {
		c.debug = config
	}
}

// WithExtraMetadata attaches caller metadata at construction time.
func WithExtraMetadata(key string, value any) Option {
	return func(c *Client) {
		if c.extra == nil {
			c.extra = map[string]any{}
		}
		c.extra[key] = value
	}
}

// ValidateConfiguration validates the client configuration and returns an
// error if invalid.
func (c *Client) ValidateConfiguration() error {
	var errs []string

	errs = append(errs, c.validateRootConfig()...)
	errs = append(errs, c.validateTransportConfig()...)
	errs = append(errs, c.validateCacheConfig()...)
	errs = append(errs, c.validateShapingConfig()...)
	errs = append(errs, c.validateDebugConfig()...)

	if len(errs) > 0 {
		return &ClientError{
			Type:    ErrorTypeValidation,
			Message: "configuration validation failed",
			Cause:   fmt.Errorf("validation errors: %v", errs),
		}
	}

	return nil
}

func (c *Client) validateRootConfig() []string {
	var errs []string

	if c.rootURL == nil {
		errs = append(errs, "root URL must parse")
	} else if c.rootURL.Scheme != "" && c.rootURL.Scheme != "http" && c.rootURL.Scheme != "https" {
		errs = append(errs, fmt.Sprintf("unsupported root URL scheme %q", c.rootURL.Scheme))
	}

	return errs
}

func (c *Client) validateTransportConfig() []string {
	var errs []string

	if c.transport == nil {
		errs = append(errs, "transport cannot be nil")
	}

	return errs
}

func (c *Client) validateCacheConfig() []string {
	var errs []string

	if c.cache != nil && c.defaultTTL <= 0 {
		errs = append(errs, "defaultTTL must be positive when cache is enabled")
	}
	if c.defaultTTL > 24*time.Hour {
		errs = append(errs, "defaultTTL > 24h may cause stale data issues")
	}

	return errs
}

func (c *Client) validateShapingConfig() []string {
	var errs []string

	if c.factory == nil {
		errs = append(errs, "resource factory cannot be nil")
	}
	if c.idGen == nil && c.requestID == "" {
		errs = append(errs, "id generator cannot be nil without a fixed request id")
	}

	return errs
}

func (c *Client) validateDebugConfig() []string {
	var errs []string

	if c.debug != nil && c.debug.Enabled && c.logger == nil {
		errs = append(errs, "logger must be set when debug is enabled")
	}

	return errs
}
