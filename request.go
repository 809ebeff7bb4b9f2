package losapi

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
)

// Header and media type constants used by the request builder.
const (
	HeaderRequestID    = "X-Request-Id"
	HeaderRequestDepth = "X-Request-Depth"
	HeaderResponseTime = "X-Response-Time"

	contentTypeJSON = "application/json"
)

// acceptedMediaTypes is the default Accept header value.
const acceptedMediaTypes = "application/hal+json, application/json"

// newRequest builds a fully configured outgoing request from the client's
// template plus the (already merged) call options. No network I/O happens
// here; the only side-effecting input is id generation, which is injectable
// via WithIDGenerator.
func (c *Client) newRequest(ctx context.Context, method, target string, opts *CallOptions) (*http.Request, error) {
	u, err := c.resolveTarget(target)
	if err != nil {
		return nil, err
	}

	if opts.Query != nil {
		if err := mergeQuery(u, opts.Query); err != nil {
			return nil, err
		}
	}

	body, bodyType, err := buildBody(opts.Body)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), body)
	if err != nil {
		return nil, &ClientError{
			Type:    ErrorTypeValidation,
			Message: "cannot build request",
			Cause:   err,
			Method:  method,
			URL:     u.String(),
		}
	}

	// Fresh clone of the default header template so no call ever mutates
	// headers visible to the client or to other calls.
	req.Header = c.header.Clone()
	if req.Header == nil {
		req.Header = http.Header{}
	}

	addHeaders(req.Header, opts.Headers)

	if bodyType != "" && req.Header.Get("Content-Type") == "" {
		req.Header.Set("Content-Type", bodyType)
	}

	if opts.AddRequestID && req.Header.Get(HeaderRequestID) == "" {
		id := c.requestID
		if id == "" && c.idGen != nil {
			id = c.idGen()
		}
		if id != "" {
			req.Header.Set(HeaderRequestID, id)
		}
	}

	if opts.AddRequestDepth {
		depth := 1
		if cur := req.Header.Get(HeaderRequestDepth); cur != "" {
			if n, err := strconv.Atoi(cur); err == nil {
				depth = n + 1
			}
		}
		req.Header.Set(HeaderRequestDepth, strconv.Itoa(depth))
	}

	return req, nil
}

// resolveTarget resolves target against the client's root URL using standard
// URI reference resolution: relative targets resolve against the base,
// absolute targets replace it entirely.
func (c *Client) resolveTarget(target string) (*url.URL, error) {
	ref, err := url.Parse(target)
	if err != nil {
		return nil, &ClientError{
			Type:    ErrorTypeValidation,
			Message: "malformed target URI",
			Cause:   err,
			URL:     target,
		}
	}
	if c.rootURL == nil {
		return ref, nil
	}
	return c.rootURL.ResolveReference(ref), nil
}
