package losapi

import (
	"context"
	"fmt"
	"net/http"
	"time"
)

// Request merges the client's default options with opts, builds the outgoing
// request, dispatches it through the transport and classifies the outcome.
// One call performs at most one network round trip; terminal outcomes are a
// shaped Resource, a nil Resource (RawResponse), or a classified error. Every
// failure is announced on the notifier before being returned.
func (c *Client) Request(ctx context.Context, method, target string, opts *CallOptions) (*Resource, error) {
	if c.validationError != nil {
		return nil, c.validationError
	}

	start := time.Now()

	merged, err := mergeCallOptions(&c.defaults, opts)
	if err != nil {
		return nil, c.failDispatch(nil, err, method, target, start)
	}

	req, err := c.newRequest(ctx, method, target, merged)
	if err != nil {
		return nil, c.failDispatch(nil, err, method, target, start)
	}

	endpoint := getEndpointFromRequest(req)
	requestID := req.Header.Get(HeaderRequestID)

	if c.debug != nil && c.debug.Enabled && c.debug.LogRequests && c.logger != nil {
		c.logger.Debug("Starting request", "requestID", requestID, "method", req.Method, "url", req.URL.String(), "endpoint", endpoint)
	}
	c.metrics.RecordRequestStart(req.Method, endpoint)
	defer c.metrics.RecordRequestEnd(req.Method, endpoint)

	c.notify(EventRequestPre, &Event{Request: req})

	resp, err := c.transport.Send(req)
	if err != nil {
		errType, status := classifyTransportError(err)
		cerr := &ClientError{
			Type:       errType,
			Message:    "request dispatch failed",
			Cause:      err,
			RequestID:  requestID,
			Method:     req.Method,
			URL:        req.URL.String(),
			Endpoint:   endpoint,
			StatusCode: status,
			Timestamp:  time.Now(),
			Duration:   time.Since(start),
		}
		c.metrics.RecordError(errType, req.Method, endpoint)
		c.metrics.RecordRequest(req.Method, endpoint, status, time.Since(start))
		c.notify(EventRequestFail, &Event{Request: req, Err: cerr})
		if c.debug != nil && c.debug.Enabled && c.debug.LogRequests && c.logger != nil {
			c.logger.Error("Request failed", "requestID", requestID, "endpoint", endpoint, "errorType", errType, "error", err.Error())
		}
		return nil, cerr
	}

	if resp.StatusCode < 100 || resp.StatusCode > 599 {
		cerr := &ClientError{
			Type:       ErrorTypeRuntime,
			Message:    fmt.Sprintf("transport returned invalid status %d", resp.StatusCode),
			RequestID:  requestID,
			Method:     req.Method,
			URL:        req.URL.String(),
			Endpoint:   endpoint,
			StatusCode: 500,
			Timestamp:  time.Now(),
			Duration:   time.Since(start),
		}
		c.metrics.RecordError(ErrorTypeRuntime, req.Method, endpoint)
		c.notify(EventRequestFail, &Event{Request: req, Response: resp, Err: cerr})
		return nil, cerr
	}

	if merged.AddRequestTime {
		elapsed := float64(time.Since(start).Nanoseconds()) / 1e6
		resp.Header.Set(HeaderResponseTime, fmt.Sprintf("%.2f", elapsed))
	}

	c.setLastResponse(resp)
	c.metrics.RecordRequest(req.Method, endpoint, resp.StatusCode, time.Since(start))
	c.notify(EventRequestPost, &Event{Request: req, Response: resp})

	if merged.httpErrorsEnabled() && (resp.StatusCode < 200 || resp.StatusCode >= 400) {
		cerr := &ClientError{
			Type:       ErrorTypeBadResponse,
			Message:    fmt.Sprintf("server returned status %d", resp.StatusCode),
			RequestID:  requestID,
			Method:     req.Method,
			URL:        req.URL.String(),
			Endpoint:   endpoint,
			StatusCode: resp.StatusCode,
			Response:   resp,
			Timestamp:  time.Now(),
			Duration:   time.Since(start),
		}
		c.metrics.RecordError(ErrorTypeBadResponse, req.Method, endpoint)
		c.notify(EventRequestFail, &Event{Request: req, Response: resp, Err: cerr})
		return nil, cerr
	}

	if merged.RawResponse {
		return nil, nil
	}

	res, err := c.factory(resp)
	if err != nil {
		cerr := &ClientError{
			Type:       ErrorTypeRuntime,
			Message:    "cannot shape response into resource",
			Cause:      err,
			RequestID:  requestID,
			Method:     req.Method,
			URL:        req.URL.String(),
			Endpoint:   endpoint,
			StatusCode: 500,
			Timestamp:  time.Now(),
			Duration:   time.Since(start),
		}
		c.metrics.RecordError(ErrorTypeRuntime, req.Method, endpoint)
		c.notify(EventRequestFail, &Event{Request: req, Response: resp, Err: cerr})
		return nil, cerr
	}

	return res, nil
}

// failDispatch wraps pre-send failures (option merging, request building) so
// they surface through the same taxonomy and notification path as everything
// else.
func (c *Client) failDispatch(req *http.Request, err error, method, target string, start time.Time) error {
	cerr := AsClientError(err)
	if cerr == nil {
		cerr = &ClientError{
			Type:      ErrorTypeRuntime,
			Message:   "cannot build request",
			Cause:     err,
			Method:    method,
			URL:       target,
			Timestamp: time.Now(),
			Duration:  time.Since(start),
		}
	}
	c.metrics.RecordError(cerr.Type, method, target)
	c.notify(EventRequestFail, &Event{Request: req, Err: cerr})
	return cerr
}
