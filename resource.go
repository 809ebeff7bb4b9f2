package losapi

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
)

// Resource is the shaped result of a successful response. It offers map
// conversion and error classification for the cache wrapper's decision logic.
type Resource struct {
	statusCode int
	data       map[string]any
}

// NewResource constructs a Resource from a status code and decoded body.
func NewResource(statusCode int, data map[string]any) *Resource {
	return &Resource{statusCode: statusCode, data: data}
}

// StatusCode returns the status the resource was shaped from.
func (r *Resource) StatusCode() int {
	if r == nil {
		return 0
	}
	return r.statusCode
}

// Map returns the decoded body mapping. Never nil.
func (r *Resource) Map() map[string]any {
	if r == nil || r.data == nil {
		return map[string]any{}
	}
	return r.data
}

// Get returns the value stored under key in the decoded body.
func (r *Resource) Get(key string) (any, bool) {
	if r == nil {
		return nil, false
	}
	v, ok := r.data[key]
	return v, ok
}

// IsError reports whether the resource was shaped from an error-classified
// response (status outside [200,400)).
func (r *Resource) IsError() bool {
	if r == nil {
		return true
	}
	return r.statusCode < 200 || r.statusCode >= 400
}

// ResourceFromResponse is the default resource shaping function. It buffers
// the body (leaving a rewound copy on the response for later introspection),
// decodes JSON objects into the resource mapping and wraps non-object bodies
// under a "content" key. An empty body yields an empty resource.
func ResourceFromResponse(resp *http.Response) (*Resource, error) {
	if resp == nil {
		return nil, &ClientError{Type: ErrorTypeRuntime, Message: "nil response"}
	}

	var body []byte
	if resp.Body != nil {
		var err error
		body, err = io.ReadAll(resp.Body)
		closeErr := resp.Body.Close()
		if err != nil {
			return nil, err
		}
		if closeErr != nil {
			return nil, closeErr
		}
		resp.Body = io.NopCloser(bytes.NewReader(body))
	}

	if len(bytes.TrimSpace(body)) == 0 {
		return NewResource(resp.StatusCode, map[string]any{}), nil
	}

	var data map[string]any
	if err := json.Unmarshal(body, &data); err != nil {
		data = map[string]any{"content": string(body)}
	}
	return NewResource(resp.StatusCode, data), nil
}

// resourceFromJSON synthesizes a Resource from a cached JSON body as if a
// fresh status-200 response had been received.
func resourceFromJSON(value string) (*Resource, error) {
	var data map[string]any
	if err := json.Unmarshal([]byte(value), &data); err != nil {
		return nil, err
	}
	return NewResource(http.StatusOK, data), nil
}
