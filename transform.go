package losapi

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	qs "github.com/google/go-querystring/query"
)

// toValues normalizes the accepted query shapes into url.Values. Structs are
// encoded with go-querystring; pre-encoded strings are parsed; maps and
// url.Values are copied so callers never alias the merged result.
func toValues(q any) (url.Values, error) {
	switch v := q.(type) {
	case nil:
		return url.Values{}, nil
	case url.Values:
		out := make(url.Values, len(v))
		for k, vs := range v {
			out[k] = append([]string(nil), vs...)
		}
		return out, nil
	case map[string][]string:
		return toValues(url.Values(v))
	case map[string]string:
		out := make(url.Values, len(v))
		for k, s := range v {
			out.Set(k, s)
		}
		return out, nil
	case string:
		return url.ParseQuery(v)
	default:
		out, err := qs.Values(q)
		if err != nil {
			return nil, &ClientError{
				Type:    ErrorTypeValidation,
				Message: fmt.Sprintf("unsupported query type %T", q),
				Cause:   err,
			}
		}
		return out, nil
	}
}

// mergeValues merges override into base key-wise: keys present in override
// replace the base values wholesale, keys present only in base survive.
func mergeValues(base, override url.Values) url.Values {
	out := make(url.Values, len(base)+len(override))
	for k, vs := range base {
		out[k] = append([]string(nil), vs...)
	}
	for k, vs := range override {
		out[k] = append([]string(nil), vs...)
	}
	return out
}

// mergeQuery merges q into u's existing query string, call-supplied keys
// overriding same-named base keys. Encoding is url.Values.Encode, which sorts
// keys, so repeated merges of the same inputs are byte-stable.
func mergeQuery(u *url.URL, q any) error {
	call, err := toValues(q)
	if err != nil {
		return err
	}
	base, err := url.ParseQuery(u.RawQuery)
	if err != nil {
		return &ClientError{Type: ErrorTypeValidation, Message: "malformed base query string", Cause: err}
	}
	u.RawQuery = mergeValues(base, call).Encode()
	return nil
}

// addHeaders applies per-call headers with ADD semantics: existing default
// values for the same name are retained and the call values appended after
// them.
func addHeaders(h http.Header, extra http.Header) {
	for name, values := range extra {
		for _, v := range values {
			h.Add(name, v)
		}
	}
}

// buildBody turns the body option into a reader. string, []byte and io.Reader
// pass through unchanged; any other value is JSON-encoded and the returned
// content type is "application/json".
func buildBody(body any) (io.Reader, string, error) {
	switch b := body.(type) {
	case nil:
		return nil, "", nil
	case string:
		return strings.NewReader(b), "", nil
	case []byte:
		return bytes.NewReader(b), "", nil
	case io.Reader:
		return b, "", nil
	default:
		data, err := json.Marshal(b)
		if err != nil {
			return nil, "", &ClientError{
				Type:    ErrorTypeValidation,
				Message: fmt.Sprintf("body of type %T is not JSON-encodable", body),
				Cause:   err,
			}
		}
		return bytes.NewReader(data), contentTypeJSON, nil
	}
}

// mergeCallOptions combines the client's default options with the per-call
// options. Headers and query values combine (defaults first, call values
// appended / overriding per key); body and HTTPErrors from the call win when
// set; the add-* switches accumulate.
func mergeCallOptions(defaults, call *CallOptions) (*CallOptions, error) {
	out := &CallOptions{}
	if defaults != nil {
		*out = *defaults
		if defaults.Headers != nil {
			out.Headers = defaults.Headers.Clone()
		}
	}
	if call == nil {
		return out, nil
	}

	if call.Query != nil {
		if out.Query == nil {
			out.Query = call.Query
		} else {
			base, err := toValues(out.Query)
			if err != nil {
				return nil, err
			}
			override, err := toValues(call.Query)
			if err != nil {
				return nil, err
			}
			out.Query = mergeValues(base, override)
		}
	}
	if len(call.Headers) > 0 {
		if out.Headers == nil {
			out.Headers = http.Header{}
		}
		addHeaders(out.Headers, call.Headers)
	}
	if call.Body != nil {
		out.Body = call.Body
	}
	out.AddRequestID = out.AddRequestID || call.AddRequestID
	out.AddRequestDepth = out.AddRequestDepth || call.AddRequestDepth
	out.AddRequestTime = out.AddRequestTime || call.AddRequestTime
	if call.HTTPErrors != nil {
		out.HTTPErrors = call.HTTPErrors
	}
	out.RawResponse = out.RawResponse || call.RawResponse

	return out, nil
}

// httpErrorsEnabled resolves the effective status-error policy (default true).
func (o *CallOptions) httpErrorsEnabled() bool {
	return o == nil || o.HTTPErrors == nil || *o.HTTPErrors
}
