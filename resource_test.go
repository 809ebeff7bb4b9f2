package losapi

import (
	"io"
	"net/http"
	"strings"
	"testing"
)

func newBodyResponse(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Header:     http.Header{},
		Body:       io.NopCloser(strings.NewReader(body)),
	}
}

func TestResourceFromResponse(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		body      string
		wantKey   string
		wantValue any
		wantError bool
	}{
		{"json object", 200, `{"name":"x"}`, "name", "x", false},
		{"empty body", 204, "", "", nil, false},
		{"whitespace body", 200, "  \n", "", nil, false},
		{"non-json body", 200, "plain text", "content", "plain text", false},
		{"error status", 404, `{"error":"missing"}`, "error", "missing", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := ResourceFromResponse(newBodyResponse(tt.status, tt.body))
			if err != nil {
				t.Fatalf("ResourceFromResponse returned error: %v", err)
			}
			if res.StatusCode() != tt.status {
				t.Errorf("Expected status %d, got %d", tt.status, res.StatusCode())
			}
			if res.IsError() != tt.wantError {
				t.Errorf("Expected IsError=%v", tt.wantError)
			}
			if tt.wantKey == "" {
				if len(res.Map()) != 0 {
					t.Errorf("Expected empty mapping, got %v", res.Map())
				}
				return
			}
			if got, _ := res.Get(tt.wantKey); got != tt.wantValue {
				t.Errorf("Expected %v under %q, got %v", tt.wantValue, tt.wantKey, got)
			}
		})
	}
}

func TestResourceFromResponseRewindsBody(t *testing.T) {
	resp := newBodyResponse(200, `{"a":1}`)
	if _, err := ResourceFromResponse(resp); err != nil {
		t.Fatal(err)
	}
	// The body must be readable again for diagnostic inspection.
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != `{"a":1}` {
		t.Errorf("Expected body rewound, got %q", string(data))
	}
}

func TestResourceFromResponseNil(t *testing.T) {
	if _, err := ResourceFromResponse(nil); err == nil {
		t.Fatal("Expected error for nil response")
	}
}

func TestResourceNilSafety(t *testing.T) {
	var r *Resource
	if !r.IsError() {
		t.Error("Expected nil resource to classify as error")
	}
	if r.StatusCode() != 0 {
		t.Error("Expected zero status for nil resource")
	}
	if len(r.Map()) != 0 {
		t.Error("Expected empty map for nil resource")
	}
	if _, ok := r.Get("x"); ok {
		t.Error("Expected no values on nil resource")
	}
}

func TestResourceFromJSON(t *testing.T) {
	res, err := resourceFromJSON(`{"id":1}`)
	if err != nil {
		t.Fatal(err)
	}
	if res.StatusCode() != http.StatusOK {
		t.Errorf("Expected synthesized status 200, got %d", res.StatusCode())
	}
	if res.IsError() {
		t.Error("Expected synthesized resource to be non-error")
	}

	if _, err := resourceFromJSON("not json"); err == nil {
		t.Error("Expected error for undecodable cache entry")
	}
}
