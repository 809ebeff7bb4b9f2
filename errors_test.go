package losapi

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"strings"
	"testing"
	"time"
)

func TestClientErrorError(t *testing.T) {
	tests := []struct {
		name string
		err  *ClientError
		want []string
	}{
		{
			name: "type and message",
			err:  &ClientError{Type: ErrorTypeConnection, Message: "down"},
			want: []string{"Connection", "down"},
		},
		{
			name: "with cause",
			err:  &ClientError{Type: ErrorTypeRuntime, Message: "boom", Cause: errors.New("inner")},
			want: []string{"Runtime", "boom", "inner"},
		},
		{
			name: "with request id and status",
			err:  &ClientError{Type: ErrorTypeBadResponse, Message: "bad", RequestID: "rid", StatusCode: 404},
			want: []string{"[rid]", "404"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.err.Error()
			for _, fragment := range tt.want {
				if !strings.Contains(got, fragment) {
					t.Errorf("Expected %q in %q", fragment, got)
				}
			}
		})
	}
}

func TestClientErrorNil(t *testing.T) {
	var e *ClientError
	if e.Error() != "<nil>" {
		t.Errorf("Expected <nil>, got %q", e.Error())
	}
	if e.Unwrap() != nil {
		t.Error("Expected nil unwrap")
	}
	if e.Is(&ClientError{Type: ErrorTypeRuntime}) {
		t.Error("Expected nil receiver to match nothing")
	}
}

func TestClientErrorIs(t *testing.T) {
	err := &ClientError{Type: ErrorTypeBadResponse, Message: "bad"}
	if !errors.Is(err, &ClientError{Type: ErrorTypeBadResponse}) {
		t.Error("Expected same-type match")
	}
	if errors.Is(err, &ClientError{Type: ErrorTypeConnection}) {
		t.Error("Expected different types not to match")
	}
}

func TestClientErrorUnwrap(t *testing.T) {
	inner := errors.New("inner")
	err := &ClientError{Type: ErrorTypeRuntime, Message: "outer", Cause: inner}
	if !errors.Is(err, inner) {
		t.Error("Expected cause in error chain")
	}
}

func TestClientErrorDebugInfo(t *testing.T) {
	err := &ClientError{
		Type:       ErrorTypeBadResponse,
		Message:    "bad",
		Method:     "GET",
		URL:        "https://api.test/x",
		Endpoint:   "api.test/x",
		StatusCode: 404,
		Timestamp:  time.Now(),
		Duration:   time.Millisecond,
		Cause:      errors.New("inner"),
	}
	info := err.DebugInfo()
	for _, fragment := range []string{"Error Type", "Message", "Method", "URL", "Endpoint", "Status Code", "Timestamp", "Duration", "Cause"} {
		if !strings.Contains(info, fragment) {
			t.Errorf("Expected %q section in debug info", fragment)
		}
	}
}

func TestClassifyTransportError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantType   string
		wantStatus int
	}{
		{"url error", &url.Error{Op: "Get", URL: "https://x", Err: errors.New("refused")}, ErrorTypeConnection, 0},
		{"dns error", &net.DNSError{Err: "no such host", Name: "x"}, ErrorTypeConnection, 0},
		{"op error", &net.OpError{Op: "dial", Err: errors.New("refused")}, ErrorTypeConnection, 0},
		{"status 401", &statusError{401}, ErrorTypeClient, 401},
		{"status 500", &statusError{500}, ErrorTypeServer, 500},
		{"status outside classes", &statusError{302}, ErrorTypeRuntime, 500},
		{"wrapped status error", fmt.Errorf("call failed: %w", &statusError{429}), ErrorTypeClient, 429},
		{"opaque", errors.New("boom"), ErrorTypeRuntime, 500},
		{"pre-classified", &ClientError{Type: ErrorTypeServer, StatusCode: 503}, ErrorTypeServer, 503},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotType, gotStatus := classifyTransportError(tt.err)
			if gotType != tt.wantType {
				t.Errorf("Expected type %s, got %s", tt.wantType, gotType)
			}
			if gotStatus != tt.wantStatus {
				t.Errorf("Expected status %d, got %d", tt.wantStatus, gotStatus)
			}
		})
	}
}

func TestErrorPredicates(t *testing.T) {
	bad := error(&ClientError{Type: ErrorTypeBadResponse})
	conn := error(&ClientError{Type: ErrorTypeConnection})

	if !IsBadResponse(bad) || IsBadResponse(conn) {
		t.Error("IsBadResponse misclassified")
	}
	if !IsConnectionError(conn) || IsConnectionError(bad) {
		t.Error("IsConnectionError misclassified")
	}
	if AsClientError(errors.New("plain")) != nil {
		t.Error("Expected nil for non-client errors")
	}
}
