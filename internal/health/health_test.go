package health

import (
	"context"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"testing"
	"time"
)

func TestTextHandler(t *testing.T) {
	tests := []struct {
		name    string
		profile Profile
	}{
		{name: "status profile", profile: Status},
		{name: "health profile", profile: Health},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", tt.profile.Path, nil)
			w := httptest.NewRecorder()

			TextHandler(tt.profile.Message)(w, req)

			if w.Code != http.StatusOK {
				t.Errorf("TextHandler returned wrong status code: got %v want %v", w.Code, http.StatusOK)
			}
			if w.Body.String() != tt.profile.Message {
				t.Errorf("TextHandler returned wrong body: got %v want %v", w.Body.String(), tt.profile.Message)
			}
			if ct := w.Header().Get("Content-Type"); ct != "text/plain; charset=utf-8" {
				t.Errorf("Content-Type = %v, want text/plain; charset=utf-8", ct)
			}
		})
	}
}

func TestTextHandlerIgnoresRequest(t *testing.T) {
	handler := TextHandler("fixed")

	first := httptest.NewRecorder()
	handler(first, httptest.NewRequest("GET", "/status?verbose=1", strings.NewReader("ignored")))

	second := httptest.NewRecorder()
	handler(second, httptest.NewRequest("GET", "/status", nil))

	if first.Code != second.Code || first.Body.String() != second.Body.String() {
		t.Errorf("responses differ: %d %q vs %d %q", first.Code, first.Body.String(), second.Code, second.Body.String())
	}
}

func TestProfileMessages(t *testing.T) {
	if Status.Path != "/status" || Status.Message != "my first Rust Server (v1.1) is Running" || !Status.ServeStatic {
		t.Errorf("unexpected status profile: %+v", Status)
	}
	if Health.Path != "/health" || Health.Message != "TMKOC my first Rust Server is Running" || Health.ServeStatic {
		t.Errorf("unexpected health profile: %+v", Health)
	}
}

func TestLookup(t *testing.T) {
	tests := []struct {
		name        string
		profile     string
		expected    Profile
		expectError bool
	}{
		{name: "status", profile: "status", expected: Status},
		{name: "health", profile: "health", expected: Health},
		{name: "unknown", profile: "readyz", expectError: true},
		{name: "empty", profile: "", expectError: true},
		{name: "case sensitive", profile: "Status", expectError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			profile, err := Lookup(tt.profile)
			if tt.expectError {
				if err == nil {
					t.Errorf("expected error but got none")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if profile != tt.expected {
				t.Errorf("Lookup(%q) = %+v, want %+v", tt.profile, profile, tt.expected)
			}
		})
	}
}

func TestNames(t *testing.T) {
	expected := []string{"health", "status"}
	if names := Names(); !reflect.DeepEqual(names, expected) {
		t.Errorf("Names() = %v, want %v", names, expected)
	}
}

func TestProbe(t *testing.T) {
	tests := []struct {
		name        string
		handler     http.HandlerFunc
		expectError bool
	}{
		{
			name:    "healthy",
			handler: TextHandler(Health.Message),
		},
		{
			name: "wrong status",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusServiceUnavailable)
			},
			expectError: true,
		},
		{
			name:        "wrong body",
			handler:     TextHandler("something else"),
			expectError: true,
		},
		{
			name:        "longer body",
			handler:     TextHandler(Health.Message + "!"),
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mux := http.NewServeMux()
			mux.Handle(Health.Path, tt.handler)
			testServer := httptest.NewServer(mux)
			defer testServer.Close()

			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()

			err := Probe(ctx, testServer.Client(), testServer.URL+"/", Health)
			if tt.expectError && err == nil {
				t.Errorf("expected error but got none")
			}
			if !tt.expectError && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestProbeUnreachable(t *testing.T) {
	testServer := httptest.NewServer(TextHandler(Status.Message))
	url := testServer.URL
	testServer.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := Probe(ctx, http.DefaultClient, url, Status); err == nil {
		t.Error("expected error probing a closed server")
	}
}
