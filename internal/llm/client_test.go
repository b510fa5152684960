package llm

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestHTTPClientComplete(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/chat/completions" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("Authorization = %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"hello"}}]}`))
	}))
	defer server.Close()

	client := NewHTTPClient(Endpoint{
		BaseURL: server.URL + "/v1",
		Model:   "test-model",
		APIKey:  "test-key",
	})
	out, err := client.Complete(context.Background(), []ChatMessage{{Role: "user", Content: "hi"}})
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if out != "hello" {
		t.Fatalf("Complete = %q, want %q", out, "hello")
	}
}

func TestHTTPClientSurfacesAPIErrors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"error":{"message":"model not loaded"}}`))
	}))
	defer server.Close()

	client := NewHTTPClient(Endpoint{BaseURL: server.URL, Model: "m"})
	_, err := client.Complete(context.Background(), []ChatMessage{{Role: "user", Content: "hi"}})
	if err == nil || !strings.Contains(err.Error(), "model not loaded") {
		t.Fatalf("expected api error, got %v", err)
	}
}

func TestHTTPClientThrottleIsLazy(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"ok"}}]}`))
	}))
	defer server.Close()

	// A huge interval would hang the test on the first call if the limiter
	// pre-charged; the first request must go straight through.
	client := &httpClient{
		endpoint:    Endpoint{BaseURL: server.URL, Model: "m"},
		http:        server.Client(),
		minInterval: time.Hour,
	}
	if _, err := client.Complete(context.Background(), []ChatMessage{{Role: "user", Content: "hi"}}); err != nil {
		t.Fatalf("first call should not be throttled: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := client.Complete(ctx, []ChatMessage{{Role: "user", Content: "hi"}})
	if err == nil || !strings.Contains(err.Error(), "context canceled") {
		t.Fatalf("throttled call must honor cancellation, got %v", err)
	}
}

func TestMockClientSpeaksAgentFormats(t *testing.T) {
	mock := &MockClient{}
	out, err := mock.Complete(context.Background(), []ChatMessage{
		{Role: "system", Content: "You are a software architect."},
		{Role: "user", Content: "Generate a technical blueprint for this concept."},
	})
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if !strings.Contains(out, "Architecture Type:") || !strings.Contains(out, "Modules:") {
		t.Fatalf("mock architecture response missing expected lines: %q", out)
	}

	out, err = mock.Complete(context.Background(), []ChatMessage{
		{Role: "user", Content: "Perform a quality assurance test on the module."},
	})
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if !strings.Contains(out, "Status: passed") {
		t.Fatalf("mock qa response missing status line: %q", out)
	}
}
