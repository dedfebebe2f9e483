package ai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"sales-practice-api/internal/domain"
	"sales-practice-api/internal/domain/ports/adapter"
)

func testMessages() []adapter.Message {
	return []adapter.Message{
		{Role: "system", Content: "You are the customer."},
		{Role: "user", Content: "Hi, interested in our CRM?"},
	}
}

func newTestAdapter(t *testing.T, base string) *LMStudioAdapter {
	t.Helper()
	a, err := NewLMStudioAdapter(base, "mistral-7b-instruct", 5*time.Second)
	if err != nil {
		t.Fatalf("NewLMStudioAdapter: %v", err)
	}
	return a
}

func TestComplete_Success(t *testing.T) {
	var gotPath string
	var gotBody map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]string{"role": "assistant", "content": "What problems does it solve for me?"}},
			},
		})
	}))
	defer srv.Close()

	a := newTestAdapter(t, srv.URL)
	reply, err := a.Complete(context.Background(), testMessages(), adapter.Options{Temperature: 0.7, MaxTokens: 500})
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if reply != "What problems does it solve for me?" {
		t.Fatalf("unexpected reply %q", reply)
	}

	if gotPath != "/chat/completions" {
		t.Fatalf("unexpected path %s", gotPath)
	}
	if gotBody["model"] != "mistral-7b-instruct" {
		t.Fatalf("unexpected model %v", gotBody["model"])
	}
	if gotBody["stream"] != false {
		t.Fatalf("streaming must be disabled, got %v", gotBody["stream"])
	}
	if gotBody["temperature"] != 0.7 {
		t.Fatalf("unexpected temperature %v", gotBody["temperature"])
	}
	if gotBody["max_tokens"] != float64(500) {
		t.Fatalf("unexpected max_tokens %v", gotBody["max_tokens"])
	}
	if msgs, ok := gotBody["messages"].([]any); !ok || len(msgs) != 2 {
		t.Fatalf("unexpected messages %v", gotBody["messages"])
	}
}

func TestComplete_ServiceUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	base := srv.URL
	srv.Close() // nothing listens here anymore

	a := newTestAdapter(t, base)
	_, err := a.Complete(context.Background(), testMessages(), adapter.Options{})

	var gerr *domain.GatewayError
	if !errors.As(err, &gerr) {
		t.Fatalf("want *domain.GatewayError, got %v", err)
	}
	if gerr.Kind != domain.GatewayServiceUnavailable {
		t.Fatalf("want ServiceUnavailable, got %s (%v)", gerr.Kind, err)
	}
}

func TestComplete_UpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]string{"message": "model not loaded"},
		})
	}))
	defer srv.Close()

	a := newTestAdapter(t, srv.URL)
	_, err := a.Complete(context.Background(), testMessages(), adapter.Options{})

	var gerr *domain.GatewayError
	if !errors.As(err, &gerr) {
		t.Fatalf("want *domain.GatewayError, got %v", err)
	}
	if gerr.Kind != domain.GatewayUpstream {
		t.Fatalf("want Upstream, got %s", gerr.Kind)
	}
	if gerr.Status != http.StatusBadRequest {
		t.Fatalf("upstream status must be surfaced, got %d", gerr.Status)
	}
	if gerr.Message != "model not loaded" {
		t.Fatalf("upstream message must be surfaced, got %q", gerr.Message)
	}
}

func TestComplete_UpstreamErrorFlatBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "out of memory"})
	}))
	defer srv.Close()

	a := newTestAdapter(t, srv.URL)
	_, err := a.Complete(context.Background(), testMessages(), adapter.Options{})

	var gerr *domain.GatewayError
	if !errors.As(err, &gerr) || gerr.Kind != domain.GatewayUpstream {
		t.Fatalf("want Upstream, got %v", err)
	}
	if gerr.Message != "out of memory" {
		t.Fatalf("unexpected message %q", gerr.Message)
	}
}

func TestComplete_MalformedResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("not json"))
	}))
	defer srv.Close()

	a := newTestAdapter(t, srv.URL)
	_, err := a.Complete(context.Background(), testMessages(), adapter.Options{})

	var gerr *domain.GatewayError
	if !errors.As(err, &gerr) || gerr.Kind != domain.GatewayTransport {
		t.Fatalf("want Transport, got %v", err)
	}
}

func TestComplete_NoChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"choices": []any{}})
	}))
	defer srv.Close()

	a := newTestAdapter(t, srv.URL)
	_, err := a.Complete(context.Background(), testMessages(), adapter.Options{})

	var gerr *domain.GatewayError
	if !errors.As(err, &gerr) || gerr.Kind != domain.GatewayTransport {
		t.Fatalf("want Transport for empty choices, got %v", err)
	}
}

func TestComplete_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer srv.Close()

	a, err := NewLMStudioAdapter(srv.URL, "mistral-7b-instruct", 50*time.Millisecond)
	if err != nil {
		t.Fatalf("NewLMStudioAdapter: %v", err)
	}
	_, err = a.Complete(context.Background(), testMessages(), adapter.Options{})

	var gerr *domain.GatewayError
	if !errors.As(err, &gerr) || gerr.Kind != domain.GatewayTransport {
		t.Fatalf("timeout must map to Transport, got %v", err)
	}
}
