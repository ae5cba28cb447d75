package push

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/taskercompanyofficial/taskercompany-api/pkg/config"
)

func testConfig(endpoint string) config.PushConfig {
	return config.PushConfig{
		Endpoint:   endpoint,
		Timeout:    2 * time.Second,
		MaxRetries: 2,
	}
}

func TestSendPostsExpoPayload(t *testing.T) {
	var captured Message
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&captured); err != nil {
			t.Errorf("decode body: %v", err)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := New(testConfig(server.URL))
	err := client.Send(context.Background(), Message{
		To:    "ExponentPushToken[abc]",
		Title: "New job assigned",
		Body:  "Complaint TC010120261 assigned to you",
		Data:  map[string]any{"complaint_id": 7},
	})
	if err != nil {
		t.Fatalf("send: %v", err)
	}

	if captured.To != "ExponentPushToken[abc]" {
		t.Fatalf("unexpected token %q", captured.To)
	}
	if captured.Sound != "default" {
		t.Fatalf("expected default sound, got %q", captured.Sound)
	}
}

func TestSendRequiresToken(t *testing.T) {
	client := New(testConfig("https://example.invalid"))
	if err := client.Send(context.Background(), Message{Title: "no token"}); err == nil {
		t.Fatalf("expected error for missing token")
	}
}

func TestSendRetriesTransientFailures(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := New(testConfig(server.URL))
	if err := client.Send(context.Background(), Message{To: "tok", Title: "t", Body: "b"}); err != nil {
		t.Fatalf("expected retry to succeed, got %v", err)
	}
	if calls.Load() != 2 {
		t.Fatalf("expected 2 attempts, got %d", calls.Load())
	}
}
