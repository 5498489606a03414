package fcm

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	sonic "github.com/bytedance/sonic"

	"github.com/melechlapson/CastNCatch/internal/platform/resilience"
)

func TestClientSend_PostsTokensAndPayload(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Fatalf("unexpected method: %s", r.Method)
		}
		if r.URL.Path != "/fcm/send" {
			t.Fatalf("unexpected path: %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "key=server-key" {
			t.Fatalf("unexpected authorization header: %s", got)
		}

		var req sendRequest
		if err := sonic.ConfigDefault.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request body: %v", err)
		}
		if len(req.RegistrationIDs) != 2 || req.RegistrationIDs[0] != "tok-1" {
			t.Fatalf("unexpected registration ids: %v", req.RegistrationIDs)
		}
		if req.Notification.Title != "challengeResults" {
			t.Fatalf("unexpected title: %s", req.Notification.Title)
		}
		if req.Notification.Body != "You placed 1st!" {
			t.Fatalf("unexpected body: %s", req.Notification.Body)
		}
		if req.Data["challengeId"] != "ch-1" {
			t.Fatalf("unexpected data payload: %v", req.Data)
		}

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"success":2,"failure":0}`))
	}))
	defer srv.Close()

	client := NewClient(ClientConfig{
		HTTPClient:     srv.Client(),
		BaseURL:        srv.URL,
		ServerKey:      "server-key",
		CircuitBreaker: resilience.CircuitBreakerConfig{Enabled: false},
	})

	err := client.Send(context.Background(), []string{"tok-1", "tok-2"}, "challengeResults", "You placed 1st!", map[string]string{"challengeId": "ch-1"})
	if err != nil {
		t.Fatalf("send failed: %v", err)
	}
}

func TestClientSend_SkipsRequestWithoutTokens(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	client := NewClient(ClientConfig{
		HTTPClient:     srv.Client(),
		BaseURL:        srv.URL,
		ServerKey:      "server-key",
		CircuitBreaker: resilience.CircuitBreakerConfig{Enabled: false},
	})

	if err := client.Send(context.Background(), nil, "challengeResults", "hello", nil); err != nil {
		t.Fatalf("send failed: %v", err)
	}
	if calls.Load() != 0 {
		t.Fatalf("expected no upstream calls, got %d", calls.Load())
	}
}

func TestClientSend_RetriesTransientStatus(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"success":1,"failure":0}`))
	}))
	defer srv.Close()

	client := NewClient(ClientConfig{
		HTTPClient:     srv.Client(),
		BaseURL:        srv.URL,
		ServerKey:      "server-key",
		MaxRetries:     1,
		CircuitBreaker: resilience.CircuitBreakerConfig{Enabled: false},
	})

	if err := client.Send(context.Background(), []string{"tok-1"}, "friendRequests", "hello", nil); err != nil {
		t.Fatalf("send failed after retry: %v", err)
	}
	if calls.Load() != 2 {
		t.Fatalf("expected two upstream calls, got %d", calls.Load())
	}
}

func TestClientSend_NonRetryableStatusFailsFast(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	client := NewClient(ClientConfig{
		HTTPClient:     srv.Client(),
		BaseURL:        srv.URL,
		ServerKey:      "bad-key",
		MaxRetries:     3,
		CircuitBreaker: resilience.CircuitBreakerConfig{Enabled: false},
	})

	if err := client.Send(context.Background(), []string{"tok-1"}, "friendRequests", "hello", nil); err == nil {
		t.Fatal("expected error for unauthorized response")
	}
	if calls.Load() != 1 {
		t.Fatalf("expected single upstream call, got %d", calls.Load())
	}
}

func TestClientSend_CircuitBreakerOpensAfterFailures(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := NewClient(ClientConfig{
		HTTPClient: srv.Client(),
		BaseURL:    srv.URL,
		ServerKey:  "server-key",
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          true,
			FailureThreshold: 2,
			OpenTimeout:      time.Minute,
			HalfOpenMaxReq:   1,
		},
	})

	for i := 0; i < 2; i++ {
		if err := client.Send(context.Background(), []string{"tok-1"}, "friendRequests", "hello", nil); err == nil {
			t.Fatalf("expected failure on attempt %d", i)
		}
	}

	if err := client.Send(context.Background(), []string{"tok-1"}, "friendRequests", "hello", nil); err == nil {
		t.Fatal("expected open circuit to reject the call")
	}
	if calls.Load() != 2 {
		t.Fatalf("expected open circuit to short the third call, got %d upstream calls", calls.Load())
	}
}
