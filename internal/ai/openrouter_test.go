package ai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"sync/atomic"
	"syscall"
	"testing"
	"time"
)

type ipv4Server struct {
	URL string
	srv *http.Server
}

func newIPv4Server(t *testing.T, handler http.Handler) *ipv4Server {
	t.Helper()
	ln, err := net.Listen("tcp4", "127.0.0.1:0")
	if err != nil {
		if errors.Is(err, syscall.EACCES) || errors.Is(err, syscall.EPERM) {
			t.Skipf("skipping test: cannot open local listener (%v)", err)
		}
		t.Fatalf("listen tcp4: %v", err)
	}
	srv := &http.Server{Handler: handler}
	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			panic(fmt.Sprintf("test server serve: %v", err))
		}
	}()
	return &ipv4Server{URL: "http://" + ln.Addr().String(), srv: srv}
}

func (s *ipv4Server) Close() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	_ = s.srv.Shutdown(ctx)
}

// sequenceServer answers with statuses[i] on the i-th call, repeating the last one.
func sequenceServer(t *testing.T, statuses []int, headers []http.Header, calls *int32) *ipv4Server {
	t.Helper()
	return newIPv4Server(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/chat/completions" {
			http.NotFound(w, r)
			return
		}
		i := int(atomic.AddInt32(calls, 1)) - 1
		if i >= len(statuses) {
			i = len(statuses) - 1
		}
		if i < len(headers) {
			for k, vals := range headers[i] {
				for _, v := range vals {
					w.Header().Add(k, v)
				}
			}
		}
		w.WriteHeader(statuses[i])
		if statuses[i] == http.StatusOK {
			_ = json.NewEncoder(w).Encode(GenerateResponse{Choices: []Choice{{Message: Message{Role: "assistant", Content: "ok"}}}})
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"error": map[string]any{"message": "rate limited"}})
	}))
}

func testClient(url string, attempts int) *Client {
	return NewClient(Config{APIKey: "test", BaseURL: url, HTTPTimeout: 2 * time.Second, RetryMax: attempts, BaseDelay: 10 * time.Millisecond, MaxDelay: 50 * time.Millisecond})
}

func hello() GenerateRequest {
	return GenerateRequest{Model: "test-model", Messages: []Message{{Role: "user", Content: "hi"}}, MaxTokens: 1}
}

func TestGenerateRetriesOn429(t *testing.T) {
	var calls int32
	srv := sequenceServer(t, []int{429, 200}, []http.Header{{"Retry-After": {"0"}}}, &calls)
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	resp, err := testClient(srv.URL, 3).Generate(ctx, hello())
	if err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}
	if resp.Text() != "ok" {
		t.Fatalf("unexpected response: %+v", resp)
	}
	if calls != 2 {
		t.Fatalf("expected 2 calls, got %d", calls)
	}
}

func TestRetryAfterHonored(t *testing.T) {
	var calls int32
	srv := sequenceServer(t, []int{429, 200}, []http.Header{{"Retry-After": {"1"}}}, &calls)
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	start := time.Now()
	if _, err := testClient(srv.URL, 3).Generate(ctx, hello()); err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}
	if elapsed := time.Since(start); elapsed < 900*time.Millisecond {
		t.Fatalf("expected at least ~1s delay due to Retry-After, got %v", elapsed)
	}
}

func TestRetriesExhaustedReturnsServerError(t *testing.T) {
	var calls int32
	srv := sequenceServer(t, []int{503}, nil, &calls)
	defer srv.Close()

	_, err := testClient(srv.URL, 2).Generate(context.Background(), hello())
	var se *ServerError
	if !errors.As(err, &se) {
		t.Fatalf("expected ServerError, got %T: %v", err, err)
	}
	if calls != 2 {
		t.Fatalf("expected 2 attempts, got %d", calls)
	}
}

func TestErrorIncludesRequestID(t *testing.T) {
	srv := newIPv4Server(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Request-Id", "req_test_123")
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]any{"error": map[string]any{"message": "bad req", "code": "bad_request"}})
	}))
	defer srv.Close()

	_, err := testClient(srv.URL, 1).Generate(context.Background(), hello())
	var bre *BadRequestError
	if !errors.As(err, &bre) {
		t.Fatalf("expected BadRequestError, got %T: %v", err, err)
	}
	if !strings.Contains(err.Error(), "req_test_123") {
		t.Fatalf("expected request id in error, got: %v", err)
	}
}

func TestAuthErrorNotRetried(t *testing.T) {
	var calls int32
	srv := sequenceServer(t, []int{401}, nil, &calls)
	defer srv.Close()

	_, err := testClient(srv.URL, 3).Generate(context.Background(), hello())
	var ae *AuthError
	if !errors.As(err, &ae) {
		t.Fatalf("expected AuthError, got %T: %v", err, err)
	}
	if calls != 1 {
		t.Fatalf("expected a single attempt, got %d", calls)
	}
}

func TestGenerateValidation(t *testing.T) {
	if _, err := NewClient(Config{}).Generate(context.Background(), hello()); !errors.Is(err, ErrMissingAPIKey) {
		t.Fatalf("expected ErrMissingAPIKey, got %v", err)
	}
	c := NewClient(Config{APIKey: "k"})
	if _, err := c.Generate(context.Background(), GenerateRequest{Messages: hello().Messages}); !errors.Is(err, ErrEmptyModel) {
		t.Fatalf("expected ErrEmptyModel, got %v", err)
	}
	if _, err := c.Generate(context.Background(), GenerateRequest{Model: "m"}); !errors.Is(err, ErrEmptyMessages) {
		t.Fatalf("expected ErrEmptyMessages, got %v", err)
	}
}

func TestRegistry(t *testing.T) {
	if _, err := New("nope", Config{}); err == nil {
		t.Fatalf("expected error for unknown provider")
	}
	rt, err := New(ProviderOllama, Config{})
	if err != nil {
		t.Fatalf("New ollama: %v", err)
	}
	if _, ok := rt.(*OllamaClient); !ok {
		t.Fatalf("expected *OllamaClient, got %T", rt)
	}
	got := Providers()
	if len(got) != 2 || got[0] != ProviderOllama || got[1] != ProviderOpenRouter {
		t.Fatalf("unexpected providers: %v", got)
	}
}
