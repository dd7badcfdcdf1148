package textgen

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/arxeon/arxeon-api/internal/pkg/config"
)

func newTestClient(apiKey, baseURL string) *Client {
	c := NewClient(&config.Config{
		OpenAIAPIKey:   apiKey,
		OpenAIModel:    "gpt-4o-mini",
		TextGenTimeout: 5 * time.Second,
	})
	if baseURL != "" {
		c.baseURL = baseURL
	}
	return c
}

func TestGenerate_NotConfigured(t *testing.T) {
	c := newTestClient("", "")
	if c.Configured() {
		t.Fatalf("client without key must not report configured")
	}

	_, err := c.Generate(context.Background(), "system", "user")
	if !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("err = %v, want ErrNotConfigured", err)
	}
}

func TestGenerate_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer sk-test" {
			t.Errorf("Authorization = %q", got)
		}
		var req chatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if req.Model != "gpt-4o-mini" || len(req.Messages) != 2 {
			t.Errorf("request wrong: %+v", req)
		}
		if req.Messages[0].Role != "system" || req.Messages[1].Role != "user" {
			t.Errorf("message roles wrong: %+v", req.Messages)
		}

		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"choices": []map[string]interface{}{
				{"message": map[string]string{"role": "assistant", "content": "Punteggio: 7/10"}},
			},
		})
	}))
	defer srv.Close()

	c := newTestClient("sk-test", srv.URL)
	got, err := c.Generate(context.Background(), "sistema", "contenuto")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "Punteggio: 7/10" {
		t.Fatalf("content = %q", got)
	}
}

func TestGenerate_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":{"message":"rate limited","type":"requests"}}`))
	}))
	defer srv.Close()

	c := newTestClient("sk-test", srv.URL)
	_, err := c.Generate(context.Background(), "s", "u")
	if err == nil {
		t.Fatalf("expected error on non-200 status")
	}
}

func TestGenerate_EmptyChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"choices":[]}`))
	}))
	defer srv.Close()

	c := newTestClient("sk-test", srv.URL)
	_, err := c.Generate(context.Background(), "s", "u")
	if err == nil {
		t.Fatalf("expected error on empty choices")
	}
}
