package openai

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Neverdecel/VacAI/ai"
	"github.com/Neverdecel/VacAI/errors"
)

func newTestClient(srv *httptest.Server) *Client {
	return New(Config{
		APIKey:     "test-key",
		BaseURL:    srv.URL + "/v1",
		HTTPClient: srv.Client(),
	})
}

func completionBody(content string) string {
	return fmt.Sprintf(`{
		"id": "chatcmpl-1",
		"object": "chat.completion",
		"model": "gpt-4o-mini",
		"choices": [{"index": 0, "message": {"role": "assistant", "content": %q}, "finish_reason": "stop"}],
		"usage": {"prompt_tokens": 100, "completion_tokens": 50, "total_tokens": 150}
	}`, content)
}

func TestChatReturnsContentAndUsage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, completionBody(`{"skills_match": 80}`))
	}))
	defer srv.Close()

	c := newTestClient(srv)
	resp, err := c.Chat(context.Background(), ai.ChatRequest{
		SystemPrompt: "You evaluate job postings.",
		UserPrompt:   "Evaluate this posting.",
	})
	require.NoError(t, err)
	assert.Equal(t, `{"skills_match": 80}`, resp.Content)
	assert.Equal(t, 100, resp.Usage.PromptTokens)
	assert.Equal(t, 50, resp.Usage.CompletionTokens)
	assert.Equal(t, 150, resp.Usage.TotalTokens)
}

func TestChatRateLimitIsTransient(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		fmt.Fprint(w, `{"error": {"message": "rate limit exceeded", "type": "rate_limit_error"}}`)
	}))
	defer srv.Close()

	c := newTestClient(srv)
	_, err := c.Chat(context.Background(), ai.ChatRequest{UserPrompt: "x"})
	assert.True(t, errors.IsTransient(err))
}

func TestChatServerErrorIsTransient(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		fmt.Fprint(w, `{"error": {"message": "upstream failure", "type": "server_error"}}`)
	}))
	defer srv.Close()

	c := newTestClient(srv)
	_, err := c.Chat(context.Background(), ai.ChatRequest{UserPrompt: "x"})
	assert.True(t, errors.IsTransient(err))
}

func TestChatAuthErrorIsNotTransient(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		fmt.Fprint(w, `{"error": {"message": "invalid api key", "type": "invalid_request_error"}}`)
	}))
	defer srv.Close()

	c := newTestClient(srv)
	_, err := c.Chat(context.Background(), ai.ChatRequest{UserPrompt: "x"})
	require.Error(t, err)
	assert.False(t, errors.IsTransient(err), "auth failures must not be retried")
}

func TestChatMissingAPIKey(t *testing.T) {
	c := New(Config{})
	_, err := c.Chat(context.Background(), ai.ChatRequest{UserPrompt: "x"})
	assert.Error(t, err)
}

func TestCalculateCost(t *testing.T) {
	// gpt-4o-mini: $0.15/1M prompt, $0.60/1M completion
	cost := CalculateCost("gpt-4o-mini", 1_000_000, 1_000_000)
	assert.InDelta(t, 0.75, cost, 0.0001)

	// Unknown models fall back to a flat conservative estimate
	assert.Equal(t, DefaultPricingFallback, CalculateCost("some-new-model", 10, 10))
}
