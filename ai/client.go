// Package ai defines the scoring-model collaborator boundary. The
// orchestrator and the profile analyzer speak to this interface; the
// concrete OpenAI client lives in ai/openai.
package ai

import "context"

// ChatRequest is a high-level request to the model
type ChatRequest struct {
	SystemPrompt string
	UserPrompt   string
	Temperature  *float32 // nil = provider default
	MaxTokens    *int     // nil = provider default
	Model        string   // empty = provider default
}

// Usage reports token consumption for one call
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// ChatResponse is the model's reply
type ChatResponse struct {
	Content string
	Usage   Usage
}

// Client is a chat-completion model client. Implementations classify
// their failures: rate limits, timeouts, and 5xx responses come back
// wrapping ErrTransient so the caller's retry policy can act on them.
type Client interface {
	Chat(ctx context.Context, req ChatRequest) (*ChatResponse, error)

	// Model returns the default model identifier used for calls that do
	// not override it
	Model() string
}
