// Package openai implements ai.Client over the OpenAI chat completions
// API with JSON-mode responses and per-call usage tracking.
package openai

import (
	"context"
	"net"
	"net/http"
	"strings"
	"time"

	goopenai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/Neverdecel/VacAI/ai"
	"github.com/Neverdecel/VacAI/ai/tracker"
	"github.com/Neverdecel/VacAI/errors"
)

// DefaultModel matches the config default in config/defaults.go
const DefaultModel = "gpt-4o-mini"

// Config holds client configuration
type Config struct {
	APIKey        string
	BaseURL       string // empty = api.openai.com
	Model         string
	Temperature   *float32 // nil = 0.2
	MaxTokens     *int     // nil = 1000
	Logger        *zap.SugaredLogger
	Tracker       *tracker.UsageTracker // nil = no usage recording
	OperationType string                // tracking context, e.g. "job-scoring"
	EntityType    string                // tracking context, e.g. "posting"
	HTTPClient    *http.Client          // override for tests
}

// Client calls the OpenAI chat completions API
type Client struct {
	api     *goopenai.Client
	config  Config
	tracker *tracker.UsageTracker
	logger  *zap.SugaredLogger
}

// New creates a client; the API key is validated lazily on first call
func New(config Config) *Client {
	if config.Model == "" {
		config.Model = DefaultModel
	}
	if config.Temperature == nil {
		t := float32(0.2)
		config.Temperature = &t
	}
	if config.MaxTokens == nil {
		m := 1000
		config.MaxTokens = &m
	}

	logger := config.Logger
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}

	apiConfig := goopenai.DefaultConfig(config.APIKey)
	if config.BaseURL != "" {
		apiConfig.BaseURL = config.BaseURL
	}
	if config.HTTPClient != nil {
		apiConfig.HTTPClient = config.HTTPClient
	} else {
		apiConfig.HTTPClient = &http.Client{Timeout: 120 * time.Second}
	}

	return &Client{
		api:     goopenai.NewClientWithConfig(apiConfig),
		config:  config,
		tracker: config.Tracker,
		logger:  logger,
	}
}

// Model returns the default model identifier
func (c *Client) Model() string {
	return c.config.Model
}

// Chat sends one chat completion request. Responses are requested in
// JSON mode so the scorer can parse them structurally. Rate limits,
// timeouts, and server errors come back wrapping ErrTransient.
func (c *Client) Chat(ctx context.Context, req ai.ChatRequest) (*ai.ChatResponse, error) {
	if c.config.APIKey == "" {
		return nil, errors.New("OpenAI API key not configured")
	}

	model := req.Model
	if model == "" {
		model = c.config.Model
	}
	temperature := *c.config.Temperature
	if req.Temperature != nil {
		temperature = *req.Temperature
	}
	maxTokens := *c.config.MaxTokens
	if req.MaxTokens != nil {
		maxTokens = *req.MaxTokens
	}

	var messages []goopenai.ChatCompletionMessage
	if req.SystemPrompt != "" {
		messages = append(messages, goopenai.ChatCompletionMessage{
			Role:    goopenai.ChatMessageRoleSystem,
			Content: req.SystemPrompt,
		})
	}
	messages = append(messages, goopenai.ChatCompletionMessage{
		Role:    goopenai.ChatMessageRoleUser,
		Content: req.UserPrompt,
	})

	requestTime := time.Now()
	resp, err := c.api.CreateChatCompletion(ctx, goopenai.ChatCompletionRequest{
		Model:       model,
		Messages:    messages,
		Temperature: temperature,
		MaxTokens:   maxTokens,
		ResponseFormat: &goopenai.ChatCompletionResponseFormat{
			Type: goopenai.ChatCompletionResponseFormatTypeJSONObject,
		},
	})
	if err != nil {
		classified := classifyError(err)
		c.trackCall(requestTime, model, nil, nil, classified)
		return nil, classified
	}

	if len(resp.Choices) == 0 {
		err := errors.NewTransientError("no response choices from model %s", model)
		c.trackCall(requestTime, model, nil, nil, err)
		return nil, err
	}

	content := strings.TrimSpace(resp.Choices[0].Message.Content)
	tokens := resp.Usage.TotalTokens
	cost := CalculateCost(model, resp.Usage.PromptTokens, resp.Usage.CompletionTokens)

	c.logger.Debugw("model response",
		"model", model,
		"prompt_tokens", resp.Usage.PromptTokens,
		"completion_tokens", resp.Usage.CompletionTokens,
		"cost_usd", cost,
	)

	c.trackCall(requestTime, model, &tokens, &cost, nil)

	return &ai.ChatResponse{
		Content: content,
		Usage: ai.Usage{
			PromptTokens:     resp.Usage.PromptTokens,
			CompletionTokens: resp.Usage.CompletionTokens,
			TotalTokens:      resp.Usage.TotalTokens,
		},
	}, nil
}

// classifyError maps API failures onto the pipeline taxonomy
func classifyError(err error) error {
	var apiErr *goopenai.APIError
	if errors.As(err, &apiErr) {
		switch {
		case apiErr.HTTPStatusCode == http.StatusTooManyRequests:
			return errors.WrapTransient(err, "rate limited")
		case apiErr.HTTPStatusCode >= 500:
			return errors.WrapTransient(err, "server error")
		default:
			return errors.Wrap(err, "model API error")
		}
	}
	if netErr, ok := err.(net.Error); ok && netErr.Timeout() {
		return errors.WrapTransient(err, "request timed out")
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return errors.WrapTransient(err, "request deadline exceeded")
	}
	return errors.WrapTransient(err, "model request failed")
}

// trackCall records one call if a tracker is configured
func (c *Client) trackCall(requestTime time.Time, model string, tokens *int, cost *float64, callErr error) {
	if c.tracker == nil {
		return
	}
	responseTime := time.Now()
	usage := &tracker.ModelUsage{
		OperationType:     c.config.OperationType,
		EntityType:        c.config.EntityType,
		ModelName:         model,
		ModelProvider:     "openai",
		RequestTimestamp:  requestTime,
		ResponseTimestamp: &responseTime,
		TokensUsed:        tokens,
		Cost:              cost,
		Success:           callErr == nil,
	}
	if callErr != nil {
		msg := callErr.Error()
		usage.ErrorMessage = &msg
	}
	if err := c.tracker.TrackUsage(usage); err != nil {
		// Budget checks depend on this data
		c.logger.Warnw("failed to track model usage", "error", err, "model", model)
	}
}
