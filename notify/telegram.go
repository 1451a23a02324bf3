// Package notify delivers match reports to the candidate. Delivery is a
// best-effort side channel: a failed send is logged and reported, never
// fatal to the pipeline run.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/Neverdecel/VacAI/errors"
	"github.com/Neverdecel/VacAI/internal/httpclient"
	"github.com/Neverdecel/VacAI/logger"
	"github.com/Neverdecel/VacAI/report"
)

// Telegram caps message text at 4096 characters
const maxMessageLength = 4096

const defaultAPIBase = "https://api.telegram.org"

// Telegram sends HTML-formatted messages via the bot API
type Telegram struct {
	token   string
	chatID  string
	apiBase string
	client  *httpclient.SaferClient
}

// TelegramOptions configures the notifier
type TelegramOptions struct {
	APIBase string                  // override for tests
	Client  *httpclient.SaferClient // override for tests
}

// NewTelegram creates a notifier for one bot/chat pair
func NewTelegram(token, chatID string, opts TelegramOptions) (*Telegram, error) {
	if token == "" {
		return nil, errors.New("telegram bot token not configured")
	}
	if chatID == "" {
		return nil, errors.New("telegram chat id not configured")
	}
	apiBase := opts.APIBase
	if apiBase == "" {
		apiBase = defaultAPIBase
	}
	client := opts.Client
	if client == nil {
		client = httpclient.New(30 * time.Second)
	}
	return &Telegram{token: token, chatID: chatID, apiBase: apiBase, client: client}, nil
}

// SendReport renders the report and delivers it, chunked to the message
// size limit
func (t *Telegram) SendReport(ctx context.Context, r *report.Report) error {
	text := RenderReport(r)
	for _, chunk := range splitMessage(text, maxMessageLength) {
		if err := t.sendMessage(ctx, chunk); err != nil {
			return err
		}
	}
	logger.Infow("report delivered",
		"strong", len(r.Strong), "potential", len(r.Potential), "total", r.TotalCount)
	return nil
}

type sendMessageRequest struct {
	ChatID                string `json:"chat_id"`
	Text                  string `json:"text"`
	ParseMode             string `json:"parse_mode"`
	DisableWebPagePreview bool   `json:"disable_web_page_preview"`
}

type sendMessageResponse struct {
	OK          bool   `json:"ok"`
	Description string `json:"description,omitempty"`
}

// sendMessage posts one message to the bot API
func (t *Telegram) sendMessage(ctx context.Context, text string) error {
	body, err := json.Marshal(sendMessageRequest{
		ChatID:                t.chatID,
		Text:                  text,
		ParseMode:             "HTML",
		DisableWebPagePreview: true,
	})
	if err != nil {
		return errors.Wrap(err, "marshal telegram message")
	}

	url := t.apiBase + "/bot" + t.token + "/sendMessage"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return errors.Wrap(err, "build telegram request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.client.Do(req)
	if err != nil {
		return errors.WrapTransient(err, "send telegram message")
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 4096))
	if err != nil {
		return errors.Wrap(err, "read telegram response")
	}

	var apiResp sendMessageResponse
	if err := json.Unmarshal(respBody, &apiResp); err != nil {
		return errors.Newf("telegram returned %d: %s", resp.StatusCode, string(respBody))
	}
	if !apiResp.OK {
		if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
			return errors.NewTransientError("telegram send failed: %s", apiResp.Description)
		}
		return errors.Newf("telegram send failed: %s", apiResp.Description)
	}
	return nil
}

// splitMessage chunks text at line boundaries under the size limit. A
// single oversized line is hard-split.
func splitMessage(text string, limit int) []string {
	if len(text) <= limit {
		return []string{text}
	}

	var chunks []string
	var current bytes.Buffer
	for _, line := range bytes.Split([]byte(text), []byte("\n")) {
		for len(line) > limit {
			chunks = flushChunk(chunks, &current)
			chunks = append(chunks, string(line[:limit]))
			line = line[limit:]
		}
		if current.Len()+len(line)+1 > limit {
			chunks = flushChunk(chunks, &current)
		}
		if current.Len() > 0 {
			current.WriteByte('\n')
		}
		current.Write(line)
	}
	chunks = flushChunk(chunks, &current)
	return chunks
}

func flushChunk(chunks []string, buf *bytes.Buffer) []string {
	if buf.Len() > 0 {
		chunks = append(chunks, buf.String())
		buf.Reset()
	}
	return chunks
}
