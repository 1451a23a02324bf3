package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Neverdecel/VacAI/errors"
	"github.com/Neverdecel/VacAI/internal/httpclient"
	"github.com/Neverdecel/VacAI/report"
	"github.com/Neverdecel/VacAI/store"
)

func sampleReport() *report.Report {
	min := 70000.0
	max := 90000.0
	return &report.Report{
		Strong: []store.ScoredPosting{{
			Posting: store.Posting{
				URL: "https://example.com/jobs/1", Title: "Platform Engineer",
				Company: "Acme", Location: "Amsterdam",
				MinSalary: &min, MaxSalary: &max, SalaryCurrency: "EUR",
			},
			Score: store.Score{OverallScore: 88},
		}},
		Potential: []store.ScoredPosting{{
			Posting: store.Posting{
				URL: "https://example.com/jobs/2", Title: "Backend Developer", Company: "Beta",
			},
			Score: store.Score{OverallScore: 65},
		}},
		TotalCount:  3,
		GeneratedAt: time.Date(2025, 6, 30, 9, 0, 0, 0, time.UTC),
	}
}

func newTestNotifier(t *testing.T, handler http.HandlerFunc) (*Telegram, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	n, err := NewTelegram("test-token", "12345", TelegramOptions{
		APIBase: srv.URL,
		Client:  httpclient.WrapClient(srv.Client()),
	})
	require.NoError(t, err)
	return n, srv
}

func TestSendReport(t *testing.T) {
	var got sendMessageRequest
	n, _ := newTestNotifier(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/bottest-token/sendMessage", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		fmt.Fprint(w, `{"ok": true}`)
	})

	require.NoError(t, n.SendReport(context.Background(), sampleReport()))

	assert.Equal(t, "12345", got.ChatID)
	assert.Equal(t, "HTML", got.ParseMode)
	assert.Contains(t, got.Text, "Platform Engineer")
	assert.Contains(t, got.Text, "Strong matches (1)")
	assert.Contains(t, got.Text, "Potential matches (1)")
	assert.Contains(t, got.Text, "70000-90000 EUR")
	assert.Contains(t, got.Text, "3 postings evaluated")
}

func TestSendReportChunksLongMessages(t *testing.T) {
	var sends int
	n, _ := newTestNotifier(t, func(w http.ResponseWriter, r *http.Request) {
		var req sendMessageRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.LessOrEqual(t, len(req.Text), maxMessageLength)
		sends++
		fmt.Fprint(w, `{"ok": true}`)
	})

	r := sampleReport()
	for i := 0; i < 100; i++ {
		r.Strong = append(r.Strong, store.ScoredPosting{
			Posting: store.Posting{
				URL:     fmt.Sprintf("https://example.com/jobs/long-%d", i),
				Title:   strings.Repeat("Very Senior ", 10) + "Engineer",
				Company: "Acme",
			},
			Score: store.Score{OverallScore: 85},
		})
	}

	require.NoError(t, n.SendReport(context.Background(), r))
	assert.Greater(t, sends, 1, "an oversized report must be split across messages")
}

func TestSendReportAPIFailure(t *testing.T) {
	n, _ := newTestNotifier(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		fmt.Fprint(w, `{"ok": false, "description": "chat not found"}`)
	})

	err := n.SendReport(context.Background(), sampleReport())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "chat not found")
}

func TestSendReportRateLimitIsTransient(t *testing.T) {
	n, _ := newTestNotifier(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		fmt.Fprint(w, `{"ok": false, "description": "too many requests"}`)
	})

	err := n.SendReport(context.Background(), sampleReport())
	assert.True(t, errors.IsTransient(err))
}

func TestNewTelegramRequiresCredentials(t *testing.T) {
	_, err := NewTelegram("", "123", TelegramOptions{})
	assert.Error(t, err)
	_, err = NewTelegram("token", "", TelegramOptions{})
	assert.Error(t, err)
}

func TestRenderReportEscapesHTML(t *testing.T) {
	r := &report.Report{
		Strong: []store.ScoredPosting{{
			Posting: store.Posting{
				URL: "https://example.com/jobs/1", Title: "Engineer <script>", Company: "A&B",
			},
			Score: store.Score{OverallScore: 90},
		}},
		TotalCount:  1,
		GeneratedAt: time.Now(),
	}
	text := RenderReport(r)
	assert.Contains(t, text, "Engineer &lt;script&gt;")
	assert.Contains(t, text, "A&amp;B")
}

func TestRenderEmptyReport(t *testing.T) {
	text := RenderReport(&report.Report{GeneratedAt: time.Now()})
	assert.Contains(t, text, "No matches")
}
