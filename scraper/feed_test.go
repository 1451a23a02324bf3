package scraper

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Neverdecel/VacAI/errors"
	"github.com/Neverdecel/VacAI/internal/httpclient"
)

func newFeedServer(t *testing.T, pages map[int]string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		page := r.URL.Query().Get("page")
		body, ok := pages[atoiOr(page, 0)]
		if !ok {
			body = `{"jobs": []}`
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, body)
	}))
}

func atoiOr(s string, fallback int) int {
	var n int
	if _, err := fmt.Sscanf(s, "%d", &n); err != nil {
		return fallback
	}
	return n
}

func testFeedSource(name, endpoint string) *FeedSource {
	return NewFeedSource(name, endpoint, FeedOptions{
		RequestsPerSecond: 1000, // don't slow the test down
		Client:            httpclient.WrapClient(http.DefaultClient),
	})
}

func TestFeedSourceFetchPaginates(t *testing.T) {
	srv := newFeedServer(t, map[int]string{
		1: `{"jobs": [{"url": "https://example.com/jobs/1", "title": "Engineer", "company": "Acme"}]}`,
		2: `{"jobs": [{"url": "https://example.com/jobs/2", "title": "Developer", "company": "Beta"}]}`,
	})
	defer srv.Close()

	src := testFeedSource("testboard", srv.URL)
	postings, err := src.Fetch(context.Background())
	require.NoError(t, err)
	require.Len(t, postings, 2)
	assert.Equal(t, "https://example.com/jobs/1", postings[0].URL)
	assert.Equal(t, "https://example.com/jobs/2", postings[1].URL)
}

func TestFeedSourceStampsPlatform(t *testing.T) {
	srv := newFeedServer(t, map[int]string{
		1: `{"jobs": [
			{"url": "https://example.com/jobs/1", "title": "Engineer", "company": "Acme"},
			{"url": "https://example.com/jobs/2", "title": "Developer", "company": "Beta", "source_platform": "upstream"}
		]}`,
	})
	defer srv.Close()

	src := testFeedSource("testboard", srv.URL)
	postings, err := src.Fetch(context.Background())
	require.NoError(t, err)
	require.Len(t, postings, 2)
	assert.Equal(t, "testboard", postings[0].SourcePlatform)
	// A platform set by the feed itself is preserved
	assert.Equal(t, "upstream", postings[1].SourcePlatform)
}

func TestFeedSourceServerErrorIsTransient(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream down", http.StatusBadGateway)
	}))
	defer srv.Close()

	src := testFeedSource("testboard", srv.URL)
	postings, err := src.Fetch(context.Background())
	assert.True(t, errors.IsTransient(err))
	assert.Empty(t, postings)
}

func TestFeedSourcePartialResults(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			fmt.Fprint(w, `{"jobs": [{"url": "https://example.com/jobs/1", "title": "Engineer", "company": "Acme"}]}`)
			return
		}
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	src := testFeedSource("testboard", srv.URL)
	postings, err := src.Fetch(context.Background())
	assert.True(t, errors.IsTransient(err))
	// The page fetched before the failure still comes back
	require.Len(t, postings, 1)
}

func TestFeedSourceHonorsMaxPages(t *testing.T) {
	var served int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		served++
		fmt.Fprintf(w, `{"jobs": [{"url": "https://example.com/jobs/%d", "title": "Engineer", "company": "Acme"}]}`, served)
	}))
	defer srv.Close()

	src := NewFeedSource("testboard", srv.URL, FeedOptions{
		RequestsPerSecond: 1000,
		MaxPages:          3,
		Client:            httpclient.WrapClient(http.DefaultClient),
	})
	postings, err := src.Fetch(context.Background())
	require.NoError(t, err)
	assert.Len(t, postings, 3)
	assert.Equal(t, 3, served)
}

func TestFeedSourceContextCancellation(t *testing.T) {
	srv := newFeedServer(t, map[int]string{})
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	src := testFeedSource("testboard", srv.URL)
	_, err := src.Fetch(ctx)
	assert.Error(t, err)
}
