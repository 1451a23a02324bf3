package ingest

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	vtesting "github.com/Neverdecel/VacAI/internal/testing"
	"github.com/Neverdecel/VacAI/scraper"
	"github.com/Neverdecel/VacAI/store"
)

func newTestIngestor(t *testing.T) (*Ingestor, *store.Store) {
	t.Helper()
	s := store.New(vtesting.CreateMigratedTestDB(t))
	return New(s), s
}

func TestIngestAccountsForEveryPosting(t *testing.T) {
	ing, s := newTestIngestor(t)

	batch := []scraper.RawPosting{
		{URL: "https://example.com/jobs/1", Title: "Engineer", Company: "Acme"},
		{URL: "https://example.com/jobs/2", Title: "Developer", Company: "Beta"},
		{URL: "https://example.com/jobs/1?utm_source=feed", Title: "Engineer", Company: "Acme"}, // dup after normalization
		{URL: "https://example.com/jobs/3", Title: "", Company: "Gamma"},                        // missing title
		{URL: "", Title: "Analyst", Company: "Delta"},                                           // missing url
	}

	sum, err := ing.Ingest(context.Background(), batch)
	require.NoError(t, err)
	assert.Equal(t, 2, sum.Created)
	assert.Equal(t, 1, sum.Duplicates)
	assert.Equal(t, 2, sum.Invalid)
	assert.Equal(t, len(batch), sum.Total())

	stats, err := s.Stats()
	require.NoError(t, err)
	assert.Equal(t, 2, stats.TotalPostings)
}

func TestIngestStoresNormalizedURL(t *testing.T) {
	ing, s := newTestIngestor(t)

	_, err := ing.Ingest(context.Background(), []scraper.RawPosting{
		{URL: "HTTPS://Example.com/jobs/42/?utm_campaign=x#apply", Title: "Engineer", Company: "Acme"},
	})
	require.NoError(t, err)

	pending, err := s.GetPending(1)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, "https://example.com/jobs/42", pending[0].URL)
}

func TestIngestRerunIsIdempotent(t *testing.T) {
	ing, s := newTestIngestor(t)
	batch := []scraper.RawPosting{
		{URL: "https://example.com/jobs/1", Title: "Engineer", Company: "Acme"},
		{URL: "https://example.com/jobs/2", Title: "Developer", Company: "Beta"},
	}

	first, err := ing.Ingest(context.Background(), batch)
	require.NoError(t, err)
	assert.Equal(t, 2, first.Created)

	second, err := ing.Ingest(context.Background(), batch)
	require.NoError(t, err)
	assert.Equal(t, 0, second.Created)
	assert.Equal(t, 2, second.Duplicates)

	stats, err := s.Stats()
	require.NoError(t, err)
	assert.Equal(t, 2, stats.TotalPostings)
}

func TestIngestCancelledContext(t *testing.T) {
	ing, _ := newTestIngestor(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := ing.Ingest(ctx, []scraper.RawPosting{
		{URL: "https://example.com/jobs/1", Title: "Engineer", Company: "Acme"},
	})
	assert.Error(t, err)
}
