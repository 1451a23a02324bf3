package score

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Neverdecel/VacAI/ai"
	"github.com/Neverdecel/VacAI/ai/tracker"
	"github.com/Neverdecel/VacAI/errors"
	vtesting "github.com/Neverdecel/VacAI/internal/testing"
	"github.com/Neverdecel/VacAI/profile"
	"github.com/Neverdecel/VacAI/store"
)

// fakeClient returns canned responses keyed by substring of the prompt,
// or a default response. Thread-safe: workers call it concurrently.
type fakeClient struct {
	mu        sync.Mutex
	calls     int
	responses map[string]fakeResponse // keyed by posting title found in the prompt
	fallback  fakeResponse
}

type fakeResponse struct {
	content string
	err     error
}

func (f *fakeClient) Chat(_ context.Context, req ai.ChatRequest) (*ai.ChatResponse, error) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()

	for key, resp := range f.responses {
		if containsTitle(req.UserPrompt, key) {
			if resp.err != nil {
				return nil, resp.err
			}
			return &ai.ChatResponse{Content: resp.content}, nil
		}
	}
	if f.fallback.err != nil {
		return nil, f.fallback.err
	}
	return &ai.ChatResponse{Content: f.fallback.content}, nil
}

func (f *fakeClient) Model() string { return "fake-model" }

func (f *fakeClient) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func containsTitle(prompt, title string) bool {
	return strings.Contains(prompt, "Title: "+title+"\n")
}

func testProfile() *profile.CandidateProfile {
	return &profile.CandidateProfile{
		Skills:          []string{"Go", "SQL"},
		YearsExperience: 5,
	}
}

func seedPostings(t *testing.T, s *store.Store, n int) {
	t.Helper()
	for i := 1; i <= n; i++ {
		_, created, err := s.InsertPosting(&store.Posting{
			URL:         fmt.Sprintf("https://example.com/jobs/%d", i),
			Title:       fmt.Sprintf("Job %d", i),
			Company:     "Acme",
			Description: "Build backend services in Go.",
		})
		require.NoError(t, err)
		require.True(t, created)
	}
}

func newOrchestrator(s *store.Store, client ai.Client, tr *tracker.UsageTracker, opts Options) *Orchestrator {
	opts.Retry = fastPolicy(3)
	return New(s, client, testProfile(), tr, opts)
}

func TestScorePendingScoresAll(t *testing.T) {
	s := store.New(vtesting.CreateMigratedTestDB(t))
	seedPostings(t, s, 5)

	client := &fakeClient{fallback: fakeResponse{content: validResponse}}
	o := newOrchestrator(s, client, nil, Options{Workers: 2, CallsPerMinute: 1000})

	sum, err := o.ScorePending(context.Background(), 0)
	require.NoError(t, err)
	assert.Equal(t, Summary{Scored: 5}, sum)
	assert.Equal(t, 5, client.callCount())

	pending, err := s.GetPending(0)
	require.NoError(t, err)
	assert.Empty(t, pending)
}

func TestScorePendingIsIdempotent(t *testing.T) {
	s := store.New(vtesting.CreateMigratedTestDB(t))
	seedPostings(t, s, 3)

	client := &fakeClient{fallback: fakeResponse{content: validResponse}}
	o := newOrchestrator(s, client, nil, Options{Workers: 1, CallsPerMinute: 1000})

	_, err := o.ScorePending(context.Background(), 0)
	require.NoError(t, err)
	require.Equal(t, 3, client.callCount())

	// Second run: everything already scored, zero model calls
	sum, err := o.ScorePending(context.Background(), 0)
	require.NoError(t, err)
	assert.Equal(t, Summary{}, sum)
	assert.Equal(t, 3, client.callCount())
}

func TestScorePendingPartialFailure(t *testing.T) {
	s := store.New(vtesting.CreateMigratedTestDB(t))
	seedPostings(t, s, 10)

	client := &fakeClient{
		fallback: fakeResponse{content: validResponse},
		responses: map[string]fakeResponse{
			"Job 7": {err: errors.New("invalid api key")}, // non-retryable
		},
	}
	o := newOrchestrator(s, client, nil, Options{Workers: 3, CallsPerMinute: 1000})

	sum, err := o.ScorePending(context.Background(), 0)
	require.NoError(t, err, "one posting failing must not fail the batch")
	assert.Equal(t, 9, sum.Scored)
	assert.Equal(t, 1, sum.Failed)

	// The failed posting stays pending for the next run
	pending, err := s.GetPending(0)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, "Job 7", pending[0].Title)
}

func TestScorePendingSkipsWithoutDescription(t *testing.T) {
	s := store.New(vtesting.CreateMigratedTestDB(t))
	_, _, err := s.InsertPosting(&store.Posting{
		URL: "https://example.com/jobs/bare", Title: "Bare", Company: "Acme",
	})
	require.NoError(t, err)

	client := &fakeClient{fallback: fakeResponse{content: validResponse}}
	o := newOrchestrator(s, client, nil, Options{Workers: 1, CallsPerMinute: 1000})

	sum, err := o.ScorePending(context.Background(), 0)
	require.NoError(t, err)
	assert.Equal(t, Summary{Skipped: 1}, sum)
	assert.Equal(t, 0, client.callCount(), "a description-less posting never reaches the model")
}

func TestScorePendingHonorsMaxJobs(t *testing.T) {
	s := store.New(vtesting.CreateMigratedTestDB(t))
	seedPostings(t, s, 5)

	client := &fakeClient{fallback: fakeResponse{content: validResponse}}
	o := newOrchestrator(s, client, nil, Options{Workers: 1, CallsPerMinute: 1000})

	sum, err := o.ScorePending(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, 2, sum.Scored)
	assert.Equal(t, 2, client.callCount())
}

func TestScorePendingRetriesTransient(t *testing.T) {
	s := store.New(vtesting.CreateMigratedTestDB(t))
	seedPostings(t, s, 1)

	var mu sync.Mutex
	failures := 2
	client := &countdownClient{failuresLeft: &failures, mu: &mu}
	o := New(s, client, testProfile(), nil, Options{
		Workers: 1, CallsPerMinute: 1000, Retry: fastPolicy(3),
	})

	sum, err := o.ScorePending(context.Background(), 0)
	require.NoError(t, err)
	assert.Equal(t, Summary{Scored: 1}, sum)
}

// countdownClient fails transiently a fixed number of times, then succeeds
type countdownClient struct {
	mu           *sync.Mutex
	failuresLeft *int
}

func (c *countdownClient) Chat(_ context.Context, _ ai.ChatRequest) (*ai.ChatResponse, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if *c.failuresLeft > 0 {
		*c.failuresLeft--
		return nil, errors.NewTransientError("rate limited")
	}
	return &ai.ChatResponse{Content: validResponse}, nil
}

func (c *countdownClient) Model() string { return "fake-model" }

func TestScorePendingBudgetExhausted(t *testing.T) {
	db := vtesting.CreateMigratedTestDB(t)
	s := store.New(db)
	seedPostings(t, s, 2)

	tr := tracker.New(db)
	cost := 5.0
	now := time.Now()
	require.NoError(t, tr.TrackUsage(&tracker.ModelUsage{
		OperationType:    "job-scoring",
		EntityType:       "posting",
		ModelName:        "fake-model",
		ModelProvider:    "openai",
		RequestTimestamp: now,
		Cost:             &cost,
		Success:          true,
	}))

	client := &fakeClient{fallback: fakeResponse{content: validResponse}}
	o := newOrchestrator(s, client, tr, Options{
		Workers: 1, CallsPerMinute: 1000, DailyBudgetUSD: 1.0,
	})

	_, err := o.ScorePending(context.Background(), 0)
	assert.True(t, errors.Is(err, errors.ErrCapacityReached))
	assert.Equal(t, 0, client.callCount(), "an exhausted budget stops the run before any call")
}
