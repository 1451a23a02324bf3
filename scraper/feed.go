package scraper

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"github.com/Neverdecel/VacAI/errors"
	"github.com/Neverdecel/VacAI/internal/httpclient"
	"github.com/Neverdecel/VacAI/logger"
)

const defaultFetchTimeout = 30 * time.Second

// feedPage is the wire shape of one page of a JSON job feed
type feedPage struct {
	Jobs []RawPosting `json:"jobs"`
}

// FeedSource pulls postings from a paginated JSON feed endpoint. Requests
// are paced by a token-bucket limiter so a large feed never hammers the
// platform.
type FeedSource struct {
	name     string
	endpoint string
	client   *httpclient.SaferClient
	limiter  *rate.Limiter
	maxPages int
}

// FeedOptions configures a FeedSource
type FeedOptions struct {
	// RequestsPerSecond paces feed page fetches. Zero means 1 rps.
	RequestsPerSecond float64
	// MaxPages bounds pagination. Zero means 10.
	MaxPages int
	// Client overrides the default SSRF-protected client (tests)
	Client *httpclient.SaferClient
}

// NewFeedSource creates a source for one platform's JSON feed
func NewFeedSource(name, endpoint string, opts FeedOptions) *FeedSource {
	rps := opts.RequestsPerSecond
	if rps <= 0 {
		rps = 1
	}
	maxPages := opts.MaxPages
	if maxPages <= 0 {
		maxPages = 10
	}
	client := opts.Client
	if client == nil {
		client = httpclient.New(defaultFetchTimeout)
	}
	return &FeedSource{
		name:     name,
		endpoint: endpoint,
		client:   client,
		limiter:  rate.NewLimiter(rate.Limit(rps), 1),
		maxPages: maxPages,
	}
}

func (f *FeedSource) Name() string {
	return f.name
}

// Fetch walks the feed page by page until an empty page or maxPages.
// Every returned posting is stamped with the source name.
func (f *FeedSource) Fetch(ctx context.Context) ([]RawPosting, error) {
	var all []RawPosting
	for page := 1; page <= f.maxPages; page++ {
		if err := f.limiter.Wait(ctx); err != nil {
			return all, errors.Wrap(err, "feed pacing interrupted")
		}

		batch, err := f.fetchPage(ctx, page)
		if err != nil {
			// Partial results are still worth ingesting
			return all, errors.WrapTransient(err, fmt.Sprintf("fetch %s page %d", f.name, page))
		}
		if len(batch) == 0 {
			break
		}

		for i := range batch {
			if batch[i].SourcePlatform == "" {
				batch[i].SourcePlatform = f.name
			}
		}
		all = append(all, batch...)
		logger.Debugw("fetched feed page", "source", f.name, "page", page, "postings", len(batch))
	}
	return all, nil
}

func (f *FeedSource) fetchPage(ctx context.Context, page int) ([]RawPosting, error) {
	url := fmt.Sprintf("%s?page=%d", f.endpoint, page)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, errors.Wrap(err, "build feed request")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, errors.Newf("feed returned %d: %s", resp.StatusCode, string(body))
	}

	var p feedPage
	if err := json.NewDecoder(resp.Body).Decode(&p); err != nil {
		return nil, errors.Wrap(err, "decode feed page")
	}
	return p.Jobs, nil
}
