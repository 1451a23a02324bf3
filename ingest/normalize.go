// Package ingest turns raw scraped postings into deduplicated store
// records. The normalized URL is the identity of a posting: two raw
// postings that normalize to the same URL are the same job.
package ingest

import (
	"net/url"
	"strings"

	"github.com/Neverdecel/VacAI/errors"
)

// trackingParams are query parameters that vary per click, not per job.
// Keeping them would defeat URL-based deduplication.
var trackingParams = map[string]bool{
	"fbclid":     true,
	"gclid":      true,
	"msclkid":    true,
	"ref":        true,
	"refid":      true,
	"source":     true,
	"trk":        true,
	"trackingid": true,
}

// NormalizeURL canonicalizes a posting URL for use as the dedup key:
// scheme and host are lowercased, tracking parameters (utm_*, click ids,
// referrer tags) are stripped, the fragment is dropped, and a trailing
// slash is trimmed. Returns ErrValidation for unparseable or non-HTTP
// URLs.
func NormalizeURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", errors.NewValidationError("empty URL")
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", errors.Wrap(errors.ErrValidation, err.Error())
	}

	u.Scheme = strings.ToLower(u.Scheme)
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", errors.NewValidationError("unsupported scheme %q", u.Scheme)
	}
	if u.Host == "" {
		return "", errors.NewValidationError("URL missing host: %q", raw)
	}
	u.Host = strings.ToLower(u.Host)
	u.Fragment = ""

	if u.RawQuery != "" {
		q := u.Query()
		for key := range q {
			lower := strings.ToLower(key)
			if trackingParams[lower] || strings.HasPrefix(lower, "utm_") {
				q.Del(key)
			}
		}
		u.RawQuery = q.Encode()
	}

	normalized := u.String()
	// Trim the trailing slash on paths; the bare host keeps its root
	if strings.HasSuffix(u.Path, "/") && u.Path != "/" && u.RawQuery == "" {
		normalized = strings.TrimSuffix(normalized, "/")
	}
	if u.Path == "/" && u.RawQuery == "" {
		normalized = strings.TrimSuffix(normalized, "/")
	}
	return normalized, nil
}
