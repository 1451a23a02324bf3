package ingest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Neverdecel/VacAI/errors"
)

func TestNormalizeURL(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "lowercases scheme and host",
			in:   "HTTPS://Example.COM/Jobs/123",
			want: "https://example.com/Jobs/123",
		},
		{
			name: "strips utm params",
			in:   "https://example.com/jobs/123?utm_source=newsletter&utm_campaign=june",
			want: "https://example.com/jobs/123",
		},
		{
			name: "strips click ids and referrer tags",
			in:   "https://example.com/jobs/123?fbclid=abc&gclid=def&ref=homepage&trk=feed",
			want: "https://example.com/jobs/123",
		},
		{
			name: "keeps meaningful params",
			in:   "https://example.com/jobs?id=123&utm_medium=email",
			want: "https://example.com/jobs?id=123",
		},
		{
			name: "drops fragment",
			in:   "https://example.com/jobs/123#apply",
			want: "https://example.com/jobs/123",
		},
		{
			name: "trims trailing slash",
			in:   "https://example.com/jobs/123/",
			want: "https://example.com/jobs/123",
		},
		{
			name: "bare host root path",
			in:   "https://example.com/",
			want: "https://example.com",
		},
		{
			name: "surrounding whitespace",
			in:   "  https://example.com/jobs/123  ",
			want: "https://example.com/jobs/123",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizeURL(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNormalizeURLIdempotent(t *testing.T) {
	once, err := NormalizeURL("HTTPS://Example.com/jobs/123/?utm_source=x#frag")
	require.NoError(t, err)
	twice, err := NormalizeURL(once)
	require.NoError(t, err)
	assert.Equal(t, once, twice)
}

func TestNormalizeURLRejectsInvalid(t *testing.T) {
	for _, in := range []string{
		"",
		"   ",
		"not a url at all://",
		"ftp://example.com/jobs",
		"javascript:alert(1)",
		"/relative/path/only",
	} {
		_, err := NormalizeURL(in)
		assert.True(t, errors.IsValidation(err), "input %q should be a validation failure", in)
	}
}
