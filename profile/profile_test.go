package profile

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Neverdecel/VacAI/ai"
	"github.com/Neverdecel/VacAI/errors"
)

func TestProfileSaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config", "profile.json")

	p := &CandidateProfile{
		Summary:         "Backend engineer",
		Skills:          []string{"Go", "SQL"},
		YearsExperience: 7,
		PreferredTitles: []string{"Senior Backend Engineer"},
		SalaryExpectation: SalaryExpectation{
			Min: 70000, Max: 90000, Currency: "EUR",
		},
	}
	require.NoError(t, p.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, p.Skills, loaded.Skills)
	assert.Equal(t, 7, loaded.YearsExperience)
	assert.Equal(t, "EUR", loaded.SalaryExpectation.Currency)
}

func TestLoadMissingProfile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.json"))
	assert.True(t, errors.IsNotFound(err))
}

func TestValidateRejectsEmptySkills(t *testing.T) {
	p := &CandidateProfile{YearsExperience: 3}
	assert.True(t, errors.IsValidation(p.Validate()))
}

// fakeClient returns a fixed response for analyzer tests
type fakeClient struct {
	content string
	err     error
}

func (f *fakeClient) Chat(_ context.Context, _ ai.ChatRequest) (*ai.ChatResponse, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &ai.ChatResponse{Content: f.content}, nil
}

func (f *fakeClient) Model() string { return "fake" }

func TestAnalyzeProducesProfile(t *testing.T) {
	a := NewAnalyzer(&fakeClient{content: `{
		"summary": "Backend engineer with platform focus",
		"skills": ["Go", "Kubernetes"],
		"years_experience": 8,
		"preferred_titles": ["Platform Engineer"],
		"salary_expectation": {"min": 80000, "max": 100000, "currency": "EUR"}
	}`})

	p, err := a.Analyze(context.Background(), "Jane Doe. 8 years building backend platforms in Go...")
	require.NoError(t, err)
	assert.Equal(t, []string{"Go", "Kubernetes"}, p.Skills)
	assert.Equal(t, 8, p.YearsExperience)
}

func TestAnalyzeRejectsMalformedResponse(t *testing.T) {
	a := NewAnalyzer(&fakeClient{content: "sorry, I can't do that"})
	_, err := a.Analyze(context.Background(), "resume text")
	assert.True(t, errors.IsValidation(err))
}

func TestAnalyzeRejectsEmptyResume(t *testing.T) {
	a := NewAnalyzer(&fakeClient{content: "{}"})
	_, err := a.Analyze(context.Background(), "   ")
	assert.True(t, errors.IsValidation(err))
}
