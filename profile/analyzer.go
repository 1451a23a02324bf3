package profile

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/Neverdecel/VacAI/ai"
	"github.com/Neverdecel/VacAI/errors"
	"github.com/Neverdecel/VacAI/logger"
)

const analyzerSystemPrompt = `You are a career analyst. Extract a structured candidate profile from the resume text you are given.

Respond with a single JSON object, no prose, using exactly these fields:
{
  "name": "candidate name if present, else empty",
  "summary": "2-3 sentence professional summary",
  "skills": ["skill", ...],
  "years_experience": <integer>,
  "preferred_titles": ["job title the candidate fits", ...],
  "locations": ["location preference if stated", ...],
  "salary_expectation": {"min": <number or 0>, "max": <number or 0>, "currency": "EUR"},
  "growth_goals": ["inferred growth direction", ...],
  "culture_preferences": ["inferred working-culture preference", ...]
}`

// Analyzer extracts a candidate profile from resume text via the model
type Analyzer struct {
	client ai.Client
}

// NewAnalyzer creates an analyzer over a model client
func NewAnalyzer(client ai.Client) *Analyzer {
	return &Analyzer{client: client}
}

// Analyze turns resume text into a validated candidate profile
func (a *Analyzer) Analyze(ctx context.Context, resumeText string) (*CandidateProfile, error) {
	resumeText = strings.TrimSpace(resumeText)
	if resumeText == "" {
		return nil, errors.NewValidationError("resume text is empty")
	}

	maxTokens := 2000
	resp, err := a.client.Chat(ctx, ai.ChatRequest{
		SystemPrompt: analyzerSystemPrompt,
		UserPrompt:   resumeText,
		MaxTokens:    &maxTokens,
	})
	if err != nil {
		return nil, errors.Wrap(err, "analyze resume")
	}

	var p CandidateProfile
	if err := json.Unmarshal([]byte(resp.Content), &p); err != nil {
		return nil, errors.Wrap(errors.ErrValidation, "unparseable profile response: "+err.Error())
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}

	logger.Infow("resume analyzed",
		"skills", len(p.Skills),
		"years_experience", p.YearsExperience,
		"tokens", resp.Usage.TotalTokens,
	)
	return &p, nil
}
