package score

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Neverdecel/VacAI/errors"
)

const validResponse = `{
	"skills_match": 85,
	"experience_fit": 75,
	"salary_alignment": 60,
	"culture_fit": 70,
	"growth_potential": 80,
	"reasoning": "Strong skills overlap, salary not stated."
}`

func TestParseScoreResponse(t *testing.T) {
	s, err := parseScoreResponse(validResponse)
	require.NoError(t, err)
	assert.Equal(t, 85, s.SkillsMatch)
	assert.Equal(t, 75, s.ExperienceFit)
	assert.Equal(t, 60, s.SalaryAlignment)
	assert.Equal(t, 70, s.CultureFit)
	assert.Equal(t, 80, s.GrowthPotential)
	assert.Equal(t, ComputeOverall(85, 75, 60, 70, 80), s.OverallScore)
	assert.NotEmpty(t, s.Reasoning)
}

func TestParseScoreResponseIgnoresModelOverall(t *testing.T) {
	// The model may volunteer its own overall; the stored aggregate is
	// always recomputed from the dimensions
	s, err := parseScoreResponse(`{
		"skills_match": 100, "experience_fit": 100, "salary_alignment": 100,
		"culture_fit": 100, "growth_potential": 100,
		"overall_score": 3,
		"reasoning": "Perfect match."
	}`)
	require.NoError(t, err)
	assert.Equal(t, 100, s.OverallScore)
}

func TestParseScoreResponseCodeFence(t *testing.T) {
	s, err := parseScoreResponse("```json\n" + validResponse + "\n```")
	require.NoError(t, err)
	assert.Equal(t, 85, s.SkillsMatch)
}

func TestParseScoreResponseRejections(t *testing.T) {
	tests := []struct {
		name string
		in   string
	}{
		{"not json", "I would rate this job highly."},
		{"missing dimension", `{"skills_match": 80, "experience_fit": 70, "salary_alignment": 60, "culture_fit": 50, "reasoning": "x"}`},
		{"out of range high", `{"skills_match": 120, "experience_fit": 70, "salary_alignment": 60, "culture_fit": 50, "growth_potential": 40, "reasoning": "x"}`},
		{"out of range negative", `{"skills_match": -5, "experience_fit": 70, "salary_alignment": 60, "culture_fit": 50, "growth_potential": 40, "reasoning": "x"}`},
		{"missing reasoning", `{"skills_match": 80, "experience_fit": 70, "salary_alignment": 60, "culture_fit": 50, "growth_potential": 40, "reasoning": "  "}`},
		{"empty", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parseScoreResponse(tt.in)
			assert.True(t, errors.IsValidation(err), "expected validation failure, got %v", err)
		})
	}
}
