package score

import (
	"encoding/json"
	"strings"

	"github.com/Neverdecel/VacAI/errors"
	"github.com/Neverdecel/VacAI/store"
)

// scoreResponse is the wire shape of one scoring reply. Pointer fields
// distinguish a missing dimension from a zero score.
type scoreResponse struct {
	SkillsMatch     *int   `json:"skills_match"`
	ExperienceFit   *int   `json:"experience_fit"`
	SalaryAlignment *int   `json:"salary_alignment"`
	CultureFit      *int   `json:"culture_fit"`
	GrowthPotential *int   `json:"growth_potential"`
	Reasoning       string `json:"reasoning"`
}

// parseScoreResponse validates a model reply into a Score. Anything
// structurally wrong comes back as a validation failure: the caller's
// retry policy gives the model exactly one more chance.
func parseScoreResponse(content string) (*store.Score, error) {
	content = strings.TrimSpace(content)
	// Some models wrap JSON mode output in a code fence anyway
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")

	var resp scoreResponse
	if err := json.Unmarshal([]byte(content), &resp); err != nil {
		return nil, errors.Wrap(errors.ErrValidation, "unparseable scoring response: "+err.Error())
	}

	dims := map[string]*int{
		"skills_match":     resp.SkillsMatch,
		"experience_fit":   resp.ExperienceFit,
		"salary_alignment": resp.SalaryAlignment,
		"culture_fit":      resp.CultureFit,
		"growth_potential": resp.GrowthPotential,
	}
	for name, v := range dims {
		if v == nil {
			return nil, errors.NewValidationError("scoring response missing %s", name)
		}
		if *v < 0 || *v > 100 {
			return nil, errors.NewValidationError("%s out of range: %d", name, *v)
		}
	}
	if strings.TrimSpace(resp.Reasoning) == "" {
		return nil, errors.NewValidationError("scoring response missing reasoning")
	}

	return &store.Score{
		SkillsMatch:     *resp.SkillsMatch,
		ExperienceFit:   *resp.ExperienceFit,
		SalaryAlignment: *resp.SalaryAlignment,
		CultureFit:      *resp.CultureFit,
		GrowthPotential: *resp.GrowthPotential,
		OverallScore: ComputeOverall(
			*resp.SkillsMatch, *resp.ExperienceFit, *resp.SalaryAlignment,
			*resp.CultureFit, *resp.GrowthPotential,
		),
		Reasoning: strings.TrimSpace(resp.Reasoning),
	}, nil
}
