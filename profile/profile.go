// Package profile holds the candidate profile: the read-only input every
// scoring call is evaluated against. The profile is produced once by the
// init command (resume analysis) and persisted as JSON under the config
// directory.
package profile

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/Neverdecel/VacAI/errors"
)

// SalaryExpectation is the candidate's target range
type SalaryExpectation struct {
	Min      float64 `json:"min,omitempty"`
	Max      float64 `json:"max,omitempty"`
	Currency string  `json:"currency,omitempty"`
}

// CandidateProfile describes what the candidate wants and offers
type CandidateProfile struct {
	Name              string            `json:"name,omitempty"`
	Summary           string            `json:"summary,omitempty"`
	Skills            []string          `json:"skills"`
	YearsExperience   int               `json:"years_experience"`
	PreferredTitles   []string          `json:"preferred_titles,omitempty"`
	Locations         []string          `json:"locations,omitempty"`
	SalaryExpectation SalaryExpectation `json:"salary_expectation,omitempty"`
	GrowthGoals       []string          `json:"growth_goals,omitempty"`
	CulturePrefs      []string          `json:"culture_preferences,omitempty"`
}

// Validate checks the profile is usable for scoring
func (p *CandidateProfile) Validate() error {
	if len(p.Skills) == 0 {
		return errors.NewValidationError("profile has no skills")
	}
	if p.YearsExperience < 0 {
		return errors.NewValidationError("negative years of experience")
	}
	return nil
}

// Load reads a profile from disk
func Load(path string) (*CandidateProfile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrapf(errors.ErrNotFound, "profile %s (run `vacai init` first)", path)
		}
		return nil, errors.Wrap(err, "read profile")
	}

	var p CandidateProfile
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, errors.Wrap(err, "parse profile")
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &p, nil
}

// Save writes a profile to disk, creating parent directories
func (p *CandidateProfile) Save(path string) error {
	if err := p.Validate(); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.Wrap(err, "create profile directory")
	}
	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return errors.Wrap(err, "marshal profile")
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return errors.Wrap(err, "write profile")
	}
	return nil
}
