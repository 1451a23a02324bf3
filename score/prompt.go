package score

import (
	"fmt"
	"strings"

	"github.com/Neverdecel/VacAI/profile"
	"github.com/Neverdecel/VacAI/store"
)

const scoringSystemPrompt = `You evaluate how well a job posting fits a specific candidate.

Score five dimensions, each an integer from 0 to 100:
- skills_match: overlap between the posting's requirements and the candidate's skills
- experience_fit: seniority and years-of-experience alignment
- salary_alignment: posting salary vs the candidate's expectation (50 if the posting states no salary)
- culture_fit: working culture signals vs the candidate's preferences
- growth_potential: room to grow toward the candidate's goals

Respond with a single JSON object, no prose:
{
  "skills_match": <int>,
  "experience_fit": <int>,
  "salary_alignment": <int>,
  "culture_fit": <int>,
  "growth_potential": <int>,
  "reasoning": "<2-4 sentences explaining the scores>"
}`

// buildUserPrompt renders the candidate profile and one posting into the
// evaluation prompt
func buildUserPrompt(p *profile.CandidateProfile, posting *store.Posting) string {
	var b strings.Builder

	b.WriteString("## Candidate\n")
	if p.Summary != "" {
		fmt.Fprintf(&b, "%s\n", p.Summary)
	}
	fmt.Fprintf(&b, "Skills: %s\n", strings.Join(p.Skills, ", "))
	fmt.Fprintf(&b, "Years of experience: %d\n", p.YearsExperience)
	if len(p.PreferredTitles) > 0 {
		fmt.Fprintf(&b, "Preferred titles: %s\n", strings.Join(p.PreferredTitles, ", "))
	}
	if len(p.Locations) > 0 {
		fmt.Fprintf(&b, "Locations: %s\n", strings.Join(p.Locations, ", "))
	}
	if p.SalaryExpectation.Min > 0 || p.SalaryExpectation.Max > 0 {
		fmt.Fprintf(&b, "Salary expectation: %.0f-%.0f %s\n",
			p.SalaryExpectation.Min, p.SalaryExpectation.Max, p.SalaryExpectation.Currency)
	}
	if len(p.GrowthGoals) > 0 {
		fmt.Fprintf(&b, "Growth goals: %s\n", strings.Join(p.GrowthGoals, ", "))
	}
	if len(p.CulturePrefs) > 0 {
		fmt.Fprintf(&b, "Culture preferences: %s\n", strings.Join(p.CulturePrefs, ", "))
	}

	b.WriteString("\n## Posting\n")
	fmt.Fprintf(&b, "Title: %s\n", posting.Title)
	fmt.Fprintf(&b, "Company: %s\n", posting.Company)
	if posting.Location != "" {
		fmt.Fprintf(&b, "Location: %s\n", posting.Location)
	}
	if posting.MinSalary != nil || posting.MaxSalary != nil {
		b.WriteString("Salary: ")
		if posting.MinSalary != nil {
			fmt.Fprintf(&b, "%.0f", *posting.MinSalary)
		}
		b.WriteString("-")
		if posting.MaxSalary != nil {
			fmt.Fprintf(&b, "%.0f", *posting.MaxSalary)
		}
		if posting.SalaryCurrency != "" {
			fmt.Fprintf(&b, " %s", posting.SalaryCurrency)
		}
		b.WriteString("\n")
	}
	fmt.Fprintf(&b, "\n%s\n", posting.Description)

	return b.String()
}
