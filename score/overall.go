package score

import "math"

// Dimension weights for the declared aggregate. The model is asked for
// an overall score too, but it does not reliably follow the weights, so
// the stored overall is always recomputed here. This is the only place
// the formula lives.
const (
	weightSkills     = 0.30
	weightExperience = 0.25
	weightSalary     = 0.15
	weightCulture    = 0.15
	weightGrowth     = 0.15
)

// ComputeOverall derives the overall score from the five dimensions
func ComputeOverall(skills, experience, salary, culture, growth int) int {
	overall := float64(skills)*weightSkills +
		float64(experience)*weightExperience +
		float64(salary)*weightSalary +
		float64(culture)*weightCulture +
		float64(growth)*weightGrowth
	return int(math.Round(overall))
}
