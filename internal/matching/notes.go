package matching

import (
	"fmt"
	"strings"

	"github.com/jonathan/carematch/internal/types"
)

// generateNotes creates a brief explanation of the match.
func generateNotes(p pairScore) string {
	var parts []string

	// Skill match description
	skills := p.scores[types.CriterionSkills]
	switch {
	case !skills.Defined:
		parts = append(parts, "No specific skills required")
	case len(p.matched) == 0:
		parts = append(parts, "No skill matches")
	case skills.Value >= 0.7:
		parts = append(parts, fmt.Sprintf("Strong skill match (%s)", strings.Join(p.matched, ", ")))
	case skills.Value >= 0.4:
		parts = append(parts, fmt.Sprintf("Moderate skill match (%s)", strings.Join(p.matched, ", ")))
	default:
		parts = append(parts, fmt.Sprintf("Weak skill match (%s)", strings.Join(p.matched, ", ")))
	}

	if exp := p.scores[types.CriterionExperience]; exp.Defined && exp.Value < 1 {
		parts = append(parts, "Below required experience")
	}

	if rate := p.scores[types.CriterionRate]; rate.Defined {
		switch {
		case rate.Value >= 1:
			parts = append(parts, "Rate within budget")
		case rate.Value > 0:
			parts = append(parts, "Rate close to budget")
		default:
			parts = append(parts, "Rate outside budget")
		}
	}

	if avail := p.scores[types.CriterionAvailability]; avail.Defined {
		switch {
		case avail.Value >= 1:
			parts = append(parts, "Fully available for the schedule")
		case avail.Value > 0:
			parts = append(parts, "Partially available for the schedule")
		default:
			parts = append(parts, "Not available for the schedule")
		}
	}

	if loc := p.scores[types.CriterionLocation]; loc.Defined {
		switch {
		case loc.Value >= 1:
			parts = append(parts, "Same city")
		case loc.Value > 0:
			parts = append(parts, "Same country")
		default:
			parts = append(parts, "Different country")
		}
	}

	return strings.Join(parts, ". ") + "."
}
