package analysis

import "fmt"

// Score ceilings per completeness tier. An analysis built on sparse input
// data must not report spuriously high confidence.
const (
	capMinimal = 50
	capPartial = 70

	thresholdMinimal = 0.3
	thresholdPartial = 0.7
)

// CompletenessAssessment is derived per invocation and discarded after the
// cap is applied; only the tier and any limitations note survive on the
// result.
type CompletenessAssessment struct {
	Tier     CompletenessTier
	MaxScore int
	Ratio    float64
}

// Completeness derives the data-completeness tier. An explicit tier supplied
// by the expert wins over the ratio computation. A zero-length metrics list
// means the model omitted the metrics array entirely, which is a modeling
// failure rather than evidence of data scarcity, so it defaults to PARTIAL.
func Completeness(populated, total int, explicit CompletenessTier, hasExplicit bool) CompletenessAssessment {
	if hasExplicit {
		return CompletenessAssessment{Tier: explicit, MaxScore: ceilingFor(explicit)}
	}
	if total == 0 {
		return CompletenessAssessment{Tier: CompletenessPartial, MaxScore: capPartial}
	}
	ratio := float64(populated) / float64(total)
	tier := CompletenessComplete
	switch {
	case ratio < thresholdMinimal:
		tier = CompletenessMinimal
	case ratio < thresholdPartial:
		tier = CompletenessPartial
	}
	return CompletenessAssessment{Tier: tier, MaxScore: ceilingFor(tier), Ratio: ratio}
}

func ceilingFor(tier CompletenessTier) int {
	switch tier {
	case CompletenessMinimal:
		return capMinimal
	case CompletenessPartial:
		return capPartial
	default:
		return 100
	}
}

// Cap clamps a raw score to the tier ceiling. When capping occurs it returns
// a human-readable note for the result's limitations list; surfacing that a
// score was artificially bounded is a transparency requirement, not
// telemetry.
func (c CompletenessAssessment) Cap(raw int) (int, string) {
	if raw <= c.MaxScore {
		return raw, ""
	}
	note := fmt.Sprintf("Score capped from %d to %d due to %s data completeness",
		raw, c.MaxScore, tierWord(c.Tier))
	return c.MaxScore, note
}

func tierWord(tier CompletenessTier) string {
	switch tier {
	case CompletenessMinimal:
		return "minimal"
	case CompletenessPartial:
		return "partial"
	default:
		return "complete"
	}
}
