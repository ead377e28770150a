package analysis

import (
	"fmt"
	"strings"
)

// TemplateOutput is the generic output contract shared by every
// prompt-template expert. Its enums are deliberately richer than the
// canonical ones on SectorAnalysis; Normalize collapses them. Nullable
// fields use pointers so "absent" is distinguishable from "zero".
type TemplateOutput struct {
	SectorMaturity     string                `json:"sector_maturity"`
	KeyMetrics         []TemplateMetric      `json:"key_metrics"`
	RedFlags           []TemplateRedFlag     `json:"red_flags"`
	Opportunities      []TemplateOpportunity `json:"opportunities"`
	Regulatory         *TemplateRegulatory   `json:"regulatory_environment"`
	Dynamics           *TemplateDynamics     `json:"sector_dynamics"`
	DiligenceQuestions []TemplateQuestion    `json:"due_diligence_questions"`
	SectorFit          *TemplateFit          `json:"sector_fit"`
	ExecutiveSummary   *TemplateExecSummary  `json:"executive_summary"`
	Reasoning          string                `json:"reasoning"`
	DataCompleteness   string                `json:"data_completeness"`
}

type TemplateMetric struct {
	Name       string             `json:"name"`
	Value      *string            `json:"value"`
	Benchmark  *TemplateBenchmark `json:"benchmark"`
	Assessment string             `json:"assessment"`
	Context    string             `json:"context"`
}

type TemplateBenchmark struct {
	P25       *float64 `json:"p25"`
	Median    *float64 `json:"median"`
	P75       *float64 `json:"p75"`
	TopDecile *float64 `json:"top_decile"`
}

type TemplateRedFlag struct {
	Flag      string `json:"flag"`
	Severity  string `json:"severity"`
	Reasoning string `json:"reasoning"`
}

type TemplateOpportunity struct {
	Opportunity string `json:"opportunity"`
	Potential   string `json:"potential"`
	Reasoning   string `json:"reasoning"`
}

type TemplateRegulatory struct {
	Summary        string   `json:"summary"`
	KeyRegulations []string `json:"key_regulations"`
}

type TemplateDynamics struct {
	CompetitionIntensity string   `json:"competition_intensity"`
	ConsolidationTrend   string   `json:"consolidation_trend"`
	BarrierToEntry       string   `json:"barrier_to_entry"`
	TypicalExitMultiple  *float64 `json:"typical_exit_multiple"`
	RecentExits          []string `json:"recent_exits"`
}

type TemplateQuestion struct {
	Question       string `json:"question"`
	Category       string `json:"category"`
	Priority       string `json:"priority"`
	ExpectedAnswer string `json:"expected_answer"`
	RedFlagAnswer  string `json:"red_flag_answer"`
}

type TemplateFit struct {
	Score      float64  `json:"score"`
	Strengths  []string `json:"strengths"`
	Weaknesses []string `json:"weaknesses"`
	Timing     string   `json:"timing"`
}

type TemplateExecSummary struct {
	Verdict   string   `json:"verdict"`
	KeyPoints []string `json:"key_points"`
}

// Violation is one field-level schema problem. Violations are recoverable:
// the invocation wrapper logs them and proceeds with the parsed object.
type Violation struct {
	Field   string
	Message string
}

func (v Violation) String() string { return v.Field + ": " + v.Message }

// Legal source enum sets. Every value a template expert's prompt may ask the
// model to emit is listed here; Normalize maps each to a canonical value.
var (
	sourceMaturities   = stringSet("nascent", "emerging", "growth", "growing", "mature", "declining")
	sourceSeverities   = stringSet("critical", "high", "medium", "low")
	sourcePotentials   = stringSet("very_high", "high", "medium", "low")
	sourceAssessments  = stringSet("excellent", "good", "fair", "poor", "unknown")
	sourceIntensities  = stringSet("low", "moderate", "medium", "high", "intense")
	sourceTrends       = stringSet("consolidating", "stable", "fragmenting", "fragmented")
	sourcePriorities   = stringSet("critical", "high", "medium", "low")
	sourceCompleteness = stringSet("complete", "partial", "minimal")
)

func stringSet(values ...string) map[string]bool {
	m := make(map[string]bool, len(values))
	for _, v := range values {
		m[v] = true
	}
	return m
}

// ValidateTemplateOutput checks enum membership and numeric ranges. It
// returns every violation found rather than stopping at the first, so the
// warning log shows the full shape of the problem.
func ValidateTemplateOutput(out TemplateOutput) []Violation {
	var vs []Violation
	check := func(field, value string, allowed map[string]bool) {
		v := strings.ToLower(strings.TrimSpace(value))
		if v != "" && !allowed[v] {
			vs = append(vs, Violation{Field: field, Message: fmt.Sprintf("value %q not in enum", value)})
		}
	}

	check("sector_maturity", out.SectorMaturity, sourceMaturities)
	check("data_completeness", out.DataCompleteness, sourceCompleteness)
	for i, m := range out.KeyMetrics {
		check(fmt.Sprintf("key_metrics[%d].assessment", i), m.Assessment, sourceAssessments)
	}
	for i, f := range out.RedFlags {
		check(fmt.Sprintf("red_flags[%d].severity", i), f.Severity, sourceSeverities)
	}
	for i, o := range out.Opportunities {
		check(fmt.Sprintf("opportunities[%d].potential", i), o.Potential, sourcePotentials)
	}
	for i, q := range out.DiligenceQuestions {
		check(fmt.Sprintf("due_diligence_questions[%d].priority", i), q.Priority, sourcePriorities)
	}
	if d := out.Dynamics; d != nil {
		check("sector_dynamics.competition_intensity", d.CompetitionIntensity, sourceIntensities)
		check("sector_dynamics.consolidation_trend", d.ConsolidationTrend, sourceTrends)
		check("sector_dynamics.barrier_to_entry", d.BarrierToEntry, sourceIntensities)
	}
	if f := out.SectorFit; f != nil {
		if f.Score < 0 || f.Score > 100 {
			vs = append(vs, Violation{Field: "sector_fit.score", Message: fmt.Sprintf("score %.1f out of [0,100]", f.Score)})
		}
	}
	return vs
}
