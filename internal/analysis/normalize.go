package analysis

import (
	"math"
	"strings"
)

// Enum mapping is many-to-few: source schemas partition their enums more
// finely than the canonical shape. Every mapper has an explicit default for
// unrecognized input, so an off-enum model value can never reach the
// canonical output unmapped.

func MapMaturity(v string) Maturity {
	switch normEnum(v) {
	case "nascent", "emerging":
		return MaturityEmerging
	case "growth", "growing":
		return MaturityGrowing
	case "mature":
		return MaturityMature
	case "declining":
		return MaturityDeclining
	default:
		return MaturityGrowing
	}
}

func MapSeverity(v string) Severity {
	switch normEnum(v) {
	case "critical":
		return SeverityCritical
	case "high":
		return SeverityMajor
	case "medium", "low":
		return SeverityMinor
	default:
		return SeverityMinor
	}
}

func MapPotential(v string) Potential {
	switch normEnum(v) {
	case "very_high", "high":
		return PotentialHigh
	case "medium":
		return PotentialMedium
	case "low":
		return PotentialLow
	default:
		return PotentialMedium
	}
}

func MapAssessment(v string) Assessment {
	switch normEnum(v) {
	case "excellent", "good":
		return AssessmentStrong
	case "fair":
		return AssessmentAverage
	case "poor":
		return AssessmentWeak
	default:
		return AssessmentUnknown
	}
}

// MapIntensity collapses the four-level source scale by merging "moderate"
// into MEDIUM.
func MapIntensity(v string) Intensity {
	switch normEnum(v) {
	case "low":
		return IntensityLow
	case "moderate", "medium":
		return IntensityMedium
	case "high", "intense":
		return IntensityHigh
	default:
		return IntensityMedium
	}
}

func MapTrend(v string) Trend {
	switch normEnum(v) {
	case "consolidating":
		return TrendConsolidating
	case "fragmenting", "fragmented":
		return TrendFragmenting
	default:
		return TrendStable
	}
}

func MapPriority(v string) Priority {
	switch normEnum(v) {
	case "critical", "high":
		return PriorityHigh
	case "medium":
		return PriorityMedium
	case "low":
		return PriorityLow
	default:
		return PriorityMedium
	}
}

func MapCompleteness(v string) (CompletenessTier, bool) {
	switch normEnum(v) {
	case "complete":
		return CompletenessComplete, true
	case "partial":
		return CompletenessPartial, true
	case "minimal":
		return CompletenessMinimal, true
	default:
		return "", false
	}
}

func normEnum(v string) string {
	return strings.ToLower(strings.TrimSpace(v))
}

// ClampScore bounds a raw model score to [0,100].
func ClampScore(v float64) int {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return int(math.Round(v))
}

// Normalize maps a validated (or best-effort parsed) template output into the
// canonical SectorAnalysis. Pure function: no I/O, no side effects. List
// fields are always non-nil and the score is capped by data completeness.
func Normalize(out TemplateOutput, sectorName string, defaultRegulations []string) SectorAnalysis {
	a := SectorAnalysis{
		Sector:             sectorName,
		Maturity:           MapMaturity(out.SectorMaturity),
		KeyMetrics:         make([]KeyMetric, 0, len(out.KeyMetrics)),
		RedFlags:           make([]RedFlag, 0, len(out.RedFlags)),
		Opportunities:      make([]Opportunity, 0, len(out.Opportunities)),
		DiligenceQuestions: make([]DiligenceQuestion, 0, len(out.DiligenceQuestions)),
		Limitations:        []string{},
	}

	populated := 0
	for _, m := range out.KeyMetrics {
		km := KeyMetric{
			Name:       m.Name,
			Assessment: MapAssessment(m.Assessment),
			Context:    m.Context,
		}
		if m.Value != nil && strings.TrimSpace(*m.Value) != "" {
			km.Value = *m.Value
			populated++
		}
		if b := m.Benchmark; b != nil {
			km.Benchmark = Quartiles{
				P25:       deref(b.P25),
				Median:    deref(b.Median),
				P75:       deref(b.P75),
				TopDecile: deref(b.TopDecile),
			}
		}
		a.KeyMetrics = append(a.KeyMetrics, km)
	}

	for _, f := range out.RedFlags {
		a.RedFlags = append(a.RedFlags, RedFlag{
			Flag:      f.Flag,
			Severity:  MapSeverity(f.Severity),
			Reasoning: f.Reasoning,
		})
	}
	for _, o := range out.Opportunities {
		a.Opportunities = append(a.Opportunities, Opportunity{
			Opportunity: o.Opportunity,
			Potential:   MapPotential(o.Potential),
			Reasoning:   o.Reasoning,
		})
	}
	for _, q := range out.DiligenceQuestions {
		a.DiligenceQuestions = append(a.DiligenceQuestions, DiligenceQuestion{
			Question:       q.Question,
			Category:       q.Category,
			Priority:       MapPriority(q.Priority),
			ExpectedAnswer: q.ExpectedAnswer,
			RedFlagAnswer:  q.RedFlagAnswer,
		})
	}

	a.Regulatory = Regulatory{KeyRegulations: []string{}}
	if r := out.Regulatory; r != nil {
		a.Regulatory.Summary = r.Summary
		if len(r.KeyRegulations) > 0 {
			a.Regulatory.KeyRegulations = append(a.Regulatory.KeyRegulations, r.KeyRegulations...)
		}
	}
	if len(a.Regulatory.KeyRegulations) == 0 && len(defaultRegulations) > 0 {
		a.Regulatory.KeyRegulations = append(a.Regulatory.KeyRegulations, defaultRegulations...)
	}

	a.Dynamics = Dynamics{
		Competition:        IntensityMedium,
		ConsolidationTrend: TrendStable,
		BarrierToEntry:     IntensityMedium,
		RecentExits:        []string{},
	}
	if d := out.Dynamics; d != nil {
		a.Dynamics.Competition = MapIntensity(d.CompetitionIntensity)
		a.Dynamics.ConsolidationTrend = MapTrend(d.ConsolidationTrend)
		a.Dynamics.BarrierToEntry = MapIntensity(d.BarrierToEntry)
		a.Dynamics.TypicalExitMult = deref(d.TypicalExitMultiple)
		if len(d.RecentExits) > 0 {
			a.Dynamics.RecentExits = append(a.Dynamics.RecentExits, d.RecentExits...)
		}
	}

	a.Fit = SectorFit{Strengths: []string{}, Weaknesses: []string{}}
	rawScore := 0
	if f := out.SectorFit; f != nil {
		rawScore = ClampScore(f.Score)
		a.Fit.Timing = f.Timing
		a.Fit.Strengths = append(a.Fit.Strengths, f.Strengths...)
		a.Fit.Weaknesses = append(a.Fit.Weaknesses, f.Weaknesses...)
	}

	// Executive summary pulls from the first non-empty of several possible
	// upstream locations; different output shapes nest it differently.
	switch {
	case out.ExecutiveSummary != nil && strings.TrimSpace(out.ExecutiveSummary.Verdict) != "":
		a.Summary = out.ExecutiveSummary.Verdict
	case strings.TrimSpace(out.Reasoning) != "":
		a.Summary = out.Reasoning
	default:
		a.Summary = ""
	}

	explicit, hasExplicit := MapCompleteness(out.DataCompleteness)
	assessment := Completeness(populated, len(out.KeyMetrics), explicit, hasExplicit)
	a.Completeness = assessment.Tier
	capped, note := assessment.Cap(rawScore)
	a.Fit.Score = capped
	if note != "" {
		a.Limitations = append(a.Limitations, note)
	}
	return a
}

func deref(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}
