package analysis

// FallbackAnalysis is the safe default returned when an expert invocation
// fails outright. Callers must be able to render a "analysis failed" view
// without null-checking deep into the shape, so every list is present and
// the failure is stated explicitly in the red flags and summary rather than
// left as empty sections.
func FallbackAnalysis(sector string) SectorAnalysis {
	return SectorAnalysis{
		Sector:   sector,
		Maturity: MaturityGrowing,
		KeyMetrics: []KeyMetric{},
		RedFlags: []RedFlag{{
			Flag:      "Analysis incomplete: expert invocation failed",
			Severity:  SeverityMajor,
			Reasoning: "The sector expert did not return a usable result. Treat this deal as unassessed, not as low risk.",
		}},
		Opportunities: []Opportunity{},
		Regulatory:    Regulatory{KeyRegulations: []string{}},
		Dynamics: Dynamics{
			Competition:        IntensityMedium,
			ConsolidationTrend: TrendStable,
			BarrierToEntry:     IntensityMedium,
			RecentExits:        []string{},
		},
		DiligenceQuestions: []DiligenceQuestion{},
		Fit: SectorFit{
			Score:      0,
			Strengths:  []string{},
			Weaknesses: []string{"No analysis available"},
		},
		Summary:      "Analysis incomplete: the sector expert could not be run for this deal.",
		Completeness: CompletenessMinimal,
		Limitations:  []string{"Expert invocation failed; result is a placeholder"},
	}
}
