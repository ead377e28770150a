package analysis

import (
	"strings"
	"testing"
)

func TestValidateTemplateOutputClean(t *testing.T) {
	out := TemplateOutput{
		SectorMaturity:   "growth",
		DataCompleteness: "partial",
		KeyMetrics:       []TemplateMetric{{Name: "ARR", Assessment: "good"}},
		RedFlags:         []TemplateRedFlag{{Flag: "x", Severity: "high"}},
		Dynamics: &TemplateDynamics{
			CompetitionIntensity: "moderate",
			ConsolidationTrend:   "stable",
			BarrierToEntry:       "high",
		},
		SectorFit: &TemplateFit{Score: 60},
	}
	if vs := ValidateTemplateOutput(out); len(vs) != 0 {
		t.Fatalf("unexpected violations: %v", vs)
	}
}

func TestValidateTemplateOutputCollectsAll(t *testing.T) {
	out := TemplateOutput{
		SectorMaturity: "sideways",
		RedFlags: []TemplateRedFlag{
			{Flag: "a", Severity: "catastrophic"},
			{Flag: "b", Severity: "high"},
		},
		Opportunities: []TemplateOpportunity{{Opportunity: "x", Potential: "huge"}},
		SectorFit:     &TemplateFit{Score: 140},
	}
	vs := ValidateTemplateOutput(out)
	if len(vs) != 4 {
		t.Fatalf("expected 4 violations, got %d: %v", len(vs), vs)
	}
	fields := make([]string, 0, len(vs))
	for _, v := range vs {
		fields = append(fields, v.Field)
	}
	joined := strings.Join(fields, " ")
	for _, want := range []string{"sector_maturity", "red_flags[0].severity", "opportunities[0].potential", "sector_fit.score"} {
		if !strings.Contains(joined, want) {
			t.Errorf("missing violation for %s (got %v)", want, fields)
		}
	}
}

func TestValidateTemplateOutputEmptyValuesAllowed(t *testing.T) {
	// Absent enum fields are a completeness problem, not a schema violation.
	out := TemplateOutput{
		KeyMetrics: []TemplateMetric{{Name: "ARR"}},
		RedFlags:   []TemplateRedFlag{{Flag: "x"}},
	}
	if vs := ValidateTemplateOutput(out); len(vs) != 0 {
		t.Fatalf("empty enum values flagged: %v", vs)
	}
}
