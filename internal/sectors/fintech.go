package sectors

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"

	jsonrepair "github.com/RealAlexandreAI/json-repair"

	"github.com/joelkehle/dealdesk-agency/internal/analysis"
	"github.com/joelkehle/dealdesk-agency/internal/deal"
	"github.com/joelkehle/dealdesk-agency/internal/expert"
)

// FintechExpert is the one native handler in the registry: it owns its
// output schema (partitioned differently from the generic template
// contract) and applies custom regulatory post-processing after
// normalization.
type FintechExpert struct {
	caller expert.Caller
}

func NewFintechExpert(caller expert.Caller) *FintechExpert {
	return &FintechExpert{caller: caller}
}

func (e *FintechExpert) Name() string { return "fintech" }

var fintechRegulations = []string{
	"Money transmitter licensing (state MTL / EU PSD2)",
	"KYC/AML program requirements (BSA, FinCEN)",
	"PCI-DSS where card data is handled",
}

const fintechSchemaPrompt = `Required JSON schema:
{
  "market_phase": "early | expansion | saturated | contracting",
  "unit_economics": [{
    "metric": "string",
    "observed": "number or null when not disclosed",
    "p25": "number", "median": "number", "p75": "number", "top_decile": "number",
    "grade": "excellent | good | fair | poor | unknown",
    "note": "string"
  }],
  "risks": [{"risk": "string", "grade": "blocker | severe | moderate | note", "why": "string"}],
  "upsides": [{"upside": "string", "conviction": "strong | medium | weak", "why": "string"}],
  "licenses_held": ["string"],
  "regulatory_summary": "string",
  "competition": "sparse | contested | crowded | saturated",
  "exit_multiple": "number or null",
  "questions": [{"ask": "string", "theme": "string", "urgency": "now | next | later", "good_answer": "string", "bad_answer": "string"}],
  "verdict": {"score": "number 0-100", "pros": ["string"], "cons": ["string"], "timing": "string", "summary": "string"},
  "confidence": "complete | partial | minimal"
}`

type fintechMetric struct {
	Metric    string   `json:"metric"`
	Observed  *float64 `json:"observed"`
	P25       float64  `json:"p25"`
	Median    float64  `json:"median"`
	P75       float64  `json:"p75"`
	TopDecile float64  `json:"top_decile"`
	Grade     string   `json:"grade"`
	Note      string   `json:"note"`
}

type fintechOutput struct {
	MarketPhase string          `json:"market_phase"`
	UnitEcon    []fintechMetric `json:"unit_economics"`
	Risks       []struct {
		Risk  string `json:"risk"`
		Grade string `json:"grade"`
		Why   string `json:"why"`
	} `json:"risks"`
	Upsides []struct {
		Upside     string `json:"upside"`
		Conviction string `json:"conviction"`
		Why        string `json:"why"`
	} `json:"upsides"`
	LicensesHeld      []string `json:"licenses_held"`
	RegulatorySummary string   `json:"regulatory_summary"`
	Competition       string   `json:"competition"`
	ExitMultiple      *float64 `json:"exit_multiple"`
	Questions         []struct {
		Ask        string `json:"ask"`
		Theme      string `json:"theme"`
		Urgency    string `json:"urgency"`
		GoodAnswer string `json:"good_answer"`
		BadAnswer  string `json:"bad_answer"`
	} `json:"questions"`
	Verdict struct {
		Score   float64  `json:"score"`
		Pros    []string `json:"pros"`
		Cons    []string `json:"cons"`
		Timing  string   `json:"timing"`
		Summary string   `json:"summary"`
	} `json:"verdict"`
	Confidence string `json:"confidence"`
}

func (e *FintechExpert) Analyze(ctx context.Context, ec deal.EnrichedContext) (analysis.SectorAnalysis, expert.Usage, error) {
	var b strings.Builder
	fmt.Fprintf(&b, "Analyze this FinTech deal.\n\n"+
		"Focus on regulatory posture (licenses held versus required), interchange/take-rate compression, fraud loss "+
		"rates, and capital requirements of the lending book if any.\n\n%s\n\n", fintechSchemaPrompt)
	writeDealFacts(&b, ec)

	comp, err := e.caller.Complete(ctx, expert.CompletionRequest{
		System:      systemPrompt,
		User:        b.String(),
		Complexity:  expert.ComplexityStandard,
		Temperature: 0.2,
	})
	if err != nil {
		return analysis.SectorAnalysis{}, expert.Usage{}, fmt.Errorf("fintech model call: %w", err)
	}
	usage := expert.Usage{CostUSD: comp.CostUSD}

	raw, ok := expert.ExtractJSONObject(comp.Text)
	if !ok {
		return analysis.SectorAnalysis{}, usage, errors.New("no JSON object found in model response")
	}
	var out fintechOutput
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		repaired, rerr := jsonrepair.RepairJSON(raw)
		if rerr != nil {
			return analysis.SectorAnalysis{}, usage, fmt.Errorf("response JSON unparseable: %w", err)
		}
		if err := json.Unmarshal([]byte(repaired), &out); err != nil {
			return analysis.SectorAnalysis{}, usage, fmt.Errorf("response JSON unparseable after repair: %w", err)
		}
		usage.Warnings = append(usage.Warnings, "response JSON required repair")
	}
	if vs := validateFintech(out); len(vs) > 0 {
		usage.Warnings = append(usage.Warnings, vs...)
		log.Printf("fintech: output failed schema validation (%d violations), proceeding best-effort", len(vs))
	}

	a := e.normalize(out, ec)
	return a, usage, nil
}

func validateFintech(out fintechOutput) []string {
	var vs []string
	check := func(field, value string, allowed ...string) {
		v := strings.ToLower(strings.TrimSpace(value))
		if v == "" {
			return
		}
		for _, a := range allowed {
			if v == a {
				return
			}
		}
		vs = append(vs, fmt.Sprintf("%s: value %q not in enum", field, value))
	}
	check("market_phase", out.MarketPhase, "early", "expansion", "saturated", "contracting")
	check("competition", out.Competition, "sparse", "contested", "crowded", "saturated")
	check("confidence", out.Confidence, "complete", "partial", "minimal")
	for i, r := range out.Risks {
		check(fmt.Sprintf("risks[%d].grade", i), r.Grade, "blocker", "severe", "moderate", "note")
	}
	for i, u := range out.Upsides {
		check(fmt.Sprintf("upsides[%d].conviction", i), u.Conviction, "strong", "medium", "weak")
	}
	for i, q := range out.Questions {
		check(fmt.Sprintf("questions[%d].urgency", i), q.Urgency, "now", "next", "later")
	}
	if out.Verdict.Score < 0 || out.Verdict.Score > 100 {
		vs = append(vs, fmt.Sprintf("verdict.score: %.1f out of [0,100]", out.Verdict.Score))
	}
	return vs
}

// normalize maps the fintech-specific shape onto the canonical one. Same
// rules as the generic normalizer: many-to-few enum collapse with explicit
// defaults, empty slices over nil, score capped by completeness through the
// shared capper.
func (e *FintechExpert) normalize(out fintechOutput, ec deal.EnrichedContext) analysis.SectorAnalysis {
	a := analysis.SectorAnalysis{
		Sector:             "FinTech",
		Maturity:           mapMarketPhase(out.MarketPhase),
		KeyMetrics:         make([]analysis.KeyMetric, 0, len(out.UnitEcon)),
		RedFlags:           make([]analysis.RedFlag, 0, len(out.Risks)),
		Opportunities:      make([]analysis.Opportunity, 0, len(out.Upsides)),
		DiligenceQuestions: make([]analysis.DiligenceQuestion, 0, len(out.Questions)),
		Limitations:        []string{},
	}

	populated := 0
	for _, m := range out.UnitEcon {
		km := analysis.KeyMetric{
			Name: m.Metric,
			Benchmark: analysis.Quartiles{
				P25: m.P25, Median: m.Median, P75: m.P75, TopDecile: m.TopDecile,
			},
			Assessment: analysis.MapAssessment(m.Grade),
			Context:    m.Note,
		}
		if m.Observed != nil {
			km.Value = fmt.Sprintf("%g", *m.Observed)
			populated++
		}
		a.KeyMetrics = append(a.KeyMetrics, km)
	}

	for _, r := range out.Risks {
		a.RedFlags = append(a.RedFlags, analysis.RedFlag{
			Flag:      r.Risk,
			Severity:  mapRiskGrade(r.Grade),
			Reasoning: r.Why,
		})
	}
	for _, u := range out.Upsides {
		a.Opportunities = append(a.Opportunities, analysis.Opportunity{
			Opportunity: u.Upside,
			Potential:   mapConviction(u.Conviction),
			Reasoning:   u.Why,
		})
	}
	for _, q := range out.Questions {
		a.DiligenceQuestions = append(a.DiligenceQuestions, analysis.DiligenceQuestion{
			Question:       q.Ask,
			Category:       q.Theme,
			Priority:       mapUrgency(q.Urgency),
			ExpectedAnswer: q.GoodAnswer,
			RedFlagAnswer:  q.BadAnswer,
		})
	}

	a.Regulatory = analysis.Regulatory{
		Summary:        out.RegulatorySummary,
		KeyRegulations: append([]string{}, fintechRegulations...),
	}
	a.Dynamics = analysis.Dynamics{
		Competition:        mapCompetitionWord(out.Competition),
		ConsolidationTrend: analysis.TrendConsolidating,
		BarrierToEntry:     analysis.IntensityHigh,
		RecentExits:        []string{},
	}
	if out.ExitMultiple != nil {
		a.Dynamics.TypicalExitMult = *out.ExitMultiple
	}

	a.Fit = analysis.SectorFit{
		Strengths:  append([]string{}, out.Verdict.Pros...),
		Weaknesses: append([]string{}, out.Verdict.Cons...),
		Timing:     out.Verdict.Timing,
	}
	if a.Fit.Strengths == nil {
		a.Fit.Strengths = []string{}
	}
	if a.Fit.Weaknesses == nil {
		a.Fit.Weaknesses = []string{}
	}
	a.Summary = out.Verdict.Summary

	explicit, hasExplicit := analysis.MapCompleteness(out.Confidence)
	assessment := analysis.Completeness(populated, len(out.UnitEcon), explicit, hasExplicit)
	a.Completeness = assessment.Tier
	capped, note := assessment.Cap(analysis.ClampScore(out.Verdict.Score))
	a.Fit.Score = capped
	if note != "" {
		a.Limitations = append(a.Limitations, note)
	}

	// Post-processing rule: a fintech deal with no licenses on file is a
	// regulatory gap regardless of what the model flagged.
	if len(out.LicensesHeld) == 0 {
		a.RedFlags = append(a.RedFlags, analysis.RedFlag{
			Flag:      "No regulatory licenses disclosed",
			Severity:  analysis.SeverityMajor,
			Reasoning: "Money movement without a transmitter license or sponsor bank is a common fintech failure mode; confirm the licensing strategy.",
		})
	}
	return a
}

func mapMarketPhase(v string) analysis.Maturity {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "early":
		return analysis.MaturityEmerging
	case "expansion":
		return analysis.MaturityGrowing
	case "saturated":
		return analysis.MaturityMature
	case "contracting":
		return analysis.MaturityDeclining
	default:
		return analysis.MaturityGrowing
	}
}

func mapRiskGrade(v string) analysis.Severity {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "blocker":
		return analysis.SeverityCritical
	case "severe":
		return analysis.SeverityMajor
	default:
		return analysis.SeverityMinor
	}
}

func mapConviction(v string) analysis.Potential {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "strong":
		return analysis.PotentialHigh
	case "weak":
		return analysis.PotentialLow
	default:
		return analysis.PotentialMedium
	}
}

func mapUrgency(v string) analysis.Priority {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "now":
		return analysis.PriorityHigh
	case "later":
		return analysis.PriorityLow
	default:
		return analysis.PriorityMedium
	}
}

func mapCompetitionWord(v string) analysis.Intensity {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "sparse":
		return analysis.IntensityLow
	case "crowded", "saturated":
		return analysis.IntensityHigh
	default:
		return analysis.IntensityMedium
	}
}
