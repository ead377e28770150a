package sectors

import (
	"fmt"
	"sort"
	"strings"

	"github.com/joelkehle/dealdesk-agency/internal/deal"
)

const systemPrompt = "You are a venture-capital sector analyst performing due diligence on a startup investment deal. " +
	"Ground every claim in the provided deal facts. Respond with strict JSON only."

const templateSchemaPrompt = `Required JSON schema:
{
  "sector_maturity": "nascent | emerging | growth | growing | mature | declining",
  "key_metrics": [{
    "name": "string",
    "value": "string or null when the data is not available",
    "benchmark": {"p25": "number", "median": "number", "p75": "number", "top_decile": "number"},
    "assessment": "excellent | good | fair | poor | unknown",
    "context": "string"
  }],
  "red_flags": [{"flag": "string", "severity": "critical | high | medium | low", "reasoning": "string"}],
  "opportunities": [{"opportunity": "string", "potential": "very_high | high | medium | low", "reasoning": "string"}],
  "regulatory_environment": {"summary": "string", "key_regulations": ["string"]},
  "sector_dynamics": {
    "competition_intensity": "low | moderate | high | intense",
    "consolidation_trend": "consolidating | stable | fragmenting",
    "barrier_to_entry": "low | moderate | high",
    "typical_exit_multiple": "number",
    "recent_exits": ["string"]
  },
  "due_diligence_questions": [{
    "question": "string", "category": "string",
    "priority": "critical | high | medium | low",
    "expected_answer": "string", "red_flag_answer": "string"
  }],
  "sector_fit": {"score": "number 0-100", "strengths": ["string"], "weaknesses": ["string"], "timing": "string"},
  "executive_summary": {"verdict": "string", "key_points": ["string"]},
  "data_completeness": "complete | partial | minimal"
}`

// sectorTemplate is the declarative expert shape shared by every
// template-only sector expert: a name, a regulation list, and a
// sector-specific analysis brief spliced into a common prompt frame.
type sectorTemplate struct {
	name        string
	display     string
	regulations []string
	brief       string
}

func (t sectorTemplate) Name() string                 { return t.name }
func (t sectorTemplate) DisplayName() string          { return t.display }
func (t sectorTemplate) DefaultRegulations() []string { return t.regulations }

func (t sectorTemplate) Prompts(ec deal.EnrichedContext) (string, string) {
	var b strings.Builder
	fmt.Fprintf(&b, "Analyze this %s deal.\n\n%s\n\n%s\n\n", t.display, t.brief, templateSchemaPrompt)
	writeDealFacts(&b, ec)
	return systemPrompt, b.String()
}

func writeDealFacts(b *strings.Builder, ec deal.EnrichedContext) {
	d := ec.Deal
	fmt.Fprintf(b, "Deal facts:\n- Company: %s\n- Declared sector: %s\n- Stage: %s\n", d.Company, d.Sector, d.Stage)
	if d.Geography != "" {
		fmt.Fprintf(b, "- Geography: %s\n", d.Geography)
	}
	if d.ValuationAskUSD > 0 {
		fmt.Fprintf(b, "- Valuation ask: $%.0f\n", d.ValuationAskUSD)
	}
	if d.AmountAskUSD > 0 {
		fmt.Fprintf(b, "- Raise amount: $%.0f\n", d.AmountAskUSD)
	}
	if d.AnnualRevenueUSD > 0 {
		fmt.Fprintf(b, "- Annual recurring revenue: $%.0f\n", d.AnnualRevenueUSD)
	}
	if d.GrowthRatePct > 0 {
		fmt.Fprintf(b, "- Reported growth rate: %.0f%% YoY\n", d.GrowthRatePct)
	}

	if fdb := ec.FundingDB; fdb != nil {
		fmt.Fprintf(b, "\nFunding database cross-reference:\n")
		fmt.Fprintf(b, "- Valuation benchmarks (sector/stage): p25 $%.0f, median $%.0f, p75 $%.0f\n",
			fdb.ValuationBenchmarks.P25, fdb.ValuationBenchmarks.Median, fdb.ValuationBenchmarks.P75)
		if fdb.SectorTrend != "" {
			fmt.Fprintf(b, "- Sector trend: %s\n", fdb.SectorTrend)
		}
		for _, c := range fdb.Competitors {
			fmt.Fprintf(b, "- Competitor: %s (%s, raised $%.0f)\n", c.Name, c.Stage, c.RaisedUSD)
		}
	} else {
		fmt.Fprintf(b, "\nNo funding database cross-reference is available for this deal. State explicitly when a benchmark cannot be verified.\n")
	}

	if len(ec.PriorFindings) > 0 {
		fmt.Fprintf(b, "\nPrior analysis findings:\n")
		agents := make([]string, 0, len(ec.PriorFindings))
		for agent := range ec.PriorFindings {
			agents = append(agents, agent)
		}
		sort.Strings(agents)
		for _, agent := range agents {
			fmt.Fprintf(b, "- %s: %s\n", agent, ec.PriorFindings[agent])
		}
	}
	if ec.FactBlock != "" {
		fmt.Fprintf(b, "\nFact store:\n%s\n", ec.FactBlock)
	}
	if ec.DocumentText != "" {
		fmt.Fprintf(b, "\nExtracted deal documents:\n%s\n", ec.DocumentText)
	}
}
