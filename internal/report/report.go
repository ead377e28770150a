package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/joelkehle/dealdesk-agency/internal/deal"
	"github.com/joelkehle/dealdesk-agency/internal/expert"
)

const Disclaimer = "This is an automated sector screen, not investment advice. " +
	"Scores are bounded by data completeness and individual findings should be verified in diligence."

// BuildMarkdown renders the per-expert results for one deal as a markdown
// report.
func BuildMarkdown(d deal.Deal, results []expert.Result) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Deal Analysis: %s\n\n", d.Company)
	fmt.Fprintf(&b, "- Declared sector: %s\n", d.Sector)
	fmt.Fprintf(&b, "- Stage: %s\n", d.Stage)
	if d.ValuationAskUSD > 0 {
		fmt.Fprintf(&b, "- Valuation ask: $%.0f\n", d.ValuationAskUSD)
	}
	fmt.Fprintf(&b, "- Date: %s\n\n", time.Now().Format(time.RFC3339))
	fmt.Fprintf(&b, "%s\n\n", Disclaimer)

	for _, r := range results {
		writeExpertSection(&b, r)
	}
	return b.String()
}

func writeExpertSection(b *strings.Builder, r expert.Result) {
	fmt.Fprintf(b, "## Expert: %s\n\n", r.Expert)
	if !r.Success {
		fmt.Fprintf(b, "> FAILED: %s\n\n", r.Error)
		fmt.Fprintf(b, "%s\n\n", r.Data.Summary)
		return
	}
	a := r.Data
	fmt.Fprintf(b, "**Sector fit: %d/100** (%s data, %s elapsed, $%.4f)\n\n",
		a.Fit.Score, strings.ToLower(string(a.Completeness)), r.Elapsed.Round(time.Millisecond), r.CostUSD)
	if a.Summary != "" {
		fmt.Fprintf(b, "%s\n\n", a.Summary)
	}

	if len(a.KeyMetrics) > 0 {
		fmt.Fprintf(b, "### Key Metrics\n\n")
		fmt.Fprintf(b, "| Metric | Value | Median | Top Decile | Assessment |\n")
		fmt.Fprintf(b, "|---|---|---|---|---|\n")
		for _, m := range a.KeyMetrics {
			value := m.Value
			if value == "" {
				value = "n/a"
			}
			fmt.Fprintf(b, "| %s | %s | %g | %g | %s |\n",
				m.Name, value, m.Benchmark.Median, m.Benchmark.TopDecile, m.Assessment)
		}
		fmt.Fprintf(b, "\n")
	}

	if len(a.RedFlags) > 0 {
		fmt.Fprintf(b, "### Red Flags\n\n")
		for _, f := range a.RedFlags {
			fmt.Fprintf(b, "- **[%s]** %s", f.Severity, f.Flag)
			if f.Reasoning != "" {
				fmt.Fprintf(b, ": %s", f.Reasoning)
			}
			fmt.Fprintf(b, "\n")
		}
		fmt.Fprintf(b, "\n")
	}

	if len(a.Opportunities) > 0 {
		fmt.Fprintf(b, "### Opportunities\n\n")
		for _, o := range a.Opportunities {
			fmt.Fprintf(b, "- **[%s]** %s", o.Potential, o.Opportunity)
			if o.Reasoning != "" {
				fmt.Fprintf(b, ": %s", o.Reasoning)
			}
			fmt.Fprintf(b, "\n")
		}
		fmt.Fprintf(b, "\n")
	}

	if len(a.DiligenceQuestions) > 0 {
		fmt.Fprintf(b, "### Diligence Questions\n\n")
		for _, q := range a.DiligenceQuestions {
			fmt.Fprintf(b, "- (%s) %s\n", q.Priority, q.Question)
		}
		fmt.Fprintf(b, "\n")
	}

	if a.Regulatory.Summary != "" || len(a.Regulatory.KeyRegulations) > 0 {
		fmt.Fprintf(b, "### Regulatory\n\n")
		if a.Regulatory.Summary != "" {
			fmt.Fprintf(b, "%s\n\n", a.Regulatory.Summary)
		}
		for _, reg := range a.Regulatory.KeyRegulations {
			fmt.Fprintf(b, "- %s\n", reg)
		}
		fmt.Fprintf(b, "\n")
	}

	if len(a.Limitations) > 0 {
		fmt.Fprintf(b, "### Limitations\n\n")
		for _, l := range a.Limitations {
			fmt.Fprintf(b, "- %s\n", l)
		}
		fmt.Fprintf(b, "\n")
	}
}
