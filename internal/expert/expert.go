package expert

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
)

// Usage carries the non-result byproducts of a successful analysis: what the
// model call cost and any schema warnings recorded along the way.
type Usage struct {
	CostUSD  float64
	Warnings []string
}

// Expert is the single polymorphic contract every sector expert satisfies.
// Native handlers implement it directly; prompt-template experts are wrapped
// by NewTemplateExpert.
type Expert interface {
	Name() string
	Analyze(ctx context.Context, ec deal.EnrichedContext) (analysis.SectorAnalysis, Usage, error)
}

// PromptTemplate is the declarative expert shape: a prompt pair plus the
// generic output contract, with no execution logic of its own.
type PromptTemplate interface {
	Name() string
	DisplayName() string
	DefaultRegulations() []string
	Prompts(ec deal.EnrichedContext) (system, user string)
}

// PostProcessor is an optional hook for templates that adjust the normalized
// result after mapping (the glossary's "custom post-processing").
type PostProcessor interface {
	PostProcess(a *analysis.SectorAnalysis, ec deal.EnrichedContext)
}

type templateExpert struct {
	tmpl   PromptTemplate
	caller Caller
}

// NewTemplateExpert adapts a prompt-template expert to the Expert contract:
// build prompts, call the model, extract and repair the JSON, validate, and
// normalize.
func NewTemplateExpert(t PromptTemplate, caller Caller) Expert {
	return &templateExpert{tmpl: t, caller: caller}
}

func (e *templateExpert) Name() string { return e.tmpl.Name() }

const maxCallAttempts = 3

func (e *templateExpert) Analyze(ctx context.Context, ec deal.EnrichedContext) (analysis.SectorAnalysis, Usage, error) {
	system, user := e.tmpl.Prompts(ec)
	comp, err := e.complete(ctx, CompletionRequest{
		System:      system,
		User:        user,
		Complexity:  ComplexityStandard,
		Temperature: 0.2,
	})
	if err != nil {
		return analysis.SectorAnalysis{}, Usage{}, fmt.Errorf("%s model call: %w", e.Name(), err)
	}
	usage := Usage{CostUSD: comp.CostUSD}

	raw, ok := ExtractJSONObject(comp.Text)
	if !ok {
		// No extractable object is a hard failure, same as a transport
		// error: there is no data to be lenient about.
		return analysis.SectorAnalysis{}, usage, errors.New("no JSON object found in model response")
	}

	var out analysis.TemplateOutput
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

	// Schema violations are non-fatal: model output is unreliable in shape
	// but usually still informative, so proceed with the parsed object and
	// record the violations as warnings.
	if vs := analysis.ValidateTemplateOutput(out); len(vs) > 0 {
		for _, v := range vs {
			usage.Warnings = append(usage.Warnings, v.String())
		}
		log.Printf("%s: output failed schema validation (%d violations), proceeding best-effort", e.Name(), len(vs))
	}

	a := analysis.Normalize(out, e.tmpl.DisplayName(), e.tmpl.DefaultRegulations())
	if pp, ok := e.tmpl.(PostProcessor); ok {
		pp.PostProcess(&a, ec)
	}
	return a, usage, nil
}

// complete retries transient transport failures with a short backoff before
// giving up.
func (e *templateExpert) complete(ctx context.Context, req CompletionRequest) (Completion, error) {
	var lastErr error
	for attempt := 1; attempt <= maxCallAttempts; attempt++ {
		comp, err := e.caller.Complete(ctx, req)
		if err == nil {
			if strings.TrimSpace(comp.Text) == "" {
				lastErr = errors.New("empty model response")
				continue
			}
			return comp, nil
		}
		lastErr = err
		if !retryable(classifyTransportError(err)) || attempt == maxCallAttempts {
			break
		}
		select {
		case <-ctx.Done():
			return Completion{}, ctx.Err()
		case <-sleepCh(attempt):
		}
	}
	return Completion{}, lastErr
}
