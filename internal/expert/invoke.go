package expert

import (
	"context"
	"fmt"
	"log"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/joelkehle/dealdesk-agency/internal/analysis"
	"github.com/joelkehle/dealdesk-agency/internal/deal"
)

// Result is the uniform outcome of one expert invocation. Invoke never
// propagates an error or panic; on failure Data carries a safe default so a
// caller fanning out to many experts can render every slot without
// null-checking.
type Result struct {
	Expert   string                  `json:"expert"`
	Success  bool                    `json:"success"`
	Elapsed  time.Duration           `json:"elapsed_ns"`
	CostUSD  float64                 `json:"cost_usd"`
	Error    string                  `json:"error,omitempty"`
	Warnings []string                `json:"warnings,omitempty"`
	Data     analysis.SectorAnalysis `json:"data"`
}

var tracer = otel.Tracer("dealdesk/expert")

// Invoke runs one expert against the enriched context. This is the system's
// failure-containment boundary: every error path, including panics, resolves
// to a failed Result with cost 0 and a fallback analysis.
func Invoke(ctx context.Context, e Expert, ec deal.EnrichedContext) (res Result) {
	start := time.Now()
	ctx, span := tracer.Start(ctx, "expert.analyze")
	span.SetAttributes(
		attribute.String("expert", e.Name()),
		attribute.String("deal.company", ec.Deal.Company),
		attribute.String("deal.sector", ec.Deal.Sector),
	)
	defer span.End()

	defer func() {
		if r := recover(); r != nil {
			log.Printf("expert %s panicked: %v", e.Name(), r)
			span.SetStatus(codes.Error, "panic")
			res = failedResult(e.Name(), fmt.Sprintf("expert panicked: %v", r), time.Since(start))
		}
	}()

	a, usage, err := e.Analyze(ctx, ec)
	elapsed := time.Since(start)
	if err != nil {
		log.Printf("expert %s failed after %s: %v", e.Name(), elapsed.Round(time.Millisecond), err)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return failedResult(e.Name(), err.Error(), elapsed)
	}
	span.SetAttributes(attribute.Int("fit_score", a.Fit.Score))
	return Result{
		Expert:   e.Name(),
		Success:  true,
		Elapsed:  elapsed,
		CostUSD:  usage.CostUSD,
		Warnings: usage.Warnings,
		Data:     a,
	}
}

func failedResult(name, msg string, elapsed time.Duration) Result {
	return Result{
		Expert:  name,
		Success: false,
		Elapsed: elapsed,
		CostUSD: 0,
		Error:   msg,
		Data:    analysis.FallbackAnalysis(name),
	}
}
