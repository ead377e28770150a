package deal

type FundingStage string

const (
	StagePreSeed FundingStage = "PRE_SEED"
	StageSeed    FundingStage = "SEED"
	StageSeriesA FundingStage = "SERIES_A"
	StageSeriesB FundingStage = "SERIES_B"
	StageSeriesC FundingStage = "SERIES_C"
	StageGrowth  FundingStage = "GROWTH"
)

// Deal is the subject under analysis. It is owned by the calling
// orchestration layer and is never mutated by the pipeline.
type Deal struct {
	Company          string       `json:"company"`
	Sector           string       `json:"sector"`
	Stage            FundingStage `json:"stage"`
	Geography        string       `json:"geography,omitempty"`
	ValuationAskUSD  float64      `json:"valuation_ask_usd,omitempty"`
	AmountAskUSD     float64      `json:"amount_ask_usd,omitempty"`
	AnnualRevenueUSD float64      `json:"annual_revenue_usd,omitempty"`
	GrowthRatePct    float64      `json:"growth_rate_pct,omitempty"`
}

// Competitor is one comparable company detected by the funding database.
type Competitor struct {
	Name      string  `json:"name"`
	Stage     string  `json:"stage,omitempty"`
	RaisedUSD float64 `json:"raised_usd,omitempty"`
}

// BenchmarkQuartiles are valuation benchmarks for the deal's sector and stage.
type BenchmarkQuartiles struct {
	P25    float64 `json:"p25"`
	Median float64 `json:"median"`
	P75    float64 `json:"p75"`
}

// FundingDB is an optional read-only cross-reference from the external
// funding/benchmark database. Absence means "no data available" and must be
// surfaced explicitly in prompts, never silently omitted.
type FundingDB struct {
	Competitors         []Competitor       `json:"competitors"`
	ValuationBenchmarks BenchmarkQuartiles `json:"valuation_benchmarks"`
	SectorTrend         string             `json:"sector_trend,omitempty"`
}

// EnrichedContext is the read-only bundle handed to every expert invocation.
// It is constructed upstream and safely shared across concurrent invocations.
type EnrichedContext struct {
	Deal          Deal              `json:"deal"`
	DocumentText  string            `json:"document_text,omitempty"`
	PriorFindings map[string]string `json:"prior_findings,omitempty"`
	FundingDB     *FundingDB        `json:"funding_db,omitempty"`
	FactBlock     string            `json:"fact_block,omitempty"`
}
