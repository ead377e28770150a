package analysis

// Canonical enums. Every qualitative field on SectorAnalysis is restricted to
// one of these closed sets; raw model strings never pass through unchecked.

type Maturity string

const (
	MaturityEmerging  Maturity = "EMERGING"
	MaturityGrowing   Maturity = "GROWING"
	MaturityMature    Maturity = "MATURE"
	MaturityDeclining Maturity = "DECLINING"
)

type Severity string

const (
	SeverityCritical Severity = "CRITICAL"
	SeverityMajor    Severity = "MAJOR"
	SeverityMinor    Severity = "MINOR"
)

type Potential string

const (
	PotentialHigh   Potential = "HIGH"
	PotentialMedium Potential = "MEDIUM"
	PotentialLow    Potential = "LOW"
)

type Assessment string

const (
	AssessmentStrong  Assessment = "STRONG"
	AssessmentAverage Assessment = "AVERAGE"
	AssessmentWeak    Assessment = "WEAK"
	AssessmentUnknown Assessment = "UNKNOWN"
)

type Intensity string

const (
	IntensityLow    Intensity = "LOW"
	IntensityMedium Intensity = "MEDIUM"
	IntensityHigh   Intensity = "HIGH"
)

type Trend string

const (
	TrendConsolidating Trend = "CONSOLIDATING"
	TrendStable        Trend = "STABLE"
	TrendFragmenting   Trend = "FRAGMENTING"
)

type Priority string

const (
	PriorityHigh   Priority = "HIGH"
	PriorityMedium Priority = "MEDIUM"
	PriorityLow    Priority = "LOW"
)

type CompletenessTier string

const (
	CompletenessComplete CompletenessTier = "COMPLETE"
	CompletenessPartial  CompletenessTier = "PARTIAL"
	CompletenessMinimal  CompletenessTier = "MINIMAL"
)

// Quartiles are benchmark reference points for a key metric. Fields default
// to 0, never null, because downstream rendering assumes numeric comparison.
type Quartiles struct {
	P25       float64 `json:"p25"`
	Median    float64 `json:"median"`
	P75       float64 `json:"p75"`
	TopDecile float64 `json:"top_decile"`
}

type KeyMetric struct {
	Name       string     `json:"name"`
	Value      string     `json:"value"`
	Benchmark  Quartiles  `json:"benchmark"`
	Assessment Assessment `json:"assessment"`
	Context    string     `json:"context,omitempty"`
}

type RedFlag struct {
	Flag      string   `json:"flag"`
	Severity  Severity `json:"severity"`
	Reasoning string   `json:"reasoning,omitempty"`
}

type Opportunity struct {
	Opportunity string    `json:"opportunity"`
	Potential   Potential `json:"potential"`
	Reasoning   string    `json:"reasoning,omitempty"`
}

type Regulatory struct {
	Summary        string   `json:"summary"`
	KeyRegulations []string `json:"key_regulations"`
}

type Dynamics struct {
	Competition        Intensity `json:"competition"`
	ConsolidationTrend Trend     `json:"consolidation_trend"`
	BarrierToEntry     Intensity `json:"barrier_to_entry"`
	TypicalExitMult    float64   `json:"typical_exit_multiple"`
	RecentExits        []string  `json:"recent_exits"`
}

type DiligenceQuestion struct {
	Question       string   `json:"question"`
	Category       string   `json:"category,omitempty"`
	Priority       Priority `json:"priority"`
	ExpectedAnswer string   `json:"expected_answer,omitempty"`
	RedFlagAnswer  string   `json:"red_flag_answer,omitempty"`
}

type SectorFit struct {
	Score      int      `json:"score"`
	Strengths  []string `json:"strengths"`
	Weaknesses []string `json:"weaknesses"`
	Timing     string   `json:"timing,omitempty"`
}

// SectorAnalysis is the canonical result shape every expert output is mapped
// into before leaving the pipeline. List fields are always non-nil and the
// fit score is always in [0,100].
type SectorAnalysis struct {
	Sector             string              `json:"sector"`
	Maturity           Maturity            `json:"maturity"`
	KeyMetrics         []KeyMetric         `json:"key_metrics"`
	RedFlags           []RedFlag           `json:"red_flags"`
	Opportunities      []Opportunity       `json:"opportunities"`
	Regulatory         Regulatory          `json:"regulatory"`
	Dynamics           Dynamics            `json:"dynamics"`
	DiligenceQuestions []DiligenceQuestion `json:"diligence_questions"`
	Fit                SectorFit           `json:"fit"`
	Summary            string              `json:"summary"`
	Completeness       CompletenessTier    `json:"completeness"`
	Limitations        []string            `json:"limitations"`
}
