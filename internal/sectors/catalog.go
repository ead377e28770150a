package sectors

import (
	"github.com/joelkehle/dealdesk-agency/internal/expert"
	"github.com/joelkehle/dealdesk-agency/internal/router"
)

const GeneralistName = "generalist"

var legaltech = sectorTemplate{
	name:    "legaltech",
	display: "LegalTech",
	regulations: []string{
		"Attorney advertising and UPL rules (state bar)",
		"GDPR / CCPA for client data",
		"E-discovery admissibility standards (FRCP 26)",
	},
	brief: "Focus on law-firm and in-house adoption cycles, integration with matter-management incumbents, " +
		"and whether the product touches unauthorized-practice-of-law boundaries.",
}

var biotech = sectorTemplate{
	name:    "biotech",
	display: "Biotech",
	regulations: []string{
		"FDA IND/NDA approval pathway",
		"EMA clinical trial regulation (EU 536/2014)",
		"Patent cliff exposure (Hatch-Waxman)",
	},
	brief: "Focus on clinical stage, trial design risk, burn versus milestone timing, and platform-versus-asset positioning. " +
		"Revenue multiples matter less than probability-of-success-adjusted pipeline value.",
}

var healthtech = sectorTemplate{
	name:    "healthtech",
	display: "HealthTech",
	regulations: []string{
		"HIPAA / HITECH for patient data",
		"FDA SaMD classification where applicable",
		"CMS reimbursement codes",
	},
	brief: "Focus on reimbursement pathway, provider sales cycles, clinical evidence requirements, and payer concentration.",
}

var aiml = sectorTemplate{
	name:    "aiml",
	display: "AI/ML",
	regulations: []string{
		"EU AI Act risk tiers",
		"Model/data licensing terms",
		"Sector rules inherited from deployment domains",
	},
	brief: "Focus on defensibility beyond model access (proprietary data, workflow lock-in), inference cost structure " +
		"versus pricing, and exposure to foundation-model platform risk.",
}

var saas = sectorTemplate{
	name:    "saas",
	display: "SaaS",
	regulations: []string{
		"SOC 2 / ISO 27001 expectations for enterprise sales",
		"GDPR / CCPA data processing terms",
	},
	brief: "Focus on net revenue retention, CAC payback, logo concentration, and expansion motion. " +
		"Benchmark growth against the stage-appropriate Rule of 40.",
}

var marketplace = sectorTemplate{
	name:    "marketplace",
	display: "Marketplace",
	regulations: []string{
		"Worker classification rules where supply is labor",
		"Payments/KYC obligations for managed transactions",
	},
	brief: "Focus on take rate sustainability, liquidity by geography, disintermediation risk, and which side of the " +
		"market is the constraint.",
}

var climate = sectorTemplate{
	name:    "climate",
	display: "Climate",
	regulations: []string{
		"Carbon credit verification standards",
		"IRA / EU Green Deal subsidy exposure",
		"Grid interconnection permitting",
	},
	brief: "Focus on unit economics without subsidies, capex intensity versus venture returns, and offtake commitments.",
}

var generalist = sectorTemplate{
	name:        GeneralistName,
	display:     "General",
	regulations: []string{},
	brief: "No registered sector expert matched this deal. Analyze it on general venture fundamentals: team-market fit, " +
		"growth efficiency, competitive moat, and exit landscape. Be explicit about what sector-specific diligence this " +
		"generalist pass cannot cover.",
}

// Routes is the hand-maintained routing table. It is an ordered literal
// list, first match wins, and the order is the tie-break mechanism:
//   - legaltech precedes saas: legal-tech pitches almost always also say
//     "SaaS", and the narrow vertical must win.
//   - biotech precedes healthtech: "biotech" decks routinely mention
//     "health", and clinical-asset analysis differs from care-delivery
//     analysis.
//   - aiml comes after the verticals so "AI for contract review" still
//     routes to legaltech, but before saas so a pure "AI platform" deal is
//     not swallowed by the generic "software" pattern.
//   - saas carries the broad "software" pattern and therefore goes last
//     among the software-shaped experts.
func Routes() []router.Route {
	return []router.Route{
		{Expert: "legaltech", Patterns: []string{"legaltech", "legal tech", "lawtech", "contract management", "e-discovery"}},
		{Expert: "fintech", Patterns: []string{"fintech", "payments", "banking", "insurtech", "lending", "wealthtech"}},
		{Expert: "biotech", Patterns: []string{"biotech", "pharma", "therapeutics", "drug discovery"}},
		{Expert: "healthtech", Patterns: []string{"healthtech", "health", "medtech", "telehealth", "digital care"}},
		{Expert: "aiml", Patterns: []string{"ai", "ml", "machine learning", "artificial intelligence", "deep learning", "llm"}},
		{Expert: "saas", Patterns: []string{"saas", "b2b software", "enterprise software", "software"}},
		{Expert: "marketplace", Patterns: []string{"marketplace", "e-commerce", "ecommerce", "platform"}},
		{Expert: "climate", Patterns: []string{"climate", "cleantech", "clean energy", "energy", "sustainability"}},
	}
}

// NewTable builds the router over the static route list with the generalist
// as fallback.
func NewTable() *router.Table {
	return router.NewTable(Routes(), GeneralistName)
}

// NewRegistry wires every registered expert to the given model caller. All
// but fintech are template experts adapted by the generic wrapper; fintech
// is a native handler with its own schema and post-processing.
func NewRegistry(caller expert.Caller) map[string]expert.Expert {
	experts := map[string]expert.Expert{
		"fintech": NewFintechExpert(caller),
	}
	for _, t := range []sectorTemplate{legaltech, biotech, healthtech, aiml, saas, marketplace, climate, generalist} {
		experts[t.name] = expert.NewTemplateExpert(t, caller)
	}
	return experts
}
