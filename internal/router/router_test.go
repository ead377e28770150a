package router

import (
	"reflect"
	"testing"
)

func testTable() *Table {
	return NewTable([]Route{
		{Expert: "legaltech", Patterns: []string{"legaltech", "legal tech", "contract management"}},
		{Expert: "biotech", Patterns: []string{"biotech", "pharma"}},
		{Expert: "healthtech", Patterns: []string{"healthtech", "health"}},
		{Expert: "aiml", Patterns: []string{"ai", "ml", "machine learning"}},
		{Expert: "saas", Patterns: []string{"saas", "software"}},
	}, "generalist")
}

func TestClassifySingle(t *testing.T) {
	table := testTable()
	for _, tc := range []struct {
		sector   string
		fallback bool
		want     string
		ok       bool
	}{
		{sector: "LegalTech / Contract Management", fallback: true, want: "legaltech", ok: true},
		{sector: "legaltech startup", fallback: false, want: "legaltech", ok: true},
		{sector: "AI/ML", fallback: false, want: "aiml", ok: true},
		{sector: "Machine Learning Ops", fallback: false, want: "aiml", ok: true},
		{sector: "Blockchain Infrastructure", fallback: false, want: "", ok: false},
		{sector: "Blockchain Infrastructure", fallback: true, want: "generalist", ok: true},
		{sector: "Enterprise Software", fallback: false, want: "saas", ok: true},
		{sector: "", fallback: false, want: "", ok: false},
		{sector: "", fallback: true, want: "generalist", ok: true},
		{sector: "   ", fallback: false, want: "", ok: false},
	} {
		got, ok := table.Classify(tc.sector, tc.fallback)
		if got != tc.want || ok != tc.ok {
			t.Errorf("Classify(%q, %v) = (%q, %v), want (%q, %v)", tc.sector, tc.fallback, got, ok, tc.want, tc.ok)
		}
	}
}

func TestShortPatternWordBoundary(t *testing.T) {
	table := testTable()
	// "ai" must not fire inside "blockchain".
	if got, ok := table.Classify("Blockchain", false); ok {
		t.Fatalf("expected no match for Blockchain, got %q", got)
	}
	// Boundary at '/' and start-of-string both count.
	for _, sector := range []string{"AI for accountants", "ML/AI tooling", "fintech/ai"} {
		if got, _ := table.Classify(sector, false); got != "aiml" {
			t.Fatalf("Classify(%q) = %q, want aiml", sector, got)
		}
	}
}

func TestClassifyOrderResolvesOverlap(t *testing.T) {
	table := testTable()
	// Matches both legaltech and saas; legaltech is earlier in the table.
	got, _ := table.Classify("LegalTech software for firms", false)
	if got != "legaltech" {
		t.Fatalf("expected legaltech to win ordering, got %q", got)
	}
	// Biotech precedes healthtech even though "health" also matches.
	got, _ = table.Classify("biotech health platform", false)
	if got != "biotech" {
		t.Fatalf("expected biotech to win ordering, got %q", got)
	}
}

func TestClassifyAll(t *testing.T) {
	table := testTable()
	got := table.ClassifyAll("LegalTech software with AI", true)
	want := []string{"legaltech", "aiml", "saas"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("ClassifyAll = %v, want %v", got, want)
	}

	// Generalist only appended when nothing else matched.
	got = table.ClassifyAll("quantum sensing", true)
	if !reflect.DeepEqual(got, []string{"generalist"}) {
		t.Fatalf("ClassifyAll fallback = %v", got)
	}
	got = table.ClassifyAll("quantum sensing", false)
	if len(got) != 0 {
		t.Fatalf("ClassifyAll without fallback = %v, want empty", got)
	}
	got = table.ClassifyAll("", false)
	if len(got) != 0 {
		t.Fatalf("ClassifyAll empty sector = %v, want empty", got)
	}
}

func TestClassifyDeterministic(t *testing.T) {
	table := testTable()
	first, _ := table.Classify("healthtech for payers", true)
	for i := 0; i < 50; i++ {
		got, _ := table.Classify("healthtech for payers", true)
		if got != first {
			t.Fatalf("classification not deterministic: %q then %q", first, got)
		}
	}
}

func TestClassifyAllDeduplicates(t *testing.T) {
	table := NewTable([]Route{
		{Expert: "saas", Patterns: []string{"saas", "software"}},
		{Expert: "saas", Patterns: []string{"b2b"}},
	}, "generalist")
	got := table.ClassifyAll("b2b saas software", false)
	if !reflect.DeepEqual(got, []string{"saas"}) {
		t.Fatalf("expected deduplicated single entry, got %v", got)
	}
}
