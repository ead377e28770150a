package sectors

import (
	"context"
	"testing"

	"github.com/joelkehle/dealdesk-agency/internal/expert"
)

func TestRoutesOrdering(t *testing.T) {
	table := NewTable()
	// Vertical experts must win over the broad patterns that also match.
	for _, tc := range []struct {
		sector string
		want   string
	}{
		{"LegalTech SaaS for mid-size firms", "legaltech"},
		{"AI-powered contract management", "legaltech"},
		{"Biotech / digital health crossover", "biotech"},
		{"AI platform for enterprise software", "aiml"},
		{"B2B software", "saas"},
		{"Payments infrastructure", "fintech"},
		{"Telehealth", "healthtech"},
		{"Clean energy marketplace", "marketplace"},
		{"Climate fintech", "fintech"},
	} {
		got, ok := table.Classify(tc.sector, false)
		if !ok || got != tc.want {
			t.Errorf("Classify(%q) = (%q, %v), want %q", tc.sector, got, ok, tc.want)
		}
	}
}

func TestRoutesFallback(t *testing.T) {
	table := NewTable()
	got, ok := table.Classify("Space Mining", true)
	if !ok || got != GeneralistName {
		t.Fatalf("Classify = (%q, %v)", got, ok)
	}
	if _, ok := table.Classify("Space Mining", false); ok {
		t.Fatal("expected no match with fallback disabled")
	}
}

// Every route target must have a registered expert, or routing would resolve
// names the registry cannot serve.
func TestEveryRouteHasAnExpert(t *testing.T) {
	registry := NewRegistry(nopCaller{})
	for _, r := range Routes() {
		if _, ok := registry[r.Expert]; !ok {
			t.Errorf("route target %q has no registered expert", r.Expert)
		}
	}
	if _, ok := registry[GeneralistName]; !ok {
		t.Error("generalist expert missing from registry")
	}
}

func TestRegistryNames(t *testing.T) {
	registry := NewRegistry(nopCaller{})
	for name, e := range registry {
		if e.Name() != name {
			t.Errorf("registry key %q maps to expert named %q", name, e.Name())
		}
	}
}

type nopCaller struct{}

func (nopCaller) Complete(context.Context, expert.CompletionRequest) (expert.Completion, error) {
	return expert.Completion{Text: "{}"}, nil
}
