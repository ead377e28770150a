package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/joelkehle/dealdesk-agency/internal/analysis"
	"github.com/joelkehle/dealdesk-agency/internal/deal"
	"github.com/joelkehle/dealdesk-agency/internal/expert"
	"github.com/joelkehle/dealdesk-agency/internal/router"
	"github.com/joelkehle/dealdesk-agency/internal/store"
)

type stubExpert struct {
	name string
	cost float64
	err  error
}

func (e stubExpert) Name() string { return e.name }

func (e stubExpert) Analyze(_ context.Context, _ deal.EnrichedContext) (analysis.SectorAnalysis, expert.Usage, error) {
	if e.err != nil {
		return analysis.SectorAnalysis{}, expert.Usage{}, e.err
	}
	a := analysis.FallbackAnalysis(e.name)
	a.Summary = e.name + " analysis"
	a.Fit.Score = 60
	return a, expert.Usage{CostUSD: e.cost}, nil
}

func testServer(t *testing.T, experts map[string]expert.Expert) (http.Handler, *store.Store) {
	t.Helper()
	table := router.NewTable([]router.Route{
		{Expert: "fintech", Patterns: []string{"fintech", "payments"}},
		{Expert: "saas", Patterns: []string{"saas", "software"}},
	}, "generalist")
	st, err := store.Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { st.Close() })
	return NewServer(table, experts, st), st
}

func defaultExperts() map[string]expert.Expert {
	return map[string]expert.Expert{
		"fintech":    stubExpert{name: "fintech", cost: 0.25},
		"saas":       stubExpert{name: "saas", cost: 0.125},
		"generalist": stubExpert{name: "generalist", cost: 0.0625},
	}
}

func postAnalyze(t *testing.T, h http.Handler, req AnalyzeRequest) (*httptest.ResponseRecorder, AnalyzeResponse) {
	t.Helper()
	body, _ := json.Marshal(req)
	r := httptest.NewRequest(http.MethodPost, "/v1/deals/analyze", bytes.NewReader(body))
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)
	var resp AnalyzeResponse
	if w.Code == http.StatusOK {
		if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
			t.Fatalf("decode response: %v", err)
		}
	}
	return w, resp
}

func TestAnalyzeSingleExpert(t *testing.T) {
	h, st := testServer(t, defaultExperts())
	w, resp := postAnalyze(t, h, AnalyzeRequest{
		Deal:    deal.Deal{Company: "Acme", Sector: "Payments infrastructure"},
		Options: AnalyzeOptions{Fallback: true},
	})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", w.Code, w.Body.String())
	}
	if resp.AnalysisID == "" {
		t.Error("analysis id missing")
	}
	if len(resp.Experts) != 1 || resp.Experts[0] != "fintech" {
		t.Fatalf("experts = %v", resp.Experts)
	}
	if len(resp.Results) != 1 || !resp.Results[0].Success {
		t.Fatalf("results = %+v", resp.Results)
	}
	if resp.TotalCostUSD != 0.25 {
		t.Errorf("total cost = %f", resp.TotalCostUSD)
	}
	if !strings.Contains(resp.ReportMarkdown, "# Deal Analysis: Acme") {
		t.Error("report markdown missing")
	}

	// The run must be persisted under the returned id.
	rec, err := st.Get(resp.AnalysisID)
	if err != nil {
		t.Fatalf("persisted analysis not found: %v", err)
	}
	if rec.Company != "Acme" || !rec.Success {
		t.Errorf("persisted record = %+v", rec)
	}
}

func TestAnalyzeMultiExpert(t *testing.T) {
	h, _ := testServer(t, defaultExperts())
	_, resp := postAnalyze(t, h, AnalyzeRequest{
		Deal:    deal.Deal{Company: "Acme", Sector: "fintech software"},
		Options: AnalyzeOptions{Multi: true},
	})
	if len(resp.Experts) != 2 {
		t.Fatalf("experts = %v", resp.Experts)
	}
	if resp.Experts[0] != "fintech" || resp.Experts[1] != "saas" {
		t.Errorf("expert order = %v", resp.Experts)
	}
	if resp.TotalCostUSD != 0.375 {
		t.Errorf("total cost = %f", resp.TotalCostUSD)
	}
	// Result slots follow the expert list even with concurrent execution.
	if resp.Results[0].Expert != "fintech" || resp.Results[1].Expert != "saas" {
		t.Errorf("result order = %s, %s", resp.Results[0].Expert, resp.Results[1].Expert)
	}
}

func TestAnalyzeUnhandledSector(t *testing.T) {
	h, _ := testServer(t, defaultExperts())
	w, resp := postAnalyze(t, h, AnalyzeRequest{
		Deal:    deal.Deal{Company: "Acme", Sector: "space mining"},
		Options: AnalyzeOptions{Fallback: false},
	})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if !resp.Unhandled {
		t.Error("expected unhandled=true")
	}
	if len(resp.Results) != 0 {
		t.Errorf("results = %+v", resp.Results)
	}
}

func TestAnalyzeFallbackToGeneralist(t *testing.T) {
	h, _ := testServer(t, defaultExperts())
	_, resp := postAnalyze(t, h, AnalyzeRequest{
		Deal:    deal.Deal{Company: "Acme", Sector: "space mining"},
		Options: AnalyzeOptions{Fallback: true},
	})
	if resp.Unhandled {
		t.Error("fallback run must not be unhandled")
	}
	if len(resp.Experts) != 1 || resp.Experts[0] != "generalist" {
		t.Fatalf("experts = %v", resp.Experts)
	}
}

func TestAnalyzeFailedExpertStillResponds(t *testing.T) {
	experts := defaultExperts()
	experts["fintech"] = stubExpert{name: "fintech", err: errors.New("model unavailable, status code: 400")}
	h, _ := testServer(t, experts)

	w, resp := postAnalyze(t, h, AnalyzeRequest{
		Deal:    deal.Deal{Company: "Acme", Sector: "fintech software"},
		Options: AnalyzeOptions{Multi: true},
	})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if resp.Results[0].Success {
		t.Error("fintech result should be failed")
	}
	if resp.Results[0].Error == "" {
		t.Error("failed result missing error string")
	}
	if !resp.Results[1].Success {
		t.Error("saas result should still succeed")
	}
	// Failed expert contributes no cost.
	if resp.TotalCostUSD != 0.125 {
		t.Errorf("total cost = %f", resp.TotalCostUSD)
	}
	if !strings.Contains(resp.ReportMarkdown, "> FAILED:") {
		t.Error("report must surface the failed expert")
	}
}

func TestAnalyzeValidation(t *testing.T) {
	h, _ := testServer(t, defaultExperts())

	r := httptest.NewRequest(http.MethodGet, "/v1/deals/analyze", nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)
	if w.Code != http.StatusMethodNotAllowed {
		t.Errorf("GET status = %d", w.Code)
	}

	r = httptest.NewRequest(http.MethodPost, "/v1/deals/analyze", strings.NewReader("{not json"))
	w = httptest.NewRecorder()
	h.ServeHTTP(w, r)
	if w.Code != http.StatusBadRequest {
		t.Errorf("bad JSON status = %d", w.Code)
	}

	w, _ = postAnalyze(t, h, AnalyzeRequest{Deal: deal.Deal{Sector: "fintech"}})
	if w.Code != http.StatusBadRequest {
		t.Errorf("missing company status = %d", w.Code)
	}
}

func TestGetAnalysis(t *testing.T) {
	h, _ := testServer(t, defaultExperts())
	_, created := postAnalyze(t, h, AnalyzeRequest{
		Deal:    deal.Deal{Company: "Acme", Sector: "fintech"},
		Options: AnalyzeOptions{Fallback: true},
	})

	r := httptest.NewRequest(http.MethodGet, "/v1/analyses/"+created.AnalysisID, nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", w.Code, w.Body.String())
	}
	var rec store.Analysis
	if err := json.Unmarshal(w.Body.Bytes(), &rec); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if rec.ID != created.AnalysisID || rec.Company != "Acme" {
		t.Errorf("record = %+v", rec)
	}

	r = httptest.NewRequest(http.MethodGet, "/v1/analyses/no-such-id", nil)
	w = httptest.NewRecorder()
	h.ServeHTTP(w, r)
	if w.Code != http.StatusNotFound {
		t.Errorf("missing id status = %d", w.Code)
	}
}

func TestHealth(t *testing.T) {
	h, _ := testServer(t, defaultExperts())
	r := httptest.NewRequest(http.MethodGet, "/v1/health", nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), `"ok":true`) {
		t.Errorf("body = %s", w.Body.String())
	}
}
