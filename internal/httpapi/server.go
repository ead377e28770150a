package httpapi

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/joelkehle/dealdesk-agency/internal/analysis"
	"github.com/joelkehle/dealdesk-agency/internal/deal"
	"github.com/joelkehle/dealdesk-agency/internal/expert"
	"github.com/joelkehle/dealdesk-agency/internal/report"
	"github.com/joelkehle/dealdesk-agency/internal/router"
	"github.com/joelkehle/dealdesk-agency/internal/store"
)

type Server struct {
	table   *router.Table
	experts map[string]expert.Expert
	store   *store.Store
}

// NewServer builds the HTTP handler. The store may be nil, in which case
// results are returned but not persisted.
func NewServer(table *router.Table, experts map[string]expert.Expert, st *store.Store) http.Handler {
	s := &Server{table: table, experts: experts, store: st}
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/deals/analyze", s.handleAnalyze)
	mux.HandleFunc("/v1/analyses/", s.handleGetAnalysis)
	mux.HandleFunc("/v1/health", s.handleHealth)
	return mux
}

type AnalyzeOptions struct {
	Multi    bool `json:"multi"`
	Fallback bool `json:"fallback"`
}

type AnalyzeRequest struct {
	Deal          deal.Deal         `json:"deal"`
	DocumentText  string            `json:"document_text,omitempty"`
	PriorFindings map[string]string `json:"prior_findings,omitempty"`
	FundingDB     *deal.FundingDB   `json:"funding_db,omitempty"`
	FactBlock     string            `json:"fact_block,omitempty"`
	Options       AnalyzeOptions    `json:"options"`
}

type AnalyzeResponse struct {
	AnalysisID     string          `json:"analysis_id"`
	Company        string          `json:"company"`
	Sector         string          `json:"sector"`
	Experts        []string        `json:"experts"`
	Unhandled      bool            `json:"unhandled,omitempty"`
	Results        []expert.Result `json:"results"`
	TotalCostUSD   float64         `json:"total_cost_usd"`
	ReportMarkdown string          `json:"report_markdown,omitempty"`
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "POST required")
		return
	}
	var req AnalyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if strings.TrimSpace(req.Deal.Company) == "" {
		writeError(w, http.StatusBadRequest, "deal.company is required")
		return
	}

	names := s.resolve(req.Deal.Sector, req.Options)
	resp := AnalyzeResponse{
		AnalysisID: uuid.NewString(),
		Company:    req.Deal.Company,
		Sector:     req.Deal.Sector,
		Experts:    names,
		Results:    []expert.Result{},
	}
	if len(names) == 0 {
		// Classification miss with fallback disabled: a definitive
		// "no expert" outcome, not an error.
		resp.Unhandled = true
		writeJSON(w, http.StatusOK, resp)
		return
	}

	ec := deal.EnrichedContext{
		Deal:          req.Deal,
		DocumentText:  req.DocumentText,
		PriorFindings: req.PriorFindings,
		FundingDB:     req.FundingDB,
		FactBlock:     req.FactBlock,
	}

	// Fan out one goroutine per expert. Each invocation is independent and
	// stateless; Invoke contains every failure, so one bad expert cannot
	// sink the batch.
	resp.Results = make([]expert.Result, len(names))
	var wg sync.WaitGroup
	for i, name := range names {
		e, ok := s.experts[name]
		if !ok {
			resp.Results[i] = expert.Result{
				Expert: name,
				Error:  "expert not registered",
				Data:   analysis.FallbackAnalysis(name),
			}
			continue
		}
		wg.Add(1)
		go func(i int, e expert.Expert) {
			defer wg.Done()
			resp.Results[i] = expert.Invoke(r.Context(), e, ec)
		}(i, e)
	}
	wg.Wait()

	anySuccess := false
	for _, res := range resp.Results {
		resp.TotalCostUSD += res.CostUSD
		if res.Success {
			anySuccess = true
		}
	}
	resp.ReportMarkdown = report.BuildMarkdown(req.Deal, resp.Results)

	if s.store != nil {
		blob, _ := json.Marshal(resp.Results)
		rec := store.Analysis{
			ID:           resp.AnalysisID,
			Company:      req.Deal.Company,
			Sector:       req.Deal.Sector,
			Experts:      strings.Join(names, ","),
			Success:      anySuccess,
			TotalCostUSD: resp.TotalCostUSD,
			Results:      blob,
		}
		if err := s.store.Save(rec); err != nil {
			log.Printf("persist analysis %s failed: %v", resp.AnalysisID, err)
		}
	}

	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGetAnalysis(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "GET required")
		return
	}
	if s.store == nil {
		writeError(w, http.StatusNotFound, "persistence disabled")
		return
	}
	id := strings.TrimPrefix(r.URL.Path, "/v1/analyses/")
	if id == "" || strings.Contains(id, "/") {
		writeError(w, http.StatusBadRequest, "analysis id required")
		return
	}
	rec, err := s.store.Get(id)
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "analysis not found")
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

// resolve applies the routing contract: single-match mode yields at most one
// expert, multi-match mode yields every match in table order.
func (s *Server) resolve(sector string, opts AnalyzeOptions) []string {
	if opts.Multi {
		return s.table.ClassifyAll(sector, opts.Fallback)
	}
	name, ok := s.table.Classify(sector, opts.Fallback)
	if !ok {
		return []string{}
	}
	return []string{name}
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]any{"ok": false, "error": msg})
}
