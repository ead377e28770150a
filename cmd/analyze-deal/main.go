package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/joelkehle/dealdesk-agency/internal/deal"
	"github.com/joelkehle/dealdesk-agency/internal/expert"
	"github.com/joelkehle/dealdesk-agency/internal/report"
	"github.com/joelkehle/dealdesk-agency/internal/sectors"
)

type input struct {
	Deal          deal.Deal         `json:"deal"`
	DocumentText  string            `json:"document_text,omitempty"`
	PriorFindings map[string]string `json:"prior_findings,omitempty"`
	FundingDB     *deal.FundingDB   `json:"funding_db,omitempty"`
	FactBlock     string            `json:"fact_block,omitempty"`
}

func main() {
	_ = godotenv.Load()

	dealPath := flag.String("deal", "", "Path to the deal JSON file")
	multi := flag.Bool("multi", false, "Run every matching expert instead of the first")
	noFallback := flag.Bool("no-fallback", false, "Disable the generalist fallback")
	pdfPath := flag.String("pdf", "", "Write the report as a PDF to this path")
	flag.Parse()

	if *dealPath == "" {
		log.Fatal("-deal is required")
	}
	blob, err := os.ReadFile(*dealPath)
	if err != nil {
		log.Fatal(err)
	}
	var in input
	if err := json.Unmarshal(blob, &in); err != nil {
		log.Fatalf("parse %s: %v", *dealPath, err)
	}

	caller, err := expert.NewAnthropicCallerFromEnv()
	if err != nil {
		log.Fatal(err)
	}
	table := sectors.NewTable()
	registry := sectors.NewRegistry(caller)

	var names []string
	if *multi {
		names = table.ClassifyAll(in.Deal.Sector, !*noFallback)
	} else if name, ok := table.Classify(in.Deal.Sector, !*noFallback); ok {
		names = []string{name}
	}
	if len(names) == 0 {
		log.Fatalf("no expert handles sector %q (fallback disabled)", in.Deal.Sector)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	ec := deal.EnrichedContext{
		Deal:          in.Deal,
		DocumentText:  in.DocumentText,
		PriorFindings: in.PriorFindings,
		FundingDB:     in.FundingDB,
		FactBlock:     in.FactBlock,
	}
	results := make([]expert.Result, 0, len(names))
	for _, name := range names {
		log.Printf("running expert %s...", name)
		results = append(results, expert.Invoke(ctx, registry[name], ec))
	}

	markdown := report.BuildMarkdown(in.Deal, results)
	fmt.Print(markdown)

	if *pdfPath != "" {
		renderer := report.NewChromiumPDFRenderer()
		pdf, err := renderer.Render(ctx, markdown)
		if err != nil {
			log.Fatalf("render PDF: %v", err)
		}
		if err := os.WriteFile(*pdfPath, pdf, 0o644); err != nil {
			log.Fatal(err)
		}
		log.Printf("wrote %s", *pdfPath)
	}
}
