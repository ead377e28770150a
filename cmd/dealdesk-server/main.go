package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/joelkehle/dealdesk-agency/internal/expert"
	"github.com/joelkehle/dealdesk-agency/internal/httpapi"
	"github.com/joelkehle/dealdesk-agency/internal/sectors"
	"github.com/joelkehle/dealdesk-agency/internal/store"
	"github.com/joelkehle/dealdesk-agency/internal/telemetry"
)

func main() {
	_ = godotenv.Load()

	addr := flag.String("addr", ":8080", "HTTP listen address")
	dbPath := flag.String("db", "dealdesk.db", "SQLite database path")
	flag.Parse()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	shutdownTracing, err := telemetry.Setup(ctx, "dealdesk-server")
	if err != nil {
		log.Fatal(err)
	}
	defer func() {
		flushCtx, flushCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer flushCancel()
		_ = shutdownTracing(flushCtx)
	}()

	caller, err := expert.NewAnthropicCallerFromEnv()
	if err != nil {
		log.Fatal(err)
	}
	st, err := store.Open(*dbPath)
	if err != nil {
		log.Fatal(err)
	}
	defer st.Close()

	handler := httpapi.NewServer(sectors.NewTable(), sectors.NewRegistry(caller), st)
	srv := &http.Server{Addr: *addr, Handler: handler}

	go func() {
		<-ctx.Done()
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	log.Printf("dealdesk server listening on %s (db=%s)", *addr, *dbPath)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal(err)
	}
}
