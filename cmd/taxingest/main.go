// Command taxingest runs the tax-law ingestion service: a weekly
// scheduler plus an HTTP trigger surface, with optional MCP stdio
// transport for agent-driven runs.
package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/saxtech/taxingest/blobstore"
	"github.com/saxtech/taxingest/fetch"
	"github.com/saxtech/taxingest/ingest"
	"github.com/saxtech/taxingest/searchidx"
	"github.com/saxtech/taxingest/state"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to YAML config")
	flag.Parse()

	cfg, err := ingest.LoadConfig(*configPath)
	if err != nil {
		slog.Error("load config", "error", err)
		os.Exit(1)
	}

	var lvl slog.Level
	switch cfg.LogLevel {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lvl}))
	slog.SetDefault(logger)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	store, err := state.Open(cfg.StateDB)
	if err != nil {
		slog.Error("open state db", "error", err)
		os.Exit(1)
	}
	defer store.Close()

	blob, err := blobstore.New(ctx, cfg.Blob)
	if err != nil {
		slog.Error("blob store", "error", err)
		os.Exit(1)
	}

	var trigger ingest.IndexTrigger
	if cfg.Search.Indexer != "" {
		trigger = searchidx.New(cfg.Search.Endpoint, cfg.Search.APIKey)
	}

	fetcher := fetch.New(fetch.Config{
		USCBase:  cfg.USCBase,
		ECFRBase: cfg.ECFRBase,
	})

	svc := ingest.NewService(fetcher, blob, trigger, store, ingest.Options{
		Title:        cfg.Title,
		IndexerName:  cfg.Search.Indexer,
		ChunkTarget:  cfg.ChunkTarget,
		ChunkOverlap: cfg.ChunkOverlap,
		Logger:       logger,
	})

	interval, err := cfg.ScheduleInterval()
	if err != nil {
		slog.Error("schedule", "error", err)
		os.Exit(1)
	}
	if interval > 0 {
		go svc.RunEvery(ctx, interval)
	}

	if cfg.MCPTransport == "stdio" {
		srv := mcp.NewServer(&mcp.Implementation{Name: "taxingest", Version: "1.0.0"}, nil)
		svc.RegisterMCP(srv)
		go func() {
			if err := srv.Run(ctx, &mcp.StdioTransport{}); err != nil {
				slog.Error("mcp stdio", "error", err)
			}
		}()
	}

	httpSrv := &http.Server{
		Addr:              cfg.Listen,
		Handler:           svc.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		slog.Info("http listening", "addr", cfg.Listen)
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("http server", "error", err)
			cancel()
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		slog.Error("http shutdown", "error", err)
	}
}
