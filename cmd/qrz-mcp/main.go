// Command qrz-mcp serves QRZ.com callsign and DXCC lookups to MCP clients
// over stdio.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/usestring/qrz-mcp/internal/config"
	"github.com/usestring/qrz-mcp/internal/metrics"
	"github.com/usestring/qrz-mcp/internal/sessionstore"
	"github.com/usestring/qrz-mcp/pkg/client"
	"github.com/usestring/qrz-mcp/pkg/mcpsrv"
)

func main() {
	// Set up context with signal handling
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// Configuration is loaded from environment variables:
	// - QRZ_USERNAME, QRZ_PASSWORD: account credentials (required)
	// - QRZ_API_VERSION: current, legacy, or e.g. 1.34 (default: current)
	// - LOG_LEVEL, LOG_FILE: logging (default: info, stderr only)
	// - METRICS_ADDR: Prometheus listen address (default: disabled)
	// - etc. (see internal/config for all options)
	cfg := config.Load()

	m := metrics.New()
	qrzClient, err := cfg.NewClient(client.WithObserver(m))
	if err != nil {
		slog.Error("failed to create QRZ client", "error", err)
		os.Exit(1)
	}

	opts := []mcpsrv.Option{
		mcpsrv.WithConfig(cfg),
		mcpsrv.WithMetrics(m),
	}
	if cfg.SessionCacheDir != "" {
		opts = append(opts, mcpsrv.WithSessionStore(sessionstore.New(cfg.SessionCacheDir)))
	}

	server, err := mcpsrv.NewServer(qrzClient, opts...)
	if err != nil {
		slog.Error("failed to create MCP server", "error", err)
		os.Exit(1)
	}
	defer server.Close()

	// Run the server with stdio transport
	slog.Info("starting QRZ MCP server on stdio", "api_version", string(qrzClient.APIVersion()))
	if err := server.Run(ctx); err != nil && err != context.Canceled {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped")
}
