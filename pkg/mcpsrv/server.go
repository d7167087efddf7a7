package mcpsrv

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/usestring/qrz-mcp/internal/cache"
	"github.com/usestring/qrz-mcp/internal/config"
	"github.com/usestring/qrz-mcp/internal/fetch"
	"github.com/usestring/qrz-mcp/internal/logging"
	"github.com/usestring/qrz-mcp/internal/mcp"
	"github.com/usestring/qrz-mcp/internal/mcp/tools"
	"github.com/usestring/qrz-mcp/internal/query"
	"github.com/usestring/qrz-mcp/pkg/client"
)

// Server is the QRZ MCP server.
// It wraps the internal implementation and provides extension points.
type Server struct {
	internal   *mcp.Server
	deps       *Deps
	cfg        *serverConfig
	logCleanup func() error
}

// NewServer creates a new MCP server with builtin QRZ tools.
//
// The client parameter is required and performs all QRZ requests.
// Use functional options to configure logging, add custom tools, etc.
func NewServer(c *client.Client, opts ...Option) (*Server, error) {
	if c == nil {
		return nil, fmt.Errorf("client is required")
	}

	// Build configuration from options
	cfg := &serverConfig{}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.config == nil {
		cfg.config = config.Load() // Load defaults from environment
	}

	// Setup logging
	logCfg := logging.Config{
		Level:      cfg.config.LogLevel,
		FilePath:   cfg.config.LogFile,
		MaxSizeMB:  cfg.config.LogMaxSizeMB,
		MaxBackups: cfg.config.LogMaxBackups,
		MaxAgeDays: cfg.config.LogMaxAgeDays,
		Compress:   cfg.config.LogCompress,
	}
	if cfg.logLevel != "" {
		logCfg.Level = cfg.logLevel
	}
	if cfg.logFile != "" {
		logCfg.FilePath = cfg.logFile
	}
	logCleanup, err := logging.Setup(logCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to setup logging: %w", err)
	}

	// Create infrastructure
	lookupCache := cache.NewLookupCache(cfg.config.LookupCacheMaxItems, cfg.config.LookupCacheTTL)
	fetcher := fetch.New(c, lookupCache)
	queryEngine := query.NewEngine()

	if cfg.sessions != nil {
		restoreSession(c, cfg)
	}

	// Create deps for internal tools and custom tools
	toolDeps := &tools.Deps{
		Client:   c,
		Fetcher:  fetcher,
		Cache:    lookupCache,
		Config:   cfg.config,
		Query:    queryEngine,
		Sessions: cfg.sessions,
	}

	// Create public deps (same values, different type for public API)
	deps := &Deps{
		Client:  c,
		Fetcher: fetcher,
		Cache:   lookupCache,
		Config:  cfg.config,
		Query:   queryEngine,
		Metrics: cfg.metrics,
	}

	// Build internal server options
	var internalOpts []mcp.ServerOption
	if !cfg.disableBuiltinTools {
		internalOpts = append(internalOpts, mcp.WithBuiltinTools())
	}
	if !cfg.disableBuiltinPrompts {
		internalOpts = append(internalOpts, mcp.WithBuiltinPrompts())
	}

	// Add custom extension registration callbacks
	for _, fn := range cfg.toolRegistrations {
		internalOpts = append(internalOpts, mcp.WithCustomRegistration(fn))
	}
	for _, fn := range cfg.promptRegistrations {
		internalOpts = append(internalOpts, mcp.WithCustomRegistration(fn))
	}
	for _, fn := range cfg.resourceRegistrations {
		internalOpts = append(internalOpts, mcp.WithCustomRegistration(fn))
	}

	// Add deferred tool registrations (tools that need Deps access)
	for _, fn := range cfg.deferredToolRegistrations {
		internalOpts = append(internalOpts, mcp.WithCustomRegistration(func(srv *sdkmcp.Server) {
			fn(srv, deps)
		}))
	}

	// Create internal server
	internal, err := mcp.NewServer(toolDeps, internalOpts...)
	if err != nil {
		_ = logCleanup()
		return nil, fmt.Errorf("failed to create server: %w", err)
	}

	return &Server{
		internal:   internal,
		deps:       deps,
		cfg:        cfg,
		logCleanup: logCleanup,
	}, nil
}

// Run starts the MCP server with stdio transport.
// The metrics endpoint, if configured, is served for the lifetime of Run.
// The server runs until the context is cancelled.
func (s *Server) Run(ctx context.Context) error {
	if s.cfg.metrics != nil && s.cfg.config.MetricsAddr != "" {
		stop := s.serveMetrics(s.cfg.config.MetricsAddr)
		defer stop()
	}
	defer s.saveSession()
	return s.internal.Run(ctx)
}

// Close cleans up server resources.
func (s *Server) Close() error {
	if s.logCleanup != nil {
		return s.logCleanup()
	}
	return nil
}

// Deps returns the dependencies for building custom tools.
func (s *Server) Deps() *Deps {
	return s.deps
}

// MCPServer returns the underlying MCP server, e.g. for in-memory transports.
func (s *Server) MCPServer() *sdkmcp.Server {
	return s.internal.MCPServer()
}

func (s *Server) serveMetrics(addr string) (stop func()) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", s.cfg.metrics.Handler())
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		slog.Info("serving metrics", slog.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("metrics server failed", slog.String("error", err.Error()))
		}
	}()

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	}
}

func restoreSession(c *client.Client, cfg *serverConfig) {
	info, ok, err := cfg.sessions.Load(c.Username())
	if err != nil {
		slog.Warn("failed to load saved session", slog.String("error", err.Error()))
		return
	}
	if ok {
		c.RestoreSession(info)
		slog.Debug("restored saved session", slog.Time("obtained_at", info.ObtainedAt))
	}
}

func (s *Server) saveSession() {
	if s.cfg.sessions == nil {
		return
	}
	info, ok := s.deps.Client.SessionInfo()
	if !ok {
		return
	}
	if err := s.cfg.sessions.Save(s.deps.Client.Username(), info); err != nil {
		slog.Warn("failed to save session", slog.String("error", err.Error()))
	}
}
