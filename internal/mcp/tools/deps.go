package tools

import (
	"log/slog"

	"github.com/usestring/qrz-mcp/internal/cache"
	"github.com/usestring/qrz-mcp/internal/config"
	"github.com/usestring/qrz-mcp/internal/fetch"
	"github.com/usestring/qrz-mcp/internal/query"
	"github.com/usestring/qrz-mcp/internal/sessionstore"
	"github.com/usestring/qrz-mcp/pkg/client"
)

// Deps contains all dependencies needed by tool handlers.
type Deps struct {
	Client  *client.Client
	Fetcher *fetch.Fetcher
	Cache   *cache.LookupCache
	Config  *config.Config
	Query   *query.Engine

	// Sessions persists the session token after a forced re-login. Nil
	// disables persistence.
	Sessions *sessionstore.Store
}

// persistSession saves the current session token, if a store is configured.
func (d *Deps) persistSession() {
	if d.Sessions == nil {
		return
	}
	info, ok := d.Client.SessionInfo()
	if !ok {
		return
	}
	if err := d.Sessions.Save(d.Client.Username(), info); err != nil {
		slog.Warn("failed to save session", slog.String("error", err.Error()))
	}
}
