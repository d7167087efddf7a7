package mcpsrv

import (
	"github.com/usestring/qrz-mcp/internal/cache"
	"github.com/usestring/qrz-mcp/internal/config"
	"github.com/usestring/qrz-mcp/internal/fetch"
	"github.com/usestring/qrz-mcp/internal/metrics"
	"github.com/usestring/qrz-mcp/internal/query"
	"github.com/usestring/qrz-mcp/pkg/client"
)

// Deps contains all dependencies available to custom tools.
// This gives custom tools access to the same infrastructure as builtin tools.
type Deps struct {
	Client  *client.Client
	Fetcher *fetch.Fetcher
	Cache   *cache.LookupCache
	Config  *config.Config
	Query   *query.Engine
	Metrics *metrics.Metrics // nil unless WithMetrics was given
}
