// Package command provides the command definitions of the qrz CLI.
//
// It uses urfave/cli/v2 for command parsing. Credentials and the API
// version come from flags or the QRZ_* environment variables; the session
// token is cached on disk between runs unless --no-session-cache is given.
package command

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/usestring/qrz-mcp/internal/config"
	"github.com/usestring/qrz-mcp/internal/logging"
	"github.com/usestring/qrz-mcp/internal/query"
	"github.com/usestring/qrz-mcp/internal/sessionstore"
	"github.com/usestring/qrz-mcp/pkg/client"
)

// Build information, set via ldflags.
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
)

const runtimeKey = "runtime"

// App creates the CLI application.
func App() *cli.App {
	return &cli.App{
		Name:    "qrz",
		Usage:   "Look up amateur radio callsigns and DXCC entities on QRZ.com",
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildTime),
		Flags:   globalFlags(),
		Commands: []*cli.Command{
			LookupCommand(),
			DXCCCommand(),
			BioCommand(),
			BulkCommand(),
			SessionCommand(),
		},
		Before: before,
		After:  after,
	}
}

// globalFlags returns the global CLI flags.
func globalFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "username",
			Aliases: []string{"u"},
			Usage:   "QRZ.com username",
			EnvVars: []string{"QRZ_USERNAME"},
		},
		&cli.StringFlag{
			Name:    "password",
			Usage:   "QRZ.com password (prefer the environment variable)",
			EnvVars: []string{"QRZ_PASSWORD"},
		},
		&cli.StringFlag{
			Name:    "api-version",
			Usage:   "XML API version: current, legacy, or a number such as 1.34",
			EnvVars: []string{"QRZ_API_VERSION"},
		},
		&cli.StringFlag{
			Name:    "base-url",
			Usage:   "XML API base URL",
			EnvVars: []string{"QRZ_BASE_URL"},
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "Output format: text, json",
			Value:   "text",
		},
		&cli.StringFlag{
			Name:  "jq",
			Usage: "jq expression applied to the JSON result; prints one value per line",
		},
		&cli.StringFlag{
			Name:    "session-dir",
			Usage:   "Directory of the cached session token",
			EnvVars: []string{"SESSION_CACHE_DIR"},
		},
		&cli.BoolFlag{
			Name:  "no-session-cache",
			Usage: "Neither read nor write the cached session token",
		},
		&cli.BoolFlag{
			Name:    "verbose",
			Aliases: []string{"V"},
			Usage:   "Enable debug logging on stderr",
		},
	}
}

// runtime is the per-invocation state shared by commands.
type runtime struct {
	cfg     *config.Config
	out     io.Writer
	format  string
	jq      string
	store   *sessionstore.Store
	query   *query.Engine
	client  *client.Client
	cleanup func() error
}

func before(c *cli.Context) error {
	cfg := config.Load()
	overrides := map[string]*string{
		"username":    &cfg.Username,
		"password":    &cfg.Password,
		"api-version": &cfg.APIVersion,
		"base-url":    &cfg.BaseURL,
		"session-dir": &cfg.SessionCacheDir,
	}
	for name, field := range overrides {
		if v := c.String(name); v != "" {
			*field = v
		}
	}

	format := c.String("output")
	if format != "text" && format != "json" {
		return fmt.Errorf("unknown output format %q (want text or json)", format)
	}

	level := "warn"
	if c.Bool("verbose") {
		level = "debug"
	}
	cleanup, err := logging.Setup(logging.Config{
		Level:      level,
		FilePath:   cfg.LogFile,
		MaxSizeMB:  cfg.LogMaxSizeMB,
		MaxBackups: cfg.LogMaxBackups,
		MaxAgeDays: cfg.LogMaxAgeDays,
		Compress:   cfg.LogCompress,
	})
	if err != nil {
		return fmt.Errorf("failed to setup logging: %w", err)
	}

	rt := &runtime{
		cfg:     cfg,
		out:     c.App.Writer,
		format:  format,
		jq:      c.String("jq"),
		query:   query.NewEngine(),
		cleanup: cleanup,
	}
	if rt.out == nil {
		rt.out = os.Stdout
	}
	if !c.Bool("no-session-cache") && cfg.SessionCacheDir != "" {
		rt.store = sessionstore.New(cfg.SessionCacheDir)
	}
	if rt.jq != "" {
		if err := rt.query.ValidateExpression(rt.jq); err != nil {
			return err
		}
	}
	c.App.Metadata[runtimeKey] = rt
	return nil
}

func after(c *cli.Context) error {
	rt := getRuntime(c)
	if rt == nil {
		return nil
	}
	rt.saveSession()
	if rt.cleanup != nil {
		return rt.cleanup()
	}
	return nil
}

func getRuntime(c *cli.Context) *runtime {
	if rt, ok := c.App.Metadata[runtimeKey].(*runtime); ok {
		return rt
	}
	return nil
}

// Client returns the QRZ client, creating it and restoring the cached
// session on first use.
func (rt *runtime) Client() (*client.Client, error) {
	if rt.client != nil {
		return rt.client, nil
	}
	c, err := rt.cfg.NewClient()
	if err != nil {
		if errors.Is(err, client.ErrMissingCredentials) {
			return nil, fmt.Errorf("%w: set --username and QRZ_PASSWORD", err)
		}
		return nil, err
	}
	if rt.store != nil {
		info, ok, err := rt.store.Load(c.Username())
		if err != nil {
			slog.Warn("failed to load saved session", slog.String("error", err.Error()))
		} else if ok {
			c.RestoreSession(info)
		}
	}
	rt.client = c
	return c, nil
}

func (rt *runtime) saveSession() {
	if rt.store == nil || rt.client == nil {
		return
	}
	info, ok := rt.client.SessionInfo()
	if !ok {
		return
	}
	if err := rt.store.Save(rt.client.Username(), info); err != nil {
		slog.Warn("failed to save session", slog.String("error", err.Error()))
	}
}

// requestContext bounds a single lookup, which may include a login and one
// retry after a session expiry.
func (rt *runtime) requestContext(c *cli.Context) (context.Context, context.CancelFunc) {
	timeout := rt.cfg.HTTPClientTimeout
	if timeout <= 0 {
		timeout = client.DefaultTimeout
	}
	return context.WithTimeout(c.Context, 4*timeout)
}
