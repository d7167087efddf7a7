// Package mcpsrv provides an extensible MCP server for QRZ.com lookups.
//
// This package exposes a high-level API for creating and running an MCP server
// with all builtin QRZ tools, prompts, and resources. Users can extend the
// server with custom tools, prompts, and resources using functional options.
//
// # Basic Usage
//
// Create a server with default configuration:
//
//	c, err := client.New(os.Getenv("QRZ_USERNAME"), os.Getenv("QRZ_PASSWORD"), client.VersionCurrent)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	server, err := mcpsrv.NewServer(c)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	server.Run(ctx)
//
// # Extension
//
// Add custom tools using MCP SDK types directly:
//
//	import mcp "github.com/modelcontextprotocol/go-sdk/mcp"
//
//	type MyInput struct {
//	    Callsign string `json:"callsign"`
//	}
//
//	type MyOutput struct {
//	    Grid string `json:"grid"`
//	}
//
//	server, err := mcpsrv.NewServer(
//	    c,
//	    mcpsrv.WithDepsTool(&mcp.Tool{Name: "grid_of", Description: "Grid square of a callsign"}, gridOf),
//	)
//
// # Configuration
//
// Configure logging, session persistence and metrics:
//
//	m := metrics.New()
//	c, _ := cfg.NewClient(client.WithObserver(m))
//	server, err := mcpsrv.NewServer(
//	    c,
//	    mcpsrv.WithConfig(cfg),
//	    mcpsrv.WithMetrics(m),
//	    mcpsrv.WithSessionStore(sessionstore.New(cfg.SessionCacheDir)),
//	    mcpsrv.WithLogFile("/var/log/qrz-mcp.log"),
//	)
package mcpsrv
