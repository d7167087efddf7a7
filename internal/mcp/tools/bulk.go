package tools

import (
	"context"
	"fmt"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/usestring/qrz-mcp/internal/bulk"
	"github.com/usestring/qrz-mcp/internal/config"
	"github.com/usestring/qrz-mcp/internal/query"
	"github.com/usestring/qrz-mcp/pkg/client"
)

// BulkLookupInput is the input for qrz_bulk_lookup.
type BulkLookupInput struct {
	Callsigns []string `json:"callsigns" jsonschema:"required,Callsigns to look up (duplicates are looked up once)"`
	JQ        string   `json:"jq,omitempty" jsonschema:"Optional jq expression applied to the result list, e.g. .[] | select(.outcome == \"found\") | .record.grid"`
}

// BulkLookupOutput is the output for qrz_bulk_lookup.
type BulkLookupOutput struct {
	Results    []bulk.Result `json:"results,omitzero"`
	Stats      bulk.Stats    `json:"stats"`
	Projection *query.Result `json:"projection,omitempty"`
}

// ToolBulkLookup looks up many callsigns with bounded concurrency.
func ToolBulkLookup(d *Deps) func(ctx context.Context, req *sdkmcp.CallToolRequest, input BulkLookupInput) (*sdkmcp.CallToolResult, BulkLookupOutput, error) {
	return func(ctx context.Context, req *sdkmcp.CallToolRequest, input BulkLookupInput) (*sdkmcp.CallToolResult, BulkLookupOutput, error) {
		if len(input.Callsigns) == 0 {
			return nil, BulkLookupOutput{}, ErrInvalidInput("callsigns must not be empty")
		}
		if len(input.Callsigns) > config.MaxBulkCallsigns {
			return nil, BulkLookupOutput{}, ErrInvalidInput(fmt.Sprintf("at most %d callsigns per request", config.MaxBulkCallsigns))
		}
		if err := checkJQ(d, input.JQ); err != nil {
			return nil, BulkLookupOutput{}, err
		}

		lookup := func(ctx context.Context, call string) (*client.Callsign, error) {
			return d.Fetcher.Callsign(ctx, call, false)
		}
		report, err := bulk.Run(ctx, lookup, input.Callsigns, bulk.Options{
			Workers:    d.Config.BulkWorkers,
			RatePerSec: d.Config.BulkRatePerSec,
		})
		if err != nil {
			return nil, BulkLookupOutput{}, WrapQRZError(err)
		}

		output := BulkLookupOutput{Results: report.Results, Stats: report.Stats}
		if output.Projection, err = project(d, report.Results, input.JQ); err != nil {
			return nil, BulkLookupOutput{}, err
		}
		return nil, output, nil
	}
}
