package tools

import (
	"context"
	"strings"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/usestring/qrz-mcp/internal/query"
	"github.com/usestring/qrz-mcp/pkg/client"
	"github.com/usestring/qrz-mcp/pkg/textquery"
)

// LookupCallsignInput is the input for qrz_lookup_callsign.
type LookupCallsignInput struct {
	Callsign string `json:"callsign" jsonschema:"required,Callsign to look up, e.g. AA7BQ or DL/AA7BQ"`
	Refresh  bool   `json:"refresh,omitempty" jsonschema:"Bypass the lookup cache (default: false)"`
	JQ       string `json:"jq,omitempty" jsonschema:"Optional jq expression applied to the record, e.g. {call, grid}"`
}

// LookupCallsignOutput is the output for qrz_lookup_callsign.
type LookupCallsignOutput struct {
	Record     *client.Callsign `json:"record,omitempty"`
	Summary    string           `json:"summary"`
	FullName   string           `json:"full_name,omitempty"`
	Location   *Location        `json:"location,omitempty"`
	QSL        QSLPreferences   `json:"qsl"`
	Projection *query.Result    `json:"projection,omitempty"`
}

// ToolLookupCallsign looks up a callsign record.
func ToolLookupCallsign(d *Deps) func(ctx context.Context, req *sdkmcp.CallToolRequest, input LookupCallsignInput) (*sdkmcp.CallToolResult, LookupCallsignOutput, error) {
	return func(ctx context.Context, req *sdkmcp.CallToolRequest, input LookupCallsignInput) (*sdkmcp.CallToolResult, LookupCallsignOutput, error) {
		if strings.TrimSpace(input.Callsign) == "" {
			return nil, LookupCallsignOutput{}, ErrInvalidInput("callsign is required")
		}
		if err := checkJQ(d, input.JQ); err != nil {
			return nil, LookupCallsignOutput{}, err
		}

		rec, err := d.Fetcher.Callsign(ctx, input.Callsign, input.Refresh)
		if err != nil {
			return nil, LookupCallsignOutput{}, WrapQRZError(err)
		}

		output := LookupCallsignOutput{
			Record:   rec,
			Summary:  rec.String(),
			FullName: rec.FullName(),
			Location: callsignLocation(rec),
			QSL:      qslPreferences(rec),
		}
		if output.Projection, err = project(d, rec, input.JQ); err != nil {
			return nil, LookupCallsignOutput{}, err
		}
		return nil, output, nil
	}
}

// LookupDXCCInput is the input for qrz_lookup_dxcc.
type LookupDXCCInput struct {
	Entity  string `json:"entity" jsonschema:"required,DXCC entity number (e.g. 291), a callsign to resolve, or 'all' for every entity"`
	Refresh bool   `json:"refresh,omitempty" jsonschema:"Bypass the lookup cache (default: false)"`
	JQ      string `json:"jq,omitempty" jsonschema:"Optional jq expression applied to the entity list, e.g. .[] | select(.continent == \"EU\") | .name"`
}

// DXCCEntity is a DXCC record with derived fields.
type DXCCEntity struct {
	Record         client.DXCC `json:"record"`
	Summary        string      `json:"summary"`
	UTCOffsetHours *float64    `json:"utc_offset_hours,omitempty"`
}

// LookupDXCCOutput is the output for qrz_lookup_dxcc.
type LookupDXCCOutput struct {
	Entities   []DXCCEntity  `json:"entities,omitzero"`
	Count      int           `json:"count"`
	Projection *query.Result `json:"projection,omitempty"`
}

// ToolLookupDXCC looks up DXCC entity information.
func ToolLookupDXCC(d *Deps) func(ctx context.Context, req *sdkmcp.CallToolRequest, input LookupDXCCInput) (*sdkmcp.CallToolResult, LookupDXCCOutput, error) {
	return func(ctx context.Context, req *sdkmcp.CallToolRequest, input LookupDXCCInput) (*sdkmcp.CallToolResult, LookupDXCCOutput, error) {
		entity := strings.TrimSpace(input.Entity)
		if entity == "" {
			return nil, LookupDXCCOutput{}, ErrInvalidInput("entity is required")
		}
		if err := checkJQ(d, input.JQ); err != nil {
			return nil, LookupDXCCOutput{}, err
		}

		var records []client.DXCC
		if strings.EqualFold(entity, "all") {
			all, err := d.Client.LookupAllDXCC(ctx)
			if err != nil {
				return nil, LookupDXCCOutput{}, WrapQRZError(err)
			}
			records = all
		} else {
			rec, err := d.Fetcher.DXCC(ctx, entity, input.Refresh)
			if err != nil {
				return nil, LookupDXCCOutput{}, WrapQRZError(err)
			}
			records = []client.DXCC{*rec}
		}

		output := LookupDXCCOutput{
			Entities: make([]DXCCEntity, len(records)),
			Count:    len(records),
		}
		for i := range records {
			e := DXCCEntity{Record: records[i], Summary: records[i].String()}
			if hours, ok := records[i].TimezoneHours(); ok {
				e.UTCOffsetHours = &hours
			}
			output.Entities[i] = e
		}

		var err error
		if output.Projection, err = project(d, records, input.JQ); err != nil {
			return nil, LookupDXCCOutput{}, err
		}
		return nil, output, nil
	}
}

// LookupBiographyInput is the input for qrz_lookup_biography.
type LookupBiographyInput struct {
	Callsign string `json:"callsign" jsonschema:"required,Callsign whose biography page to fetch"`
	Format   string `json:"format,omitempty" jsonschema:"Output format: text, html, or both (default: text)"`
	Refresh  bool   `json:"refresh,omitempty" jsonschema:"Bypass the lookup cache (default: false)"`
	Select   string `json:"select,omitempty" jsonschema:"Optional expression extracting parts of the page, e.g. a[href] or //img/@src"`
	Mode     string `json:"mode,omitempty" jsonschema:"Mode of select: css, xpath, or regex (default: detected from the expression)"`
}

// LookupBiographyOutput is the output for qrz_lookup_biography.
type LookupBiographyOutput struct {
	Callsign string            `json:"callsign"`
	Empty    bool              `json:"empty"`
	Text     string            `json:"text,omitempty"`
	HTML     string            `json:"html,omitempty"`
	Links    []string          `json:"links,omitzero"`
	Matches  *textquery.Result `json:"matches,omitempty"`
}

// ToolLookupBiography fetches the biography page of a callsign.
func ToolLookupBiography(d *Deps) func(ctx context.Context, req *sdkmcp.CallToolRequest, input LookupBiographyInput) (*sdkmcp.CallToolResult, LookupBiographyOutput, error) {
	return func(ctx context.Context, req *sdkmcp.CallToolRequest, input LookupBiographyInput) (*sdkmcp.CallToolResult, LookupBiographyOutput, error) {
		if strings.TrimSpace(input.Callsign) == "" {
			return nil, LookupBiographyOutput{}, ErrInvalidInput("callsign is required")
		}
		format := input.Format
		if format == "" {
			format = "text"
		}
		if format != "text" && format != "html" && format != "both" {
			return nil, LookupBiographyOutput{}, ErrInvalidInput("format must be 'text', 'html', or 'both'")
		}
		mode := input.Mode
		if input.Select != "" {
			if mode == "" {
				mode = textquery.DetectMode(input.Select)
			}
			if err := textquery.Validate(input.Select, mode); err != nil {
				return nil, LookupBiographyOutput{}, ErrInvalidInput(err.Error())
			}
		}

		bio, err := d.Fetcher.Biography(ctx, input.Callsign, input.Refresh)
		if err != nil {
			return nil, LookupBiographyOutput{}, WrapQRZError(err)
		}

		output := LookupBiographyOutput{
			Callsign: bio.Callsign,
			Empty:    bio.IsEmpty(),
		}
		if output.Empty {
			return nil, output, nil
		}
		if format != "html" {
			output.Text = bio.Text()
		}
		if format != "text" {
			output.HTML = bio.HTML
		}
		output.Links = bio.Links()
		if input.Select != "" {
			if output.Matches, err = textquery.Query(bio.HTML, input.Select, mode, 0); err != nil {
				return nil, LookupBiographyOutput{}, ErrInvalidInput(err.Error())
			}
		}
		return nil, output, nil
	}
}
