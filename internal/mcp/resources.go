package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/invopop/jsonschema"
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/usestring/qrz-mcp/internal/bulk"
	"github.com/usestring/qrz-mcp/internal/mcp/tools"
	"github.com/usestring/qrz-mcp/pkg/client"
)

// Resource URI scheme: qrz://
// Supported URIs:
//   qrz://callsign/{call}
//   qrz://dxcc/{entity}
//   qrz://biography/{call}
//   qrz://schema/{record}

// registerResources registers resource templates and handlers.
func (s *Server) registerResources() {
	s.mcpServer.AddResourceTemplate(&sdkmcp.ResourceTemplate{
		URITemplate: "qrz://callsign/{call}",
		Name:        "Callsign Record",
		Description: "Complete QRZ record of a callsign. The qrz_lookup_callsign tool returns the same record with derived fields; read this for a plain dump.",
		MIMEType:    tools.MimeJSON,
		Annotations: &sdkmcp.Annotations{
			Audience: []sdkmcp.Role{"assistant"},
			Priority: 0.6,
		},
	}, s.handleResourceCallsign)

	s.mcpServer.AddResourceTemplate(&sdkmcp.ResourceTemplate{
		URITemplate: "qrz://dxcc/{entity}",
		Name:        "DXCC Entity",
		Description: "DXCC entity record by entity number or callsign.",
		MIMEType:    tools.MimeJSON,
		Annotations: &sdkmcp.Annotations{
			Audience: []sdkmcp.Role{"assistant"},
			Priority: 0.5,
		},
	}, s.handleResourceDXCC)

	s.mcpServer.AddResourceTemplate(&sdkmcp.ResourceTemplate{
		URITemplate: "qrz://biography/{call}",
		Name:        "Biography Page",
		Description: "Raw HTML biography of a callsign. High context cost - qrz_lookup_biography already returns the plain text. Only fetch when the markup matters.",
		MIMEType:    "text/html",
		Annotations: &sdkmcp.Annotations{
			Audience: []sdkmcp.Role{"assistant"},
			Priority: 0.2,
		},
	}, s.handleResourceBiography)

	s.mcpServer.AddResourceTemplate(&sdkmcp.ResourceTemplate{
		URITemplate: "qrz://schema/{record}",
		Name:        "Record Schema",
		Description: "JSON Schema of a record type: callsign, dxcc, biography, session or bulk. Useful for writing jq projections.",
		MIMEType:    tools.MimeJSON,
		Annotations: &sdkmcp.Annotations{
			Audience: []sdkmcp.Role{"assistant"},
			Priority: 0.3,
		},
	}, s.handleResourceSchema)
}

// Resource handlers

func (s *Server) handleResourceCallsign(ctx context.Context, req *sdkmcp.ReadResourceRequest) (*sdkmcp.ReadResourceResult, error) {
	params, err := parseResourceURI(req.Params.URI)
	if err != nil {
		return nil, err
	}

	rec, err := s.deps.Fetcher.Callsign(ctx, params["call"], false)
	if err != nil {
		return nil, tools.WrapQRZError(err)
	}
	return toResourceResult(req.Params.URI, rec)
}

func (s *Server) handleResourceDXCC(ctx context.Context, req *sdkmcp.ReadResourceRequest) (*sdkmcp.ReadResourceResult, error) {
	params, err := parseResourceURI(req.Params.URI)
	if err != nil {
		return nil, err
	}

	rec, err := s.deps.Fetcher.DXCC(ctx, params["entity"], false)
	if err != nil {
		return nil, tools.WrapQRZError(err)
	}
	return toResourceResult(req.Params.URI, rec)
}

func (s *Server) handleResourceBiography(ctx context.Context, req *sdkmcp.ReadResourceRequest) (*sdkmcp.ReadResourceResult, error) {
	params, err := parseResourceURI(req.Params.URI)
	if err != nil {
		return nil, err
	}

	bio, err := s.deps.Fetcher.Biography(ctx, params["call"], false)
	if err != nil {
		return nil, tools.WrapQRZError(err)
	}
	if bio.IsEmpty() {
		return nil, tools.ErrNotFound("biography", bio.Callsign)
	}

	return &sdkmcp.ReadResourceResult{
		Contents: []*sdkmcp.ResourceContents{
			{
				URI:      req.Params.URI,
				MIMEType: "text/html",
				Text:     bio.HTML,
			},
		},
	}, nil
}

// recordTypes maps schema resource names to example values for reflection.
var recordTypes = map[string]any{
	client.RecordCallsign:  &client.Callsign{},
	client.RecordDXCC:      &client.DXCC{},
	client.RecordBiography: &client.Biography{},
	client.RecordSession:   &tools.SessionInfoOutput{},
	"bulk":                 &bulk.Report{},
}

func (s *Server) handleResourceSchema(ctx context.Context, req *sdkmcp.ReadResourceRequest) (*sdkmcp.ReadResourceResult, error) {
	params, err := parseResourceURI(req.Params.URI)
	if err != nil {
		return nil, err
	}

	v, ok := recordTypes[params["record"]]
	if !ok {
		return nil, tools.ErrNotFound("record type", params["record"])
	}

	r := &jsonschema.Reflector{
		ExpandedStruct: true,
		DoNotReference: true,
	}
	return toResourceResult(req.Params.URI, r.Reflect(v))
}

// Helper functions

// parseResourceURI extracts parameters from a qrz:// URI.
func parseResourceURI(uri string) (map[string]string, error) {
	if !strings.HasPrefix(uri, "qrz://") {
		return nil, tools.ErrInvalidInput("invalid URI scheme: expected qrz://")
	}

	path := strings.TrimPrefix(uri, "qrz://")
	parts := strings.Split(path, "/")
	if len(parts) < 2 || parts[1] == "" {
		return nil, tools.ErrInvalidInput(fmt.Sprintf("resource URI requires a type and a key: %s", uri))
	}

	// Portable callsigns such as DL/AA7BQ arrive escaped or as extra segments.
	key, err := url.PathUnescape(strings.Join(parts[1:], "/"))
	if err != nil {
		return nil, tools.ErrInvalidInput(fmt.Sprintf("invalid resource key: %v", err))
	}

	params := make(map[string]string)
	switch resourceType := parts[0]; resourceType {
	case "callsign", "biography":
		params["call"] = key
	case "dxcc":
		params["entity"] = key
	case "schema":
		params["record"] = key
	default:
		return nil, tools.ErrInvalidInput(fmt.Sprintf("unknown resource type: %s", resourceType))
	}

	return params, nil
}

// toResourceResult serializes content to a ReadResourceResult.
func toResourceResult(uri string, content any) (*sdkmcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(content, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("serializing resource: %w", err)
	}

	return &sdkmcp.ReadResourceResult{
		Contents: []*sdkmcp.ResourceContents{
			{
				URI:      uri,
				MIMEType: tools.MimeJSON,
				Text:     string(data),
			},
		},
	}, nil
}
