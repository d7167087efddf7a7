package tools

import (
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

// Register registers all tools with the MCP server.
func Register(srv *sdkmcp.Server, d *Deps) {
	// Tool 1: qrz_lookup_callsign
	AddTool(srv, &sdkmcp.Tool{
		Name:        "qrz_lookup_callsign",
		Description: "Look up an amateur radio callsign on QRZ.com. Returns the operator record (name, address, grid, license class, QSL preferences) plus derived location. Set jq to project fields from the record.",
	}, ToolLookupCallsign(d))

	// Tool 2: qrz_lookup_dxcc
	AddTool(srv, &sdkmcp.Tool{
		Name:        "qrz_lookup_dxcc",
		Description: "Look up a DXCC entity by number, resolve the entity of a callsign, or list every entity with entity='all'. Returns zones, continent, coordinates and UTC offset.",
	}, ToolLookupDXCC(d))

	// Tool 3: qrz_lookup_biography
	AddTool(srv, &sdkmcp.Tool{
		Name:        "qrz_lookup_biography",
		Description: "Fetch the biography page of a callsign as plain text (default) or HTML, with the links it contains.",
	}, ToolLookupBiography(d))

	// Tool 4: qrz_bulk_lookup
	AddTool(srv, &sdkmcp.Tool{
		Name:        "qrz_bulk_lookup",
		Description: "Look up many callsigns at once with rate limiting. Returns per-callsign outcomes (found, not_found, subscription_required, invalid, failed) and totals.",
	}, ToolBulkLookup(d))

	// Tool 5: qrz_session_info
	AddTool(srv, &sdkmcp.Tool{
		Name:        "qrz_session_info",
		Description: "Report the QRZ session state: whether logged in, subscription expiry, lookup count and API endpoint. Never returns the session key.",
	}, ToolSessionInfo(d))

	// Tool 6: qrz_reauthenticate
	AddTool(srv, &sdkmcp.Tool{
		Name:        "qrz_reauthenticate",
		Description: "Discard the cached QRZ session and log in again. Use after credential changes or repeated session errors.",
	}, ToolReauthenticate(d))
}
