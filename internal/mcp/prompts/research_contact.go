package prompts

import (
	"context"
	"fmt"
	"strings"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

// HandleResearchContact guides preparing for or confirming a contact.
func HandleResearchContact(cfg *Config) func(ctx context.Context, req *sdkmcp.GetPromptRequest) (*sdkmcp.GetPromptResult, error) {
	return func(ctx context.Context, req *sdkmcp.GetPromptRequest) (*sdkmcp.GetPromptResult, error) {
		args := req.Params.Arguments

		callsign := ""
		myGrid := ""
		if args != nil {
			if v, ok := args["callsign"]; ok {
				callsign = strings.ToUpper(strings.TrimSpace(v))
			}
			if v, ok := args["my_grid"]; ok {
				myGrid = strings.TrimSpace(v)
			}
		}

		var sb strings.Builder

		sb.WriteString("# Research a Contact\n\n")
		sb.WriteString("You are an experienced amateur radio operator helping to prepare for, or confirm, a contact. ")
		sb.WriteString("Use the QRZ tools to gather facts; never invent operator details.\n\n")

		sb.WriteString("## Workflow\n\n")
		if callsign != "" {
			sb.WriteString(fmt.Sprintf("1. `qrz_lookup_callsign(callsign: %q)` for name, location, grid and QSL preferences\n", callsign))
			sb.WriteString(fmt.Sprintf("2. `qrz_lookup_dxcc(entity: %q)` for continent, CQ/ITU zones and UTC offset\n", callsign))
			sb.WriteString(fmt.Sprintf("3. `qrz_lookup_biography(callsign: %q)` only if station details (rig, antennas, schedules) are needed\n", callsign))
		} else {
			sb.WriteString("1. Ask which callsign to research, then `qrz_lookup_callsign` for name, location, grid and QSL preferences\n")
			sb.WriteString("2. `qrz_lookup_dxcc` with the same callsign for continent, CQ/ITU zones and UTC offset\n")
			sb.WriteString("3. `qrz_lookup_biography` only if station details (rig, antennas, schedules) are needed\n")
		}
		sb.WriteString("\n")

		sb.WriteString("## Report\n\n")
		sb.WriteString("- Operator name and QTH (city, state or country)\n")
		sb.WriteString("- Grid square and DXCC entity with zones\n")
		sb.WriteString("- Local time at the station, from `utc_offset_hours`\n")
		sb.WriteString("- QSL routes: LoTW, eQSL, paper (direct or via manager)\n")
		if myGrid != "" {
			sb.WriteString(fmt.Sprintf("- Approximate bearing and distance from %s to the station grid\n", myGrid))
		}
		sb.WriteString("\n")

		sb.WriteString("## Log Checks\n\n")
		sb.WriteString(fmt.Sprintf("To verify many logged calls at once, use `qrz_bulk_lookup` (up to %d per request) ", cfg.MaxBulkCallsigns))
		sb.WriteString("and report calls with outcome `not_found` or `invalid` as likely busted.\n")

		return &sdkmcp.GetPromptResult{
			Description: "Guide for researching a contact",
			Messages: []*sdkmcp.PromptMessage{
				{
					Role:    "user",
					Content: &sdkmcp.TextContent{Text: sb.String()},
				},
			},
		}, nil
	}
}
