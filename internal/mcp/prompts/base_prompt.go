package prompts

import (
	"context"
	"fmt"
	"strings"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

// HandleBasePrompt serves the tool usage guide.
func HandleBasePrompt(cfg *Config) func(ctx context.Context, req *sdkmcp.GetPromptRequest) (*sdkmcp.GetPromptResult, error) {
	return func(ctx context.Context, req *sdkmcp.GetPromptRequest) (*sdkmcp.GetPromptResult, error) {
		var sb strings.Builder

		sb.WriteString("# QRZ Lookup Guide\n\n")

		sb.WriteString("## Which Tool\n\n")
		sb.WriteString("| Goal | Tool | Example |\n")
		sb.WriteString("|------|------|--------|\n")
		sb.WriteString("| Operator name, address, grid, QSL info | `qrz_lookup_callsign` | `callsign: \"AA7BQ\"` |\n")
		sb.WriteString("| Country, zones, UTC offset of an entity | `qrz_lookup_dxcc` | `entity: \"291\"` or `entity: \"DL1ABC\"` |\n")
		sb.WriteString("| Every DXCC entity | `qrz_lookup_dxcc` | `entity: \"all\", jq: \".[].name\"` |\n")
		sb.WriteString("| Free-form profile text | `qrz_lookup_biography` | `callsign: \"AA7BQ\"` |\n")
		sb.WriteString("| A log of many calls | `qrz_bulk_lookup` | `callsigns: [\"AA7BQ\", \"K1ABC\"]` |\n")
		sb.WriteString("| Subscription state, lookup count | `qrz_session_info` | `login: true` |\n")

		sb.WriteString("\n**Key rules**:\n")
		sb.WriteString("- Records are cached; pass `refresh: true` only when the operator may have just edited their page\n")
		sb.WriteString("- Use `jq` to keep only the fields you need, e.g. `{call, grid, country}`\n")
		sb.WriteString(fmt.Sprintf("- `qrz_bulk_lookup` accepts at most %d callsigns and paces requests at %.1f per second\n",
			cfg.MaxBulkCallsigns, cfg.BulkRatePerSec))
		sb.WriteString("- Portable calls such as `DL/AA7BQ` are valid; QRZ may return the home record\n")

		sb.WriteString("\n## Errors\n")
		sb.WriteString("- `NOT_FOUND`: the callsign or entity does not exist; do not retry\n")
		sb.WriteString("- `SUBSCRIPTION_REQUIRED`: the account lacks an XML subscription; only basic fields are available\n")
		sb.WriteString("- `AUTH_FAILED`: credentials are wrong; ask the user to fix QRZ_USERNAME / QRZ_PASSWORD\n")
		sb.WriteString("- `RATE_LIMITED`, `TIMEOUT`: wait before retrying\n")
		sb.WriteString("- Session expiry is handled for you; call `qrz_reauthenticate` only after repeated session errors\n")

		return &sdkmcp.GetPromptResult{
			Description: "Guide for efficient QRZ tool usage",
			Messages: []*sdkmcp.PromptMessage{
				{
					Role:    "user",
					Content: &sdkmcp.TextContent{Text: sb.String()},
				},
			},
		}, nil
	}
}
