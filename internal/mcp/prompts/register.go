package prompts

import (
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

// Register registers all prompts with the MCP server.
func Register(srv *sdkmcp.Server, cfg *Config) {
	// Prompt 1: Tool usage guide
	srv.AddPrompt(&sdkmcp.Prompt{
		Name:        "qrz_guide",
		Description: "RECOMMENDED: Which QRZ tool to use for a question, how to keep outputs small, and what each error code means.",
	}, HandleBasePrompt(cfg))

	// Prompt 2: Research a contact
	srv.AddPrompt(&sdkmcp.Prompt{
		Name:        "research_contact",
		Description: "Research a station before or after a QSO: operator, location, zones, local time and QSL routes.",
		Arguments: []*sdkmcp.PromptArgument{
			{
				Name:        "callsign",
				Description: "Callsign of the station to research",
				Required:    false,
			},
			{
				Name:        "my_grid",
				Description: "Your Maidenhead grid square, for bearing and distance",
				Required:    false,
			},
		},
	}, HandleResearchContact(cfg))
}
