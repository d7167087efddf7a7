package tools

import (
	"context"
	"time"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

// SessionInfoInput is the input for qrz_session_info.
type SessionInfoInput struct {
	Login bool `json:"login,omitempty" jsonschema:"Log in first if no session is cached (default: false)"`
}

// SessionInfoOutput describes the cached QRZ session. The session key is
// never included.
type SessionInfoOutput struct {
	Authenticated bool   `json:"authenticated"`
	Username      string `json:"username"`
	APIVersion    string `json:"api_version"`
	Endpoint      string `json:"endpoint"`

	Subscriber   bool   `json:"subscriber"`
	SubExp       string `json:"sub_exp,omitempty"`
	SubExpiresAt string `json:"sub_expires_at,omitempty"`
	LookupCount  *int   `json:"lookup_count,omitempty"`
	Message      string `json:"message,omitempty"`
	ServerTime   string `json:"server_time,omitempty"`
	ObtainedAt   string `json:"obtained_at,omitempty"`

	CachedRecords int `json:"cached_records"`
}

// ReauthenticateInput is the input for qrz_reauthenticate.
type ReauthenticateInput struct{}

// ToolSessionInfo reports the cached session state.
func ToolSessionInfo(d *Deps) func(ctx context.Context, req *sdkmcp.CallToolRequest, input SessionInfoInput) (*sdkmcp.CallToolResult, SessionInfoOutput, error) {
	return func(ctx context.Context, req *sdkmcp.CallToolRequest, input SessionInfoInput) (*sdkmcp.CallToolResult, SessionInfoOutput, error) {
		if input.Login && !d.Client.IsAuthenticated() {
			if err := d.Client.Authenticate(ctx); err != nil {
				return nil, SessionInfoOutput{}, WrapQRZError(err)
			}
			d.persistSession()
		}
		return nil, d.sessionInfo(), nil
	}
}

// ToolReauthenticate discards the cached session and logs in again.
func ToolReauthenticate(d *Deps) func(ctx context.Context, req *sdkmcp.CallToolRequest, input ReauthenticateInput) (*sdkmcp.CallToolResult, SessionInfoOutput, error) {
	return func(ctx context.Context, req *sdkmcp.CallToolRequest, input ReauthenticateInput) (*sdkmcp.CallToolResult, SessionInfoOutput, error) {
		if err := d.Client.Reauthenticate(ctx); err != nil {
			return nil, SessionInfoOutput{}, WrapQRZError(err)
		}
		d.persistSession()
		return nil, d.sessionInfo(), nil
	}
}

func (d *Deps) sessionInfo() SessionInfoOutput {
	output := SessionInfoOutput{
		Username:   d.Client.Username(),
		APIVersion: string(d.Client.APIVersion()),
		Endpoint:   d.Client.Endpoint(),
	}
	if d.Cache != nil {
		output.CachedRecords = d.Cache.Callsigns.Len() + d.Cache.DXCC.Len() + d.Cache.Biographies.Len()
	}

	info, ok := d.Client.SessionInfo()
	if !ok {
		return output
	}
	output.Authenticated = true
	output.Subscriber = info.Subscriber(time.Now())
	output.SubExp = info.SubExp
	output.SubExpiresAt = formatTime(info.SubExpires)
	output.LookupCount = info.Count
	output.Message = info.Message
	output.ServerTime = info.GMTime
	output.ObtainedAt = formatTime(&info.ObtainedAt)
	return output
}
