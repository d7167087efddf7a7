// Package prompts contains MCP prompt implementations for QRZ.com lookups.
package prompts

// Config holds configuration needed by prompts.
type Config struct {
	MaxBulkCallsigns int
	BulkRatePerSec   float64
}
