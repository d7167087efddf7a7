// Package tools contains MCP tool implementations for QRZ.com lookups.
package tools

import (
	"time"

	"github.com/usestring/qrz-mcp/internal/query"
	"github.com/usestring/qrz-mcp/pkg/client"
)

// MIME type constant.
const MimeJSON = "application/json"

// Location is a position derived from a record.
type Location struct {
	Lat  float64 `json:"lat"`
	Lon  float64 `json:"lon"`
	Grid string  `json:"grid,omitempty"`
}

// QSLPreferences reports how an operator confirms contacts. Nil means the
// record does not say.
type QSLPreferences struct {
	EQSL     *bool  `json:"eqsl,omitempty"`
	PaperQSL *bool  `json:"paper_qsl,omitempty"`
	LoTW     *bool  `json:"lotw,omitempty"`
	Manager  string `json:"manager,omitempty"`
}

// checkJQ validates an optional jq expression before any request is made.
func checkJQ(d *Deps, expr string) error {
	if expr == "" {
		return nil
	}
	if err := d.Query.ValidateExpression(expr); err != nil {
		return ErrInvalidInput(err.Error())
	}
	return nil
}

// project applies an optional jq expression to record.
func project(d *Deps, record any, expr string) (*query.Result, error) {
	if expr == "" {
		return nil, nil
	}
	result, err := d.Query.Project(record, expr, false, 0)
	if err != nil {
		return nil, ErrInvalidInput(err.Error())
	}
	return result, nil
}

func callsignLocation(rec *client.Callsign) *Location {
	lat, lon, ok := rec.Coordinates()
	if !ok {
		return nil
	}
	return &Location{Lat: lat, Lon: lon, Grid: rec.Grid}
}

func qslPreferences(rec *client.Callsign) QSLPreferences {
	prefs := QSLPreferences{Manager: rec.QSLMgr}
	if v, ok := rec.AcceptsEQSL(); ok {
		prefs.EQSL = &v
	}
	if v, ok := rec.ReturnsPaperQSL(); ok {
		prefs.PaperQSL = &v
	}
	if v, ok := rec.AcceptsLoTW(); ok {
		prefs.LoTW = &v
	}
	return prefs
}

func formatTime(t *time.Time) string {
	if t == nil || t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}
