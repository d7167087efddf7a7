package tools

import (
	"encoding/json"
	"reflect"
	"testing"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/usestring/qrz-mcp/internal/bulk"
	"github.com/usestring/qrz-mcp/pkg/client"
	"github.com/usestring/qrz-mcp/pkg/textquery"
)

func TestCheckOutputSchema_toolOutputs(t *testing.T) {
	tests := []struct {
		tool  string
		check func(string)
	}{
		{"qrz_lookup_callsign", CheckOutputSchema[LookupCallsignOutput]},
		{"qrz_lookup_dxcc", CheckOutputSchema[LookupDXCCOutput]},
		{"qrz_lookup_biography", CheckOutputSchema[LookupBiographyOutput]},
		{"qrz_bulk_lookup", CheckOutputSchema[BulkLookupOutput]},
		{"qrz_session_info", CheckOutputSchema[SessionInfoOutput]},
		{"qrz_reauthenticate", CheckOutputSchema[SessionInfoOutput]},
	}
	for _, tt := range tests {
		t.Run(tt.tool, func(t *testing.T) {
			assert.NotPanics(t, func() { tt.check(tt.tool) })
		})
	}
}

func TestCheckOutputSchema_panicsOnEntitiesWithoutOmitzero(t *testing.T) {
	type dxccOutput struct {
		Entities []DXCCEntity `json:"entities"`
		Count    int          `json:"count"`
	}
	assert.Panics(t, func() {
		CheckOutputSchema[dxccOutput]("qrz_lookup_dxcc")
	})
}

func TestCheckOutputSchema_panicsOnRawRecord(t *testing.T) {
	type callsignOutput struct {
		Record json.RawMessage `json:"record,omitempty"`
	}
	assert.Panics(t, func() {
		CheckOutputSchema[callsignOutput]("qrz_lookup_callsign")
	})
}

// requireMatchesSchema validates v against the schema the SDK infers for T.
func requireMatchesSchema[T any](t *testing.T, v T) {
	t.Helper()
	schema, err := jsonschema.ForType(reflect.TypeFor[T](), &jsonschema.ForOptions{})
	require.NoError(t, err)
	resolved, err := schema.Resolve(&jsonschema.ResolveOptions{})
	require.NoError(t, err)

	data, err := json.Marshal(v)
	require.NoError(t, err)
	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	require.NoError(t, resolved.Validate(&decoded), "JSON: %s", data)
}

func TestToolOutputs_populatedValuesMatchSchema(t *testing.T) {
	lat, lon := 34.12345, -112.12345
	offset := -5.0
	count := 42
	eqsl := true

	rec := &client.Callsign{Call: "AA7BQ", DXCC: 291, FirstName: "FRED L", LastName: "LLOYD", Grid: "DM32af", Lat: &lat, Lon: &lon}

	t.Run("callsign", func(t *testing.T) {
		requireMatchesSchema(t, LookupCallsignOutput{
			Record:   rec,
			Summary:  rec.String(),
			FullName: rec.FullName(),
			Location: &Location{Lat: lat, Lon: lon, Grid: rec.Grid},
			QSL:      QSLPreferences{EQSL: &eqsl, Manager: "DIRECT"},
		})
	})

	t.Run("dxcc", func(t *testing.T) {
		requireMatchesSchema(t, LookupDXCCOutput{
			Entities: []DXCCEntity{
				{Record: client.DXCC{Code: 291, Name: "United States", Continent: "NA", Timezone: "-5"}, Summary: "291 United States", UTCOffsetHours: &offset},
				{Record: client.DXCC{Code: 230, Name: "Germany", Continent: "EU"}, Summary: "230 Germany"},
			},
			Count: 2,
		})
	})

	t.Run("biography", func(t *testing.T) {
		requireMatchesSchema(t, LookupBiographyOutput{
			Callsign: "AA7BQ",
			Text:     "About me QRV on HF",
			Links:    []string{"https://example.org/hf"},
			Matches:  &textquery.Result{Values: []string{"About me"}, Count: 1, Mode: textquery.ModeCSS},
		})
		requireMatchesSchema(t, LookupBiographyOutput{Callsign: "K1ABC", Empty: true})
	})

	t.Run("bulk", func(t *testing.T) {
		requireMatchesSchema(t, BulkLookupOutput{
			Results: []bulk.Result{
				{Callsign: "AA7BQ", Record: rec, Outcome: bulk.OutcomeFound},
				{Callsign: "N0CALL", Error: "callsign not found: N0CALL", Outcome: bulk.OutcomeNotFound},
			},
			Stats: bulk.Stats{Total: 2, Found: 1, NotFound: 1, DurationMs: 12},
		})
	})

	t.Run("session", func(t *testing.T) {
		requireMatchesSchema(t, SessionInfoOutput{
			Authenticated: true,
			Username:      "AA7BQ",
			APIVersion:    "current",
			Endpoint:      "https://xmldata.qrz.com/xml/current/",
			Subscriber:    true,
			SubExp:        "Wed Jan 1 12:34:03 2099",
			LookupCount:   &count,
			CachedRecords: 3,
		})
	})
}
