package command

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/usestring/qrz-mcp/pkg/client"
)

// field is one label/value row of text output.
type field struct {
	label string
	value string
}

// emit writes v as jq projection, JSON, or via text.
func (rt *runtime) emit(v any, text func(w io.Writer) error) error {
	if rt.jq != "" {
		res, err := rt.query.Project(v, rt.jq, false, 0)
		if err != nil {
			return err
		}
		for _, msg := range res.Errors {
			fmt.Fprintf(os.Stderr, "jq: %s\n", msg)
		}
		for _, val := range res.Values {
			if s, ok := val.(string); ok {
				fmt.Fprintln(rt.out, s)
				continue
			}
			b, err := json.Marshal(val)
			if err != nil {
				return err
			}
			fmt.Fprintln(rt.out, string(b))
		}
		return nil
	}
	if rt.format == "json" {
		enc := json.NewEncoder(rt.out)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}
	return text(rt.out)
}

// writeFields prints non-empty fields as aligned label/value rows.
func writeFields(w io.Writer, fields []field) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for _, f := range fields {
		if f.value == "" {
			continue
		}
		fmt.Fprintf(tw, "%s:\t%s\n", f.label, f.value)
	}
	return tw.Flush()
}

func callsignFields(rec *client.Callsign) []field {
	qth := joinNonEmpty(", ", rec.Addr2, rec.State, rec.Country)
	fields := []field{
		{"Callsign", rec.Call},
		{"Name", rec.FullName()},
		{"Nickname", rec.Nickname},
		{"QTH", qth},
		{"Grid", rec.Grid},
		{"County", rec.County},
		{"Class", rec.Class},
		{"Expires", rec.ExpDate},
		{"Aliases", rec.Aliases},
		{"Previous", rec.PrevCall},
		{"Email", rec.Email},
		{"Time zone", rec.TimeZone},
		{"QSL", qslSummary(rec)},
	}
	if lat, lon, ok := rec.Coordinates(); ok {
		fields = append(fields, field{"Position", fmt.Sprintf("%.4f, %.4f", lat, lon)})
	}
	if rec.DXCC != 0 {
		fields = append(fields, field{"DXCC", strconv.Itoa(rec.DXCC)})
	}
	if rec.CQZone != 0 || rec.ITUZone != 0 {
		fields = append(fields, field{"Zones", fmt.Sprintf("CQ %d, ITU %d", rec.CQZone, rec.ITUZone)})
	}
	return fields
}

func dxccFields(rec *client.DXCC) []field {
	fields := []field{
		{"Entity", fmt.Sprintf("%d %s", rec.Code, rec.Name)},
		{"Prefix", joinNonEmpty(" / ", rec.CC, rec.CCC)},
		{"Continent", rec.Continent},
		{"Zones", fmt.Sprintf("CQ %d, ITU %d", rec.CQZone, rec.ITUZone)},
		{"Notes", rec.Notes},
	}
	if hours, ok := rec.TimezoneHours(); ok {
		fields = append(fields, field{"UTC offset", strconv.FormatFloat(hours, 'f', -1, 64) + "h"})
	}
	if lat, lon, ok := rec.Coordinates(); ok {
		fields = append(fields, field{"Position", fmt.Sprintf("%.4f, %.4f", lat, lon)})
	}
	return fields
}

func qslSummary(rec *client.Callsign) string {
	var parts []string
	if ok, known := rec.AcceptsLoTW(); known && ok {
		parts = append(parts, "LoTW")
	}
	if ok, known := rec.AcceptsEQSL(); known && ok {
		parts = append(parts, "eQSL")
	}
	if ok, known := rec.ReturnsPaperQSL(); known && ok {
		parts = append(parts, "paper")
	}
	if rec.QSLMgr != "" {
		parts = append(parts, "via "+rec.QSLMgr)
	}
	return strings.Join(parts, ", ")
}

func joinNonEmpty(sep string, parts ...string) string {
	out := parts[:0:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return strings.Join(out, sep)
}
