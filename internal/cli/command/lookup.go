package command

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/usestring/qrz-mcp/pkg/client"
	"github.com/usestring/qrz-mcp/pkg/textquery"
)

// LookupCommand returns the callsign lookup command.
func LookupCommand() *cli.Command {
	return &cli.Command{
		Name:      "lookup",
		Aliases:   []string{"l"},
		Usage:     "Look up one or more callsigns",
		ArgsUsage: "CALLSIGN...",
		Action:    lookupAction,
	}
}

func lookupAction(c *cli.Context) error {
	if c.NArg() == 0 {
		return fmt.Errorf("at least one callsign is required")
	}
	rt := getRuntime(c)
	qrz, err := rt.Client()
	if err != nil {
		return err
	}

	records := make([]*client.Callsign, 0, c.NArg())
	for _, call := range c.Args().Slice() {
		ctx, cancel := rt.requestContext(c)
		rec, err := qrz.LookupCallsign(ctx, call)
		cancel()
		if err != nil {
			return err
		}
		records = append(records, rec)
	}

	var v any = records
	if len(records) == 1 {
		v = records[0]
	}
	return rt.emit(v, func(w io.Writer) error {
		for i, rec := range records {
			if i > 0 {
				fmt.Fprintln(w)
			}
			if err := writeFields(w, callsignFields(rec)); err != nil {
				return err
			}
		}
		return nil
	})
}

// DXCCCommand returns the DXCC entity command.
func DXCCCommand() *cli.Command {
	return &cli.Command{
		Name:      "dxcc",
		Usage:     "Look up a DXCC entity by number or callsign, or list all with 'all'",
		ArgsUsage: "ENTITY|CALLSIGN|all",
		Action:    dxccAction,
	}
}

func dxccAction(c *cli.Context) error {
	if c.NArg() != 1 {
		return fmt.Errorf("exactly one entity number, callsign or 'all' is required")
	}
	rt := getRuntime(c)
	qrz, err := rt.Client()
	if err != nil {
		return err
	}

	ctx, cancel := rt.requestContext(c)
	defer cancel()

	arg := strings.TrimSpace(c.Args().First())
	if strings.EqualFold(arg, "all") {
		all, err := qrz.LookupAllDXCC(ctx)
		if err != nil {
			return err
		}
		return rt.emit(all, func(w io.Writer) error {
			for _, rec := range all {
				fmt.Fprintf(w, "%4d  %-4s %s\n", rec.Code, rec.Continent, rec.Name)
			}
			return nil
		})
	}

	var rec *client.DXCC
	if n, convErr := strconv.Atoi(arg); convErr == nil {
		rec, err = qrz.LookupDXCCEntity(ctx, n)
	} else {
		rec, err = qrz.LookupDXCCByCallsign(ctx, arg)
	}
	if err != nil {
		return err
	}
	return rt.emit(rec, func(w io.Writer) error {
		return writeFields(w, dxccFields(rec))
	})
}

// BioCommand returns the biography command.
func BioCommand() *cli.Command {
	return &cli.Command{
		Name:      "bio",
		Usage:     "Show the biography page of a callsign",
		ArgsUsage: "CALLSIGN",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "html",
				Usage: "Print the raw HTML instead of text",
			},
			&cli.StringFlag{
				Name:    "select",
				Aliases: []string{"s"},
				Usage:   "Print only the parts matching a CSS selector, XPath expression or regex",
			},
			&cli.StringFlag{
				Name:  "mode",
				Usage: "Mode of --select: css, xpath or regex (default: detected)",
			},
		},
		Action: bioAction,
	}
}

func bioAction(c *cli.Context) error {
	if c.NArg() != 1 {
		return fmt.Errorf("exactly one callsign is required")
	}
	selector, mode := c.String("select"), c.String("mode")
	if selector != "" {
		if mode == "" {
			mode = textquery.DetectMode(selector)
		}
		if err := textquery.Validate(selector, mode); err != nil {
			return err
		}
	}

	rt := getRuntime(c)
	qrz, err := rt.Client()
	if err != nil {
		return err
	}

	ctx, cancel := rt.requestContext(c)
	defer cancel()

	bio, err := qrz.LookupBiography(ctx, c.Args().First())
	if err != nil {
		return err
	}

	out := struct {
		Callsign string   `json:"callsign"`
		Text     string   `json:"text,omitempty"`
		HTML     string   `json:"html,omitempty"`
		Links    []string `json:"links,omitempty"`
		Matches  []string `json:"matches,omitempty"`
	}{Callsign: bio.Callsign, Text: bio.Text(), Links: bio.Links()}
	if c.Bool("html") {
		out.HTML = bio.HTML
	}
	if selector != "" && !bio.IsEmpty() {
		result, err := textquery.Query(bio.HTML, selector, mode, 0)
		if err != nil {
			return err
		}
		out.Matches = result.Values
	}

	return rt.emit(out, func(w io.Writer) error {
		switch {
		case bio.IsEmpty():
			fmt.Fprintf(w, "%s has no biography\n", bio.Callsign)
		case selector != "":
			for _, m := range out.Matches {
				fmt.Fprintln(w, m)
			}
		case c.Bool("html"):
			fmt.Fprintln(w, bio.HTML)
		default:
			fmt.Fprintln(w, out.Text)
			for _, link := range out.Links {
				fmt.Fprintf(w, "  %s\n", link)
			}
		}
		return nil
	})
}
