package command

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/urfave/cli/v2"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/usestring/qrz-mcp/internal/bulk"
	"github.com/usestring/qrz-mcp/internal/config"
)

var printer = message.NewPrinter(language.English)

// BulkCommand returns the bulk lookup command.
func BulkCommand() *cli.Command {
	return &cli.Command{
		Name:      "bulk",
		Usage:     "Look up many callsigns from arguments, a file, or stdin",
		ArgsUsage: "[CALLSIGN...]",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "file",
				Aliases: []string{"f"},
				Usage:   "Read callsigns from a file ('-' for stdin), separated by whitespace or commas",
			},
			&cli.IntFlag{
				Name:    "workers",
				Usage:   "Concurrent lookups",
				Value:   config.DefaultBulkWorkers,
				EnvVars: []string{"BULK_WORKERS"},
			},
			&cli.Float64Flag{
				Name:    "rate",
				Usage:   "Lookups started per second (0 disables the limit)",
				Value:   config.DefaultBulkRatePerSec,
				EnvVars: []string{"BULK_RATE_PER_SEC"},
			},
		},
		Action: bulkAction,
	}
}

func bulkAction(c *cli.Context) error {
	calls := c.Args().Slice()
	if path := c.String("file"); path != "" {
		fromFile, err := readCallsigns(path, c.App.Reader)
		if err != nil {
			return err
		}
		calls = append(calls, fromFile...)
	}
	if len(calls) == 0 {
		return fmt.Errorf("no callsigns given")
	}

	rt := getRuntime(c)
	qrz, err := rt.Client()
	if err != nil {
		return err
	}

	report, runErr := bulk.Run(c.Context, qrz.LookupCallsign, calls, bulk.Options{
		Workers:    c.Int("workers"),
		RatePerSec: c.Float64("rate"),
	})
	if report == nil {
		return runErr
	}

	err = rt.emit(report, func(w io.Writer) error {
		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "CALLSIGN\tOUTCOME\tNAME\tGRID\tCOUNTRY")
		for _, r := range report.Results {
			name, grid, country := "", "", ""
			if r.Record != nil {
				name, grid, country = r.Record.FullName(), r.Record.Grid, r.Record.Country
			}
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", r.Callsign, r.Outcome, name, grid, country)
		}
		if err := tw.Flush(); err != nil {
			return err
		}
		st := report.Stats
		printer.Fprintf(w, "\n%d callsigns: %d found, %d not found, %d invalid, %d failed, %d skipped in %v\n",
			st.Total, st.Found, st.NotFound, st.Invalid, st.Failed+st.SubscriptionRequired, st.Skipped,
			(time.Duration(st.DurationMs) * time.Millisecond).Round(time.Millisecond))
		return nil
	})
	if err != nil {
		return err
	}
	return runErr
}

// readCallsigns reads whitespace- or comma-separated callsigns. Lines
// starting with '#' are comments.
func readCallsigns(path string, stdin io.Reader) ([]string, error) {
	var r io.Reader
	if path == "-" {
		if stdin == nil {
			stdin = os.Stdin
		}
		r = stdin
	} else {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("opening callsign list: %w", err)
		}
		defer f.Close()
		r = f
	}

	var calls []string
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		calls = append(calls, strings.FieldsFunc(line, func(r rune) bool {
			return r == ',' || r == ';' || r == ' ' || r == '\t'
		})...)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading callsign list: %w", err)
	}
	return calls, nil
}
