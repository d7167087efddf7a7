// Package bulk runs many callsign lookups with bounded concurrency and a
// request rate limit.
package bulk

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/usestring/qrz-mcp/pkg/client"
)

// LookupFunc looks up one normalized callsign.
type LookupFunc func(ctx context.Context, call string) (*client.Callsign, error)

// Options bounds a bulk run.
type Options struct {
	Workers    int     // concurrent lookups, default 4
	RatePerSec float64 // lookups started per second, <= 0 disables the limit
}

// Result is the outcome of one callsign.
type Result struct {
	Callsign string           `json:"callsign"`
	Record   *client.Callsign `json:"record,omitempty"`
	Error    string           `json:"error,omitempty"`
	Outcome  string           `json:"outcome"`

	err error
}

// Err returns the lookup error, if any.
func (r *Result) Err() error {
	return r.err
}

// Outcome values.
const (
	OutcomeFound        = "found"
	OutcomeNotFound     = "not_found"
	OutcomeSubscription = "subscription_required"
	OutcomeInvalid      = "invalid"
	OutcomeFailed       = "failed"
	OutcomeSkipped      = "skipped"
)

// Stats summarizes a run.
type Stats struct {
	Total                int   `json:"total"`
	Found                int   `json:"found"`
	NotFound             int   `json:"not_found"`
	SubscriptionRequired int   `json:"subscription_required"`
	Invalid              int   `json:"invalid"`
	Failed               int   `json:"failed"`
	Skipped              int   `json:"skipped"`
	DurationMs           int64 `json:"duration_ms"`
}

// Report holds per-callsign results in input order.
type Report struct {
	Results []Result `json:"results"`
	Stats   Stats    `json:"stats"`
}

// Run looks up calls. Duplicate callsigns are looked up once. An
// authentication failure stops the run: remaining callsigns are reported as
// skipped and the error is returned with the partial report.
func Run(ctx context.Context, lookup LookupFunc, calls []string, opts Options) (*Report, error) {
	start := time.Now()
	if opts.Workers <= 0 {
		opts.Workers = 4
	}

	results := make([]Result, 0, len(calls))
	index := make(map[string]int, len(calls))
	for _, raw := range calls {
		call, err := client.NormalizeCallsign(raw)
		if err != nil {
			results = append(results, Result{Callsign: raw, Error: err.Error(), Outcome: OutcomeInvalid, err: err})
			continue
		}
		if _, dup := index[call]; dup {
			continue
		}
		index[call] = len(results)
		results = append(results, Result{Callsign: call, Outcome: OutcomeSkipped})
	}

	var limiter *rate.Limiter
	if opts.RatePerSec > 0 {
		limiter = rate.NewLimiter(rate.Limit(opts.RatePerSec), 1)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Workers)

	for i := range results {
		r := &results[i]
		if r.Outcome != OutcomeSkipped {
			continue
		}
		g.Go(func() error {
			if gctx.Err() != nil {
				return nil
			}
			if limiter != nil {
				if err := limiter.Wait(gctx); err != nil {
					return nil
				}
			}

			rec, err := lookup(gctx, r.Callsign)
			if err != nil && gctx.Err() != nil && errors.Is(err, context.Canceled) {
				return nil
			}
			r.Record, r.err = rec, err
			r.Outcome = outcome(err)
			if err != nil {
				r.Error = err.Error()
			}
			if errors.Is(err, client.ErrAuthenticationFailed) {
				return err
			}
			return nil
		})
	}
	runErr := g.Wait()

	report := &Report{Results: results}
	report.Stats = summarize(results)
	report.Stats.DurationMs = time.Since(start).Milliseconds()

	slog.Info("bulk lookup finished",
		slog.Int("total", report.Stats.Total),
		slog.Int("found", report.Stats.Found),
		slog.Int("not_found", report.Stats.NotFound),
		slog.Int("failed", report.Stats.Failed),
		slog.Int64("duration_ms", report.Stats.DurationMs),
	)

	if runErr != nil {
		return report, runErr
	}
	return report, ctx.Err()
}

func outcome(err error) string {
	switch {
	case err == nil:
		return OutcomeFound
	case errors.Is(err, client.ErrNotFound):
		return OutcomeNotFound
	case errors.Is(err, client.ErrSubscriptionRequired):
		return OutcomeSubscription
	case errors.Is(err, client.ErrInvalidInput):
		return OutcomeInvalid
	default:
		return OutcomeFailed
	}
}

func summarize(results []Result) Stats {
	st := Stats{Total: len(results)}
	for _, r := range results {
		switch r.Outcome {
		case OutcomeFound:
			st.Found++
		case OutcomeNotFound:
			st.NotFound++
		case OutcomeSubscription:
			st.SubscriptionRequired++
		case OutcomeInvalid:
			st.Invalid++
		case OutcomeSkipped:
			st.Skipped++
		default:
			st.Failed++
		}
	}
	return st
}
