package bulk

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/usestring/qrz-mcp/pkg/client"
)

func fakeLookup(calls *sync.Map) LookupFunc {
	return func(_ context.Context, call string) (*client.Callsign, error) {
		n, _ := calls.LoadOrStore(call, new(atomic.Int32))
		n.(*atomic.Int32).Add(1)
		switch call {
		case "BADCALL":
			return nil, &client.NotFoundError{Kind: client.RecordCallsign, Key: call}
		case "PAYWALL":
			return nil, &client.APIError{Kind: client.KindSubscriptionRequired, Reason: "A subscription is required"}
		case "BROKEN":
			return nil, &client.APIError{Kind: client.KindUnknown, Reason: "Database offline"}
		}
		return &client.Callsign{Call: call}, nil
	}
}

func TestRun_Outcomes(t *testing.T) {
	var calls sync.Map
	report, err := Run(context.Background(), fakeLookup(&calls),
		[]string{"aa7bq", "BADCALL", "PAYWALL", "BROKEN", "AA7BQ", ""},
		Options{Workers: 3})
	require.NoError(t, err)

	require.Len(t, report.Results, 5)
	assert.Equal(t, "", report.Results[0].Error)
	assert.Equal(t, OutcomeFound, report.Results[0].Outcome)
	assert.Equal(t, "AA7BQ", report.Results[0].Record.Call)
	assert.Equal(t, OutcomeNotFound, report.Results[1].Outcome)
	assert.ErrorIs(t, report.Results[1].Err(), client.ErrCallsignNotFound)
	assert.Equal(t, OutcomeSubscription, report.Results[2].Outcome)
	assert.Equal(t, OutcomeFailed, report.Results[3].Outcome)
	assert.Equal(t, OutcomeInvalid, report.Results[4].Outcome)

	st := report.Stats
	assert.Equal(t, 5, st.Total)
	assert.Equal(t, 1, st.Found)
	assert.Equal(t, 1, st.NotFound)
	assert.Equal(t, 1, st.SubscriptionRequired)
	assert.Equal(t, 1, st.Failed)
	assert.Equal(t, 1, st.Invalid)

	n, ok := calls.Load("AA7BQ")
	require.True(t, ok)
	assert.Equal(t, int32(1), n.(*atomic.Int32).Load())
}

func TestRun_BoundedWorkers(t *testing.T) {
	var inFlight, peak atomic.Int32
	lookup := func(_ context.Context, call string) (*client.Callsign, error) {
		cur := inFlight.Add(1)
		for {
			p := peak.Load()
			if cur <= p || peak.CompareAndSwap(p, cur) {
				break
			}
		}
		time.Sleep(10 * time.Millisecond)
		inFlight.Add(-1)
		return &client.Callsign{Call: call}, nil
	}

	calls := []string{"K1A", "K1B", "K1C", "K1D", "K1E", "K1F", "K1G", "K1H"}
	report, err := Run(context.Background(), lookup, calls, Options{Workers: 2})
	require.NoError(t, err)
	assert.Equal(t, 8, report.Stats.Found)
	assert.LessOrEqual(t, peak.Load(), int32(2))
}

func TestRun_RateLimit(t *testing.T) {
	var calls sync.Map
	start := time.Now()
	report, err := Run(context.Background(), fakeLookup(&calls),
		[]string{"K1A", "K1B", "K1C", "K1D"}, Options{Workers: 4, RatePerSec: 20})
	require.NoError(t, err)
	assert.Equal(t, 4, report.Stats.Found)
	// One token up front, then one per 50ms.
	assert.GreaterOrEqual(t, time.Since(start), 140*time.Millisecond)
}

func TestRun_AuthFailureStops(t *testing.T) {
	var n atomic.Int32
	lookup := func(_ context.Context, call string) (*client.Callsign, error) {
		n.Add(1)
		return nil, &client.AuthError{Reason: "Username/password incorrect"}
	}

	calls := []string{"K1A", "K1B", "K1C", "K1D", "K1E", "K1F"}
	report, err := Run(context.Background(), lookup, calls, Options{Workers: 1})
	require.Error(t, err)
	assert.ErrorIs(t, err, client.ErrAuthenticationFailed)
	assert.Equal(t, int32(1), n.Load())
	assert.Equal(t, 1, report.Stats.Failed)
	assert.Equal(t, 5, report.Stats.Skipped)
}

func TestRun_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var calls sync.Map
	report, err := Run(ctx, fakeLookup(&calls), []string{"K1A", "K1B"}, Options{})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 2, report.Stats.Skipped)
}
