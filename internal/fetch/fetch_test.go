package fetch

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/usestring/qrz-mcp/internal/cache"
	"github.com/usestring/qrz-mcp/pkg/client"
)

type fakeLookuper struct {
	calls map[string]int
}

func newFakeLookuper() *fakeLookuper {
	return &fakeLookuper{calls: make(map[string]int)}
}

func (f *fakeLookuper) LookupCallsign(_ context.Context, call string) (*client.Callsign, error) {
	f.calls["callsign:"+call]++
	if call == "BADCALL" {
		return nil, &client.NotFoundError{Kind: client.RecordCallsign, Key: call}
	}
	return &client.Callsign{Call: call}, nil
}

func (f *fakeLookuper) LookupDXCCEntity(_ context.Context, entity int) (*client.DXCC, error) {
	f.calls["entity"]++
	return &client.DXCC{Code: entity, Name: "United States"}, nil
}

func (f *fakeLookuper) LookupDXCCByCallsign(_ context.Context, call string) (*client.DXCC, error) {
	f.calls["dxcc:"+call]++
	return &client.DXCC{Code: 291, Name: "United States"}, nil
}

func (f *fakeLookuper) LookupBiography(_ context.Context, call string) (*client.Biography, error) {
	f.calls["bio:"+call]++
	return &client.Biography{Callsign: call, HTML: "<p>hi</p>"}, nil
}

func TestFetcher_CallsignCacheHit(t *testing.T) {
	fl := newFakeLookuper()
	f := New(fl, cache.NewLookupCache(16, time.Minute))
	ctx := context.Background()

	first, err := f.Callsign(ctx, "aa7bq", false)
	require.NoError(t, err)
	second, err := f.Callsign(ctx, "AA7BQ ", false)
	require.NoError(t, err)

	assert.NotSame(t, first, second)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, fl.calls["callsign:AA7BQ"])

	_, err = f.Callsign(ctx, "AA7BQ", true)
	require.NoError(t, err)
	assert.Equal(t, 2, fl.calls["callsign:AA7BQ"])
}

func TestFetcher_ErrorsAreNotCached(t *testing.T) {
	fl := newFakeLookuper()
	f := New(fl, cache.NewLookupCache(16, time.Minute))

	for range 2 {
		_, err := f.Callsign(context.Background(), "BADCALL", false)
		assert.ErrorIs(t, err, client.ErrCallsignNotFound)
	}
	assert.Equal(t, 2, fl.calls["callsign:BADCALL"])
}

func TestFetcher_DXCCRouting(t *testing.T) {
	fl := newFakeLookuper()
	f := New(fl, nil)
	ctx := context.Background()

	d, err := f.DXCC(ctx, "291", false)
	require.NoError(t, err)
	assert.Equal(t, 291, d.Code)
	assert.Equal(t, 1, fl.calls["entity"])

	_, err = f.DXCC(ctx, "w1aw", false)
	require.NoError(t, err)
	assert.Equal(t, 1, fl.calls["dxcc:W1AW"])

	_, err = f.DXCC(ctx, " ", false)
	assert.ErrorIs(t, err, client.ErrInvalidInput)
}

func TestFetcher_Biography(t *testing.T) {
	fl := newFakeLookuper()
	f := New(fl, cache.NewLookupCache(16, time.Minute))

	bio, err := f.Biography(context.Background(), "aa7bq", false)
	require.NoError(t, err)
	assert.Equal(t, "AA7BQ", bio.Callsign)

	_, err = f.Biography(context.Background(), "", false)
	assert.ErrorIs(t, err, client.ErrInvalidInput)
	assert.Equal(t, 1, fl.calls["bio:AA7BQ"])
}

func TestFetcher_CachedRecordsAreCopies(t *testing.T) {
	lat, lon := 34.12, -112.12
	fl := newFakeLookuper()
	lc := cache.NewLookupCache(16, time.Minute)
	lc.Callsigns.Put("AA7BQ", &client.Callsign{Call: "AA7BQ", Grid: "DM32af", Lat: &lat, Lon: &lon})
	lc.DXCC.Put("291", &client.DXCC{Code: 291, Name: "United States"})
	f := New(fl, lc)
	ctx := context.Background()

	rec, err := f.Callsign(ctx, "AA7BQ", false)
	require.NoError(t, err)
	rec.Grid = "XX00"
	*rec.Lat = 0

	again, err := f.Callsign(ctx, "AA7BQ", false)
	require.NoError(t, err)
	assert.Equal(t, "DM32af", again.Grid)
	assert.InDelta(t, 34.12, *again.Lat, 1e-9)
	assert.Equal(t, 0, fl.calls["callsign:AA7BQ"])

	d, err := f.DXCC(ctx, "291", false)
	require.NoError(t, err)
	d.Name = "changed"
	d, err = f.DXCC(ctx, "291", false)
	require.NoError(t, err)
	assert.Equal(t, "United States", d.Name)

	bio, err := f.Biography(ctx, "AA7BQ", false)
	require.NoError(t, err)
	bio.HTML = ""
	bio, err = f.Biography(ctx, "AA7BQ", false)
	require.NoError(t, err)
	assert.Equal(t, "<p>hi</p>", bio.HTML)
	assert.Equal(t, 1, fl.calls["bio:AA7BQ"])
}
