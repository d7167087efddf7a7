// Package fetch serves QRZ lookups from the lookup cache, falling back to
// the API client.
package fetch

import (
	"context"
	"strconv"
	"strings"

	"github.com/usestring/qrz-mcp/internal/cache"
	"github.com/usestring/qrz-mcp/pkg/client"
)

// Lookuper is the subset of *client.Client used for fetching records.
type Lookuper interface {
	LookupCallsign(ctx context.Context, call string) (*client.Callsign, error)
	LookupDXCCEntity(ctx context.Context, entity int) (*client.DXCC, error)
	LookupDXCCByCallsign(ctx context.Context, call string) (*client.DXCC, error)
	LookupBiography(ctx context.Context, call string) (*client.Biography, error)
}

// Fetcher retrieves records, checking the cache first. Every record it
// returns is a copy owned by the caller; the cached value is never handed
// out.
type Fetcher struct {
	client Lookuper
	cache  *cache.LookupCache
}

// New creates a Fetcher. A nil cache disables caching.
func New(c Lookuper, lc *cache.LookupCache) *Fetcher {
	return &Fetcher{client: c, cache: lc}
}

// Callsign returns the record of call. When refresh is set the cache is bypassed
// and the fresh record replaces the cached one.
func (f *Fetcher) Callsign(ctx context.Context, call string, refresh bool) (*client.Callsign, error) {
	call, err := client.NormalizeCallsign(call)
	if err != nil {
		return nil, err
	}
	if f.cache != nil && !refresh {
		if cached, ok := f.cache.Callsigns.Get(call); ok {
			return cached.Clone(), nil
		}
	}

	rec, err := f.client.LookupCallsign(ctx, call)
	if err != nil {
		return nil, err
	}
	if f.cache != nil {
		f.cache.Callsigns.Put(call, rec.Clone())
	}
	return rec, nil
}

// DXCC returns a DXCC entity. key is either an entity number or a callsign.
func (f *Fetcher) DXCC(ctx context.Context, key string, refresh bool) (*client.DXCC, error) {
	key = strings.ToUpper(strings.TrimSpace(key))
	if key == "" {
		return nil, &client.InvalidInputError{Message: "DXCC entity number or callsign must not be empty"}
	}
	if f.cache != nil && !refresh {
		if cached, ok := f.cache.DXCC.Get(key); ok {
			return cached.Clone(), nil
		}
	}

	var (
		rec *client.DXCC
		err error
	)
	if n, convErr := strconv.Atoi(key); convErr == nil {
		rec, err = f.client.LookupDXCCEntity(ctx, n)
	} else {
		rec, err = f.client.LookupDXCCByCallsign(ctx, key)
	}
	if err != nil {
		return nil, err
	}
	if f.cache != nil {
		f.cache.DXCC.Put(key, rec.Clone())
	}
	return rec, nil
}

// Biography returns the biography page of call.
func (f *Fetcher) Biography(ctx context.Context, call string, refresh bool) (*client.Biography, error) {
	call, err := client.NormalizeCallsign(call)
	if err != nil {
		return nil, err
	}
	if f.cache != nil && !refresh {
		if cached, ok := f.cache.Biographies.Get(call); ok {
			return cached.Clone(), nil
		}
	}

	bio, err := f.client.LookupBiography(ctx, call)
	if err != nil {
		return nil, err
	}
	if f.cache != nil {
		f.cache.Biographies.Put(call, bio.Clone())
	}
	return bio, nil
}
