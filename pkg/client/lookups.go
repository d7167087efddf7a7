package client

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/unicode/norm"
)

// NormalizeCallsign trims and upper-cases a callsign, folding compatibility
// forms such as full-width letters to ASCII. It returns *InvalidInputError
// for an empty or malformed callsign.
func NormalizeCallsign(call string) (string, error) {
	call = strings.ToUpper(strings.TrimSpace(norm.NFKC.String(call)))
	if call == "" {
		return "", &InvalidInputError{Message: "callsign must not be empty"}
	}
	for _, r := range call {
		if !(r >= 'A' && r <= 'Z' || r >= '0' && r <= '9' || r == '/') {
			return "", &InvalidInputError{Message: fmt.Sprintf("callsign %q contains invalid character %q", call, r)}
		}
	}
	return call, nil
}

// LookupCallsign returns the record of a callsign.
func (c *Client) LookupCallsign(ctx context.Context, call string) (rec *Callsign, err error) {
	defer c.observe(RecordCallsign, time.Now(), &err)

	call, err = NormalizeCallsign(call)
	if err != nil {
		return nil, err
	}

	env, err := c.session.Call(ctx, url.Values{"callsign": {call}})
	if err != nil {
		return nil, asNotFound(err, RecordCallsign, call)
	}
	if env.Callsign == nil {
		return nil, fmt.Errorf("%w: no Callsign record for %s", ErrUnexpectedResponse, call)
	}
	return env.Callsign, nil
}

// LookupDXCCEntity returns the DXCC entity with the given number.
func (c *Client) LookupDXCCEntity(ctx context.Context, entity int) (rec *DXCC, err error) {
	defer c.observe(RecordDXCC, time.Now(), &err)

	if entity <= 0 {
		return nil, &InvalidInputError{Message: fmt.Sprintf("DXCC entity number must be positive, got %d", entity)}
	}
	return c.lookupDXCC(ctx, strconv.Itoa(entity))
}

// LookupDXCCByCallsign returns the DXCC entity a callsign belongs to.
func (c *Client) LookupDXCCByCallsign(ctx context.Context, call string) (rec *DXCC, err error) {
	defer c.observe(RecordDXCC, time.Now(), &err)

	call, err = NormalizeCallsign(call)
	if err != nil {
		return nil, err
	}
	return c.lookupDXCC(ctx, call)
}

// LookupAllDXCC returns every DXCC entity.
func (c *Client) LookupAllDXCC(ctx context.Context) (recs []DXCC, err error) {
	defer c.observe(RecordDXCC, time.Now(), &err)

	env, err := c.session.Call(ctx, url.Values{"dxcc": {"all"}})
	if err != nil {
		return nil, err
	}
	if len(env.DXCC) == 0 {
		return nil, fmt.Errorf("%w: no DXCC records", ErrUnexpectedResponse)
	}
	return env.DXCC, nil
}

// LookupBiography returns the HTML biography of a callsign.
func (c *Client) LookupBiography(ctx context.Context, call string) (bio *Biography, err error) {
	defer c.observe(RecordBiography, time.Now(), &err)

	call, err = NormalizeCallsign(call)
	if err != nil {
		return nil, err
	}

	body, err := c.session.CallRaw(ctx, url.Values{"html": {call}})
	if err != nil {
		return nil, asNotFound(err, RecordCallsign, call)
	}
	if isEnvelope(body) {
		// An OK envelope instead of a page means no biography is on file.
		return &Biography{Callsign: call}, nil
	}
	return &Biography{Callsign: call, HTML: string(body)}, nil
}

func (c *Client) lookupDXCC(ctx context.Context, key string) (*DXCC, error) {
	env, err := c.session.Call(ctx, url.Values{"dxcc": {key}})
	if err != nil {
		return nil, asNotFound(err, RecordDXCC, key)
	}
	if len(env.DXCC) == 0 {
		return nil, fmt.Errorf("%w: no DXCC record for %s", ErrUnexpectedResponse, key)
	}
	return &env.DXCC[0], nil
}

func (c *Client) observe(kind string, start time.Time, err *error) {
	c.observer.LookupCompleted(kind, *err, time.Since(start))
}
