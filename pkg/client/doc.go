// Package client provides a Go SDK for the QRZ.com XML data service.
//
// The service answers callsign, DXCC entity and biography lookups. Every
// request after login carries a short-lived session key; this package owns
// that key so callers never handle it directly.
//
// # Quick Start
//
//	c, err := client.New("AA7BQ", "secret", client.VersionCurrent)
//	if err != nil {
//	    return err
//	}
//	rec, err := c.LookupCallsign(ctx, "aa7bq")
//
// Use custom configuration:
//
//	c, err := client.NewWithConfig(user, pass, client.Version("1.34"), client.Config{
//	    BaseURL:    "https://xmldata.qrz.com/xml",
//	    UserAgent:  "mylogger/2.1",
//	    Timeout:    10 * time.Second,
//	    MaxRetries: 2,
//	}, client.WithHTTPClient(customHTTPClient))
//
// # Sessions
//
// The first lookup logs in. Concurrent lookups share one login. When the
// server reports an expired or invalid session the client logs in again and
// retries the request once; a second rejection is returned as *AuthError.
// Session.Info, Session.Token and Session.Restore let callers persist the
// session key across process restarts.
//
// # Errors
//
// Failures are typed and matchable with errors.Is and errors.As:
//
//	rec, err := c.LookupCallsign(ctx, "N0CALL")
//	switch {
//	case errors.Is(err, client.ErrCallsignNotFound):
//	    // no such callsign
//	case errors.Is(err, client.ErrSubscriptionRequired):
//	    // account lacks a subscription
//	case errors.Is(err, client.ErrAuthenticationFailed):
//	    // bad credentials
//	}
//
// Server wording is classified by an ordered phrase table. Unrecognized
// wording is returned as *APIError carrying the server's reason. Add rules
// with WithClassifyRules.
package client
