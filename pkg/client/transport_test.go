package client

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fastRetry(maxRetries int) RetryPolicy {
	return RetryPolicy{
		MaxRetries: maxRetries,
		BaseDelay:  time.Millisecond,
		MaxDelay:   5 * time.Millisecond,
		Multiplier: 2,
	}
}

func TestHTTPTransport_RetriesRetryableStatus(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		assert.Equal(t, "qrz-test/1.0", r.Header.Get("User-Agent"))
		fmt.Fprint(w, "ok")
	}))
	defer srv.Close()

	tr := NewHTTPTransport(Config{UserAgent: "qrz-test/1.0", Timeout: time.Second}, nil).WithRetryPolicy(fastRetry(3))

	body, err := tr.Send(context.Background(), http.MethodGet, srv.URL, url.Values{"callsign": {"AA7BQ"}})
	require.NoError(t, err)
	assert.Equal(t, "ok", string(body))
	assert.Equal(t, int32(3), calls.Load())
}

func TestHTTPTransport_GivesUpAfterMaxRetries(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	tr := NewHTTPTransport(Config{Timeout: time.Second}, nil).WithRetryPolicy(fastRetry(2))

	_, err := tr.Send(context.Background(), http.MethodGet, srv.URL, nil)
	var terr *TransportError
	require.True(t, errors.As(err, &terr))
	assert.Equal(t, http.StatusBadGateway, terr.StatusCode)
	assert.Equal(t, int32(3), calls.Load())
}

func TestHTTPTransport_DoesNotRetryClientErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	tr := NewHTTPTransport(Config{Timeout: time.Second}, nil).WithRetryPolicy(fastRetry(3))

	_, err := tr.Send(context.Background(), http.MethodGet, srv.URL, nil)
	assert.True(t, errors.Is(err, ErrTransport))
	assert.Equal(t, int32(1), calls.Load())
}

func TestHTTPTransport_Timeout(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer srv.Close()

	tr := NewHTTPTransport(Config{Timeout: 50 * time.Millisecond, MaxRetries: 3}, nil)

	_, err := tr.Send(context.Background(), http.MethodGet, srv.URL, nil)
	var terr *TransportError
	require.True(t, errors.As(err, &terr))
	assert.True(t, terr.Timeout())
	assert.Equal(t, int32(1), calls.Load())
}

func TestHTTPTransport_ErrorsOmitQuery(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	srv.Close()

	tr := NewHTTPTransport(Config{Timeout: time.Second}, nil)

	_, err := tr.Send(context.Background(), http.MethodGet, srv.URL+"/xml/current/", url.Values{
		"username": {testUser},
		"password": {testPassword},
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrTransport))
	assert.NotContains(t, err.Error(), testPassword)
	assert.NotContains(t, err.Error(), "password=")
	assert.Contains(t, err.Error(), "/xml/current/")
}

func TestClient_TransportErrorSurfacesFromLookup(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	srv.Close()

	c := newTestClient(t, srv.URL)

	_, err := c.LookupCallsign(context.Background(), "AA7BQ")
	require.Error(t, err)
	assert.True(t, IsRetryable(err))
	assert.NotContains(t, err.Error(), testPassword)
	assert.False(t, c.IsAuthenticated())
}

type stubTransport struct {
	calls atomic.Int32
	err   error
}

func (s *stubTransport) Send(context.Context, string, string, url.Values) ([]byte, error) {
	s.calls.Add(1)
	return nil, s.err
}

func TestClient_CustomTransportErrorIsWrapped(t *testing.T) {
	stub := &stubTransport{err: errors.New("boom")}
	c := newTestClient(t, "https://qrz.invalid/xml", WithTransport(stub))

	err := c.Authenticate(context.Background())
	var terr *TransportError
	require.True(t, errors.As(err, &terr))
	assert.Equal(t, "https://qrz.invalid/xml", terr.Endpoint)
	assert.EqualError(t, terr.Err, "boom")
	assert.Equal(t, int32(1), stub.calls.Load())
}
