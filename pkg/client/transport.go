package client

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"
)

// maxBodyBytes bounds the size of a response body read into memory.
const maxBodyBytes = 8 << 20

// Transport sends one request and returns the raw response body. query is
// encoded into the URL. Implementations must not include query values in
// errors or logs.
type Transport interface {
	Send(ctx context.Context, method, rawURL string, query url.Values) ([]byte, error)
}

// HTTPTransport is the default Transport. It applies the User-Agent, the
// per-request timeout and bounded retries of retryable HTTP statuses.
type HTTPTransport struct {
	httpClient *http.Client
	userAgent  string
	timeout    time.Duration
	retry      RetryPolicy
}

// NewHTTPTransport creates a transport from cfg. A nil httpClient gets a
// client with cfg.Timeout.
func NewHTTPTransport(cfg Config, httpClient *http.Client) *HTTPTransport {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	return &HTTPTransport{
		httpClient: httpClient,
		userAgent:  cfg.UserAgent,
		timeout:    cfg.Timeout,
		retry:      DefaultRetryPolicy(cfg.MaxRetries),
	}
}

// WithRetryPolicy returns a copy of t using p.
func (t *HTTPTransport) WithRetryPolicy(p RetryPolicy) *HTTPTransport {
	cp := *t
	cp.retry = p
	return &cp
}

// Send performs the request, retrying retryable HTTP statuses.
func (t *HTTPTransport) Send(ctx context.Context, method, rawURL string, query url.Values) ([]byte, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, &TransportError{Op: method, Endpoint: rawURL, Err: fmt.Errorf("parsing URL: %w", err)}
	}
	endpoint := u.Redacted()
	u.RawQuery = query.Encode()

	for attempt := 0; ; attempt++ {
		body, status, err := t.do(ctx, method, u, endpoint)
		if err != nil {
			return nil, err
		}
		if status < 400 {
			return body, nil
		}
		if !t.retry.shouldRetry(attempt, status) {
			return nil, &TransportError{Op: method, Endpoint: endpoint, StatusCode: status}
		}
		slog.Debug("retrying HTTP request",
			slog.String("method", method),
			slog.String("endpoint", endpoint),
			slog.Int("status", status),
			slog.Int("attempt", attempt+1),
		)
		if err := t.retry.wait(ctx, attempt); err != nil {
			return nil, &TransportError{Op: method, Endpoint: endpoint, Err: err}
		}
	}
}

func (t *HTTPTransport) do(ctx context.Context, method string, u *url.URL, endpoint string) ([]byte, int, error) {
	start := time.Now()

	if t.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, t.timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), nil)
	if err != nil {
		return nil, 0, &TransportError{Op: method, Endpoint: endpoint, Err: fmt.Errorf("creating request: %w", err)}
	}
	if t.userAgent != "" {
		req.Header.Set("User-Agent", t.userAgent)
	}
	req.Header.Set("Accept", "application/xml, text/xml, text/html")

	resp, err := t.httpClient.Do(req)
	if err != nil {
		// *url.Error carries the full URL, including credentials in the query.
		var uerr *url.Error
		if errors.As(err, &uerr) {
			err = uerr.Err
		}
		slog.Debug("HTTP request failed",
			slog.String("method", method),
			slog.String("endpoint", endpoint),
			slog.String("error", err.Error()),
			slog.Int64("duration_ms", time.Since(start).Milliseconds()),
		)
		return nil, 0, &TransportError{Op: method, Endpoint: endpoint, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, 0, &TransportError{Op: method, Endpoint: endpoint, Err: fmt.Errorf("reading body: %w", err)}
	}

	slog.Debug("HTTP request completed",
		slog.String("method", method),
		slog.String("endpoint", endpoint),
		slog.Int("status", resp.StatusCode),
		slog.Int64("duration_ms", time.Since(start).Milliseconds()),
	)
	return body, resp.StatusCode, nil
}
