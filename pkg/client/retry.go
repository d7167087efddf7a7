package client

import (
	"context"
	"math"
	"math/rand/v2"
	"net/http"
	"time"
)

// RetryPolicy configures retries of HTTP-level failures in HTTPTransport.
// Network errors and timeouts are never retried.
type RetryPolicy struct {
	// MaxRetries is the maximum number of retry attempts after the first request.
	MaxRetries int
	// BaseDelay is the delay before the first retry.
	BaseDelay time.Duration
	// MaxDelay caps the delay between attempts.
	MaxDelay time.Duration
	// Multiplier is the growth factor of the delay per attempt.
	Multiplier float64
	// Jitter is the randomization factor (0.0 to 1.0) applied to each delay.
	Jitter float64
}

// DefaultRetryPolicy returns the policy used by NewHTTPTransport.
func DefaultRetryPolicy(maxRetries int) RetryPolicy {
	return RetryPolicy{
		MaxRetries: maxRetries,
		BaseDelay:  500 * time.Millisecond,
		MaxDelay:   10 * time.Second,
		Multiplier: 2.0,
		Jitter:     0.2,
	}
}

// retryableStatus reports whether an HTTP status is worth another attempt.
func retryableStatus(code int) bool {
	switch code {
	case http.StatusRequestTimeout,
		http.StatusTooManyRequests,
		http.StatusInternalServerError,
		http.StatusBadGateway,
		http.StatusServiceUnavailable,
		http.StatusGatewayTimeout:
		return true
	}
	return false
}

// shouldRetry reports whether attempt (zero-based) may be followed by another.
func (p RetryPolicy) shouldRetry(attempt, statusCode int) bool {
	return attempt < p.MaxRetries && retryableStatus(statusCode)
}

// delay returns the backoff before retry number attempt.
func (p RetryPolicy) delay(attempt int) time.Duration {
	d := float64(p.BaseDelay) * math.Pow(p.Multiplier, float64(attempt))
	if d > float64(p.MaxDelay) {
		d = float64(p.MaxDelay)
	}
	if p.Jitter > 0 {
		j := d * p.Jitter
		d = d - j + rand.Float64()*2*j
	}
	return time.Duration(d)
}

// wait sleeps for the backoff of attempt or until ctx is done.
func (p RetryPolicy) wait(ctx context.Context, attempt int) error {
	timer := time.NewTimer(p.delay(attempt))
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
