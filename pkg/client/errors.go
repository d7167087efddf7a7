package client

import (
	"context"
	"errors"
	"fmt"
	"net"
)

// Sentinel errors for errors.Is checks.
var (
	// ErrMissingCredentials is returned when a client is built without a username or password.
	ErrMissingCredentials = errors.New("username and password are required")

	// ErrTransport matches every *TransportError.
	ErrTransport = errors.New("transport error")

	// ErrDecode matches every *DecodeError.
	ErrDecode = errors.New("malformed XML response")

	// ErrAuthenticationFailed is returned when the server rejects the credentials
	// or keeps rejecting the session after a fresh login.
	ErrAuthenticationFailed = errors.New("authentication failed")

	// ErrCallsignNotFound is returned when a callsign lookup has no record.
	ErrCallsignNotFound = errors.New("callsign not found")

	// ErrDXCCNotFound is returned when a DXCC lookup has no record.
	ErrDXCCNotFound = errors.New("DXCC entity not found")

	// ErrNotFound matches both ErrCallsignNotFound and ErrDXCCNotFound.
	ErrNotFound = errors.New("record not found")

	// ErrSubscriptionRequired is returned when the account lacks the subscription
	// needed for the requested data.
	ErrSubscriptionRequired = errors.New("a subscription is required to access this data")

	// ErrConnectionRefused is returned when the service refuses this account,
	// usually for 24 hours after abuse.
	ErrConnectionRefused = errors.New("service is refusing connections")

	// ErrRateLimited is returned when the server reports too many requests.
	ErrRateLimited = errors.New("rate limit exceeded")

	// ErrInvalidInput is returned for arguments rejected before any request is made.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnexpectedResponse is returned when an OK response lacks the expected record.
	ErrUnexpectedResponse = errors.New("unexpected response")

	// errSessionExpired triggers the single automatic re-login in Session.Call.
	// It never leaves this package.
	errSessionExpired = errors.New("session expired or invalid")
)

// TransportError represents a network, timeout, or HTTP-level failure.
// It never carries query parameters, so credentials and session keys stay out
// of error messages.
type TransportError struct {
	Op         string // HTTP method
	Endpoint   string // URL without query string
	StatusCode int    // non-zero when the server answered with an HTTP error
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s: %s returned HTTP %d", e.Op, e.Endpoint, e.StatusCode)
	}
	return fmt.Sprintf("%s: %s: %v", e.Op, e.Endpoint, e.Err)
}

// Unwrap returns the underlying error.
func (e *TransportError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is for sentinel error matching.
func (e *TransportError) Is(target error) bool {
	return target == ErrTransport
}

// Timeout reports whether the failure was caused by the configured timeout
// or a context deadline.
func (e *TransportError) Timeout() bool {
	if errors.Is(e.Err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(e.Err, &netErr) && netErr.Timeout()
}

// DecodeError represents an XML body that could not be decoded.
type DecodeError struct {
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decoding XML response: %v", e.Err)
}

// Unwrap returns the underlying error.
func (e *DecodeError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is for sentinel error matching.
func (e *DecodeError) Is(target error) bool {
	return target == ErrDecode
}

// AuthError reports rejected credentials. Reason is the server's wording.
type AuthError struct {
	Reason string
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("authentication failed: %s", e.Reason)
}

// Is implements errors.Is for sentinel error matching.
func (e *AuthError) Is(target error) bool {
	return target == ErrAuthenticationFailed
}

// NotFoundError reports a lookup key that has no record.
type NotFoundError struct {
	Kind   string // "callsign" or "dxcc"
	Key    string
	Reason string
}

func (e *NotFoundError) Error() string {
	if e.Kind == RecordDXCC {
		return fmt.Sprintf("DXCC entity not found: %s", e.Key)
	}
	return fmt.Sprintf("callsign not found: %s", e.Key)
}

// Is implements errors.Is for sentinel error matching.
func (e *NotFoundError) Is(target error) bool {
	switch target {
	case ErrNotFound:
		return true
	case ErrCallsignNotFound:
		return e.Kind == RecordCallsign
	case ErrDXCCNotFound:
		return e.Kind == RecordDXCC
	}
	return false
}

// APIError represents a FAIL status reported by the server. Kind is the
// classification of Reason; KindUnknown when no rule matched.
type APIError struct {
	Kind   ErrorKind
	Reason string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("QRZ API error: %s", e.Reason)
}

// Is implements errors.Is for sentinel error matching.
func (e *APIError) Is(target error) bool {
	switch e.Kind {
	case KindNotFound:
		return target == ErrNotFound
	case KindSubscriptionRequired:
		return target == ErrSubscriptionRequired
	case KindConnectionRefused:
		return target == ErrConnectionRefused
	case KindRateLimited:
		return target == ErrRateLimited
	case KindAuthenticationFailed:
		return target == ErrAuthenticationFailed
	}
	return false
}

// InvalidInputError reports an argument rejected before any request.
type InvalidInputError struct {
	Message string
}

func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("invalid input: %s", e.Message)
}

// Is implements errors.Is for sentinel error matching.
func (e *InvalidInputError) Is(target error) bool {
	return target == ErrInvalidInput
}

// IsRetryable reports whether err is temporary: a transport failure or a rate limit.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrTransport) || errors.Is(err, ErrRateLimited)
}

// IsPermissionError reports whether err is caused by account permissions
// rather than the request itself.
func IsPermissionError(err error) bool {
	return errors.Is(err, ErrSubscriptionRequired) || errors.Is(err, ErrConnectionRefused)
}

// asNotFound converts a NotFound classification into a *NotFoundError for
// the given record kind and key. Other errors are returned unchanged.
func asNotFound(err error, kind, key string) error {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Kind == KindNotFound {
		return &NotFoundError{Kind: kind, Key: key, Reason: apiErr.Reason}
	}
	return err
}
