package tools

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/usestring/qrz-mcp/pkg/client"
)

// Error codes for MCP tool responses.
const (
	ErrCodeNotFound             = "NOT_FOUND"
	ErrCodeAuthFailed           = "AUTH_FAILED"
	ErrCodeSubscriptionRequired = "SUBSCRIPTION_REQUIRED"
	ErrCodeRateLimited          = "RATE_LIMITED"
	ErrCodeQRZError             = "QRZ_ERROR"
	ErrCodeInvalidInput         = "INVALID_INPUT"
	ErrCodeTimeout              = "TIMEOUT"
)

// CodedError is an error with an associated error code.
type CodedError struct {
	Code    string
	Message string
	Cause   error
}

func (e *CodedError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *CodedError) Unwrap() error {
	return e.Cause
}

// WrapQRZError converts a client error to a coded error.
func WrapQRZError(err error) error {
	if err == nil {
		return nil
	}
	var coded *CodedError
	if errors.As(err, &coded) {
		return coded
	}

	coded = &CodedError{Code: ErrCodeQRZError, Message: "QRZ request failed", Cause: err}

	var (
		notFound *client.NotFoundError
		authErr  *client.AuthError
		apiErr   *client.APIError
		inputErr *client.InvalidInputError
		tErr     *client.TransportError
	)
	switch {
	case errors.As(err, &inputErr):
		coded = &CodedError{Code: ErrCodeInvalidInput, Message: inputErr.Message}
	case errors.As(err, &notFound):
		coded.Code = ErrCodeNotFound
		coded.Message = fmt.Sprintf("%s not found: %s", notFound.Kind, notFound.Key)
	case errors.As(err, &authErr), errors.Is(err, client.ErrMissingCredentials):
		coded.Code = ErrCodeAuthFailed
		coded.Message = "QRZ rejected the configured credentials"
	case errors.As(err, &apiErr) && apiErr.Kind == client.KindSubscriptionRequired:
		coded.Code = ErrCodeSubscriptionRequired
		coded.Message = "this lookup requires a QRZ XML subscription"
	case errors.As(err, &apiErr) && apiErr.Kind == client.KindRateLimited:
		coded.Code = ErrCodeRateLimited
		coded.Message = "QRZ is limiting requests, try again later"
	case errors.Is(err, context.DeadlineExceeded),
		errors.As(err, &tErr) && tErr.Timeout():
		coded.Code = ErrCodeTimeout
		coded.Message = "request timed out"
	}

	slog.Warn("QRZ API error",
		slog.String("code", coded.Code),
		slog.String("message", coded.Message),
	)

	return coded
}

// ErrNotFound creates a not found error.
func ErrNotFound(resource, id string) error {
	return &CodedError{
		Code:    ErrCodeNotFound,
		Message: fmt.Sprintf("%s not found: %s", resource, id),
	}
}

// ErrInvalidInput creates an invalid input error.
func ErrInvalidInput(message string) error {
	return &CodedError{
		Code:    ErrCodeInvalidInput,
		Message: message,
	}
}
