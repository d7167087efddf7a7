package client

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifier_DefaultRules(t *testing.T) {
	tests := []struct {
		reason string
		want   ErrorKind
	}{
		{"Not found: INVALIDCALL", KindNotFound},
		{"NOT FOUND: W1XYZ", KindNotFound},
		{"A subscription is required to access the complete record.", KindSubscriptionRequired},
		{"Connection refused", KindConnectionRefused},
		{"Rate limit exceeded", KindRateLimited},
		{"Too many lookups", KindRateLimited},
		{"Username/password incorrect", KindAuthenticationFailed},
		{"Something strange happened", KindUnknown},
		{"", KindUnknown},
	}

	c := NewClassifier()
	for _, tt := range tests {
		t.Run(tt.reason, func(t *testing.T) {
			assert.Equal(t, tt.want, c.Kind(tt.reason))
		})
	}
}

func TestClassifier_Classify(t *testing.T) {
	c := NewClassifier()

	err := c.Classify("Username/password incorrect")
	var authErr *AuthError
	require.True(t, errors.As(err, &authErr))
	assert.Equal(t, "Username/password incorrect", authErr.Reason)

	err = c.Classify("A subscription is required")
	assert.True(t, errors.Is(err, ErrSubscriptionRequired))
	assert.True(t, IsPermissionError(err))

	err = c.Classify("Connection refused")
	assert.True(t, errors.Is(err, ErrConnectionRefused))
	assert.True(t, IsPermissionError(err))

	err = c.Classify("Too many requests")
	assert.True(t, errors.Is(err, ErrRateLimited))
	assert.True(t, IsRetryable(err))

	err = c.Classify("Database offline")
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, KindUnknown, apiErr.Kind)
	assert.Equal(t, "Database offline", apiErr.Reason)
	assert.False(t, IsRetryable(err))
	assert.False(t, IsPermissionError(err))
}

func TestClassifier_ExtraRulesFirst(t *testing.T) {
	c := NewClassifier(
		ClassifyRule{Phrase: "Database Offline", Kind: KindRateLimited},
		ClassifyRule{Phrase: "not found in archive", Kind: KindUnknown},
	)

	assert.Equal(t, KindRateLimited, c.Kind("database offline, try later"))
	assert.Equal(t, KindUnknown, c.Kind("Not found in archive"))
	assert.Equal(t, KindNotFound, c.Kind("Not found: W1AW"))
}

func TestNotFoundError_Is(t *testing.T) {
	callErr := &NotFoundError{Kind: RecordCallsign, Key: "BADCALL"}
	assert.True(t, errors.Is(callErr, ErrCallsignNotFound))
	assert.True(t, errors.Is(callErr, ErrNotFound))
	assert.False(t, errors.Is(callErr, ErrDXCCNotFound))
	assert.Equal(t, "callsign not found: BADCALL", callErr.Error())

	dxccErr := &NotFoundError{Kind: RecordDXCC, Key: "999"}
	assert.True(t, errors.Is(dxccErr, ErrDXCCNotFound))
	assert.False(t, errors.Is(dxccErr, ErrCallsignNotFound))
	assert.Equal(t, "DXCC entity not found: 999", dxccErr.Error())
}
