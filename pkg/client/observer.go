package client

import "time"

// Observer receives session and lookup events. Implementations must be safe
// for concurrent use and must not block.
type Observer interface {
	// LoginCompleted is called after every login request, with its error.
	LoginCompleted(err error, d time.Duration)
	// SessionExpired is called when a data request was rejected for an
	// expired or invalid session and a re-login follows.
	SessionExpired()
	// LookupCompleted is called after every lookup; kind is a Record* constant.
	LookupCompleted(kind string, err error, d time.Duration)
}

type nopObserver struct{}

func (nopObserver) LoginCompleted(error, time.Duration)          {}
func (nopObserver) SessionExpired()                              {}
func (nopObserver) LookupCompleted(string, error, time.Duration) {}
