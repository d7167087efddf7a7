package client

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// loginKey is the singleflight key shared by every login.
const loginKey = "login"

// Session owns the session token of one account. It logs in on demand,
// shares one in-flight login between concurrent callers and re-logs in once
// when the server rejects the token. A Session is safe for concurrent use.
type Session struct {
	username string
	password string
	agent    string
	endpoint string
	timeout  time.Duration

	transport  Transport
	decode     DecodeFunc
	classifier *Classifier
	observer   Observer

	mu    sync.RWMutex
	state *SessionInfo
	gen   uint64 // incremented on every installed login

	flight singleflight.Group
}

func newSession(username, password, agent, endpoint string, timeout time.Duration,
	transport Transport, decode DecodeFunc, classifier *Classifier, observer Observer) *Session {
	return &Session{
		username:   username,
		password:   password,
		agent:      agent,
		endpoint:   endpoint,
		timeout:    timeout,
		transport:  transport,
		decode:     decode,
		classifier: classifier,
		observer:   observer,
	}
}

// IsAuthenticated reports whether a session token is cached. It never
// touches the network.
func (s *Session) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state != nil
}

// Info returns a copy of the cached session state. ok is false when no
// session is cached.
func (s *Session) Info() (info SessionInfo, ok bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.state == nil {
		return SessionInfo{}, false
	}
	info = *s.state
	if info.Count != nil {
		n := *info.Count
		info.Count = &n
	}
	if info.SubExpires != nil {
		t := *info.SubExpires
		info.SubExpires = &t
	}
	return info, true
}

// Token returns the cached session key, or "" when no session is cached.
func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.state == nil {
		return ""
	}
	return s.state.Key
}

// Restore installs a session obtained earlier, e.g. loaded from disk.
// An empty key is ignored. If the server has since expired the token, the
// next Call logs in again.
func (s *Session) Restore(info SessionInfo) {
	if info.Key == "" {
		return
	}
	if info.ObtainedAt.IsZero() {
		info.ObtainedAt = time.Now()
	}
	s.install(info)
}

// EnsureSession logs in when no session is cached. Concurrent callers share
// a single login and all receive its outcome.
func (s *Session) EnsureSession(ctx context.Context) error {
	_, err := s.ensure(ctx)
	return err
}

// Login performs a fresh login even when a session is cached.
func (s *Session) Login(ctx context.Context) error {
	s.mu.RLock()
	gen := s.gen
	s.mu.RUnlock()
	return s.loginAfter(ctx, gen)
}

// Reauthenticate drops the cached session and logs in again. A login
// already in flight is joined instead of repeated; the session it installs
// still replaces the dropped one.
func (s *Session) Reauthenticate(ctx context.Context) error {
	s.mu.Lock()
	s.state = nil
	gen := s.gen
	s.mu.Unlock()
	return s.loginAfter(ctx, gen)
}

// Call sends an authenticated request with params and returns the decoded
// envelope of an OK response. A rejected session triggers exactly one
// re-login and retry; a second rejection returns *AuthError. FAIL responses
// are returned as classified errors.
func (s *Session) Call(ctx context.Context, params url.Values) (*Envelope, error) {
	env, _, err := s.call(ctx, params, false)
	return env, err
}

// CallRaw is Call for endpoints that answer with a non-XML document on
// success. The body is returned as is unless it is a QRZDatabase envelope,
// which is handled exactly like a Call response.
func (s *Session) CallRaw(ctx context.Context, params url.Values) ([]byte, error) {
	_, body, err := s.call(ctx, params, true)
	return body, err
}

func (s *Session) call(ctx context.Context, params url.Values, raw bool) (*Envelope, []byte, error) {
	key, err := s.ensure(ctx)
	if err != nil {
		return nil, nil, err
	}

	retried := false
	for {
		env, body, err := s.attempt(ctx, key, params, raw)
		if err == nil {
			return env, body, nil
		}
		if !errors.Is(err, errSessionExpired) {
			return nil, nil, err
		}
		if retried {
			return nil, nil, &AuthError{Reason: env.Reason}
		}
		retried = true

		slog.Warn("session rejected, logging in again", slog.String("reason", env.Reason))
		s.observer.SessionExpired()
		s.invalidate(key)

		key, err = s.ensure(ctx)
		if err != nil {
			return nil, nil, err
		}
	}
}

// attempt performs one data request. It returns errSessionExpired together
// with the envelope when the server rejected key.
func (s *Session) attempt(ctx context.Context, key string, params url.Values, raw bool) (*Envelope, []byte, error) {
	query := make(url.Values, len(params)+1)
	for k, v := range params {
		query[k] = v
	}
	query.Set("s", key)

	body, err := s.send(ctx, query)
	if err != nil {
		return nil, nil, err
	}
	if raw && !isEnvelope(body) {
		return nil, body, nil
	}
	env, err := s.decode(body)
	if err != nil {
		return nil, nil, err
	}
	switch env.Status {
	case StatusOK:
		s.refresh(key, env.Session)
		return env, body, nil
	case StatusAuthError:
		return env, nil, errSessionExpired
	default:
		return nil, nil, s.classifier.Classify(env.Reason)
	}
}

// ensure returns the cached key, logging in first when there is none.
func (s *Session) ensure(ctx context.Context) (string, error) {
	s.mu.RLock()
	state, gen := s.state, s.gen
	s.mu.RUnlock()
	if state != nil {
		return state.Key, nil
	}
	return s.join(ctx, gen)
}

// loginAfter runs logins until one installed after gen has succeeded.
func (s *Session) loginAfter(ctx context.Context, gen uint64) error {
	for {
		if _, err := s.join(ctx, gen); err != nil {
			return err
		}
		s.mu.RLock()
		fresh := s.gen > gen
		s.mu.RUnlock()
		if fresh {
			return nil
		}
	}
}

// join starts or joins the shared login. seen is the generation the caller
// observed; a session installed after it is reused instead of logging in.
// The login runs detached from ctx so one caller giving up does not fail
// the others; ctx only bounds how long this caller waits.
func (s *Session) join(ctx context.Context, seen uint64) (string, error) {
	ch := s.flight.DoChan(loginKey, func() (any, error) {
		s.mu.RLock()
		state, gen := s.state, s.gen
		s.mu.RUnlock()
		if state != nil && gen > seen {
			return state.Key, nil
		}

		loginCtx := context.WithoutCancel(ctx)
		if s.timeout > 0 {
			var cancel context.CancelFunc
			loginCtx, cancel = context.WithTimeout(loginCtx, s.timeout)
			defer cancel()
		}
		return s.login(loginCtx)
	})

	select {
	case <-ctx.Done():
		return "", &TransportError{Op: http.MethodGet, Endpoint: s.endpoint, Err: ctx.Err()}
	case res := <-ch:
		if res.Err != nil {
			return "", res.Err
		}
		return res.Val.(string), nil
	}
}

// login sends the credentials and installs the returned session.
func (s *Session) login(ctx context.Context) (key string, err error) {
	start := time.Now()
	defer func() { s.observer.LoginCompleted(err, time.Since(start)) }()

	query := url.Values{}
	query.Set("username", s.username)
	query.Set("password", s.password)
	if s.agent != "" {
		query.Set("agent", s.agent)
	}

	env, err := s.roundTrip(ctx, query)
	if err != nil {
		slog.Debug("login failed", slog.String("error", err.Error()))
		return "", err
	}

	switch env.Status {
	case StatusOK:
	case StatusAuthError:
		return "", &AuthError{Reason: env.Reason}
	default:
		return "", s.classifier.Classify(env.Reason)
	}

	info := env.Session
	info.ObtainedAt = time.Now()
	s.install(info)

	attrs := []any{slog.String("sub_exp", info.SubExp)}
	if info.Count != nil {
		attrs = append(attrs, slog.Int("count", *info.Count))
	}
	slog.Info("authenticated", attrs...)
	return info.Key, nil
}

func (s *Session) roundTrip(ctx context.Context, query url.Values) (*Envelope, error) {
	body, err := s.send(ctx, query)
	if err != nil {
		return nil, err
	}
	return s.decode(body)
}

func (s *Session) send(ctx context.Context, query url.Values) ([]byte, error) {
	body, err := s.transport.Send(ctx, http.MethodGet, s.endpoint, query)
	if err != nil {
		var terr *TransportError
		if !errors.As(err, &terr) {
			err = &TransportError{Op: http.MethodGet, Endpoint: s.endpoint, Err: err}
		}
		return nil, err
	}
	return body, nil
}

func (s *Session) install(info SessionInfo) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = &info
	s.gen++
}

// invalidate clears the session only if it still holds key, so a stale
// rejection never discards a newer session.
func (s *Session) invalidate(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != nil && s.state.Key == key {
		s.state = nil
	}
}

// refresh copies the counters of a data response into the cached session.
func (s *Session) refresh(key string, latest SessionInfo) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == nil || s.state.Key != key {
		return
	}
	next := *s.state
	if latest.Count != nil {
		next.Count = latest.Count
	}
	if latest.SubExp != "" {
		next.SubExp = latest.SubExp
		next.SubExpires = latest.SubExpires
	}
	if latest.GMTime != "" {
		next.GMTime = latest.GMTime
	}
	next.Message = latest.Message
	s.state = &next
}
