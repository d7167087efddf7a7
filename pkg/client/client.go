package client

import (
	"context"
	"net/http"
	"strings"
	"time"
)

// Defaults used by New.
const (
	DefaultBaseURL    = "https://xmldata.qrz.com/xml"
	DefaultUserAgent  = "qrz-mcp-go/1.0"
	DefaultTimeout    = 30 * time.Second
	DefaultMaxRetries = 3
)

// APIVersion selects the versioned path of the XML service.
type APIVersion string

const (
	// VersionCurrent uses the latest API version.
	VersionCurrent APIVersion = "current"
	// VersionLegacy uses the unversioned base URL.
	VersionLegacy APIVersion = "legacy"
)

// Version returns an explicit API version such as "1.34".
func Version(v string) APIVersion {
	return APIVersion(strings.Trim(strings.TrimSpace(v), "/"))
}

// ParseAPIVersion parses "current", "legacy" or an explicit version number.
// An empty string is VersionCurrent.
func ParseAPIVersion(s string) (APIVersion, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", string(VersionCurrent):
		return VersionCurrent, nil
	case string(VersionLegacy):
		return VersionLegacy, nil
	}
	v := Version(s)
	for _, r := range v {
		if (r < '0' || r > '9') && r != '.' {
			return "", &InvalidInputError{Message: "unknown API version " + string(v)}
		}
	}
	return v, nil
}

// endpoint returns the request URL for baseURL under this version.
func (v APIVersion) endpoint(baseURL string) string {
	base := strings.TrimSuffix(baseURL, "/")
	if v == VersionLegacy || v == "" {
		return base
	}
	return base + "/" + string(v) + "/"
}

// Config is the transport configuration of a Client.
type Config struct {
	BaseURL    string
	UserAgent  string
	Timeout    time.Duration
	MaxRetries int
}

// DefaultConfig returns the configuration used by New.
func DefaultConfig() Config {
	return Config{
		BaseURL:    DefaultBaseURL,
		UserAgent:  DefaultUserAgent,
		Timeout:    DefaultTimeout,
		MaxRetries: DefaultMaxRetries,
	}
}

// Client is a QRZ.com XML data client.
type Client struct {
	username string
	config   Config
	version  APIVersion
	endpoint string
	session  *Session

	httpClient  *http.Client
	transport   Transport
	statusRules *StatusRules
	rules       []ClassifyRule
	observer    Observer
}

// Option is a functional option for configuring the Client.
type Option func(*Client)

// WithHTTPClient sets the HTTP client used by the default transport.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithTransport replaces the default HTTP transport.
func WithTransport(t Transport) Option {
	return func(c *Client) {
		c.transport = t
	}
}

// WithClassifyRules adds rules tried before DefaultClassifyRules.
func WithClassifyRules(rules ...ClassifyRule) Option {
	return func(c *Client) {
		c.rules = append(c.rules, rules...)
	}
}

// WithStatusRules replaces DefaultStatusRules for deriving envelope status.
func WithStatusRules(r StatusRules) Option {
	return func(c *Client) {
		c.statusRules = &r
	}
}

// WithObserver registers an Observer for session and lookup events.
func WithObserver(o Observer) Option {
	return func(c *Client) {
		c.observer = o
	}
}

// New creates a client with DefaultConfig.
func New(username, password string, version APIVersion, opts ...Option) (*Client, error) {
	return NewWithConfig(username, password, version, DefaultConfig(), opts...)
}

// NewWithConfig creates a client with an explicit configuration. Zero
// fields of cfg take their defaults.
func NewWithConfig(username, password string, version APIVersion, cfg Config, opts ...Option) (*Client, error) {
	if strings.TrimSpace(username) == "" || password == "" {
		return nil, ErrMissingCredentials
	}

	def := DefaultConfig()
	if cfg.BaseURL == "" {
		cfg.BaseURL = def.BaseURL
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = def.UserAgent
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = def.Timeout
	}
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 0
	}
	if version == "" {
		version = VersionCurrent
	}

	c := &Client{
		username: strings.TrimSpace(username),
		config:   cfg,
		version:  version,
		endpoint: version.endpoint(cfg.BaseURL),
		observer: nopObserver{},
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.transport == nil {
		c.transport = NewHTTPTransport(cfg, c.httpClient)
	}
	decode := Decode
	if c.statusRules != nil {
		decode = c.statusRules.Decode
	}

	c.session = newSession(c.username, password, cfg.UserAgent, c.endpoint, cfg.Timeout,
		c.transport, decode, NewClassifier(c.rules...), c.observer)
	return c, nil
}

// Config returns the client configuration.
func (c *Client) Config() Config {
	return c.config
}

// Username returns the account name used to log in.
func (c *Client) Username() string {
	return c.username
}

// APIVersion returns the API version in use.
func (c *Client) APIVersion() APIVersion {
	return c.version
}

// Endpoint returns the request URL derived from the base URL and version.
func (c *Client) Endpoint() string {
	return c.endpoint
}

// Session returns the session manager of this client.
func (c *Client) Session() *Session {
	return c.session
}

// Authenticate logs in unless a session is cached.
func (c *Client) Authenticate(ctx context.Context) error {
	return c.session.EnsureSession(ctx)
}

// IsAuthenticated reports whether a session is cached.
func (c *Client) IsAuthenticated() bool {
	return c.session.IsAuthenticated()
}

// SessionInfo returns the cached session state.
func (c *Client) SessionInfo() (SessionInfo, bool) {
	return c.session.Info()
}

// Reauthenticate forces a fresh login.
func (c *Client) Reauthenticate(ctx context.Context) error {
	return c.session.Reauthenticate(ctx)
}

// RestoreSession installs a previously saved session.
func (c *Client) RestoreSession(info SessionInfo) {
	c.session.Restore(info)
}
