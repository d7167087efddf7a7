package client

import "strings"

// ErrorKind is the classification of a server-reported failure reason.
type ErrorKind string

// Error kinds produced by Classify.
const (
	KindUnknown              ErrorKind = "unknown"
	KindNotFound             ErrorKind = "not_found"
	KindSubscriptionRequired ErrorKind = "subscription_required"
	KindConnectionRefused    ErrorKind = "connection_refused"
	KindRateLimited          ErrorKind = "rate_limited"
	KindAuthenticationFailed ErrorKind = "authentication_failed"
)

// ClassifyRule maps a reason phrase to an ErrorKind. Phrase is matched
// case-insensitively as a substring of the server's reason.
type ClassifyRule struct {
	Phrase string
	Kind   ErrorKind
}

// DefaultClassifyRules is the rule table used unless extended with
// WithClassifyRules. Rules are tried in order; the first match wins.
var DefaultClassifyRules = []ClassifyRule{
	{Phrase: "not found", Kind: KindNotFound},
	{Phrase: "subscription", Kind: KindSubscriptionRequired},
	{Phrase: "connection refused", Kind: KindConnectionRefused},
	{Phrase: "rate limit", Kind: KindRateLimited},
	{Phrase: "too many", Kind: KindRateLimited},
	{Phrase: "password", Kind: KindAuthenticationFailed},
	{Phrase: "username", Kind: KindAuthenticationFailed},
}

// Classifier turns a failure reason into a typed error.
type Classifier struct {
	rules []ClassifyRule
}

// NewClassifier returns a Classifier that tries extra before the default rules.
func NewClassifier(extra ...ClassifyRule) *Classifier {
	rules := make([]ClassifyRule, 0, len(extra)+len(DefaultClassifyRules))
	rules = append(rules, extra...)
	rules = append(rules, DefaultClassifyRules...)
	return &Classifier{rules: rules}
}

// Kind returns the ErrorKind of the first rule matching reason.
func (c *Classifier) Kind(reason string) ErrorKind {
	lower := strings.ToLower(reason)
	for _, r := range c.rules {
		if r.Phrase != "" && strings.Contains(lower, strings.ToLower(r.Phrase)) {
			return r.Kind
		}
	}
	return KindUnknown
}

// Classify maps reason to an error. Authentication failures become *AuthError;
// every other kind, including KindUnknown, becomes *APIError.
func (c *Classifier) Classify(reason string) error {
	kind := c.Kind(reason)
	if kind == KindAuthenticationFailed {
		return &AuthError{Reason: reason}
	}
	return &APIError{Kind: kind, Reason: reason}
}

// StatusRules holds the phrases that turn a server error into an
// authentication-class status instead of a plain failure.
type StatusRules struct {
	// SessionPhrases mark a rejected or expired session token.
	SessionPhrases []string
	// CredentialPhrases mark rejected credentials.
	CredentialPhrases []string
}

// DefaultStatusRules matches the wording the QRZ XML service uses.
var DefaultStatusRules = StatusRules{
	SessionPhrases: []string{
		"session timeout",
		"invalid session",
		"session key",
		"session expired",
	},
	CredentialPhrases: []string{
		"password",
		"username",
	},
}

func (r StatusRules) isAuth(reason string) bool {
	lower := strings.ToLower(reason)
	for _, phrases := range [][]string{r.SessionPhrases, r.CredentialPhrases} {
		for _, p := range phrases {
			if p != "" && strings.Contains(lower, strings.ToLower(p)) {
				return true
			}
		}
	}
	return false
}
