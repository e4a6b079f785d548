package auth

import "time"

// UserRecord is the application-side user entity reconciled against VAU
// claims. The store owns its schema and lifetime; the handshake engine only
// reads and writes attributes by name for the duration of one authentication.
type UserRecord interface {
	// Attribute returns the named attribute value, if set.
	Attribute(name string) (any, bool)
	// SetAttribute overwrites the named attribute.
	SetAttribute(name string, value any)
}

// SessionIdentity is the principal produced by a successful authentication.
// It is either backed by a reconciled local user record or, when no data
// mapping is configured, by the claims snapshot alone.
type SessionIdentity struct {
	ExternalID int64
	// User is the reconciled local record; nil in claims-only mode.
	User UserRecord
	// Claims is the snapshot persisted for claims-only identities.
	Claims Claims
}

// ClaimsOnly reports whether the identity has no backing user record.
func (s SessionIdentity) ClaimsOnly() bool { return s.User == nil }

// DenyReason classifies a failed authentication attempt. The coarse reason is
// all the remote caller may learn; raw claims and rule names stay server-side.
type DenyReason string

const (
	// DenyInvalidData covers missing, undecodable, or malformed payloads.
	DenyInvalidData DenyReason = "invalid_data"
	// DenyExpiredData covers timestamps outside the lifetime window,
	// including unparseable timestamps.
	DenyExpiredData DenyReason = "expired_data"
	// DenyUnauthorized covers failed access rules and reconciliation
	// refusals (user absent with creation disabled).
	DenyUnauthorized DenyReason = "unauthorized"
	// DenySyncFailed covers local persistence failures during create/update.
	DenySyncFailed DenyReason = "sync_failed"
)

// Outcome is the terminal result of one authentication attempt: either an
// authenticated identity or a classified denial. Constructed once per
// request, never persisted.
type Outcome struct {
	Identity *SessionIdentity
	Reason   DenyReason
}

// Authenticated reports whether the attempt succeeded.
func (o Outcome) Authenticated() bool { return o.Identity != nil }

// Session is the server-side record persisted for an authenticated browser
// session. ID is an opaque identifier (random URL-safe string).
type Session struct {
	ID       string `json:"id"`
	VauID    int64  `json:"vau_id"`
	FullName string `json:"full_name,omitempty"`
	Email    string `json:"email,omitempty"`
	// Claims carries the snapshot for claims-only identities; empty when
	// the identity is backed by a local user record.
	Claims    Claims    `json:"claims,omitempty"`
	ExpiresAt time.Time `json:"expires_at"`
}
