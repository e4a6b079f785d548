package auth

// Package auth contains domain-level types for the VauID 2.0 postback
// handshake. It is pure and free of framework/adapter concerns.

import (
	"encoding/json"
	"errors"
	"fmt"
)

// UserTypeEmployee is the VAU user type claim value for employees.
const UserTypeEmployee = 1

// Claims is the decoded VAU postback payload. VAU posts a flat JSON object;
// fields beyond the protocol-required ones (firstname, lastname, fullname,
// birthday, email, phone, lang, country, warning, ...) pass through opaquely.
// Claims are immutable once decoded; all checks are pure functions of
// claims plus configuration.
type Claims map[string]any

// DecodeClaims parses the decrypted postback payload into Claims.
// The protocol requires an integer "id"; everything else is validated at
// the point of use.
func DecodeClaims(data []byte) (Claims, error) {
	var c Claims
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("decode claims: %w", err)
	}
	if _, ok := c.ID(); !ok {
		return nil, errors.New("decode claims: missing or non-integer id")
	}
	return c, nil
}

// ID returns the external VAU user id.
func (c Claims) ID() (int64, bool) {
	switch v := c["id"].(type) {
	case float64:
		return int64(v), true
	case int64:
		return v, true
	case int:
		return int64(v), true
	case json.Number:
		n, err := v.Int64()
		return n, err == nil
	default:
		return 0, false
	}
}

// Timestamp returns the raw timestamp claim. VAU sends ISO-8601
// (e.g. "2020-01-27T14:42:31+02:00").
func (c Claims) Timestamp() string {
	s, _ := c["timestamp"].(string)
	return s
}

// Type returns the VAU user type claim (1 = employee).
func (c Claims) Type() int {
	if v, ok := c["type"].(float64); ok {
		return int(v)
	}
	if v, ok := c["type"].(int); ok {
		return v
	}
	return 0
}

// SafeLogin reports whether the user logged into VAU with an ID-card or
// Mobile-ID.
func (c Claims) SafeLogin() bool {
	v, _ := c["safelogin"].(bool)
	return v
}

// SafeHost reports whether the user logged into VAU from a recognized
// safe host.
func (c Claims) SafeHost() bool {
	v, _ := c["safehost"].(bool)
	return v
}

// Roles returns the VAU role names, in payload order.
func (c Claims) Roles() []string {
	raw, ok := c["roles"].([]any)
	if !ok {
		return nil
	}
	roles := make([]string, 0, len(raw))
	for _, r := range raw {
		if s, sok := r.(string); sok {
			roles = append(roles, s)
		}
	}
	return roles
}

// String returns a string claim by name, or "" when absent or non-string.
func (c Claims) String(key string) string {
	s, _ := c[key].(string)
	return s
}
