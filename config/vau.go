package config

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// CipherVersion selects the payload cipher generation.
type CipherVersion string

const (
	// CipherLegacy is the original ECB/hex wire format, kept for
	// compatibility with deployed VAU peers.
	CipherLegacy CipherVersion = "legacy"
	// CipherAEAD is the authenticated AES-GCM generation.
	CipherAEAD CipherVersion = "aead"
)

// UnmarshalText implements encoding.TextUnmarshaler for CipherVersion.
func (c *CipherVersion) UnmarshalText(text []byte) error {
	v := strings.ToLower(string(text))
	switch v {
	case "legacy", "aead":
		*c = CipherVersion(v)
		return nil
	default:
		return fmt.Errorf("invalid CipherVersion: %q (valid options: legacy, aead)", v)
	}
}

// AccessRulesConfig declares which access rules the deployment enforces.
// Unset rules impose no constraint.
type AccessRulesConfig struct {
	SafeLogin bool     `env:"SAFELOGIN" envDefault:"false"`
	SafeHost  bool     `env:"SAFEHOST"  envDefault:"false"`
	Safe      bool     `env:"SAFE"      envDefault:"false"`
	Employee  bool     `env:"EMPLOYEE"  envDefault:"false"`
	Roles     []string `env:"ROLES"     envSeparator:";"`
}

// DataMappingConfig configures reconciliation of VAU identities with local
// user records. Disabled means claims-only authentication.
type DataMappingConfig struct {
	Enabled bool `env:"ENABLED" envDefault:"false"`

	// IDAttribute is the local user attribute storing the VAU user id.
	IDAttribute string `env:"ID_ATTRIBUTE" envDefault:"vau_id"`

	// Scenario tags created/updated records for validation-mode selection.
	Scenario string `env:"SCENARIO"`

	// Create permits creating a local user for an unknown VAU id.
	Create bool `env:"CREATE" envDefault:"false"`

	// Update overwrites mapped attributes on every authentication.
	Update bool `env:"UPDATE" envDefault:"false"`

	// Attributes maps claim expressions to local attributes as ordered
	// "expr=attribute" pairs, e.g. "firstname=first_name;lastname=last_name".
	Attributes []string `env:"ATTRIBUTES" envSeparator:";"`
}

// ParseAttributes splits the configured "expr=attribute" pairs, preserving
// order.
func (d DataMappingConfig) ParseAttributes() ([][2]string, error) {
	pairs := make([][2]string, 0, len(d.Attributes))
	for _, raw := range d.Attributes {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		expr, attr, found := strings.Cut(raw, "=")
		if !found || strings.TrimSpace(expr) == "" || strings.TrimSpace(attr) == "" {
			return nil, fmt.Errorf("invalid attribute mapping %q (want expr=attribute)", raw)
		}
		pairs = append(pairs, [2]string{strings.TrimSpace(expr), strings.TrimSpace(attr)})
	}
	return pairs, nil
}

// DevVauConfig controls the development stand-in identity provider.
// Used when DEV=true.
type DevVauConfig struct {
	UserID    int64    `env:"USER_ID"    envDefault:"0"`
	FirstName string   `env:"FIRST_NAME" envDefault:"Dev"`
	LastName  string   `env:"LAST_NAME"  envDefault:"User"`
	Email     string   `env:"EMAIL"      envDefault:"dev@example.com"`
	Employee  bool     `env:"EMPLOYEE"   envDefault:"true"`
	SafeLogin bool     `env:"SAFELOGIN"  envDefault:"true"`
	Roles     []string `env:"ROLES"      envSeparator:";"`
}

// VauConfig groups all VAU handshake configuration.
type VauConfig struct {
	// ValidationKey is the shared secret for the payload cipher.
	// Required; startup aborts when empty.
	ValidationKey string `env:"VALIDATION_KEY"`

	// CipherVersion selects the cipher generation. Never derived from
	// payload content.
	CipherVersion CipherVersion `env:"CIPHER_VERSION" envDefault:"legacy"`

	// RequestLifetime bounds postback freshness.
	RequestLifetime time.Duration `env:"REQUEST_LIFETIME" envDefault:"60s"`

	// SessionTTL bounds issued application sessions.
	SessionTTL time.Duration `env:"SESSION_TTL" envDefault:"8h"`

	// LoginURL and LogoutURL point at the VAU instance; the gateway
	// appends remoteUrl when redirecting the browser.
	LoginURL  string `env:"LOGIN_URL"  envDefault:"https://www.ra.ee/vau/index.php/site/login?v=2&s=user"`
	LogoutURL string `env:"LOGOUT_URL" envDefault:"https://www.ra.ee/vau/index.php/site/logout"`

	// EnableLogging logs raw postback payloads for failed, non-Unauthorized
	// attempts. Server-side diagnostics only.
	EnableLogging bool `env:"ENABLE_LOGGING" envDefault:"false"`

	// Deployment namespaces session keys so unrelated apps sharing one
	// Redis cannot collide.
	Deployment string `env:"DEPLOYMENT" envDefault:"vaugate"`

	Rules   AccessRulesConfig `envPrefix:"RULE_"`
	Mapping DataMappingConfig `envPrefix:"SYNC_"`
	Dev     DevVauConfig      `envPrefix:"DEV_"`
}

// Sanitize applies guardrails to VAU configuration values.
func (v *VauConfig) Sanitize() {
	if v.RequestLifetime <= 0 {
		v.RequestLifetime = 60 * time.Second
	}
	if v.SessionTTL <= 0 {
		v.SessionTTL = 8 * time.Hour
	}
}

// Validate checks for configuration defects that must abort startup.
func (v *VauConfig) Validate() error {
	if v.ValidationKey == "" {
		return errors.New("VAU_VALIDATION_KEY must be set")
	}
	if v.Mapping.Enabled {
		if strings.TrimSpace(v.Mapping.IDAttribute) == "" {
			return errors.New("VAU_SYNC_ID_ATTRIBUTE must be set when data mapping is enabled")
		}
		if _, err := v.Mapping.ParseAttributes(); err != nil {
			return fmt.Errorf("VAU_SYNC_ATTRIBUTES: %w", err)
		}
	}
	return nil
}
