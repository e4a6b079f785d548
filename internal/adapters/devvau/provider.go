package devvau

// Package devvau provides a config-driven stand-in for the VAU identity
// provider in local development. It fabricates postback payloads with the
// active cipher so the full handshake path runs without a reachable VAU.

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rahvusarhiiv/vaugate/internal/cryptoutil"
)

// Config describes the development identity.
type Config struct {
	UserID    int64
	FirstName string
	LastName  string
	Email     string
	Employee  bool
	SafeLogin bool
	Roles     []string
}

// Provider fabricates VAU postbacks for the configured identity.
type Provider struct {
	cfg    Config
	cipher cryptoutil.Cipher
	now    func() time.Time
}

// NewProvider constructs a dev postback provider.
func NewProvider(cfg Config, cipher cryptoutil.Cipher) (*Provider, error) {
	if cfg.UserID == 0 {
		return nil, errors.New("devvau: UserID is required")
	}
	if cipher == nil {
		return nil, errors.New("devvau: cipher is required")
	}
	return &Provider{cfg: cfg, cipher: cipher, now: time.Now}, nil
}

// PostbackPayload returns an encrypted payload equivalent to what VAU would
// post after a successful login, timestamped now.
func (p *Provider) PostbackPayload() (string, error) {
	userType := 0
	if p.cfg.Employee {
		userType = 1
	}
	claims := map[string]any{
		"id":        p.cfg.UserID,
		"type":      userType,
		"firstname": p.cfg.FirstName,
		"lastname":  p.cfg.LastName,
		"fullname":  strings.TrimSpace(p.cfg.FirstName + " " + p.cfg.LastName),
		"email":     p.cfg.Email,
		"warning":   false,
		"safelogin": p.cfg.SafeLogin,
		"safehost":  true,
		"timestamp": p.now().Format(time.RFC3339),
		"roles":     p.cfg.Roles,
	}
	data, err := json.Marshal(claims)
	if err != nil {
		return "", fmt.Errorf("devvau: marshal claims: %w", err)
	}
	return p.cipher.Encrypt(data)
}
