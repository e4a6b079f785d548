package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/rahvusarhiiv/vaugate/internal/cryptoutil"
	domainauth "github.com/rahvusarhiiv/vaugate/internal/domain/auth"
	"github.com/rahvusarhiiv/vaugate/internal/ports"
)

// AuthServiceOptions groups dependencies for AuthService.
type AuthServiceOptions struct {
	// Cipher decrypts the VAU postback payload. Required.
	Cipher cryptoutil.Cipher
	// Rules is the access rule set evaluated against claims.
	Rules domainauth.AccessRules
	// Mapping configures identity reconciliation; nil means claims-only.
	Mapping *DataMapping
	// Users is the local user store. Required when Mapping is set.
	Users ports.UserStore
	// Sessions persists application sessions. Required.
	Sessions ports.SessionStore
	// RequestLifetime bounds postback freshness; defaults to 60s.
	RequestLifetime time.Duration
	// SessionTTL bounds issued application sessions; defaults to 8h.
	SessionTTL time.Duration
	// Now overrides the clock, for tests.
	Now func() time.Time

	Logger *slog.Logger
}

// AuthService is the authentication coordinator for the VauID 2.0 postback
// handshake. One call to Authenticate runs a single linear pass
// decrypt -> parse -> freshness -> access rules -> reconciliation, with any
// failure terminal for the request. It never returns raw claims or rule
// details on the response path; those go to the server log only.
type AuthService struct {
	cipher     cryptoutil.Cipher
	rules      domainauth.AccessRules
	reconciler *reconciler
	sessions   ports.SessionStore
	lifetime   time.Duration
	sessionTTL time.Duration
	now        func() time.Time
	logger     *slog.Logger
}

// NewAuthService validates the configuration and constructs the coordinator.
// Configuration errors (missing cipher, unbound mapping, missing stores) are
// deployment defects and surface here rather than being classified
// per-request.
func NewAuthService(opts AuthServiceOptions) (*AuthService, error) {
	if opts.Cipher == nil {
		return nil, errors.New("auth service: cipher is required")
	}
	if opts.Sessions == nil {
		return nil, errors.New("auth service: session store is required")
	}

	var rec *reconciler
	if opts.Mapping != nil {
		bound, err := bindMapping(opts.Mapping)
		if err != nil {
			return nil, fmt.Errorf("auth service: %w", err)
		}
		if opts.Users == nil {
			return nil, errors.New("auth service: user store is required when data mapping is configured")
		}
		rec = &reconciler{store: opts.Users, mapping: bound}
	}

	lifetime := opts.RequestLifetime
	if lifetime <= 0 {
		lifetime = DefaultRequestLifetime
	}
	ttl := opts.SessionTTL
	if ttl <= 0 {
		ttl = 8 * time.Hour
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &AuthService{
		cipher:     opts.Cipher,
		rules:      opts.Rules,
		reconciler: rec,
		sessions:   opts.Sessions,
		lifetime:   lifetime,
		sessionTTL: ttl,
		now:        now,
		logger:     logger,
	}, nil
}

// Authenticate runs one pass of the postback handshake over the raw posted
// payload and returns the terminal outcome. Expected failures come back as a
// classified denial, never as an error.
func (s *AuthService) Authenticate(ctx context.Context, postedData string) domainauth.Outcome {
	if postedData == "" {
		return domainauth.Outcome{Reason: domainauth.DenyInvalidData}
	}

	plaintext, err := s.cipher.Decrypt(postedData)
	if err != nil {
		s.logger.DebugContext(ctx, "postback decrypt failed", "error", err)
		return domainauth.Outcome{Reason: domainauth.DenyInvalidData}
	}

	claims, err := domainauth.DecodeClaims(plaintext)
	if err != nil {
		s.logger.DebugContext(ctx, "postback claims malformed", "error", err)
		return domainauth.Outcome{Reason: domainauth.DenyInvalidData}
	}

	if err = checkFreshness(claims.Timestamp(), s.lifetime, s.now()); err != nil {
		s.logger.DebugContext(ctx, "postback not fresh", "error", err)
		return domainauth.Outcome{Reason: domainauth.DenyExpiredData}
	}

	if rule, ok := s.rules.Evaluate(claims); !ok {
		s.logger.DebugContext(ctx, "access rule denied", "rule", string(rule))
		return domainauth.Outcome{Reason: domainauth.DenyUnauthorized}
	}

	externalID, _ := claims.ID()

	if s.reconciler == nil {
		return domainauth.Outcome{Identity: &domainauth.SessionIdentity{
			ExternalID: externalID,
			Claims:     claims,
		}}
	}

	user, err := s.reconciler.reconcile(ctx, claims)
	if err != nil {
		if errors.Is(err, errCreateDisabled) {
			s.logger.DebugContext(ctx, "reconciliation denied", "vau_id", externalID)
			return domainauth.Outcome{Reason: domainauth.DenyUnauthorized}
		}
		s.logger.ErrorContext(ctx, "user sync failed", "vau_id", externalID, "error", err)
		return domainauth.Outcome{Reason: domainauth.DenySyncFailed}
	}

	return domainauth.Outcome{Identity: &domainauth.SessionIdentity{
		ExternalID: externalID,
		User:       user,
	}}
}

// Login persists an application session for an authenticated identity and
// returns it. Claims-only identities carry their claims snapshot into the
// session so the principal survives across requests without a user record.
func (s *AuthService) Login(ctx context.Context, identity domainauth.SessionIdentity) (domainauth.Session, error) {
	sess := domainauth.Session{
		ID:        generateSessionID(),
		VauID:     identity.ExternalID,
		ExpiresAt: s.now().Add(s.sessionTTL),
	}
	if identity.ClaimsOnly() {
		sess.Claims = identity.Claims
		sess.FullName = identity.Claims.String("fullname")
		sess.Email = identity.Claims.String("email")
	} else {
		if v, ok := identity.User.Attribute("email"); ok {
			sess.Email, _ = v.(string)
		}
		if v, ok := identity.User.Attribute("full_name"); ok {
			sess.FullName, _ = v.(string)
		}
	}

	if err := s.sessions.Save(ctx, sess); err != nil {
		return domainauth.Session{}, fmt.Errorf("save session: %w", err)
	}
	return sess, nil
}

var errSessionExpired = errors.New("session expired")

// GetSession retrieves a session by ID, evicting it when expired.
func (s *AuthService) GetSession(ctx context.Context, sessionID string) (*domainauth.Session, error) {
	if sessionID == "" {
		return nil, errors.New("session ID is required")
	}

	sess, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}

	if s.now().After(sess.ExpiresAt) {
		if deleteErr := s.sessions.Delete(ctx, sessionID); deleteErr != nil {
			return nil, errors.Join(errSessionExpired, fmt.Errorf("delete session: %w", deleteErr))
		}
		return nil, errSessionExpired
	}

	return &sess, nil
}

// Logout removes a session.
func (s *AuthService) Logout(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil // Nothing to logout
	}
	if err := s.sessions.Delete(ctx, sessionID); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// generateSessionID creates a cryptographically secure random session ID.
func generateSessionID() string {
	return uuid.New().String()
}
