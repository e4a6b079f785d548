package ports

// Package ports defines interfaces (hexagonal ports) for the handshake
// engine's collaborators. Implementations live in internal/adapters and
// internal/data; orchestration in internal/service.

import (
	"context"
	"errors"

	domainauth "github.com/rahvusarhiiv/vaugate/internal/domain/auth"
)

// ErrUserNotFound is returned by UserStore.FindOne when no record matches.
var ErrUserNotFound = errors.New("user not found")

// UserStore is the narrow contract against the relying application's user
// storage. The store owns the user schema, uniqueness of the external-id
// attribute, and any retry policy; the engine only finds, constructs, and
// saves records for the duration of one authentication.
type UserStore interface {
	// FindOne looks up exactly one record whose attribute equals value.
	// Returns ErrUserNotFound when no record matches.
	FindOne(ctx context.Context, attribute string, value any) (domainauth.UserRecord, error)

	// New constructs an unsaved record, optionally tagged with a
	// validation scenario.
	New(scenario string) domainauth.UserRecord

	// Save persists a new or modified record.
	Save(ctx context.Context, rec domainauth.UserRecord) error
}

// SessionStore persists and retrieves application sessions. Keys are
// namespaced by the implementation so unrelated components sharing one
// session backend cannot collide.
type SessionStore interface {
	Save(ctx context.Context, sess domainauth.Session) error
	Get(ctx context.Context, id string) (domainauth.Session, error)
	Delete(ctx context.Context, id string) error
}
