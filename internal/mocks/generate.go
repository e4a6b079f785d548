// Package mocks provides generated mock implementations for testing.
//
// This package uses go.uber.org/mock (gomock) to generate type-safe mocks for
// the handshake engine's ports. To regenerate mocks after interface changes,
// run:
//
//	go generate ./internal/mocks
//
// Usage in tests:
//
//	ctrl := gomock.NewController(t)
//	defer ctrl.Finish()
//	store := mocks.NewMockUserStore(ctrl)
//	store.EXPECT().FindOne(gomock.Any(), "vau_id", int64(3)).Return(nil, ports.ErrUserNotFound)
package mocks

// Generate mock for the UserStore interface from internal/ports.
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=user_store_mock.go github.com/rahvusarhiiv/vaugate/internal/ports UserStore

// Generate mock for the SessionStore interface from internal/ports.
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=session_store_mock.go github.com/rahvusarhiiv/vaugate/internal/ports SessionStore
