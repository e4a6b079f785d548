package httpx

import (
	"log/slog"
	"net/http"

	"github.com/rahvusarhiiv/vaugate/config"
	"github.com/rahvusarhiiv/vaugate/internal/adapters/devvau"
)

// RouterServices holds the services used by the HTTP routes.
type RouterServices struct {
	Auth          AuthServiceInterface
	DevProvider   *devvau.Provider
	VAU           config.VauConfig
	HTTP          config.HTTPConfig
	IsDev         bool
	EnableLogging bool
	Logger        *slog.Logger
}

// NewRouter builds the HTTP mux for the handshake endpoints.
func NewRouter(svcs RouterServices) http.Handler {
	mux := http.NewServeMux()

	auth := &AuthHandlers{
		Svc:           svcs.Auth,
		VAU:           svcs.VAU,
		HTTP:          svcs.HTTP,
		DevProvider:   svcs.DevProvider,
		CookieDomain:  svcs.HTTP.CookieDomain,
		EnableLogging: svcs.EnableLogging,
		Logger:        svcs.Logger,
	}

	mux.HandleFunc("GET /auth/login", auth.Login)
	mux.HandleFunc("POST /auth/vau/callback", auth.Callback)
	mux.HandleFunc("GET /auth/logout", auth.Logout)
	mux.HandleFunc("GET /auth/status", auth.Status)

	if svcs.IsDev && svcs.DevProvider != nil {
		mux.HandleFunc("POST /auth/dev/login", auth.DevLogin)
	}

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	return mux
}
