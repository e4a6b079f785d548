package httpx

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rahvusarhiiv/vaugate/config"
	"github.com/rahvusarhiiv/vaugate/internal/adapters/devvau"
	domainauth "github.com/rahvusarhiiv/vaugate/internal/domain/auth"
)

// postedDataField is the form field VAU posts the encrypted payload in.
const postedDataField = "postedData"

// AuthServiceInterface defines the interface for auth service operations.
type AuthServiceInterface interface {
	Authenticate(ctx context.Context, postedData string) domainauth.Outcome
	Login(ctx context.Context, identity domainauth.SessionIdentity) (domainauth.Session, error)
	GetSession(ctx context.Context, sessionID string) (*domainauth.Session, error)
	Logout(ctx context.Context, sessionID string) error
}

// AuthHandlers provides HTTP handlers for the VAU handshake endpoints.
type AuthHandlers struct {
	Svc          AuthServiceInterface
	VAU          config.VauConfig
	HTTP         config.HTTPConfig
	DevProvider  *devvau.Provider
	CookieDomain string
	// EnableLogging logs failed postbacks server-side. Responses to the
	// remote caller stay generic regardless.
	EnableLogging bool
	Logger        *slog.Logger
}

func (h *AuthHandlers) logger() *slog.Logger {
	if h != nil && h.Logger != nil {
		return h.Logger
	}
	return slog.Default()
}

// Login redirects the browser to VAU for authentication.
// GET /auth/login?redirect_uri=<optional_redirect>.
func (h *AuthHandlers) Login(w http.ResponseWriter, r *http.Request) {
	redirectURI := safeRedirectPath(r.URL.Query().Get("redirect_uri"))
	h.setReturnCookie(w, r, redirectURI)

	loginURL, err := withRemoteURL(h.VAU.LoginURL, h.callbackURL())
	if err != nil {
		WriteError(w, ErrorParams{Code: http.StatusInternalServerError, ErrCode: "login_failed"})
		return
	}
	http.Redirect(w, r, loginURL, http.StatusFound)
}

// Callback terminates the VAU postback.
// POST /auth/vau/callback with form field "postedData".
func (h *AuthHandlers) Callback(w http.ResponseWriter, r *http.Request) {
	posted := r.PostFormValue(postedDataField)
	if posted == "" {
		h.writeBadRequest(w)
		return
	}
	h.completeLogin(w, r, posted)
}

// DevLogin short-circuits VAU in development: the stand-in provider
// fabricates a fresh postback and the normal handshake consumes it.
// POST /auth/dev/login.
func (h *AuthHandlers) DevLogin(w http.ResponseWriter, r *http.Request) {
	if h.DevProvider == nil {
		http.NotFound(w, r)
		return
	}
	posted, err := h.DevProvider.PostbackPayload()
	if err != nil {
		h.logger().ErrorContext(r.Context(), "dev postback failed", "error", err)
		WriteError(w, ErrorParams{Code: http.StatusInternalServerError, ErrCode: "dev_login_failed"})
		return
	}
	h.completeLogin(w, r, posted)
}

// completeLogin runs the handshake over a posted payload and, on success,
// issues the application session.
func (h *AuthHandlers) completeLogin(w http.ResponseWriter, r *http.Request, posted string) {
	outcome := h.Svc.Authenticate(r.Context(), posted)
	if !outcome.Authenticated() {
		h.deny(w, r, outcome.Reason)
		return
	}

	sess, err := h.Svc.Login(r.Context(), *outcome.Identity)
	if err != nil {
		h.logger().ErrorContext(r.Context(), "session issue failed", "error", err)
		WriteError(w, ErrorParams{Code: http.StatusInternalServerError, ErrCode: "login_failed"})
		return
	}

	h.setSessionCookie(w, r, sess)
	redirectURI := h.takeReturnCookie(w, r)
	http.Redirect(w, r, redirectURI, http.StatusFound)
}

// deny maps a classified denial onto the wire: Unauthorized means the user
// authenticated with VAU but lacks local privilege (403); everything else is
// a bad request (400). The response body never names the failing rule or
// carries claims.
func (h *AuthHandlers) deny(w http.ResponseWriter, r *http.Request, reason domainauth.DenyReason) {
	if reason == domainauth.DenyUnauthorized {
		WriteError(w, ErrorParams{
			Code:    http.StatusForbidden,
			ErrCode: "forbidden",
			Message: "You do not have the proper credentials to access this application.",
		})
		return
	}

	if h.EnableLogging {
		switch reason {
		case domainauth.DenyInvalidData:
			h.logger().ErrorContext(r.Context(), "invalid VAU login request")
		case domainauth.DenyExpiredData:
			h.logger().ErrorContext(r.Context(), "expired VAU login request")
		case domainauth.DenySyncFailed:
			h.logger().ErrorContext(r.Context(), "failed VAU user data sync")
		default:
			h.logger().ErrorContext(r.Context(), "unknown VAU denial", "reason", string(reason))
		}
	}
	h.writeBadRequest(w)
}

func (h *AuthHandlers) writeBadRequest(w http.ResponseWriter) {
	WriteError(w, ErrorParams{
		Code:    http.StatusBadRequest,
		ErrCode: "bad_request",
		Message: "Bad request. Please do not repeat this request again.",
	})
}

// Logout invalidates the local session and sends the browser to VAU logout.
// GET /auth/logout.
func (h *AuthHandlers) Logout(w http.ResponseWriter, r *http.Request) {
	if sessionCookie, err := r.Cookie("session_id"); err == nil {
		if logoutErr := h.Svc.Logout(r.Context(), sessionCookie.Value); logoutErr != nil {
			h.logger().WarnContext(r.Context(), "logout failed", "error", logoutErr)
		}
	}
	h.clearCookie(w, r, "session_id")

	logoutURL, err := withRemoteURL(h.VAU.LogoutURL, h.HTTP.BaseURL+h.HTTP.DefaultRedirect)
	if err != nil {
		http.Redirect(w, r, h.HTTP.DefaultRedirect, http.StatusFound)
		return
	}
	http.Redirect(w, r, logoutURL, http.StatusFound)
}

// Status returns the current authentication status.
// GET /auth/status.
func (h *AuthHandlers) Status(w http.ResponseWriter, r *http.Request) {
	sessionCookie, err := r.Cookie("session_id")
	if err != nil {
		WriteJSON(w, http.StatusOK, map[string]any{"authenticated": false})
		return
	}

	session, err := h.Svc.GetSession(r.Context(), sessionCookie.Value)
	if err != nil {
		h.clearCookie(w, r, "session_id")
		WriteJSON(w, http.StatusOK, map[string]any{"authenticated": false})
		return
	}

	WriteJSON(w, http.StatusOK, map[string]any{
		"authenticated": true,
		"user": map[string]any{
			"vau_id":    session.VauID,
			"full_name": session.FullName,
			"email":     session.Email,
		},
		"expires_at": session.ExpiresAt,
	})
}

// callbackURL is the absolute URL VAU posts back to.
func (h *AuthHandlers) callbackURL() string {
	return strings.TrimRight(h.HTTP.BaseURL, "/") + "/auth/vau/callback"
}

// withRemoteURL appends the remoteUrl parameter VAU uses for its redirects.
func withRemoteURL(base, remote string) (string, error) {
	u, err := url.Parse(base)
	if err != nil {
		return "", err
	}
	q := u.Query()
	q.Set("remoteUrl", remote)
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// setSessionCookie writes the session cookie based on the session's expiry.
func (h *AuthHandlers) setSessionCookie(w http.ResponseWriter, r *http.Request, s domainauth.Session) {
	http.SetCookie(w, &http.Cookie{
		Name:     "session_id",
		Value:    s.ID,
		Path:     "/",
		Domain:   h.CookieDomain,
		HttpOnly: true,
		Secure:   isSecureRequest(r),
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(time.Until(s.ExpiresAt).Seconds()),
	})
}

// setReturnCookie records where the browser should land after login.
func (h *AuthHandlers) setReturnCookie(w http.ResponseWriter, r *http.Request, redirectURI string) {
	http.SetCookie(w, &http.Cookie{
		Name:     "post_login_redirect",
		Value:    redirectURI,
		Path:     "/",
		Domain:   h.CookieDomain,
		HttpOnly: true,
		Secure:   isSecureRequest(r),
		SameSite: http.SameSiteLaxMode,
		MaxAge:   600, // 10 minutes
	})
}

// takeReturnCookie returns the recorded post-login redirect and clears it.
func (h *AuthHandlers) takeReturnCookie(w http.ResponseWriter, r *http.Request) string {
	redirectURI := h.HTTP.DefaultRedirect
	if redirectURI == "" {
		redirectURI = "/"
	}
	if c, err := r.Cookie("post_login_redirect"); err == nil {
		if p := safeRedirectPath(c.Value); p != "/" {
			redirectURI = p
		}
		h.clearCookie(w, r, "post_login_redirect")
	}
	return redirectURI
}

// clearCookie clears a cookie by setting it to expire immediately.
func (h *AuthHandlers) clearCookie(w http.ResponseWriter, r *http.Request, name string) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		Domain:   h.CookieDomain,
		HttpOnly: true,
		Secure:   isSecureRequest(r),
		MaxAge:   -1,
		Expires:  time.Unix(0, 0).UTC(),
		SameSite: http.SameSiteLaxMode,
	})
}

func isSecureRequest(r *http.Request) bool {
	return r.TLS != nil || strings.EqualFold(r.Header.Get("X-Forwarded-Proto"), "https")
}

// safeRedirectPath ensures the provided redirect is a same-origin relative
// path starting with "/" and not an absolute URL. Returns "/" when invalid.
func safeRedirectPath(candidate string) string {
	if candidate == "" {
		return "/"
	}
	u, err := url.Parse(candidate)
	if err != nil || u.IsAbs() || u.Host != "" || !strings.HasPrefix(u.Path, "/") {
		return "/"
	}
	return candidate
}
