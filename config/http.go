package config

// HTTPConfig contains HTTP server configuration.
type HTTPConfig struct {
	// Addr is the address to bind the HTTP server to.
	Addr string `env:"HTTP_ADDR" envDefault:":8080"`

	// BaseURL is the externally visible base URL of the gateway, used to
	// build the remoteUrl VAU posts back to.
	BaseURL string `env:"APP_BASE_URL" envDefault:"http://localhost:8080"`

	// CookieDomain is the domain for session cookies.
	// Leave empty to use the request domain.
	CookieDomain string `env:"APP_COOKIE_DOMAIN" envDefault:""`

	// DefaultRedirect is where the browser lands after login when no
	// return URL was recorded.
	DefaultRedirect string `env:"APP_DEFAULT_REDIRECT" envDefault:"/"`
}
