package bootstrap

import (
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"
	"github.com/rahvusarhiiv/vaugate/config"
	"github.com/rahvusarhiiv/vaugate/internal/adapters/devvau"
	redisadapter "github.com/rahvusarhiiv/vaugate/internal/adapters/redis"
	"github.com/rahvusarhiiv/vaugate/internal/cryptoutil"
	"github.com/rahvusarhiiv/vaugate/internal/data"
	domainauth "github.com/rahvusarhiiv/vaugate/internal/domain/auth"
	"github.com/rahvusarhiiv/vaugate/internal/service"
)

// AuthDeps groups dependencies for BuildAuthService.
type AuthDeps struct {
	VAU         config.VauConfig
	DB          *sql.DB // required when data mapping is enabled
	RedisClient redis.UniversalClient
	Logger      *slog.Logger
}

// BuildCipher constructs the configured payload cipher generation.
// A missing validation key aborts startup here.
//
//nolint:ireturn // generation is selected by configuration.
func BuildCipher(cfg config.VauConfig) (cryptoutil.Cipher, error) {
	switch cfg.CipherVersion {
	case config.CipherAEAD:
		return cryptoutil.New(cryptoutil.VersionAEAD, cfg.ValidationKey)
	default:
		return cryptoutil.New(cryptoutil.VersionLegacy, cfg.ValidationKey)
	}
}

// BuildAuthService wires the cipher, stores, and rule set into the
// authentication coordinator.
func BuildAuthService(deps AuthDeps) (*service.AuthService, error) {
	cipher, err := BuildCipher(deps.VAU)
	if err != nil {
		return nil, fmt.Errorf("build cipher: %w", err)
	}

	if deps.RedisClient == nil {
		return nil, fmt.Errorf("auth service requires a redis client for sessions")
	}
	sessions := redisadapter.NewSessionStore(deps.RedisClient, deps.VAU.Deployment)

	opts := service.AuthServiceOptions{
		Cipher: cipher,
		Rules: domainauth.AccessRules{
			SafeLogin: deps.VAU.Rules.SafeLogin,
			SafeHost:  deps.VAU.Rules.SafeHost,
			Safe:      deps.VAU.Rules.Safe,
			Employee:  deps.VAU.Rules.Employee,
			Roles:     deps.VAU.Rules.Roles,
		},
		Sessions:        sessions,
		RequestLifetime: deps.VAU.RequestLifetime,
		SessionTTL:      deps.VAU.SessionTTL,
		Logger:          deps.Logger,
	}

	if deps.VAU.Mapping.Enabled {
		mapping, mapErr := buildMapping(deps.VAU.Mapping)
		if mapErr != nil {
			return nil, mapErr
		}
		if deps.DB == nil {
			return nil, fmt.Errorf("data mapping is enabled but no database is configured")
		}
		opts.Mapping = mapping
		opts.Users = data.NewUserRepo(deps.DB)
	}

	return service.NewAuthService(opts)
}

func buildMapping(cfg config.DataMappingConfig) (*service.DataMapping, error) {
	pairs, err := cfg.ParseAttributes()
	if err != nil {
		return nil, fmt.Errorf("data mapping attributes: %w", err)
	}
	attrs := make([]service.AttributeMapping, 0, len(pairs))
	for _, p := range pairs {
		attrs = append(attrs, service.AttributeMapping{Expr: p[0], Attribute: p[1]})
	}
	return &service.DataMapping{
		IDAttribute: cfg.IDAttribute,
		Scenario:    cfg.Scenario,
		AllowCreate: cfg.Create,
		AllowUpdate: cfg.Update,
		Attributes:  attrs,
	}, nil
}

// BuildDevProvider constructs the development VAU stand-in when dev mode is
// enabled and a dev identity is configured. Returns nil otherwise.
func BuildDevProvider(cfg config.VauConfig, isDev bool, logger *slog.Logger) *devvau.Provider {
	if !isDev || cfg.Dev.UserID == 0 {
		return nil
	}
	cipher, err := BuildCipher(cfg)
	if err != nil {
		return nil
	}
	prov, err := devvau.NewProvider(devvau.Config{
		UserID:    cfg.Dev.UserID,
		FirstName: cfg.Dev.FirstName,
		LastName:  cfg.Dev.LastName,
		Email:     cfg.Dev.Email,
		Employee:  cfg.Dev.Employee,
		SafeLogin: cfg.Dev.SafeLogin,
		Roles:     cfg.Dev.Roles,
	}, cipher)
	if err != nil {
		if logger != nil {
			logger.Warn("dev VAU provider disabled", "error", err)
		}
		return nil
	}
	return prov
}
