package config

import (
	"testing"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parseConfig(t *testing.T, vars map[string]string) AppConfig {
	t.Helper()
	for k, v := range vars {
		t.Setenv(k, v)
	}
	var cfg AppConfig
	require.NoError(t, env.Parse(&cfg))
	cfg.Sanitize()
	return cfg
}

func TestAppConfig_Defaults(t *testing.T) {
	cfg := parseConfig(t, map[string]string{"VAU_VALIDATION_KEY": "secret"})

	require.NoError(t, cfg.Validate())
	assert.False(t, cfg.IsDev)
	assert.Equal(t, CipherLegacy, cfg.VAU.CipherVersion)
	assert.Equal(t, 60*time.Second, cfg.VAU.RequestLifetime)
	assert.Equal(t, 8*time.Hour, cfg.VAU.SessionTTL)
	assert.Equal(t, "vaugate", cfg.VAU.Deployment)
	assert.Contains(t, cfg.VAU.LoginURL, "ra.ee")
	assert.Equal(t, "vau_id", cfg.VAU.Mapping.IDAttribute)
	assert.False(t, cfg.VAU.Mapping.Enabled)
	assert.Equal(t, ":8080", cfg.HTTP.Addr)
	assert.Equal(t, []string{"localhost:6379"}, cfg.Redis.Addrs)
	assert.True(t, cfg.Postgres.RunMigrationsOnStart)
}

func TestAppConfig_ValidationKeyRequired(t *testing.T) {
	cfg := parseConfig(t, nil)
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "VAU_VALIDATION_KEY")
}

func TestCipherVersion_Unmarshal(t *testing.T) {
	cfg := parseConfig(t, map[string]string{
		"VAU_VALIDATION_KEY": "secret",
		"VAU_CIPHER_VERSION": "AEAD",
	})
	assert.Equal(t, CipherAEAD, cfg.VAU.CipherVersion)

	t.Setenv("VAU_CIPHER_VERSION", "rot13")
	var bad AppConfig
	require.Error(t, env.Parse(&bad))
}

func TestAccessRulesConfig(t *testing.T) {
	cfg := parseConfig(t, map[string]string{
		"VAU_VALIDATION_KEY": "secret",
		"VAU_RULE_EMPLOYEE":  "true",
		"VAU_RULE_SAFE":      "true",
		"VAU_RULE_ROLES":     "ClientManager;Admin",
	})

	assert.True(t, cfg.VAU.Rules.Employee)
	assert.True(t, cfg.VAU.Rules.Safe)
	assert.False(t, cfg.VAU.Rules.SafeLogin)
	assert.Equal(t, []string{"ClientManager", "Admin"}, cfg.VAU.Rules.Roles)
}

func TestDataMappingConfig(t *testing.T) {
	cfg := parseConfig(t, map[string]string{
		"VAU_VALIDATION_KEY":  "secret",
		"VAU_SYNC_ENABLED":    "true",
		"VAU_SYNC_SCENARIO":   "vau",
		"VAU_SYNC_CREATE":     "true",
		"VAU_SYNC_ATTRIBUTES": "firstname=first_name;lastname=last_name; fullname = full_name ",
	})
	require.NoError(t, cfg.Validate())

	pairs, err := cfg.VAU.Mapping.ParseAttributes()
	require.NoError(t, err)
	assert.Equal(t, [][2]string{
		{"firstname", "first_name"},
		{"lastname", "last_name"},
		{"fullname", "full_name"},
	}, pairs)
}

func TestDataMappingConfig_InvalidPair(t *testing.T) {
	cfg := parseConfig(t, map[string]string{
		"VAU_VALIDATION_KEY":  "secret",
		"VAU_SYNC_ENABLED":    "true",
		"VAU_SYNC_ATTRIBUTES": "firstname",
	})
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "VAU_SYNC_ATTRIBUTES")
}

func TestSanitize_ClampsDurations(t *testing.T) {
	cfg := parseConfig(t, map[string]string{
		"VAU_VALIDATION_KEY":   "secret",
		"VAU_REQUEST_LIFETIME": "-5s",
		"VAU_SESSION_TTL":      "0s",
	})

	assert.Equal(t, 60*time.Second, cfg.VAU.RequestLifetime)
	assert.Equal(t, 8*time.Hour, cfg.VAU.SessionTTL)
}

func TestDetectDevMode(t *testing.T) {
	cfg := parseConfig(t, map[string]string{
		"VAU_VALIDATION_KEY": "secret",
		"APP_ENV":            "development",
	})
	assert.True(t, cfg.IsDev)
}
