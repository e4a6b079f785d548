package config

// DBConfig contains PostgreSQL database configuration. The database is only
// connected when identity sync (data mapping) is enabled.
type DBConfig struct {
	Host     string `env:"HOST"     envDefault:"localhost"`
	Port     int    `env:"PORT"     envDefault:"5432"`
	User     string `env:"USER"     envDefault:"vaugate"`
	Password string `env:"PASSWORD" envDefault:"vaugate"`
	Name     string `env:"NAME"     envDefault:"vaugate"`
	SSLMode  string `env:"SSL_MODE" envDefault:"disable"` // 'disable' for local dev, 'require' for production
	// RunMigrationsOnStart controls whether startup applies migrations.
	RunMigrationsOnStart bool `env:"RUN_MIGRATIONS_ON_START" envDefault:"true"`
}

// RedisConfig contains Redis configuration for the session store.
// Multiple addresses switch the client to cluster mode; a master name
// switches it to sentinel mode.
type RedisConfig struct {
	Addrs      []string `env:"ADDRS"       envDefault:"localhost:6379" envSeparator:";"`
	Password   string   `env:"PASSWORD"    envDefault:""`
	DB         int      `env:"DB"          envDefault:"0"`
	MasterName string   `env:"MASTER_NAME" envDefault:""`
}
