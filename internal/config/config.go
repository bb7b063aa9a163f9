package config

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server   ServerConfig   `mapstructure:"server" validate:"required"`
	Database DatabaseConfig `mapstructure:"database" validate:"required"`
	Auth     AuthConfig     `mapstructure:"auth" validate:"required"`
	Redis    RedisConfig    `mapstructure:"redis" validate:"required"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port" validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
	// ShutdownTimeoutSeconds bounds graceful shutdown of in-flight requests.
	ShutdownTimeoutSeconds int `mapstructure:"shutdown_timeout_seconds" validate:"gt=0"`
}

// DatabaseConfig contains all database-related configuration settings.
type DatabaseConfig struct {
	URL          string `mapstructure:"url" validate:"required,url"`
	MaxOpenConns int    `mapstructure:"max_open_conns" validate:"gt=0"`
	MaxIdleConns int    `mapstructure:"max_idle_conns" validate:"gte=0"`
}

// AuthConfig contains session token and cookie settings.
type AuthConfig struct {
	SessionSecret          string `mapstructure:"session_secret" validate:"required,min=32"`
	SessionLifetimeMinutes int    `mapstructure:"session_lifetime_minutes" validate:"required,gt=0"`
	CookieName             string `mapstructure:"cookie_name" validate:"required"`
	CookieSecure           bool   `mapstructure:"cookie_secure"`
	BcryptCost             int    `mapstructure:"bcrypt_cost" validate:"gte=4,lte=31"`
}

// RedisConfig points at the Redis instance holding revoked sessions.
type RedisConfig struct {
	Addr      string `mapstructure:"addr" validate:"required,hostname_port"`
	Password  string `mapstructure:"password"`
	DB        int    `mapstructure:"db" validate:"gte=0"`
	KeyPrefix string `mapstructure:"key_prefix" validate:"required"`
}
