package config

import "time"

// Config is the full service configuration. It is loaded once at startup and
// passed explicitly into component constructors; there is no ambient mutable
// configuration state.
type Config struct {
	Server         ServerConfig                   `mapstructure:"server"`
	Database       DatabaseConfig                 `mapstructure:"database"`
	Redis          RedisConfig                    `mapstructure:"redis"`
	Kafka          KafkaConfig                    `mapstructure:"kafka"`
	JWT            JWTConfig                      `mapstructure:"jwt"`
	Security       SecurityConfig                 `mapstructure:"security"`
	PasswordReset  PasswordResetConfig            `mapstructure:"password_reset"`
	OAuthProviders map[string]OAuthProviderConfig `mapstructure:"oauth_providers"`
	Logging        LoggingConfig                  `mapstructure:"logging"`
}

type ServerConfig struct {
	Port            int           `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

type DatabaseConfig struct {
	Host        string `mapstructure:"host"`
	Port        int    `mapstructure:"port"`
	User        string `mapstructure:"user"`
	Password    string `mapstructure:"password"`
	DBName      string `mapstructure:"dbname"`
	SSLMode     string `mapstructure:"sslmode"`
	AutoMigrate bool   `mapstructure:"auto_migrate"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

type KafkaConfig struct {
	Enabled bool     `mapstructure:"enabled"`
	Brokers []string `mapstructure:"brokers"`
	Topic   string   `mapstructure:"topic"`
}

// JWTConfig holds the token codec settings. The two token classes use
// distinct secrets so a leaked access secret cannot forge refresh tokens.
// TTLs are strings like "15m" or "7d"; see security.ParseTTL for the unit
// table and fallback policy.
type JWTConfig struct {
	AccessSecret    string `mapstructure:"access_secret"`
	RefreshSecret   string `mapstructure:"refresh_secret"`
	AccessTokenTTL  string `mapstructure:"access_token_ttl"`
	RefreshTokenTTL string `mapstructure:"refresh_token_ttl"`
	Issuer          string `mapstructure:"issuer"`
}

type SecurityConfig struct {
	BcryptCost   int             `mapstructure:"bcrypt_cost"`
	RateLimiting RateLimitConfig `mapstructure:"rate_limiting"`
}

type RateLimitRule struct {
	Limit  int           `mapstructure:"limit"`
	Window time.Duration `mapstructure:"window"`
}

type RateLimitConfig struct {
	Enabled       bool          `mapstructure:"enabled"`
	Login         RateLimitRule `mapstructure:"login"`
	PasswordReset RateLimitRule `mapstructure:"password_reset"`
}

type PasswordResetConfig struct {
	TokenTTL        time.Duration `mapstructure:"token_ttl"`
	TokenByteLength int           `mapstructure:"token_byte_length"`
}

type OAuthProviderConfig struct {
	ClientID     string   `mapstructure:"client_id"`
	ClientSecret string   `mapstructure:"client_secret"`
	RedirectURL  string   `mapstructure:"redirect_url"`
	Scopes       []string `mapstructure:"scopes"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}
