package config

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// ErrMissingDatabaseURL is returned when no connection string is configured.
var ErrMissingDatabaseURL = errors.New("DATABASE_URL is required")

// ErrMissingJWTSecret is returned when no session signing key is configured.
var ErrMissingJWTSecret = errors.New("AUTH_JWT_SECRET is required")

// Config holds all configuration for the application
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Logging   LoggingConfig   `mapstructure:"logging"`
	Cache     CacheConfig     `mapstructure:"cache"`
	Auth      AuthConfig      `mapstructure:"auth"`
	Dashboard DashboardConfig `mapstructure:"dashboard"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
	CORS      CORSConfig      `mapstructure:"cors"`
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port         string `mapstructure:"port" validate:"required"`
	Host         string `mapstructure:"host"`
	ReadTimeout  int    `mapstructure:"read_timeout" validate:"gte=0"`
	WriteTimeout int    `mapstructure:"write_timeout" validate:"gte=0"`
	IdleTimeout  int    `mapstructure:"idle_timeout" validate:"gte=0"`
}

// DatabaseConfig holds the connection string and pool settings.
type DatabaseConfig struct {
	URL             string `mapstructure:"url"`
	MaxOpenConns    int    `mapstructure:"max_open_conns" validate:"gte=1"`
	MaxIdleConns    int    `mapstructure:"max_idle_conns" validate:"gte=0"`
	ConnMaxLifetime int    `mapstructure:"conn_max_lifetime" validate:"gte=0"`
	ConnectRetries  int    `mapstructure:"connect_retries" validate:"gte=1"`
	LogQueries      bool   `mapstructure:"log_queries"`
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	URL      string `mapstructure:"url"`
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `mapstructure:"level" validate:"oneof=trace debug info warn warning error fatal panic"`
	Format string `mapstructure:"format" validate:"oneof=json text"`
}

// CacheConfig holds caching configuration
type CacheConfig struct {
	Enabled      bool `mapstructure:"enabled"`
	DashboardTTL int  `mapstructure:"dashboard_ttl" validate:"gte=0"`
}

// AuthConfig holds session token settings.
type AuthConfig struct {
	JWTSecret string `mapstructure:"jwt_secret" validate:"required,min=16"`
	TokenTTL  int    `mapstructure:"token_ttl" validate:"gt=0"`
	Issuer    string `mapstructure:"issuer"`
}

// DashboardConfig bounds the aggregation output.
type DashboardConfig struct {
	RecentLimit int `mapstructure:"recent_limit" validate:"gte=1,lte=50"`
	TrendMonths int `mapstructure:"trend_months" validate:"gte=1,lte=120"`
}

// RateLimitConfig holds per-client request limits
type RateLimitConfig struct {
	Enabled  bool `mapstructure:"enabled"`
	Requests int  `mapstructure:"requests" validate:"gte=1"`
	Window   int  `mapstructure:"window" validate:"gte=1"`

	// TrustedProxies lists proxy addresses or CIDRs whose forwarding
	// headers are believed. Empty means the peer address is always used.
	TrustedProxies []string `mapstructure:"trusted_proxies" validate:"dive,cidr|ip"`
}

// CORSConfig holds allowed browser origins
type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.read_timeout", 30)
	v.SetDefault("server.write_timeout", 30)
	v.SetDefault("server.idle_timeout", 120)
	v.SetDefault("database.url", "")
	v.SetDefault("database.max_open_conns", 25)
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("database.conn_max_lifetime", 300)
	v.SetDefault("database.connect_retries", 5)
	v.SetDefault("database.log_queries", false)
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.db", 0)
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
	v.SetDefault("cache.enabled", true)
	v.SetDefault("cache.dashboard_ttl", 60)
	v.SetDefault("auth.token_ttl", 86400)
	v.SetDefault("auth.issuer", "philprocure")
	v.SetDefault("dashboard.recent_limit", 5)
	v.SetDefault("dashboard.trend_months", 12)
	v.SetDefault("rate_limit.enabled", true)
	v.SetDefault("rate_limit.requests", 120)
	v.SetDefault("rate_limit.window", 60)
	v.SetDefault("rate_limit.trusted_proxies", []string{})
	v.SetDefault("cors.allowed_origins", []string{"http://localhost:3000"})
}

// LoadConfig loads configuration from .env, environment and config files.
// A missing DATABASE_URL or AUTH_JWT_SECRET is reported as
// ErrMissingDatabaseURL or ErrMissingJWTSecret.
func LoadConfig() (*Config, error) {
	// .env is optional; real environment variables win.
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if err := v.BindEnv("database.url", "DATABASE_URL"); err != nil {
		return nil, err
	}
	if err := v.BindEnv("auth.jwt_secret", "AUTH_JWT_SECRET"); err != nil {
		return nil, err
	}
	if err := v.BindEnv("redis.url", "REDIS_URL"); err != nil {
		return nil, err
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

// Validate checks required settings and value ranges.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Database.URL) == "" {
		return ErrMissingDatabaseURL
	}
	if strings.TrimSpace(c.Auth.JWTSecret) == "" {
		return ErrMissingJWTSecret
	}
	return validator.New().Struct(c)
}
