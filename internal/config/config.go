package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const defaultJWTSecret = "change-me-in-production"

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig
	DB        DBConfig
	JWT       JWTConfig
	Google    ProviderConfig
	Apple     ProviderConfig
	Keys      KeysConfig
	Redis     RedisConfig
	Log       LogConfig
	CORS      CORSConfig
	RateLimit RateLimitConfig
	Email     EmailConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port         string        `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	Environment  string        `mapstructure:"environment"`
	// VerboseErrors echoes raw internal error text in 5xx responses. Development only.
	VerboseErrors bool `mapstructure:"verbose_errors"`
}

// IsDevelopment reports whether the server runs in the development environment.
func (s *ServerConfig) IsDevelopment() bool {
	return s.Environment == "development"
}

// DBConfig holds PostgreSQL connection settings.
type DBConfig struct {
	Host           string        `mapstructure:"host"`
	Port           int           `mapstructure:"port"`
	User           string        `mapstructure:"user"`
	Password       string        `mapstructure:"password"`
	Name           string        `mapstructure:"name"`
	SSLMode        string        `mapstructure:"sslmode"`
	MaxOpen        int           `mapstructure:"max_open"`
	MaxIdle        int           `mapstructure:"max_idle"`
	ConnectTimeout time.Duration `mapstructure:"connect_timeout"`
}

// DSN returns the PostgreSQL connection string.
func (d *DBConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode,
	)
}

// JWTConfig holds session token signing and expiry settings.
type JWTConfig struct {
	Secret              string        `mapstructure:"secret"`
	AccessTokenExpiry   time.Duration `mapstructure:"access_expiry"`
	RefreshTokenExpiry  time.Duration `mapstructure:"refresh_expiry"`
	Issuer              string        `mapstructure:"issuer"`
	RotateRefreshTokens bool          `mapstructure:"rotate_refresh_tokens"`
}

// ProviderConfig holds the trust settings for one identity provider.
// ClientIDs are the accepted audience values.
type ProviderConfig struct {
	ClientIDs []string `mapstructure:"client_ids"`
	Issuer    string   `mapstructure:"issuer"`
	JWKSURL   string   `mapstructure:"jwks_url"`
}

// Enabled reports whether at least one client ID is configured.
func (p *ProviderConfig) Enabled() bool {
	return len(p.ClientIDs) > 0
}

// KeysConfig holds JWKS cache settings shared by all providers.
type KeysConfig struct {
	DefaultTTL         time.Duration `mapstructure:"default_ttl"`
	MinRefreshInterval time.Duration `mapstructure:"min_refresh_interval"`
	FetchTimeout       time.Duration `mapstructure:"fetch_timeout"`
}

// RedisConfig holds the refresh token revocation store settings.
// An empty Addr disables revocation.
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// RateLimitConfig holds per-IP limits for the sign-in endpoints.
type RateLimitConfig struct {
	RPS   float64 `mapstructure:"rps"`
	Burst int     `mapstructure:"burst"`
}

// EmailConfig holds email delivery settings.
type EmailConfig struct {
	Provider    string `mapstructure:"provider"`
	Region      string `mapstructure:"region"`
	FromAddress string `mapstructure:"from_address"`
	FromName    string `mapstructure:"from_name"`
	AccessKey   string `mapstructure:"access_key"`
	SecretKey   string `mapstructure:"secret_key"`
}

// Load reads configuration from environment variables with the FEDAUTH_ prefix
// and validates it.
func Load() (*Config, error) {
	cfg := Read()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Read reads configuration without validating it. Tools that only need the
// database settings, such as cmd/migrate, use it directly.
func Read() *Config {
	v := viper.New()
	v.SetEnvPrefix("FEDAUTH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Server defaults
	v.SetDefault("server.port", ":8080")
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "15s")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.verbose_errors", false)

	// DB defaults
	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", 5432)
	v.SetDefault("db.user", "fedauth")
	v.SetDefault("db.password", "fedauth_secret")
	v.SetDefault("db.name", "fedauth_db")
	v.SetDefault("db.sslmode", "disable")
	v.SetDefault("db.max_open", 25)
	v.SetDefault("db.max_idle", 10)
	v.SetDefault("db.connect_timeout", "30s")

	// JWT defaults
	v.SetDefault("jwt.secret", defaultJWTSecret)
	v.SetDefault("jwt.access_expiry", "168h")
	v.SetDefault("jwt.refresh_expiry", "720h")
	v.SetDefault("jwt.issuer", "fedauth")
	v.SetDefault("jwt.rotate_refresh_tokens", false)

	// Identity provider defaults
	v.SetDefault("google.client_ids", "")
	v.SetDefault("google.issuer", "https://accounts.google.com")
	v.SetDefault("google.jwks_url", "https://www.googleapis.com/oauth2/v3/certs")
	v.SetDefault("apple.client_ids", "")
	v.SetDefault("apple.issuer", "https://appleid.apple.com")
	v.SetDefault("apple.jwks_url", "https://appleid.apple.com/auth/keys")

	// JWKS cache defaults
	v.SetDefault("keys.default_ttl", "1h")
	v.SetDefault("keys.min_refresh_interval", "1m")
	v.SetDefault("keys.fetch_timeout", "10s")

	// Redis defaults (empty addr disables refresh token revocation)
	v.SetDefault("redis.addr", "")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	// Log defaults
	v.SetDefault("log.level", "debug")
	v.SetDefault("log.format", "console")

	// CORS defaults (localhost origins for development)
	v.SetDefault("cors.allowed_origins", "http://localhost:3000,http://127.0.0.1:3000,http://localhost:8081")

	// Rate limit defaults
	v.SetDefault("rate_limit.rps", 5)
	v.SetDefault("rate_limit.burst", 10)

	// Email defaults
	v.SetDefault("email.provider", "noop")
	v.SetDefault("email.region", "us-east-1")
	v.SetDefault("email.from_address", "noreply@example.com")
	v.SetDefault("email.from_name", "fedauth")
	v.SetDefault("email.access_key", "")
	v.SetDefault("email.secret_key", "")

	// Bind environment variables explicitly for nested keys
	envBindings := map[string]string{
		"server.port":                "FEDAUTH_SERVER_PORT",
		"server.read_timeout":        "FEDAUTH_SERVER_READ_TIMEOUT",
		"server.write_timeout":       "FEDAUTH_SERVER_WRITE_TIMEOUT",
		"server.environment":         "FEDAUTH_SERVER_ENVIRONMENT",
		"server.verbose_errors":      "FEDAUTH_SERVER_VERBOSE_ERRORS",
		"db.host":                    "FEDAUTH_DB_HOST",
		"db.port":                    "FEDAUTH_DB_PORT",
		"db.user":                    "FEDAUTH_DB_USER",
		"db.password":                "FEDAUTH_DB_PASSWORD",
		"db.name":                    "FEDAUTH_DB_NAME",
		"db.sslmode":                 "FEDAUTH_DB_SSLMODE",
		"db.max_open":                "FEDAUTH_DB_MAX_OPEN",
		"db.max_idle":                "FEDAUTH_DB_MAX_IDLE",
		"db.connect_timeout":         "FEDAUTH_DB_CONNECT_TIMEOUT",
		"jwt.secret":                 "FEDAUTH_JWT_SECRET",
		"jwt.access_expiry":          "FEDAUTH_JWT_ACCESS_EXPIRY",
		"jwt.refresh_expiry":         "FEDAUTH_JWT_REFRESH_EXPIRY",
		"jwt.issuer":                 "FEDAUTH_JWT_ISSUER",
		"jwt.rotate_refresh_tokens":  "FEDAUTH_JWT_ROTATE_REFRESH_TOKENS",
		"google.client_ids":          "FEDAUTH_GOOGLE_CLIENT_IDS",
		"google.issuer":              "FEDAUTH_GOOGLE_ISSUER",
		"google.jwks_url":            "FEDAUTH_GOOGLE_JWKS_URL",
		"apple.client_ids":           "FEDAUTH_APPLE_CLIENT_IDS",
		"apple.issuer":               "FEDAUTH_APPLE_ISSUER",
		"apple.jwks_url":             "FEDAUTH_APPLE_JWKS_URL",
		"keys.default_ttl":           "FEDAUTH_KEYS_DEFAULT_TTL",
		"keys.min_refresh_interval":  "FEDAUTH_KEYS_MIN_REFRESH_INTERVAL",
		"keys.fetch_timeout":         "FEDAUTH_KEYS_FETCH_TIMEOUT",
		"redis.addr":                 "FEDAUTH_REDIS_ADDR",
		"redis.password":             "FEDAUTH_REDIS_PASSWORD",
		"redis.db":                   "FEDAUTH_REDIS_DB",
		"log.level":                  "FEDAUTH_LOG_LEVEL",
		"log.format":                 "FEDAUTH_LOG_FORMAT",
		"cors.allowed_origins":       "FEDAUTH_CORS_ALLOWED_ORIGINS",
		"rate_limit.rps":             "FEDAUTH_RATE_LIMIT_RPS",
		"rate_limit.burst":           "FEDAUTH_RATE_LIMIT_BURST",
		"email.provider":             "FEDAUTH_EMAIL_PROVIDER",
		"email.region":               "FEDAUTH_EMAIL_REGION",
		"email.from_address":         "FEDAUTH_EMAIL_FROM_ADDRESS",
		"email.from_name":            "FEDAUTH_EMAIL_FROM_NAME",
		"email.access_key":           "FEDAUTH_EMAIL_ACCESS_KEY",
		"email.secret_key":           "FEDAUTH_EMAIL_SECRET_KEY",
	}
	for key, env := range envBindings {
		_ = v.BindEnv(key, env)
	}

	cfg := &Config{}

	// Hosting platforms set a PORT env var. Use it if FEDAUTH_SERVER_PORT is not explicitly set.
	serverPort := v.GetString("server.port")
	if port := os.Getenv("PORT"); port != "" && os.Getenv("FEDAUTH_SERVER_PORT") == "" {
		serverPort = ":" + port
	}

	cfg.Server = ServerConfig{
		Port:          serverPort,
		ReadTimeout:   v.GetDuration("server.read_timeout"),
		WriteTimeout:  v.GetDuration("server.write_timeout"),
		Environment:   v.GetString("server.environment"),
		VerboseErrors: v.GetBool("server.verbose_errors"),
	}
	cfg.DB = DBConfig{
		Host:           v.GetString("db.host"),
		Port:           v.GetInt("db.port"),
		User:           v.GetString("db.user"),
		Password:       v.GetString("db.password"),
		Name:           v.GetString("db.name"),
		SSLMode:        v.GetString("db.sslmode"),
		MaxOpen:        v.GetInt("db.max_open"),
		MaxIdle:        v.GetInt("db.max_idle"),
		ConnectTimeout: v.GetDuration("db.connect_timeout"),
	}
	cfg.JWT = JWTConfig{
		Secret:              v.GetString("jwt.secret"),
		AccessTokenExpiry:   v.GetDuration("jwt.access_expiry"),
		RefreshTokenExpiry:  v.GetDuration("jwt.refresh_expiry"),
		Issuer:              v.GetString("jwt.issuer"),
		RotateRefreshTokens: v.GetBool("jwt.rotate_refresh_tokens"),
	}
	cfg.Google = ProviderConfig{
		ClientIDs: SplitList(v.GetString("google.client_ids")),
		Issuer:    v.GetString("google.issuer"),
		JWKSURL:   v.GetString("google.jwks_url"),
	}
	cfg.Apple = ProviderConfig{
		ClientIDs: SplitList(v.GetString("apple.client_ids")),
		Issuer:    v.GetString("apple.issuer"),
		JWKSURL:   v.GetString("apple.jwks_url"),
	}
	cfg.Keys = KeysConfig{
		DefaultTTL:         v.GetDuration("keys.default_ttl"),
		MinRefreshInterval: v.GetDuration("keys.min_refresh_interval"),
		FetchTimeout:       v.GetDuration("keys.fetch_timeout"),
	}
	cfg.Redis = RedisConfig{
		Addr:     v.GetString("redis.addr"),
		Password: v.GetString("redis.password"),
		DB:       v.GetInt("redis.db"),
	}
	cfg.Log = LogConfig{
		Level:  v.GetString("log.level"),
		Format: v.GetString("log.format"),
	}
	cfg.CORS = CORSConfig{
		AllowedOrigins: SplitList(v.GetString("cors.allowed_origins")),
	}
	cfg.RateLimit = RateLimitConfig{
		RPS:   v.GetFloat64("rate_limit.rps"),
		Burst: v.GetInt("rate_limit.burst"),
	}
	cfg.Email = EmailConfig{
		Provider:    v.GetString("email.provider"),
		Region:      v.GetString("email.region"),
		FromAddress: v.GetString("email.from_address"),
		FromName:    v.GetString("email.from_name"),
		AccessKey:   v.GetString("email.access_key"),
		SecretKey:   v.GetString("email.secret_key"),
	}

	return cfg
}

// Validate checks settings that would make the service unsafe or useless.
func (c *Config) Validate() error {
	if !c.Google.Enabled() && !c.Apple.Enabled() {
		return errors.New("config: at least one of FEDAUTH_GOOGLE_CLIENT_IDS or FEDAUTH_APPLE_CLIENT_IDS must be set")
	}
	if c.JWT.Secret == "" {
		return errors.New("config: jwt secret must not be empty")
	}
	if c.JWT.Secret == defaultJWTSecret && !c.Server.IsDevelopment() {
		return errors.New("config: FEDAUTH_JWT_SECRET must be changed outside development")
	}
	if c.JWT.AccessTokenExpiry <= 0 || c.JWT.RefreshTokenExpiry <= 0 {
		return errors.New("config: jwt expiries must be positive")
	}
	switch c.Email.Provider {
	case "noop", "ses":
	default:
		return fmt.Errorf("config: unknown email provider %q", c.Email.Provider)
	}
	return nil
}

// SplitList parses a comma-separated list, dropping blanks.
func SplitList(raw string) []string {
	var out []string
	for _, s := range strings.Split(raw, ",") {
		s = strings.TrimSpace(s)
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}
