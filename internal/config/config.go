package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Cart store back ends.
const (
	CartStoreFile      = "file"
	CartStoreFirestore = "firestore"
)

// Auth providers.
const (
	AuthProviderJWT      = "jwt"
	AuthProviderFirebase = "firebase"
)

// Config holds all configuration for the application.
type Config struct {
	Port    string `mapstructure:"PORT"`
	GinMode string `mapstructure:"GIN_MODE"`
	AppEnv  string `mapstructure:"APP_ENV"`
	// LogLevel is a zap level name (debug, info, warn, error).
	LogLevel string `mapstructure:"LOG_LEVEL"`

	JWTSecret    string        `mapstructure:"JWT_SECRET"`
	JWTTTL       time.Duration `mapstructure:"JWT_TTL"`
	AuthProvider string        `mapstructure:"AUTH_PROVIDER"`

	DataDir     string `mapstructure:"DATA_DIR"`
	CartStore   string `mapstructure:"CART_STORE"`
	CatalogFile string `mapstructure:"CATALOG_FILE"`
	// ClientURLs is a comma separated list of allowed CORS origins.
	ClientURLs string `mapstructure:"CLIENT_URLS"`

	FirebaseProjectID                string `mapstructure:"FIREBASE_PROJECT_ID"`
	GoogleApplicationCredentials     string `mapstructure:"GOOGLE_APPLICATION_CREDENTIALS"`
	FirebaseServiceAccountJSONBase64 string `mapstructure:"FIREBASE_SERVICE_ACCOUNT_JSON_BASE64"`

	RedisAddr     string        `mapstructure:"REDIS_ADDR"`
	RedisPassword string        `mapstructure:"REDIS_PASSWORD"`
	RedisDB       int           `mapstructure:"REDIS_DB"`
	CartCacheTTL  time.Duration `mapstructure:"CART_CACHE_TTL"`

	RabbitMQURL      string `mapstructure:"RABBITMQ_URL"`
	OrderEventsQueue string `mapstructure:"ORDER_EVENTS_QUEUE"`
}

// keys lists every setting bound to an environment variable.
var keys = []string{
	"PORT", "GIN_MODE", "APP_ENV", "LOG_LEVEL",
	"JWT_SECRET", "JWT_TTL", "AUTH_PROVIDER",
	"DATA_DIR", "CART_STORE", "CATALOG_FILE", "CLIENT_URLS",
	"FIREBASE_PROJECT_ID", "GOOGLE_APPLICATION_CREDENTIALS", "FIREBASE_SERVICE_ACCOUNT_JSON_BASE64",
	"REDIS_ADDR", "REDIS_PASSWORD", "REDIS_DB", "CART_CACHE_TTL",
	"RABBITMQ_URL", "ORDER_EVENTS_QUEUE",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("PORT", "5000")
	v.SetDefault("GIN_MODE", "debug")
	v.SetDefault("APP_ENV", "dev")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("JWT_TTL", "168h")
	v.SetDefault("AUTH_PROVIDER", AuthProviderJWT)
	v.SetDefault("DATA_DIR", "data")
	v.SetDefault("CART_STORE", CartStoreFile)
	v.SetDefault("CLIENT_URLS", "http://localhost:5173,http://localhost:3000,http://localhost:5000")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("CART_CACHE_TTL", "10m")
	v.SetDefault("ORDER_EVENTS_QUEUE", "orders.placed")
}

// LoadConfig loads configuration from environment variables using Viper.
// When CONFIG_FILE is set, that file (yaml, json or toml) is read first and
// environment variables override it.
func LoadConfig() (*Config, error) {
	v := viper.New()
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	setDefaults(v)

	for _, key := range keys {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("failed to bind %s: %w", key, err)
		}
	}

	if err := v.BindEnv("CONFIG_FILE"); err != nil {
		return nil, fmt.Errorf("failed to bind CONFIG_FILE: %w", err)
	}
	if path := v.GetString("CONFIG_FILE"); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects inconsistent settings.
func (c *Config) Validate() error {
	switch c.CartStore {
	case CartStoreFile, CartStoreFirestore:
	default:
		return fmt.Errorf("CART_STORE must be %q or %q, got %q", CartStoreFile, CartStoreFirestore, c.CartStore)
	}
	switch c.AuthProvider {
	case AuthProviderJWT, AuthProviderFirebase:
	default:
		return fmt.Errorf("AUTH_PROVIDER must be %q or %q, got %q", AuthProviderJWT, AuthProviderFirebase, c.AuthProvider)
	}

	if c.Port == "" {
		return errors.New("PORT is required")
	}
	if c.DataDir == "" {
		return errors.New("DATA_DIR is required")
	}
	// Sign-up and sign-in issue JWTs under either provider.
	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET is required")
	}
	if c.JWTTTL <= 0 {
		return errors.New("JWT_TTL must be positive")
	}
	if c.UsesFirebase() && c.FirebaseProjectID == "" {
		return errors.New("FIREBASE_PROJECT_ID is required when CART_STORE=firestore or AUTH_PROVIDER=firebase")
	}
	if c.RedisAddr != "" && c.CartCacheTTL <= 0 {
		return errors.New("CART_CACHE_TTL must be positive when REDIS_ADDR is set")
	}
	return nil
}

// UsesFirebase reports whether the Firebase Admin SDK must be initialized.
func (c *Config) UsesFirebase() bool {
	return c.CartStore == CartStoreFirestore || c.AuthProvider == AuthProviderFirebase
}

// IsRelease reports whether gin runs in release mode.
func (c *Config) IsRelease() bool {
	return c.GinMode == "release"
}

// AllowedOrigins splits ClientURLs into trimmed, non-empty origins.
func (c *Config) AllowedOrigins() []string {
	var out []string
	for _, origin := range strings.Split(c.ClientURLs, ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			out = append(out, origin)
		}
	}
	return out
}
