package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	qt "github.com/frankban/quicktest"
)

func TestLoadConfigDefaults(t *testing.T) {
	c := qt.New(t)
	c.Setenv("JWT_SECRET", "test-secret")

	cfg, err := LoadConfig()
	c.Assert(err, qt.IsNil)
	c.Assert(cfg.Port, qt.Equals, "5000")
	c.Assert(cfg.JWTTTL, qt.Equals, 7*24*time.Hour)
	c.Assert(cfg.CartCacheTTL, qt.Equals, 10*time.Minute)
	c.Assert(cfg.CartStore, qt.Equals, CartStoreFile)
	c.Assert(cfg.OrderEventsQueue, qt.Equals, "orders.placed")
	c.Assert(cfg.AllowedOrigins(), qt.DeepEquals, []string{
		"http://localhost:5173", "http://localhost:3000", "http://localhost:5000",
	})
	c.Assert(cfg.UsesFirebase(), qt.IsFalse)
}

func TestLoadConfigFromEnvironment(t *testing.T) {
	c := qt.New(t)
	c.Setenv("JWT_SECRET", "test-secret")
	c.Setenv("PORT", "8081")
	c.Setenv("JWT_TTL", "2h")
	c.Setenv("REDIS_DB", "3")
	c.Setenv("CLIENT_URLS", " https://shop.example.com , ,https://admin.example.com")

	cfg, err := LoadConfig()
	c.Assert(err, qt.IsNil)
	c.Assert(cfg.Port, qt.Equals, "8081")
	c.Assert(cfg.JWTTTL, qt.Equals, 2*time.Hour)
	c.Assert(cfg.RedisDB, qt.Equals, 3)
	c.Assert(cfg.AllowedOrigins(), qt.DeepEquals, []string{"https://shop.example.com", "https://admin.example.com"})
}

func TestLoadConfigFileWithEnvOverride(t *testing.T) {
	c := qt.New(t)
	path := filepath.Join(c.TempDir(), "sunlight.yaml")
	c.Assert(os.WriteFile(path, []byte("PORT: \"7000\"\nDATA_DIR: /var/lib/sunlight\nJWT_SECRET: from-file\n"), 0o644), qt.IsNil)
	c.Setenv("CONFIG_FILE", path)
	c.Setenv("PORT", "7100")

	cfg, err := LoadConfig()
	c.Assert(err, qt.IsNil)
	c.Assert(cfg.Port, qt.Equals, "7100")
	c.Assert(cfg.DataDir, qt.Equals, "/var/lib/sunlight")
	c.Assert(cfg.JWTSecret, qt.Equals, "from-file")
}

func TestValidate(t *testing.T) {
	valid := func() Config {
		return Config{
			Port: "5000", DataDir: "data", JWTSecret: "s", JWTTTL: time.Hour,
			CartStore: CartStoreFile, AuthProvider: AuthProviderJWT,
		}
	}
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"valid", func(*Config) {}, ""},
		{"unknown store", func(c *Config) { c.CartStore = "mongo" }, `CART_STORE must be .*`},
		{"unknown provider", func(c *Config) { c.AuthProvider = "oauth" }, `AUTH_PROVIDER must be .*`},
		{"missing secret", func(c *Config) { c.JWTSecret = "" }, "JWT_SECRET is required"},
		{"firestore without project", func(c *Config) { c.CartStore = CartStoreFirestore }, "FIREBASE_PROJECT_ID is required.*"},
		{"firestore with project", func(c *Config) {
			c.CartStore = CartStoreFirestore
			c.FirebaseProjectID = "sunlight-dev"
		}, ""},
		{"redis without ttl", func(c *Config) { c.RedisAddr = "localhost:6379" }, "CART_CACHE_TTL must be positive.*"},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			c := qt.New(t)
			cfg := valid()
			test.mutate(&cfg)
			err := cfg.Validate()
			if test.wantErr == "" {
				c.Assert(err, qt.IsNil)
				return
			}
			c.Assert(err, qt.ErrorMatches, test.wantErr)
		})
	}
}
