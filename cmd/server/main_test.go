package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	qt "github.com/frankban/quicktest"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/example/sunlight/internal/config"
)

func testConfig(c *qt.C) *config.Config {
	return &config.Config{
		Port:         "0",
		GinMode:      "test",
		LogLevel:     "debug",
		JWTSecret:    "test-secret",
		JWTTTL:       time.Hour,
		AuthProvider: config.AuthProviderJWT,
		DataDir:      c.TempDir(),
		CartStore:    config.CartStoreFile,
		ClientURLs:   "http://localhost:5173",
	}
}

func TestNewLogger(t *testing.T) {
	c := qt.New(t)
	cfg := testConfig(c)

	logger, err := newLogger(cfg)
	c.Assert(err, qt.IsNil)
	c.Assert(logger.Core().Enabled(zapcore.DebugLevel), qt.IsTrue)

	cfg.LogLevel = "loud"
	_, err = newLogger(cfg)
	c.Assert(err, qt.ErrorMatches, `invalid LOG_LEVEL "loud".*`)
}

func TestBuildDependenciesServesRoutes(t *testing.T) {
	c := qt.New(t)
	cfg := testConfig(c)

	deps, err := buildDependencies(context.Background(), cfg, zap.NewNop())
	c.Assert(err, qt.IsNil)
	defer deps.Close(zap.NewNop())

	_, err = os.Stat(filepath.Join(cfg.DataDir, "carts.json"))
	c.Assert(err, qt.IsNil)

	router := newRouter(cfg, zap.NewNop(), deps)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	c.Assert(rec.Code, qt.Equals, http.StatusOK)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/cart", nil))
	c.Assert(rec.Code, qt.Equals, http.StatusUnauthorized)
}

func TestBuildDependenciesRejectsBadCatalog(t *testing.T) {
	c := qt.New(t)
	cfg := testConfig(c)
	cfg.CatalogFile = filepath.Join(cfg.DataDir, "missing.yaml")

	_, err := buildDependencies(context.Background(), cfg, zap.NewNop())
	c.Assert(err, qt.IsNotNil)
}
