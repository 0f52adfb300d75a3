// Package shared holds the state passed to all CLI commands.
package shared

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/example/sunlight/internal/cartclient"
)

// Context carries global CLI flags.
type Context struct {
	APIURL    string
	StatePath string
	Verbose   bool
}

// DefaultStatePath returns ~/.sunlight/state.db, or a relative path when
// the home directory is unknown.
func DefaultStatePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".sunlight", "state.db")
	}
	return filepath.Join(home, ".sunlight", "state.db")
}

// Session is an opened local cart bound to the API.
type Session struct {
	Storage *cartclient.SQLiteStorage
	Client  *cartclient.Client
	Store   *cartclient.Store
	Logger  *zap.Logger
}

// Open restores the local cart. A stored token marks the session signed in,
// which syncs with the server before Open returns.
func (c *Context) Open() (*Session, error) {
	logger, err := c.newLogger()
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(filepath.Dir(c.StatePath), 0o700); err != nil {
		return nil, fmt.Errorf("create state directory: %w", err)
	}
	storage, err := cartclient.OpenSQLiteStorage(c.StatePath)
	if err != nil {
		return nil, err
	}

	s := &Session{Storage: storage, Logger: logger}
	s.Client = cartclient.NewClient(c.APIURL, nil, s.Token)
	s.Store = cartclient.NewStore(s.Client, storage, logger)
	if err := s.Store.Load(); err != nil {
		_ = storage.Close()
		return nil, err
	}
	if s.Token() != "" {
		s.Store.SetAuthenticated(true)
		s.Store.Wait()
	}
	return s, nil
}

// Token returns the stored auth token, or "".
func (s *Session) Token() string {
	token, _, err := s.Storage.Get(cartclient.AuthTokenKey)
	if err != nil {
		s.Logger.Warn("Failed to read auth token", zap.Error(err))
		return ""
	}
	return token
}

// Close waits for background calls and closes local storage.
func (s *Session) Close() error {
	s.Store.Wait()
	_ = s.Logger.Sync()
	return s.Storage.Close()
}

func (c *Context) newLogger() (*zap.Logger, error) {
	cfg := zap.NewDevelopmentConfig()
	cfg.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
	if c.Verbose {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	cfg.DisableStacktrace = true
	return cfg.Build()
}
