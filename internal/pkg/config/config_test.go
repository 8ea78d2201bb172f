package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/Leopold1975/notes_app/internal/pkg/config"
	"github.com/stretchr/testify/require"
)

const testConfig = `
server:
  addr: "localhost:8090"
  readTimeout: 2s
logger:
  level: debug
db:
  addr: "localhost:5432"
  sslmode: disable
auth:
  ttl: 1h
session:
  cookieName: test_session
pagination:
  pageSize: 5
`

func TestNew(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(testConfig), 0o600))

	t.Setenv("POSTGRES_USER", "notes")
	t.Setenv("POSTGRES_DB", "notes")
	t.Setenv("SECRET", "jwt-secret")
	t.Setenv("SESSION_SECRET", "session-secret")

	cfg, err := config.New(path)
	require.NoError(t, err)

	require.Equal(t, "localhost:8090", cfg.Server.Addr)
	require.Equal(t, 2*time.Second, cfg.Server.ReadTimeout)
	require.Equal(t, 10*time.Second, cfg.Server.WriteTimeout)
	require.Equal(t, "debug", cfg.Logger.Level)
	require.Equal(t, "notes", cfg.PostgresDB.Username)
	require.Equal(t, "jwt-secret", cfg.Auth.Secret)
	require.Equal(t, time.Hour, cfg.Auth.TTL)
	require.Equal(t, "test_session", cfg.Session.CookieName)
	require.Equal(t, 720*time.Hour, cfg.Session.RememberMaxAge)
	require.Equal(t, 5, cfg.Pagination.PageSize)
	require.Equal(t, 1, cfg.Pagination.SiblingCount)
	require.Equal(t, "https://www.google.com/recaptcha/api/siteverify", cfg.Recaptcha.VerifyURL)
}

func TestNewMissingSecret(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(testConfig), 0o600))

	t.Setenv("POSTGRES_USER", "notes")
	t.Setenv("POSTGRES_DB", "notes")
	t.Setenv("SECRET", "")
	t.Setenv("SESSION_SECRET", "session-secret")

	_, err := config.New(path)
	require.Error(t, err)
}
