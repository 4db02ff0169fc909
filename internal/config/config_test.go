package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:8000", cfg.Server.Addr)
	assert.Equal(t, "data/notable.db", cfg.Database.Path)
	assert.Empty(t, cfg.Session.Secret)
	assert.Equal(t, time.Hour, cfg.Session.TTL)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("NOTABLE_SERVER_ADDR", "127.0.0.1:9000")
	t.Setenv("NOTABLE_DATABASE_PATH", "/tmp/notes.db")
	t.Setenv("NOTABLE_SESSION_SECRET", "top-secret")
	t.Setenv("NOTABLE_SESSION_TTL", "30m")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:9000", cfg.Server.Addr)
	assert.Equal(t, "/tmp/notes.db", cfg.Database.Path)
	assert.Equal(t, "top-secret", cfg.Session.Secret)
	assert.Equal(t, 30*time.Minute, cfg.Session.TTL)
}
