package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, 2, cfg.TriunfoRevealSeconds)
	assert.Equal(t, 1500, cfg.ResolveDelayMillis)
	assert.Equal(t, 500, cfg.BidRecheckMillis)
	assert.Equal(t, 10, cfg.BidRecheckAttempts)
	assert.Equal(t, 15, cfg.HeartbeatTimeoutSeconds)
	assert.Equal(t, 50, cfg.ChatHistoryLimit)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("TRIUNFO_REVEAL_SECONDS", "5")
	t.Setenv("RESOLVE_DELAY_MS", "0")
	t.Setenv("BID_RECHECK_ATTEMPTS", "3")
	t.Setenv("CHAT_HISTORY_LIMIT", "9")

	cfg := Load()
	assert.Equal(t, 5, cfg.TriunfoRevealSeconds)
	assert.Equal(t, 0, cfg.ResolveDelayMillis)
	assert.Equal(t, 3, cfg.BidRecheckAttempts)
	assert.Equal(t, 9, cfg.ChatHistoryLimit)
}

func TestLoadIgnoresGarbage(t *testing.T) {
	t.Setenv("TRIUNFO_REVEAL_SECONDS", "soon")
	t.Setenv("HEARTBEAT_TIMEOUT_SECONDS", "-4")

	cfg := Load()
	assert.Equal(t, 2, cfg.TriunfoRevealSeconds)
	assert.Equal(t, 15, cfg.HeartbeatTimeoutSeconds)
}

func TestLoadDotEnv(t *testing.T) {
	require.NoError(t, LoadDotEnv(filepath.Join(t.TempDir(), "absent.env")))

	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("BID_RECHECK_MS=250\n"), 0o600))
	t.Setenv("BID_RECHECK_MS", "")
	os.Unsetenv("BID_RECHECK_MS")

	require.NoError(t, LoadDotEnv(path))
	assert.Equal(t, "250", os.Getenv("BID_RECHECK_MS"))
}
