package config_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/evdokimovs/mute-unmute-poc/config"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, config.Config{
		Latency:   500 * time.Millisecond,
		Timeout:   3500 * time.Millisecond,
		Peers:     []string{"alice", "bob"},
		LogLevel:  "info",
		LogFormat: "text",
	}, cfg)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("MUTE_LATENCY", "10ms")
	t.Setenv("MUTE_TIMEOUT", "2s")
	t.Setenv("MUTE_PEERS", "carol,dave,erin")
	t.Setenv("LOG_FORMAT", "json")

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, 10*time.Millisecond, cfg.Latency)
	assert.Equal(t, 2*time.Second, cfg.Timeout)
	assert.Equal(t, []string{"carol", "dave", "erin"}, cfg.Peers)
	assert.Equal(t, "json", cfg.LogFormat)
}

func TestLoadInvalid(t *testing.T) {
	t.Setenv("MUTE_TIMEOUT", "soon")

	_, err := config.Load()
	assert.ErrorIs(t, err, config.ErrParsingConfig)
}

func TestLoadMalformedDotEnv(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("MUTE_PEERS=\"alice\n"), 0o644))
	t.Chdir(dir)

	_, err := config.Load()
	assert.ErrorIs(t, err, config.ErrParsingConfig)
}

func TestLogger(t *testing.T) {
	t.Run("text", func(t *testing.T) {
		var buf bytes.Buffer
		log, err := config.Config{LogLevel: "warn", LogFormat: "text"}.Logger(&buf)
		require.NoError(t, err)

		log.Info("hidden")
		log.Warn("shown", "peer", "alice")
		assert.NotContains(t, buf.String(), "hidden")
		assert.Contains(t, buf.String(), "msg=shown peer=alice")
	})

	t.Run("json", func(t *testing.T) {
		var buf bytes.Buffer
		log, err := config.Config{LogLevel: "debug", LogFormat: "JSON"}.Logger(&buf)
		require.NoError(t, err)

		log.Debug("event")
		assert.Contains(t, buf.String(), `"msg":"event"`)
	})

	t.Run("invalid level", func(t *testing.T) {
		_, err := config.Config{LogLevel: "loud", LogFormat: "text"}.Logger(&bytes.Buffer{})
		assert.ErrorIs(t, err, config.ErrInvalidLogLevel)
	})

	t.Run("invalid format", func(t *testing.T) {
		_, err := config.Config{LogLevel: "info", LogFormat: "xml"}.Logger(&bytes.Buffer{})
		assert.ErrorIs(t, err, config.ErrInvalidLogFormat)
	})
}
