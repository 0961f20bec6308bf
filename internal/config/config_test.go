package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, 2, cfg.Game.MinActiveTeams)
	assert.Equal(t, 2, cfg.Game.MinPlayersPerTeam)
	assert.Equal(t, 10, cfg.Game.MaxWordsPerPlayer)
	assert.Equal(t, time.Minute, cfg.Game.TurnDuration)
	assert.Equal(t, 4*time.Second, cfg.Game.BonusWindow)
	assert.Equal(t, time.Hour, cfg.Registry.SweepInterval)
	assert.Equal(t, time.Hour, cfg.Registry.SessionTTL)
}

func TestDefaultConfig_StreamingTimeouts(t *testing.T) {
	cfg := DefaultConfig()

	// SSE responses stay open for a whole game; a nonzero write or idle
	// timeout would cut every stream (and the presence it carries) mid-turn.
	assert.Equal(t, time.Duration(0), cfg.Server.WriteTimeout)
	assert.Equal(t, time.Duration(0), cfg.Server.IdleTimeout)
}

func TestValidate(t *testing.T) {
	t.Run("requires port and host", func(t *testing.T) {
		cfg := DefaultConfig()
		require.Error(t, cfg.Validate())

		cfg.Server.Port = "8080"
		require.Error(t, cfg.Validate())

		cfg.Server.Host = "127.0.0.1"
		require.NoError(t, cfg.Validate())
	})

	t.Run("rejects broken game policy", func(t *testing.T) {
		cfg := DefaultConfig()
		cfg.Server.Port = "8080"
		cfg.Server.Host = "127.0.0.1"

		cfg.Game.MinActiveTeams = 0
		assert.Error(t, cfg.Validate())

		cfg.Game.MinActiveTeams = 1
		cfg.Game.TurnDuration = 0
		assert.Error(t, cfg.Validate())
	})
}

func TestGameSettings_Rules(t *testing.T) {
	cfg := DefaultConfig()
	rules := cfg.Game.Rules()

	assert.Equal(t, cfg.Game.MinActiveTeams, rules.MinActiveTeams)
	assert.Equal(t, cfg.Game.MinPlayersPerTeam, rules.MinPlayersPerTeam)
	assert.Equal(t, cfg.Game.MaxWordsPerPlayer, rules.MaxWordsPerPlayer)
	assert.Equal(t, cfg.Game.TurnDuration, rules.TurnDuration)
	assert.Equal(t, cfg.Game.BonusWindow, rules.BonusWindow)
}

func TestLoadConfig_FromEnv(t *testing.T) {
	t.Setenv("PORT", "8080")
	t.Setenv("HOST", "127.0.0.1")
	t.Setenv("TURN_DURATION", "10s")

	cfg, err := LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "127.0.0.1", cfg.Server.Host)
	assert.Equal(t, 10*time.Second, cfg.Game.TurnDuration)

	// untouched values fall back to defaults
	assert.Equal(t, 2, cfg.Game.MinActiveTeams)
	assert.Equal(t, time.Duration(0), cfg.Server.WriteTimeout)
}

func TestLoadConfig_MissingPort(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("HOST", "")

	_, err := LoadConfig("")
	require.Error(t, err)
}

func TestWriteDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "server.yaml")
	require.NoError(t, WriteDefault(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var cfg ServerConfig
	require.NoError(t, yaml.Unmarshal(data, &cfg))
	assert.Equal(t, 2, cfg.Game.MinActiveTeams)
}
