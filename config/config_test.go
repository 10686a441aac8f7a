package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	viper.Reset()
	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.HTTPAddress)
	assert.Equal(t, ":8081", cfg.Server.RPCAddress)
	assert.Equal(t, ":9090", cfg.Server.MetricsAddress)
	assert.Equal(t, "words.txt", cfg.Dictionary.Path)
	assert.Equal(t, 10, cfg.Game.LobbyTimeout)
	assert.Empty(t, cfg.Server.Token)
}

func TestLoadConfig_FromFile(t *testing.T) {
	viper.Reset()
	dir := t.TempDir()
	yaml := `
server:
  http_address: ":9000"
dictionary:
  path: "/data/words.txt"
game:
  lobby_timeout: 3
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0o644))

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)

	assert.Equal(t, ":9000", cfg.Server.HTTPAddress)
	assert.Equal(t, ":8081", cfg.Server.RPCAddress, "unset keys keep their defaults")
	assert.Equal(t, "/data/words.txt", cfg.Dictionary.Path)
	assert.Equal(t, 3, cfg.Game.LobbyTimeout)
}

func TestLoadConfig_TokenFromEnv(t *testing.T) {
	viper.Reset()
	t.Setenv("WORDBOMB_TOKEN", "sekrit")

	cfg, err := LoadConfig(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, "sekrit", cfg.Server.Token)
}

func TestLoadConfig_MalformedFile(t *testing.T) {
	viper.Reset()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("server: [oops"), 0o644))

	_, err := LoadConfig(dir)
	assert.Error(t, err)
}

func TestLobbyTimeoutDuration(t *testing.T) {
	cfg := GameConfig{LobbyTimeout: 5}
	assert.Equal(t, 5*time.Minute, cfg.LobbyTimeoutDuration())
}
