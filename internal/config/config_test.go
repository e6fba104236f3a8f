package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() Config {
	return Config{
		Mode: ModeClient,
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 8008,
		},
		Client: ClientConfig{
			Host: "localhost",
			Port: 8008,
			Nick: "alice",
		},
		Engine: EngineConfig{
			Command: "java",
			Args:    []string{"-jar", "TrollInvasion.jar"},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

func TestValidConfig(t *testing.T) {
	cfg := validConfig()
	assert.NoError(t, cfg.Validate())
}

func TestServerAddr(t *testing.T) {
	cfg := validConfig()
	assert.Equal(t, "0.0.0.0:8008", cfg.Server.Addr())
}

func TestClientURL(t *testing.T) {
	cfg := validConfig()
	assert.Equal(t, "ws://localhost:8008", cfg.Client.URL())
}

func TestValidate_BadMode(t *testing.T) {
	cfg := validConfig()
	cfg.Mode = "proxy"
	assert.ErrorContains(t, cfg.Validate(), "mode")
}

func TestValidate_BadPorts(t *testing.T) {
	cfg := validConfig()
	cfg.Server.Port = 0
	assert.ErrorContains(t, cfg.Validate(), "server.port")

	cfg = validConfig()
	cfg.Client.Port = 70000
	assert.ErrorContains(t, cfg.Validate(), "client.port")
}

func TestValidate_EmptyEngineCommand(t *testing.T) {
	cfg := validConfig()
	cfg.Engine.Command = ""
	assert.ErrorContains(t, cfg.Validate(), "engine.command")
}

func TestValidate_ReservedNickCharacters(t *testing.T) {
	cfg := validConfig()
	cfg.Client.Nick = "al:ice"
	assert.Error(t, cfg.Validate())

	cfg.Client.Nick = "a,b"
	assert.Error(t, cfg.Validate())

	// Empty nick is acceptable in config; the nickname screen collects one.
	cfg.Client.Nick = ""
	assert.NoError(t, cfg.Validate())
}

func TestValidateNick(t *testing.T) {
	assert.NoError(t, ValidateNick("alice"))
	assert.Error(t, ValidateNick(""))
	assert.Error(t, ValidateNick("a b"))
	assert.Error(t, ValidateNick("a:b"))
	assert.Error(t, ValidateNick("a,b"))
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.yaml")
	err := os.WriteFile(path, []byte(`
mode: server
server:
  host: 127.0.0.1
  port: 9001
client:
  host: localhost
  port: 9001
  nick: bob
engine:
  command: ./engine
  args: ["--fast"]
logging:
  level: debug
  format: console
`), 0o600)
	require.NoError(t, err)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ModeServer, cfg.Mode)
	assert.Equal(t, "127.0.0.1:9001", cfg.Server.Addr())
	assert.Equal(t, "bob", cfg.Client.Nick)
	assert.Equal(t, "./engine", cfg.Engine.Command)
	assert.Equal(t, []string{"--fast"}, cfg.Engine.Args)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestLoad_InvalidValues(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.yaml")
	err := os.WriteFile(path, []byte(`
mode: client
client:
  host: ""
  port: -1
logging:
  level: trace
  format: json
`), 0o600)
	require.NoError(t, err)

	_, err = Load(path)
	assert.ErrorContains(t, err, "configuration validation failed")
}

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.NoError(t, cfg.Validate())
	assert.Equal(t, ModeClient, cfg.Mode)
	assert.Equal(t, 8008, cfg.Server.Port)
	assert.Equal(t, "java", cfg.Engine.Command)
}
