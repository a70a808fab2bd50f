package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default().Server.Address, cfg.Server.Address)
	assert.Equal(t, "https://api.telegram.org", cfg.Telegram.APIBaseURL)
}

func TestLoadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	src := `
server:
  address: ":9090"
  contact_rate_per_minute: 2
telegram:
  chat_id: "-1001"
  retry_count: 4
output:
  default_format: json
logging:
  level: debug
`
	require.NoError(t, os.WriteFile(path, []byte(src), 0600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":9090", cfg.Server.Address)
	assert.Equal(t, 2, cfg.Server.ContactRatePerMinute)
	assert.Equal(t, "-1001", cfg.Telegram.ChatID)
	assert.Equal(t, 4, cfg.Telegram.RetryCount)
	assert.Equal(t, "json", cfg.Output.DefaultFormat)
	assert.Equal(t, "debug", cfg.Logging.Level)
	// untouched fields keep defaults
	assert.Equal(t, 10, cfg.Telegram.TimeoutSeconds)
}

func TestLoadJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"server":{"address":":7070"}}`), 0600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":7070", cfg.Server.Address)
}

func TestLoadRejectsMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"server":`), 0600))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv(EnvBotToken, "123:abc")
	t.Setenv(EnvChatID, "42")
	t.Setenv(EnvAddr, "127.0.0.1:8181")
	t.Setenv(EnvLogLevel, "warn")

	cfg, err := Load(filepath.Join(t.TempDir(), "none.json"))
	require.NoError(t, err)
	assert.Equal(t, "123:abc", cfg.Telegram.BotToken)
	assert.Equal(t, "42", cfg.Telegram.ChatID)
	assert.True(t, cfg.Telegram.Configured())
	assert.Equal(t, "127.0.0.1:8181", cfg.Server.Address)
	assert.Equal(t, "warn", cfg.Logging.Level)
}

func TestPortEnvUsedWithoutExplicitAddr(t *testing.T) {
	t.Setenv(EnvAddr, "")
	t.Setenv("PORT", "3000")

	cfg := Default()
	cfg.ApplyEnv()
	assert.Equal(t, ":3000", cfg.Server.Address)
}

func TestLoadDotEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("TELEGRAM_CHAT_ID=from-dotenv\n"), 0600))
	t.Setenv(EnvChatID, "")
	require.NoError(t, os.Unsetenv(EnvChatID))

	LoadDotEnv(path)
	t.Cleanup(func() { os.Unsetenv(EnvChatID) })

	assert.Equal(t, "from-dotenv", os.Getenv(EnvChatID))
}

func TestSaveRoundTripYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yml")
	cfg := Default()
	cfg.Server.Address = ":6060"
	require.NoError(t, cfg.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":6060", loaded.Server.Address)
}

func TestDurations(t *testing.T) {
	cfg := Default()
	assert.Equal(t, 15*time.Second, cfg.Server.ReadTimeout())
	assert.Equal(t, 500*time.Millisecond, cfg.Telegram.RetryDelay())
	assert.Equal(t, 10*time.Second, cfg.Telegram.Timeout())
}

func TestApplyEnvTrustedProxies(t *testing.T) {
	t.Setenv(EnvProxies, "10.0.0.0/8,127.0.0.1")

	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, []string{"10.0.0.0/8", "127.0.0.1"}, cfg.Server.TrustedProxies)
	assert.Empty(t, Default().Server.TrustedProxies)
}
