package api

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"audit-quote/internal/config"
)

func TestNewFromConfigWithoutTelegram(t *testing.T) {
	cfg := config.Default()

	s, err := NewFromConfig("test", cfg)
	require.NoError(t, err)
	assert.Nil(t, s.notifier)
}

func TestNewFromConfigWithTelegram(t *testing.T) {
	cfg := config.Default()
	cfg.Telegram.BotToken = "123:abc"
	cfg.Telegram.ChatID = "42"

	s, err := NewFromConfig("test", cfg)
	require.NoError(t, err)
	assert.NotNil(t, s.notifier)
}
