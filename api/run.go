package api

import (
	"context"

	"go.uber.org/zap"

	"audit-quote/adapters/telegram"
	"audit-quote/internal/config"
	"audit-quote/internal/logging"
)

// NewFromConfig builds a Server from the full application config. The
// Telegram relay is attached only when both credentials are present.
func NewFromConfig(version string, cfg *config.Config) (*Server, error) {
	var opts []Option

	if cfg.Telegram.Configured() {
		client, err := telegram.New(telegram.FromSettings(cfg.Telegram))
		if err != nil {
			return nil, err
		}
		opts = append(opts, WithNotifier(client))
	} else {
		logging.Warn("telegram credentials missing, /contact will report a configuration error",
			zap.String("token_env", config.EnvBotToken),
			zap.String("chat_env", config.EnvChatID),
		)
	}

	return NewServer(version, cfg.Server, opts...), nil
}

// Run serves the API described by cfg until ctx is cancelled.
func Run(ctx context.Context, version string, cfg *config.Config) error {
	s, err := NewFromConfig(version, cfg)
	if err != nil {
		return err
	}
	return s.ListenAndServe(ctx)
}
