// Package telegram relays notifications to a chat through the Telegram Bot API.
package telegram

import (
	"bytes"
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"audit-quote/internal/config"
	"audit-quote/internal/errors"
	"audit-quote/internal/logging"
)

// DefaultAPIBaseURL is the public Bot API root.
const DefaultAPIBaseURL = "https://api.telegram.org"

// Config configures the client
type Config struct {
	// APIBaseURL is the Bot API root, overridable for tests
	APIBaseURL string `json:"api_base_url"`

	// BotToken authenticates the bot
	BotToken string `json:"-"`

	// ChatID receives every message
	ChatID string `json:"chat_id"`

	// Timeout for requests
	Timeout time.Duration `json:"timeout"`

	// RetryCount for failed requests
	RetryCount int `json:"retry_count"`

	// RetryDelay between retries
	RetryDelay time.Duration `json:"retry_delay"`

	// RequestsPerMinute bounds outbound calls. Zero disables the limit.
	RequestsPerMinute int `json:"requests_per_minute"`
}

// DefaultConfig returns sensible defaults
func DefaultConfig() *Config {
	return &Config{
		APIBaseURL:        DefaultAPIBaseURL,
		Timeout:           10 * time.Second,
		RetryCount:        2,
		RetryDelay:        500 * time.Millisecond,
		RequestsPerMinute: 20,
	}
}

// FromSettings builds a client config from the application settings.
func FromSettings(s config.TelegramConfig) *Config {
	cfg := DefaultConfig()
	if s.APIBaseURL != "" {
		cfg.APIBaseURL = s.APIBaseURL
	}
	cfg.BotToken = s.BotToken
	cfg.ChatID = s.ChatID
	if s.TimeoutSeconds > 0 {
		cfg.Timeout = s.Timeout()
	}
	if s.RetryCount > 0 {
		cfg.RetryCount = s.RetryCount
	}
	if s.RetryDelayMillis > 0 {
		cfg.RetryDelay = s.RetryDelay()
	}
	if s.RequestsPerMinute > 0 {
		cfg.RequestsPerMinute = s.RequestsPerMinute
	}
	return cfg
}

// Client sends messages to the configured chat
type Client struct {
	config     *Config
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     *zap.Logger
}

// New creates a client. Missing credentials are a configuration error.
func New(cfg *Config) (*Client, error) {
	if cfg == nil || cfg.BotToken == "" || cfg.ChatID == "" {
		return nil, errors.Config("telegram bot token and chat id are required")
	}

	limit := rate.Inf
	if cfg.RequestsPerMinute > 0 {
		limit = rate.Every(time.Minute / time.Duration(cfg.RequestsPerMinute))
	}

	return &Client{
		config: cfg,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		limiter: rate.NewLimiter(limit, 1),
		logger:  logging.Named("telegram"),
	}, nil
}

// sendMessageRequest is the sendMessage body
type sendMessageRequest struct {
	ChatID string `json:"chat_id"`
	Text   string `json:"text"`
}

// apiResponse is the envelope every Bot API call returns
type apiResponse struct {
	OK          bool   `json:"ok"`
	Description string `json:"description,omitempty"`
	ErrorCode   int    `json:"error_code,omitempty"`
}

// attemptError marks whether a failed attempt may be retried
type attemptError struct {
	err       error
	retryable bool
}

func (e *attemptError) Error() string { return e.err.Error() }
func (e *attemptError) Unwrap() error { return e.err }

// SendMessage posts text to the chat, retrying transport failures, 5xx and 429.
func (c *Client) SendMessage(ctx context.Context, text string) error {
	var lastErr error

	for attempt := 0; attempt <= c.config.RetryCount; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(c.config.RetryDelay):
			}
		}

		if err := c.limiter.Wait(ctx); err != nil {
			return err
		}

		err := c.sendOnce(ctx, text)
		if err == nil {
			return nil
		}
		lastErr = err

		var ae *attemptError
		if stderrors.As(err, &ae) && !ae.retryable {
			break
		}
		c.logger.Warn("telegram send failed",
			zap.Int("attempt", attempt+1),
			zap.Error(err),
		)
	}

	return errors.Network("telegram sendMessage failed", lastErr)
}

func (c *Client) sendOnce(ctx context.Context, text string) error {
	body, err := json.Marshal(sendMessageRequest{ChatID: c.config.ChatID, Text: text})
	if err != nil {
		return &attemptError{err: fmt.Errorf("failed to encode message: %w", err)}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint("sendMessage"), bytes.NewReader(body))
	if err != nil {
		return &attemptError{err: fmt.Errorf("failed to create request: %w", err)}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		// *url.Error quotes the request URL, which carries the bot token.
		var urlErr *url.Error
		if stderrors.As(err, &urlErr) {
			err = urlErr.Err
		}
		return &attemptError{err: fmt.Errorf("sendMessage request failed: %w", err), retryable: ctx.Err() == nil}
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))

	var parsed apiResponse
	decodeErr := json.Unmarshal(raw, &parsed)

	if resp.StatusCode >= 200 && resp.StatusCode < 300 && decodeErr == nil && parsed.OK {
		return nil
	}

	retryable := resp.StatusCode >= 500 || resp.StatusCode == http.StatusTooManyRequests
	msg := parsed.Description
	if msg == "" {
		msg = strings.TrimSpace(string(raw))
	}
	return &attemptError{
		err:       fmt.Errorf("telegram returned %d: %s", resp.StatusCode, msg),
		retryable: retryable,
	}
}

func (c *Client) endpoint(method string) string {
	return strings.TrimRight(c.config.APIBaseURL, "/") + "/bot" + c.config.BotToken + "/" + method
}
