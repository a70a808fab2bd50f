// Package config provides configuration management.
package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"audit-quote/internal/logging"
)

// Environment variables that override file configuration.
const (
	EnvAddr        = "AUDIT_QUOTE_ADDR"
	EnvLogLevel    = "AUDIT_QUOTE_LOG_LEVEL"
	EnvBotToken    = "TELEGRAM_BOT_TOKEN"
	EnvChatID      = "TELEGRAM_CHAT_ID"
	EnvTelegramAPI = "TELEGRAM_API_URL"
	EnvProxies     = "AUDIT_QUOTE_TRUSTED_PROXIES"
)

// Config is the main application configuration
type Config struct {
	// Version is the configuration version
	Version string `json:"version" yaml:"version"`

	// Server contains HTTP API configuration
	Server ServerConfig `json:"server" yaml:"server"`

	// Telegram contains contact relay configuration
	Telegram TelegramConfig `json:"telegram" yaml:"telegram"`

	// Output contains output configuration
	Output OutputConfig `json:"output" yaml:"output"`

	// Logging contains logging configuration
	Logging logging.Config `json:"logging" yaml:"logging"`
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	// Address to listen on
	Address string `json:"address" yaml:"address"`

	// ReadTimeoutSeconds for requests
	ReadTimeoutSeconds int `json:"read_timeout_seconds" yaml:"read_timeout_seconds"`

	// WriteTimeoutSeconds for responses
	WriteTimeoutSeconds int `json:"write_timeout_seconds" yaml:"write_timeout_seconds"`

	// ShutdownTimeoutSeconds bounds graceful shutdown
	ShutdownTimeoutSeconds int `json:"shutdown_timeout_seconds" yaml:"shutdown_timeout_seconds"`

	// MaxBodyBytes limits request body size
	MaxBodyBytes int64 `json:"max_body_bytes" yaml:"max_body_bytes"`

	// AllowedOrigins for CORS
	AllowedOrigins []string `json:"allowed_origins" yaml:"allowed_origins"`

	// ContactRatePerMinute is the per-client budget for contact submissions
	ContactRatePerMinute int `json:"contact_rate_per_minute" yaml:"contact_rate_per_minute"`

	// ContactBurst is the per-client burst for contact submissions
	ContactBurst int `json:"contact_burst" yaml:"contact_burst"`

	// TrustedProxies are addresses or CIDR ranges whose X-Forwarded-For and
	// X-Real-IP headers identify the client. Empty trusts no one.
	TrustedProxies []string `json:"trusted_proxies,omitempty" yaml:"trusted_proxies,omitempty"`

	// MaxBatchSize caps projects per batch request
	MaxBatchSize int `json:"max_batch_size" yaml:"max_batch_size"`
}

// TelegramConfig contains Telegram Bot API settings
type TelegramConfig struct {
	// APIBaseURL is the Bot API root
	APIBaseURL string `json:"api_base_url" yaml:"api_base_url"`

	// BotToken authenticates the bot. Usually supplied through the environment.
	BotToken string `json:"bot_token,omitempty" yaml:"bot_token,omitempty"`

	// ChatID receives the notifications
	ChatID string `json:"chat_id,omitempty" yaml:"chat_id,omitempty"`

	// TimeoutSeconds per request
	TimeoutSeconds int `json:"timeout_seconds" yaml:"timeout_seconds"`

	// RetryCount for failed requests
	RetryCount int `json:"retry_count" yaml:"retry_count"`

	// RetryDelayMillis between retries
	RetryDelayMillis int `json:"retry_delay_millis" yaml:"retry_delay_millis"`

	// RequestsPerMinute bounds outbound calls
	RequestsPerMinute int `json:"requests_per_minute" yaml:"requests_per_minute"`
}

// OutputConfig contains output-related settings
type OutputConfig struct {
	// DefaultFormat is the default output format
	DefaultFormat string `json:"default_format" yaml:"default_format"`

	// ShowTimeline shows the per-phase timeline breakdown
	ShowTimeline bool `json:"show_timeline" yaml:"show_timeline"`

	// NoColor disables terminal styling
	NoColor bool `json:"no_color" yaml:"no_color"`
}

// Default returns a default configuration
func Default() *Config {
	return &Config{
		Version: "1.0",
		Server: ServerConfig{
			Address:                ":8080",
			ReadTimeoutSeconds:     15,
			WriteTimeoutSeconds:    30,
			ShutdownTimeoutSeconds: 10,
			MaxBodyBytes:           1 << 20, // 1MB
			AllowedOrigins:         []string{"*"},
			ContactRatePerMinute:   5,
			ContactBurst:           3,
			MaxBatchSize:           100,
		},
		Telegram: TelegramConfig{
			APIBaseURL:        "https://api.telegram.org",
			TimeoutSeconds:    10,
			RetryCount:        2,
			RetryDelayMillis:  500,
			RequestsPerMinute: 20,
		},
		Output: OutputConfig{
			DefaultFormat: "cli",
			ShowTimeline:  true,
		},
		Logging: logging.DefaultConfig(),
	}
}

// DefaultPath returns the per-user configuration file location
func DefaultPath() string {
	homeDir, _ := os.UserHomeDir()
	return filepath.Join(homeDir, ".audit-quote", "config.yaml")
}

// Load loads configuration from a file. JSON and YAML are selected by
// extension; a missing file yields the defaults. Environment overrides are
// applied last.
func Load(path string) (*Config, error) {
	config := Default()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := unmarshal(path, data, config); err != nil {
			return nil, err
		}
	case os.IsNotExist(err):
	default:
		return nil, err
	}

	config.ApplyEnv()
	return config, nil
}

func unmarshal(path string, data []byte, config *Config) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return yaml.Unmarshal(data, config)
	default:
		return json.Unmarshal(data, config)
	}
}

// LoadDotEnv loads .env files into the process environment. Variables that
// are already set win. Missing files are ignored.
func LoadDotEnv(paths ...string) {
	if len(paths) == 0 {
		_ = godotenv.Load()
		return
	}
	for _, p := range paths {
		_ = godotenv.Load(p)
	}
}

// ApplyEnv overrides fields from the process environment
func (c *Config) ApplyEnv() {
	if v := os.Getenv(EnvAddr); v != "" {
		c.Server.Address = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv(EnvBotToken); v != "" {
		c.Telegram.BotToken = v
	}
	if v := os.Getenv(EnvChatID); v != "" {
		c.Telegram.ChatID = v
	}
	if v := os.Getenv(EnvTelegramAPI); v != "" {
		c.Telegram.APIBaseURL = v
	}
	if v := os.Getenv(EnvProxies); v != "" {
		c.Server.TrustedProxies = strings.Split(v, ",")
	}
	if v := os.Getenv("PORT"); v != "" && os.Getenv(EnvAddr) == "" {
		if _, err := strconv.Atoi(v); err == nil {
			c.Server.Address = ":" + v
		}
	}
}

// Save saves configuration to a file
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	var (
		data []byte
		err  error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		data, err = yaml.Marshal(c)
	default:
		data, err = json.MarshalIndent(c, "", "  ")
	}
	if err != nil {
		return err
	}

	// secrets may be present
	return os.WriteFile(path, data, 0600)
}

// ReadTimeout returns the server read timeout
func (s ServerConfig) ReadTimeout() time.Duration {
	return time.Duration(s.ReadTimeoutSeconds) * time.Second
}

// WriteTimeout returns the server write timeout
func (s ServerConfig) WriteTimeout() time.Duration {
	return time.Duration(s.WriteTimeoutSeconds) * time.Second
}

// ShutdownTimeout returns the graceful shutdown budget
func (s ServerConfig) ShutdownTimeout() time.Duration {
	return time.Duration(s.ShutdownTimeoutSeconds) * time.Second
}

// Timeout returns the per-request timeout
func (t TelegramConfig) Timeout() time.Duration {
	return time.Duration(t.TimeoutSeconds) * time.Second
}

// RetryDelay returns the delay between attempts
func (t TelegramConfig) RetryDelay() time.Duration {
	return time.Duration(t.RetryDelayMillis) * time.Millisecond
}

// Configured reports whether credentials are present
func (t TelegramConfig) Configured() bool {
	return t.BotToken != "" && t.ChatID != ""
}

// Global configuration instance
var globalConfig = Default()

// Get returns the global configuration
func Get() *Config {
	return globalConfig
}

// Set sets the global configuration
func Set(config *Config) {
	globalConfig = config
}
