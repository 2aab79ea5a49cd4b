package infrastructure

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	// Server settings
	Port string `json:"port"`
	Host string `json:"host"`

	// News source settings
	NewsURL string `json:"news_url"`

	// Translation settings
	SourceLang        string `json:"source_lang"`
	TargetLang        string `json:"target_lang"`
	TranslateEndpoint string `json:"translate_endpoint"`

	// Telegram settings
	TelegramBotToken    string `json:"-"` // Don't expose in JSON
	TelegramChatID      string `json:"telegram_chat_id"`
	TelegramAPIEndpoint string `json:"telegram_api_endpoint"`

	// State store settings
	StateBackend string `json:"state_backend"` // file or cloud-storage
	StateFile    string `json:"state_file"`
	StateBucket  string `json:"state_bucket"`
	StateObject  string `json:"state_object"`

	// Webhook settings
	WebhookAuthToken string `json:"-"` // Don't expose in JSON

	// Scheduled mode settings
	Schedule string `json:"schedule"` // cron expression for cmd/server
}

// Load reads configuration from environment variables and .env file
func Load() (*Config, error) {
	// Load .env file if exists
	_ = godotenv.Load()

	config := &Config{
		Port:                getEnvOrDefault("PORT", "8080"),
		Host:                getEnvOrDefault("HOST", "0.0.0.0"),
		NewsURL:             getEnvOrDefault("NEWS_URL", "https://www.alpine-adventure.at/de/alpine-adventure/alpine-adventure/news.html"),
		SourceLang:          getEnvOrDefault("SOURCE_LANG", "de"),
		TargetLang:          getEnvOrDefault("TARGET_LANG", "en"),
		TranslateEndpoint:   getEnvOrDefault("TRANSLATE_ENDPOINT", "https://translate.googleapis.com/translate_a/single"),
		TelegramBotToken:    getEnvOrDefault("TELEGRAM_BOT_TOKEN", ""),
		TelegramChatID:      getEnvOrDefault("TELEGRAM_CHAT_ID", ""),
		TelegramAPIEndpoint: getEnvOrDefault("TELEGRAM_API_ENDPOINT", "https://api.telegram.org/bot%s/%s"),
		StateBackend:        getEnvOrDefault("STATE_BACKEND", "file"),
		StateFile:           getEnvOrDefault("STATE_FILE", "data/last_seen.json"),
		StateBucket:         getEnvOrDefault("STATE_BUCKET", "ice-news-monitor-state"),
		StateObject:         getEnvOrDefault("STATE_OBJECT", "state/last_seen.json"),
		WebhookAuthToken:    getEnvOrDefault("WEBHOOK_AUTH_TOKEN", ""),
		Schedule:            getEnvOrDefault("MONITOR_SCHEDULE", "*/30 * * * *"),
	}

	return config, config.validate()
}

// validate checks if required configuration values are present
func (c *Config) validate() error {
	if c.NewsURL == "" {
		return &ConfigError{Field: "NEWS_URL", Message: "news page URL is required"}
	}
	if c.TelegramBotToken == "" {
		return &ConfigError{Field: "TELEGRAM_BOT_TOKEN", Message: "Telegram bot token is required"}
	}
	if !strings.Contains(c.TelegramBotToken, ":") {
		return &ConfigError{Field: "TELEGRAM_BOT_TOKEN", Message: "must have the form <bot-id>:<secret>"}
	}
	if c.TelegramChatID == "" {
		return &ConfigError{Field: "TELEGRAM_CHAT_ID", Message: "Telegram chat ID is required"}
	}
	if c.StateBackend != "file" && c.StateBackend != "cloud-storage" {
		return &ConfigError{Field: "STATE_BACKEND", Message: "must be file or cloud-storage"}
	}
	return nil
}

// getEnvOrDefault returns environment variable value or default if not set
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// ConfigError represents a configuration error
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return e.Field + ": " + e.Message
}
