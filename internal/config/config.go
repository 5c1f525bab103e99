package config

import (
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Telegram TelegramConfig
	Database DatabaseConfig
	LLM      LLMConfig
	Limits   LimitsConfig
}

type TelegramConfig struct {
	BotToken      string `envconfig:"TELEGRAM_BOT_TOKEN" required:"true"`
	SelfURL       string `envconfig:"SELF_URL" required:"true"`
	WebhookSecret string `envconfig:"TG_WEBHOOK_SECRET" required:"true"`
	Port          string `envconfig:"PORT" default:"8080"`
	Workers       int    `envconfig:"TG_WORKERS" default:"4"`
}

type DatabaseConfig struct {
	URL string `envconfig:"DATABASE_URL" required:"true"`
}

// LLMConfig configures the optional fallback parser. With an empty
// API key the bot runs regex-only.
type LLMConfig struct {
	BaseURL    string        `envconfig:"LLM_BASE_URL" default:"https://api.openai.com/v1"`
	APIKey     string        `envconfig:"LLM_API_KEY"`
	ChatModel  string        `envconfig:"LLM_CHAT_MODEL" default:"gpt-4o-mini"`
	MaxRetries int           `envconfig:"LLM_MAX_RETRIES" default:"2"`
	Timeout    time.Duration `envconfig:"LLM_TIMEOUT" default:"10s"`
}

type LimitsConfig struct {
	// MaxTargets caps how many timezones a public reply lists.
	MaxTargets int `envconfig:"MAX_REPLY_TIMEZONES" default:"12"`
}

// Load reads .env when present, then the environment. Missing required
// variables surface as an error.
func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
