package config

import (
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

const defaultGreeting = "Say to the user in english 'Thank you for calling, how can I help you?'. Don't say anything else."

type Config struct {
	WebhookSecret string `env:"OPENAI_WEBHOOK_SECRET,required"`
	APIKey        string `env:"OPENAI_API_KEY,required"`
	Port          int    `env:"PORT" envDefault:"8000"`

	APIBase     string `env:"OPENAI_API_BASE" envDefault:"https://api.openai.com/v1"`
	RealtimeURL string `env:"OPENAI_REALTIME_URL" envDefault:"wss://api.openai.com/v1/realtime"`

	Model        string `env:"REALTIME_MODEL" envDefault:"gpt-realtime"`
	Voice        string `env:"REALTIME_VOICE" envDefault:"sage"`
	Instructions string `env:"REALTIME_INSTRUCTIONS"`
	Greeting     string `env:"GREETING_INSTRUCTIONS"`

	AcceptTimeout    time.Duration `env:"ACCEPT_TIMEOUT" envDefault:"10s"`
	RelayMaxDuration time.Duration `env:"RELAY_MAX_DURATION" envDefault:"0s"`
	ShutdownTimeout  time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"5s"`

	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"console"`
}

// New parses the environment. Empty instructions fall back to the stock greeting.
func New() (*Config, error) {
	cfg := new(Config)
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}
	if cfg.Instructions == "" {
		cfg.Instructions = defaultGreeting
	}
	if cfg.Greeting == "" {
		cfg.Greeting = defaultGreeting
	}
	return cfg, nil
}

// LoadEnv loads ENV_FILE (or .env) into the environment.
func LoadEnv() error {
	envfile := os.Getenv("ENV_FILE")

	if envfile == "" {
		return godotenv.Load()
	}

	return godotenv.Load(envfile)
}
