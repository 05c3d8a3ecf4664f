package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	// Core
	DatabaseURL   string `env:"DATABASE_URL,required"`
	OpenRouterKey string `env:"OPENROUTER_API_KEY,required"`

	// Session tokens issued by the auth provider are verified with this
	// shared secret; the provider itself lives outside this service.
	SessionSecret string `env:"SESSION_JWT_SECRET,required"`

	// Server
	Addr string `env:"ADDR" envDefault:":8080"`

	// AI
	ChatModel string `env:"CHAT_MODEL" envDefault:"z-ai/glm-4.5-air:free"`

	// Dev mode relaxes the Secure flag on the guest cookie.
	Dev bool `env:"DEV_MODE" envDefault:"false"`
}

func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}
