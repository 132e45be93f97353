package config

import (
	"fmt"

	"github.com/Netflix/go-env"
)

type Config struct {
	DatabaseDSN        string `env:"DATABASE_DSN,required=true"`
	RedisURL           string `env:"REDIS_URL,required=true"`
	TwilioAccountSID   string `env:"TWILIO_ACCOUNT_SID,required=true"`
	TwilioAuthToken    string `env:"TWILIO_AUTH_TOKEN,required=true"`
	TwilioWhatsAppFrom string `env:"TWILIO_WHATSAPP_FROM,required=true"`
	DefaultCountryCode string `env:"DEFAULT_COUNTRY_CODE,default=+503"`
	RateLimitPerSec    int    `env:"RATE_LIMIT_PER_SEC,default=10"`
	APIPort            int    `env:"API_PORT,default=8080"`
	LogLevel           string `env:"LOG_LEVEL,default=info"`
}

func Load() (*Config, error) {
	var cfg Config
	_, err := env.UnmarshalFromEnviron(&cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return &cfg, nil
}
