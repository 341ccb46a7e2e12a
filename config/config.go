package config

import (
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Port         string        `envconfig:"PORT" default:"3000"`
	GinMode      string        `envconfig:"GIN_MODE" default:"debug"`
	UpstreamURL  string        `envconfig:"UPSTREAM_URL" default:"http://localhost:8080"`
	LocalBackend bool          `envconfig:"LOCAL_BACKEND" default:"false"`
	AdminToken   string        `envconfig:"ADMIN_TOKEN"`
	CustomerPoll time.Duration `envconfig:"CUSTOMER_POLL_INTERVAL" default:"30s"`
	AdminPoll    time.Duration `envconfig:"ADMIN_POLL_INTERVAL" default:"10s"`
	SessionIdle  time.Duration `envconfig:"SESSION_IDLE_TIMEOUT" default:"15m"`
	RateLimit    int           `envconfig:"RATE_LIMIT" default:"50"`
}

// Load reads .env (when present) and then the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found or error loading: %v", err)
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
