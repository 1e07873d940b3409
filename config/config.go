package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds runtime settings for the drivebox API server.
type Config struct {
	// ServerPort is the TCP port the HTTP server listens on.
	ServerPort int `env:"SERVER_PORT" envDefault:"3000"`

	// JWTSecret signs bearer tokens (HS256). It has no default on
	// purpose: the server refuses to start without one.
	JWTSecret string `env:"JWT_SECRET"`

	// TokenTTL is the lifetime of issued bearer tokens.
	TokenTTL time.Duration `env:"TOKEN_TTL" envDefault:"168h"`

	// DataFile is the path of the JSON file holding all accounts.
	DataFile string `env:"DATA_FILE" envDefault:"data/accounts.json"`

	// CORSOrigins lists the origins allowed by the CORS middleware.
	CORSOrigins []string `env:"CORS_ORIGINS" envDefault:"*"`
}

// LoadConfig reads configuration from the process environment,
// overlaying a .env file first when ENV=dev.
func LoadConfig() (Config, error) {
	if os.Getenv("ENV") == "dev" {
		godotenv.Load()
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}

	if cfg.JWTSecret == "" {
		return Config{}, errors.New("JWT_SECRET is required")
	}

	return cfg, nil
}
