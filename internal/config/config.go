package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	Port string `env:"PORT" envDefault:"8081"`
	// DatabaseURL is optional. Empty keeps orders in memory only.
	DatabaseURL        string        `env:"DATABASE_URL"`
	JWTSecret          string        `env:"JWT_SECRET" envDefault:"dev-secret-change-in-production"`
	AccessTokenTTL     time.Duration `env:"ACCESS_TOKEN_TTL" envDefault:"15m"`
	CORSAllowedOrigins []string      `env:"CORS_ALLOWED_ORIGINS" envSeparator:"," envDefault:"http://localhost:3000,http://localhost:5173"`
	DemoPassword       string        `env:"DEMO_PASSWORD" envDefault:"gogo1234"`
	SeedSampleOrders   bool          `env:"SEED_SAMPLE_ORDERS" envDefault:"false"`
}

func Load() (*Config, error) {
	return load(nil)
}

// load parses environ, or the process environment when environ is nil.
func load(environ map[string]string) (*Config, error) {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, env.Options{Environment: environ}); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	return &cfg, nil
}
