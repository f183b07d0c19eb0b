package config

import (
	"io/fs"
	"log"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/pkg/errors"
)

type Config struct {
	HTTP    HTTP    `envPrefix:"HTTP_"`
	Storage Storage `envPrefix:"STORAGE_"`
	Display Display `envPrefix:"DISPLAY_"`
}

type HTTP struct {
	Address         string        `env:"ADDRESS" envDefault:":8080"`
	AllowedOrigins  []string      `env:"ALLOWED_ORIGINS" envDefault:"*"`
	AccessKey       string        `env:"ACCESS_KEY"`
	RateLimit       float64       `env:"RATE_LIMIT" envDefault:"10"`
	RateBurst       int           `env:"RATE_BURST" envDefault:"20"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`
}

type Storage struct {
	DSN string `env:"DSN" envDefault:"items.sqlite"`
}

type Display struct {
	Timezone string `env:"TIMEZONE" envDefault:"Local"`
}

// Parse loads .env (if present) and reads ITEMS_* variables.
func Parse() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Printf("config.Parse(): failed to load .env: %v", err)
	}

	conf, err := env.ParseAsWithOptions[Config](env.Options{
		Prefix: "ITEMS_",
	})
	if err != nil {
		return nil, errors.WithStack(err)
	}

	return &conf, nil
}

func (d Display) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(d.Timezone)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid display timezone %q", d.Timezone)
	}
	return loc, nil
}

// AllowAllOrigins reports whether the configured origins are the wildcard.
func (h HTTP) AllowAllOrigins() bool {
	for _, origin := range h.AllowedOrigins {
		if origin == "*" {
			return true
		}
	}
	return len(h.AllowedOrigins) == 0
}
