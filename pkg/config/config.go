package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	AppEnv   string `env:"APP_ENV" envDefault:"dev"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	HTTPPort int `env:"HTTP_PORT" envDefault:"8080"`

	// StoreBackend selects where the cart slot lives: "bolt" or "redis".
	StoreBackend string `env:"STORE_BACKEND" envDefault:"bolt"`
	StorePath    string `env:"STORE_PATH" envDefault:"carrito.db"`
	RedisAddr    string `env:"REDIS_ADDR" envDefault:"localhost:6379"`

	CheckoutDelay time.Duration `env:"CHECKOUT_DELAY" envDefault:"1500ms"`
}

func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}
