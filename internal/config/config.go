package config

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	HTTPAddr string     `env:"HTTP_ADDR" envDefault:":8080"`
	RedisURL string     `env:"REDIS_URL"`
	LogLevel slog.Level `env:"LOG_LEVEL" envDefault:"INFO"`

	// Origins allowed to open the websocket. Empty allows same-origin only.
	AllowedOrigins []string `env:"ALLOWED_ORIGINS" envSeparator:","`

	// SessionTTL bounds affinity records in the store; DisconnectGrace is
	// the independently configured window before a dropped player's slot
	// is resolved.
	SessionTTL      time.Duration `env:"SESSION_TTL" envDefault:"5m"`
	DisconnectGrace time.Duration `env:"DISCONNECT_GRACE" envDefault:"2m"`
	ProbeInterval   time.Duration `env:"STORE_PROBE_INTERVAL" envDefault:"30s"`

	BoardRows  int `env:"BOARD_ROWS" envDefault:"16"`
	BoardCols  int `env:"BOARD_COLS" envDefault:"16"`
	BoardMines int `env:"BOARD_MINES" envDefault:"40"`
}

func Load() (*Config, error) {
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return nil, fmt.Errorf("parsing environment: %w", err)
	}
	return &cfg, nil
}
