package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	ListenAddr        string        `env:"LISTEN_ADDR" envDefault:":8080"`
	LogLevel          string        `env:"LOG_LEVEL" envDefault:"info"`
	DBPath            string        `env:"DB_PATH" envDefault:"poi.db"`
	EpochDuration     time.Duration `env:"EPOCH_DURATION" envDefault:"10m"`
	InitialDifficulty uint64        `env:"INITIAL_DIFFICULTY" envDefault:"8"`
	ConnTimeout       time.Duration `env:"CONN_TIMEOUT" envDefault:"2m"`
	ShutdownWait      time.Duration `env:"SHUTDOWN_WAIT" envDefault:"5s"`
	RotateTick        time.Duration `env:"ROTATE_TICK" envDefault:"1s"`
}

func Parse() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}
