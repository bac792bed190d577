// Package config содержит логику чтения конфигурации кассового клиента.
package config

import (
	"flag"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

const (
	defaultRunAddress     = "localhost:8080"
	defaultRequestTimeout = 5 * time.Second
	defaultMenuColumns    = 4
)

// Config содержит параметры конфигурации кассового клиента.
type Config struct {
	RunAddress     string        `env:"RUN_ADDRESS"`
	DatabaseURI    string        `env:"DATABASE_URI"`
	TabAPIAddress  string        `env:"TAB_API_ADDRESS"`
	SessionSecret  string        `env:"SESSION_SECRET"`
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT"`
	MenuColumns    int           `env:"MENU_COLUMNS"`
}

// Parse считывает конфигурацию из .env, флагов командной строки и переменных
// окружения. Переменные окружения имеют приоритет над флагами.
func Parse() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	envCfg := *cfg

	flag.StringVar(&cfg.RunAddress, "a", defaultRunAddress, "address and port for HTTP server")
	flag.StringVar(&cfg.DatabaseURI, "d", "", "database URI for the receipt journal")
	flag.StringVar(&cfg.TabAPIAddress, "r", "", "tab backend address")
	flag.StringVar(&cfg.SessionSecret, "k", "", "session cookie signing key")
	flag.DurationVar(&cfg.RequestTimeout, "t", defaultRequestTimeout, "tab backend request timeout")
	flag.IntVar(&cfg.MenuColumns, "c", defaultMenuColumns, "menu grid columns")

	flag.Parse()

	if envCfg.RunAddress != "" {
		cfg.RunAddress = envCfg.RunAddress
	}
	if envCfg.DatabaseURI != "" {
		cfg.DatabaseURI = envCfg.DatabaseURI
	}
	if envCfg.TabAPIAddress != "" {
		cfg.TabAPIAddress = envCfg.TabAPIAddress
	}
	if envCfg.SessionSecret != "" {
		cfg.SessionSecret = envCfg.SessionSecret
	}
	if envCfg.RequestTimeout > 0 {
		cfg.RequestTimeout = envCfg.RequestTimeout
	}
	if envCfg.MenuColumns > 0 {
		cfg.MenuColumns = envCfg.MenuColumns
	}

	if cfg.RunAddress == "" {
		cfg.RunAddress = defaultRunAddress
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = defaultRequestTimeout
	}
	if cfg.MenuColumns <= 0 {
		cfg.MenuColumns = defaultMenuColumns
	}

	return cfg, nil
}
