package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

type config struct {
	Addr          string        `env:"ADDR" envDefault:":8080"`
	LogLevel      string        `env:"LOG_LEVEL" envDefault:"info"`
	SessionTTL    time.Duration `env:"SESSION_TTL" envDefault:"30m"`
	SweepInterval time.Duration `env:"SWEEP_INTERVAL" envDefault:"1m"`
	AllowedOrigin string        `env:"ALLOWED_ORIGIN" envDefault:"*"`
}

// loadConfig reads MATHPAINT_* variables first; flags override them.
func loadConfig(args []string) (config, error) {
	var cfg config
	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: "MATHPAINT_"}); err != nil {
		return cfg, fmt.Errorf("parse environment: %w", err)
	}
	fs := flag.NewFlagSet("server", flag.ContinueOnError)
	fs.StringVar(&cfg.Addr, "addr", cfg.Addr, "listen address")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "debug|info|warn|error")
	fs.DurationVar(&cfg.SessionTTL, "session-ttl", cfg.SessionTTL, "drop games idle for longer than this")
	fs.DurationVar(&cfg.SweepInterval, "sweep-interval", cfg.SweepInterval, "how often idle games are swept")
	fs.StringVar(&cfg.AllowedOrigin, "allowed-origin", cfg.AllowedOrigin, "CORS and websocket origin, * for any")
	if err := fs.Parse(args); err != nil {
		return cfg, err
	}
	if cfg.SessionTTL <= 0 || cfg.SweepInterval <= 0 {
		return cfg, fmt.Errorf("session ttl and sweep interval must be positive")
	}
	return cfg, nil
}

func newLogger(level string) *slog.Logger {
	lvl := slog.LevelInfo
	switch strings.ToLower(level) {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	}
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: lvl}))
}
