package server

import (
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cast"
	"golang.org/x/time/rate"

	"github.com/stackconf/stackconf/pkg/defaults"
)

// Config holds server configuration.
type Config struct {
	Address string
	Port    int

	// RateLimit is requests per second across all API routes.
	RateLimit      rate.Limit
	RateLimitBurst int

	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
}

// DefaultConfig returns defaults, with Port overridden by $PORT.
func DefaultConfig() *Config {
	cfg := &Config{
		Port:            8080,
		RateLimit:       100,
		RateLimitBurst:  200,
		ReadTimeout:     10 * time.Second,
		WriteTimeout:    defaults.ResolveHandlerTimeout + 5*time.Second,
		IdleTimeout:     120 * time.Second,
		ShutdownTimeout: defaults.ServerShutdownTimeout,
	}

	if portStr := os.Getenv("PORT"); portStr != "" {
		port, err := cast.ToIntE(portStr)
		if err != nil || port <= 0 {
			slog.Warn("ignoring invalid PORT", "value", portStr)
		} else {
			cfg.Port = port
		}
	}

	return cfg
}
