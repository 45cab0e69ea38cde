// Package config provides environment-driven configuration for the belnav server.
package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// Config holds all application configuration values.
type Config struct {
	Port               string
	ListenHost         string
	LogLevel           string
	CORSOrigins        []string
	DataDir            string
	WatchData          bool
	QueryCacheSize     int
	SimTick            time.Duration
	SessionIdleTimeout time.Duration
}

// Load reads configuration from environment variables with sensible defaults.
func Load() (*Config, error) {
	cfg := &Config{
		Port:       envOrDefault("PORT", "5000"),
		ListenHost: envOrDefault("LISTEN_HOST", "127.0.0.1"),
		LogLevel:   envOrDefault("LOG_LEVEL", "info"),
		DataDir:    envOrDefault("DATA_DIR", "./data"),
		WatchData:  envOrDefault("WATCH_DATA", "false") == "true",
	}

	cacheSize, err := strconv.Atoi(envOrDefault("QUERY_CACHE_SIZE", "256"))
	if err != nil || cacheSize < 1 || cacheSize > 65536 {
		return nil, fmt.Errorf("QUERY_CACHE_SIZE must be an integer between 1 and 65536")
	}
	cfg.QueryCacheSize = cacheSize

	tickMS, err := strconv.Atoi(envOrDefault("SIM_TICK_MS", "33"))
	if err != nil || tickMS < 10 || tickMS > 1000 {
		return nil, fmt.Errorf("SIM_TICK_MS must be an integer between 10 and 1000")
	}
	cfg.SimTick = time.Duration(tickMS) * time.Millisecond

	idle, err := time.ParseDuration(envOrDefault("SESSION_IDLE_TIMEOUT", "30m"))
	if err != nil {
		return nil, fmt.Errorf("SESSION_IDLE_TIMEOUT is not a valid duration: %w", err)
	}
	cfg.SessionIdleTimeout = idle

	origins := envOrDefault("CORS_ORIGINS", "http://localhost:5173")
	cfg.CORSOrigins = strings.Split(origins, ",")

	for i, o := range cfg.CORSOrigins {
		cfg.CORSOrigins[i] = strings.TrimSpace(o)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	return cfg, nil
}

// Addr returns the listen address in host:port format.
func (c *Config) Addr() string {
	return c.ListenHost + ":" + c.Port
}

func (c *Config) validate() error {
	if err := c.validateNetwork(); err != nil {
		return err
	}

	if err := c.validateCORS(); err != nil {
		return err
	}

	if err := c.validateLogging(); err != nil {
		return err
	}

	if err := c.validateSessions(); err != nil {
		return err
	}

	return nil
}

func (c *Config) validateNetwork() error {
	port, err := strconv.Atoi(c.Port)
	if err != nil {
		return fmt.Errorf("PORT must be a valid integer: %w", err)
	}

	if port < 1 || port > 65535 {
		return fmt.Errorf("PORT must be between 1 and 65535")
	}

	// LISTEN_HOST is restricted to loopback addresses to prevent accidental
	// external exposure on local deployments, and 0.0.0.0/:: for containerized
	// deployments where the container boundary does the isolation.
	allowedHosts := map[string]bool{
		"127.0.0.1": true,
		"::1":       true,
		"localhost": true,
		"0.0.0.0":   true,
		"::":        true,
	}
	if !allowedHosts[c.ListenHost] {
		return fmt.Errorf("LISTEN_HOST must be a loopback address or 0.0.0.0/:: for containers (got %q)", c.ListenHost)
	}

	return nil
}

func (c *Config) validateCORS() error {
	for _, origin := range c.CORSOrigins {
		if origin == "*" {
			return fmt.Errorf("CORS_ORIGINS must not contain wildcard '*'")
		}
		if strings.ContainsAny(origin, "*?[]") {
			return fmt.Errorf("CORS_ORIGINS must not contain glob characters (*?[]), got %q", origin)
		}
		u, err := url.Parse(origin)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("CORS_ORIGINS contains invalid origin %q (must have scheme and host)", origin)
		}
	}

	return nil
}

func (c *Config) validateLogging() error {
	if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("LOG_LEVEL is not a valid level: %w", err)
	}

	return nil
}

func (c *Config) validateSessions() error {
	if c.SessionIdleTimeout < time.Minute {
		return fmt.Errorf("SESSION_IDLE_TIMEOUT must be at least 1m")
	}

	return nil
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}

	return fallback
}
