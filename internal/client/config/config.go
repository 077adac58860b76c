// Package config loads runtime configuration for the devmatch CLI.
//
// Sources, later ones winning:
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Environment: DEVMATCH_ADDR, DEVMATCH_TOKEN, DEVMATCH_TIMEOUT.
//  3. Optional JSON file given with -c or -config.
//  4. Flags: -a address, -t token, -timeout duration.
//
// The JSON file uses timex.Duration, so the timeout may be "5s" or integer
// nanoseconds:
//
//	{
//	  "server_endpoint_addr": "127.0.0.1:50051",
//	  "request_timeout": "5s"
//	}
package config

import (
	"fmt"
	"os"
	"time"
)

const (
	EnvAddr    = "DEVMATCH_ADDR"
	EnvToken   = "DEVMATCH_TOKEN"
	EnvTimeout = "DEVMATCH_TIMEOUT"
)

type Config struct {
	ServerEndpointAddr string
	AccessToken        string
	RequestTimeout     time.Duration
}

func (c *Config) LoadDefaults() {
	c.ServerEndpointAddr = "127.0.0.1:50051"
	c.RequestTimeout = 10 * time.Second
}

func parseEnv(cfg *Config) error {
	if v := os.Getenv(EnvAddr); v != "" {
		cfg.ServerEndpointAddr = v
	}
	if v := os.Getenv(EnvToken); v != "" {
		cfg.AccessToken = v
	}
	if v := os.Getenv(EnvTimeout); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvTimeout, err)
		}
		cfg.RequestTimeout = d
	}
	return nil
}

// LoadConfig builds a Config from defaults, the environment, an optional
// JSON file and flags. args exclude the program name.
func LoadConfig(args []string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()

	if err := parseEnv(cfg); err != nil {
		return nil, err
	}
	if err := parseJson(cfg, args); err != nil {
		return nil, fmt.Errorf("json: %w", err)
	}
	if err := parseFlags(cfg, args); err != nil {
		return nil, fmt.Errorf("flags: %w", err)
	}
	if cfg.RequestTimeout <= 0 {
		return nil, fmt.Errorf("request timeout must be positive")
	}
	return cfg, nil
}
