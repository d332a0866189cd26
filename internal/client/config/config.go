// Package config handles configuration for the CLI client: defaults, a JSON
// overlay (-c/-config) and command-line flags, later sources winning.
package config

import (
	"time"

	"github.com/dmitrijs2005/gophauth/internal/flagx"
)

// Config holds runtime settings for the gophauth CLI.
type Config struct {
	ServerURL      string
	RequestTimeout time.Duration
}

func (c *Config) LoadDefaults() {
	c.ServerURL = "http://127.0.0.1:8080"
	c.RequestTimeout = 10 * time.Second
}

// LoadConfig builds a Config from args (without the program name).
func LoadConfig(args []string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()
	if err := parseJson(cfg, flagx.ConfigPath(args)); err != nil {
		return nil, err
	}
	if err := parseFlags(cfg, args); err != nil {
		return nil, err
	}
	return cfg, nil
}
