package config

import (
	"os"
	"time"
)

// Config holds runtime settings for the gophauth CLI.
type Config struct {
	ServerEndpointAddr string
	// Token is a bearer token to start the session with, e.g. one saved
	// from an earlier login.
	Token   string
	Timeout time.Duration
}

func (c *Config) LoadDefaults() {
	c.ServerEndpointAddr = "127.0.0.1:50051"
	c.Token = ""
	c.Timeout = 5 * time.Second
}

// LoadConfig applies defaults, then JSON, then flags from os.Args.
func LoadConfig() (*Config, error) {
	return load(os.Args[1:])
}

func load(args []string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()
	if err := parseJson(cfg, args); err != nil {
		return nil, err
	}
	if err := parseFlags(cfg, args); err != nil {
		return nil, err
	}
	return cfg, nil
}
