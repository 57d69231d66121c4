package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func validConfig() *Config {
	return &Config{
		LogLevel:     "INFO",
		OutputDir:    "output",
		OutputFormat: "json",
		Network: NetworkConfig{
			VerifySSL:         true,
			RequestTimeout:    30,
			RetryAttempts:     3,
			RetryDelay:        2,
			RequestsPerSecond: 0.5,
		},
		Parsing: ParsingConfig{
			BaseURL:     "https://t.me",
			DefaultDays: 30,
		},
	}
}

func TestConfigValidate(t *testing.T) {
	assert.NoError(t, validConfig().Validate())

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"Timeout too low", func(c *Config) { c.Network.RequestTimeout = 0 }},
		{"Timeout too high", func(c *Config) { c.Network.RequestTimeout = 301 }},
		{"Negative retries", func(c *Config) { c.Network.RetryAttempts = -1 }},
		{"Too many retries", func(c *Config) { c.Network.RetryAttempts = 11 }},
		{"Rate too low", func(c *Config) { c.Network.RequestsPerSecond = 0.05 }},
		{"Rate too high", func(c *Config) { c.Network.RequestsPerSecond = 200 }},
		{"Non-positive default days", func(c *Config) { c.Parsing.DefaultDays = 0 }},
		{"Proxy without scheme", func(c *Config) { c.Network.ProxyURL = "localhost:8080" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)

			assert.Error(t, cfg.Validate())
		})
	}
}
