package entity

import (
	"fmt"
	"strings"
)

// Validation bounds for network settings.
const (
	minTimeout       = 1
	maxTimeout       = 300
	maxRetryAttempts = 10
	minRequestRate   = 0.1
	maxRequestRate   = 100.0
)

// NetworkConfig controls the HTTP transport behavior.
type NetworkConfig struct {
	// ProxyURL routes all requests through the given proxy when set.
	ProxyURL string `mapstructure:"proxyUrl" json:"proxyUrl"`

	// VerifySSL disables TLS certificate checks when false.
	VerifySSL bool `mapstructure:"verifySsl" json:"verifySsl"`

	// RequestTimeout is the per-request timeout in seconds.
	RequestTimeout int `mapstructure:"requestTimeoutSeconds" json:"requestTimeoutSeconds"`

	// RetryAttempts bounds the retry loop around each page fetch.
	RetryAttempts int `mapstructure:"retryAttempts" json:"retryAttempts"`

	// RetryDelay is the backoff base in seconds; attempt n waits n times this.
	RetryDelay float64 `mapstructure:"retryDelaySeconds" json:"retryDelaySeconds"`

	// RequestsPerSecond is the self-imposed rate ceiling between page fetches.
	RequestsPerSecond float64 `mapstructure:"requestsPerSecond" json:"requestsPerSecond"`
}

// ParsingConfig controls the acquisition engine.
type ParsingConfig struct {
	BaseURL     string `mapstructure:"baseUrl" json:"baseUrl"`
	DefaultDays int    `mapstructure:"defaultDays" json:"defaultDays"`

	// MaxPosts caps the number of collected posts per channel, 0 means no cap.
	MaxPosts int `mapstructure:"maxPosts" json:"maxPosts"`

	FetchAgeInfo  bool `mapstructure:"fetchAgeInfo" json:"fetchAgeInfo"`
	AgePostsLimit int  `mapstructure:"agePostsLimit" json:"agePostsLimit"`
}

// Config is the application configuration aggregate. It is built once
// by the config loader and passed read-only into each component.
type Config struct {
	LogLevel        string   `mapstructure:"logLevel" json:"logLevel"`
	OutputDir       string   `mapstructure:"outputDir" json:"outputDir"`
	OutputFormat    string   `mapstructure:"outputFormat" json:"outputFormat"`
	IncludeMetrics  bool     `mapstructure:"includeMetrics" json:"includeMetrics"`
	AnalysisPeriods []int    `mapstructure:"analysisPeriods" json:"analysisPeriods"`
	Channels        []string `mapstructure:"channels" json:"channels"`

	Network NetworkConfig `mapstructure:"network" json:"network"`
	Parsing ParsingConfig `mapstructure:"parsing" json:"parsing"`
}

// Validate checks the configuration bounds before any component uses it.
func (c *Config) Validate() error {
	n := c.Network

	if n.RequestTimeout < minTimeout || n.RequestTimeout > maxTimeout {
		return fmt.Errorf("request timeout must be between %d and %d seconds, got %d",
			minTimeout, maxTimeout, n.RequestTimeout)
	}

	if n.RetryAttempts < 0 || n.RetryAttempts > maxRetryAttempts {
		return fmt.Errorf("retry attempts must be between 0 and %d, got %d",
			maxRetryAttempts, n.RetryAttempts)
	}

	if n.RequestsPerSecond < minRequestRate || n.RequestsPerSecond > maxRequestRate {
		return fmt.Errorf("request rate must be between %.1f and %.1f, got %.2f",
			minRequestRate, maxRequestRate, n.RequestsPerSecond)
	}

	if c.Parsing.DefaultDays <= 0 {
		return fmt.Errorf("default analysis period must be positive, got %d", c.Parsing.DefaultDays)
	}

	if proxy := n.ProxyURL; proxy != "" && !strings.Contains(proxy, "://") {
		return fmt.Errorf("proxy URL must include a scheme, got %q", proxy)
	}

	return nil
}
