package config

import (
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/viper"

	"github.com/nDmitry/tgpulse/internal/entity"
)

// Read loads the configuration from an optional file, environment
// variables prefixed with TGPULSE_ and built-in defaults, in that
// order of precedence. The returned value is validated and is not
// meant to be mutated afterwards.
func Read(configPath string) (*entity.Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("TGPULSE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)

		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("could not read config file: %w", err)
		}
	}

	var cfg entity.Config

	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("could not parse config: %w", err)
	}

	cfg.Channels = CleanChannelNames(cfg.Channels)

	slices.Sort(cfg.AnalysisPeriods)
	cfg.AnalysisPeriods = slices.Compact(cfg.AnalysisPeriods)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// CleanChannelNames strips @ prefixes and surrounding whitespace and
// lowercases every name, dropping entries that end up empty.
func CleanChannelNames(channels []string) []string {
	cleaned := make([]string, 0, len(channels))

	for _, ch := range channels {
		name := strings.ToLower(strings.TrimPrefix(strings.TrimSpace(ch), "@"))

		if name != "" {
			cleaned = append(cleaned, name)
		}
	}

	return cleaned
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("logLevel", "INFO")
	v.SetDefault("outputDir", "output")
	v.SetDefault("outputFormat", "json")
	v.SetDefault("includeMetrics", true)
	v.SetDefault("analysisPeriods", []int{7, 30})

	v.SetDefault("network.verifySsl", true)
	v.SetDefault("network.requestTimeoutSeconds", 30)
	v.SetDefault("network.retryAttempts", 3)
	v.SetDefault("network.retryDelaySeconds", 1.0)
	v.SetDefault("network.requestsPerSecond", 1.0)

	v.SetDefault("parsing.baseUrl", "https://t.me")
	v.SetDefault("parsing.defaultDays", 30)
	v.SetDefault("parsing.maxPosts", 0)
	v.SetDefault("parsing.fetchAgeInfo", true)
	v.SetDefault("parsing.agePostsLimit", 5)
}
