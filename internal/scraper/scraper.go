// Package scraper collects channel metadata and post history from the
// Telegram web preview at t.me. It owns its transport and rate-limit
// clock, so one Scraper instance must not be shared across goroutines.
package scraper

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/nDmitry/tgpulse/internal/app"
	"github.com/nDmitry/tgpulse/internal/entity"
	"github.com/nDmitry/tgpulse/internal/htmltext"
)

const minChannelNameLength = 3

const defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// Scraper orchestrates page fetches, extraction and rate limiting for
// one or more channels.
type Scraper struct {
	cfg       *entity.Config
	fetcher   Fetcher
	transport http.RoundTripper
	converter *htmltext.Converter
	logger    *slog.Logger
}

// New creates a scraper with an HTTP transport built from the network
// configuration.
func New(cfg *entity.Config) (*Scraper, error) {
	fetcher, err := newHTTPFetcher(cfg.Network)

	if err != nil {
		return nil, fmt.Errorf("could not build HTTP transport: %w", err)
	}

	return &Scraper{
		cfg:       cfg,
		fetcher:   fetcher,
		transport: fetcher.client.Transport,
		converter: htmltext.NewConverter(),
		logger:    app.Logger(),
	}, nil
}

// NewWithFetcher creates a scraper backed by a custom transport
// collaborator. Used by tests to script page responses.
func NewWithFetcher(cfg *entity.Config, fetcher Fetcher) *Scraper {
	return &Scraper{
		cfg:       cfg,
		fetcher:   fetcher,
		converter: htmltext.NewConverter(),
		logger:    app.Logger(),
	}
}

// ParseChannel fetches the channel metadata and its post history for
// the trailing number of days and assembles them into a Channel.
// Non-positive days and maxPosts fall back to the configured
// defaults. Age probing runs as a separate best-effort step before
// the Channel is published to the caller.
func (s *Scraper) ParseChannel(ctx context.Context, channelName string, days, maxPosts int) (*entity.Channel, error) {
	channelName = strings.TrimPrefix(strings.TrimSpace(channelName), "@")

	if days <= 0 {
		days = s.cfg.Parsing.DefaultDays
	}

	if maxPosts <= 0 {
		maxPosts = s.cfg.Parsing.MaxPosts
	}

	if err := validateChannelName(channelName); err != nil {
		return nil, err
	}

	if days <= 0 {
		return nil, errors.New("number of days must be positive")
	}

	s.logger.Info("Parsing channel", "channel", channelName, "days", days)

	start := time.Now()

	info, err := s.FetchChannelInfo(ctx, channelName)

	if err != nil {
		return nil, fmt.Errorf("could not load channel info for @%s: %w", channelName, err)
	}

	s.logger.Info("Channel found",
		"channel", channelName,
		"name", info.Name,
		"subscribers", info.Subscribers)

	posts, latestID, err := s.Collect(ctx, channelName, days, maxPosts)

	if err != nil {
		return nil, err
	}

	s.logger.Info("Collected posts",
		"channel", channelName,
		"posts", len(posts),
		"days", days,
		"latestPostId", latestID)

	if s.cfg.Parsing.FetchAgeInfo {
		if first := s.ProbeFirstPost(ctx, channelName); !first.IsZero() {
			info.FirstPostDate = first
		}
	}

	s.logger.Info("Parsing completed",
		"channel", channelName,
		"elapsed", time.Since(start).Round(time.Millisecond).String())

	return &entity.Channel{Info: *info, Posts: posts}, nil
}

// ParseChannels parses several channels in sequence, pausing between
// them to respect the request rate. One channel's failure is logged
// and the batch continues; the error return is reserved for
// cancellation.
func (s *Scraper) ParseChannels(ctx context.Context, channelNames []string, days int) (map[string]*entity.Channel, error) {
	if len(channelNames) == 0 {
		return nil, errors.New("channel list cannot be empty")
	}

	s.logger.Info("Starting batch parse", "channels", len(channelNames))

	results := make(map[string]*entity.Channel, len(channelNames))

	for i, channelName := range channelNames {
		s.logger.Info("Parsing channel in batch",
			"channel", channelName,
			"position", fmt.Sprintf("%d/%d", i+1, len(channelNames)))

		channel, err := s.ParseChannel(ctx, channelName, days, 0)

		if err != nil {
			if ctx.Err() != nil {
				return results, ctx.Err()
			}

			s.logger.Error("Could not parse channel", "channel", channelName, "error", err)
			continue
		}

		results[strings.TrimPrefix(strings.TrimSpace(channelName), "@")] = channel

		if i < len(channelNames)-1 {
			if err := sleep(ctx, s.requestInterval()); err != nil {
				return results, err
			}
		}
	}

	s.logger.Info("Batch parse completed",
		"parsed", len(results),
		"requested", len(channelNames))

	return results, nil
}

func validateChannelName(channelName string) error {
	if len(channelName) < minChannelNameLength || strings.ContainsAny(channelName, " \t") {
		return fmt.Errorf("invalid channel name: @%s", channelName)
	}

	return nil
}

// requestInterval derives the cooperative pause between requests from
// the configured rate ceiling.
func (s *Scraper) requestInterval() time.Duration {
	return time.Duration(float64(time.Second) / s.cfg.Network.RequestsPerSecond)
}

// sleep waits for the given duration unless the context ends first.
func sleep(ctx context.Context, d time.Duration) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(d):
		return nil
	}
}
