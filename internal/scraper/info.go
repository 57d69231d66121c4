package scraper

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/gocolly/colly/v2"

	"github.com/nDmitry/tgpulse/internal/entity"
)

// FetchChannelInfo loads the channel preview page and extracts its
// title, subscriber counter and description. A page without a title
// means the channel does not exist, which is a hard failure for this
// channel.
func (s *Scraper) FetchChannelInfo(ctx context.Context, channelName string) (*entity.ChannelInfo, error) {
	info := &entity.ChannelInfo{Channel: channelName}

	options := []colly.CollectorOption{
		colly.UserAgent(defaultUserAgent),
		colly.AllowURLRevisit(),
	}

	if host := baseHost(s.cfg.Parsing.BaseURL); host != "" {
		options = append(options, colly.AllowedDomains(host))
	}

	c := colly.NewCollector(options...)
	c.SetRequestTimeout(time.Duration(s.cfg.Network.RequestTimeout) * time.Second)

	if s.transport != nil {
		c.WithTransport(s.transport)
	}

	var descriptionHTML string

	c.OnHTML(".tgme_page_title", func(e *colly.HTMLElement) {
		info.Name = strings.TrimSpace(e.Text)
	})

	c.OnHTML(".tgme_page_extra", func(e *colly.HTMLElement) {
		info.Subscribers = ParseAbbreviatedNumber(e.Text)
	})

	c.OnHTML(".tgme_page_description", func(e *colly.HTMLElement) {
		if html, err := e.DOM.Html(); err == nil {
			descriptionHTML = html
		}
	})

	var requestErr error

	c.OnError(func(_ *colly.Response, err error) {
		requestErr = err
	})

	pageURL := fmt.Sprintf("%s/%s", s.cfg.Parsing.BaseURL, channelName)

	if err := s.visitWithRetry(ctx, c, pageURL, &requestErr); err != nil {
		return nil, err
	}

	if info.Name == "" {
		return nil, fmt.Errorf("channel @%s not found", channelName)
	}

	info.Description = s.converter.Convert(descriptionHTML)

	return info, nil
}

// visitWithRetry applies the same bounded linear-backoff policy as
// page fetches to a collector visit.
func (s *Scraper) visitWithRetry(ctx context.Context, c *colly.Collector, pageURL string, requestErr *error) error {
	attempts := s.cfg.Network.RetryAttempts

	if attempts < 1 {
		attempts = 1
	}

	var lastErr error

	for attempt := 1; attempt <= attempts; attempt++ {
		*requestErr = nil

		err := c.Visit(pageURL)
		c.Wait()

		if err == nil {
			err = *requestErr
		}

		if err == nil {
			return nil
		}

		lastErr = err

		if ctx.Err() != nil || attempt == attempts {
			break
		}

		s.logger.Debug("Channel page request failed, will retry",
			"url", pageURL,
			"attempt", fmt.Sprintf("%d/%d", attempt, attempts),
			"error", err)

		delay := time.Duration(s.cfg.Network.RetryDelay * float64(attempt) * float64(time.Second))

		if err := sleep(ctx, delay); err != nil {
			return err
		}
	}

	return fmt.Errorf("could not visit %s: %w", pageURL, lastErr)
}

func baseHost(baseURL string) string {
	parsed, err := url.Parse(baseURL)

	if err != nil {
		return ""
	}

	return parsed.Host
}
