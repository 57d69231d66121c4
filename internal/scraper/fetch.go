package scraper

import (
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/nDmitry/tgpulse/internal/entity"
)

// Fetcher performs a single HTTP request and returns the response
// body. Non-2xx responses and network errors are both failures. The
// scraper depends only on this narrow contract.
type Fetcher interface {
	Fetch(ctx context.Context, method, rawURL string, form url.Values) (string, error)
}

type httpFetcher struct {
	client    *http.Client
	userAgent string
}

func newHTTPFetcher(cfg entity.NetworkConfig) (*httpFetcher, error) {
	transport := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   10 * time.Second,
			KeepAlive: 60 * time.Second,
		}).DialContext,
		MaxIdleConns:        100,
		MaxIdleConnsPerHost: 10,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 10 * time.Second,
	}

	if cfg.ProxyURL != "" {
		proxyURL, err := url.Parse(cfg.ProxyURL)

		if err != nil {
			return nil, fmt.Errorf("invalid proxy URL %q: %w", cfg.ProxyURL, err)
		}

		transport.Proxy = http.ProxyURL(proxyURL)
	}

	if !cfg.VerifySSL {
		transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true} // nolint: gosec
	}

	return &httpFetcher{
		client: &http.Client{
			Transport: transport,
			Timeout:   time.Duration(cfg.RequestTimeout) * time.Second,
		},
		userAgent: defaultUserAgent,
	}, nil
}

func (f *httpFetcher) Fetch(ctx context.Context, method, rawURL string, form url.Values) (string, error) {
	var body io.Reader

	if len(form) > 0 {
		body = strings.NewReader(form.Encode())
	}

	req, err := http.NewRequestWithContext(ctx, method, rawURL, body)

	if err != nil {
		return "", fmt.Errorf("could not build request for %s: %w", rawURL, err)
	}

	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("X-Requested-With", "XMLHttpRequest")

	if body != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}

	res, err := f.client.Do(req)

	if err != nil {
		return "", fmt.Errorf("request error %s: %w", rawURL, err)
	}

	defer res.Body.Close()

	payload, err := io.ReadAll(res.Body)

	if err != nil {
		return "", fmt.Errorf("could not read response from %s: %w", rawURL, err)
	}

	if res.StatusCode < http.StatusOK || res.StatusCode >= http.StatusMultipleChoices {
		return "", fmt.Errorf("unexpected status %d from %s", res.StatusCode, rawURL)
	}

	return string(payload), nil
}

// fetchWithRetry wraps a fetch with a bounded retry loop using a
// linearly increasing backoff delay between attempts.
func (s *Scraper) fetchWithRetry(ctx context.Context, method, rawURL string, form url.Values) (string, error) {
	attempts := s.cfg.Network.RetryAttempts

	if attempts < 1 {
		attempts = 1
	}

	var lastErr error

	for attempt := 1; attempt <= attempts; attempt++ {
		payload, err := s.fetcher.Fetch(ctx, method, rawURL, form)

		if err == nil {
			return payload, nil
		}

		lastErr = err

		if ctx.Err() != nil || attempt == attempts {
			break
		}

		s.logger.Debug("Request failed, will retry",
			"url", rawURL,
			"attempt", fmt.Sprintf("%d/%d", attempt, attempts),
			"error", err)

		delay := time.Duration(s.cfg.Network.RetryDelay * float64(attempt) * float64(time.Second))

		if err := sleep(ctx, delay); err != nil {
			return "", err
		}
	}

	return "", lastErr
}
