package rest

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nDmitry/tgpulse/internal/cache"
	"github.com/nDmitry/tgpulse/internal/entity"
)

type stubScraper struct {
	channel *entity.Channel
	err     error
	calls   int
}

func (s *stubScraper) ParseChannel(_ context.Context, channelName string, days, maxPosts int) (*entity.Channel, error) {
	s.calls++

	if s.err != nil {
		return nil, s.err
	}

	return s.channel, nil
}

type stubAnalyzer struct{}

func (stubAnalyzer) Analyze(_ *entity.Channel, days int) *entity.Metrics {
	return &entity.Metrics{
		AnalysisPeriodDays: days,
		TotalPosts:         2,
		AverageVRPercent:   20,
	}
}

func testChannel() *entity.Channel {
	return &entity.Channel{
		Info: entity.ChannelInfo{
			Channel:     "somechannel",
			Name:        "Some Channel",
			Subscribers: 1000,
		},
		Posts: []entity.Post{
			{ID: "1", Views: 100, Date: time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)},
			{ID: "2", Views: 300, Date: time.Date(2025, 6, 2, 10, 0, 0, 0, time.UTC)},
		},
	}
}

func newTestMux(s Scraper, a Analyzer) *http.ServeMux {
	mux := http.NewServeMux()
	NewChannelHandler(mux, cache.NewMemoryCache(), s, a, 30)

	return mux
}

func TestGetChannelAnalysis(t *testing.T) {
	mux := newTestMux(&stubScraper{channel: testChannel()}, stubAnalyzer{})

	r := httptest.NewRequest("GET", "/channels/somechannel?days=7", nil)
	w := httptest.NewRecorder()

	mux.ServeHTTP(w, r)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "MISS", w.Header().Get("X-CACHE-STATUS"))
	assert.Contains(t, w.Header().Get("Content-Type"), "application/json")

	var response struct {
		Info    entity.ChannelInfo `json:"info"`
		Metrics *entity.Metrics    `json:"metrics"`
		Quality string             `json:"engagement_quality"`
		Posts   []entity.Post      `json:"posts"`
	}

	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))

	assert.Equal(t, "somechannel", response.Info.Channel)
	assert.Equal(t, 7, response.Metrics.AnalysisPeriodDays)
	assert.Equal(t, "Good", response.Quality)
	assert.Len(t, response.Posts, 2)
}

func TestGetChannelAnalysis_CacheHit(t *testing.T) {
	scraper := &stubScraper{channel: testChannel()}
	mux := newTestMux(scraper, stubAnalyzer{})

	for range 2 {
		r := httptest.NewRequest("GET", "/channels/somechannel", nil)
		w := httptest.NewRecorder()

		mux.ServeHTTP(w, r)
		require.Equal(t, http.StatusOK, w.Code)
	}

	r := httptest.NewRequest("GET", "/channels/somechannel", nil)
	w := httptest.NewRecorder()

	mux.ServeHTTP(w, r)

	assert.Equal(t, "HIT", w.Header().Get("X-CACHE-STATUS"))
	assert.Equal(t, 1, scraper.calls)
}

func TestGetChannelAnalysis_CacheDisabled(t *testing.T) {
	scraper := &stubScraper{channel: testChannel()}
	mux := newTestMux(scraper, stubAnalyzer{})

	for range 2 {
		r := httptest.NewRequest("GET", "/channels/somechannel?cache_ttl=0", nil)
		w := httptest.NewRecorder()

		mux.ServeHTTP(w, r)

		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "MISS", w.Header().Get("X-CACHE-STATUS"))
		assert.Equal(t, "no-cache", w.Header().Get("Cache-Control"))
	}

	assert.Equal(t, 2, scraper.calls)
}

func TestGetChannelAnalysis_BadParams(t *testing.T) {
	mux := newTestMux(&stubScraper{channel: testChannel()}, stubAnalyzer{})

	r := httptest.NewRequest("GET", "/channels/somechannel?days=zero", nil)
	w := httptest.NewRecorder()

	mux.ServeHTTP(w, r)

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var response map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Contains(t, response["error"], "days")
}

func TestGetChannelAnalysis_ScrapeFailure(t *testing.T) {
	mux := newTestMux(&stubScraper{err: errors.New("channel @somechannel not found")}, stubAnalyzer{})

	r := httptest.NewRequest("GET", "/channels/somechannel", nil)
	w := httptest.NewRecorder()

	mux.ServeHTTP(w, r)

	assert.Equal(t, http.StatusBadGateway, w.Code)

	var response map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Contains(t, response["error"], "not found")
}
