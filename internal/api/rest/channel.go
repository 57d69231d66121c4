package rest

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/goccy/go-json"

	"github.com/nDmitry/tgpulse/internal/app"
	"github.com/nDmitry/tgpulse/internal/cache"
	"github.com/nDmitry/tgpulse/internal/entity"
)

// ChannelHandler serves on-demand channel analysis
type ChannelHandler struct {
	cache       cache.Cache
	scraper     Scraper
	analyzer    Analyzer
	defaultDays int
	logger      *slog.Logger
}

// NewChannelHandler creates a ChannelHandler and registers its routes
// on the given mux.
func NewChannelHandler(mux *http.ServeMux, c cache.Cache, s Scraper, a Analyzer, defaultDays int) *ChannelHandler {
	handler := &ChannelHandler{
		cache:       c,
		scraper:     s,
		analyzer:    a,
		defaultDays: defaultDays,
		logger:      app.Logger(),
	}

	mux.HandleFunc("GET /channels/{username}", handler.GetChannelAnalysis)

	return handler
}

type analysisResponse struct {
	Info               entity.ChannelInfo `json:"info"`
	ChannelAgeDays     int                `json:"channel_age_days"`
	Metrics            *entity.Metrics    `json:"metrics"`
	EngagementQuality  string             `json:"engagement_quality"`
	ContentConsistency string             `json:"content_consistency"`
	PostingFrequency   string             `json:"posting_frequency"`
	Posts              []entity.Post      `json:"posts"`
}

// GetChannelAnalysis collects a channel's recent history and returns
// it together with the derived metrics. Responses are cached per
// username and window under the requested TTL.
func (h *ChannelHandler) GetChannelAnalysis(w http.ResponseWriter, r *http.Request) {
	params, err := entity.NewAnalyzeParamsFromRequest(r, h.defaultDays)

	if err != nil {
		h.handleError(w, err, http.StatusBadRequest)
		return
	}

	if params.CacheTTL > 0 {
		cacheKey := h.buildCacheKey(params)
		cachedContent, cacheErr := h.cache.Get(r.Context(), cacheKey)

		if cacheErr == nil {
			w.Header().Set("X-CACHE-STATUS", "HIT")
			h.serveContent(w, cachedContent, params.CacheTTL)
			return
		} else if cacheErr != cache.ErrCacheMiss {
			h.logger.Error("Cache error", "error", cacheErr)
		}
	}

	channel, err := h.scraper.ParseChannel(r.Context(), params.Username, params.Days, params.MaxPosts)

	if err != nil {
		h.handleError(w, err, http.StatusBadGateway)
		return
	}

	metrics := h.analyzer.Analyze(channel, params.Days)

	response := &analysisResponse{
		Info:               channel.Info,
		ChannelAgeDays:     channel.Info.AgeDays(),
		Metrics:            metrics,
		EngagementQuality:  metrics.EngagementQuality(),
		ContentConsistency: metrics.ContentConsistency(),
		PostingFrequency:   metrics.PostingFrequency(),
		Posts:              channel.Posts,
	}

	content, err := json.Marshal(response)

	if err != nil {
		h.handleError(w, err, http.StatusInternalServerError)
		return
	}

	if params.CacheTTL > 0 {
		cacheKey := h.buildCacheKey(params)
		cacheTTL := time.Duration(params.CacheTTL) * time.Minute

		// Use background context for caching to avoid cancellation
		cacheCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := h.cache.Set(cacheCtx, cacheKey, content, cacheTTL); err != nil {
			h.logger.Error("Failed to cache content", "error", err)
		}
	}

	w.Header().Set("X-CACHE-STATUS", "MISS")
	h.serveContent(w, content, params.CacheTTL)
}

// buildCacheKey generates a cache key based on request parameters
func (h *ChannelHandler) buildCacheKey(params *entity.AnalyzeParams) string {
	return fmt.Sprintf("channel:%s:%d:%d", params.Username, params.Days, params.MaxPosts)
}

// serveContent sends the content to the client with appropriate headers
func (h *ChannelHandler) serveContent(w http.ResponseWriter, content []byte, cacheTTL int) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")

	if cacheTTL > 0 {
		w.Header().Set("Cache-Control", fmt.Sprintf("public, max-age=%d", cacheTTL*60))
	} else {
		w.Header().Set("Cache-Control", "no-cache")
	}

	w.WriteHeader(http.StatusOK)

	if _, err := w.Write(content); err != nil {
		h.logger.Error("Failed to write a response", "error", err)
	}
}

// handleError responds with an error message
func (h *ChannelHandler) handleError(w http.ResponseWriter, err error, statusCode int) {
	h.logger.Error("Request error", "error", err, "status", statusCode)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	response := map[string]string{"error": err.Error()}

	if err := json.NewEncoder(w).Encode(response); err != nil {
		h.logger.Error("Failed to encode an error response", "error", err)
	}
}
