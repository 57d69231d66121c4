package entity

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
)

const CacheTTLDefault = 60 // minutes

// AnalyzeParams represents validated request parameters for an
// on-demand channel analysis.
type AnalyzeParams struct {
	// Username is the Telegram channel username.
	Username string

	// Days is the trailing analysis window length.
	Days int

	// MaxPosts caps the number of collected posts, 0 means no cap.
	MaxPosts int

	// CacheTTL is the cache time-to-live in minutes.
	// A value of 0 means no caching.
	CacheTTL int
}

// NewAnalyzeParamsFromRequest parses and validates request parameters
// and creates a new AnalyzeParams.
func NewAnalyzeParamsFromRequest(r *http.Request, defaultDays int) (*AnalyzeParams, error) {
	username := strings.TrimPrefix(r.PathValue("username"), "@")

	if username == "" {
		return nil, fmt.Errorf("username is required")
	}

	qp := r.URL.Query()

	days := defaultDays

	if daysStr := qp.Get("days"); daysStr != "" {
		var err error
		days, err = strconv.Atoi(daysStr)

		if err != nil || days <= 0 {
			return nil, fmt.Errorf("days must be a positive integer")
		}
	}

	maxPosts := 0

	if maxStr := qp.Get("max_posts"); maxStr != "" {
		var err error
		maxPosts, err = strconv.Atoi(maxStr)

		if err != nil || maxPosts < 0 {
			return nil, fmt.Errorf("max_posts must be a non-negative integer")
		}
	}

	cacheTTL := CacheTTLDefault

	if ttlStr := qp.Get("cache_ttl"); ttlStr != "" {
		var err error
		cacheTTL, err = strconv.Atoi(ttlStr)

		if err != nil {
			return nil, fmt.Errorf("cache_ttl must be a valid integer")
		}

		if cacheTTL < 0 {
			return nil, fmt.Errorf("cache_ttl must be non-negative")
		}
	}

	return &AnalyzeParams{
		Username: username,
		Days:     days,
		MaxPosts: maxPosts,
		CacheTTL: cacheTTL,
	}, nil
}
