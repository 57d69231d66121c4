package entity

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewAnalyzeParamsFromRequest(t *testing.T) {
	r := httptest.NewRequest("GET", "/channels/durov?days=14&max_posts=500&cache_ttl=30", nil)
	r.SetPathValue("username", "durov")

	params, err := NewAnalyzeParamsFromRequest(r, 30)
	require.NoError(t, err)

	assert.Equal(t, "durov", params.Username)
	assert.Equal(t, 14, params.Days)
	assert.Equal(t, 500, params.MaxPosts)
	assert.Equal(t, 30, params.CacheTTL)
}

func TestNewAnalyzeParamsFromRequest_Defaults(t *testing.T) {
	r := httptest.NewRequest("GET", "/channels/@durov", nil)
	r.SetPathValue("username", "@durov")

	params, err := NewAnalyzeParamsFromRequest(r, 30)
	require.NoError(t, err)

	assert.Equal(t, "durov", params.Username)
	assert.Equal(t, 30, params.Days)
	assert.Equal(t, 0, params.MaxPosts)
	assert.Equal(t, CacheTTLDefault, params.CacheTTL)
}

func TestNewAnalyzeParamsFromRequest_Invalid(t *testing.T) {
	tests := []struct {
		name   string
		target string
	}{
		{"Non-numeric days", "/channels/durov?days=abc"},
		{"Zero days", "/channels/durov?days=0"},
		{"Negative days", "/channels/durov?days=-5"},
		{"Negative max posts", "/channels/durov?max_posts=-1"},
		{"Non-numeric cache TTL", "/channels/durov?cache_ttl=soon"},
		{"Negative cache TTL", "/channels/durov?cache_ttl=-10"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("GET", tt.target, nil)
			r.SetPathValue("username", "durov")

			_, err := NewAnalyzeParamsFromRequest(r, 30)
			assert.Error(t, err)
		})
	}
}

func TestNewAnalyzeParamsFromRequest_MissingUsername(t *testing.T) {
	r := httptest.NewRequest("GET", "/channels/", nil)

	_, err := NewAnalyzeParamsFromRequest(r, 30)
	assert.Error(t, err)
}
