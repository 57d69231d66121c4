package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEngagementQuality(t *testing.T) {
	tests := []struct {
		vr       float64
		expected string
	}{
		{30, "Excellent"},
		{25, "Excellent"},
		{20, "Good"},
		{10, "Average"},
		{5, "Below Average"},
		{1, "Low"},
		{0, "Low"},
	}

	for _, tt := range tests {
		m := &Metrics{AverageVRPercent: tt.vr}

		assert.Equal(t, tt.expected, m.EngagementQuality(), "vr=%v", tt.vr)
	}
}

func TestContentConsistency(t *testing.T) {
	tests := []struct {
		cv       float64
		expected string
	}{
		{0.3, "High"},
		{0.5, "High"},
		{0.8, "Medium"},
		{1.0, "Medium"},
		{1.5, "Low"},
	}

	for _, tt := range tests {
		m := &Metrics{ViewsCV: tt.cv}

		assert.Equal(t, tt.expected, m.ContentConsistency(), "cv=%v", tt.cv)
	}
}

func TestPostingFrequency(t *testing.T) {
	tests := []struct {
		perDay   float64
		expected string
	}{
		{5, "High"},
		{3, "High"},
		{2, "Medium"},
		{0.7, "Low"},
		{0.1, "Rare"},
	}

	for _, tt := range tests {
		m := &Metrics{PostsPerDay: tt.perDay}

		assert.Equal(t, tt.expected, m.PostingFrequency(), "perDay=%v", tt.perDay)
	}
}
