package stats

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nDmitry/tgpulse/internal/entity"
)

// trendChannel places avg-view levels into consecutive backward 7-day
// windows: levels[0] is the most recent window.
func trendChannel(subscribers int, levels ...int) *entity.Channel {
	now := time.Now()

	var posts []entity.Post

	for window, views := range levels {
		date := now.AddDate(0, 0, -window*7).Add(-24 * time.Hour)

		posts = append(posts, entity.Post{
			ID:    string(rune('a' + window)),
			Views: views,
			Date:  date,
		})
	}

	return &entity.Channel{
		Info:  entity.ChannelInfo{Channel: "somechannel", Subscribers: subscribers},
		Posts: posts,
	}
}

func TestTrend_Growing(t *testing.T) {
	analyzer := NewAnalyzer()

	// Recent view-rate 10%, oldest 5%: +5 points is above the growth
	// threshold.
	report := analyzer.Trend(trendChannel(1000, 100, 70, 50), 7)

	require.Len(t, report.Windows, 3)
	assert.Equal(t, TrendGrowing, report.Direction)
	assert.Equal(t, 10.0, report.Windows[0].VRPercent)
	assert.Equal(t, 5.0, report.Windows[2].VRPercent)
}

func TestTrend_Declining(t *testing.T) {
	analyzer := NewAnalyzer()

	report := analyzer.Trend(trendChannel(1000, 50, 70, 100), 7)

	assert.Equal(t, TrendDeclining, report.Direction)
}

func TestTrend_Stable(t *testing.T) {
	analyzer := NewAnalyzer()

	// A one-point change stays within the +-2 threshold band.
	report := analyzer.Trend(trendChannel(1000, 110, 105, 100), 7)

	assert.Equal(t, TrendStable, report.Direction)
}

func TestTrend_InsufficientData(t *testing.T) {
	analyzer := NewAnalyzer()

	report := analyzer.Trend(trendChannel(1000, 100), 7)

	require.Len(t, report.Windows, 1)
	assert.Equal(t, TrendInsufficientData, report.Direction)
}

func TestTrend_NoPosts(t *testing.T) {
	analyzer := NewAnalyzer()

	report := analyzer.Trend(&entity.Channel{}, 7)

	assert.Empty(t, report.Windows)
	assert.Equal(t, TrendInsufficientData, report.Direction)
}

func TestTrend_StopsAtGap(t *testing.T) {
	analyzer := NewAnalyzer()
	now := time.Now()

	// Posts in the most recent window and in the third window back;
	// the empty second window ends the walk.
	channel := &entity.Channel{
		Info: entity.ChannelInfo{Channel: "somechannel", Subscribers: 1000},
		Posts: []entity.Post{
			{ID: "1", Views: 100, Date: now.Add(-24 * time.Hour)},
			{ID: "2", Views: 100, Date: now.AddDate(0, 0, -16)},
		},
	}

	report := analyzer.Trend(channel, 7)

	require.Len(t, report.Windows, 1)
	assert.Equal(t, TrendInsufficientData, report.Direction)
}

func TestTrend_WindowCeiling(t *testing.T) {
	analyzer := NewAnalyzer()
	now := time.Now()

	var posts []entity.Post

	for day := range 120 {
		posts = append(posts, entity.Post{
			ID:    "1",
			Views: 100,
			Date:  now.AddDate(0, 0, -day).Add(-time.Hour),
		})
	}

	report := analyzer.Trend(&entity.Channel{
		Info:  entity.ChannelInfo{Channel: "somechannel", Subscribers: 1000},
		Posts: posts,
	}, 7)

	assert.Len(t, report.Windows, maxTrendWindows)
	assert.Equal(t, TrendStable, report.Direction)
}
