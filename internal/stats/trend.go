package stats

import (
	"fmt"
	"math"
	"time"

	"github.com/nDmitry/tgpulse/internal/entity"
)

const (
	maxTrendWindows    = 12
	minWindowsForTrend = 2

	trendGrowthThreshold  = 2.0
	trendDeclineThreshold = -2.0
)

// Trend direction labels.
const (
	TrendGrowing          = "growing"
	TrendDeclining        = "declining"
	TrendStable           = "stable"
	TrendInsufficientData = "insufficient_data"
)

// TrendWindow summarizes one fixed-size time window of the post
// history, most recent first.
type TrendWindow struct {
	Period      string  `json:"period"`
	PostCount   int     `json:"posts_count"`
	AvgViews    float64 `json:"avg_views"`
	VRPercent   float64 `json:"vr_percent"`
	PostsPerDay float64 `json:"posts_per_day"`
}

// TrendReport is the outcome of a windowed trend analysis.
type TrendReport struct {
	Windows   []TrendWindow `json:"windows"`
	Direction string        `json:"trend_direction"`
}

// Trend partitions the post history into consecutive backward-looking
// windows of windowDays, starting from now and walking back until a
// window contains no posts or the window ceiling is reached. The
// overall direction compares the most recent window's view-rate with
// the oldest one's against fixed thresholds.
func (a *Analyzer) Trend(channel *entity.Channel, windowDays int) *TrendReport {
	if windowDays <= 0 {
		windowDays = 7
	}

	report := &TrendReport{Direction: TrendInsufficientData}
	current := time.Now()

	for {
		windowStart := current.AddDate(0, 0, -windowDays)

		var views []float64

		for _, p := range channel.Posts {
			if !p.Date.IsZero() && !p.Date.Before(windowStart) && p.Date.Before(current) {
				views = append(views, float64(p.Views))
			}
		}

		if len(views) == 0 {
			break
		}

		avgViews := mean(views)
		viewRate := 0.0

		if channel.Info.Subscribers > 0 {
			viewRate = avgViews / float64(channel.Info.Subscribers) * 100
		}

		report.Windows = append(report.Windows, TrendWindow{
			Period: fmt.Sprintf("%s - %s",
				windowStart.Format(time.DateOnly),
				current.Format(time.DateOnly)),
			PostCount:   len(views),
			AvgViews:    math.Round(avgViews),
			VRPercent:   math.Round(viewRate*100) / 100,
			PostsPerDay: float64(len(views)) / float64(windowDays),
		})

		current = windowStart

		if len(report.Windows) >= maxTrendWindows {
			break
		}
	}

	report.Direction = trendDirection(report.Windows)

	return report
}

func trendDirection(windows []TrendWindow) string {
	if len(windows) < minWindowsForTrend {
		return TrendInsufficientData
	}

	change := windows[0].VRPercent - windows[len(windows)-1].VRPercent

	switch {
	case change > trendGrowthThreshold:
		return TrendGrowing
	case change < trendDeclineThreshold:
		return TrendDeclining
	default:
		return TrendStable
	}
}
