// Package stats derives engagement metrics from a channel's collected
// post history. All computations are pure functions of their inputs;
// degenerate inputs (no posts, no subscribers, single samples) yield
// well-defined zero values instead of errors.
package stats

import (
	"log/slog"
	"sort"
	"time"

	"github.com/nDmitry/tgpulse/internal/app"
	"github.com/nDmitry/tgpulse/internal/entity"
)

const (
	percentile90 = 0.9
	percentile75 = 0.75
)

// Analyzer computes channel performance indicators.
type Analyzer struct {
	logger *slog.Logger
}

// NewAnalyzer creates an analyzer.
func NewAnalyzer() *Analyzer {
	return &Analyzer{logger: app.Logger()}
}

// Analyze computes metrics over the channel's posts. When days is
// positive only posts within the trailing window are considered; an
// empty filtered set produces a zero-valued Metrics record.
func (a *Analyzer) Analyze(channel *entity.Channel, days int) *entity.Metrics {
	metrics := &entity.Metrics{AnalysisPeriodDays: max(days, 0)}

	posts := channel.Posts

	if days > 0 {
		posts = channel.PostsSince(time.Now().AddDate(0, 0, -days))
	}

	if len(posts) == 0 {
		return metrics
	}

	a.logger.Debug("Analyzing metrics",
		"channel", channel.Info.Channel,
		"posts", len(posts),
		"days", days)

	metrics.TotalPosts = len(posts)

	for _, p := range posts {
		metrics.TotalViews += p.Views
	}

	views := make([]float64, len(posts))

	for i, p := range posts {
		views[i] = float64(p.Views)
	}

	a.viewMetrics(metrics, views)
	a.viewRateMetrics(metrics, views, channel.Info.Subscribers)
	a.activityMetrics(metrics, views, days, channel.Info.Subscribers)
	a.qualityMetrics(metrics, views)

	return metrics
}

// ComparePeriods runs the same analysis for several trailing window
// lengths and returns one Metrics per period.
func (a *Analyzer) ComparePeriods(channel *entity.Channel, periods []int) map[int]*entity.Metrics {
	a.logger.Debug("Comparing periods", "channel", channel.Info.Channel, "periods", periods)

	results := make(map[int]*entity.Metrics, len(periods))

	for _, period := range periods {
		results[period] = a.Analyze(channel, period)
	}

	return results
}

func (a *Analyzer) viewMetrics(metrics *entity.Metrics, views []float64) {
	metrics.AvgViewsPerPost = mean(views)
	metrics.MedianViewsPerPost = float64(int(median(views)))
	metrics.MaxViews = int(maxValue(views))
	metrics.MinViews = int(minValue(views))

	if len(views) > 1 {
		metrics.ViewsStdDev = sampleStdDev(views, metrics.AvgViewsPerPost)

		if metrics.AvgViewsPerPost > 0 {
			metrics.ViewsCV = metrics.ViewsStdDev / metrics.AvgViewsPerPost
		}
	}
}

// viewRateMetrics fills the view-rate distribution; without a
// subscriber count the rates are meaningless and stay zero.
func (a *Analyzer) viewRateMetrics(metrics *entity.Metrics, views []float64, subscribers int) {
	if subscribers == 0 {
		return
	}

	rates := make([]float64, len(views))

	for i, v := range views {
		rates[i] = v / float64(subscribers) * 100
	}

	metrics.AverageVRPercent = mean(rates)
	metrics.MedianVRPercent = median(rates)

	sorted := append([]float64(nil), rates...)
	sort.Float64s(sorted)

	metrics.Percentile90VR = percentile(sorted, percentile90)
	metrics.Percentile75VR = percentile(sorted, percentile75)

	aboveAvg := 0

	for _, r := range rates {
		if r >= metrics.AverageVRPercent {
			aboveAvg++
		}
	}

	metrics.ConsistencyIndexPercent = float64(aboveAvg) / float64(len(rates)) * 100
}

func (a *Analyzer) activityMetrics(metrics *entity.Metrics, views []float64, periodDays, subscribers int) {
	if periodDays > 0 {
		metrics.PostsPerDay = float64(len(views)) / float64(periodDays)
	}

	sorted := append([]float64(nil), views...)
	sort.Float64s(sorted)

	metrics.ActiveSubsEstimate = int(percentile(sorted, percentile90))

	if subscribers > 0 {
		metrics.ActivationRatioPercent = float64(metrics.ActiveSubsEstimate) / float64(subscribers) * 100
	}
}

func (a *Analyzer) qualityMetrics(metrics *entity.Metrics, views []float64) {
	var total float64

	for _, v := range views {
		total += v
	}

	sorted := append([]float64(nil), views...)
	sort.Sort(sort.Reverse(sort.Float64Slice(sorted)))

	// Top decile by count, at least one post.
	topCount := (len(views) + 9) / 10

	if topCount < 1 {
		topCount = 1
	}

	var topViews float64

	for _, v := range sorted[:topCount] {
		topViews += v
	}

	if total > 0 {
		metrics.TopDecileSharePercent = topViews / total * 100
	}

	metrics.GiniCoefficient = gini(views)
}
