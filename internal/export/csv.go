package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/nDmitry/tgpulse/internal/entity"
)

// PostsCSV exports the channel's posts as CSV rows and returns the
// path of the created file.
func (e *Exporter) PostsCSV(channel *entity.Channel, filename string) (string, error) {
	if filename == "" {
		filename = timestampedName(channel.Info.Channel+"_posts", "csv")
	}

	path := e.filepath(filename)
	file, err := os.Create(path)

	if err != nil {
		return "", fmt.Errorf("could not create %s: %w", path, err)
	}

	defer file.Close()

	w := csv.NewWriter(file)

	if err := w.Write([]string{"channel", "post_id", "views", "date", "author", "text"}); err != nil {
		return "", fmt.Errorf("could not write CSV header: %w", err)
	}

	for _, post := range channel.Posts {
		record := []string{
			channel.Info.Channel,
			post.ID,
			strconv.Itoa(post.Views),
			post.Date.Format(time.RFC3339),
			post.Author,
			strings.ReplaceAll(post.Text, "\n", " "),
		}

		if err := w.Write(record); err != nil {
			return "", fmt.Errorf("could not write CSV record: %w", err)
		}
	}

	w.Flush()

	if err := w.Error(); err != nil {
		return "", fmt.Errorf("could not flush %s: %w", path, err)
	}

	e.logger.Info("Posts exported to CSV", "posts", len(channel.Posts), "path", path)

	return path, nil
}

var metricsCSVHeader = []string{
	"channel", "period",
	"total_posts", "total_views", "analysis_period_days",
	"avg_views_per_post", "median_views_per_post", "max_views", "min_views",
	"views_std_dev", "views_cv",
	"average_vr_percent", "median_vr_percent", "percentile_90_vr", "percentile_75_vr",
	"consistency_index_percent",
	"posts_per_day", "active_subs_estimate", "activation_ratio_percent",
	"top_10_percent_share", "gini_coefficient",
	"engagement_quality", "content_consistency", "posting_frequency",
}

// MetricsCSV exports per-channel, per-period metrics as one CSV table
// and returns the path of the created file.
func (e *Exporter) MetricsCSV(metrics map[string]map[int]*entity.Metrics, filename string) (string, error) {
	if filename == "" {
		filename = timestampedName("metrics_analysis", "csv")
	}

	path := e.filepath(filename)
	file, err := os.Create(path)

	if err != nil {
		return "", fmt.Errorf("could not create %s: %w", path, err)
	}

	defer file.Close()

	w := csv.NewWriter(file)

	if err := w.Write(metricsCSVHeader); err != nil {
		return "", fmt.Errorf("could not write CSV header: %w", err)
	}

	for _, channelName := range sortedKeys(metrics) {
		periods := make([]int, 0, len(metrics[channelName]))

		for period := range metrics[channelName] {
			periods = append(periods, period)
		}

		sort.Ints(periods)

		for _, period := range periods {
			if err := w.Write(metricsRow(channelName, period, metrics[channelName][period])); err != nil {
				return "", fmt.Errorf("could not write CSV record: %w", err)
			}
		}
	}

	w.Flush()

	if err := w.Error(); err != nil {
		return "", fmt.Errorf("could not flush %s: %w", path, err)
	}

	e.logger.Info("Metrics exported to CSV", "path", path)

	return path, nil
}

func metricsRow(channelName string, period int, m *entity.Metrics) []string {
	return []string{
		channelName,
		fmt.Sprintf("%d_days", period),
		strconv.Itoa(m.TotalPosts),
		strconv.Itoa(m.TotalViews),
		strconv.Itoa(m.AnalysisPeriodDays),
		formatFloat(m.AvgViewsPerPost),
		formatFloat(m.MedianViewsPerPost),
		strconv.Itoa(m.MaxViews),
		strconv.Itoa(m.MinViews),
		formatFloat(m.ViewsStdDev),
		formatFloat(m.ViewsCV),
		formatFloat(m.AverageVRPercent),
		formatFloat(m.MedianVRPercent),
		formatFloat(m.Percentile90VR),
		formatFloat(m.Percentile75VR),
		formatFloat(m.ConsistencyIndexPercent),
		formatFloat(m.PostsPerDay),
		strconv.Itoa(m.ActiveSubsEstimate),
		formatFloat(m.ActivationRatioPercent),
		formatFloat(m.TopDecileSharePercent),
		formatFloat(m.GiniCoefficient),
		m.EngagementQuality(),
		m.ContentConsistency(),
		m.PostingFrequency(),
	}
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
