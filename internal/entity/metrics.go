package entity

// Engagement quality thresholds, in average view-rate percent.
const (
	ExcellentEngagementThreshold    = 25.0
	GoodEngagementThreshold         = 15.0
	AverageEngagementThreshold      = 8.0
	BelowAverageEngagementThreshold = 3.0
)

// Consistency thresholds, in view coefficient of variation.
const (
	HighConsistencyThreshold   = 0.5
	MediumConsistencyThreshold = 1.0
)

// Posting frequency thresholds, in posts per day.
const (
	HighFrequencyThreshold   = 3.0
	MediumFrequencyThreshold = 1.0
	LowFrequencyThreshold    = 0.5
)

// Metrics holds the engagement indicators derived from one channel's
// post history over one analysis period. A Metrics value is computed
// once and never merged or mutated.
type Metrics struct {
	TotalPosts         int `json:"total_posts"`
	TotalViews         int `json:"total_views"`
	AnalysisPeriodDays int `json:"analysis_period_days"`

	AvgViewsPerPost    float64 `json:"avg_views_per_post"`
	MedianViewsPerPost float64 `json:"median_views_per_post"`
	MaxViews           int     `json:"max_views"`
	MinViews           int     `json:"min_views"`
	ViewsStdDev        float64 `json:"views_std_dev"`
	ViewsCV            float64 `json:"views_cv"`

	AverageVRPercent        float64 `json:"average_vr_percent"`
	MedianVRPercent         float64 `json:"median_vr_percent"`
	Percentile90VR          float64 `json:"percentile_90_vr"`
	Percentile75VR          float64 `json:"percentile_75_vr"`
	ConsistencyIndexPercent float64 `json:"consistency_index_percent"`

	PostsPerDay            float64 `json:"posts_per_day"`
	ActiveSubsEstimate     int     `json:"active_subs_estimate"`
	ActivationRatioPercent float64 `json:"activation_ratio_percent"`

	TopDecileSharePercent float64 `json:"top_10_percent_share"`
	GiniCoefficient       float64 `json:"gini_coefficient"`
}

// EngagementQuality buckets the average view-rate into a label.
func (m *Metrics) EngagementQuality() string {
	switch {
	case m.AverageVRPercent >= ExcellentEngagementThreshold:
		return "Excellent"
	case m.AverageVRPercent >= GoodEngagementThreshold:
		return "Good"
	case m.AverageVRPercent >= AverageEngagementThreshold:
		return "Average"
	case m.AverageVRPercent >= BelowAverageEngagementThreshold:
		return "Below Average"
	default:
		return "Low"
	}
}

// ContentConsistency buckets the view coefficient of variation.
func (m *Metrics) ContentConsistency() string {
	switch {
	case m.ViewsCV <= HighConsistencyThreshold:
		return "High"
	case m.ViewsCV <= MediumConsistencyThreshold:
		return "Medium"
	default:
		return "Low"
	}
}

// PostingFrequency buckets the posts-per-day rate.
func (m *Metrics) PostingFrequency() string {
	switch {
	case m.PostsPerDay >= HighFrequencyThreshold:
		return "High"
	case m.PostsPerDay >= MediumFrequencyThreshold:
		return "Medium"
	case m.PostsPerDay >= LowFrequencyThreshold:
		return "Low"
	default:
		return "Rare"
	}
}
