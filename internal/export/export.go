// Package export writes collected channels and computed metrics to
// files in various formats. It consumes finished values only and
// never reaches back into the acquisition or analysis layers.
package export

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/nDmitry/tgpulse/internal/app"
	"github.com/nDmitry/tgpulse/internal/entity"
)

// Exporter writes analysis results into a target directory.
type Exporter struct {
	outputDir string
	logger    *slog.Logger
}

// NewExporter creates an exporter, making sure the output directory
// exists.
func NewExporter(outputDir string) (*Exporter, error) {
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return nil, fmt.Errorf("could not create output directory %s: %w", outputDir, err)
	}

	return &Exporter{outputDir: outputDir, logger: app.Logger()}, nil
}

func (e *Exporter) filepath(filename string) string {
	return filepath.Join(e.outputDir, filename)
}

func timestampedName(prefix, ext string) string {
	return fmt.Sprintf("%s_%s.%s", prefix, time.Now().Format("20060102_150405"), ext)
}

// metricsDoc augments the numeric metrics with their derived
// qualitative labels for serialization.
type metricsDoc struct {
	*entity.Metrics
	EngagementQuality  string `json:"engagement_quality"`
	ContentConsistency string `json:"content_consistency"`
	PostingFrequency   string `json:"posting_frequency"`
}

func newMetricsDoc(m *entity.Metrics) *metricsDoc {
	return &metricsDoc{
		Metrics:            m,
		EngagementQuality:  m.EngagementQuality(),
		ContentConsistency: m.ContentConsistency(),
		PostingFrequency:   m.PostingFrequency(),
	}
}

type infoDoc struct {
	entity.ChannelInfo
	ChannelAgeDays int `json:"channel_age_days"`
}

type channelDoc struct {
	Info    infoDoc       `json:"info"`
	Posts   []entity.Post `json:"posts"`
	Metrics *metricsDoc   `json:"metrics,omitempty"`
}

func newChannelDoc(channel *entity.Channel, metrics *entity.Metrics) *channelDoc {
	doc := &channelDoc{
		Info: infoDoc{
			ChannelInfo:    channel.Info,
			ChannelAgeDays: channel.Info.AgeDays(),
		},
		Posts: channel.Posts,
	}

	if metrics != nil {
		doc.Metrics = newMetricsDoc(metrics)
	}

	return doc
}
