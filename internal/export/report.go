package export

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/nDmitry/tgpulse/internal/entity"
)

const topChannelsInReport = 5

// SummaryReport writes a human-readable text summary across several
// channels and returns the path of the created file.
func (e *Exporter) SummaryReport(channels map[string]*entity.Channel, metrics map[string]*entity.Metrics, filename string) (string, error) {
	if filename == "" {
		filename = timestampedName("summary_report", "txt")
	}

	var b strings.Builder

	b.WriteString("TGPULSE - CHANNEL ANALYSIS SUMMARY\n")
	b.WriteString(strings.Repeat("=", 60) + "\n\n")
	fmt.Fprintf(&b, "Generated at: %s\n", time.Now().Format(time.DateTime))
	fmt.Fprintf(&b, "Total channels: %d\n\n", len(channels))

	var totalPosts, totalSubs int

	for _, channel := range channels {
		totalPosts += len(channel.Posts)
		totalSubs += channel.Info.Subscribers
	}

	b.WriteString("OVERALL STATISTICS:\n")
	b.WriteString(strings.Repeat("-", 30) + "\n")
	fmt.Fprintf(&b, "Total posts: %d\n", totalPosts)
	fmt.Fprintf(&b, "Total subscribers: %d\n\n", totalSubs)

	b.WriteString("CHANNEL DETAILS:\n")
	b.WriteString(strings.Repeat("-", 30) + "\n\n")

	for _, name := range sortedKeys(channels) {
		channel := channels[name]

		fmt.Fprintf(&b, "@%s - %s\n", name, channel.Info.Name)
		fmt.Fprintf(&b, "  Subscribers: %d\n", channel.Info.Subscribers)
		fmt.Fprintf(&b, "  Posts in sample: %d\n", len(channel.Posts))

		if m, ok := metrics[name]; ok {
			fmt.Fprintf(&b, "  View-Rate: %.1f%%\n", m.AverageVRPercent)
			fmt.Fprintf(&b, "  Activity: %.1f posts/day\n", m.PostsPerDay)
			fmt.Fprintf(&b, "  Quality: %s\n", m.EngagementQuality())
		}

		b.WriteString("\n")
	}

	if len(metrics) > 0 {
		writeTopChannels(&b, metrics)
	}

	path := e.filepath(filename)

	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		return "", fmt.Errorf("could not write %s: %w", path, err)
	}

	e.logger.Info("Summary report created", "path", path)

	return path, nil
}

func writeTopChannels(b *strings.Builder, metrics map[string]*entity.Metrics) {
	type ranked struct {
		name string
		vr   float64
	}

	rankings := make([]ranked, 0, len(metrics))

	for name, m := range metrics {
		rankings = append(rankings, ranked{name: name, vr: m.AverageVRPercent})
	}

	sort.Slice(rankings, func(i, j int) bool {
		if rankings[i].vr != rankings[j].vr {
			return rankings[i].vr > rankings[j].vr
		}

		return rankings[i].name < rankings[j].name
	})

	fmt.Fprintf(b, "TOP-%d CHANNELS BY VIEW-RATE:\n", topChannelsInReport)
	b.WriteString(strings.Repeat("-", 30) + "\n")

	for i, r := range rankings {
		if i >= topChannelsInReport {
			break
		}

		fmt.Fprintf(b, "%d. @%s: %.1f%%\n", i+1, r.name, r.vr)
	}
}
