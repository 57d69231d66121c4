package export

import (
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/goccy/go-json"

	"github.com/nDmitry/tgpulse/internal/entity"
)

// ChannelJSON exports one channel, optionally with its metrics, and
// returns the path of the created file.
func (e *Exporter) ChannelJSON(channel *entity.Channel, metrics *entity.Metrics, filename string) (string, error) {
	if filename == "" {
		filename = timestampedName(channel.Info.Channel, "json")
	}

	path := e.filepath(filename)

	if err := e.writeJSON(path, newChannelDoc(channel, metrics)); err != nil {
		return "", err
	}

	e.logger.Info("Channel exported to JSON", "path", path)

	return path, nil
}

type channelsDoc struct {
	GeneratedAt   time.Time              `json:"generated_at"`
	TotalChannels int                    `json:"total_channels"`
	Channels      map[string]*channelDoc `json:"channels"`
}

// ChannelsJSON exports several channels into one file and returns its
// path. Metrics are attached per channel when present in the map.
func (e *Exporter) ChannelsJSON(channels map[string]*entity.Channel, metrics map[string]*entity.Metrics, filename string) (string, error) {
	if filename == "" {
		filename = timestampedName("channels_analysis", "json")
	}

	doc := &channelsDoc{
		GeneratedAt:   time.Now(),
		TotalChannels: len(channels),
		Channels:      make(map[string]*channelDoc, len(channels)),
	}

	for name, channel := range channels {
		doc.Channels[name] = newChannelDoc(channel, metrics[name])
	}

	path := e.filepath(filename)

	if err := e.writeJSON(path, doc); err != nil {
		return "", err
	}

	e.logger.Info("Channels exported to JSON", "channels", len(channels), "path", path)

	return path, nil
}

// TrendJSON exports a trend report for one channel.
func (e *Exporter) TrendJSON(channelName string, report any, filename string) (string, error) {
	if filename == "" {
		filename = timestampedName(channelName+"_trend", "json")
	}

	path := e.filepath(filename)

	if err := e.writeJSON(path, report); err != nil {
		return "", err
	}

	e.logger.Info("Trend report exported to JSON", "path", path)

	return path, nil
}

func (e *Exporter) writeJSON(path string, doc any) error {
	payload, err := json.MarshalIndent(doc, "", "  ")

	if err != nil {
		return fmt.Errorf("could not marshal %s: %w", path, err)
	}

	if err := os.WriteFile(path, payload, 0o644); err != nil {
		return fmt.Errorf("could not write %s: %w", path, err)
	}

	return nil
}

// sortedKeys returns map keys in a stable order for deterministic
// output files.
func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))

	for k := range m {
		keys = append(keys, k)
	}

	sort.Strings(keys)

	return keys
}
