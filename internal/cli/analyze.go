package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nDmitry/tgpulse/internal/app"
	"github.com/nDmitry/tgpulse/internal/entity"
	"github.com/nDmitry/tgpulse/internal/export"
	"github.com/nDmitry/tgpulse/internal/scraper"
	"github.com/nDmitry/tgpulse/internal/stats"
)

var (
	analyzeDays         int
	analyzeMaxPosts     int
	analyzePeriods      []int
	analyzeFormat       string
	analyzeOutput       string
	analyzeNoMetrics    bool
	analyzeNoAgeInfo    bool
	analyzeChannelsFile string
	analyzeProxy        string
	analyzeInsecure     bool
	analyzeFeed         bool
	analyzeTrendWindow  int
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [channels]",
	Short: "Collect channels and export engagement metrics",
	Long: `Collect post history of one or more public channels and export the
data together with engagement metrics.

Channels are given as a comma-separated argument or via --channels-file.
Supported forms: name, @name, t.me/name, t.me/s/name, https://t.me/name.`,
	Args: cobra.MaximumNArgs(1),
	RunE: analyzeAction,
}

func init() {
	analyzeCmd.Flags().IntVarP(&analyzeDays, "days", "d", 0, "number of days to analyze (default from config)")
	analyzeCmd.Flags().IntVar(&analyzeMaxPosts, "max-posts", 0, "maximum number of posts to collect per channel")
	analyzeCmd.Flags().IntSliceVar(&analyzePeriods, "periods", nil, "periods to compare, e.g. 7,30")
	analyzeCmd.Flags().StringVarP(&analyzeFormat, "format", "f", "", "output format: json, csv or both")
	analyzeCmd.Flags().StringVarP(&analyzeOutput, "output", "o", "", "directory to save results")
	analyzeCmd.Flags().BoolVar(&analyzeNoMetrics, "no-metrics", false, "collect data only, skip metrics")
	analyzeCmd.Flags().BoolVar(&analyzeNoAgeInfo, "no-age-info", false, "skip the channel age probe")
	analyzeCmd.Flags().StringVarP(&analyzeChannelsFile, "channels-file", "c", "", "file with a channel list")
	analyzeCmd.Flags().StringVar(&analyzeProxy, "proxy", "", "proxy URL or host:port")
	analyzeCmd.Flags().BoolVar(&analyzeInsecure, "insecure", false, "disable TLS certificate verification")
	analyzeCmd.Flags().BoolVar(&analyzeFeed, "feed", false, "also export each channel as an Atom feed")
	analyzeCmd.Flags().IntVar(&analyzeTrendWindow, "trend-window", 0, "also export a trend report with the given window in days")

	rootCmd.AddCommand(analyzeCmd)
}

// nolint: cyclop
func analyzeAction(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()

	if err != nil {
		return err
	}

	applyAnalyzeFlags(cfg)

	channelNames := cfg.Channels

	if len(args) > 0 && args[0] != "" {
		channelNames = ParseChannelList(args[0])
	}

	// A channels file wins over the positional argument.
	if analyzeChannelsFile != "" {
		channelNames, err = ParseChannelsFile(analyzeChannelsFile)

		if err != nil {
			return err
		}
	}

	if len(channelNames) == 0 {
		return errors.New("no channels specified: pass them as an argument or via --channels-file")
	}

	periods := cfg.AnalysisPeriods

	if len(analyzePeriods) > 0 {
		periods = analyzePeriods
	} else if analyzeDays > 0 {
		periods = []int{analyzeDays}
	}

	collectDays := 0

	for _, p := range periods {
		if p <= 0 {
			return fmt.Errorf("periods must be positive, got %d", p)
		}

		collectDays = max(collectDays, p)
	}

	logger := app.Logger()
	logger.Info("Starting channel analysis",
		"channels", channelNames,
		"periods", periods)

	sc, err := scraper.New(cfg)

	if err != nil {
		return err
	}

	channels, err := sc.ParseChannels(cmd.Context(), channelNames, collectDays)

	if err != nil {
		return err
	}

	if len(channels) == 0 {
		return errors.New("failed to parse any channels")
	}

	analyzer := stats.NewAnalyzer()
	allMetrics := make(map[string]map[int]*entity.Metrics)

	if cfg.IncludeMetrics && !analyzeNoMetrics {
		for name, channel := range channels {
			allMetrics[name] = analyzer.ComparePeriods(channel, periods)
		}
	}

	exporter, err := export.NewExporter(cfg.OutputDir)

	if err != nil {
		return err
	}

	if err := exportResults(exporter, cfg, channels, allMetrics, periods); err != nil {
		return err
	}

	if analyzeFeed {
		for _, channel := range channels {
			if _, err := exporter.AtomFeed(channel, ""); err != nil {
				return err
			}
		}
	}

	if analyzeTrendWindow > 0 {
		for name, channel := range channels {
			report := analyzer.Trend(channel, analyzeTrendWindow)

			if _, err := exporter.TrendJSON(name, report, ""); err != nil {
				return err
			}
		}
	}

	return nil
}

func applyAnalyzeFlags(cfg *entity.Config) {
	if analyzeMaxPosts > 0 {
		cfg.Parsing.MaxPosts = analyzeMaxPosts
	}

	if analyzeNoAgeInfo {
		cfg.Parsing.FetchAgeInfo = false
	}

	if analyzeProxy != "" {
		proxy := analyzeProxy

		if !strings.Contains(proxy, "://") {
			proxy = "http://" + proxy
		}

		cfg.Network.ProxyURL = proxy
	}

	if analyzeInsecure {
		cfg.Network.VerifySSL = false
	}

	if analyzeOutput != "" {
		cfg.OutputDir = analyzeOutput
	}

	if analyzeFormat != "" {
		cfg.OutputFormat = analyzeFormat
	}
}

// mainPeriodMetrics picks the longest period's metrics per channel
// for the formats that show one Metrics per channel.
func mainPeriodMetrics(allMetrics map[string]map[int]*entity.Metrics, periods []int) map[string]*entity.Metrics {
	mainPeriod := 0

	for _, p := range periods {
		mainPeriod = max(mainPeriod, p)
	}

	picked := make(map[string]*entity.Metrics, len(allMetrics))

	for name, byPeriod := range allMetrics {
		if m, ok := byPeriod[mainPeriod]; ok {
			picked[name] = m
		}
	}

	return picked
}

func exportResults(
	exporter *export.Exporter,
	cfg *entity.Config,
	channels map[string]*entity.Channel,
	allMetrics map[string]map[int]*entity.Metrics,
	periods []int,
) error {
	format := cfg.OutputFormat

	if format != "json" && format != "csv" && format != "both" {
		return fmt.Errorf("output format must be json, csv or both, got %q", format)
	}

	mainMetrics := mainPeriodMetrics(allMetrics, periods)

	if format == "json" || format == "both" {
		if len(channels) == 1 {
			for name, channel := range channels {
				if _, err := exporter.ChannelJSON(channel, mainMetrics[name], ""); err != nil {
					return err
				}
			}
		} else {
			if _, err := exporter.ChannelsJSON(channels, mainMetrics, ""); err != nil {
				return err
			}
		}
	}

	if format == "csv" || format == "both" {
		for _, channel := range channels {
			if _, err := exporter.PostsCSV(channel, ""); err != nil {
				return err
			}
		}

		if len(allMetrics) > 0 {
			if _, err := exporter.MetricsCSV(allMetrics, ""); err != nil {
				return err
			}
		}
	}

	if len(channels) > 1 && len(mainMetrics) > 0 {
		if _, err := exporter.SummaryReport(channels, mainMetrics, ""); err != nil {
			return err
		}
	}

	return nil
}
