package cli

import (
	"github.com/spf13/cobra"

	"github.com/nDmitry/tgpulse/internal/api/rest"
	"github.com/nDmitry/tgpulse/internal/app"
	"github.com/nDmitry/tgpulse/internal/cache"
	"github.com/nDmitry/tgpulse/internal/scraper"
	"github.com/nDmitry/tgpulse/internal/stats"
)

var (
	servePort  string
	serveRedis string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API for on-demand channel analysis",
	Long: `Run an HTTP server exposing GET /channels/{username} that collects
a channel on demand and returns its posts with engagement metrics.
Responses are cached in Redis when --redis is set, otherwise in memory.`,
	RunE: serveAction,
}

func init() {
	serveCmd.Flags().StringVarP(&servePort, "port", "p", "8080", "port to listen on")
	serveCmd.Flags().StringVar(&serveRedis, "redis", "", "Redis address, e.g. localhost:6379 (in-memory cache when empty)")

	rootCmd.AddCommand(serveCmd)
}

func serveAction(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()

	if err != nil {
		return err
	}

	ctx := cmd.Context()
	logger := app.Logger()

	var responseCache cache.Cache

	if serveRedis != "" {
		redisClient, err := cache.NewRedisClient(ctx, serveRedis)

		if err != nil {
			return err
		}

		responseCache = redisClient
	} else {
		logger.Info("No Redis address given, using the in-memory cache")

		responseCache = cache.NewMemoryCache()
	}

	defer responseCache.Close()

	sc, err := scraper.New(cfg)

	if err != nil {
		return err
	}

	server := rest.NewServer(responseCache, sc, stats.NewAnalyzer(), cfg.Parsing.DefaultDays, servePort)

	return server.Run(ctx)
}
