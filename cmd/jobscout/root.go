package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/spf13/cobra"

	"github.com/amishk599/jobscout/internal/collector"
	"github.com/amishk599/jobscout/internal/config"
	"github.com/amishk599/jobscout/internal/filter"
	"github.com/amishk599/jobscout/internal/model"
	"github.com/amishk599/jobscout/internal/notifier"
	"github.com/amishk599/jobscout/internal/ratelimit"
	"github.com/amishk599/jobscout/internal/scorer"
	"github.com/amishk599/jobscout/internal/search"
)

var (
	cfgPath string
	envPath string
	debug   bool
)

var rootCmd = &cobra.Command{
	Use:   "jobscout",
	Short: "Boolean job search, scored against your profile",
	Long: "jobscout runs Boolean searches for job postings, has a language model score them " +
		"against a candidate profile, writes a ranked report and alerts on strong matches.",
	// Default to `run` so that `jobscout` with no args runs one pass (cron friendly).
	RunE:         runRun,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "path to config file (default: JOBSCOUT_CONFIG env var or ./config.yaml)")
	rootCmd.PersistentFlags().StringVar(&envPath, "env", ".env", "path to a .env file loaded before the config")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
	addRunFlags(rootCmd)
}

// loadConfig loads the .env file, resolves the config path and parses it.
// Priority: explicit path arg > JOBSCOUT_CONFIG env var > "./config.yaml"
func loadConfig(path string) (*config.Config, error) {
	if err := config.LoadEnvFile(envPath); err != nil {
		return nil, err
	}
	return config.Load(resolveConfigPath(path))
}

func resolveConfigPath(path string) string {
	if path != "" {
		return path
	}
	if env := os.Getenv("JOBSCOUT_CONFIG"); env != "" {
		return env
	}
	return "config.yaml"
}

func setupLogger(dbg bool) *slog.Logger {
	logLevel := slog.LevelInfo
	if dbg {
		logLevel = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel}))
}

func setupNotifier(cfg *config.Config, httpClient *http.Client, logger *slog.Logger) model.Notifier {
	switch cfg.Notification.Type {
	case "slack":
		logger.Info("using slack notifier")
		return notifier.NewSlackNotifier(cfg.Notification.WebhookURL, httpClient, logger)
	default:
		return notifier.NewLogNotifier(logger)
	}
}

func setupProvider(ctx context.Context, cfg *config.Config, logger *slog.Logger) (scorer.LLMProvider, error) {
	switch cfg.Scoring.Provider {
	case "gemini":
		p, err := scorer.NewGeminiProvider(ctx, cfg.Scoring.APIKey, cfg.Scoring.Model)
		if err != nil {
			return nil, err
		}
		logger.Info("using gemini scorer", "model", p.Model())
		return p, nil
	case "openai":
		if cfg.Scoring.APIKey == "" {
			return nil, fmt.Errorf("openai api key is required (scoring.api_key or OPENAI_API_KEY)")
		}
		httpClient := &http.Client{Timeout: cfg.Scoring.Timeout}
		logger.Info("using openai scorer", "model", cfg.Scoring.Model, "base_url", cfg.Scoring.BaseURL)
		return scorer.NewOpenAIProvider(cfg.Scoring.BaseURL, cfg.Scoring.APIKey, cfg.Scoring.Model, httpClient), nil
	default:
		return nil, fmt.Errorf("unsupported scoring provider %q", cfg.Scoring.Provider)
	}
}

func buildQueries(cfg *config.Config) []model.Query {
	enabled := cfg.EnabledQueries()
	queries := make([]model.Query, 0, len(enabled))
	for _, q := range enabled {
		queries = append(queries, model.Query{Name: q.Name, String: q.String})
	}
	return queries
}

func buildCollector(cfg *config.Config, logger *slog.Logger) *collector.Collector {
	httpClient := &http.Client{Timeout: cfg.Search.Timeout}
	searcher := search.NewTavilySearcher(
		cfg.Search.Endpoint,
		cfg.Search.APIKey,
		cfg.Search.SearchDepth,
		cfg.Search.ResultsPerQuery,
		cfg.Search.DaysBack,
		httpClient,
	)
	postingFilter := filter.NewJobPostingFilter(
		cfg.Filters.URLPatterns,
		cfg.Filters.ExcludeURLPatterns,
		cfg.Filters.TitleSignals,
	)
	policy := ratelimit.NewFixedDelay(cfg.Search.DelayBetweenQueries)
	logger.Info("search configured",
		"results_per_query", cfg.Search.ResultsPerQuery,
		"days_back", cfg.Search.DaysBack,
		"delay", cfg.Search.DelayBetweenQueries.String(),
	)
	return collector.New(searcher, postingFilter, policy, "tavily", logger)
}

// printQueries lists the enabled queries for --dry-run.
func printQueries(queries []model.Query) {
	fmt.Printf("%d enabled queries:\n", len(queries))
	for i, q := range queries {
		fmt.Printf("%2d. %s\n    %s\n", i+1, q.Name, q.String)
	}
}
