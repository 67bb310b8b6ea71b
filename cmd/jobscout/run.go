package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/amishk599/jobscout/internal/history"
	"github.com/amishk599/jobscout/internal/metrics"
	"github.com/amishk599/jobscout/internal/pipeline"
	"github.com/amishk599/jobscout/internal/report"
	"github.com/amishk599/jobscout/internal/scorer"
)

var (
	runDryRun  bool
	runInputs  []string
	runHistory string
	runProfile string
	runOutput  string
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run one search, score and alert pass",
	Long: "Collects postings for every enabled query, scores them against the profile, writes the " +
		"report, sends the alert and records new links in the history.",
	RunE: runRun,
}

func init() {
	addRunFlags(runCmd)
	rootCmd.AddCommand(runCmd)
}

func addRunFlags(c *cobra.Command) {
	c.Flags().BoolVar(&runDryRun, "dry-run", false, "list the enabled queries and exit without network calls")
	c.Flags().StringArrayVar(&runInputs, "input", nil, "score a pre-collected results file instead of searching (repeatable)")
	c.Flags().StringVar(&runHistory, "history", "", "override history.backend (file, sqlite, redis, memory)")
	c.Flags().StringVar(&runProfile, "profile", "", "override scoring.profile")
	c.Flags().StringVar(&runOutput, "output", "", "override report.dir")
}

func runRun(cmd *cobra.Command, args []string) error {
	logger := setupLogger(debug)

	cfg, err := loadConfig(cfgPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	if runHistory != "" {
		cfg.History.Backend = runHistory
	}
	if runProfile != "" {
		cfg.Scoring.ProfilePath = runProfile
	}
	if runOutput != "" {
		cfg.Report.Dir = runOutput
	}

	queries := buildQueries(cfg)
	if runDryRun {
		printQueries(queries)
		return nil
	}

	logger.Info("config loaded",
		"queries", len(queries),
		"provider", cfg.Scoring.Provider,
		"history", cfg.History.Backend,
		"report_dir", cfg.Report.Dir,
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var source pipeline.Source
	if len(runInputs) > 0 {
		logger.Info("scoring pre-collected input", "files", len(runInputs))
		source = pipeline.NewFileSource(runInputs...)
	} else {
		if cfg.Search.APIKey == "" {
			logger.Error("search api key not set, nothing to do (set search.api_key or BOOLEAN_TAVILY_API_KEY)")
			return nil
		}
		if len(queries) == 0 {
			logger.Error("no enabled queries in config")
			os.Exit(1)
		}
		source = pipeline.NewLiveSource(buildCollector(cfg, logger), queries)
	}

	profile, err := scorer.LoadProfile(cfg.Scoring.ProfilePath)
	if err != nil {
		logger.Error("failed to load profile", "error", err)
		os.Exit(1)
	}
	provider, err := setupProvider(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to set up scorer", "error", err)
		os.Exit(1)
	}

	backend, err := history.Open(ctx, cfg.History)
	if err != nil {
		logger.Error("failed to open history", "backend", cfg.History.Backend, "error", err)
		os.Exit(1)
	}
	defer backend.Close()

	httpClient := &http.Client{Timeout: 30 * time.Second}
	p := pipeline.New(pipeline.Deps{
		Source:          source,
		Scorer:          scorer.New(provider, scorer.ScoreTemplate, profile, logger),
		History:         history.NewStore(backend, history.Match(cfg.History.Match), logger),
		Notifier:        setupNotifier(cfg, httpClient, logger),
		Reports:         report.NewWriter(cfg.Report.Dir, logger),
		Metrics:         metrics.New(),
		MetricsTextfile: cfg.Metrics.Textfile,
		Logger:          logger,
	})

	if _, err := p.Run(ctx); err != nil {
		logger.Error("run failed", "error", err)
		backend.Close()
		os.Exit(1)
	}
	return nil
}
