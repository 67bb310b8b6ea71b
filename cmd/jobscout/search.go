package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/amishk599/jobscout/internal/collector"
	"github.com/amishk599/jobscout/internal/model"
)

var (
	searchOutput string
	searchDryRun bool
)

var searchCmd = &cobra.Command{
	Use:   "search",
	Short: "Collect search results without scoring",
	Long: "Runs every enabled query and prints the merged results buffer, or writes it with " +
		"--output. The file can be scored later with `jobscout run --input`.",
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().StringVarP(&searchOutput, "output", "o", "", "write the results buffer to this file")
	searchCmd.Flags().BoolVar(&searchDryRun, "dry-run", false, "list the enabled queries and exit without network calls")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	logger := setupLogger(debug)

	cfg, err := loadConfig(cfgPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	queries := buildQueries(cfg)
	if searchDryRun {
		printQueries(queries)
		return nil
	}
	if cfg.Search.APIKey == "" {
		logger.Error("search api key not set, nothing to do (set search.api_key or BOOLEAN_TAVILY_API_KEY)")
		return nil
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	blobs, stats, err := buildCollector(cfg, logger).Collect(ctx, queries)
	if err != nil {
		logger.Error("search interrupted", "error", err)
		os.Exit(1)
	}

	buf, err := collector.Merge(blobs, collector.MaxBufferBytes)
	if errors.Is(err, model.ErrCollectionEmpty) {
		logger.Info("no job postings found", "queries", stats.Queries, "failed", stats.Failed)
		return nil
	}

	logger.Info("search complete",
		"queries", stats.Queries,
		"failed", stats.Failed,
		"postings", stats.Postings,
		"bytes", buf.Bytes,
		"truncated", buf.Truncated,
	)

	if searchOutput == "" {
		fmt.Print(buf.Text)
		return nil
	}
	if err := os.WriteFile(searchOutput, []byte(buf.Text), 0644); err != nil {
		logger.Error("failed to write results", "path", searchOutput, "error", err)
		os.Exit(1)
	}
	logger.Info("results written", "path", searchOutput)
	return nil
}
