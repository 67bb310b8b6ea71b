package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/amishk599/jobscout/internal/config"
	"github.com/amishk599/jobscout/internal/history"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Inspect the seen-links history",
}

var historyStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Print the history backend and number of recorded links",
	RunE:  runHistoryStats,
}

var historyCheckCmd = &cobra.Command{
	Use:   "check LINK",
	Short: "Report whether a link would be tagged new",
	Args:  cobra.ExactArgs(1),
	RunE:  runHistoryCheck,
}

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.AddCommand(historyStatsCmd, historyCheckCmd)
}

func openHistory(ctx context.Context) (*config.Config, history.Backend, *history.Store) {
	logger := setupLogger(debug)

	cfg, err := loadConfig(cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}
	backend, err := history.Open(ctx, cfg.History)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to open history: %v\n", err)
		os.Exit(1)
	}
	store := history.NewStore(backend, history.Match(cfg.History.Match), logger)
	if err := store.Load(ctx); err != nil {
		backend.Close()
		fmt.Fprintf(os.Stderr, "failed to load history: %v\n", err)
		os.Exit(1)
	}
	return cfg, backend, store
}

func runHistoryStats(cmd *cobra.Command, args []string) error {
	cfg, backend, store := openHistory(cmd.Context())
	defer backend.Close()

	location := cfg.History.Path
	if cfg.History.Backend == "redis" {
		location = cfg.History.RedisKey
	}
	fmt.Printf("%-10s %s\n", "Backend", cfg.History.Backend)
	if cfg.History.Backend != "memory" {
		fmt.Printf("%-10s %s\n", "Location", location)
	}
	fmt.Printf("%-10s %s\n", "Match", cfg.History.Match)
	fmt.Printf("%-10s %d\n", "Links", store.Entries())
	return nil
}

func runHistoryCheck(cmd *cobra.Command, args []string) error {
	_, backend, store := openHistory(cmd.Context())
	defer backend.Close()

	if store.IsNew(args[0]) {
		fmt.Println("new")
	} else {
		fmt.Println("seen")
	}
	return nil
}
