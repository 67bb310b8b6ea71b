package main

import (
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/amishk599/jobscout/internal/model"
	"github.com/amishk599/jobscout/internal/notifier"
)

var notifyKind string

var notifyCmd = &cobra.Command{
	Use:   "notify",
	Short: "Alert channel subcommands",
}

var notifyTestCmd = &cobra.Command{
	Use:   "test",
	Short: "Send a sample alert through the configured channel",
	Long: "Builds a fake run outcome and delivers it exactly as a real run would. " +
		"--kind detailed sends the header plus one posting message; no_postings and " +
		"none_qualified send the one-line summary. Nothing is read from or written to history.",
	Example: "  jobscout notify test\n  jobscout notify test --kind none_qualified",
	Args:    cobra.NoArgs,
	RunE:    runNotifyTest,
}

func init() {
	notifyTestCmd.Flags().StringVar(&notifyKind, "kind", "detailed", "alert to send: detailed, none_qualified or no_postings")
	rootCmd.AddCommand(notifyCmd)
	notifyCmd.AddCommand(notifyTestCmd)
}

func runNotifyTest(cmd *cobra.Command, args []string) error {
	var kind model.AlertKind
	if err := kind.UnmarshalText([]byte(notifyKind)); err != nil {
		return fmt.Errorf("--kind: %w", err)
	}

	logger := setupLogger(debug)

	cfg, err := loadConfig(cfgPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	channel := cfg.Notification.Type
	if channel == "" {
		channel = "log"
	}

	httpClient := &http.Client{Timeout: 30 * time.Second}
	if err := notifier.SendTestMessage(setupNotifier(cfg, httpClient, logger), kind); err != nil {
		logger.Error("sample alert not delivered", "channel", channel, "kind", kind.String(), "error", err)
		os.Exit(1)
	}
	logger.Info("sample alert delivered", "channel", channel, "kind", kind.String())
	return nil
}
