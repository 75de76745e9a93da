package main

import (
	"context"
	"fmt"
	"os"

	_ "github.com/lib/pq"
	"github.com/spf13/cobra"

	"github.com/leadpipe/leadpipe/config"
	"github.com/leadpipe/leadpipe/internal/app"
	"github.com/leadpipe/leadpipe/pkg/logger"
)

var (
	cfg       *config.Config
	cliLogger logger.Logger

	// newApp is swapped in tests to inject a mock database
	newApp = app.NewApp
)

var rootCmd = &cobra.Command{
	Use:   "leadctl",
	Short: "Operate the lead ingestion pipeline",
	Long:  "Runs pipeline batches, stale recovery and manual retries against the leadpipe database, and issues operator API tokens.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c
		cliLogger = logger.NewLoggerWithLevel(cfg.LogLevel)
		return nil
	},
	SilenceUsage: true,
}

// openApp wires the database, repositories and pipeline services without
// the HTTP server
func openApp() (app.AppInterface, error) {
	a := newApp(cfg, app.WithLogger(cliLogger))

	if err := a.InitDB(); err != nil {
		return nil, err
	}
	if err := a.InitRepositories(); err != nil {
		return nil, err
	}
	if err := a.InitServices(); err != nil {
		return nil, err
	}
	return a, nil
}

func closeApp(a app.AppInterface) {
	if err := a.Shutdown(context.Background()); err != nil {
		cliLogger.WithField("error", err.Error()).Warn("Failed to close resources")
	}
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
