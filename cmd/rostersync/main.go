// Command rostersync imports hospital rosters from spreadsheets and writes
// them back as colour-coded tabs.
package main

import (
	"context"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/JonMunkholm/rostersync/internal/app"
	"github.com/JonMunkholm/rostersync/internal/config"
	"github.com/JonMunkholm/rostersync/internal/logging"
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "rostersync",
		Short:         "Spreadsheet roster import and export",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(migrateCmd())
	rootCmd.AddCommand(importCmd())
	rootCmd.AddCommand(exportCmd())
	rootCmd.AddCommand(formatsCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadApp reads .env and the environment, sends logs to stderr and builds
// the service.
func loadApp(ctx context.Context) (*app.App, error) {
	_ = godotenv.Overload()

	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	logging.SetupWriter(os.Stderr, cfg.Logging.Level, cfg.Logging.Format)
	return app.New(ctx, cfg)
}
