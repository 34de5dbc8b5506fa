// Package main provides the babylog server CLI.
package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"babylog/internal/di"
	"babylog/internal/structures"
)

var flags = &structures.CliFlags{}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "babylog",
	Short: "BabyLog is the storage backend for the baby activity logger",
	Long: `BabyLog keeps feedings, diapers, sleeps, growth, medications and the baby
profile in a single JSON snapshot and serves them over a small JSON API next
to the client bundle.`,
	SilenceUsage:      true,
	PersistentPreRunE: loadEnv,
	RunE:              serve,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP server",
	RunE:  serve,
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Upgrade the snapshot file in place and exit",
	RunE: func(cmd *cobra.Command, args []string) error {
		service, err := di.InitRecordService(flags)
		if err != nil {
			return err
		}
		applied, err := service.Load()
		if err != nil {
			return err
		}
		if len(applied) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "snapshot is up to date")
			return nil
		}
		for _, name := range applied {
			fmt.Fprintf(cmd.OutOrStdout(), "applied %s\n", name)
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flags.ConfigPath, "config", "config.yaml", "config file")
	rootCmd.PersistentFlags().BoolVar(&flags.DebugMode, "debug", false, "debug logging to console")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)
}

// loadEnv reads .env from the working directory when present.
func loadEnv(cmd *cobra.Command, args []string) error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load .env: %w", err)
	}
	return nil
}

func serve(cmd *cobra.Command, args []string) error {
	app, err := di.InitApp(flags)
	if err != nil {
		return err
	}
	return app.Run()
}
