package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/safehours/internal/archive"
	"github.com/safehours/internal/config"
	"github.com/safehours/internal/logbook"
	"github.com/safehours/internal/storage"
)

var (
	cfg        *config.Config
	db         *storage.Database
	logService *logbook.Logbook
)

var rootCmd = &cobra.Command{
	Use:   "safehours",
	Short: "Duty-time compliance tracking for flight instructors",
	Long: `SafeHours tracks your instruction activities and continuously checks
them against duty-time limits: flight hours, contact time, rest, duty-day
span, consecutive days and weekly caps.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load()
		if err != nil {
			return err
		}
		if err := cfg.Validate(); err != nil {
			return err
		}
		db, err = storage.New(cfg.DatabasePath)
		if err != nil {
			return err
		}
		logService = logbook.New(db, cfg.Thresholds)

		// Auto-archive past months before the command runs. Synchronous on
		// purpose: the command may write, and PostRun closes the database.
		archiver := archive.New(db, cfg.HistoryPath)
		if archived, err := archiver.AutoArchivePastMonths(); err == nil && len(archived) > 0 {
			fmt.Printf("Auto-archived %d month(s) to %s\n", len(archived), cfg.HistoryPath)
		}

		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if db != nil {
			return db.Close()
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(addCmd)
	rootCmd.AddCommand(editCmd)
	rootCmd.AddCommand(deleteCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(dayCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(weekCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(svgCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(completionCmd)
	rootCmd.AddCommand(archiveCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
