package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/safehours/internal/archive"
)

var archiveCmd = &cobra.Command{
	Use:   "archive",
	Short: "Archive old months to markdown",
	Long: `Archive past months' activities to markdown files in the history
directory. This keeps SQLite lean while preserving the duty record.`,
}

var archiveAutoCmd = &cobra.Command{
	Use:   "auto",
	Short: "Auto-archive all past months",
	Long:  `Automatically archive all complete months before the current month.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		archiver := archive.New(db, cfg.HistoryPath)

		archived, err := archiver.AutoArchivePastMonths()
		if err != nil {
			return err
		}

		if len(archived) == 0 {
			fmt.Println("No months to archive (current month or already archived)")
			return nil
		}

		fmt.Printf("Archived %d month(s):\n", len(archived))
		for _, f := range archived {
			fmt.Printf("  - %s\n", f)
		}
		return nil
	},
}

var archiveMonthCmd = &cobra.Command{
	Use:   "month <YYYY-MM>",
	Short: "Archive a specific month",
	Long:  `Archive a specific month to markdown. Use format YYYY-MM (e.g., 2025-01).`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		t, err := time.Parse("2006-01", args[0])
		if err != nil {
			return fmt.Errorf("invalid format, use YYYY-MM (e.g., 2025-01)")
		}

		clean, _ := cmd.Flags().GetBool("clean")
		archiver := archive.New(db, cfg.HistoryPath)

		if err := archiver.ArchiveMonth(t.Year(), t.Month(), clean); err != nil {
			return err
		}

		fmt.Printf("Archived %s to %s/%d-%02d.md\n", t.Format("January 2006"), cfg.HistoryPath, t.Year(), t.Month())
		if clean {
			fmt.Println("Database cleaned for this month")
		}
		return nil
	},
}

var archiveListCmd = &cobra.Command{
	Use:   "list",
	Short: "List archived months",
	RunE: func(cmd *cobra.Command, args []string) error {
		archiver := archive.New(db, cfg.HistoryPath)

		archives, err := archiver.ListArchives()
		if err != nil {
			return err
		}

		if len(archives) == 0 {
			fmt.Println("No archives found")
			return nil
		}

		fmt.Println("Archived months:")
		for _, a := range archives {
			fmt.Printf("  %s\n", a)
		}
		return nil
	},
}

var archiveShowCmd = &cobra.Command{
	Use:   "show <YYYY-MM>",
	Short: "Show archived month data",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		t, err := time.Parse("2006-01", args[0])
		if err != nil {
			return fmt.Errorf("invalid format, use YYYY-MM (e.g., 2025-01)")
		}

		archiver := archive.New(db, cfg.HistoryPath)

		content, err := archiver.ReadArchive(t.Year(), t.Month())
		if err != nil {
			return err
		}

		fmt.Println(content)
		return nil
	},
}

func init() {
	archiveCmd.AddCommand(archiveAutoCmd)
	archiveCmd.AddCommand(archiveMonthCmd)
	archiveCmd.AddCommand(archiveListCmd)
	archiveCmd.AddCommand(archiveShowCmd)

	archiveMonthCmd.Flags().Bool("clean", false, "Remove archived data from database")
}
