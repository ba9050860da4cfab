package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/safehours/internal/activity"
	"github.com/safehours/internal/export"
	"github.com/safehours/internal/logbook"
	"github.com/safehours/internal/timeutil"
	"github.com/safehours/internal/visualization"
)

var addCmd = &cobra.Command{
	Use:     "add <type> <start> <end>",
	Aliases: []string{"a", "log"},
	Short:   "Log an activity",
	Long: `Log a flight, ground, SIM or other activity. Times accept HH:MM or
numeric shorthand (7, 130, 1330). Use -d for a date other than today.

Examples:
  safehours add flight 0900 1030 --pre 0.5 --post 0.5
  safehours add ground 13:00 15:00 -n "Stage check prep"
  safehours add sim 2200 0030 -d 2025-03-14`,
	Args: cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		typ, err := parseTypeArg(args[0])
		if err != nil {
			return err
		}
		start, ok := timeutil.ParseTimeInput(args[1])
		if !ok {
			return fmt.Errorf("invalid start time: %s", args[1])
		}
		end, ok := timeutil.ParseTimeInput(args[2])
		if !ok {
			return fmt.Errorf("invalid end time: %s", args[2])
		}

		date, _ := cmd.Flags().GetString("date")
		if date == "" {
			date = time.Now().Format(timeutil.DateLayout)
		}
		pre, _ := cmd.Flags().GetFloat64("pre")
		post, _ := cmd.Flags().GetFloat64("post")
		notes, _ := cmd.Flags().GetString("notes")

		a := &activity.Activity{
			Type:      typ,
			Date:      date,
			StartTime: start,
			EndTime:   end,
			PreHours:  pre,
			PostHours: post,
			Notes:     notes,
		}

		if err := logService.Add(a); err != nil {
			if errors.Is(err, logbook.ErrOverlap) {
				return fmt.Errorf("%s %s-%s on %s conflicts with an existing activity", typ, start, end, date)
			}
			return err
		}

		fmt.Printf("Logged %s %s-%s on %s (%s)\n", typ, start, end, date, a.ID[:8])
		report, err := logService.DayReport(date)
		if err == nil && !report.Compliant() {
			fmt.Println("Warning: one or more duty limits exceeded. Run 'safehours check' for details.")
		}
		return nil
	},
}

var editCmd = &cobra.Command{
	Use:     "edit <id>",
	Aliases: []string{"e", "update"},
	Short:   "Edit an activity",
	Long:    `Edit a logged activity by ID. Only flags that are set change the record. Use 'list' to see IDs.`,
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := findByPrefix(args[0])
		if err != nil {
			return err
		}

		if cmd.Flags().Changed("type") {
			label, _ := cmd.Flags().GetString("type")
			typ, err := parseTypeArg(label)
			if err != nil {
				return err
			}
			a.Type = typ
		}
		if cmd.Flags().Changed("date") {
			a.Date, _ = cmd.Flags().GetString("date")
		}
		if cmd.Flags().Changed("start") {
			raw, _ := cmd.Flags().GetString("start")
			start, ok := timeutil.ParseTimeInput(raw)
			if !ok {
				return fmt.Errorf("invalid start time: %s", raw)
			}
			a.StartTime = start
		}
		if cmd.Flags().Changed("end") {
			raw, _ := cmd.Flags().GetString("end")
			end, ok := timeutil.ParseTimeInput(raw)
			if !ok {
				return fmt.Errorf("invalid end time: %s", raw)
			}
			a.EndTime = end
		}
		if cmd.Flags().Changed("pre") {
			a.PreHours, _ = cmd.Flags().GetFloat64("pre")
		}
		if cmd.Flags().Changed("post") {
			a.PostHours, _ = cmd.Flags().GetFloat64("post")
		}
		if cmd.Flags().Changed("notes") {
			a.Notes, _ = cmd.Flags().GetString("notes")
		}

		if err := logService.Update(a); err != nil {
			if errors.Is(err, logbook.ErrOverlap) {
				return fmt.Errorf("edit would make %s overlap another activity on %s", a.ID[:8], a.Date)
			}
			return err
		}

		fmt.Printf("Activity %s updated\n", a.ID[:8])
		return nil
	},
}

var deleteCmd = &cobra.Command{
	Use:     "delete <id>",
	Aliases: []string{"del", "rm", "remove"},
	Short:   "Delete an activity",
	Long:    `Delete a logged activity by its ID. Use 'list' to see IDs.`,
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := findByPrefix(args[0])
		if err != nil {
			return err
		}

		force, _ := cmd.Flags().GetBool("force")
		if !force {
			fmt.Printf("Delete activity %s (%s %s-%s on %s)? This cannot be undone. Use --force to confirm.\n",
				a.ID[:8], a.Type, a.StartTime, a.EndTime, a.Date)
			return nil
		}

		if err := logService.Delete(a.ID); err != nil {
			return err
		}

		fmt.Printf("Activity %s deleted\n", a.ID[:8])
		return nil
	},
}

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls", "sessions"},
	Short:   "List recent activities",
	Long:    `Show logged activities with IDs for editing. Defaults to the last 7 days.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		now := time.Now()
		startDate := now.AddDate(0, 0, -7).Format(timeutil.DateLayout)
		endDate := now.Format(timeutil.DateLayout)
		if s, _ := cmd.Flags().GetString("start"); s != "" {
			startDate = s
		}
		if e, _ := cmd.Flags().GetString("end"); e != "" {
			endDate = e
		}

		acts, err := logService.ListRange(startDate, endDate)
		if err != nil {
			return err
		}
		if len(acts) == 0 {
			fmt.Println("No activities in range")
			return nil
		}

		for _, a := range acts {
			hours := float64(a.DurationMinutes()) / 60
			briefing := ""
			if bm := a.PreMinutes() + a.PostMinutes(); bm > 0 {
				briefing = fmt.Sprintf(" +%.1fh brief", float64(bm)/60)
			}
			notes := ""
			if a.Notes != "" {
				notes = " - " + a.Notes
			}
			fmt.Printf("%s  %s  %-6s %s-%s (%.1fh%s)%s\n",
				a.ID[:8], a.Date, a.Type, a.StartTime, a.EndTime, hours, briefing, notes)
		}
		return nil
	},
}

var dayCmd = &cobra.Command{
	Use:     "day [date]",
	Aliases: []string{"d"},
	Short:   "Show one day's activities and totals",
	Long:    `List the activities logged on a date (today if omitted) with the day's duty totals.`,
	Args:    cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		date := time.Now().Format(timeutil.DateLayout)
		if len(args) > 0 {
			date = args[0]
		}
		if _, err := timeutil.ParseDate(date); err != nil {
			return err
		}

		acts, err := logService.ListRange(date, date)
		if err != nil {
			return err
		}
		if len(acts) == 0 {
			fmt.Printf("No activities on %s\n", date)
			return nil
		}

		for _, a := range acts {
			hours := float64(a.DurationMinutes()) / 60
			briefing := ""
			if bm := a.PreMinutes() + a.PostMinutes(); bm > 0 {
				briefing = fmt.Sprintf(" +%.1fh brief", float64(bm)/60)
			}
			notes := ""
			if a.Notes != "" {
				notes = " - " + a.Notes
			}
			fmt.Printf("%s  %-6s %s-%s (%.1fh%s)%s\n",
				a.ID[:8], a.Type, a.StartTime, a.EndTime, hours, briefing, notes)
		}

		report, err := logService.DayReport(date)
		if err != nil {
			return err
		}
		fmt.Printf("Duty day: %.2fh | Flight (rolling 24h): %.2fh | Contact (rolling 24h): %.2fh\n",
			report.DutyDayHours, report.FlightHours, report.ContactHours)
		if !report.Compliant() {
			fmt.Println("Warning: one or more duty limits exceeded. Run 'safehours check' for details.")
		}
		return nil
	},
}

var checkCmd = &cobra.Command{
	Use:     "check [date]",
	Aliases: []string{"status", "today"},
	Short:   "Show the compliance report for a day",
	Long:    `Evaluate all seven duty limits for a date (today if omitted).`,
	Args:    cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		date := time.Now().Format(timeutil.DateLayout)
		if len(args) > 0 {
			date = args[0]
		}
		if _, err := timeutil.ParseDate(date); err != nil {
			return err
		}

		report, err := logService.DayReport(date)
		if err != nil {
			return err
		}
		th := logService.Thresholds()

		fmt.Printf("Compliance for %s\n", date)
		printMetric("Flight time (rolling 24h)", report.FlightHours, th.MaxFlightHours, "h max", report.FlightOK)
		printMetric("Contact time (rolling 24h)", report.ContactHours, th.MaxContactHours, "h max", report.ContactOK)
		printMetric("Duty day span", report.DutyDayHours, th.MaxDutyDayHours, "h max", report.DutyDayOK)
		printMetric("Rest since previous day", report.RestHours, th.MinRestHours, "h min", report.RestOK)
		printMetric("Consecutive days", float64(report.ConsecutiveDays), float64(th.MaxConsecutiveDays), "d max", report.ConsecutiveOK)
		printMetric("Week (Sun-Sat)", report.WeeklyHours, th.MaxWeeklyHours, "h max", report.WeeklyOK)
		printMetric("Past 7 days", report.PastSevenHours, th.MaxPastSevenHours, "h max", report.PastSevenOK)

		if report.Compliant() {
			fmt.Println("All limits OK")
		}
		return nil
	},
}

var weekCmd = &cobra.Command{
	Use:     "week [date]",
	Aliases: []string{"w"},
	Short:   "Show weekly summary",
	Long:    `Display the Sunday-Saturday week containing the given date (today if omitted).`,
	Args:    cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		date := time.Now().Format(timeutil.DateLayout)
		if len(args) > 0 {
			date = args[0]
		}

		report, err := logService.WeekReport(date)
		if err != nil {
			return err
		}

		fmt.Printf("Week: %s - %s | Total: %.2f/%gh\n",
			report.WeekStart.Format("Jan 2"), report.WeekEnd.Format("Jan 2"),
			report.TotalHours, logService.Thresholds().MaxWeeklyHours)

		today := time.Now().Format(timeutil.DateLayout)
		for i := 0; i < 7; i++ {
			day := report.WeekStart.AddDate(0, 0, i)
			key := day.Format(timeutil.DateLayout)
			marker := ""
			if key == today {
				marker = " *"
			}
			fmt.Printf("  %s %s: %.2fh%s\n", day.Format("01/02"), day.Format("Mon"), report.DayHours[key], marker)
		}
		return nil
	},
}

var exportCmd = &cobra.Command{
	Use:     "export [csv|ics|json]",
	Aliases: []string{"exp"},
	Short:   "Export activities to CSV, iCalendar, or JSON",
	Long: `Export logged activities to interchange formats.

Examples:
  safehours export csv -o duty.csv
  safehours export ics -s 2025-01-01 -e 2025-01-31 -o january.ics`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		format, _ := cmd.Flags().GetString("format")
		if len(args) > 0 {
			format = args[0]
		}

		startDate, endDate := rangeFlags(cmd)
		acts, err := logService.ListRange(startDate, endDate)
		if err != nil {
			return err
		}

		var output io.Writer = os.Stdout
		if outputPath, _ := cmd.Flags().GetString("output"); outputPath != "" {
			f, err := os.Create(outputPath)
			if err != nil {
				return err
			}
			defer f.Close()
			output = f
		}

		switch format {
		case "csv":
			return export.WriteCSV(output, acts)
		case "ics":
			return export.WriteICS(output, acts)
		case "json":
			return exportJSON(output, acts)
		default:
			return fmt.Errorf("unknown format: %s (use csv, ics, or json)", format)
		}
	},
}

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import activities from CSV or iCalendar",
	Long: `Import activities exported by SafeHours (or a compatible app).
The format is inferred from the file extension unless --format is set.
Rows that would overlap existing activities are skipped and reported.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]
		format, _ := cmd.Flags().GetString("format")
		if format == "" {
			switch {
			case strings.HasSuffix(path, ".ics"):
				format = "ics"
			default:
				format = "csv"
			}
		}

		f, err := os.Open(path)
		if err != nil {
			return err
		}
		defer f.Close()

		var acts []activity.Activity
		switch format {
		case "csv":
			acts, err = export.ReadCSV(f)
		case "ics":
			acts, err = export.ReadICS(f)
		default:
			return fmt.Errorf("unknown format: %s (use csv or ics)", format)
		}
		if err != nil {
			return err
		}

		imported, skipped := 0, 0
		for i := range acts {
			a := acts[i]
			a.ID = "" // always assign fresh IDs on import
			if err := logService.Add(&a); err != nil {
				if errors.Is(err, logbook.ErrOverlap) {
					skipped++
					fmt.Printf("Skipped %s %s-%s on %s: overlaps an existing activity\n",
						a.Type, a.StartTime, a.EndTime, a.Date)
					continue
				}
				return err
			}
			imported++
		}

		fmt.Printf("Imported %d activity(ies), skipped %d\n", imported, skipped)
		return nil
	},
}

var svgCmd = &cobra.Command{
	Use:   "svg [date]",
	Short: "Render the week as an SVG chart",
	Long:  `Write an SVG bar chart of the week containing the given date (today if omitted).`,
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		date := time.Now().Format(timeutil.DateLayout)
		if len(args) > 0 {
			date = args[0]
		}

		report, err := logService.WeekReport(date)
		if err != nil {
			return err
		}

		svg := visualization.New().GenerateWeekSVG(report, logService.Thresholds())

		outputPath, _ := cmd.Flags().GetString("output")
		if outputPath == "" {
			fmt.Println(svg)
			return nil
		}
		if err := os.WriteFile(outputPath, []byte(svg), 0644); err != nil {
			return err
		}
		fmt.Printf("Wrote %s\n", outputPath)
		return nil
	},
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show current configuration",
	Long:  `Display the current configuration settings and duty limits.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		th := cfg.Thresholds
		fmt.Printf("Config: DB=%s | History=%s\n", cfg.DatabasePath, cfg.HistoryPath)
		fmt.Printf("Limits: Flight: %gh | Contact: %gh | Rest: %gh min | Duty day: %gh\n",
			th.MaxFlightHours, th.MaxContactHours, th.MinRestHours, th.MaxDutyDayHours)
		fmt.Printf("        Consecutive: %dd | Weekly: %gh | Past 7 days: %gh\n",
			th.MaxConsecutiveDays, th.MaxWeeklyHours, th.MaxPastSevenHours)
		return nil
	},
}

var completionCmd = &cobra.Command{
	Use:   "completion [bash|zsh|fish|powershell]",
	Short: "Generate shell completion script",
	Long: `Generate shell completion script for safehours.

To load completions:

Bash:
  $ source <(safehours completion bash)

Zsh:
  $ safehours completion zsh > "${fpath[1]}/_safehours"

Fish:
  $ safehours completion fish > ~/.config/fish/completions/safehours.fish

PowerShell:
  PS> safehours completion powershell | Out-String | Invoke-Expression
`,
	DisableFlagsInUseLine: true,
	ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
	Args:                  cobra.ExactValidArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		switch args[0] {
		case "bash":
			return cmd.Root().GenBashCompletion(os.Stdout)
		case "zsh":
			return cmd.Root().GenZshCompletion(os.Stdout)
		case "fish":
			return cmd.Root().GenFishCompletion(os.Stdout, true)
		case "powershell":
			return cmd.Root().GenPowerShellCompletion(os.Stdout)
		}
		return nil
	},
}

// Helpers

func parseTypeArg(label string) (activity.Type, error) {
	switch strings.ToLower(strings.TrimSpace(label)) {
	case "flight", "f":
		return activity.Flight, nil
	case "ground", "g":
		return activity.Ground, nil
	case "sim", "s":
		return activity.Sim, nil
	case "other", "o":
		return activity.Other, nil
	}
	return activity.Other, fmt.Errorf("unknown activity type: %s (use flight, ground, sim, or other)", label)
}

// findByPrefix resolves a full or abbreviated activity ID.
func findByPrefix(id string) (*activity.Activity, error) {
	if a, err := logService.Get(id); err != nil {
		return nil, err
	} else if a != nil {
		return a, nil
	}

	acts, err := logService.List()
	if err != nil {
		return nil, err
	}
	var match *activity.Activity
	for i := range acts {
		if strings.HasPrefix(acts[i].ID, id) {
			if match != nil {
				return nil, fmt.Errorf("ambiguous id prefix: %s", id)
			}
			match = &acts[i]
		}
	}
	if match == nil {
		return nil, fmt.Errorf("activity not found: %s", id)
	}
	return match, nil
}

func rangeFlags(cmd *cobra.Command) (string, string) {
	now := time.Now()
	startDate := now.AddDate(0, 0, -30).Format(timeutil.DateLayout)
	endDate := now.Format(timeutil.DateLayout)
	if s, _ := cmd.Flags().GetString("start"); s != "" {
		startDate = s
	}
	if e, _ := cmd.Flags().GetString("end"); e != "" {
		endDate = e
	}
	return startDate, endDate
}

func printMetric(name string, value, limit float64, unit string, ok bool) {
	status := "OK  "
	if !ok {
		status = "WARN"
	}
	fmt.Printf("  [%s] %-28s %6.2f / %g%s\n", status, name, value, limit, unit)
}

func exportJSON(w io.Writer, acts []activity.Activity) error {
	type activityExport struct {
		ID        string  `json:"id"`
		Type      string  `json:"type"`
		Date      string  `json:"date"`
		StartTime string  `json:"start_time"`
		EndTime   string  `json:"end_time"`
		PreHours  float64 `json:"pre_hours,omitempty"`
		PostHours float64 `json:"post_hours,omitempty"`
		Hours     float64 `json:"hours"`
		Notes     string  `json:"notes,omitempty"`
	}

	exports := make([]activityExport, 0, len(acts))
	for _, a := range acts {
		exports = append(exports, activityExport{
			ID:        a.ID,
			Type:      a.Type.String(),
			Date:      a.Date,
			StartTime: a.StartTime,
			EndTime:   a.EndTime,
			PreHours:  float64(a.PreMinutes()) / 60,
			PostHours: float64(a.PostMinutes()) / 60,
			Hours:     float64(a.DurationMinutes()) / 60,
			Notes:     a.Notes,
		})
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(map[string]interface{}{
		"export_date":      time.Now().Format(timeutil.DateLayout),
		"total_activities": len(acts),
		"activities":       exports,
	})
}

func init() {
	addCmd.Flags().StringP("date", "d", "", "Activity date (YYYY-MM-DD, default today)")
	addCmd.Flags().Float64P("pre", "p", 0, "Pre-briefing hours (Flight/SIM only)")
	addCmd.Flags().Float64P("post", "P", 0, "Post-briefing hours (Flight/SIM only)")
	addCmd.Flags().StringP("notes", "n", "", "Free-text notes")

	editCmd.Flags().String("type", "", "Activity type")
	editCmd.Flags().StringP("date", "d", "", "Activity date (YYYY-MM-DD)")
	editCmd.Flags().StringP("start", "s", "", "Start time (HH:MM)")
	editCmd.Flags().StringP("end", "e", "", "End time (HH:MM)")
	editCmd.Flags().Float64P("pre", "p", 0, "Pre-briefing hours")
	editCmd.Flags().Float64P("post", "P", 0, "Post-briefing hours")
	editCmd.Flags().StringP("notes", "n", "", "Free-text notes")

	deleteCmd.Flags().BoolP("force", "f", false, "Force delete without confirmation")

	listCmd.Flags().StringP("start", "s", "", "Start date (YYYY-MM-DD)")
	listCmd.Flags().StringP("end", "e", "", "End date (YYYY-MM-DD)")

	exportCmd.Flags().StringP("format", "f", "csv", "Output format: csv, ics, json")
	exportCmd.Flags().StringP("start", "s", "", "Start date (YYYY-MM-DD)")
	exportCmd.Flags().StringP("end", "e", "", "End date (YYYY-MM-DD)")
	exportCmd.Flags().StringP("output", "o", "", "Output file (stdout if empty)")

	importCmd.Flags().StringP("format", "f", "", "Input format: csv or ics (inferred from extension)")

	svgCmd.Flags().StringP("output", "o", "", "Output file (stdout if empty)")
}
