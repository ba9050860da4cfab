package archive

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/safehours/internal/activity"
	"github.com/safehours/internal/storage"
	"github.com/safehours/internal/timeutil"
)

// Archiver handles monthly data archival to markdown
type Archiver struct {
	repo        storage.Repository
	historyPath string
}

// New creates a new Archiver
func New(repo storage.Repository, historyPath string) *Archiver {
	return &Archiver{
		repo:        repo,
		historyPath: historyPath,
	}
}

// MonthSummary contains archived month data
type MonthSummary struct {
	Month         time.Time
	ContactHours  float64
	FlightHours   float64
	DaysActive    int
	TypeBreakdown map[string]float64
	Records       []Record
}

// Record is a simplified activity for the archive table
type Record struct {
	Date      string
	Type      string
	StartTime string
	EndTime   string
	Hours     float64
	PrePost   float64
	Notes     string
}

// ArchiveMonth exports a month's activities to markdown and optionally
// prunes them from the database.
func (a *Archiver) ArchiveMonth(year int, month time.Month, cleanDB bool) error {
	monthStart := time.Date(year, month, 1, 0, 0, 0, 0, time.Local)
	monthEnd := monthStart.AddDate(0, 1, -1)
	startKey := monthStart.Format(timeutil.DateLayout)
	endKey := monthEnd.Format(timeutil.DateLayout)

	acts, err := a.repo.ListRange(startKey, endKey)
	if err != nil {
		return fmt.Errorf("failed to get activities: %w", err)
	}

	if len(acts) == 0 {
		return fmt.Errorf("no activities found for %s %d", month, year)
	}

	summary := a.buildSummary(monthStart, acts)
	markdown := a.generateMarkdown(summary)

	if err := os.MkdirAll(a.historyPath, 0755); err != nil {
		return fmt.Errorf("failed to create history directory: %w", err)
	}

	filename := fmt.Sprintf("%d-%02d.md", year, month)
	filePath := filepath.Join(a.historyPath, filename)

	if err := os.WriteFile(filePath, []byte(markdown), 0644); err != nil {
		return fmt.Errorf("failed to write archive: %w", err)
	}

	if cleanDB {
		if err := a.repo.DeleteRange(startKey, endKey); err != nil {
			return fmt.Errorf("failed to clean database: %w", err)
		}
	}

	return nil
}

func (a *Archiver) buildSummary(monthStart time.Time, acts []activity.Activity) *MonthSummary {
	summary := &MonthSummary{
		Month:         monthStart,
		TypeBreakdown: make(map[string]float64),
		Records:       make([]Record, 0, len(acts)),
	}

	daysActive := make(map[string]bool)

	for _, act := range acts {
		hours := float64(act.DurationMinutes()) / 60
		adjusted := float64(act.DurationMinutes()+act.PreMinutes()+act.PostMinutes()) / 60

		if act.Type.Countable() {
			summary.ContactHours += adjusted
			daysActive[act.Date] = true
		}
		if act.Type == activity.Flight {
			summary.FlightHours += hours
		}
		summary.TypeBreakdown[act.Type.String()] += hours

		summary.Records = append(summary.Records, Record{
			Date:      act.Date,
			Type:      act.Type.String(),
			StartTime: act.StartTime,
			EndTime:   act.EndTime,
			Hours:     hours,
			PrePost:   float64(act.PreMinutes()+act.PostMinutes()) / 60,
			Notes:     act.Notes,
		})
	}

	summary.DaysActive = len(daysActive)
	return summary
}

func (a *Archiver) generateMarkdown(summary *MonthSummary) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("# %s\n\n", summary.Month.Format("January 2006")))

	sb.WriteString("## Summary\n\n")
	sb.WriteString("| Metric | Value |\n")
	sb.WriteString("|--------|-------|\n")
	sb.WriteString(fmt.Sprintf("| Contact Hours | %.2f |\n", summary.ContactHours))
	sb.WriteString(fmt.Sprintf("| Flight Hours | %.2f |\n", summary.FlightHours))
	sb.WriteString(fmt.Sprintf("| Days Active | %d |\n", summary.DaysActive))
	sb.WriteString(fmt.Sprintf("| Daily Average | %.2f |\n", summary.ContactHours/float64(max(summary.DaysActive, 1))))
	sb.WriteString("\n")

	sb.WriteString("## By Activity Type\n\n")
	sb.WriteString("| Type | Hours |\n")
	sb.WriteString("|------|-------|\n")

	types := make([]string, 0, len(summary.TypeBreakdown))
	for t := range summary.TypeBreakdown {
		types = append(types, t)
	}
	sort.Strings(types)

	for _, t := range types {
		sb.WriteString(fmt.Sprintf("| %s | %.2f |\n", t, summary.TypeBreakdown[t]))
	}
	sb.WriteString("\n")

	sb.WriteString("## Activities\n\n")
	sb.WriteString("| Date | Type | Start | End | Hours | Pre/Post | Notes |\n")
	sb.WriteString("|------|------|-------|-----|-------|----------|-------|\n")

	for _, r := range summary.Records {
		notes := r.Notes
		if len(notes) > 30 {
			notes = notes[:27] + "..."
		}
		sb.WriteString(fmt.Sprintf("| %s | %s | %s | %s | %.2f | %.2fh | %s |\n",
			r.Date, r.Type, r.StartTime, r.EndTime, r.Hours, r.PrePost, notes))
	}
	sb.WriteString("\n")

	sb.WriteString(fmt.Sprintf("---\n*Archived: %s*\n", time.Now().Format("2006-01-02 15:04")))

	return sb.String()
}

// AutoArchivePastMonths writes markdown archives for all complete months
// older than the current one. It never prunes the database: the rest,
// consecutive-day, weekly and rolling calculators all read trailing history
// across month boundaries. Pruning stays opt-in through ArchiveMonth.
func (a *Archiver) AutoArchivePastMonths() ([]string, error) {
	now := time.Now()
	currentMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.Local)

	oldest, err := a.repo.OldestDate()
	if err != nil {
		return nil, err
	}
	if oldest == "" {
		return nil, nil // Empty log
	}
	oldestDay, err := timeutil.ParseDate(oldest)
	if err != nil {
		return nil, err
	}

	var archived []string
	monthStart := time.Date(oldestDay.Year(), oldestDay.Month(), 1, 0, 0, 0, 0, time.Local)

	for monthStart.Before(currentMonth) {
		filename := fmt.Sprintf("%d-%02d.md", monthStart.Year(), monthStart.Month())
		filePath := filepath.Join(a.historyPath, filename)

		// Skip if already archived
		if _, err := os.Stat(filePath); err == nil {
			monthStart = monthStart.AddDate(0, 1, 0)
			continue
		}

		err := a.ArchiveMonth(monthStart.Year(), monthStart.Month(), false)
		if err != nil {
			// Skip months with no data
			if strings.Contains(err.Error(), "no activities found") {
				monthStart = monthStart.AddDate(0, 1, 0)
				continue
			}
			return archived, err
		}

		archived = append(archived, filename)
		monthStart = monthStart.AddDate(0, 1, 0)
	}

	return archived, nil
}

// ListArchives returns list of archived months
func (a *Archiver) ListArchives() ([]string, error) {
	entries, err := os.ReadDir(a.historyPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var archives []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".md") {
			archives = append(archives, e.Name())
		}
	}

	sort.Strings(archives)
	return archives, nil
}

// ReadArchive reads a specific month's archive
func (a *Archiver) ReadArchive(year int, month time.Month) (string, error) {
	filename := fmt.Sprintf("%d-%02d.md", year, month)
	filePath := filepath.Join(a.historyPath, filename)

	data, err := os.ReadFile(filePath)
	if err != nil {
		return "", fmt.Errorf("archive not found: %s", filename)
	}

	return string(data), nil
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
