package logbook

import (
	"errors"
	"fmt"
	"time"

	"github.com/safehours/internal/activity"
	"github.com/safehours/internal/compliance"
	"github.com/safehours/internal/storage"
	"github.com/safehours/internal/timeutil"
)

// ErrOverlap is returned when a new or edited activity would double-book
// time already covered by another activity on the same date. It is the one
// failure that must reach the user instead of being absorbed: silently
// accepting the write would corrupt every compliance metric.
var ErrOverlap = errors.New("activity overlaps an existing activity on that date")

type Logbook struct {
	repo       storage.Repository
	thresholds compliance.Thresholds
}

func New(repo storage.Repository, th compliance.Thresholds) *Logbook {
	return &Logbook{
		repo:       repo,
		thresholds: th,
	}
}

// Thresholds returns the limit set the logbook evaluates against.
func (l *Logbook) Thresholds() compliance.Thresholds {
	return l.thresholds
}

// Add validates the activity, rejects it with ErrOverlap if its effective
// span collides with an existing one, and stores it.
func (l *Logbook) Add(a *activity.Activity) error {
	if err := validate(a); err != nil {
		return err
	}
	existing, err := l.repo.List()
	if err != nil {
		return err
	}
	if activity.Overlaps(existing, *a, "") {
		return ErrOverlap
	}
	return l.repo.Insert(a)
}

// Update replaces a stored activity, running the same overlap gate but
// excluding the record being edited from the comparison.
func (l *Logbook) Update(a *activity.Activity) error {
	if err := validate(a); err != nil {
		return err
	}
	current, err := l.repo.GetByID(a.ID)
	if err != nil {
		return err
	}
	if current == nil {
		return fmt.Errorf("activity not found: %s", a.ID)
	}
	existing, err := l.repo.List()
	if err != nil {
		return err
	}
	if activity.Overlaps(existing, *a, a.ID) {
		return ErrOverlap
	}
	return l.repo.Update(a)
}

func (l *Logbook) Delete(id string) error {
	return l.repo.Delete(id)
}

func (l *Logbook) Get(id string) (*activity.Activity, error) {
	return l.repo.GetByID(id)
}

func (l *Logbook) List() ([]activity.Activity, error) {
	return l.repo.List()
}

func (l *Logbook) ListRange(startDate, endDate string) ([]activity.Activity, error) {
	return l.repo.ListRange(startDate, endDate)
}

// DayReport evaluates all seven metrics for one date. The whole log is
// handed to the engine; rolling windows need the surrounding days anyway.
func (l *Logbook) DayReport(date string) (compliance.Report, error) {
	acts, err := l.repo.List()
	if err != nil {
		return compliance.Report{}, err
	}
	return compliance.Evaluate(acts, date, l.thresholds), nil
}

// WeekReport summarizes the Sunday-Saturday week containing the date.
type WeekReport struct {
	WeekStart  time.Time
	WeekEnd    time.Time
	TotalHours float64
	DayHours   map[string]float64
	Activities []activity.Activity
}

func (l *Logbook) WeekReport(date string) (*WeekReport, error) {
	day, err := timeutil.ParseDate(date)
	if err != nil {
		return nil, err
	}
	weekStart := day.AddDate(0, 0, -int(day.Weekday()))
	weekEnd := weekStart.AddDate(0, 0, 6)

	acts, err := l.repo.ListRange(
		weekStart.Format(timeutil.DateLayout),
		weekEnd.Format(timeutil.DateLayout))
	if err != nil {
		return nil, err
	}

	report := &WeekReport{
		WeekStart:  weekStart,
		WeekEnd:    weekEnd,
		DayHours:   make(map[string]float64),
		Activities: acts,
	}

	// Per-day display totals: briefing-adjusted duration, no spillover
	// trim. The strict weekly metric comes from compliance.WeeklyHours.
	for _, a := range acts {
		if !a.Type.Countable() {
			continue
		}
		hours := float64(a.DurationMinutes()+a.PreMinutes()+a.PostMinutes()) / 60
		report.DayHours[a.Date] += hours
		report.TotalHours += hours
	}

	return report, nil
}

func validate(a *activity.Activity) error {
	if _, err := timeutil.ParseDate(a.Date); err != nil {
		return err
	}
	if _, err := timeutil.TimeToMinutes(a.StartTime); err != nil {
		return err
	}
	if _, err := timeutil.TimeToMinutes(a.EndTime); err != nil {
		return err
	}
	if a.PreHours < 0 || a.PostHours < 0 || a.LegacyPrePost < 0 {
		return fmt.Errorf("briefing hours cannot be negative")
	}
	return nil
}
