package compliance

import (
	"github.com/safehours/internal/activity"
	"github.com/safehours/internal/timeutil"
)

// The calendar calculators fail soft: malformed dates or clock values
// produce a conservative default (0, or the 24h rest sentinel) instead of
// an error. One bad record must never take down a compliance report.

// DutyDayHours is the span in hours from the earliest briefing-adjusted
// start to the latest briefing-adjusted end among countable activities
// starting on the given date. Zero when the day is empty. Activities are
// keyed by start date only; overnight spillover does not stretch the
// following day's span. A day whose only activity crosses midnight has its
// unwrapped end before its start; the span clamps to zero instead of going
// negative.
func DutyDayHours(acts []activity.Activity, date string) float64 {
	first, last, ok := dayBounds(acts, date)
	if !ok || last < first {
		return 0
	}
	return float64(last-first) / 60
}

// dayBounds returns the earliest adjusted start and latest adjusted end
// (minutes since midnight, unwrapped) over countable activities on date.
func dayBounds(acts []activity.Activity, date string) (first, last int, ok bool) {
	for _, a := range acts {
		if a.Date != date || !a.Type.Countable() {
			continue
		}
		start, end, err := a.EffectiveSpan()
		if err != nil {
			continue
		}
		if !ok || start < first {
			first = start
		}
		if !ok || end > last {
			last = end
		}
		ok = true
	}
	return first, last, ok
}

// RestHours is the gap between the previous day's latest adjusted end and
// the given day's earliest adjusted start, measured through midnight.
// Either day having no countable activities means a full night of rest:
// the 24 sentinel. Callers must treat "no previous day" as compliant, not
// as a computed rest value.
func RestHours(acts []activity.Activity, date string) float64 {
	day, err := timeutil.ParseDate(date)
	if err != nil {
		return 24
	}
	prev := day.AddDate(0, 0, -1).Format(timeutil.DateLayout)

	_, prevEnd, okPrev := dayBounds(acts, prev)
	curStart, _, okCur := dayBounds(acts, date)
	if !okPrev || !okCur {
		return 24
	}
	rest := (timeutil.MinutesPerDay - prevEnd) + curStart
	return float64(rest) / 60
}

// ConsecutiveDays counts backward from the given date over days that have
// at least one countable activity, stopping at the first empty day. The
// walk is capped at 30 days.
func ConsecutiveDays(acts []activity.Activity, date string) int {
	day, err := timeutil.ParseDate(date)
	if err != nil {
		return 0
	}
	worked := make(map[string]bool)
	for _, a := range acts {
		if a.Type.Countable() {
			worked[a.Date] = true
		}
	}
	count := 0
	for i := 0; i < 30; i++ {
		if !worked[day.AddDate(0, 0, -i).Format(timeutil.DateLayout)] {
			break
		}
		count++
	}
	return count
}

// WeeklyHours totals briefing-adjusted time for countable activities whose
// start date falls inside the Sunday-Saturday week containing the given
// date. An overnight block on the week's last day contributes its full
// span first and then has the next-day portion trimmed back out; the
// trim-after-add order matches how the totals have always been computed.
func WeeklyHours(acts []activity.Activity, date string) float64 {
	day, err := timeutil.ParseDate(date)
	if err != nil {
		return 0
	}
	weekStart := day.AddDate(0, 0, -int(day.Weekday()))
	weekEnd := weekStart.AddDate(0, 0, 6)
	return windowHours(acts, weekStart.Format(timeutil.DateLayout), weekEnd.Format(timeutil.DateLayout))
}

// PastSevenDaysHours applies the same aggregation over the trailing seven
// calendar days [date-6, date], with the same spillover trim at the
// window's right edge.
func PastSevenDaysHours(acts []activity.Activity, date string) float64 {
	day, err := timeutil.ParseDate(date)
	if err != nil {
		return 0
	}
	start := day.AddDate(0, 0, -6).Format(timeutil.DateLayout)
	return windowHours(acts, start, date)
}

// windowHours sums duration plus briefing minutes over countable
// activities whose start date falls in [startDate, endDate]. Date keys in
// DateLayout compare correctly as strings.
func windowHours(acts []activity.Activity, startDate, endDate string) float64 {
	total := 0
	for _, a := range acts {
		if !a.Type.Countable() {
			continue
		}
		if a.Date < startDate || a.Date > endDate {
			continue
		}
		minutes := a.DurationMinutes() + a.PreMinutes() + a.PostMinutes()
		if a.Overnight() {
			day, err := timeutil.ParseDate(a.Date)
			if err != nil {
				continue
			}
			next := day.AddDate(0, 0, 1).Format(timeutil.DateLayout)
			if next > endDate {
				// The portion past midnight belongs to a day outside the
				// window: end-of-day clock minutes plus the post briefing.
				endMin, err := timeutil.TimeToMinutes(a.EndTime)
				if err == nil {
					minutes -= endMin + a.PostMinutes()
				}
			}
		}
		total += minutes
	}
	return float64(total) / 60
}
