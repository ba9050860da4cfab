package compliance

import (
	"time"

	"github.com/safehours/internal/activity"
	"github.com/safehours/internal/timeutil"
)

// Rolling24hFlightHours sums the overlap between each Flight activity's raw
// span and the window [at-24h, at]. Briefing time never counts toward
// flight time.
func Rolling24hFlightHours(acts []activity.Activity, at time.Time) float64 {
	return rollingHours(acts, at, func(a activity.Activity) bool {
		return a.Type == activity.Flight
	}, false)
}

// RollingContactHours sums briefing-adjusted time across all countable
// activities inside the same window.
func RollingContactHours(acts []activity.Activity, at time.Time) float64 {
	return rollingHours(acts, at, func(a activity.Activity) bool {
		return a.Type.Countable()
	}, true)
}

// rollingHours is a straight interval-intersection sum, O(n) per instant.
// Personal logs stay small, so no index is kept. Records with malformed
// date or clock fields are skipped.
func rollingHours(acts []activity.Activity, at time.Time, include func(activity.Activity) bool, adjusted bool) float64 {
	windowStart := at.Add(-24 * time.Hour)
	total := 0.0
	for _, a := range acts {
		if !include(a) {
			continue
		}
		start, err := a.StartInstant()
		if err != nil {
			continue
		}
		end, err := a.EndInstant()
		if err != nil {
			continue
		}
		if adjusted {
			start = start.Add(-time.Duration(a.PreMinutes()) * time.Minute)
			end = end.Add(time.Duration(a.PostMinutes()) * time.Minute)
		}
		overlapStart := start
		if windowStart.After(overlapStart) {
			overlapStart = windowStart
		}
		overlapEnd := end
		if at.Before(overlapEnd) {
			overlapEnd = at
		}
		if overlapEnd.After(overlapStart) {
			total += overlapEnd.Sub(overlapStart).Minutes()
		}
	}
	return total / 60
}

// MaxRollingFlightHours returns the highest rolling-24h flight total
// reached at any instant during the given day.
//
// The rolling sum only changes slope where a span boundary enters or
// leaves the window, so evaluating at every boundary instant inside the
// day (both the boundary itself and the boundary plus 24h) plus end of day
// is guaranteed to hit the true maximum. This replaces the hourly sampling
// of earlier versions, which could miss peaks between ticks.
func MaxRollingFlightHours(acts []activity.Activity, date string) float64 {
	return maxRolling(acts, date, Rolling24hFlightHours)
}

// MaxRollingContactHours is the contact-time counterpart of
// MaxRollingFlightHours.
func MaxRollingContactHours(acts []activity.Activity, date string) float64 {
	return maxRolling(acts, date, RollingContactHours)
}

func maxRolling(acts []activity.Activity, date string, fn func([]activity.Activity, time.Time) float64) float64 {
	day, err := timeutil.ParseDate(date)
	if err != nil {
		return 0
	}
	dayEnd := day.Add(24*time.Hour - time.Millisecond)

	instants := []time.Time{dayEnd}
	for _, a := range acts {
		start, err := a.StartInstant()
		if err != nil {
			continue
		}
		end, err := a.EndInstant()
		if err != nil {
			continue
		}
		for _, t := range []time.Time{start, end, start.Add(24 * time.Hour), end.Add(24 * time.Hour)} {
			if !t.Before(day) && !t.After(dayEnd) {
				instants = append(instants, t)
			}
		}
	}

	max := 0.0
	for _, t := range instants {
		if v := fn(acts, t); v > max {
			max = v
		}
	}
	return max
}
