package compliance

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/safehours/internal/activity"
)

func TestDutyDayHours(t *testing.T) {
	acts := []activity.Activity{
		{Type: activity.Flight, Date: "2025-03-10", StartTime: "09:00", EndTime: "11:00", PreHours: 0.5, PostHours: 0.5},
		{Type: activity.Ground, Date: "2025-03-10", StartTime: "14:00", EndTime: "16:00"},
	}
	// 08:30 adjusted start through 16:00 end.
	assert.InDelta(t, 7.5, DutyDayHours(acts, "2025-03-10"), 1e-9)
}

func TestDutyDayIgnoresOther(t *testing.T) {
	acts := []activity.Activity{
		{Type: activity.Other, Date: "2025-03-10", StartTime: "06:00", EndTime: "07:00"},
		{Type: activity.Ground, Date: "2025-03-10", StartTime: "09:00", EndTime: "12:00"},
		{Type: activity.Other, Date: "2025-03-10", StartTime: "20:00", EndTime: "22:00"},
	}
	assert.InDelta(t, 3.0, DutyDayHours(acts, "2025-03-10"), 1e-9)
}

func TestDutyDayOvernightOnly(t *testing.T) {
	// 23:00-01:00 unwraps to an end before its start; the span must clamp
	// to zero, never report negative hours.
	acts := []activity.Activity{
		{Type: activity.Ground, Date: "2025-03-10", StartTime: "23:00", EndTime: "01:00"},
	}
	assert.Zero(t, DutyDayHours(acts, "2025-03-10"))

	// With a same-day block the span runs between the same-day bounds; the
	// overnight block's unwrapped end never extends it.
	acts = append(acts, activity.Activity{
		Type: activity.Flight, Date: "2025-03-10", StartTime: "09:00", EndTime: "11:00",
	})
	assert.InDelta(t, 2.0, DutyDayHours(acts, "2025-03-10"), 1e-9)
}

func TestDutyDayEmptyAndMalformed(t *testing.T) {
	assert.Zero(t, DutyDayHours(nil, "2025-03-10"))

	acts := []activity.Activity{
		{Type: activity.Flight, Date: "2025-03-10", StartTime: "bad", EndTime: "11:00"},
	}
	assert.Zero(t, DutyDayHours(acts, "2025-03-10"))
}

func TestRestHours(t *testing.T) {
	acts := []activity.Activity{
		{Type: activity.Flight, Date: "2025-03-09", StartTime: "18:00", EndTime: "21:30", PostHours: 0.5},
		{Type: activity.Ground, Date: "2025-03-10", StartTime: "08:00", EndTime: "12:00"},
	}
	// Adjusted end 22:00 to 08:00 start the next morning.
	assert.InDelta(t, 10.0, RestHours(acts, "2025-03-10"), 1e-9)
}

func TestRestHoursSentinel(t *testing.T) {
	today := []activity.Activity{
		{Type: activity.Ground, Date: "2025-03-10", StartTime: "08:00", EndTime: "12:00"},
	}

	// No previous duty day means a full night of rest.
	assert.Equal(t, 24.0, RestHours(today, "2025-03-10"))

	// Previous day holding only non-countable activities counts as empty.
	withOther := append([]activity.Activity{
		{Type: activity.Other, Date: "2025-03-09", StartTime: "18:00", EndTime: "22:00"},
	}, today...)
	assert.Equal(t, 24.0, RestHours(withOther, "2025-03-10"))

	// Unparseable date falls back to the sentinel, not an error.
	assert.Equal(t, 24.0, RestHours(today, "garbage"))
}

func TestConsecutiveDays(t *testing.T) {
	acts := []activity.Activity{
		{Type: activity.Flight, Date: "2025-03-15", StartTime: "09:00", EndTime: "10:00"},
		{Type: activity.Ground, Date: "2025-03-14", StartTime: "09:00", EndTime: "10:00"},
		{Type: activity.Sim, Date: "2025-03-13", StartTime: "09:00", EndTime: "10:00"},
		// Gap on the 12th breaks the streak.
		{Type: activity.Flight, Date: "2025-03-11", StartTime: "09:00", EndTime: "10:00"},
	}
	assert.Equal(t, 3, ConsecutiveDays(acts, "2025-03-15"))
	assert.Equal(t, 1, ConsecutiveDays(acts, "2025-03-11"))
	assert.Equal(t, 0, ConsecutiveDays(acts, "2025-03-12"))
}

func TestConsecutiveDaysSkipsOther(t *testing.T) {
	acts := []activity.Activity{
		{Type: activity.Flight, Date: "2025-03-15", StartTime: "09:00", EndTime: "10:00"},
		{Type: activity.Other, Date: "2025-03-14", StartTime: "09:00", EndTime: "10:00"},
		{Type: activity.Flight, Date: "2025-03-13", StartTime: "09:00", EndTime: "10:00"},
	}
	assert.Equal(t, 1, ConsecutiveDays(acts, "2025-03-15"))
}

func TestWeeklyHours(t *testing.T) {
	// 2025-03-15 is a Saturday; its week runs 2025-03-09 through 2025-03-15.
	acts := []activity.Activity{
		{Type: activity.Flight, Date: "2025-03-10", StartTime: "09:00", EndTime: "11:00", PreHours: 0.5, PostHours: 0.5},
		{Type: activity.Ground, Date: "2025-03-12", StartTime: "14:00", EndTime: "16:00"},
		// Previous week, excluded.
		{Type: activity.Flight, Date: "2025-03-08", StartTime: "09:00", EndTime: "11:00"},
		// Other inside the week, still excluded.
		{Type: activity.Other, Date: "2025-03-11", StartTime: "09:00", EndTime: "11:00"},
	}
	assert.InDelta(t, 5.0, WeeklyHours(acts, "2025-03-15"), 1e-9)
}

func TestWeeklyHoursOvernightSpillover(t *testing.T) {
	// Saturday 23:00 to Sunday 01:00: only the hour before midnight belongs
	// to this week.
	acts := []activity.Activity{
		{Type: activity.Ground, Date: "2025-03-15", StartTime: "23:00", EndTime: "01:00"},
	}
	assert.InDelta(t, 1.0, WeeklyHours(acts, "2025-03-15"), 1e-9)

	// Same block earlier in the week keeps its full two hours.
	acts[0].Date = "2025-03-12"
	assert.InDelta(t, 2.0, WeeklyHours(acts, "2025-03-15"), 1e-9)
}

func TestPastSevenDaysHours(t *testing.T) {
	acts := []activity.Activity{
		// Oldest day still inside [2025-03-09, 2025-03-15].
		{Type: activity.Flight, Date: "2025-03-09", StartTime: "09:00", EndTime: "11:00"},
		{Type: activity.Ground, Date: "2025-03-15", StartTime: "14:00", EndTime: "15:00"},
		// One day too old.
		{Type: activity.Flight, Date: "2025-03-08", StartTime: "09:00", EndTime: "17:00"},
	}
	assert.InDelta(t, 3.0, PastSevenDaysHours(acts, "2025-03-15"), 1e-9)
}

func TestLegacyPrePostMatchesSplitFields(t *testing.T) {
	split := []activity.Activity{
		{Type: activity.Flight, Date: "2025-03-10", StartTime: "09:00", EndTime: "11:00", PreHours: 0.5, PostHours: 0.5},
	}
	legacy := []activity.Activity{
		{Type: activity.Flight, Date: "2025-03-10", StartTime: "09:00", EndTime: "11:00", LegacyPrePost: 1.0},
	}

	assert.InDelta(t, WeeklyHours(split, "2025-03-10"), WeeklyHours(legacy, "2025-03-10"), 1e-9)
	assert.InDelta(t, DutyDayHours(split, "2025-03-10"), DutyDayHours(legacy, "2025-03-10"), 1e-9)
	assert.InDelta(t, MaxRollingContactHours(split, "2025-03-10"), MaxRollingContactHours(legacy, "2025-03-10"), 1e-9)
}
