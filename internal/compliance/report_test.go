package compliance

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/safehours/internal/activity"
)

func TestEvaluateCompliantDay(t *testing.T) {
	acts := []activity.Activity{
		{Type: activity.Flight, Date: "2025-03-10", StartTime: "09:00", EndTime: "11:00", PreHours: 0.5, PostHours: 0.5},
		{Type: activity.Ground, Date: "2025-03-10", StartTime: "14:00", EndTime: "16:00"},
	}

	r := Evaluate(acts, "2025-03-10", DefaultThresholds())

	assert.InDelta(t, 2.0, r.FlightHours, 1e-9)
	assert.InDelta(t, 5.0, r.ContactHours, 1e-9)
	assert.InDelta(t, 7.5, r.DutyDayHours, 1e-9)
	assert.Equal(t, 24.0, r.RestHours)
	assert.Equal(t, 1, r.ConsecutiveDays)
	assert.True(t, r.Compliant())
}

func TestEvaluateFlightOverLimit(t *testing.T) {
	acts := []activity.Activity{
		{Type: activity.Flight, Date: "2025-03-10", StartTime: "06:00", EndTime: "15:00"},
	}

	r := Evaluate(acts, "2025-03-10", DefaultThresholds())

	assert.InDelta(t, 9.0, r.FlightHours, 1e-9)
	assert.False(t, r.FlightOK)
	assert.False(t, r.Compliant())
	assert.True(t, r.DutyDayOK)
}

func TestEvaluateShortRest(t *testing.T) {
	acts := []activity.Activity{
		{Type: activity.Flight, Date: "2025-03-09", StartTime: "14:00", EndTime: "23:00"},
		{Type: activity.Ground, Date: "2025-03-10", StartTime: "06:00", EndTime: "08:00"},
	}

	r := Evaluate(acts, "2025-03-10", DefaultThresholds())

	// 23:00 to 06:00 is seven hours, below the ten hour floor.
	assert.InDelta(t, 7.0, r.RestHours, 1e-9)
	assert.False(t, r.RestOK)
	assert.False(t, r.Compliant())
}

func TestEvaluateRestIsFloorNotCeiling(t *testing.T) {
	acts := []activity.Activity{
		{Type: activity.Ground, Date: "2025-03-10", StartTime: "09:00", EndTime: "10:00"},
	}

	r := Evaluate(acts, "2025-03-10", DefaultThresholds())

	assert.Equal(t, 24.0, r.RestHours)
	assert.True(t, r.RestOK)
}

func TestEvaluateCustomThresholds(t *testing.T) {
	acts := []activity.Activity{
		{Type: activity.Ground, Date: "2025-03-10", StartTime: "09:00", EndTime: "12:00"},
	}

	th := DefaultThresholds()
	th.MaxContactHours = 2

	r := Evaluate(acts, "2025-03-10", th)
	assert.False(t, r.ContactOK)
	assert.False(t, r.Compliant())
}

func TestEvaluateEmptyDay(t *testing.T) {
	r := Evaluate(nil, "2025-03-10", DefaultThresholds())

	assert.Zero(t, r.FlightHours)
	assert.Zero(t, r.ContactHours)
	assert.Zero(t, r.DutyDayHours)
	assert.Equal(t, 24.0, r.RestHours)
	assert.Zero(t, r.ConsecutiveDays)
	assert.True(t, r.Compliant())
}
