package compliance

// =============================================================================
// DUTY LIMIT CONFIGURATION
// =============================================================================
// Edit these values to match your school's operations manual.
// Current defaults: common Part-141 style instructor duty limits.
//
// The engine never stores limits; it only compares computed metrics against
// whatever Thresholds the caller passes in. Flight, contact, duty-day,
// consecutive-day, weekly and past-7-day limits are ceilings; rest is a
// floor.
// =============================================================================

const (
	// DefaultMaxFlightHours - flight instruction inside any rolling 24h window
	DefaultMaxFlightHours = 8.0

	// DefaultMaxContactHours - briefing-adjusted contact time in any rolling 24h window
	DefaultMaxContactHours = 10.0

	// DefaultMinRestHours - minimum rest between consecutive duty days
	DefaultMinRestHours = 10.0

	// DefaultMaxDutyDayHours - first adjusted start to last adjusted end in a day
	DefaultMaxDutyDayHours = 14.0

	// DefaultMaxConsecutiveDays - working days in a row before a day off is due
	DefaultMaxConsecutiveDays = 6

	// DefaultMaxWeeklyHours - Sunday-Saturday week total
	DefaultMaxWeeklyHours = 50.0

	// DefaultMaxPastSevenHours - trailing 7-calendar-day total
	DefaultMaxPastSevenHours = 50.0
)

// Thresholds is the caller-owned set of warning limits.
type Thresholds struct {
	MaxFlightHours     float64 `yaml:"MaxFlightHours"`
	MaxContactHours    float64 `yaml:"MaxContactHours"`
	MinRestHours       float64 `yaml:"MinRestHours"`
	MaxDutyDayHours    float64 `yaml:"MaxDutyDayHours"`
	MaxConsecutiveDays int     `yaml:"MaxConsecutiveDays"`
	MaxWeeklyHours     float64 `yaml:"MaxWeeklyHours"`
	MaxPastSevenHours  float64 `yaml:"MaxPastSevenHours"`
}

// DefaultThresholds returns the stock limit set.
func DefaultThresholds() Thresholds {
	return Thresholds{
		MaxFlightHours:     DefaultMaxFlightHours,
		MaxContactHours:    DefaultMaxContactHours,
		MinRestHours:       DefaultMinRestHours,
		MaxDutyDayHours:    DefaultMaxDutyDayHours,
		MaxConsecutiveDays: DefaultMaxConsecutiveDays,
		MaxWeeklyHours:     DefaultMaxWeeklyHours,
		MaxPastSevenHours:  DefaultMaxPastSevenHours,
	}
}
