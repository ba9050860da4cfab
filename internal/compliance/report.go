package compliance

import "github.com/safehours/internal/activity"

// Report bundles the seven compliance metrics for one day together with
// pass flags against a set of thresholds. Flight and contact hours are the
// highest rolling-24h values touched during the day.
type Report struct {
	Date            string
	FlightHours     float64
	ContactHours    float64
	DutyDayHours    float64
	RestHours       float64
	ConsecutiveDays int
	WeeklyHours     float64
	PastSevenHours  float64

	FlightOK      bool
	ContactOK     bool
	DutyDayOK     bool
	RestOK        bool
	ConsecutiveOK bool
	WeeklyOK      bool
	PastSevenOK   bool
}

// Evaluate computes every metric for the given date and compares against
// the thresholds. Rest is a floor; everything else is a ceiling.
func Evaluate(acts []activity.Activity, date string, th Thresholds) Report {
	r := Report{
		Date:            date,
		FlightHours:     MaxRollingFlightHours(acts, date),
		ContactHours:    MaxRollingContactHours(acts, date),
		DutyDayHours:    DutyDayHours(acts, date),
		RestHours:       RestHours(acts, date),
		ConsecutiveDays: ConsecutiveDays(acts, date),
		WeeklyHours:     WeeklyHours(acts, date),
		PastSevenHours:  PastSevenDaysHours(acts, date),
	}
	r.FlightOK = r.FlightHours <= th.MaxFlightHours
	r.ContactOK = r.ContactHours <= th.MaxContactHours
	r.DutyDayOK = r.DutyDayHours <= th.MaxDutyDayHours
	r.RestOK = r.RestHours >= th.MinRestHours
	r.ConsecutiveOK = r.ConsecutiveDays <= th.MaxConsecutiveDays
	r.WeeklyOK = r.WeeklyHours <= th.MaxWeeklyHours
	r.PastSevenOK = r.PastSevenHours <= th.MaxPastSevenHours
	return r
}

// Compliant reports whether every limit passed.
func (r Report) Compliant() bool {
	return r.FlightOK && r.ContactOK && r.DutyDayOK && r.RestOK &&
		r.ConsecutiveOK && r.WeeklyOK && r.PastSevenOK
}
