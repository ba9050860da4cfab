package activity

import (
	"math"
	"strings"
	"time"

	"github.com/safehours/internal/timeutil"
)

// Type identifies what kind of activity was logged. It is a closed set;
// which limits apply depends on the member.
type Type int

const (
	Flight Type = iota
	Ground
	Sim
	Other
)

func (t Type) String() string {
	switch t {
	case Flight:
		return "Flight"
	case Ground:
		return "Ground"
	case Sim:
		return "SIM"
	default:
		return "Other"
	}
}

// ParseType maps a stored type label to its Type. The legacy
// "Other Internal"/"Other External" labels collapse into Other.
func ParseType(s string) (Type, bool) {
	switch strings.TrimSpace(s) {
	case "Flight":
		return Flight, true
	case "Ground":
		return Ground, true
	case "SIM", "Sim":
		return Sim, true
	case "Other", "Other Internal", "Other External":
		return Other, true
	}
	return Other, false
}

// HasBriefing reports whether pre/post briefing offsets apply to the type.
// Briefings only accompany flight and simulator blocks.
func (t Type) HasBriefing() bool {
	return t == Flight || t == Sim
}

// Countable reports whether the type participates in compliance metrics.
// Other is shown on the timeline but never counted.
func (t Type) Countable() bool {
	return t != Other
}

// Activity is one logged block of duty time. Date is the calendar day the
// block starts; an EndTime clock value before StartTime means the block
// runs into the following day.
type Activity struct {
	ID        string
	Type      Type
	Date      string // YYYY-MM-DD, local
	StartTime string // HH:MM
	EndTime   string // HH:MM
	PreHours  float64
	PostHours float64
	// LegacyPrePost is the combined pre+post total carried by old records.
	// It is honored whenever the split fields are both absent.
	LegacyPrePost float64
	Notes         string
}

// PreMinutes is the briefing time ahead of the start, in minutes. Zero for
// types without briefings; legacy combined totals split evenly.
func (a Activity) PreMinutes() int {
	if !a.Type.HasBriefing() {
		return 0
	}
	if a.PreHours == 0 && a.PostHours == 0 && a.LegacyPrePost > 0 {
		return hoursToMinutes(a.LegacyPrePost / 2)
	}
	return hoursToMinutes(a.PreHours)
}

// PostMinutes is the briefing time after the end, in minutes.
func (a Activity) PostMinutes() int {
	if !a.Type.HasBriefing() {
		return 0
	}
	if a.PreHours == 0 && a.PostHours == 0 && a.LegacyPrePost > 0 {
		return hoursToMinutes(a.LegacyPrePost / 2)
	}
	return hoursToMinutes(a.PostHours)
}

func hoursToMinutes(h float64) int {
	return int(math.Round(h * 60))
}

// DurationMinutes is the raw start-to-end length, ignoring briefing time.
// Malformed clock values count as zero.
func (a Activity) DurationMinutes() int {
	d, err := timeutil.Duration(a.StartTime, a.EndTime)
	if err != nil {
		return 0
	}
	return d
}

// Overnight reports whether the block crosses midnight.
func (a Activity) Overnight() bool {
	s, err := timeutil.TimeToMinutes(a.StartTime)
	if err != nil {
		return false
	}
	e, err := timeutil.TimeToMinutes(a.EndTime)
	if err != nil {
		return false
	}
	return e < s
}

// EffectiveSpan is the briefing-adjusted window in minutes since midnight
// on the activity's own date. The end is not wrapped at midnight: overlap
// comparison and duty-day bounds are same-day only.
func (a Activity) EffectiveSpan() (start, end int, err error) {
	s, err := timeutil.TimeToMinutes(a.StartTime)
	if err != nil {
		return 0, 0, err
	}
	e, err := timeutil.TimeToMinutes(a.EndTime)
	if err != nil {
		return 0, 0, err
	}
	return s - a.PreMinutes(), e + a.PostMinutes(), nil
}

// StartInstant reconstructs the absolute wall-clock instant the block
// starts, from its date and clock fields.
func (a Activity) StartInstant() (time.Time, error) {
	day, err := timeutil.ParseDate(a.Date)
	if err != nil {
		return time.Time{}, err
	}
	m, err := timeutil.TimeToMinutes(a.StartTime)
	if err != nil {
		return time.Time{}, err
	}
	return day.Add(time.Duration(m) * time.Minute), nil
}

// EndInstant reconstructs the absolute end instant, landing on the next
// day when the block crosses midnight.
func (a Activity) EndInstant() (time.Time, error) {
	day, err := timeutil.ParseDate(a.Date)
	if err != nil {
		return time.Time{}, err
	}
	s, err := timeutil.TimeToMinutes(a.StartTime)
	if err != nil {
		return time.Time{}, err
	}
	e, err := timeutil.TimeToMinutes(a.EndTime)
	if err != nil {
		return time.Time{}, err
	}
	if e < s {
		e += timeutil.MinutesPerDay
	}
	return day.Add(time.Duration(e) * time.Minute), nil
}

// Overlaps reports whether the candidate's briefing-adjusted span collides
// with any existing activity on the same date. excludeID skips the record
// being edited. A candidate starting exactly where an existing span ends is
// allowed; two spans starting at the same minute are a conflict. This gate
// is the sole defense against double-booking: a successful add or update
// must never leave two activities with intersecting effective spans on the
// same date.
func Overlaps(existing []Activity, candidate Activity, excludeID string) bool {
	newStart, newEnd, err := candidate.EffectiveSpan()
	if err != nil {
		return false
	}
	for _, a := range existing {
		if a.Date != candidate.Date {
			continue
		}
		if excludeID != "" && a.ID == excludeID {
			continue
		}
		start, end, err := a.EffectiveSpan()
		if err != nil {
			continue
		}
		if newStart >= start && newStart < end {
			return true
		}
		if newEnd > start && newEnd <= end {
			return true
		}
		if newStart <= start && newEnd >= end {
			return true
		}
	}
	return false
}
