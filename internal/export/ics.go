package export

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/safehours/internal/activity"
	"github.com/safehours/internal/timeutil"
)

const icsTimeLayout = "20060102T150405"

// WriteICS emits one VEVENT per activity. DTSTART/DTEND include briefing
// time so the calendar block shows the full commitment; the event is
// widened by the even split of the combined total, the same split ReadICS
// unwinds, so clock times survive the round trip whatever the pre/post
// ratio. The DESCRIPTION carries key lines so an exported file reimports
// losslessly.
func WriteICS(w io.Writer, acts []activity.Activity) error {
	var b strings.Builder
	b.WriteString("BEGIN:VCALENDAR\r\n")
	b.WriteString("VERSION:2.0\r\n")
	b.WriteString("PRODID:-//SafeHours//Duty Log//EN\r\n")

	for _, a := range acts {
		start, err := a.StartInstant()
		if err != nil {
			return fmt.Errorf("activity %s: %w", a.ID, err)
		}
		end, err := a.EndInstant()
		if err != nil {
			return fmt.Errorf("activity %s: %w", a.ID, err)
		}
		prePost := float64(a.PreMinutes()+a.PostMinutes()) / 60
		half := time.Duration(prePost / 2 * float64(time.Hour))
		start = start.Add(-half)
		end = end.Add(half)

		b.WriteString("BEGIN:VEVENT\r\n")
		fmt.Fprintf(&b, "UID:%s\r\n", a.ID)
		fmt.Fprintf(&b, "DTSTART:%s\r\n", start.Format(icsTimeLayout))
		fmt.Fprintf(&b, "DTEND:%s\r\n", end.Format(icsTimeLayout))
		fmt.Fprintf(&b, "SUMMARY:SafeHours: %s Activity\r\n", a.Type)
		fmt.Fprintf(&b, "DESCRIPTION:Type: %s\\nPre/Post Value: %.2f\\nNotes: %s\r\n",
			a.Type, prePost, escapeICS(a.Notes))
		b.WriteString("END:VEVENT\r\n")
	}

	b.WriteString("END:VCALENDAR\r\n")
	_, err := io.WriteString(w, b.String())
	return err
}

// ReadICS parses a calendar produced by WriteICS (or edited elsewhere)
// back into activities. The DESCRIPTION key lines are authoritative for
// type and briefing total; DTSTART/DTEND are unwound by the evenly split
// briefing halves to recover the raw clock times.
func ReadICS(r io.Reader) ([]activity.Activity, error) {
	scanner := bufio.NewScanner(r)
	var acts []activity.Activity
	var cur *icsEvent

	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		switch {
		case line == "BEGIN:VEVENT":
			cur = &icsEvent{}
		case line == "END:VEVENT":
			if cur == nil {
				continue
			}
			a, err := cur.toActivity()
			if err != nil {
				return nil, err
			}
			acts = append(acts, a)
			cur = nil
		case cur == nil:
			// Calendar-level lines.
		case strings.HasPrefix(line, "UID:"):
			cur.uid = strings.TrimPrefix(line, "UID:")
		case strings.HasPrefix(line, "DTSTART:"):
			cur.dtStart = strings.TrimPrefix(line, "DTSTART:")
		case strings.HasPrefix(line, "DTEND:"):
			cur.dtEnd = strings.TrimPrefix(line, "DTEND:")
		case strings.HasPrefix(line, "DESCRIPTION:"):
			cur.description = strings.TrimPrefix(line, "DESCRIPTION:")
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read ics: %w", err)
	}

	return acts, nil
}

type icsEvent struct {
	uid         string
	dtStart     string
	dtEnd       string
	description string
}

func (e *icsEvent) toActivity() (activity.Activity, error) {
	start, err := time.ParseInLocation(icsTimeLayout, e.dtStart, time.Local)
	if err != nil {
		return activity.Activity{}, fmt.Errorf("event %s: bad DTSTART %q", e.uid, e.dtStart)
	}
	end, err := time.ParseInLocation(icsTimeLayout, e.dtEnd, time.Local)
	if err != nil {
		return activity.Activity{}, fmt.Errorf("event %s: bad DTEND %q", e.uid, e.dtEnd)
	}

	typ := activity.Other
	prePost := 0.0
	notes := ""
	for _, field := range strings.Split(e.description, "\\n") {
		key, value, found := strings.Cut(field, ":")
		if !found {
			continue
		}
		value = strings.TrimSpace(value)
		switch strings.TrimSpace(key) {
		case "Type":
			if t, ok := activity.ParseType(value); ok {
				typ = t
			}
		case "Pre/Post Value":
			if v, err := strconv.ParseFloat(value, 64); err == nil {
				prePost = v
			}
		case "Notes":
			notes = unescapeICS(value)
		}
	}

	// The event window includes briefing time; strip the evenly split
	// halves to get back to the logged clock values.
	half := time.Duration(prePost / 2 * float64(time.Hour))
	if typ.HasBriefing() {
		start = start.Add(half)
		end = end.Add(-half)
	}

	return activity.Activity{
		ID:        e.uid,
		Type:      typ,
		Date:      start.Format(timeutil.DateLayout),
		StartTime: start.Format("15:04"),
		EndTime:   end.Format("15:04"),
		PreHours:  prePost / 2,
		PostHours: prePost / 2,
		Notes:     notes,
	}, nil
}

func escapeICS(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, "\n", `\n`)
	s = strings.ReplaceAll(s, ",", `\,`)
	s = strings.ReplaceAll(s, ";", `\;`)
	return s
}

func unescapeICS(s string) string {
	s = strings.ReplaceAll(s, `\,`, ",")
	s = strings.ReplaceAll(s, `\;`, ";")
	s = strings.ReplaceAll(s, `\\`, `\`)
	return s
}
