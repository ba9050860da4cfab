package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/safehours/internal/activity"
)

// csvHeader is the flat interchange schema. prePostValue carries the
// combined briefing total so files stay readable by the legacy schema.
var csvHeader = []string{"id", "type", "date", "startTime", "endTime", "prePostValue", "notes"}

// WriteCSV writes one row per activity. encoding/csv quotes the notes
// field and escapes embedded quotes on its own.
func WriteCSV(w io.Writer, acts []activity.Activity) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for _, a := range acts {
		prePost := a.PreHours + a.PostHours
		if prePost == 0 {
			prePost = a.LegacyPrePost
		}
		record := []string{
			a.ID,
			a.Type.String(),
			a.Date,
			a.StartTime,
			a.EndTime,
			strconv.FormatFloat(prePost, 'f', -1, 64),
			a.Notes,
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

// ReadCSV parses the interchange schema back into activities. The combined
// prePostValue column is split evenly between pre and post, the same way
// legacy records are interpreted everywhere else.
func ReadCSV(r io.Reader) ([]activity.Activity, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}

	var acts []activity.Activity
	for i, rec := range records {
		if i == 0 && len(rec) > 0 && rec[0] == "id" {
			continue
		}
		if len(rec) < 7 {
			return nil, fmt.Errorf("row %d: expected 7 fields, got %d", i+1, len(rec))
		}
		typ, ok := activity.ParseType(rec[1])
		if !ok {
			return nil, fmt.Errorf("row %d: unknown activity type %q", i+1, rec[1])
		}
		prePost, err := strconv.ParseFloat(rec[5], 64)
		if err != nil {
			return nil, fmt.Errorf("row %d: bad prePostValue: %w", i+1, err)
		}
		acts = append(acts, activity.Activity{
			ID:        rec[0],
			Type:      typ,
			Date:      rec[2],
			StartTime: rec[3],
			EndTime:   rec[4],
			PreHours:  prePost / 2,
			PostHours: prePost / 2,
			Notes:     rec[6],
		})
	}

	return acts, nil
}
