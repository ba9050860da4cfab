package archive

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/safehours/internal/activity"
	"github.com/safehours/internal/compliance"
)

type memRepo struct {
	acts []activity.Activity
}

func (m *memRepo) Insert(a *activity.Activity) error { m.acts = append(m.acts, *a); return nil }
func (m *memRepo) Update(a *activity.Activity) error { return nil }
func (m *memRepo) Delete(id string) error            { return nil }
func (m *memRepo) GetByID(id string) (*activity.Activity, error) {
	return nil, nil
}

func (m *memRepo) List() ([]activity.Activity, error) {
	return m.acts, nil
}

func (m *memRepo) ListRange(startDate, endDate string) ([]activity.Activity, error) {
	var out []activity.Activity
	for _, a := range m.acts {
		if a.Date >= startDate && a.Date <= endDate {
			out = append(out, a)
		}
	}
	return out, nil
}

func (m *memRepo) DeleteRange(startDate, endDate string) error {
	var keep []activity.Activity
	for _, a := range m.acts {
		if a.Date < startDate || a.Date > endDate {
			keep = append(keep, a)
		}
	}
	m.acts = keep
	return nil
}

func (m *memRepo) OldestDate() (string, error) {
	oldest := ""
	for _, a := range m.acts {
		if oldest == "" || a.Date < oldest {
			oldest = a.Date
		}
	}
	return oldest, nil
}

func januaryRepo() *memRepo {
	return &memRepo{acts: []activity.Activity{
		{ID: "a1", Type: activity.Flight, Date: "2025-01-10", StartTime: "09:00", EndTime: "11:00", PreHours: 0.5, PostHours: 0.5, Notes: "steep turns"},
		{ID: "a2", Type: activity.Ground, Date: "2025-01-10", StartTime: "14:00", EndTime: "16:00"},
		{ID: "a3", Type: activity.Other, Date: "2025-01-12", StartTime: "09:00", EndTime: "10:00"},
	}}
}

func TestArchiveMonth(t *testing.T) {
	repo := januaryRepo()
	dir := t.TempDir()
	archiver := New(repo, dir)

	require.NoError(t, archiver.ArchiveMonth(2025, time.January, false))

	data, err := os.ReadFile(filepath.Join(dir, "2025-01.md"))
	require.NoError(t, err)
	md := string(data)

	assert.Contains(t, md, "# January 2025")
	// 3h adjusted flight plus 2h ground; Other is excluded from contact.
	assert.Contains(t, md, "| Contact Hours | 5.00 |")
	assert.Contains(t, md, "| Flight Hours | 2.00 |")
	assert.Contains(t, md, "| Days Active | 1 |")
	assert.Contains(t, md, "| 2025-01-10 | Flight | 09:00 | 11:00 | 2.00 | 1.00h | steep turns |")
	assert.Contains(t, md, "| 2025-01-12 | Other |")

	// Non-clean archive keeps the rows.
	assert.Len(t, repo.acts, 3)
}

func TestArchiveMonthClean(t *testing.T) {
	repo := januaryRepo()
	archiver := New(repo, t.TempDir())

	require.NoError(t, archiver.ArchiveMonth(2025, time.January, true))
	assert.Empty(t, repo.acts)
}

func TestArchiveMonthEmpty(t *testing.T) {
	archiver := New(&memRepo{}, t.TempDir())
	err := archiver.ArchiveMonth(2025, time.January, false)
	assert.ErrorContains(t, err, "no activities found")
}

func TestAutoArchivePastMonths(t *testing.T) {
	repo := januaryRepo()
	now := time.Now()
	repo.acts = append(repo.acts, activity.Activity{
		ID: "cur", Type: activity.Ground,
		Date:      now.Format("2006-01-02"),
		StartTime: "09:00", EndTime: "10:00",
	})

	dir := t.TempDir()
	archiver := New(repo, dir)

	archived, err := archiver.AutoArchivePastMonths()
	require.NoError(t, err)
	assert.Contains(t, archived, "2025-01.md")

	// Second run finds the file and does nothing.
	again, err := archiver.AutoArchivePastMonths()
	require.NoError(t, err)
	assert.Empty(t, again)

	// Archival is a copy, not a move: every row stays in the database.
	assert.Len(t, repo.acts, 4)
}

func TestAutoArchiveKeepsTrailingHistoryForCompliance(t *testing.T) {
	// Rest, streaks and rolling windows read across month boundaries, so
	// auto-archive must never prune the rows it writes out.
	now := time.Now()
	monthFirst := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.Local)
	prevLast := monthFirst.AddDate(0, 0, -1)
	firstKey := monthFirst.Format("2006-01-02")

	repo := &memRepo{acts: []activity.Activity{
		{ID: "p1", Type: activity.Flight, Date: prevLast.Format("2006-01-02"), StartTime: "18:00", EndTime: "22:00"},
		{ID: "c1", Type: activity.Ground, Date: firstKey, StartTime: "08:00", EndTime: "12:00"},
	}}
	archiver := New(repo, t.TempDir())

	before := compliance.RestHours(repo.acts, firstKey)
	require.InDelta(t, 10.0, before, 1e-9)

	_, err := archiver.AutoArchivePastMonths()
	require.NoError(t, err)

	acts, err := repo.List()
	require.NoError(t, err)
	assert.InDelta(t, before, compliance.RestHours(acts, firstKey), 1e-9)
}

func TestAutoArchiveEmptyLog(t *testing.T) {
	archiver := New(&memRepo{}, t.TempDir())
	archived, err := archiver.AutoArchivePastMonths()
	require.NoError(t, err)
	assert.Empty(t, archived)
}

func TestListArchives(t *testing.T) {
	dir := t.TempDir()
	archiver := New(&memRepo{}, dir)

	archives, err := archiver.ListArchives()
	require.NoError(t, err)
	assert.Empty(t, archives)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "2025-02.md"), []byte("x"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "2025-01.md"), []byte("x"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0644))

	archives, err = archiver.ListArchives()
	require.NoError(t, err)
	assert.Equal(t, []string{"2025-01.md", "2025-02.md"}, archives)
}

func TestReadArchive(t *testing.T) {
	dir := t.TempDir()
	archiver := New(&memRepo{}, dir)

	_, err := archiver.ReadArchive(2025, time.January)
	assert.ErrorContains(t, err, "archive not found")

	require.NoError(t, os.WriteFile(filepath.Join(dir, "2025-01.md"), []byte("# January 2025"), 0644))
	content, err := archiver.ReadArchive(2025, time.January)
	require.NoError(t, err)
	assert.Equal(t, "# January 2025", content)
}
