package storage

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/safehours/internal/activity"
)

// Repository is the persistence boundary the logbook service works
// against. The compliance engine itself never touches storage; it only
// receives activity slices.
type Repository interface {
	Insert(a *activity.Activity) error
	Update(a *activity.Activity) error
	Delete(id string) error
	GetByID(id string) (*activity.Activity, error)
	List() ([]activity.Activity, error)
	ListRange(startDate, endDate string) ([]activity.Activity, error)
	DeleteRange(startDate, endDate string) error
	OldestDate() (string, error)
}

type Database struct {
	db *sql.DB
}

func New(path string) (*Database, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	if err := db.Ping(); err != nil {
		return nil, err
	}

	database := &Database{db: db}
	if err := database.createTables(); err != nil {
		return nil, err
	}

	return database, nil
}

func (d *Database) createTables() error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS activities (
			id TEXT PRIMARY KEY,
			type TEXT NOT NULL,
			date TEXT NOT NULL,
			start_time TEXT NOT NULL,
			end_time TEXT NOT NULL,
			pre_hours REAL DEFAULT 0,
			post_hours REAL DEFAULT 0,
			legacy_pre_post REAL DEFAULT 0,
			notes TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_activities_date ON activities(date)`,
	}

	for _, query := range queries {
		if _, err := d.db.Exec(query); err != nil {
			return fmt.Errorf("failed to create table: %w", err)
		}
	}

	return nil
}

func (d *Database) Close() error {
	return d.db.Close()
}

// Insert stores a new activity, assigning an ID when none is set.
func (d *Database) Insert(a *activity.Activity) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	_, err := d.db.Exec(
		`INSERT INTO activities (id, type, date, start_time, end_time, pre_hours, post_hours, legacy_pre_post, notes)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		a.ID, a.Type.String(), a.Date, a.StartTime, a.EndTime,
		a.PreHours, a.PostHours, a.LegacyPrePost, a.Notes,
	)
	return err
}

func (d *Database) Update(a *activity.Activity) error {
	_, err := d.db.Exec(
		`UPDATE activities SET type = ?, date = ?, start_time = ?, end_time = ?,
		 pre_hours = ?, post_hours = ?, legacy_pre_post = ?, notes = ? WHERE id = ?`,
		a.Type.String(), a.Date, a.StartTime, a.EndTime,
		a.PreHours, a.PostHours, a.LegacyPrePost, a.Notes, a.ID,
	)
	return err
}

func (d *Database) Delete(id string) error {
	_, err := d.db.Exec(`DELETE FROM activities WHERE id = ?`, id)
	return err
}

func (d *Database) GetByID(id string) (*activity.Activity, error) {
	row := d.db.QueryRow(
		`SELECT id, type, date, start_time, end_time, pre_hours, post_hours, legacy_pre_post, notes
		 FROM activities WHERE id = ?`, id)
	a, err := scanActivity(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return a, nil
}

func (d *Database) List() ([]activity.Activity, error) {
	return d.query(
		`SELECT id, type, date, start_time, end_time, pre_hours, post_hours, legacy_pre_post, notes
		 FROM activities ORDER BY date ASC, start_time ASC`)
}

func (d *Database) ListRange(startDate, endDate string) ([]activity.Activity, error) {
	return d.query(
		`SELECT id, type, date, start_time, end_time, pre_hours, post_hours, legacy_pre_post, notes
		 FROM activities WHERE date >= ? AND date <= ?
		 ORDER BY date ASC, start_time ASC`,
		startDate, endDate)
}

func (d *Database) DeleteRange(startDate, endDate string) error {
	_, err := d.db.Exec(`DELETE FROM activities WHERE date >= ? AND date <= ?`, startDate, endDate)
	return err
}

// OldestDate returns the earliest activity date, or "" when the log is
// empty.
func (d *Database) OldestDate() (string, error) {
	var date sql.NullString
	err := d.db.QueryRow(`SELECT MIN(date) FROM activities`).Scan(&date)
	if err != nil {
		return "", err
	}
	if !date.Valid {
		return "", nil
	}
	return date.String, nil
}

func (d *Database) query(q string, args ...interface{}) ([]activity.Activity, error) {
	rows, err := d.db.Query(q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var acts []activity.Activity
	for rows.Next() {
		a, err := scanActivity(rows)
		if err != nil {
			return nil, err
		}
		acts = append(acts, *a)
	}

	return acts, rows.Err()
}

type scannable interface {
	Scan(dest ...interface{}) error
}

func scanActivity(row scannable) (*activity.Activity, error) {
	var a activity.Activity
	var typeLabel string
	var notes sql.NullString

	err := row.Scan(&a.ID, &typeLabel, &a.Date, &a.StartTime, &a.EndTime,
		&a.PreHours, &a.PostHours, &a.LegacyPrePost, &notes)
	if err != nil {
		return nil, err
	}

	// Unknown labels collapse to Other so one odd row cannot block listing.
	a.Type, _ = activity.ParseType(typeLabel)
	if notes.Valid {
		a.Notes = notes.String
	}

	return &a, nil
}
