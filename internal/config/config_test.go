package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/safehours/internal/compliance"
)

func validConfig() *Config {
	return &Config{
		DatabasePath: "/tmp/safehours/data.db",
		HistoryPath:  "/tmp/safehours/history",
		Thresholds:   compliance.DefaultThresholds(),
	}
}

func TestValidateOK(t *testing.T) {
	assert.NoError(t, validConfig().Validate())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*Config)
		wantField string
	}{
		{
			name:      "missing database path",
			mutate:    func(c *Config) { c.DatabasePath = "" },
			wantField: "DatabasePath",
		},
		{
			name:      "zero flight limit",
			mutate:    func(c *Config) { c.Thresholds.MaxFlightHours = 0 },
			wantField: "MaxFlightHours",
		},
		{
			name:      "contact below flight",
			mutate:    func(c *Config) { c.Thresholds.MaxContactHours = 5 },
			wantField: "MaxContactHours",
		},
		{
			name:      "rest floor at zero",
			mutate:    func(c *Config) { c.Thresholds.MinRestHours = 0 },
			wantField: "MinRestHours",
		},
		{
			name:      "rest floor at a full day",
			mutate:    func(c *Config) { c.Thresholds.MinRestHours = 24 },
			wantField: "MinRestHours",
		},
		{
			name:      "duty day beyond a day",
			mutate:    func(c *Config) { c.Thresholds.MaxDutyDayHours = 25 },
			wantField: "MaxDutyDayHours",
		},
		{
			name:      "negative consecutive days",
			mutate:    func(c *Config) { c.Thresholds.MaxConsecutiveDays = -1 },
			wantField: "MaxConsecutiveDays",
		},
		{
			name:      "zero weekly limit",
			mutate:    func(c *Config) { c.Thresholds.MaxWeeklyHours = 0 },
			wantField: "MaxWeeklyHours",
		},
		{
			name:      "zero past-7-day limit",
			mutate:    func(c *Config) { c.Thresholds.MaxPastSevenHours = 0 },
			wantField: "MaxPastSevenHours",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			require.Error(t, err)

			var vErr *ValidationError
			require.ErrorAs(t, err, &vErr)
			assert.Equal(t, tt.wantField, vErr.Field)
		})
	}
}

func TestValidateDutyDayAtExactly24(t *testing.T) {
	cfg := validConfig()
	cfg.Thresholds.MaxDutyDayHours = 24
	assert.NoError(t, cfg.Validate())
}

func TestApplyDefaults(t *testing.T) {
	cfg := &Config{
		DatabasePath: "/tmp/safehours/data.db",
		Thresholds:   compliance.Thresholds{MaxFlightHours: 6},
	}
	applyDefaults(cfg)

	// Explicit override survives; everything left at zero gets stock values.
	assert.Equal(t, 6.0, cfg.Thresholds.MaxFlightHours)
	assert.Equal(t, compliance.DefaultMaxContactHours, cfg.Thresholds.MaxContactHours)
	assert.Equal(t, compliance.DefaultMinRestHours, cfg.Thresholds.MinRestHours)
	assert.Equal(t, compliance.DefaultMaxConsecutiveDays, cfg.Thresholds.MaxConsecutiveDays)
	assert.Equal(t, "/tmp/safehours/history", cfg.HistoryPath)
}

func TestExpandHome(t *testing.T) {
	assert.Equal(t, "/var/data/db", expandHome("/var/data/db"))
	assert.NotContains(t, expandHome("~/data/db"), "~")
}
