package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/safehours/internal/compliance"
)

// Config holds the user's storage location and warning thresholds. The
// compliance engine never reads this; thresholds are passed to it as plain
// parameters.
type Config struct {
	DatabasePath string                `yaml:"DatabasePath"`
	HistoryPath  string                `yaml:"HistoryPath"`
	Thresholds   compliance.Thresholds `yaml:"Thresholds"`
}

func Load() (*Config, error) {
	configPath := getConfigPath()

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return getDefaultConfig(), nil
		}
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	applyDefaults(&cfg)

	// Expand ~ in paths
	cfg.DatabasePath = expandHome(cfg.DatabasePath)
	cfg.HistoryPath = expandHome(cfg.HistoryPath)

	return &cfg, nil
}

func Save(cfg *Config) error {
	configPath := getConfigPath()
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(configPath, data, 0644)
}

func getConfigPath() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".safehours.yaml")
}

func getDefaultConfig() *Config {
	home, _ := os.UserHomeDir()
	return &Config{
		DatabasePath: filepath.Join(home, ".safehours", "data.db"),
		HistoryPath:  filepath.Join(home, ".safehours", "history"),
		Thresholds:   compliance.DefaultThresholds(),
	}
}

// applyDefaults fills in anything the file leaves at zero, so a partial
// config (say, only MaxFlightHours overridden) keeps stock values for the
// rest.
func applyDefaults(cfg *Config) {
	home, _ := os.UserHomeDir()
	if cfg.DatabasePath == "" {
		cfg.DatabasePath = filepath.Join(home, ".safehours", "data.db")
	}
	if cfg.HistoryPath == "" {
		cfg.HistoryPath = filepath.Join(filepath.Dir(cfg.DatabasePath), "history")
	}
	def := compliance.DefaultThresholds()
	th := &cfg.Thresholds
	if th.MaxFlightHours == 0 {
		th.MaxFlightHours = def.MaxFlightHours
	}
	if th.MaxContactHours == 0 {
		th.MaxContactHours = def.MaxContactHours
	}
	if th.MinRestHours == 0 {
		th.MinRestHours = def.MinRestHours
	}
	if th.MaxDutyDayHours == 0 {
		th.MaxDutyDayHours = def.MaxDutyDayHours
	}
	if th.MaxConsecutiveDays == 0 {
		th.MaxConsecutiveDays = def.MaxConsecutiveDays
	}
	if th.MaxWeeklyHours == 0 {
		th.MaxWeeklyHours = def.MaxWeeklyHours
	}
	if th.MaxPastSevenHours == 0 {
		th.MaxPastSevenHours = def.MaxPastSevenHours
	}
}

func expandHome(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, _ := os.UserHomeDir()
		return filepath.Join(home, path[2:])
	}
	return path
}

// ValidationError represents a configuration validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("config validation error: %s - %s", e.Field, e.Message)
}

// Validate checks the configuration for common issues
func (c *Config) Validate() error {
	if c.DatabasePath == "" {
		return &ValidationError{Field: "DatabasePath", Message: "Database path is required"}
	}

	th := c.Thresholds
	if th.MaxFlightHours <= 0 {
		return &ValidationError{Field: "MaxFlightHours", Message: "Flight hour limit must be positive"}
	}
	if th.MaxContactHours < th.MaxFlightHours {
		return &ValidationError{Field: "MaxContactHours", Message: "Contact limit cannot be below the flight limit"}
	}
	if th.MinRestHours <= 0 || th.MinRestHours >= 24 {
		return &ValidationError{Field: "MinRestHours", Message: "Rest floor must be between 0 and 24 hours"}
	}
	if th.MaxDutyDayHours <= 0 || th.MaxDutyDayHours > 24 {
		return &ValidationError{Field: "MaxDutyDayHours", Message: "Duty day limit must be between 0 and 24 hours"}
	}
	if th.MaxConsecutiveDays <= 0 {
		return &ValidationError{Field: "MaxConsecutiveDays", Message: "Consecutive day limit must be positive"}
	}
	if th.MaxWeeklyHours <= 0 {
		return &ValidationError{Field: "MaxWeeklyHours", Message: "Weekly limit must be positive"}
	}
	if th.MaxPastSevenHours <= 0 {
		return &ValidationError{Field: "MaxPastSevenHours", Message: "Past-7-day limit must be positive"}
	}

	return nil
}
