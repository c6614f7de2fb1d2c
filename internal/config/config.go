package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the top-level application configuration.
type Config struct {
	// LogPath is the health log document to decode.
	LogPath string `yaml:"log_path" json:"log_path"`

	// OutputPDF is where the printable calendar is written.
	OutputPDF string `yaml:"output_pdf" json:"output_pdf"`

	// OutputHTML, if set, keeps the intermediate HTML next to the PDF
	// instead of in a temp directory. Useful for styling work.
	OutputHTML string `yaml:"output_html" json:"output_html"`

	// OutputICS, if set, additionally exports marked days as an
	// iCalendar file at this path.
	OutputICS string `yaml:"output_ics" json:"output_ics"`

	// CalendarName labels the exported iCalendar feed.
	CalendarName string `yaml:"calendar_name" json:"calendar_name"`

	// WeekStart controls which weekday heads the calendar columns.
	// Supported values:
	//   - "monday" (default)
	//   - "sunday"
	WeekStart string `yaml:"week_start" json:"week_start"`

	// Page selects the print page size: "a4" (default) or "letter".
	Page string `yaml:"page" json:"page"`

	// RefreshCron is a cron-style schedule string (e.g. "0 * * * *")
	// used by watch mode to re-render after log edits.
	RefreshCron string `yaml:"refresh" json:"refresh"`

	// Listen is the HTTP listen address for the preview server. Only
	// used when the -listen flag enables it.
	Listen string `yaml:"listen" json:"listen"`

	// ChromeTimeoutSec bounds a single print-to-PDF run.
	ChromeTimeoutSec int `yaml:"chrome_timeout_sec" json:"chrome_timeout_sec"`
}

// ChromeTimeout returns ChromeTimeoutSec as a duration.
func (c *Config) ChromeTimeout() time.Duration {
	return time.Duration(c.ChromeTimeoutSec) * time.Second
}

// DefaultConfig returns an in-memory default configuration.
func DefaultConfig() *Config {
	return &Config{
		LogPath:          "log.toml",
		OutputPDF:        "calendar.pdf",
		OutputHTML:       "",
		OutputICS:        "",
		CalendarName:     "Health log",
		WeekStart:        "monday",
		Page:             "a4",
		RefreshCron:      "0 * * * *",
		Listen:           "127.0.0.1:8080",
		ChromeTimeoutSec: 30,
	}
}

// Normalize fills in missing/zero values with sensible defaults so that
// partially-filled configs still behave correctly.
func (c *Config) Normalize() {
	if c.LogPath == "" {
		c.LogPath = "log.toml"
	}
	if c.OutputPDF == "" {
		c.OutputPDF = "calendar.pdf"
	}
	if c.CalendarName == "" {
		c.CalendarName = "Health log"
	}
	switch c.WeekStart {
	case "monday", "sunday":
		// ok
	case "":
		c.WeekStart = "monday"
	default:
		// Unknown value; fall back to monday to avoid surprising layouts.
		c.WeekStart = "monday"
	}
	switch c.Page {
	case "a4", "letter":
		// ok
	default:
		c.Page = "a4"
	}
	if c.RefreshCron == "" {
		c.RefreshCron = "0 * * * *"
	}
	if c.Listen == "" {
		c.Listen = "127.0.0.1:8080"
	}
	if c.ChromeTimeoutSec <= 0 {
		c.ChromeTimeoutSec = 30
	}
}

// Load loads configuration from the given YAML path.
//
// Behavior:
//   - If the file does not exist:
//   - create parent directory if needed
//   - write a default config with 0600 perms
//   - return the default config
//   - If the file exists:
//   - read YAML and unmarshal into Config
//   - normalize defaults
func Load(path string) (*Config, error) {
	if path == "" {
		return nil, errors.New("config path is empty")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			// First run: create default config file.
			cfg := DefaultConfig()
			if err := Save(path, cfg); err != nil {
				// Even if save fails, return cfg with error so caller can decide.
				return cfg, err
			}
			return cfg, nil
		}
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	cfg.Normalize()

	return &cfg, nil
}

// Save writes the given configuration to the specified path.
//
// Implementation details:
//   - Ensures parent directory exists (0700).
//   - Marshals cfg to YAML.
//   - Writes atomically via a temp file + rename.
//   - Ensures final file permissions are 0600.
func Save(path string, cfg *Config) error {
	if path == "" {
		return errors.New("config path is empty")
	}
	if cfg == nil {
		return errors.New("config is nil")
	}

	cfg.Normalize()

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}

	// Atomic write: write to temp file in same directory then rename.
	tmp, err := os.CreateTemp(dir, ".healthcal-config-*.tmp")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	// Ensure we clean up temp file on error.
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}

	// Flush and close before chmod/rename.
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}

	if err := os.Chmod(tmpName, 0o600); err != nil {
		return err
	}

	if err := os.Rename(tmpName, path); err != nil {
		return err
	}

	return nil
}

// Save is a convenience method on Config that delegates to the
// package-level Save function.
func (c *Config) Save(path string) error {
	return Save(path, c)
}
