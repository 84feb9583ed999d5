package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/Tiliavir/worktime/internal/export"
	"github.com/Tiliavir/worktime/internal/timecalc"
)

// Config is the root configuration for ttt, stored in ~/.ttt/config.json.
// The file supports single-line // comments for documentation purposes.
type Config struct {
	Reporting ReportingConfig `json:"reporting"`
	Outlook   OutlookConfig   `json:"outlook"`
}

// ReportingConfig holds the duration and export policies.
type ReportingConfig struct {
	// TimePrecision is "second" or "minute".
	TimePrecision string `json:"time_precision"`
	// DayLength is the number of hours in a reported day: "24h" or "8h".
	DayLength string `json:"day_length"`
	// WeekStartsOn is an English weekday name.
	WeekStartsOn string `json:"week_starts_on"`
	// HourStyle is "24h" or "12h".
	HourStyle string `json:"hour_style"`
	// DateLayout is a Go time layout used for dates in exports and reports.
	DateLayout string `json:"date_layout"`
	// NowMarker replaces the end date of running registrations in exports.
	NowMarker string `json:"now_marker"`
	// CSVSeparator is comma, semicolon, tab or pipe.
	CSVSeparator string `json:"csv_separator"`
	// ExportDir is where export files are written. Empty = ~/.ttt/exports.
	ExportDir string `json:"export_dir"`
}

// OutlookConfig holds Microsoft Graph / Outlook calendar sync settings.
type OutlookConfig struct {
	// TenantID is the Azure AD tenant. Use "common" for personal/multi-tenant accounts.
	TenantID string `json:"tenant_id"`
	// ClientID is the Azure app (client) ID for the OAuth2 device code flow.
	ClientID string `json:"client_id"`
	// DefaultProject is the project name assigned to imported Outlook events.
	DefaultProject string `json:"default_project"`
	// Timezone is the IANA timezone for event times (e.g. "Europe/Berlin"). Empty = UTC.
	Timezone string `json:"timezone"`
}

const (
	// DefaultTenantID is the Microsoft "common" tenant (supports personal and
	// multi-tenant organisational accounts without additional registration).
	DefaultTenantID = "common"
	// DefaultClientID is the well-known public Azure CLI app ID.
	// It supports device code flow without a client secret and requires no
	// app registration. Replace with your own registered app ID for
	// organisational or production deployments.
	DefaultClientID = "04b07795-8542-4c4a-95af-30b2c573d5ab"
	// DefaultProject is the project name used when none is specified.
	DefaultProject = "Meetings"

	DefaultTimePrecision = "second"
	DefaultDayLength     = "24h"
	DefaultWeekStartsOn  = "monday"
	DefaultHourStyle     = "24h"
	DefaultDateLayout    = "2006-01-02"
	DefaultCSVSeparator  = "comma"
)

// Settings are the typed reporting policies.
type Settings struct {
	Precision    timecalc.Precision
	DayLength    timecalc.DayLength
	WeekStartsOn time.Weekday
	HourStyle    timecalc.HourStyle
	DateLayout   string
	NowMarker    string
	Separator    export.Separator
	ExportDir    string
}

// Settings validates the reporting section and converts it to typed
// policies.
func (r ReportingConfig) Settings() (Settings, error) {
	var (
		s   Settings
		err error
	)
	if s.Precision, err = timecalc.ParsePrecision(r.TimePrecision); err != nil {
		return Settings{}, fmt.Errorf("reporting.time_precision: %w", err)
	}
	if s.DayLength, err = timecalc.ParseDayLength(r.DayLength); err != nil {
		return Settings{}, fmt.Errorf("reporting.day_length: %w", err)
	}
	if s.WeekStartsOn, err = timecalc.ParseWeekday(r.WeekStartsOn); err != nil {
		return Settings{}, fmt.Errorf("reporting.week_starts_on: %w", err)
	}
	if s.HourStyle, err = timecalc.ParseHourStyle(r.HourStyle); err != nil {
		return Settings{}, fmt.Errorf("reporting.hour_style: %w", err)
	}
	if s.Separator, err = export.ParseSeparator(r.CSVSeparator); err != nil {
		return Settings{}, fmt.Errorf("reporting.csv_separator: %w", err)
	}
	s.DateLayout = r.DateLayout
	s.NowMarker = r.NowMarker
	s.ExportDir = r.ExportDir
	return s, nil
}

// Builder returns an export.Builder configured from s.
func (s Settings) Builder() *export.Builder {
	b := export.NewBuilder()
	b.HourStyle = s.HourStyle
	if s.DateLayout != "" {
		b.Dates = export.Layout(s.DateLayout)
	}
	if s.NowMarker != "" {
		b.NowMarker = s.NowMarker
	}
	return b
}

// defaultConfig returns a Config pre-filled with sensible defaults.
func defaultConfig() Config {
	return Config{
		Reporting: ReportingConfig{
			TimePrecision: DefaultTimePrecision,
			DayLength:     DefaultDayLength,
			WeekStartsOn:  DefaultWeekStartsOn,
			HourStyle:     DefaultHourStyle,
			DateLayout:    DefaultDateLayout,
			NowMarker:     export.DefaultNowMarker,
			CSVSeparator:  DefaultCSVSeparator,
		},
		Outlook: OutlookConfig{
			TenantID:       DefaultTenantID,
			ClientID:       DefaultClientID,
			DefaultProject: DefaultProject,
			Timezone:       "",
		},
	}
}

// configTemplate is the annotated config written on first run.
// Lines whose trimmed content starts with // are stripped before JSON parsing,
// allowing human-readable documentation inside the file.
const configTemplate = `// ttt configuration – ~/.ttt/config.json
//
// All settings are optional; the built-in defaults shown below work out of
// the box. Edit this file to customise ttt behaviour.
{
  // ── Durations, reports and exports ───────────────────────────────────────
  "reporting": {
    // Precision applied before any duration is computed: "second" or "minute".
    // With "minute" the seconds of start and end times are dropped.
    "time_precision": "second",

    // Hours per day when long totals are split into days: "24h" or "8h".
    "day_length": "24h",

    // First day of the week for --week and --week-offset.
    "week_starts_on": "monday",

    // Clock style in exports and listings: "24h" or "12h" (AM/PM).
    "hour_style": "24h",

    // Go time layout for dates in exports and date-grouped reports.
    "date_layout": "2006-01-02",

    // Written as end date of registrations that are still running.
    "now_marker": "now",

    // CSV field separator: "comma", "semicolon", "tab" or "pipe".
    "csv_separator": "comma",

    // Directory for export files. Leave empty for ~/.ttt/exports.
    "export_dir": ""
  },

  // ── Microsoft Graph / Outlook calendar sync ──────────────────────────────
  "outlook": {
    // Azure AD tenant ID.
    // • "common"  – personal Microsoft accounts and any organisation (default)
    // • Your organisation's tenant GUID, e.g. "xxxxxxxx-xxxx-xxxx-xxxx-xxxxxxxxxxxx"
    "tenant_id": "common",

    // Azure application (client) ID used for the OAuth2 device code flow.
    // The built-in value is the public Azure CLI app – no app registration needed.
    // Replace with your own Azure app registration for single-tenant deployments.
    "client_id": "04b07795-8542-4c4a-95af-30b2c573d5ab",

    // Default project name assigned to imported Outlook calendar events.
    // Can be overridden per-sync with: ttt outlook sync --project <name>
    "default_project": "Meetings",

    // IANA timezone for interpreting calendar event times, e.g. "Europe/Berlin".
    // Leave empty to use UTC. Can be overridden with: ttt outlook sync --timezone <tz>
    "timezone": ""
  }
}
`

// FilePath returns the path to ~/.ttt/config.json.
func FilePath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(home, ".ttt", "config.json"), nil
}

// stripLineComments removes lines whose leading non-whitespace content starts
// with //. Only full-line comments are handled; inline comments are not stripped.
func stripLineComments(data []byte) []byte {
	var out []byte
	for _, line := range bytes.Split(data, []byte("\n")) {
		if bytes.HasPrefix(bytes.TrimLeft(line, " \t"), []byte("//")) {
			continue
		}
		out = append(out, line...)
		out = append(out, '\n')
	}
	return out
}

// Load reads ~/.ttt/config.json, creating it with annotated defaults on first
// run.
func Load() (Config, error) {
	path, err := FilePath()
	if err != nil {
		return defaultConfig(), err
	}
	return LoadFrom(path)
}

// LoadFrom reads the config file at path, creating it with annotated
// defaults when it does not exist. Lines starting with // are treated as
// comments and stripped before JSON parsing.
func LoadFrom(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		// First run: write the annotated template so users can discover options.
		if writeErr := writeDefault(path); writeErr != nil {
			fmt.Fprintf(os.Stderr, "Warning: could not create config file %s: %v\n", path, writeErr)
		}
		return defaultConfig(), nil
	}
	if err != nil {
		return defaultConfig(), fmt.Errorf("reading config file %s: %w", path, err)
	}

	cleaned := stripLineComments(data)
	var cfg Config
	if err := json.Unmarshal(cleaned, &cfg); err != nil {
		return defaultConfig(), fmt.Errorf("parsing config file %s: %w\nTip: delete the file to regenerate defaults", path, err)
	}

	applyDefaults(&cfg)

	if _, err := cfg.Reporting.Settings(); err != nil {
		return defaultConfig(), fmt.Errorf("invalid config file %s: %w", path, err)
	}
	return cfg, nil
}

// applyDefaults fills zero-value fields with built-in defaults so callers
// always get a usable Config even if the user only partially fills in the file.
func applyDefaults(cfg *Config) {
	def := defaultConfig()
	fill := func(dst *string, v string) {
		if *dst == "" {
			*dst = v
		}
	}
	fill(&cfg.Reporting.TimePrecision, def.Reporting.TimePrecision)
	fill(&cfg.Reporting.DayLength, def.Reporting.DayLength)
	fill(&cfg.Reporting.WeekStartsOn, def.Reporting.WeekStartsOn)
	fill(&cfg.Reporting.HourStyle, def.Reporting.HourStyle)
	fill(&cfg.Reporting.DateLayout, def.Reporting.DateLayout)
	fill(&cfg.Reporting.NowMarker, def.Reporting.NowMarker)
	fill(&cfg.Reporting.CSVSeparator, def.Reporting.CSVSeparator)
	fill(&cfg.Outlook.TenantID, def.Outlook.TenantID)
	fill(&cfg.Outlook.ClientID, def.Outlook.ClientID)
	fill(&cfg.Outlook.DefaultProject, def.Outlook.DefaultProject)
}

// writeDefault creates the config directory and writes the annotated default
// config template.
func writeDefault(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(configTemplate), 0o600); err != nil {
		return fmt.Errorf("writing default config: %w", err)
	}
	return nil
}
