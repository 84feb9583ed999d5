package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Tiliavir/worktime/internal/config"
	"github.com/Tiliavir/worktime/internal/export"
	"github.com/Tiliavir/worktime/internal/timecalc"
)

func TestLoadFromCreatesDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".ttt", "config.json")

	cfg, err := config.LoadFrom(path)
	require.NoError(t, err)
	assert.Equal(t, config.DefaultTenantID, cfg.Outlook.TenantID)
	assert.Equal(t, "second", cfg.Reporting.TimePrecision)

	// The written template must itself load cleanly.
	_, err = os.Stat(path)
	require.NoError(t, err)
	again, err := config.LoadFrom(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, again)
}

func TestLoadFromPartialFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	content := `// comment line
{
  "reporting": {
    // eight-hour days
    "time_precision": "minute",
    "day_length": "8h",
    "week_starts_on": "sunday",
    "hour_style": "12h",
    "csv_separator": "semicolon"
  }
}
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := config.LoadFrom(path)
	require.NoError(t, err)
	assert.Equal(t, config.DefaultProject, cfg.Outlook.DefaultProject)
	assert.Equal(t, "2006-01-02", cfg.Reporting.DateLayout)

	s, err := cfg.Reporting.Settings()
	require.NoError(t, err)
	assert.Equal(t, timecalc.PrecisionMinute, s.Precision)
	assert.Equal(t, timecalc.Hours8, s.DayLength)
	assert.Equal(t, time.Sunday, s.WeekStartsOn)
	assert.Equal(t, timecalc.Hours12Clock, s.HourStyle)
	assert.Equal(t, export.SeparatorSemicolon, s.Separator)
	assert.Equal(t, "now", s.NowMarker)
}

func TestLoadFromRejectsInvalidPolicy(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"reporting": {"day_length": "10h"}}`), 0o600))

	_, err := config.LoadFrom(path)
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "reporting.day_length"), err.Error())
}

func TestLoadFromCorruptJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{bad json`), 0o600))

	cfg, err := config.LoadFrom(path)
	require.Error(t, err)
	assert.Equal(t, config.DefaultClientID, cfg.Outlook.ClientID, "defaults returned on error")
}

func TestSettingsBuilder(t *testing.T) {
	s := config.Settings{
		HourStyle:  timecalc.Hours12Clock,
		DateLayout: "02.01.2006",
		NowMarker:  "running",
	}
	b := s.Builder()
	assert.Equal(t, timecalc.Hours12Clock, b.HourStyle)
	assert.Equal(t, export.Layout("02.01.2006"), b.Dates)
	assert.Equal(t, "running", b.NowMarker)
}
