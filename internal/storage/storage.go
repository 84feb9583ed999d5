package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/Tiliavir/worktime/internal/model"
)

// ErrNoActiveRegistration is returned when no running registration exists.
var ErrNoActiveRegistration = errors.New("no active registration")

// activeLookbackDays is how far back FindActiveRegistration searches.
const activeLookbackDays = 7

// BaseDir returns the root data directory (~/.ttt).
func BaseDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(home, ".ttt"), nil
}

// dayFilePath returns the path for the given date's JSON file.
func dayFilePath(base string, t time.Time) string {
	return filepath.Join(base, t.Format("2006"), t.Format("01"), t.Format("02")+".json")
}

// LoadDay loads the DayFile for the given date. Returns an empty DayFile if not found.
func LoadDay(base string, t time.Time) (model.DayFile, error) {
	path := dayFilePath(base, t)
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return model.DayFile{Date: t.Format("2006-01-02"), Registrations: []model.Registration{}}, nil
	}
	if err != nil {
		return model.DayFile{}, fmt.Errorf("storage error reading %s: %w", path, err)
	}

	var df model.DayFile
	if err := json.Unmarshal(data, &df); err != nil {
		// Back up corrupt file and abort.
		backupPath := path + ".corrupt"
		_ = os.Rename(path, backupPath)
		return model.DayFile{}, fmt.Errorf("corrupt JSON in %s (backed up to %s): %w", path, backupPath, err)
	}
	return df, nil
}

// SaveDay atomically writes a DayFile for the given date.
func SaveDay(base string, t time.Time, df model.DayFile) error {
	path := dayFilePath(base, t)
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("storage error creating directories: %w", err)
	}

	data, err := json.MarshalIndent(df, "", "  ")
	if err != nil {
		return fmt.Errorf("storage error marshalling JSON: %w", err)
	}

	// Atomic write: write to temp file then rename.
	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0o600); err != nil {
		return fmt.Errorf("storage error writing temp file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("storage error renaming temp file: %w", err)
	}
	return nil
}

// FindActiveRegistration searches the day files of the last week (most
// recent first) for a registration without end time. It returns the
// registration and the day file it lives in, or ErrNoActiveRegistration.
func FindActiveRegistration(base string, now time.Time) (*model.Registration, time.Time, error) {
	// Look back a few days to recover a timer left running across midnight.
	for i := 0; i < activeLookbackDays; i++ {
		day := now.AddDate(0, 0, -i)
		df, err := LoadDay(base, day)
		if err != nil {
			return nil, time.Time{}, err
		}
		for j := len(df.Registrations) - 1; j >= 0; j-- {
			if df.Registrations[j].Ongoing() {
				return &df.Registrations[j], day, nil
			}
		}
	}
	return nil, time.Time{}, ErrNoActiveRegistration
}

// UpdateRegistration replaces or appends a registration in the DayFile for the given date.
func UpdateRegistration(base string, day time.Time, reg model.Registration) error {
	df, err := LoadDay(base, day)
	if err != nil {
		return err
	}
	for i, r := range df.Registrations {
		if r.ID == reg.ID {
			df.Registrations[i] = reg
			return SaveDay(base, day, df)
		}
	}
	df.Registrations = append(df.Registrations, reg)
	return SaveDay(base, day, df)
}

// LoadRange loads all registrations of the days in [from, to] inclusive,
// ordered by start time.
func LoadRange(base string, from, to time.Time) ([]model.Registration, error) {
	var regs []model.Registration
	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		df, err := LoadDay(base, d)
		if err != nil {
			return nil, err
		}
		regs = append(regs, df.Registrations...)
	}
	sort.SliceStable(regs, func(i, j int) bool {
		return regs[i].Start.Before(regs[j].Start)
	})
	return regs, nil
}
