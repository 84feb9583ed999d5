package msgraph

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/Tiliavir/worktime/internal/model"
	"github.com/Tiliavir/worktime/internal/storage"
	"github.com/Tiliavir/worktime/internal/timecalc"
)

// Source marks registrations imported from Outlook.
const Source = "outlook"

// SyncResult holds counters for a sync operation.
type SyncResult struct {
	Imported int
	Skipped  int
	Updated  int
	Errors   int
}

// SyncOptions configures a sync run.
type SyncOptions struct {
	Base    string
	From    time.Time
	To      time.Time
	DryRun  bool
	Project string
	// Out receives one progress line per event. Nil discards progress.
	Out    io.Writer
	Logger *slog.Logger
}

// parseGraphTime parses a Graph API dateTime string in the given timezone.
// Graph returns times like "2026-02-27T09:00:00.0000000" without a zone suffix
// when a Prefer: outlook.timezone header is set.
func parseGraphTime(dt, tz string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339Nano, dt); err == nil {
		return t, nil
	}

	loc := time.UTC
	if tz != "" {
		if l, err := time.LoadLocation(tz); err == nil {
			loc = l
		}
	}

	for _, layout := range []string{
		"2006-01-02T15:04:05.0000000",
		"2006-01-02T15:04:05",
	} {
		if t, err := time.ParseInLocation(layout, dt, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("cannot parse graph time %q", dt)
}

// buildComment combines bodyPreview and location into a comment string.
func buildComment(event CalendarEvent) *string {
	var parts []string
	if event.BodyPreview != "" {
		parts = append(parts, event.BodyPreview)
	}
	if event.Location.DisplayName != "" {
		parts = append(parts, event.Location.DisplayName)
	}
	if len(parts) == 0 {
		return nil
	}
	s := strings.Join(parts, "\n")
	return &s
}

// skipReason returns why an event is not imported, or "" to import it.
func skipReason(event CalendarEvent) string {
	switch {
	case event.IsCancelled:
		return "cancelled"
	case event.IsAllDay:
		return "all-day"
	case event.Sensitivity == "private":
		return "private"
	case event.ShowAs == "free":
		return "free"
	case event.Start.DateTime == "" || event.End.DateTime == "":
		return "no times"
	}
	return ""
}

// MapEventToRegistration converts a Graph CalendarEvent into a finished
// registration on task <subject> of the given project.
func MapEventToRegistration(event CalendarEvent, timezone, project string) (model.Registration, error) {
	start, err := parseGraphTime(event.Start.DateTime, timezone)
	if err != nil {
		return model.Registration{}, fmt.Errorf("parsing start time: %w", err)
	}
	end, err := parseGraphTime(event.End.DateTime, timezone)
	if err != nil {
		return model.Registration{}, fmt.Errorf("parsing end time: %w", err)
	}

	return model.Registration{
		ID:         timecalc.GenerateID(start),
		ExternalID: event.ID,
		Task: model.Task{
			Name:    event.Subject,
			Project: model.Project{Name: project},
		},
		Comment: buildComment(event),
		Tags:    []string{Source},
		Start:   start,
		End:     &end,
		Source:  Source,
	}, nil
}

func findByExternalID(regs []model.Registration, externalID string) *model.Registration {
	for i := range regs {
		if regs[i].ExternalID == externalID {
			return &regs[i]
		}
	}
	return nil
}

func unchanged(a, b model.Registration) bool {
	return a.Task.Name == b.Task.Name &&
		a.Start.Equal(b.Start) &&
		a.End != nil && b.End != nil && a.End.Equal(*b.End)
}

// SyncEvents processes a slice of Graph events and persists them to storage.
// Events already imported (matched by external ID) are updated in place or
// skipped when unchanged.
func SyncEvents(events []CalendarEvent, opts SyncOptions, timezone string) (SyncResult, error) {
	out := opts.Out
	if out == nil {
		out = io.Discard
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	var result SyncResult
	for _, event := range events {
		if reason := skipReason(event); reason != "" {
			logger.Debug("skipping event", "subject", event.Subject, "reason", reason)
			continue
		}

		reg, err := MapEventToRegistration(event, timezone, opts.Project)
		if err != nil {
			logger.Error("mapping event", "subject", event.Subject, "error", err)
			fmt.Fprintf(out, "  ! Error mapping event %q: %v\n", event.Subject, err)
			result.Errors++
			continue
		}

		existing, err := storage.LoadDay(opts.Base, reg.Start)
		if err != nil {
			logger.Error("loading day", "subject", event.Subject, "error", err)
			fmt.Fprintf(out, "  ! Error loading day for %q: %v\n", event.Subject, err)
			result.Errors++
			continue
		}

		verb := "Imported"
		if found := findByExternalID(existing.Registrations, event.ID); found != nil {
			if unchanged(*found, reg) {
				fmt.Fprintf(out, "  – Skipped:  %s (already exists)\n", event.Subject)
				result.Skipped++
				continue
			}
			// Keep the stored ID so the registration is replaced, not duplicated.
			reg.ID = found.ID
			verb = "Updated"
		}

		if !opts.DryRun {
			if err := storage.UpdateRegistration(opts.Base, reg.Start, reg); err != nil {
				logger.Error("saving registration", "subject", event.Subject, "error", err)
				fmt.Fprintf(out, "  ! Error saving %q: %v\n", event.Subject, err)
				result.Errors++
				continue
			}
		}

		dur := timecalc.FormatDurationHHMMSS(reg.End.Sub(reg.Start))
		if verb == "Updated" {
			fmt.Fprintf(out, "  ↑ Updated:  %s (%s)\n", event.Subject, dur)
			result.Updated++
		} else {
			fmt.Fprintf(out, "  ✓ Imported: %s (%s)\n", event.Subject, dur)
			result.Imported++
		}
	}

	logger.Info("outlook sync finished",
		"imported", result.Imported, "updated", result.Updated,
		"skipped", result.Skipped, "errors", result.Errors, "dry_run", opts.DryRun)
	return result, nil
}
