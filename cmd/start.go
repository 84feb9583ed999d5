package cmd

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/worktime/internal/model"
	"github.com/Tiliavir/worktime/internal/storage"
	"github.com/Tiliavir/worktime/internal/timecalc"
)

var (
	startTask           string
	startComment        string
	startProjectComment string
	startTags           string
)

var startCmd = &cobra.Command{
	Use:   "start <project>",
	Short: "Start a new time registration",
	Args:  cobra.ExactArgs(1),
	RunE:  runStart,
}

func init() {
	startCmd.Flags().StringVar(&startTask, "task", "", "Task the time is booked on")
	startCmd.Flags().StringVar(&startComment, "comment", "", "Optional comment")
	startCmd.Flags().StringVar(&startProjectComment, "project-comment", "", "Optional project comment shown in raw exports")
	startCmd.Flags().StringVar(&startTags, "tags", "", "Comma-separated tags")
}

func runStart(cmd *cobra.Command, args []string) error {
	e, err := loadEnv()
	if err != nil {
		return err
	}
	now := e.now()
	out := cmd.OutOrStdout()

	// Check for an existing active timer and auto-stop it.
	active, activeDay, err := storage.FindActiveRegistration(e.base, now)
	switch {
	case errors.Is(err, storage.ErrNoActiveRegistration):
	case err != nil:
		return ioError(err)
	default:
		fmt.Fprintf(cmd.ErrOrStderr(), "Warning: auto-stopping active timer for project %q\n", active.Task.Project.Name)
		if _, err := stopRegistration(e.base, *active, activeDay, now, ""); err != nil {
			return ioError(err)
		}
	}

	reg := newRegistration(args[0], now)
	if err := storage.UpdateRegistration(e.base, now, reg); err != nil {
		return ioError(err)
	}
	logger.Info("registration started", "id", reg.ID, "project", reg.Task.Project.Name, "task", reg.Task.Name)

	fmt.Fprintf(out, "Started timer for project %q at %s\n", args[0],
		timecalc.FormatClockTime(now, timecalc.ResolutionMedium, e.settings.HourStyle, timecalc.PrecisionSecond))
	return nil
}

func newRegistration(project string, now time.Time) model.Registration {
	reg := model.Registration{
		ID: timecalc.GenerateID(now),
		Task: model.Task{
			Name:    startTask,
			Project: model.Project{Name: project},
		},
		Tags:   []string{},
		Start:  now,
		Source: "manual",
	}
	if startComment != "" {
		c := startComment
		reg.Comment = &c
	}
	if startProjectComment != "" {
		c := startProjectComment
		reg.Task.Project.Comment = &c
	}
	if startTags != "" {
		parts := strings.Split(startTags, ",")
		for i, p := range parts {
			parts[i] = strings.TrimSpace(p)
		}
		reg.Tags = parts
	}
	return reg
}

// stopRegistration closes reg at stopTime and persists it, split into one
// registration per calendar day when it crosses midnight. It returns the
// stored segments.
func stopRegistration(base string, reg model.Registration, regDay, stopTime time.Time, comment string) ([]model.Registration, error) {
	if comment != "" {
		if reg.Comment != nil && *reg.Comment != "" {
			merged := *reg.Comment + "\n" + comment
			reg.Comment = &merged
		} else {
			reg.Comment = &comment
		}
	}

	segments := splitAtMidnight(reg, stopTime)
	for i, seg := range segments {
		day := seg.Start
		if i == 0 {
			day = regDay
		}
		if err := storage.UpdateRegistration(base, day, seg); err != nil {
			return nil, err
		}
	}
	if len(segments) > 1 {
		logger.Info("registration split at midnight", "id", reg.ID, "segments", len(segments))
	}
	return segments, nil
}

// splitAtMidnight ends reg at stop. A registration spanning several days
// becomes one segment per day: the first keeps its ID and ends at 23:59:59,
// the following ones start at 00:00:00.
func splitAtMidnight(reg model.Registration, stop time.Time) []model.Registration {
	var segments []model.Registration
	cur := reg
	for !timecalc.SameDay(cur.Start, stop) && cur.Start.Before(stop) {
		end := timecalc.EndOfDay(cur.Start)
		cur.End = &end
		segments = append(segments, cur)

		next := reg
		next.Start = timecalc.StartOfDay(cur.Start.AddDate(0, 0, 1))
		next.ID = timecalc.GenerateID(next.Start)
		cur = next
	}
	end := stop
	cur.End = &end
	return append(segments, cur)
}
