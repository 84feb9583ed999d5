package cmd

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/worktime/internal/model"
	"github.com/Tiliavir/worktime/internal/storage"
	"github.com/Tiliavir/worktime/internal/timecalc"
)

var (
	listToday      bool
	listWeek       bool
	listWeekOffset int
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List time registrations",
	Args:  cobra.NoArgs,
	RunE:  runList,
}

func init() {
	listCmd.Flags().BoolVar(&listToday, "today", false, "Show today's registrations")
	listCmd.Flags().BoolVar(&listWeek, "week", false, "Show this week's registrations")
	listCmd.Flags().IntVar(&listWeekOffset, "week-offset", 0, "Weeks relative to the current one (-1 = last week); implies --week")
}

func runList(cmd *cobra.Command, args []string) error {
	e, err := loadEnv()
	if err != nil {
		return err
	}
	now := e.now()

	var from, to time.Time
	switch {
	case listWeek || cmd.Flags().Changed("week-offset"):
		from, to = e.weekRange(listWeekOffset)
	default:
		// Default to today (covers --today and the bare command).
		from = timecalc.StartOfDay(now)
		to = timecalc.EndOfDay(now)
	}

	regs, err := storage.LoadRange(e.base, from, to)
	if err != nil {
		return ioError(err)
	}

	printList(cmd.OutOrStdout(), e, regs)
	return nil
}

// weekRange returns the first instant and the last second of the configured
// week offset weeks away from the current one.
func (e *env) weekRange(offset int) (time.Time, time.Time) {
	first, last := e.engine.WeekBoundaries(offset, e.settings.WeekStartsOn)
	return first, timecalc.EndOfDay(last)
}

// printList groups registrations by date and prints them.
func printList(w io.Writer, e *env, regs []model.Registration) {
	if len(regs) == 0 {
		fmt.Fprintln(w, "No registrations found.")
		return
	}

	clockTime := func(t time.Time) string {
		return timecalc.FormatClockTime(t, timecalc.ResolutionShort, e.settings.HourStyle, e.settings.Precision)
	}

	var currentDay string
	for _, r := range regs {
		day := r.Start.Format(e.settings.DateLayout)
		if day != currentDay {
			fmt.Fprintln(w, day)
			currentDay = day
		}

		endStr := "ongoing"
		if !r.Ongoing() {
			endStr = clockTime(*r.End)
		}
		task := ""
		if r.Task.Name != "" {
			task = "  " + r.Task.Name
		}
		dur := e.engine.FormatAggregate([]model.Registration{r}, e.settings.Precision, e.settings.DayLength)

		fmt.Fprintf(w, "%s–%s  %s%s (%s)\n", clockTime(r.Start), endStr, r.Task.Project.Name, task, dur)
	}
}
