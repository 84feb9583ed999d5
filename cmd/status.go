package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/worktime/internal/storage"
	"github.com/Tiliavir/worktime/internal/timecalc"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show current timer status",
	Args:  cobra.NoArgs,
	RunE:  runStatus,
}

func runStatus(cmd *cobra.Command, args []string) error {
	e, err := loadEnv()
	if err != nil {
		return err
	}
	now := e.now()
	out := cmd.OutOrStdout()

	active, _, err := storage.FindActiveRegistration(e.base, now)
	switch {
	case err == nil:
		fmt.Fprintln(out, "Running:")
		fmt.Fprintf(out, "  Project: %s\n", active.Task.Project.Name)
		if active.Task.Name != "" {
			fmt.Fprintf(out, "  Task: %s\n", active.Task.Name)
		}
		fmt.Fprintf(out, "  Since: %s\n",
			timecalc.FormatClockTime(active.Start, timecalc.ResolutionShort, e.settings.HourStyle, e.settings.Precision))
		fmt.Fprintf(out, "  Elapsed: %s\n", e.engine.FormatSingle(*active, e.settings.Precision))
		return nil
	case !errors.Is(err, storage.ErrNoActiveRegistration):
		return ioError(err)
	}

	// Idle: show today's total.
	df, err := storage.LoadDay(e.base, now)
	if err != nil {
		return ioError(err)
	}

	fmt.Fprintln(out, "No active timer.")
	fmt.Fprintf(out, "Today: %s logged.\n",
		e.engine.FormatAggregate(df.Registrations, e.settings.Precision, e.settings.DayLength))
	return nil
}
