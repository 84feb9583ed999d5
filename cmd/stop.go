package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/worktime/internal/storage"
)

var stopComment string

var stopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Stop the currently running timer",
	Args:  cobra.NoArgs,
	RunE:  runStop,
}

func init() {
	stopCmd.Flags().StringVar(&stopComment, "comment", "", "Append a comment to the registration")
}

func runStop(cmd *cobra.Command, args []string) error {
	e, err := loadEnv()
	if err != nil {
		return err
	}
	now := e.now()

	active, activeDay, err := storage.FindActiveRegistration(e.base, now)
	if errors.Is(err, storage.ErrNoActiveRegistration) {
		return usageError(errors.New("no active timer to stop"))
	}
	if err != nil {
		return ioError(err)
	}

	if _, err := stopRegistration(e.base, *active, activeDay, now, stopComment); err != nil {
		return ioError(err)
	}
	logger.Info("registration stopped", "id", active.ID)

	// Report the whole span, not just the last segment of a split.
	whole := *active
	whole.End = &now
	fmt.Fprintf(cmd.OutOrStdout(), "Stopped timer for project %q. Elapsed: %s\n",
		active.Task.Project.Name, e.engine.FormatSingle(whole, e.settings.Precision))
	return nil
}
