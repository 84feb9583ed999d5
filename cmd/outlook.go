package cmd

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/worktime/internal/msgraph"
	"github.com/Tiliavir/worktime/internal/timecalc"
)

var (
	outlookSyncFrom    string
	outlookSyncTo      string
	outlookSyncDate    string
	outlookSyncToday   bool
	outlookSyncDryRun  bool
	outlookSyncProject string
	outlookSyncTZ      string
)

var outlookCmd = &cobra.Command{
	Use:   "outlook",
	Short: "Outlook calendar integration",
}

var outlookSyncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Sync Outlook calendar events into ttt registrations",
	Args:  cobra.NoArgs,
	RunE:  runOutlookSync,
}

func init() {
	outlookSyncCmd.Flags().StringVar(&outlookSyncFrom, "from", "", "Start date (YYYY-MM-DD); required when --to is specified")
	outlookSyncCmd.Flags().StringVar(&outlookSyncTo, "to", "", "End date (YYYY-MM-DD); defaults to today")
	outlookSyncCmd.Flags().StringVar(&outlookSyncDate, "date", "", "Sync a specific date (YYYY-MM-DD)")
	outlookSyncCmd.Flags().BoolVar(&outlookSyncToday, "today", false, "Sync only today (default)")
	outlookSyncCmd.Flags().BoolVar(&outlookSyncDryRun, "dry-run", false, "Print planned operations without writing")
	outlookSyncCmd.Flags().StringVar(&outlookSyncProject, "project", "", "Project for imported events (default from config)")
	outlookSyncCmd.Flags().StringVar(&outlookSyncTZ, "timezone", "", "IANA timezone for event times, e.g. Europe/Berlin (default from config)")
	outlookCmd.AddCommand(outlookSyncCmd)
}

func runOutlookSync(cmd *cobra.Command, args []string) error {
	e, err := loadEnv()
	if err != nil {
		return err
	}
	from, to, err := syncRange(e.now())
	if err != nil {
		return usageError(err)
	}

	project := e.cfg.Outlook.DefaultProject
	if outlookSyncProject != "" {
		project = outlookSyncProject
	}
	timezone := e.cfg.Outlook.Timezone
	if outlookSyncTZ != "" {
		timezone = outlookSyncTZ
	}

	out := cmd.OutOrStdout()
	dryTag := ""
	if outlookSyncDryRun {
		dryTag = " [dry-run]"
	}
	fmt.Fprintf(out, "Syncing Outlook events (%s → %s)%s...\n\n",
		from.Format("2006-01-02"), to.Format("2006-01-02"), dryTag)

	ctx := cmd.Context()
	tok, oauthCfg, err := msgraph.Authenticate(ctx, e.cfg.Outlook.TenantID, e.cfg.Outlook.ClientID, out, logger)
	if err != nil {
		return usageError(fmt.Errorf("authentication failed: %w", err))
	}

	client := msgraph.NewClient(ctx, tok, oauthCfg, logger)
	events, err := client.GetCalendarView(ctx, from, to, timezone)
	if err != nil {
		return usageError(fmt.Errorf("failed to fetch calendar events: %w", err))
	}
	logger.Debug("calendar events fetched", "count", len(events))

	result, err := msgraph.SyncEvents(events, msgraph.SyncOptions{
		Base:    e.base,
		From:    from,
		To:      to,
		DryRun:  outlookSyncDryRun,
		Project: project,
		Out:     out,
		Logger:  logger,
	}, timezone)
	if err != nil {
		return usageError(fmt.Errorf("sync error: %w", err))
	}

	fmt.Fprintln(out)
	fmt.Fprintln(out, "Summary:")
	fmt.Fprintf(out, "  %d imported\n", result.Imported)
	fmt.Fprintf(out, "  %d skipped\n", result.Skipped)
	fmt.Fprintf(out, "  %d updated\n", result.Updated)
	if result.Errors > 0 {
		fmt.Fprintf(out, "  %d errors\n", result.Errors)
		return ioError(fmt.Errorf("%d events could not be synced", result.Errors))
	}
	return nil
}

// syncRange resolves --date, --from/--to and --today into a day range.
// The default is today.
func syncRange(now time.Time) (time.Time, time.Time, error) {
	switch {
	case outlookSyncDate != "":
		d, err := time.ParseInLocation("2006-01-02", outlookSyncDate, now.Location())
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid --date value %q: %w", outlookSyncDate, err)
		}
		return timecalc.StartOfDay(d), timecalc.EndOfDay(d), nil

	case outlookSyncFrom != "" || outlookSyncTo != "":
		if outlookSyncFrom == "" {
			return time.Time{}, time.Time{}, errors.New("--from is required when --to is specified")
		}
		from, err := time.ParseInLocation("2006-01-02", outlookSyncFrom, now.Location())
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("invalid --from value %q: %w", outlookSyncFrom, err)
		}
		to := now
		if outlookSyncTo != "" {
			if to, err = time.ParseInLocation("2006-01-02", outlookSyncTo, now.Location()); err != nil {
				return time.Time{}, time.Time{}, fmt.Errorf("invalid --to value %q: %w", outlookSyncTo, err)
			}
		}
		return timecalc.StartOfDay(from), timecalc.EndOfDay(to), nil
	}
	return timecalc.StartOfDay(now), timecalc.EndOfDay(now), nil
}
