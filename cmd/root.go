package cmd

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/worktime/internal/config"
	"github.com/Tiliavir/worktime/internal/storage"
	"github.com/Tiliavir/worktime/internal/timecalc"
)

var (
	logLevel string
	logger   = slog.New(slog.DiscardHandler)
	// clock is replaced in tests.
	clock = timecalc.SystemClock
)

var rootCmd = &cobra.Command{
	Use:   "ttt",
	Short: "Trivial Time Tracker – a minimal CLI time tracker",
	Long: `ttt is a single-binary, file-based command-line time tracker.
All data is stored as human-readable JSON files in ~/.ttt/.
Durations, reports and exports follow the "reporting" section of
~/.ttt/config.json.`,
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: parseLogLevel(logLevel),
		}))
	},
}

// Execute is the entry point called from main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitCode(err))
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "Diagnostic log level: debug, info, warn, error")

	rootCmd.AddCommand(startCmd)
	rootCmd.AddCommand(stopCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(outlookCmd)
}

func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "error":
		return slog.LevelError
	default:
		return slog.LevelWarn
	}
}

// exitError carries the process exit code: 1 for usage errors, 2 for
// storage and IO failures.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string { return e.err.Error() }
func (e *exitError) Unwrap() error { return e.err }

func usageError(err error) error { return &exitError{code: 1, err: err} }
func ioError(err error) error    { return &exitError{code: 2, err: err} }

func exitCode(err error) int {
	var ee *exitError
	if errors.As(err, &ee) {
		return ee.code
	}
	return 1
}

// env bundles what most commands need: the data directory, the parsed
// configuration and a duration engine bound to the command clock.
type env struct {
	base     string
	cfg      config.Config
	settings config.Settings
	engine   *timecalc.Engine
}

func loadEnv() (*env, error) {
	base, err := storage.BaseDir()
	if err != nil {
		return nil, ioError(err)
	}
	cfg, err := config.Load()
	if err != nil {
		return nil, usageError(err)
	}
	settings, err := cfg.Reporting.Settings()
	if err != nil {
		return nil, usageError(err)
	}
	logger.Debug("configuration loaded",
		"precision", settings.Precision, "day_length", settings.DayLength,
		"week_starts_on", settings.WeekStartsOn)
	return &env{
		base:     base,
		cfg:      cfg,
		settings: settings,
		engine:   timecalc.NewEngine(clock, logger),
	}, nil
}

func (e *env) now() time.Time {
	return e.engine.Clock.Now()
}
