package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/Josh-Grafman/boatrental/internal/config"
	"github.com/Josh-Grafman/boatrental/internal/logging"
)

var logsCmd = &cobra.Command{
	Use:   "logs",
	Short: "View the debug log",
	Long: `View and filter boatrental's debug log.

Examples:
  # Last 50 entries
  boatrental logs

  # Everything about one boat
  boatrental logs --boat b-sea-breeze -n 0

  # Warnings and errors from the last hour
  boatrental logs --level warn --since 1h

  # Bus activity only
  boatrental logs --component bus`,
	Args: cobra.NoArgs,
	RunE: runLogs,
}

var (
	logsTail      int
	logsLevel     string
	logsSince     string
	logsComponent string
	logsBoat      string
	logsGrep      string
	logsDir       string
)

func init() {
	rootCmd.AddCommand(logsCmd)

	logsCmd.Flags().IntVarP(&logsTail, "tail", "n", 50, "Number of entries to show (0 for all)")
	logsCmd.Flags().StringVar(&logsLevel, "level", "", "Filter by minimum level (debug/info/warn/error)")
	logsCmd.Flags().StringVar(&logsSince, "since", "", "Show entries since duration ago (e.g., 1h, 30m)")
	logsCmd.Flags().StringVar(&logsComponent, "component", "", "Only entries from this component (e.g., bus, store, list)")
	logsCmd.Flags().StringVar(&logsBoat, "boat", "", "Only entries about this boat id")
	logsCmd.Flags().StringVar(&logsGrep, "grep", "", "Only entries whose message contains this text")
	logsCmd.Flags().StringVar(&logsDir, "dir", "", "Log directory (default: the config directory's logs/)")
}

func runLogs(cmd *cobra.Command, args []string) error {
	dir := logsDir
	if dir == "" {
		dir = config.LogDir()
	}

	filter := logging.Filter{
		Component: logsComponent,
		BoatID:    logsBoat,
		Contains:  logsGrep,
	}
	if logsLevel != "" {
		filter.Level = logging.ParseLevel(logsLevel)
	}
	if logsSince != "" {
		d, err := time.ParseDuration(logsSince)
		if err != nil {
			return fmt.Errorf("invalid --since duration %q: %w", logsSince, err)
		}
		filter.Since = time.Now().Add(-d)
	}

	entries, err := logging.ReadLogs(dir)
	if err != nil {
		return err
	}
	entries = logging.FilterLogs(entries, filter)
	if logsTail > 0 && len(entries) > logsTail {
		entries = entries[len(entries)-logsTail:]
	}

	if len(entries) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No matching log entries.")
		return nil
	}
	return logging.WriteText(cmd.OutOrStdout(), entries)
}
