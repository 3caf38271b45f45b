package cli

import (
	"log/slog"
	"os"

	charmlog "github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

func addVerboseFlag(val *int, cmd *cobra.Command) {
	cmd.Flags().CountVarP(val, "verbose", "v", "logging verbosity (v = info, vv = debug)")
}

// newLogger returns a logger for the given verbosity count. Warnings and
// errors always surface; info and debug are opt-in.
func newLogger(verbosity int) *slog.Logger {
	var level charmlog.Level
	switch verbosity {
	case 0:
		level = charmlog.WarnLevel
	case 1:
		level = charmlog.InfoLevel
	default:
		level = charmlog.DebugLevel
	}

	return slog.New(charmlog.NewWithOptions(os.Stderr, charmlog.Options{
		ReportTimestamp: true,
		Level:           level,
	}))
}
