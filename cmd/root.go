package cmd

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

// logger is the shared structured logger. Commands rebuild it once the
// --debug flag is known; it is handed down to the mapper per run.
var logger = slog.Default()

var debugFlag bool

var rootCmd = &cobra.Command{
	Use:           "gofrets",
	Short:         "Transcribe between MIDI, ABC, VexTab and ASCII guitar tab",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		initLogger(debugFlag)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&debugFlag, "debug", false, "enable detailed debug logging")
}

func initLogger(debug bool) {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	h := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level:     level,
		AddSource: debug,
	})
	logger = slog.New(h)
	slog.SetDefault(logger)
}

// Execute runs the command tree and returns the failure, if any, for
// the exit-code mapping in main.
func Execute() error {
	return rootCmd.Execute()
}
