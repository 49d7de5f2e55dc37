package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gofrets/gofrets/convert"
	"github.com/gofrets/gofrets/fretboard"
	"github.com/gofrets/gofrets/mapper"
)

var analyzeMaxFret int

func init() {
	analyzeCmd.Flags().IntVar(&analyzeMaxFret, "max-fret", 24, "highest fret on the virtual neck")
	rootCmd.AddCommand(analyzeCmd)
}

var analyzeCmd = &cobra.Command{
	Use:   "analyze <input>",
	Short: "Report which tunings cover the pitch span of the input",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := &convert.Options{Mapper: mapper.Default()}
		song, err := convert.Read(args[0], opts)
		if err != nil {
			return err
		}
		events := song.AllEvents()
		coverages := fretboard.Analyze(events, analyzeMaxFret)
		fmt.Print(fretboard.Report(events, coverages))
		return nil
	},
}
