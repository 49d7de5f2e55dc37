package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gofrets/gofrets/tuning"
)

func init() {
	rootCmd.AddCommand(tuningsCmd)
}

var tuningsCmd = &cobra.Command{
	Use:   "tunings [name]",
	Short: "List the tuning presets, or show one by name",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 1 {
			t, err := tuning.ByName(args[0])
			if err != nil {
				return err
			}
			fmt.Printf("%s: %s\n", t.Name, t.Describe())
			return nil
		}
		for _, t := range tuning.Catalogue() {
			fmt.Printf("%-22s %s\n", t.Name, t.Describe())
		}
		return nil
	},
}
