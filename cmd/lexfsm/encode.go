package main

import (
	"github.com/spf13/cobra"
)

var encodeCmd = &cobra.Command{
	Use:   "encode <file>",
	Short: "Print a description in the text table format",
	Long:  `Loads a description in any supported format and writes its canonical text form, e.g. to turn YAML into a table dump.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		m, err := loadMachine(cmd, args[0])
		if err != nil {
			return err
		}
		return m.Encode(cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(encodeCmd)
}
