package main

import (
	"fmt"
	"strings"

	"github.com/aretw0/lexfsm"
	"github.com/aretw0/lexfsm/internal/presentation/tui"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of lexfsm",
	Run: func(cmd *cobra.Command, args []string) {
		if short, _ := cmd.Flags().GetBool("short"); short {
			fmt.Fprintln(cmd.OutOrStdout(), strings.TrimSpace(lexfsm.Version))
			return
		}
		tui.PrintBanner(cmd.OutOrStdout(), "lexfsm version "+strings.TrimSpace(lexfsm.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
	versionCmd.Flags().Bool("short", false, "Print only the version")
}
