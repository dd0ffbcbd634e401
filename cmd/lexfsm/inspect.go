package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/aretw0/lexfsm/internal/presentation/tui"
	"github.com/aretw0/lexfsm/internal/validator"
	"github.com/spf13/cobra"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect <file>",
	Short: "Show the states, symbols and rows of a description",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		m, err := loadMachine(cmd, args[0])
		if err != nil {
			return err
		}

		var warnings []string
		var lint *validator.Error
		if err := m.Lint(); errors.As(err, &lint) {
			for _, f := range lint.Findings {
				warnings = append(warnings, f.Message)
			}
		}

		md := tui.DefinitionMarkdown(m.Definition(), warnings)
		raw, _ := cmd.Flags().GetBool("raw")
		if raw {
			fmt.Fprint(cmd.OutOrStdout(), md)
			return nil
		}

		rendered, err := tui.NewRenderer(os.Stdout)(md)
		if err != nil {
			return fmt.Errorf("failed to render: %w", err)
		}
		fmt.Fprint(cmd.OutOrStdout(), rendered)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(inspectCmd)
	inspectCmd.Flags().Bool("raw", false, "Print markdown without rendering it")
}
