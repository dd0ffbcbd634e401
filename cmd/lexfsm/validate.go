package main

import (
	"errors"
	"fmt"

	"github.com/aretw0/lexfsm/internal/validator"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate <file>...",
	Short: "Check descriptions for errors",
	Long: `Loads every description, reporting parse and table errors. Tables that load
but contain likely mistakes (unreachable states, duplicate names) are listed as
warnings; with --strict they fail the command too.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		strict, _ := cmd.Flags().GetBool("strict")
		out := cmd.OutOrStdout()

		failed := 0
		for _, path := range args {
			m, err := loadMachine(cmd, path)
			if err != nil {
				fmt.Fprintf(out, "❌ %v\n", err)
				failed++
				continue
			}

			def := m.Definition()
			fmt.Fprintf(out, "✅ %s: %d states, %d symbols\n", path, def.NumStates(), def.NumSymbols())

			var lint *validator.Error
			if err := m.Lint(); errors.As(err, &lint) {
				for _, f := range lint.Findings {
					fmt.Fprintf(out, "   ⚠️  %s\n", f.Message)
				}
				if strict {
					failed++
				}
			}
		}

		if failed > 0 {
			return fmt.Errorf("validation failed for %d of %d descriptions", failed, len(args))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
	validateCmd.Flags().Bool("strict", false, "Treat warnings as errors")
}
