package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/aretw0/lexfsm/internal/presentation/tui"
	"github.com/aretw0/lexfsm/pkg/lexer"
	"github.com/spf13/cobra"
)

var tokenizeCmd = &cobra.Command{
	Use:   "tokenize <file>",
	Short: "Run a description as a tokenizer",
	Long: `Feeds --input, or standard input when it is not set, through the reference
lexer and prints one token per line. With --json, tokens are written as NDJSON.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		m, err := loadMachine(cmd, args[0])
		if err != nil {
			return err
		}

		var in io.Reader = cmd.InOrStdin()
		if cmd.Flags().Changed("input") {
			text, _ := cmd.Flags().GetString("input")
			in = strings.NewReader(text)
		}

		out := cmd.OutOrStdout()
		jsonMode, _ := cmd.Flags().GetBool("json")

		var emit func(lexer.Token) error
		if jsonMode {
			enc := json.NewEncoder(out)
			emit = func(t lexer.Token) error { return enc.Encode(t) }
		} else {
			emit = tui.NewTokenPrinter(out).Print
		}

		var writeErr error
		count := 0
		err = m.Lexer(lexerOptions(cmd)...).Run(cmd.Context(), in, func(t lexer.Token) bool {
			count++
			writeErr = emit(t)
			return writeErr == nil
		})
		if err != nil {
			return fmt.Errorf("tokenize failed after %d tokens: %w", count, err)
		}
		if writeErr != nil {
			return fmt.Errorf("failed to write token: %w", writeErr)
		}
		logger.Debug("tokenize finished", "description", m.Name(), "tokens", count)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(tokenizeCmd)
	tokenizeCmd.Flags().StringP("input", "i", "", "Text to tokenize instead of standard input")
	tokenizeCmd.Flags().Bool("json", false, "Write tokens as NDJSON")
	tokenizeCmd.Flags().Bool("ignore-unknown", false, "Skip callbacks that are not lexer actions")
}

// lexerOptions maps the lexer config and flags to lexer options.
func lexerOptions(cmd *cobra.Command) []lexer.Option {
	ignore := cfg.Lexer.IgnoreUnknown
	if f := cmd.Flags().Lookup("ignore-unknown"); f != nil && f.Changed {
		ignore, _ = cmd.Flags().GetBool("ignore-unknown")
	}
	if ignore {
		return []lexer.Option{lexer.WithIgnoreUnknown()}
	}
	return nil
}
