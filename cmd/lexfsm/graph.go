package main

import (
	"fmt"
	"strings"

	"github.com/aretw0/lexfsm"
	"github.com/aretw0/lexfsm/internal/presentation/graph"
	"github.com/aretw0/lexfsm/pkg/domain"
	"github.com/spf13/cobra"
)

// graphCmd represents the graph command
var graphCmd = &cobra.Command{
	Use:   "graph <file>",
	Short: "Export the state graph as Mermaid",
	Long: `Outputs a Mermaid flowchart of the description. With --trace, the given input
is tokenized first and the states it visited are highlighted.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		trace, _ := cmd.Flags().GetString("trace")

		overlay := &graph.GraphOverlay{CurrentState: -1}
		visited := make(map[int]bool)
		hooks := domain.LifecycleHooks{
			OnEnter: func(e domain.StateEvent) {
				if !visited[e.StateID] {
					visited[e.StateID] = true
					overlay.VisitedStates = append(overlay.VisitedStates, e.StateID)
				}
				overlay.CurrentState = e.StateID
			},
		}

		m, err := loadMachine(cmd, args[0], lexfsm.WithLifecycleHooks(hooks))
		if err != nil {
			return err
		}

		if cmd.Flags().Changed("trace") {
			lx := m.Lexer(lexerOptions(cmd)...)
			if _, err := lx.Tokenize(cmd.Context(), strings.NewReader(trace)); err != nil {
				return fmt.Errorf("trace failed: %w", err)
			}
		} else {
			overlay = nil
		}

		fmt.Fprint(cmd.OutOrStdout(), graph.GenerateMermaid(m.Definition(), overlay))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(graphCmd)
	graphCmd.Flags().String("trace", "", "Input to tokenize before drawing; visited states are highlighted")
}
