// Package validator provides advisory checks over a compiled Definition.
// A Definition that reaches this package is already structurally valid;
// the findings reported here describe tables that load fine but are likely mistakes.
package validator

import (
	"fmt"
	"strings"

	"github.com/aretw0/lexfsm/pkg/domain"
)

// Check identifies the kind of a Finding.
type Check string

const (
	CheckUnreachable     Check = "unreachable"
	CheckAlwaysFallback  Check = "always_fallback"
	CheckDuplicateState  Check = "duplicate_state"
	CheckDuplicateSymbol Check = "duplicate_symbol"
)

// Finding is a single advisory problem.
type Finding struct {
	Check Check
	// Index is the state or symbol id the finding refers to.
	Index   int
	Message string
}

func (f Finding) String() string {
	return fmt.Sprintf("[%s] %s", f.Check, f.Message)
}

// Error collects every finding of a Lint run.
type Error struct {
	Definition string
	Findings   []Finding
}

func (e *Error) Error() string {
	lines := make([]string, len(e.Findings))
	for i, f := range e.Findings {
		lines[i] = f.String()
	}
	return fmt.Sprintf("definition %q: found %d warnings:\n- %s", e.Definition, len(e.Findings), strings.Join(lines, "\n- "))
}

// Lint inspects def and returns a *Error listing its findings, or nil when there are none.
func Lint(def *domain.Definition) error {
	var findings []Finding
	findings = append(findings, unreachable(def)...)
	findings = append(findings, alwaysFallback(def)...)
	findings = append(findings, duplicates(def)...)

	if len(findings) == 0 {
		return nil
	}
	return &Error{Definition: def.Name(), Findings: findings}
}

// Reachable returns, for each state id, whether it can be entered from the start state.
func Reachable(def *domain.Definition) []bool {
	visited := make([]bool, def.NumStates())
	queue := []int{def.Start()}

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		if visited[current] {
			continue
		}
		visited[current] = true

		for _, target := range successors(def, current) {
			if !visited[target] {
				queue = append(queue, target)
			}
		}
	}
	return visited
}

func successors(def *domain.Definition, id int) []int {
	switch row := def.Row(id).(type) {
	case domain.NullRow:
		return []int{row.Target}
	case domain.ListRow:
		out := make([]int, 0, len(row)+1)
		for _, target := range row {
			if target != domain.NoTransition {
				out = append(out, target)
			}
		}
		// Symbols outside the alphabet always take the fallback.
		return append(out, def.Fallback(id))
	}
	return nil
}

func unreachable(def *domain.Definition) []Finding {
	var findings []Finding
	for id, ok := range Reachable(def) {
		if !ok {
			findings = append(findings, Finding{
				Check:   CheckUnreachable,
				Index:   id,
				Message: fmt.Sprintf("state %d (%s) is unreachable from start state %d (%s)", id, def.StateName(id), def.Start(), def.StateName(def.Start())),
			})
		}
	}
	return findings
}

func alwaysFallback(def *domain.Definition) []Finding {
	var findings []Finding
	for id := 0; id < def.NumStates(); id++ {
		row, ok := def.Row(id).(domain.ListRow)
		if !ok || def.NumSymbols() == 0 {
			continue
		}
		explicit := false
		for _, target := range row {
			if target != domain.NoTransition {
				explicit = true
				break
			}
		}
		if !explicit {
			findings = append(findings, Finding{
				Check:   CheckAlwaysFallback,
				Index:   id,
				Message: fmt.Sprintf("state %d (%s) has no explicit transition and always falls back to %d (%s)", id, def.StateName(id), def.Fallback(id), def.StateName(def.Fallback(id))),
			})
		}
	}
	return findings
}

func duplicates(def *domain.Definition) []Finding {
	var findings []Finding

	seen := make(map[string]int)
	for id := 0; id < def.NumStates(); id++ {
		name := def.StateName(id)
		if first, ok := seen[name]; ok {
			findings = append(findings, Finding{
				Check:   CheckDuplicateState,
				Index:   id,
				Message: fmt.Sprintf("state %d shares the name %q with state %d", id, name, first),
			})
			continue
		}
		seen[name] = id
	}

	seen = make(map[string]int)
	for id, name := range def.Symbols() {
		if first, ok := seen[name]; ok {
			findings = append(findings, Finding{
				Check:   CheckDuplicateSymbol,
				Index:   id,
				Message: fmt.Sprintf("symbol %d shares the name %q with symbol %d", id, name, first),
			})
			continue
		}
		seen[name] = id
	}
	return findings
}
