package domain

import (
	"fmt"
	"slices"
	"strings"
)

// ValidationError lists every consistency problem found in a set of tables.
type ValidationError struct {
	Definition string
	Problems   []string
	cycle      bool
}

func (e *ValidationError) Error() string {
	label := "definition"
	if e.Definition != "" {
		label = fmt.Sprintf("definition %q", e.Definition)
	}
	return fmt.Sprintf("%s: found %d errors:\n- %s", label, len(e.Problems), strings.Join(e.Problems, "\n- "))
}

// Unwrap exposes ErrInvalidDefinition and, when a Null cycle was detected, ErrNullCycle.
func (e *ValidationError) Unwrap() []error {
	if e.cycle {
		return []error{ErrInvalidDefinition, ErrNullCycle}
	}
	return []error{ErrInvalidDefinition}
}

func validate(d *Definition) error {
	n := len(d.states)
	inRange := func(id int) bool { return id >= 0 && id < n }

	verr := &ValidationError{Definition: d.name}
	addf := func(format string, args ...any) {
		verr.Problems = append(verr.Problems, fmt.Sprintf(format, args...))
	}

	if n == 0 {
		addf("no states")
	} else if !inRange(d.start) {
		addf("start state %d out of range [0, %d)", d.start, n)
	}

	for i, s := range d.states {
		if !inRange(s.Fallback) {
			addf("state %d (%s): fallback %d out of range [0, %d)", i, s.Name, s.Fallback, n)
		}
		switch r := s.Row.(type) {
		case ListRow:
			if len(r) != len(d.symbols) {
				addf("state %d (%s): row has %d entries, want %d", i, s.Name, len(r), len(d.symbols))
			}
			for sym, dst := range r {
				if dst != NoTransition && !inRange(dst) {
					addf("state %d (%s): transition on symbol %d to %d out of range [0, %d)", i, s.Name, sym, dst, n)
				}
			}
		case NullRow:
			if !inRange(r.Target) {
				addf("state %d (%s): null target %d out of range [0, %d)", i, s.Name, r.Target, n)
			}
		default:
			addf("state %d (%s): missing transition row", i, s.Name)
		}
	}

	for _, cycle := range nullCycles(d) {
		verr.cycle = true
		names := make([]string, len(cycle))
		for i, id := range cycle {
			names[i] = fmt.Sprintf("%d (%s)", id, d.states[id].Name)
		}
		addf("%s: %s -> %s", ErrNullCycle, strings.Join(names, " -> "), names[0])
	}

	if len(verr.Problems) > 0 {
		return verr
	}
	return nil
}

// nullCycles returns every cycle formed by Null links, each as the list of state ids on it.
// Every Null state has exactly one outgoing link, so a walk either reaches a List state,
// leaves the table, joins an already explored path or closes a new cycle.
func nullCycles(d *Definition) [][]int {
	const (
		unvisited = iota
		onPath
		done
	)
	n := len(d.states)
	color := make([]int, n)
	var cycles [][]int

	for i := range d.states {
		if color[i] != unvisited {
			continue
		}
		var path []int
		cur := i
		for cur >= 0 && cur < n && color[cur] == unvisited {
			r, ok := d.states[cur].Row.(NullRow)
			if !ok {
				break
			}
			color[cur] = onPath
			path = append(path, cur)
			cur = r.Target
		}
		if cur >= 0 && cur < n && color[cur] == onPath {
			at := slices.Index(path, cur)
			cycles = append(cycles, slices.Clone(path[at:]))
		}
		for _, id := range path {
			color[id] = done
		}
	}
	return cycles
}
