package tui

import (
	"fmt"
	"strings"

	"github.com/aretw0/lexfsm/pkg/domain"
)

// DefinitionMarkdown summarizes a definition as markdown tables.
// warnings are listed after the tables when present.
func DefinitionMarkdown(def *domain.Definition, warnings []string) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "# %s\n\n", mdEscape(def.Name()))
	fmt.Fprintf(&sb, "%d states, %d symbols, start state `%s` (%d).\n\n",
		def.NumStates(), def.NumSymbols(), def.StateName(def.Start()), def.Start())

	sb.WriteString("## Symbols\n\n")
	sb.WriteString("| id | symbol |\n|---:|---|\n")
	for id, sym := range def.Symbols() {
		fmt.Fprintf(&sb, "| %d | `%s` |\n", id, mdEscape(printable(sym)))
	}

	sb.WriteString("\n## States\n\n")
	sb.WriteString("| id | name | kind | fallback | callbacks | transitions |\n|---:|---|---|---|---|---|\n")
	for id := 0; id < def.NumStates(); id++ {
		st := def.State(id)
		fmt.Fprintf(&sb, "| %d | %s | %s | %s | %s | %s |\n",
			id,
			mdEscape(st.Name),
			st.Row.Kind(),
			mdEscape(def.StateName(st.Fallback)),
			mdEscape(strings.Join(st.Callbacks, ", ")),
			mdEscape(transitions(def, st.Row)))
	}

	if len(warnings) > 0 {
		sb.WriteString("\n## Warnings\n\n")
		for _, w := range warnings {
			fmt.Fprintf(&sb, "- %s\n", mdEscape(w))
		}
	}
	return sb.String()
}

func transitions(def *domain.Definition, row domain.Row) string {
	switch r := row.(type) {
	case domain.NullRow:
		return "ε → " + def.StateName(r.Target)
	case domain.ListRow:
		var parts []string
		for sym, target := range r {
			if target == domain.NoTransition {
				continue
			}
			parts = append(parts, fmt.Sprintf("%s → %s", printable(def.Symbol(sym)), def.StateName(target)))
		}
		return strings.Join(parts, "; ")
	}
	return ""
}

// printable shows whitespace in symbol names.
func printable(s string) string {
	return strings.NewReplacer(" ", "␠", "\n", `\n`, "\t", `\t`, "\r", `\r`).Replace(s)
}

func mdEscape(s string) string {
	return strings.NewReplacer("|", `\|`, "`", "'").Replace(s)
}
