package graph

import (
	"fmt"
	"strings"

	"github.com/aretw0/lexfsm/pkg/domain"
)

// maxSymbolLabel is the number of runes of a symbol shown on an edge.
const maxSymbolLabel = 12

// GraphOverlay contains run data to visualize on the graph.
type GraphOverlay struct {
	VisitedStates []int
	// CurrentState is ignored when negative.
	CurrentState int
}

// GenerateMermaid produces a Mermaid flowchart of a definition.
// It applies semantic styling:
// - Start: ((Circle))
// - Null state: ([Stadium])
// - Default: [Rectangle]
// List transitions are labelled with their symbols, fallbacks are dotted and
// Null links are labelled ε. Overlay styles (Visited/Current) are applied if provided.
func GenerateMermaid(def *domain.Definition, overlay *GraphOverlay) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")

	for id := 0; id < def.NumStates(); id++ {
		st := def.State(id)

		opener, closer := "[", "]"
		switch {
		case id == def.Start():
			opener, closer = "((", "))"
		case st.Row.Kind() == domain.KindNull:
			opener, closer = "([", "])"
		}

		label := escape(st.Name)
		if len(st.Callbacks) > 0 {
			label = fmt.Sprintf("%s <br/> %s", label, escape(strings.Join(st.Callbacks, ", ")))
		}
		fmt.Fprintf(&sb, "    %s%s\"%s\"%s\n", nodeID(id), opener, label, closer)

		switch row := st.Row.(type) {
		case domain.NullRow:
			fmt.Fprintf(&sb, "    %s -- \"ε\" --> %s\n", nodeID(id), nodeID(row.Target))
		case domain.ListRow:
			writeListEdges(&sb, def, id, row)
			fmt.Fprintf(&sb, "    %s -.-> %s\n", nodeID(id), nodeID(st.Fallback))
		}
	}

	if overlay != nil {
		sb.WriteString("\n    %% Overlay Styles\n")
		// Force black text (color:#000) for high-contrast on light backgrounds, regardless of theme (Light/Dark)
		sb.WriteString("    classDef visited fill:#e1f5fe,stroke:#01579b,stroke-width:2px,color:#000;\n")
		sb.WriteString("    classDef current fill:#ffeb3b,stroke:#fbc02d,stroke-width:4px,color:#000;\n")

		visited := make(map[int]bool)
		for _, id := range overlay.VisitedStates {
			if id < 0 || id >= def.NumStates() || visited[id] {
				continue
			}
			visited[id] = true
			fmt.Fprintf(&sb, "    class %s visited;\n", nodeID(id))
		}

		if overlay.CurrentState >= 0 && overlay.CurrentState < def.NumStates() {
			fmt.Fprintf(&sb, "    class %s current;\n", nodeID(overlay.CurrentState))
		}
	}

	return sb.String()
}

// writeListEdges writes one edge per target, labelled with every symbol leading to it.
func writeListEdges(sb *strings.Builder, def *domain.Definition, id int, row domain.ListRow) {
	var targets []int
	labels := make(map[int][]string)
	for sym, target := range row {
		if target == domain.NoTransition {
			continue
		}
		if _, ok := labels[target]; !ok {
			targets = append(targets, target)
		}
		labels[target] = append(labels[target], symbolLabel(def.Symbol(sym)))
	}
	for _, target := range targets {
		fmt.Fprintf(sb, "    %s -- \"%s\" --> %s\n", nodeID(id), strings.Join(labels[target], ", "), nodeID(target))
	}
}

func nodeID(id int) string {
	return fmt.Sprintf("s%d", id)
}

// symbolLabel makes a symbol printable on an edge.
func symbolLabel(sym string) string {
	if sym == "" {
		return "∅"
	}
	var sb strings.Builder
	n := 0
	for _, r := range sym {
		if n == maxSymbolLabel {
			sb.WriteString("…")
			break
		}
		n++
		switch r {
		case ' ':
			sb.WriteString("␠")
		case '\n':
			sb.WriteString(`\n`)
		case '\t':
			sb.WriteString(`\t`)
		case '\r':
			sb.WriteString(`\r`)
		default:
			sb.WriteRune(r)
		}
	}
	return escape(sb.String())
}

// escape replaces characters that end a Mermaid label.
func escape(s string) string {
	return strings.ReplaceAll(s, "\"", "#quot;")
}
