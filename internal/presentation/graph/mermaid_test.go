package graph_test

import (
	"strings"
	"testing"

	"github.com/aretw0/lexfsm/internal/presentation/graph"
	"github.com/aretw0/lexfsm/pkg/domain"
	"github.com/aretw0/lexfsm/pkg/dsl"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func numbers(t *testing.T) *domain.Definition {
	t.Helper()
	b := dsl.New("numbers", "0123456789abcdef", " ", "+", `"`)
	b.Add("start").On("0123456789abcdef", "num").On(" ", "start").On("+", "start")
	b.Add("num").On("0123456789abcdef", "num").Fallback("emit").Do("push")
	b.Add("emit").Chain("start").Do("emit", "unread")
	b.Add(`odd "name"`).On(`"`, "start")
	def, err := b.Build()
	require.NoError(t, err)
	return def
}

func TestGenerateMermaid(t *testing.T) {
	out := graph.GenerateMermaid(numbers(t), nil)

	tests := []struct {
		name     string
		contains []string
	}{
		{
			name:     "Header",
			contains: []string{"graph TD\n"},
		},
		{
			name: "Shapes",
			contains: []string{
				`s0(("start"))`,
				`s1["num <br/> push"]`,
				`s2(["emit <br/> emit, unread"])`,
			},
		},
		{
			name: "Grouped symbol edges",
			contains: []string{
				`s0 -- "0123456789ab…" --> s1`,
				`s0 -- "␠, +" --> s0`,
			},
		},
		{
			name: "Fallback and Null edges",
			contains: []string{
				"s1 -.-> s2",
				`s2 -- "ε" --> s0`,
			},
		},
		{
			name: "Quote escaping",
			contains: []string{
				`s3["odd #quot;name#quot;"]`,
				`s3 -- "#quot;" --> s0`,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, want := range tt.contains {
				assert.Contains(t, out, want)
			}
		})
	}

	assert.NotContains(t, out, "Overlay")
	assert.NotContains(t, out, "s2 -.->", "Null states have no fallback edge")
}

func TestGenerateMermaid_Overlay(t *testing.T) {
	out := graph.GenerateMermaid(numbers(t), &graph.GraphOverlay{
		VisitedStates: []int{0, 1, 1, 9, -2},
		CurrentState:  2,
	})

	assert.Contains(t, out, "%% Overlay Styles")
	assert.Equal(t, 1, strings.Count(out, "class s1 visited;"))
	assert.Contains(t, out, "class s0 visited;")
	assert.NotContains(t, out, "s9")
	assert.Contains(t, out, "class s2 current;")

	none := graph.GenerateMermaid(numbers(t), &graph.GraphOverlay{CurrentState: -1})
	assert.NotContains(t, none, "current;")
}
