package compiler_test

import (
	"testing"

	"github.com/aretw0/lexfsm/internal/compiler"
	"github.com/aretw0/lexfsm/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const threeStateYAML = `
name: demo
start: start
symbols: ["a", "b c"]
states:
  - name: start
    fallback: reset
    row: [emit, ~]
  - name: emit
    fallback: 0
    callbacks: [emit]
    chain: reset
  - name: reset
    fallback: start
    callbacks: [reset]
    transitions:
      "a": start
      "b c": 0
`

func TestParseYAML_MatchesText(t *testing.T) {
	fromYAML, err := compiler.ParseYAML("", []byte(threeStateYAML))
	require.NoError(t, err)
	assert.Equal(t, "demo", fromYAML.Name())

	fromText := mustParseText(t, threeStateText)
	assert.True(t, fromText.Equal(fromYAML))
}

func TestParseYAML_JSONDocument(t *testing.T) {
	src := `{"start": 0, "symbols": ["x"], "states": [{"name": "only", "fallback": 0, "row": [-1]}]}`
	def, err := compiler.ParseYAML("json", []byte(src))
	require.NoError(t, err)
	assert.Equal(t, "json", def.Name())
	assert.Equal(t, domain.ListRow{domain.NoTransition}, def.Row(0))
}

func TestParseYAML_Defaults(t *testing.T) {
	src := `
start: idle
symbols: ["x", "y"]
states:
  - name: other
  - name: idle
`
	def, err := compiler.ParseYAML("", []byte(src))
	require.NoError(t, err)
	assert.Equal(t, 1, def.Start())
	assert.Equal(t, 1, def.Fallback(0), "missing fallback defaults to the start state")
	assert.Equal(t, domain.ListRow{domain.NoTransition, domain.NoTransition}, def.Row(0))
}

func TestParseYAML_NumericSymbolNames(t *testing.T) {
	src := `
symbols: [0, 1, 2.5, "ab"]
states:
  - name: start
    transitions: {0: zero, 1: start, 2.5: start, ab: zero}
  - name: zero
    callbacks: [7]
    chain: start
`
	def, err := compiler.ParseYAML("digits", []byte(src))
	require.NoError(t, err)
	assert.Equal(t, []string{"0", "1", "2.5", "ab"}, def.Symbols())
	assert.Equal(t, domain.ListRow{1, 0, 0, 1}, def.Row(0))
	assert.Equal(t, []string{"7"}, def.Callbacks(1))
}

func TestParseYAML_Errors(t *testing.T) {
	tests := []struct {
		name    string
		src     string
		wantErr error
	}{
		{"Not YAML", "states: [", domain.ErrMalformed},
		{"Unknown Field", "states: []\nbogus: 1\n", domain.ErrMalformed},
		{"Unknown State", "symbols: [x]\nstates:\n  - name: a\n    row: [nowhere]\n", domain.ErrMalformed},
		{"Unknown Symbol", "symbols: [x]\nstates:\n  - name: a\n    transitions: {y: a}\n", domain.ErrMalformed},
		{"Mixed Forms", "symbols: [x]\nstates:\n  - name: a\n    row: [a]\n    chain: a\n", domain.ErrMalformed},
		{"Fractional Ref", "symbols: [x]\nstates:\n  - name: a\n    row: [0.5]\n", domain.ErrMalformed},
		{"Cycle", "symbols: [x]\nstates:\n  - name: a\n    chain: b\n  - name: b\n    chain: a\n", domain.ErrNullCycle},
		{"No States", "symbols: [x]\n", domain.ErrInvalidDefinition},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			def, err := compiler.ParseYAML("", []byte(tt.src))
			require.Error(t, err)
			assert.Nil(t, def)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestParser_FormatDetection(t *testing.T) {
	p := compiler.NewParser()

	def, err := p.Parse("lexer.fsm", []byte(threeStateText))
	require.NoError(t, err)
	assert.Equal(t, "lexer.fsm", def.Name())

	def, err = p.Parse("lexer.yaml", []byte(threeStateYAML))
	require.NoError(t, err)
	assert.Equal(t, "lexer.yaml", def.Name())

	_, err = p.Parse("lexer.yaml", []byte(threeStateText))
	assert.Error(t, err)

	forced := compiler.NewParser(compiler.WithFormat(compiler.FormatYAML))
	_, err = forced.Parse("lexer.fsm", []byte(threeStateYAML))
	assert.NoError(t, err)

	_, err = compiler.NewParser(compiler.WithFormat("xml")).Parse("x", nil)
	assert.ErrorContains(t, err, "unsupported description format")
}

func TestFormatFor(t *testing.T) {
	assert.Equal(t, compiler.FormatYAML, compiler.FormatFor("a.YML"))
	assert.Equal(t, compiler.FormatYAML, compiler.FormatFor("dir/a.json"))
	assert.Equal(t, compiler.FormatText, compiler.FormatFor("a.fsm"))
	assert.Equal(t, compiler.FormatText, compiler.FormatFor("noext"))
}
