package dsl

import (
	"testing"

	"github.com/aretw0/lexfsm/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuilder_SimpleMachine(t *testing.T) {
	// 1. Build the definition using DSL
	b := New("numbers", "digit", "space")

	b.Add("start").
		On("digit", "number").
		Do("reset")

	b.Add("number").
		On("digit", "number").
		Fallback("emit").
		Do("push")

	b.Add("emit").
		Chain("start").
		Do("emit")

	// 2. Compile
	def, err := b.Build()
	require.NoError(t, err)

	// 3. Verify tables
	assert.Equal(t, "numbers", def.Name())
	assert.Equal(t, 0, def.Start())
	assert.Equal(t, []string{"digit", "space"}, def.Symbols())

	assert.Equal(t, domain.ListRow{1, domain.NoTransition}, def.Row(0))
	assert.Equal(t, 0, def.Fallback(0), "fallback defaults to the start state")
	assert.Equal(t, []string{"reset"}, def.Callbacks(0))

	assert.Equal(t, domain.ListRow{1, domain.NoTransition}, def.Row(1))
	assert.Equal(t, 2, def.Fallback(1))

	assert.Equal(t, domain.NullRow{Target: 0}, def.Row(2))
	assert.Equal(t, []string{"emit"}, def.Callbacks(2))
}

func TestBuilder_AddIsIdempotent(t *testing.T) {
	b := New("m", "a")
	b.Add("s").On("a", "s")
	b.Add("s").Do("push")

	def, err := b.Build()
	require.NoError(t, err)
	assert.Equal(t, 1, def.NumStates())
	assert.Equal(t, domain.ListRow{0}, def.Row(0))
	assert.Equal(t, []string{"push"}, def.Callbacks(0))
}

func TestBuilder_Start(t *testing.T) {
	b := New("m", "a").Start("second")
	b.Add("first").On("a", "second")
	b.Add("second").On("a", "first")

	def, err := b.Build()
	require.NoError(t, err)
	assert.Equal(t, 1, def.Start())
	assert.Equal(t, 1, def.Fallback(0))
}

func TestBuilder_Errors(t *testing.T) {
	tests := []struct {
		name  string
		build func() *Builder
		want  string
	}{
		{
			name:  "No states",
			build: func() *Builder { return New("m") },
			want:  "no states",
		},
		{
			name: "Unknown start",
			build: func() *Builder {
				b := New("m").Start("ghost")
				b.Add("s")
				return b
			},
			want: `unknown start state "ghost"`,
		},
		{
			name: "Unknown symbol",
			build: func() *Builder {
				b := New("m", "a")
				b.Add("s").On("b", "s")
				return b
			},
			want: `unknown symbol "b"`,
		},
		{
			name: "Unknown target",
			build: func() *Builder {
				b := New("m", "a")
				b.Add("s").On("a", "ghost")
				return b
			},
			want: `unknown target state "ghost"`,
		},
		{
			name: "Unknown fallback",
			build: func() *Builder {
				b := New("m")
				b.Add("s").Fallback("ghost")
				return b
			},
			want: `unknown fallback state "ghost"`,
		},
		{
			name: "Chain with transitions",
			build: func() *Builder {
				b := New("m", "a")
				b.Add("s").On("a", "s").Chain("s")
				return b
			},
			want: "cannot have transitions",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.build().Build()
			require.Error(t, err)
			assert.ErrorIs(t, err, domain.ErrInvalidDefinition)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestBuilder_NullCycleRejected(t *testing.T) {
	b := New("m")
	b.Add("a").Chain("b")
	b.Add("b").Chain("a")

	_, err := b.Build()
	assert.ErrorIs(t, err, domain.ErrNullCycle)
}
