package compiler_test

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/aretw0/lexfsm/internal/compiler"
	"github.com/aretw0/lexfsm/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const threeStateText = "3 2 0\n" +
	"start 2 0\n" +
	"emit 0 1 emit\n" +
	"reset 0 1 reset\n" +
	"a\x00b c\x00\n" +
	"L 1 -1\n" +
	"N 2\n" +
	"L 0 0\n"

func TestParseText_ThreeStates(t *testing.T) {
	def, err := compiler.ParseText("demo", strings.NewReader(threeStateText))
	require.NoError(t, err)

	assert.Equal(t, "demo", def.Name())
	assert.Equal(t, 3, def.NumStates())
	assert.Equal(t, []string{"a", "b c"}, def.Symbols())
	assert.Equal(t, 0, def.Start())

	assert.Equal(t, "start", def.StateName(0))
	assert.Equal(t, 2, def.Fallback(0))
	assert.Empty(t, def.Callbacks(0))
	assert.Equal(t, domain.ListRow{1, domain.NoTransition}, def.Row(0))

	assert.Equal(t, []string{"emit"}, def.Callbacks(1))
	assert.Equal(t, domain.NullRow{Target: 2}, def.Row(1))

	assert.Equal(t, []string{"reset"}, def.Callbacks(2))
	assert.Equal(t, domain.ListRow{0, 0}, def.Row(2))
}

func TestParseText_WhitespaceLayout(t *testing.T) {
	// Scalars may be spread over lines and indented; only the symbol blocks are positional.
	src := "3\n2\t0\n" +
		"start 2 0 emit 0 1\n emit\nreset 0 1 reset   \n" +
		"\n  spaced\x00line\nbreak\x00" +
		"L\n1 -1 N 2\nL 0 0"

	def, err := compiler.ParseText("", strings.NewReader(src))
	require.NoError(t, err)
	assert.Equal(t, []string{"\n  spaced", "line\nbreak"}, def.Symbols())
	assert.Equal(t, domain.NullRow{Target: 2}, def.Row(1))
}

func TestParseText_Errors(t *testing.T) {
	tests := []struct {
		name    string
		src     string
		wantErr error
		section string
	}{
		{"Empty", "", domain.ErrTruncated, "header"},
		{"Header Not Integer", "3 x 0", domain.ErrMalformed, "header"},
		{"Negative States", "-1 2 0", domain.ErrMalformed, "header"},
		{"Truncated States", "3 2 0\nstart 2 0\nemit 0 1", domain.ErrTruncated, "state"},
		{"Negative Callbacks", "1 0 0\nstart 0 -2\n", domain.ErrMalformed, "state"},
		{"Missing Symbol Terminator", "1 2 0\nstart 0 0\na\x00b", domain.ErrTruncated, "symbol"},
		{"Truncated Row", "1 2 0\nstart 0 0\na\x00b\x00\nL 0", domain.ErrTruncated, "row"},
		{"Missing Row", "2 1 0\na 0 0\nb 0 0\nx\x00\nL 0\n", domain.ErrTruncated, "row"},
		{"Unknown Marker", "1 1 0\nstart 0 0\na\x00\nX 0\n", domain.ErrUnknownMarker, "row"},
		{"Row Not Integer", "1 1 0\nstart 0 0\na\x00\nL zero\n", domain.ErrMalformed, "row"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			def, err := compiler.ParseText("", strings.NewReader(tt.src))
			require.Error(t, err)
			assert.Nil(t, def)
			assert.ErrorIs(t, err, tt.wantErr)

			var perr *compiler.ParseError
			require.ErrorAs(t, err, &perr)
			assert.Equal(t, tt.section, perr.Section)
		})
	}
}

func TestParseText_TruncationWrapsUnexpectedEOF(t *testing.T) {
	_, err := compiler.ParseText("", strings.NewReader("2 1"))
	assert.ErrorIs(t, err, io.ErrUnexpectedEOF)
	assert.ErrorIs(t, err, domain.ErrTruncated)
}

func TestParseText_RangeValidation(t *testing.T) {
	src := "2 1 0\n" +
		"a 7 0\n" +
		"b 0 0\n" +
		"x\x00\n" +
		"L 4\n" +
		"N 9\n"
	_, err := compiler.ParseText("ranges", strings.NewReader(src))
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidDefinition)

	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Len(t, verr.Problems, 3)
}

func TestParseText_NullCycleRejected(t *testing.T) {
	src := "2 1 0\na 0 0\nb 0 0\nx\x00\nN 1\nN 0\n"
	_, err := compiler.ParseText("", strings.NewReader(src))
	assert.ErrorIs(t, err, domain.ErrNullCycle)
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("disk on fire") }

func TestParseText_ReadError(t *testing.T) {
	_, err := compiler.ParseText("", failingReader{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk on fire")
	assert.False(t, errors.Is(err, domain.ErrTruncated))
}

func TestEncodeText_RoundTrip(t *testing.T) {
	def, err := compiler.ParseText("demo", strings.NewReader(threeStateText))
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, compiler.EncodeText(&buf, def))
	assert.Equal(t, threeStateText, buf.String())

	again, err := compiler.ParseText("demo", &buf)
	require.NoError(t, err)
	assert.True(t, def.Equal(again))
}

func TestEncodeText_RejectsUnencodableNames(t *testing.T) {
	def, err := domain.NewDefinition("", []string{"a"}, []domain.State{
		{Name: "two words", Row: domain.ListRow{0}},
	}, 0)
	require.NoError(t, err)

	err = compiler.EncodeText(io.Discard, def)
	assert.ErrorIs(t, err, domain.ErrMalformed)

	def, err = domain.NewDefinition("", []string{"nul\x00"}, []domain.State{
		{Name: "s", Row: domain.ListRow{0}},
	}, 0)
	require.NoError(t, err)
	assert.ErrorIs(t, compiler.EncodeText(io.Discard, def), domain.ErrMalformed)
}

func mustParseText(t *testing.T, src string) *domain.Definition {
	t.Helper()
	def, err := compiler.ParseText("", strings.NewReader(src))
	require.NoError(t, err)
	return def
}
