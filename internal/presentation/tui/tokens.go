package tui

import (
	"fmt"
	"hash/fnv"
	"io"

	"github.com/aretw0/lexfsm/pkg/lexer"
	"github.com/muesli/termenv"
)

var palette = []string{"#f472b6", "#fb923c", "#facc15", "#4ade80", "#2dd4bf", "#38bdf8", "#818cf8", "#c084fc"}

// TokenPrinter writes tokens one per line, coloring the type when the output supports it.
type TokenPrinter struct {
	w       io.Writer
	profile termenv.Profile
}

// NewTokenPrinter creates a printer for w.
// Colors are detected from w; pass a plain writer to disable them.
func NewTokenPrinter(w io.Writer) *TokenPrinter {
	return &TokenPrinter{w: w, profile: termenv.NewOutput(w).Profile}
}

// Print writes a single token.
func (p *TokenPrinter) Print(tok lexer.Token) error {
	typ := p.profile.String(fmt.Sprintf("%-12s", tok.Type)).Foreground(p.profile.Color(colorFor(tok.Type))).Bold()
	pos := p.profile.String(fmt.Sprintf("%4d:%-3d", tok.Line, tok.Column)).Faint()
	_, err := fmt.Fprintf(p.w, "%s %s %q\n", pos, typ, tok.Lexeme)
	return err
}

func colorFor(typ string) string {
	h := fnv.New32a()
	_, _ = h.Write([]byte(typ))
	return palette[h.Sum32()%uint32(len(palette))]
}
