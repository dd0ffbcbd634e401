package lexer

import (
	"strings"
	"unicode/utf8"

	"github.com/aretw0/lexfsm/pkg/domain"
)

// AnySymbol is the reserved symbol name that matches every rune.
const AnySymbol = `\any`

// SymbolTable maps runes to symbol ids.
// A rune belongs to the lowest symbol whose name contains it, or that is named AnySymbol.
// Runes that belong to no symbol map to domain.NoSymbol, which makes the machine fall back.
type SymbolTable struct {
	symbols []string
	ascii   [utf8.RuneSelf]int
}

// NewSymbolTable builds a table over the given alphabet, in symbol id order.
func NewSymbolTable(symbols []string) *SymbolTable {
	t := &SymbolTable{symbols: append([]string(nil), symbols...)}
	for r := range t.ascii {
		t.ascii[r] = t.scan(rune(r))
	}
	return t
}

// Lookup returns the symbol id of r.
func (t *SymbolTable) Lookup(r rune) int {
	if r >= 0 && r < utf8.RuneSelf {
		return t.ascii[r]
	}
	return t.scan(r)
}

// Len returns the size of the alphabet.
func (t *SymbolTable) Len() int { return len(t.symbols) }

func (t *SymbolTable) scan(r rune) int {
	for id, name := range t.symbols {
		if name == AnySymbol || strings.ContainsRune(name, r) {
			return id
		}
	}
	return domain.NoSymbol
}
