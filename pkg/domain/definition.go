package domain

import "slices"

// NoTransition marks a row entry without an explicit destination.
// The engine uses the state's fallback instead.
const NoTransition = -1

// NoSymbol is the symbol id reported to handlers when no symbol is being consumed,
// e.g. while priming a cursor on the start state.
const NoSymbol = -1

// Kind tells how a state computes its successor.
type Kind string

const (
	KindList Kind = "list" // Dense row indexed by symbol id
	KindNull Kind = "null" // Unconditional chain to another state
)

// Row is the transition part of a state. It is either a ListRow or a NullRow.
type Row interface {
	Kind() Kind
}

// ListRow holds one destination state id per symbol, or NoTransition.
type ListRow []int

// Kind implements Row.
func (ListRow) Kind() Kind { return KindList }

// NullRow chains to Target without consuming a symbol.
type NullRow struct {
	Target int
}

// Kind implements Row.
func (NullRow) Kind() Kind { return KindNull }

// State describes a single state of the machine.
type State struct {
	Name      string
	Fallback  int
	Callbacks []string
	Row       Row
}

// Definition is the immutable set of tables of a tokenizer state machine.
// It is safe for concurrent use by any number of cursors.
type Definition struct {
	name    string
	states  []State
	symbols []string
	start   int
}

// NewDefinition validates the given tables and returns a Definition owning a deep copy of them.
// On failure it returns a *ValidationError listing every problem found.
func NewDefinition(name string, symbols []string, states []State, start int) (*Definition, error) {
	def := &Definition{
		name:    name,
		symbols: slices.Clone(symbols),
		states:  make([]State, len(states)),
		start:   start,
	}
	for i, s := range states {
		def.states[i] = cloneState(s)
	}

	if err := validate(def); err != nil {
		return nil, err
	}
	return def, nil
}

func cloneState(s State) State {
	c := State{
		Name:      s.Name,
		Fallback:  s.Fallback,
		Callbacks: slices.Clone(s.Callbacks),
	}
	switch r := s.Row.(type) {
	case ListRow:
		c.Row = ListRow(slices.Clone(r))
	case NullRow:
		c.Row = r
	case *NullRow:
		if r != nil {
			c.Row = *r
		}
	}
	return c
}

// Name returns the label the definition was created with.
func (d *Definition) Name() string { return d.name }

// Start returns the initial state id.
func (d *Definition) Start() int { return d.start }

// NumStates returns the number of states.
func (d *Definition) NumStates() int { return len(d.states) }

// NumSymbols returns the number of symbols.
func (d *Definition) NumSymbols() int { return len(d.symbols) }

// StateName returns the name of state id, or "" if id is out of range.
func (d *Definition) StateName(id int) string {
	if id < 0 || id >= len(d.states) {
		return ""
	}
	return d.states[id].Name
}

// Symbol returns the name of symbol id, or "" if id is out of range.
func (d *Definition) Symbol(id int) string {
	if id < 0 || id >= len(d.symbols) {
		return ""
	}
	return d.symbols[id]
}

// Symbols returns a copy of the symbol names in id order.
func (d *Definition) Symbols() []string {
	return slices.Clone(d.symbols)
}

// StateID returns the id of the first state called name.
func (d *Definition) StateID(name string) (int, bool) {
	for i, s := range d.states {
		if s.Name == name {
			return i, true
		}
	}
	return 0, false
}

// SymbolID returns the id of the first symbol called name.
func (d *Definition) SymbolID(name string) (int, bool) {
	i := slices.Index(d.symbols, name)
	return i, i >= 0
}

// Fallback returns the fallback state of id.
func (d *Definition) Fallback(id int) int {
	return d.states[id].Fallback
}

// Callbacks returns the callback names of id in registration order.
// The returned slice is shared and must not be modified.
func (d *Definition) Callbacks(id int) []string {
	return d.states[id].Callbacks
}

// Row returns the transition row of id. A ListRow result is shared and must not be modified.
func (d *Definition) Row(id int) Row {
	return d.states[id].Row
}

// State returns a copy of the state record of id.
func (d *Definition) State(id int) State {
	return cloneState(d.states[id])
}

// States returns a copy of every state record in id order.
func (d *Definition) States() []State {
	out := make([]State, len(d.states))
	for i, s := range d.states {
		out[i] = cloneState(s)
	}
	return out
}

// Equal reports whether both definitions hold the same tables. Names are ignored.
func (d *Definition) Equal(o *Definition) bool {
	if d == nil || o == nil {
		return d == o
	}
	if d.start != o.start || !slices.Equal(d.symbols, o.symbols) || len(d.states) != len(o.states) {
		return false
	}
	for i := range d.states {
		a, b := d.states[i], o.states[i]
		if a.Name != b.Name || a.Fallback != b.Fallback || !slices.Equal(a.Callbacks, b.Callbacks) {
			return false
		}
		switch ar := a.Row.(type) {
		case ListRow:
			br, ok := b.Row.(ListRow)
			if !ok || !slices.Equal(ar, br) {
				return false
			}
		case NullRow:
			br, ok := b.Row.(NullRow)
			if !ok || ar != br {
				return false
			}
		}
	}
	return true
}
