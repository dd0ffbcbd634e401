package dsl

import (
	"errors"
	"fmt"
	"slices"

	"github.com/aretw0/lexfsm/pkg/domain"
)

// Builder manages the definition construction.
type Builder struct {
	name    string
	symbols []string
	start   string
	order   []*StateBuilder
	states  map[string]*StateBuilder
}

// New creates a new definition builder over the given alphabet.
// Symbol ids follow the order of symbols.
func New(name string, symbols ...string) *Builder {
	return &Builder{
		name:    name,
		symbols: slices.Clone(symbols),
		states:  make(map[string]*StateBuilder),
	}
}

// Start selects the start state by name.
func (b *Builder) Start(name string) *Builder {
	b.start = name
	return b
}

// Add creates a new state in the definition.
// If the state already exists, it returns the existing builder.
func (b *Builder) Add(name string) *StateBuilder {
	if sb, ok := b.states[name]; ok {
		return sb
	}
	sb := &StateBuilder{
		name:        name,
		transitions: make(map[string]string),
	}
	b.states[name] = sb
	b.order = append(b.order, sb)
	return sb
}

// Build resolves every name and returns a validated Definition.
func (b *Builder) Build() (*domain.Definition, error) {
	if len(b.order) == 0 {
		return nil, fmt.Errorf("%w: no states", domain.ErrInvalidDefinition)
	}

	ids := make(map[string]int, len(b.order))
	for i, sb := range b.order {
		ids[sb.name] = i
	}
	symbolIDs := make(map[string]int, len(b.symbols))
	for i, sym := range b.symbols {
		if _, dup := symbolIDs[sym]; !dup {
			symbolIDs[sym] = i
		}
	}

	start := 0
	if b.start != "" {
		id, ok := ids[b.start]
		if !ok {
			return nil, fmt.Errorf("%w: unknown start state %q", domain.ErrInvalidDefinition, b.start)
		}
		start = id
	}

	var errs []error
	states := make([]domain.State, len(b.order))
	for i, sb := range b.order {
		st, err := sb.build(start, ids, symbolIDs, len(b.symbols))
		if err != nil {
			errs = append(errs, fmt.Errorf("state %q: %w", sb.name, err))
			continue
		}
		states[i] = st
	}
	if len(errs) > 0 {
		return nil, fmt.Errorf("%w: %w", domain.ErrInvalidDefinition, errors.Join(errs...))
	}

	return domain.NewDefinition(b.name, b.symbols, states, start)
}

// StateBuilder provides a fluent API for configuring a state.
type StateBuilder struct {
	name        string
	fallback    string
	chain       string
	callbacks   []string
	transitions map[string]string
	symbolOrder []string
}

// On adds a transition to target when symbol is read.
func (s *StateBuilder) On(symbol, target string) *StateBuilder {
	if _, ok := s.transitions[symbol]; !ok {
		s.symbolOrder = append(s.symbolOrder, symbol)
	}
	s.transitions[symbol] = target
	return s
}

// Fallback sets the state taken when a symbol has no explicit transition.
func (s *StateBuilder) Fallback(target string) *StateBuilder {
	s.fallback = target
	return s
}

// Chain turns the state into a Null state that moves to target without consuming a symbol.
func (s *StateBuilder) Chain(target string) *StateBuilder {
	s.chain = target
	return s
}

// Do appends callbacks fired, in order, whenever the state is entered.
func (s *StateBuilder) Do(callbacks ...string) *StateBuilder {
	s.callbacks = append(s.callbacks, callbacks...)
	return s
}

func (s *StateBuilder) build(start int, ids, symbolIDs map[string]int, nSymbols int) (domain.State, error) {
	st := domain.State{
		Name:      s.name,
		Fallback:  start,
		Callbacks: slices.Clone(s.callbacks),
	}

	if s.fallback != "" {
		id, ok := ids[s.fallback]
		if !ok {
			return st, fmt.Errorf("unknown fallback state %q", s.fallback)
		}
		st.Fallback = id
	}

	if s.chain != "" {
		if len(s.transitions) > 0 {
			return st, fmt.Errorf("a chained state cannot have transitions")
		}
		id, ok := ids[s.chain]
		if !ok {
			return st, fmt.Errorf("unknown chain target %q", s.chain)
		}
		st.Row = domain.NullRow{Target: id}
		return st, nil
	}

	row := make(domain.ListRow, nSymbols)
	for i := range row {
		row[i] = domain.NoTransition
	}
	for _, symbol := range s.symbolOrder {
		target := s.transitions[symbol]
		sym, ok := symbolIDs[symbol]
		if !ok {
			return st, fmt.Errorf("unknown symbol %q", symbol)
		}
		id, ok := ids[target]
		if !ok {
			return st, fmt.Errorf("unknown target state %q for symbol %q", target, symbol)
		}
		row[sym] = id
	}
	st.Row = row
	return st, nil
}
