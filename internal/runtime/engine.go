package runtime

import (
	"context"
	"io"
	"log/slog"

	"github.com/aretw0/lexfsm/pkg/domain"
)

// Engine is the transition engine of a tokenizer state machine.
// It holds no per-traversal state: cursors are owned by callers, so a single
// Engine can drive any number of concurrent cursors.
type Engine struct {
	def    *domain.Definition
	logger *slog.Logger
	hooks  domain.LifecycleHooks
	debug  bool
}

// EngineOption defines a functional option for configuring the Engine.
type EngineOption func(*Engine)

// WithLogger sets the structured logger. State entries are logged at debug level.
func WithLogger(logger *slog.Logger) EngineOption {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) EngineOption {
	return func(e *Engine) {
		e.hooks = hooks
	}
}

// NewEngine creates an engine over def. The definition must outlive the engine.
func NewEngine(def *domain.Definition, opts ...EngineOption) *Engine {
	e := &Engine{
		def:    def,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.debug = e.logger.Enabled(context.Background(), slog.LevelDebug)
	return e
}

// Definition returns the tables driven by the engine.
func (e *Engine) Definition() *domain.Definition {
	return e.def
}

// Start returns the initial state id of the definition.
func (e *Engine) Start() int {
	return e.def.Start()
}

// Destination computes the state reached from state on symbol without following
// Null chains or firing callbacks. Symbols outside [0, n_symbols) and row entries
// equal to NoTransition select the fallback. For a Null state it returns the chain target.
func (e *Engine) Destination(state, symbol int) int {
	switch row := e.def.Row(state).(type) {
	case domain.NullRow:
		return row.Target
	case domain.ListRow:
		if symbol < 0 || symbol >= len(row) || row[symbol] == domain.NoTransition {
			return e.def.Fallback(state)
		}
		return row[symbol]
	}
	return e.def.Fallback(state)
}

// Prime resolves the Null chain starting at the cursor without consuming a symbol.
// Handlers receive domain.NoSymbol. It returns false if the handler stopped the walk.
func (e *Engine) Prime(cursor *int, h domain.Handler) bool {
	return e.follow(cursor, domain.NoSymbol, h, domain.PhasePrime)
}

// Next advances the cursor by one symbol:
//
//  1. Null states at the cursor are followed to a List state.
//  2. The symbol selects the next state from the row, or the fallback.
//  3. Null states reached from there are followed again.
//
// Every state entered fires its callbacks through h, in order. When h returns
// false, Next returns false at once and the cursor stays on the state whose
// callback stopped the traversal.
func (e *Engine) Next(cursor *int, symbol int, h domain.Handler) bool {
	if !e.follow(cursor, symbol, h, domain.PhasePreChain) {
		return false
	}

	*cursor = e.Destination(*cursor, symbol)
	if !e.enter(*cursor, symbol, h, domain.PhaseLanding) {
		return false
	}

	return e.follow(cursor, symbol, h, domain.PhasePostChain)
}

// follow walks Null links from the cursor. Definitions reject Null cycles, so it terminates.
func (e *Engine) follow(cursor *int, symbol int, h domain.Handler, phase domain.Phase) bool {
	for {
		row, ok := e.def.Row(*cursor).(domain.NullRow)
		if !ok {
			return true
		}
		*cursor = row.Target
		if !e.enter(*cursor, symbol, h, phase) {
			return false
		}
	}
}

func (e *Engine) enter(state, symbol int, h domain.Handler, phase domain.Phase) bool {
	callbacks := e.def.Callbacks(state)

	if e.hooks.OnEnter != nil {
		e.hooks.OnEnter(e.event(state, symbol, phase, ""))
	}
	if e.debug {
		e.logger.Debug("state entered",
			"state", e.def.StateName(state),
			"state_id", state,
			"symbol", symbol,
			"phase", phase,
			"callbacks", len(callbacks))
	}

	if h == nil {
		return true
	}
	for _, cb := range callbacks {
		if !h.Handle(state, symbol, cb) {
			if e.hooks.OnStop != nil {
				e.hooks.OnStop(e.event(state, symbol, phase, cb))
			}
			if e.debug {
				e.logger.Debug("traversal stopped",
					"state", e.def.StateName(state),
					"callback", cb,
					"symbol", symbol)
			}
			return false
		}
	}
	return true
}

func (e *Engine) event(state, symbol int, phase domain.Phase, callback string) domain.StateEvent {
	return domain.StateEvent{
		Definition: e.def.Name(),
		StateID:    state,
		StateName:  e.def.StateName(state),
		Symbol:     symbol,
		Phase:      phase,
		Callbacks:  e.def.Callbacks(state),
		Callback:   callback,
	}
}
