package domain

// Phase identifies where in a transition a state was entered.
type Phase string

const (
	PhasePrime     Phase = "prime"      // Null chain walked without a symbol
	PhasePreChain  Phase = "pre_chain"  // Null chain walked before consuming the symbol
	PhaseLanding   Phase = "landing"    // State selected by the symbol
	PhasePostChain Phase = "post_chain" // Null chain walked after the landing state
)

// StateEvent describes a state being entered by the engine.
type StateEvent struct {
	Definition string   `json:"definition,omitempty"`
	StateID    int      `json:"state_id"`
	StateName  string   `json:"state_name"`
	Symbol     int      `json:"symbol"`
	Phase      Phase    `json:"phase"`
	Callbacks  []string `json:"callbacks,omitempty"`
	// Callback is set on stop events to the callback whose handler returned false.
	Callback string `json:"callback,omitempty"`
}

// LifecycleHooks defines callbacks for engine observability.
// Hooks run synchronously inside the transition and must not block.
type LifecycleHooks struct {
	OnEnter func(StateEvent)
	OnStop  func(StateEvent)
}
