/*
Package lexfsm is a table-driven finite state machine engine for tokenizers.

A tokenizer is described by transition tables: a fixed alphabet of symbols, a set of
states, and for every state either a List row (one target per symbol) or a Null link
(an unconditional move that consumes nothing). Every state carries a fallback, taken
when a symbol has no explicit transition, and a list of named callbacks fired whenever
the state is entered. The engine reports callbacks to a Handler, which can stop the
traversal at any point.

# Concept

The tables are immutable once loaded and validated; the only mutable value is the
cursor, an int owned by the caller. Many cursors can run over one Machine at once.

	pre-chain   follow Null links from the cursor until a List state
	landing     pick the next state from the row, or take the fallback
	post-chain  follow Null links again

Each state entered on the way fires its callbacks, in order.

# Description Formats

The text format is whitespace separated, with NUL-terminated symbol names:

	n_states n_symbols start
	name fallback k callback_1 ... callback_k     (n_states lines)
	symbol_0\x00symbol_1\x00...                   (n_symbols blocks)
	L target_0 ... target_{n_symbols-1}           (or)
	N target                                      (n_states rows)

A target of -1 means "use the fallback". Descriptions named *.yaml, *.yml or *.json are
read as YAML documents that refer to states and symbols by name.

# Usage

	m, err := lexfsm.New("examples/descriptions/words.yaml")
	if err != nil {
		log.Fatal(err)
	}

	// Drive the engine directly...
	cursor := m.Start()
	m.Next(&cursor, symbol, domain.HandlerFunc(func(state, symbol int, callback string) bool {
		fmt.Println(m.Definition().StateName(state), callback)
		return true
	}))

	// ...or let the reference lexer interpret callbacks as tokenizer actions.
	tokens, err := m.Tokenize(ctx, strings.NewReader("let x = 42;"))

See pkg/lexer for the built-in actions and pkg/dsl to build definitions in Go.
*/
package lexfsm
