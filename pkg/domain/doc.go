/*
Package domain defines the core types of the lexfsm engine.

A Definition is the immutable table set of a tokenizer state machine: the
ordered state and symbol names, the start state, and for every state its
fallback, its callback names and either a dense transition row (List state)
or a single chain target (Null state).

Definitions are only created through NewDefinition, which validates ranges and
rejects cycles of Null states, so any Definition value can be traversed
safely by the engine.
*/
package domain
