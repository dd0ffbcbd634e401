/*
Package dsl provides a Go DSL for programmatically constructing tokenizer state machines.

It lets developers define transition tables by name with a fluent builder instead of
writing the positional text format by hand. This is particularly useful for unit
testing and for machines generated at runtime.

Example usage:

	b := dsl.New("numbers", "digit", "space")

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

	def, err := b.Build()
	// ... pass def to lexfsm.NewFromDefinition(...)

The first state added is the start state unless Start names another one.
States without an explicit Fallback fall back to the start state.
*/
package dsl
