package domain

// Handler receives every callback fired while the engine enters states.
// Returning false stops the traversal immediately.
type Handler interface {
	Handle(state, symbol int, callback string) bool
}

// HandlerFunc adapts a plain function to the Handler interface.
type HandlerFunc func(state, symbol int, callback string) bool

// Handle implements Handler.
func (f HandlerFunc) Handle(state, symbol int, callback string) bool {
	return f(state, symbol, callback)
}
