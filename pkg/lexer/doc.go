/*
Package lexer drives a tokenizer state machine over text.

A Lexer maps every rune of its input to a symbol id through a SymbolTable, feeds
the id to a Machine and interprets the callback names of the states it enters
as actions. The built-in actions are:

	push        append the current rune to the lexeme buffer
	emit        emit the buffer as a token typed with the entered state's name
	emit:TYPE   emit the buffer as a token of type TYPE
	reset       clear the buffer
	unread      feed the current rune again once this step is over
	halt        stop reading and finish

Both emit forms clear the buffer and emit nothing when it is empty.
Other callback names resolve to actions registered with WithAction.
*/
package lexer
