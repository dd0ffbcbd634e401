package lexer

import "strings"

// position is a 1-based line and column.
type position struct {
	line   int
	column int
}

func (p *position) advance(r rune) {
	if r == '\n' {
		p.line++
		p.column = 1
		return
	}
	p.column++
}

// Scope is the state of a single tokenization run, as seen by actions.
// It is only valid during the action call.
type Scope struct {
	lexer *Lexer

	state   int
	symbol  int
	current rune
	hasRune bool

	pos    position
	start  position
	buffer strings.Builder

	unread bool
	halted bool
	yield  func(Token) bool
}

// State returns the id of the state being entered.
func (s *Scope) State() int { return s.state }

// StateName returns the name of the state being entered.
func (s *Scope) StateName() string { return s.lexer.machine.Definition().StateName(s.state) }

// Symbol returns the symbol id being consumed, or domain.NoSymbol at priming and end of input.
func (s *Scope) Symbol() int { return s.symbol }

// Rune returns the rune being consumed. ok is false at priming and end of input.
func (s *Scope) Rune() (r rune, ok bool) { return s.current, s.hasRune }

// Line returns the line of the rune being consumed.
func (s *Scope) Line() int { return s.pos.line }

// Column returns the column of the rune being consumed.
func (s *Scope) Column() int { return s.pos.column }

// Text returns the lexeme buffered so far.
func (s *Scope) Text() string { return s.buffer.String() }

// Push appends r to the lexeme buffer.
func (s *Scope) Push(r rune) {
	if s.buffer.Len() == 0 {
		s.start = s.pos
	}
	s.buffer.WriteRune(r)
}

// Reset clears the lexeme buffer.
func (s *Scope) Reset() { s.buffer.Reset() }

// Emit sends the buffered lexeme as a token of type typ and clears the buffer.
// It does nothing when the buffer is empty.
func (s *Scope) Emit(typ string) {
	if s.buffer.Len() == 0 {
		return
	}
	tok := Token{
		Type:   typ,
		Lexeme: s.buffer.String(),
		Line:   s.start.line,
		Column: s.start.column,
	}
	s.buffer.Reset()
	if !s.yield(tok) {
		s.halted = true
	}
}

// Unread asks for the current rune to be fed again once this step is over.
func (s *Scope) Unread() {
	if s.hasRune {
		s.unread = true
	}
}

// Halt stops the run after the current action.
func (s *Scope) Halt() { s.halted = true }
