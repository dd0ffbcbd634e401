package lexer

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/aretw0/lexfsm/pkg/domain"
)

var (
	// ErrUnknownCallback is returned when a state names a callback with no action.
	ErrUnknownCallback = errors.New("unknown callback")
	// ErrNoProgress is returned when unread keeps feeding the same rune.
	ErrNoProgress = errors.New("no progress")
)

// EOFSymbol is the symbol fed once at end of input unless WithEOFSymbol says otherwise.
// It lies outside every alphabet, so List states take their fallback.
const EOFSymbol = domain.NoSymbol

// ctxCheckInterval is how many runes are read between context checks.
const ctxCheckInterval = 1024

// Machine is the transition engine a Lexer drives.
type Machine interface {
	Definition() *domain.Definition
	Start() int
	Prime(cursor *int, h domain.Handler) bool
	Next(cursor *int, symbol int, h domain.Handler) bool
}

// ActionFunc implements a callback name. Returning false stops the run.
type ActionFunc func(s *Scope) bool

// Token is a lexeme emitted by an action.
type Token struct {
	Type   string `json:"type"`
	Lexeme string `json:"lexeme"`
	Line   int    `json:"line"`
	Column int    `json:"column"`
}

func (t Token) String() string {
	return fmt.Sprintf("%d:%d %s %q", t.Line, t.Column, t.Type, t.Lexeme)
}

// Lexer tokenizes input with a Machine. It holds no per-run state and is safe for concurrent use.
type Lexer struct {
	machine       Machine
	symbols       *SymbolTable
	actions       map[string]ActionFunc
	ignoreUnknown bool
	eofSymbol     int
	logger        *slog.Logger
}

// Option configures a Lexer.
type Option func(*Lexer)

// WithSymbolTable replaces the table built from the definition's alphabet.
func WithSymbolTable(t *SymbolTable) Option {
	return func(l *Lexer) {
		l.symbols = t
	}
}

// WithAction registers fn under name. Registered actions take precedence over built-in ones.
func WithAction(name string, fn ActionFunc) Option {
	return func(l *Lexer) {
		l.actions[name] = fn
	}
}

// WithIgnoreUnknown makes unknown callback names a no-op instead of an error.
func WithIgnoreUnknown() Option {
	return func(l *Lexer) {
		l.ignoreUnknown = true
	}
}

// WithEOFSymbol sets the symbol fed at end of input.
func WithEOFSymbol(symbol int) Option {
	return func(l *Lexer) {
		l.eofSymbol = symbol
	}
}

// WithLogger sets the lexer logger.
func WithLogger(logger *slog.Logger) Option {
	return func(l *Lexer) {
		l.logger = logger
	}
}

// New creates a lexer driving m.
func New(m Machine, opts ...Option) *Lexer {
	l := &Lexer{
		machine:   m,
		actions:   make(map[string]ActionFunc),
		eofSymbol: EOFSymbol,
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(l)
	}
	if l.symbols == nil {
		l.symbols = NewSymbolTable(m.Definition().Symbols())
	}
	return l
}

// Symbols returns the table used to map runes.
func (l *Lexer) Symbols() *SymbolTable { return l.symbols }

// Run tokenizes r, passing every token to yield until yield returns false,
// a halt action runs or the input ends.
func (l *Lexer) Run(ctx context.Context, r io.Reader, yield func(Token) bool) error {
	s := &Scope{
		lexer:  l,
		symbol: domain.NoSymbol,
		pos:    position{line: 1, column: 1},
		yield:  yield,
	}
	h := &handler{scope: s}

	cursor := l.machine.Start()
	if !l.machine.Prime(&cursor, h) {
		return h.err
	}

	limit := max(l.machine.Definition().NumStates(), 1)
	in := bufio.NewReader(r)
	for n := 0; ; n++ {
		if n%ctxCheckInterval == 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
		}

		ch, _, err := in.ReadRune()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return fmt.Errorf("failed to read input: %w", err)
		}

		for repeats := 0; ; repeats++ {
			if repeats > limit {
				return fmt.Errorf("%w: rune %q at %d:%d re-read %d times", ErrNoProgress, ch, s.pos.line, s.pos.column, repeats)
			}
			s.current, s.hasRune, s.unread = ch, true, false
			if !l.machine.Next(&cursor, l.symbols.Lookup(ch), h) {
				return h.err
			}
			if !s.unread {
				break
			}
		}
		s.pos.advance(ch)
	}

	s.current, s.hasRune = 0, false
	l.machine.Next(&cursor, l.eofSymbol, h)
	if h.err == nil && s.buffer.Len() > 0 {
		l.logger.Debug("input ended with a pending lexeme", "lexeme", s.buffer.String(), "state", cursor)
	}
	return h.err
}

// Tokenize collects every token of r.
func (l *Lexer) Tokenize(ctx context.Context, r io.Reader) ([]Token, error) {
	var tokens []Token
	err := l.Run(ctx, r, func(t Token) bool {
		tokens = append(tokens, t)
		return true
	})
	return tokens, err
}

// TokenizeString collects every token of s.
func (l *Lexer) TokenizeString(ctx context.Context, s string) ([]Token, error) {
	return l.Tokenize(ctx, strings.NewReader(s))
}

// handler resolves callback names to actions for a single run.
type handler struct {
	scope *Scope
	err   error
}

func (h *handler) Handle(state, symbol int, callback string) bool {
	s := h.scope
	s.state, s.symbol = state, symbol
	l := s.lexer

	if fn, ok := l.actions[callback]; ok {
		return fn(s) && !s.halted
	}

	switch {
	case callback == "push":
		if s.hasRune {
			s.Push(s.current)
		}
	case callback == "emit":
		s.Emit(s.StateName())
	case strings.HasPrefix(callback, "emit:"):
		s.Emit(strings.TrimPrefix(callback, "emit:"))
	case callback == "reset":
		s.Reset()
	case callback == "unread":
		s.Unread()
	case callback == "halt":
		s.Halt()
	case l.ignoreUnknown:
		l.logger.Debug("ignoring unknown callback", "callback", callback, "state", state)
	default:
		h.err = fmt.Errorf("%w %q in state %d (%s)", ErrUnknownCallback, callback, state, s.StateName())
		return false
	}
	return !s.halted
}
