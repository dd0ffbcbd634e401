package lexfsm

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"

	"github.com/aretw0/lexfsm/internal/compiler"
	"github.com/aretw0/lexfsm/internal/runtime"
	"github.com/aretw0/lexfsm/internal/validator"
	"github.com/aretw0/lexfsm/pkg/adapters/file"
	"github.com/aretw0/lexfsm/pkg/domain"
	"github.com/aretw0/lexfsm/pkg/lexer"
	"github.com/aretw0/lexfsm/pkg/ports"
)

// Version is the library and CLI version. Release builds override it with -ldflags.
var Version = "0.1.0-dev"

// Format selects the syntax of a description.
type Format = compiler.Format

const (
	FormatAuto = compiler.FormatAuto
	FormatText = compiler.FormatText
	FormatYAML = compiler.FormatYAML
)

// Machine is the high-level entry point for the library.
// It wraps a validated Definition and the transition engine running it.
// A Machine holds no cursor and is safe for concurrent use.
type Machine struct {
	def     *domain.Definition
	engine  *runtime.Engine
	loader  ports.DescriptionLoader
	hooks   domain.LifecycleHooks
	logger  *slog.Logger
	format  Format
	name    string
	lexOpts []lexer.Option
}

// Option defines a functional option for configuring the Machine.
type Option func(*Machine)

// WithLoader injects a custom DescriptionLoader, bypassing the default file store.
// The path given to New is then the description name within the loader.
func WithLoader(l ports.DescriptionLoader) Option {
	return func(m *Machine) {
		m.loader = l
	}
}

// WithLogger sets a custom structured logger for the machine.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Machine) {
		m.logger = logger
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(m *Machine) {
		m.hooks = hooks
	}
}

// WithFormat forces the description format instead of detecting it from the name.
func WithFormat(f Format) Option {
	return func(m *Machine) {
		m.format = f
	}
}

// WithName labels the definition. It defaults to the description name.
func WithName(name string) Option {
	return func(m *Machine) {
		m.name = name
	}
}

// WithLexerOptions sets the options of every lexer returned by Lexer.
func WithLexerOptions(opts ...lexer.Option) Option {
	return func(m *Machine) {
		m.lexOpts = append(m.lexOpts, opts...)
	}
}

// New loads, parses and validates the description at path.
// By default it reads the file system; with WithLoader, path names a description of that loader.
func New(path string, opts ...Option) (*Machine, error) {
	return NewContext(context.Background(), path, opts...)
}

// NewContext is New with a context for the loader.
func NewContext(ctx context.Context, path string, opts ...Option) (*Machine, error) {
	m := newMachine(opts)

	if path == "" {
		return nil, fmt.Errorf("description path is required")
	}

	key := path
	if m.loader == nil {
		abs, err := filepath.Abs(path)
		if err != nil {
			return nil, fmt.Errorf("invalid path: %w", err)
		}
		m.loader = file.New(filepath.Dir(abs))
		key = filepath.Base(abs)
	}

	data, err := m.loader.GetDescription(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("failed to load description: %w", err)
	}

	if m.name == "" {
		m.name = key
	}
	return m.compile(data)
}

// NewFromReader parses a description read from r.
func NewFromReader(r io.Reader, opts ...Option) (*Machine, error) {
	m := newMachine(opts)
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read description: %w", err)
	}
	return m.compile(data)
}

// NewFromDefinition wraps an already validated definition, such as one built with pkg/dsl.
func NewFromDefinition(def *domain.Definition, opts ...Option) *Machine {
	m := newMachine(opts)
	m.init(def)
	return m
}

func newMachine(opts []Option) *Machine {
	m := &Machine{}
	for _, opt := range opts {
		opt(m)
	}
	// Ensure logger is initialized (so we don't pass nil to runtime, which would overwrite its default)
	if m.logger == nil {
		m.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return m
}

func (m *Machine) compile(data []byte) (*Machine, error) {
	parser := compiler.NewParser(
		compiler.WithFormat(m.format),
		compiler.WithLogger(m.logger),
	)
	def, err := parser.Parse(m.name, data)
	if err != nil {
		return nil, err
	}
	m.init(def)
	return m, nil
}

func (m *Machine) init(def *domain.Definition) {
	m.def = def
	if def.Name() != "" {
		m.logger = m.logger.With("definition", def.Name())
	}
	m.engine = runtime.NewEngine(def,
		runtime.WithLogger(m.logger),
		runtime.WithLifecycleHooks(m.hooks),
	)
}

// Definition returns the validated tables.
func (m *Machine) Definition() *domain.Definition { return m.def }

// Name returns the definition label.
func (m *Machine) Name() string { return m.def.Name() }

// Start returns the initial cursor value.
func (m *Machine) Start() int { return m.engine.Start() }

// Next consumes symbol from the cursor, firing callbacks through h.
// It returns false if h stopped the traversal.
func (m *Machine) Next(cursor *int, symbol int, h domain.Handler) bool {
	return m.engine.Next(cursor, symbol, h)
}

// Prime walks the Null chain at the cursor without consuming a symbol.
func (m *Machine) Prime(cursor *int, h domain.Handler) bool {
	return m.engine.Prime(cursor, h)
}

// Destination returns the state reached from state on symbol, without side effects.
func (m *Machine) Destination(state, symbol int) int {
	return m.engine.Destination(state, symbol)
}

// Loader returns the loader the description was read from, or nil.
func (m *Machine) Loader() ports.DescriptionLoader { return m.loader }

// Lexer returns a tokenizer driving this machine.
// opts are applied after those given with WithLexerOptions.
func (m *Machine) Lexer(opts ...lexer.Option) *lexer.Lexer {
	all := append([]lexer.Option{lexer.WithLogger(m.logger)}, m.lexOpts...)
	return lexer.New(m.engine, append(all, opts...)...)
}

// Tokenize runs a new lexer over r.
func (m *Machine) Tokenize(ctx context.Context, r io.Reader) ([]lexer.Token, error) {
	return m.Lexer().Tokenize(ctx, r)
}

// Encode writes the definition in the text format.
func (m *Machine) Encode(w io.Writer) error {
	return compiler.EncodeText(w, m.def)
}

// EncodeString returns the definition in the text format.
func (m *Machine) EncodeString() (string, error) {
	var buf bytes.Buffer
	err := m.Encode(&buf)
	return buf.String(), err
}

// Lint reports tables that load fine but are likely mistakes. It returns nil or a *validator.Error.
func (m *Machine) Lint() error {
	return validator.Lint(m.def)
}
