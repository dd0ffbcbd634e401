package compiler

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/aretw0/lexfsm/pkg/domain"
)

// Format selects the description syntax.
type Format string

const (
	FormatAuto Format = ""     // Chosen from the description name
	FormatText Format = "text" // Whitespace/NUL delimited table dump
	FormatYAML Format = "yaml" // YAML or JSON document
)

// FormatFor picks the format of a description from its name extension.
// Anything that is not YAML or JSON is read as text.
func FormatFor(name string) Format {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".yaml", ".yml", ".json":
		return FormatYAML
	default:
		return FormatText
	}
}

// ParseError reports where a description stopped making sense.
// It wraps one of the domain sentinel errors (ErrTruncated, ErrMalformed, ErrUnknownMarker).
type ParseError struct {
	Section string // header, state, symbol, row or document
	Index   int    // state or symbol index, -1 when not applicable
	Err     error
}

func (e *ParseError) Error() string {
	if e.Index < 0 {
		return fmt.Sprintf("%s: %v", e.Section, e.Err)
	}
	return fmt.Sprintf("%s %d: %v", e.Section, e.Index, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Parser is responsible for converting raw description bytes into a Definition.
type Parser struct {
	format Format
	logger *slog.Logger
}

// Option configures a Parser.
type Option func(*Parser)

// WithFormat forces a description format instead of detecting it from the name.
func WithFormat(f Format) Option {
	return func(p *Parser) {
		p.format = f
	}
}

// WithLogger sets the logger used to report parsed definitions.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Parser) {
		p.logger = logger
	}
}

// NewParser creates a new parser instance.
func NewParser(opts ...Option) *Parser {
	p := &Parser{
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Parse decodes a named description. The name labels the resulting definition and,
// unless a format was forced, selects the syntax.
func (p *Parser) Parse(name string, data []byte) (*domain.Definition, error) {
	format := p.format
	if format == FormatAuto {
		format = FormatFor(name)
	}

	var (
		def *domain.Definition
		err error
	)
	switch format {
	case FormatText:
		def, err = ParseText(name, bytes.NewReader(data))
	case FormatYAML:
		def, err = ParseYAML(name, data)
	default:
		return nil, fmt.Errorf("unsupported description format %q", format)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", name, err)
	}

	p.logger.Debug("description parsed",
		"name", name,
		"format", format,
		"states", def.NumStates(),
		"symbols", def.NumSymbols())
	return def, nil
}
