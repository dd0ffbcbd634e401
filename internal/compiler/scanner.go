package compiler

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/aretw0/lexfsm/pkg/domain"
)

// symbolTerminator ends every free-text symbol block.
const symbolTerminator = '\x00'

// scanner reads the text format: whitespace separated scalars and NUL terminated blocks.
type scanner struct {
	r *bufio.Reader
}

func newScanner(r io.Reader) *scanner {
	return &scanner{r: bufio.NewReader(r)}
}

func isSpace(b byte) bool {
	switch b {
	case ' ', '\t', '\n', '\r', '\v', '\f':
		return true
	}
	return false
}

// token returns the next whitespace delimited word.
func (s *scanner) token() (string, error) {
	for {
		b, err := s.r.ReadByte()
		if err != nil {
			return "", eof(err)
		}
		if !isSpace(b) {
			_ = s.r.UnreadByte()
			break
		}
	}

	var sb strings.Builder
	for {
		b, err := s.r.ReadByte()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return "", err
		}
		if isSpace(b) {
			_ = s.r.UnreadByte()
			break
		}
		sb.WriteByte(b)
	}
	return sb.String(), nil
}

func (s *scanner) int() (int, error) {
	tok, err := s.token()
	if err != nil {
		return 0, err
	}
	v, err := strconv.Atoi(tok)
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not an integer", domain.ErrMalformed, tok)
	}
	return v, nil
}

// count reads a non-negative integer.
func (s *scanner) count(what string) (int, error) {
	v, err := s.int()
	if err != nil {
		return 0, err
	}
	if v < 0 {
		return 0, fmt.Errorf("%w: negative %s %d", domain.ErrMalformed, what, v)
	}
	return v, nil
}

// skipLine discards the rest of the current line. Reaching EOF is not an error.
func (s *scanner) skipLine() error {
	_, err := s.r.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// block returns everything up to the next symbol terminator, which is consumed.
func (s *scanner) block() (string, error) {
	raw, err := s.r.ReadString(symbolTerminator)
	if err != nil {
		return "", eof(err)
	}
	return raw[:len(raw)-1], nil
}

func eof(err error) error {
	if errors.Is(err, io.EOF) {
		return io.ErrUnexpectedEOF
	}
	return err
}

// classify turns scanner failures into the sentinel errors exposed by the package.
func classify(section string, index int, err error) error {
	if errors.Is(err, io.ErrUnexpectedEOF) {
		err = fmt.Errorf("%w: %w", domain.ErrTruncated, err)
	}
	return &ParseError{Section: section, Index: index, Err: err}
}
