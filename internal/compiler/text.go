package compiler

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/aretw0/lexfsm/pkg/domain"
)

// preallocLimit caps slice preallocation driven by counts read from the input,
// so a corrupt header cannot request an absurd allocation up front.
const preallocLimit = 1 << 12

// ParseText reads a description in the text format:
//
//	n_states n_symbols start_state
//	name fallback k callback_1 ... callback_k     (n_states lines)
//	symbol_0 NUL symbol_1 NUL ...                 (n_symbols blocks)
//	L dst_0 ... dst_{n_symbols-1} | N target      (n_states rows)
//
// The result is validated; no partial definition is ever returned.
func ParseText(name string, r io.Reader) (*domain.Definition, error) {
	s := newScanner(r)

	nStates, err := s.count("state count")
	if err != nil {
		return nil, classify("header", -1, err)
	}
	nSymbols, err := s.count("symbol count")
	if err != nil {
		return nil, classify("header", -1, err)
	}
	start, err := s.int()
	if err != nil {
		return nil, classify("header", -1, err)
	}

	states := make([]domain.State, 0, min(nStates, preallocLimit))
	for i := 0; i < nStates; i++ {
		st, err := parseStateHeader(s)
		if err != nil {
			return nil, classify("state", i, err)
		}
		states = append(states, st)
	}

	if err := s.skipLine(); err != nil {
		return nil, classify("symbol", 0, err)
	}

	symbols := make([]string, 0, min(nSymbols, preallocLimit))
	for i := 0; i < nSymbols; i++ {
		sym, err := s.block()
		if err != nil {
			return nil, classify("symbol", i, err)
		}
		symbols = append(symbols, sym)
	}

	for i := range states {
		row, err := parseRow(s, nSymbols)
		if err != nil {
			return nil, classify("row", i, err)
		}
		states[i].Row = row
	}

	return domain.NewDefinition(name, symbols, states, start)
}

func parseStateHeader(s *scanner) (domain.State, error) {
	var st domain.State
	var err error

	if st.Name, err = s.token(); err != nil {
		return st, err
	}
	if st.Fallback, err = s.int(); err != nil {
		return st, err
	}
	k, err := s.count("callback count")
	if err != nil {
		return st, err
	}
	if k > 0 {
		st.Callbacks = make([]string, 0, min(k, preallocLimit))
	}
	for j := 0; j < k; j++ {
		cb, err := s.token()
		if err != nil {
			return st, err
		}
		st.Callbacks = append(st.Callbacks, cb)
	}
	return st, nil
}

func parseRow(s *scanner, nSymbols int) (domain.Row, error) {
	marker, err := s.token()
	if err != nil {
		return nil, err
	}

	switch marker {
	case "L":
		row := make(domain.ListRow, 0, min(nSymbols, preallocLimit))
		for j := 0; j < nSymbols; j++ {
			dst, err := s.int()
			if err != nil {
				return nil, err
			}
			row = append(row, dst)
		}
		return row, nil
	case "N":
		target, err := s.int()
		if err != nil {
			return nil, err
		}
		return domain.NullRow{Target: target}, nil
	default:
		return nil, fmt.Errorf("%w %q", domain.ErrUnknownMarker, marker)
	}
}

// EncodeText writes def in the text format read by ParseText.
// State names and callbacks must be single non-empty words and symbols must not contain NUL.
func EncodeText(w io.Writer, def *domain.Definition) error {
	states := def.States()
	symbols := def.Symbols()

	for i, st := range states {
		if !isWord(st.Name) {
			return &ParseError{Section: "state", Index: i, Err: fmt.Errorf("%w: name %q is not a single word", domain.ErrMalformed, st.Name)}
		}
		for _, cb := range st.Callbacks {
			if !isWord(cb) {
				return &ParseError{Section: "state", Index: i, Err: fmt.Errorf("%w: callback %q is not a single word", domain.ErrMalformed, cb)}
			}
		}
	}
	for i, sym := range symbols {
		if strings.IndexByte(sym, symbolTerminator) >= 0 {
			return &ParseError{Section: "symbol", Index: i, Err: fmt.Errorf("%w: symbol contains NUL", domain.ErrMalformed)}
		}
	}

	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "%d %d %d\n", len(states), len(symbols), def.Start())

	for _, st := range states {
		bw.WriteString(st.Name)
		bw.WriteByte(' ')
		bw.WriteString(strconv.Itoa(st.Fallback))
		bw.WriteByte(' ')
		bw.WriteString(strconv.Itoa(len(st.Callbacks)))
		for _, cb := range st.Callbacks {
			bw.WriteByte(' ')
			bw.WriteString(cb)
		}
		bw.WriteByte('\n')
	}

	for _, sym := range symbols {
		bw.WriteString(sym)
		bw.WriteByte(symbolTerminator)
	}
	bw.WriteByte('\n')

	for _, st := range states {
		switch r := st.Row.(type) {
		case domain.ListRow:
			bw.WriteString("L")
			for _, dst := range r {
				bw.WriteByte(' ')
				bw.WriteString(strconv.Itoa(dst))
			}
		case domain.NullRow:
			fmt.Fprintf(bw, "N %d", r.Target)
		}
		bw.WriteByte('\n')
	}

	return bw.Flush()
}

func isWord(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if isSpace(s[i]) || s[i] == symbolTerminator {
			return false
		}
	}
	return true
}
