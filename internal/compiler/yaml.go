package compiler

import (
	"fmt"
	"math"
	"reflect"
	"strconv"

	"github.com/aretw0/lexfsm/pkg/domain"
	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// document is the YAML/JSON shape of a description.
// State references (start, fallback, chain, row and transitions entries) accept either a
// state name or a state index. In rows, ~ or -1 means "use the fallback".
type document struct {
	Name    string          `mapstructure:"name"`
	Start   any             `mapstructure:"start"`
	Symbols []string        `mapstructure:"symbols"`
	States  []documentState `mapstructure:"states"`
}

type documentState struct {
	Name        string         `mapstructure:"name"`
	Fallback    any            `mapstructure:"fallback"`
	Callbacks   []string       `mapstructure:"callbacks"`
	Row         []any          `mapstructure:"row"`
	Transitions map[string]any `mapstructure:"transitions"`
	Chain       any            `mapstructure:"chain"`
}

// ParseYAML reads a description written as a YAML (or JSON) document:
//
//	start: idle
//	symbols: ["0123456789", " "]
//	states:
//	  - name: idle
//	    fallback: idle
//	    transitions: {"0123456789": digit}
//	  - name: digit
//	    fallback: done
//	    callbacks: [push]
//	    row: [digit, ~]
//	  - name: done
//	    fallback: idle
//	    callbacks: ["emit:NUMBER", reset]
//	    chain: idle
//
// A missing fallback defaults to the start state. A state with neither row,
// transitions nor chain is a List state that always falls back. Unquoted
// numbers used as symbol names, e.g. transitions: {0: zero}, are read as text.
func ParseYAML(name string, data []byte) (*domain.Definition, error) {
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, &ParseError{Section: "document", Index: -1, Err: fmt.Errorf("%w: %w", domain.ErrMalformed, err)}
	}

	var doc document
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:  symbolNamesHook,
		ErrorUnused: true,
		Result:      &doc,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create decoder: %w", err)
	}
	if err := decoder.Decode(raw); err != nil {
		return nil, &ParseError{Section: "document", Index: -1, Err: fmt.Errorf("%w: %w", domain.ErrMalformed, err)}
	}

	if name == "" {
		name = doc.Name
	}

	index := make(map[string]int, len(doc.States))
	for i, st := range doc.States {
		if _, dup := index[st.Name]; !dup && st.Name != "" {
			index[st.Name] = i
		}
	}
	symbolIndex := make(map[string]int, len(doc.Symbols))
	for i, sym := range doc.Symbols {
		if _, dup := symbolIndex[sym]; !dup {
			symbolIndex[sym] = i
		}
	}

	start := 0
	if doc.Start != nil {
		if start, err = resolveRef(doc.Start, index); err != nil {
			return nil, &ParseError{Section: "header", Index: -1, Err: fmt.Errorf("start: %w", err)}
		}
	}

	states := make([]domain.State, len(doc.States))
	for i, ds := range doc.States {
		st, err := buildState(ds, start, len(doc.Symbols), index, symbolIndex)
		if err != nil {
			return nil, &ParseError{Section: "state", Index: i, Err: err}
		}
		states[i] = st
	}

	return domain.NewDefinition(name, doc.Symbols, states, start)
}

func buildState(ds documentState, start, nSymbols int, index, symbolIndex map[string]int) (domain.State, error) {
	st := domain.State{
		Name:      ds.Name,
		Fallback:  start,
		Callbacks: ds.Callbacks,
	}

	if ds.Fallback != nil {
		fb, err := resolveRef(ds.Fallback, index)
		if err != nil {
			return st, fmt.Errorf("fallback: %w", err)
		}
		st.Fallback = fb
	}

	forms := 0
	for _, set := range []bool{ds.Row != nil, ds.Transitions != nil, ds.Chain != nil} {
		if set {
			forms++
		}
	}
	if forms > 1 {
		return st, fmt.Errorf("%w: state %q mixes row, transitions and chain", domain.ErrMalformed, ds.Name)
	}

	switch {
	case ds.Chain != nil:
		target, err := resolveRef(ds.Chain, index)
		if err != nil {
			return st, fmt.Errorf("chain: %w", err)
		}
		st.Row = domain.NullRow{Target: target}

	case ds.Row != nil:
		row := make(domain.ListRow, len(ds.Row))
		for j, ref := range ds.Row {
			dst, err := resolveRowRef(ref, index)
			if err != nil {
				return st, fmt.Errorf("row[%d]: %w", j, err)
			}
			row[j] = dst
		}
		st.Row = row

	default:
		row := make(domain.ListRow, nSymbols)
		for j := range row {
			row[j] = domain.NoTransition
		}
		for sym, ref := range ds.Transitions {
			j, ok := symbolIndex[sym]
			if !ok {
				return st, fmt.Errorf("%w: transitions: unknown symbol %q", domain.ErrMalformed, sym)
			}
			dst, err := resolveRowRef(ref, index)
			if err != nil {
				return st, fmt.Errorf("transitions[%q]: %w", sym, err)
			}
			row[j] = dst
		}
		st.Row = row
	}

	return st, nil
}

// symbolNamesHook lets numeric YAML scalars name symbols: unquoted digits used as
// transitions keys or as symbols, callbacks and state names decode to their text.
func symbolNamesHook(from, to reflect.Type, data any) (any, error) {
	switch {
	case to.Kind() == reflect.String:
		if text, ok := numberText(data); ok {
			return text, nil
		}
	case to.Kind() == reflect.Map && to.Key().Kind() == reflect.String && from.Kind() == reflect.Map:
		if from.Key().Kind() == reflect.String {
			return data, nil
		}
		in := reflect.ValueOf(data)
		out := make(map[string]any, in.Len())
		iter := in.MapRange()
		for iter.Next() {
			key := iter.Key().Interface()
			text, ok := numberText(key)
			if !ok {
				s, isString := key.(string)
				if !isString {
					return nil, fmt.Errorf("%w: key %v is not a symbol name", domain.ErrMalformed, key)
				}
				text = s
			}
			out[text] = iter.Value().Interface()
		}
		return out, nil
	}
	return data, nil
}

func numberText(v any) (string, bool) {
	switch n := v.(type) {
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return fmt.Sprint(n), true
	case float32:
		return strconv.FormatFloat(float64(n), 'f', -1, 32), true
	case float64:
		return strconv.FormatFloat(n, 'f', -1, 64), true
	}
	return "", false
}

func resolveRowRef(ref any, index map[string]int) (int, error) {
	if ref == nil {
		return domain.NoTransition, nil
	}
	return resolveRef(ref, index)
}

// resolveRef maps a state name or numeric id to a state id. Range checks are left to validation.
func resolveRef(ref any, index map[string]int) (int, error) {
	switch v := ref.(type) {
	case string:
		id, ok := index[v]
		if !ok {
			return 0, fmt.Errorf("%w: unknown state %q", domain.ErrMalformed, v)
		}
		return id, nil
	case int:
		return v, nil
	case int64:
		return int(v), nil
	case uint64:
		if v > math.MaxInt32 {
			return 0, fmt.Errorf("%w: state id %d too large", domain.ErrMalformed, v)
		}
		return int(v), nil
	case float64:
		if v != math.Trunc(v) || math.Abs(v) > math.MaxInt32 {
			return 0, fmt.Errorf("%w: state id %v is not an integer", domain.ErrMalformed, v)
		}
		return int(v), nil
	default:
		return 0, fmt.Errorf("%w: unsupported state reference %v (%T)", domain.ErrMalformed, ref, ref)
	}
}
