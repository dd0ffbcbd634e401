package lexfsm_test

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/aretw0/lexfsm"
	"github.com/aretw0/lexfsm/pkg/adapters/memory"
	"github.com/aretw0/lexfsm/pkg/domain"
	"github.com/aretw0/lexfsm/pkg/dsl"
	"github.com/aretw0/lexfsm/pkg/lexer"
)

// ExampleNew_memory demonstrates how to load a description from an in-memory store.
func ExampleNew_memory() {
	// Two states over one symbol; "b" chains back to "a" and fires "ping".
	loader := memory.NewStore(map[string]string{
		"ping.fsm": "2 1 0\na 0 0\nb 0 1 ping\nx\x00\nL 1\nN 0\n",
	})

	m, err := lexfsm.New("ping.fsm", lexfsm.WithLoader(loader))
	if err != nil {
		log.Fatal(err)
	}

	cursor := m.Start()
	m.Next(&cursor, 0, domain.HandlerFunc(func(state, symbol int, callback string) bool {
		fmt.Printf("%s fired %s on symbol %d\n", m.Definition().StateName(state), callback, symbol)
		return true
	}))
	fmt.Println("cursor:", m.Definition().StateName(cursor))

	// Output:
	// b fired ping on symbol 0
	// cursor: a
}

// ExampleNewFromDefinition tokenizes with a machine built in Go.
func ExampleNewFromDefinition() {
	b := dsl.New("sums", "0123456789", "+")
	b.Add("start").On("0123456789", "num").On("+", "plus")
	b.Add("num").On("0123456789", "num").Fallback("num_end").Do("push")
	b.Add("num_end").Chain("start").Do("emit:NUM", "unread")
	b.Add("plus").Chain("start").Do("push", "emit:PLUS")

	def, err := b.Build()
	if err != nil {
		log.Fatal(err)
	}

	m := lexfsm.NewFromDefinition(def)
	tokens, err := m.Tokenize(context.Background(), strings.NewReader("12+3"))
	if err != nil {
		log.Fatal(err)
	}
	for _, tok := range tokens {
		fmt.Println(tok)
	}

	// Output:
	// 1:1 NUM "12"
	// 1:3 PLUS "+"
	// 1:4 NUM "3"
}

// ExampleMachine_Lexer registers a custom action.
func ExampleMachine_Lexer() {
	m, err := lexfsm.New("examples/descriptions/words.yaml")
	if err != nil {
		log.Fatal(err)
	}

	words := 0
	lx := m.Lexer(lexer.WithAction("emit:WORD", func(s *lexer.Scope) bool {
		words++
		s.Reset()
		return true
	}))

	tokens, err := lx.TokenizeString(context.Background(), "let x = 42;")
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println("words:", words)
	for _, tok := range tokens {
		fmt.Println(tok.Type, tok.Lexeme)
	}

	// Output:
	// words: 2
	// PUNCT =
	// NUMBER 42
	// PUNCT ;
}
