/*
Package repertoire builds a tree of opening lines from PGN movetext and walks
those lines against a live chess position.

Example usage:

	mt := repertoire.NewMoveTree()
	if err := mt.AddText("1. e4 e5 (1... c5 2. Nf3) 2. Nf3 Nc6"); err != nil {
		log.Fatal(err)
	}

	for _, line := range mt.Lines() {
		fmt.Println(mt.Resolve(line)) // [e4 e5 Nf3 Nc6], [e4 c5 Nf3]
	}

	it := mt.Iterate(mt.Lines()[0])
	move, err := it.Next()
*/
package repertoire

import (
	"errors"
	"fmt"

	"github.com/corentings/repertoire/tree"
)

var (
	// ErrNestedVariation is returned when a variation is opened twice without
	// a move in between.
	ErrNestedVariation = errors.New("variation opened twice without a move")
	// ErrUnbalancedVariation is returned when variation delimiters do not pair up.
	ErrUnbalancedVariation = errors.New("unbalanced variation")
	// ErrVariationAtRoot is returned when a variation is opened before the
	// first move of a line.
	ErrVariationAtRoot = errors.New("variation opened before any move")
)

// ParseError describes a corpus fault found while folding movetext into a
// MoveTree.
type ParseError struct {
	Message    string
	TokenType  TokenType
	TokenValue string
	Position   int // byte offset into the text
	Err        error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("pgn: %s at offset %d (%s %q)", e.Message, e.Position, e.TokenType, e.TokenValue)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// lineState is the state of the builder for one line of movetext.
type lineState int

const (
	stateMainLine lineState = iota
	stateVariationPending
)

// parser holds the state needed while folding tokens into a tree.
type parser struct {
	tree     *tree.Tree[string]
	tokens   []Token
	position int
}

func newParser(t *tree.Tree[string], tokens []Token) *parser {
	return &parser{tree: t, tokens: tokens}
}

// currentToken returns the current token being processed.
func (p *parser) currentToken() Token {
	if p.position >= len(p.tokens) {
		return Token{Type: EOF}
	}
	return p.tokens[p.position]
}

// advance moves to the next token.
func (p *parser) advance() {
	p.position++
}

func (p *parser) fault(tok Token, err error) *ParseError {
	return &ParseError{
		Message:    err.Error(),
		TokenType:  tok.Type,
		TokenValue: tok.Value,
		Position:   tok.Offset,
		Err:        err,
	}
}

// check runs the line state machine over the tokens without touching the
// tree, so that a faulty text never leaves a half-folded tree behind.
func (p *parser) check() error {
	type level struct {
		state   lineState
		hasMove bool
	}
	stack := []level{{state: stateMainLine}}
	var last Token

	for _, tok := range p.tokens {
		top := &stack[len(stack)-1]
		switch tok.Type {
		case MOVE:
			if top.state == stateVariationPending {
				top.state = stateMainLine
				stack = append(stack, level{state: stateMainLine, hasMove: true})
				continue
			}
			top.hasMove = true

		case VariationStart:
			switch {
			case top.state == stateVariationPending:
				return p.fault(tok, ErrNestedVariation)
			case !top.hasMove:
				return p.fault(tok, ErrVariationAtRoot)
			}
			top.state = stateVariationPending

		case VariationEnd:
			if top.state == stateVariationPending || len(stack) == 1 {
				return p.fault(tok, ErrUnbalancedVariation)
			}
			stack = stack[:len(stack)-1]
		}
		last = tok
	}

	if len(stack) > 1 || stack[0].state == stateVariationPending {
		return p.fault(last, ErrUnbalancedVariation)
	}
	return nil
}

// foldLine extends the line that continues from main until the matching
// VariationEnd or the end of input. A move right after VariationStart is a
// sibling of main: it shares the position before main was played.
func (p *parser) foldLine(main tree.NodeID) {
	state := stateMainLine
	for p.position < len(p.tokens) {
		tok := p.currentToken()
		p.advance()

		switch tok.Type {
		case MOVE:
			if state == stateVariationPending {
				state = stateMainLine
				p.foldLine(p.tree.ForkOrFind(main, tok.Value))
				continue
			}
			main = p.tree.BranchOrFind(main, tok.Value)

		case VariationStart:
			state = stateVariationPending

		case VariationEnd:
			return
		}
	}
}
