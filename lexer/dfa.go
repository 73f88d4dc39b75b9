package lexer

import (
	"fmt"
	"strings"

	"github.com/metaphox/drawlang/ast"
)

// State is a transition-engine state. Both engines share the numbering.
type State int

const (
	StateStart State = iota
	StateIdent
	StateInt
	StateFrac // digits '.' digits*
	StateMul
	StatePower
	StateDiv
	StateMinus
	StatePlus
	StateComma
	StateSemi
	StateLParen
	StateRParen
	StateComment
	StateExpMark   // digits [. digits] e
	StateExpSign   // ... e +|-
	StateExpDigits // ... e [+|-] digits

	numStates
)

// accepts maps each state to the token kind it accepts. Non-accepting states
// map to ast.Invalid.
var accepts = [numStates]ast.TokenKind{
	StateStart:     ast.Invalid,
	StateIdent:     ast.Identifier,
	StateInt:       ast.Literal,
	StateFrac:      ast.Literal,
	StateMul:       ast.Operator,
	StatePower:     ast.Operator,
	StateDiv:       ast.Operator,
	StateMinus:     ast.Operator,
	StatePlus:      ast.Operator,
	StateComma:     ast.Punctuation,
	StateSemi:      ast.Punctuation,
	StateLParen:    ast.Punctuation,
	StateRParen:    ast.Punctuation,
	StateComment:   ast.Comment,
	StateExpMark:   ast.Invalid,
	StateExpSign:   ast.Invalid,
	StateExpDigits: ast.Literal,
}

// Engine recognises one lexeme at a time, one byte per Feed.
//
// Feed commits the transition and returns true, or leaves the engine
// untouched and returns false. It never panics. Save pushes the current
// state and input length; Restore pops the latest checkpoint back.
type Engine interface {
	// Reset returns to the start state and clears the input and checkpoints.
	Reset()
	// Feed attempts a transition on c.
	Feed(c byte) bool
	// Accepting reports whether the current state is accepting.
	Accepting() bool
	// Kind returns the token kind of the current state, or ast.Invalid.
	Kind() ast.TokenKind
	// State returns the current state.
	State() State
	// Input returns the bytes accepted by Feed since Reset.
	Input() string
	// Save pushes a checkpoint.
	Save()
	// Restore pops the latest checkpoint; false if there is none.
	Restore() bool
}

// EngineKind selects a transition-engine implementation.
type EngineKind int

const (
	// TableDriven looks transitions up in precomputed tables.
	TableDriven EngineKind = iota
	// HardCoded computes transitions with a switch.
	HardCoded
)

func (k EngineKind) String() string {
	if k == HardCoded {
		return "coded"
	}
	return "table"
}

// ParseEngineKind accepts "table" or "coded" (also "hard", "hardcoded").
func ParseEngineKind(s string) (EngineKind, error) {
	switch strings.ToLower(s) {
	case "table", "tabledriven", "table-driven":
		return TableDriven, nil
	case "coded", "hard", "hardcoded", "hard-coded":
		return HardCoded, nil
	}
	return TableDriven, fmt.Errorf("unknown engine %q (want table or coded)", s)
}

// NewEngine returns a fresh engine of the given kind.
func NewEngine(kind EngineKind) Engine {
	if kind == HardCoded {
		return NewHardCoded()
	}
	return NewTableDriven()
}

// ── Shared engine state ───────────────────────────────────────────────────────

type checkpoint struct {
	state State
	n     int
}

// machine holds what both engines have in common: the state, the accepted
// bytes and the checkpoint stack. The engines differ only in how Feed finds
// the next state.
type machine struct {
	state State
	input []byte
	saved []checkpoint
}

func (m *machine) Reset() {
	m.state = StateStart
	m.input = m.input[:0]
	m.saved = m.saved[:0]
}

func (m *machine) Accepting() bool     { return accepts[m.state] != ast.Invalid }
func (m *machine) Kind() ast.TokenKind { return accepts[m.state] }
func (m *machine) State() State        { return m.state }
func (m *machine) Input() string       { return string(m.input) }

func (m *machine) Save() {
	m.saved = append(m.saved, checkpoint{m.state, len(m.input)})
}

func (m *machine) Restore() bool {
	if len(m.saved) == 0 {
		return false
	}
	cp := m.saved[len(m.saved)-1]
	m.saved = m.saved[:len(m.saved)-1]
	m.state, m.input = cp.state, m.input[:cp.n]
	return true
}

func (m *machine) commit(next State, c byte) {
	m.state = next
	m.input = append(m.input, c)
}

func isLetter(c byte) bool {
	return 'a' <= c && c <= 'z' || 'A' <= c && c <= 'Z' || c == '_'
}

func isDigit(c byte) bool { return '0' <= c && c <= '9' }
