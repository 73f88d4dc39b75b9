// Package ast defines the tokens, source locations and syntax tree of the
// DrawLang drawing language.
//
// Tokens are the smallest meaningful units of a DrawLang program. Every token
// carries its kind, the exact lexeme it was scanned from, its source location
// and a kind-specific payload. Location is 1-based: the first character of a
// file is Line 1, Col 1 (Offset 0).
package ast

import "fmt"

// TokenKind identifies the category of a scanned token.
// The zero value is Invalid.
type TokenKind int

const (
	// Invalid represents a character or sequence the lexer could not
	// recognise. The token's Err and Message describe the problem.
	Invalid TokenKind = iota
	// EOF marks the end of the input. The lexer keeps returning it once reached.
	EOF
	// Keyword is a structural keyword, the loop parameter T, or a built-in
	// function name. Tag says which.
	Keyword
	// Identifier is a name that is not in the symbol table.
	Identifier
	// Literal is a numeric literal or a named constant such as PI.
	Literal
	// Operator is one of + - * / **.
	Operator
	// Punctuation is one of ( ) , ;.
	Punctuation
	// Comment is a // or -- line comment. The lexer skips these; the kind
	// exists so the transition engines can report it.
	Comment
)

var kindNames = [...]string{
	Invalid:     "Invalid",
	EOF:         "EOF",
	Keyword:     "Keyword",
	Identifier:  "Identifier",
	Literal:     "Literal",
	Operator:    "Operator",
	Punctuation: "Punctuation",
	Comment:     "Comment",
}

func (k TokenKind) String() string {
	if k >= 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("TokenKind(%d)", int(k))
}

// Tag resolves Keyword, Operator and Punctuation tokens to the grammar
// symbol they stand for. The parser matches on tags only.
type Tag int

const (
	// NoTag is carried by tokens that have no tag (identifiers, literals, EOF).
	NoTag Tag = iota

	// ── Statement keywords ────────────────────────────────────────────────────

	Origin
	Scale
	Rot
	Is
	For
	From
	To
	Step
	Draw
	Color
	Size

	// ── Expression keywords ───────────────────────────────────────────────────

	// Param is the loop parameter T.
	Param
	// Func is any built-in function name (SIN, COS, ...).
	Func

	// ── Operators ─────────────────────────────────────────────────────────────

	Plus
	Minus
	Mul
	Div
	Power

	// ── Punctuation ───────────────────────────────────────────────────────────

	LParen
	RParen
	Semi
	Comma
)

var tagNames = [...]string{
	NoTag:  "<none>",
	Origin: "ORIGIN",
	Scale:  "SCALE",
	Rot:    "ROT",
	Is:     "IS",
	For:    "FOR",
	From:   "FROM",
	To:     "TO",
	Step:   "STEP",
	Draw:   "DRAW",
	Color:  "COLOR",
	Size:   "SIZE",
	Param:  "T",
	Func:   "FUNC",
	Plus:   "+",
	Minus:  "-",
	Mul:    "*",
	Div:    "/",
	Power:  "**",
	LParen: "(",
	RParen: ")",
	Semi:   ";",
	Comma:  ",",
}

// String returns the surface spelling of the tag, e.g. "ORIGIN" or "**".
func (t Tag) String() string {
	if t >= 0 && int(t) < len(tagNames) {
		return tagNames[t]
	}
	return fmt.Sprintf("Tag(%d)", int(t))
}

// LiteralKind distinguishes integer from floating-point literals.
type LiteralKind int

const (
	Integer LiteralKind = iota
	Float
)

func (k LiteralKind) String() string {
	if k == Float {
		return "Float"
	}
	return "Integer"
}

// ErrorKind classifies Invalid tokens.
type ErrorKind int

const (
	// UnknownCharacter is a character no token can start with.
	UnknownCharacter ErrorKind = iota
	// InvalidNumber is text the lexer started but could not finish as a token.
	InvalidNumber
)

func (k ErrorKind) String() string {
	if k == InvalidNumber {
		return "InvalidNumber"
	}
	return "UnknownCharacter"
}

// Location is a position in a source file. It is an immutable value.
type Location struct {
	File   string
	Line   int // 1-based
	Col    int // 1-based
	Offset int // 0-based byte offset
}

// String renders the location as file:line:col, or line:col for unnamed input.
func (l Location) String() string {
	if l.File == "" {
		return fmt.Sprintf("%d:%d", l.Line, l.Col)
	}
	return fmt.Sprintf("%s:%d:%d", l.File, l.Line, l.Col)
}

// Token is a single lexical unit produced by the DrawLang lexer.
//
// Payload fields are meaningful only for some kinds:
//   - Tag: Keyword, Operator and Punctuation
//   - Literal: Literal
//   - Err, Message: Invalid
type Token struct {
	Kind    TokenKind
	Lexeme  string
	Loc     Location
	Tag     Tag
	Literal LiteralKind
	Err     ErrorKind
	Message string
}

// Is reports whether the token resolves to tag. Only Keyword, Operator and
// Punctuation tokens carry tags.
func (t Token) Is(tag Tag) bool {
	switch t.Kind {
	case Keyword, Operator, Punctuation:
		return t.Tag == tag
	}
	return false
}

// String returns the lexeme, or "EOF" for the end-of-input token.
func (t Token) String() string {
	if t.Kind == EOF {
		return "EOF"
	}
	return t.Lexeme
}
