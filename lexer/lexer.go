// Package lexer implements the DrawLang tokenizer.
//
// The lexer drives a transition [Engine] over a [Source] and converts the
// program text into a stream of [ast.Token] values. Call [New] (or
// [NewLexer] to choose the engine and symbol table) and then call
// [Lexer.NextToken] repeatedly until you receive a token with
// Kind == [ast.EOF].
//
// Design notes:
//   - Longest match: the lexer remembers the last accepting engine state and
//     rewinds the source to it when a later byte fails, so "1e" followed by a
//     non-digit yields the literal 1 and then rescans "e".
//   - Identifiers are classified through the [SymbolTable] after scanning,
//     which makes keywords, constants and function names case-insensitive.
//   - Comments (// … and -- …) run to end of line and are skipped unless
//     KeepComments is set.
//   - No global state; every Lexer owns its source and engine.
package lexer

import (
	"strings"

	"github.com/metaphox/drawlang/ast"
)

// opTags maps operator and punctuation lexemes to their tags.
var opTags = map[string]ast.Tag{
	"+":  ast.Plus,
	"-":  ast.Minus,
	"*":  ast.Mul,
	"/":  ast.Div,
	"**": ast.Power,
	"(":  ast.LParen,
	")":  ast.RParen,
	";":  ast.Semi,
	",":  ast.Comma,
}

// Lexer holds all state required to tokenize one source.
// Create one with [New] or [NewLexer]; never copy a Lexer after first use.
type Lexer struct {
	src     *Source
	dfa     Engine
	symbols *SymbolTable

	// KeepComments makes NextToken return Comment tokens instead of
	// skipping them. The lexeme is the whole comment without the newline.
	KeepComments bool
}

// New creates a Lexer over input using the table-driven engine and a fresh
// symbol table.
func New(input string) *Lexer {
	return NewLexer(NewSource("", input), nil, nil)
}

// NewLexer creates a Lexer over src. A nil engine selects the table-driven
// engine; nil symbols selects [NewSymbolTable].
func NewLexer(src *Source, engine Engine, symbols *SymbolTable) *Lexer {
	if engine == nil {
		engine = NewTableDriven()
	}
	if symbols == nil {
		symbols = NewSymbolTable()
	}
	return &Lexer{src: src, dfa: engine, symbols: symbols}
}

// Symbols returns the symbol table used to classify identifiers.
func (l *Lexer) Symbols() *SymbolTable { return l.symbols }

// SourceName returns the name of the underlying source.
func (l *Lexer) SourceName() string { return l.src.Name() }

// NextToken returns the next token from the input.
//
// Whitespace is skipped before each token. When the input is exhausted
// NextToken returns an EOF token on every subsequent call.
func (l *Lexer) NextToken() ast.Token {
	for {
		l.skipWhitespace()
		loc := l.src.Location()
		if l.src.AtEOF() {
			return ast.Token{Kind: ast.EOF, Loc: loc}
		}

		lexeme, kind, ok := l.scan()
		if !ok {
			return l.invalid(loc, lexeme)
		}
		if kind == ast.Comment {
			text := l.skipLine()
			if l.KeepComments {
				return ast.Token{Kind: ast.Comment, Lexeme: lexeme + text, Loc: loc}
			}
			continue
		}
		return l.classify(kind, lexeme, loc)
	}
}

// Tokens scans the remaining input and returns every token up to and
// including EOF.
func (l *Lexer) Tokens() []ast.Token {
	var toks []ast.Token
	for {
		tok := l.NextToken()
		toks = append(toks, tok)
		if tok.Kind == ast.EOF {
			return toks
		}
	}
}

// scan runs the engine from the current position and returns the longest
// accepted lexeme. ok is false when no prefix was accepted; the returned
// lexeme is then the consumed text (at least one byte).
func (l *Lexer) scan() (lexeme string, kind ast.TokenKind, ok bool) {
	l.dfa.Reset()
	var last Mark
	accepted := false

	for {
		c, more := l.src.Read()
		if !more {
			break
		}
		if !l.dfa.Feed(c) {
			l.src.Unread()
			break
		}
		if l.dfa.Accepting() {
			l.dfa.Save()
			last, accepted = l.src.Mark(), true
		}
	}

	if accepted {
		if !l.dfa.Accepting() {
			// Stopped in a non-accepting state: give back everything after
			// the last accepting position.
			l.dfa.Restore()
			l.src.Reset(last)
		}
		return l.dfa.Input(), l.dfa.Kind(), true
	}

	if in := l.dfa.Input(); in != "" {
		return in, ast.Invalid, false
	}
	// The very first byte has no transition; consume it anyway.
	c, _ := l.src.Read()
	return string(c), ast.Invalid, false
}

func (l *Lexer) invalid(loc ast.Location, lexeme string) ast.Token {
	tok := ast.Token{Kind: ast.Invalid, Lexeme: lexeme, Loc: loc, Err: ast.UnknownCharacter}
	if len(lexeme) > 1 {
		tok.Err = ast.InvalidNumber
	}
	tok.Message = "Unknown token: " + lexeme
	return tok
}

// classify turns an accepted lexeme into a token.
func (l *Lexer) classify(kind ast.TokenKind, lexeme string, loc ast.Location) ast.Token {
	tok := ast.Token{Kind: kind, Lexeme: lexeme, Loc: loc}
	switch kind {
	case ast.Identifier:
		sym, ok := l.symbols.Lookup(lexeme)
		if !ok {
			return tok
		}
		if sym.Kind == ast.Literal {
			tok.Kind, tok.Literal = ast.Literal, ast.Float
			return tok
		}
		tok.Kind, tok.Tag = ast.Keyword, sym.Tag
	case ast.Literal:
		if strings.ContainsAny(lexeme, ".eE") {
			tok.Literal = ast.Float
		} else {
			tok.Literal = ast.Integer
		}
	case ast.Operator, ast.Punctuation:
		tok.Tag = opTags[lexeme]
	default:
		tok.Kind = ast.Invalid
		tok.Err = ast.UnknownCharacter
		tok.Message = "Unknown token: " + lexeme
	}
	return tok
}

func (l *Lexer) skipWhitespace() {
	for {
		c, ok := l.src.Peek()
		if !ok || (c != ' ' && c != '\t' && c != '\r' && c != '\n') {
			return
		}
		l.src.Read()
	}
}

// skipLine consumes up to, but not including, the next newline and returns
// the consumed text.
func (l *Lexer) skipLine() string {
	var b strings.Builder
	for {
		c, ok := l.src.Peek()
		if !ok || c == '\n' {
			return b.String()
		}
		l.src.Read()
		b.WriteByte(c)
	}
}
