// Package parser implements the DrawLang recursive-descent parser.
//
// The parser reads a token stream from a [lexer.Lexer] and builds an
// [ast.Program]. There is one method per grammar production:
//
//	program    := { statement ';' }
//	statement  := origin | scale | rot | for | color | size
//	expression := term { ('+'|'-') term }
//	term       := factor { ('*'|'/') factor }
//	factor     := ('+'|'-') factor | component
//	component  := atom [ '**' component ]
//	atom       := literal | T | func '(' expression ')'
//	            | identifier [ '(' expression ')' ] | '(' expression ')'
//
// Usage:
//
//	l := lexer.New(source)
//	p := parser.New(l)
//	prog := p.Parse()
//	if errs := p.Errors(); len(errs) != 0 { ... }
//
// Error recovery is panic mode: when a token does not match, the parser
// reports it, discards it and fetches the next one until the expected token
// turns up or it reaches a synchronizing token (';', a statement keyword or
// end of input). The statement in progress is then dropped and parsing
// resumes there. Every discard consumes a token and every statement consumes
// its keyword, so parsing always terminates.
package parser

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/metaphox/drawlang/ast"
	"github.com/metaphox/drawlang/lexer"
	"github.com/metaphox/drawlang/logger"
)

// DefaultMaxErrors is the number of diagnostics a Parser keeps by default.
const DefaultMaxErrors = 100

// Parser holds all state needed to parse one DrawLang source.
// Create one with [New] and call [Parser.Parse].
type Parser struct {
	l       *lexer.Lexer
	symbols *lexer.SymbolTable
	cur     ast.Token // current token (the one being examined)

	errors    []ast.Diagnostic
	hadErrors bool
	dropped   int
	panicking bool // recovering; the current statement is abandoned

	// MaxErrors caps the number of recorded diagnostics; further ones are
	// counted in Dropped. Zero or less means no cap.
	MaxErrors int

	trace *logger.Logger
	depth int
}

// New creates a Parser that reads tokens from l and resolves named
// constants and functions through l's symbol table.
func New(l *lexer.Lexer) *Parser {
	p := &Parser{l: l, symbols: l.Symbols(), MaxErrors: DefaultMaxErrors}
	p.fetchToken()
	return p
}

// SetTrace makes the parser log every production it enters and leaves,
// every matched token, and each finished statement, at debug level.
// A nil logger turns tracing off.
func (p *Parser) SetTrace(log *logger.Logger) { p.trace = log }

// Errors returns the lexical and syntax diagnostics collected by Parse, in
// the order they were found.
func (p *Parser) Errors() []ast.Diagnostic { return p.errors }

// HasErrors reports whether any error was found, including dropped ones.
func (p *Parser) HasErrors() bool { return p.hadErrors }

// Dropped returns how many diagnostics were not recorded because of MaxErrors.
func (p *Parser) Dropped() int { return p.dropped }

// Parse builds and returns the AST for the whole input. It never returns nil.
//
// A statement cut short by end of input, or abandoned by panic-mode
// recovery, is not added to the program.
func (p *Parser) Parse() *ast.Program {
	p.enter("program")
	defer p.leave("program")

	prog := &ast.Program{File: p.l.SourceName()}
	for p.cur.Kind != ast.EOF {
		p.panicking = false
		s := p.parseStatement()
		if s != nil && !p.panicking && p.cur.Kind != ast.EOF {
			prog.Statements = append(prog.Statements, s)
			p.tracef("statement: %s", s)
		}
		p.matchToken(ast.Semi)
	}
	return prog
}

// ── Token management ──────────────────────────────────────────────────────────

// fetchToken reads the next significant token into cur. Comments are skipped;
// Invalid tokens are reported as lexical errors and skipped.
func (p *Parser) fetchToken() {
	for {
		tok := p.l.NextToken()
		switch tok.Kind {
		case ast.Comment:
			continue
		case ast.Invalid:
			p.report(ast.SeverityError, ast.PhaseLexical, tok.Loc, "Lexical error: %s", tok.Message)
			continue
		}
		p.cur = tok
		return
	}
}

// checkToken reports whether the current token resolves to tag.
func (p *Parser) checkToken(tag ast.Tag) bool { return p.cur.Is(tag) }

// syncTags are the tokens panic-mode recovery stops at: the statement
// terminator and every keyword that starts a statement.
var syncTags = [...]ast.Tag{ast.Semi, ast.Origin, ast.Scale, ast.Rot, ast.For, ast.Color, ast.Size}

// synchronizes reports whether the current token ends panic-mode recovery.
func (p *Parser) synchronizes() bool {
	if p.cur.Kind == ast.EOF {
		return true
	}
	for _, tag := range syncTags {
		if p.cur.Is(tag) {
			return true
		}
	}
	return false
}

// matchToken consumes the current token if it resolves to tag and returns
// true. Otherwise it enters panic mode: it reports and discards tokens until
// one resolves to tag, which is then consumed, or until a synchronizing
// token, which is left in place and makes it return false.
//
// While in panic mode the rest of the statement matches nothing and reports
// nothing; Parse drops the statement and resumes at the synchronizing token.
func (p *Parser) matchToken(tag ast.Tag) bool {
	if !p.checkToken(tag) && p.panicking && p.synchronizes() {
		return false
	}
	discarded := false
	for !p.checkToken(tag) {
		if p.synchronizes() {
			if !discarded {
				if p.cur.Kind == ast.EOF {
					p.syntaxError("expected '%s', got end of input", tag)
				} else {
					p.syntaxError("expected '%s', got '%s'", tag, p.cur)
				}
			}
			p.panicking = true
			return false
		}
		p.syntaxError("unexpected token '%s', expected '%s'", p.cur.Lexeme, tag)
		p.fetchToken()
		discarded = true
	}
	p.tracef("match %s", tag)
	p.fetchToken()
	return true
}

// ── Diagnostics ───────────────────────────────────────────────────────────────

func (p *Parser) report(sev ast.Severity, phase ast.Phase, loc ast.Location, format string, args ...any) {
	if sev == ast.SeverityError {
		p.hadErrors = true
	}
	if p.MaxErrors > 0 && len(p.errors) >= p.MaxErrors {
		p.dropped++
		return
	}
	p.errors = append(p.errors, ast.Diagnostic{Severity: sev, Phase: phase, Message: fmt.Sprintf(format, args...), Loc: loc})
}

// syntaxError records a syntax error at the current token.
func (p *Parser) syntaxError(format string, args ...any) {
	p.report(ast.SeverityError, ast.PhaseSyntax, p.cur.Loc, "Syntax error: "+format, args...)
}

func (p *Parser) warnf(loc ast.Location, format string, args ...any) {
	p.report(ast.SeverityWarning, ast.PhaseSyntax, loc, format, args...)
}

// ── Tracing ───────────────────────────────────────────────────────────────────

func (p *Parser) tracef(format string, args ...any) {
	if p.trace == nil {
		return
	}
	p.trace.Debugf(strings.Repeat("  ", p.depth)+format, args...)
}

func (p *Parser) enter(production string) {
	p.tracef("enter %s", production)
	p.depth++
}

func (p *Parser) leave(production string) {
	p.depth--
	p.tracef("leave %s", production)
}

// ── Statements ────────────────────────────────────────────────────────────────

// parseStatement dispatches on the leading keyword. It returns nil without
// consuming anything if the current token does not start a statement.
func (p *Parser) parseStatement() ast.Statement {
	p.enter("statement")
	defer p.leave("statement")

	if p.cur.Kind != ast.Keyword {
		return nil
	}
	switch p.cur.Tag {
	case ast.Origin:
		return p.parseOrigin()
	case ast.Scale:
		return p.parseScale()
	case ast.Rot:
		return p.parseRot()
	case ast.For:
		return p.parseFor()
	case ast.Color:
		return p.parseColor()
	case ast.Size:
		return p.parseSize()
	}
	return nil
}

// parsePair parses '(' expression ',' expression ')'.
func (p *Parser) parsePair() (ast.Expression, ast.Expression) {
	p.matchToken(ast.LParen)
	x := p.parseExpression()
	p.matchToken(ast.Comma)
	y := p.parseExpression()
	p.matchToken(ast.RParen)
	return x, y
}

// parseOrigin parses ORIGIN IS ( x , y ).
func (p *Parser) parseOrigin() ast.Statement {
	p.enter("origin_statement")
	defer p.leave("origin_statement")

	stmt := &ast.OriginStmt{Token: p.cur}
	p.matchToken(ast.Origin)
	p.matchToken(ast.Is)
	stmt.X, stmt.Y = p.parsePair()
	return stmt
}

// parseScale parses SCALE IS ( sx , sy ).
func (p *Parser) parseScale() ast.Statement {
	p.enter("scale_statement")
	defer p.leave("scale_statement")

	stmt := &ast.ScaleStmt{Token: p.cur}
	p.matchToken(ast.Scale)
	p.matchToken(ast.Is)
	stmt.X, stmt.Y = p.parsePair()
	return stmt
}

// parseRot parses ROT IS angle.
func (p *Parser) parseRot() ast.Statement {
	p.enter("rot_statement")
	defer p.leave("rot_statement")

	stmt := &ast.RotStmt{Token: p.cur}
	p.matchToken(ast.Rot)
	p.matchToken(ast.Is)
	stmt.Angle = p.parseExpression()
	return stmt
}

// parseFor parses FOR T FROM e TO e STEP e DRAW ( x , y ).
func (p *Parser) parseFor() ast.Statement {
	p.enter("for_statement")
	defer p.leave("for_statement")

	stmt := &ast.ForDrawStmt{Token: p.cur}
	p.matchToken(ast.For)
	p.matchToken(ast.Param)
	p.matchToken(ast.From)
	stmt.From = p.parseExpression()
	p.matchToken(ast.To)
	stmt.To = p.parseExpression()
	p.matchToken(ast.Step)
	stmt.Step = p.parseExpression()
	p.matchToken(ast.Draw)
	stmt.X, stmt.Y = p.parsePair()
	return stmt
}

// parseColor parses COLOR IS ( r , g , b ) or COLOR IS name.
func (p *Parser) parseColor() ast.Statement {
	p.enter("color_statement")
	defer p.leave("color_statement")

	stmt := &ast.ColorStmt{Token: p.cur}
	p.matchToken(ast.Color)
	p.matchToken(ast.Is)

	if p.checkToken(ast.LParen) {
		p.matchToken(ast.LParen)
		stmt.R = p.parseExpression()
		p.matchToken(ast.Comma)
		stmt.G = p.parseExpression()
		p.matchToken(ast.Comma)
		stmt.B = p.parseExpression()
		p.matchToken(ast.RParen)
		return stmt
	}

	switch p.cur.Kind {
	case ast.Identifier, ast.Keyword, ast.Literal:
		stmt.Name = &ast.ColorNameExpr{Token: p.cur, Name: p.cur.Lexeme}
		p.fetchToken()
		return stmt
	}
	if !p.panicking {
		p.syntaxError("expected color name or '(', got '%s'", p.cur)
	}
	return nil
}

// parseSize parses SIZE IS e or SIZE IS ( w , h ). A parenthesised single
// value, SIZE IS (e), is also accepted.
func (p *Parser) parseSize() ast.Statement {
	p.enter("size_statement")
	defer p.leave("size_statement")

	stmt := &ast.SizeStmt{Token: p.cur}
	p.matchToken(ast.Size)
	p.matchToken(ast.Is)

	if !p.checkToken(ast.LParen) {
		stmt.Width = p.parseExpression()
		return stmt
	}
	p.matchToken(ast.LParen)
	stmt.Width = p.parseExpression()
	if p.checkToken(ast.RParen) {
		p.matchToken(ast.RParen)
		return stmt
	}
	p.matchToken(ast.Comma)
	stmt.Height = p.parseExpression()
	p.matchToken(ast.RParen)
	return stmt
}

// ── Expressions ───────────────────────────────────────────────────────────────

// parseExpression parses term { ('+'|'-') term }, left-associative.
func (p *Parser) parseExpression() ast.Expression {
	p.enter("expression")
	defer p.leave("expression")

	left := p.parseTerm()
	for p.checkToken(ast.Plus) || p.checkToken(ast.Minus) {
		tok := p.cur
		p.matchToken(tok.Tag)
		right := p.parseTerm()
		left = &ast.BinaryExpr{Token: tok, Op: tok.Tag, Left: left, Right: right}
	}
	return left
}

// parseTerm parses factor { ('*'|'/') factor }, left-associative.
func (p *Parser) parseTerm() ast.Expression {
	p.enter("term")
	defer p.leave("term")

	left := p.parseFactor()
	for p.checkToken(ast.Mul) || p.checkToken(ast.Div) {
		tok := p.cur
		p.matchToken(tok.Tag)
		right := p.parseFactor()
		left = &ast.BinaryExpr{Token: tok, Op: tok.Tag, Left: left, Right: right}
	}
	return left
}

// parseFactor parses an optionally signed component. Signs nest: --x is -(-x).
func (p *Parser) parseFactor() ast.Expression {
	p.enter("factor")
	defer p.leave("factor")

	if p.checkToken(ast.Plus) || p.checkToken(ast.Minus) {
		tok := p.cur
		p.matchToken(tok.Tag)
		return &ast.UnaryExpr{Token: tok, Op: tok.Tag, Operand: p.parseFactor()}
	}
	return p.parseComponent()
}

// parseComponent parses atom [ '**' component ]. The recursive call on the
// right makes ** right-associative.
func (p *Parser) parseComponent() ast.Expression {
	p.enter("component")
	defer p.leave("component")

	left := p.parseAtom()
	if p.checkToken(ast.Power) {
		tok := p.cur
		p.matchToken(ast.Power)
		right := p.parseComponent()
		return &ast.BinaryExpr{Token: tok, Op: ast.Power, Left: left, Right: right}
	}
	return left
}

// parseAtom parses a literal, T, a function call, an identifier or a
// parenthesised expression. On anything else it reports an error and returns
// the constant 0 without consuming the token.
func (p *Parser) parseAtom() ast.Expression {
	p.enter("atom")
	defer p.leave("atom")

	tok := p.cur
	switch {
	case tok.Kind == ast.Literal:
		p.fetchToken()
		return &ast.ConstExpr{Token: tok, Value: p.literalValue(tok)}

	case tok.Is(ast.Param):
		p.matchToken(ast.Param)
		return &ast.ParamExpr{Token: tok}

	case tok.Is(ast.Func):
		p.matchToken(ast.Func)
		fn, _ := p.symbols.Function(tok.Lexeme)
		return p.parseCall(tok, fn)

	case tok.Is(ast.LParen):
		p.matchToken(ast.LParen)
		e := p.parseExpression()
		p.matchToken(ast.RParen)
		return e

	case tok.Kind == ast.Identifier:
		p.fetchToken()
		if p.checkToken(ast.LParen) {
			p.warnf(tok.Loc, "unknown function '%s' evaluates to 0", tok.Lexeme)
			return p.parseCall(tok, nil)
		}
		p.warnf(tok.Loc, "unknown constant '%s' evaluates to 0", tok.Lexeme)
		return &ast.ConstExpr{Token: tok, Value: 0}
	}

	if !p.panicking {
		p.syntaxError("unexpected token '%s' in expression", tok)
	}
	return &ast.ConstExpr{Token: tok, Value: 0}
}

// parseCall parses '(' expression ')' after a function name.
func (p *Parser) parseCall(name ast.Token, fn ast.MathFunc) ast.Expression {
	p.matchToken(ast.LParen)
	arg := p.parseExpression()
	p.matchToken(ast.RParen)
	return &ast.CallExpr{Token: name, Name: strings.ToUpper(name.Lexeme), Fn: fn, Arg: arg}
}

// literalValue resolves a numeric literal or a named constant.
func (p *Parser) literalValue(tok ast.Token) float64 {
	if v, ok := p.symbols.Constant(tok.Lexeme); ok {
		return v
	}
	v, err := strconv.ParseFloat(tok.Lexeme, 64)
	if err != nil {
		// ParseFloat returns ±Inf or 0 for out-of-range input.
		if errors.Is(err, strconv.ErrRange) {
			p.warnf(tok.Loc, "literal '%s' is out of range", tok.Lexeme)
			return v
		}
		p.syntaxError("malformed number '%s'", tok.Lexeme)
		return 0
	}
	return v
}
