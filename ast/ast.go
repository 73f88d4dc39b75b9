// The syntax tree is a closed set of node types:
//
//	Node (interface)
//	  Statement (interface)
//	    OriginStmt, ScaleStmt, RotStmt, ForDrawStmt, ColorStmt, SizeStmt
//	  Expression (interface)
//	    BinaryExpr, UnaryExpr, CallExpr, ConstExpr, ParamExpr, ColorNameExpr
//
// Every node keeps the token it starts at; Pos returns that token's location.
// Nodes are not modified after parsing. Evaluation lives in [Eval].

package ast

import (
	"strconv"
	"strings"
)

// ── Interfaces ────────────────────────────────────────────────────────────────

// Node is the root interface for every element of the DrawLang AST.
type Node interface {
	// TokenLiteral returns the lexeme of the token that began this node.
	TokenLiteral() string
	// Pos returns the location of the token that began this node.
	Pos() Location
	// String returns a compact, human-readable representation of the node.
	String() string
}

// Statement is a Node that changes drawing state or draws.
type Statement interface {
	Node
	statementNode()
}

// Expression is a Node that evaluates to a float64.
type Expression interface {
	Node
	expressionNode()
}

// MathFunc is a built-in unary numeric function such as math.Sin.
type MathFunc func(float64) float64

// ── Program ───────────────────────────────────────────────────────────────────

// Program is the root node produced by the parser: the statements of one
// source file in order.
type Program struct {
	File       string
	Statements []Statement
}

// TokenLiteral returns the literal of the first statement's starting token,
// or "" for an empty program.
func (p *Program) TokenLiteral() string {
	if len(p.Statements) > 0 {
		return p.Statements[0].TokenLiteral()
	}
	return ""
}

// Pos returns the location of the first statement, or the start of File.
func (p *Program) Pos() Location {
	if len(p.Statements) > 0 {
		return p.Statements[0].Pos()
	}
	return Location{File: p.File, Line: 1, Col: 1}
}

// String returns every statement on its own line, terminated by ';'.
func (p *Program) String() string {
	var b strings.Builder
	for _, s := range p.Statements {
		b.WriteString(s.String())
		b.WriteString(";\n")
	}
	return b.String()
}

// ── Expressions ───────────────────────────────────────────────────────────────

// BinaryExpr is Left Op Right for Op in + - * / **.
type BinaryExpr struct {
	Token Token // the operator token
	Op    Tag
	Left  Expression
	Right Expression
}

func (e *BinaryExpr) expressionNode()      {}
func (e *BinaryExpr) TokenLiteral() string { return e.Token.Lexeme }
func (e *BinaryExpr) Pos() Location        { return e.Token.Loc }
func (e *BinaryExpr) String() string {
	return "(" + e.Left.String() + " " + e.Op.String() + " " + e.Right.String() + ")"
}

// UnaryExpr is a prefix + or - applied to Operand.
type UnaryExpr struct {
	Token   Token
	Op      Tag
	Operand Expression
}

func (e *UnaryExpr) expressionNode()      {}
func (e *UnaryExpr) TokenLiteral() string { return e.Token.Lexeme }
func (e *UnaryExpr) Pos() Location        { return e.Token.Loc }
func (e *UnaryExpr) String() string       { return "(" + e.Op.String() + e.Operand.String() + ")" }

// CallExpr applies a built-in function to one argument. Fn is nil when the
// name was not a known function; such a call evaluates to 0.
type CallExpr struct {
	Token Token
	Name  string // upper-cased function name
	Fn    MathFunc
	Arg   Expression
}

func (e *CallExpr) expressionNode()      {}
func (e *CallExpr) TokenLiteral() string { return e.Token.Lexeme }
func (e *CallExpr) Pos() Location        { return e.Token.Loc }
func (e *CallExpr) String() string       { return e.Name + "(" + e.Arg.String() + ")" }

// ConstExpr is a numeric literal or a named constant resolved at parse time.
type ConstExpr struct {
	Token Token
	Value float64
}

func (e *ConstExpr) expressionNode()      {}
func (e *ConstExpr) TokenLiteral() string { return e.Token.Lexeme }
func (e *ConstExpr) Pos() Location        { return e.Token.Loc }
func (e *ConstExpr) String() string       { return strconv.FormatFloat(e.Value, 'g', -1, 64) }

// ParamExpr reads the loop parameter T from the evaluation environment.
type ParamExpr struct {
	Token Token
}

func (e *ParamExpr) expressionNode()      {}
func (e *ParamExpr) TokenLiteral() string { return e.Token.Lexeme }
func (e *ParamExpr) Pos() Location        { return e.Token.Loc }
func (e *ParamExpr) String() string       { return "T" }

// ColorNameExpr names a pen color: COLOR IS RED.
type ColorNameExpr struct {
	Token Token
	Name  string // as written
}

func (e *ColorNameExpr) expressionNode()      {}
func (e *ColorNameExpr) TokenLiteral() string { return e.Token.Lexeme }
func (e *ColorNameExpr) Pos() Location        { return e.Token.Loc }
func (e *ColorNameExpr) String() string       { return e.Name }

// ── Statements ────────────────────────────────────────────────────────────────

// OriginStmt is ORIGIN IS (X, Y).
type OriginStmt struct {
	Token Token
	X, Y  Expression
}

func (s *OriginStmt) statementNode()       {}
func (s *OriginStmt) TokenLiteral() string { return s.Token.Lexeme }
func (s *OriginStmt) Pos() Location        { return s.Token.Loc }
func (s *OriginStmt) String() string {
	return "ORIGIN IS (" + s.X.String() + ", " + s.Y.String() + ")"
}

// ScaleStmt is SCALE IS (X, Y).
type ScaleStmt struct {
	Token Token
	X, Y  Expression
}

func (s *ScaleStmt) statementNode()       {}
func (s *ScaleStmt) TokenLiteral() string { return s.Token.Lexeme }
func (s *ScaleStmt) Pos() Location        { return s.Token.Loc }
func (s *ScaleStmt) String() string {
	return "SCALE IS (" + s.X.String() + ", " + s.Y.String() + ")"
}

// RotStmt is ROT IS Angle, with Angle in radians.
type RotStmt struct {
	Token Token
	Angle Expression
}

func (s *RotStmt) statementNode()       {}
func (s *RotStmt) TokenLiteral() string { return s.Token.Lexeme }
func (s *RotStmt) Pos() Location        { return s.Token.Loc }
func (s *RotStmt) String() string       { return "ROT IS " + s.Angle.String() }

// ForDrawStmt is FOR T FROM From TO To STEP Step DRAW (X, Y).
type ForDrawStmt struct {
	Token          Token
	From, To, Step Expression
	X, Y           Expression
}

func (s *ForDrawStmt) statementNode()       {}
func (s *ForDrawStmt) TokenLiteral() string { return s.Token.Lexeme }
func (s *ForDrawStmt) Pos() Location        { return s.Token.Loc }
func (s *ForDrawStmt) String() string {
	return "FOR T FROM " + s.From.String() + " TO " + s.To.String() +
		" STEP " + s.Step.String() + " DRAW (" + s.X.String() + ", " + s.Y.String() + ")"
}

// ColorStmt is either COLOR IS (R, G, B) or COLOR IS Name.
// Exactly one form is set: Name != nil, or R, G and B are all non-nil.
type ColorStmt struct {
	Token   Token
	R, G, B Expression
	Name    *ColorNameExpr
}

func (s *ColorStmt) statementNode()       {}
func (s *ColorStmt) TokenLiteral() string { return s.Token.Lexeme }
func (s *ColorStmt) Pos() Location        { return s.Token.Loc }
func (s *ColorStmt) String() string {
	if s.Name != nil {
		return "COLOR IS " + s.Name.String()
	}
	return "COLOR IS (" + s.R.String() + ", " + s.G.String() + ", " + s.B.String() + ")"
}

// SizeStmt is SIZE IS Width or SIZE IS (Width, Height). Height is nil in the
// single-value form.
type SizeStmt struct {
	Token  Token
	Width  Expression
	Height Expression
}

func (s *SizeStmt) statementNode()       {}
func (s *SizeStmt) TokenLiteral() string { return s.Token.Lexeme }
func (s *SizeStmt) Pos() Location        { return s.Token.Loc }
func (s *SizeStmt) String() string {
	if s.Height != nil {
		return "SIZE IS (" + s.Width.String() + ", " + s.Height.String() + ")"
	}
	return "SIZE IS " + s.Width.String()
}
