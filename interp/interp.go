// Package interp wires the lexer, parser and evaluator into one call.
package interp

import (
	"fmt"

	"github.com/metaphox/drawlang/ast"
	"github.com/metaphox/drawlang/lexer"
	"github.com/metaphox/drawlang/logger"
	"github.com/metaphox/drawlang/parser"
	"github.com/metaphox/drawlang/semantic"
)

// Config selects the engine and the optional behaviours of a run.
// The zero value is a valid default configuration.
type Config struct {
	// Engine picks the transition engine used by the lexer.
	Engine lexer.EngineKind
	// Trace logs the parser's productions and matched tokens at debug level.
	Trace bool
	// CountedLoop switches FOR-DRAW to counted iteration.
	CountedLoop bool
	// MaxPoints caps the points drawn per run; zero means no cap.
	MaxPoints int
	// Symbols and Colors replace the built-in tables when non-nil.
	Symbols *lexer.SymbolTable
	Colors  *ast.ColorTable
	// Logger receives trace, debug and diagnostic output. Nil discards it.
	Logger *logger.Logger
}

// Result is the outcome of one run.
type Result struct {
	Program     *ast.Program
	Points      int
	State       semantic.State
	Diagnostics []ast.Diagnostic // parse diagnostics first, then runtime ones
}

// OK reports whether the run produced no error diagnostics.
func (r *Result) OK() bool { return !ast.HasErrors(r.Diagnostics) }

// RunString interprets src, named name in diagnostics, and sends every point
// to draw. It never fails: problems are reported in Result.Diagnostics.
func RunString(name, src string, cfg Config, draw semantic.DrawFunc) *Result {
	return run(lexer.NewSource(name, src), cfg, draw)
}

// RunFile reads and interprets the file at path. The error is non-nil only
// if the file cannot be read.
func RunFile(path string, cfg Config, draw semantic.DrawFunc) (*Result, error) {
	src, err := lexer.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("run %s: %w", path, err)
	}
	return run(src, cfg, draw), nil
}

// Parse lexes and parses src without running it.
func Parse(name, src string, cfg Config) (*ast.Program, []ast.Diagnostic) {
	p := newParser(lexer.NewSource(name, src), cfg)
	return p.Parse(), p.Errors()
}

func newParser(src *lexer.Source, cfg Config) *parser.Parser {
	l := lexer.NewLexer(src, lexer.NewEngine(cfg.Engine), cfg.Symbols)
	p := parser.New(l)
	if cfg.Trace && cfg.Logger != nil {
		p.SetTrace(cfg.Logger.WithPrefix("parser"))
	}
	return p
}

func run(src *lexer.Source, cfg Config, draw semantic.DrawFunc) *Result {
	log := cfg.Logger
	if log == nil {
		log = logger.Discard()
	}
	done := log.Step("interpret " + src.Name())
	defer done()

	p := newParser(src, cfg)
	prog := p.Parse()

	ev := semantic.New(draw)
	ev.SetLogger(log.WithPrefix("eval"))
	ev.SetColors(cfg.Colors)
	ev.SetCountedLoop(cfg.CountedLoop)
	ev.SetPointLimit(cfg.MaxPoints)
	n := ev.Run(prog)

	diags := append([]ast.Diagnostic(nil), p.Errors()...)
	if d := p.Dropped(); d > 0 {
		diags = append(diags, ast.Diagnostic{
			Severity: ast.SeverityError,
			Phase:    ast.PhaseSyntax,
			Message:  fmt.Sprintf("%d more errors not shown", d),
			Loc:      src.Location(),
		})
	}
	diags = append(diags, ev.Diagnostics()...)

	return &Result{Program: prog, Points: n, State: ev.State(), Diagnostics: diags}
}
