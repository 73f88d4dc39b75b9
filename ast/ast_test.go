package ast_test

import (
	"bytes"
	"math"
	"strings"
	"testing"

	"github.com/metaphox/drawlang/ast"
)

// ── Helpers ───────────────────────────────────────────────────────────────────

func num(v float64) ast.Expression { return &ast.ConstExpr{Value: v} }

func bin(op ast.Tag, l, r ast.Expression) ast.Expression {
	return &ast.BinaryExpr{Op: op, Left: l, Right: r}
}

func neg(e ast.Expression) ast.Expression { return &ast.UnaryExpr{Op: ast.Minus, Operand: e} }

var param = &ast.ParamExpr{}

// ── Eval ──────────────────────────────────────────────────────────────────────

func TestEval_Arithmetic(t *testing.T) {
	tests := []struct {
		name string
		expr ast.Expression
		want float64
	}{
		{"add", bin(ast.Plus, num(1), num(2)), 3},
		{"sub", bin(ast.Minus, num(1), num(2)), -1},
		{"mul", bin(ast.Mul, num(4), num(2.5)), 10},
		{"div", bin(ast.Div, num(10), num(4)), 2.5},
		{"div by zero", bin(ast.Div, num(10), num(0)), 0},
		{"neg div by zero", bin(ast.Div, num(-1), num(0)), 0},
		{"pow", bin(ast.Power, num(2), num(10)), 1024},
		{"pow fractional", bin(ast.Power, num(9), num(0.5)), 3},
		{"pow negative", bin(ast.Power, num(2), num(-1)), 0.5},
		{"unary minus", neg(num(3)), -3},
		{"unary plus", &ast.UnaryExpr{Op: ast.Plus, Operand: num(3)}, 3},
		{"double negation", neg(neg(num(3))), 3},
		{"call", &ast.CallExpr{Name: "SQRT", Fn: math.Sqrt, Arg: num(16)}, 4},
		{"unbound call", &ast.CallExpr{Name: "NOPE", Arg: num(16)}, 0},
		{"color name", &ast.ColorNameExpr{Name: "RED"}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ast.Eval(tt.expr, &ast.Env{}); got != tt.want {
				t.Errorf("Eval(%s) = %v, want %v", tt.expr, got, tt.want)
			}
		})
	}
}

func TestEval_CallBinding(t *testing.T) {
	var cube ast.MathFunc = func(x float64) float64 { return x * x * x }
	call := &ast.CallExpr{
		Token: ast.Token{Kind: ast.Keyword, Lexeme: "cube", Tag: ast.Func},
		Name:  "CUBE",
		Fn:    cube,
		Arg:   param,
	}
	if !call.Token.Is(ast.Func) {
		t.Error("function name token does not carry the Func tag")
	}
	if got := ast.Eval(call, &ast.Env{T: 2}); got != 8 {
		t.Errorf("CUBE(2) = %v, want 8", got)
	}
}

func TestEval_PowNaN(t *testing.T) {
	got := ast.Eval(bin(ast.Power, num(-8), num(1.0/3)), nil)
	if !math.IsNaN(got) {
		t.Errorf("(-8)**(1/3) = %v, want NaN", got)
	}
}

func TestEval_ParamReadsEnv(t *testing.T) {
	expr := bin(ast.Mul, param, num(2))
	env := &ast.Env{}
	for _, tv := range []float64{0, 1.5, -3} {
		env.T = tv
		if got := ast.Eval(expr, env); got != tv*2 {
			t.Errorf("T=%v: got %v, want %v", tv, got, tv*2)
		}
	}
	if got := ast.Eval(param, nil); got != 0 {
		t.Errorf("nil env: got %v, want 0", got)
	}
}

// ── Printing ──────────────────────────────────────────────────────────────────

func TestNode_String(t *testing.T) {
	stmt := &ast.ForDrawStmt{
		From: num(0),
		To:   bin(ast.Mul, num(2), num(3)),
		Step: num(1),
		X:    param,
		Y:    &ast.CallExpr{Name: "SIN", Fn: math.Sin, Arg: param},
	}
	want := "FOR T FROM 0 TO (2 * 3) STEP 1 DRAW (T, SIN(T))"
	if got := stmt.String(); got != want {
		t.Errorf("got %q, want %q", got, want)
	}

	color := &ast.ColorStmt{Name: &ast.ColorNameExpr{Name: "blue"}}
	if got := color.String(); got != "COLOR IS blue" {
		t.Errorf("got %q", got)
	}
	size := &ast.SizeStmt{Width: num(2), Height: num(3)}
	if got := size.String(); got != "SIZE IS (2, 3)" {
		t.Errorf("got %q", got)
	}
}

func TestDump(t *testing.T) {
	prog := &ast.Program{
		File: "demo.dl",
		Statements: []ast.Statement{
			&ast.RotStmt{
				Token: ast.Token{Lexeme: "ROT", Loc: ast.Location{File: "demo.dl", Line: 1, Col: 1}},
				Angle: neg(num(1)),
			},
			&ast.SizeStmt{Width: num(4)},
		},
	}
	var buf bytes.Buffer
	if err := ast.Dump(&buf, prog); err != nil {
		t.Fatal(err)
	}
	want := strings.Join([]string{
		`Program "demo.dl" (2 statements)`,
		`  RotStmt @demo.dl:1:1`,
		`    angle: Unary -`,
		`      Const 1`,
		`  SizeStmt @0:0`,
		`    width: Const 4`,
		``,
	}, "\n")
	if got := buf.String(); got != want {
		t.Errorf("dump mismatch\ngot:\n%s\nwant:\n%s", got, want)
	}
}

// ── Tokens, colors, diagnostics ───────────────────────────────────────────────

func TestToken_Is(t *testing.T) {
	kw := ast.Token{Kind: ast.Keyword, Tag: ast.Origin}
	if !kw.Is(ast.Origin) {
		t.Error("keyword token should resolve to its tag")
	}
	ident := ast.Token{Kind: ast.Identifier, Tag: ast.Origin}
	if ident.Is(ast.Origin) {
		t.Error("identifier tokens carry no tag")
	}
	if got := (ast.Token{Kind: ast.EOF}).String(); got != "EOF" {
		t.Errorf("EOF string = %q", got)
	}
}

func TestColorTable(t *testing.T) {
	ct := ast.NewColorTable()
	tests := []struct {
		name string
		want ast.RGB
	}{
		{"red", ast.RGB{255, 0, 0}},
		{"Green", ast.RGB{0, 255, 0}},
		{"BLUE", ast.RGB{0, 0, 255}},
		{"grey", ast.RGB{128, 128, 128}},
		{"Gray", ast.RGB{128, 128, 128}},
		{"orange", ast.RGB{255, 165, 0}},
		{"pink", ast.RGB{255, 192, 203}},
		{"purple", ast.RGB{128, 0, 128}},
		{"brown", ast.RGB{139, 69, 19}},
	}
	for _, tt := range tests {
		got, ok := ct.Lookup(tt.name)
		if !ok || got != tt.want {
			t.Errorf("Lookup(%q) = %v, %v; want %v", tt.name, got, ok, tt.want)
		}
	}
	if _, ok := ct.Lookup("chartreuse"); ok {
		t.Error("unknown color should not be found")
	}
	ct.Define("chartreuse", ast.RGB{127, 255, 0})
	if got, ok := ct.Lookup("CHARTREUSE"); !ok || got != (ast.RGB{127, 255, 0}) {
		t.Errorf("defined color: got %v, %v", got, ok)
	}
	if n := len(ct.Names()); n != 15 {
		t.Errorf("Names() has %d entries, want 15", n)
	}
}

func TestDiagnostic_String(t *testing.T) {
	d := ast.Diagnostic{
		Severity: ast.SeverityWarning,
		Phase:    ast.PhaseRuntime,
		Message:  "loop skipped",
		Loc:      ast.Location{File: "a.dl", Line: 3, Col: 7},
	}
	if got := d.String(); got != "a.dl:3:7: warning: loop skipped" {
		t.Errorf("got %q", got)
	}
	if ast.HasErrors([]ast.Diagnostic{d}) {
		t.Error("a warning is not an error")
	}
	d.Severity = ast.SeverityError
	if !ast.HasErrors([]ast.Diagnostic{d}) {
		t.Error("expected HasErrors")
	}
}
