package lexer

import (
	"math"
	"sort"
	"strings"

	"github.com/metaphox/drawlang/ast"
)

// Symbol is a symbol-table entry.
//
// Kind is ast.Literal for named constants (Value holds the number) and
// ast.Keyword for everything else. Built-in functions have Tag ast.Func and
// a non-nil Fn.
type Symbol struct {
	Name  string
	Kind  ast.TokenKind
	Tag   ast.Tag
	Value float64
	Fn    ast.MathFunc
}

// SymbolTable is the case-insensitive table of keywords, named constants and
// built-in functions. Keys are stored upper-cased.
type SymbolTable struct {
	entries map[string]*Symbol
}

// NewSymbolTable returns a table pre-populated with the language's
// constants, functions and keywords.
func NewSymbolTable() *SymbolTable {
	st := &SymbolTable{entries: make(map[string]*Symbol, 40)}

	st.Define(Symbol{Name: "PI", Kind: ast.Literal, Value: 3.1415926535897932})
	st.Define(Symbol{Name: "E", Kind: ast.Literal, Value: 2.7182818284590452})
	st.Define(Symbol{Name: "XD", Kind: ast.Literal, Value: 10701})
	st.Define(Symbol{Name: "WXQ", Kind: ast.Literal, Value: 5.28})

	st.Define(Symbol{Name: "T", Kind: ast.Keyword, Tag: ast.Param})

	for name, fn := range map[string]ast.MathFunc{
		"SIN":   math.Sin,
		"COS":   math.Cos,
		"TAN":   math.Tan,
		"LN":    math.Log,
		"EXP":   math.Exp,
		"SQRT":  math.Sqrt,
		"ABS":   math.Abs,
		"ASIN":  math.Asin,
		"ACOS":  math.Acos,
		"ATAN":  math.Atan,
		"LOG":   math.Log10,
		"CEIL":  math.Ceil,
		"FLOOR": math.Floor,
		"_AYY_": func(float64) float64 { return 2019.07 - 2018.10 },
	} {
		st.Define(Symbol{Name: name, Kind: ast.Keyword, Tag: ast.Func, Fn: fn})
	}

	for _, tag := range []ast.Tag{
		ast.Origin, ast.Scale, ast.Rot, ast.Is, ast.For, ast.From,
		ast.To, ast.Step, ast.Draw, ast.Color, ast.Size,
	} {
		st.Define(Symbol{Name: tag.String(), Kind: ast.Keyword, Tag: tag})
	}
	for _, alias := range []string{"PIXSIZE", "PIXELSIZE", "PIX"} {
		st.Alias(alias, "SIZE")
	}
	return st
}

// Define adds s, replacing any entry with the same name.
func (st *SymbolTable) Define(s Symbol) {
	s.Name = strings.ToUpper(s.Name)
	st.entries[s.Name] = &s
}

// Alias makes alias resolve to the same entry as name. It reports false if
// name is not defined.
func (st *SymbolTable) Alias(alias, name string) bool {
	s, ok := st.entries[strings.ToUpper(name)]
	if !ok {
		return false
	}
	st.entries[strings.ToUpper(alias)] = s
	return true
}

// Lookup returns the entry for name, ignoring case. Aliases return the
// entry they alias. The returned Symbol must not be modified.
func (st *SymbolTable) Lookup(name string) (*Symbol, bool) {
	s, ok := st.entries[strings.ToUpper(name)]
	return s, ok
}

// Constant returns the value of the named constant name.
func (st *SymbolTable) Constant(name string) (float64, bool) {
	s, ok := st.Lookup(name)
	if !ok || s.Kind != ast.Literal {
		return 0, false
	}
	return s.Value, true
}

// Function returns the built-in function called name.
func (st *SymbolTable) Function(name string) (ast.MathFunc, bool) {
	s, ok := st.Lookup(name)
	if !ok || s.Tag != ast.Func || s.Fn == nil {
		return nil, false
	}
	return s.Fn, true
}

// Names returns every key in the table, aliases included, sorted.
func (st *SymbolTable) Names() []string {
	names := make([]string, 0, len(st.entries))
	for n := range st.entries {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
