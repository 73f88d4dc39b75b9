package ast

import (
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Dump writes an indented tree view of n to w, one node per line, two spaces
// per level. Child expressions of statements are labelled with their role.
//
//	ForDrawStmt @1:1
//	  from: Const 0
//	  to: Binary *
//	    Const 2
//	    Const 3.141592653589793
func Dump(w io.Writer, n Node) error {
	d := &dumper{w: w}
	d.node("", n, 0)
	return d.err
}

type dumper struct {
	w   io.Writer
	err error
}

func (d *dumper) line(depth int, label, format string, args ...any) {
	if d.err != nil {
		return
	}
	prefix := strings.Repeat("  ", depth)
	if label != "" {
		prefix += label + ": "
	}
	_, d.err = fmt.Fprintf(d.w, prefix+format+"\n", args...)
}

func (d *dumper) node(label string, n Node, depth int) {
	switch n := n.(type) {
	case *Program:
		d.line(depth, label, "Program %q (%d statements)", n.File, len(n.Statements))
		for _, s := range n.Statements {
			d.node("", s, depth+1)
		}
	case *OriginStmt:
		d.line(depth, label, "OriginStmt @%s", n.Pos())
		d.node("x", n.X, depth+1)
		d.node("y", n.Y, depth+1)
	case *ScaleStmt:
		d.line(depth, label, "ScaleStmt @%s", n.Pos())
		d.node("x", n.X, depth+1)
		d.node("y", n.Y, depth+1)
	case *RotStmt:
		d.line(depth, label, "RotStmt @%s", n.Pos())
		d.node("angle", n.Angle, depth+1)
	case *ForDrawStmt:
		d.line(depth, label, "ForDrawStmt @%s", n.Pos())
		d.node("from", n.From, depth+1)
		d.node("to", n.To, depth+1)
		d.node("step", n.Step, depth+1)
		d.node("x", n.X, depth+1)
		d.node("y", n.Y, depth+1)
	case *ColorStmt:
		d.line(depth, label, "ColorStmt @%s", n.Pos())
		if n.Name != nil {
			d.node("name", n.Name, depth+1)
			return
		}
		d.node("r", n.R, depth+1)
		d.node("g", n.G, depth+1)
		d.node("b", n.B, depth+1)
	case *SizeStmt:
		d.line(depth, label, "SizeStmt @%s", n.Pos())
		d.node("width", n.Width, depth+1)
		if n.Height != nil {
			d.node("height", n.Height, depth+1)
		}
	case *BinaryExpr:
		d.line(depth, label, "Binary %s", n.Op)
		d.node("", n.Left, depth+1)
		d.node("", n.Right, depth+1)
	case *UnaryExpr:
		d.line(depth, label, "Unary %s", n.Op)
		d.node("", n.Operand, depth+1)
	case *CallExpr:
		if n.Fn == nil {
			d.line(depth, label, "Call %s (unbound)", n.Name)
		} else {
			d.line(depth, label, "Call %s", n.Name)
		}
		d.node("", n.Arg, depth+1)
	case *ConstExpr:
		d.line(depth, label, "Const %s", strconv.FormatFloat(n.Value, 'g', -1, 64))
	case *ParamExpr:
		d.line(depth, label, "Param T")
	case *ColorNameExpr:
		d.line(depth, label, "ColorName %s", n.Name)
	case nil:
		d.line(depth, label, "<nil>")
	default:
		d.line(depth, label, "%T", n)
	}
}
