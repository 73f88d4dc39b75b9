package ast

import "math"

// Env is the evaluation environment: the current value of the loop
// parameter T. The semantic evaluator owns it and passes it into every call.
type Env struct {
	T float64
}

// Eval computes the value of e under env. A nil env reads T as 0.
//
// Division by zero yields 0, ** follows math.Pow, and a call whose function
// is unbound yields 0. A ColorNameExpr has no numeric value and yields 0.
// Eval never caches: each call walks the whole subtree again.
func Eval(e Expression, env *Env) float64 {
	switch n := e.(type) {
	case *ConstExpr:
		return n.Value
	case *ParamExpr:
		if env == nil {
			return 0
		}
		return env.T
	case *UnaryExpr:
		v := Eval(n.Operand, env)
		if n.Op == Minus {
			return -v
		}
		return v
	case *BinaryExpr:
		l, r := Eval(n.Left, env), Eval(n.Right, env)
		switch n.Op {
		case Plus:
			return l + r
		case Minus:
			return l - r
		case Mul:
			return l * r
		case Div:
			if r == 0 {
				return 0
			}
			return l / r
		case Power:
			return math.Pow(l, r)
		}
		return 0
	case *CallExpr:
		if n.Fn == nil {
			return 0
		}
		return n.Fn(Eval(n.Arg, env))
	}
	return 0
}
