package codeprocess

import (
	"strconv"

	"github.com/oxhq/midc/internal/ast"
)

// EvalConstInt implements the const-expression solver over integers:
// literals, parenthesization, and arithmetic/comparison over operands that
// are themselves const. Used both for enum constant values and (by
// instantiate, C6) for validating template const arguments. A non-const
// input anywhere in the expression makes the whole evaluation fail.
func EvalConstInt(e ast.Expr) (int64, bool) {
	switch v := e.(type) {
	case nil:
		return 0, false
	case *ast.ValueLiteralExpr:
		n, err := strconv.ParseInt(v.Text, 0, 64)
		if err != nil {
			return 0, false
		}
		return n, true
	case *ast.BoolLiteralExpr:
		return boolToInt(v.Value), true
	case *ast.ParenExpr:
		return EvalConstInt(v.X)
	case *ast.ImplicitCastExpr:
		return EvalConstInt(v.X)
	case *ast.LValueToRValueExpr:
		return EvalConstInt(v.X)
	case *ast.PrefixExpr:
		x, ok := EvalConstInt(v.Operand)
		if !ok {
			return 0, false
		}
		switch v.Op {
		case "-":
			return -x, true
		case "+":
			return x, true
		case "~":
			return ^x, true
		}
		return 0, false
	case *ast.InfixExpr:
		return evalConstInfix(v)
	case *ast.EnumConstRefExpr:
		if v.Decl.Value != nil {
			return *v.Decl.Value, true
		}
		return 0, false
	case *ast.TemplateConstRefExpr:
		return EvalConstInt(v.Param.Default)
	case *ast.LocalVariableRefExpr:
		if v.Decl.IsConstExpr {
			return EvalConstInt(v.Decl.Initializer)
		}
		return 0, false
	case *ast.VariableRefExpr:
		if v.Decl.IsConstExpr {
			return EvalConstInt(v.Decl.Initializer)
		}
		return 0, false
	default:
		return 0, false
	}
}

func evalConstInfix(v *ast.InfixExpr) (int64, bool) {
	l, lok := EvalConstInt(v.LHS)
	r, rok := EvalConstInt(v.RHS)
	if !lok || !rok {
		return 0, false
	}
	switch v.Op {
	case "+":
		return l + r, true
	case "-":
		return l - r, true
	case "*":
		return l * r, true
	case "/":
		if r == 0 {
			return 0, false
		}
		return l / r, true
	case "%":
		if r == 0 {
			return 0, false
		}
		return l % r, true
	case "&":
		return l & r, true
	case "|":
		return l | r, true
	case "^":
		return l ^ r, true
	case "<<":
		return l << uint64(r), true
	case ">>":
		return l >> uint64(r), true
	case "==":
		return boolToInt(l == r), true
	case "!=":
		return boolToInt(l != r), true
	case "<":
		return boolToInt(l < r), true
	case ">":
		return boolToInt(l > r), true
	case "<=":
		return boolToInt(l <= r), true
	case ">=":
		return boolToInt(l >= r), true
	default:
		return 0, false
	}
}

func boolToInt(b bool) int64 {
	if b {
		return 1
	}
	return 0
}
