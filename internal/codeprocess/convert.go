package codeprocess

import (
	"github.com/oxhq/midc/internal/ast"
	"github.com/oxhq/midc/internal/contract"
	"github.com/oxhq/midc/internal/diag"
)

// derefType strips reference/rvalue-reference wrappers to reach the
// underlying type, the same stripping the Match tier applies before
// comparing argument and parameter types.
func derefType(t ast.Type) ast.Type {
	for t != nil {
		switch v := t.(type) {
		case *ast.ReferenceType:
			t = v.Referent
			continue
		case *ast.RValueReferenceType:
			t = v.Referent
			continue
		}
		break
	}
	return t
}

// valueType clones t, setting its lvalue-ness; every resolved expression's
// ValueType carries its own IsLValue flag (ast.ExprBase.IsLValue reads it
// off ValueType.Base()).
func valueType(t ast.Type, lvalue bool) ast.Type {
	if t == nil {
		return nil
	}
	cp := ast.DeepCopyType(t)
	cp.Base().IsLValue = lvalue
	return cp
}

func withType(pos ast.Range, t ast.Type, lvalue bool) ast.ExprBase {
	return ast.ExprBase{Pos: pos, ValueType: valueType(t, lvalue)}
}

// isCastable implements the Castable rule: numeric widening between
// same-signedness, same-floating-ness built-ins; pointer-to-pointer when the
// pointees are themselves implicitly convertible; struct-to-struct only when
// the target is a strict ancestor of the source.
func isCastable(from, to ast.Type) bool {
	from = ast.Unqualified(derefType(from))
	to = ast.Unqualified(derefType(to))
	switch fv := from.(type) {
	case *ast.BuiltInType:
		tv, ok := to.(*ast.BuiltInType)
		if !ok || fv.Signed != tv.Signed || fv.Floating != tv.Floating {
			return false
		}
		return tv.SizeBits >= fv.SizeBits
	case *ast.PointerType:
		tv, ok := to.(*ast.PointerType)
		if !ok {
			return false
		}
		return ast.TypeEqual(fv.Pointee, tv.Pointee) || isCastable(fv.Pointee, tv.Pointee)
	case *ast.StructType:
		tv, ok := to.(*ast.StructType)
		if !ok {
			return false
		}
		dist, ok := contract.InheritanceDistance(fv.Decl, tv.Decl)
		return ok && dist > 0
	default:
		return false
	}
}

// bridgeArg applies the reference/value bridging and implicit-cast
// wrapping for one resolved argument against its chosen parameter type.
func (p *Processor) bridgeArg(arg ast.Expr, paramType ast.Type, isIn bool) ast.Expr {
	if _, wantsRef := paramType.(*ast.ReferenceType); wantsRef {
		if arg.Base().IsLValue() {
			return &ast.RefExpr{ExprBase: withType(arg.Base().Pos, paramType, false), X: arg}
		}
		if isIn {
			return &ast.RValueToInRefExpr{ExprBase: withType(arg.Base().Pos, paramType, false), X: arg}
		}
		p.sink.Error(diag.New(diag.KindType, "", arg.Base().Pos, "cannot bind an rvalue to a reference parameter"))
		return arg
	}

	x := arg
	switch argT := x.Base().ValueType.(type) {
	case *ast.ReferenceType:
		x = &ast.ImplicitDerefExpr{ExprBase: withType(x.Base().Pos, argT.Referent, true), X: x}
	case *ast.RValueReferenceType:
		x = &ast.ImplicitDerefExpr{ExprBase: withType(x.Base().Pos, argT.Referent, true), X: x}
	}
	if x.Base().IsLValue() {
		x = &ast.LValueToRValueExpr{ExprBase: withType(x.Base().Pos, x.Base().ValueType, false), X: x}
	}
	if x.Base().ValueType == nil || !ast.UnqualifiedTypeEqual(x.Base().ValueType, paramType) {
		x = &ast.ImplicitCastExpr{ExprBase: withType(x.Base().Pos, paramType, false), X: x, To: paramType}
	}
	return x
}
