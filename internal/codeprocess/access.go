package codeprocess

import (
	"github.com/oxhq/midc/internal/ast"
	"github.com/oxhq/midc/internal/diag"
)

// finalizeRead converts a raw property/subscript reference produced by
// member-access or subscript resolution into a getter call; every other
// expression passes through unchanged. Called everywhere an expression is
// consumed as a value, never for an assignment's LHS (walkLValue skips it).
func (p *Processor) finalizeRead(e ast.Expr) ast.Expr {
	switch v := e.(type) {
	case *ast.MemberPropertyRefExpr:
		g := chooseGetter(v.Decl.Gets, false)
		if g == nil {
			p.sink.Error(diag.New(diag.KindType, "", v.Pos, "property %q has no getter", v.Decl.Ident.Name))
			return e
		}
		return &ast.PropertyGetCallExpr{ExprBase: withType(v.Pos, v.Decl.Type, true), Object: v.Object, Decl: g}
	case *ast.MemberSubscriptCallExpr:
		g := chooseSubscriptGetter(v.Decl.Gets, false)
		if g == nil {
			p.sink.Error(diag.New(diag.KindType, "", v.Pos, "subscript has no getter"))
			return e
		}
		return &ast.SubscriptOperatorGetCallExpr{ExprBase: withType(v.Pos, g.Result, true), Object: v.Object, Decl: g, Index: v.Index}
	default:
		return e
	}
}

// chooseGetter picks among a property's getter overloads: RefMut when the
// context needs a mutable binding, otherwise the first Ref or Value getter.
func chooseGetter(gets []*ast.PropertyGetDecl, needMut bool) *ast.PropertyGetDecl {
	if needMut {
		for _, g := range gets {
			if g.Kind == ast.SubscriptGetRefMut {
				return g
			}
		}
	}
	for _, g := range gets {
		if g.Kind != ast.SubscriptGetRefMut {
			return g
		}
	}
	if len(gets) > 0 {
		return gets[0]
	}
	return nil
}

func chooseSubscriptGetter(gets []*ast.SubscriptOperatorGetDecl, needMut bool) *ast.SubscriptOperatorGetDecl {
	if needMut {
		for _, g := range gets {
			if g.Kind == ast.SubscriptGetRefMut {
				return g
			}
		}
	}
	for _, g := range gets {
		if g.Kind != ast.SubscriptGetRefMut {
			return g
		}
	}
	if len(gets) > 0 {
		return gets[0]
	}
	return nil
}

// resolveAssignment implements plain `=`: a property or subscript LHS
// desugars into its setter call; anything else keeps its lvalue shape with
// the RHS bridged to its type.
func (p *Processor) resolveAssignment(v *ast.AssignmentExpr, sc *scope) ast.Expr {
	lhs := p.walkLValue(v.LHS, sc)
	rhs := p.walkExpr(v.RHS, sc)

	switch lv := lhs.(type) {
	case *ast.MemberPropertyRefExpr:
		if lv.Decl.Set == nil {
			p.sink.Error(diag.New(diag.KindType, "", v.Pos, "property %q has no setter", lv.Decl.Ident.Name))
			return v
		}
		var valType ast.Type
		isIn := false
		if lv.Decl.Set.ValueParam != nil {
			valType = lv.Decl.Set.ValueParam.Type
			isIn = lv.Decl.Set.ValueParam.IsIn
		}
		return &ast.PropertySetCallExpr{
			ExprBase: ast.ExprBase{Pos: v.Pos},
			Object:   lv.Object,
			Decl:     lv.Decl.Set,
			Value:    p.bridgeArg(rhs, valType, isIn),
		}
	case *ast.MemberSubscriptCallExpr:
		if lv.Decl.Set == nil {
			p.sink.Error(diag.New(diag.KindType, "", v.Pos, "subscript has no setter"))
			return v
		}
		params := lv.Decl.Set.Params
		valParam := params[len(params)-1]
		return &ast.SubscriptOperatorSetCallExpr{
			ExprBase: ast.ExprBase{Pos: v.Pos},
			Object:   lv.Object,
			Decl:     lv.Decl.Set,
			Index:    lv.Index,
			Value:    p.bridgeArg(rhs, valParam.Type, valParam.IsIn),
		}
	default:
		v.LHS = lhs
		v.RHS = p.bridgeArg(rhs, lhs.Base().ValueType, false)
		return v
	}
}
