package codeprocess

import (
	"github.com/oxhq/midc/internal/ast"
	"github.com/oxhq/midc/internal/diag"
)

// tryResolveConstructorCall recognizes `TypeName(args)` (parsed as a plain
// FunctionCallExpr over an identifier callee) and resolves it
// against the best-matching constructor of the struct id names. Returns nil
// when id does not name a struct, so the caller falls through to free-
// function resolution.
func (p *Processor) tryResolveConstructorCall(id *ast.IdentifierExpr, v *ast.FunctionCallExpr, sc *scope) ast.Expr {
	var sd *ast.StructDecl
	for _, d := range sc.outer.LookupAll(id.Name) {
		if s, ok := d.(*ast.StructDecl); ok {
			sd = s
			break
		}
	}
	if sd == nil {
		return nil
	}

	ctors := usableConstructors(sd, nil)
	if len(ctors) == 0 {
		p.sink.Error(diag.New(diag.KindLookup, "", v.Pos, "%s has no usable constructor", sd.Ident.Name))
		return &ast.ConstructorCallExpr{ExprBase: withType(v.Pos, &ast.StructType{Decl: sd}, false)}
	}

	candidates := make([]candidate, len(ctors))
	for i, cd := range ctors {
		candidates[i] = candidate{params: cd.Params, tag: cd}
	}
	best, ambiguous, ok := resolveOverload(candidates, v.Args, v.Labels)
	if !ok {
		p.sink.Error(diag.New(diag.KindLookup, "", v.Pos, "no constructor of %q accepts these arguments", sd.Ident.Name))
		return &ast.ConstructorCallExpr{ExprBase: withType(v.Pos, &ast.StructType{Decl: sd}, false)}
	}
	if ambiguous {
		p.sink.Error(diag.New(diag.KindLookup, "", v.Pos, "constructor call to %q is ambiguous", sd.Ident.Name))
	}

	cd := best.tag.(*ast.ConstructorDecl)
	args, labels := p.bridgeArgs(v.Args, v.Labels, cd.Params, sc)
	return &ast.ConstructorCallExpr{
		ExprBase: withType(v.Pos, &ast.StructType{Decl: sd}, false),
		Decl:     cd,
		Args:     args,
		Labels:   labels,
	}
}

// usableConstructors lists sd's non-deleted constructors, excluding exclude
// (used for `self(...)` delegating calls, which may never target the
// constructor they appear inside).
func usableConstructors(sd *ast.StructDecl, exclude *ast.ConstructorDecl) []*ast.ConstructorDecl {
	var out []*ast.ConstructorDecl
	for _, m := range sd.Members {
		if cd, ok := m.(*ast.ConstructorDecl); ok && cd.Status != ast.ConstructorDeleted && cd != exclude {
			out = append(out, cd)
		}
	}
	return out
}

// resolveBaseCall resolves a constructor's leading base(...)/self(...) call:
// a written call is matched against the target struct's
// constructors; an absent one gets an implicit call to the base struct's
// visible default constructor, if it has one.
func (p *Processor) resolveBaseCall(selfType ast.Type, c *ast.ConstructorDecl, sc *scope) ast.Expr {
	st, ok := selfType.(*ast.StructType)
	if !ok {
		return nil
	}

	if c.BaseCall == nil {
		base := st.Decl.BaseStruct
		if base == nil || base.DefaultCtor == nil || base.DefaultCtor.Status == ast.ConstructorDeleted {
			return nil
		}
		return &ast.ConstructorCallExpr{
			ExprBase: withType(ast.Range{}, &ast.StructType{Decl: base}, false),
			Decl:     base.DefaultCtor,
		}
	}

	fc, ok := c.BaseCall.(*ast.FunctionCallExpr)
	if !ok {
		return p.walkExpr(c.BaseCall, sc)
	}
	id, ok := fc.Callee.(*ast.IdentifierExpr)
	if !ok {
		return p.walkExpr(c.BaseCall, sc)
	}

	p.walkExprs(fc.Args, sc)

	var target *ast.StructDecl
	var exclude *ast.ConstructorDecl
	switch id.Name {
	case "base":
		target = st.Decl.BaseStruct
	case "self":
		target = st.Decl
		exclude = c
	default:
		return p.walkExpr(c.BaseCall, sc)
	}
	if target == nil {
		p.sink.Error(diag.New(diag.KindLookup, "", fc.Pos, "%q has no base struct", st.Decl.Ident.Name))
		return nil
	}

	ctors := usableConstructors(target, exclude)
	candidates := make([]candidate, len(ctors))
	for i, cd := range ctors {
		candidates[i] = candidate{params: cd.Params, tag: cd}
	}
	best, ambiguous, ok := resolveOverload(candidates, fc.Args, fc.Labels)
	if !ok {
		p.sink.Error(diag.New(diag.KindLookup, "", fc.Pos, "no constructor of %q accepts these arguments", target.Ident.Name))
		return nil
	}
	if ambiguous {
		p.sink.Error(diag.New(diag.KindLookup, "", fc.Pos, "base constructor call is ambiguous"))
	}

	cd := best.tag.(*ast.ConstructorDecl)
	args, labels := p.bridgeArgs(fc.Args, fc.Labels, cd.Params, sc)
	return &ast.ConstructorCallExpr{
		ExprBase: withType(fc.Pos, &ast.StructType{Decl: target}, false),
		Decl:     cd,
		Args:     args,
		Labels:   labels,
	}
}
