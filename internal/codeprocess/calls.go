package codeprocess

import (
	"github.com/oxhq/midc/internal/ast"
	"github.com/oxhq/midc/internal/diag"
)

// walkLValue resolves e for use as an assignment target: property and
// subscript access stay in their raw Member*Ref/MemberSubscriptCall shape
// so resolveAssignment can desugar them into a setter call, instead of the
// getter call a plain read would produce.
func (p *Processor) walkLValue(e ast.Expr, sc *scope) ast.Expr {
	switch v := e.(type) {
	case *ast.MemberAccessCallExpr:
		return p.resolveMemberAccessRaw(v, sc)
	case *ast.SubscriptCallExpr:
		return p.resolveFreeSubscript(v, sc)
	default:
		return p.walkExpr(e, sc)
	}
}

// resolveMemberAccessRaw rewrites `a.b` / `a.b(args...)`: Object is
// resolved first; a NamespaceRefExpr object means Name is looked up
// directly in that namespace instead of through member-access rules.
func (p *Processor) resolveMemberAccessRaw(v *ast.MemberAccessCallExpr, sc *scope) ast.Expr {
	obj := p.walkExpr(v.Object, sc)

	if nsRef, ok := obj.(*ast.NamespaceRefExpr); ok {
		return p.resolveNamespaceMember(nsRef, v, sc)
	}

	objType := obj.Base().ValueType
	if objType == nil {
		p.sink.Error(diag.New(diag.KindLookup, "", v.Pos, "cannot access member %q: operand has no resolved type", v.Name))
		return v
	}

	if v.HasArgs {
		return p.resolveMethodCall(obj, derefType(objType), v, sc)
	}

	ref, ok := p.lookupMember(objType, obj, v.Name, v.Pos)
	if !ok {
		p.sink.Error(diag.New(diag.KindLookup, "", v.Pos, "%s has no member %q", typeDisplayName(derefType(objType)), v.Name))
		return v
	}
	return ref
}

func (p *Processor) resolveNamespaceMember(nsRef *ast.NamespaceRefExpr, v *ast.MemberAccessCallExpr, sc *scope) ast.Expr {
	d, ok := nsRef.Namespace.FindDecl(v.Name)
	if !ok {
		if child, ok := nsRef.Namespace.Children[v.Name]; ok {
			return &ast.NamespaceRefExpr{ExprBase: ast.ExprBase{Pos: v.Pos}, Namespace: child}
		}
		p.sink.Error(diag.New(diag.KindLookup, "", v.Pos, "namespace %q has no member %q", nsRef.Namespace.Name, v.Name))
		return v
	}
	if !v.HasArgs {
		return p.referenceForDecl(d, v.Pos)
	}

	p.walkExprs(v.Args, sc)
	fd, isFn := d.(*ast.FunctionDecl)
	if !isFn {
		p.sink.Error(diag.New(diag.KindLookup, "", v.Pos, "%q is not callable", v.Name))
		return v
	}
	candidates := []candidate{{params: fd.Params, result: fd.Result, tag: fd}}
	for _, other := range sc.outer.LookupAll(v.Name) {
		if ofd, ok := other.(*ast.FunctionDecl); ok && ofd != fd {
			candidates = append(candidates, candidate{params: ofd.Params, result: ofd.Result, tag: ofd})
		}
	}
	return p.buildFreeCall(candidates, v.Args, v.Labels, v.Pos, sc)
}

// resolveMethodCall resolves `object.name(args...)` against the method
// overloads named Name on t.
func (p *Processor) resolveMethodCall(obj ast.Expr, t ast.Type, v *ast.MemberAccessCallExpr, sc *scope) ast.Expr {
	p.walkExprs(v.Args, sc)

	fns := memberCandidates(t, v.Name)
	if len(fns) == 0 {
		p.sink.Error(diag.New(diag.KindLookup, "", v.Pos, "%s has no method %q", typeDisplayName(t), v.Name))
		return v
	}
	candidates := make([]candidate, len(fns))
	for i, fd := range fns {
		candidates[i] = candidate{params: fd.Params, result: fd.Result, tag: fd}
	}
	best, ambiguous, ok := resolveOverload(candidates, v.Args, v.Labels)
	if !ok {
		p.sink.Error(diag.New(diag.KindLookup, "", v.Pos, "no overload of %q accepts these arguments", v.Name))
		return v
	}
	if ambiguous {
		p.sink.Error(diag.New(diag.KindLookup, "", v.Pos, "call to %q is ambiguous", v.Name))
	}
	fd := best.tag.(*ast.FunctionDecl)
	args, labels := p.bridgeArgs(v.Args, v.Labels, fd.Params, sc)
	return &ast.MemberFunctionCallExpr{
		ExprBase:          withType(v.Pos, fd.Result, false),
		Object:            obj,
		Decl:              fd,
		Args:              args,
		Labels:            labels,
		IsVirtualDispatch: fd.VTableSlot >= 0,
	}
}

// resolveFunctionCall handles `name(args...)` and `expr(args...)`: a bare
// identifier callee may name a type (constructor call), an overloaded free
// function, or fall through to call-operator dispatch on an arbitrary
// callable value.
func (p *Processor) resolveFunctionCall(v *ast.FunctionCallExpr, sc *scope) ast.Expr {
	p.walkExprs(v.Args, sc)

	if id, ok := v.Callee.(*ast.IdentifierExpr); ok {
		if ctor := p.tryResolveConstructorCall(id, v, sc); ctor != nil {
			return ctor
		}
		if candidates, ok := p.freeFunctionCandidates(id.Name, sc); ok {
			return p.buildFreeCall(candidates, v.Args, v.Labels, v.Pos, sc)
		}
	}

	callee := p.walkExpr(v.Callee, sc)
	return p.resolveCallOperator(callee, v, sc)
}

func (p *Processor) freeFunctionCandidates(name string, sc *scope) ([]candidate, bool) {
	decls := sc.outer.LookupAll(name)
	var out []candidate
	for _, d := range decls {
		if fd, ok := d.(*ast.FunctionDecl); ok {
			out = append(out, candidate{params: fd.Params, result: fd.Result, tag: fd})
		}
	}
	return out, len(out) > 0
}

func (p *Processor) buildFreeCall(candidates []candidate, args []ast.Expr, labels []string, pos ast.Range, sc *scope) ast.Expr {
	best, ambiguous, ok := resolveOverload(candidates, args, labels)
	if !ok {
		p.sink.Error(diag.New(diag.KindLookup, "", pos, "no matching overload for this call"))
		return &ast.FunctionCallExpr{ExprBase: ast.ExprBase{Pos: pos}, Args: args, Labels: labels}
	}
	if ambiguous {
		p.sink.Error(diag.New(diag.KindLookup, "", pos, "call is ambiguous"))
	}
	fd := best.tag.(*ast.FunctionDecl)
	bridged, outLabels := p.bridgeArgs(args, labels, fd.Params, sc)
	return &ast.FunctionCallExpr{
		ExprBase: withType(pos, fd.Result, false),
		Callee:   &ast.FunctionReferenceExpr{ExprBase: ast.ExprBase{Pos: pos}, Decl: fd},
		Args:     bridged,
		Labels:   outLabels,
	}
}

// resolveCallOperator dispatches `value(args...)` to value's struct's
// CallOperatorDecl when value is not itself a function reference.
func (p *Processor) resolveCallOperator(callee ast.Expr, v *ast.FunctionCallExpr, sc *scope) ast.Expr {
	if fr, ok := callee.(*ast.FunctionReferenceExpr); ok {
		bridged, labels := p.bridgeArgs(v.Args, v.Labels, fr.Decl.Params, sc)
		return &ast.FunctionCallExpr{ExprBase: withType(v.Pos, fr.Decl.Result, false), Callee: fr, Args: bridged, Labels: labels}
	}

	t := derefType(callee.Base().ValueType)
	st, ok := t.(*ast.StructType)
	if !ok {
		p.sink.Error(diag.New(diag.KindLookup, "", v.Pos, "value is not callable"))
		v.Callee = callee
		return v
	}
	var op *ast.CallOperatorDecl
	for _, m := range st.Decl.Members {
		if cod, ok := m.(*ast.CallOperatorDecl); ok {
			op = cod
			break
		}
	}
	if op == nil {
		p.sink.Error(diag.New(diag.KindLookup, "", v.Pos, "%s has no call operator", typeDisplayName(t)))
		v.Callee = callee
		return v
	}
	bridged, labels := p.bridgeArgs(v.Args, v.Labels, op.Params, sc)
	ref := &ast.CallOperatorReferenceExpr{ExprBase: ast.ExprBase{Pos: v.Pos}, Object: callee, Decl: op}
	return &ast.FunctionCallExpr{ExprBase: withType(v.Pos, op.Result, false), Callee: ref, Args: bridged, Labels: labels}
}

func (p *Processor) resolveFreeSubscript(v *ast.SubscriptCallExpr, sc *scope) ast.Expr {
	callee := p.walkExpr(v.Callee, sc)
	p.walkExprs(v.Index, sc)
	t := derefType(callee.Base().ValueType)
	st, ok := t.(*ast.StructType)
	if !ok {
		p.sink.Error(diag.New(diag.KindLookup, "", v.Pos, "%s has no subscript operator", typeDisplayName(t)))
		return v
	}
	var sub *ast.SubscriptOperatorDecl
	for _, m := range st.Decl.Members {
		if sod, ok := m.(*ast.SubscriptOperatorDecl); ok {
			sub = sod
			break
		}
	}
	if sub == nil {
		p.sink.Error(diag.New(diag.KindLookup, "", v.Pos, "%s has no subscript operator", typeDisplayName(t)))
		return v
	}
	return &ast.MemberSubscriptCallExpr{ExprBase: v.ExprBase, Object: callee, Decl: sub, Index: v.Index}
}
