package codeprocess

import (
	"github.com/oxhq/midc/internal/ast"
	"github.com/oxhq/midc/internal/contract"
	"github.com/oxhq/midc/internal/diag"
)

// walkCompound resolves every statement in cs, pushing a fresh block scope
// so locals declared inside it fall out of lookup at the closing brace.
func (p *Processor) walkCompound(cs *ast.CompoundStmt, sc *scope) {
	if cs == nil {
		return
	}
	sc.pushBlock()
	for i, st := range cs.Stmts {
		cs.Stmts[i] = p.walkStmt(st, sc)
	}
	sc.popBlock()
}

func (p *Processor) walkStmt(st ast.Stmt, sc *scope) ast.Stmt {
	switch v := st.(type) {
	case *ast.CompoundStmt:
		p.walkCompound(v, sc)
	case *ast.ExprStmt:
		v.X = p.walkExpr(v.X, sc)
		if decl, ok := v.X.(*ast.VariableDeclExpr); ok {
			sc.declareLocal(decl.Decl)
		}
	case *ast.IfStmt:
		v.Cond = p.walkExpr(v.Cond, sc)
		p.walkCompound(v.Then, sc)
		if v.Else != nil {
			v.Else = p.walkStmt(v.Else, sc)
		}
	case *ast.WhileStmt:
		v.Cond = p.walkExpr(v.Cond, sc)
		p.walkCompound(v.Body, sc)
	case *ast.DoWhileStmt:
		p.walkCompound(v.Body, sc)
		v.Cond = p.walkExpr(v.Cond, sc)
	case *ast.RepeatWhileStmt:
		sc.pushBlock()
		for i, s := range v.Body.Stmts {
			v.Body.Stmts[i] = p.walkStmt(s, sc)
		}
		v.Cond = p.walkExpr(v.Cond, sc)
		sc.popBlock()
	case *ast.ForStmt:
		sc.pushBlock()
		if v.Init != nil {
			v.Init = p.walkStmt(v.Init, sc)
		}
		if v.Cond != nil {
			v.Cond = p.walkExpr(v.Cond, sc)
		}
		for i, s := range v.Body.Stmts {
			v.Body.Stmts[i] = p.walkStmt(s, sc)
		}
		if v.Post != nil {
			v.Post = p.walkStmt(v.Post, sc)
		}
		sc.popBlock()
	case *ast.SwitchStmt:
		v.Subject = p.walkExpr(v.Subject, sc)
		for _, c := range v.Cases {
			for i, val := range c.Values {
				c.Values[i] = p.walkExpr(val, sc)
			}
			sc.pushBlock()
			for i, s := range c.Body {
				c.Body[i] = p.walkStmt(s, sc)
			}
			sc.popBlock()
		}
	case *ast.DoCatchStmt:
		p.walkCompound(v.Try, sc)
		for _, c := range v.Catches {
			sc.pushBlock()
			if c.Binding != nil {
				sc.declareLocal(c.Binding)
			}
			p.walkCompound(c.Body, sc)
			sc.popBlock()
		}
	case *ast.LabeledStmt:
		v.LocalCountAtLabel = sc.localCount()
		v.Stmt = p.walkStmt(v.Stmt, sc)
	case *ast.ReturnStmt:
		if v.Value != nil {
			v.Value = p.walkExpr(v.Value, sc)
		}
	case *ast.BreakStmt, *ast.ContinueStmt, *ast.FallthroughStmt, *ast.GotoStmt:
		// no expressions to resolve; deferred-destructor lists are C8's job.
	}
	return st
}

func (p *Processor) walkExprs(exprs []ast.Expr, sc *scope) {
	for i, e := range exprs {
		exprs[i] = p.walkExpr(e, sc)
	}
}

// walkExpr resolves e bottom-up: operands are resolved first so that
// operator dispatch, overload resolution and bridging can inspect their
// value_type.
func (p *Processor) walkExpr(e ast.Expr, sc *scope) ast.Expr {
	switch v := e.(type) {
	case nil:
		return nil
	case *ast.ValueLiteralExpr, *ast.BoolLiteralExpr, *ast.TypeExpr:
		return v
	case *ast.ArrayLiteralExpr:
		p.walkExprs(v.Elements, sc)
		return v
	case *ast.IdentifierExpr:
		return p.resolveIdentifier(v, sc)
	case *ast.MemberAccessCallExpr:
		return p.finalizeRead(p.resolveMemberAccessRaw(v, sc))
	case *ast.FunctionCallExpr:
		return p.resolveFunctionCall(v, sc)
	case *ast.SubscriptCallExpr:
		return p.finalizeRead(p.resolveFreeSubscript(v, sc))
	case *ast.MemberSubscriptCallExpr:
		v.Object = p.walkExpr(v.Object, sc)
		p.walkExprs(v.Index, sc)
		return p.finalizeRead(v)
	case *ast.PrefixExpr:
		return p.resolvePrefix(v, sc)
	case *ast.PostfixExpr:
		return p.resolvePostfix(v, sc)
	case *ast.InfixExpr:
		return p.resolveInfix(v, sc)
	case *ast.AssignmentExpr:
		return p.resolveAssignment(v, sc)
	case *ast.TernaryExpr:
		v.Cond = p.walkExpr(v.Cond, sc)
		v.Then = p.walkExpr(v.Then, sc)
		v.Else = p.walkExpr(v.Else, sc)
		v.ValueType = v.Then.Base().ValueType
		return v
	case *ast.TryExpr:
		v.X = p.walkExpr(v.X, sc)
		v.ValueType = v.X.Base().ValueType
		return v
	case *ast.ParenExpr:
		v.X = p.walkExpr(v.X, sc)
		v.ValueType = v.X.Base().ValueType
		return v
	case *ast.LabeledArgumentExpr:
		v.X = p.walkExpr(v.X, sc)
		v.ValueType = v.X.Base().ValueType
		return v
	case *ast.IsExpr:
		v.X = p.walkExpr(v.X, sc)
		v.ValueType = valueType(&ast.BuiltInType{Name: "bool", SizeBits: 8}, false)
		return v
	case *ast.HasExpr:
		v.X = p.walkExpr(v.X, sc)
		v.ValueType = valueType(&ast.BuiltInType{Name: "bool", SizeBits: 8}, false)
		return v
	case *ast.CheckExtendsTypeExpr:
		v.ValueType = valueType(&ast.BuiltInType{Name: "bool", SizeBits: 8}, false)
		return v
	case *ast.VariableDeclExpr:
		if v.Decl.Initializer != nil {
			v.Decl.Initializer = p.walkExpr(v.Decl.Initializer, sc)
		}
		return v
	case *ast.AsExpr:
		v.X = p.walkExpr(v.X, sc)
		v.ValueType = valueType(v.To, false)
		return v
	case *ast.AsOptionalExpr:
		v.X = p.walkExpr(v.X, sc)
		v.ValueType = valueType(v.To, false)
		return v
	case *ast.AsForceExpr:
		v.X = p.walkExpr(v.X, sc)
		v.ValueType = valueType(v.To, false)
		return v
	default:
		return e
	}
}

// resolveIdentifier implements the identifier search order: locals,
// params, template params of enclosing templates, Self members (with
// CurrentSelf auto-inserted), containing namespace/file, imports.
func (p *Processor) resolveIdentifier(v *ast.IdentifierExpr, sc *scope) ast.Expr {
	name, pos := v.Name, v.Pos

	if name == "self" {
		if sc.selfType == nil {
			p.sink.Error(diag.New(diag.KindLookup, "", pos, "'self' used outside a member context"))
			return v
		}
		return &ast.CurrentSelfExpr{ExprBase: withType(pos, sc.selfType, true)}
	}

	if loc, ok := sc.lookupLocal(name); ok {
		return &ast.LocalVariableRefExpr{ExprBase: withType(pos, loc.Type, true), Decl: loc}
	}
	if prm, ok := sc.lookupParam(name); ok {
		return &ast.ParameterRefExpr{ExprBase: withType(pos, prm.Type, true), Decl: prm}
	}
	if d, ok := sc.outer.Lookup(name); ok {
		if tp, isTP := d.(*ast.TemplateParameterDecl); isTP {
			return p.referenceForDecl(tp, pos)
		}
	}
	if sc.selfType != nil {
		self := &ast.CurrentSelfExpr{ExprBase: withType(pos, sc.selfType, true)}
		if ref, ok := p.lookupMember(sc.selfType, self, name, pos); ok {
			return ref
		}
	}
	if d, ok := sc.outer.Lookup(name); ok {
		return p.referenceForDecl(d, pos)
	}
	if ns, ok := p.namespaceChild(name); ok {
		return &ast.NamespaceRefExpr{ExprBase: ast.ExprBase{Pos: pos}, Namespace: ns}
	}

	p.sink.Error(diag.New(diag.KindLookup, "", pos, "undeclared identifier %q", name))
	return v
}

// namespaceChild resolves a bare identifier to a root-level namespace
// segment, for the rare case of referencing a sibling namespace not reached
// through an explicit import.
func (p *Processor) namespaceChild(name string) (*ast.PrototypeNamespace, bool) {
	if p.root == nil {
		return nil, false
	}
	ns, ok := p.root.Children[name]
	return ns, ok
}

// referenceForDecl turns a plain Decl found via the outer (non-local,
// non-member) scope chain into a resolved reference expression. Overloaded
// functions are left for resolveFunctionCall to disambiguate against a
// concrete argument list; a bare reference to one just names the first.
func (p *Processor) referenceForDecl(d ast.Decl, pos ast.Range) ast.Expr {
	switch dv := d.(type) {
	case *ast.VariableDecl:
		return &ast.VariableRefExpr{ExprBase: withType(pos, dv.Type, true), Decl: dv}
	case *ast.FunctionDecl:
		return &ast.FunctionReferenceExpr{ExprBase: ast.ExprBase{Pos: pos}, Decl: dv}
	case *ast.EnumConstDecl:
		var t ast.Type
		if ed, ok := dv.Container.(*ast.EnumDecl); ok {
			t = &ast.EnumType{Decl: ed}
		}
		return &ast.EnumConstRefExpr{ExprBase: withType(pos, t, false), Decl: dv}
	case *ast.TemplateParameterDecl:
		if dv.Kind == ast.TemplateParamConst {
			return &ast.TemplateConstRefExpr{ExprBase: withType(pos, dv.ConstType, false), Param: dv}
		}
		p.sink.Error(diag.New(diag.KindType, "", pos, "typename parameter %q used as a value", dv.Ident.Name))
		return &ast.IdentifierExpr{ExprBase: ast.ExprBase{Pos: pos}, Name: dv.Ident.Name}
	default:
		return &ast.IdentifierExpr{ExprBase: ast.ExprBase{Pos: pos}, Name: d.Base().Ident.Name}
	}
}

// lookupMember resolves name against t's member set (stripping pointer and
// reference wrappers first), returning the appropriately-shaped member
// reference. FunctionDecl matches come back as a MemberFunctionCall with no
// Args/Labels, and nothing later fills them in; a call written with an
// argument list is resolved by resolveMethodCall, which does not come here.
func (p *Processor) lookupMember(objType ast.Type, obj ast.Expr, name string, pos ast.Range) (ast.Expr, bool) {
	t := objType
	for {
		switch tv := t.(type) {
		case *ast.PointerType:
			obj = &ast.ImplicitDerefExpr{ExprBase: withType(pos, tv.Pointee, true), X: obj}
			t = tv.Pointee
			continue
		case *ast.ReferenceType:
			obj = &ast.ImplicitDerefExpr{ExprBase: withType(pos, tv.Referent, true), X: obj}
			t = tv.Referent
			continue
		}
		break
	}

	for _, m := range contract.Members(t) {
		if m.Base().Ident.Name != name {
			continue
		}
		switch md := m.(type) {
		case *ast.VariableDecl:
			return &ast.MemberVariableRefExpr{ExprBase: withType(pos, md.Type, true), Object: obj, Decl: md}, true
		case *ast.PropertyDecl:
			return &ast.MemberPropertyRefExpr{ExprBase: withType(pos, md.Type, true), Object: obj, Decl: md}, true
		case *ast.FunctionDecl:
			return &ast.MemberFunctionCallExpr{ExprBase: ast.ExprBase{Pos: pos}, Object: obj, Decl: md}, true
		}
	}
	return nil, false
}

// memberCandidates collects every FunctionDecl member of t named name, for
// overload resolution at a method call site.
func memberCandidates(t ast.Type, name string) []*ast.FunctionDecl {
	var out []*ast.FunctionDecl
	for _, m := range contract.Members(t) {
		if fd, ok := m.(*ast.FunctionDecl); ok && fd.Ident.Name == name {
			out = append(out, fd)
		}
	}
	return out
}

func typeDisplayName(t ast.Type) string {
	switch v := t.(type) {
	case *ast.StructType:
		return v.Decl.Ident.Name
	case *ast.TraitType:
		return v.Decl.Ident.Name
	case *ast.BuiltInType:
		return v.Name
	case nil:
		return "<unknown>"
	default:
		return "value"
	}
}
