// Package transform implements C8, the code transformer: it
// runs after codeprocess (C7) has resolved every expression in the tree, and
// rewrites statement and constructor-call shape so the code generator never
// has to reason about scope exit, construction sites, or control flow on its
// own. It materializes per-statement temporaries, assigns constructor calls
// their object, synthesizes the bodies instantiate (C6) left empty for
// implicit constructors/destructors, inserts the destructor calls every
// early exit (break/continue/return/goto) must run, completes implicit void
// returns, validates goto targets, and lowers virtual dispatch inside the
// ctor/dtor that owns the callee.
package transform

import (
	"github.com/oxhq/midc/internal/ast"
	"github.com/oxhq/midc/internal/diag"
	"github.com/oxhq/midc/internal/target"
)

// Transformer runs C8 over a prototype tree already processed by codeprocess
// (C7).
type Transformer struct {
	target target.Descriptor
	sink   *diag.Sink
	temps  int
}

// New builds a Transformer for the given target and diagnostic sink.
func New(t target.Descriptor, sink *diag.Sink) *Transformer {
	return &Transformer{target: t, sink: sink}
}

// Run walks every declaration reachable from root.
func (tr *Transformer) Run(root *ast.PrototypeNamespace) {
	tr.walkNamespace(root)
}

func (tr *Transformer) walkNamespace(ns *ast.PrototypeNamespace) {
	for _, frag := range ns.Fragments {
		for _, d := range frag.Decls {
			tr.ProcessDecl(nil, d)
		}
	}
	for _, child := range ns.Children {
		tr.walkNamespace(child)
	}
}

// ProcessDecl processes one declaration d in the context of selfStruct (nil
// outside a struct member).
func (tr *Transformer) ProcessDecl(selfStruct *ast.StructDecl, d ast.Decl) {
	switch v := d.(type) {
	case *ast.StructDecl:
		tr.synthesizeImplicitMembers(v)
		for _, m := range v.Members {
			tr.ProcessDecl(v, m)
		}
	case *ast.TraitDecl:
		for _, m := range v.Members {
			tr.ProcessDecl(nil, m)
		}
	case *ast.ExtensionDecl:
		var ext *ast.StructDecl
		if st, ok := v.ExtendedType.(*ast.StructType); ok {
			ext = st.Decl
		}
		for _, m := range v.Members {
			tr.ProcessDecl(ext, m)
		}
	case *ast.FunctionDecl:
		sc := newScope(selfStruct, false, false)
		tr.walkBody(v.Body, v.Result, v.Ident.Name, sc)
	case *ast.ConstructorDecl:
		tr.processConstructor(selfStruct, v)
	case *ast.DestructorDecl:
		sc := newScope(selfStruct, true, true)
		tr.walkBody(v.Body, nil, v.Ident.Name, sc)
	case *ast.OperatorDecl:
		sc := newScope(selfStruct, false, false)
		tr.walkBody(v.Body, v.Result, v.Ident.Name, sc)
	case *ast.CallOperatorDecl:
		sc := newScope(selfStruct, false, false)
		tr.walkBody(v.Body, v.Result, "call operator", sc)
	case *ast.TypeSuffixDecl:
		sc := newScope(selfStruct, false, false)
		tr.walkBody(v.Body, v.Result, "suffix "+v.Suffix, sc)
	case *ast.SubscriptOperatorDecl:
		for _, g := range v.Gets {
			sc := newScope(selfStruct, false, false)
			tr.walkBody(g.Body, g.Result, "subscript getter", sc)
		}
		if v.Set != nil {
			sc := newScope(selfStruct, false, false)
			tr.walkBody(v.Set.Body, nil, "subscript setter", sc)
		}
	case *ast.PropertyDecl:
		for _, g := range v.Gets {
			sc := newScope(selfStruct, false, false)
			tr.walkBody(g.Body, v.Type, v.Ident.Name+".get", sc)
		}
		if v.Set != nil {
			sc := newScope(selfStruct, false, false)
			tr.walkBody(v.Set.Body, nil, v.Ident.Name+".set", sc)
		}
	case *ast.TemplateStructDecl:
		for _, inst := range v.Instantiations {
			tr.ProcessDecl(nil, inst.Struct)
		}
	case *ast.TemplateTraitDecl:
		for _, inst := range v.Instantiations {
			tr.ProcessDecl(nil, inst.Trait)
		}
	case *ast.TemplateFunctionDecl:
		for _, inst := range v.Instantiations {
			tr.ProcessDecl(nil, inst.Function)
		}
	}
}

func (tr *Transformer) processConstructor(selfStruct *ast.StructDecl, c *ast.ConstructorDecl) {
	if ctor, ok := c.BaseCall.(*ast.ConstructorCallExpr); ok {
		ctor.ObjectRef = &ast.CurrentSelfExpr{ExprBase: ast.ExprBase{ValueType: ctor.ValueType}}
	}
	sc := newScope(selfStruct, true, false)
	name := ""
	if selfStruct != nil {
		name = selfStruct.Ident.Name
	}
	tr.walkBody(c.Body, nil, name, sc)
}
