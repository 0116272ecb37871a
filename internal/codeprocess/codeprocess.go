// Package codeprocess implements C7, the code processor: it
// resolves every expression left unresolved by the parser and by C5/C6 —
// identifiers, member access, operators, calls, properties, and
// subscripts — against the fully-instantiated declarations C6 produced, and
// rewrites the tree into the fully-annotated form C8 (transform) and the
// code generator expect. It runs after instantiate (C6) has processed the
// whole prototype tree: every Type it sees is already ground.
package codeprocess

import (
	"github.com/oxhq/midc/internal/ast"
	"github.com/oxhq/midc/internal/diag"
	"github.com/oxhq/midc/internal/target"
)

// Processor runs C7 over a prototype tree already processed by C4, C5, and
// C6.
type Processor struct {
	target target.Descriptor
	sink   *diag.Sink
	root   *ast.PrototypeNamespace
}

// New builds a Processor for the given target and diagnostic sink.
func New(t target.Descriptor, sink *diag.Sink) *Processor {
	return &Processor{target: t, sink: sink}
}

// Run walks every declaration reachable from root, resolving expressions in
// every function/method/operator/property/subscript body, every field
// initializer, and every enum constant initializer.
func (p *Processor) Run(root *ast.PrototypeNamespace) {
	p.root = root
	p.walkNamespace(root)
}

func (p *Processor) walkNamespace(ns *ast.PrototypeNamespace) {
	for _, frag := range ns.Fragments {
		for _, d := range frag.Decls {
			p.ProcessDecl(nil, d)
		}
	}
	for _, child := range ns.Children {
		p.walkNamespace(child)
	}
}

// ProcessDecl processes one declaration d in the context of selfType (nil
// outside a struct/trait member). It is exported so instantiate (C6) can
// drive it directly over an imaginary-validation body.
func (p *Processor) ProcessDecl(selfType ast.Type, d ast.Decl) {
	switch v := d.(type) {
	case *ast.StructDecl:
		self := &ast.StructType{Decl: v}
		for _, m := range v.Members {
			p.ProcessDecl(self, m)
		}
	case *ast.TraitDecl:
		self := &ast.TraitType{Decl: v}
		for _, m := range v.Members {
			p.ProcessDecl(self, m)
		}
	case *ast.ExtensionDecl:
		for _, m := range v.Members {
			p.ProcessDecl(v.ExtendedType, m)
		}
	case *ast.FunctionDecl:
		p.processFunction(selfType, v)
	case *ast.ConstructorDecl:
		p.processConstructor(selfType, v)
	case *ast.DestructorDecl:
		p.processDestructor(selfType, v)
	case *ast.OperatorDecl:
		p.processOperator(selfType, v)
	case *ast.CallOperatorDecl:
		p.processCallOperatorDecl(selfType, v)
	case *ast.TypeSuffixDecl:
		p.processTypeSuffix(selfType, v)
	case *ast.SubscriptOperatorDecl:
		p.processSubscriptOperatorDecl(selfType, v)
	case *ast.PropertyDecl:
		p.processPropertyDecl(selfType, v)
	case *ast.VariableDecl:
		if v.Initializer != nil {
			sc := p.newScope(selfType, nil, v)
			v.Initializer = p.walkExpr(v.Initializer, sc)
		}
	case *ast.EnumDecl:
		p.processEnum(v)
	case *ast.TemplateStructDecl:
		for _, inst := range v.Instantiations {
			p.ProcessDecl(nil, inst.Struct)
		}
	case *ast.TemplateTraitDecl:
		for _, inst := range v.Instantiations {
			p.ProcessDecl(nil, inst.Trait)
		}
	case *ast.TemplateFunctionDecl:
		for _, inst := range v.Instantiations {
			p.ProcessDecl(nil, inst.Function)
		}
	}
}

func (p *Processor) processFunction(selfType ast.Type, f *ast.FunctionDecl) {
	sc := p.newScope(selfType, f.Params, f)
	p.walkCompound(f.Body, sc)
}

func (p *Processor) processConstructor(selfType ast.Type, c *ast.ConstructorDecl) {
	sc := p.newScope(selfType, c.Params, c)
	c.BaseCall = p.resolveBaseCall(selfType, c, sc)
	p.walkCompound(c.Body, sc)
}

func (p *Processor) processDestructor(selfType ast.Type, d *ast.DestructorDecl) {
	sc := p.newScope(selfType, nil, d)
	p.walkCompound(d.Body, sc)
}

func (p *Processor) processOperator(selfType ast.Type, o *ast.OperatorDecl) {
	sc := p.newScope(selfType, o.Params, o)
	p.walkCompound(o.Body, sc)
}

func (p *Processor) processCallOperatorDecl(selfType ast.Type, c *ast.CallOperatorDecl) {
	sc := p.newScope(selfType, c.Params, c)
	p.walkCompound(c.Body, sc)
}

func (p *Processor) processTypeSuffix(selfType ast.Type, t *ast.TypeSuffixDecl) {
	var params []*ast.ParameterDecl
	if t.Param != nil {
		params = []*ast.ParameterDecl{t.Param}
	}
	sc := p.newScope(selfType, params, t)
	p.walkCompound(t.Body, sc)
}

func (p *Processor) processSubscriptOperatorDecl(selfType ast.Type, s *ast.SubscriptOperatorDecl) {
	for _, g := range s.Gets {
		sc := p.newScope(selfType, g.Params, g)
		p.walkCompound(g.Body, sc)
	}
	if s.Set != nil {
		sc := p.newScope(selfType, s.Set.Params, s.Set)
		p.walkCompound(s.Set.Body, sc)
	}
}

func (p *Processor) processPropertyDecl(selfType ast.Type, pr *ast.PropertyDecl) {
	for _, g := range pr.Gets {
		sc := p.newScope(selfType, nil, g)
		p.walkCompound(g.Body, sc)
	}
	if pr.Set != nil {
		var params []*ast.ParameterDecl
		if pr.Set.ValueParam != nil {
			params = []*ast.ParameterDecl{pr.Set.ValueParam}
		}
		sc := p.newScope(selfType, params, pr.Set)
		p.walkCompound(pr.Set.Body, sc)
	}
}

func (p *Processor) processEnum(e *ast.EnumDecl) {
	var prev *int64
	for _, c := range e.Constants {
		if c.Initializer != nil {
			sc := p.newScope(nil, nil, c)
			c.Initializer = p.walkExpr(c.Initializer, sc)
			if val, ok := EvalConstInt(c.Initializer); ok {
				c.Value = &val
				prev = &val
				continue
			}
			p.sink.Error(diag.New(diag.KindConstExpr, "", ast.Range{}, "enum constant %q is not a constant expression", c.Ident.Name))
			continue
		}
		var next int64
		if prev != nil {
			next = *prev + 1
		}
		c.Value = &next
		prev = &next
	}
}
