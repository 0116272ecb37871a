// Package typeresolve implements C5: walks every declaration and
// expression, rewriting textual type references into declaration bindings
// where possible and leaving the rest as Unresolved/UnresolvedNested/
// Templated placeholders for the declaration instantiator (C6) to finish.
// It also rewrites the two parser-output ambiguities that resolve once a
// name is known to be a type.
package typeresolve

import (
	"github.com/oxhq/midc/internal/ast"
	"github.com/oxhq/midc/internal/target"
)

// Resolver runs C5 over a prototype namespace tree already linked by C4.
type Resolver struct {
	root   *ast.PrototypeNamespace
	target target.Descriptor
}

// NewResolver builds a Resolver sized for the given compilation target
// (needed only to size the usize/isize built-ins).
func NewResolver(root *ast.PrototypeNamespace, t target.Descriptor) *Resolver {
	return &Resolver{root: root, target: t}
}

// Run walks the whole prototype tree, resolving every declaration reachable
// from it.
func (r *Resolver) Run() {
	r.walkNamespace(r.root)
}

func (r *Resolver) walkNamespace(ns *ast.PrototypeNamespace) {
	for _, frag := range ns.Fragments {
		for _, d := range frag.Decls {
			r.resolveDecl(d)
		}
	}
	for _, child := range ns.Children {
		r.walkNamespace(child)
	}
}

func (r *Resolver) resolveDecl(d ast.Decl) {
	scope := BuildScope(d)
	switch v := d.(type) {
	case *ast.VariableDecl:
		v.Type = r.resolveType(v.Type, scope)
		v.Initializer = r.walkExpr(v.Initializer, scope)
	case *ast.ParameterDecl:
		v.Type = r.resolveType(v.Type, scope)
		v.Default = r.walkExpr(v.Default, scope)
	case *ast.TemplateParameterDecl:
		v.Bound = r.resolveType(v.Bound, scope)
		v.ConstType = r.resolveType(v.ConstType, scope)
		v.Default = r.walkExpr(v.Default, scope)
	case *ast.FunctionDecl:
		r.resolveParams(v.Params, scope)
		v.Result = r.resolveType(v.Result, scope)
		r.walkCompound(v.Body, scope)
	case *ast.ConstructorDecl:
		r.resolveParams(v.Params, scope)
		v.BaseCall = r.walkExpr(v.BaseCall, scope)
		r.walkCompound(v.Body, scope)
	case *ast.DestructorDecl:
		r.walkCompound(v.Body, scope)
	case *ast.OperatorDecl:
		r.resolveParams(v.Params, scope)
		v.Result = r.resolveType(v.Result, scope)
		r.walkCompound(v.Body, scope)
	case *ast.CallOperatorDecl:
		r.resolveParams(v.Params, scope)
		v.Result = r.resolveType(v.Result, scope)
		r.walkCompound(v.Body, scope)
	case *ast.TypeSuffixDecl:
		if v.Param != nil {
			v.Param.Type = r.resolveType(v.Param.Type, scope)
		}
		v.Result = r.resolveType(v.Result, scope)
		r.walkCompound(v.Body, scope)
	case *ast.SubscriptOperatorDecl:
		for _, g := range v.Gets {
			r.resolveParams(g.Params, scope)
			g.Result = r.resolveType(g.Result, scope)
			r.walkCompound(g.Body, scope)
		}
		if v.Set != nil {
			r.resolveParams(v.Set.Params, scope)
			r.walkCompound(v.Set.Body, scope)
		}
	case *ast.PropertyDecl:
		v.Type = r.resolveType(v.Type, scope)
		for _, g := range v.Gets {
			r.walkCompound(g.Body, scope)
		}
		if v.Set != nil {
			r.walkCompound(v.Set.Body, scope)
		}
	case *ast.EnumDecl:
		v.BaseType = r.resolveType(v.BaseType, scope)
		for _, c := range v.Constants {
			c.Initializer = r.walkExpr(c.Initializer, scope)
		}
	case *ast.TypeAliasDecl:
		v.Underlying = r.resolveType(v.Underlying, scope)
	case *ast.StructDecl:
		v.BaseTypeExpr = r.resolveType(v.BaseTypeExpr, scope)
		for i, it := range v.InheritedExprs {
			v.InheritedExprs[i] = r.resolveType(it, scope)
		}
		for _, m := range v.Members {
			r.resolveDecl(m)
		}
	case *ast.TraitDecl:
		for i, it := range v.InheritedExprs {
			v.InheritedExprs[i] = r.resolveType(it, scope)
		}
		for _, m := range v.Members {
			r.resolveDecl(m)
		}
	case *ast.ExtensionDecl:
		v.ExtendedType = r.resolveType(v.ExtendedType, scope)
		for i, it := range v.InheritedTypes {
			v.InheritedTypes[i] = r.resolveType(it, scope)
		}
		for _, m := range v.Members {
			r.resolveDecl(m)
		}
	case *ast.TemplateFunctionDecl:
		for _, p := range v.Params {
			r.resolveDecl(p)
		}
		if v.Function != nil {
			r.resolveDecl(v.Function)
		}
	case *ast.TemplateStructDecl:
		for _, p := range v.Params {
			r.resolveDecl(p)
		}
		if v.Struct != nil {
			r.resolveDecl(v.Struct)
		}
	case *ast.TemplateTraitDecl:
		for _, p := range v.Params {
			r.resolveDecl(p)
		}
		if v.Trait != nil {
			r.resolveDecl(v.Trait)
		}
	}
}

func (r *Resolver) resolveParams(params []*ast.ParameterDecl, scope *Scope) {
	for _, p := range params {
		p.Type = r.resolveType(p.Type, scope)
		p.Default = r.walkExpr(p.Default, scope)
	}
}

// resolveType resolves one textual type reference. Built-ins
// match first; otherwise scope lookup yields a concrete binding, or the
// type is left as an Unresolved* placeholder for C6.
func (r *Resolver) resolveType(t ast.Type, scope *Scope) ast.Type {
	if t == nil {
		return nil
	}
	switch v := t.(type) {
	case *ast.UnresolvedType:
		return r.resolveUnresolved(v, scope)
	case *ast.UnresolvedNestedType:
		v.Container = r.resolveType(v.Container, scope)
		for i, a := range v.TemplateArgs {
			v.TemplateArgs[i] = r.walkExpr(a, scope)
		}
		return v
	case *ast.PointerType:
		v.Pointee = r.resolveType(v.Pointee, scope)
		return v
	case *ast.ReferenceType:
		v.Referent = r.resolveType(v.Referent, scope)
		return v
	case *ast.RValueReferenceType:
		v.Referent = r.resolveType(v.Referent, scope)
		return v
	case *ast.FlatArrayType:
		v.Elem = r.resolveType(v.Elem, scope)
		v.Length = r.walkExpr(v.Length, scope)
		return v
	case *ast.DimensionType:
		v.Elem = r.resolveType(v.Elem, scope)
		return v
	case *ast.FunctionPointerType:
		v.Result = r.resolveType(v.Result, scope)
		for i, p := range v.Params {
			v.Params[i] = r.resolveType(p, scope)
		}
		return v
	case *ast.TemplateStructType:
		for i, a := range v.Args {
			v.Args[i] = r.walkExpr(a, scope)
		}
		return v
	case *ast.TemplateTraitType:
		for i, a := range v.Args {
			v.Args[i] = r.walkExpr(a, scope)
		}
		return v
	case *ast.TemplatedType:
		for i, a := range v.Args {
			v.Args[i] = r.walkExpr(a, scope)
		}
		return v
	case *ast.DependentType:
		v.Container = r.resolveType(v.Container, scope)
		return v
	default:
		// Already resolved (BuiltIn/Struct/Trait/Enum/Alias/...) or only
		// meaningful inside a template body; nothing for C5 to do.
		return t
	}
}

func (r *Resolver) resolveUnresolved(v *ast.UnresolvedType, scope *Scope) ast.Type {
	if b := ast.LookupBuiltIn(v.Name); b != nil {
		b.TypeBase = v.TypeBase
		return b
	}
	if v.Name == "usize" {
		return &ast.BuiltInType{TypeBase: v.TypeBase, Name: "usize", Signed: false, SizeBits: r.target.SizeofUsize()}
	}
	if v.Name == "isize" {
		return &ast.BuiltInType{TypeBase: v.TypeBase, Name: "isize", Signed: true, SizeBits: r.target.SizeofIsize()}
	}

	for i, a := range v.TemplateArgs {
		v.TemplateArgs[i] = r.walkExpr(a, scope)
	}

	candidates := scope.LookupAll(v.Name)
	if len(candidates) == 0 {
		return v // left for C6
	}
	if len(v.TemplateArgs) == 0 && len(candidates) == 1 {
		switch d := candidates[0].(type) {
		case *ast.TemplateParameterDecl:
			if d.Kind == ast.TemplateParamTypename {
				return &ast.TemplateTypenameRefType{TypeBase: v.TypeBase, Param: d}
			}
		case *ast.StructDecl:
			return &ast.StructType{TypeBase: v.TypeBase, Decl: d}
		case *ast.TraitDecl:
			return &ast.TraitType{TypeBase: v.TypeBase, Decl: d}
		case *ast.EnumDecl:
			return &ast.EnumType{TypeBase: v.TypeBase, Decl: d}
		case *ast.TypeAliasDecl:
			return &ast.AliasType{TypeBase: v.TypeBase, Decl: d}
		}
	}

	var templateDecls []ast.Decl
	for _, c := range candidates {
		switch c.(type) {
		case *ast.TemplateStructDecl, *ast.TemplateTraitDecl:
			templateDecls = append(templateDecls, c)
		}
	}
	if len(templateDecls) == 1 {
		switch d := templateDecls[0].(type) {
		case *ast.TemplateStructDecl:
			return &ast.TemplateStructType{TypeBase: v.TypeBase, Decl: d, Args: v.TemplateArgs}
		case *ast.TemplateTraitDecl:
			return &ast.TemplateTraitType{TypeBase: v.TypeBase, Decl: d, Args: v.TemplateArgs}
		}
	}
	if len(templateDecls) > 1 {
		return &ast.TemplatedType{TypeBase: v.TypeBase, Candidates: templateDecls, Args: v.TemplateArgs}
	}
	return v // ambiguous non-template overload set or no usable hit; C6 finishes it
}
