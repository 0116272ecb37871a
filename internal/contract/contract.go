// Package contract implements C9: structural equality on template
// arguments, `where` contract evaluation, and `has` contract evaluation by
// member-signature comparison. It is imported by both instantiate (C6,
// which evaluates contracts against real instantiation arguments) and
// codeprocess (C7, which needs the same member-lookup and inheritance-
// distance logic for overload resolution).
package contract

import (
	"fmt"

	"github.com/oxhq/midc/internal/ast"
)

// TemplateArgEqual is template-argument equality for C6's
// instantiation dedup: TypeExpr compares by ast.TypeEqual,
// ValueLiteralExpr/BoolLiteralExpr by literal equality — delegates to
// ast.ExprEqual, which already implements exactly this rule.
func TemplateArgEqual(a, b ast.Expr) bool { return ast.ExprEqual(a, b) }

// ArgVectorEqual compares two full template-argument vectors.
func ArgVectorEqual(a, b []ast.Expr) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !TemplateArgEqual(a[i], b[i]) {
			return false
		}
	}
	return true
}

// Members returns the member list to search for a type: the resolved
// AllMembers when instantiate (C6) has already computed it, the raw
// declared Members otherwise, or the synthesized member set of an
// ImaginaryType.
func Members(t ast.Type) []ast.Decl {
	switch v := t.(type) {
	case *ast.StructType:
		if v.Decl.AllMembers != nil {
			return v.Decl.AllMembers
		}
		return v.Decl.Members
	case *ast.TraitType:
		if v.Decl.AllMembers != nil {
			return v.Decl.AllMembers
		}
		return v.Decl.Members
	case *ast.ImaginaryType:
		return imaginaryMembers(v.Decl)
	default:
		return nil
	}
}

func imaginaryMembers(d *ast.ImaginaryTypeDecl) []ast.Decl {
	var out []ast.Decl
	if d.SpecializedBase != nil {
		out = append(out, Members(&ast.StructType{Decl: d.SpecializedBase})...)
	}
	for _, tr := range d.Traits {
		out = append(out, Members(&ast.TraitType{Decl: tr})...)
	}
	out = append(out, d.HasMembers...)
	return out
}

// InheritedTraits returns the full transitive trait set a struct or trait
// type conforms to, including traits reached through its base struct chain.
func InheritedTraits(t ast.Type) []*ast.TraitDecl {
	var out []*ast.TraitDecl
	seen := map[*ast.TraitDecl]bool{}
	var walkTrait func(tr *ast.TraitDecl)
	walkTrait = func(tr *ast.TraitDecl) {
		if tr == nil || seen[tr] {
			return
		}
		seen[tr] = true
		out = append(out, tr)
		for _, parent := range tr.InheritedTraits {
			walkTrait(parent)
		}
	}
	switch v := t.(type) {
	case *ast.StructType:
		for s := v.Decl; s != nil; s = s.BaseStruct {
			for _, tr := range s.InheritedTraits {
				walkTrait(tr)
			}
		}
	case *ast.TraitType:
		walkTrait(v.Decl)
	case *ast.ImaginaryType:
		for _, tr := range v.Decl.Traits {
			walkTrait(tr)
		}
		if v.Decl.SpecializedBase != nil {
			out = append(out, InheritedTraits(&ast.StructType{Decl: v.Decl.SpecializedBase})...)
		}
	}
	return out
}

// Implements reports whether t conforms to trait (directly, via a base
// struct, or transitively via another trait's inheritance).
func Implements(t ast.Type, trait *ast.TraitDecl) bool {
	for _, tr := range InheritedTraits(t) {
		if tr == trait {
			return true
		}
	}
	return false
}

// InheritanceDistance returns the number of base-struct hops from sub to
// base (0 if sub == base), used by both `where T : BaseClass` and
// overload-resolution's Castable tier: "struct A→B only if B is an
// ancestor of A".
func InheritanceDistance(sub, base *ast.StructDecl) (int, bool) {
	dist := 0
	for s := sub; s != nil; s = s.BaseStruct {
		if s == base {
			return dist, true
		}
		dist++
	}
	return 0, false
}

// EvaluateWhere checks a single `where` contract against the type bound to
// its Param, returning a descriptive error on failure naming the failed
// where and the offending type.
func EvaluateWhere(c ast.Contract, bound ast.Type) error {
	switch c.Kind {
	case ast.ContractWhereTrait:
		traitType, ok := c.TraitType.(*ast.TraitType)
		if !ok {
			return fmt.Errorf("where %s: trait constraint is not a trait type", c.Param.Ident.Name)
		}
		if !Implements(bound, traitType.Decl) {
			return fmt.Errorf("where %s : %s failed: %s does not implement %s",
				c.Param.Ident.Name, traitType.Decl.Ident.Name, typeName(bound), traitType.Decl.Ident.Name)
		}
		return nil
	case ast.ContractWhereBase:
		baseType, ok := c.BaseType.(*ast.StructType)
		if !ok {
			return fmt.Errorf("where %s: base constraint is not a struct type", c.Param.Ident.Name)
		}
		boundStruct, ok := bound.(*ast.StructType)
		if !ok {
			return fmt.Errorf("where %s : %s failed: %s is not a struct",
				c.Param.Ident.Name, baseType.Decl.Ident.Name, typeName(bound))
		}
		if _, ok := InheritanceDistance(boundStruct.Decl, baseType.Decl); !ok {
			return fmt.Errorf("where %s : %s failed: %s does not inherit %s",
				c.Param.Ident.Name, baseType.Decl.Ident.Name, typeName(bound), baseType.Decl.Ident.Name)
		}
		return nil
	case ast.ContractHas:
		if !EvaluateHas(c.HasProto, bound) {
			return fmt.Errorf("where %s has %s failed: %s has no matching member",
				c.Param.Ident.Name, protoName(c.HasProto), typeName(bound))
		}
		return nil
	case ast.ContractThrows, ast.ContractRequires, ast.ContractEnsures:
		return nil // no instantiation-time effect beyond being recorded
	default:
		return fmt.Errorf("unrecognized contract kind %d", c.Kind)
	}
}

// EvaluateHas reports whether bound's member set contains a member
// matching proto's kind, name, and (for callables) signature.
func EvaluateHas(proto ast.Decl, bound ast.Type) bool {
	members := Members(bound)
	switch p := proto.(type) {
	case *ast.TraitPrototypeDecl:
		traitType, ok := p.TraitRef.(*ast.TraitType)
		return ok && Implements(bound, traitType.Decl)
	case *ast.ConstructorDecl:
		for _, m := range members {
			if c, ok := m.(*ast.ConstructorDecl); ok && paramsMatch(c.Params, p.Params) {
				return true
			}
		}
	case *ast.DestructorDecl:
		for _, m := range members {
			if _, ok := m.(*ast.DestructorDecl); ok {
				return true
			}
		}
	case *ast.VariableDecl:
		for _, m := range members {
			if v, ok := m.(*ast.VariableDecl); ok && v.Ident.Name == p.Ident.Name {
				return true
			}
		}
	case *ast.PropertyDecl:
		for _, m := range members {
			if pr, ok := m.(*ast.PropertyDecl); ok && pr.Ident.Name == p.Ident.Name {
				return true
			}
		}
	case *ast.SubscriptOperatorDecl:
		for _, m := range members {
			if _, ok := m.(*ast.SubscriptOperatorDecl); ok {
				return true
			}
		}
	case *ast.FunctionDecl:
		for _, m := range members {
			if f, ok := m.(*ast.FunctionDecl); ok && f.Ident.Name == p.Ident.Name && paramsMatch(f.Params, p.Params) {
				return true
			}
		}
	case *ast.OperatorDecl:
		for _, m := range members {
			if o, ok := m.(*ast.OperatorDecl); ok && o.Symbol == p.Symbol && o.Fixity == p.Fixity {
				return true
			}
		}
	case *ast.CallOperatorDecl:
		for _, m := range members {
			if c, ok := m.(*ast.CallOperatorDecl); ok && paramsMatch(c.Params, p.Params) {
				return true
			}
		}
	}
	return false
}

func paramsMatch(a, b []*ast.ParameterDecl) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i].Label != b[i].Label {
			return false
		}
		if !ast.UnqualifiedTypeEqual(a[i].Type, b[i].Type) {
			return false
		}
	}
	return true
}

func typeName(t ast.Type) string {
	switch v := t.(type) {
	case *ast.StructType:
		return v.Decl.Ident.Name
	case *ast.TraitType:
		return v.Decl.Ident.Name
	case *ast.EnumType:
		return v.Decl.Ident.Name
	case *ast.BuiltInType:
		return v.Name
	case *ast.ImaginaryType:
		return v.Decl.Ident.Name
	default:
		return "<type>"
	}
}

func protoName(d ast.Decl) string {
	if d == nil {
		return "<prototype>"
	}
	return d.Base().Ident.Name
}
