package ast

// TypeEqual is structural equality over fully resolved types, including
// qualifiers (used by template-argument equality).
func TypeEqual(a, b Type) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if a.Base().Qualifier != b.Base().Qualifier {
		return false
	}
	switch av := a.(type) {
	case *BuiltInType:
		bv, ok := b.(*BuiltInType)
		return ok && av.Name == bv.Name && av.Signed == bv.Signed &&
			av.Floating == bv.Floating && av.SizeBits == bv.SizeBits
	case *PointerType:
		bv, ok := b.(*PointerType)
		return ok && TypeEqual(av.Pointee, bv.Pointee)
	case *ReferenceType:
		bv, ok := b.(*ReferenceType)
		return ok && TypeEqual(av.Referent, bv.Referent)
	case *RValueReferenceType:
		bv, ok := b.(*RValueReferenceType)
		return ok && TypeEqual(av.Referent, bv.Referent)
	case *FlatArrayType:
		bv, ok := b.(*FlatArrayType)
		return ok && TypeEqual(av.Elem, bv.Elem) && ExprEqual(av.Length, bv.Length)
	case *DimensionType:
		bv, ok := b.(*DimensionType)
		return ok && av.Rank == bv.Rank && TypeEqual(av.Elem, bv.Elem)
	case *FunctionPointerType:
		bv, ok := b.(*FunctionPointerType)
		if !ok || len(av.Params) != len(bv.Params) || !TypeEqual(av.Result, bv.Result) {
			return false
		}
		for i := range av.Params {
			if !TypeEqual(av.Params[i], bv.Params[i]) {
				return false
			}
		}
		return true
	case *StructType:
		bv, ok := b.(*StructType)
		return ok && av.Decl == bv.Decl
	case *TraitType:
		bv, ok := b.(*TraitType)
		return ok && av.Decl == bv.Decl
	case *EnumType:
		bv, ok := b.(*EnumType)
		return ok && av.Decl == bv.Decl
	case *AliasType:
		bv, ok := b.(*AliasType)
		return ok && av.Decl == bv.Decl
	case *TemplateStructType:
		bv, ok := b.(*TemplateStructType)
		return ok && av.Decl == bv.Decl && exprSlicesEqual(av.Args, bv.Args)
	case *TemplateTraitType:
		bv, ok := b.(*TemplateTraitType)
		return ok && av.Decl == bv.Decl && exprSlicesEqual(av.Args, bv.Args)
	case *TemplateTypenameRefType:
		bv, ok := b.(*TemplateTypenameRefType)
		return ok && av.Param == bv.Param
	case *ImaginaryType:
		bv, ok := b.(*ImaginaryType)
		return ok && av.Decl == bv.Decl
	case *VTableType:
		_, ok := b.(*VTableType)
		return ok
	case *DependentType:
		bv, ok := b.(*DependentType)
		return ok && TypeEqual(av.Container, bv.Container) && TypeEqual(av.Dependent, bv.Dependent)
	case *UnresolvedType, *UnresolvedNestedType, *TemplatedType:
		return false // never compared; C5/C6 eliminate these before equality matters
	default:
		return false
	}
}

func exprSlicesEqual(a, b []Expr) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !ExprEqual(a[i], b[i]) {
			return false
		}
	}
	return true
}

// ExprEqual is structural equality over an Expr used as a template
// argument: TypeExpr compares by type equality, ValueLiteralExpr and
// BoolLiteralExpr compare by literal equality (C9).
func ExprEqual(a, b Expr) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	switch av := a.(type) {
	case *TypeExpr:
		bv, ok := b.(*TypeExpr)
		return ok && TypeEqual(av.Referenced, bv.Referenced)
	case *ValueLiteralExpr:
		bv, ok := b.(*ValueLiteralExpr)
		return ok && av.Text == bv.Text
	case *BoolLiteralExpr:
		bv, ok := b.(*BoolLiteralExpr)
		return ok && av.Value == bv.Value
	case *EnumConstRefExpr:
		bv, ok := b.(*EnumConstRefExpr)
		return ok && av.Decl == bv.Decl
	case *ParenExpr:
		bv, ok := b.(*ParenExpr)
		return ok && ExprEqual(av.X, bv.X)
	case *PrefixExpr:
		bv, ok := b.(*PrefixExpr)
		return ok && av.Op == bv.Op && ExprEqual(av.Operand, bv.Operand)
	case *InfixExpr:
		bv, ok := b.(*InfixExpr)
		return ok && av.Op == bv.Op && ExprEqual(av.LHS, bv.LHS) && ExprEqual(av.RHS, bv.RHS)
	default:
		return false
	}
}

// UnqualifiedTypeEqual compares two types ignoring top-level qualifiers and
// reference wrappers — the comparison override/shadow matching and
// overload Match-tier resolution both use.
func UnqualifiedTypeEqual(a, b Type) bool {
	return TypeEqual(stripRefAndQual(a), stripRefAndQual(b))
}

func stripRefAndQual(t Type) Type {
	for t != nil {
		switch v := t.(type) {
		case *ReferenceType:
			t = v.Referent
			continue
		case *RValueReferenceType:
			t = v.Referent
			continue
		}
		break
	}
	return Unqualified(t)
}
