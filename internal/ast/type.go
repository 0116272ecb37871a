package ast

// Qualifier is the mutability qualifier a Type carries. Qualifiers compose
// at most one deep: a resolved Type's Qualifier is never itself wrapping
// another qualifier (enforced by typeresolve and instantiate).
type Qualifier int

const (
	QualUnassigned Qualifier = iota
	QualConst
	QualMut
	QualImmut
)

func (q Qualifier) String() string {
	switch q {
	case QualConst:
		return "const"
	case QualMut:
		return "mut"
	case QualImmut:
		return "immut"
	default:
		return ""
	}
}

// Type is the sum type of every type-reference shape that can appear in the
// AST, from raw parser output (Unresolved*, Templated) through fully ground
// declaration-bound types (Struct, BuiltIn, ...). Concrete variants embed
// TypeBase for the common Qualifier/IsLValue fields.
type Type interface {
	typeNode()
	Base() *TypeBase
}

// TypeBase carries the fields common to every Type variant. IsLValue is
// only meaningful on an expression's Type (its value_type), never on a
// declared type.
type TypeBase struct {
	Qualifier Qualifier
	IsLValue  bool
}

func (b *TypeBase) Base() *TypeBase { return b }

// CloneQualified returns a deep copy of t whose top-level qualifier is q;
// a qualifier t already carries is replaced, never stacked.
func CloneQualified(t Type, q Qualifier) Type {
	clone := DeepCopyType(t)
	clone.Base().Qualifier = q
	return clone
}

// Unqualified returns t with its top-level qualifier cleared: t itself when
// it has none, otherwise a deep copy; used before re-qualifying.
func Unqualified(t Type) Type {
	if t == nil {
		return nil
	}
	base := t.Base()
	if base.Qualifier == QualUnassigned {
		return t
	}
	clone := DeepCopyType(t)
	clone.Base().Qualifier = QualUnassigned
	return clone
}

// --- BuiltIn -----------------------------------------------------------

type BuiltInType struct {
	TypeBase
	Name     string
	Signed   bool
	Floating bool
	SizeBits int
}

func (*BuiltInType) typeNode() {}

// --- Pointer / reference family -----------------------------------------

type PointerType struct {
	TypeBase
	Pointee Type
}

func (*PointerType) typeNode() {}

type ReferenceType struct {
	TypeBase
	Referent Type
}

func (*ReferenceType) typeNode() {}

type RValueReferenceType struct {
	TypeBase
	Referent Type
}

func (*RValueReferenceType) typeNode() {}

// --- Array family --------------------------------------------------------

type FlatArrayType struct {
	TypeBase
	Elem   Type
	Length Expr
}

func (*FlatArrayType) typeNode() {}

// DimensionType is a rank-N array whose extents are not part of the type
// (e.g. a dynamically dimensioned array parameter).
type DimensionType struct {
	TypeBase
	Elem Type
	Rank int
}

func (*DimensionType) typeNode() {}

// --- Function pointer -----------------------------------------------------

type FunctionPointerType struct {
	TypeBase
	Result Type
	Params []Type
}

func (*FunctionPointerType) typeNode() {}

// --- Declaration-bound types ----------------------------------------------

type StructType struct {
	TypeBase
	Decl *StructDecl
}

func (*StructType) typeNode() {}

type TraitType struct {
	TypeBase
	Decl *TraitDecl
}

func (*TraitType) typeNode() {}

type EnumType struct {
	TypeBase
	Decl *EnumDecl
}

func (*EnumType) typeNode() {}

type AliasType struct {
	TypeBase
	Decl *TypeAliasDecl
}

func (*AliasType) typeNode() {}

// --- Generic-use types (args not yet fully ground) ------------------------

type TemplateStructType struct {
	TypeBase
	Decl *TemplateStructDecl
	Args []Expr
}

func (*TemplateStructType) typeNode() {}

type TemplateTraitType struct {
	TypeBase
	Decl *TemplateTraitDecl
	Args []Expr
}

func (*TemplateTraitType) typeNode() {}

// TemplatedType is produced by the parser for a bare generic-looking name
// before overload resolution among candidates has run; eliminated by C6.
type TemplatedType struct {
	TypeBase
	Candidates []Decl
	Args       []Expr
}

func (*TemplatedType) typeNode() {}

// --- Unresolved placeholders, eliminated by C5/C6 --------------------------

type UnresolvedType struct {
	TypeBase
	Name         string
	TemplateArgs []Expr
}

func (*UnresolvedType) typeNode() {}

type UnresolvedNestedType struct {
	TypeBase
	Container    Type
	Name         string
	TemplateArgs []Expr
}

func (*UnresolvedNestedType) typeNode() {}

// DependentType is a member reference through an as-yet-unground generic
// container; cannot be made concrete until Container is.
type DependentType struct {
	TypeBase
	Container Type
	Dependent Type
}

func (*DependentType) typeNode() {}

// --- Template-body validation scaffolding ----------------------------------

type TemplateTypenameRefType struct {
	TypeBase
	Param *TemplateParameterDecl
}

func (*TemplateTypenameRefType) typeNode() {}

type ImaginaryType struct {
	TypeBase
	Decl *ImaginaryTypeDecl
}

func (*ImaginaryType) typeNode() {}

// --- Internal marker --------------------------------------------------

// VTableType marks the hidden v-table-pointer slot prepended to a v-table
// owner's member list; it never appears in surface-level type references.
type VTableType struct {
	TypeBase
}

func (*VTableType) typeNode() {}

// IsUnresolvedKind reports whether t is one of the placeholder kinds that
// must never persist outside a template body once C5+C6 have run.
func IsUnresolvedKind(t Type) bool {
	switch t.(type) {
	case *UnresolvedType, *UnresolvedNestedType, *TemplatedType:
		return true
	default:
		return false
	}
}

// IsDependentOrTemplateScoped reports whether t is only meaningful inside a
// template body (Dependent, TemplateTypenameRef, Imaginary).
func IsDependentOrTemplateScoped(t Type) bool {
	switch t.(type) {
	case *DependentType, *TemplateTypenameRefType, *ImaginaryType:
		return true
	default:
		return false
	}
}
