package ast

// VariableKind distinguishes where a VariableDecl lives; layout (C6) only
// walks VarKindMember declarations.
type VariableKind int

const (
	VarKindGlobal VariableKind = iota
	VarKindMember
	VarKindLocal
)

// VariableDecl is a global, member, or local variable declaration. Member
// variables additionally carry layout information filled in by instantiate
// (C6): Offset and Padding are meaningless until the owning struct's
// memory_layout has been computed.
type VariableDecl struct {
	DeclBase
	Kind        VariableKind
	Type        Type
	Initializer Expr

	// Layout fields, valid only on VarKindMember decls after C6.
	Offset     int
	SizeBits   int
	AlignBits  int
	IsPadding  bool // synthetic i8[n] padding member inserted by layout
}

func (*VariableDecl) declNode() {}

// ParameterDecl is a function/constructor/operator parameter.
type ParameterDecl struct {
	DeclBase
	Label       string // argument label; "" means positional-only
	Type        Type
	Default     Expr
	IsIn        bool // `in` parameter, enables RValueToInRef bridging
}

func (*ParameterDecl) declNode() {}

// TemplateParameterKind distinguishes a Typename parameter (binds a type)
// from a Const parameter (binds a compile-time value).
type TemplateParameterKind int

const (
	TemplateParamTypename TemplateParameterKind = iota
	TemplateParamConst
)

// TemplateParameterDecl is a formal parameter of a generic declaration.
type TemplateParameterDecl struct {
	DeclBase
	Kind TemplateParameterKind

	// Typename-kind fields.
	Bound Type // specialization constraint type, or nil if unconstrained

	// Const-kind fields.
	ConstType Type // required type of the const argument
	Default   Expr // default argument, for either kind, or nil
}

func (*TemplateParameterDecl) declNode() {}
