package ast

// FunctionDecl is a free function or member method.
type FunctionDecl struct {
	DeclBase
	Params     []*ParameterDecl
	Result     Type // nil means void
	Body       *CompoundStmt
	Throws     bool // set by the `throws` contract

	// VTableSlot is set by vtable construction when this function
	// is virtual/override and occupies a slot; -1 otherwise.
	VTableSlot int
}

func (*FunctionDecl) declNode() {}

// ConstructorSubKind distinguishes a user/auto-generated constructor's role.
type ConstructorSubKind int

const (
	ConstructorNormal ConstructorSubKind = iota
	ConstructorCopy
	ConstructorMove
)

// ConstructorStatus records whether an implicitly synthesized constructor
// is usable or must be rejected at call resolution.
type ConstructorStatus int

const (
	ConstructorVerified ConstructorStatus = iota
	ConstructorDeleted
)

// ConstructorDecl is a struct constructor, user-written or synthesized.
type ConstructorDecl struct {
	DeclBase
	SubKind    ConstructorSubKind
	Params     []*ParameterDecl
	BaseCall   Expr // leading base(...)/self(...) call, or nil
	Body       *CompoundStmt
	Status     ConstructorStatus
	IsImplicit bool // synthesized during instantiation rather than user-written
}

func (*ConstructorDecl) declNode() {}

// DestructorDecl is a struct destructor, user-written or synthesized.
type DestructorDecl struct {
	DeclBase
	Body       *CompoundStmt
	IsImplicit bool
}

func (*DestructorDecl) declNode() {}

// OperatorFixity is the syntactic position of an operator declaration.
type OperatorFixity int

const (
	OperatorPrefix OperatorFixity = iota
	OperatorInfix
	OperatorPostfix
)

// OperatorDecl declares an overloadable operator.
type OperatorDecl struct {
	DeclBase
	Fixity OperatorFixity
	Symbol string
	Params []*ParameterDecl
	Result Type
	Body   *CompoundStmt
}

func (*OperatorDecl) declNode() {}

// CallOperatorDecl declares `self(args...)` call syntax on a struct.
type CallOperatorDecl struct {
	DeclBase
	Params []*ParameterDecl
	Result Type
	Body   *CompoundStmt
}

func (*CallOperatorDecl) declNode() {}

// TypeSuffixDecl declares a postfix type-level suffix operator (e.g. a
// user-defined literal suffix).
type TypeSuffixDecl struct {
	DeclBase
	Suffix string
	Param  *ParameterDecl
	Result Type
	Body   *CompoundStmt
}

func (*TypeSuffixDecl) declNode() {}

// SubscriptGetKind distinguishes the three flavors of subscript getter.
type SubscriptGetKind int

const (
	SubscriptGetRef SubscriptGetKind = iota
	SubscriptGetRefMut
	SubscriptGetValue
)

// SubscriptOperatorGetDecl is one getter overload of a subscript operator.
type SubscriptOperatorGetDecl struct {
	DeclBase
	Kind   SubscriptGetKind
	Params []*ParameterDecl
	Result Type
	Body   *CompoundStmt
}

func (*SubscriptOperatorGetDecl) declNode() {}

// SubscriptOperatorSetDecl is the optional setter of a subscript operator.
type SubscriptOperatorSetDecl struct {
	DeclBase
	Params []*ParameterDecl // index params, followed by the assigned value
	Body   *CompoundStmt
}

func (*SubscriptOperatorSetDecl) declNode() {}

// SubscriptOperatorDecl groups a subscript's getters and optional setter.
type SubscriptOperatorDecl struct {
	DeclBase
	Gets []*SubscriptOperatorGetDecl
	Set  *SubscriptOperatorSetDecl
}

func (*SubscriptOperatorDecl) declNode() {}

// PropertyGetDecl is a property's getter.
type PropertyGetDecl struct {
	DeclBase
	Kind SubscriptGetKind // Ref/RefMut/Value, same vocabulary as subscripts
	Body *CompoundStmt
}

func (*PropertyGetDecl) declNode() {}

// PropertySetDecl is a property's optional setter.
type PropertySetDecl struct {
	DeclBase
	ValueParam *ParameterDecl
	Body       *CompoundStmt
}

func (*PropertySetDecl) declNode() {}

// PropertyDecl declares a computed member accessed with field syntax.
type PropertyDecl struct {
	DeclBase
	Type Type
	Gets []*PropertyGetDecl
	Set  *PropertySetDecl
}

func (*PropertyDecl) declNode() {}
