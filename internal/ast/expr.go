package ast

// Expr is the sum type of every expression kind. ValueType is populated by
// the code processor (C7); its IsLValue flag records lvalue-ness.
type Expr interface {
	exprNode()
	Base() *ExprBase
}

type ExprBase struct {
	Pos       Range
	ValueType Type
}

func (b *ExprBase) Base() *ExprBase { return b }

// IsLValue reports the lvalue-ness recorded on this expression's value
// type; false (not panicking) if ValueType has not been assigned yet.
func (b *ExprBase) IsLValue() bool {
	if b.ValueType == nil {
		return false
	}
	return b.ValueType.Base().IsLValue
}

// --- Literals --------------------------------------------------------------

type ValueLiteralExpr struct {
	ExprBase
	Text string // as written; interpretation depends on ValueType once set
}

func (*ValueLiteralExpr) exprNode() {}

type BoolLiteralExpr struct {
	ExprBase
	Value bool
}

func (*BoolLiteralExpr) exprNode() {}

type ArrayLiteralExpr struct {
	ExprBase
	Elements []Expr
}

func (*ArrayLiteralExpr) exprNode() {}

// TypeExpr is a type used in expression position (e.g. `T.default`, a
// generic const argument referencing a type).
type TypeExpr struct {
	ExprBase
	Referenced Type
}

func (*TypeExpr) exprNode() {}

// --- Unresolved reference, parser output, rewritten by C7 -------------------

type IdentifierExpr struct {
	ExprBase
	Name string
}

func (*IdentifierExpr) exprNode() {}

// --- Resolved references -----------------------------------------------

type LocalVariableRefExpr struct {
	ExprBase
	Decl *VariableDecl
}

func (*LocalVariableRefExpr) exprNode() {}

type ParameterRefExpr struct {
	ExprBase
	Decl *ParameterDecl
}

func (*ParameterRefExpr) exprNode() {}

type VariableRefExpr struct {
	ExprBase
	Decl *VariableDecl
}

func (*VariableRefExpr) exprNode() {}

type MemberVariableRefExpr struct {
	ExprBase
	Object Expr
	Decl   *VariableDecl
}

func (*MemberVariableRefExpr) exprNode() {}

type EnumConstRefExpr struct {
	ExprBase
	Decl *EnumConstDecl
}

func (*EnumConstRefExpr) exprNode() {}

type FunctionReferenceExpr struct {
	ExprBase
	Decl *FunctionDecl
}

func (*FunctionReferenceExpr) exprNode() {}

// VTableFunctionReferenceExpr is a virtual-call reference resolved to the
// instance's v-table-owner slot offset; only produced outside
// constructors/destructors.
type VTableFunctionReferenceExpr struct {
	ExprBase
	Object Expr
	Slot   int
	Entry  *VTableEntry
}

func (*VTableFunctionReferenceExpr) exprNode() {}

type PropertyRefExpr struct {
	ExprBase
	Decl *PropertyDecl
}

func (*PropertyRefExpr) exprNode() {}

type MemberPropertyRefExpr struct {
	ExprBase
	Object Expr
	Decl   *PropertyDecl
}

func (*MemberPropertyRefExpr) exprNode() {}

type SubscriptOperatorRefExpr struct {
	ExprBase
	Decl  *SubscriptOperatorDecl
	Index []Expr
}

func (*SubscriptOperatorRefExpr) exprNode() {}

type MemberSubscriptOperatorRefExpr struct {
	ExprBase
	Object Expr
	Decl   *SubscriptOperatorDecl
	Index  []Expr
}

func (*MemberSubscriptOperatorRefExpr) exprNode() {}

type ConstructorReferenceExpr struct {
	ExprBase
	Decl *ConstructorDecl
}

func (*ConstructorReferenceExpr) exprNode() {}

type CallOperatorReferenceExpr struct {
	ExprBase
	Object Expr
	Decl   *CallOperatorDecl
}

func (*CallOperatorReferenceExpr) exprNode() {}

type CurrentSelfExpr struct {
	ExprBase
}

func (*CurrentSelfExpr) exprNode() {}

// ImaginaryRefExpr stands in for an unbound const template parameter while
// validating a template body against its contracts.
type ImaginaryRefExpr struct {
	ExprBase
	Param *TemplateParameterDecl
}

func (*ImaginaryRefExpr) exprNode() {}

// TemporaryValueRefExpr references a temporary materialized by the code
// transformer (C8) to hold a call's result for the owning statement.
type TemporaryValueRefExpr struct {
	ExprBase
	Decl *VariableDecl
}

func (*TemporaryValueRefExpr) exprNode() {}

// TemplateConstRefExpr references a Const-kind template parameter from
// within a generic body, prior to substitution.
type TemplateConstRefExpr struct {
	ExprBase
	Param *TemplateParameterDecl
}

func (*TemplateConstRefExpr) exprNode() {}

// --- Calls -----------------------------------------------------------------

type FunctionCallExpr struct {
	ExprBase
	Callee Expr
	Args   []Expr
	Labels []string // parallel to Args; "" for positional
}

func (*FunctionCallExpr) exprNode() {}

type MemberFunctionCallExpr struct {
	ExprBase
	Object            Expr
	Decl              *FunctionDecl
	Args              []Expr
	Labels            []string
	IsVirtualDispatch bool // false inside the ctor/dtor that owns Object
}

func (*MemberFunctionCallExpr) exprNode() {}

// ConstructorCallExpr is `TypeName(args)`. ObjectRef is nil until the code
// transformer (C8) assigns a fresh temporary.
type ConstructorCallExpr struct {
	ExprBase
	Decl      *ConstructorDecl
	Args      []Expr
	Labels    []string
	ObjectRef Expr
}

func (*ConstructorCallExpr) exprNode() {}

// SubscriptCallExpr is a free (non-member) subscript application, prior to
// get/set specialization.
type SubscriptCallExpr struct {
	ExprBase
	Callee Expr
	Index  []Expr
}

func (*SubscriptCallExpr) exprNode() {}

// MemberSubscriptCallExpr is `object[index...]` before the code processor
// has chosen between a Get and a Set overload.
type MemberSubscriptCallExpr struct {
	ExprBase
	Object Expr
	Decl   *SubscriptOperatorDecl
	Index  []Expr
}

func (*MemberSubscriptCallExpr) exprNode() {}

type PropertyGetCallExpr struct {
	ExprBase
	Object Expr
	Decl   *PropertyGetDecl
}

func (*PropertyGetCallExpr) exprNode() {}

type PropertySetCallExpr struct {
	ExprBase
	Object Expr
	Decl   *PropertySetDecl
	Value  Expr
}

func (*PropertySetCallExpr) exprNode() {}

type SubscriptOperatorGetCallExpr struct {
	ExprBase
	Object Expr
	Decl   *SubscriptOperatorGetDecl
	Index  []Expr
}

func (*SubscriptOperatorGetCallExpr) exprNode() {}

type SubscriptOperatorSetCallExpr struct {
	ExprBase
	Object Expr
	Decl   *SubscriptOperatorSetDecl
	Index  []Expr
	Value  Expr
}

func (*SubscriptOperatorSetCallExpr) exprNode() {}

// --- Operators ---------------------------------------------------------

type PrefixExpr struct {
	ExprBase
	Op      string
	Operand Expr
	Decl    *OperatorDecl // nil for a built-in operator
}

func (*PrefixExpr) exprNode() {}

type PostfixExpr struct {
	ExprBase
	Op      string
	Operand Expr
	Decl    *OperatorDecl
}

func (*PostfixExpr) exprNode() {}

type InfixExpr struct {
	ExprBase
	Op   string
	LHS  Expr
	RHS  Expr
	Decl *OperatorDecl
}

func (*InfixExpr) exprNode() {}

// AssignmentExpr is plain `=`; `OP=` is desugared by the code processor
// into `x = (x OP y)` with the LHS evaluated once, represented by
// sharing the same LHS expression node between the outer Assignment and the
// inner InfixExpr.
type AssignmentExpr struct {
	ExprBase
	LHS Expr
	RHS Expr
}

func (*AssignmentExpr) exprNode() {}

type MemberPrefixExpr struct {
	ExprBase
	Object Expr
	Op     string
	Decl   *OperatorDecl
}

func (*MemberPrefixExpr) exprNode() {}

type MemberPostfixExpr struct {
	ExprBase
	Object Expr
	Op     string
	Decl   *OperatorDecl
}

func (*MemberPostfixExpr) exprNode() {}

type MemberInfixExpr struct {
	ExprBase
	Object Expr
	Op     string
	RHS    Expr
	Decl   *OperatorDecl
}

func (*MemberInfixExpr) exprNode() {}

// --- Conversions, inserted only by the code processor (C7) -----------------

type ImplicitCastExpr struct {
	ExprBase
	X  Expr
	To Type
}

func (*ImplicitCastExpr) exprNode() {}

// AsExpr is an unconditional explicit cast (`x as T`).
type AsExpr struct {
	ExprBase
	X  Expr
	To Type
}

func (*AsExpr) exprNode() {}

// AsOptionalExpr is a fallible checked cast (`x as? T`) yielding an absent
// value on failure.
type AsOptionalExpr struct {
	ExprBase
	X  Expr
	To Type
}

func (*AsOptionalExpr) exprNode() {}

// AsForceExpr is a fallible checked cast that traps on failure (`x as! T`).
type AsForceExpr struct {
	ExprBase
	X  Expr
	To Type
}

func (*AsForceExpr) exprNode() {}

// RefExpr takes an implicit reference to an lvalue (`.ref`).
type RefExpr struct {
	ExprBase
	X Expr
}

func (*RefExpr) exprNode() {}

type ImplicitDerefExpr struct {
	ExprBase
	X Expr
}

func (*ImplicitDerefExpr) exprNode() {}

type LValueToRValueExpr struct {
	ExprBase
	X Expr
}

func (*LValueToRValueExpr) exprNode() {}

// RValueToInRefExpr binds an rvalue directly to an `in` parameter without a
// materialized temporary.
type RValueToInRefExpr struct {
	ExprBase
	X Expr
}

func (*RValueToInRefExpr) exprNode() {}

// --- Control -----------------------------------------------------------

type TernaryExpr struct {
	ExprBase
	Cond Expr
	Then Expr
	Else Expr
}

func (*TernaryExpr) exprNode() {}

type TryExpr struct {
	ExprBase
	X Expr
}

func (*TryExpr) exprNode() {}

type ParenExpr struct {
	ExprBase
	X Expr
}

func (*ParenExpr) exprNode() {}

// LabeledArgumentExpr wraps a call argument with its source-level label,
// consumed by overload resolution and then discarded.
type LabeledArgumentExpr struct {
	ExprBase
	Label string
	X     Expr
}

func (*LabeledArgumentExpr) exprNode() {}

// --- Introspection -------------------------------------------------------

type CheckExtendsTypeExpr struct {
	ExprBase
	Subject Type
	Base    Type
}

func (*CheckExtendsTypeExpr) exprNode() {}

type IsExpr struct {
	ExprBase
	X    Expr
	Type Type
}

func (*IsExpr) exprNode() {}

type HasExpr struct {
	ExprBase
	X     Expr
	Proto Decl
}

func (*HasExpr) exprNode() {}

// VariableDeclExpr is a let-binding used as an expression (e.g. an if-let
// condition or a for-loop initializer).
type VariableDeclExpr struct {
	ExprBase
	Decl *VariableDecl
}

func (*VariableDeclExpr) exprNode() {}

// --- Parser artifacts, rewritten by C7 -----------------

// MemberAccessCallExpr is `a.b` or `a.b(args...)` as the parser leaves it:
// it is not yet known whether `b` names a member variable, a property, a
// subscript, or a method, nor (for the call form) which overload applies.
// The code processor (C7) rewrites it into a MemberVariableRef/
// MemberPropertyRef/MemberSubscriptOperatorRef/MemberFunctionCall according
// to what `b` resolves to on Object's type (or, when Object resolves to a
// NamespaceRefExpr marker, a plain namespace-qualified lookup).
type MemberAccessCallExpr struct {
	ExprBase
	Object  Expr
	Name    string
	HasArgs bool // true for the `a.b(args...)` call form
	Args    []Expr
	Labels  []string
}

func (*MemberAccessCallExpr) exprNode() {}

// NamespaceRefExpr is the marker identifier resolution produces when an
// identifier names a namespace rather than a value: it is only ever valid as
// the Object of a MemberAccessCallExpr, which then looks Name up directly in
// Namespace instead of through member-access rules.
type NamespaceRefExpr struct {
	ExprBase
	Namespace *PrototypeNamespace
}

func (*NamespaceRefExpr) exprNode() {}

// --- Parser artifacts, rewritten by C5 -----------------

// PotentialExplicitCastExpr is ambiguous parser output for `(T)(x)`-shaped
// syntax: it is not yet known whether the parenthesized expression names a
// type. The basic type resolver (C5) rewrites it to AsExpr once the LHS is
// known to be a type, or leaves it as a call/paren expression otherwise.
type PotentialExplicitCastExpr struct {
	ExprBase
	TypeText string
	X        Expr
}

func (*PotentialExplicitCastExpr) exprNode() {}

// LocalVariableDeclOrPrefixOperatorCallExpr is ambiguous parser output for
// `*x = y`-shaped syntax at statement head: it is not yet known whether `*x`
// introduces a pointer-typed local or applies a prefix operator. C5 rewrites
// it to a VariableDeclExpr or a PrefixExpr once the name is resolved.
type LocalVariableDeclOrPrefixOperatorCallExpr struct {
	ExprBase
	Name string
	Op   string
	X    Expr
}

func (*LocalVariableDeclOrPrefixOperatorCallExpr) exprNode() {}
