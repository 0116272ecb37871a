package ast

// Visibility is the declared access level of a Decl. VisUnassigned means the
// parser left it at the language's default for the containing kind.
type Visibility int

const (
	VisUnassigned Visibility = iota
	VisPublic
	VisPrivate
	VisInternal
	VisProtected
)

// Modifiers are the declaration modifiers recognized across every Decl kind;
// not every modifier is legal on every kind, validated by declcheck/instantiate.
type Modifiers struct {
	Static   bool
	Const    bool
	Mut      bool
	Virtual  bool
	Override bool
	Abstract bool
	Extern   bool
}

// Decl is the sum type of every declaration kind. Declarations own their
// children exclusively; Container is a non-owning back-pointer installed by
// declcheck (C4).
type Decl interface {
	declNode()
	Base() *DeclBase
}

// DeclBase carries the fields common to every Decl variant.
type DeclBase struct {
	SourceFileID int
	Attributes   []string
	Visibility   Visibility
	IsConstExpr  bool
	Ident        Identifier
	Modifiers    Modifiers

	// Container is the back-pointer to the enclosing namespace/struct/
	// trait/extension. Non-owning; installed by declcheck.
	Container Decl

	// ContainedInTemplate is true only while this Decl sits inside a
	// template body that has not been fully ground: ground instantiations
	// clear it.
	ContainedInTemplate bool

	// OriginalDecl is the non-owning back-reference from a template
	// instantiation to the generic declaration it was instantiated from.
	// Nil on every non-instantiation Decl.
	OriginalDecl Decl
}

func (b *DeclBase) Base() *DeclBase { return b }

func (b *DeclBase) Name() string { return b.Ident.Name }
