package ast

// NamespaceDecl is a per-file namespace fragment. C3 merges every file's
// NamespaceDecl sharing a dotted path into one PrototypeNamespace; Prototype
// is the back-pointer to that merged node.
type NamespaceDecl struct {
	DeclBase
	Path         []string // dotted path, e.g. ["app", "model"]
	Decls        []Decl
	Prototype    *PrototypeNamespace // set by namespace.Build (C3)
}

func (*NamespaceDecl) declNode() {}

// ImportDecl names a dotted namespace path to bring into scope. Target is
// resolved by declcheck (C4) against the prototype namespace tree.
type ImportDecl struct {
	DeclBase
	Path   []string
	Target *PrototypeNamespace // resolved by declcheck
}

func (*ImportDecl) declNode() {}

// TypeAliasDecl introduces a name for an existing type.
type TypeAliasDecl struct {
	DeclBase
	Underlying Type
}

func (*TypeAliasDecl) declNode() {}

// EnumDecl declares an enumeration with ordered constant members.
type EnumDecl struct {
	DeclBase
	BaseType  Type // underlying integer type, or nil for the language default
	Constants []*EnumConstDecl
}

func (*EnumDecl) declNode() {}

// EnumConstDecl is one member of an EnumDecl. Value is nil until the
// const-expression solver (C7/C9) assigns one, either from an explicit
// initializer or by incrementing the previous constant.
type EnumConstDecl struct {
	DeclBase
	Initializer Expr
	Value       *int64
}

func (*EnumConstDecl) declNode() {}

// ExtensionDecl adds members (and optionally conformances) to an existing
// struct/trait without modifying its original definition.
type ExtensionDecl struct {
	DeclBase
	ExtendedType   Type
	InheritedTypes []Type
	Members        []Decl
}

func (*ExtensionDecl) declNode() {}
