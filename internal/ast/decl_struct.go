package ast

// StructKind distinguishes the three struct-family declaration forms;
// class/union affect default visibility and (for union) layout overlap
// rules enforced by instantiate, not the shape of this node.
type StructKind int

const (
	StructKindStruct StructKind = iota
	StructKindClass
	StructKindUnion
)

// VTableEntry is one slot of a struct's v-table.
type VTableEntry struct {
	Name   string
	Method *FunctionDecl
	// Owner is the struct that introduced this slot (the struct being
	// overridden, or the struct itself when the slot is newly appended).
	Owner *StructDecl
}

// MemoryLayoutEntry is one entry of a struct's computed memory layout:
// either a real data member or a synthetic padding/v-table slot.
type MemoryLayoutEntry struct {
	Member    *VariableDecl
	Offset    int
	SizeBits  int
	AlignBits int
}

// StructDecl is a struct/class/union declaration. The fields below
// MemoryLayout onward are populated by instantiate (C6) and are meaningless
// before C6 has processed this declaration — they're only bound once
// IsInstantiated is true.
type StructDecl struct {
	DeclBase
	Kind StructKind

	// Declared, pre-C6 shape.
	Members        []Decl // raw member decls as written (vars, funcs, ctors, ...)
	BaseTypeExpr    Type   // textual base-struct reference, at most one
	InheritedExprs  []Type // textual trait references

	// Resolved by instantiate (C6).
	BaseStruct     *StructDecl   // back-pointer, non-owning; nil if none
	InheritedTraits []*TraitDecl // non-owning
	AllMembers     []Decl        // own + inherited, shadow/override resolved

	DefaultCtor *ConstructorDecl
	CopyCtor    *ConstructorDecl
	MoveCtor    *ConstructorDecl
	Destructor  *DestructorDecl

	VTable      []VTableEntry
	VTableOwner *StructDecl // back-pointer, non-owning; nil if no v-table

	MemoryLayout          []MemoryLayoutEntry
	DataSizeWithoutPadding int
	DataSizeWithPadding    int
	AlignBits              int

	IsInstantiated bool // guards idempotence of process_struct_decl
}

func (*StructDecl) declNode() {}

// HasVTable reports whether s introduces or inherits any v-table slots.
func (s *StructDecl) HasVTable() bool { return len(s.VTable) > 0 }

// TraitDecl is an interface-like type, possibly with defaulted members, that
// may itself inherit other traits.
type TraitDecl struct {
	DeclBase
	Members        []Decl
	InheritedExprs []Type
	InheritedTraits []*TraitDecl // resolved by instantiate
	AllMembers     []Decl        // own + inherited, shadow-resolved
	IsInstantiated bool
}

func (*TraitDecl) declNode() {}

// TraitPrototypeDecl is a member-shape assertion used inside a `has`
// contract; it is never itself instantiated, only matched against.
type TraitPrototypeDecl struct {
	DeclBase
	TraitRef Type
}

func (*TraitPrototypeDecl) declNode() {}

// ImaginaryTypeDecl is the stand-in declaration backing an ImaginaryType
// used to validate a template body: it exposes exactly the members
// demanded by the template's where/has contracts.
type ImaginaryTypeDecl struct {
	DeclBase
	Param          *TemplateParameterDecl
	SpecializedBase *StructDecl // from `where T : Base`
	Traits         []*TraitDecl // from `where T : Trait`
	HasMembers     []Decl       // from `where T has <prototype>`
}

func (*ImaginaryTypeDecl) declNode() {}
