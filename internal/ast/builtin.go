package ast

// builtinSpecs is the fixed table of built-in type names the basic type
// resolver (C5) matches against before falling back to scope lookup.
// usize/isize are sized by the target descriptor (C2), not fixed here.
var builtinSpecs = map[string]BuiltInType{
	"i8":   {Name: "i8", Signed: true, SizeBits: 8},
	"i16":  {Name: "i16", Signed: true, SizeBits: 16},
	"i32":  {Name: "i32", Signed: true, SizeBits: 32},
	"i64":  {Name: "i64", Signed: true, SizeBits: 64},
	"u8":   {Name: "u8", Signed: false, SizeBits: 8},
	"u16":  {Name: "u16", Signed: false, SizeBits: 16},
	"u32":  {Name: "u32", Signed: false, SizeBits: 32},
	"u64":  {Name: "u64", Signed: false, SizeBits: 64},
	"f32":  {Name: "f32", Floating: true, SizeBits: 32},
	"f64":  {Name: "f64", Floating: true, SizeBits: 64},
	"bool": {Name: "bool", Signed: false, SizeBits: 8},
	"void": {Name: "void", SizeBits: 0},
}

// LookupBuiltIn returns a fresh *BuiltInType for name, or nil if name does
// not name a fixed-width built-in (usize/isize are resolved separately,
// via the target descriptor).
func LookupBuiltIn(name string) *BuiltInType {
	spec, ok := builtinSpecs[name]
	if !ok {
		return nil
	}
	cp := spec
	return &cp
}

// IsBuiltInName reports whether name is a recognized fixed-width built-in.
func IsBuiltInName(name string) bool {
	_, ok := builtinSpecs[name]
	return ok
}

// NewSizedBuiltIn constructs the platform usize/isize built-in at the given
// bit width, as supplied by the target descriptor (C2).
func NewSizedBuiltIn(name string, signed bool, sizeBits int) *BuiltInType {
	return &BuiltInType{Name: name, Signed: signed, SizeBits: sizeBits}
}

// IsNumeric reports whether t is an integer or floating built-in.
func IsNumeric(t Type) bool {
	b, ok := t.(*BuiltInType)
	return ok && b.Name != "bool" && b.Name != "void"
}

// IsIntegral reports whether t is a non-floating, non-bool, non-void
// built-in.
func IsIntegral(t Type) bool {
	b, ok := t.(*BuiltInType)
	return ok && !b.Floating && b.Name != "bool" && b.Name != "void"
}

// IsVoid reports whether t is the built-in void type.
func IsVoid(t Type) bool {
	b, ok := t.(*BuiltInType)
	return ok && b.Name == "void"
}

// IsBool reports whether t is the built-in bool type.
func IsBool(t Type) bool {
	b, ok := t.(*BuiltInType)
	return ok && b.Name == "bool"
}
