package instantiate_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/oxhq/midc/internal/ast"
	"github.com/oxhq/midc/internal/diag"
	"github.com/oxhq/midc/internal/instantiate"
	"github.com/oxhq/midc/internal/target"
)

func member(name string, t ast.Type) *ast.VariableDecl {
	v := &ast.VariableDecl{Kind: ast.VarKindMember, Type: t}
	v.Ident = ast.Identifier{Name: name}
	return v
}

func i8Type() ast.Type  { return &ast.BuiltInType{Name: "i8", Signed: true, SizeBits: 8} }
func i32Type() ast.Type { return &ast.BuiltInType{Name: "i32", Signed: true, SizeBits: 32} }

func TestProcessStruct_InsertsAlignmentPadding(t *testing.T) {
	s := &ast.StructDecl{Members: []ast.Decl{member("flag", i8Type()), member("count", i32Type())}}
	s.Ident = ast.Identifier{Name: "S"}

	x86, err := target.New("x86_64")
	require.NoError(t, err)
	in := instantiate.New(x86, diag.NewSink())
	in.ResolveType(&ast.StructType{Decl: s})

	require.True(t, s.IsInstantiated)
	require.Len(t, s.MemoryLayout, 3) // flag, padding, count
	require.True(t, s.MemoryLayout[1].Member.IsPadding)
	require.Equal(t, 24, s.MemoryLayout[1].SizeBits)
	require.Equal(t, 32, s.MemoryLayout[2].Offset)
	require.Equal(t, 64, s.DataSizeWithPadding)
}

func TestProcessStruct_NoPaddingWhenAlreadyAligned(t *testing.T) {
	s := &ast.StructDecl{Members: []ast.Decl{member("a", i32Type()), member("b", i32Type())}}
	s.Ident = ast.Identifier{Name: "S"}

	x86, err := target.New("x86_64")
	require.NoError(t, err)
	in := instantiate.New(x86, diag.NewSink())
	in.ResolveType(&ast.StructType{Decl: s})

	require.Len(t, s.MemoryLayout, 2)
	require.Equal(t, 64, s.DataSizeWithPadding)
}

func TestProcessStruct_SynthesizesDefaultCopyMoveCtorAndDtor(t *testing.T) {
	s := &ast.StructDecl{Members: []ast.Decl{member("x", i32Type())}}
	s.Ident = ast.Identifier{Name: "S"}

	in := instantiate.New(target.Host(), diag.NewSink())
	in.ResolveType(&ast.StructType{Decl: s})

	require.NotNil(t, s.DefaultCtor)
	require.True(t, s.DefaultCtor.IsImplicit)
	require.Equal(t, ast.ConstructorVerified, s.DefaultCtor.Status)
	require.NotNil(t, s.CopyCtor)
	require.NotNil(t, s.MoveCtor)
	require.NotNil(t, s.Destructor)
	require.True(t, s.Destructor.IsImplicit)
}

func TestProcessStruct_ReferenceMemberDeletesDefaultCtor(t *testing.T) {
	refMember := member("r", &ast.ReferenceType{Referent: i32Type()})
	s := &ast.StructDecl{Members: []ast.Decl{refMember}}
	s.Ident = ast.Identifier{Name: "S"}

	in := instantiate.New(target.Host(), diag.NewSink())
	in.ResolveType(&ast.StructType{Decl: s})

	require.Equal(t, ast.ConstructorDeleted, s.DefaultCtor.Status)
}

func TestProcessStruct_ExplicitDefaultCtorIsNotSynthesized(t *testing.T) {
	ctor := &ast.ConstructorDecl{SubKind: ast.ConstructorNormal, Body: &ast.CompoundStmt{}}
	ctor.Ident = ast.Identifier{Name: "S"}
	s := &ast.StructDecl{Members: []ast.Decl{ctor}}
	s.Ident = ast.Identifier{Name: "S"}

	in := instantiate.New(target.Host(), diag.NewSink())
	in.ResolveType(&ast.StructType{Decl: s})

	require.Same(t, ctor, s.DefaultCtor)
	require.False(t, ctor.IsImplicit)
}

func TestProcessStruct_CircularValueEmbeddingDiagnosed(t *testing.T) {
	a := &ast.StructDecl{}
	a.Ident = ast.Identifier{Name: "A"}
	b := &ast.StructDecl{Members: []ast.Decl{member("a", &ast.StructType{Decl: a})}}
	b.Ident = ast.Identifier{Name: "B"}
	a.Members = []ast.Decl{member("b", &ast.StructType{Decl: b})}

	sink := diag.NewSink()
	in := instantiate.New(target.Host(), sink)
	in.ResolveType(&ast.StructType{Decl: a})

	require.NotNil(t, sink.FirstError())
	require.Equal(t, diag.KindStructural, sink.FirstError().Kind)
}

func TestProcessStruct_PointerMemberBreaksValueCycle(t *testing.T) {
	a := &ast.StructDecl{}
	a.Ident = ast.Identifier{Name: "A"}
	b := &ast.StructDecl{Members: []ast.Decl{member("a", &ast.PointerType{Pointee: &ast.StructType{Decl: a}})}}
	b.Ident = ast.Identifier{Name: "B"}
	a.Members = []ast.Decl{member("b", &ast.StructType{Decl: b})}

	sink := diag.NewSink()
	in := instantiate.New(target.Host(), sink)
	in.ResolveType(&ast.StructType{Decl: a})

	require.Nil(t, sink.FirstError())
}

func virtualMethod(name string) *ast.FunctionDecl {
	f := &ast.FunctionDecl{}
	f.Ident = ast.Identifier{Name: name}
	f.Modifiers.Virtual = true
	return f
}

func TestProcessStruct_VirtualMethodBecomesVTableOwner(t *testing.T) {
	s := &ast.StructDecl{Members: []ast.Decl{virtualMethod("speak")}}
	s.Ident = ast.Identifier{Name: "Animal"}

	in := instantiate.New(target.Host(), diag.NewSink())
	in.ResolveType(&ast.StructType{Decl: s})

	require.Same(t, s, s.VTableOwner)
	require.Len(t, s.VTable, 1)
	require.Equal(t, 0, s.VTable[0].Method.VTableSlot)
}

func TestProcessStruct_OverrideReplacesInheritedSlot(t *testing.T) {
	base := &ast.StructDecl{Members: []ast.Decl{virtualMethod("speak")}}
	base.Ident = ast.Identifier{Name: "Animal"}

	override := &ast.FunctionDecl{}
	override.Ident = ast.Identifier{Name: "speak"}
	override.Modifiers.Override = true

	derived := &ast.StructDecl{BaseTypeExpr: &ast.StructType{Decl: base}, Members: []ast.Decl{override}}
	derived.Ident = ast.Identifier{Name: "Dog"}

	in := instantiate.New(target.Host(), diag.NewSink())
	in.ResolveType(&ast.StructType{Decl: derived})

	require.Len(t, derived.VTable, 1)
	require.Same(t, override, derived.VTable[0].Method)
	require.Equal(t, 0, override.VTableSlot)
	require.Same(t, base, derived.VTable[0].Owner)

	var found ast.Decl
	for _, m := range derived.AllMembers {
		if m.Base().Ident.Name == "speak" {
			found = m
		}
	}
	require.Same(t, override, found)
}

func TestProcessStruct_OverrideWithNoMatchIsDiagnosed(t *testing.T) {
	base := &ast.StructDecl{}
	base.Ident = ast.Identifier{Name: "Animal"}

	override := &ast.FunctionDecl{}
	override.Ident = ast.Identifier{Name: "speak"}
	override.Modifiers.Override = true

	derived := &ast.StructDecl{BaseTypeExpr: &ast.StructType{Decl: base}, Members: []ast.Decl{override}}
	derived.Ident = ast.Identifier{Name: "Dog"}

	sink := diag.NewSink()
	in := instantiate.New(target.Host(), sink)
	in.ResolveType(&ast.StructType{Decl: derived})

	require.NotNil(t, sink.FirstError())
	require.Equal(t, diag.KindOverride, sink.FirstError().Kind)
	require.Equal(t, -1, override.VTableSlot)
}
