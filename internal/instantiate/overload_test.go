package instantiate_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/oxhq/midc/internal/ast"
	"github.com/oxhq/midc/internal/diag"
	"github.com/oxhq/midc/internal/instantiate"
	"github.com/oxhq/midc/internal/target"
)

func templateStructCandidate(name string, params []*ast.TemplateParameterDecl) *ast.TemplateStructDecl {
	body := &ast.StructDecl{}
	body.Ident = ast.Identifier{Name: name}
	tpl := &ast.TemplateStructDecl{Params: params, Struct: body}
	tpl.Ident = ast.Identifier{Name: name}
	return tpl
}

func typenameParam(name string, bound ast.Type) *ast.TemplateParameterDecl {
	p := &ast.TemplateParameterDecl{Kind: ast.TemplateParamTypename, Bound: bound}
	p.Ident = ast.Identifier{Name: name}
	return p
}

// TestResolveTemplatedType_SelectsByArity picks the single-param candidate
// over the two-param candidate (which has no default for its second slot)
// when exactly one argument is supplied.
func TestResolveTemplatedType_SelectsByArity(t *testing.T) {
	one := templateStructCandidate("One", []*ast.TemplateParameterDecl{typenameParam("T", nil)})
	two := templateStructCandidate("Two", []*ast.TemplateParameterDecl{typenameParam("T", nil), typenameParam("U", nil)})

	arg := &ast.TypeExpr{Referenced: &ast.BuiltInType{Name: "i32", Signed: true, SizeBits: 32}}
	tt := &ast.TemplatedType{Candidates: []ast.Decl{one, two}, Args: []ast.Expr{arg}}

	in := instantiate.New(target.Host(), diag.NewSink())
	resolved := in.ResolveType(tt)

	st, ok := resolved.(*ast.StructType)
	require.True(t, ok)
	require.Len(t, one.Instantiations, 1)
	require.Empty(t, two.Instantiations)
	require.Same(t, one.Instantiations[0].Struct, st.Decl)
}

// TestResolveTemplatedType_MostSpecificBoundWins prefers the candidate whose
// bound is the argument's own type (exact, strength 0) over one whose bound
// is only an ancestor (castable, strength >0).
func TestResolveTemplatedType_MostSpecificBoundWins(t *testing.T) {
	base := &ast.StructDecl{}
	base.Ident = ast.Identifier{Name: "Base"}
	derived := &ast.StructDecl{BaseStruct: base, IsInstantiated: true, AlignBits: 8}
	derived.Ident = ast.Identifier{Name: "Derived"}

	wide := templateStructCandidate("Wide", []*ast.TemplateParameterDecl{
		typenameParam("T", &ast.StructType{Decl: base}),
	})
	narrow := templateStructCandidate("Narrow", []*ast.TemplateParameterDecl{
		typenameParam("T", &ast.StructType{Decl: derived}),
	})

	arg := &ast.TypeExpr{Referenced: &ast.StructType{Decl: derived}}
	tt := &ast.TemplatedType{Candidates: []ast.Decl{wide, narrow}, Args: []ast.Expr{arg}}

	in := instantiate.New(target.Host(), diag.NewSink())
	in.ResolveType(tt)

	require.Len(t, narrow.Instantiations, 1)
	require.Empty(t, wide.Instantiations)
}

// TestResolveTemplatedType_AmbiguousReportsDiagnostic flags two equally
// strong candidates rather than silently picking one.
func TestResolveTemplatedType_AmbiguousReportsDiagnostic(t *testing.T) {
	a := templateStructCandidate("A", []*ast.TemplateParameterDecl{typenameParam("T", nil)})
	b := templateStructCandidate("B", []*ast.TemplateParameterDecl{typenameParam("T", nil)})

	arg := &ast.TypeExpr{Referenced: &ast.BuiltInType{Name: "i32", Signed: true, SizeBits: 32}}
	tt := &ast.TemplatedType{Candidates: []ast.Decl{a, b}, Args: []ast.Expr{arg}}

	sink := diag.NewSink()
	in := instantiate.New(target.Host(), sink)
	in.ResolveType(tt)

	require.NotNil(t, sink.FirstError())
	require.Equal(t, diag.KindTemplate, sink.FirstError().Kind)
}

// TestResolveTemplatedType_NoCandidateReportsDiagnostic flags a call with
// too many arguments for every candidate.
func TestResolveTemplatedType_NoCandidateReportsDiagnostic(t *testing.T) {
	one := templateStructCandidate("One", []*ast.TemplateParameterDecl{typenameParam("T", nil)})

	arg1 := &ast.TypeExpr{Referenced: &ast.BuiltInType{Name: "i32", Signed: true, SizeBits: 32}}
	arg2 := &ast.TypeExpr{Referenced: &ast.BuiltInType{Name: "f64", Signed: true, SizeBits: 64}}
	tt := &ast.TemplatedType{Candidates: []ast.Decl{one}, Args: []ast.Expr{arg1, arg2}}

	sink := diag.NewSink()
	in := instantiate.New(target.Host(), sink)
	in.ResolveType(tt)

	require.NotNil(t, sink.FirstError())
}
