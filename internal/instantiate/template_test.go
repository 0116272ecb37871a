package instantiate_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/oxhq/midc/internal/ast"
	"github.com/oxhq/midc/internal/diag"
	"github.com/oxhq/midc/internal/instantiate"
	"github.com/oxhq/midc/internal/target"
)

func boxTemplate() (*ast.TemplateStructDecl, *ast.TemplateParameterDecl) {
	param := typenameParam("T", nil)
	value := member("value", &ast.TemplateTypenameRefType{Param: param})
	body := &ast.StructDecl{Members: []ast.Decl{value}}
	body.Ident = ast.Identifier{Name: "Box"}
	tpl := &ast.TemplateStructDecl{Params: []*ast.TemplateParameterDecl{param}, Struct: body}
	tpl.Ident = ast.Identifier{Name: "Box"}
	return tpl, param
}

func TestInstantiateStruct_SubstitutesTypenameParam(t *testing.T) {
	tpl, _ := boxTemplate()
	arg := &ast.TypeExpr{Referenced: &ast.BuiltInType{Name: "i32", Signed: true, SizeBits: 32}}

	in := instantiate.New(target.Host(), diag.NewSink())
	inst := in.InstantiateStruct(tpl, []ast.Expr{arg})

	value := inst.Struct.Members[0].(*ast.VariableDecl)
	bi, ok := value.Type.(*ast.BuiltInType)
	require.True(t, ok)
	require.Equal(t, "i32", bi.Name)
	require.True(t, inst.Struct.IsInstantiated)
}

func TestInstantiateStruct_DedupsIdenticalArgs(t *testing.T) {
	tpl, _ := boxTemplate()
	arg := func() ast.Expr { return &ast.TypeExpr{Referenced: &ast.BuiltInType{Name: "i32", Signed: true, SizeBits: 32}} }

	in := instantiate.New(target.Host(), diag.NewSink())
	first := in.InstantiateStruct(tpl, []ast.Expr{arg()})
	second := in.InstantiateStruct(tpl, []ast.Expr{arg()})

	require.Same(t, first, second)
	require.Len(t, tpl.Instantiations, 1)
}

func TestInstantiateStruct_DistinctArgsProduceDistinctInstances(t *testing.T) {
	tpl, _ := boxTemplate()
	i32Arg := &ast.TypeExpr{Referenced: &ast.BuiltInType{Name: "i32", Signed: true, SizeBits: 32}}
	f64Arg := &ast.TypeExpr{Referenced: &ast.BuiltInType{Name: "f64", Floating: true, SizeBits: 64}}

	in := instantiate.New(target.Host(), diag.NewSink())
	a := in.InstantiateStruct(tpl, []ast.Expr{i32Arg})
	b := in.InstantiateStruct(tpl, []ast.Expr{f64Arg})

	require.NotSame(t, a, b)
	require.Len(t, tpl.Instantiations, 2)
	require.NotSame(t, a.Struct, b.Struct)
}

func TestInstantiateStruct_AppendsDefaultArgForMissingTrailingParam(t *testing.T) {
	t1 := typenameParam("T", nil)
	defaultArg := &ast.TypeExpr{Referenced: &ast.BuiltInType{Name: "i32", Signed: true, SizeBits: 32}}
	t2 := &ast.TemplateParameterDecl{Kind: ast.TemplateParamTypename, Default: defaultArg}
	t2.Ident = ast.Identifier{Name: "U"}

	value := member("value", &ast.TemplateTypenameRefType{Param: t2})
	body := &ast.StructDecl{Members: []ast.Decl{value}}
	body.Ident = ast.Identifier{Name: "Pair"}
	tpl := &ast.TemplateStructDecl{Params: []*ast.TemplateParameterDecl{t1, t2}, Struct: body}
	tpl.Ident = ast.Identifier{Name: "Pair"}

	onlyFirst := &ast.TypeExpr{Referenced: &ast.BuiltInType{Name: "f64", Floating: true, SizeBits: 64}}

	in := instantiate.New(target.Host(), diag.NewSink())
	inst := in.InstantiateStruct(tpl, []ast.Expr{onlyFirst})

	require.Len(t, inst.Args, 2)
	value2 := inst.Struct.Members[0].(*ast.VariableDecl)
	bi, ok := value2.Type.(*ast.BuiltInType)
	require.True(t, ok)
	require.Equal(t, "i32", bi.Name)
}

func TestInstantiateStruct_WhereTraitContractFailureIsDiagnosed(t *testing.T) {
	traitDecl := &ast.TraitDecl{}
	traitDecl.Ident = ast.Identifier{Name: "Speaks"}

	param := typenameParam("T", nil)
	body := &ast.StructDecl{}
	body.Ident = ast.Identifier{Name: "Cage"}
	tpl := &ast.TemplateStructDecl{
		Params: []*ast.TemplateParameterDecl{param},
		Struct: body,
		Contracts: []ast.Contract{
			{Kind: ast.ContractWhereTrait, Param: param, TraitType: &ast.TraitType{Decl: traitDecl}},
		},
	}
	tpl.Ident = ast.Identifier{Name: "Cage"}

	nonConformingStruct := &ast.StructDecl{}
	nonConformingStruct.Ident = ast.Identifier{Name: "Rock"}
	arg := &ast.TypeExpr{Referenced: &ast.StructType{Decl: nonConformingStruct}}

	sink := diag.NewSink()
	in := instantiate.New(target.Host(), sink)
	in.InstantiateStruct(tpl, []ast.Expr{arg})

	require.NotNil(t, sink.FirstError())
	require.Equal(t, diag.KindTemplate, sink.FirstError().Kind)
}

// recorderStub is a minimal instantiationRecorder, standing in for
// *cache.Store so this package's tests never need to open a database.
type recorderStub struct {
	calls []string
}

func (r *recorderStub) Record(templateKey, argsDigest string, argsJSON []byte) error {
	r.calls = append(r.calls, templateKey)
	return nil
}

func TestInstantiateStruct_RecordsToCache(t *testing.T) {
	tpl, _ := boxTemplate()
	arg := &ast.TypeExpr{Referenced: &ast.BuiltInType{Name: "i32", Signed: true, SizeBits: 32}}

	rec := &recorderStub{}
	in := instantiate.New(target.Host(), diag.NewSink())
	in.Cache = rec

	in.InstantiateStruct(tpl, []ast.Expr{arg})
	in.InstantiateStruct(tpl, []ast.Expr{arg}) // dedup: second call must not record again

	require.Equal(t, []string{"Box"}, rec.calls)
}

func TestInstantiateStruct_NilCacheIsUntouched(t *testing.T) {
	tpl, _ := boxTemplate()
	arg := &ast.TypeExpr{Referenced: &ast.BuiltInType{Name: "i32", Signed: true, SizeBits: 32}}

	in := instantiate.New(target.Host(), diag.NewSink())
	require.Nil(t, in.Cache)
	require.NotPanics(t, func() { in.InstantiateStruct(tpl, []ast.Expr{arg}) })
}

func TestInstantiateStruct_WhereTraitContractSuccessInstantiates(t *testing.T) {
	traitDecl := &ast.TraitDecl{}
	traitDecl.Ident = ast.Identifier{Name: "Speaks"}

	param := typenameParam("T", nil)
	body := &ast.StructDecl{}
	body.Ident = ast.Identifier{Name: "Cage"}
	tpl := &ast.TemplateStructDecl{
		Params: []*ast.TemplateParameterDecl{param},
		Struct: body,
		Contracts: []ast.Contract{
			{Kind: ast.ContractWhereTrait, Param: param, TraitType: &ast.TraitType{Decl: traitDecl}},
		},
	}
	tpl.Ident = ast.Identifier{Name: "Cage"}

	conformingStruct := &ast.StructDecl{InheritedTraits: []*ast.TraitDecl{traitDecl}, IsInstantiated: true}
	conformingStruct.Ident = ast.Identifier{Name: "Parrot"}
	arg := &ast.TypeExpr{Referenced: &ast.StructType{Decl: conformingStruct}}

	sink := diag.NewSink()
	in := instantiate.New(target.Host(), sink)
	inst := in.InstantiateStruct(tpl, []ast.Expr{arg})

	require.Nil(t, sink.FirstError())
	require.NotNil(t, inst)
}
