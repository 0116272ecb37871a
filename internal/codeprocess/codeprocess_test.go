package codeprocess_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/oxhq/midc/internal/ast"
	"github.com/oxhq/midc/internal/codeprocess"
	"github.com/oxhq/midc/internal/declcheck"
	"github.com/oxhq/midc/internal/diag"
	"github.com/oxhq/midc/internal/instantiate"
	"github.com/oxhq/midc/internal/namespace"
	"github.com/oxhq/midc/internal/target"
	"github.com/oxhq/midc/internal/typeresolve"
)

// buildRoot runs every pass that precedes the code processor (C3 namespace
// build, C4 declcheck, C5 typeresolve, C6 instantiate) so the tree handed to
// codeprocess looks the way it would at the real pipeline stage.
func buildRoot(t *testing.T, sink *diag.Sink, decls []ast.Decl) *ast.PrototypeNamespace {
	t.Helper()
	b := namespace.NewBuilder()
	b.Merge(decls)
	root := b.Root()
	declcheck.NewChecker(root, sink).Run()
	typeresolve.NewResolver(root, target.Host()).Run()
	instantiate.New(target.Host(), sink).Run(root)
	return root
}

func i32Type() ast.Type { return &ast.BuiltInType{Name: "i32", Signed: true, SizeBits: 32} }

func appNamespace(decls ...ast.Decl) *ast.NamespaceDecl {
	ns := &ast.NamespaceDecl{Path: []string{"app"}, Decls: decls}
	ns.Ident = ast.Identifier{Name: "app"}
	return ns
}

func TestResolveIdentifier_LocalShadowsParam(t *testing.T) {
	param := &ast.ParameterDecl{Type: &ast.UnresolvedType{Name: "i32"}}
	param.Ident = ast.Identifier{Name: "x"}

	local := &ast.VariableDecl{Kind: ast.VarKindLocal, Type: &ast.UnresolvedType{Name: "i32"}, Initializer: &ast.ValueLiteralExpr{Text: "1"}}
	local.Ident = ast.Identifier{Name: "x"}
	declStmt := &ast.ExprStmt{X: &ast.VariableDeclExpr{Decl: local}}
	useStmt := &ast.ExprStmt{X: &ast.IdentifierExpr{Name: "x"}}
	body := &ast.CompoundStmt{Stmts: []ast.Stmt{declStmt, useStmt}}

	fn := &ast.FunctionDecl{Params: []*ast.ParameterDecl{param}, Body: body}
	fn.Ident = ast.Identifier{Name: "f"}

	sink := diag.NewSink()
	root := buildRoot(t, sink, []ast.Decl{appNamespace(fn)})
	codeprocess.New(target.Host(), sink).Run(root)

	require.Nil(t, sink.FirstError())
	ref, ok := useStmt.X.(*ast.LocalVariableRefExpr)
	require.True(t, ok, "expected the shadowing local, got %T", useStmt.X)
	require.Same(t, local, ref.Decl)
}

func TestResolveIdentifier_ParamWhenNoLocal(t *testing.T) {
	param := &ast.ParameterDecl{Type: &ast.UnresolvedType{Name: "i32"}}
	param.Ident = ast.Identifier{Name: "x"}
	useStmt := &ast.ExprStmt{X: &ast.IdentifierExpr{Name: "x"}}
	body := &ast.CompoundStmt{Stmts: []ast.Stmt{useStmt}}

	fn := &ast.FunctionDecl{Params: []*ast.ParameterDecl{param}, Body: body}
	fn.Ident = ast.Identifier{Name: "f"}

	sink := diag.NewSink()
	root := buildRoot(t, sink, []ast.Decl{appNamespace(fn)})
	codeprocess.New(target.Host(), sink).Run(root)

	require.Nil(t, sink.FirstError())
	ref, ok := useStmt.X.(*ast.ParameterRefExpr)
	require.True(t, ok)
	require.Same(t, param, ref.Decl)
}

func member(name string, t ast.Type) *ast.VariableDecl {
	v := &ast.VariableDecl{Kind: ast.VarKindMember, Type: t}
	v.Ident = ast.Identifier{Name: name}
	return v
}

func TestResolveMemberAccess_SelfField(t *testing.T) {
	field := member("count", &ast.UnresolvedType{Name: "i32"})
	useStmt := &ast.ExprStmt{X: &ast.MemberAccessCallExpr{Object: &ast.IdentifierExpr{Name: "self"}, Name: "count"}}
	body := &ast.CompoundStmt{Stmts: []ast.Stmt{useStmt}}
	fn := &ast.FunctionDecl{Body: body}
	fn.Ident = ast.Identifier{Name: "get"}

	s := &ast.StructDecl{Members: []ast.Decl{field, fn}}
	s.Ident = ast.Identifier{Name: "Counter"}

	sink := diag.NewSink()
	root := buildRoot(t, sink, []ast.Decl{appNamespace(s)})
	codeprocess.New(target.Host(), sink).Run(root)

	require.Nil(t, sink.FirstError())
	ref, ok := useStmt.X.(*ast.MemberVariableRefExpr)
	require.True(t, ok, "expected a resolved member access, got %T", useStmt.X)
	require.Same(t, field, ref.Decl)
	_, isSelf := ref.Object.(*ast.CurrentSelfExpr)
	require.True(t, isSelf)
}

func TestResolveIdentifier_BareFieldNameInsertsCurrentSelf(t *testing.T) {
	field := member("count", &ast.UnresolvedType{Name: "i32"})
	useStmt := &ast.ExprStmt{X: &ast.IdentifierExpr{Name: "count"}}
	body := &ast.CompoundStmt{Stmts: []ast.Stmt{useStmt}}
	fn := &ast.FunctionDecl{Body: body}
	fn.Ident = ast.Identifier{Name: "get"}

	s := &ast.StructDecl{Members: []ast.Decl{field, fn}}
	s.Ident = ast.Identifier{Name: "Counter"}

	sink := diag.NewSink()
	root := buildRoot(t, sink, []ast.Decl{appNamespace(s)})
	codeprocess.New(target.Host(), sink).Run(root)

	require.Nil(t, sink.FirstError())
	ref, ok := useStmt.X.(*ast.MemberVariableRefExpr)
	require.True(t, ok, "expected an auto-inserted self member reference, got %T", useStmt.X)
	require.Same(t, field, ref.Decl)
}

func freeFn(name string, params []*ast.ParameterDecl, result ast.Type, body *ast.CompoundStmt) *ast.FunctionDecl {
	fn := &ast.FunctionDecl{Params: params, Result: result, Body: body}
	fn.Ident = ast.Identifier{Name: name}
	return fn
}

func plainParam(name string, t ast.Type) *ast.ParameterDecl {
	p := &ast.ParameterDecl{Type: t}
	p.Ident = ast.Identifier{Name: name}
	return p
}

func TestOverloadResolution_PicksExactTypeMatch(t *testing.T) {
	i32Param := plainParam("x", &ast.UnresolvedType{Name: "i32"})
	i64Param := plainParam("x", &ast.UnresolvedType{Name: "i64"})
	narrow := freeFn("pick", []*ast.ParameterDecl{i32Param}, nil, &ast.CompoundStmt{})
	wide := freeFn("pick", []*ast.ParameterDecl{i64Param}, nil, &ast.CompoundStmt{})

	callStmt := &ast.ExprStmt{X: &ast.FunctionCallExpr{
		Callee: &ast.IdentifierExpr{Name: "pick"},
		Args:   []ast.Expr{&ast.ValueLiteralExpr{Text: "1"}},
		Labels: []string{""},
	}}
	// The argument needs a resolved type to classify against; stand it up as
	// an already-typed literal via a wrapping cast so classify() sees i32.
	callStmt.X.(*ast.FunctionCallExpr).Args[0] = &ast.AsExpr{X: &ast.ValueLiteralExpr{Text: "1"}, To: &ast.UnresolvedType{Name: "i32"}}

	caller := freeFn("caller", nil, nil, &ast.CompoundStmt{Stmts: []ast.Stmt{callStmt}})

	sink := diag.NewSink()
	root := buildRoot(t, sink, []ast.Decl{appNamespace(narrow, wide, caller)})
	codeprocess.New(target.Host(), sink).Run(root)

	require.Nil(t, sink.FirstError())
	call, ok := callStmt.X.(*ast.FunctionCallExpr)
	require.True(t, ok)
	fr, ok := call.Callee.(*ast.FunctionReferenceExpr)
	require.True(t, ok)
	require.Same(t, narrow, fr.Decl)
}

func TestOverloadResolution_FallsBackToDefaultValueOverload(t *testing.T) {
	withDefault := plainParam("y", &ast.UnresolvedType{Name: "i32"})
	withDefault.Default = &ast.ValueLiteralExpr{Text: "0"}
	fn := freeFn("greet", []*ast.ParameterDecl{withDefault}, nil, &ast.CompoundStmt{})

	callStmt := &ast.ExprStmt{X: &ast.FunctionCallExpr{Callee: &ast.IdentifierExpr{Name: "greet"}}}
	caller := freeFn("caller", nil, nil, &ast.CompoundStmt{Stmts: []ast.Stmt{callStmt}})

	sink := diag.NewSink()
	root := buildRoot(t, sink, []ast.Decl{appNamespace(fn, caller)})
	codeprocess.New(target.Host(), sink).Run(root)

	require.Nil(t, sink.FirstError())
	call := callStmt.X.(*ast.FunctionCallExpr)
	require.Len(t, call.Args, 1)
	cast, isCast := call.Args[0].(*ast.ImplicitCastExpr)
	require.True(t, isCast, "expected the untyped default to be cast to the parameter type, got %T", call.Args[0])
	_, isDefault := cast.X.(*ast.ValueLiteralExpr)
	require.True(t, isDefault, "expected the default expression to fill the missing argument, got %T", cast.X)
}

func TestConstructorCallResolution(t *testing.T) {
	ctorParam := plainParam("v", &ast.UnresolvedType{Name: "i32"})
	ctor := &ast.ConstructorDecl{Params: []*ast.ParameterDecl{ctorParam}, Body: &ast.CompoundStmt{}}
	ctor.Ident = ast.Identifier{Name: "init"}
	s := &ast.StructDecl{Members: []ast.Decl{ctor}}
	s.Ident = ast.Identifier{Name: "Box"}

	callStmt := &ast.ExprStmt{X: &ast.FunctionCallExpr{
		Callee: &ast.IdentifierExpr{Name: "Box"},
		Args:   []ast.Expr{&ast.AsExpr{X: &ast.ValueLiteralExpr{Text: "1"}, To: &ast.UnresolvedType{Name: "i32"}}},
		Labels: []string{""},
	}}
	caller := freeFn("caller", nil, nil, &ast.CompoundStmt{Stmts: []ast.Stmt{callStmt}})

	sink := diag.NewSink()
	root := buildRoot(t, sink, []ast.Decl{appNamespace(s, caller)})
	codeprocess.New(target.Host(), sink).Run(root)

	require.Nil(t, sink.FirstError())
	cc, ok := callStmt.X.(*ast.ConstructorCallExpr)
	require.True(t, ok, "expected a resolved constructor call, got %T", callStmt.X)
	require.Same(t, ctor, cc.Decl)
}

func TestCompoundAssign_SharesLHSNode(t *testing.T) {
	field := member("total", &ast.UnresolvedType{Name: "i32"})
	assignStmt := &ast.ExprStmt{X: &ast.InfixExpr{
		Op:  "+=",
		LHS: &ast.MemberAccessCallExpr{Object: &ast.IdentifierExpr{Name: "self"}, Name: "total"},
		RHS: &ast.AsExpr{X: &ast.ValueLiteralExpr{Text: "1"}, To: &ast.UnresolvedType{Name: "i32"}},
	}}
	fn := &ast.FunctionDecl{Body: &ast.CompoundStmt{Stmts: []ast.Stmt{assignStmt}}}
	fn.Ident = ast.Identifier{Name: "bump"}
	s := &ast.StructDecl{Members: []ast.Decl{field, fn}}
	s.Ident = ast.Identifier{Name: "Acc"}

	sink := diag.NewSink()
	root := buildRoot(t, sink, []ast.Decl{appNamespace(s)})
	codeprocess.New(target.Host(), sink).Run(root)

	require.Nil(t, sink.FirstError())
	assign, ok := assignStmt.X.(*ast.AssignmentExpr)
	require.True(t, ok, "expected compound assignment to desugar into AssignmentExpr, got %T", assignStmt.X)
	inner, ok := assign.RHS.(*ast.InfixExpr)
	require.True(t, ok)
	require.Equal(t, "+", inner.Op)
	read, ok := inner.LHS.(*ast.LValueToRValueExpr)
	require.True(t, ok, "expected the inner operand to read the LHS through LValueToRValueExpr, got %T", inner.LHS)
	require.Same(t, assign.LHS, read.X, "LHS must be evaluated once and shared between the outer and inner nodes")
}

func TestEnumConstants_AutoIncrementAfterExplicitValue(t *testing.T) {
	first := &ast.EnumConstDecl{Initializer: &ast.ValueLiteralExpr{Text: "5"}}
	first.Ident = ast.Identifier{Name: "a"}
	second := &ast.EnumConstDecl{}
	second.Ident = ast.Identifier{Name: "b"}
	third := &ast.EnumConstDecl{}
	third.Ident = ast.Identifier{Name: "c"}

	e := &ast.EnumDecl{Constants: []*ast.EnumConstDecl{first, second, third}}
	e.Ident = ast.Identifier{Name: "Kind"}

	sink := diag.NewSink()
	root := buildRoot(t, sink, []ast.Decl{appNamespace(e)})
	codeprocess.New(target.Host(), sink).Run(root)

	require.Nil(t, sink.FirstError())
	require.NotNil(t, first.Value)
	require.Equal(t, int64(5), *first.Value)
	require.Equal(t, int64(6), *second.Value)
	require.Equal(t, int64(7), *third.Value)
}

func TestEvalConstInt_Arithmetic(t *testing.T) {
	expr := &ast.InfixExpr{
		Op:  "+",
		LHS: &ast.ValueLiteralExpr{Text: "2"},
		RHS: &ast.InfixExpr{Op: "*", LHS: &ast.ValueLiteralExpr{Text: "3"}, RHS: &ast.ValueLiteralExpr{Text: "4"}},
	}
	n, ok := codeprocess.EvalConstInt(expr)
	require.True(t, ok)
	require.Equal(t, int64(14), n)
}

func TestEvalConstInt_DivisionByZeroIsNotConst(t *testing.T) {
	expr := &ast.InfixExpr{Op: "/", LHS: &ast.ValueLiteralExpr{Text: "1"}, RHS: &ast.ValueLiteralExpr{Text: "0"}}
	_, ok := codeprocess.EvalConstInt(expr)
	require.False(t, ok)
}

func TestPropertyAccess_ReadDesugarsToGetterCall(t *testing.T) {
	get := &ast.PropertyGetDecl{Kind: ast.SubscriptGetValue, Body: &ast.CompoundStmt{}}
	prop := &ast.PropertyDecl{Type: &ast.UnresolvedType{Name: "i32"}, Gets: []*ast.PropertyGetDecl{get}}
	prop.Ident = ast.Identifier{Name: "value"}

	useStmt := &ast.ExprStmt{X: &ast.MemberAccessCallExpr{Object: &ast.IdentifierExpr{Name: "self"}, Name: "value"}}
	fn := &ast.FunctionDecl{Body: &ast.CompoundStmt{Stmts: []ast.Stmt{useStmt}}}
	fn.Ident = ast.Identifier{Name: "read"}

	s := &ast.StructDecl{Members: []ast.Decl{prop, fn}}
	s.Ident = ast.Identifier{Name: "Box"}

	sink := diag.NewSink()
	root := buildRoot(t, sink, []ast.Decl{appNamespace(s)})
	codeprocess.New(target.Host(), sink).Run(root)

	require.Nil(t, sink.FirstError())
	call, ok := useStmt.X.(*ast.PropertyGetCallExpr)
	require.True(t, ok, "expected a property read to desugar into a getter call, got %T", useStmt.X)
	require.Same(t, get, call.Decl)
}

func TestPropertyAccess_WriteDesugarsToSetterCall(t *testing.T) {
	get := &ast.PropertyGetDecl{Kind: ast.SubscriptGetValue, Body: &ast.CompoundStmt{}}
	valParam := plainParam("newValue", &ast.UnresolvedType{Name: "i32"})
	set := &ast.PropertySetDecl{ValueParam: valParam, Body: &ast.CompoundStmt{}}
	prop := &ast.PropertyDecl{Type: &ast.UnresolvedType{Name: "i32"}, Gets: []*ast.PropertyGetDecl{get}, Set: set}
	prop.Ident = ast.Identifier{Name: "value"}

	assignStmt := &ast.ExprStmt{X: &ast.AssignmentExpr{
		LHS: &ast.MemberAccessCallExpr{Object: &ast.IdentifierExpr{Name: "self"}, Name: "value"},
		RHS: &ast.AsExpr{X: &ast.ValueLiteralExpr{Text: "7"}, To: &ast.UnresolvedType{Name: "i32"}},
	}}
	fn := &ast.FunctionDecl{Body: &ast.CompoundStmt{Stmts: []ast.Stmt{assignStmt}}}
	fn.Ident = ast.Identifier{Name: "write"}

	s := &ast.StructDecl{Members: []ast.Decl{prop, fn}}
	s.Ident = ast.Identifier{Name: "Box"}

	sink := diag.NewSink()
	root := buildRoot(t, sink, []ast.Decl{appNamespace(s)})
	codeprocess.New(target.Host(), sink).Run(root)

	require.Nil(t, sink.FirstError())
	set2, ok := assignStmt.X.(*ast.PropertySetCallExpr)
	require.True(t, ok, "expected a property write to desugar into a setter call, got %T", assignStmt.X)
	require.Same(t, set, set2.Decl)
}

func TestOperatorDispatch_BuiltInInfixProducesBoolForComparison(t *testing.T) {
	cmp := &ast.InfixExpr{
		Op:  "<",
		LHS: &ast.AsExpr{X: &ast.ValueLiteralExpr{Text: "1"}, To: &ast.UnresolvedType{Name: "i32"}},
		RHS: &ast.AsExpr{X: &ast.ValueLiteralExpr{Text: "2"}, To: &ast.UnresolvedType{Name: "i32"}},
	}
	useStmt := &ast.ExprStmt{X: cmp}
	fn := freeFn("cmp", nil, nil, &ast.CompoundStmt{Stmts: []ast.Stmt{useStmt}})

	sink := diag.NewSink()
	root := buildRoot(t, sink, []ast.Decl{appNamespace(fn)})
	codeprocess.New(target.Host(), sink).Run(root)

	require.Nil(t, sink.FirstError())
	resolved := useStmt.X.(*ast.InfixExpr)
	bi, ok := resolved.ValueType.(*ast.BuiltInType)
	require.True(t, ok)
	require.Equal(t, "bool", bi.Name)
}
