package transform_test

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
	"github.com/oxhq/midc/internal/transform"
	"github.com/oxhq/midc/internal/typeresolve"
)

// buildRoot runs every pass that precedes the transformer (C3 namespace
// build, C4 declcheck, C5 typeresolve, C6 instantiate, C7 codeprocess) so
// the tree handed to transform looks the way it would at the real pipeline
// stage.
func buildRoot(t *testing.T, sink *diag.Sink, decls []ast.Decl) *ast.PrototypeNamespace {
	t.Helper()
	b := namespace.NewBuilder()
	b.Merge(decls)
	root := b.Root()
	declcheck.NewChecker(root, sink).Run()
	typeresolve.NewResolver(root, target.Host()).Run()
	instantiate.New(target.Host(), sink).Run(root)
	codeprocess.New(target.Host(), sink).Run(root)
	return root
}

func appNamespace(decls ...ast.Decl) *ast.NamespaceDecl {
	ns := &ast.NamespaceDecl{Path: []string{"app"}, Decls: decls}
	ns.Ident = ast.Identifier{Name: "app"}
	return ns
}

func freeFn(name string, params []*ast.ParameterDecl, result ast.Type, body *ast.CompoundStmt) *ast.FunctionDecl {
	fn := &ast.FunctionDecl{Params: params, Result: result, Body: body}
	fn.Ident = ast.Identifier{Name: name}
	return fn
}

func TestConstructorCall_DirectlyBoundLetNeedsNoTemporary(t *testing.T) {
	ctor := &ast.ConstructorDecl{Body: &ast.CompoundStmt{}}
	ctor.Ident = ast.Identifier{Name: "init"}
	s := &ast.StructDecl{Members: []ast.Decl{ctor}}
	s.Ident = ast.Identifier{Name: "Box"}

	local := &ast.VariableDecl{Kind: ast.VarKindLocal, Type: &ast.UnresolvedType{Name: "Box"}}
	local.Ident = ast.Identifier{Name: "b"}
	local.Initializer = &ast.FunctionCallExpr{Callee: &ast.IdentifierExpr{Name: "Box"}, Labels: []string{}}
	declStmt := &ast.ExprStmt{X: &ast.VariableDeclExpr{Decl: local}}

	caller := freeFn("make", nil, nil, &ast.CompoundStmt{Stmts: []ast.Stmt{declStmt}})

	sink := diag.NewSink()
	root := buildRoot(t, sink, []ast.Decl{appNamespace(s, caller)})
	require.Nil(t, sink.FirstError())

	transform.New(target.Host(), sink).Run(root)
	require.Nil(t, sink.FirstError())

	require.Empty(t, declStmt.Base().TemporaryValues, "a constructor call bound straight to a let shouldn't spawn a temporary")
	ctorCall, ok := local.Initializer.(*ast.ConstructorCallExpr)
	require.True(t, ok, "expected the resolved initializer to still be a constructor call, got %T", local.Initializer)
	ref, ok := ctorCall.ObjectRef.(*ast.LocalVariableRefExpr)
	require.True(t, ok, "expected ObjectRef to point straight at the local, got %T", ctorCall.ObjectRef)
	require.Same(t, local, ref.Decl)
}

func TestConstructorCall_ArgumentPositionCapturesTemporary(t *testing.T) {
	ctor := &ast.ConstructorDecl{Body: &ast.CompoundStmt{}}
	ctor.Ident = ast.Identifier{Name: "init"}
	s := &ast.StructDecl{Members: []ast.Decl{ctor}}
	s.Ident = ast.Identifier{Name: "Box"}

	boxParam := &ast.ParameterDecl{Type: &ast.UnresolvedType{Name: "Box"}}
	boxParam.Ident = ast.Identifier{Name: "b"}
	take := freeFn("take", []*ast.ParameterDecl{boxParam}, nil, &ast.CompoundStmt{})

	callStmt := &ast.ExprStmt{X: &ast.FunctionCallExpr{
		Callee: &ast.IdentifierExpr{Name: "take"},
		Args:   []ast.Expr{&ast.FunctionCallExpr{Callee: &ast.IdentifierExpr{Name: "Box"}, Labels: []string{}}},
		Labels: []string{""},
	}}
	caller := freeFn("caller", nil, nil, &ast.CompoundStmt{Stmts: []ast.Stmt{callStmt}})

	sink := diag.NewSink()
	root := buildRoot(t, sink, []ast.Decl{appNamespace(s, take, caller)})
	require.Nil(t, sink.FirstError())

	transform.New(target.Host(), sink).Run(root)
	require.Nil(t, sink.FirstError())

	require.Len(t, callStmt.Base().TemporaryValues, 1, "expected the Box() argument to hoist into exactly one temporary")
	temp := callStmt.Base().TemporaryValues[0]

	call := callStmt.X.(*ast.FunctionCallExpr)
	argRef, ok := call.Args[0].(*ast.TemporaryValueRefExpr)
	require.True(t, ok, "expected the call site to now reference the temporary, got %T", call.Args[0])
	require.Same(t, temp, argRef.Decl)

	ctorCall, ok := temp.Initializer.(*ast.ConstructorCallExpr)
	require.True(t, ok)
	objRef, ok := ctorCall.ObjectRef.(*ast.TemporaryValueRefExpr)
	require.True(t, ok)
	require.Same(t, temp, objRef.Decl)
}

func TestReturn_TearsDownLocalsInReverseOrder(t *testing.T) {
	dtor := &ast.DestructorDecl{Body: &ast.CompoundStmt{}}
	s := &ast.StructDecl{}
	s.Ident = ast.Identifier{Name: "Resource"}
	s.Destructor = dtor
	s.Members = []ast.Decl{dtor}

	first := &ast.VariableDecl{Kind: ast.VarKindLocal, Type: &ast.UnresolvedType{Name: "Resource"}}
	first.Ident = ast.Identifier{Name: "a"}
	first.Initializer = &ast.FunctionCallExpr{Callee: &ast.IdentifierExpr{Name: "Resource"}, Labels: []string{}}
	firstStmt := &ast.ExprStmt{X: &ast.VariableDeclExpr{Decl: first}}

	second := &ast.VariableDecl{Kind: ast.VarKindLocal, Type: &ast.UnresolvedType{Name: "Resource"}}
	second.Ident = ast.Identifier{Name: "b"}
	second.Initializer = &ast.FunctionCallExpr{Callee: &ast.IdentifierExpr{Name: "Resource"}, Labels: []string{}}
	secondStmt := &ast.ExprStmt{X: &ast.VariableDeclExpr{Decl: second}}

	retStmt := &ast.ReturnStmt{}
	fn := freeFn("use", nil, nil, &ast.CompoundStmt{Stmts: []ast.Stmt{firstStmt, secondStmt, retStmt}})

	sink := diag.NewSink()
	root := buildRoot(t, sink, []ast.Decl{appNamespace(s, fn)})
	require.Nil(t, sink.FirstError())

	transform.New(target.Host(), sink).Run(root)
	require.Nil(t, sink.FirstError())

	require.Len(t, retStmt.PreReturnDeferred, 2)
	firstDecl, ok := firstStmt.X.(*ast.VariableDeclExpr)
	require.True(t, ok)
	secondDecl, ok := secondStmt.X.(*ast.VariableDeclExpr)
	require.True(t, ok)

	ref0 := retStmt.PreReturnDeferred[0].Target.(*ast.LocalVariableRefExpr)
	ref1 := retStmt.PreReturnDeferred[1].Target.(*ast.LocalVariableRefExpr)
	require.Same(t, secondDecl.Decl, ref0.Decl, "b was constructed last, so it must be torn down first")
	require.Same(t, firstDecl.Decl, ref1.Decl)
}

func TestBreak_OnlyTearsDownLocalsInsideTheLoop(t *testing.T) {
	dtor := &ast.DestructorDecl{Body: &ast.CompoundStmt{}}
	s := &ast.StructDecl{}
	s.Ident = ast.Identifier{Name: "Resource"}
	s.Destructor = dtor
	s.Members = []ast.Decl{dtor}

	outer := &ast.VariableDecl{Kind: ast.VarKindLocal, Type: &ast.UnresolvedType{Name: "Resource"}}
	outer.Ident = ast.Identifier{Name: "outer"}
	outer.Initializer = &ast.FunctionCallExpr{Callee: &ast.IdentifierExpr{Name: "Resource"}, Labels: []string{}}
	outerStmt := &ast.ExprStmt{X: &ast.VariableDeclExpr{Decl: outer}}

	inner := &ast.VariableDecl{Kind: ast.VarKindLocal, Type: &ast.UnresolvedType{Name: "Resource"}}
	inner.Ident = ast.Identifier{Name: "inner"}
	inner.Initializer = &ast.FunctionCallExpr{Callee: &ast.IdentifierExpr{Name: "Resource"}, Labels: []string{}}
	innerStmt := &ast.ExprStmt{X: &ast.VariableDeclExpr{Decl: inner}}

	brk := &ast.BreakStmt{}
	loop := &ast.WhileStmt{Cond: &ast.BoolLiteralExpr{Value: true}, Body: &ast.CompoundStmt{Stmts: []ast.Stmt{innerStmt, brk}}}

	fn := freeFn("loopy", nil, nil, &ast.CompoundStmt{Stmts: []ast.Stmt{outerStmt, loop}})

	sink := diag.NewSink()
	root := buildRoot(t, sink, []ast.Decl{appNamespace(s, fn)})
	require.Nil(t, sink.FirstError())

	transform.New(target.Host(), sink).Run(root)
	require.Nil(t, sink.FirstError())

	require.Len(t, brk.PreBreakDeferred, 1, "break should only tear down locals declared inside the loop, not outer's")
	innerDecl := innerStmt.X.(*ast.VariableDeclExpr)
	ref := brk.PreBreakDeferred[0].Target.(*ast.LocalVariableRefExpr)
	require.Same(t, innerDecl.Decl, ref.Decl)
}

func TestGoto_ForwardJumpPastDeclarationIsRejected(t *testing.T) {
	decl := &ast.VariableDecl{Kind: ast.VarKindLocal, Type: &ast.UnresolvedType{Name: "i32"}, Initializer: &ast.ValueLiteralExpr{Text: "1"}}
	decl.Ident = ast.Identifier{Name: "x"}
	declStmt := &ast.ExprStmt{X: &ast.VariableDeclExpr{Decl: decl}}

	label := &ast.LabeledStmt{Label: "done", Stmt: &ast.ExprStmt{X: &ast.ValueLiteralExpr{Text: "0"}}}
	gotoStmt := &ast.GotoStmt{Label: "done"}

	fn := freeFn("jumpy", nil, nil, &ast.CompoundStmt{Stmts: []ast.Stmt{gotoStmt, declStmt, label}})

	sink := diag.NewSink()
	root := buildRoot(t, sink, []ast.Decl{appNamespace(fn)})
	require.Nil(t, sink.FirstError())

	transform.New(target.Host(), sink).Run(root)
	require.NotNil(t, sink.FirstError(), "a forward goto that skips a local declaration must be rejected")
}

func TestGoto_BackwardJumpTearsDownLocalsSinceLabel(t *testing.T) {
	dtor := &ast.DestructorDecl{Body: &ast.CompoundStmt{}}
	s := &ast.StructDecl{}
	s.Ident = ast.Identifier{Name: "Resource"}
	s.Destructor = dtor
	s.Members = []ast.Decl{dtor}

	label := &ast.LabeledStmt{Label: "top", Stmt: &ast.ExprStmt{X: &ast.ValueLiteralExpr{Text: "0"}}}

	local := &ast.VariableDecl{Kind: ast.VarKindLocal, Type: &ast.UnresolvedType{Name: "Resource"}}
	local.Ident = ast.Identifier{Name: "r"}
	local.Initializer = &ast.FunctionCallExpr{Callee: &ast.IdentifierExpr{Name: "Resource"}, Labels: []string{}}
	localStmt := &ast.ExprStmt{X: &ast.VariableDeclExpr{Decl: local}}

	gotoStmt := &ast.GotoStmt{Label: "top"}

	fn := freeFn("loopback", nil, nil, &ast.CompoundStmt{Stmts: []ast.Stmt{label, localStmt, gotoStmt}})

	sink := diag.NewSink()
	root := buildRoot(t, sink, []ast.Decl{appNamespace(s, fn)})
	require.Nil(t, sink.FirstError())

	transform.New(target.Host(), sink).Run(root)
	require.Nil(t, sink.FirstError())

	require.Len(t, gotoStmt.PreGotoDeferred, 1)
	localDecl := localStmt.X.(*ast.VariableDeclExpr)
	ref := gotoStmt.PreGotoDeferred[0].Target.(*ast.LocalVariableRefExpr)
	require.Same(t, localDecl.Decl, ref.Decl)
}

func TestWalkBody_VoidFunctionFallingOffTheEndGetsImplicitReturn(t *testing.T) {
	stmt := &ast.ExprStmt{X: &ast.ValueLiteralExpr{Text: "1"}}
	fn := freeFn("noop", nil, nil, &ast.CompoundStmt{Stmts: []ast.Stmt{stmt}})

	sink := diag.NewSink()
	root := buildRoot(t, sink, []ast.Decl{appNamespace(fn)})
	require.Nil(t, sink.FirstError())

	transform.New(target.Host(), sink).Run(root)
	require.Nil(t, sink.FirstError())

	require.Len(t, fn.Body.Stmts, 2)
	ret, ok := fn.Body.Stmts[1].(*ast.ReturnStmt)
	require.True(t, ok, "expected a synthesized return, got %T", fn.Body.Stmts[1])
	require.True(t, ret.IsImplicit)
}

func TestWalkBody_NonVoidFunctionFallingOffTheEndIsADiagnostic(t *testing.T) {
	stmt := &ast.ExprStmt{X: &ast.ValueLiteralExpr{Text: "1"}}
	fn := freeFn("bad", nil, &ast.UnresolvedType{Name: "i32"}, &ast.CompoundStmt{Stmts: []ast.Stmt{stmt}})

	sink := diag.NewSink()
	root := buildRoot(t, sink, []ast.Decl{appNamespace(fn)})
	require.Nil(t, sink.FirstError())

	transform.New(target.Host(), sink).Run(root)
	require.NotNil(t, sink.FirstError(), "a non-void function that can fall off the end must be flagged")
}

func TestSynthesizeImplicitMembers_DefaultCtorInitializesMembersWithDefaults(t *testing.T) {
	withDefault := &ast.VariableDecl{Kind: ast.VarKindMember, Type: &ast.UnresolvedType{Name: "i32"}, Initializer: &ast.ValueLiteralExpr{Text: "5"}}
	withDefault.Ident = ast.Identifier{Name: "count"}

	ctor := &ast.ConstructorDecl{IsImplicit: true, Body: &ast.CompoundStmt{}}
	ctor.Ident = ast.Identifier{Name: "init"}

	s := &ast.StructDecl{Members: []ast.Decl{withDefault, ctor}}
	s.Ident = ast.Identifier{Name: "Counter"}
	s.DefaultCtor = ctor

	sink := diag.NewSink()
	root := buildRoot(t, sink, []ast.Decl{appNamespace(s)})
	require.Nil(t, sink.FirstError())

	transform.New(target.Host(), sink).Run(root)
	require.Nil(t, sink.FirstError())

	require.Len(t, ctor.Body.Stmts, 1, "expected the implicit default ctor body to gain one member initializer")
	assign, ok := ctor.Body.Stmts[0].(*ast.ExprStmt).X.(*ast.AssignmentExpr)
	require.True(t, ok)
	lhs, ok := assign.LHS.(*ast.MemberVariableRefExpr)
	require.True(t, ok)
	require.Same(t, withDefault, lhs.Decl)
}

func TestVirtualDispatch_SelfCallInsideConstructorIsNotVirtual(t *testing.T) {
	virt := freeFn("greet", nil, nil, &ast.CompoundStmt{})
	virt.Modifiers.Virtual = true

	callStmt := &ast.ExprStmt{X: &ast.MemberAccessCallExpr{Object: &ast.IdentifierExpr{Name: "self"}, Name: "greet"}}
	ctor := &ast.ConstructorDecl{Body: &ast.CompoundStmt{Stmts: []ast.Stmt{callStmt}}}
	ctor.Ident = ast.Identifier{Name: "init"}

	s := &ast.StructDecl{Members: []ast.Decl{virt, ctor}}
	s.Ident = ast.Identifier{Name: "Greeter"}

	sink := diag.NewSink()
	root := buildRoot(t, sink, []ast.Decl{appNamespace(s)})
	require.Nil(t, sink.FirstError())

	transform.New(target.Host(), sink).Run(root)
	require.Nil(t, sink.FirstError())

	call, ok := callStmt.X.(*ast.MemberFunctionCallExpr)
	require.True(t, ok, "expected a resolved member call, got %T", callStmt.X)
	require.False(t, call.IsVirtualDispatch, "a self call from inside the owning ctor must not be virtually dispatched")
}
