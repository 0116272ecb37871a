package transform_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/oxhq/midc/internal/ast"
	"github.com/oxhq/midc/internal/diag"
	"github.com/oxhq/midc/internal/target"
	"github.com/oxhq/midc/internal/transform"
)

// TestDumpDiff_DestructorInsertionShape asserts the shape of the diff C8
// produces for a function returning past a local with a destructor: the
// dumped "after" body gains a "~Resource(a)" line the "before" dump never
// had, and the diff marks it as an addition.
func TestDumpDiff_DestructorInsertionShape(t *testing.T) {
	dtor := &ast.DestructorDecl{Body: &ast.CompoundStmt{}}
	s := &ast.StructDecl{}
	s.Ident = ast.Identifier{Name: "Resource"}
	s.Destructor = dtor
	s.Members = []ast.Decl{dtor}

	local := &ast.VariableDecl{Kind: ast.VarKindLocal, Type: &ast.UnresolvedType{Name: "Resource"}}
	local.Ident = ast.Identifier{Name: "a"}
	local.Initializer = &ast.FunctionCallExpr{Callee: &ast.IdentifierExpr{Name: "Resource"}, Labels: []string{}}
	declStmt := &ast.ExprStmt{X: &ast.VariableDeclExpr{Decl: local}}

	retStmt := &ast.ReturnStmt{}
	body := &ast.CompoundStmt{Stmts: []ast.Stmt{declStmt, retStmt}}
	fn := freeFn("use", nil, nil, body)

	before := diag.DumpFunc(fn)

	sink := diag.NewSink()
	root := buildRoot(t, sink, []ast.Decl{appNamespace(s, fn)})
	require.Nil(t, sink.FirstError())
	transform.New(target.Host(), sink).Run(root)
	require.Nil(t, sink.FirstError())

	after := diag.DumpFunc(fn)

	require.NotContains(t, before, "~Resource")
	require.Contains(t, after, "~Resource(a)")

	diffText, err := diag.Diff(before, after, "use")
	require.NoError(t, err)
	require.True(t, strings.Contains(diffText, "+") && strings.Contains(diffText, "~Resource(a)"),
		"expected the unified diff to show the destructor call as an addition:\n%s", diffText)
}
