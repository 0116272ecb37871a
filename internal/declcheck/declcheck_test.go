package declcheck_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/oxhq/midc/internal/ast"
	"github.com/oxhq/midc/internal/declcheck"
	"github.com/oxhq/midc/internal/diag"
	"github.com/oxhq/midc/internal/namespace"
)

func TestRun_LinksContainersAndStructMembers(t *testing.T) {
	b := namespace.NewBuilder()

	field := &ast.VariableDecl{Kind: ast.VarKindMember}
	field.Ident = ast.Identifier{Name: "x"}
	point := &ast.StructDecl{Members: []ast.Decl{field}}
	point.Ident = ast.Identifier{Name: "Point"}

	ns := &ast.NamespaceDecl{Path: []string{"app"}, Decls: []ast.Decl{point}}
	ns.Ident = ast.Identifier{Name: "app"}
	b.Merge([]ast.Decl{ns})

	sink := diag.NewSink()
	declcheck.NewChecker(b.Root(), sink).Run()

	require.False(t, sink.Fatal())
	require.Same(t, point, field.Container)
}

func TestRun_DuplicateVariableFlagged(t *testing.T) {
	b := namespace.NewBuilder()

	a := &ast.VariableDecl{}
	a.Ident = ast.Identifier{Name: "count"}
	bDecl := &ast.VariableDecl{}
	bDecl.Ident = ast.Identifier{Name: "count"}

	ns := &ast.NamespaceDecl{Path: []string{"app"}, Decls: []ast.Decl{a, bDecl}}
	ns.Ident = ast.Identifier{Name: "app"}
	b.Merge([]ast.Decl{ns})

	sink := diag.NewSink()
	declcheck.NewChecker(b.Root(), sink).Run()

	require.True(t, sink.Fatal())
	require.Contains(t, sink.FirstError().Error(), "duplicate declaration")
}

func TestRun_ImportResolvesAgainstPrototypeTree(t *testing.T) {
	b := namespace.NewBuilder()

	model := &ast.NamespaceDecl{Path: []string{"app", "model"}}
	model.Ident = ast.Identifier{Name: "model"}
	b.Merge([]ast.Decl{model})

	imp := &ast.ImportDecl{Path: []string{"app", "model"}}
	imp.Ident = ast.Identifier{Name: "import"}
	caller := &ast.NamespaceDecl{Path: []string{"app", "service"}, Decls: []ast.Decl{imp}}
	caller.Ident = ast.Identifier{Name: "service"}
	b.Merge([]ast.Decl{caller})

	sink := diag.NewSink()
	declcheck.NewChecker(b.Root(), sink).Run()

	require.False(t, sink.Fatal())
	require.NotNil(t, imp.Target)
	require.Equal(t, []string{"app", "model"}, imp.Target.Path)
}

func TestRun_UnresolvedImportFlagged(t *testing.T) {
	b := namespace.NewBuilder()

	imp := &ast.ImportDecl{Path: []string{"nope"}}
	imp.Ident = ast.Identifier{Name: "import"}
	ns := &ast.NamespaceDecl{Path: []string{"app"}, Decls: []ast.Decl{imp}}
	ns.Ident = ast.Identifier{Name: "app"}
	b.Merge([]ast.Decl{ns})

	sink := diag.NewSink()
	declcheck.NewChecker(b.Root(), sink).Run()

	require.True(t, sink.Fatal())
	require.Contains(t, sink.FirstError().Error(), "does not match any namespace")
}
