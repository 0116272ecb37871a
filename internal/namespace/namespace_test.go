package namespace_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/oxhq/midc/internal/ast"
	"github.com/oxhq/midc/internal/namespace"
)

func TestMerge_SharedPathAcrossFiles(t *testing.T) {
	b := namespace.NewBuilder()

	fileA := &ast.NamespaceDecl{Path: []string{"app", "model"}}
	fileA.Ident = ast.Identifier{Name: "model"}
	userDecl := &ast.StructDecl{}
	userDecl.Ident = ast.Identifier{Name: "User"}
	fileA.Decls = []ast.Decl{userDecl}

	fileB := &ast.NamespaceDecl{Path: []string{"app", "model"}}
	fileB.Ident = ast.Identifier{Name: "model"}
	orderDecl := &ast.StructDecl{}
	orderDecl.Ident = ast.Identifier{Name: "Order"}
	fileB.Decls = []ast.Decl{orderDecl}

	b.MergeFiles([][]ast.Decl{{fileA}, {fileB}})

	node := b.Root().Lookup([]string{"app", "model"})
	require.NotNil(t, node)
	require.Len(t, node.Fragments, 2)
	require.Same(t, node, fileA.Prototype)
	require.Same(t, node, fileB.Prototype)

	decl, ok := node.FindDecl("User")
	require.True(t, ok)
	require.Same(t, userDecl, decl)

	_, ok = node.FindDecl("Order")
	require.True(t, ok)

	all := node.AllDecls()
	require.Len(t, all, 2)
}

func TestMerge_NestedNamespaceBlocks(t *testing.T) {
	b := namespace.NewBuilder()

	inner := &ast.NamespaceDecl{Path: []string{"app", "model", "inner"}}
	inner.Ident = ast.Identifier{Name: "inner"}

	outer := &ast.NamespaceDecl{Path: []string{"app", "model"}}
	outer.Ident = ast.Identifier{Name: "model"}
	outer.Decls = []ast.Decl{inner}

	b.Merge([]ast.Decl{outer})

	require.NotNil(t, b.Root().Lookup([]string{"app", "model"}))
	require.NotNil(t, b.Root().Lookup([]string{"app", "model", "inner"}))
	require.Same(t, b.Root().Lookup([]string{"app", "model", "inner"}), inner.Prototype)
}

func TestLookup_MissingSegmentReturnsNil(t *testing.T) {
	b := namespace.NewBuilder()
	require.Nil(t, b.Root().Lookup([]string{"nope"}))
}
