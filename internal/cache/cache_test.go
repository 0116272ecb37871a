package cache_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/oxhq/midc/internal/ast"
	"github.com/oxhq/midc/internal/cache"
)

func openTestStore(t *testing.T) *cache.Store {
	t.Helper()
	s, err := cache.Open(":memory:", false)
	require.NoError(t, err)
	t.Cleanup(func() { require.NoError(t, s.Close()) })
	return s
}

func TestStore_RecordAndLookup(t *testing.T) {
	s := openTestStore(t)

	digest, argsJSON, err := cache.DigestArgs([]ast.Expr{
		&ast.TypeExpr{Referenced: &ast.BuiltInType{Name: "i32", Signed: true, SizeBits: 32}},
	})
	require.NoError(t, err)

	found, err := s.Lookup("ns::Box", digest)
	require.NoError(t, err)
	require.False(t, found)

	require.NoError(t, s.Record("ns::Box", digest, argsJSON))

	found, err = s.Lookup("ns::Box", digest)
	require.NoError(t, err)
	require.True(t, found)

	count, err := s.Count()
	require.NoError(t, err)
	require.EqualValues(t, 1, count)
}

func TestStore_RecordIsIdempotent(t *testing.T) {
	s := openTestStore(t)

	digest, argsJSON, err := cache.DigestArgs([]ast.Expr{&ast.ValueLiteralExpr{Text: "4"}})
	require.NoError(t, err)

	require.NoError(t, s.Record("ns::Array", digest, argsJSON))
	require.NoError(t, s.Record("ns::Array", digest, argsJSON))

	count, err := s.Count()
	require.NoError(t, err)
	require.EqualValues(t, 1, count)
}

func TestStore_Clear(t *testing.T) {
	s := openTestStore(t)

	digest, argsJSON, err := cache.DigestArgs([]ast.Expr{&ast.BoolLiteralExpr{Value: true}})
	require.NoError(t, err)
	require.NoError(t, s.Record("ns::Flag", digest, argsJSON))

	require.NoError(t, s.Clear())

	count, err := s.Count()
	require.NoError(t, err)
	require.Zero(t, count)
}

func TestStore_List(t *testing.T) {
	s := openTestStore(t)

	d1, j1, err := cache.DigestArgs([]ast.Expr{&ast.ValueLiteralExpr{Text: "1"}})
	require.NoError(t, err)
	d2, j2, err := cache.DigestArgs([]ast.Expr{&ast.ValueLiteralExpr{Text: "2"}})
	require.NoError(t, err)

	require.NoError(t, s.Record("ns::Pair", d1, j1))
	require.NoError(t, s.Record("ns::Pair", d2, j2))

	rows, err := s.List()
	require.NoError(t, err)
	require.Len(t, rows, 2)
	for _, r := range rows {
		require.Equal(t, "ns::Pair", r.TemplateKey)
	}
}

func TestDigestArgs_DiffersByType(t *testing.T) {
	d1, _, err := cache.DigestArgs([]ast.Expr{&ast.TypeExpr{Referenced: &ast.BuiltInType{Name: "i32"}}})
	require.NoError(t, err)
	d2, _, err := cache.DigestArgs([]ast.Expr{&ast.TypeExpr{Referenced: &ast.BuiltInType{Name: "f64"}}})
	require.NoError(t, err)
	require.NotEqual(t, d1, d2)
}
