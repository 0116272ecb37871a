package diag_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/oxhq/midc/internal/ast"
	"github.com/oxhq/midc/internal/diag"
)

func TestSink_FirstErrorWins(t *testing.T) {
	s := diag.NewSink()
	require.False(t, s.Fatal())

	first := diag.New(diag.KindLookup, "a.lang", ast.Range{}, "name not found: %s", "foo")
	second := diag.New(diag.KindLookup, "a.lang", ast.Range{}, "second error")

	s.Error(first)
	s.Error(second)

	require.True(t, s.Fatal())
	require.Same(t, first, s.FirstError())
}

func TestSink_WarningsDoNotAbort(t *testing.T) {
	s := diag.NewSink()
	s.Warn(diag.Warning{File: "a.lang", Message: "unused variable"})
	require.False(t, s.Fatal())
	require.Len(t, s.Warnings(), 1)
}

func TestDiagnostic_InternalPrefix(t *testing.T) {
	d := diag.Internal("a.lang", ast.Range{}, "layout invariant violated")
	require.Contains(t, d.Error(), "[INTERNAL]")
}
