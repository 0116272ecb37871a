package source

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/oxhq/midc/internal/ast"
	"github.com/oxhq/midc/internal/diag"
)

func parseDecls(t *testing.T, src string) ([]ast.Decl, *diag.Sink) {
	t.Helper()
	sink := diag.NewSink()
	p := newParser("t.mid", 0, []byte(src), sink)
	decls := p.parseFile()
	return decls, sink
}

func parseExprFrom(t *testing.T, src string) ast.Expr {
	t.Helper()
	sink := diag.NewSink()
	p := newParser("t.mid", 0, []byte(src), sink)
	x := p.parseExpr()
	require.False(t, sink.Fatal(), "unexpected parse error: %v", sink.FirstError())
	return x
}

func TestParser_ExpressionPrecedence(t *testing.T) {
	x := parseExprFrom(t, "1 + 2 * 3")
	infix, ok := x.(*ast.InfixExpr)
	require.True(t, ok)
	require.Equal(t, "+", infix.Op)
	rhs, ok := infix.RHS.(*ast.InfixExpr)
	require.True(t, ok)
	require.Equal(t, "*", rhs.Op)
}

func TestParser_AssignmentIsRightAssociative(t *testing.T) {
	x := parseExprFrom(t, "a = b = c")
	outer, ok := x.(*ast.AssignmentExpr)
	require.True(t, ok)
	_, ok = outer.RHS.(*ast.AssignmentExpr)
	require.True(t, ok)
}

func TestParser_CompoundAssignLeftAsInfix(t *testing.T) {
	x := parseExprFrom(t, "a += 1")
	infix, ok := x.(*ast.InfixExpr)
	require.True(t, ok)
	require.Equal(t, "+=", infix.Op)
}

func TestParser_TemplateArgsVsComparison(t *testing.T) {
	x := parseExprFrom(t, "Box<i32>(1)")
	call, ok := x.(*ast.FunctionCallExpr)
	require.True(t, ok)
	callee, ok := call.Callee.(*ast.IdentifierExpr)
	require.True(t, ok)
	require.Equal(t, "Box", callee.Name)

	cmp := parseExprFrom(t, "a < b")
	infix, ok := cmp.(*ast.InfixExpr)
	require.True(t, ok)
	require.Equal(t, "<", infix.Op)
}

func TestParser_ParenCastVsCall(t *testing.T) {
	x := parseExprFrom(t, "(T)(v)")
	cast, ok := x.(*ast.PotentialExplicitCastExpr)
	require.True(t, ok)
	require.Equal(t, "T", cast.TypeText)

	x2 := parseExprFrom(t, "(f)(a, b)")
	call, ok := x2.(*ast.FunctionCallExpr)
	require.True(t, ok)
	require.Len(t, call.Args, 2)
}

func TestParser_AsAndIs(t *testing.T) {
	x := parseExprFrom(t, "v as? i32")
	_, ok := x.(*ast.AsOptionalExpr)
	require.True(t, ok)

	x2 := parseExprFrom(t, "v is Shape")
	_, ok = x2.(*ast.IsExpr)
	require.True(t, ok)
}

func TestParser_LocalDeclOrPrefixAmbiguity(t *testing.T) {
	sink := diag.NewSink()
	p := newParser("t.mid", 0, []byte("{ *p = v; }"), sink)
	body := p.parseCompoundStmt()
	require.False(t, sink.Fatal())
	require.Len(t, body.Stmts, 1)
	exprStmt := body.Stmts[0].(*ast.ExprStmt)
	decl, ok := exprStmt.X.(*ast.LocalVariableDeclOrPrefixOperatorCallExpr)
	require.True(t, ok)
	require.Equal(t, "*", decl.Op)
	require.Equal(t, "p", decl.Name)
}

func TestParser_IfWhileForSwitch(t *testing.T) {
	sink := diag.NewSink()
	p := newParser("t.mid", 0, []byte(`{
		if a { b; } else if c { d; } else { e; }
		while x { y; }
		for (let i: i32 = 0; i < n; i = i + 1) { z; }
		switch s { case 1: a; case 2, 3: b; default: c; }
	}`), sink)
	body := p.parseCompoundStmt()
	require.False(t, sink.Fatal(), "unexpected parse error: %v", sink.FirstError())
	require.Len(t, body.Stmts, 4)
	require.IsType(t, &ast.IfStmt{}, body.Stmts[0])
	require.IsType(t, &ast.WhileStmt{}, body.Stmts[1])
	require.IsType(t, &ast.ForStmt{}, body.Stmts[2])
	sw := body.Stmts[3].(*ast.SwitchStmt)
	require.Len(t, sw.Cases, 3)
	require.Len(t, sw.Cases[1].Values, 2)
	require.Empty(t, sw.Cases[2].Values)
}

func TestParser_DoWhileVsDoCatch(t *testing.T) {
	sink := diag.NewSink()
	p := newParser("t.mid", 0, []byte("{ do { a; } while b; do { c; } catch e { d; } }"), sink)
	body := p.parseCompoundStmt()
	require.False(t, sink.Fatal())
	require.Len(t, body.Stmts, 2)
	require.IsType(t, &ast.DoWhileStmt{}, body.Stmts[0])
	require.IsType(t, &ast.DoCatchStmt{}, body.Stmts[1])
}

func TestParser_StructWithCtorAndBaseCall(t *testing.T) {
	decls, sink := parseDecls(t, `
		struct Box : Container {
			let value: i32;
			init(v: i32) : base(v) {
				self.value = v;
			}
		}
	`)
	require.False(t, sink.Fatal(), "unexpected parse error: %v", sink.FirstError())
	require.Len(t, decls, 1)
	s := decls[0].(*ast.StructDecl)
	require.Equal(t, "Box", s.Ident.Name)
	require.NotNil(t, s.BaseTypeExpr)
	require.Len(t, s.Members, 2)
	ctor := s.Members[1].(*ast.ConstructorDecl)
	call, ok := ctor.BaseCall.(*ast.FunctionCallExpr)
	require.True(t, ok)
	callee := call.Callee.(*ast.IdentifierExpr)
	require.Equal(t, "base", callee.Name)
}

func TestParser_TemplateStructWithWhereClause(t *testing.T) {
	decls, sink := parseDecls(t, `
		template<T: Comparable, const N: usize> struct Array {
			let data: T[N];
		} where T : Ordered, requires(N > 0), throws
	`)
	require.False(t, sink.Fatal(), "unexpected parse error: %v", sink.FirstError())
	require.Len(t, decls, 1)
	ts := decls[0].(*ast.TemplateStructDecl)
	require.Len(t, ts.Params, 2)
	require.Equal(t, ast.TemplateParamTypename, ts.Params[0].Kind)
	require.Equal(t, ast.TemplateParamConst, ts.Params[1].Kind)
	require.NotEmpty(t, ts.Contracts)

	var kinds []ast.ContractKind
	for _, c := range ts.Contracts {
		kinds = append(kinds, c.Kind)
	}
	require.Contains(t, kinds, ast.ContractWhereTrait)
	require.Contains(t, kinds, ast.ContractRequires)
	require.Contains(t, kinds, ast.ContractThrows)
}

func TestParser_SubscriptAndProperty(t *testing.T) {
	decls, sink := parseDecls(t, `
		struct Vec {
			subscript(i: i32) -> i32 {
				get { return 0; }
				mut get { return 0; }
				set(v) { }
			}
			property length: i32 {
				get { return 0; }
			}
		}
	`)
	require.False(t, sink.Fatal(), "unexpected parse error: %v", sink.FirstError())
	s := decls[0].(*ast.StructDecl)
	sub := s.Members[0].(*ast.SubscriptOperatorDecl)
	require.Len(t, sub.Gets, 2)
	require.Equal(t, ast.SubscriptGetRef, sub.Gets[0].Kind)
	require.Equal(t, ast.SubscriptGetRefMut, sub.Gets[1].Kind)
	require.NotNil(t, sub.Set)

	prop := s.Members[1].(*ast.PropertyDecl)
	require.Len(t, prop.Gets, 1)
}

func TestParser_EnumDecl(t *testing.T) {
	decls, sink := parseDecls(t, `
		enum Color : i32 { Red, Green = 5, Blue }
	`)
	require.False(t, sink.Fatal(), "unexpected parse error: %v", sink.FirstError())
	e := decls[0].(*ast.EnumDecl)
	require.Len(t, e.Constants, 3)
	require.Equal(t, "Red", e.Constants[0].Ident.Name)
	require.NotNil(t, e.Constants[1].Initializer)
}

func TestParser_NamespaceAndImport(t *testing.T) {
	decls, sink := parseDecls(t, `
		import app.util;
		namespace app.model {
			struct Empty { }
		}
	`)
	require.False(t, sink.Fatal(), "unexpected parse error: %v", sink.FirstError())
	require.Len(t, decls, 2)
	imp := decls[0].(*ast.ImportDecl)
	require.Equal(t, []string{"app", "util"}, imp.Path)
	ns := decls[1].(*ast.NamespaceDecl)
	require.Equal(t, []string{"app", "model"}, ns.Path)
	require.Len(t, ns.Decls, 1)
}

func TestParseFile_ReturnsASTFile(t *testing.T) {
	sink := diag.NewSink()
	f := ParseFile("t.mid", 0, []byte("struct Empty { }"), sink)
	require.False(t, sink.Fatal())
	require.Equal(t, "t.mid", f.Path)
	require.Len(t, f.Decls, 1)
}
