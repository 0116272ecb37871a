package ast_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/oxhq/midc/internal/ast"
)

func boxStruct() *ast.StructDecl {
	member := &ast.VariableDecl{
		DeclBase: ast.DeclBase{Ident: ast.Identifier{Name: "value"}},
		Kind:     ast.VarKindMember,
		Type:     ast.LookupBuiltIn("i32"),
	}
	s := &ast.StructDecl{
		DeclBase: ast.DeclBase{Ident: ast.Identifier{Name: "Box"}},
		Kind:     ast.StructKindStruct,
		Members:  []ast.Decl{member},
	}
	return s
}

func TestDeepCopyStruct_IndependentButEqual(t *testing.T) {
	s := boxStruct()
	cp := ast.DeepCopyDecl(s).(*ast.StructDecl)

	require.NotSame(t, s, cp)
	require.Equal(t, s.Ident.Name, cp.Ident.Name)
	require.Len(t, cp.Members, 1)

	origMember := s.Members[0].(*ast.VariableDecl)
	cpMember := cp.Members[0].(*ast.VariableDecl)
	require.NotSame(t, origMember, cpMember)
	require.Equal(t, origMember.Ident.Name, cpMember.Ident.Name)
	require.True(t, ast.TypeEqual(origMember.Type, cpMember.Type))

	// Copy-of-copy is itself equal (copy is a pure function).
	cp2 := ast.DeepCopyDecl(cp).(*ast.StructDecl)
	require.NotSame(t, cp, cp2)
	require.Equal(t, cp.Ident.Name, cp2.Ident.Name)
}

func TestDeepCopy_LocalVariableRefRemapped(t *testing.T) {
	local := &ast.VariableDecl{
		DeclBase: ast.DeclBase{Ident: ast.Identifier{Name: "x"}},
		Kind:     ast.VarKindLocal,
		Type:     ast.LookupBuiltIn("i32"),
	}
	ref := &ast.LocalVariableRefExpr{Decl: local}
	body := &ast.CompoundStmt{
		Stmts: []ast.Stmt{
			&ast.ExprStmt{X: &ast.VariableDeclExpr{Decl: local}},
			&ast.ExprStmt{X: ref},
		},
	}
	fn := &ast.FunctionDecl{
		DeclBase: ast.DeclBase{Ident: ast.Identifier{Name: "f"}},
		Body:     body,
	}

	cp := ast.DeepCopyDecl(fn).(*ast.FunctionDecl)
	declExpr := cp.Body.Stmts[0].(*ast.ExprStmt).X.(*ast.VariableDeclExpr)
	refExpr := cp.Body.Stmts[1].(*ast.ExprStmt).X.(*ast.LocalVariableRefExpr)

	require.Same(t, declExpr.Decl, refExpr.Decl, "ref must be remapped to the copied decl, not the original")
	require.NotSame(t, refExpr.Decl, local)
}

func TestTypeEqual_QualifierMatters(t *testing.T) {
	i32 := ast.LookupBuiltIn("i32")
	constI32 := ast.CloneQualified(i32, ast.QualConst)
	require.True(t, ast.TypeEqual(i32, i32))
	require.False(t, ast.TypeEqual(i32, constI32))
}

func TestSubstituter_ReplacesTypenameRef(t *testing.T) {
	param := &ast.TemplateParameterDecl{Kind: ast.TemplateParamTypename}
	member := &ast.VariableDecl{
		DeclBase: ast.DeclBase{Ident: ast.Identifier{Name: "value"}},
		Kind:     ast.VarKindMember,
		Type:     &ast.TemplateTypenameRefType{Param: param},
	}
	s := &ast.StructDecl{
		DeclBase: ast.DeclBase{Ident: ast.Identifier{Name: "Box"}},
		Members:  []ast.Decl{member},
	}

	sub := ast.NewSubstituter(map[*ast.TemplateParameterDecl]ast.Type{param: ast.LookupBuiltIn("i32")}, nil)
	inst := sub.Decl(s).(*ast.StructDecl)

	gotType := inst.Members[0].(*ast.VariableDecl).Type
	require.True(t, ast.TypeEqual(gotType, ast.LookupBuiltIn("i32")))
}
