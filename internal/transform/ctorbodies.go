package transform

import "github.com/oxhq/midc/internal/ast"

// synthesizeImplicitMembers fills the empty bodies instantiate (C6) left on
// st's compiler-generated default/copy/move constructors and destructor:
// member-wise initialization, copy, move, and teardown. A written
// constructor/destructor is left untouched.
func (tr *Transformer) synthesizeImplicitMembers(st *ast.StructDecl) {
	members := dataMembers(st)
	self := func() ast.Expr { return &ast.CurrentSelfExpr{ExprBase: ast.ExprBase{ValueType: &ast.StructType{Decl: st}}} }

	if c := st.DefaultCtor; c != nil && c.IsImplicit && len(c.Body.Stmts) == 0 {
		for _, m := range members {
			if m.Initializer == nil {
				continue
			}
			c.Body.Stmts = append(c.Body.Stmts, memberAssignStmt(self(), m, m.Initializer))
		}
	}
	if c := st.CopyCtor; c != nil && c.IsImplicit && len(c.Body.Stmts) == 0 && len(c.Params) == 1 {
		other := c.Params[0]
		for _, m := range members {
			src := &ast.MemberVariableRefExpr{
				ExprBase: ast.ExprBase{ValueType: m.Type},
				Object:   &ast.ImplicitDerefExpr{ExprBase: ast.ExprBase{ValueType: &ast.StructType{Decl: st}}, X: &ast.ParameterRefExpr{ExprBase: ast.ExprBase{ValueType: other.Type}, Decl: other}},
				Decl:     m,
			}
			c.Body.Stmts = append(c.Body.Stmts, memberAssignStmt(self(), m, src))
		}
	}
	if c := st.MoveCtor; c != nil && c.IsImplicit && len(c.Body.Stmts) == 0 && len(c.Params) == 1 {
		other := c.Params[0]
		for _, m := range members {
			src := &ast.MemberVariableRefExpr{
				ExprBase: ast.ExprBase{ValueType: m.Type},
				Object:   &ast.ImplicitDerefExpr{ExprBase: ast.ExprBase{ValueType: &ast.StructType{Decl: st}}, X: &ast.ParameterRefExpr{ExprBase: ast.ExprBase{ValueType: other.Type}, Decl: other}},
				Decl:     m,
			}
			c.Body.Stmts = append(c.Body.Stmts, memberAssignStmt(self(), m, src))
		}
	}
	// The destructor's teardown isn't written into its Body directly: it
	// runs as PreReturnDeferred on every return in it (including the
	// implicit one walkBody appends), computed uniformly by resolveReturn
	// for every destructor regardless of whether it's implicit or
	// user-written.
}

func memberAssignStmt(self ast.Expr, m *ast.VariableDecl, value ast.Expr) ast.Stmt {
	lhs := &ast.MemberVariableRefExpr{ExprBase: ast.ExprBase{ValueType: m.Type}, Object: self, Decl: m}
	return &ast.ExprStmt{X: &ast.AssignmentExpr{ExprBase: ast.ExprBase{ValueType: m.Type}, LHS: lhs, RHS: value}}
}

// dataMembers lists st's own (non-inherited, non-padding) data members, in
// declaration order.
func dataMembers(st *ast.StructDecl) []*ast.VariableDecl {
	var out []*ast.VariableDecl
	for _, m := range st.Members {
		if vd, ok := m.(*ast.VariableDecl); ok && vd.Kind == ast.VarKindMember && !vd.IsPadding {
			out = append(out, vd)
		}
	}
	return out
}

// memberTeardown builds the destructor-call list for a destructor returning
// from st: its own data members in reverse declaration order, then the base
// struct's destructor, mirroring reverse-of-construction order.
func memberTeardown(st *ast.StructDecl) []ast.DestructorCall {
	var out []ast.DestructorCall
	members := dataMembers(st)
	for i := len(members) - 1; i >= 0; i-- {
		m := members[i]
		dtor := destructorOf(m.Type)
		if dtor == nil {
			continue
		}
		out = append(out, ast.DestructorCall{
			Target: &ast.MemberVariableRefExpr{
				ExprBase: ast.ExprBase{ValueType: m.Type},
				Object:   &ast.CurrentSelfExpr{ExprBase: ast.ExprBase{ValueType: &ast.StructType{Decl: st}}},
				Decl:     m,
			},
			Destructor: dtor,
		})
	}
	if st.BaseStruct != nil && st.BaseStruct.Destructor != nil {
		out = append(out, ast.DestructorCall{
			Target:     &ast.CurrentSelfExpr{ExprBase: ast.ExprBase{ValueType: &ast.StructType{Decl: st.BaseStruct}}},
			Destructor: st.BaseStruct.Destructor,
		})
	}
	return out
}
