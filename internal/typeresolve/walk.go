package typeresolve

import "github.com/oxhq/midc/internal/ast"

// walkCompound resolves every statement in c in place.
func (r *Resolver) walkCompound(c *ast.CompoundStmt, scope *Scope) {
	if c == nil {
		return
	}
	for i, s := range c.Stmts {
		c.Stmts[i] = r.walkStmt(s, scope)
	}
}

func (r *Resolver) walkStmts(stmts []ast.Stmt, scope *Scope) []ast.Stmt {
	for i, s := range stmts {
		stmts[i] = r.walkStmt(s, scope)
	}
	return stmts
}

func (r *Resolver) walkStmt(s ast.Stmt, scope *Scope) ast.Stmt {
	if s == nil {
		return nil
	}
	switch v := s.(type) {
	case *ast.CompoundStmt:
		r.walkCompound(v, scope)
	case *ast.ExprStmt:
		v.X = r.walkExpr(v.X, scope)
	case *ast.ReturnStmt:
		v.Value = r.walkExpr(v.Value, scope)
	case *ast.LabeledStmt:
		v.Stmt = r.walkStmt(v.Stmt, scope)
	case *ast.IfStmt:
		v.Cond = r.walkExpr(v.Cond, scope)
		r.walkCompound(v.Then, scope)
		v.Else = r.walkStmt(v.Else, scope)
	case *ast.WhileStmt:
		v.Cond = r.walkExpr(v.Cond, scope)
		r.walkCompound(v.Body, scope)
	case *ast.DoWhileStmt:
		r.walkCompound(v.Body, scope)
		v.Cond = r.walkExpr(v.Cond, scope)
	case *ast.RepeatWhileStmt:
		r.walkCompound(v.Body, scope)
		v.Cond = r.walkExpr(v.Cond, scope)
	case *ast.ForStmt:
		v.Init = r.walkStmt(v.Init, scope)
		v.Cond = r.walkExpr(v.Cond, scope)
		v.Post = r.walkStmt(v.Post, scope)
		r.walkCompound(v.Body, scope)
	case *ast.CaseStmt:
		for i, val := range v.Values {
			v.Values[i] = r.walkExpr(val, scope)
		}
		r.walkStmts(v.Body, scope)
	case *ast.SwitchStmt:
		v.Subject = r.walkExpr(v.Subject, scope)
		for _, c := range v.Cases {
			r.walkStmt(c, scope)
		}
	case *ast.DoCatchStmt:
		r.walkCompound(v.Try, scope)
		for _, c := range v.Catches {
			c.ExceptionType = r.resolveType(c.ExceptionType, scope)
			if c.Binding != nil {
				c.Binding.Type = r.resolveType(c.Binding.Type, scope)
			}
			r.walkCompound(c.Body, scope)
		}
	case *ast.BreakStmt, *ast.ContinueStmt, *ast.FallthroughStmt, *ast.GotoStmt:
		// no Type/Expr fields to resolve
	}
	return s
}

// walkExpr resolves every Type reference reachable from e and rewrites the
// two parser artifacts this pass owns: PotentialExplicitCastExpr
// becomes AsExpr once its text names a resolvable type, and
// LocalVariableDeclOrPrefixOperatorCallExpr becomes a VariableDeclExpr or a
// PrefixExpr once its leading name is known to bind a new local or an
// existing one.
func (r *Resolver) walkExpr(e ast.Expr, scope *Scope) ast.Expr {
	if e == nil {
		return nil
	}
	switch v := e.(type) {
	case *ast.TypeExpr:
		v.Referenced = r.resolveType(v.Referenced, scope)
	case *ast.ArrayLiteralExpr:
		for i, el := range v.Elements {
			v.Elements[i] = r.walkExpr(el, scope)
		}
	case *ast.FunctionCallExpr:
		v.Callee = r.walkExpr(v.Callee, scope)
		for i, a := range v.Args {
			v.Args[i] = r.walkExpr(a, scope)
		}
	case *ast.SubscriptCallExpr:
		v.Callee = r.walkExpr(v.Callee, scope)
		for i, a := range v.Index {
			v.Index[i] = r.walkExpr(a, scope)
		}
	case *ast.PrefixExpr:
		v.Operand = r.walkExpr(v.Operand, scope)
	case *ast.PostfixExpr:
		v.Operand = r.walkExpr(v.Operand, scope)
	case *ast.InfixExpr:
		v.LHS = r.walkExpr(v.LHS, scope)
		v.RHS = r.walkExpr(v.RHS, scope)
	case *ast.AssignmentExpr:
		v.LHS = r.walkExpr(v.LHS, scope)
		v.RHS = r.walkExpr(v.RHS, scope)
	case *ast.ImplicitCastExpr:
		v.X = r.walkExpr(v.X, scope)
		v.To = r.resolveType(v.To, scope)
	case *ast.AsExpr:
		v.X = r.walkExpr(v.X, scope)
		v.To = r.resolveType(v.To, scope)
	case *ast.AsOptionalExpr:
		v.X = r.walkExpr(v.X, scope)
		v.To = r.resolveType(v.To, scope)
	case *ast.AsForceExpr:
		v.X = r.walkExpr(v.X, scope)
		v.To = r.resolveType(v.To, scope)
	case *ast.RefExpr:
		v.X = r.walkExpr(v.X, scope)
	case *ast.ImplicitDerefExpr:
		v.X = r.walkExpr(v.X, scope)
	case *ast.LValueToRValueExpr:
		v.X = r.walkExpr(v.X, scope)
	case *ast.RValueToInRefExpr:
		v.X = r.walkExpr(v.X, scope)
	case *ast.TernaryExpr:
		v.Cond = r.walkExpr(v.Cond, scope)
		v.Then = r.walkExpr(v.Then, scope)
		v.Else = r.walkExpr(v.Else, scope)
	case *ast.TryExpr:
		v.X = r.walkExpr(v.X, scope)
	case *ast.ParenExpr:
		v.X = r.walkExpr(v.X, scope)
	case *ast.LabeledArgumentExpr:
		v.X = r.walkExpr(v.X, scope)
	case *ast.CheckExtendsTypeExpr:
		v.Subject = r.resolveType(v.Subject, scope)
		v.Base = r.resolveType(v.Base, scope)
	case *ast.IsExpr:
		v.X = r.walkExpr(v.X, scope)
		v.Type = r.resolveType(v.Type, scope)
	case *ast.HasExpr:
		v.X = r.walkExpr(v.X, scope)
	case *ast.VariableDeclExpr:
		if v.Decl != nil {
			v.Decl.Type = r.resolveType(v.Decl.Type, scope)
			v.Decl.Initializer = r.walkExpr(v.Decl.Initializer, scope)
		}
	case *ast.PotentialExplicitCastExpr:
		return r.rewritePotentialCast(v, scope)
	case *ast.LocalVariableDeclOrPrefixOperatorCallExpr:
		return r.rewriteLocalDeclOrPrefix(v, scope)
	}
	return e
}

func (r *Resolver) rewritePotentialCast(v *ast.PotentialExplicitCastExpr, scope *Scope) ast.Expr {
	x := r.walkExpr(v.X, scope)

	if ast.IsBuiltInName(v.TypeText) || v.TypeText == "usize" || v.TypeText == "isize" {
		to := r.resolveUnresolved(&ast.UnresolvedType{TypeBase: ast.TypeBase{}, Name: v.TypeText}, scope)
		return &ast.AsExpr{ExprBase: v.ExprBase, X: x, To: to}
	}
	if candidates := scope.LookupAll(v.TypeText); len(candidates) > 0 {
		isType := false
		for _, c := range candidates {
			switch c.(type) {
			case *ast.StructDecl, *ast.TraitDecl, *ast.EnumDecl, *ast.TypeAliasDecl,
				*ast.TemplateStructDecl, *ast.TemplateTraitDecl:
				isType = true
			}
		}
		if isType {
			to := r.resolveUnresolved(&ast.UnresolvedType{TypeBase: ast.TypeBase{}, Name: v.TypeText}, scope)
			return &ast.AsExpr{ExprBase: v.ExprBase, X: x, To: to}
		}
	}

	// Not a type: this was `T(x)`-shaped call syntax on a value/function
	// named TypeText, left for C7 to resolve the callee identifier.
	return &ast.FunctionCallExpr{
		ExprBase: v.ExprBase,
		Callee:   &ast.IdentifierExpr{ExprBase: v.ExprBase, Name: v.TypeText},
		Args:     []ast.Expr{x},
	}
}

func (r *Resolver) rewriteLocalDeclOrPrefix(v *ast.LocalVariableDeclOrPrefixOperatorCallExpr, scope *Scope) ast.Expr {
	x := r.walkExpr(v.X, scope)

	if existing, ok := scope.Lookup(v.Name); ok {
		return &ast.PrefixExpr{ExprBase: v.ExprBase, Op: v.Op, Operand: referenceFor(existing, v.ExprBase)}
	}

	local := &ast.VariableDecl{Kind: ast.VarKindLocal, Initializer: x}
	local.Ident = ast.Identifier{Name: v.Name}
	return &ast.VariableDeclExpr{ExprBase: v.ExprBase, Decl: local}
}

// referenceFor builds the resolved-reference expression matching decl's
// kind, mirroring the shapes C7 normally produces so downstream passes see
// a consistent node even for this C5-level rewrite.
func referenceFor(decl ast.Decl, base ast.ExprBase) ast.Expr {
	switch d := decl.(type) {
	case *ast.VariableDecl:
		if d.Kind == ast.VarKindLocal {
			return &ast.LocalVariableRefExpr{ExprBase: base, Decl: d}
		}
		return &ast.VariableRefExpr{ExprBase: base, Decl: d}
	case *ast.ParameterDecl:
		return &ast.ParameterRefExpr{ExprBase: base, Decl: d}
	default:
		return &ast.IdentifierExpr{ExprBase: base, Name: decl.Base().Ident.Name}
	}
}
