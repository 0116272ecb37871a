package transform

import (
	"strconv"

	"github.com/oxhq/midc/internal/ast"
)

// hoistTemporaries implements temporary capture: a constructor call
// bound directly to a `let` or a plain assignment constructs straight into
// that variable (ObjectRef names it, no temporary needed); every other
// constructor call — a call argument, an operand, a subscript index, ... —
// gets a fresh local temporary recorded on stmtBase.TemporaryValues, torn
// down in reverse creation order at the end of the statement that owns it.
func (tr *Transformer) hoistTemporaries(e ast.Expr, stmtBase *ast.StmtBase, sc *tScope) ast.Expr {
	switch v := e.(type) {
	case nil:
		return nil

	case *ast.VariableDeclExpr:
		if v.Decl.Initializer != nil {
			v.Decl.Initializer = tr.hoistBoundInit(v.Decl.Initializer, &ast.LocalVariableRefExpr{
				ExprBase: ast.ExprBase{Pos: v.Pos, ValueType: v.Decl.Type},
				Decl:     v.Decl,
			}, stmtBase, sc)
		}
		return v

	case *ast.AssignmentExpr:
		v.LHS = tr.hoistTemporaries(v.LHS, stmtBase, sc)
		if isSimpleAssignTarget(v.LHS) {
			v.RHS = tr.hoistBoundInit(v.RHS, v.LHS, stmtBase, sc)
		} else {
			v.RHS = tr.hoistTemporaries(v.RHS, stmtBase, sc)
		}
		return v

	case *ast.ConstructorCallExpr:
		tr.hoistArgs(v.Args, stmtBase, sc)
		return tr.captureTemporary(v, stmtBase)

	case *ast.ArrayLiteralExpr:
		tr.hoistArgs(v.Elements, stmtBase, sc)
		return v
	case *ast.FunctionCallExpr:
		v.Callee = tr.hoistTemporaries(v.Callee, stmtBase, sc)
		tr.hoistArgs(v.Args, stmtBase, sc)
		return v
	case *ast.MemberFunctionCallExpr:
		v.Object = tr.hoistTemporaries(v.Object, stmtBase, sc)
		tr.hoistArgs(v.Args, stmtBase, sc)
		if sc.inCtorOrDtor && isSelfObject(v.Object) {
			// A call on self from inside the ctor/dtor that owns it
			// is never virtually dispatched — the vtable isn't settled yet.
			v.IsVirtualDispatch = false
		}
		return v
	case *ast.MemberSubscriptCallExpr:
		v.Object = tr.hoistTemporaries(v.Object, stmtBase, sc)
		tr.hoistArgs(v.Index, stmtBase, sc)
		return v
	case *ast.PropertyGetCallExpr:
		v.Object = tr.hoistTemporaries(v.Object, stmtBase, sc)
		return v
	case *ast.PropertySetCallExpr:
		v.Object = tr.hoistTemporaries(v.Object, stmtBase, sc)
		v.Value = tr.hoistTemporaries(v.Value, stmtBase, sc)
		return v
	case *ast.SubscriptOperatorGetCallExpr:
		v.Object = tr.hoistTemporaries(v.Object, stmtBase, sc)
		tr.hoistArgs(v.Index, stmtBase, sc)
		return v
	case *ast.SubscriptOperatorSetCallExpr:
		v.Object = tr.hoistTemporaries(v.Object, stmtBase, sc)
		tr.hoistArgs(v.Index, stmtBase, sc)
		v.Value = tr.hoistTemporaries(v.Value, stmtBase, sc)
		return v
	case *ast.PrefixExpr:
		v.Operand = tr.hoistTemporaries(v.Operand, stmtBase, sc)
		return v
	case *ast.PostfixExpr:
		v.Operand = tr.hoistTemporaries(v.Operand, stmtBase, sc)
		return v
	case *ast.InfixExpr:
		v.LHS = tr.hoistTemporaries(v.LHS, stmtBase, sc)
		v.RHS = tr.hoistTemporaries(v.RHS, stmtBase, sc)
		return v
	case *ast.MemberPrefixExpr:
		v.Object = tr.hoistTemporaries(v.Object, stmtBase, sc)
		return v
	case *ast.MemberPostfixExpr:
		v.Object = tr.hoistTemporaries(v.Object, stmtBase, sc)
		return v
	case *ast.MemberInfixExpr:
		v.Object = tr.hoistTemporaries(v.Object, stmtBase, sc)
		v.RHS = tr.hoistTemporaries(v.RHS, stmtBase, sc)
		return v
	case *ast.TernaryExpr:
		v.Cond = tr.hoistTemporaries(v.Cond, stmtBase, sc)
		v.Then = tr.hoistTemporaries(v.Then, stmtBase, sc)
		v.Else = tr.hoistTemporaries(v.Else, stmtBase, sc)
		return v
	case *ast.TryExpr:
		v.X = tr.hoistTemporaries(v.X, stmtBase, sc)
		return v
	case *ast.ParenExpr:
		v.X = tr.hoistTemporaries(v.X, stmtBase, sc)
		return v
	case *ast.LabeledArgumentExpr:
		v.X = tr.hoistTemporaries(v.X, stmtBase, sc)
		return v
	case *ast.ImplicitCastExpr:
		v.X = tr.hoistTemporaries(v.X, stmtBase, sc)
		return v
	case *ast.ImplicitDerefExpr:
		v.X = tr.hoistTemporaries(v.X, stmtBase, sc)
		return v
	case *ast.LValueToRValueExpr:
		v.X = tr.hoistTemporaries(v.X, stmtBase, sc)
		return v
	case *ast.RValueToInRefExpr:
		v.X = tr.hoistTemporaries(v.X, stmtBase, sc)
		return v
	case *ast.RefExpr:
		v.X = tr.hoistTemporaries(v.X, stmtBase, sc)
		return v
	case *ast.AsExpr:
		v.X = tr.hoistTemporaries(v.X, stmtBase, sc)
		return v
	case *ast.AsOptionalExpr:
		v.X = tr.hoistTemporaries(v.X, stmtBase, sc)
		return v
	case *ast.AsForceExpr:
		v.X = tr.hoistTemporaries(v.X, stmtBase, sc)
		return v
	case *ast.IsExpr:
		v.X = tr.hoistTemporaries(v.X, stmtBase, sc)
		return v
	case *ast.HasExpr:
		v.X = tr.hoistTemporaries(v.X, stmtBase, sc)
		return v

	default:
		return e
	}
}

func (tr *Transformer) hoistArgs(args []ast.Expr, stmtBase *ast.StmtBase, sc *tScope) {
	for i, a := range args {
		args[i] = tr.hoistTemporaries(a, stmtBase, sc)
	}
}

// hoistBoundInit processes a value directly bound to target (a `let`
// initializer or a plain assignment's right-hand side): a bare constructor
// call there constructs straight into target rather than a temporary.
func (tr *Transformer) hoistBoundInit(e ast.Expr, target ast.Expr, stmtBase *ast.StmtBase, sc *tScope) ast.Expr {
	if ctor, ok := e.(*ast.ConstructorCallExpr); ok {
		tr.hoistArgs(ctor.Args, stmtBase, sc)
		ctor.ObjectRef = target
		return ctor
	}
	return tr.hoistTemporaries(e, stmtBase, sc)
}

// captureTemporary materializes ctor's result into a fresh local temporary
// when it appears somewhere other than a direct binding, replacing its
// occurrence with a reference to that temporary.
func (tr *Transformer) captureTemporary(ctor *ast.ConstructorCallExpr, stmtBase *ast.StmtBase) ast.Expr {
	tr.temps++
	decl := &ast.VariableDecl{
		Kind: ast.VarKindLocal,
		Type: ctor.ValueType,
	}
	decl.Ident = ast.Identifier{Name: tempName(tr.temps)}
	decl.Initializer = ctor
	ctor.ObjectRef = &ast.TemporaryValueRefExpr{ExprBase: ast.ExprBase{Pos: ctor.Pos, ValueType: ctor.ValueType}, Decl: decl}
	stmtBase.TemporaryValues = append(stmtBase.TemporaryValues, decl)
	return &ast.TemporaryValueRefExpr{ExprBase: ast.ExprBase{Pos: ctor.Pos, ValueType: ctor.ValueType}, Decl: decl}
}

func tempName(n int) string {
	return "$t" + strconv.Itoa(n)
}

// isSelfObject reports whether e, after stripping the wrappers codeprocess
// inserts around an lvalue (deref, ref-taking, lvalue-to-rvalue), is a bare
// reference to self.
func isSelfObject(e ast.Expr) bool {
	for {
		switch v := e.(type) {
		case *ast.CurrentSelfExpr:
			return true
		case *ast.ImplicitDerefExpr:
			e = v.X
		case *ast.RefExpr:
			e = v.X
		case *ast.LValueToRValueExpr:
			e = v.X
		default:
			return false
		}
	}
}

func isSimpleAssignTarget(e ast.Expr) bool {
	switch e.(type) {
	case *ast.LocalVariableRefExpr, *ast.ParameterRefExpr, *ast.MemberVariableRefExpr, *ast.VariableRefExpr:
		return true
	default:
		return false
	}
}
