package codeprocess

import (
	"github.com/oxhq/midc/internal/ast"
	"github.com/oxhq/midc/internal/contract"
	"github.com/oxhq/midc/internal/diag"
)

var comparisonOps = map[string]bool{
	"==": true, "!=": true, "<": true, ">": true, "<=": true, ">=": true,
}

var logicalOps = map[string]bool{"&&": true, "||": true}

func isCompoundAssignOp(op string) bool {
	switch op {
	case "=", "==", "!=", "<=", ">=":
		return false
	}
	return len(op) > 1 && op[len(op)-1] == '='
}

// desugarCompoundAssign rewrites `x OP= y` into `x = (x OP y)`, with
// LHS evaluated exactly once via a shared expression node between the outer
// assignment and the inner operator application.
func (p *Processor) desugarCompoundAssign(v *ast.InfixExpr, sc *scope) ast.Expr {
	lhs := p.walkLValue(v.LHS, sc)
	baseOp := v.Op[:len(v.Op)-1]
	inner := &ast.InfixExpr{ExprBase: ast.ExprBase{Pos: v.Pos}, Op: baseOp, LHS: lhs, RHS: v.RHS}
	resolvedInner := p.resolveInfix(inner, sc)
	assign := &ast.AssignmentExpr{ExprBase: ast.ExprBase{Pos: v.Pos}, LHS: lhs, RHS: resolvedInner}
	return p.resolveAssignment(assign, sc)
}

func (p *Processor) rvalue(e ast.Expr) ast.Expr {
	if e.Base().IsLValue() {
		return &ast.LValueToRValueExpr{ExprBase: withType(e.Base().Pos, e.Base().ValueType, false), X: e}
	}
	return e
}

func isBuiltInType(t ast.Type) bool {
	_, ok := t.(*ast.BuiltInType)
	return ok
}

func builtInInfixResult(op string, lt *ast.BuiltInType) ast.Type {
	if comparisonOps[op] || logicalOps[op] {
		return &ast.BuiltInType{Name: "bool", SizeBits: 8}
	}
	return lt
}

// resolveInfix implements the operator dispatch: built-in arithmetic for
// BuiltIn×BuiltIn and pointer arithmetic, otherwise extension-method lookup
// on the LHS type (member-style, 1 explicit param) falling back to a
// free/extension 2-param OperatorDecl declared in scope.
func (p *Processor) resolveInfix(v *ast.InfixExpr, sc *scope) ast.Expr {
	if isCompoundAssignOp(v.Op) {
		return p.desugarCompoundAssign(v, sc)
	}

	lhs := p.walkExpr(v.LHS, sc)
	rhs := p.walkExpr(v.RHS, sc)
	lt := derefType(lhs.Base().ValueType)
	rt := derefType(rhs.Base().ValueType)

	if isBuiltInType(lt) && isBuiltInType(rt) {
		v.LHS, v.RHS = p.rvalue(lhs), p.rvalue(rhs)
		v.ValueType = builtInInfixResult(v.Op, lt.(*ast.BuiltInType))
		return v
	}

	if res, ok := p.pointerArithResult(v.Op, lt, rt); ok {
		v.LHS, v.RHS = p.rvalue(lhs), p.rvalue(rhs)
		v.ValueType = res
		return v
	}

	if st, ok := lt.(*ast.StructType); ok {
		if op := findMemberOperator(st, ast.OperatorInfix, v.Op); op != nil {
			rhsB := p.bridgeArg(rhs, op.Params[0].Type, op.Params[0].IsIn)
			return &ast.MemberInfixExpr{ExprBase: withType(v.Pos, op.Result, false), Object: lhs, Op: v.Op, RHS: rhsB, Decl: op}
		}
	}

	if op := p.findFreeOperator(ast.OperatorInfix, v.Op, lt, sc); op != nil {
		args, _ := p.bridgeArgs([]ast.Expr{lhs, rhs}, []string{"", ""}, op.Params, sc)
		return &ast.InfixExpr{ExprBase: withType(v.Pos, op.Result, false), Op: v.Op, LHS: args[0], RHS: args[1], Decl: op}
	}

	p.sink.Error(diag.New(diag.KindType, "", v.Pos, "no operator %q for these operand types", v.Op))
	v.LHS, v.RHS = lhs, rhs
	return v
}

func (p *Processor) pointerArithResult(op string, lt, rt ast.Type) (ast.Type, bool) {
	lp, lok := lt.(*ast.PointerType)
	rp, rok := rt.(*ast.PointerType)
	switch {
	case lok && !rok && isBuiltInType(rt) && (op == "+" || op == "-"):
		return valueType(lp, false), true
	case lok && rok && op == "-":
		return valueType(&ast.BuiltInType{Name: "isize", Signed: true, SizeBits: p.target.SizeofIsize()}, false), true
	default:
		return nil, false
	}
}

func (p *Processor) resolvePrefix(v *ast.PrefixExpr, sc *scope) ast.Expr {
	operand := p.walkExpr(v.Operand, sc)
	t := derefType(operand.Base().ValueType)

	if st, ok := t.(*ast.StructType); ok {
		if op := findMemberOperator(st, ast.OperatorPrefix, v.Op); op != nil {
			return &ast.MemberPrefixExpr{ExprBase: withType(v.Pos, op.Result, false), Object: operand, Op: v.Op, Decl: op}
		}
	}
	if op := p.findFreeOperator(ast.OperatorPrefix, v.Op, t, sc); op != nil {
		args, _ := p.bridgeArgs([]ast.Expr{operand}, []string{""}, op.Params, sc)
		return &ast.PrefixExpr{ExprBase: withType(v.Pos, op.Result, false), Op: v.Op, Operand: args[0], Decl: op}
	}

	v.Operand = p.rvalue(operand)
	v.ValueType = operand.Base().ValueType
	return v
}

func (p *Processor) resolvePostfix(v *ast.PostfixExpr, sc *scope) ast.Expr {
	operand := p.walkExpr(v.Operand, sc)
	t := derefType(operand.Base().ValueType)

	if st, ok := t.(*ast.StructType); ok {
		if op := findMemberOperator(st, ast.OperatorPostfix, v.Op); op != nil {
			return &ast.MemberPostfixExpr{ExprBase: withType(v.Pos, op.Result, false), Object: operand, Op: v.Op, Decl: op}
		}
	}
	if op := p.findFreeOperator(ast.OperatorPostfix, v.Op, t, sc); op != nil {
		args, _ := p.bridgeArgs([]ast.Expr{operand}, []string{""}, op.Params, sc)
		return &ast.PostfixExpr{ExprBase: withType(v.Pos, op.Result, false), Op: v.Op, Operand: args[0], Decl: op}
	}

	v.Operand = operand
	v.ValueType = operand.Base().ValueType
	return v
}

func findMemberOperator(t ast.Type, fixity ast.OperatorFixity, symbol string) *ast.OperatorDecl {
	for _, m := range contract.Members(t) {
		if od, ok := m.(*ast.OperatorDecl); ok && od.Fixity == fixity && od.Symbol == symbol {
			return od
		}
	}
	return nil
}

// findFreeOperator looks up a free/extension-declared operator whose first
// parameter accepts lt, among every OperatorDecl named "operator"+symbol
// (the name the parser gives it) reachable from sc's outer scope chain.
func (p *Processor) findFreeOperator(fixity ast.OperatorFixity, symbol string, lt ast.Type, sc *scope) *ast.OperatorDecl {
	for _, d := range sc.outer.LookupAll("operator" + symbol) {
		od, ok := d.(*ast.OperatorDecl)
		if !ok || od.Fixity != fixity || od.Symbol != symbol || len(od.Params) == 0 {
			continue
		}
		pt := derefType(od.Params[0].Type)
		if lt != nil && (ast.UnqualifiedTypeEqual(lt, pt) || isCastable(lt, pt)) {
			return od
		}
	}
	return nil
}
