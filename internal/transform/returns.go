package transform

import (
	"github.com/oxhq/midc/internal/ast"
	"github.com/oxhq/midc/internal/diag"
)

// stmtsTerminate reports whether every path through stmts definitely leaves
// the block — by returning, jumping, or breaking/continuing out of it —
// rather than falling off the end. Loops are treated conservatively as
// never guaranteed to run their body, matching a typical "missing return"
// check rather than proving termination.
func stmtsTerminate(stmts []ast.Stmt) bool {
	if len(stmts) == 0 {
		return false
	}
	return terminates(stmts[len(stmts)-1])
}

func terminates(st ast.Stmt) bool {
	switch v := st.(type) {
	case *ast.ReturnStmt, *ast.GotoStmt, *ast.BreakStmt, *ast.ContinueStmt, *ast.FallthroughStmt:
		return true
	case *ast.CompoundStmt:
		return stmtsTerminate(v.Stmts)
	case *ast.IfStmt:
		if v.Else == nil {
			return false
		}
		return stmtsTerminate(v.Then.Stmts) && terminates(v.Else)
	case *ast.SwitchStmt:
		hasDefault := false
		for _, c := range v.Cases {
			if len(c.Values) == 0 {
				hasDefault = true
			}
			if !stmtsTerminate(c.Body) {
				return false
			}
		}
		return hasDefault
	case *ast.DoCatchStmt:
		if !stmtsTerminate(v.Try.Stmts) {
			return false
		}
		for _, c := range v.Catches {
			if !stmtsTerminate(c.Body.Stmts) {
				return false
			}
		}
		return true
	case *ast.LabeledStmt:
		return terminates(v.Stmt)
	default:
		return false
	}
}

// walkBody resolves every statement in body (declared in sc's context, the
// way walkCompound does for any nested block), then — for the function/
// method/operator/accessor body as a whole, not an inner block — completes
// the control flow: a void body missing a trailing return gets one
// synthesized (IsImplicit), a non-void body missing one is a diagnostic.
func (tr *Transformer) walkBody(body *ast.CompoundStmt, result ast.Type, name string, sc *tScope) {
	if body == nil {
		return
	}
	collectLabels(body, sc)
	sc.pushBlock()
	for _, st := range body.Stmts {
		tr.walkStmt(st, sc)
	}
	if !stmtsTerminate(body.Stmts) {
		if result == nil {
			ret := &ast.ReturnStmt{IsImplicit: true}
			tr.resolveReturn(ret, ret.Base(), sc)
			body.Stmts = append(body.Stmts, ret)
		} else {
			tr.sink.Error(diag.New(diag.KindControlFlow, "", body.Pos, "%q does not return a value on every path", name))
		}
	}
	sc.popBlock()
}
