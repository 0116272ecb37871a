package transform

import "github.com/oxhq/midc/internal/ast"

// walkCompound processes one block: each statement is rewritten in place,
// constructor calls are hoisted into the TemporaryValues of the statement
// that contains them,
// and any local it declares is registered in sc for the blocks that follow
// and for outer exits (return/break/continue/goto) to tear down.
func (tr *Transformer) walkCompound(c *ast.CompoundStmt, sc *tScope) {
	sc.pushBlock()
	defer sc.popBlock()
	for _, st := range c.Stmts {
		tr.walkStmt(st, sc)
	}
}

func (tr *Transformer) walkStmt(st ast.Stmt, sc *tScope) {
	switch v := st.(type) {
	case *ast.ExprStmt:
		v.X = tr.hoistTemporaries(v.X, st.Base(), sc)
		if decl, ok := v.X.(*ast.VariableDeclExpr); ok {
			sc.declareLocal(decl.Decl)
		}
	case *ast.CompoundStmt:
		tr.walkCompound(v, sc)
	case *ast.IfStmt:
		v.Cond = tr.hoistTemporaries(v.Cond, st.Base(), sc)
		tr.walkCompound(v.Then, sc)
		tr.walkElse(v.Else, sc)
	case *ast.WhileStmt:
		v.Cond = tr.hoistTemporaries(v.Cond, st.Base(), sc)
		sc.pushLoop(labelFor(sc, v))
		tr.walkCompound(v.Body, sc)
		sc.popLoop()
	case *ast.DoWhileStmt:
		sc.pushLoop(labelFor(sc, v))
		tr.walkCompound(v.Body, sc)
		sc.popLoop()
		v.Cond = tr.hoistTemporaries(v.Cond, st.Base(), sc)
	case *ast.RepeatWhileStmt:
		sc.pushLoop(labelFor(sc, v))
		sc.pushBlock()
		for _, inner := range v.Body.Stmts {
			tr.walkStmt(inner, sc)
		}
		v.Cond = tr.hoistTemporaries(v.Cond, st.Base(), sc)
		sc.popBlock()
		sc.popLoop()
	case *ast.ForStmt:
		sc.pushBlock()
		if v.Init != nil {
			tr.walkStmt(v.Init, sc)
		}
		if v.Cond != nil {
			v.Cond = tr.hoistTemporaries(v.Cond, st.Base(), sc)
		}
		sc.pushLoop(labelFor(sc, v))
		tr.walkCompound(v.Body, sc)
		if v.Post != nil {
			tr.walkStmt(v.Post, sc)
		}
		sc.popLoop()
		sc.popBlock()
	case *ast.SwitchStmt:
		v.Subject = tr.hoistTemporaries(v.Subject, st.Base(), sc)
		sc.pushLoop(labelFor(sc, v)) // break targets a switch too
		for _, cs := range v.Cases {
			sc.pushBlock()
			for i, val := range cs.Values {
				cs.Values[i] = tr.hoistTemporaries(val, st.Base(), sc)
			}
			for _, inner := range cs.Body {
				tr.walkStmt(inner, sc)
			}
			sc.popBlock()
		}
		sc.popLoop()
	case *ast.DoCatchStmt:
		tr.walkCompound(v.Try, sc)
		for _, cb := range v.Catches {
			sc.pushBlock()
			if cb.Binding != nil {
				sc.declareLocal(cb.Binding)
			}
			for _, inner := range cb.Body.Stmts {
				tr.walkStmt(inner, sc)
			}
			sc.popBlock()
		}
	case *ast.LabeledStmt:
		sc.labels[v.Label] = v
		tr.walkStmt(v.Stmt, sc)
	case *ast.BreakStmt:
		tr.resolveBreak(v, sc)
	case *ast.ContinueStmt:
		tr.resolveContinue(v, sc)
	case *ast.ReturnStmt:
		tr.resolveReturn(v, st.Base(), sc)
	case *ast.GotoStmt:
		tr.resolveGoto(v, sc)
	}
}

func (tr *Transformer) walkElse(e ast.Stmt, sc *tScope) {
	switch v := e.(type) {
	case nil:
	case *ast.CompoundStmt:
		tr.walkCompound(v, sc)
	case *ast.IfStmt:
		tr.walkStmt(v, sc)
	}
}

// labelFor finds the LabeledStmt (if any) that directly wraps loop, so
// break/continue by name can find this frame. Labels were recorded on
// sc.labels as LabeledStmt nodes are walked, keyed by name; this reverse
// lookup is only needed at loop-entry time, when the label has already been
// seen by the enclosing LabeledStmt case above.
func labelFor(sc *tScope, loop ast.Stmt) string {
	for name, ls := range sc.labels {
		if ls.Stmt == loop {
			return name
		}
	}
	return ""
}

// collectLabels registers every label in body before the real walk runs, so
// a goto can jump forward to a label the walk hasn't reached yet.
func collectLabels(body *ast.CompoundStmt, sc *tScope) {
	collectLabelsStmts(body.Stmts, sc)
}

func collectLabelsStmts(stmts []ast.Stmt, sc *tScope) {
	for _, st := range stmts {
		collectLabelsStmt(st, sc)
	}
}

func collectLabelsStmt(st ast.Stmt, sc *tScope) {
	switch v := st.(type) {
	case *ast.LabeledStmt:
		sc.labels[v.Label] = v
		collectLabelsStmt(v.Stmt, sc)
	case *ast.CompoundStmt:
		collectLabelsStmts(v.Stmts, sc)
	case *ast.IfStmt:
		collectLabelsStmts(v.Then.Stmts, sc)
		if v.Else != nil {
			collectLabelsStmt(v.Else, sc)
		}
	case *ast.WhileStmt:
		collectLabelsStmts(v.Body.Stmts, sc)
	case *ast.DoWhileStmt:
		collectLabelsStmts(v.Body.Stmts, sc)
	case *ast.RepeatWhileStmt:
		collectLabelsStmts(v.Body.Stmts, sc)
	case *ast.ForStmt:
		collectLabelsStmts(v.Body.Stmts, sc)
	case *ast.SwitchStmt:
		for _, cs := range v.Cases {
			collectLabelsStmts(cs.Body, sc)
		}
	case *ast.DoCatchStmt:
		collectLabelsStmts(v.Try.Stmts, sc)
		for _, cb := range v.Catches {
			collectLabelsStmts(cb.Body.Stmts, sc)
		}
	}
}
