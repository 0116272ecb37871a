package source

import "github.com/oxhq/midc/internal/ast"

func (p *parser) parseCompoundStmt() *ast.CompoundStmt {
	open := p.expect(LBrace)
	var stmts []ast.Stmt
	for !p.at(RBrace) && !p.at(EOF) && !p.failed {
		stmts = append(stmts, p.parseStmt())
	}
	p.expect(RBrace)
	return &ast.CompoundStmt{StmtBase: ast.StmtBase{Pos: p.spanFrom(open.Pos.Start)}, Stmts: stmts}
}

func (p *parser) parseStmt() ast.Stmt {
	switch p.cur.Kind {
	case LBrace:
		return p.parseCompoundStmt()
	case KwLet, KwVar:
		return p.parseLocalVarStmt()
	case KwIf:
		return p.parseIfStmt()
	case KwWhile:
		return p.parseWhileStmt()
	case KwDo:
		if p.next.Kind == LBrace {
			return p.parseDoWhileOrDoCatch()
		}
	case KwRepeat:
		return p.parseRepeatWhileStmt()
	case KwFor:
		return p.parseForStmt()
	case KwSwitch:
		return p.parseSwitchStmt()
	case KwBreak:
		return p.parseBreakStmt()
	case KwContinue:
		return p.parseContinueStmt()
	case KwFallthrough:
		t := p.advance()
		p.expect(Semi)
		return &ast.FallthroughStmt{StmtBase: ast.StmtBase{Pos: t.Pos}}
	case KwReturn:
		return p.parseReturnStmt()
	case KwGoto:
		return p.parseGotoStmt()
	}
	if p.at(Ident) && p.next.Kind == Colon {
		return p.parseLabeledStmt()
	}
	return p.parseSimpleStmt()
}

// parseSimpleStmt parses a bare expression statement, special-casing the
// `*name = x` / `&name = x` ambiguity documented on
// LocalVariableDeclOrPrefixOperatorCallExpr (ast/expr.go): at statement
// head only, a sigil applied to a bare name directly followed by `=` can't
// be told apart from an elided local declaration until the name is looked
// up against scope, which is typeresolve's (C5) job.
func (p *parser) parseSimpleStmt() ast.Stmt {
	if (p.at(Star) || p.at(Amp)) && p.next.Kind == Ident {
		snap := p.snapshot()
		sigil := p.advance()
		name := p.advance()
		if p.at(Assign) {
			p.advance()
			x := p.parseExpr()
			p.expect(Semi)
			expr := &ast.LocalVariableDeclOrPrefixOperatorCallExpr{
				ExprBase: p.base(sigil.Pos), Name: name.Text, Op: sigil.Text, X: x,
			}
			return &ast.ExprStmt{StmtBase: ast.StmtBase{Pos: sigil.Pos}, X: expr}
		}
		p.restore(snap)
	}

	start := p.cur.Pos
	x := p.parseExpr()
	p.expect(Semi)
	return &ast.ExprStmt{StmtBase: ast.StmtBase{Pos: p.spanFrom(start.Start)}, X: x}
}

// parseLocalVarStmt parses an explicit `let`/`var` binding into an ExprStmt
// wrapping a VariableDeclExpr, the same shape typeresolve's C5 rewrite
// produces for the elided form (walk.go's rewriteLocalDeclOrPrefix).
func (p *parser) parseLocalVarStmt() ast.Stmt {
	start := p.cur.Pos
	p.advance() // 'let' or 'var'
	name := p.ident()
	var typ ast.Type
	if p.at(Colon) {
		p.advance()
		typ = p.parseType()
	}
	var init ast.Expr
	if _, ok := p.accept(Assign); ok {
		init = p.parseExpr()
	}
	p.expect(Semi)

	decl := &ast.VariableDecl{Kind: ast.VarKindLocal, Type: typ, Initializer: init}
	decl.Ident = name
	return &ast.ExprStmt{
		StmtBase: ast.StmtBase{Pos: p.spanFrom(start.Start)},
		X:        &ast.VariableDeclExpr{ExprBase: p.base(start), Decl: decl},
	}
}

func (p *parser) parseIfStmt() ast.Stmt {
	start := p.expect(KwIf).Pos
	cond := p.parseExpr()
	then := p.parseCompoundStmt()
	var els ast.Stmt
	if _, ok := p.accept(KwElse); ok {
		if p.at(KwIf) {
			els = p.parseIfStmt()
		} else {
			els = p.parseCompoundStmt()
		}
	}
	return &ast.IfStmt{StmtBase: ast.StmtBase{Pos: p.spanFrom(start.Start)}, Cond: cond, Then: then, Else: els}
}

func (p *parser) parseWhileStmt() ast.Stmt {
	start := p.expect(KwWhile).Pos
	cond := p.parseExpr()
	body := p.parseCompoundStmt()
	return &ast.WhileStmt{StmtBase: ast.StmtBase{Pos: p.spanFrom(start.Start)}, Cond: cond, Body: body}
}

// parseDoWhileOrDoCatch disambiguates `do { ... } while cond;` from
// `do { ... } catch ... `, which only differ after the try block closes.
func (p *parser) parseDoWhileOrDoCatch() ast.Stmt {
	start := p.expect(KwDo).Pos
	body := p.parseCompoundStmt()
	if p.at(KwCatch) {
		var catches []*ast.CatchStmt
		for p.at(KwCatch) {
			catches = append(catches, p.parseCatchStmt())
		}
		return &ast.DoCatchStmt{StmtBase: ast.StmtBase{Pos: p.spanFrom(start.Start)}, Try: body, Catches: catches}
	}
	p.expect(KwWhile)
	cond := p.parseExpr()
	p.expect(Semi)
	return &ast.DoWhileStmt{StmtBase: ast.StmtBase{Pos: p.spanFrom(start.Start)}, Body: body, Cond: cond}
}

func (p *parser) parseCatchStmt() *ast.CatchStmt {
	start := p.expect(KwCatch).Pos
	var typ ast.Type
	var binding *ast.VariableDecl
	if p.at(Ident) {
		name := p.ident()
		binding = &ast.VariableDecl{Kind: ast.VarKindLocal}
		binding.Ident = name
		if p.at(Colon) {
			p.advance()
			typ = p.parseType()
			binding.Type = typ
		}
	}
	body := p.parseCompoundStmt()
	return &ast.CatchStmt{StmtBase: ast.StmtBase{Pos: p.spanFrom(start.Start)}, ExceptionType: typ, Binding: binding, Body: body}
}

func (p *parser) parseRepeatWhileStmt() ast.Stmt {
	start := p.expect(KwRepeat).Pos
	body := p.parseCompoundStmt()
	p.expect(KwWhile)
	cond := p.parseExpr()
	p.expect(Semi)
	return &ast.RepeatWhileStmt{StmtBase: ast.StmtBase{Pos: p.spanFrom(start.Start)}, Body: body, Cond: cond}
}

func (p *parser) parseForStmt() ast.Stmt {
	start := p.expect(KwFor).Pos
	p.expect(LParen)
	var init ast.Stmt
	if !p.at(Semi) {
		if p.at(KwLet) || p.at(KwVar) {
			init = p.parseLocalVarStmtNoSemi()
		} else {
			x := p.parseExpr()
			init = &ast.ExprStmt{StmtBase: ast.StmtBase{Pos: x.Base().Pos}, X: x}
		}
	}
	p.expect(Semi)
	var cond ast.Expr
	if !p.at(Semi) {
		cond = p.parseExpr()
	}
	p.expect(Semi)
	var post ast.Stmt
	if !p.at(RParen) {
		x := p.parseExpr()
		post = &ast.ExprStmt{StmtBase: ast.StmtBase{Pos: x.Base().Pos}, X: x}
	}
	p.expect(RParen)
	body := p.parseCompoundStmt()
	return &ast.ForStmt{StmtBase: ast.StmtBase{Pos: p.spanFrom(start.Start)}, Init: init, Cond: cond, Post: post, Body: body}
}

// parseLocalVarStmtNoSemi is parseLocalVarStmt without the trailing
// semicolon a for-loop's own `;` separators already consume.
func (p *parser) parseLocalVarStmtNoSemi() ast.Stmt {
	start := p.cur.Pos
	p.advance()
	name := p.ident()
	var typ ast.Type
	if p.at(Colon) {
		p.advance()
		typ = p.parseType()
	}
	var init ast.Expr
	if _, ok := p.accept(Assign); ok {
		init = p.parseExpr()
	}
	decl := &ast.VariableDecl{Kind: ast.VarKindLocal, Type: typ, Initializer: init}
	decl.Ident = name
	return &ast.ExprStmt{
		StmtBase: ast.StmtBase{Pos: p.spanFrom(start.Start)},
		X:        &ast.VariableDeclExpr{ExprBase: p.base(start), Decl: decl},
	}
}

func (p *parser) parseSwitchStmt() ast.Stmt {
	start := p.expect(KwSwitch).Pos
	subject := p.parseExpr()
	p.expect(LBrace)
	var cases []*ast.CaseStmt
	for p.at(KwCase) || p.at(KwDefault) {
		cases = append(cases, p.parseCaseStmt())
	}
	p.expect(RBrace)
	return &ast.SwitchStmt{StmtBase: ast.StmtBase{Pos: p.spanFrom(start.Start)}, Subject: subject, Cases: cases}
}

func (p *parser) parseCaseStmt() *ast.CaseStmt {
	start := p.cur.Pos
	var values []ast.Expr
	if p.at(KwDefault) {
		p.advance()
	} else {
		p.expect(KwCase)
		values = append(values, p.parseExpr())
		for p.at(Comma) {
			p.advance()
			values = append(values, p.parseExpr())
		}
	}
	p.expect(Colon)
	var body []ast.Stmt
	for !p.at(KwCase) && !p.at(KwDefault) && !p.at(RBrace) && !p.at(EOF) && !p.failed {
		body = append(body, p.parseStmt())
	}
	return &ast.CaseStmt{StmtBase: ast.StmtBase{Pos: p.spanFrom(start.Start)}, Values: values, Body: body}
}

func (p *parser) parseBreakStmt() ast.Stmt {
	t := p.expect(KwBreak)
	label := ""
	if p.at(Ident) {
		label = p.advance().Text
	}
	p.expect(Semi)
	return &ast.BreakStmt{StmtBase: ast.StmtBase{Pos: t.Pos}, Label: label}
}

func (p *parser) parseContinueStmt() ast.Stmt {
	t := p.expect(KwContinue)
	label := ""
	if p.at(Ident) {
		label = p.advance().Text
	}
	p.expect(Semi)
	return &ast.ContinueStmt{StmtBase: ast.StmtBase{Pos: t.Pos}, Label: label}
}

func (p *parser) parseReturnStmt() ast.Stmt {
	t := p.expect(KwReturn)
	var val ast.Expr
	if !p.at(Semi) {
		val = p.parseExpr()
	}
	p.expect(Semi)
	return &ast.ReturnStmt{StmtBase: ast.StmtBase{Pos: t.Pos}, Value: val}
}

func (p *parser) parseGotoStmt() ast.Stmt {
	t := p.expect(KwGoto)
	label := p.ident()
	p.expect(Semi)
	return &ast.GotoStmt{StmtBase: ast.StmtBase{Pos: t.Pos}, Label: label.Name}
}

func (p *parser) parseLabeledStmt() ast.Stmt {
	name := p.ident()
	p.expect(Colon)
	inner := p.parseStmt()
	return &ast.LabeledStmt{StmtBase: ast.StmtBase{Pos: name.Pos}, Label: name.Name, Stmt: inner}
}
