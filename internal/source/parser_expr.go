package source

import "github.com/oxhq/midc/internal/ast"

// parseExpr parses a full expression, starting at assignment precedence —
// the lowest level this grammar has.
func (p *parser) parseExpr() ast.Expr { return p.parseAssignment() }

func (p *parser) base(pos ast.Range) ast.ExprBase { return ast.ExprBase{Pos: pos} }

func isAssignOp(k Kind) bool {
	switch k {
	case Assign, PlusEq, MinusEq, StarEq, SlashEq, PercentEq, AmpEq, PipeEq, CaretEq, ShlEq, ShrEq:
		return true
	default:
		return false
	}
}

// parseAssignment is right-associative: `a = b = c` parses as `a = (b = c)`.
// `a OP= b` is left as an InfixExpr whose Op keeps its trailing `=`
// (`"+="`, ...) for the code processor's desugarCompoundAssign to rewrite
// into `a = (a OP b)`.
func (p *parser) parseAssignment() ast.Expr {
	lhs := p.parseTernary()
	if !isAssignOp(p.cur.Kind) {
		return lhs
	}
	op := p.advance()
	rhs := p.parseAssignment()
	if op.Kind == Assign {
		return &ast.AssignmentExpr{ExprBase: p.base(lhs.Base().Pos), LHS: lhs, RHS: rhs}
	}
	return &ast.InfixExpr{ExprBase: p.base(lhs.Base().Pos), Op: op.Text, LHS: lhs, RHS: rhs}
}

func (p *parser) parseTernary() ast.Expr {
	cond := p.parseLogicalOr()
	if !p.at(Question) {
		return cond
	}
	p.advance()
	then := p.parseExpr()
	p.expect(Colon)
	els := p.parseAssignment()
	return &ast.TernaryExpr{ExprBase: p.base(cond.Base().Pos), Cond: cond, Then: then, Else: els}
}

func (p *parser) parseLogicalOr() ast.Expr {
	lhs := p.parseLogicalAnd()
	for p.at(OrOr) {
		op := p.advance()
		rhs := p.parseLogicalAnd()
		lhs = &ast.InfixExpr{ExprBase: p.base(lhs.Base().Pos), Op: op.Text, LHS: lhs, RHS: rhs}
	}
	return lhs
}

func (p *parser) parseLogicalAnd() ast.Expr {
	lhs := p.parseBitOr()
	for p.at(AndAnd) {
		op := p.advance()
		rhs := p.parseBitOr()
		lhs = &ast.InfixExpr{ExprBase: p.base(lhs.Base().Pos), Op: op.Text, LHS: lhs, RHS: rhs}
	}
	return lhs
}

func (p *parser) parseBitOr() ast.Expr {
	lhs := p.parseBitXor()
	for p.at(Pipe) {
		op := p.advance()
		rhs := p.parseBitXor()
		lhs = &ast.InfixExpr{ExprBase: p.base(lhs.Base().Pos), Op: op.Text, LHS: lhs, RHS: rhs}
	}
	return lhs
}

func (p *parser) parseBitXor() ast.Expr {
	lhs := p.parseBitAnd()
	for p.at(Caret) {
		op := p.advance()
		rhs := p.parseBitAnd()
		lhs = &ast.InfixExpr{ExprBase: p.base(lhs.Base().Pos), Op: op.Text, LHS: lhs, RHS: rhs}
	}
	return lhs
}

func (p *parser) parseBitAnd() ast.Expr {
	lhs := p.parseEquality()
	for p.at(Amp) {
		op := p.advance()
		rhs := p.parseEquality()
		lhs = &ast.InfixExpr{ExprBase: p.base(lhs.Base().Pos), Op: op.Text, LHS: lhs, RHS: rhs}
	}
	return lhs
}

func (p *parser) parseEquality() ast.Expr {
	lhs := p.parseRelational()
	for p.at(Eq) || p.at(Ne) {
		op := p.advance()
		rhs := p.parseRelational()
		lhs = &ast.InfixExpr{ExprBase: p.base(lhs.Base().Pos), Op: op.Text, LHS: lhs, RHS: rhs}
	}
	return lhs
}

func (p *parser) parseRelational() ast.Expr {
	lhs := p.parseCast()
	for p.at(Lt) || p.at(Gt) || p.at(Le) || p.at(Ge) {
		op := p.advance()
		rhs := p.parseCast()
		lhs = &ast.InfixExpr{ExprBase: p.base(lhs.Base().Pos), Op: op.Text, LHS: lhs, RHS: rhs}
	}
	return lhs
}

// parseCast handles the `as`/`as?`/`as!`/`is` suffix operators, binding
// tighter than comparison but looser than the arithmetic operators
// beneath it.
func (p *parser) parseCast() ast.Expr {
	x := p.parseShift()
	for {
		switch p.cur.Kind {
		case KwAs:
			p.advance()
			switch {
			case p.at(Question):
				p.advance()
				x = &ast.AsOptionalExpr{ExprBase: p.base(x.Base().Pos), X: x, To: p.parseType()}
			case p.at(Not):
				p.advance()
				x = &ast.AsForceExpr{ExprBase: p.base(x.Base().Pos), X: x, To: p.parseType()}
			default:
				x = &ast.AsExpr{ExprBase: p.base(x.Base().Pos), X: x, To: p.parseType()}
			}
		case KwIs:
			p.advance()
			x = &ast.IsExpr{ExprBase: p.base(x.Base().Pos), X: x, Type: p.parseType()}
		default:
			return x
		}
	}
}

func (p *parser) parseShift() ast.Expr {
	lhs := p.parseAdditive()
	for p.at(Shl) || p.at(Shr) {
		op := p.advance()
		rhs := p.parseAdditive()
		lhs = &ast.InfixExpr{ExprBase: p.base(lhs.Base().Pos), Op: op.Text, LHS: lhs, RHS: rhs}
	}
	return lhs
}

func (p *parser) parseAdditive() ast.Expr {
	lhs := p.parseMultiplicative()
	for p.at(Plus) || p.at(Minus) {
		op := p.advance()
		rhs := p.parseMultiplicative()
		lhs = &ast.InfixExpr{ExprBase: p.base(lhs.Base().Pos), Op: op.Text, LHS: lhs, RHS: rhs}
	}
	return lhs
}

func (p *parser) parseMultiplicative() ast.Expr {
	lhs := p.parseUnary()
	for p.at(Star) || p.at(Slash) || p.at(Percent) {
		op := p.advance()
		rhs := p.parseUnary()
		lhs = &ast.InfixExpr{ExprBase: p.base(lhs.Base().Pos), Op: op.Text, LHS: lhs, RHS: rhs}
	}
	return lhs
}

var unaryOps = map[Kind]bool{
	Not: true, Minus: true, Plus: true, Tilde: true, Star: true, Amp: true,
	PlusPlus: true, MinusMinus: true,
}

func (p *parser) parseUnary() ast.Expr {
	if p.at(KwTry) {
		tryTok := p.advance()
		return &ast.TryExpr{ExprBase: p.base(tryTok.Pos), X: p.parseUnary()}
	}
	if unaryOps[p.cur.Kind] {
		op := p.advance()
		operand := p.parseUnary()
		return &ast.PrefixExpr{ExprBase: p.base(op.Pos), Op: op.Text, Operand: operand}
	}
	return p.parsePostfix()
}

// parsePostfix handles, left to right: `.name`/`.name(args)` member access,
// `(args)` calls, `[index]` subscripts, and postfix `++`/`--`.
func (p *parser) parsePostfix() ast.Expr {
	x := p.parsePrimary()
	for {
		switch p.cur.Kind {
		case Dot:
			p.advance()
			name := p.ident()
			if p.at(LParen) {
				args, labels := p.parseArgList()
				x = &ast.MemberAccessCallExpr{ExprBase: p.base(x.Base().Pos), Object: x, Name: name.Name, HasArgs: true, Args: args, Labels: labels}
			} else {
				x = &ast.MemberAccessCallExpr{ExprBase: p.base(x.Base().Pos), Object: x, Name: name.Name}
			}
		case LParen:
			args, labels := p.parseArgList()
			x = &ast.FunctionCallExpr{ExprBase: p.base(x.Base().Pos), Callee: x, Args: args, Labels: labels}
		case LBracket:
			p.advance()
			var idx []ast.Expr
			for !p.at(RBracket) && !p.failed {
				idx = append(idx, p.parseExpr())
				if !p.at(RBracket) {
					p.expect(Comma)
				}
			}
			p.expect(RBracket)
			x = &ast.SubscriptCallExpr{ExprBase: p.base(x.Base().Pos), Callee: x, Index: idx}
		case PlusPlus, MinusMinus:
			op := p.advance()
			x = &ast.PostfixExpr{ExprBase: p.base(x.Base().Pos), Op: op.Text, Operand: x}
		default:
			return x
		}
	}
}

// parseArgList parses a `(arg, label: arg, ...)` call argument list already
// positioned at the opening paren.
func (p *parser) parseArgList() ([]ast.Expr, []string) {
	p.expect(LParen)
	var args []ast.Expr
	var labels []string
	for !p.at(RParen) && !p.failed {
		label := ""
		if p.at(Ident) && p.next.Kind == Colon {
			label = p.advance().Text
			p.advance() // ':'
		}
		args = append(args, p.parseExpr())
		labels = append(labels, label)
		if !p.at(RParen) {
			p.expect(Comma)
		}
	}
	p.expect(RParen)
	return args, labels
}

func (p *parser) parsePrimary() ast.Expr {
	start := p.cur.Pos
	switch p.cur.Kind {
	case Number:
		t := p.advance()
		return &ast.ValueLiteralExpr{ExprBase: p.base(t.Pos), Text: t.Text}
	case String, Char:
		t := p.advance()
		return &ast.ValueLiteralExpr{ExprBase: p.base(t.Pos), Text: t.Text}
	case KwTrue, KwFalse:
		t := p.advance()
		return &ast.BoolLiteralExpr{ExprBase: p.base(t.Pos), Value: t.Kind == KwTrue}
	case KwSelf:
		t := p.advance()
		return &ast.CurrentSelfExpr{ExprBase: p.base(t.Pos)}
	case LBracket:
		return p.parseArrayLiteral()
	case LParen:
		return p.parseParenOrPotentialCast(start)
	case Ident:
		t := p.advance()
		return &ast.IdentifierExpr{ExprBase: p.base(t.Pos), Name: t.Text}
	default:
		p.errf("expected an expression, found %s %q", p.cur.Kind, p.cur.Text)
		t := p.advance()
		return &ast.IdentifierExpr{ExprBase: p.base(t.Pos), Name: "?"}
	}
}

func (p *parser) parseArrayLiteral() ast.Expr {
	open := p.expect(LBracket)
	var elems []ast.Expr
	for !p.at(RBracket) && !p.failed {
		elems = append(elems, p.parseExpr())
		if !p.at(RBracket) {
			p.expect(Comma)
		}
	}
	p.expect(RBracket)
	return &ast.ArrayLiteralExpr{ExprBase: p.base(open.Pos), Elements: elems}
}

// parseParenOrPotentialCast resolves the `(name)(x)`-shaped ambiguity
// (ast/expr.go's PotentialExplicitCastExpr): a parenthesized bare name
// immediately applied to exactly one argument could be a cast `(T)(x)` or
// a call through a parenthesized callee; which one is left for the type
// resolver to decide once `name` is known to bind a type or not. Every
// other parenthesized form is an ordinary grouping.
func (p *parser) parseParenOrPotentialCast(start ast.Position) ast.Expr {
	if p.next.Kind == Ident {
		snap := p.snapshot()
		p.advance() // '('
		name := p.advance()
		if p.at(RParen) {
			p.advance()
			if p.at(LParen) {
				args, labels := p.parseArgList()
				if len(args) == 1 && labels[0] == "" {
					return &ast.PotentialExplicitCastExpr{ExprBase: p.base(ast.Range{Start: start, End: p.cur.Pos.Start}), TypeText: name.Text, X: args[0]}
				}
				callee := &ast.IdentifierExpr{ExprBase: p.base(name.Pos), Name: name.Text}
				return &ast.FunctionCallExpr{ExprBase: p.base(start), Callee: callee, Args: args, Labels: labels}
			}
		}
		p.restore(snap)
	}

	p.expect(LParen)
	x := p.parseExpr()
	p.expect(RParen)
	return &ast.ParenExpr{ExprBase: p.base(start), X: x}
}
