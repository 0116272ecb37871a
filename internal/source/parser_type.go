package source

import "github.com/oxhq/midc/internal/ast"

// parseType parses a type reference. Named types are always left as
// UnresolvedType/UnresolvedNestedType with their literal template argument
// expressions attached — binding a name to a declaration happens later,
// during scope resolution, not in this front end. TemplatedType is never
// produced here: it only arises once scope lookup finds more than one
// template candidate for a name, which this package cannot know.
func (p *parser) parseType() ast.Type {
	switch p.cur.Kind {
	case Star:
		p.advance()
		return &ast.PointerType{Pointee: p.parseType()}
	case Amp:
		p.advance()
		return &ast.ReferenceType{Referent: p.parseType()}
	case AndAnd:
		p.advance()
		return &ast.RValueReferenceType{Referent: p.parseType()}
	case KwFn:
		return p.parseFunctionPointerType()
	case Ident:
		return p.parseNamedType()
	default:
		p.errf("expected a type, found %s %q", p.cur.Kind, p.cur.Text)
		return &ast.UnresolvedType{Name: "?"}
	}
}

func (p *parser) parseFunctionPointerType() ast.Type {
	p.advance() // 'fn'
	p.expect(LParen)
	var params []ast.Type
	for !p.at(RParen) && !p.failed {
		params = append(params, p.parseType())
		if !p.at(RParen) {
			p.expect(Comma)
		}
	}
	p.expect(RParen)
	p.expect(Arrow)
	return &ast.FunctionPointerType{Result: p.parseType(), Params: params}
}

func (p *parser) parseNamedType() ast.Type {
	name := p.ident()
	var t ast.Type = &ast.UnresolvedType{Name: name.Name, TemplateArgs: p.maybeTemplateArgs()}
	for p.at(Dot) && p.next.Kind == Ident {
		p.advance()
		nested := p.ident()
		t = &ast.UnresolvedNestedType{Container: t, Name: nested.Name, TemplateArgs: p.maybeTemplateArgs()}
	}
	return p.arraySuffix(t)
}

// arraySuffix consumes zero or more trailing `[expr]`/`[,...]` suffixes:
// `T[N]` is a fixed-length FlatArrayType, `T[]`/`T[,]`/`T[,,]` is a
// DimensionType of rank 1/2/3 with unspecified extents.
func (p *parser) arraySuffix(t ast.Type) ast.Type {
	for p.at(LBracket) {
		p.advance()
		if p.at(RBracket) || p.at(Comma) {
			rank := 1
			for p.at(Comma) {
				p.advance()
				rank++
			}
			p.expect(RBracket)
			t = &ast.DimensionType{Elem: t, Rank: rank}
			continue
		}
		length := p.parseExpr()
		p.expect(RBracket)
		t = &ast.FlatArrayType{Elem: t, Length: length}
	}
	return t
}

// maybeTemplateArgs parses an optional `<arg, arg, ...>` list following a
// type name. Each argument is parsed as an expression; a bare type argument
// (`Box<i32>`) is wrapped in a TypeExpr so typeresolve's existing TypeExpr
// walk resolves it the same way it resolves any other type-valued
// expression (ast/expr.go's TypeExpr doc).
func (p *parser) maybeTemplateArgs() []ast.Expr {
	if !p.at(Lt) {
		return nil
	}
	snap := p.snapshot()
	p.advance()
	var args []ast.Expr
	for {
		arg, ok := p.tryTemplateArg()
		if !ok {
			p.restore(snap)
			return nil
		}
		args = append(args, arg)
		if p.at(Comma) {
			p.advance()
			continue
		}
		break
	}
	if !p.at(Gt) {
		p.restore(snap)
		return nil
	}
	p.advance()
	return args
}

// tryTemplateArg parses one template argument without touching the
// diagnostic sink on failure, since the `<...>` it belongs to may turn out
// to be a comparison expression instead (maybeTemplateArgs backtracks the
// whole attempt in that case).
func (p *parser) tryTemplateArg() (ast.Expr, bool) {
	start := p.cur.Pos
	if typ, ok := p.tryType(); ok {
		return &ast.TypeExpr{ExprBase: ast.ExprBase{Pos: start}, Referenced: typ}, true
	}
	switch p.cur.Kind {
	case Number:
		t := p.advance()
		return &ast.ValueLiteralExpr{ExprBase: ast.ExprBase{Pos: t.Pos}, Text: t.Text}, true
	case KwTrue, KwFalse:
		t := p.advance()
		return &ast.BoolLiteralExpr{ExprBase: ast.ExprBase{Pos: t.Pos}, Value: t.Kind == KwTrue}, true
	default:
		return nil, false
	}
}

// tryType is parseNamedType's non-erroring cousin: it only recognizes the
// unambiguous core of the type grammar (pointers, references, dotted
// names), since that is all that ever appears as a template argument this
// front end needs to disambiguate from a comparison expression.
func (p *parser) tryType() (ast.Type, bool) {
	switch p.cur.Kind {
	case Star:
		p.advance()
		inner, ok := p.tryType()
		if !ok {
			return nil, false
		}
		return &ast.PointerType{Pointee: inner}, true
	case Amp:
		p.advance()
		inner, ok := p.tryType()
		if !ok {
			return nil, false
		}
		return &ast.ReferenceType{Referent: inner}, true
	case Ident:
		t := p.advance()
		var typ ast.Type = &ast.UnresolvedType{TypeBase: ast.TypeBase{}, Name: t.Text}
		for p.at(Dot) && p.next.Kind == Ident {
			p.advance()
			nested := p.advance()
			typ = &ast.UnresolvedNestedType{Container: typ, Name: nested.Text}
		}
		return typ, true
	default:
		return nil, false
	}
}
