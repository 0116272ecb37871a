package source

import (
	"github.com/oxhq/midc/internal/ast"
	"github.com/oxhq/midc/internal/diag"
)

// parser is a recursive-descent/Pratt parser over one file's token stream.
// It buffers two tokens of lookahead (cur, next), which is enough for every
// ambiguity this grammar resolves by peeking (e.g. distinguishing `let`-decl
// position from a cast at statement head).
type parser struct {
	lex  *lexer
	file string
	fid  int
	sink *diag.Sink

	cur, next Token

	// failed stops the parser from producing more declarations once a
	// syntax error has been reported: this front end does not attempt
	// error recovery beyond stopping at the first one.
	failed bool
}

func newParser(file string, fid int, src []byte, sink *diag.Sink) *parser {
	p := &parser{lex: newLexer(file, src, sink), file: file, fid: fid, sink: sink}
	p.cur = p.lex.Next()
	p.next = p.lex.Next()
	return p
}

func (p *parser) advance() Token {
	t := p.cur
	p.cur = p.next
	p.next = p.lex.Next()
	return t
}

func (p *parser) at(k Kind) bool     { return p.cur.Kind == k }
func (p *parser) atNext(k Kind) bool { return p.next.Kind == k }

func (p *parser) accept(k Kind) (Token, bool) {
	if p.cur.Kind == k {
		return p.advance(), true
	}
	return Token{}, false
}

// expect consumes a token of kind k or records a syntax error and marks the
// parser failed, returning a placeholder Token of kind k at the current
// position so callers can keep building a partial (but never
// further-descended) tree.
func (p *parser) expect(k Kind) Token {
	if p.cur.Kind == k {
		return p.advance()
	}
	p.errf("expected %s, found %s %q", k, p.cur.Kind, p.cur.Text)
	return Token{Kind: k, Pos: p.cur.Pos}
}

func (p *parser) errf(format string, args ...any) {
	p.failed = true
	p.sink.Error(diag.New(diag.KindInternal, p.file, p.cur.Pos, format, args...))
}

func (p *parser) errAt(pos ast.Range, format string, args ...any) {
	p.failed = true
	p.sink.Error(diag.New(diag.KindInternal, p.file, pos, format, args...))
}

// spanFrom builds the Range from start to the start of the current, not yet
// consumed, token.
func (p *parser) spanFrom(start ast.Position) ast.Range {
	return ast.Range{Start: start, End: p.cur.Pos.Start}
}

func (p *parser) ident() ast.Identifier {
	t := p.expect(Ident)
	return ast.Identifier{Name: t.Text, Pos: t.Pos}
}

// visibility consumes a leading access-level keyword, if any; VisUnassigned
// otherwise, matching the parser's contract to leave the default to later
// passes (declcheck/instantiate choose the per-kind default).
func (p *parser) visibility() ast.Visibility {
	switch p.cur.Kind {
	case KwPublic:
		p.advance()
		return ast.VisPublic
	case KwPrivate:
		p.advance()
		return ast.VisPrivate
	case KwInternal:
		p.advance()
		return ast.VisInternal
	case KwProtected:
		p.advance()
		return ast.VisProtected
	default:
		return ast.VisUnassigned
	}
}

// modifiers consumes every recognized declaration-modifier keyword in any
// order, stopping at the first token that isn't one; whether a given
// modifier is valid for a given declaration kind is declcheck's job, not
// the parser's.
func (p *parser) modifiers() ast.Modifiers {
	var m ast.Modifiers
	for {
		switch p.cur.Kind {
		case KwStatic:
			m.Static = true
		case KwConst:
			m.Const = true
		case KwMut:
			m.Mut = true
		case KwVirtual:
			m.Virtual = true
		case KwOverride:
			m.Override = true
		case KwAbstract:
			m.Abstract = true
		case KwExtern:
			m.Extern = true
		default:
			return m
		}
		p.advance()
	}
}

func (p *parser) attributes() []string {
	var attrs []string
	for p.at(At) {
		p.advance()
		attrs = append(attrs, p.ident().Name)
	}
	return attrs
}

// parserSnapshot captures enough state to backtrack a tentative parse: used
// to disambiguate a templated type name (`Foo<Bar>`) from a `<` comparison,
// and a parenthesized cast from a parenthesized call.
type parserSnapshot struct {
	lexPos, lexLine, lexCol int
	cur, next               Token
}

func (p *parser) snapshot() parserSnapshot {
	return parserSnapshot{lexPos: p.lex.pos, lexLine: p.lex.line, lexCol: p.lex.col, cur: p.cur, next: p.next}
}

func (p *parser) restore(s parserSnapshot) {
	p.lex.pos, p.lex.line, p.lex.col = s.lexPos, s.lexLine, s.lexCol
	p.cur, p.next = s.cur, s.next
}

func withBase(base *ast.DeclBase, fid int, vis ast.Visibility, mods ast.Modifiers, attrs []string, id ast.Identifier) {
	base.SourceFileID = fid
	base.Visibility = vis
	base.Modifiers = mods
	base.Attributes = attrs
	base.Ident = id
}
