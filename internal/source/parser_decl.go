package source

import "github.com/oxhq/midc/internal/ast"

// parseFile parses every top-level declaration until EOF or the first
// syntax error.
func (p *parser) parseFile() []ast.Decl {
	var decls []ast.Decl
	for !p.at(EOF) && !p.failed {
		if d := p.parseTopDecl(); d != nil {
			decls = append(decls, d)
		}
	}
	return decls
}

func (p *parser) parseTopDecl() ast.Decl {
	attrs := p.attributes()
	vis := p.visibility()
	switch p.cur.Kind {
	case KwNamespace:
		return p.parseNamespace(attrs, vis)
	case KwImport:
		return p.parseImport()
	default:
		return p.parseMemberDecl(attrs, vis)
	}
}

func (p *parser) parseNamespace(attrs []string, vis ast.Visibility) ast.Decl {
	start := p.expect(KwNamespace).Pos
	path := []string{p.ident().Name}
	for p.at(Dot) {
		p.advance()
		path = append(path, p.ident().Name)
	}
	p.expect(LBrace)
	var inner []ast.Decl
	for !p.at(RBrace) && !p.at(EOF) && !p.failed {
		if d := p.parseTopDecl(); d != nil {
			inner = append(inner, d)
		}
	}
	p.expect(RBrace)

	ns := &ast.NamespaceDecl{Path: path, Decls: inner}
	withBase(&ns.DeclBase, p.fid, vis, ast.Modifiers{}, attrs, ast.Identifier{Name: path[len(path)-1], Pos: start})
	return ns
}

func (p *parser) parseImport() ast.Decl {
	start := p.expect(KwImport).Pos
	path := []string{p.ident().Name}
	for p.at(Dot) {
		p.advance()
		path = append(path, p.ident().Name)
	}
	p.expect(Semi)
	imp := &ast.ImportDecl{Path: path}
	withBase(&imp.DeclBase, p.fid, ast.VisUnassigned, ast.Modifiers{}, nil, ast.Identifier{Name: path[len(path)-1], Pos: start})
	return imp
}

// parseMemberDecl parses any declaration that can appear inside a
// namespace, struct/trait/extension body, or (for the function/variable
// cases) as the generic body a `template<...>` wrapper templates.
func (p *parser) parseMemberDecl(attrs []string, vis ast.Visibility) ast.Decl {
	mods := p.modifiers()
	switch p.cur.Kind {
	case KwStruct:
		return p.parseStructLike(ast.StructKindStruct, attrs, vis, mods)
	case KwClass:
		return p.parseStructLike(ast.StructKindClass, attrs, vis, mods)
	case KwUnion:
		return p.parseStructLike(ast.StructKindUnion, attrs, vis, mods)
	case KwTrait:
		return p.parseTrait(attrs, vis, mods)
	case KwExtension:
		return p.parseExtension(attrs, vis, mods)
	case KwEnum:
		return p.parseEnum(attrs, vis, mods)
	case KwAlias:
		return p.parseAlias(attrs, vis, mods)
	case KwTemplate:
		return p.parseTemplate(attrs, vis, mods)
	case KwFunc:
		return p.parseFuncOrCallOperator(attrs, vis, mods)
	case KwInit:
		return p.parseConstructor(attrs, vis, mods)
	case KwDeinit:
		return p.parseDestructor(attrs, vis, mods)
	case KwOperator:
		return p.parseOperator(attrs, vis, mods)
	case KwSuffix:
		return p.parseTypeSuffix(attrs, vis, mods)
	case KwSubscript:
		return p.parseSubscript(attrs, vis, mods)
	case KwProperty:
		return p.parseProperty(attrs, vis, mods)
	case KwLet, KwVar:
		return p.parseMemberVariable(attrs, vis, mods)
	default:
		p.errf("expected a declaration, found %s %q", p.cur.Kind, p.cur.Text)
		p.advance()
		return nil
	}
}

func (p *parser) parseMemberList() []ast.Decl {
	p.expect(LBrace)
	var members []ast.Decl
	for !p.at(RBrace) && !p.at(EOF) && !p.failed {
		attrs := p.attributes()
		vis := p.visibility()
		if d := p.parseMemberDecl(attrs, vis); d != nil {
			members = append(members, d)
		}
	}
	p.expect(RBrace)
	return members
}

// inheritanceClause parses the optional `: Base, Trait1, Trait2` list
// following a struct/class/union/trait header; the first entry is not
// distinguished from the rest here (a struct's at-most-one base vs.
// trait list is instantiate's (C6) job to sort out, per decl_struct.go's
// BaseTypeExpr/InheritedExprs split, which C6 fills by inspecting what each
// resolved type names).
func (p *parser) inheritanceClause() []ast.Type {
	if !p.at(Colon) {
		return nil
	}
	p.advance()
	var types []ast.Type
	types = append(types, p.parseType())
	for p.at(Comma) {
		p.advance()
		types = append(types, p.parseType())
	}
	return types
}

func (p *parser) parseStructLike(kind ast.StructKind, attrs []string, vis ast.Visibility, mods ast.Modifiers) ast.Decl {
	p.advance() // struct/class/union
	name := p.ident()
	inherited := p.inheritanceClause()
	members := p.parseMemberList()

	s := &ast.StructDecl{Kind: kind, Members: members}
	withBase(&s.DeclBase, p.fid, vis, mods, attrs, name)
	if len(inherited) > 0 {
		s.BaseTypeExpr = inherited[0]
		s.InheritedExprs = inherited[1:]
	}
	return s
}

func (p *parser) parseTrait(attrs []string, vis ast.Visibility, mods ast.Modifiers) ast.Decl {
	p.advance() // trait
	name := p.ident()
	inherited := p.inheritanceClause()
	members := p.parseMemberList()

	t := &ast.TraitDecl{Members: members, InheritedExprs: inherited}
	withBase(&t.DeclBase, p.fid, vis, mods, attrs, name)
	return t
}

func (p *parser) parseExtension(attrs []string, vis ast.Visibility, mods ast.Modifiers) ast.Decl {
	start := p.expect(KwExtension).Pos
	extended := p.parseType()
	inherited := p.inheritanceClause()
	members := p.parseMemberList()

	e := &ast.ExtensionDecl{ExtendedType: extended, InheritedTypes: inherited, Members: members}
	withBase(&e.DeclBase, p.fid, vis, mods, attrs, ast.Identifier{Name: "extension", Pos: start})
	return e
}

func (p *parser) parseEnum(attrs []string, vis ast.Visibility, mods ast.Modifiers) ast.Decl {
	p.advance() // enum
	name := p.ident()
	var base ast.Type
	if p.at(Colon) {
		p.advance()
		base = p.parseType()
	}
	p.expect(LBrace)
	var consts []*ast.EnumConstDecl
	for !p.at(RBrace) && !p.at(EOF) && !p.failed {
		cname := p.ident()
		var init ast.Expr
		if _, ok := p.accept(Assign); ok {
			init = p.parseExpr()
		}
		c := &ast.EnumConstDecl{Initializer: init}
		c.Ident = cname
		consts = append(consts, c)
		if !p.at(RBrace) {
			p.expect(Comma)
		}
	}
	p.expect(RBrace)

	e := &ast.EnumDecl{BaseType: base, Constants: consts}
	withBase(&e.DeclBase, p.fid, vis, mods, attrs, name)
	return e
}

func (p *parser) parseAlias(attrs []string, vis ast.Visibility, mods ast.Modifiers) ast.Decl {
	p.advance() // alias
	name := p.ident()
	p.expect(Assign)
	underlying := p.parseType()
	p.expect(Semi)

	a := &ast.TypeAliasDecl{Underlying: underlying}
	withBase(&a.DeclBase, p.fid, vis, mods, attrs, name)
	return a
}

// parseTemplateParams parses `<T, U: Bound, const N: usize = default>`. A
// bare name is a typename parameter, optionally constrained by `: Bound`;
// a leading `const` marks a value parameter instead.
func (p *parser) parseTemplateParams() []*ast.TemplateParameterDecl {
	p.expect(Lt)
	var params []*ast.TemplateParameterDecl
	for !p.at(Gt) && !p.failed {
		if _, ok := p.accept(KwConst); ok {
			name := p.ident()
			p.expect(Colon)
			constType := p.parseType()
			var def ast.Expr
			if _, ok := p.accept(Assign); ok {
				def = p.parseExpr()
			}
			tp := &ast.TemplateParameterDecl{Kind: ast.TemplateParamConst, ConstType: constType, Default: def}
			tp.Ident = name
			params = append(params, tp)
		} else {
			name := p.ident()
			var bound ast.Type
			if _, ok := p.accept(Colon); ok {
				bound = p.parseType()
			}
			var def ast.Expr
			if _, ok := p.accept(Assign); ok {
				def = p.parseExpr()
			}
			tp := &ast.TemplateParameterDecl{Kind: ast.TemplateParamTypename, Bound: bound, Default: def}
			tp.Ident = name
			params = append(params, tp)
		}
		if p.at(Comma) {
			p.advance()
		}
	}
	p.expect(Gt)
	return params
}

// parseWhereClause parses the optional `where clause, clause, ...` tail
// following a templated declaration's body. Each clause is one of:
// `T : Trait`, `T : Base`, `requires(expr)`, `ensures(expr)`, `throws`, or
// `T has <prototype>`. The `has` prototype grammar is scoped down to
// function and variable prototypes only — ctor/dtor/property/subscript/
// operator prototypes are not reachable here.
func (p *parser) parseWhereClause(params []*ast.TemplateParameterDecl) []ast.Contract {
	if _, ok := p.accept(KwWhere); !ok {
		return nil
	}
	byName := make(map[string]*ast.TemplateParameterDecl, len(params))
	for _, tp := range params {
		byName[tp.Ident.Name] = tp
	}
	var contracts []ast.Contract
	for {
		switch {
		case p.at(KwRequires):
			p.advance()
			p.expect(LParen)
			expr := p.parseExpr()
			p.expect(RParen)
			contracts = append(contracts, ast.Contract{Kind: ast.ContractRequires, Expr: expr})
		case p.at(KwEnsures):
			p.advance()
			p.expect(LParen)
			expr := p.parseExpr()
			p.expect(RParen)
			contracts = append(contracts, ast.Contract{Kind: ast.ContractEnsures, Expr: expr})
		case p.at(KwThrows):
			p.advance()
			contracts = append(contracts, ast.Contract{Kind: ast.ContractThrows})
		case p.at(Ident) && p.atNext(Colon):
			name := p.advance()
			p.advance() // ':'
			typ := p.parseType()
			// Left as ContractWhereTrait; instantiate re-derives Base vs.
			// Trait from what the resolved type actually names, the same
			// way it disambiguates inheritanceClause's list.
			contracts = append(contracts, ast.Contract{Kind: ast.ContractWhereTrait, Param: byName[name.Text], TraitType: typ})
		case p.at(Ident) && p.atNext(KwHas):
			name := p.advance()
			p.advance() // 'has'
			param := byName[name.Text]
			proto := p.parseHasPrototype()
			contracts = append(contracts, ast.Contract{Kind: ast.ContractHas, Param: param, HasProto: proto})
		default:
			p.errf("expected a where-clause term, found %s %q", p.cur.Kind, p.cur.Text)
			p.advance()
		}
		if p.at(Comma) {
			p.advance()
			continue
		}
		break
	}
	return contracts
}

// parseHasPrototype parses the function/variable prototype forms a `has`
// contract may demand: `func name(params) -> Result` or `let name: Type`.
func (p *parser) parseHasPrototype() ast.Decl {
	switch p.cur.Kind {
	case KwFunc:
		p.advance()
		name := p.ident()
		params := p.parseParams()
		result, throws := p.parseResultAndThrows()
		f := &ast.FunctionDecl{Params: params, Result: result, Throws: throws, VTableSlot: -1}
		f.Ident = name
		return f
	case KwLet, KwVar:
		p.advance()
		name := p.ident()
		p.expect(Colon)
		typ := p.parseType()
		v := &ast.VariableDecl{Kind: ast.VarKindMember, Type: typ}
		v.Ident = name
		return v
	default:
		p.errf("expected a function or variable prototype, found %s %q", p.cur.Kind, p.cur.Text)
		p.advance()
		return nil
	}
}

// parseTemplate parses `template<params> (struct|class|union|trait|func) ...
// [where ...]`, wrapping the templated body in the matching
// TemplateStructDecl/TemplateTraitDecl/TemplateFunctionDecl.
func (p *parser) parseTemplate(attrs []string, vis ast.Visibility, mods ast.Modifiers) ast.Decl {
	start := p.expect(KwTemplate).Pos
	params := p.parseTemplateParams()

	switch p.cur.Kind {
	case KwStruct, KwClass, KwUnion:
		var kind ast.StructKind
		switch p.cur.Kind {
		case KwStruct:
			kind = ast.StructKindStruct
		case KwClass:
			kind = ast.StructKindClass
		case KwUnion:
			kind = ast.StructKindUnion
		}
		inner := p.parseStructLike(kind, nil, ast.VisUnassigned, ast.Modifiers{}).(*ast.StructDecl)
		contracts := p.parseWhereClause(params)
		ts := &ast.TemplateStructDecl{Params: params, Contracts: contracts, Struct: inner}
		withBase(&ts.DeclBase, p.fid, vis, mods, attrs, inner.Ident)
		return ts
	case KwTrait:
		inner := p.parseTrait(nil, ast.VisUnassigned, ast.Modifiers{}).(*ast.TraitDecl)
		contracts := p.parseWhereClause(params)
		tt := &ast.TemplateTraitDecl{Params: params, Contracts: contracts, Trait: inner}
		withBase(&tt.DeclBase, p.fid, vis, mods, attrs, inner.Ident)
		return tt
	case KwFunc:
		decl := p.parseFuncOrCallOperator(nil, ast.VisUnassigned, ast.Modifiers{})
		inner, ok := decl.(*ast.FunctionDecl)
		if !ok {
			p.errAt(start, "a templated func declaration cannot use call-operator (`self`) syntax")
			return nil
		}
		contracts := p.parseWhereClause(params)
		tf := &ast.TemplateFunctionDecl{Params: params, Contracts: contracts, Function: inner}
		withBase(&tf.DeclBase, p.fid, vis, mods, attrs, inner.Ident)
		return tf
	default:
		p.errAt(start, "expected struct/class/union/trait/func after template<...>, found %s %q", p.cur.Kind, p.cur.Text)
		p.advance()
		return nil
	}
}

func (p *parser) parseParams() []*ast.ParameterDecl {
	p.expect(LParen)
	var params []*ast.ParameterDecl
	for !p.at(RParen) && !p.failed {
		params = append(params, p.parseOneParam())
		if !p.at(RParen) {
			p.expect(Comma)
		}
	}
	p.expect(RParen)
	return params
}

// parseOneParam parses `[label] name: [in] Type [= default]`; an explicit
// leading label distinct from the binding name supports call-site argument
// labels the way FunctionCallExpr.Labels carries them.
func (p *parser) parseOneParam() *ast.ParameterDecl {
	label := ""
	first := p.ident()
	name := first
	if p.at(Ident) {
		label = first.Name
		name = p.ident()
	}
	p.expect(Colon)
	isIn := false
	if _, ok := p.accept(KwIn); ok {
		isIn = true
	}
	typ := p.parseType()
	var def ast.Expr
	if _, ok := p.accept(Assign); ok {
		def = p.parseExpr()
	}
	pd := &ast.ParameterDecl{Label: label, Type: typ, Default: def, IsIn: isIn}
	pd.Ident = name
	return pd
}

func (p *parser) parseResultAndThrows() (ast.Type, bool) {
	var result ast.Type
	throws := false
	if _, ok := p.accept(KwThrows); ok {
		throws = true
	}
	if _, ok := p.accept(Arrow); ok {
		result = p.parseType()
	}
	if !throws {
		if _, ok := p.accept(KwThrows); ok {
			throws = true
		}
	}
	return result, throws
}

func (p *parser) parseFuncOrCallOperator(attrs []string, vis ast.Visibility, mods ast.Modifiers) ast.Decl {
	p.advance() // func
	if p.at(KwSelf) {
		callTok := p.advance()
		params := p.parseParams()
		result, _ := p.parseResultAndThrows()
		body := p.parseCompoundStmt()
		co := &ast.CallOperatorDecl{Params: params, Result: result, Body: body}
		withBase(&co.DeclBase, p.fid, vis, mods, attrs, ast.Identifier{Name: "self", Pos: callTok.Pos})
		return co
	}

	name := p.ident()
	params := p.parseParams()
	result, throws := p.parseResultAndThrows()
	body := p.parseCompoundStmt()

	f := &ast.FunctionDecl{Params: params, Result: result, Body: body, Throws: throws, VTableSlot: -1}
	withBase(&f.DeclBase, p.fid, vis, mods, attrs, name)
	return f
}

// parseConstructor parses `init(params) [: base(args)|self(args)] { body }`.
func (p *parser) parseConstructor(attrs []string, vis ast.Visibility, mods ast.Modifiers) ast.Decl {
	start := p.expect(KwInit).Pos
	params := p.parseParams()

	var baseCall ast.Expr
	if _, ok := p.accept(Colon); ok {
		baseCall = p.parseBaseOrSelfCall()
	}
	body := p.parseCompoundStmt()

	c := &ast.ConstructorDecl{Params: params, BaseCall: baseCall, Body: body}
	withBase(&c.DeclBase, p.fid, vis, mods, attrs, ast.Identifier{Name: "init", Pos: start})
	return c
}

// parseBaseOrSelfCall parses the `base(args)`/`self(args)` delegating-
// constructor call, producing the plain FunctionCallExpr{Callee:
// IdentifierExpr{"base"|"self"}} shape codeprocess's resolveBaseCall
// (ctor.go) matches on.
func (p *parser) parseBaseOrSelfCall() ast.Expr {
	var name Token
	switch p.cur.Kind {
	case KwBase:
		name = p.advance()
	case KwSelf:
		name = p.advance()
	default:
		p.errf("expected %s or %s, found %s %q", KwBase, KwSelf, p.cur.Kind, p.cur.Text)
		name = p.advance()
	}
	callee := &ast.IdentifierExpr{ExprBase: p.base(name.Pos), Name: name.Text}
	args, labels := p.parseArgList()
	return &ast.FunctionCallExpr{ExprBase: p.base(name.Pos), Callee: callee, Args: args, Labels: labels}
}

func (p *parser) parseDestructor(attrs []string, vis ast.Visibility, mods ast.Modifiers) ast.Decl {
	start := p.expect(KwDeinit).Pos
	p.expect(LParen)
	p.expect(RParen)
	body := p.parseCompoundStmt()

	d := &ast.DestructorDecl{Body: body}
	withBase(&d.DeclBase, p.fid, vis, mods, attrs, ast.Identifier{Name: "deinit", Pos: start})
	return d
}

var operatorSymbols = map[Kind]string{
	Plus: "+", Minus: "-", Star: "*", Slash: "/", Percent: "%",
	Eq: "==", Ne: "!=", Lt: "<", Gt: ">", Le: "<=", Ge: ">=",
	AndAnd: "&&", OrOr: "||", Amp: "&", Pipe: "|", Caret: "^", Tilde: "~",
	Shl: "<<", Shr: ">>", Not: "!", PlusPlus: "++", MinusMinus: "--",
	LBracket: "[]",
}

// parseOperator parses `operator (prefix|postfix)? SYMBOL (params) -> Result { body }`.
// With neither prefix nor postfix keyword given, the symbol's fixity is
// infix; `[]` is accepted here only as a convenience alias some programs
// use instead of a dedicated `subscript` declaration.
func (p *parser) parseOperator(attrs []string, vis ast.Visibility, mods ast.Modifiers) ast.Decl {
	p.advance() // operator
	fixity := ast.OperatorInfix
	if p.at(Ident) {
		switch p.cur.Text {
		case "prefix":
			p.advance()
			fixity = ast.OperatorPrefix
		case "postfix":
			p.advance()
			fixity = ast.OperatorPostfix
		}
	}
	symTok := p.advance()
	symbol := symTok.Text
	if s, ok := operatorSymbols[symTok.Kind]; ok {
		symbol = s
	}
	if symTok.Kind == LBracket {
		p.expect(RBracket)
	}
	params := p.parseParams()
	result, _ := p.parseResultAndThrows()
	body := p.parseCompoundStmt()

	o := &ast.OperatorDecl{Fixity: fixity, Symbol: symbol, Params: params, Result: result, Body: body}
	withBase(&o.DeclBase, p.fid, vis, mods, attrs, ast.Identifier{Name: "operator" + symbol, Pos: symTok.Pos})
	return o
}

func (p *parser) parseTypeSuffix(attrs []string, vis ast.Visibility, mods ast.Modifiers) ast.Decl {
	start := p.expect(KwSuffix).Pos
	suffix := p.ident().Name
	p.expect(LParen)
	var param *ast.ParameterDecl
	if !p.at(RParen) {
		param = p.parseOneParam()
	}
	p.expect(RParen)
	result, _ := p.parseResultAndThrows()
	body := p.parseCompoundStmt()

	t := &ast.TypeSuffixDecl{Suffix: suffix, Param: param, Result: result, Body: body}
	withBase(&t.DeclBase, p.fid, vis, mods, attrs, ast.Identifier{Name: "suffix " + suffix, Pos: start})
	return t
}

// parseSubscript parses `subscript(params) -> Result { [mut] get { body } [set(name) { body }] }`.
// Only the Ref and RefMut getter kinds are reachable from this grammar — a
// by-value getter has no distinguishing keyword in this thin front end's
// surface syntax (recorded as a simplification rather than left implicit).
func (p *parser) parseSubscript(attrs []string, vis ast.Visibility, mods ast.Modifiers) ast.Decl {
	start := p.expect(KwSubscript).Pos
	params := p.parseParams()
	var result ast.Type
	if _, ok := p.accept(Arrow); ok {
		result = p.parseType()
	}
	p.expect(LBrace)
	var gets []*ast.SubscriptOperatorGetDecl
	var set *ast.SubscriptOperatorSetDecl
	for !p.at(RBrace) && !p.at(EOF) && !p.failed {
		kind := ast.SubscriptGetRef
		if _, ok := p.accept(KwMut); ok {
			kind = ast.SubscriptGetRefMut
		}
		switch p.cur.Kind {
		case KwGet:
			getPos := p.advance().Pos
			body := p.parseCompoundStmt()
			g := &ast.SubscriptOperatorGetDecl{Kind: kind, Params: params, Result: result, Body: body}
			withBase(&g.DeclBase, p.fid, vis, mods, nil, ast.Identifier{Name: "get", Pos: getPos})
			gets = append(gets, g)
		case KwSet:
			setPos := p.advance().Pos
			p.expect(LParen)
			vname := p.ident()
			p.expect(RParen)
			valueParam := &ast.ParameterDecl{Type: result}
			valueParam.Ident = vname
			body := p.parseCompoundStmt()
			setParams := append(append([]*ast.ParameterDecl{}, params...), valueParam)
			set = &ast.SubscriptOperatorSetDecl{Params: setParams, Body: body}
			withBase(&set.DeclBase, p.fid, vis, mods, nil, ast.Identifier{Name: "set", Pos: setPos})
		default:
			p.errf("expected get/set, found %s %q", p.cur.Kind, p.cur.Text)
			p.advance()
		}
	}
	p.expect(RBrace)

	s := &ast.SubscriptOperatorDecl{Gets: gets, Set: set}
	withBase(&s.DeclBase, p.fid, vis, mods, attrs, ast.Identifier{Name: "subscript", Pos: start})
	return s
}

func (p *parser) parseProperty(attrs []string, vis ast.Visibility, mods ast.Modifiers) ast.Decl {
	p.advance() // property
	name := p.ident()
	p.expect(Colon)
	typ := p.parseType()
	p.expect(LBrace)
	var gets []*ast.PropertyGetDecl
	var set *ast.PropertySetDecl
	for !p.at(RBrace) && !p.at(EOF) && !p.failed {
		kind := ast.SubscriptGetRef
		if _, ok := p.accept(KwMut); ok {
			kind = ast.SubscriptGetRefMut
		}
		switch p.cur.Kind {
		case KwGet:
			getPos := p.advance().Pos
			body := p.parseCompoundStmt()
			g := &ast.PropertyGetDecl{Kind: kind, Body: body}
			withBase(&g.DeclBase, p.fid, vis, mods, nil, ast.Identifier{Name: "get", Pos: getPos})
			gets = append(gets, g)
		case KwSet:
			setPos := p.advance().Pos
			var valueParam *ast.ParameterDecl
			if _, ok := p.accept(LParen); ok {
				vname := p.ident()
				valueParam = &ast.ParameterDecl{Type: typ}
				valueParam.Ident = vname
				p.expect(RParen)
			}
			body := p.parseCompoundStmt()
			set = &ast.PropertySetDecl{ValueParam: valueParam, Body: body}
			withBase(&set.DeclBase, p.fid, vis, mods, nil, ast.Identifier{Name: "set", Pos: setPos})
		default:
			p.errf("expected get/set, found %s %q", p.cur.Kind, p.cur.Text)
			p.advance()
		}
	}
	p.expect(RBrace)

	pr := &ast.PropertyDecl{Type: typ, Gets: gets, Set: set}
	withBase(&pr.DeclBase, p.fid, vis, mods, attrs, name)
	return pr
}

func (p *parser) parseMemberVariable(attrs []string, vis ast.Visibility, mods ast.Modifiers) ast.Decl {
	p.advance() // let/var
	name := p.ident()
	var typ ast.Type
	if _, ok := p.accept(Colon); ok {
		typ = p.parseType()
	}
	var init ast.Expr
	if _, ok := p.accept(Assign); ok {
		init = p.parseExpr()
	}
	p.expect(Semi)

	v := &ast.VariableDecl{Kind: ast.VarKindMember, Type: typ, Initializer: init}
	withBase(&v.DeclBase, p.fid, vis, mods, attrs, name)
	return v
}
