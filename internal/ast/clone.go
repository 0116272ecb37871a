package ast

// copyCtx threads declaration remapping through a deep-copy walk: a
// VariableDecl/ParameterDecl copied as part of this walk is recorded here so
// that later references within the same walk (LocalVariableRefExpr,
// ParameterRefExpr, MemberVariableRefExpr, ...) point at the new copy
// instead of the original. References to declarations outside the copied
// subtree (a global function, another struct's member) are left pointing at
// the original, matching the AST's non-owning-reference rule.
type copyCtx struct {
	decls map[Decl]Decl

	// typeArgs/constArgs, when non-nil, are consulted before the generic
	// copy of a Type/Expr so template-argument substitution can share
	// this same traversal instead of duplicating it.
	typeArgs  map[*TemplateParameterDecl]Type
	constArgs map[*TemplateParameterDecl]Expr
}

func newCopyCtx() *copyCtx {
	return &copyCtx{decls: make(map[Decl]Decl)}
}

// Substituter drives a combined deep-copy + template-argument substitution
// pass: every TemplateTypenameRefType is replaced by the
// bound Type and every TemplateConstRefExpr by the bound Expr, everything
// else is deep-copied as usual.
type Substituter struct {
	ctx *copyCtx
}

// NewSubstituter builds a substitution pass binding each Typename parameter
// to a ground Type and each Const parameter to a ground Expr.
func NewSubstituter(typeArgs map[*TemplateParameterDecl]Type, constArgs map[*TemplateParameterDecl]Expr) *Substituter {
	return &Substituter{ctx: &copyCtx{decls: make(map[Decl]Decl), typeArgs: typeArgs, constArgs: constArgs}}
}

func (s *Substituter) Type(t Type) Type { return copyType(t, s.ctx) }
func (s *Substituter) Expr(e Expr) Expr { return copyExpr(e, s.ctx) }
func (s *Substituter) Stmt(st Stmt) Stmt { return copyStmt(st, s.ctx) }
func (s *Substituter) Decl(d Decl) Decl { return copyDecl(d, s.ctx) }

// DeepCopyType produces an independent copy of t.
func DeepCopyType(t Type) Type { return copyType(t, newCopyCtx()) }

// DeepCopyExpr produces an independent copy of e.
func DeepCopyExpr(e Expr) Expr { return copyExpr(e, newCopyCtx()) }

// DeepCopyStmt produces an independent copy of s.
func DeepCopyStmt(s Stmt) Stmt { return copyStmt(s, newCopyCtx()) }

// DeepCopyDecl produces an independent copy of d, remapping internal
// variable/parameter references consistently.
func DeepCopyDecl(d Decl) Decl { return copyDecl(d, newCopyCtx()) }

func copyTypes(ts []Type, ctx *copyCtx) []Type {
	if ts == nil {
		return nil
	}
	out := make([]Type, len(ts))
	for i, t := range ts {
		out[i] = copyType(t, ctx)
	}
	return out
}

func copyExprs(es []Expr, ctx *copyCtx) []Expr {
	if es == nil {
		return nil
	}
	out := make([]Expr, len(es))
	for i, e := range es {
		out[i] = copyExpr(e, ctx)
	}
	return out
}

func copyStmts(ss []Stmt, ctx *copyCtx) []Stmt {
	if ss == nil {
		return nil
	}
	out := make([]Stmt, len(ss))
	for i, s := range ss {
		out[i] = copyStmt(s, ctx)
	}
	return out
}

func copyCompound(c *CompoundStmt, ctx *copyCtx) *CompoundStmt {
	if c == nil {
		return nil
	}
	cp := *c
	cp.Stmts = copyStmts(c.Stmts, ctx)
	cp.TemporaryValues = copyVarDeclPtrs(c.TemporaryValues, ctx)
	return &cp
}

func copyVarDeclPtrs(vs []*VariableDecl, ctx *copyCtx) []*VariableDecl {
	if vs == nil {
		return nil
	}
	out := make([]*VariableDecl, len(vs))
	for i, v := range vs {
		out[i] = copyDecl(v, ctx).(*VariableDecl)
	}
	return out
}

func copyParams(ps []*ParameterDecl, ctx *copyCtx) []*ParameterDecl {
	if ps == nil {
		return nil
	}
	out := make([]*ParameterDecl, len(ps))
	for i, p := range ps {
		out[i] = copyDecl(p, ctx).(*ParameterDecl)
	}
	return out
}

func copyDestructorCalls(ds []DestructorCall, ctx *copyCtx) []DestructorCall {
	if ds == nil {
		return nil
	}
	out := make([]DestructorCall, len(ds))
	for i, d := range ds {
		out[i] = DestructorCall{Target: copyExpr(d.Target, ctx), Destructor: d.Destructor}
	}
	return out
}

// --- Type -------------------------------------------------------------

func copyType(t Type, ctx *copyCtx) Type {
	if t == nil {
		return nil
	}
	switch v := t.(type) {
	case *BuiltInType:
		cp := *v
		return &cp
	case *PointerType:
		cp := *v
		cp.Pointee = copyType(v.Pointee, ctx)
		return &cp
	case *ReferenceType:
		cp := *v
		cp.Referent = copyType(v.Referent, ctx)
		return &cp
	case *RValueReferenceType:
		cp := *v
		cp.Referent = copyType(v.Referent, ctx)
		return &cp
	case *FlatArrayType:
		cp := *v
		cp.Elem = copyType(v.Elem, ctx)
		cp.Length = copyExpr(v.Length, ctx)
		return &cp
	case *DimensionType:
		cp := *v
		cp.Elem = copyType(v.Elem, ctx)
		return &cp
	case *FunctionPointerType:
		cp := *v
		cp.Result = copyType(v.Result, ctx)
		cp.Params = copyTypes(v.Params, ctx)
		return &cp
	case *StructType:
		cp := *v
		return &cp
	case *TraitType:
		cp := *v
		return &cp
	case *EnumType:
		cp := *v
		return &cp
	case *AliasType:
		cp := *v
		return &cp
	case *TemplateStructType:
		cp := *v
		cp.Args = copyExprs(v.Args, ctx)
		return &cp
	case *TemplateTraitType:
		cp := *v
		cp.Args = copyExprs(v.Args, ctx)
		return &cp
	case *TemplatedType:
		cp := *v
		cp.Args = copyExprs(v.Args, ctx)
		return &cp
	case *UnresolvedType:
		cp := *v
		cp.TemplateArgs = copyExprs(v.TemplateArgs, ctx)
		return &cp
	case *UnresolvedNestedType:
		cp := *v
		cp.Container = copyType(v.Container, ctx)
		cp.TemplateArgs = copyExprs(v.TemplateArgs, ctx)
		return &cp
	case *DependentType:
		cp := *v
		cp.Container = copyType(v.Container, ctx)
		cp.Dependent = copyType(v.Dependent, ctx)
		return &cp
	case *TemplateTypenameRefType:
		if ctx != nil && ctx.typeArgs != nil {
			if bound, ok := ctx.typeArgs[v.Param]; ok {
				return CloneQualified(bound, v.Qualifier)
			}
		}
		cp := *v
		return &cp
	case *ImaginaryType:
		cp := *v
		return &cp
	case *VTableType:
		cp := *v
		return &cp
	default:
		panic("ast: copyType: unhandled Type variant")
	}
}

// --- Decl ----------------------------------------------------------------

func copyDecl(d Decl, ctx *copyCtx) Decl {
	if d == nil {
		return nil
	}
	if existing, ok := ctx.decls[d]; ok {
		return existing
	}
	switch v := d.(type) {
	case *VariableDecl:
		cp := *v
		cp.Type = copyType(v.Type, ctx)
		cp.Initializer = copyExpr(v.Initializer, ctx)
		ctx.decls[d] = &cp
		return &cp
	case *ParameterDecl:
		cp := *v
		cp.Type = copyType(v.Type, ctx)
		cp.Default = copyExpr(v.Default, ctx)
		ctx.decls[d] = &cp
		return &cp
	case *TemplateParameterDecl:
		cp := *v
		cp.Bound = copyType(v.Bound, ctx)
		cp.ConstType = copyType(v.ConstType, ctx)
		cp.Default = copyExpr(v.Default, ctx)
		ctx.decls[d] = &cp
		return &cp
	case *FunctionDecl:
		cp := *v
		ctx.decls[d] = &cp
		cp.Params = copyParams(v.Params, ctx)
		cp.Result = copyType(v.Result, ctx)
		cp.Body = copyCompound(v.Body, ctx)
		return &cp
	case *ConstructorDecl:
		cp := *v
		ctx.decls[d] = &cp
		cp.Params = copyParams(v.Params, ctx)
		cp.BaseCall = copyExpr(v.BaseCall, ctx)
		cp.Body = copyCompound(v.Body, ctx)
		return &cp
	case *DestructorDecl:
		cp := *v
		ctx.decls[d] = &cp
		cp.Body = copyCompound(v.Body, ctx)
		return &cp
	case *OperatorDecl:
		cp := *v
		ctx.decls[d] = &cp
		cp.Params = copyParams(v.Params, ctx)
		cp.Result = copyType(v.Result, ctx)
		cp.Body = copyCompound(v.Body, ctx)
		return &cp
	case *CallOperatorDecl:
		cp := *v
		ctx.decls[d] = &cp
		cp.Params = copyParams(v.Params, ctx)
		cp.Result = copyType(v.Result, ctx)
		cp.Body = copyCompound(v.Body, ctx)
		return &cp
	case *TypeSuffixDecl:
		cp := *v
		ctx.decls[d] = &cp
		if v.Param != nil {
			cp.Param = copyDecl(v.Param, ctx).(*ParameterDecl)
		}
		cp.Result = copyType(v.Result, ctx)
		cp.Body = copyCompound(v.Body, ctx)
		return &cp
	case *SubscriptOperatorGetDecl:
		cp := *v
		ctx.decls[d] = &cp
		cp.Params = copyParams(v.Params, ctx)
		cp.Result = copyType(v.Result, ctx)
		cp.Body = copyCompound(v.Body, ctx)
		return &cp
	case *SubscriptOperatorSetDecl:
		cp := *v
		ctx.decls[d] = &cp
		cp.Params = copyParams(v.Params, ctx)
		cp.Body = copyCompound(v.Body, ctx)
		return &cp
	case *SubscriptOperatorDecl:
		cp := *v
		ctx.decls[d] = &cp
		gets := make([]*SubscriptOperatorGetDecl, len(v.Gets))
		for i, g := range v.Gets {
			gets[i] = copyDecl(g, ctx).(*SubscriptOperatorGetDecl)
		}
		cp.Gets = gets
		if v.Set != nil {
			cp.Set = copyDecl(v.Set, ctx).(*SubscriptOperatorSetDecl)
		}
		return &cp
	case *PropertyGetDecl:
		cp := *v
		ctx.decls[d] = &cp
		cp.Body = copyCompound(v.Body, ctx)
		return &cp
	case *PropertySetDecl:
		cp := *v
		ctx.decls[d] = &cp
		if v.ValueParam != nil {
			cp.ValueParam = copyDecl(v.ValueParam, ctx).(*ParameterDecl)
		}
		cp.Body = copyCompound(v.Body, ctx)
		return &cp
	case *PropertyDecl:
		cp := *v
		ctx.decls[d] = &cp
		cp.Type = copyType(v.Type, ctx)
		gets := make([]*PropertyGetDecl, len(v.Gets))
		for i, g := range v.Gets {
			gets[i] = copyDecl(g, ctx).(*PropertyGetDecl)
		}
		cp.Gets = gets
		if v.Set != nil {
			cp.Set = copyDecl(v.Set, ctx).(*PropertySetDecl)
		}
		return &cp
	case *EnumConstDecl:
		cp := *v
		ctx.decls[d] = &cp
		cp.Initializer = copyExpr(v.Initializer, ctx)
		return &cp
	case *EnumDecl:
		cp := *v
		ctx.decls[d] = &cp
		cp.BaseType = copyType(v.BaseType, ctx)
		consts := make([]*EnumConstDecl, len(v.Constants))
		for i, c := range v.Constants {
			consts[i] = copyDecl(c, ctx).(*EnumConstDecl)
		}
		cp.Constants = consts
		return &cp
	case *StructDecl:
		cp := *v
		ctx.decls[d] = &cp
		cp.Members = copyDecls(v.Members, ctx)
		cp.BaseTypeExpr = copyType(v.BaseTypeExpr, ctx)
		cp.InheritedExprs = copyTypes(v.InheritedExprs, ctx)
		// Layout/vtable/all_members are recomputed by instantiate for the
		// new declaration; they are not meaningful to copy structurally.
		cp.AllMembers = nil
		cp.MemoryLayout = nil
		cp.VTable = nil
		cp.IsInstantiated = false
		cp.DefaultCtor, cp.CopyCtor, cp.MoveCtor, cp.Destructor = nil, nil, nil, nil
		return &cp
	case *TraitDecl:
		cp := *v
		ctx.decls[d] = &cp
		cp.Members = copyDecls(v.Members, ctx)
		cp.InheritedExprs = copyTypes(v.InheritedExprs, ctx)
		cp.AllMembers = nil
		cp.IsInstantiated = false
		return &cp
	case *ExtensionDecl:
		cp := *v
		ctx.decls[d] = &cp
		cp.ExtendedType = copyType(v.ExtendedType, ctx)
		cp.InheritedTypes = copyTypes(v.InheritedTypes, ctx)
		cp.Members = copyDecls(v.Members, ctx)
		return &cp
	case *TypeAliasDecl:
		cp := *v
		ctx.decls[d] = &cp
		cp.Underlying = copyType(v.Underlying, ctx)
		return &cp
	case *NamespaceDecl, *ImportDecl, *TraitPrototypeDecl, *ImaginaryTypeDecl,
		*TemplateFunctionDecl, *TemplateStructDecl, *TemplateTraitDecl,
		*TemplateFunctionInstDecl, *TemplateStructInstDecl, *TemplateTraitInstDecl:
		// These are never themselves a substitution target (a template
		// body copy never contains a nested template's own declaration
		// node as an owned child needing remap); alias by pointer like
		// any other non-owning cross reference.
		return d
	default:
		panic("ast: copyDecl: unhandled Decl variant")
	}
}

func copyDecls(ds []Decl, ctx *copyCtx) []Decl {
	if ds == nil {
		return nil
	}
	out := make([]Decl, len(ds))
	for i, d := range ds {
		out[i] = copyDecl(d, ctx)
	}
	return out
}

// --- Stmt ----------------------------------------------------------------

func copyStmt(s Stmt, ctx *copyCtx) Stmt {
	if s == nil {
		return nil
	}
	switch v := s.(type) {
	case *CompoundStmt:
		return copyCompound(v, ctx)
	case *ExprStmt:
		cp := *v
		cp.X = copyExpr(v.X, ctx)
		return &cp
	case *BreakStmt:
		cp := *v
		cp.PreBreakDeferred = copyDestructorCalls(v.PreBreakDeferred, ctx)
		return &cp
	case *ContinueStmt:
		cp := *v
		cp.PreContinueDeferred = copyDestructorCalls(v.PreContinueDeferred, ctx)
		return &cp
	case *FallthroughStmt:
		cp := *v
		return &cp
	case *ReturnStmt:
		cp := *v
		cp.Value = copyExpr(v.Value, ctx)
		cp.PreReturnDeferred = copyDestructorCalls(v.PreReturnDeferred, ctx)
		return &cp
	case *GotoStmt:
		cp := *v
		cp.PreGotoDeferred = copyDestructorCalls(v.PreGotoDeferred, ctx)
		return &cp
	case *LabeledStmt:
		cp := *v
		cp.Stmt = copyStmt(v.Stmt, ctx)
		return &cp
	case *IfStmt:
		cp := *v
		cp.Cond = copyExpr(v.Cond, ctx)
		cp.Then = copyCompound(v.Then, ctx)
		cp.Else = copyStmt(v.Else, ctx)
		return &cp
	case *WhileStmt:
		cp := *v
		cp.Cond = copyExpr(v.Cond, ctx)
		cp.Body = copyCompound(v.Body, ctx)
		return &cp
	case *DoWhileStmt:
		cp := *v
		cp.Body = copyCompound(v.Body, ctx)
		cp.Cond = copyExpr(v.Cond, ctx)
		return &cp
	case *RepeatWhileStmt:
		cp := *v
		cp.Body = copyCompound(v.Body, ctx)
		cp.Cond = copyExpr(v.Cond, ctx)
		return &cp
	case *ForStmt:
		cp := *v
		cp.Init = copyStmt(v.Init, ctx)
		cp.Cond = copyExpr(v.Cond, ctx)
		cp.Post = copyStmt(v.Post, ctx)
		cp.Body = copyCompound(v.Body, ctx)
		return &cp
	case *CaseStmt:
		cp := *v
		cp.Values = copyExprs(v.Values, ctx)
		cp.Body = copyStmts(v.Body, ctx)
		return &cp
	case *SwitchStmt:
		cp := *v
		cp.Subject = copyExpr(v.Subject, ctx)
		cases := make([]*CaseStmt, len(v.Cases))
		for i, c := range v.Cases {
			cases[i] = copyStmt(c, ctx).(*CaseStmt)
		}
		cp.Cases = cases
		return &cp
	case *CatchStmt:
		cp := *v
		cp.ExceptionType = copyType(v.ExceptionType, ctx)
		if v.Binding != nil {
			cp.Binding = copyDecl(v.Binding, ctx).(*VariableDecl)
		}
		cp.Body = copyCompound(v.Body, ctx)
		return &cp
	case *DoCatchStmt:
		cp := *v
		cp.Try = copyCompound(v.Try, ctx)
		catches := make([]*CatchStmt, len(v.Catches))
		for i, c := range v.Catches {
			catches[i] = copyStmt(c, ctx).(*CatchStmt)
		}
		cp.Catches = catches
		return &cp
	default:
		panic("ast: copyStmt: unhandled Stmt variant")
	}
}

// --- Expr ----------------------------------------------------------------

func copyExpr(e Expr, ctx *copyCtx) Expr {
	if e == nil {
		return nil
	}
	switch v := e.(type) {
	case *ValueLiteralExpr:
		cp := *v
		return &cp
	case *BoolLiteralExpr:
		cp := *v
		return &cp
	case *ArrayLiteralExpr:
		cp := *v
		cp.Elements = copyExprs(v.Elements, ctx)
		return &cp
	case *TypeExpr:
		cp := *v
		cp.Referenced = copyType(v.Referenced, ctx)
		return &cp
	case *IdentifierExpr:
		cp := *v
		return &cp
	case *LocalVariableRefExpr:
		cp := *v
		if mapped, ok := ctx.decls[v.Decl]; ok {
			cp.Decl = mapped.(*VariableDecl)
		}
		return &cp
	case *ParameterRefExpr:
		cp := *v
		if mapped, ok := ctx.decls[v.Decl]; ok {
			cp.Decl = mapped.(*ParameterDecl)
		}
		return &cp
	case *VariableRefExpr:
		cp := *v
		if mapped, ok := ctx.decls[v.Decl]; ok {
			cp.Decl = mapped.(*VariableDecl)
		}
		return &cp
	case *MemberVariableRefExpr:
		cp := *v
		cp.Object = copyExpr(v.Object, ctx)
		if mapped, ok := ctx.decls[v.Decl]; ok {
			cp.Decl = mapped.(*VariableDecl)
		}
		return &cp
	case *EnumConstRefExpr:
		cp := *v
		return &cp
	case *FunctionReferenceExpr:
		cp := *v
		return &cp
	case *VTableFunctionReferenceExpr:
		cp := *v
		cp.Object = copyExpr(v.Object, ctx)
		return &cp
	case *PropertyRefExpr:
		cp := *v
		return &cp
	case *MemberPropertyRefExpr:
		cp := *v
		cp.Object = copyExpr(v.Object, ctx)
		return &cp
	case *SubscriptOperatorRefExpr:
		cp := *v
		cp.Index = copyExprs(v.Index, ctx)
		return &cp
	case *MemberSubscriptOperatorRefExpr:
		cp := *v
		cp.Object = copyExpr(v.Object, ctx)
		cp.Index = copyExprs(v.Index, ctx)
		return &cp
	case *ConstructorReferenceExpr:
		cp := *v
		return &cp
	case *CallOperatorReferenceExpr:
		cp := *v
		cp.Object = copyExpr(v.Object, ctx)
		return &cp
	case *CurrentSelfExpr:
		cp := *v
		return &cp
	case *ImaginaryRefExpr:
		cp := *v
		return &cp
	case *TemporaryValueRefExpr:
		cp := *v
		if mapped, ok := ctx.decls[v.Decl]; ok {
			cp.Decl = mapped.(*VariableDecl)
		}
		return &cp
	case *TemplateConstRefExpr:
		if ctx.constArgs != nil {
			if bound, ok := ctx.constArgs[v.Param]; ok {
				return copyExpr(bound, newCopyCtx())
			}
		}
		cp := *v
		return &cp
	case *FunctionCallExpr:
		cp := *v
		cp.Callee = copyExpr(v.Callee, ctx)
		cp.Args = copyExprs(v.Args, ctx)
		return &cp
	case *MemberFunctionCallExpr:
		cp := *v
		cp.Object = copyExpr(v.Object, ctx)
		cp.Args = copyExprs(v.Args, ctx)
		return &cp
	case *ConstructorCallExpr:
		cp := *v
		cp.Args = copyExprs(v.Args, ctx)
		cp.ObjectRef = copyExpr(v.ObjectRef, ctx)
		return &cp
	case *SubscriptCallExpr:
		cp := *v
		cp.Callee = copyExpr(v.Callee, ctx)
		cp.Index = copyExprs(v.Index, ctx)
		return &cp
	case *MemberSubscriptCallExpr:
		cp := *v
		cp.Object = copyExpr(v.Object, ctx)
		cp.Index = copyExprs(v.Index, ctx)
		return &cp
	case *PropertyGetCallExpr:
		cp := *v
		cp.Object = copyExpr(v.Object, ctx)
		return &cp
	case *PropertySetCallExpr:
		cp := *v
		cp.Object = copyExpr(v.Object, ctx)
		cp.Value = copyExpr(v.Value, ctx)
		return &cp
	case *SubscriptOperatorGetCallExpr:
		cp := *v
		cp.Object = copyExpr(v.Object, ctx)
		cp.Index = copyExprs(v.Index, ctx)
		return &cp
	case *SubscriptOperatorSetCallExpr:
		cp := *v
		cp.Object = copyExpr(v.Object, ctx)
		cp.Index = copyExprs(v.Index, ctx)
		cp.Value = copyExpr(v.Value, ctx)
		return &cp
	case *PrefixExpr:
		cp := *v
		cp.Operand = copyExpr(v.Operand, ctx)
		return &cp
	case *PostfixExpr:
		cp := *v
		cp.Operand = copyExpr(v.Operand, ctx)
		return &cp
	case *InfixExpr:
		cp := *v
		cp.LHS = copyExpr(v.LHS, ctx)
		cp.RHS = copyExpr(v.RHS, ctx)
		return &cp
	case *AssignmentExpr:
		cp := *v
		cp.LHS = copyExpr(v.LHS, ctx)
		cp.RHS = copyExpr(v.RHS, ctx)
		return &cp
	case *MemberPrefixExpr:
		cp := *v
		cp.Object = copyExpr(v.Object, ctx)
		return &cp
	case *MemberPostfixExpr:
		cp := *v
		cp.Object = copyExpr(v.Object, ctx)
		return &cp
	case *MemberInfixExpr:
		cp := *v
		cp.Object = copyExpr(v.Object, ctx)
		cp.RHS = copyExpr(v.RHS, ctx)
		return &cp
	case *ImplicitCastExpr:
		cp := *v
		cp.X = copyExpr(v.X, ctx)
		cp.To = copyType(v.To, ctx)
		return &cp
	case *AsExpr:
		cp := *v
		cp.X = copyExpr(v.X, ctx)
		cp.To = copyType(v.To, ctx)
		return &cp
	case *AsOptionalExpr:
		cp := *v
		cp.X = copyExpr(v.X, ctx)
		cp.To = copyType(v.To, ctx)
		return &cp
	case *AsForceExpr:
		cp := *v
		cp.X = copyExpr(v.X, ctx)
		cp.To = copyType(v.To, ctx)
		return &cp
	case *RefExpr:
		cp := *v
		cp.X = copyExpr(v.X, ctx)
		return &cp
	case *ImplicitDerefExpr:
		cp := *v
		cp.X = copyExpr(v.X, ctx)
		return &cp
	case *LValueToRValueExpr:
		cp := *v
		cp.X = copyExpr(v.X, ctx)
		return &cp
	case *RValueToInRefExpr:
		cp := *v
		cp.X = copyExpr(v.X, ctx)
		return &cp
	case *TernaryExpr:
		cp := *v
		cp.Cond = copyExpr(v.Cond, ctx)
		cp.Then = copyExpr(v.Then, ctx)
		cp.Else = copyExpr(v.Else, ctx)
		return &cp
	case *TryExpr:
		cp := *v
		cp.X = copyExpr(v.X, ctx)
		return &cp
	case *ParenExpr:
		cp := *v
		cp.X = copyExpr(v.X, ctx)
		return &cp
	case *LabeledArgumentExpr:
		cp := *v
		cp.X = copyExpr(v.X, ctx)
		return &cp
	case *CheckExtendsTypeExpr:
		cp := *v
		cp.Subject = copyType(v.Subject, ctx)
		cp.Base = copyType(v.Base, ctx)
		return &cp
	case *IsExpr:
		cp := *v
		cp.X = copyExpr(v.X, ctx)
		cp.Type = copyType(v.Type, ctx)
		return &cp
	case *HasExpr:
		cp := *v
		cp.X = copyExpr(v.X, ctx)
		return &cp
	case *VariableDeclExpr:
		cp := *v
		cp.Decl = copyDecl(v.Decl, ctx).(*VariableDecl)
		return &cp
	case *PotentialExplicitCastExpr:
		cp := *v
		cp.X = copyExpr(v.X, ctx)
		return &cp
	case *LocalVariableDeclOrPrefixOperatorCallExpr:
		cp := *v
		cp.X = copyExpr(v.X, ctx)
		return &cp
	case *MemberAccessCallExpr:
		cp := *v
		cp.Object = copyExpr(v.Object, ctx)
		cp.Args = copyExprs(v.Args, ctx)
		return &cp
	case *NamespaceRefExpr:
		cp := *v
		return &cp
	default:
		panic("ast: copyExpr: unhandled Expr variant")
	}
}
