package instantiate

import (
	"github.com/oxhq/midc/internal/ast"
	"github.com/oxhq/midc/internal/cache"
	"github.com/oxhq/midc/internal/contract"
	"github.com/oxhq/midc/internal/diag"
)

// recordInstantiation reports a freshly-created instantiation to in.Cache,
// when set. A digest failure is not a compilation error — it only means
// this one instantiation goes unrecorded in the audit cache.
func (in *Instantiator) recordInstantiation(templateKey string, args []ast.Expr) {
	if in.Cache == nil {
		return
	}
	digest, argsJSON, err := cache.DigestArgs(args)
	if err != nil {
		return
	}
	_ = in.Cache.Record(templateKey, digest, argsJSON)
}

// bindArgs appends default arguments for missing trailing positions and
// splits the resulting ground vector into the typeArgs/constArgs
// maps ast.Substituter needs, keyed by formal template parameter.
func bindArgs(params []*ast.TemplateParameterDecl, args []ast.Expr) (full []ast.Expr, typeArgs map[*ast.TemplateParameterDecl]ast.Type, constArgs map[*ast.TemplateParameterDecl]ast.Expr) {
	full = make([]ast.Expr, len(params))
	copy(full, args)
	for i := len(args); i < len(params); i++ {
		full[i] = params[i].Default
	}
	typeArgs = make(map[*ast.TemplateParameterDecl]ast.Type)
	constArgs = make(map[*ast.TemplateParameterDecl]ast.Expr)
	for i, p := range params {
		if i >= len(full) || full[i] == nil {
			continue
		}
		switch p.Kind {
		case ast.TemplateParamTypename:
			if te, ok := full[i].(*ast.TypeExpr); ok {
				typeArgs[p] = te.Referenced
			}
		case ast.TemplateParamConst:
			constArgs[p] = full[i]
		}
	}
	return
}

// resolveContracts resolves each contract's textual types to bindings:
// contracts are parsed onto a generic declaration with their TraitType/
// BaseType/HasProto fields still textual, exactly like any other Type in the
// AST. It is safe to call repeatedly — resolving an already-concrete Type or
// already-processed Decl is a no-op of ResolveType's fixed point.
func (in *Instantiator) resolveContracts(contracts []ast.Contract) {
	for i := range contracts {
		c := &contracts[i]
		switch c.Kind {
		case ast.ContractWhereTrait:
			c.TraitType = in.ResolveType(c.TraitType)
			if _, isStruct := ast.Unqualified(c.TraitType).(*ast.StructType); isStruct {
				c.Kind, c.BaseType, c.TraitType = ast.ContractWhereBase, c.TraitType, nil
			}
		case ast.ContractWhereBase:
			c.BaseType = in.ResolveType(c.BaseType)
		case ast.ContractHas:
			if c.HasProto != nil {
				in.processMember(c.HasProto)
			}
		}
	}
}

// evaluateContracts binds each contract's Param to the ground argument and
// evaluates it, reporting the first failure to the sink.
func (in *Instantiator) evaluateContracts(contracts []ast.Contract, params []*ast.TemplateParameterDecl, full []ast.Expr) bool {
	boundOf := func(param *ast.TemplateParameterDecl) (ast.Type, bool) {
		for i, p := range params {
			if p == param && i < len(full) {
				if te, ok := full[i].(*ast.TypeExpr); ok {
					return te.Referenced, true
				}
			}
		}
		return nil, false
	}
	ok := true
	for _, c := range contracts {
		bound, have := boundOf(c.Param)
		if !have {
			continue // const-param contract, or param unbound: nothing to check here
		}
		if err := contract.EvaluateWhere(c, bound); err != nil {
			in.sink.Error(diag.New(diag.KindTemplate, "", ast.Range{}, "%s", err.Error()))
			ok = false
		}
	}
	return ok
}

// InstantiateStruct instantiates a TemplateStructDecl for a ground argument
// vector: dedup by
// argument equality, else deep-copy+substitute the owned StructDecl and run
// process_struct_decl over the fresh copy.
func (in *Instantiator) InstantiateStruct(tpl *ast.TemplateStructDecl, args []ast.Expr) *ast.TemplateStructInstDecl {
	in.resolveContracts(tpl.Contracts)
	full, typeArgs, constArgs := bindArgs(tpl.Params, args)
	in.evaluateContracts(tpl.Contracts, tpl.Params, full)

	for _, existing := range tpl.Instantiations {
		if contract.ArgVectorEqual(existing.Args, full) {
			return existing
		}
	}

	sub := ast.NewSubstituter(typeArgs, constArgs)
	newStruct, ok := sub.Decl(tpl.Struct).(*ast.StructDecl)
	if !ok {
		in.sink.Error(diag.Internal("", ast.Range{}, "template struct substitution did not yield a StructDecl"))
		return &ast.TemplateStructInstDecl{Args: full, Struct: tpl.Struct}
	}
	newStruct.OriginalDecl = tpl.Struct
	newStruct.ContainedInTemplate = false
	newStruct.Container = tpl.Container

	inst := &ast.TemplateStructInstDecl{Args: full, Struct: newStruct}
	inst.Ident = tpl.Ident
	inst.Container = tpl.Container
	inst.OriginalDecl = tpl
	tpl.Instantiations = append(tpl.Instantiations, inst)
	in.recordInstantiation(tpl.Ident.Name, full)

	in.ProcessStruct(newStruct)
	return inst
}

// InstantiateTrait is InstantiateStruct's trait-shaped counterpart.
func (in *Instantiator) InstantiateTrait(tpl *ast.TemplateTraitDecl, args []ast.Expr) *ast.TemplateTraitInstDecl {
	in.resolveContracts(tpl.Contracts)
	full, typeArgs, constArgs := bindArgs(tpl.Params, args)
	in.evaluateContracts(tpl.Contracts, tpl.Params, full)

	for _, existing := range tpl.Instantiations {
		if contract.ArgVectorEqual(existing.Args, full) {
			return existing
		}
	}

	sub := ast.NewSubstituter(typeArgs, constArgs)
	newTrait, ok := sub.Decl(tpl.Trait).(*ast.TraitDecl)
	if !ok {
		in.sink.Error(diag.Internal("", ast.Range{}, "template trait substitution did not yield a TraitDecl"))
		return &ast.TemplateTraitInstDecl{Args: full, Trait: tpl.Trait}
	}
	newTrait.ContainedInTemplate = false
	newTrait.Container = tpl.Container

	inst := &ast.TemplateTraitInstDecl{Args: full, Trait: newTrait}
	inst.Ident = tpl.Ident
	inst.Container = tpl.Container
	inst.OriginalDecl = tpl
	tpl.Instantiations = append(tpl.Instantiations, inst)
	in.recordInstantiation(tpl.Ident.Name, full)

	in.ProcessTrait(newTrait)
	return inst
}

// InstantiateFunction is the function-template counterpart, used by C7 call
// resolution once an argument vector is known; C6 only validates the
// template body via an imaginary instantiation, so this is not invoked from
// ResolveType, only exported for C7's use.
func (in *Instantiator) InstantiateFunction(tpl *ast.TemplateFunctionDecl, args []ast.Expr) *ast.TemplateFunctionInstDecl {
	in.resolveContracts(tpl.Contracts)
	full, typeArgs, constArgs := bindArgs(tpl.Params, args)
	in.evaluateContracts(tpl.Contracts, tpl.Params, full)

	for _, existing := range tpl.Instantiations {
		if contract.ArgVectorEqual(existing.Args, full) {
			return existing
		}
	}

	sub := ast.NewSubstituter(typeArgs, constArgs)
	newFunc, ok := sub.Decl(tpl.Function).(*ast.FunctionDecl)
	if !ok {
		in.sink.Error(diag.Internal("", ast.Range{}, "template function substitution did not yield a FunctionDecl"))
		return &ast.TemplateFunctionInstDecl{Args: full, Function: tpl.Function}
	}
	newFunc.OriginalDecl = tpl.Function
	newFunc.ContainedInTemplate = false
	newFunc.Container = tpl.Container

	inst := &ast.TemplateFunctionInstDecl{Args: full, Function: newFunc}
	inst.Ident = tpl.Ident
	inst.Container = tpl.Container
	inst.OriginalDecl = tpl
	tpl.Instantiations = append(tpl.Instantiations, inst)
	in.recordInstantiation(tpl.Ident.Name, full)

	in.resolveFunctionSignature(newFunc)
	return inst
}

// processTemplateStructDecl/Trait/Function process a template declaration
// itself, independent of any instantiation: a template's body is never
// processed directly against its formal parameters. Its contracts are
// recorded (already parsed onto Contracts by the front end) and validated
// against a synthesized imaginary instantiation instead, independent of
// whether any real instantiation exists yet.
func (in *Instantiator) processTemplateStructDecl(d *ast.TemplateStructDecl) {
	in.resolveContracts(d.Contracts)
	in.validateImaginaryStruct(d)
}

func (in *Instantiator) processTemplateTraitDecl(d *ast.TemplateTraitDecl) {
	in.resolveContracts(d.Contracts)
	in.validateImaginaryTrait(d)
}

func (in *Instantiator) processTemplateFunctionDecl(d *ast.TemplateFunctionDecl) {
	in.resolveContracts(d.Contracts)
	in.validateImaginaryFunction(d)
}
