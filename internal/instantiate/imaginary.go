package instantiate

import (
	"github.com/oxhq/midc/internal/ast"
	"github.com/oxhq/midc/internal/codeprocess"
)

// validateImaginaryStruct/Trait/Function validate a template body without
// any real instantiation: a template body is never checked against its
// formal parameters directly. Instead an
// imaginary instantiation is synthesized, binding each Typename parameter to
// an ImaginaryType exposing exactly the members its where/has contracts
// demand (and each Const parameter to a placeholder literal), then the
// ordinary struct/trait/function processing runs over that synthetic body
// once. ImaginaryValidated guards against re-running on every real
// instantiation.
//
// Full validation also runs C7 (expression/overload resolution) over the
// imaginary body, so that every member access and call inside the template
// is checked against the imaginary member set, not only its declared
// signatures.
func (in *Instantiator) validateImaginaryStruct(tpl *ast.TemplateStructDecl) {
	if tpl.ImaginaryValidated || tpl.Struct == nil {
		return
	}
	tpl.ImaginaryValidated = true
	typeArgs, constArgs := in.imaginaryArgs(tpl.Params, tpl.Contracts)
	sub := ast.NewSubstituter(typeArgs, constArgs)
	body, ok := sub.Decl(tpl.Struct).(*ast.StructDecl)
	if !ok {
		return
	}
	body.ContainedInTemplate = false
	body.Container = tpl.Container
	in.ProcessStruct(body)
	codeprocess.New(in.target, in.sink).ProcessDecl(nil, body)
}

func (in *Instantiator) validateImaginaryTrait(tpl *ast.TemplateTraitDecl) {
	if tpl.ImaginaryValidated || tpl.Trait == nil {
		return
	}
	tpl.ImaginaryValidated = true
	typeArgs, constArgs := in.imaginaryArgs(tpl.Params, tpl.Contracts)
	sub := ast.NewSubstituter(typeArgs, constArgs)
	body, ok := sub.Decl(tpl.Trait).(*ast.TraitDecl)
	if !ok {
		return
	}
	body.ContainedInTemplate = false
	body.Container = tpl.Container
	in.ProcessTrait(body)
	codeprocess.New(in.target, in.sink).ProcessDecl(nil, body)
}

func (in *Instantiator) validateImaginaryFunction(tpl *ast.TemplateFunctionDecl) {
	if tpl.ImaginaryValidated || tpl.Function == nil {
		return
	}
	tpl.ImaginaryValidated = true
	typeArgs, constArgs := in.imaginaryArgs(tpl.Params, tpl.Contracts)
	sub := ast.NewSubstituter(typeArgs, constArgs)
	body, ok := sub.Decl(tpl.Function).(*ast.FunctionDecl)
	if !ok {
		return
	}
	body.ContainedInTemplate = false
	body.Container = tpl.Container
	in.resolveFunctionSignature(body)
	codeprocess.New(in.target, in.sink).ProcessDecl(nil, body)
}

// imaginaryArgs builds the substitution maps binding each Typename
// parameter to a fresh ImaginaryType (populated from the contracts whose
// Param matches it) and each Const parameter to a placeholder literal —
// there is no real argument to check the contract against here, only the
// constraint's own shape, so the literal's value is never inspected.
func (in *Instantiator) imaginaryArgs(params []*ast.TemplateParameterDecl, contracts []ast.Contract) (map[*ast.TemplateParameterDecl]ast.Type, map[*ast.TemplateParameterDecl]ast.Expr) {
	decls := make(map[*ast.TemplateParameterDecl]*ast.ImaginaryTypeDecl)
	for _, p := range params {
		if p.Kind == ast.TemplateParamTypename {
			decls[p] = &ast.ImaginaryTypeDecl{Param: p}
		}
	}
	for _, c := range contracts {
		d, ok := decls[c.Param]
		if !ok {
			continue
		}
		switch c.Kind {
		case ast.ContractWhereBase:
			if bt, ok := c.BaseType.(*ast.StructType); ok {
				d.SpecializedBase = bt.Decl
			}
		case ast.ContractWhereTrait:
			if tt, ok := c.TraitType.(*ast.TraitType); ok {
				d.Traits = append(d.Traits, tt.Decl)
			}
		case ast.ContractHas:
			d.HasMembers = append(d.HasMembers, c.HasProto)
		}
	}

	typeArgs := make(map[*ast.TemplateParameterDecl]ast.Type, len(decls))
	for p, d := range decls {
		typeArgs[p] = &ast.ImaginaryType{Decl: d}
	}
	constArgs := make(map[*ast.TemplateParameterDecl]ast.Expr)
	for _, p := range params {
		if p.Kind == ast.TemplateParamConst {
			constArgs[p] = &ast.ValueLiteralExpr{Text: "0"}
		}
	}
	return typeArgs, constArgs
}
