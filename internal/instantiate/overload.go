package instantiate

import (
	"github.com/oxhq/midc/internal/ast"
	"github.com/oxhq/midc/internal/contract"
	"github.com/oxhq/midc/internal/diag"
)

// matchTier is the three-way classification template-level overload
// resolution uses for ranking candidates (call sites in codeprocess rank
// with their own tiers): an exact match beats
// one that only succeeds because
// trailing parameters fell back to their defaults, which beats one that
// only succeeds through an inheritance-distance (castable) relationship.
type matchTier int

const (
	tierExact matchTier = iota
	tierDefaultValues
	tierCastable
	tierReject
)

// templateMatch is one candidate's computed TemplateDeclMatch: an
// overall tier plus the per-position match-strength vector used to break
// ties between same-tier candidates.
type templateMatch struct {
	tier      matchTier
	strengths []int
}

// matchTemplateParams computes the TemplateDeclMatch of params against args,
// or reports ok=false if the candidate cannot apply at all.
func matchTemplateParams(params []*ast.TemplateParameterDecl, args []ast.Expr) (templateMatch, bool) {
	if len(params) < len(args) {
		return templateMatch{}, false
	}
	m := templateMatch{tier: tierExact}
	for i, p := range params {
		if i >= len(args) {
			if p.Default == nil {
				return templateMatch{}, false
			}
			if m.tier < tierDefaultValues {
				m.tier = tierDefaultValues
			}
			m.strengths = append(m.strengths, 0)
			continue
		}
		arg := args[i]
		switch p.Kind {
		case ast.TemplateParamTypename:
			te, ok := arg.(*ast.TypeExpr)
			if !ok {
				return templateMatch{}, false
			}
			if p.Bound == nil {
				m.strengths = append(m.strengths, 0)
				continue
			}
			strength, ok := typeMatchStrength(te.Referenced, p.Bound)
			if !ok {
				return templateMatch{}, false
			}
			if strength > 0 && m.tier < tierCastable {
				m.tier = tierCastable
			}
			m.strengths = append(m.strengths, strength)
		case ast.TemplateParamConst:
			if _, isType := arg.(*ast.TypeExpr); isType {
				return templateMatch{}, false
			}
			if p.ConstType != nil && !constArgTypeMatches(arg, p.ConstType) {
				return templateMatch{}, false
			}
			m.strengths = append(m.strengths, 0)
		}
	}
	return m, true
}

// typeMatchStrength is the match-strength rule: 0 for exact type
// equality, n>=1 for a struct arg that inherits bound at distance n, reject
// (ok=false) otherwise.
func typeMatchStrength(arg, bound ast.Type) (int, bool) {
	if ast.TypeEqual(arg, bound) {
		return 0, true
	}
	argStruct, ok1 := arg.(*ast.StructType)
	boundStruct, ok2 := bound.(*ast.StructType)
	if ok1 && ok2 {
		if dist, ok := contract.InheritanceDistance(argStruct.Decl, boundStruct.Decl); ok {
			return dist, true
		}
	}
	return 0, false
}

// constArgTypeMatches is a pragmatic literal/const-type compatibility check:
// full const-expression typing belongs to C7's const-expression solver,
// but overload resolution at the template level needs some signal
// before that pass exists, so built-in literal shapes are matched against
// the declared ConstType's built-in family.
func constArgTypeMatches(arg ast.Expr, want ast.Type) bool {
	wantBuiltin, ok := want.(*ast.BuiltInType)
	if !ok {
		return true // non-builtin const types (e.g. enum) deferred to C7
	}
	switch arg.(type) {
	case *ast.BoolLiteralExpr:
		return wantBuiltin.Name == "bool"
	case *ast.ValueLiteralExpr:
		return wantBuiltin.Name != "bool"
	default:
		return true
	}
}

// compareMatches implements the left-prioritized strength comparison:
// lower tier wins outright; within equal tiers, the first position
// where the two vectors differ decides, smaller strength winning. Returns
// <0 if a is strictly better, >0 if b is, 0 if tied (ambiguous).
func compareMatches(a, b templateMatch) int {
	if a.tier != b.tier {
		return int(a.tier) - int(b.tier)
	}
	for i := 0; i < len(a.strengths) && i < len(b.strengths); i++ {
		if a.strengths[i] != b.strengths[i] {
			return a.strengths[i] - b.strengths[i]
		}
	}
	return 0
}

// resolveTemplatedType performs template-level overload resolution
// among a TemplatedType's candidates, then instantiates the winner.
func (in *Instantiator) resolveTemplatedType(v *ast.TemplatedType) ast.Type {
	type scored struct {
		decl  ast.Decl
		match templateMatch
	}
	var cands []scored
	for _, c := range v.Candidates {
		var params []*ast.TemplateParameterDecl
		switch d := c.(type) {
		case *ast.TemplateStructDecl:
			params = d.Params
		case *ast.TemplateTraitDecl:
			params = d.Params
		case *ast.TemplateFunctionDecl:
			params = d.Params
		default:
			continue
		}
		if m, ok := matchTemplateParams(params, v.Args); ok {
			cands = append(cands, scored{c, m})
		}
	}
	if len(cands) == 0 {
		in.sink.Error(diag.New(diag.KindTemplate, "", ast.Range{},
			"no template candidate accepts %d argument(s)", len(v.Args)))
		return v
	}
	best := cands[0]
	ambiguous := false
	for _, c := range cands[1:] {
		switch {
		case compareMatches(c.match, best.match) < 0:
			best, ambiguous = c, false
		case compareMatches(c.match, best.match) == 0:
			ambiguous = true
		}
	}
	if ambiguous {
		in.sink.Error(diag.New(diag.KindTemplate, "", ast.Range{},
			"ambiguous template instantiation among %d equally-ranked candidates", len(cands)))
		return v
	}
	switch d := best.decl.(type) {
	case *ast.TemplateStructDecl:
		inst := in.InstantiateStruct(d, v.Args)
		return &ast.StructType{TypeBase: v.TypeBase, Decl: inst.Struct}
	case *ast.TemplateTraitDecl:
		inst := in.InstantiateTrait(d, v.Args)
		return &ast.TraitType{TypeBase: v.TypeBase, Decl: inst.Trait}
	default:
		// A TemplateFunctionDecl winning a type-position resolution means
		// the source named a function where a type was expected.
		in.sink.Error(diag.New(diag.KindType, "", ast.Range{},
			"template function used where a type was expected"))
		return v
	}
}
