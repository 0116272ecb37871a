package codeprocess

import "github.com/oxhq/midc/internal/ast"

// matchTier is the call-site strength ranking: Match beats
// DefaultValues beats Castable: the strongest tier with exactly one
// candidate wins; a tie at the winning tier is an ambiguity diagnostic.
// Simpler than instantiate's template-resolution ranking: no per-position
// strength vector, since overload resolution here only ranks whole
// candidate signatures, not individual template parameters.
type matchTier int

const (
	tierNone matchTier = iota
	tierCastable
	tierDefaultValues
	tierMatch
)

// candidate pairs one overload's parameter list with whatever payload the
// caller needs to build the final call node from it.
type candidate struct {
	params []*ast.ParameterDecl
	result ast.Type
	tag    any
}

func labelsMatch(labels []string, params []*ast.ParameterDecl) bool {
	for i, l := range labels {
		if i >= len(params) {
			return false
		}
		if l != params[i].Label {
			return false
		}
	}
	return true
}

func classify(args []ast.Expr, labels []string, params []*ast.ParameterDecl) matchTier {
	if len(args) > len(params) || !labelsMatch(labels, params) {
		return tierNone
	}
	best := tierMatch
	for i, prm := range params {
		if i >= len(args) {
			if prm.Default == nil {
				return tierNone
			}
			if best > tierDefaultValues {
				best = tierDefaultValues
			}
			continue
		}
		at := derefType(args[i].Base().ValueType)
		pt := derefType(prm.Type)
		if at != nil && ast.UnqualifiedTypeEqual(at, pt) {
			continue
		}
		if isCastable(at, pt) {
			if best > tierCastable {
				best = tierCastable
			}
			continue
		}
		return tierNone
	}
	return best
}

// resolveOverload picks the strongest-tier candidate for args/labels,
// reporting ambiguity when more than one candidate ties at the winning
// tier. Returns (nil, false, false) when nothing matches at all.
func resolveOverload(candidates []candidate, args []ast.Expr, labels []string) (*candidate, bool, bool) {
	best := tierNone
	var winners []*candidate
	for i := range candidates {
		t := classify(args, labels, candidates[i].params)
		if t == tierNone {
			continue
		}
		if t > best {
			best = t
			winners = []*candidate{&candidates[i]}
		} else if t == best {
			winners = append(winners, &candidates[i])
		}
	}
	if len(winners) == 0 {
		return nil, false, false
	}
	return winners[0], len(winners) > 1, true
}

// bridgeArgs fills args out to len(params), inserting each unsupplied
// trailing parameter's default expression, then bridges every argument
// against its parameter (reference binding, deref, implicit cast).
func (p *Processor) bridgeArgs(args []ast.Expr, labels []string, params []*ast.ParameterDecl, sc *scope) ([]ast.Expr, []string) {
	outArgs := make([]ast.Expr, len(params))
	outLabels := make([]string, len(params))
	for i, prm := range params {
		var a ast.Expr
		if i < len(args) {
			a = args[i]
		} else {
			a = p.walkExpr(prm.Default, sc)
		}
		outArgs[i] = p.bridgeArg(a, prm.Type, prm.IsIn)
		outLabels[i] = prm.Label
	}
	return outArgs, outLabels
}
