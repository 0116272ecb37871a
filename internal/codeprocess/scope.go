package codeprocess

import (
	"github.com/oxhq/midc/internal/ast"
	"github.com/oxhq/midc/internal/typeresolve"
)

// scope is the identifier lookup chain for one function/method/operator body,
// following the identifier search order: local variables (innermost block first),
// then parameters, then template parameters of enclosing templates, then
// self's members, then the rest of the outer chain typeresolve already
// builds for the enclosing declaration (containing namespace/struct,
// containing file, imports).
type scope struct {
	outer    *typeresolve.Scope
	selfType ast.Type
	params   []*ast.ParameterDecl
	locals   [][]*ast.VariableDecl // block stack, innermost last
}

// newScope builds the lookup chain for a body rooted at decl (the
// function/method/operator/etc. whose Container chain typeresolve walks).
func (p *Processor) newScope(selfType ast.Type, params []*ast.ParameterDecl, decl ast.Decl) *scope {
	return &scope{outer: typeresolve.BuildScope(decl), selfType: selfType, params: params}
}

func (s *scope) pushBlock() { s.locals = append(s.locals, nil) }

func (s *scope) popBlock() { s.locals = s.locals[:len(s.locals)-1] }

// declareLocal registers v in the innermost block, creating one if none is
// open (e.g. a for-loop init clause processed before its body pushes one).
func (s *scope) declareLocal(v *ast.VariableDecl) {
	if len(s.locals) == 0 {
		s.pushBlock()
	}
	i := len(s.locals) - 1
	s.locals[i] = append(s.locals[i], v)
}

// localCount is the number of local declarations in scope right now, used by
// LabeledStmt.LocalCountAtLabel (goto validation).
func (s *scope) localCount() int {
	n := 0
	for _, b := range s.locals {
		n += len(b)
	}
	return n
}

func (s *scope) lookupLocal(name string) (*ast.VariableDecl, bool) {
	for i := len(s.locals) - 1; i >= 0; i-- {
		block := s.locals[i]
		for j := len(block) - 1; j >= 0; j-- {
			if block[j].Ident.Name == name {
				return block[j], true
			}
		}
	}
	return nil, false
}

func (s *scope) lookupParam(name string) (*ast.ParameterDecl, bool) {
	for _, prm := range s.params {
		if prm.Ident.Name == name {
			return prm, true
		}
	}
	return nil, false
}
