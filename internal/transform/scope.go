package transform

import "github.com/oxhq/midc/internal/ast"

// tScope tracks the block-nested local-declaration stack of one function/
// method/operator body, the same way codeprocess.scope does for identifier
// lookup, plus the loop-frame stack break/continue deferral needs and the
// ctor/dtor context virtual-call lowering needs.
type tScope struct {
	locals [][]*ast.VariableDecl // block stack, innermost last

	loops []loopFrame

	// selfStruct/inCtorOrDtor: non-nil/true only while walking the body of
	// the constructor or destructor that owns selfStruct: calls
	// on self are never virtually dispatched from inside it.
	selfStruct   *ast.StructDecl
	inCtorOrDtor bool
	isDestructor bool // true only inside the destructor itself, not the ctor

	labels map[string]*ast.LabeledStmt
}

// loopFrame marks a break/continue target: label (if the loop carries one
// via an enclosing LabeledStmt, else "") and the local count in scope right
// when the loop body was entered.
type loopFrame struct {
	label     string
	localBase int
}

func newScope(selfStruct *ast.StructDecl, inCtorOrDtor, isDestructor bool) *tScope {
	return &tScope{selfStruct: selfStruct, inCtorOrDtor: inCtorOrDtor, isDestructor: isDestructor, labels: map[string]*ast.LabeledStmt{}}
}

func (s *tScope) pushBlock() { s.locals = append(s.locals, nil) }

func (s *tScope) popBlock() { s.locals = s.locals[:len(s.locals)-1] }

func (s *tScope) declareLocal(v *ast.VariableDecl) {
	if len(s.locals) == 0 {
		s.pushBlock()
	}
	i := len(s.locals) - 1
	s.locals[i] = append(s.locals[i], v)
}

// localCount is the number of local declarations in scope right now; it
// mirrors codeprocess.scope.localCount, which is what LabeledStmt.
// LocalCountAtLabel was populated from.
func (s *tScope) localCount() int {
	n := 0
	for _, b := range s.locals {
		n += len(b)
	}
	return n
}

// flattenLocals lists every local currently in scope, innermost-declared
// last (i.e. construction order), for deferred-destructor ordering.
func (s *tScope) flattenLocals() []*ast.VariableDecl {
	var out []*ast.VariableDecl
	for _, b := range s.locals {
		out = append(out, b...)
	}
	return out
}

// localsSince returns the locals declared after base declarations had
// already accumulated (base counted via localCount at that earlier point),
// in construction order.
func (s *tScope) localsSince(base int) []*ast.VariableDecl {
	all := s.flattenLocals()
	if base >= len(all) {
		return nil
	}
	return all[base:]
}

func (s *tScope) pushLoop(label string) {
	s.loops = append(s.loops, loopFrame{label: label, localBase: s.localCount()})
}

func (s *tScope) popLoop() { s.loops = s.loops[:len(s.loops)-1] }

// findLoop resolves a break/continue's target: "" means the innermost loop;
// a non-empty label searches outward for a matching loop frame.
func (s *tScope) findLoop(label string) (loopFrame, bool) {
	if label == "" {
		if len(s.loops) == 0 {
			return loopFrame{}, false
		}
		return s.loops[len(s.loops)-1], true
	}
	for i := len(s.loops) - 1; i >= 0; i-- {
		if s.loops[i].label == label {
			return s.loops[i], true
		}
	}
	return loopFrame{}, false
}
