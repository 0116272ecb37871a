package transform

import (
	"github.com/oxhq/midc/internal/ast"
	"github.com/oxhq/midc/internal/diag"
)

// destructorCallsFor builds the (already reversed) teardown list for vars,
// in construction order as given; DestructorCall.Target addresses each local
// directly since it always lives at a fixed, named slot.
func destructorCallsFor(vars []*ast.VariableDecl) []ast.DestructorCall {
	var out []ast.DestructorCall
	for i := len(vars) - 1; i >= 0; i-- {
		v := vars[i]
		dtor := destructorOf(v.Type)
		if dtor == nil {
			continue
		}
		out = append(out, ast.DestructorCall{
			Target:     &ast.LocalVariableRefExpr{ExprBase: ast.ExprBase{ValueType: v.Type}, Decl: v},
			Destructor: dtor,
		})
	}
	return out
}

// destructorOf returns the destructor of t's underlying struct, stripping
// reference and qualifier wrappers first; nil when t is a pointer, isn't (or
// doesn't reduce to) a struct, or the struct has no destructor yet (unfinished
// instantiation — nothing to insert).
func destructorOf(t ast.Type) *ast.DestructorDecl {
	st := structDeclOf(t)
	if st == nil {
		return nil
	}
	return st.Destructor
}

func structDeclOf(t ast.Type) *ast.StructDecl {
	for t != nil {
		switch tv := ast.Unqualified(t).(type) {
		case *ast.ReferenceType:
			t = tv.Referent
		case *ast.RValueReferenceType:
			t = tv.Referent
		case *ast.PointerType:
			return nil // a pointee's lifetime isn't owned by the pointer
		case *ast.StructType:
			return tv.Decl
		default:
			return nil
		}
	}
	return nil
}

func (tr *Transformer) resolveBreak(v *ast.BreakStmt, sc *tScope) {
	frame, ok := sc.findLoop(v.Label)
	if !ok {
		tr.sink.Error(diag.New(diag.KindControlFlow, "", v.Pos, "break outside a loop or switch"))
		return
	}
	v.PreBreakDeferred = destructorCallsFor(sc.localsSince(frame.localBase))
}

func (tr *Transformer) resolveContinue(v *ast.ContinueStmt, sc *tScope) {
	frame, ok := sc.findLoop(v.Label)
	if !ok {
		tr.sink.Error(diag.New(diag.KindControlFlow, "", v.Pos, "continue outside a loop"))
		return
	}
	v.PreContinueDeferred = destructorCallsFor(sc.localsSince(frame.localBase))
}

// resolveReturn tears down every local in scope, then — inside a destructor
// — this struct's own data members in reverse declaration order: an implicit
// destructor body is just the member teardown at its one implicit return.
func (tr *Transformer) resolveReturn(v *ast.ReturnStmt, stmtBase *ast.StmtBase, sc *tScope) {
	if v.Value != nil {
		v.Value = tr.hoistTemporaries(v.Value, stmtBase, sc)
	}
	deferred := destructorCallsFor(sc.flattenLocals())
	if sc.isDestructor && sc.selfStruct != nil {
		deferred = append(deferred, memberTeardown(sc.selfStruct)...)
	}
	v.PreReturnDeferred = deferred
}

// resolveGoto implements goto validation: a forward jump into a
// label with more locals in scope than the jump site would skip their
// initialization, which is rejected; a backward or same-level jump tears
// down whatever locals fall out of scope, in reverse creation order.
func (tr *Transformer) resolveGoto(v *ast.GotoStmt, sc *tScope) {
	label, ok := sc.labels[v.Label]
	if !ok {
		tr.sink.Error(diag.New(diag.KindControlFlow, "", v.Pos, "goto to undefined label %q", v.Label))
		return
	}
	here := sc.localCount()
	if here < label.LocalCountAtLabel {
		tr.sink.Error(diag.New(diag.KindControlFlow, "", v.Pos, "goto %q jumps into the scope of a variable declaration", v.Label))
		return
	}
	v.PreGotoDeferred = destructorCallsFor(sc.localsSince(label.LocalCountAtLabel))
}
