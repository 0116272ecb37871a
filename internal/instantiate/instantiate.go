// Package instantiate implements C6, the declaration instantiator: the
// largest and hardest pass in the pipeline. It resolves
// every type in a declaration's signature to a fixed point, instantiates
// generic declarations on demand, computes struct memory layout and
// v-tables, synthesizes implicit constructors/destructors, and validates
// template bodies against imaginary instantiations.
package instantiate

import (
	"github.com/oxhq/midc/internal/ast"
	"github.com/oxhq/midc/internal/diag"
	"github.com/oxhq/midc/internal/target"
)

// Instantiator runs C6 over a prototype tree already processed by C4
// (declcheck) and C5 (typeresolve).
type Instantiator struct {
	target target.Descriptor
	sink   *diag.Sink

	// working is the structural-dependency cycle guard (a
	// `_working_decls` stack): a struct/template currently being processed
	// is pushed here; re-entering it (e.g. `struct A : B` / `struct B : A`)
	// is a cycle diagnostic rather than infinite recursion.
	working []ast.Decl

	// delayed is the FIFO of *Inst declarations demanded while another
	// declaration was still being processed. Drained at
	// the end of Run.
	delayed []ast.Decl

	// Cache records every template instantiation this run performs, keyed
	// by template identity and argument digest, for cross-run audit/
	// reporting (`cmd/midc cache inspect`). nil disables recording; this
	// package's own in.*.Instantiations dedup list is the correctness-
	// affecting cache, not this one.
	Cache instantiationRecorder
}

// instantiationRecorder is the subset of *cache.Store's API this package
// needs; kept as a local interface so tests can instantiate an Instantiator
// without opening a database.
type instantiationRecorder interface {
	Record(templateKey, argsDigest string, argsJSON []byte) error
}

// New builds an Instantiator for the given target and diagnostic sink.
func New(t target.Descriptor, sink *diag.Sink) *Instantiator {
	return &Instantiator{target: t, sink: sink}
}

// Run walks every declaration reachable from root, running resolve_type and
// process_struct_decl/process_template_*_decl over each, then drains the
// delayed-instantiation queue.
func (in *Instantiator) Run(root *ast.PrototypeNamespace) {
	in.walkNamespace(root)
	in.Drain()
}

func (in *Instantiator) walkNamespace(ns *ast.PrototypeNamespace) {
	for _, frag := range ns.Fragments {
		for _, d := range frag.Decls {
			in.processDecl(d)
		}
	}
	for _, child := range ns.Children {
		in.walkNamespace(child)
	}
}

func (in *Instantiator) processDecl(d ast.Decl) {
	switch v := d.(type) {
	case *ast.StructDecl:
		in.ProcessStruct(v)
	case *ast.TraitDecl:
		in.ProcessTrait(v)
	case *ast.TemplateStructDecl:
		in.processTemplateStructDecl(v)
	case *ast.TemplateTraitDecl:
		in.processTemplateTraitDecl(v)
	case *ast.TemplateFunctionDecl:
		in.processTemplateFunctionDecl(v)
	case *ast.FunctionDecl:
		in.resolveFunctionSignature(v)
	case *ast.VariableDecl:
		v.Type = in.ResolveType(v.Type)
	case *ast.TypeAliasDecl:
		v.Underlying = in.ResolveType(v.Underlying)
	case *ast.EnumDecl:
		v.BaseType = in.ResolveType(v.BaseType)
	case *ast.ExtensionDecl:
		in.processExtension(v)
	}
}

func (in *Instantiator) resolveFunctionSignature(f *ast.FunctionDecl) {
	for _, p := range f.Params {
		p.Type = in.ResolveType(p.Type)
	}
	f.Result = in.ResolveType(f.Result)
}

func (in *Instantiator) processExtension(ext *ast.ExtensionDecl) {
	ext.ExtendedType = in.ResolveType(ext.ExtendedType)
	for i, it := range ext.InheritedTypes {
		ext.InheritedTypes[i] = in.ResolveType(it)
	}
	switch tt := ext.ExtendedType.(type) {
	case *ast.StructType:
		tt.Decl.Members = append(tt.Decl.Members, ext.Members...)
		for _, it := range ext.InheritedTypes {
			if trait, ok := it.(*ast.TraitType); ok {
				tt.Decl.InheritedTraits = append(tt.Decl.InheritedTraits, trait.Decl)
			}
		}
		tt.Decl.IsInstantiated = false // force re-layout with the extension's members
		in.ProcessStruct(tt.Decl)
	case *ast.TraitType:
		tt.Decl.Members = append(tt.Decl.Members, ext.Members...)
		tt.Decl.IsInstantiated = false
		in.ProcessTrait(tt.Decl)
	}
	for _, m := range ext.Members {
		m.Base().Container = ext
		in.processDecl(m)
	}
}

// pushWorking reports whether d is already on the working stack (a
// structural cycle); if not, it pushes d and returns a pop function.
func (in *Instantiator) pushWorking(d ast.Decl) (pop func(), cyclic bool) {
	for _, w := range in.working {
		if w == d {
			return func() {}, true
		}
	}
	in.working = append(in.working, d)
	return func() { in.working = in.working[:len(in.working)-1] }, false
}

// Enqueue adds d to the delayed-instantiation queue.
func (in *Instantiator) Enqueue(d ast.Decl) { in.delayed = append(in.delayed, d) }

// Drain processes every delayed declaration, including any further
// delayed declarations those trigger, until the queue is empty.
func (in *Instantiator) Drain() {
	for len(in.delayed) > 0 {
		d := in.delayed[0]
		in.delayed = in.delayed[1:]
		in.processDecl(d)
	}
}
