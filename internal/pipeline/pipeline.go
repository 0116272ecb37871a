// Package pipeline implements the compiler driver's deterministic
// Build pipeline: every input file parsed, merged into one prototype
// namespace tree, then walked front-to-back through C4 (declcheck), C5
// (typeresolve), C6 (instantiate), C7 (codeprocess), and C8 (transform),
// each stage fatal-gated on the diagnostic sink before the next runs.
package pipeline

import (
	"time"

	"github.com/google/uuid"

	"github.com/oxhq/midc/internal/ast"
	"github.com/oxhq/midc/internal/cache"
	"github.com/oxhq/midc/internal/codeprocess"
	"github.com/oxhq/midc/internal/declcheck"
	"github.com/oxhq/midc/internal/diag"
	"github.com/oxhq/midc/internal/instantiate"
	"github.com/oxhq/midc/internal/namespace"
	"github.com/oxhq/midc/internal/source"
	"github.com/oxhq/midc/internal/target"
	"github.com/oxhq/midc/internal/transform"
	"github.com/oxhq/midc/internal/typeresolve"
)

// Input is one file to compile: Path identifies it for diagnostics, Src is
// its raw source text.
type Input struct {
	Path string
	Src  []byte
}

// TransformDiff is one function's C8 before/after body dump, named by its
// qualified declaration name.
type TransformDiff struct {
	Name   string
	Before string
	After  string
}

// Status is the outcome of a Build run.
type Status int

const (
	StatusSuccess Status = iota
	StatusFailed
)

// Result is the outcome of one Build run: the merged prototype namespace
// (for callers that want to inspect the fully processed tree) plus every
// diagnostic and warning collected along the way.
type Result struct {
	Status       Status
	SessionID    string
	Root         *ast.PrototypeNamespace
	Files        []*source.ASTFile
	Warnings     []diag.Warning
	Error        *diag.Diagnostic
	FailedAtStep string
	Duration     time.Duration

	// TransformDiffs is populated only when DumpTransform is set on the
	// Pipeline: one before/after body dump per function reachable from
	// the merged tree, captured around the C8 stage.
	TransformDiffs []TransformDiff
}

// Pipeline runs the five-stage (C4–C8) semantic pipeline over a batch of
// parsed files for one target.
type Pipeline struct {
	target target.Descriptor

	// DumpTransform, when true, captures a before/after body dump around
	// the C8 stage for every function reachable from the merged tree
	// (--dump-transform's data source).
	DumpTransform bool

	// Cache, when set, receives a record of every template instantiation
	// C6 performs this run (see internal/instantiate.Instantiator.Cache).
	Cache *cache.Store
}

// New builds a Pipeline for the given compilation target.
func New(t target.Descriptor) *Pipeline {
	return &Pipeline{target: t}
}

// Build parses every input, merges them into one namespace tree (C3), and
// runs C4 through C8 over it, in that fixed order. A diagnostic sink fatal
// after any stage stops the pipeline before the next stage runs, so a
// syntax error never reaches instantiation and an unresolved type never
// reaches code transformation; every diagnostic and warning collected up
// to that point is still returned on Result.
func (p *Pipeline) Build(inputs []Input) *Result {
	start := time.Now()
	sessionID := uuid.NewString()
	sink := diag.NewSink()

	files := make([]*source.ASTFile, len(inputs))
	fileDecls := make([][]ast.Decl, len(inputs))
	for i, in := range inputs {
		files[i] = source.ParseFile(in.Path, i, in.Src, sink)
		fileDecls[i] = files[i].Decls
	}
	if sink.Fatal() {
		return failedResult(sessionID, nil, files, sink, "parse", start)
	}

	builder := namespace.NewBuilder()
	builder.MergeFiles(fileDecls)
	root := builder.Root()

	declcheck.NewChecker(root, sink).Run()
	if sink.Fatal() {
		return failedResult(sessionID, root, files, sink, "declcheck", start)
	}

	typeresolve.NewResolver(root, p.target).Run()

	instantiator := instantiate.New(p.target, sink)
	if p.Cache != nil {
		instantiator.Cache = p.Cache
	}
	instantiator.Run(root)
	if sink.Fatal() {
		return failedResult(sessionID, root, files, sink, "instantiate", start)
	}

	codeprocess.New(p.target, sink).Run(root)
	if sink.Fatal() {
		return failedResult(sessionID, root, files, sink, "codeprocess", start)
	}

	var fns []*ast.FunctionDecl
	var before []string
	if p.DumpTransform {
		fns = collectFunctions(root)
		before = make([]string, len(fns))
		for i, fn := range fns {
			before[i] = diag.DumpFunc(fn)
		}
	}

	transform.New(p.target, sink).Run(root)
	if sink.Fatal() {
		return failedResult(sessionID, root, files, sink, "transform", start)
	}

	var diffs []TransformDiff
	for i, fn := range fns {
		diffs = append(diffs, TransformDiff{Name: fn.Ident.Name, Before: before[i], After: diag.DumpFunc(fn)})
	}

	return &Result{
		Status:         StatusSuccess,
		SessionID:      sessionID,
		Root:           root,
		Files:          files,
		Warnings:       sink.Warnings(),
		Duration:       time.Since(start),
		TransformDiffs: diffs,
	}
}

// collectFunctions walks the merged tree for every free function and
// struct/trait member function reachable from it, in namespace-then-
// declaration order.
func collectFunctions(root *ast.PrototypeNamespace) []*ast.FunctionDecl {
	var out []*ast.FunctionDecl
	var walkDecls func(decls []ast.Decl)
	walkDecls = func(decls []ast.Decl) {
		for _, d := range decls {
			switch v := d.(type) {
			case *ast.FunctionDecl:
				out = append(out, v)
			case *ast.StructDecl:
				walkDecls(v.Members)
			case *ast.TraitDecl:
				walkDecls(v.Members)
			case *ast.ExtensionDecl:
				walkDecls(v.Members)
			}
		}
	}
	var walkNS func(ns *ast.PrototypeNamespace)
	walkNS = func(ns *ast.PrototypeNamespace) {
		walkDecls(ns.AllDecls())
		for _, child := range ns.Children {
			walkNS(child)
		}
	}
	walkNS(root)
	return out
}

func failedResult(sessionID string, root *ast.PrototypeNamespace, files []*source.ASTFile, sink *diag.Sink, step string, start time.Time) *Result {
	return &Result{
		Status:       StatusFailed,
		SessionID:    sessionID,
		Root:         root,
		Files:        files,
		Warnings:     sink.Warnings(),
		Error:        sink.FirstError(),
		FailedAtStep: step,
		Duration:     time.Since(start),
	}
}
