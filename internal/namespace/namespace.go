// Package namespace implements C3: merges every parsed file's per-file
// NamespaceDecl fragments sharing a dotted path into a single logical
// prototype namespace tree, shared by all subsequent passes.
package namespace

import "github.com/oxhq/midc/internal/ast"

// Builder accumulates NamespaceDecl fragments from every file of a
// compilation into one PrototypeNamespace tree. It is not safe for
// concurrent use; the pipeline (C3's sole caller) runs it single-threaded
// before any later pass starts.
type Builder struct {
	root *ast.PrototypeNamespace
}

// NewBuilder creates a Builder rooted at an empty prototype tree.
func NewBuilder() *Builder {
	return &Builder{root: ast.NewRootPrototype()}
}

// Root returns the prototype namespace tree built so far.
func (b *Builder) Root() *ast.PrototypeNamespace { return b.root }

// Merge walks every top-level NamespaceDecl in decls (and recurses into
// nested NamespaceDecls, since a file may declare `namespace app.model`
// either as one dotted decl or as nested namespace blocks) and installs
// each one's Prototype back-pointer, merging fragments that share a path.
func (b *Builder) Merge(decls []ast.Decl) {
	for _, d := range decls {
		if ns, ok := d.(*ast.NamespaceDecl); ok {
			b.mergeOne(ns)
		}
	}
}

// MergeFiles is a convenience wrapper that merges every file's top-level
// decls in file order, matching the declared data-flow order parser → C3.
func (b *Builder) MergeFiles(files [][]ast.Decl) {
	for _, decls := range files {
		b.Merge(decls)
	}
}

func (b *Builder) mergeOne(ns *ast.NamespaceDecl) {
	node := b.root
	for _, seg := range ns.Path {
		node = node.Child(seg)
	}
	node.Fragments = append(node.Fragments, ns)
	ns.Prototype = node

	// A namespace fragment's own Decls may themselves include nested
	// NamespaceDecl blocks (`namespace app { namespace model { ... } }`);
	// recurse so every nesting depth ends up merged by dotted path too.
	b.Merge(ns.Decls)
}
