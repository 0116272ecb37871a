package ast

// PrototypeNamespace is one node of the prototype namespace tree (C3): the
// single logical namespace tree shared by all files, merged from every
// file's per-file NamespaceDecl fragments that share a dotted path. It owns
// only its nested PrototypeNamespace children; every other declaration
// inside a namespace remains owned by the source file that declared it.
type PrototypeNamespace struct {
	Name     string
	Path     []string
	Parent   *PrototypeNamespace // non-owning back-pointer; nil at the root
	Children map[string]*PrototypeNamespace

	// Fragments lists every per-file NamespaceDecl merged into this node, in
	// file order. Decls are aliased here, not owned.
	Fragments []*NamespaceDecl
}

// NewRootPrototype creates an empty root of the prototype tree.
func NewRootPrototype() *PrototypeNamespace {
	return &PrototypeNamespace{Children: make(map[string]*PrototypeNamespace)}
}

// Child returns the named child, creating it if absent.
func (p *PrototypeNamespace) Child(name string) *PrototypeNamespace {
	if child, ok := p.Children[name]; ok {
		return child
	}
	child := &PrototypeNamespace{
		Name:     name,
		Path:     append(append([]string{}, p.Path...), name),
		Parent:   p,
		Children: make(map[string]*PrototypeNamespace),
	}
	p.Children[name] = child
	return child
}

// Lookup resolves a dotted path from p downward, returning nil if any
// segment is missing.
func (p *PrototypeNamespace) Lookup(path []string) *PrototypeNamespace {
	cur := p
	for _, seg := range path {
		next, ok := cur.Children[seg]
		if !ok {
			return nil
		}
		cur = next
	}
	return cur
}

// AllDecls returns every declaration owned by every file fragment merged
// into this namespace node, in fragment order.
func (p *PrototypeNamespace) AllDecls() []Decl {
	var out []Decl
	for _, frag := range p.Fragments {
		out = append(out, frag.Decls...)
	}
	return out
}

// FindDecl looks up a direct child declaration by name among this
// namespace's merged fragments (not recursing into nested namespaces).
func (p *PrototypeNamespace) FindDecl(name string) (Decl, bool) {
	for _, frag := range p.Fragments {
		for _, d := range frag.Decls {
			if d.Base().Ident.Name == name {
				return d, true
			}
		}
	}
	return nil, false
}
