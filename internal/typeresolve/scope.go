package typeresolve

import "github.com/oxhq/midc/internal/ast"

// Scope is the ordered lookup chain for a single declaration being resolved:
// template parameter scopes (innermost first), then enclosing declarations
// out to the file/namespace root, then imported namespaces.
type Scope struct {
	templateParams []*ast.TemplateParameterDecl // innermost first
	containers     []ast.Decl                   // innermost first
	imports        []*ast.PrototypeNamespace
}

// BuildScope walks d's Container chain (installed by declcheck, C4) to
// assemble its lookup order.
func BuildScope(d ast.Decl) *Scope {
	s := &Scope{}
	cur := d.Base().Container
	for cur != nil {
		switch v := cur.(type) {
		case *ast.TemplateFunctionDecl:
			s.templateParams = append(s.templateParams, v.Params...)
		case *ast.TemplateStructDecl:
			s.templateParams = append(s.templateParams, v.Params...)
		case *ast.TemplateTraitDecl:
			s.templateParams = append(s.templateParams, v.Params...)
		case *ast.NamespaceDecl:
			s.containers = append(s.containers, v)
			for _, sib := range v.Decls {
				if imp, ok := sib.(*ast.ImportDecl); ok && imp.Target != nil {
					s.imports = append(s.imports, imp.Target)
				}
			}
		case *ast.StructDecl, *ast.TraitDecl, *ast.ExtensionDecl:
			s.containers = append(s.containers, v)
		}
		cur = cur.Base().Container
	}
	return s
}

// Lookup searches the scope in priority order, returning the first
// declaration named name.
func (s *Scope) Lookup(name string) (ast.Decl, bool) {
	for _, tp := range s.templateParams {
		if tp.Ident.Name == name {
			return tp, true
		}
	}
	for _, c := range s.containers {
		if d, ok := lookupInContainer(c, name); ok {
			return d, true
		}
	}
	for _, ns := range s.imports {
		if d, ok := ns.FindDecl(name); ok {
			return d, true
		}
	}
	return nil, false
}

// LookupAll returns every declaration named name across template scopes and
// containers/imports, needed when a name is overloaded (function overload
// sets) or ambiguous between multiple generic candidates (TemplatedType).
func (s *Scope) LookupAll(name string) []ast.Decl {
	var out []ast.Decl
	for _, tp := range s.templateParams {
		if tp.Ident.Name == name {
			out = append(out, tp)
		}
	}
	for _, c := range s.containers {
		out = append(out, allInContainer(c, name)...)
	}
	for _, ns := range s.imports {
		for _, d := range ns.AllDecls() {
			if d.Base().Ident.Name == name {
				out = append(out, d)
			}
		}
	}
	return out
}

func members(c ast.Decl) []ast.Decl {
	switch v := c.(type) {
	case *ast.NamespaceDecl:
		return v.Decls
	case *ast.StructDecl:
		return v.Members
	case *ast.TraitDecl:
		return v.Members
	case *ast.ExtensionDecl:
		return v.Members
	default:
		return nil
	}
}

func lookupInContainer(c ast.Decl, name string) (ast.Decl, bool) {
	for _, d := range members(c) {
		if d.Base().Ident.Name == name {
			return d, true
		}
	}
	return nil, false
}

func allInContainer(c ast.Decl, name string) []ast.Decl {
	var out []ast.Decl
	for _, d := range members(c) {
		if d.Base().Ident.Name == name {
			out = append(out, d)
		}
	}
	return out
}
