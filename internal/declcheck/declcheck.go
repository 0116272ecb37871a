// Package declcheck implements C4: walks every declaration, installs
// Container back-pointers, resolves ImportDecl against the prototype
// namespace tree built by C3, and flags duplicate declarations (same name,
// same signature, same container). It does not resolve types or
// expressions.
package declcheck

import (
	"fmt"

	"github.com/oxhq/midc/internal/ast"
	"github.com/oxhq/midc/internal/diag"
)

// Checker runs C4 over a prototype namespace tree already merged by C3.
type Checker struct {
	root *ast.PrototypeNamespace
	sink *diag.Sink
}

// NewChecker builds a Checker over root, reporting duplicates/unresolved
// imports to sink.
func NewChecker(root *ast.PrototypeNamespace, sink *diag.Sink) *Checker {
	return &Checker{root: root, sink: sink}
}

// Run walks the whole prototype tree, linking containers and resolving
// imports. It walks the whole tree even after an error has been recorded.
func (c *Checker) Run() {
	c.walkNamespace(c.root)
}

func (c *Checker) walkNamespace(ns *ast.PrototypeNamespace) {
	for _, frag := range ns.Fragments {
		c.linkContainer(frag.Decls, frag)
	}
	for _, child := range ns.Children {
		c.walkNamespace(child)
	}
}

// linkContainer sets Container on every decl in decls, recurses into
// struct/trait/extension member lists, resolves ImportDecl targets, and
// flags duplicates within this one container's decl list.
func (c *Checker) linkContainer(decls []ast.Decl, container ast.Decl) {
	seen := map[string]ast.Decl{}
	for _, d := range decls {
		base := d.Base()
		base.Container = container

		switch v := d.(type) {
		case *ast.ImportDecl:
			c.resolveImport(v)
		case *ast.NamespaceDecl:
			// Nested namespace blocks are merged as their own prototype
			// node by C3; their Decls are linked when that node is walked.
			continue
		case *ast.StructDecl:
			c.linkContainer(v.Members, v)
		case *ast.TraitDecl:
			c.linkContainer(v.Members, v)
		case *ast.ExtensionDecl:
			c.linkContainer(v.Members, v)
		case *ast.TemplateFunctionDecl:
			if v.Function != nil {
				c.linkContainer([]ast.Decl{v.Function}, v)
			}
		case *ast.TemplateStructDecl:
			if v.Struct != nil {
				c.linkContainer([]ast.Decl{v.Struct}, v)
			}
		case *ast.TemplateTraitDecl:
			if v.Trait != nil {
				c.linkContainer([]ast.Decl{v.Trait}, v)
			}
		}

		key := duplicateKey(d)
		if key == "" {
			continue
		}
		if prior, ok := seen[key]; ok {
			c.sink.Error(diag.New(diag.KindStructural, "", ast.Range{},
				"duplicate declaration %q in this container (first declared at %s)",
				base.Ident.Name, prior.Base().Ident.Pos))
			continue
		}
		seen[key] = d
	}
}

func (c *Checker) resolveImport(imp *ast.ImportDecl) {
	target := c.root.Lookup(imp.Path)
	if target == nil {
		c.sink.Error(diag.New(diag.KindLookup, "", ast.Range{},
			"import path %q does not match any namespace", dottedPath(imp.Path)))
		return
	}
	imp.Target = target
}

func dottedPath(path []string) string {
	out := ""
	for i, seg := range path {
		if i > 0 {
			out += "."
		}
		out += seg
	}
	return out
}

// duplicateKey returns the (name, signature) key used for duplicate
// detection, or "" for decl kinds exempt from it (namespaces/imports,
// which may legitimately repeat; template instantiations, which are
// deduplicated separately by template-argument equality).
func duplicateKey(d ast.Decl) string {
	name := d.Base().Ident.Name
	switch v := d.(type) {
	case *ast.FunctionDecl:
		return "func:" + name + paramSig(v.Params)
	case *ast.OperatorDecl:
		return fmt.Sprintf("op:%d:%s%s", v.Fixity, v.Symbol, paramSig(v.Params))
	case *ast.ConstructorDecl:
		return "ctor:" + paramSig(v.Params)
	case *ast.CallOperatorDecl:
		return "call:" + paramSig(v.Params)
	case *ast.VariableDecl:
		return "var:" + name
	case *ast.StructDecl, *ast.TraitDecl, *ast.EnumDecl, *ast.TypeAliasDecl,
		*ast.TemplateFunctionDecl, *ast.TemplateStructDecl, *ast.TemplateTraitDecl:
		return "type:" + name
	default:
		return ""
	}
}

func paramSig(params []*ast.ParameterDecl) string {
	out := "("
	for i, p := range params {
		if i > 0 {
			out += ","
		}
		out += p.Label + ":" + typeSig(p.Type)
	}
	return out + ")"
}

// typeSig is a cheap structural key good enough for duplicate detection
// before C5/C6 have resolved textual type references; it does not need to
// be exact (false negatives just defer the conflict to a later pass's
// stricter check), only stable across repeated runs over the same AST.
func typeSig(t ast.Type) string {
	if t == nil {
		return "?"
	}
	switch v := t.(type) {
	case *ast.BuiltInType:
		return v.Name
	case *ast.PointerType:
		return "*" + typeSig(v.Pointee)
	case *ast.ReferenceType:
		return "&" + typeSig(v.Referent)
	case *ast.RValueReferenceType:
		return "&&" + typeSig(v.Referent)
	case *ast.UnresolvedType:
		return v.Name
	default:
		return fmt.Sprintf("%T", t)
	}
}
