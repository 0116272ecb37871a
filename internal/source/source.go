// Package source implements the front end of the compiler: a hand-written
// lexer and recursive-descent/Pratt parser that turns one source file into
// an unresolved []ast.Decl tree. Nothing here binds names to declarations
// or resolves types — that is the scope-walking passes' job, downstream of
// this package. There is no ecosystem library to lean on for this step (a
// general-purpose grammar engine like tree-sitter brings its own runtime
// and grammar DSL for a one-off, fairly small language surface), so this
// front end is written by hand in the same spirit as any of the other
// compiler passes that have no third-party analogue.
package source

import (
	"github.com/oxhq/midc/internal/ast"
	"github.com/oxhq/midc/internal/diag"
)

// ASTFile is one parsed source file: its declarations, plus enough
// identity to let pipeline assign it a stable SourceFileID before parsing
// and to report diagnostics against the right path afterward.
type ASTFile struct {
	Path  string
	ID    int
	Decls []ast.Decl
}

// ParseFile lexes and parses src, reporting any syntax error to sink.
// The caller assigns fid (a small dense per-batch file index) so every
// declaration's DeclBase.SourceFileID lines up with the caller's own file
// table; ParseFile itself never looks at other files.
func ParseFile(path string, fid int, src []byte, sink *diag.Sink) *ASTFile {
	p := newParser(path, fid, src, sink)
	decls := p.parseFile()
	return &ASTFile{Path: path, ID: fid, Decls: decls}
}
