package diag

import (
	"fmt"
	"strings"

	"github.com/pmezard/go-difflib/difflib"

	"github.com/oxhq/midc/internal/ast"
)

// DumpStmt renders a statement tree as indented one-node-per-line text,
// good enough to diff two versions of the same function body, not a
// faithful pretty-printer. Field coverage favors the shapes a reader cares
// about most when comparing before/after C8 output: destructor calls,
// temporaries, and declarations; anything else falls back to its Go type
// name the same way typeSig/typeKey do elsewhere in this module.
func DumpStmt(s ast.Stmt) string {
	var b strings.Builder
	dumpStmt(&b, s, 0)
	return b.String()
}

// DumpFunc renders a function's whole body under a `func <name>` header
// line, for use as the "before"/"after" text around a C8 run.
func DumpFunc(f *ast.FunctionDecl) string {
	var b strings.Builder
	fmt.Fprintf(&b, "func %s\n", f.Ident.Name)
	dumpStmt(&b, f.Body, 0)
	return b.String()
}

// Diff renders a unified diff between two DumpStmt/DumpFunc outputs, used
// by --dump-transform and by golden tests asserting destructor-insertion
// shape.
func Diff(before, after, label string) (string, error) {
	return difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(before),
		B:        difflib.SplitLines(after),
		FromFile: label + ".before",
		ToFile:   label + ".after",
		Context:  3,
	})
}

func indent(b *strings.Builder, depth int) {
	b.WriteString(strings.Repeat("  ", depth))
}

func dumpTemporaries(b *strings.Builder, base *ast.StmtBase, depth int) {
	for _, t := range base.TemporaryValues {
		indent(b, depth)
		fmt.Fprintf(b, "temp %s\n", t.Ident.Name)
	}
}

func dumpDestructors(b *strings.Builder, calls []ast.DestructorCall, depth int) {
	for _, c := range calls {
		indent(b, depth)
		fmt.Fprintf(b, "~%s(%s)\n", destructorOwner(c.Destructor), dumpExpr(c.Target))
	}
}

func destructorOwner(d *ast.DestructorDecl) string {
	if d == nil || d.Container == nil {
		return "?"
	}
	return d.Container.Base().Ident.Name
}

func dumpStmt(b *strings.Builder, s ast.Stmt, depth int) {
	if s == nil {
		return
	}
	switch v := s.(type) {
	case *ast.CompoundStmt:
		indent(b, depth)
		b.WriteString("{\n")
		for _, inner := range v.Stmts {
			dumpStmt(b, inner, depth+1)
		}
		dumpTemporaries(b, &v.StmtBase, depth+1)
		indent(b, depth)
		b.WriteString("}\n")

	case *ast.ExprStmt:
		indent(b, depth)
		fmt.Fprintf(b, "expr %s\n", dumpExpr(v.X))
		dumpTemporaries(b, &v.StmtBase, depth+1)

	case *ast.IfStmt:
		indent(b, depth)
		fmt.Fprintf(b, "if %s\n", dumpExpr(v.Cond))
		dumpStmt(b, v.Then, depth+1)
		if v.Else != nil {
			indent(b, depth)
			b.WriteString("else\n")
			dumpStmt(b, v.Else, depth+1)
		}

	case *ast.WhileStmt:
		indent(b, depth)
		fmt.Fprintf(b, "while %s\n", dumpExpr(v.Cond))
		dumpStmt(b, v.Body, depth+1)

	case *ast.DoWhileStmt:
		indent(b, depth)
		b.WriteString("do\n")
		dumpStmt(b, v.Body, depth+1)
		indent(b, depth)
		fmt.Fprintf(b, "while %s\n", dumpExpr(v.Cond))

	case *ast.RepeatWhileStmt:
		indent(b, depth)
		b.WriteString("repeat\n")
		dumpStmt(b, v.Body, depth+1)
		indent(b, depth)
		fmt.Fprintf(b, "while %s\n", dumpExpr(v.Cond))

	case *ast.ForStmt:
		indent(b, depth)
		b.WriteString("for\n")
		dumpStmt(b, v.Init, depth+1)
		dumpStmt(b, v.Post, depth+1)
		dumpStmt(b, v.Body, depth+1)

	case *ast.SwitchStmt:
		indent(b, depth)
		fmt.Fprintf(b, "switch %s\n", dumpExpr(v.Subject))
		for _, c := range v.Cases {
			indent(b, depth+1)
			b.WriteString("case\n")
			for _, cs := range c.Body {
				dumpStmt(b, cs, depth+2)
			}
		}

	case *ast.DoCatchStmt:
		indent(b, depth)
		b.WriteString("do\n")
		dumpStmt(b, v.Try, depth+1)
		for _, c := range v.Catches {
			indent(b, depth)
			b.WriteString("catch\n")
			dumpStmt(b, c.Body, depth+1)
		}

	case *ast.ReturnStmt:
		indent(b, depth)
		if v.Value != nil {
			fmt.Fprintf(b, "return %s\n", dumpExpr(v.Value))
		} else {
			b.WriteString("return\n")
		}
		dumpDestructors(b, v.PreReturnDeferred, depth+1)

	case *ast.BreakStmt:
		indent(b, depth)
		b.WriteString("break\n")
		dumpDestructors(b, v.PreBreakDeferred, depth+1)

	case *ast.ContinueStmt:
		indent(b, depth)
		b.WriteString("continue\n")
		dumpDestructors(b, v.PreContinueDeferred, depth+1)

	case *ast.GotoStmt:
		indent(b, depth)
		fmt.Fprintf(b, "goto %s\n", v.Label)
		dumpDestructors(b, v.PreGotoDeferred, depth+1)

	case *ast.LabeledStmt:
		indent(b, depth)
		fmt.Fprintf(b, "%s:\n", v.Label)
		dumpStmt(b, v.Stmt, depth)

	case *ast.FallthroughStmt:
		indent(b, depth)
		b.WriteString("fallthrough\n")

	default:
		indent(b, depth)
		fmt.Fprintf(b, "%T\n", s)
	}
}

func dumpExpr(e ast.Expr) string {
	switch v := e.(type) {
	case nil:
		return "<nil>"
	case *ast.ValueLiteralExpr:
		return v.Text
	case *ast.BoolLiteralExpr:
		return fmt.Sprintf("%t", v.Value)
	case *ast.IdentifierExpr:
		return v.Name
	case *ast.LocalVariableRefExpr:
		return v.Decl.Ident.Name
	case *ast.ParameterRefExpr:
		return v.Decl.Ident.Name
	case *ast.MemberVariableRefExpr:
		return "self." + v.Decl.Ident.Name
	case *ast.CurrentSelfExpr:
		return "self"
	case *ast.FunctionReferenceExpr:
		return v.Decl.Ident.Name
	case *ast.VariableDeclExpr:
		return "let " + v.Decl.Ident.Name
	case *ast.FunctionCallExpr:
		return dumpExpr(v.Callee) + "(" + dumpExprList(v.Args) + ")"
	case *ast.MemberFunctionCallExpr:
		return dumpExpr(v.Object) + "." + v.Decl.Ident.Name + "(" + dumpExprList(v.Args) + ")"
	case *ast.ConstructorCallExpr:
		return "new(" + dumpExprList(v.Args) + ")"
	case *ast.AssignmentExpr:
		return dumpExpr(v.LHS) + " = " + dumpExpr(v.RHS)
	default:
		return fmt.Sprintf("%T", e)
	}
}

func dumpExprList(args []ast.Expr) string {
	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = dumpExpr(a)
	}
	return strings.Join(parts, ", ")
}
