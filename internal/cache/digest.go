package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/oxhq/midc/internal/ast"
)

// DigestArgs computes the stable (digest, json) pair for a ground
// template-argument vector: digest is a sha256 hex of each argument's
// canonical textual form, joined by a separator that cannot appear inside
// any one form; json is that same vector of textual forms, for
// `cmd/midc cache inspect` to print without re-walking the AST.
func DigestArgs(args []ast.Expr) (digest string, argsJSON []byte, err error) {
	forms := make([]string, len(args))
	for i, a := range args {
		forms[i] = argKey(a)
	}
	argsJSON, err = json.Marshal(forms)
	if err != nil {
		return "", nil, fmt.Errorf("cache: marshal args: %w", err)
	}
	sum := sha256.Sum256([]byte(strings.Join(forms, "\x1f")))
	return hex.EncodeToString(sum[:]), argsJSON, nil
}

// argKey is the canonical textual form of one ground template argument: a
// TypeExpr's referenced type, or a literal expression's own text.
func argKey(e ast.Expr) string {
	switch v := e.(type) {
	case nil:
		return "<nil>"
	case *ast.TypeExpr:
		return "type:" + typeKey(v.Referenced)
	case *ast.ValueLiteralExpr:
		return "const:" + v.Text
	case *ast.BoolLiteralExpr:
		return fmt.Sprintf("const:%t", v.Value)
	default:
		return fmt.Sprintf("expr:%T", e)
	}
}

// typeKey is a canonical textual form of a fully ground type, stable
// across process runs (no pointer addresses), used only for hashing and
// display.
func typeKey(t ast.Type) string {
	switch v := t.(type) {
	case nil:
		return "<nil>"
	case *ast.BuiltInType:
		return v.Name
	case *ast.PointerType:
		return "*" + typeKey(v.Pointee)
	case *ast.ReferenceType:
		return "&" + typeKey(v.Referent)
	case *ast.RValueReferenceType:
		return "&&" + typeKey(v.Referent)
	case *ast.FlatArrayType:
		return typeKey(v.Elem) + "[]"
	case *ast.DimensionType:
		return fmt.Sprintf("%s[rank=%d]", typeKey(v.Elem), v.Rank)
	case *ast.FunctionPointerType:
		params := make([]string, len(v.Params))
		for i, p := range v.Params {
			params[i] = typeKey(p)
		}
		return fmt.Sprintf("fn(%s)->%s", strings.Join(params, ","), typeKey(v.Result))
	case *ast.StructType:
		return "struct:" + v.Decl.Name()
	case *ast.TraitType:
		return "trait:" + v.Decl.Name()
	case *ast.EnumType:
		return "enum:" + v.Decl.Name()
	case *ast.AliasType:
		return "alias:" + v.Decl.Name()
	case *ast.TemplateStructType:
		return "template_struct:" + v.Decl.Name() + argsKey(v.Args)
	case *ast.TemplateTraitType:
		return "template_trait:" + v.Decl.Name() + argsKey(v.Args)
	default:
		return fmt.Sprintf("%T", t)
	}
}

func argsKey(args []ast.Expr) string {
	forms := make([]string, len(args))
	for i, a := range args {
		forms[i] = argKey(a)
	}
	return "<" + strings.Join(forms, ",") + ">"
}
