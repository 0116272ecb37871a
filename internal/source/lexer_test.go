package source

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/oxhq/midc/internal/diag"
)

func lexAll(t *testing.T, src string) []Token {
	t.Helper()
	sink := diag.NewSink()
	lex := newLexer("t.mid", []byte(src), sink)
	var toks []Token
	for {
		tok := lex.Next()
		toks = append(toks, tok)
		if tok.Kind == EOF {
			break
		}
	}
	require.False(t, sink.Fatal(), "unexpected lex error: %v", sink.FirstError())
	return toks
}

func kinds(toks []Token) []Kind {
	ks := make([]Kind, len(toks))
	for i, t := range toks {
		ks[i] = t.Kind
	}
	return ks
}

func TestLexer_Keywords(t *testing.T) {
	toks := lexAll(t, "struct class union trait extension template where requires ensures suffix")
	require.Equal(t, []Kind{
		KwStruct, KwClass, KwUnion, KwTrait, KwExtension, KwTemplate, KwWhere, KwRequires, KwEnsures, KwSuffix, EOF,
	}, kinds(toks))
}

func TestLexer_IdentifierNotKeywordPrefix(t *testing.T) {
	toks := lexAll(t, "structure")
	require.Equal(t, Ident, toks[0].Kind)
	require.Equal(t, "structure", toks[0].Text)
}

func TestLexer_MultiCharOperatorsGreedy(t *testing.T) {
	toks := lexAll(t, "<<= >>= += -= == != <= >= && || :: -> => ++ --")
	require.Equal(t, []Kind{
		ShlEq, ShrEq, PlusEq, MinusEq, Eq, Ne, Le, Ge, AndAnd, OrOr, ColonColon, Arrow, FatArrow, PlusPlus, MinusMinus, EOF,
	}, kinds(toks))
}

func TestLexer_NumberLiterals(t *testing.T) {
	toks := lexAll(t, "0x1F 0b101 3.14 1_000_000 42")
	for _, tok := range toks[:len(toks)-1] {
		require.Equal(t, Number, tok.Kind)
	}
	require.Equal(t, "0x1F", toks[0].Text)
	require.Equal(t, "0b101", toks[1].Text)
	require.Equal(t, "3.14", toks[2].Text)
	require.Equal(t, "1_000_000", toks[3].Text)
}

func TestLexer_StringAndCharEscapes(t *testing.T) {
	toks := lexAll(t, `"a\nb" 'x' '\''`)
	require.Equal(t, String, toks[0].Kind)
	require.Equal(t, Char, toks[1].Kind)
	require.Equal(t, Char, toks[2].Kind)
}

func TestLexer_CommentsSkipped(t *testing.T) {
	toks := lexAll(t, "a // line comment\nb /* block\ncomment */ c")
	require.Equal(t, []Kind{Ident, Ident, Ident, EOF}, kinds(toks))
	require.Equal(t, "a", toks[0].Text)
	require.Equal(t, "b", toks[1].Text)
	require.Equal(t, "c", toks[2].Text)
}

func TestLexer_UnterminatedStringReportsError(t *testing.T) {
	sink := diag.NewSink()
	lex := newLexer("t.mid", []byte(`"abc`), sink)
	for {
		tok := lex.Next()
		if tok.Kind == EOF {
			break
		}
	}
	require.True(t, sink.Fatal())
}

func TestLexer_UnrecognizedCharacterReportsError(t *testing.T) {
	sink := diag.NewSink()
	lex := newLexer("t.mid", []byte("a $ b"), sink)
	for {
		tok := lex.Next()
		if tok.Kind == EOF {
			break
		}
	}
	require.True(t, sink.Fatal())
}
