package source

import "github.com/oxhq/midc/internal/ast"

// Kind enumerates every lexical token this front end recognizes.
type Kind int

const (
	EOF Kind = iota
	Ident
	Number
	String
	Char

	// Punctuation and operators. Multi-character operators are lexed
	// greedily (longest match) so `<<=` never splits into `<<` and `=`.
	LParen
	RParen
	LBrace
	RBrace
	LBracket
	RBracket
	Comma
	Semi
	Colon
	ColonColon
	Dot
	DotDot
	Question
	Arrow // ->
	FatArrow // =>
	At

	Assign   // =
	Eq       // ==
	Ne       // !=
	Lt       // <
	Gt       // >
	Le       // <=
	Ge       // >=
	AndAnd   // &&
	OrOr     // ||
	Not      // !
	Amp      // &
	Pipe     // |
	Caret    // ^
	Tilde    // ~
	Shl      // <<
	Shr      // >>
	Plus     // +
	Minus    // -
	Star     // *
	Slash    // /
	Percent  // %
	PlusPlus
	MinusMinus

	PlusEq
	MinusEq
	StarEq
	SlashEq
	PercentEq
	AmpEq
	PipeEq
	CaretEq
	ShlEq
	ShrEq

	// Keywords.
	KwNamespace
	KwImport
	KwStruct
	KwClass
	KwUnion
	KwTrait
	KwExtension
	KwEnum
	KwLet
	KwVar
	KwFunc
	KwInit
	KwDeinit
	KwOperator
	KwGet
	KwSet
	KwSubscript
	KwProperty
	KwIf
	KwElse
	KwWhile
	KwDo
	KwRepeat
	KwFor
	KwSwitch
	KwCase
	KwDefault
	KwBreak
	KwContinue
	KwFallthrough
	KwReturn
	KwGoto
	KwCatch
	KwTry
	KwThrows
	KwAs
	KwIs
	KwHas
	KwTrue
	KwFalse
	KwSelf
	KwBase
	KwStatic
	KwConst
	KwMut
	KwVirtual
	KwOverride
	KwAbstract
	KwExtern
	KwPublic
	KwPrivate
	KwInternal
	KwProtected
	KwWhere
	KwIn
	KwFn
	KwTemplate
	KwAlias
	KwSuffix
	KwRequires
	KwEnsures
)

// Token is one lexical unit: its kind, literal text as written, and source
// range.
type Token struct {
	Kind Kind
	Text string
	Pos  ast.Range
}

var keywords = map[string]Kind{
	"namespace":    KwNamespace,
	"import":       KwImport,
	"struct":       KwStruct,
	"class":        KwClass,
	"union":        KwUnion,
	"trait":        KwTrait,
	"extension":    KwExtension,
	"enum":         KwEnum,
	"let":          KwLet,
	"var":          KwVar,
	"func":         KwFunc,
	"init":         KwInit,
	"deinit":       KwDeinit,
	"operator":     KwOperator,
	"get":          KwGet,
	"set":          KwSet,
	"subscript":    KwSubscript,
	"property":     KwProperty,
	"if":           KwIf,
	"else":         KwElse,
	"while":        KwWhile,
	"do":           KwDo,
	"repeat":       KwRepeat,
	"for":          KwFor,
	"switch":       KwSwitch,
	"case":         KwCase,
	"default":      KwDefault,
	"break":        KwBreak,
	"continue":     KwContinue,
	"fallthrough":  KwFallthrough,
	"return":       KwReturn,
	"goto":         KwGoto,
	"catch":        KwCatch,
	"try":          KwTry,
	"throws":       KwThrows,
	"as":           KwAs,
	"is":           KwIs,
	"has":          KwHas,
	"true":         KwTrue,
	"false":        KwFalse,
	"self":         KwSelf,
	"base":         KwBase,
	"static":       KwStatic,
	"const":        KwConst,
	"mut":          KwMut,
	"virtual":      KwVirtual,
	"override":     KwOverride,
	"abstract":     KwAbstract,
	"extern":       KwExtern,
	"public":       KwPublic,
	"private":      KwPrivate,
	"internal":     KwInternal,
	"protected":    KwProtected,
	"where":        KwWhere,
	"in":           KwIn,
	"fn":           KwFn,
	"template":     KwTemplate,
	"alias":        KwAlias,
	"suffix":       KwSuffix,
	"requires":     KwRequires,
	"ensures":      KwEnsures,
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "?"
}

var kindNames = map[Kind]string{
	EOF: "eof", Ident: "identifier", Number: "number", String: "string", Char: "char",
	LParen: "(", RParen: ")", LBrace: "{", RBrace: "}", LBracket: "[", RBracket: "]",
	Comma: ",", Semi: ";", Colon: ":", ColonColon: "::", Dot: ".", DotDot: "..",
	Question: "?", Arrow: "->", FatArrow: "=>", At: "@",
	Assign: "=", Eq: "==", Ne: "!=", Lt: "<", Gt: ">", Le: "<=", Ge: ">=",
	AndAnd: "&&", OrOr: "||", Not: "!", Amp: "&", Pipe: "|", Caret: "^", Tilde: "~",
	Shl: "<<", Shr: ">>", Plus: "+", Minus: "-", Star: "*", Slash: "/", Percent: "%",
	PlusPlus: "++", MinusMinus: "--",
	PlusEq: "+=", MinusEq: "-=", StarEq: "*=", SlashEq: "/=", PercentEq: "%=",
	AmpEq: "&=", PipeEq: "|=", CaretEq: "^=", ShlEq: "<<=", ShrEq: ">>=",
}
