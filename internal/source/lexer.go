package source

import (
	"strings"

	"github.com/oxhq/midc/internal/ast"
	"github.com/oxhq/midc/internal/diag"
)

// lexer turns source text into a token stream. It is not reentrant and not
// safe for concurrent use; one lexer belongs to exactly one parser, which
// belongs to exactly one ParseFile call.
type lexer struct {
	file string
	src  []byte
	pos  int

	line, col int

	sink *diag.Sink
}

func newLexer(file string, src []byte, sink *diag.Sink) *lexer {
	return &lexer{file: file, src: src, line: 1, col: 1, sink: sink}
}

func (l *lexer) here() ast.Position { return ast.Position{Line: l.line, Column: l.col} }

func (l *lexer) peekByte() byte {
	if l.pos >= len(l.src) {
		return 0
	}
	return l.src[l.pos]
}

func (l *lexer) peekByteAt(offset int) byte {
	if l.pos+offset >= len(l.src) {
		return 0
	}
	return l.src[l.pos+offset]
}

func (l *lexer) advance() byte {
	b := l.src[l.pos]
	l.pos++
	if b == '\n' {
		l.line++
		l.col = 1
	} else {
		l.col++
	}
	return b
}

func (l *lexer) errf(start ast.Position, format string, args ...any) {
	l.sink.Error(diag.New(diag.KindInternal, l.file, ast.Range{Start: start, End: l.here()}, format, args...))
}

// Next scans and returns the next token, skipping whitespace and comments.
// Lexical errors (an unterminated string, an unrecognized byte) are reported
// to the sink and the lexer stops advancing meaningfully past that point —
// this front end does not attempt lexical error recovery.
func (l *lexer) Next() Token {
	l.skipTrivia()
	start := l.here()

	if l.pos >= len(l.src) {
		return Token{Kind: EOF, Pos: ast.Range{Start: start, End: start}}
	}

	b := l.peekByte()
	switch {
	case isIdentStart(b):
		return l.scanIdent(start)
	case isDigit(b):
		return l.scanNumber(start)
	case b == '"':
		return l.scanString(start)
	case b == '\'':
		return l.scanChar(start)
	}

	return l.scanOperator(start)
}

func (l *lexer) skipTrivia() {
	for l.pos < len(l.src) {
		b := l.peekByte()
		switch {
		case b == ' ' || b == '\t' || b == '\r' || b == '\n':
			l.advance()
		case b == '/' && l.peekByteAt(1) == '/':
			for l.pos < len(l.src) && l.peekByte() != '\n' {
				l.advance()
			}
		case b == '/' && l.peekByteAt(1) == '*':
			l.advance()
			l.advance()
			for l.pos < len(l.src) && !(l.peekByte() == '*' && l.peekByteAt(1) == '/') {
				l.advance()
			}
			if l.pos < len(l.src) {
				l.advance()
				l.advance()
			}
		default:
			return
		}
	}
}

func isIdentStart(b byte) bool {
	return b == '_' || (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}

func isIdentCont(b byte) bool { return isIdentStart(b) || isDigit(b) }

func isDigit(b byte) bool { return b >= '0' && b <= '9' }

func (l *lexer) scanIdent(start ast.Position) Token {
	var b strings.Builder
	for l.pos < len(l.src) && isIdentCont(l.peekByte()) {
		b.WriteByte(l.advance())
	}
	text := b.String()
	kind := Ident
	if kw, ok := keywords[text]; ok {
		kind = kw
	}
	return Token{Kind: kind, Text: text, Pos: ast.Range{Start: start, End: l.here()}}
}

// scanNumber accepts decimal, hex (0x), binary (0b) integer literals, and
// decimal floats with an optional exponent and a trailing type suffix
// (`1_000u32`, `3.14f32`); the suffix and underscores are kept verbatim in
// Text for the code processor's constant-folding pass to interpret.
func (l *lexer) scanNumber(start ast.Position) Token {
	var b strings.Builder
	if l.peekByte() == '0' && (l.peekByteAt(1) == 'x' || l.peekByteAt(1) == 'X' || l.peekByteAt(1) == 'b' || l.peekByteAt(1) == 'B') {
		b.WriteByte(l.advance())
		b.WriteByte(l.advance())
		for l.pos < len(l.src) && (isIdentCont(l.peekByte())) {
			b.WriteByte(l.advance())
		}
		return Token{Kind: Number, Text: b.String(), Pos: ast.Range{Start: start, End: l.here()}}
	}
	for l.pos < len(l.src) && (isDigit(l.peekByte()) || l.peekByte() == '_') {
		b.WriteByte(l.advance())
	}
	if l.peekByte() == '.' && isDigit(l.peekByteAt(1)) {
		b.WriteByte(l.advance())
		for l.pos < len(l.src) && (isDigit(l.peekByte()) || l.peekByte() == '_') {
			b.WriteByte(l.advance())
		}
	}
	if l.peekByte() == 'e' || l.peekByte() == 'E' {
		b.WriteByte(l.advance())
		if l.peekByte() == '+' || l.peekByte() == '-' {
			b.WriteByte(l.advance())
		}
		for l.pos < len(l.src) && isDigit(l.peekByte()) {
			b.WriteByte(l.advance())
		}
	}
	for l.pos < len(l.src) && isIdentCont(l.peekByte()) {
		b.WriteByte(l.advance())
	}
	return Token{Kind: Number, Text: b.String(), Pos: ast.Range{Start: start, End: l.here()}}
}

func (l *lexer) scanString(start ast.Position) Token {
	l.advance() // opening quote
	var b strings.Builder
	for l.pos < len(l.src) && l.peekByte() != '"' {
		c := l.advance()
		if c == '\\' && l.pos < len(l.src) {
			b.WriteByte(c)
			b.WriteByte(l.advance())
			continue
		}
		b.WriteByte(c)
	}
	if l.pos >= len(l.src) {
		l.errf(start, "unterminated string literal")
		return Token{Kind: String, Text: b.String(), Pos: ast.Range{Start: start, End: l.here()}}
	}
	l.advance() // closing quote
	return Token{Kind: String, Text: b.String(), Pos: ast.Range{Start: start, End: l.here()}}
}

func (l *lexer) scanChar(start ast.Position) Token {
	l.advance() // opening quote
	var b strings.Builder
	for l.pos < len(l.src) && l.peekByte() != '\'' {
		c := l.advance()
		if c == '\\' && l.pos < len(l.src) {
			b.WriteByte(c)
			b.WriteByte(l.advance())
			continue
		}
		b.WriteByte(c)
	}
	if l.pos >= len(l.src) {
		l.errf(start, "unterminated char literal")
		return Token{Kind: Char, Text: b.String(), Pos: ast.Range{Start: start, End: l.here()}}
	}
	l.advance()
	return Token{Kind: Char, Text: b.String(), Pos: ast.Range{Start: start, End: l.here()}}
}

// twoByte/threeByte operators are matched longest-first so a greedy single
// scanOperator call never needs backtracking.
var threeByteOps = map[string]Kind{
	"<<=": ShlEq, ">>=": ShrEq, "...": DotDot, // ".." already covers range; ... folds to DotDot too
}

var twoByteOps = map[string]Kind{
	"==": Eq, "!=": Ne, "<=": Le, ">=": Ge, "&&": AndAnd, "||": OrOr,
	"<<": Shl, ">>": Shr, "++": PlusPlus, "--": MinusMinus,
	"+=": PlusEq, "-=": MinusEq, "*=": StarEq, "/=": SlashEq, "%=": PercentEq,
	"&=": AmpEq, "|=": PipeEq, "^=": CaretEq, "::": ColonColon, "->": Arrow,
	"=>": FatArrow, "..": DotDot,
}

var oneByteOps = map[byte]Kind{
	'(': LParen, ')': RParen, '{': LBrace, '}': RBrace, '[': LBracket, ']': RBracket,
	',': Comma, ';': Semi, ':': Colon, '.': Dot, '?': Question, '@': At,
	'=': Assign, '<': Lt, '>': Gt, '&': Amp, '|': Pipe, '^': Caret, '~': Tilde,
	'!': Not, '+': Plus, '-': Minus, '*': Star, '/': Slash, '%': Percent,
}

func (l *lexer) scanOperator(start ast.Position) Token {
	if l.pos+3 <= len(l.src) {
		if kind, ok := threeByteOps[string(l.src[l.pos:l.pos+3])]; ok {
			l.advance()
			l.advance()
			l.advance()
			return Token{Kind: kind, Text: kindNames[kind], Pos: ast.Range{Start: start, End: l.here()}}
		}
	}
	if l.pos+2 <= len(l.src) {
		if kind, ok := twoByteOps[string(l.src[l.pos:l.pos+2])]; ok {
			l.advance()
			l.advance()
			return Token{Kind: kind, Text: kindNames[kind], Pos: ast.Range{Start: start, End: l.here()}}
		}
	}
	b := l.peekByte()
	if kind, ok := oneByteOps[b]; ok {
		l.advance()
		return Token{Kind: kind, Text: string(b), Pos: ast.Range{Start: start, End: l.here()}}
	}

	l.errf(start, "unrecognized character %q", string(b))
	l.advance()
	return Token{Kind: EOF, Pos: ast.Range{Start: start, End: l.here()}}
}
