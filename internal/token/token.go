package token

import "fmt"

// Type identifies the lexical class of a token.
type Type int

const (
	ILLEGAL Type = iota
	EOF

	// Literals
	IDENT  // x, va, `weird name`
	INT    // 42
	INT64  // 42L
	FLOAT  // 1.5, 1e-3
	STRING // "hello", 'hello'

	// Keywords
	IF
	ELSE
	LET
	AND // the `and` of let-bindings, not boolean and
	IN
	NA
	TRUE
	FALSE

	// Operators
	OROR   // ||
	PIPE   // |
	ANDAND // &&
	AMP    // &
	LTE    // <=
	GTE    // >=
	LT     // <
	GT     // >
	EQ     // ==
	NEQ    // !=
	PLUS   // +
	MINUS  // -
	STAR   // *
	FDIV   // //
	SLASH  // /
	PERCENT
	TILDE // ~
	BANG  // !
	POW   // **
	ASSIGN
	ARROW // =>

	// Delimiters
	DOT
	COMMA
	COLON
	AT
	LPAREN
	RPAREN
	LBRACKET
	RBRACKET
	LBRACE
	RBRACE
)

var names = map[Type]string{
	ILLEGAL:  "ILLEGAL",
	EOF:      "end of input",
	IDENT:    "identifier",
	INT:      "integer literal",
	INT64:    "integer literal",
	FLOAT:    "float literal",
	STRING:   "string literal",
	IF:       "if",
	ELSE:     "else",
	LET:      "let",
	AND:      "and",
	IN:       "in",
	NA:       "NA",
	TRUE:     "true",
	FALSE:    "false",
	OROR:     "||",
	PIPE:     "|",
	ANDAND:   "&&",
	AMP:      "&",
	LTE:      "<=",
	GTE:      ">=",
	LT:       "<",
	GT:       ">",
	EQ:       "==",
	NEQ:      "!=",
	PLUS:     "+",
	MINUS:    "-",
	STAR:     "*",
	FDIV:     "//",
	SLASH:    "/",
	PERCENT:  "%",
	TILDE:    "~",
	BANG:     "!",
	POW:      "**",
	ASSIGN:   "=",
	ARROW:    "=>",
	DOT:      ".",
	COMMA:    ",",
	COLON:    ":",
	AT:       "@",
	LPAREN:   "(",
	RPAREN:   ")",
	LBRACKET: "[",
	RBRACKET: "]",
	LBRACE:   "{",
	RBRACE:   "}",
}

func (t Type) String() string {
	if s, ok := names[t]; ok {
		return s
	}
	return fmt.Sprintf("Type(%d)", int(t))
}

var keywords = map[string]Type{
	"if":    IF,
	"else":  ELSE,
	"let":   LET,
	"and":   AND,
	"in":    IN,
	"NA":    NA,
	"true":  TRUE,
	"false": FALSE,
}

// LookupIdent maps an identifier spelling to its keyword type, or IDENT.
func LookupIdent(ident string) Type {
	if t, ok := keywords[ident]; ok {
		return t
	}
	return IDENT
}

// Position locates a token in the source text. Column counts display
// characters (runes), 1-based; SourceLine is the full text of the line the
// token starts on, kept so diagnostics can render a caret under the column.
type Position struct {
	Line       int
	Column     int
	SourceLine string
}

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// Token is a single lexical element. Lexeme is the exact source text;
// Literal is the decoded payload where decoding applies (unescaped string
// contents, backtick identifier spelling, digits without the L suffix) and
// equals Lexeme otherwise.
type Token struct {
	Type    Type
	Lexeme  string
	Literal string
	Pos     Position
}

func (t Token) String() string {
	return fmt.Sprintf("%s %q at %s", t.Type, t.Lexeme, t.Pos)
}
