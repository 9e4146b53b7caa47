package lexer

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/gexlang/gex/internal/diagnostics"
	"github.com/gexlang/gex/internal/token"
)

type Lexer struct {
	input        string
	lines        []string
	position     int  // current position in input (points to current char)
	readPosition int  // current reading position in input (after current char)
	ch           rune // current char under examination
	line         int  // current line number
	column       int  // current column number, in display characters
	err          *diagnostics.Error
}

func New(input string) *Lexer {
	l := &Lexer{
		input: input,
		lines: strings.Split(input, "\n"),
		line:  1,
	}
	l.readChar()
	return l
}

// Err returns the first lexical diagnostic, if any. A non-nil result always
// accompanies an ILLEGAL token from NextToken.
func (l *Lexer) Err() *diagnostics.Error { return l.err }

func (l *Lexer) readChar() {
	if l.ch == '\n' {
		l.line++
		l.column = 0
	}

	if l.readPosition >= len(l.input) {
		l.ch = 0
		l.position = l.readPosition
		l.readPosition++
		l.column++
		return
	}

	r, w := utf8.DecodeRuneInString(l.input[l.readPosition:])
	l.ch = r
	l.position = l.readPosition
	l.readPosition += w
	l.column++
}

func (l *Lexer) peekChar() rune {
	if l.readPosition >= len(l.input) {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(l.input[l.readPosition:])
	return r
}

func (l *Lexer) lineText(line int) string {
	if line >= 1 && line <= len(l.lines) {
		return l.lines[line-1]
	}
	return ""
}

func (l *Lexer) pos() token.Position {
	return token.Position{Line: l.line, Column: l.column, SourceLine: l.lineText(l.line)}
}

func (l *Lexer) skipWhitespace() {
	for l.ch == ' ' || l.ch == '\t' || l.ch == '\n' || l.ch == '\r' {
		l.readChar()
	}
}

func (l *Lexer) NextToken() token.Token {
	l.skipWhitespace()

	pos := l.pos()

	switch l.ch {
	case 0:
		return token.Token{Type: token.EOF, Pos: pos}
	case '=':
		// =, ==, =>
		if l.peekChar() == '=' {
			l.readChar()
			l.readChar()
			return symbol(token.EQ, "==", pos)
		}
		if l.peekChar() == '>' {
			l.readChar()
			l.readChar()
			return symbol(token.ARROW, "=>", pos)
		}
		l.readChar()
		return symbol(token.ASSIGN, "=", pos)
	case '!':
		if l.peekChar() == '=' {
			l.readChar()
			l.readChar()
			return symbol(token.NEQ, "!=", pos)
		}
		l.readChar()
		return symbol(token.BANG, "!", pos)
	case '<':
		if l.peekChar() == '=' {
			l.readChar()
			l.readChar()
			return symbol(token.LTE, "<=", pos)
		}
		l.readChar()
		return symbol(token.LT, "<", pos)
	case '>':
		if l.peekChar() == '=' {
			l.readChar()
			l.readChar()
			return symbol(token.GTE, ">=", pos)
		}
		l.readChar()
		return symbol(token.GT, ">", pos)
	case '&':
		if l.peekChar() == '&' {
			l.readChar()
			l.readChar()
			return symbol(token.ANDAND, "&&", pos)
		}
		l.readChar()
		return symbol(token.AMP, "&", pos)
	case '|':
		if l.peekChar() == '|' {
			l.readChar()
			l.readChar()
			return symbol(token.OROR, "||", pos)
		}
		l.readChar()
		return symbol(token.PIPE, "|", pos)
	case '*':
		if l.peekChar() == '*' {
			l.readChar()
			l.readChar()
			return symbol(token.POW, "**", pos)
		}
		l.readChar()
		return symbol(token.STAR, "*", pos)
	case '/':
		// The grammar has no comments, so // is always floor division.
		if l.peekChar() == '/' {
			l.readChar()
			l.readChar()
			return symbol(token.FDIV, "//", pos)
		}
		l.readChar()
		return symbol(token.SLASH, "/", pos)
	case '+':
		l.readChar()
		return symbol(token.PLUS, "+", pos)
	case '-':
		l.readChar()
		return symbol(token.MINUS, "-", pos)
	case '%':
		l.readChar()
		return symbol(token.PERCENT, "%", pos)
	case '~':
		l.readChar()
		return symbol(token.TILDE, "~", pos)
	case '.':
		l.readChar()
		return symbol(token.DOT, ".", pos)
	case ',':
		l.readChar()
		return symbol(token.COMMA, ",", pos)
	case ':':
		l.readChar()
		return symbol(token.COLON, ":", pos)
	case '@':
		l.readChar()
		return symbol(token.AT, "@", pos)
	case '(':
		l.readChar()
		return symbol(token.LPAREN, "(", pos)
	case ')':
		l.readChar()
		return symbol(token.RPAREN, ")", pos)
	case '[':
		l.readChar()
		return symbol(token.LBRACKET, "[", pos)
	case ']':
		l.readChar()
		return symbol(token.RBRACKET, "]", pos)
	case '{':
		l.readChar()
		return symbol(token.LBRACE, "{", pos)
	case '}':
		l.readChar()
		return symbol(token.RBRACE, "}", pos)
	case '"', '\'':
		return l.readString(pos)
	case '`':
		return l.readBacktickIdent(pos)
	}

	if isDigit(l.ch) {
		return l.readNumber(pos)
	}
	if isIdentStart(l.ch) {
		return l.readIdentifier(pos)
	}

	bad := string(l.ch)
	l.readChar()
	l.fail(pos, "unexpected character %q", bad)
	return token.Token{Type: token.ILLEGAL, Lexeme: bad, Literal: bad, Pos: pos}
}

func symbol(t token.Type, lexeme string, pos token.Position) token.Token {
	return token.Token{Type: t, Lexeme: lexeme, Literal: lexeme, Pos: pos}
}

func (l *Lexer) fail(pos token.Position, format string, args ...any) {
	if l.err == nil {
		l.err = diagnostics.NewSyntax(pos, format, args...)
	}
}

func isIdentStart(ch rune) bool {
	return ch == '_' || unicode.IsLetter(ch)
}

func isIdentPart(ch rune) bool {
	return ch == '_' || unicode.IsLetter(ch) || unicode.IsDigit(ch)
}

func isDigit(ch rune) bool {
	return '0' <= ch && ch <= '9'
}

func (l *Lexer) readIdentifier(pos token.Position) token.Token {
	start := l.position
	for isIdentPart(l.ch) {
		l.readChar()
	}
	name := l.input[start:l.position]
	return token.Token{Type: token.LookupIdent(name), Lexeme: name, Literal: name, Pos: pos}
}

// readNumber scans an integer or float literal. A fraction or exponent makes
// the literal a float; a trailing L marks a 64-bit integer. The decoded
// Literal drops the L suffix.
func (l *Lexer) readNumber(pos token.Position) token.Token {
	start := l.position
	for isDigit(l.ch) {
		l.readChar()
	}

	isFloat := false
	if l.ch == '.' && isDigit(l.peekChar()) {
		isFloat = true
		l.readChar() // .
		for isDigit(l.ch) {
			l.readChar()
		}
	}
	if (l.ch == 'e' || l.ch == 'E') && l.exponentFollows() {
		isFloat = true
		l.readChar() // e
		if l.ch == '+' || l.ch == '-' {
			l.readChar()
		}
		for isDigit(l.ch) {
			l.readChar()
		}
	}

	text := l.input[start:l.position]
	if isFloat {
		return token.Token{Type: token.FLOAT, Lexeme: text, Literal: text, Pos: pos}
	}
	if l.ch == 'L' {
		l.readChar()
		return token.Token{Type: token.INT64, Lexeme: text + "L", Literal: text, Pos: pos}
	}
	return token.Token{Type: token.INT, Lexeme: text, Literal: text, Pos: pos}
}

// exponentFollows reports whether the characters after the current e/E form
// an exponent: an optional sign followed by at least one digit. Without a
// digit the e belongs to an identifier, as in 1e or 2exp.
func (l *Lexer) exponentFollows() bool {
	next := l.peekChar()
	if isDigit(next) {
		return true
	}
	if next != '+' && next != '-' {
		return false
	}
	_, w := utf8.DecodeRuneInString(l.input[l.readPosition:])
	afterSign := l.readPosition + w
	if afterSign >= len(l.input) {
		return false
	}
	r, _ := utf8.DecodeRuneInString(l.input[afterSign:])
	return isDigit(r)
}

func (l *Lexer) readString(pos token.Position) token.Token {
	decoded, lexeme, ok := l.readQuoted(l.ch, pos, "string literal")
	if !ok {
		return token.Token{Type: token.ILLEGAL, Lexeme: lexeme, Literal: lexeme, Pos: pos}
	}
	return token.Token{Type: token.STRING, Lexeme: lexeme, Literal: decoded, Pos: pos}
}

// readBacktickIdent scans a `quoted` identifier, which admits characters a
// bare identifier cannot carry, such as spaces or leading digits.
func (l *Lexer) readBacktickIdent(pos token.Position) token.Token {
	decoded, lexeme, ok := l.readQuoted('`', pos, "backtick identifier")
	if !ok {
		return token.Token{Type: token.ILLEGAL, Lexeme: lexeme, Literal: lexeme, Pos: pos}
	}
	if decoded == "" {
		l.fail(pos, "empty backtick identifier")
		return token.Token{Type: token.ILLEGAL, Lexeme: lexeme, Literal: lexeme, Pos: pos}
	}
	return token.Token{Type: token.IDENT, Lexeme: lexeme, Literal: decoded, Pos: pos}
}

// readQuoted scans a delimited literal to the matching unescaped delimiter
// and unescapes its content. Double quotes, single quotes and backticks all
// share this routine. An invalid escape is reported at the backslash itself,
// an unterminated literal at its opening delimiter.
func (l *Lexer) readQuoted(delim rune, open token.Position, what string) (decoded, lexeme string, ok bool) {
	start := l.position
	l.readChar() // opening delimiter

	var b strings.Builder
	for {
		switch l.ch {
		case 0:
			l.fail(open, "unterminated %s", what)
			return "", l.input[start:l.position], false
		case delim:
			l.readChar() // closing delimiter
			return b.String(), l.input[start:l.position], true
		case '\\':
			escPos := l.pos()
			l.readChar()
			r, ok := l.unescape(escPos)
			if !ok {
				// Resync past the closing delimiter; the recorded
				// diagnostic is what the caller reports.
				for l.ch != 0 && l.ch != delim {
					l.readChar()
				}
				if l.ch == delim {
					l.readChar()
				}
				return "", l.input[start:l.position], false
			}
			b.WriteRune(r)
		default:
			b.WriteRune(l.ch)
			l.readChar()
		}
	}
}

// unescape decodes the character after a backslash. The backslash is already
// consumed; escPos is its position, used for the diagnostic.
func (l *Lexer) unescape(escPos token.Position) (rune, bool) {
	ch := l.ch
	l.readChar()
	switch ch {
	case 't':
		return '\t', true
	case 'n':
		return '\n', true
	case 'r':
		return '\r', true
	case 'b':
		return '\b', true
	case 'f':
		return '\f', true
	case '\\':
		return '\\', true
	case '"':
		return '"', true
	case '\'':
		return '\'', true
	case '`':
		return '`', true
	case 'u':
		var val rune
		for i := 0; i < 4; i++ {
			d, ok := hexDigit(l.ch)
			if !ok {
				l.fail(escPos, "invalid unicode escape: expected 4 hex digits after \\u")
				return 0, false
			}
			val = val<<4 | d
			l.readChar()
		}
		return val, true
	case 0:
		l.fail(escPos, "unterminated escape sequence")
		return 0, false
	default:
		l.fail(escPos, "invalid escape character '\\%c'", ch)
		return 0, false
	}
}

func hexDigit(ch rune) (rune, bool) {
	switch {
	case '0' <= ch && ch <= '9':
		return ch - '0', true
	case 'a' <= ch && ch <= 'f':
		return ch - 'a' + 10, true
	case 'A' <= ch && ch <= 'F':
		return ch - 'A' + 10, true
	}
	return 0, false
}
