// Package parser turns expression source text into a position-tagged
// syntax tree. It is a Pratt parser: each token type registers a prefix
// and/or infix parse function, and a precedence table drives the
// operator ladder. Parsing stops at the first error.
package parser

import (
	"fmt"

	"github.com/gexlang/gex/internal/ast"
	"github.com/gexlang/gex/internal/diagnostics"
	"github.com/gexlang/gex/internal/lexer"
	"github.com/gexlang/gex/internal/token"
	"github.com/gexlang/gex/internal/types"
)

// Operator precedence, loosest to tightest. Lambda bodies and if/let
// swallow everything to their right. Equality binds tighter than
// ordering comparison, and exponentiation binds tighter than unary
// minus, so -2 ** 2 is -(2 ** 2).
const (
	_ int = iota
	LOWEST
	ARROW   // =>
	OR      // || |
	AND     // && &
	COMPARE // <= >= < >
	EQUALS  // == !=
	SUM     // + -
	PRODUCT // * // / %
	MATCH   // ~
	UNARY   // prefix - + !
	POWER   // **
	POSTFIX // . [
)

var precedences = map[token.Type]int{
	token.ARROW:    ARROW,
	token.OROR:     OR,
	token.PIPE:     OR,
	token.ANDAND:   AND,
	token.AMP:      AND,
	token.LTE:      COMPARE,
	token.GTE:      COMPARE,
	token.LT:       COMPARE,
	token.GT:       COMPARE,
	token.EQ:       EQUALS,
	token.NEQ:      EQUALS,
	token.PLUS:     SUM,
	token.MINUS:    SUM,
	token.STAR:     PRODUCT,
	token.FDIV:     PRODUCT,
	token.SLASH:    PRODUCT,
	token.PERCENT:  PRODUCT,
	token.TILDE:    MATCH,
	token.POW:      POWER,
	token.DOT:      POSTFIX,
	token.LBRACKET: POSTFIX,
}

// MaxDepth bounds expression nesting so malformed input cannot exhaust
// the stack.
const MaxDepth = 500

type (
	prefixParseFn func() ast.Expression
	infixParseFn  func(ast.Expression) ast.Expression
)

type Parser struct {
	l *lexer.Lexer

	curToken  token.Token
	peekToken token.Token

	prefixParseFns map[token.Type]prefixParseFn
	infixParseFns  map[token.Type]infixParseFn

	depth int
	err   *diagnostics.Error
}

// Parse parses a single expression, requiring the whole input to match.
func Parse(input string) (ast.Expression, error) {
	p := newParser(input)
	expr := p.parseExpression(LOWEST)
	if expr == nil {
		return nil, p.takeErr()
	}
	if !p.expectDone() {
		return nil, p.takeErr()
	}
	return expr, nil
}

// ParseNamedList parses a comma-separated list of optionally named
// expressions: each entry is `path = expr` or a bare expression, where
// the path is a dotted identifier chain.
func ParseNamedList(input string) ([]*ast.NamedExpr, error) {
	p := newParser(input)
	var list []*ast.NamedExpr
	for {
		ne := p.parseNamedExpr()
		if ne == nil {
			return nil, p.takeErr()
		}
		list = append(list, ne)
		if !p.peekTokenIs(token.COMMA) {
			break
		}
		p.nextToken()
		p.nextToken()
	}
	if !p.expectDone() {
		return nil, p.takeErr()
	}
	return list, nil
}

// ParseType parses a type literal, requiring the whole input to match.
func ParseType(input string) (types.Type, error) {
	p := newParser(input)
	t := p.parseType()
	if t == nil {
		return nil, p.takeErr()
	}
	if !p.expectDone() {
		return nil, p.takeErr()
	}
	return t, nil
}

func newParser(input string) *Parser {
	p := &Parser{
		l:              lexer.New(input),
		prefixParseFns: make(map[token.Type]prefixParseFn),
		infixParseFns:  make(map[token.Type]infixParseFn),
	}

	p.registerPrefix(token.IDENT, p.parseIdentifier)
	p.registerPrefix(token.INT, p.parseIntLiteral)
	p.registerPrefix(token.INT64, p.parseInt64Literal)
	p.registerPrefix(token.FLOAT, p.parseFloatLiteral)
	p.registerPrefix(token.STRING, p.parseStringLiteral)
	p.registerPrefix(token.TRUE, p.parseBoolLiteral)
	p.registerPrefix(token.FALSE, p.parseBoolLiteral)
	p.registerPrefix(token.NA, p.parseMissingLiteral)
	p.registerPrefix(token.IF, p.parseIfExpression)
	p.registerPrefix(token.LET, p.parseLetExpression)
	p.registerPrefix(token.MINUS, p.parsePrefixExpression)
	p.registerPrefix(token.PLUS, p.parsePrefixExpression)
	p.registerPrefix(token.BANG, p.parsePrefixExpression)
	p.registerPrefix(token.LPAREN, p.parseGroupedExpression)
	p.registerPrefix(token.LBRACKET, p.parseArrayLiteral)
	p.registerPrefix(token.LBRACE, p.parseBracedExpression)

	p.registerInfix(token.ARROW, p.parseLambda)
	for _, t := range []token.Type{
		token.OROR, token.PIPE, token.ANDAND, token.AMP,
		token.LTE, token.GTE, token.LT, token.GT,
		token.EQ, token.NEQ,
		token.PLUS, token.MINUS,
		token.STAR, token.FDIV, token.SLASH, token.PERCENT,
		token.TILDE, token.POW,
	} {
		p.registerInfix(t, p.parseInfixExpression)
	}
	p.registerInfix(token.DOT, p.parseDotExpression)
	p.registerInfix(token.LBRACKET, p.parseIndexExpression)

	p.nextToken()
	p.nextToken()
	return p
}

func (p *Parser) registerPrefix(t token.Type, fn prefixParseFn) {
	p.prefixParseFns[t] = fn
}

func (p *Parser) registerInfix(t token.Type, fn infixParseFn) {
	p.infixParseFns[t] = fn
}

func (p *Parser) parseExpression(precedence int) ast.Expression {
	p.depth++
	defer func() { p.depth-- }()
	if p.depth > MaxDepth {
		p.fail(p.curToken.Pos, "expression too deeply nested")
		return nil
	}

	prefix := p.prefixParseFns[p.curToken.Type]
	if prefix == nil {
		p.fail(p.curToken.Pos, "expected expression, found %s", describe(p.curToken))
		return nil
	}
	left := prefix()

	for left != nil && precedence < p.peekPrecedence() {
		infix := p.infixParseFns[p.peekToken.Type]
		if infix == nil {
			return left
		}
		p.nextToken()
		left = infix(left)
	}
	return left
}

func (p *Parser) parseNamedExpr() *ast.NamedExpr {
	tok := p.curToken
	expr := p.parseExpression(LOWEST)
	if expr == nil {
		return nil
	}
	if !p.peekTokenIs(token.ASSIGN) {
		return &ast.NamedExpr{Token: tok, Expr: expr}
	}

	path, ok := exprToPath(expr)
	if !ok {
		p.fail(expr.GetToken().Pos, "left-hand side of '=' must be a dotted name")
		return nil
	}
	p.nextToken()
	p.nextToken()
	value := p.parseExpression(LOWEST)
	if value == nil {
		return nil
	}
	return &ast.NamedExpr{Token: tok, Path: path, Expr: value}
}

// exprToPath reinterprets an already-parsed expression as an assignment
// path: an identifier or a chain of field selections on one.
func exprToPath(e ast.Expression) ([]string, bool) {
	switch n := e.(type) {
	case *ast.Identifier:
		return []string{n.Value}, true
	case *ast.SelectExpression:
		prefix, ok := exprToPath(n.Receiver)
		if !ok {
			return nil, false
		}
		return append(prefix, n.Field), true
	}
	return nil, false
}

func (p *Parser) nextToken() {
	p.curToken = p.peekToken
	p.peekToken = p.l.NextToken()
	if p.peekToken.Type == token.ILLEGAL && p.err == nil {
		if lerr := p.l.Err(); lerr != nil {
			p.err = lerr
		} else {
			p.err = diagnostics.NewSyntax(p.peekToken.Pos, "unexpected character %q", p.peekToken.Lexeme)
		}
	}
}

func (p *Parser) curTokenIs(t token.Type) bool  { return p.curToken.Type == t }
func (p *Parser) peekTokenIs(t token.Type) bool { return p.peekToken.Type == t }

// expectPeek advances onto the peek token when it has the wanted type
// and reports a syntax error otherwise.
func (p *Parser) expectPeek(t token.Type) bool {
	if p.peekTokenIs(t) {
		p.nextToken()
		return true
	}
	p.fail(p.peekToken.Pos, "expected '%s', found %s", t, describe(p.peekToken))
	return false
}

// expectDone requires that the whole input was consumed.
func (p *Parser) expectDone() bool {
	if p.peekTokenIs(token.EOF) {
		return true
	}
	p.fail(p.peekToken.Pos, "unexpected %s", describe(p.peekToken))
	return false
}

func (p *Parser) peekPrecedence() int {
	if prec, ok := precedences[p.peekToken.Type]; ok {
		return prec
	}
	return LOWEST
}

func (p *Parser) curPrecedence() int {
	if prec, ok := precedences[p.curToken.Type]; ok {
		return prec
	}
	return LOWEST
}

// fail records the first error; later errors are cascades and dropped.
func (p *Parser) fail(pos token.Position, format string, args ...any) {
	if p.err == nil {
		p.err = diagnostics.NewSyntax(pos, format, args...)
	}
}

// takeErr returns the recorded error, never a typed nil.
func (p *Parser) takeErr() error {
	if p.err != nil {
		return p.err
	}
	return diagnostics.NewSyntax(p.curToken.Pos, "invalid expression")
}

func describe(tok token.Token) string {
	switch tok.Type {
	case token.EOF:
		return "end of input"
	case token.STRING:
		return fmt.Sprintf("string %s", tok.Lexeme)
	default:
		return fmt.Sprintf("%q", tok.Lexeme)
	}
}
