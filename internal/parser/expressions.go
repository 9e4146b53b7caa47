package parser

import (
	"strconv"

	"github.com/gexlang/gex/internal/ast"
	"github.com/gexlang/gex/internal/token"
)

func (p *Parser) parseIdentifier() ast.Expression {
	if !p.peekTokenIs(token.LPAREN) {
		return &ast.Identifier{Token: p.curToken, Value: p.curToken.Literal}
	}

	tok := p.curToken
	name := p.curToken.Literal
	p.nextToken()
	args, ok := p.parseExpressionList(token.RPAREN)
	if !ok {
		return nil
	}

	// A genome-parameterized constructor is a call applied to a second
	// argument list, e.g. Locus(GRCh38)("1", 100). The first list must be
	// a single bare identifier naming the reference genome.
	if p.peekTokenIs(token.LPAREN) && isGenomeConstructor(name) && len(args) == 1 {
		if rg, isIdent := args[0].(*ast.Identifier); isIdent {
			p.nextToken()
			ctorArgs, ok := p.parseExpressionList(token.RPAREN)
			if !ok {
				return nil
			}
			return &ast.GenomeConstructor{Token: tok, Name: name, RG: rg.Value, Args: ctorArgs}
		}
	}
	return &ast.CallExpression{Token: tok, Function: name, Args: args}
}

func isGenomeConstructor(name string) bool {
	switch name {
	case "Locus", "Variant", "Interval":
		return true
	}
	return false
}

func (p *Parser) parseIntLiteral() ast.Expression {
	v, err := strconv.ParseInt(p.curToken.Literal, 10, 32)
	if err != nil {
		p.fail(p.curToken.Pos, "integer literal %s does not fit in 32 bits; use an Int64 literal such as %sL", p.curToken.Lexeme, p.curToken.Lexeme)
		return nil
	}
	return &ast.IntLiteral{Token: p.curToken, Value: int32(v)}
}

func (p *Parser) parseInt64Literal() ast.Expression {
	v, err := strconv.ParseInt(p.curToken.Literal, 10, 64)
	if err != nil {
		p.fail(p.curToken.Pos, "integer literal %s does not fit in 64 bits", p.curToken.Lexeme)
		return nil
	}
	return &ast.Int64Literal{Token: p.curToken, Value: v}
}

func (p *Parser) parseFloatLiteral() ast.Expression {
	v, err := strconv.ParseFloat(p.curToken.Literal, 64)
	if err != nil {
		p.fail(p.curToken.Pos, "invalid float literal %s", p.curToken.Lexeme)
		return nil
	}
	return &ast.FloatLiteral{Token: p.curToken, Value: v}
}

func (p *Parser) parseStringLiteral() ast.Expression {
	return &ast.StringLiteral{Token: p.curToken, Value: p.curToken.Literal}
}

func (p *Parser) parseBoolLiteral() ast.Expression {
	return &ast.BoolLiteral{Token: p.curToken, Value: p.curTokenIs(token.TRUE)}
}

// parseMissingLiteral parses NA: Type. The annotation is mandatory since
// a missing value is meaningless without a type.
func (p *Parser) parseMissingLiteral() ast.Expression {
	tok := p.curToken
	if !p.expectPeek(token.COLON) {
		return nil
	}
	p.nextToken()
	t := p.parseType()
	if t == nil {
		return nil
	}
	return &ast.MissingLiteral{Token: tok, Annotation: t}
}

// parseIfExpression parses if (cond) cons else alt. The parentheses and
// the else branch are both required.
func (p *Parser) parseIfExpression() ast.Expression {
	tok := p.curToken
	if !p.expectPeek(token.LPAREN) {
		return nil
	}
	p.nextToken()
	cond := p.parseExpression(LOWEST)
	if cond == nil {
		return nil
	}
	if !p.expectPeek(token.RPAREN) {
		return nil
	}
	p.nextToken()
	cons := p.parseExpression(LOWEST)
	if cons == nil {
		return nil
	}
	if !p.expectPeek(token.ELSE) {
		return nil
	}
	p.nextToken()
	alt := p.parseExpression(LOWEST)
	if alt == nil {
		return nil
	}
	return &ast.IfExpression{Token: tok, Condition: cond, Consequence: cons, Alternative: alt}
}

// parseLetExpression parses let a = e1 and b = e2 in body. Later bindings
// may reference earlier ones.
func (p *Parser) parseLetExpression() ast.Expression {
	tok := p.curToken
	var bindings []*ast.LetBinding
	for {
		if !p.expectPeek(token.IDENT) {
			return nil
		}
		bind := &ast.LetBinding{Token: p.curToken, Name: p.curToken.Literal}
		if !p.expectPeek(token.ASSIGN) {
			return nil
		}
		p.nextToken()
		bind.Value = p.parseExpression(LOWEST)
		if bind.Value == nil {
			return nil
		}
		bindings = append(bindings, bind)
		if !p.peekTokenIs(token.AND) {
			break
		}
		p.nextToken()
	}
	if !p.expectPeek(token.IN) {
		return nil
	}
	p.nextToken()
	body := p.parseExpression(LOWEST)
	if body == nil {
		return nil
	}
	return &ast.LetExpression{Token: tok, Bindings: bindings, Body: body}
}

func (p *Parser) parsePrefixExpression() ast.Expression {
	tok := p.curToken
	op := p.curToken.Lexeme
	p.nextToken()
	// Unary operators bind looser than ** so that -2 ** 2 is -(2 ** 2).
	right := p.parseExpression(UNARY)
	if right == nil {
		return nil
	}
	return &ast.PrefixExpression{Token: tok, Operator: op, Right: right}
}

func (p *Parser) parseGroupedExpression() ast.Expression {
	p.nextToken()
	expr := p.parseExpression(LOWEST)
	if expr == nil {
		return nil
	}
	if !p.expectPeek(token.RPAREN) {
		return nil
	}
	return expr
}

// parseArrayLiteral parses [e, ...]. An empty [] parses fine; the checker
// rejects it because its element type cannot be inferred.
func (p *Parser) parseArrayLiteral() ast.Expression {
	tok := p.curToken
	elems, ok := p.parseExpressionList(token.RBRACKET)
	if !ok {
		return nil
	}
	return &ast.ArrayLiteral{Token: tok, Elements: elems}
}

// parseBracedExpression disambiguates {name: e, ...} struct literals from
// {e} braced sub-expressions by looking for a field name followed by a
// colon. {} is the empty struct.
func (p *Parser) parseBracedExpression() ast.Expression {
	tok := p.curToken
	if p.peekTokenIs(token.RBRACE) {
		p.nextToken()
		return &ast.StructLiteral{Token: tok}
	}
	p.nextToken()
	if p.curTokenIs(token.IDENT) && p.peekTokenIs(token.COLON) {
		return p.parseStructLiteral(tok)
	}
	expr := p.parseExpression(LOWEST)
	if expr == nil {
		return nil
	}
	if !p.expectPeek(token.RBRACE) {
		return nil
	}
	return expr
}

// parseStructLiteral parses the fields of {name: e, ...}. The caller has
// consumed '{' and cur sits on the first field name.
func (p *Parser) parseStructLiteral(tok token.Token) ast.Expression {
	lit := &ast.StructLiteral{Token: tok}
	for {
		if !p.curTokenIs(token.IDENT) {
			p.fail(p.curToken.Pos, "expected field name, found %s", describe(p.curToken))
			return nil
		}
		field := &ast.StructField{Token: p.curToken, Name: p.curToken.Literal}
		if !p.expectPeek(token.COLON) {
			return nil
		}
		p.nextToken()
		field.Value = p.parseExpression(LOWEST)
		if field.Value == nil {
			return nil
		}
		lit.Fields = append(lit.Fields, field)
		if !p.peekTokenIs(token.COMMA) {
			break
		}
		p.nextToken()
		p.nextToken()
	}
	if !p.expectPeek(token.RBRACE) {
		return nil
	}
	return lit
}

// parseLambda handles param => body. '=>' is wired as an infix operator,
// so by the time it fires the parameter has already been parsed as the
// left operand.
func (p *Parser) parseLambda(left ast.Expression) ast.Expression {
	param, ok := left.(*ast.Identifier)
	if !ok {
		p.fail(left.GetToken().Pos, "lambda parameter must be a single identifier")
		return nil
	}
	p.nextToken()
	body := p.parseExpression(LOWEST)
	if body == nil {
		return nil
	}
	return &ast.LambdaExpression{Token: param.Token, Param: param.Value, Body: body}
}

func (p *Parser) parseInfixExpression(left ast.Expression) ast.Expression {
	tok := p.curToken
	op := p.curToken.Lexeme
	prec := p.curPrecedence()
	p.nextToken()
	right := p.parseExpression(prec)
	if right == nil {
		return nil
	}
	return &ast.InfixExpression{Token: tok, Left: left, Operator: op, Right: right}
}

// parseDotExpression handles the postfix forms receiver.field,
// receiver.method(args) and receiver.* with cur on the dot.
func (p *Parser) parseDotExpression(left ast.Expression) ast.Expression {
	if p.peekTokenIs(token.STAR) {
		p.nextToken()
		return &ast.SplatExpression{Token: p.curToken, Receiver: left}
	}
	if !p.expectPeek(token.IDENT) {
		return nil
	}
	nameTok := p.curToken
	name := p.curToken.Literal
	if !p.peekTokenIs(token.LPAREN) {
		return &ast.SelectExpression{Token: nameTok, Receiver: left, Field: name}
	}
	p.nextToken()
	args, ok := p.parseExpressionList(token.RPAREN)
	if !ok {
		return nil
	}
	return &ast.MethodCallExpression{Token: nameTok, Receiver: left, Method: name, Args: args}
}

// parseIndexExpression handles receiver[i] indexing and the slice forms
// receiver[:], receiver[a:], receiver[:b] and receiver[a:b] with cur on
// the opening bracket.
func (p *Parser) parseIndexExpression(left ast.Expression) ast.Expression {
	tok := p.curToken

	if p.peekTokenIs(token.COLON) {
		p.nextToken()
		if p.peekTokenIs(token.RBRACKET) {
			p.nextToken()
			return &ast.SliceExpression{Token: tok, Receiver: left}
		}
		p.nextToken()
		end := p.parseExpression(LOWEST)
		if end == nil {
			return nil
		}
		if !p.expectPeek(token.RBRACKET) {
			return nil
		}
		return &ast.SliceExpression{Token: tok, Receiver: left, End: end}
	}

	p.nextToken()
	first := p.parseExpression(LOWEST)
	if first == nil {
		return nil
	}
	if p.peekTokenIs(token.COLON) {
		p.nextToken()
		if p.peekTokenIs(token.RBRACKET) {
			p.nextToken()
			return &ast.SliceExpression{Token: tok, Receiver: left, Start: first}
		}
		p.nextToken()
		end := p.parseExpression(LOWEST)
		if end == nil {
			return nil
		}
		if !p.expectPeek(token.RBRACKET) {
			return nil
		}
		return &ast.SliceExpression{Token: tok, Receiver: left, Start: first, End: end}
	}
	if !p.expectPeek(token.RBRACKET) {
		return nil
	}
	return &ast.IndexExpression{Token: tok, Receiver: left, Index: first}
}

// parseExpressionList parses a comma-separated list terminated by end.
// The caller has consumed the opening delimiter; on success cur sits on
// the closing one.
func (p *Parser) parseExpressionList(end token.Type) ([]ast.Expression, bool) {
	list := []ast.Expression{}
	if p.peekTokenIs(end) {
		p.nextToken()
		return list, true
	}
	p.nextToken()
	expr := p.parseExpression(LOWEST)
	if expr == nil {
		return nil, false
	}
	list = append(list, expr)
	for p.peekTokenIs(token.COMMA) {
		p.nextToken()
		p.nextToken()
		expr = p.parseExpression(LOWEST)
		if expr == nil {
			return nil, false
		}
		list = append(list, expr)
	}
	if !p.expectPeek(end) {
		return nil, false
	}
	return list, true
}
