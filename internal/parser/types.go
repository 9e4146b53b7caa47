package parser

import (
	"github.com/gexlang/gex/internal/token"
	"github.com/gexlang/gex/internal/types"
)

// parseType parses the type-literal sub-grammar with cur on the first
// token of the type, leaving cur on its last. It backs both the
// ParseType entry point and NA: Type annotations.
func (p *Parser) parseType() types.Type {
	if p.curTokenIs(token.BANG) {
		p.nextToken()
		inner := p.parseType()
		if inner == nil {
			return nil
		}
		return types.Required(inner)
	}
	if !p.curTokenIs(token.IDENT) {
		p.fail(p.curToken.Pos, "expected type, found %s", describe(p.curToken))
		return nil
	}

	switch name := p.curToken.Literal; name {
	case "Boolean":
		return types.TBoolean
	case "Int", "Int32":
		return types.TInt32
	case "Int64":
		return types.TInt64
	case "Float", "Float64":
		return types.TFloat64
	case "Float32":
		return types.TFloat32
	case "String":
		return types.TString
	case "Call":
		return types.TCall
	case "AltAllele":
		return types.TAltAllele
	case "Empty":
		return types.Struct{}
	case "Array":
		elem := p.parseElemType()
		if elem == nil {
			return nil
		}
		return types.Array{Elem: elem}
	case "Set":
		elem := p.parseElemType()
		if elem == nil {
			return nil
		}
		return types.Set{Elem: elem}
	case "Aggregable":
		elem := p.parseElemType()
		if elem == nil {
			return nil
		}
		return types.Aggregable{Elem: elem}
	case "Dict":
		return p.parseDictType()
	case "Interval":
		// Interval(ref) survives as legacy shorthand for
		// Interval[Locus(ref)].
		if p.peekTokenIs(token.LPAREN) {
			rg, ok := p.parseGenomeRef()
			if !ok {
				return nil
			}
			return types.Interval{Point: types.Locus{RG: rg}}
		}
		point := p.parseElemType()
		if point == nil {
			return nil
		}
		return types.Interval{Point: point}
	case "Locus":
		rg, ok := p.parseGenomeRef()
		if !ok {
			return nil
		}
		return types.Locus{RG: rg}
	case "Variant":
		rg, ok := p.parseGenomeRef()
		if !ok {
			return nil
		}
		return types.Variant{RG: rg}
	case "Struct":
		return p.parseStructType()
	default:
		p.fail(p.curToken.Pos, "unknown type %s", name)
		return nil
	}
}

// parseElemType parses the [T] of a one-parameter container with cur on
// the container name.
func (p *Parser) parseElemType() types.Type {
	if !p.expectPeek(token.LBRACKET) {
		return nil
	}
	p.nextToken()
	elem := p.parseType()
	if elem == nil {
		return nil
	}
	if !p.expectPeek(token.RBRACKET) {
		return nil
	}
	return elem
}

func (p *Parser) parseDictType() types.Type {
	if !p.expectPeek(token.LBRACKET) {
		return nil
	}
	p.nextToken()
	key := p.parseType()
	if key == nil {
		return nil
	}
	if !p.expectPeek(token.COMMA) {
		return nil
	}
	p.nextToken()
	value := p.parseType()
	if value == nil {
		return nil
	}
	if !p.expectPeek(token.RBRACKET) {
		return nil
	}
	return types.Dict{Key: key, Value: value}
}

// parseGenomeRef parses the (refName) parameter of Locus, Variant and
// legacy Interval types. The name is validated against the genome
// registry during checking, not here.
func (p *Parser) parseGenomeRef() (string, bool) {
	if !p.expectPeek(token.LPAREN) {
		return "", false
	}
	if !p.expectPeek(token.IDENT) {
		return "", false
	}
	rg := p.curToken.Literal
	if !p.expectPeek(token.RPAREN) {
		return "", false
	}
	return rg, true
}

// parseStructType parses Struct{name: T, ...} with cur on the Struct
// keyword. Fields may carry trailing @key="value" decorators, which are
// checked for shape and dropped.
func (p *Parser) parseStructType() types.Type {
	if !p.expectPeek(token.LBRACE) {
		return nil
	}
	if p.peekTokenIs(token.RBRACE) {
		p.nextToken()
		return types.Struct{}
	}

	var names []string
	var typs []types.Type
	seen := map[string]bool{}
	for {
		if !p.expectPeek(token.IDENT) {
			return nil
		}
		name := p.curToken.Literal
		if seen[name] {
			p.fail(p.curToken.Pos, "duplicate field name %s", name)
			return nil
		}
		seen[name] = true
		if !p.expectPeek(token.COLON) {
			return nil
		}
		p.nextToken()
		ft := p.parseType()
		if ft == nil {
			return nil
		}
		for p.peekTokenIs(token.AT) {
			if !p.parseDecorator() {
				return nil
			}
		}
		names = append(names, name)
		typs = append(typs, ft)
		if !p.peekTokenIs(token.COMMA) {
			break
		}
		p.nextToken()
	}
	if !p.expectPeek(token.RBRACE) {
		return nil
	}
	return types.NewStruct(names, typs)
}

func (p *Parser) parseDecorator() bool {
	p.nextToken()
	if !p.expectPeek(token.IDENT) {
		return false
	}
	if !p.expectPeek(token.ASSIGN) {
		return false
	}
	return p.expectPeek(token.STRING)
}
