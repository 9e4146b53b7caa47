package ast

import (
	"github.com/gexlang/gex/internal/token"
	"github.com/gexlang/gex/internal/types"
)

// TokenProvider is an interface for any AST node that can provide its primary
// token. This is useful for error reporting.
type TokenProvider interface {
	GetToken() token.Token
}

// Node is the base interface for all AST nodes.
type Node interface {
	TokenLiteral() string
	String() string
}

// Expression is a Node that represents an expression.
type Expression interface {
	Node
	expressionNode()
	GetToken() token.Token
}

// Identifier represents a symbol reference, e.g. a bound variable name.
type Identifier struct {
	Token token.Token // the token.IDENT token
	Value string
}

func (i *Identifier) expressionNode()      {}
func (i *Identifier) TokenLiteral() string { return i.Token.Lexeme }
func (i *Identifier) String() string       { return i.Value }
func (i *Identifier) GetToken() token.Token {
	if i == nil {
		return token.Token{}
	}
	return i.Token
}

// IntLiteral represents a 32-bit integer literal.
type IntLiteral struct {
	Token token.Token
	Value int32
}

func (il *IntLiteral) expressionNode()      {}
func (il *IntLiteral) TokenLiteral() string { return il.Token.Lexeme }
func (il *IntLiteral) String() string       { return il.Token.Lexeme }
func (il *IntLiteral) GetToken() token.Token {
	if il == nil {
		return token.Token{}
	}
	return il.Token
}

// Int64Literal represents a 64-bit integer literal, e.g. 42L.
type Int64Literal struct {
	Token token.Token
	Value int64
}

func (il *Int64Literal) expressionNode()      {}
func (il *Int64Literal) TokenLiteral() string { return il.Token.Lexeme }
func (il *Int64Literal) String() string       { return il.Token.Lexeme }
func (il *Int64Literal) GetToken() token.Token {
	if il == nil {
		return token.Token{}
	}
	return il.Token
}

// FloatLiteral represents a floating point literal.
type FloatLiteral struct {
	Token token.Token
	Value float64
}

func (fl *FloatLiteral) expressionNode()      {}
func (fl *FloatLiteral) TokenLiteral() string { return fl.Token.Lexeme }
func (fl *FloatLiteral) String() string       { return fl.Token.Lexeme }
func (fl *FloatLiteral) GetToken() token.Token {
	if fl == nil {
		return token.Token{}
	}
	return fl.Token
}

// BoolLiteral represents boolean literals true/false.
type BoolLiteral struct {
	Token token.Token
	Value bool
}

func (b *BoolLiteral) expressionNode()      {}
func (b *BoolLiteral) TokenLiteral() string { return b.Token.Lexeme }
func (b *BoolLiteral) String() string       { return b.Token.Lexeme }
func (b *BoolLiteral) GetToken() token.Token {
	if b == nil {
		return token.Token{}
	}
	return b.Token
}

// StringLiteral represents a string, e.g. "hello". Value holds the decoded
// content with escape sequences resolved.
type StringLiteral struct {
	Token token.Token
	Value string
}

func (sl *StringLiteral) expressionNode()      {}
func (sl *StringLiteral) TokenLiteral() string { return sl.Token.Lexeme }
func (sl *StringLiteral) String() string       { return sl.Token.Lexeme }
func (sl *StringLiteral) GetToken() token.Token {
	if sl == nil {
		return token.Token{}
	}
	return sl.Token
}

// MissingLiteral represents a typed missing value, e.g. NA: Int.
// Every NA carries an explicit type annotation.
type MissingLiteral struct {
	Token      token.Token // The 'NA' token
	Annotation types.Type
}

func (ml *MissingLiteral) expressionNode()      {}
func (ml *MissingLiteral) TokenLiteral() string { return ml.Token.Lexeme }
func (ml *MissingLiteral) String() string       { return "NA: " + ml.Annotation.String() }
func (ml *MissingLiteral) GetToken() token.Token {
	if ml == nil {
		return token.Token{}
	}
	return ml.Token
}
