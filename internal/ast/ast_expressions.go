package ast

import (
	"strings"

	"github.com/gexlang/gex/internal/token"
)

// PrefixExpression represents a unary operation, e.g. -x or !flag.
type PrefixExpression struct {
	Token    token.Token // The operator token
	Operator string
	Right    Expression
}

func (pe *PrefixExpression) expressionNode()      {}
func (pe *PrefixExpression) TokenLiteral() string { return pe.Token.Lexeme }
func (pe *PrefixExpression) GetToken() token.Token {
	if pe == nil {
		return token.Token{}
	}
	return pe.Token
}
func (pe *PrefixExpression) String() string {
	return "(" + pe.Operator + pe.Right.String() + ")"
}

// InfixExpression represents a binary operation, e.g. a + b.
type InfixExpression struct {
	Token    token.Token // The operator token
	Left     Expression
	Operator string
	Right    Expression
}

func (ie *InfixExpression) expressionNode()      {}
func (ie *InfixExpression) TokenLiteral() string { return ie.Token.Lexeme }
func (ie *InfixExpression) GetToken() token.Token {
	if ie == nil {
		return token.Token{}
	}
	return ie.Token
}
func (ie *InfixExpression) String() string {
	return "(" + ie.Left.String() + " " + ie.Operator + " " + ie.Right.String() + ")"
}

// IfExpression represents a conditional, e.g. if (c) x else y.
// Both branches are always present.
type IfExpression struct {
	Token       token.Token // The 'if' token
	Condition   Expression
	Consequence Expression
	Alternative Expression
}

func (ie *IfExpression) expressionNode()      {}
func (ie *IfExpression) TokenLiteral() string { return ie.Token.Lexeme }
func (ie *IfExpression) GetToken() token.Token {
	if ie == nil {
		return token.Token{}
	}
	return ie.Token
}
func (ie *IfExpression) String() string {
	return "if (" + ie.Condition.String() + ") " + ie.Consequence.String() +
		" else " + ie.Alternative.String()
}

// LetBinding is a single name = value pair inside a let.
type LetBinding struct {
	Token token.Token // The bound identifier token
	Name  string
	Value Expression
}

// LetExpression represents bindings scoped to a body, e.g.
// let a = 1 and b = 2 in a + b. Binding values are evaluated against the
// surrounding scope; the bound names are visible together in the body.
type LetExpression struct {
	Token    token.Token // The 'let' token
	Bindings []*LetBinding
	Body     Expression
}

func (le *LetExpression) expressionNode()      {}
func (le *LetExpression) TokenLiteral() string { return le.Token.Lexeme }
func (le *LetExpression) GetToken() token.Token {
	if le == nil {
		return token.Token{}
	}
	return le.Token
}
func (le *LetExpression) String() string {
	var b strings.Builder
	b.WriteString("let ")
	for i, bind := range le.Bindings {
		if i > 0 {
			b.WriteString(" and ")
		}
		b.WriteString(bind.Name)
		b.WriteString(" = ")
		b.WriteString(bind.Value.String())
	}
	b.WriteString(" in ")
	b.WriteString(le.Body.String())
	return b.String()
}

// LambdaExpression represents a single-parameter anonymous function,
// e.g. g => g.gq. Lambdas appear only as arguments to builtins that
// accept them.
type LambdaExpression struct {
	Token token.Token // The parameter token
	Param string
	Body  Expression
}

func (le *LambdaExpression) expressionNode()      {}
func (le *LambdaExpression) TokenLiteral() string { return le.Token.Lexeme }
func (le *LambdaExpression) GetToken() token.Token {
	if le == nil {
		return token.Token{}
	}
	return le.Token
}
func (le *LambdaExpression) String() string {
	return le.Param + " => " + le.Body.String()
}

// CallExpression represents a builtin function application, e.g. str(x).
// Functions are not first-class, so the callee is always a bare name.
type CallExpression struct {
	Token    token.Token // The function name token
	Function string
	Args     []Expression
}

func (ce *CallExpression) expressionNode()      {}
func (ce *CallExpression) TokenLiteral() string { return ce.Token.Lexeme }
func (ce *CallExpression) GetToken() token.Token {
	if ce == nil {
		return token.Token{}
	}
	return ce.Token
}
func (ce *CallExpression) String() string {
	return ce.Function + "(" + joinExprs(ce.Args) + ")"
}

// MethodCallExpression represents a method application, e.g. s.split(",").
type MethodCallExpression struct {
	Token    token.Token // The method name token
	Receiver Expression
	Method   string
	Args     []Expression
}

func (mc *MethodCallExpression) expressionNode()      {}
func (mc *MethodCallExpression) TokenLiteral() string { return mc.Token.Lexeme }
func (mc *MethodCallExpression) GetToken() token.Token {
	if mc == nil {
		return token.Token{}
	}
	return mc.Token
}
func (mc *MethodCallExpression) String() string {
	return mc.Receiver.String() + "." + mc.Method + "(" + joinExprs(mc.Args) + ")"
}

// SelectExpression represents dot access without arguments, e.g. v.contig.
// Whether the name is a struct field or a no-argument method is decided
// during checking, fields first.
type SelectExpression struct {
	Token    token.Token // The field name token
	Receiver Expression
	Field    string
}

func (se *SelectExpression) expressionNode()      {}
func (se *SelectExpression) TokenLiteral() string { return se.Token.Lexeme }
func (se *SelectExpression) GetToken() token.Token {
	if se == nil {
		return token.Token{}
	}
	return se.Token
}
func (se *SelectExpression) String() string {
	return se.Receiver.String() + "." + se.Field
}

// SplatExpression represents a struct splat, e.g. va.info.*. It is only
// meaningful inside a named expression list.
type SplatExpression struct {
	Token    token.Token // The '*' token
	Receiver Expression
}

func (se *SplatExpression) expressionNode()      {}
func (se *SplatExpression) TokenLiteral() string { return se.Token.Lexeme }
func (se *SplatExpression) GetToken() token.Token {
	if se == nil {
		return token.Token{}
	}
	return se.Token
}
func (se *SplatExpression) String() string {
	return se.Receiver.String() + ".*"
}

// IndexExpression represents indexing, e.g. arr[i] or d["key"].
type IndexExpression struct {
	Token    token.Token // The '[' token
	Receiver Expression
	Index    Expression
}

func (ie *IndexExpression) expressionNode()      {}
func (ie *IndexExpression) TokenLiteral() string { return ie.Token.Lexeme }
func (ie *IndexExpression) GetToken() token.Token {
	if ie == nil {
		return token.Token{}
	}
	return ie.Token
}
func (ie *IndexExpression) String() string {
	return ie.Receiver.String() + "[" + ie.Index.String() + "]"
}

// SliceExpression represents array slicing, e.g. arr[1:3], arr[:2] or
// arr[1:]. Start and End may each be nil.
type SliceExpression struct {
	Token    token.Token // The '[' token
	Receiver Expression
	Start    Expression
	End      Expression
}

func (se *SliceExpression) expressionNode()      {}
func (se *SliceExpression) TokenLiteral() string { return se.Token.Lexeme }
func (se *SliceExpression) GetToken() token.Token {
	if se == nil {
		return token.Token{}
	}
	return se.Token
}
func (se *SliceExpression) String() string {
	var b strings.Builder
	b.WriteString(se.Receiver.String())
	b.WriteString("[")
	if se.Start != nil {
		b.WriteString(se.Start.String())
	}
	b.WriteString(":")
	if se.End != nil {
		b.WriteString(se.End.String())
	}
	b.WriteString("]")
	return b.String()
}

// ArrayLiteral represents an array, e.g. [1, 2, 3].
type ArrayLiteral struct {
	Token    token.Token // The '[' token
	Elements []Expression
}

func (al *ArrayLiteral) expressionNode()      {}
func (al *ArrayLiteral) TokenLiteral() string { return al.Token.Lexeme }
func (al *ArrayLiteral) GetToken() token.Token {
	if al == nil {
		return token.Token{}
	}
	return al.Token
}
func (al *ArrayLiteral) String() string {
	return "[" + joinExprs(al.Elements) + "]"
}

// StructField is a single name: value pair inside a struct literal.
type StructField struct {
	Token token.Token // The field name token
	Name  string
	Value Expression
}

// StructLiteral represents a struct, e.g. {locus: l, alleles: 2}.
// Field order is the declaration order.
type StructLiteral struct {
	Token  token.Token // The '{' token
	Fields []*StructField
}

func (sl *StructLiteral) expressionNode()      {}
func (sl *StructLiteral) TokenLiteral() string { return sl.Token.Lexeme }
func (sl *StructLiteral) GetToken() token.Token {
	if sl == nil {
		return token.Token{}
	}
	return sl.Token
}
func (sl *StructLiteral) String() string {
	var b strings.Builder
	b.WriteString("{")
	for i, f := range sl.Fields {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(f.Name)
		b.WriteString(": ")
		b.WriteString(f.Value.String())
	}
	b.WriteString("}")
	return b.String()
}

// GenomeConstructor represents a constructor call carrying an explicit
// reference genome, e.g. Locus(GRCh38)("1", 100). A plain Locus("1", 100)
// parses as a CallExpression and resolves against the engine default.
type GenomeConstructor struct {
	Token token.Token // The constructor name token
	Name  string      // Locus, Variant or Interval
	RG    string
	Args  []Expression
}

func (gc *GenomeConstructor) expressionNode()      {}
func (gc *GenomeConstructor) TokenLiteral() string { return gc.Token.Lexeme }
func (gc *GenomeConstructor) GetToken() token.Token {
	if gc == nil {
		return token.Token{}
	}
	return gc.Token
}
func (gc *GenomeConstructor) String() string {
	return gc.Name + "(" + gc.RG + ")(" + joinExprs(gc.Args) + ")"
}

// NamedExpr is one entry of a named expression list: either path = expr,
// a bare splat expr.*, or a bare expression awaiting rejection by the
// resolver. A splat may carry a path, which prefixes the expanded names.
type NamedExpr struct {
	Token token.Token
	Path  []string // The dotted left-hand side; empty when absent
	Expr  Expression
}

func (ne *NamedExpr) GetToken() token.Token {
	if ne == nil {
		return token.Token{}
	}
	return ne.Token
}
func (ne *NamedExpr) String() string {
	if len(ne.Path) == 0 {
		return ne.Expr.String()
	}
	return strings.Join(ne.Path, ".") + " = " + ne.Expr.String()
}

func joinExprs(exprs []Expression) string {
	parts := make([]string, len(exprs))
	for i, e := range exprs {
		parts[i] = e.String()
	}
	return strings.Join(parts, ", ")
}
