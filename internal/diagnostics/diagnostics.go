// Package diagnostics defines the error kinds surfaced by the expression
// engine. Every failure is terminal for the compile or resolve call in
// progress: nothing here is retried or recovered.
package diagnostics

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gexlang/gex/internal/token"
)

// Kind partitions compile-time failures.
type Kind int

const (
	// KindSyntax: the grammar did not match, including unterminated
	// literals and invalid escape sequences.
	KindSyntax Kind = iota
	// KindType: unresolved name, arity mismatch, non-unifiable arguments,
	// unrealizable result type, non-struct splat target, incomparable
	// comparison.
	KindType
	// KindBinding: a named-expression list entry is missing a required
	// left-hand side.
	KindBinding
)

func (k Kind) String() string {
	switch k {
	case KindSyntax:
		return "syntax error"
	case KindType:
		return "type error"
	case KindBinding:
		return "binding error"
	}
	return "error"
}

// Error is a positioned compile-time diagnostic. Syntax errors render with
// the offending source line and a caret under the column; the caret prefix
// copies literal tabs from the source line so it stays visually aligned.
type Error struct {
	Kind Kind
	Pos  token.Position
	Msg  string
}

func NewSyntax(pos token.Position, format string, args ...any) *Error {
	return &Error{Kind: KindSyntax, Pos: pos, Msg: fmt.Sprintf(format, args...)}
}

func NewType(pos token.Position, format string, args ...any) *Error {
	return &Error{Kind: KindType, Pos: pos, Msg: fmt.Sprintf(format, args...)}
}

func NewBinding(pos token.Position, format string, args ...any) *Error {
	return &Error{Kind: KindBinding, Pos: pos, Msg: fmt.Sprintf(format, args...)}
}

func (e *Error) Error() string {
	var b strings.Builder
	if e.Pos.Line > 0 {
		fmt.Fprintf(&b, "%s at %s: %s", e.Kind, e.Pos, e.Msg)
	} else {
		fmt.Fprintf(&b, "%s: %s", e.Kind, e.Msg)
	}
	if e.Kind == KindSyntax && e.Pos.SourceLine != "" {
		b.WriteByte('\n')
		b.WriteString(e.Pos.SourceLine)
		b.WriteByte('\n')
		b.WriteString(caretPrefix(e.Pos.SourceLine, e.Pos.Column))
		b.WriteByte('^')
	}
	return b.String()
}

// caretPrefix returns the run of characters placed before the caret: one
// space per display character left of col, except tabs which are copied
// through verbatim.
func caretPrefix(line string, col int) string {
	var b strings.Builder
	n := 0
	for _, r := range line {
		if n >= col-1 {
			break
		}
		if r == '\t' {
			b.WriteByte('\t')
		} else {
			b.WriteByte(' ')
		}
		n++
	}
	// Column may point one past the end of the line (e.g. unexpected EOF).
	for ; n < col-1; n++ {
		b.WriteByte(' ')
	}
	return b.String()
}

// IsSyntax reports whether err is (or wraps) a syntax diagnostic.
func IsSyntax(err error) bool { return hasKind(err, KindSyntax) }

// IsType reports whether err is (or wraps) a type diagnostic.
func IsType(err error) bool { return hasKind(err, KindType) }

// IsBinding reports whether err is (or wraps) a binding diagnostic.
func IsBinding(err error) bool { return hasKind(err, KindBinding) }

func hasKind(err error, k Kind) bool {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind == k
	}
	return false
}
