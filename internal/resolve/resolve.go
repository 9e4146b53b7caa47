// Package resolve compiles named expression lists, the comma-separated
// `path = expr` form that annotation and export surfaces accept. Each
// entry feeds one output slot, except struct splats, which feed one
// slot per field. A compiled List evaluates every entry per record
// into a fresh buffer.
package resolve

import (
	"github.com/gexlang/gex/internal/ast"
	"github.com/gexlang/gex/internal/diagnostics"
	"github.com/gexlang/gex/internal/eval"
	"github.com/gexlang/gex/internal/types"
)

// Options configure list compilation.
type Options struct {
	// Eval configures checking of the entry expressions.
	Eval eval.Options
	// RequireNames rejects entries without a left-hand side. Splat
	// entries always pass: their names come from the struct fields.
	RequireNames bool
}

// List is a compiled named expression list. A List holds no mutable
// state, so one List may evaluate concurrently over distinct frames.
type List struct {
	names [][]string
	typs  []types.Type
	prods []producer
}

// producer runs one entry and writes the slots it owns.
type producer struct {
	prog  *eval.Program
	first int
	width int
	splat bool
}

// Compile checks every entry against ctx and lowers each to a program.
// Entries succeed or fail as a unit: the first error drops the whole
// list. Unnamed entries are named by their source form unless
// RequireNames is set.
func Compile(entries []*ast.NamedExpr, ctx *eval.EvalContext, opts Options) (*List, error) {
	l := &List{}
	for _, ne := range entries {
		var err error
		if se, ok := ne.Expr.(*ast.SplatExpression); ok {
			err = l.addSplat(ne.Path, se, ctx, opts.Eval)
		} else {
			err = l.addEntry(ne, ctx, opts)
		}
		if err != nil {
			return nil, err
		}
	}
	return l, nil
}

func (l *List) addEntry(ne *ast.NamedExpr, ctx *eval.EvalContext, opts Options) error {
	path := ne.Path
	if len(path) == 0 {
		if opts.RequireNames {
			return diagnostics.NewBinding(ne.GetToken().Pos, "left-hand side required")
		}
		path = []string{ne.Expr.String()}
	}
	checked, err := eval.Check(ne.Expr, ctx, opts.Eval)
	if err != nil {
		return err
	}
	l.prods = append(l.prods, producer{prog: eval.Compile(checked), first: len(l.names), width: 1})
	l.names = append(l.names, path)
	l.typs = append(l.typs, checked.Type())
	return nil
}

// addSplat expands expr.* into one slot per struct field. The struct is
// evaluated once per record; when it is missing every field slot stays
// missing, so the slot types are optional even where the fields are not.
func (l *List) addSplat(prefix []string, se *ast.SplatExpression, ctx *eval.EvalContext, opts eval.Options) error {
	checked, err := eval.Check(se.Receiver, ctx, opts)
	if err != nil {
		return err
	}
	st, ok := types.Optional(checked.Type()).(types.Struct)
	if !ok {
		return diagnostics.NewType(se.Receiver.GetToken().Pos,
			"cannot splat non-struct type: %s", checked.Type())
	}
	l.prods = append(l.prods, producer{
		prog:  eval.Compile(checked),
		first: len(l.names),
		width: len(st.Fields),
		splat: true,
	})
	for _, f := range st.Fields {
		name := make([]string, 0, len(prefix)+1)
		name = append(append(name, prefix...), f.Name)
		l.names = append(l.names, name)
		l.typs = append(l.typs, types.Optional(f.Type))
	}
	return nil
}

// Names returns the dotted output paths, one per slot.
func (l *List) Names() [][]string {
	out := make([][]string, len(l.names))
	copy(out, l.names)
	return out
}

// Types returns the slot types in slot order.
func (l *List) Types() []types.Type {
	out := make([]types.Type, len(l.typs))
	copy(out, l.typs)
	return out
}

// Evaluate runs every entry against the frame and returns one value
// per slot. The slice is fresh on every call. The first runtime fault
// aborts the evaluation.
func (l *List) Evaluate(f *eval.Frame) ([]any, error) {
	out := make([]any, len(l.names))
	for i := range l.prods {
		p := &l.prods[i]
		v, err := p.prog.Run(f)
		if err != nil {
			return nil, err
		}
		switch {
		case !p.splat:
			out[p.first] = v
		case v != nil:
			copy(out[p.first:p.first+p.width], v.([]any))
		}
	}
	return out, nil
}
