package gex

import (
	"context"
	"errors"
	"strings"

	"github.com/gexlang/gex/internal/diagnostics"
	"github.com/gexlang/gex/internal/eval"
	"github.com/gexlang/gex/internal/genome"
	"github.com/gexlang/gex/internal/parser"
	"github.com/gexlang/gex/internal/resolve"
	"github.com/gexlang/gex/internal/types"
)

// Genomes is a set of reference genome builds, looked up by name when
// genomic types and constructors are checked.
type Genomes struct {
	reg *genome.Registry
}

// NewGenomes returns a set seeded with the built-in GRCh37 and GRCh38
// builds.
func NewGenomes() *Genomes {
	return &Genomes{reg: genome.NewRegistry()}
}

// LoadFile adds every genome declared in a YAML definition file.
func (g *Genomes) LoadFile(path string) error {
	return g.reg.LoadFile(path)
}

// Fetch retrieves the named builds from a remote reference service and
// adds them. The target is a gRPC address.
func (g *Genomes) Fetch(ctx context.Context, target string, names ...string) error {
	client, err := genome.Dial(target)
	if err != nil {
		return err
	}
	defer client.Close()
	return client.FetchInto(ctx, g.reg, names...)
}

// Names returns the known build names, sorted.
func (g *Genomes) Names() []string {
	return g.reg.Names()
}

// Options configure compilation.
type Options struct {
	// Genomes supplies the known reference genomes. Nil means the
	// built-in GRCh37 and GRCh38 builds.
	Genomes *Genomes

	// Reference names the build unqualified Locus, Variant and
	// Interval constructors resolve against. Empty rejects them;
	// qualified constructors such as Locus(GRCh38)("chr1:100")
	// always work.
	Reference string

	// RequireNames rejects PrepareList entries without a left-hand
	// side. It has no effect on Prepare.
	RequireNames bool
}

func (o Options) evalOptions() eval.Options {
	opts := eval.Options{Reference: o.Reference}
	if o.Genomes != nil {
		opts.Genomes = o.Genomes.reg
	}
	return opts
}

// Context is the ordered symbol table expressions compile against.
// Bind every symbol before preparing; a compiled expression reads the
// frame slots the context assigned.
type Context struct {
	ectx *eval.EvalContext
}

// NewContext returns an empty context.
func NewContext() *Context {
	return &Context{ectx: eval.NewContext()}
}

// Bind adds a symbol typed by a canonical type literal such as
// "Array[Int32]" or "Struct{a: Int32, b: String}" and returns its
// frame slot. Binding an existing name replaces its type and keeps
// the slot.
func (c *Context) Bind(name, typeLit string) (int, error) {
	t, err := parser.ParseType(typeLit)
	if err != nil {
		return 0, err
	}
	return c.ectx.Bind(name, t), nil
}

// MustBind is like Bind but panics on error.
func (c *Context) MustBind(name, typeLit string) int {
	slot, err := c.Bind(name, typeLit)
	if err != nil {
		panic(err)
	}
	return slot
}

// NewFrame returns an empty frame sized for the context's symbols.
func (c *Context) NewFrame() *Frame {
	return &Frame{f: eval.NewFrame(c.ectx)}
}

// Frame carries one record's symbol values, one slot per context
// symbol, missing as nil. A frame belongs to one goroutine and may be
// refilled and reused across runs.
type Frame struct {
	f *eval.Frame
}

// Set stores a symbol's value by the slot Bind returned.
func (f *Frame) Set(slot int, v any) {
	f.f.Set(slot, v)
}

// Expr is a parsed, typechecked and compiled expression. It holds no
// mutable state, so one Expr may run concurrently over distinct
// frames.
type Expr struct {
	prog *eval.Program
	typ  types.Type
}

// Prepare parses src, typechecks it against ctx and compiles it. A
// nil ctx means no bound symbols.
func Prepare(src string, ctx *Context, opts Options) (*Expr, error) {
	node, err := parser.Parse(src)
	if err != nil {
		return nil, err
	}
	checked, err := eval.Check(node, ectxOf(ctx), opts.evalOptions())
	if err != nil {
		return nil, err
	}
	return &Expr{prog: eval.Compile(checked), typ: checked.Type()}, nil
}

// MustPrepare is like Prepare but panics on error.
func MustPrepare(src string, ctx *Context, opts Options) *Expr {
	e, err := Prepare(src, ctx, opts)
	if err != nil {
		panic(err)
	}
	return e
}

// Type returns the expression's checked type in canonical form.
func (e *Expr) Type() string {
	return e.typ.String()
}

// Run evaluates the expression against one record's frame. A nil
// frame works for expressions over an empty context. The result is
// nil when the value is missing; runtime faults return an error that
// IsFatalError reports true for.
func (e *Expr) Run(f *Frame) (any, error) {
	return e.prog.Run(frameOf(f))
}

// Render formats a Run result in display form: NA for missing, floats
// with a decimal point, containers in literal form.
func (e *Expr) Render(v any) string {
	return eval.Render(e.typ, v)
}

// Selection is a compiled named expression list: one output column
// per entry, struct splats expanded to one column per field. Like
// Expr, a Selection may evaluate concurrently over distinct frames.
type Selection struct {
	list  *resolve.List
	names []string
	typs  []types.Type
}

// PrepareList parses a comma-separated list of optionally named
// entries (`path = expr`, bare `expr`, or `expr.*` splatting a
// struct), then typechecks and compiles every entry. Unnamed entries
// are named by their source form unless opts.RequireNames is set.
func PrepareList(src string, ctx *Context, opts Options) (*Selection, error) {
	entries, err := parser.ParseNamedList(src)
	if err != nil {
		return nil, err
	}
	list, err := resolve.Compile(entries, ectxOf(ctx), resolve.Options{
		Eval:         opts.evalOptions(),
		RequireNames: opts.RequireNames,
	})
	if err != nil {
		return nil, err
	}
	paths := list.Names()
	names := make([]string, len(paths))
	for i, p := range paths {
		names[i] = strings.Join(p, ".")
	}
	return &Selection{list: list, names: names, typs: list.Types()}, nil
}

// Names returns the dotted column names, one per output column.
func (s *Selection) Names() []string {
	out := make([]string, len(s.names))
	copy(out, s.names)
	return out
}

// Types returns the column types in canonical form.
func (s *Selection) Types() []string {
	out := make([]string, len(s.typs))
	for i, t := range s.typs {
		out[i] = t.String()
	}
	return out
}

// Evaluate runs every entry against the frame and returns one value
// per column in a fresh slice.
func (s *Selection) Evaluate(f *Frame) ([]any, error) {
	return s.list.Evaluate(frameOf(f))
}

// Render formats a row of Evaluate results in display form.
func (s *Selection) Render(vals []any) []string {
	out := make([]string, len(vals))
	for i, v := range vals {
		out[i] = eval.Render(s.typs[i], v)
	}
	return out
}

// ParseType parses a type literal and returns its canonical form.
// Parsing the canonical form again yields an equal type.
func ParseType(src string) (string, error) {
	t, err := parser.ParseType(src)
	if err != nil {
		return "", err
	}
	return t.String(), nil
}

func ectxOf(ctx *Context) *eval.EvalContext {
	if ctx == nil {
		return nil
	}
	return ctx.ectx
}

func frameOf(f *Frame) *eval.Frame {
	if f == nil {
		return eval.NewFrame(nil)
	}
	return f.f
}

// IsSyntaxError reports whether err is a syntax diagnostic from
// Prepare or PrepareList.
func IsSyntaxError(err error) bool { return diagnostics.IsSyntax(err) }

// IsTypeError reports whether err is a typecheck diagnostic.
func IsTypeError(err error) bool { return diagnostics.IsType(err) }

// IsBindingError reports whether err is a missing left-hand side
// diagnostic from PrepareList.
func IsBindingError(err error) bool { return diagnostics.IsBinding(err) }

// IsFatalError reports whether err is a runtime fault from Run or
// Evaluate.
func IsFatalError(err error) bool {
	var fe *eval.FatalError
	return errors.As(err, &fe)
}
