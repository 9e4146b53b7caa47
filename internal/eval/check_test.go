package eval

import (
	"strings"
	"testing"

	"github.com/gexlang/gex/internal/diagnostics"
	"github.com/gexlang/gex/internal/genome"
	"github.com/gexlang/gex/internal/parser"
	"github.com/gexlang/gex/internal/types"
)

func checkErr(t *testing.T, src string, ctx *EvalContext, opts Options) error {
	t.Helper()
	expr, err := parser.Parse(src)
	if err != nil {
		t.Fatalf("parse %q: %v", src, err)
	}
	_, err = Check(expr, ctx, opts)
	if err == nil {
		t.Fatalf("check %q should fail", src)
	}
	return err
}

func TestCheckErrors(t *testing.T) {
	ctx := NewContext()
	ctx.Bind("gs", types.Aggregable{Elem: types.TCall})
	ctx.Bind("x", types.TInt32)

	tests := []struct {
		src  string
		want string
	}{
		{"nope", "unknown symbol nope"},
		{"frobnicate(1)", "unknown function frobnicate"},
		{`1 + "a"`, "invalid arguments to +"},
		{"-true", "invalid argument to unary -"},
		{"!5", "invalid argument to unary !"},
		{"1 && true", "invalid arguments to &&"},
		{`5 ~ "a"`, "invalid arguments to ~"},
		{`1 == "a"`, "cannot compare values of types Int32 and String"},
		{"[1] == [1.0]", "cannot compare values of types"},
		{"orElse(1, 2.0)", "invalid arguments to orElse: (Int32, Float64)"},
		{"if (5) 1 else 2", "if condition must be Boolean, got Int32"},
		{`if (true) 1 else "a"`, "incompatible types"},
		{"let a = 1 and a = 2 in a", "duplicate let binding a"},
		{"let a = 1 and b = a in b", "unknown symbol a"},
		{"{a: 1, a: 2}", "duplicate field name a"},
		{"[]", "cannot infer element type of empty array"},
		{`[1, "a"]`, "incompatible types"},
		{"NA: !Int", "NA cannot have required type"},
		{"NA: Aggregable[Int]", "NA cannot have unrealizable type"},
		{"x[0]", "cannot index Int32"},
		{"x[0:1]", "cannot slice Int32"},
		{`[1, 2]["a"]`, "array index must be Int32, got String"},
		{"[1][true:]", "slice bound must be Int32, got Boolean"},
		{"x.foo()", "Int32 has no method foo"},
		{`"s".foo`, "String has no field or method foo"},
		{`"s".split(1)`, "invalid arguments to String.split"},
		{"{a: 1}.b", "has no field or method b"},
		{"x => x + 1", "lambda expressions are allowed only as aggregation arguments"},
		{"{a: 1}.*", "splat expressions are allowed only in named expression lists"},
		{"gs", "unrealizable type as result of expression"},
		{"gs.count", "has no field or method count"},
		{"gs.count(1)", "takes no arguments"},
		{"gs.filter(true)", "expects a lambda argument"},
		{"gs.fraction(g => g.gt)", "fraction predicate must be Boolean, got Int32"},
		{"gs.sum()", "sum requires numeric elements"},
		{"gs.frob()", "has no method frob"},
		{"isMissing(gs)", "invalid arguments to isMissing"},
		{`Locus("1:100")`, "no default reference genome configured"},
		{`Locus(BOGUS)("1:100")`, "unknown reference genome BOGUS"},
	}
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			err := checkErr(t, tt.src, ctx, Options{})
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("check %s: error %q, want it to mention %q", tt.src, err, tt.want)
			}
			if !diagnostics.IsType(err) {
				t.Errorf("check %s: %v is not a type diagnostic", tt.src, err)
			}
		})
	}
}

func TestCheckRejectsUnknownContextGenome(t *testing.T) {
	ctx := NewContext()
	ctx.Bind("l", types.Locus{RG: "BOGUS"})

	err := checkErr(t, "1 + 1", ctx, Options{})
	if !strings.Contains(err.Error(), "unknown reference genome BOGUS") {
		t.Fatalf("err = %v, want unknown reference genome", err)
	}
}

func TestCheckConstructorArity(t *testing.T) {
	ctx := NewContext()
	opts := Options{Reference: "GRCh37"}

	err := checkErr(t, `Locus("1", 100, 7)`, ctx, opts)
	if !strings.Contains(err.Error(), "invalid arguments to Locus") {
		t.Fatalf("err = %v", err)
	}
	err = checkErr(t, "Variant(5)", ctx, opts)
	if !strings.Contains(err.Error(), "invalid arguments to Variant: (Int32)") {
		t.Fatalf("err = %v", err)
	}
}

func TestCheckGenomeMismatch(t *testing.T) {
	ctx := NewContext()
	ctx.Bind("l37", types.Locus{RG: "GRCh37"})
	ctx.Bind("l38", types.Locus{RG: "GRCh38"})

	err := checkErr(t, "l37 == l38", ctx, Options{})
	if !strings.Contains(err.Error(), "cannot compare") {
		t.Fatalf("loci on different genomes should not compare, got %v", err)
	}
}

func TestCheckRequiredSymbols(t *testing.T) {
	ctx := NewContext()
	nSlot := ctx.Bind("n", types.Required(types.TInt32))
	xsSlot := ctx.Bind("xs", types.Array{Elem: types.Required(types.TInt32)})
	f := NewFrame(ctx)
	f.Set(nSlot, int32(4))
	f.Set(xsSlot, []any{int32(2), int32(1)})

	// Required context types still flow through optional-typed
	// operations.
	v, _ := evalWith(t, "n + 1", ctx, f, Options{})
	if v != int32(5) {
		t.Errorf("n + 1 = %v, want 5", v)
	}
	v, _ = evalWith(t, "xs.sum()", ctx, f, Options{})
	if v != int32(3) {
		t.Errorf("xs.sum() = %v, want 3", v)
	}
	v, _ = evalWith(t, "xs[0] == 2", ctx, f, Options{})
	if v != true {
		t.Errorf("xs[0] == 2 = %v, want true", v)
	}
}

func TestCustomGenomeRegistry(t *testing.T) {
	rg, err := genome.New("Toy",
		[]genome.Contig{{Name: "ctg", Length: 1000}},
		nil, nil, nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	reg := genome.NewRegistry()
	if err := reg.Add(rg); err != nil {
		t.Fatal(err)
	}

	ctx := NewContext()
	opts := Options{Genomes: reg, Reference: "Toy"}
	v, typ := evalWith(t, `Locus("ctg:5").position`, ctx, NewFrame(ctx), opts)
	if v != int32(5) {
		t.Errorf("position = %v, want 5", v)
	}
	if typ.String() != "Int32" {
		t.Errorf("type = %s, want Int32", typ)
	}

	_, typ = evalWith(t, `Locus("ctg", 5)`, ctx, NewFrame(ctx), opts)
	if typ.String() != "Locus(Toy)" {
		t.Errorf("type = %s, want Locus(Toy)", typ)
	}
}
