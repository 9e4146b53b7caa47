/*
Package gex compiles and evaluates expressions of a statically typed
genomic query language.

An expression is compiled once and evaluated once per record: Prepare
parses the source, typechecks it against a Context of named symbols and
compiles it into a closure; Run evaluates the closure over a Frame of
symbol values. One compiled Expr may run concurrently as long as each
goroutine uses its own Frame.

	ctx := gex.NewContext()
	gq := ctx.MustBind("gq", "Int32")
	dp := ctx.MustBind("dp", "Int32")

	e, err := gex.Prepare("gq >= 20 && dp >= 10", ctx, gex.Options{})
	if err != nil { ... }

	f := ctx.NewFrame()
	for _, rec := range records {
		f.Set(gq, rec.GQ)
		f.Set(dp, rec.DP)
		v, err := e.Run(f)
		...
	}

# Types and values

The type universe is closed: Boolean, Int32 (alias Int), Int64,
Float32, Float64 (alias Float), String, Call, AltAllele, Locus(build),
Variant(build), Array[T], Set[T], Dict[K, V], Interval[P] and
Struct{name: T, ...}. A `!` prefix marks a type required, meaning it
never holds a missing value. Context symbols are typed by canonical
type literals, and Expr.Type reports the checked result type in the
same form.

Frame values use a fixed Go mapping: Boolean is bool, Int32 is int32,
Int64 is int64, Float32 is float32, Float64 is float64, String is
string, Array, Set and Struct are []any, Dict is map[any]any. Missing
is untyped nil at any depth.

# Missingness

Missing values propagate: an arithmetic operation with a missing
operand is missing, `&&` and `||` follow three-valued logic, and an
`if` with a missing condition is missing. `NA : T` writes a typed
missing literal; isMissing, isDefined and orElse inspect missingness
without propagating it.

# Genomic constructors

Locus, Variant and Interval literals are parsed against a reference
genome: Locus("1:100"), Variant("1:100:A:T"),
Interval("1:1.5K-1:2M"). Unqualified constructors resolve against
Options.Reference; Locus(GRCh38)("chr1:100") names the build
explicitly. Options.Genomes supplies additional builds, loaded from
YAML definitions.

# Named expression lists

PrepareList compiles a comma-separated list of optionally named
entries into a Selection of output columns:

	baseline = gq, dp * 2, info.*

A `expr.*` entry splats a struct, producing one column per field with
the entry's name as prefix. Selection reports column names and types
and evaluates all entries per record into a fresh row.
*/
package gex
