package eval

import (
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/gexlang/gex/internal/genome"
	"github.com/gexlang/gex/internal/parser"
	"github.com/gexlang/gex/internal/types"
)

// evalWith checks, compiles and runs src against a prepared context
// and frame.
func evalWith(t *testing.T, src string, ctx *EvalContext, f *Frame, opts Options) (any, types.Type) {
	t.Helper()
	expr, err := parser.Parse(src)
	if err != nil {
		t.Fatalf("parse %q: %v", src, err)
	}
	checked, err := Check(expr, ctx, opts)
	if err != nil {
		t.Fatalf("check %q: %v", src, err)
	}
	prog := Compile(checked)
	v, err := prog.Run(f)
	if err != nil {
		t.Fatalf("run %q: %v", src, err)
	}
	return v, prog.Type()
}

// evalStr evaluates src in an empty context with GRCh37 as the default
// reference and renders the result.
func evalStr(t *testing.T, src string) string {
	t.Helper()
	ctx := NewContext()
	v, typ := evalWith(t, src, ctx, NewFrame(ctx), Options{Reference: "GRCh37"})
	return Render(typ, v)
}

func evalVal(t *testing.T, src string) any {
	t.Helper()
	ctx := NewContext()
	v, _ := evalWith(t, src, ctx, NewFrame(ctx), Options{Reference: "GRCh37"})
	return v
}

// evalFatal evaluates src expecting a runtime fault.
func evalFatal(t *testing.T, src string) *FatalError {
	t.Helper()
	expr, err := parser.Parse(src)
	if err != nil {
		t.Fatalf("parse %q: %v", src, err)
	}
	ctx := NewContext()
	checked, err := Check(expr, ctx, Options{Reference: "GRCh37"})
	if err != nil {
		t.Fatalf("check %q: %v", src, err)
	}
	_, err = Compile(checked).Run(NewFrame(ctx))
	if err == nil {
		t.Fatalf("%s should fault", src)
	}
	var fe *FatalError
	if !errors.As(err, &fe) {
		t.Fatalf("%s: error %v is not a FatalError", src, err)
	}
	return fe
}

func TestArithmetic(t *testing.T) {
	tests := []struct {
		src  string
		want string
	}{
		{"1 + 2", "3"},
		{"5 - 7", "-2"},
		{"3 * 4", "12"},
		{"1 + 2 * 3", "7"},
		{"(1 + 2) * 3", "9"},
		{"5 / 2", "2.5"},
		{"8 / 4 / 2", "1.0"},
		{"5 / 0", "+Inf"},
		{"7 // 2", "3"},
		{"-7 // 2", "-4"},
		{"7.5 // 2.0", "3.0"},
		{"7 % 2", "1"},
		{"-7 % 2", "-1"},
		{"7.5 % 2.0", "1.5"},
		{"2 ** 10", "1024.0"},
		{"-2 ** 2", "-4.0"},
		{"2 ** 3 ** 2", "64.0"},
		{"1 + 2147483648L", "2147483649"},
		{"1 + 2.5", "3.5"},
		{"-5", "-5"},
		{"+5", "5"},
		{"abs(-3)", "3"},
		{"abs(-3.5)", "3.5"},
		{"min(3, 1)", "1"},
		{"max(3, 1)", "3"},
		{"min(1, 2.0)", "1.0"},
		{"sqrt(4.0)", "2.0"},
		{"log(exp(1.0))", "1.0"},
		{"pow(2, 5)", "32.0"},
	}
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			if got := evalStr(t, tt.src); got != tt.want {
				t.Errorf("%s = %s, want %s", tt.src, got, tt.want)
			}
		})
	}
}

func TestResultTypes(t *testing.T) {
	tests := []struct {
		src  string
		want string
	}{
		{"1 + 2", "Int32"},
		{"1 + 2147483648L", "Int64"},
		{"5 / 2", "Float64"},
		{"5 // 2", "Int32"},
		{"2 ** 2", "Float64"},
		{"1 < 2", "Boolean"},
		{`"a" + "b"`, "String"},
		{"[1, 2.0]", "Array[Float64]"},
		{"if (true) 1 else 2.0", "Float64"},
	}
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			ctx := NewContext()
			_, typ := evalWith(t, tt.src, ctx, NewFrame(ctx), Options{})
			if typ.String() != tt.want {
				t.Errorf("type of %s = %s, want %s", tt.src, typ, tt.want)
			}
		})
	}
}

func TestMissingness(t *testing.T) {
	tests := []struct {
		src  string
		want string
	}{
		{"NA: Int", "NA"},
		{"NA: Int + 1", "NA"},
		{"1 + NA: Int", "NA"},
		{"NA: Int + 1 // 0", "NA"},
		{"-(NA: Int)", "NA"},
		{"NA: String ~ \"a\"", "NA"},
		{"NA: Int == 1", "NA"},
		{"isMissing(NA: Int)", "true"},
		{"isMissing(5)", "false"},
		{"isDefined(NA: Int)", "false"},
		{"isDefined(5)", "true"},
		{"orElse(NA: Int, 5)", "5"},
		{"orElse(3, 5)", "3"},
		{"str(5 / 2)", "2.5"},
		{"if (NA: Boolean) 1 else 2", "NA"},
		{"if (true) 1 else 1 // 0", "1"},
		{"if (false) 1 // 0 else 2", "2"},
	}
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			if got := evalStr(t, tt.src); got != tt.want {
				t.Errorf("%s = %s, want %s", tt.src, got, tt.want)
			}
		})
	}

	if v := evalVal(t, "str(NA: Int)"); v != nil {
		t.Errorf("str(NA) = %v, want missing", v)
	}
}

func TestThreeValuedLogic(t *testing.T) {
	tests := []struct {
		src  string
		want string
	}{
		{"true && true", "true"},
		{"true && false", "false"},
		{"false && NA: Boolean", "false"},
		{"NA: Boolean && false", "false"},
		{"true && NA: Boolean", "NA"},
		{"NA: Boolean && true", "NA"},
		{"false || true", "true"},
		{"true || NA: Boolean", "true"},
		{"NA: Boolean || true", "true"},
		{"false || NA: Boolean", "NA"},
		{"NA: Boolean || false", "NA"},
		{"false && 1 // 0 == 0", "false"},
		{"true || 1 // 0 == 0", "true"},
		{"!true", "false"},
		{"!(1 > 2)", "true"},
		{"!(NA: Boolean)", "NA"},
	}
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			if got := evalStr(t, tt.src); got != tt.want {
				t.Errorf("%s = %s, want %s", tt.src, got, tt.want)
			}
		})
	}
}

func TestComparisons(t *testing.T) {
	tests := []struct {
		src  string
		want string
	}{
		{"1 < 2", "true"},
		{"2 <= 2", "true"},
		{"3 > 4", "false"},
		{"3 >= 4", "false"},
		{"1 == 1", "true"},
		{"1 != 1", "false"},
		{"2 == 2.0", "true"},
		{"1 < 2.5", "true"},
		{"2147483648L > 5", "true"},
		{`"a" < "b"`, "true"},
		{`"abc" == "abc"`, "true"},
		{"true == true", "true"},
		{"[1, 2] == [1, 2]", "true"},
		{"[1, 2] == [1, 3]", "false"},
		{"[NA: Int, 1] == [NA: Int, 1]", "true"},
		{"[1, 2] < [1, 3]", "true"},
	}
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			if got := evalStr(t, tt.src); got != tt.want {
				t.Errorf("%s = %s, want %s", tt.src, got, tt.want)
			}
		})
	}
}

func TestStrings(t *testing.T) {
	tests := []struct {
		src  string
		want string
	}{
		{`"foo" + "bar"`, "foobar"},
		{`"hello".length`, "5"},
		{`"hello".length()`, "5"},
		{`"a,b,c".split(",")`, "[a, b, c]"},
		{`"a,b,,".split(",").size`, "2"},
		{`"".split(",").size`, "1"},
		{`"banana".replace("an", "")`, "ba"},
		{`"Hi".toUpper()`, "HI"},
		{`"Hi".toLower()`, "hi"},
		{`"42".toInt32()`, "42"},
		{`"42".toInt64()`, "42"},
		{`"2.5".toFloat64()`, "2.5"},
		{`"z+" ~ "baac"`, "false"},
		{`"a+" ~ "baaac"`, "true"},
		{`"^ab" ~ "abc"`, "true"},
		{`"^b" ~ "abc"`, "false"},
		{`str(42)`, "42"},
		{`str(true)`, "true"},
		{`str([1, 2, 3])`, "[1, 2, 3]"},
	}
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			if got := evalStr(t, tt.src); got != tt.want {
				t.Errorf("%s = %s, want %s", tt.src, got, tt.want)
			}
		})
	}
}

func TestArrays(t *testing.T) {
	tests := []struct {
		src  string
		want string
	}{
		{"[1, 2, 3]", "[1, 2, 3]"},
		{"[1, 2.0]", "[1.0, 2.0]"},
		{"[1, NA: Int, 3]", "[1, NA, 3]"},
		{"[10, 20, 30][1]", "20"},
		{"[10, 20, 30][1:]", "[20, 30]"},
		{"[10, 20, 30][:2]", "[10, 20]"},
		{"[10, 20, 30][1:10]", "[20, 30]"},
		{"[10, 20, 30][-5:1]", "[10]"},
		{"[10, 20, 30][2:1]", "[]"},
		{"[1, 2, 3].size", "3"},
		{"[1, 2, 3].length", "3"},
		{"[1, 2, 3].contains(2)", "true"},
		{"[1, 2, 3].contains(5)", "false"},
		{"[1, NA: Int].contains(NA: Int)", "NA"},
		{"[5, 1].head()", "5"},
		{"[1, 2, 3].sum()", "6"},
		{"[1, NA: Int, 3].sum()", "4"},
		{"[1.5, 2.5].sum()", "4.0"},
		{"[3, 1, 2].min()", "1"},
		{"[3, 1, 2].max()", "3"},
		{"[NA: Int, 2].min()", "2"},
		{"[3, 1, 2].sort()", "[1, 2, 3]"},
		{"[3, NA: Int, 1].sort()", "[NA, 1, 3]"},
		{`["a", "b"].mkString("-")`, "a-b"},
		{`[NA: String, "b"].mkString(",")`, "NA,b"},
		{"[3, 1, 2, 1].toSet()", "[1, 2, 3]"},
		{"[3, 1, 2, 1].toSet().size", "3"},
		{"[1, 2].toSet().contains(2)", "true"},
		{"[1, 2].toSet().toArray()", "[1, 2]"},
		{"range(3)", "[0, 1, 2]"},
		{"range(1, 4)", "[1, 2, 3]"},
		{"range(0)", "[]"},
	}
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			if got := evalStr(t, tt.src); got != tt.want {
				t.Errorf("%s = %s, want %s", tt.src, got, tt.want)
			}
		})
	}
}

func TestLet(t *testing.T) {
	tests := []struct {
		src  string
		want string
	}{
		{"let a = 5 in a + 1", "6"},
		{"let a = 5 and b = 2 in a + b", "7"},
		{"let a = 1 in let a = a + 1 in a", "2"},
		{"let a = NA: Int in isMissing(a)", "true"},
		{"let x = 2 in let y = x * x in y * y", "16"},
	}
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			if got := evalStr(t, tt.src); got != tt.want {
				t.Errorf("%s = %s, want %s", tt.src, got, tt.want)
			}
		})
	}
}

func TestStructs(t *testing.T) {
	tests := []struct {
		src  string
		want string
	}{
		{"{a: 1, b: 2.5}", "{a: 1, b: 2.5}"},
		{"{a: 1, b: 2.5}.a", "1"},
		{"{a: 1, b: 2.5}.b", "2.5"},
		{"{a: {b: 7}}.a.b", "7"},
		{`{n: "x", v: NA: Int}`, "{n: x, v: NA}"},
		{"{}", "{}"},
	}
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			if got := evalStr(t, tt.src); got != tt.want {
				t.Errorf("%s = %s, want %s", tt.src, got, tt.want)
			}
		})
	}
}

func TestSymbols(t *testing.T) {
	ctx := NewContext()
	xSlot := ctx.Bind("x", types.TInt32)
	sSlot := ctx.Bind("s", types.TString)

	f := NewFrame(ctx)
	f.Set(xSlot, int32(3))
	f.Set(sSlot, "hi")

	v, _ := evalWith(t, "x * x", ctx, f, Options{})
	if v != int32(9) {
		t.Errorf("x * x = %v, want 9", v)
	}
	v, _ = evalWith(t, "s + s", ctx, f, Options{})
	if v != "hihi" {
		t.Errorf("s + s = %v, want hihi", v)
	}
	v, _ = evalWith(t, "let x = 10 in x", ctx, f, Options{})
	if v != int32(10) {
		t.Errorf("let shadowing = %v, want 10", v)
	}

	// Missing context value propagates.
	f.Set(xSlot, nil)
	v, _ = evalWith(t, "x + 1", ctx, f, Options{})
	if v != nil {
		t.Errorf("missing x + 1 = %v, want missing", v)
	}
}

func TestRunReuse(t *testing.T) {
	ctx := NewContext()
	slot := ctx.Bind("x", types.TInt32)

	expr, err := parser.Parse("let y = x * 2 in y + 1")
	if err != nil {
		t.Fatal(err)
	}
	checked, err := Check(expr, ctx, Options{})
	if err != nil {
		t.Fatal(err)
	}
	prog := Compile(checked)

	f := NewFrame(ctx)
	for i, want := range []any{int32(1), int32(3), int32(5)} {
		f.Set(slot, int32(i))
		got, err := prog.Run(f)
		if err != nil {
			t.Fatal(err)
		}
		if got != want {
			t.Errorf("run %d = %v, want %v", i, got, want)
		}
	}

	if _, err := prog.Run(NewFrame(NewContext())); err == nil {
		t.Error("frame from the wrong context should be rejected")
	}
}

func TestDicts(t *testing.T) {
	ctx := NewContext()
	slot := ctx.Bind("d", types.Dict{Key: types.TString, Value: types.TInt32})
	f := NewFrame(ctx)
	f.Set(slot, map[any]any{"b": int32(2), "a": int32(1)})

	tests := []struct {
		src  string
		want string
	}{
		{`d["a"]`, "1"},
		{`d["z"]`, "NA"},
		{`d.contains("a")`, "true"},
		{`d.contains("z")`, "false"},
		{"d.size", "2"},
		{"d.keys", "[a, b]"},
		{"d.values", "[1, 2]"},
	}
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			v, typ := evalWith(t, tt.src, ctx, f, Options{})
			if got := Render(typ, v); got != tt.want {
				t.Errorf("%s = %s, want %s", tt.src, got, tt.want)
			}
		})
	}
}

func TestGenomicConstructors(t *testing.T) {
	tests := []struct {
		src  string
		want string
	}{
		{`Locus("1:1000")`, "1:1000"},
		{`Locus("1", 1000)`, "1:1000"},
		{`Locus("X:1.5K")`, "X:1500"},
		{`Locus("1:1000").contig`, "1"},
		{`Locus("1", 1000).position`, "1000"},
		{`Locus(GRCh38)("chr1:5000").contig`, "chr1"},
		{`Variant("1:1000:A:T")`, "1:1000:A:T"},
		{`Variant("1", 1000, "A", "T").ref`, "A"},
		{`Variant("1:1000:A:T").alt`, "T"},
		{`Variant("1:1000:A:T").nAlleles`, "2"},
		{`Variant("1:1000:A:T,C").nAltAlleles`, "2"},
		{`Variant("1:1000:A:T,C").nGenotypes`, "6"},
		{`Variant("1:1000:A:T").isBiallelic`, "true"},
		{`Variant("1:1000:A:T,C").isBiallelic`, "false"},
		{`Variant("1:1000:A:T").locus.contig`, "1"},
		{`Variant("1:1000:A:T").altAllele.isSNP`, "true"},
		{`Variant("1:1000:A:T").altAllele.isTransversion`, "true"},
		{`Variant("1:1000:A:G").altAllele.isTransition`, "true"},
		{`Variant("1:1000:AT:A").altAllele.isDeletion`, "true"},
		{`Variant("1:1000:A:T").isAutosomal`, "true"},
		{`Variant("X:1000:A:T").isAutosomal`, "false"},
		{`Interval("1:100-200").start`, "1:100"},
		{`Interval("1:100-200").end`, "1:200"},
		{`Interval(Locus("1", 100), Locus("1", 200)).contains(Locus("1", 150))`, "true"},
		{`Interval("1", 100, 200).contains(Locus("1", 200))`, "false"},
		{`Interval("1", 100, 200).contains(Locus("1", 100))`, "true"},
		{`Interval("1", 100, 200).overlaps(Interval("1", 150, 300))`, "true"},
		{`Interval("1", 100, 200).overlaps(Interval("1", 200, 300))`, "false"},
		{`str(Interval("1", 100, 200))`, "1:100-1:200"},
	}
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			if got := evalStr(t, tt.src); got != tt.want {
				t.Errorf("%s = %s, want %s", tt.src, got, tt.want)
			}
		})
	}
}

func TestCallMethods(t *testing.T) {
	ctx := NewContext()
	slot := ctx.Bind("g", types.TCall)
	f := NewFrame(ctx)

	het := genome.MakeCall(0, 1)
	f.Set(slot, het)

	tests := []struct {
		src  string
		want string
	}{
		{"g.isHomRef()", "false"},
		{"g.isHet()", "true"},
		{"g.isHomVar()", "false"},
		{"g.isCalled()", "true"},
		{"g.isNotCalled()", "false"},
		{"g.gtj", "0"},
		{"g.gtk", "1"},
		{"g.gt", "1"},
		{"g.nNonRefAlleles()", "1"},
		{"g.toString()", "0/1"},
	}
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			v, typ := evalWith(t, tt.src, ctx, f, Options{})
			if got := Render(typ, v); got != tt.want {
				t.Errorf("%s = %s, want %s", tt.src, got, tt.want)
			}
		})
	}

	f.Set(slot, nil)
	v, _ := evalWith(t, "g.isCalled()", ctx, f, Options{})
	if v != false {
		t.Errorf("isCalled on missing = %v, want false", v)
	}
	v, _ = evalWith(t, "g.isNotCalled()", ctx, f, Options{})
	if v != true {
		t.Errorf("isNotCalled on missing = %v, want true", v)
	}
	v, _ = evalWith(t, "g.isHet()", ctx, f, Options{})
	if v != nil {
		t.Errorf("isHet on missing = %v, want missing", v)
	}
}

func gsContext(t *testing.T) (*EvalContext, *Frame) {
	t.Helper()
	ctx := NewContext()
	slot := ctx.Bind("gs", types.Aggregable{Elem: types.TCall})
	f := NewFrame(ctx)
	f.Set(slot, FromSlice(types.TCall, []any{
		genome.MakeCall(0, 0),
		genome.MakeCall(0, 1),
		nil,
		genome.MakeCall(1, 1),
	}))
	return ctx, f
}

func TestAggregations(t *testing.T) {
	ctx, f := gsContext(t)

	tests := []struct {
		src  string
		want string
	}{
		{"gs.count()", "4"},
		{"gs.filter(g => g.isCalled()).count()", "3"},
		{"gs.filter(g => g.isHet()).count()", "1"},
		{"gs.map(g => g.gt).sum()", "3"},
		{"gs.map(g => g.gt).min()", "0"},
		{"gs.map(g => g.gt).max()", "2"},
		{"gs.map(g => g.gt).collect()", "[0, 1, NA, 2]"},
		{"gs.fraction(g => g.isHet())", "0.25"},
		{"gs.fraction(g => g.isCalled())", "0.75"},
		{"gs.map(g => g.nNonRefAlleles()).sum()", "3"},
		{"gs.filter(g => g.isCalled()).map(g => g.gt).collect()", "[0, 1, 2]"},
		{"let m = gs.map(g => g.gt) in m.sum()", "3"},
		{"let m = gs.map(g => g.gt) in m.sum() + m.count()", "7"},
		{"gs.map(g => g.gt * 2).collect()", "[0, 2, NA, 4]"},
		{"gs.map(g => g.gt / 2).sum()", "1.5"},
	}
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			v, typ := evalWith(t, tt.src, ctx, f, Options{})
			if got := Render(typ, v); got != tt.want {
				t.Errorf("%s = %s, want %s", tt.src, got, tt.want)
			}
		})
	}
}

func TestAggregationStats(t *testing.T) {
	ctx, f := gsContext(t)

	v, typ := evalWith(t, "gs.map(g => g.gt).stats()", ctx, f, Options{})
	st, ok := typ.(types.Struct)
	if !ok {
		t.Fatalf("stats type = %s, want Struct", typ)
	}
	if len(st.Fields) != 6 || st.Fields[0].Name != "mean" || st.Fields[4].Name != "nNotMissing" {
		t.Fatalf("unexpected stats fields: %s", typ)
	}

	fields := v.([]any)
	if fields[0] != 1.0 {
		t.Errorf("mean = %v, want 1.0", fields[0])
	}
	if want := math.Sqrt(2.0 / 3.0); fields[1] != want {
		t.Errorf("stDev = %v, want %v", fields[1], want)
	}
	if fields[2] != 0.0 || fields[3] != 2.0 {
		t.Errorf("min, max = %v, %v, want 0.0, 2.0", fields[2], fields[3])
	}
	if fields[4] != int64(3) {
		t.Errorf("nNotMissing = %v, want 3", fields[4])
	}
	if fields[5] != 3.0 {
		t.Errorf("sum = %v, want 3.0", fields[5])
	}

	// No non-missing elements: moments are missing, counters zero.
	v, _ = evalWith(t, "gs.filter(g => false).map(g => g.gt).stats()", ctx, f, Options{})
	fields = v.([]any)
	if fields[0] != nil || fields[4] != int64(0) || fields[5] != 0.0 {
		t.Errorf("empty stats = %v", fields)
	}
}

func TestAggregationEdges(t *testing.T) {
	ctx, f := gsContext(t)

	// fraction over an empty aggregable is 0/0.
	v, _ := evalWith(t, "gs.filter(g => false).fraction(g => true)", ctx, f, Options{})
	if !math.IsNaN(v.(float64)) {
		t.Errorf("empty fraction = %v, want NaN", v)
	}

	// min of no elements is missing.
	v, _ = evalWith(t, "gs.filter(g => false).map(g => g.gt).min()", ctx, f, Options{})
	if v != nil {
		t.Errorf("empty min = %v, want missing", v)
	}

	// Float sums widen to Float64, integral ones to Int64.
	_, typ := evalWith(t, "gs.map(g => g.gt).sum()", ctx, f, Options{})
	if _, ok := typ.(types.Int64); !ok {
		t.Errorf("integral aggregable sum type = %s, want Int64", typ)
	}
	_, typ = evalWith(t, "gs.map(g => g.gt / 1).sum()", ctx, f, Options{})
	if _, ok := typ.(types.Float64); !ok {
		t.Errorf("float aggregable sum type = %s, want Float64", typ)
	}
}

func TestFatalErrors(t *testing.T) {
	tests := []struct {
		src  string
		want string
	}{
		{"1 // 0", "division by zero"},
		{"7 % 0", "division by zero"},
		{"2147483648L // 0", "division by zero"},
		{"[1, 2][5]", "array index out of range: 5 (size 2)"},
		{"[1, 2][-1]", "array index out of range: -1 (size 2)"},
		{"range(0).head()", "head of empty array"},
		{`"x".toInt32()`, `cannot parse "x" as Int32`},
		{`"(" ~ "abc"`, "invalid regular expression"},
		{`Locus("Z:100")`, "no contig of reference genome"},
		{`Variant("1:1000:A:T,C").alt`, "alt called on multiallelic variant"},
		{`Interval(Locus("1", 200), Locus("1", 100))`, "start must precede end"},
	}
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			fe := evalFatal(t, tt.src)
			if got := fe.Error(); !strings.Contains(got, tt.want) {
				t.Errorf("%s fault = %q, want it to mention %q", tt.src, got, tt.want)
			}
		})
	}
}
