package parser

import (
	"strings"
	"testing"

	"github.com/gexlang/gex/internal/types"
)

func TestParseTypeRoundTrip(t *testing.T) {
	// Parsing a canonical rendering reproduces the same text.
	canonical := []string{
		"Boolean",
		"Int32",
		"Int64",
		"Float32",
		"Float64",
		"String",
		"Call",
		"AltAllele",
		"!Int32",
		"Array[String]",
		"Set[Float64]",
		"Dict[String, Int32]",
		"!Array[!Int32]",
		"Struct{a: Int32, b: String}",
		"Struct{`1 kg`: Int32}",
		"Empty",
		"Locus(GRCh37)",
		"Variant(GRCh38)",
		"Interval[Locus(GRCh37)]",
		"Aggregable[Int32]",
		"Array[Struct{locus: Locus(GRCh37), alleles: Array[String]}]",
	}
	for _, input := range canonical {
		t.Run(input, func(t *testing.T) {
			typ, err := ParseType(input)
			if err != nil {
				t.Fatalf("ParseType(%q): %v", input, err)
			}
			if got := typ.String(); got != input {
				t.Errorf("round trip: got %q", got)
			}
		})
	}
}

func TestParseTypeAliases(t *testing.T) {
	tests := []struct {
		input string
		want  types.Type
	}{
		{"Int", types.TInt32},
		{"Float", types.TFloat64},
		{"Interval(GRCh37)", types.Interval{Point: types.Locus{RG: "GRCh37"}}},
		{"!Dict[String, Array[Int]]", types.Required(types.Dict{Key: types.TString, Value: types.Array{Elem: types.TInt32}})},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			typ, err := ParseType(tt.input)
			if err != nil {
				t.Fatalf("ParseType(%q): %v", tt.input, err)
			}
			if !types.Same(typ, tt.want) {
				t.Errorf("got %s, want %s", typ, tt.want)
			}
		})
	}
}

func TestParseTypeDecorators(t *testing.T) {
	decorated := `Struct{a: Int32 @id="DP" @number="A", b: String}`
	typ, err := ParseType(decorated)
	if err != nil {
		t.Fatalf("ParseType(%q): %v", decorated, err)
	}
	plain, err := ParseType("Struct{a: Int32, b: String}")
	if err != nil {
		t.Fatal(err)
	}
	if !types.Same(typ, plain) {
		t.Errorf("decorators changed the type: got %s", typ)
	}
}

func TestParseTypeErrors(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"", "expected type, found end of input"},
		{"Foo", "unknown type Foo"},
		{"Array", "expected '['"},
		{"Array[", "expected type, found end of input"},
		{"Dict[String]", "expected ','"},
		{"Struct{a: Int32, a: String}", "duplicate field name a"},
		{"Struct{a}", "expected ':'"},
		{"Locus", "expected '('"},
		{"Int32 Int32", `unexpected "Int32"`},
		{`Struct{a: Int32 @id=5}`, "expected 'string literal'"},
		{"!", "expected type, found end of input"},
	}
	for _, tt := range tests {
		name := tt.input
		if name == "" {
			name = "empty"
		}
		t.Run(name, func(t *testing.T) {
			_, err := ParseType(tt.input)
			if err == nil {
				t.Fatalf("ParseType(%q) succeeded, want error %q", tt.input, tt.want)
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("ParseType(%q) err = %v, want %q", tt.input, err, tt.want)
			}
		})
	}
}
