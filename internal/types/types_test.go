package types

import "testing"

func TestTypeStrings(t *testing.T) {
	tests := []struct {
		typ  Type
		want string
	}{
		{TInt32, "Int32"},
		{Int32{Required: true}, "!Int32"},
		{TFloat64, "Float64"},
		{TString, "String"},
		{TCall, "Call"},
		{TAltAllele, "AltAllele"},
		{Locus{RG: "GRCh37"}, "Locus(GRCh37)"},
		{Variant{RG: "GRCh38"}, "Variant(GRCh38)"},
		{Array{Elem: TInt32}, "Array[Int32]"},
		{Set{Elem: TString}, "Set[String]"},
		{Dict{Key: TString, Value: TInt32}, "Dict[String, Int32]"},
		{Interval{Point: Locus{RG: "GRCh37"}}, "Interval[Locus(GRCh37)]"},
		{Struct{}, "Empty"},
		{NewStruct([]string{"a", "b"}, []Type{TInt32, TString}), "Struct{a: Int32, b: String}"},
		{NewStruct([]string{"1kg"}, []Type{TInt32}), "Struct{`1kg`: Int32}"},
		{NewStruct([]string{"a b"}, []Type{TBoolean}), "Struct{`a b`: Boolean}"},
		{Aggregable{Elem: TInt32}, "Aggregable[Int32]"},
		{Array{Elem: Int32{Required: true}, Required: true}, "!Array[!Int32]"},
		{&Variable{Name: "T"}, "?T"},
		{&Variable{Name: "T", Box: TInt32}, "Int32"},
	}
	for _, tt := range tests {
		if got := tt.typ.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}

func TestRequiredFlag(t *testing.T) {
	if IsRequired(TInt32) {
		t.Error("canonical Int32 is optional")
	}
	if !IsRequired(Int32{Required: true}) {
		t.Error("!Int32 is required")
	}

	deep := Array{Elem: Int32{Required: true}, Required: true}
	stripped := Optional(deep)
	if IsRequired(stripped) {
		t.Error("Optional should strip the outer flag")
	}
	if IsRequired(stripped.(Array).Elem) {
		t.Error("Optional should strip nested flags")
	}
}

func TestPromote(t *testing.T) {
	tests := []struct {
		a, b Type
		want Type
		ok   bool
	}{
		{TInt32, TInt32, TInt32, true},
		{TInt32, TInt64, TInt64, true},
		{TInt64, TFloat32, TFloat32, true},
		{TInt32, TFloat64, TFloat64, true},
		{TFloat64, TInt32, TFloat64, true},
		{Int32{Required: true}, TInt32, TInt32, true},
		{TString, TInt32, nil, false},
		{TBoolean, TBoolean, nil, false},
	}
	for _, tt := range tests {
		got, ok := Promote(tt.a, tt.b)
		if ok != tt.ok {
			t.Errorf("Promote(%s, %s) ok = %v, want %v", tt.a, tt.b, ok, tt.ok)
			continue
		}
		if ok && !Same(got, tt.want) {
			t.Errorf("Promote(%s, %s) = %s, want %s", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestRealizable(t *testing.T) {
	realizable := []Type{
		TInt32, TString,
		Array{Elem: TFloat64},
		NewStruct([]string{"a"}, []Type{TCall}),
		Interval{Point: Locus{RG: "GRCh37"}},
	}
	for _, typ := range realizable {
		if !Realizable(typ) {
			t.Errorf("%s should be realizable", typ)
		}
	}

	notRealizable := []Type{
		Aggregable{Elem: TInt32},
		Array{Elem: Aggregable{Elem: TInt32}},
		NewStruct([]string{"a"}, []Type{Aggregable{Elem: TInt32}}),
		&Variable{Name: "T"},
		Dict{Key: TString, Value: &Variable{Name: "V"}},
	}
	for _, typ := range notRealizable {
		if Realizable(typ) {
			t.Errorf("%s should not be realizable", typ)
		}
	}
}

func TestSame(t *testing.T) {
	tests := []struct {
		a, b Type
		want bool
	}{
		{TInt32, TInt32, true},
		{TInt32, Int32{Required: true}, false},
		{TInt32, TInt64, false},
		{Locus{RG: "GRCh37"}, Locus{RG: "GRCh37"}, true},
		{Locus{RG: "GRCh37"}, Locus{RG: "GRCh38"}, false},
		{Array{Elem: TInt32}, Array{Elem: TInt32}, true},
		{Array{Elem: TInt32}, Array{Elem: TInt64}, false},
		{Array{Elem: TInt32}, Set{Elem: TInt32}, false},
		{Dict{Key: TString, Value: TInt32}, Dict{Key: TString, Value: TInt32}, true},
		{Dict{Key: TString, Value: TInt32}, Dict{Key: TInt32, Value: TInt32}, false},
		{
			NewStruct([]string{"a", "b"}, []Type{TInt32, TString}),
			NewStruct([]string{"a", "b"}, []Type{TInt32, TString}),
			true,
		},
		{
			NewStruct([]string{"a", "b"}, []Type{TInt32, TString}),
			NewStruct([]string{"b", "a"}, []Type{TString, TInt32}),
			false,
		},
	}
	for _, tt := range tests {
		if got := Same(tt.a, tt.b); got != tt.want {
			t.Errorf("Same(%s, %s) = %v, want %v", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestUnifyBindsVariables(t *testing.T) {
	v := &Variable{Name: "T"}
	pattern := Array{Elem: v}

	if !Unify(pattern, Array{Elem: TInt32}) {
		t.Fatal("Array[?T] should unify with Array[Int32]")
	}
	if v.Box == nil || !Same(v.Box, TInt32) {
		t.Fatalf("variable bound to %v, want Int32", v.Box)
	}

	// A bound variable only matches its binding.
	if Unify(v, TString) {
		t.Error("bound ?T=Int32 should not unify with String")
	}
	if !Unify(v, TInt32) {
		t.Error("bound ?T=Int32 should unify with Int32")
	}

	Clear(pattern)
	if v.Box != nil {
		t.Error("Clear should unbind the variable")
	}
	if !Unify(v, TString) {
		t.Error("cleared variable should bind again")
	}
}

func TestUnifyRequiredCompatibility(t *testing.T) {
	// An optional pattern accepts a required concrete type.
	if !Unify(Array{Elem: TInt32}, Array{Elem: TInt32, Required: true}) {
		t.Error("optional pattern should accept required concrete")
	}
	if !Unify(TInt32, Int32{Required: true}) {
		t.Error("optional primitive pattern should accept required concrete")
	}

	// A required pattern needs a required concrete type.
	if Unify(Array{Elem: TInt32, Required: true}, Array{Elem: TInt32}) {
		t.Error("required pattern should reject optional concrete")
	}
	if Unify(Int32{Required: true}, TInt32) {
		t.Error("required primitive pattern should reject optional concrete")
	}
}

func TestUnifyStructural(t *testing.T) {
	v := &Variable{Name: "T"}
	pattern := Dict{Key: TString, Value: v}

	if !Unify(pattern, Dict{Key: TString, Value: Array{Elem: TFloat64}}) {
		t.Fatal("Dict[String, ?T] should unify")
	}
	resolved := Resolve(pattern)
	want := Dict{Key: TString, Value: Array{Elem: TFloat64}}
	if !Same(resolved, want) {
		t.Errorf("Resolve = %s, want %s", resolved, want)
	}

	Clear(pattern)
	if Unify(pattern, Dict{Key: TInt32, Value: TFloat64}) {
		t.Error("key type mismatch should fail")
	}
}

func TestInstantiate(t *testing.T) {
	v := &Variable{Name: "T"}
	sig := Dict{Key: v, Value: Array{Elem: v}}

	fresh := make(map[string]*Variable)
	inst := Instantiate(sig, fresh).(Dict)

	instKey := inst.Key.(*Variable)
	if instKey == v {
		t.Fatal("Instantiate must produce fresh boxes")
	}
	if inst.Value.(Array).Elem.(*Variable) != instKey {
		t.Fatal("same-named variables must share one fresh box")
	}

	if !Unify(inst, Dict{Key: TString, Value: Array{Elem: TString}}) {
		t.Fatal("instantiated signature should unify")
	}
	if v.Box != nil {
		t.Error("the template variable must stay unbound")
	}
	if !Same(Resolve(inst), Dict{Key: TString, Value: Array{Elem: TString}}) {
		t.Errorf("Resolve(inst) = %s", Resolve(inst))
	}
}
