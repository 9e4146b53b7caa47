// Package types defines the closed type universe of the expression
// language: primitives, genomic types parameterized by a reference
// genome, containers, structs and the Aggregable pseudo-type. Types are
// immutable values except Variable, a mutable unification box used by
// registry signatures.
package types

import (
	"strings"
)

// Type is the interface for all types in our system.
type Type interface {
	String() string
}

// Canonical optional instances of the parameterless types.
var (
	TBoolean   Type = Boolean{}
	TInt32     Type = Int32{}
	TInt64     Type = Int64{}
	TFloat32   Type = Float32{}
	TFloat64   Type = Float64{}
	TString    Type = String{}
	TCall      Type = Call{}
	TAltAllele Type = AltAllele{}
)

// Primitives. Required marks a type non-nullable: a required type never
// holds a missing value.
type (
	Boolean struct{ Required bool }
	Int32   struct{ Required bool }
	Int64   struct{ Required bool }
	Float32 struct{ Required bool }
	Float64 struct{ Required bool }
	String  struct{ Required bool }
)

func (t Boolean) String() string { return reqPrefix(t.Required) + "Boolean" }
func (t Int32) String() string   { return reqPrefix(t.Required) + "Int32" }
func (t Int64) String() string   { return reqPrefix(t.Required) + "Int64" }
func (t Float32) String() string { return reqPrefix(t.Required) + "Float32" }
func (t Float64) String() string { return reqPrefix(t.Required) + "Float64" }
func (t String) String() string  { return reqPrefix(t.Required) + "String" }

func reqPrefix(required bool) string {
	if required {
		return "!"
	}
	return ""
}

// Call represents a genotype call, stored as a diploid allele-pair index.
type Call struct{ Required bool }

func (t Call) String() string { return reqPrefix(t.Required) + "Call" }

// AltAllele represents a reference/alternate allele pair.
type AltAllele struct{ Required bool }

func (t AltAllele) String() string { return reqPrefix(t.Required) + "AltAllele" }

// Locus is a chromosomal position on a particular reference genome.
type Locus struct {
	RG       string
	Required bool
}

func (t Locus) String() string { return reqPrefix(t.Required) + "Locus(" + t.RG + ")" }

// Variant is a locus plus reference and alternate alleles, on a
// particular reference genome.
type Variant struct {
	RG       string
	Required bool
}

func (t Variant) String() string { return reqPrefix(t.Required) + "Variant(" + t.RG + ")" }

// Array is an ordered collection with 0-based indexing.
type Array struct {
	Elem     Type
	Required bool
}

func (t Array) String() string { return reqPrefix(t.Required) + "Array[" + t.Elem.String() + "]" }

// Set is an unordered collection of unique elements.
type Set struct {
	Elem     Type
	Required bool
}

func (t Set) String() string { return reqPrefix(t.Required) + "Set[" + t.Elem.String() + "]" }

// Dict maps keys to values.
type Dict struct {
	Key      Type
	Value    Type
	Required bool
}

func (t Dict) String() string {
	return reqPrefix(t.Required) + "Dict[" + t.Key.String() + ", " + t.Value.String() + "]"
}

// Interval is a half-open range [start, end) of points.
type Interval struct {
	Point    Type
	Required bool
}

func (t Interval) String() string {
	return reqPrefix(t.Required) + "Interval[" + t.Point.String() + "]"
}

// Field is a single named slot of a Struct. Index is its 0-based
// position in declaration order.
type Field struct {
	Name  string
	Type  Type
	Index int
}

// Struct is an ordered record of named fields. The empty struct prints
// as Empty and two structs are the same type only when their fields
// agree in name, type and order.
type Struct struct {
	Fields   []Field
	Required bool
}

func (t Struct) String() string {
	if len(t.Fields) == 0 {
		return reqPrefix(t.Required) + "Empty"
	}
	var b strings.Builder
	b.WriteString(reqPrefix(t.Required))
	b.WriteString("Struct{")
	for i, f := range t.Fields {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(quoteFieldName(f.Name))
		b.WriteString(": ")
		b.WriteString(f.Type.String())
	}
	b.WriteString("}")
	return b.String()
}

// Field returns the named field, if present.
func (t Struct) Field(name string) (Field, bool) {
	for _, f := range t.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// NewStruct builds a struct type assigning field indices in order.
func NewStruct(names []string, typs []Type) Struct {
	fields := make([]Field, len(names))
	for i := range names {
		fields[i] = Field{Name: names[i], Type: typs[i], Index: i}
	}
	return Struct{Fields: fields}
}

// quoteFieldName renders a field name, backtick-quoting it when it is
// not a plain identifier.
func quoteFieldName(name string) string {
	if name == "" {
		return "``"
	}
	for i, r := range name {
		ok := r == '_' ||
			(r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') ||
			(i > 0 && r >= '0' && r <= '9')
		if !ok {
			escaped := strings.ReplaceAll(name, `\`, `\\`)
			escaped = strings.ReplaceAll(escaped, "`", "\\`")
			return "`" + escaped + "`"
		}
	}
	return name
}

// Aggregable is the type of a stream of records being aggregated. It is
// not realizable: no expression may produce an Aggregable as its final
// result, only consume one through an aggregator.
type Aggregable struct {
	Elem Type
}

func (t Aggregable) String() string { return "Aggregable[" + t.Elem.String() + "]" }

// Variable is a unification box. Registry signatures hold variables;
// each lookup instantiates fresh copies, so bound boxes never outlive a
// single signature match.
type Variable struct {
	Name string
	Box  Type
}

func (v *Variable) String() string {
	if v.Box != nil {
		return v.Box.String()
	}
	return "?" + v.Name
}

// IsRequired reports whether t carries the non-nullable flag.
func IsRequired(t Type) bool {
	switch typ := t.(type) {
	case Boolean:
		return typ.Required
	case Int32:
		return typ.Required
	case Int64:
		return typ.Required
	case Float32:
		return typ.Required
	case Float64:
		return typ.Required
	case String:
		return typ.Required
	case Call:
		return typ.Required
	case AltAllele:
		return typ.Required
	case Locus:
		return typ.Required
	case Variant:
		return typ.Required
	case Array:
		return typ.Required
	case Set:
		return typ.Required
	case Dict:
		return typ.Required
	case Interval:
		return typ.Required
	case Struct:
		return typ.Required
	case *Variable:
		if typ.Box != nil {
			return IsRequired(typ.Box)
		}
	}
	return false
}

// Required marks the top level of t non-nullable. Nested types keep
// their own flags, so !Array[Int32] has an optional element.
func Required(t Type) Type {
	switch typ := t.(type) {
	case Boolean:
		typ.Required = true
		return typ
	case Int32:
		typ.Required = true
		return typ
	case Int64:
		typ.Required = true
		return typ
	case Float32:
		typ.Required = true
		return typ
	case Float64:
		typ.Required = true
		return typ
	case String:
		typ.Required = true
		return typ
	case Call:
		typ.Required = true
		return typ
	case AltAllele:
		typ.Required = true
		return typ
	case Locus:
		typ.Required = true
		return typ
	case Variant:
		typ.Required = true
		return typ
	case Array:
		typ.Required = true
		return typ
	case Set:
		typ.Required = true
		return typ
	case Dict:
		typ.Required = true
		return typ
	case Interval:
		typ.Required = true
		return typ
	case Struct:
		typ.Required = true
		return typ
	}
	return t
}

// Optional strips the required flag from t at every level of nesting.
func Optional(t Type) Type {
	switch typ := t.(type) {
	case Boolean:
		return Boolean{}
	case Int32:
		return Int32{}
	case Int64:
		return Int64{}
	case Float32:
		return Float32{}
	case Float64:
		return Float64{}
	case String:
		return String{}
	case Call:
		return Call{}
	case AltAllele:
		return AltAllele{}
	case Locus:
		return Locus{RG: typ.RG}
	case Variant:
		return Variant{RG: typ.RG}
	case Array:
		return Array{Elem: Optional(typ.Elem)}
	case Set:
		return Set{Elem: Optional(typ.Elem)}
	case Dict:
		return Dict{Key: Optional(typ.Key), Value: Optional(typ.Value)}
	case Interval:
		return Interval{Point: Optional(typ.Point)}
	case Struct:
		fields := make([]Field, len(typ.Fields))
		for i, f := range typ.Fields {
			fields[i] = Field{Name: f.Name, Type: Optional(f.Type), Index: f.Index}
		}
		return Struct{Fields: fields}
	case Aggregable:
		return Aggregable{Elem: Optional(typ.Elem)}
	case *Variable:
		if typ.Box != nil {
			return Optional(typ.Box)
		}
	}
	return t
}

// IsNumeric reports whether t is one of the four numeric primitives.
func IsNumeric(t Type) bool {
	switch t.(type) {
	case Int32, Int64, Float32, Float64:
		return true
	}
	return false
}

func numericRank(t Type) int {
	switch t.(type) {
	case Int32:
		return 1
	case Int64:
		return 2
	case Float32:
		return 3
	case Float64:
		return 4
	}
	return 0
}

// Promote returns the common optional type two numeric types widen to:
// Int32 < Int64 < Float32 < Float64.
func Promote(a, b Type) (Type, bool) {
	ra, rb := numericRank(a), numericRank(b)
	if ra == 0 || rb == 0 {
		return nil, false
	}
	r := ra
	if rb > r {
		r = rb
	}
	switch r {
	case 1:
		return TInt32, true
	case 2:
		return TInt64, true
	case 3:
		return TFloat32, true
	}
	return TFloat64, true
}

// IsIntegral reports whether t is Int32 or Int64.
func IsIntegral(t Type) bool {
	switch t.(type) {
	case Int32, Int64:
		return true
	}
	return false
}

// Realizable reports whether values of t can be materialized as a query
// result. Aggregables and unbound variables are not realizable.
func Realizable(t Type) bool {
	switch typ := t.(type) {
	case Aggregable:
		return false
	case *Variable:
		if typ.Box == nil {
			return false
		}
		return Realizable(typ.Box)
	case Array:
		return Realizable(typ.Elem)
	case Set:
		return Realizable(typ.Elem)
	case Dict:
		return Realizable(typ.Key) && Realizable(typ.Value)
	case Interval:
		return Realizable(typ.Point)
	case Struct:
		for _, f := range typ.Fields {
			if !Realizable(f.Type) {
				return false
			}
		}
		return true
	}
	return true
}
