package types

import (
	"cmp"
	"fmt"
	"sort"

	"github.com/gexlang/gex/internal/genome"
)

// Compare imposes the total ordering of type t on two runtime values.
// A missing value orders before every present value, recursively for
// container elements and struct fields.
func Compare(t Type, a, b any) int {
	if a == nil || b == nil {
		switch {
		case a == nil && b == nil:
			return 0
		case a == nil:
			return -1
		}
		return 1
	}

	switch t := shallowResolve(t).(type) {
	case Boolean:
		return compareBool(a.(bool), b.(bool))
	case Int32:
		return cmp.Compare(a.(int32), b.(int32))
	case Int64:
		return cmp.Compare(a.(int64), b.(int64))
	case Float32:
		return cmp.Compare(a.(float32), b.(float32))
	case Float64:
		return cmp.Compare(a.(float64), b.(float64))
	case String:
		return cmp.Compare(a.(string), b.(string))
	case Call:
		return cmp.Compare(a.(genome.Call), b.(genome.Call))
	case AltAllele:
		return genome.CompareAltAlleles(a.(genome.AltAllele), b.(genome.AltAllele))
	case Locus:
		return genome.CompareLoci(a.(genome.Locus), b.(genome.Locus))
	case Variant:
		return genome.CompareVariants(a.(genome.Variant), b.(genome.Variant))
	case Array:
		return compareSlices(t.Elem, a.([]any), b.([]any))
	case Set:
		// Sets are kept sorted and deduplicated, so element order is
		// canonical.
		return compareSlices(t.Elem, a.([]any), b.([]any))
	case Dict:
		return compareDicts(t, a.(map[any]any), b.(map[any]any))
	case Struct:
		av, bv := a.([]any), b.([]any)
		for i, f := range t.Fields {
			if c := Compare(f.Type, av[i], bv[i]); c != 0 {
				return c
			}
		}
		return 0
	case Interval:
		ai, bi := a.(genome.Interval), b.(genome.Interval)
		if c := Compare(t.Point, ai.Start, bi.Start); c != 0 {
			return c
		}
		return Compare(t.Point, ai.End, bi.End)
	}
	panic(fmt.Sprintf("cannot order values of type %s", t))
}

// Equal reports value equality under type t, with missing equal only to
// missing.
func Equal(t Type, a, b any) bool {
	return Compare(t, a, b) == 0
}

func compareBool(a, b bool) int {
	switch {
	case a == b:
		return 0
	case !a:
		return -1
	}
	return 1
}

func compareSlices(elem Type, a, b []any) int {
	for i := 0; i < len(a) && i < len(b); i++ {
		if c := Compare(elem, a[i], b[i]); c != 0 {
			return c
		}
	}
	return cmp.Compare(len(a), len(b))
}

func compareDicts(t Dict, a, b map[any]any) int {
	ka := SortedKeys(t.Key, a)
	kb := SortedKeys(t.Key, b)
	for i := 0; i < len(ka) && i < len(kb); i++ {
		if c := Compare(t.Key, ka[i], kb[i]); c != 0 {
			return c
		}
		if c := Compare(t.Value, a[ka[i]], b[kb[i]]); c != 0 {
			return c
		}
	}
	return cmp.Compare(len(ka), len(kb))
}

// SortedKeys returns a dict's keys ordered by the key type's ordering.
func SortedKeys(key Type, m map[any]any) []any {
	keys := make([]any, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return Compare(key, keys[i], keys[j]) < 0 })
	return keys
}

// CanCompare reports whether two types may meet under an ordering
// comparison: both numeric (compared after promotion) or the same
// realizable type up to required flags.
func CanCompare(a, b Type) bool {
	if IsNumeric(a) && IsNumeric(b) {
		return true
	}
	return Same(Optional(a), Optional(b)) && Realizable(a)
}

// Accepts reports whether v is a well-formed runtime value for type t.
// A nil value is accepted exactly when the type is not required.
func Accepts(t Type, v any) bool {
	if v == nil {
		return !IsRequired(t)
	}

	switch t := shallowResolve(t).(type) {
	case Boolean:
		_, ok := v.(bool)
		return ok
	case Int32:
		_, ok := v.(int32)
		return ok
	case Int64:
		_, ok := v.(int64)
		return ok
	case Float32:
		_, ok := v.(float32)
		return ok
	case Float64:
		_, ok := v.(float64)
		return ok
	case String:
		_, ok := v.(string)
		return ok
	case Call:
		c, ok := v.(genome.Call)
		return ok && c >= 0
	case AltAllele:
		_, ok := v.(genome.AltAllele)
		return ok
	case Locus:
		_, ok := v.(genome.Locus)
		return ok
	case Variant:
		_, ok := v.(genome.Variant)
		return ok
	case Array:
		elems, ok := v.([]any)
		if !ok {
			return false
		}
		for _, e := range elems {
			if !Accepts(t.Elem, e) {
				return false
			}
		}
		return true
	case Set:
		elems, ok := v.([]any)
		if !ok {
			return false
		}
		for _, e := range elems {
			if !Accepts(t.Elem, e) {
				return false
			}
		}
		return true
	case Dict:
		m, ok := v.(map[any]any)
		if !ok {
			return false
		}
		for k, val := range m {
			if !Accepts(t.Key, k) || !Accepts(t.Value, val) {
				return false
			}
		}
		return true
	case Struct:
		fields, ok := v.([]any)
		if !ok || len(fields) != len(t.Fields) {
			return false
		}
		for i, f := range t.Fields {
			if !Accepts(f.Type, fields[i]) {
				return false
			}
		}
		return true
	case Interval:
		iv, ok := v.(genome.Interval)
		return ok && Accepts(t.Point, iv.Start) && Accepts(t.Point, iv.End)
	}
	// Aggregables and unbound variables have no runtime values.
	return false
}
