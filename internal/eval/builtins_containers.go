package eval

import (
	"sort"
	"strings"

	"github.com/gexlang/gex/internal/types"
)

func registerArrayMethods(r *registry) {
	r.method("size", sig(types.TInt32, arrayLen, types.Array{Elem: tvar("T")}))
	r.method("length", sig(types.TInt32, arrayLen, types.Array{Elem: tvar("T")}))

	t := tvar("T")
	r.method("contains", sigT(types.TBoolean, containsBuilder, types.Array{Elem: t}, t))

	t = tvar("T")
	r.method("head", sig(t, func(args []any) any {
		arr := args[0].([]any)
		if len(arr) == 0 {
			fatalf("head of empty array")
		}
		return arr[0]
	}, types.Array{Elem: t}))

	r.method("mkString", sig(types.TString, func(args []any) any {
		arr := args[0].([]any)
		parts := make([]string, len(arr))
		for i, v := range arr {
			if v == nil {
				parts[i] = "NA"
			} else {
				parts[i] = v.(string)
			}
		}
		return strings.Join(parts, args[1].(string))
	}, types.Array{Elem: types.TString}, types.TString))

	t = tvar("T")
	r.method("toSet", sigT(types.Set{Elem: t}, toSetBuilder, types.Array{Elem: t}))

	// Array sum keeps the element type; missing elements are skipped,
	// so an all-missing or empty array sums to zero.
	r.method("sum",
		sig(types.TInt32, sumOf[int32], types.Array{Elem: types.TInt32}),
		sig(types.TInt64, sumOf[int64], types.Array{Elem: types.TInt64}),
		sig(types.TFloat32, sumOf[float32], types.Array{Elem: types.TFloat32}),
		sig(types.TFloat64, sumOf[float64], types.Array{Elem: types.TFloat64}))

	r.method("min",
		sigT(types.TInt32, minArrayBuilder, types.Array{Elem: types.TInt32}),
		sigT(types.TInt64, minArrayBuilder, types.Array{Elem: types.TInt64}),
		sigT(types.TFloat32, minArrayBuilder, types.Array{Elem: types.TFloat32}),
		sigT(types.TFloat64, minArrayBuilder, types.Array{Elem: types.TFloat64}))
	r.method("max",
		sigT(types.TInt32, maxArrayBuilder, types.Array{Elem: types.TInt32}),
		sigT(types.TInt64, maxArrayBuilder, types.Array{Elem: types.TInt64}),
		sigT(types.TFloat32, maxArrayBuilder, types.Array{Elem: types.TFloat32}),
		sigT(types.TFloat64, maxArrayBuilder, types.Array{Elem: types.TFloat64}))

	t = tvar("T")
	r.method("sort", sigT(types.Array{Elem: t}, sortBuilder, types.Array{Elem: t}))
}

func registerSetMethods(r *registry) {
	r.method("size", sig(types.TInt32, arrayLen, types.Set{Elem: tvar("T")}))

	t := tvar("T")
	r.method("contains", sigT(types.TBoolean, containsBuilder, types.Set{Elem: t}, t))

	t = tvar("T")
	r.method("toArray", sig(types.Array{Elem: t}, func(args []any) any {
		vs := args[0].([]any)
		out := make([]any, len(vs))
		copy(out, vs)
		return out
	}, types.Set{Elem: t}))
}

func registerDictMethods(r *registry) {
	k, v := tvar("K"), tvar("V")
	r.method("size", sig(types.TInt32, func(args []any) any {
		return int32(len(args[0].(map[any]any)))
	}, types.Dict{Key: k, Value: v}))

	k, v = tvar("K"), tvar("V")
	r.method("contains", sig(types.TBoolean, func(args []any) any {
		_, ok := args[0].(map[any]any)[args[1]]
		return ok
	}, types.Dict{Key: k, Value: v}, k))

	k, v = tvar("K"), tvar("V")
	r.method("keys", sigT(types.Array{Elem: k}, dictKeysBuilder, types.Dict{Key: k, Value: v}))

	k, v = tvar("K"), tvar("V")
	r.method("values", sigT(types.Array{Elem: v}, dictValuesBuilder, types.Dict{Key: k, Value: v}))
}

func arrayLen(args []any) any { return int32(len(args[0].([]any))) }

func containsBuilder(params []types.Type, _ types.Type) impl {
	elem := params[1]
	return func(args []any) any {
		for _, v := range args[0].([]any) {
			if types.Equal(elem, v, args[1]) {
				return true
			}
		}
		return false
	}
}

func toSetBuilder(params []types.Type, _ types.Type) impl {
	elem := params[0].(types.Array).Elem
	return func(args []any) any { return makeSet(elem, args[0].([]any)) }
}

// makeSet builds the canonical set representation: elements sorted by
// the type's ordering and deduplicated.
func makeSet(elem types.Type, vs []any) []any {
	out := make([]any, len(vs))
	copy(out, vs)
	sort.SliceStable(out, func(i, j int) bool { return types.Compare(elem, out[i], out[j]) < 0 })
	dst := out[:0]
	for i, v := range out {
		if i == 0 || !types.Equal(elem, out[i-1], v) {
			dst = append(dst, v)
		}
	}
	return dst
}

func minArrayBuilder(params []types.Type, _ types.Type) impl {
	elem := params[0].(types.Array).Elem
	return func(args []any) any { return arrayExtreme(elem, false, args[0].([]any)) }
}

func maxArrayBuilder(params []types.Type, _ types.Type) impl {
	elem := params[0].(types.Array).Elem
	return func(args []any) any { return arrayExtreme(elem, true, args[0].([]any)) }
}

// arrayExtreme scans for the least or greatest non-missing element.
// An empty or all-missing array yields missing.
func arrayExtreme(elem types.Type, wantGreater bool, vs []any) any {
	var best any
	for _, v := range vs {
		if v == nil {
			continue
		}
		if best == nil {
			best = v
			continue
		}
		c := types.Compare(elem, v, best)
		if wantGreater && c > 0 || !wantGreater && c < 0 {
			best = v
		}
	}
	return best
}

func sortBuilder(params []types.Type, _ types.Type) impl {
	elem := params[0].(types.Array).Elem
	return func(args []any) any {
		arr := args[0].([]any)
		out := make([]any, len(arr))
		copy(out, arr)
		sort.SliceStable(out, func(i, j int) bool { return types.Compare(elem, out[i], out[j]) < 0 })
		return out
	}
}

func dictKeysBuilder(params []types.Type, _ types.Type) impl {
	d := params[0].(types.Dict)
	return func(args []any) any {
		return types.SortedKeys(d.Key, args[0].(map[any]any))
	}
}

// dictValuesBuilder orders values by their keys, so the result is
// deterministic.
func dictValuesBuilder(params []types.Type, _ types.Type) impl {
	d := params[0].(types.Dict)
	return func(args []any) any {
		m := args[0].(map[any]any)
		keys := types.SortedKeys(d.Key, m)
		vs := make([]any, len(keys))
		for i, key := range keys {
			vs[i] = m[key]
		}
		return vs
	}
}

// arrayIndex faults on an out of range index, unlike slicing which
// clamps.
func arrayIndex(args []any) any {
	arr := args[0].([]any)
	i := int(args[1].(int32))
	if i < 0 || i >= len(arr) {
		fatalf("array index out of range: %d (size %d)", i, len(arr))
	}
	return arr[i]
}

// dictIndex yields missing for an absent key.
func dictIndex(args []any) any {
	v, ok := args[0].(map[any]any)[args[1]]
	if !ok {
		return nil
	}
	return v
}
