package eval

import (
	"github.com/gexlang/gex/internal/types"
)

// impl is a resolved builtin: runtime values in, one runtime value out.
// Arguments arrive widened to the signature's parameter types. Strict
// impls never see a missing argument.
type impl func(args []any) any

// conv widens one numeric argument to the parameter type it matched.
type conv func(any) any

// builder produces an impl specialized to the resolved parameter and
// result types. Builtins whose behavior depends on a type parameter
// (sort, toSet, contains, str) register builders instead of fixed
// impls.
type builder func(params []types.Type, result types.Type) impl

type signature struct {
	params []types.Type
	result types.Type
	fn     impl
	build  builder
	// lenient impls receive missing arguments instead of
	// short-circuiting to a missing result.
	lenient bool
}

// sig declares a fixed-impl signature.
func sig(result types.Type, fn impl, params ...types.Type) signature {
	return signature{params: params, result: result, fn: fn}
}

// sigT declares a type-directed signature whose impl is built from the
// resolved types at lookup time.
func sigT(result types.Type, build builder, params ...types.Type) signature {
	return signature{params: params, result: result, build: build}
}

func lenient(s signature) signature {
	s.lenient = true
	return s
}

// tvar returns a signature type variable. Variables sharing a name
// within one signature resolve to the same type.
func tvar(name string) types.Type { return &types.Variable{Name: name} }

// registry holds the typed builtin surface: functions, methods keyed
// by name with the receiver as the first parameter, and unary and
// binary operators. Candidates are tried in registration order with
// the narrowest numeric signatures first, so the minimal promotion
// wins.
type registry struct {
	functions map[string][]signature
	methods   map[string][]signature
	unary     map[string][]signature
	binary    map[string][]signature
}

var builtins = newRegistry()

func newRegistry() *registry {
	r := &registry{
		functions: make(map[string][]signature),
		methods:   make(map[string][]signature),
		unary:     make(map[string][]signature),
		binary:    make(map[string][]signature),
	}
	registerCore(r)
	registerOperators(r)
	registerStringMethods(r)
	registerArrayMethods(r)
	registerSetMethods(r)
	registerDictMethods(r)
	registerCallMethods(r)
	registerAltAlleleMethods(r)
	return r
}

func (r *registry) function(name string, sigs ...signature) {
	r.functions[name] = append(r.functions[name], sigs...)
}

func (r *registry) method(name string, sigs ...signature) {
	r.methods[name] = append(r.methods[name], sigs...)
}

func (r *registry) unaryOp(op string, sigs ...signature) {
	r.unary[op] = append(r.unary[op], sigs...)
}

func (r *registry) binaryOp(op string, sigs ...signature) {
	r.binary[op] = append(r.binary[op], sigs...)
}

// match is one resolved call: the concrete result type, the impl, and
// per-argument widening conversions.
type match struct {
	result  types.Type
	fn      impl
	convs   []conv
	lenient bool
}

// lookup tries every candidate signature against the argument types.
// Unrealizable arguments never match; aggregables reach builtins only
// as method receivers, through their own dispatch.
func lookup(sigs []signature, args []types.Type) (match, bool) {
	for _, t := range args {
		if !types.Realizable(t) {
			return match{}, false
		}
	}
	for _, s := range sigs {
		if m, ok := matchOne(s, args); ok {
			return m, true
		}
	}
	return match{}, false
}

// matchOne unifies one signature against concrete argument types. Each
// attempt instantiates fresh variables shared across the parameters
// and result, so a signature like orElse(T, T) -> T stays linked.
// Arguments unify through their fully optional form; builtin results
// are always canonical optional types.
func matchOne(s signature, args []types.Type) (match, bool) {
	if len(args) != len(s.params) {
		return match{}, false
	}
	fresh := make(map[string]*types.Variable)
	params := make([]types.Type, len(s.params))
	for i, p := range s.params {
		params[i] = types.Instantiate(p, fresh)
	}
	result := types.Instantiate(s.result, fresh)

	var convs []conv
	for i, arg := range args {
		concrete := types.Optional(arg)
		if types.Unify(params[i], concrete) {
			continue
		}
		c := widen(concrete, params[i])
		if c == nil {
			return match{}, false
		}
		if convs == nil {
			convs = make([]conv, len(args))
		}
		convs[i] = c
	}

	m := match{result: types.Resolve(result), convs: convs, lenient: s.lenient}
	if s.build != nil {
		resolved := make([]types.Type, len(params))
		for i, p := range params {
			resolved[i] = types.Resolve(p)
		}
		m.fn = s.build(resolved, m.result)
	} else {
		m.fn = s.fn
	}
	return m, true
}

// widen returns a conversion from one numeric type up to another, or
// nil when no widening applies. Narrowing never applies.
func widen(from, to types.Type) conv {
	switch to.(type) {
	case types.Int64:
		if _, ok := from.(types.Int32); ok {
			return func(v any) any { return int64(v.(int32)) }
		}
	case types.Float32:
		switch from.(type) {
		case types.Int32:
			return func(v any) any { return float32(v.(int32)) }
		case types.Int64:
			return func(v any) any { return float32(v.(int64)) }
		}
	case types.Float64:
		switch from.(type) {
		case types.Int32:
			return func(v any) any { return float64(v.(int32)) }
		case types.Int64:
			return func(v any) any { return float64(v.(int64)) }
		case types.Float32:
			return func(v any) any { return float64(v.(float32)) }
		}
	}
	return nil
}
