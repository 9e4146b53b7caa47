package eval

import (
	"math"
	"regexp"

	"github.com/gexlang/gex/internal/types"
)

// number covers the runtime representations of the numeric types.
type number interface {
	int32 | int64 | float32 | float64
}

func addOf[N number](args []any) any { return args[0].(N) + args[1].(N) }
func subOf[N number](args []any) any { return args[0].(N) - args[1].(N) }
func mulOf[N number](args []any) any { return args[0].(N) * args[1].(N) }
func negOf[N number](args []any) any { return -args[0].(N) }

func minOf[N number](args []any) any {
	a, b := args[0].(N), args[1].(N)
	if b < a {
		return b
	}
	return a
}

func maxOf[N number](args []any) any {
	a, b := args[0].(N), args[1].(N)
	if b > a {
		return b
	}
	return a
}

func absOf[N int32 | int64](args []any) any {
	v := args[0].(N)
	if v < 0 {
		return -v
	}
	return v
}

// sumOf folds an array of N, skipping missing elements. An empty or
// all-missing array sums to zero.
func sumOf[N number](args []any) any {
	var sum N
	for _, v := range args[0].([]any) {
		if v != nil {
			sum += v.(N)
		}
	}
	return sum
}

// floorDivOf rounds toward negative infinity, so -7 // 2 is -4.
func floorDivOf[N int32 | int64](args []any) any {
	a, b := args[0].(N), args[1].(N)
	if b == 0 {
		fatalf("division by zero")
	}
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q
}

func remOf[N int32 | int64](args []any) any {
	a, b := args[0].(N), args[1].(N)
	if b == 0 {
		fatalf("division by zero")
	}
	return a % b
}

func floorDivFloat32(args []any) any {
	return float32(math.Floor(float64(args[0].(float32)) / float64(args[1].(float32))))
}

func floorDivFloat64(args []any) any {
	return math.Floor(args[0].(float64) / args[1].(float64))
}

func remFloat32(args []any) any {
	return float32(math.Mod(float64(args[0].(float32)), float64(args[1].(float32))))
}

func remFloat64(args []any) any {
	return math.Mod(args[0].(float64), args[1].(float64))
}

func identity(args []any) any { return args[0] }

func fn1(fn func(float64) float64) impl {
	return func(args []any) any { return fn(args[0].(float64)) }
}

func registerCore(r *registry) {
	r.function("isMissing",
		lenient(sig(types.TBoolean, func(args []any) any { return args[0] == nil }, tvar("T"))))
	r.function("isDefined",
		lenient(sig(types.TBoolean, func(args []any) any { return args[0] != nil }, tvar("T"))))

	t := tvar("T")
	r.function("orElse",
		lenient(sig(t, func(args []any) any {
			if args[0] != nil {
				return args[0]
			}
			return args[1]
		}, t, t)))

	r.function("str",
		sigT(types.TString, func(params []types.Type, result types.Type) impl {
			t := params[0]
			return func(args []any) any { return Render(t, args[0]) }
		}, tvar("T")))

	r.function("range",
		sig(types.Array{Elem: types.TInt32}, func(args []any) any {
			return intRange(0, args[0].(int32))
		}, types.TInt32),
		sig(types.Array{Elem: types.TInt32}, func(args []any) any {
			return intRange(args[0].(int32), args[1].(int32))
		}, types.TInt32, types.TInt32))

	r.function("min",
		sig(types.TInt32, minOf[int32], types.TInt32, types.TInt32),
		sig(types.TInt64, minOf[int64], types.TInt64, types.TInt64),
		sig(types.TFloat32, minOf[float32], types.TFloat32, types.TFloat32),
		sig(types.TFloat64, minOf[float64], types.TFloat64, types.TFloat64))
	r.function("max",
		sig(types.TInt32, maxOf[int32], types.TInt32, types.TInt32),
		sig(types.TInt64, maxOf[int64], types.TInt64, types.TInt64),
		sig(types.TFloat32, maxOf[float32], types.TFloat32, types.TFloat32),
		sig(types.TFloat64, maxOf[float64], types.TFloat64, types.TFloat64))
	r.function("abs",
		sig(types.TInt32, absOf[int32], types.TInt32),
		sig(types.TInt64, absOf[int64], types.TInt64),
		sig(types.TFloat32, func(args []any) any {
			return float32(math.Abs(float64(args[0].(float32))))
		}, types.TFloat32),
		sig(types.TFloat64, fn1(math.Abs), types.TFloat64))

	r.function("log", sig(types.TFloat64, fn1(math.Log), types.TFloat64))
	r.function("log10", sig(types.TFloat64, fn1(math.Log10), types.TFloat64))
	r.function("sqrt", sig(types.TFloat64, fn1(math.Sqrt), types.TFloat64))
	r.function("exp", sig(types.TFloat64, fn1(math.Exp), types.TFloat64))
	r.function("pow", sig(types.TFloat64, func(args []any) any {
		return math.Pow(args[0].(float64), args[1].(float64))
	}, types.TFloat64, types.TFloat64))
}

func registerOperators(r *registry) {
	r.unaryOp("-",
		sig(types.TInt32, negOf[int32], types.TInt32),
		sig(types.TInt64, negOf[int64], types.TInt64),
		sig(types.TFloat32, negOf[float32], types.TFloat32),
		sig(types.TFloat64, negOf[float64], types.TFloat64))
	r.unaryOp("+",
		sig(types.TInt32, identity, types.TInt32),
		sig(types.TInt64, identity, types.TInt64),
		sig(types.TFloat32, identity, types.TFloat32),
		sig(types.TFloat64, identity, types.TFloat64))
	r.unaryOp("!",
		sig(types.TBoolean, func(args []any) any { return !args[0].(bool) }, types.TBoolean))

	r.binaryOp("+",
		sig(types.TInt32, addOf[int32], types.TInt32, types.TInt32),
		sig(types.TInt64, addOf[int64], types.TInt64, types.TInt64),
		sig(types.TFloat32, addOf[float32], types.TFloat32, types.TFloat32),
		sig(types.TFloat64, addOf[float64], types.TFloat64, types.TFloat64),
		sig(types.TString, func(args []any) any {
			return args[0].(string) + args[1].(string)
		}, types.TString, types.TString))
	r.binaryOp("-",
		sig(types.TInt32, subOf[int32], types.TInt32, types.TInt32),
		sig(types.TInt64, subOf[int64], types.TInt64, types.TInt64),
		sig(types.TFloat32, subOf[float32], types.TFloat32, types.TFloat32),
		sig(types.TFloat64, subOf[float64], types.TFloat64, types.TFloat64))
	r.binaryOp("*",
		sig(types.TInt32, mulOf[int32], types.TInt32, types.TInt32),
		sig(types.TInt64, mulOf[int64], types.TInt64, types.TInt64),
		sig(types.TFloat32, mulOf[float32], types.TFloat32, types.TFloat32),
		sig(types.TFloat64, mulOf[float64], types.TFloat64, types.TFloat64))

	// True division is always Float64, so 5 / 0 is +Inf rather than a
	// fault. Floor division keeps the promoted operand type and faults
	// on an integral zero divisor.
	r.binaryOp("/",
		sig(types.TFloat64, func(args []any) any {
			return args[0].(float64) / args[1].(float64)
		}, types.TFloat64, types.TFloat64))
	r.binaryOp("//",
		sig(types.TInt32, floorDivOf[int32], types.TInt32, types.TInt32),
		sig(types.TInt64, floorDivOf[int64], types.TInt64, types.TInt64),
		sig(types.TFloat32, floorDivFloat32, types.TFloat32, types.TFloat32),
		sig(types.TFloat64, floorDivFloat64, types.TFloat64, types.TFloat64))
	r.binaryOp("%",
		sig(types.TInt32, remOf[int32], types.TInt32, types.TInt32),
		sig(types.TInt64, remOf[int64], types.TInt64, types.TInt64),
		sig(types.TFloat32, remFloat32, types.TFloat32, types.TFloat32),
		sig(types.TFloat64, remFloat64, types.TFloat64, types.TFloat64))
	r.binaryOp("**",
		sig(types.TFloat64, func(args []any) any {
			return math.Pow(args[0].(float64), args[1].(float64))
		}, types.TFloat64, types.TFloat64))
}

func intRange(start, stop int32) []any {
	if stop < start {
		return []any{}
	}
	vs := make([]any, 0, stop-start)
	for i := start; i < stop; i++ {
		vs = append(vs, i)
	}
	return vs
}

// comparisonImpl closes over the operator and the promoted operand
// type, so no type dispatch remains at run time. Ordering follows
// types.Compare; interior missing values sort first.
func comparisonImpl(op string, t types.Type) impl {
	switch op {
	case "==":
		return func(args []any) any { return types.Equal(t, args[0], args[1]) }
	case "!=":
		return func(args []any) any { return !types.Equal(t, args[0], args[1]) }
	case "<":
		return func(args []any) any { return types.Compare(t, args[0], args[1]) < 0 }
	case "<=":
		return func(args []any) any { return types.Compare(t, args[0], args[1]) <= 0 }
	case ">":
		return func(args []any) any { return types.Compare(t, args[0], args[1]) > 0 }
	}
	return func(args []any) any { return types.Compare(t, args[0], args[1]) >= 0 }
}

// regexMatch implements pattern ~ target as an unanchored search. The
// pattern compiles on every evaluation; a Program carries no mutable
// state, so concurrent runs stay safe.
func regexMatch(args []any) any {
	return mustCompile(args[0].(string)).MatchString(args[1].(string))
}

func mustCompile(pattern string) *regexp.Regexp {
	re, err := regexp.Compile(pattern)
	if err != nil {
		fatalf("invalid regular expression %q: %v", pattern, err)
	}
	return re
}
