package eval

import (
	"strconv"
	"strings"

	"github.com/gexlang/gex/internal/types"
)

func registerStringMethods(r *registry) {
	r.method("length", sig(types.TInt32, func(args []any) any {
		return int32(len(args[0].(string)))
	}, types.TString))

	r.method("split",
		sig(types.Array{Elem: types.TString}, splitImpl, types.TString, types.TString))

	r.method("replace", sig(types.TString, func(args []any) any {
		return mustCompile(args[1].(string)).ReplaceAllString(args[0].(string), args[2].(string))
	}, types.TString, types.TString, types.TString))

	r.method("toInt32", sig(types.TInt32, parseNum("Int32", func(s string) (any, error) {
		v, err := strconv.ParseInt(s, 10, 32)
		return int32(v), err
	}), types.TString))
	r.method("toInt64", sig(types.TInt64, parseNum("Int64", func(s string) (any, error) {
		v, err := strconv.ParseInt(s, 10, 64)
		return v, err
	}), types.TString))
	r.method("toFloat32", sig(types.TFloat32, parseNum("Float32", func(s string) (any, error) {
		v, err := strconv.ParseFloat(s, 32)
		return float32(v), err
	}), types.TString))
	r.method("toFloat64", sig(types.TFloat64, parseNum("Float64", func(s string) (any, error) {
		v, err := strconv.ParseFloat(s, 64)
		return v, err
	}), types.TString))

	r.method("toUpper", sig(types.TString, func(args []any) any {
		return strings.ToUpper(args[0].(string))
	}, types.TString))
	r.method("toLower", sig(types.TString, func(args []any) any {
		return strings.ToLower(args[0].(string))
	}, types.TString))
}

// splitImpl treats the separator as a regular expression and drops
// trailing empty fields, matching Java's String.split. The empty
// string splits to a single empty field, not an empty array.
func splitImpl(args []any) any {
	s := args[0].(string)
	if s == "" {
		return []any{""}
	}
	parts := mustCompile(args[1].(string)).Split(s, -1)
	n := len(parts)
	for n > 0 && parts[n-1] == "" {
		n--
	}
	out := make([]any, n)
	for i := 0; i < n; i++ {
		out[i] = parts[i]
	}
	return out
}

func parseNum(typeName string, parse func(string) (any, error)) impl {
	return func(args []any) any {
		s := args[0].(string)
		v, err := parse(s)
		if err != nil {
			fatalf("cannot parse %q as %s", s, typeName)
		}
		return v
	}
}
