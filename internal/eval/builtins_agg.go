package eval

import (
	"math"

	"github.com/gexlang/gex/internal/ast"
	"github.com/gexlang/gex/internal/types"
)

// statsType is the result of Aggregable stats: running moments and
// extremes over the non-missing elements.
var statsType = types.NewStruct(
	[]string{"mean", "stDev", "min", "max", "nNotMissing", "sum"},
	[]types.Type{types.TFloat64, types.TFloat64, types.TFloat64, types.TFloat64, types.TInt64, types.TFloat64})

// checkAggMethod types methods on Aggregable receivers. They bypass
// the registry: lambda arguments bind a parameter slot, and the
// receiver type has no runtime representation the registry could
// match.
func (c *checker) checkAggMethod(n *ast.MethodCallExpression, agg types.Aggregable) (*nodeInfo, error) {
	pos := n.GetToken().Pos
	elem := types.Optional(agg.Elem)

	switch n.Method {
	case "count":
		if err := c.noArgs(n, agg); err != nil {
			return nil, err
		}
		return c.set(n, &nodeInfo{typ: types.TInt64, aggOp: "count", elem: elem}), nil

	case "sum":
		if err := c.noArgs(n, agg); err != nil {
			return nil, err
		}
		var result types.Type
		switch {
		case types.IsIntegral(elem):
			result = types.TInt64
		case types.IsNumeric(elem):
			result = types.TFloat64
		default:
			return nil, c.failf(pos, "%s.sum requires numeric elements", agg)
		}
		return c.set(n, &nodeInfo{typ: result, aggOp: "sum", elem: elem}), nil

	case "min", "max":
		if err := c.noArgs(n, agg); err != nil {
			return nil, err
		}
		if !types.IsNumeric(elem) {
			return nil, c.failf(pos, "%s.%s requires numeric elements", agg, n.Method)
		}
		return c.set(n, &nodeInfo{typ: elem, aggOp: n.Method, elem: elem}), nil

	case "stats":
		if err := c.noArgs(n, agg); err != nil {
			return nil, err
		}
		if !types.IsNumeric(elem) {
			return nil, c.failf(pos, "%s.stats requires numeric elements", agg)
		}
		return c.set(n, &nodeInfo{typ: statsType, aggOp: "stats", elem: elem}), nil

	case "collect":
		if err := c.noArgs(n, agg); err != nil {
			return nil, err
		}
		return c.set(n, &nodeInfo{typ: types.Array{Elem: elem}, aggOp: "collect", elem: elem}), nil

	case "fraction":
		body, err := c.lambdaArg(n, agg)
		if err != nil {
			return nil, err
		}
		if !isBoolean(body.typ) {
			return nil, c.failf(n.Args[0].GetToken().Pos,
				"%s.fraction predicate must be Boolean, got %s", agg, body.typ)
		}
		return c.set(n, &nodeInfo{typ: types.TFloat64, aggOp: "fraction", elem: elem}), nil

	case "filter":
		body, err := c.lambdaArg(n, agg)
		if err != nil {
			return nil, err
		}
		if !isBoolean(body.typ) {
			return nil, c.failf(n.Args[0].GetToken().Pos,
				"%s.filter predicate must be Boolean, got %s", agg, body.typ)
		}
		return c.set(n, &nodeInfo{typ: types.Aggregable{Elem: elem}, aggOp: "filter", elem: elem}), nil

	case "map":
		body, err := c.lambdaArg(n, agg)
		if err != nil {
			return nil, err
		}
		return c.set(n, &nodeInfo{typ: types.Aggregable{Elem: body.typ}, aggOp: "map", elem: elem}), nil
	}
	return nil, c.failf(pos, "%s has no method %s", agg, n.Method)
}

func (c *checker) noArgs(n *ast.MethodCallExpression, agg types.Aggregable) error {
	if len(n.Args) != 0 {
		return c.failf(n.GetToken().Pos, "%s.%s takes no arguments", agg, n.Method)
	}
	return nil
}

// lambdaArg checks a single-parameter lambda argument. The parameter
// gets a fresh slot and sees the aggregable's element type.
func (c *checker) lambdaArg(n *ast.MethodCallExpression, agg types.Aggregable) (*nodeInfo, error) {
	if len(n.Args) != 1 {
		return nil, c.failf(n.GetToken().Pos, "%s.%s expects a lambda argument", agg, n.Method)
	}
	lam, ok := n.Args[0].(*ast.LambdaExpression)
	if !ok {
		return nil, c.failf(n.Args[0].GetToken().Pos, "%s.%s expects a lambda argument", agg, n.Method)
	}
	slot := c.newSlot()
	c.scope = append(c.scope, binding{name: lam.Param, typ: types.Optional(agg.Elem), slot: slot})
	body, err := c.check(lam.Body)
	c.scope = c.scope[:len(c.scope)-1]
	if err != nil {
		return nil, err
	}
	c.set(lam, &nodeInfo{typ: body.typ, slot: slot})
	return body, nil
}

// lambdaThunk applies a compiled lambda body by writing the argument
// into the parameter's frame slot. Slots are unique per binding, so a
// deferred application cannot clobber an unrelated local.
type lambdaThunk struct {
	slot int
	body thunk
}

func (l lambdaThunk) apply(f *Frame, v any) any {
	f.values[l.slot] = v
	return l.body(f)
}

func aggThunk(recv thunk, fn func(a *Aggregable, f *Frame) any) thunk {
	return func(f *Frame) any {
		v := recv(f)
		if v == nil {
			return nil
		}
		return fn(v.(*Aggregable), f)
	}
}

func (c *compiler) compileAgg(n *ast.MethodCallExpression, info *nodeInfo) thunk {
	recv := c.compile(n.Receiver)
	elem := info.elem

	switch info.aggOp {
	case "count":
		return aggThunk(recv, func(a *Aggregable, _ *Frame) any { return aggCount(a) })
	case "sum":
		integral := types.IsIntegral(elem)
		return aggThunk(recv, func(a *Aggregable, _ *Frame) any { return aggSum(a, integral) })
	case "min":
		return aggThunk(recv, func(a *Aggregable, _ *Frame) any { return aggExtreme(a, elem, false) })
	case "max":
		return aggThunk(recv, func(a *Aggregable, _ *Frame) any { return aggExtreme(a, elem, true) })
	case "stats":
		return aggThunk(recv, func(a *Aggregable, _ *Frame) any { return aggStats(a) })
	case "collect":
		return aggThunk(recv, func(a *Aggregable, _ *Frame) any { return aggCollect(a) })
	}

	le := n.Args[0].(*ast.LambdaExpression)
	lam := lambdaThunk{slot: c.at(le).slot, body: c.compile(le.Body)}
	switch info.aggOp {
	case "fraction":
		return aggThunk(recv, func(a *Aggregable, f *Frame) any { return aggFraction(a, lam, f) })
	case "filter":
		return aggThunk(recv, func(a *Aggregable, f *Frame) any { return aggFilter(a, lam, f) })
	}
	out := info.typ.(types.Aggregable).Elem
	return aggThunk(recv, func(a *Aggregable, f *Frame) any { return aggMap(a, out, lam, f) })
}

// aggCount counts every element, missing included.
func aggCount(a *Aggregable) any {
	var n int64
	a.Seq(func(any) bool { n++; return true })
	return n
}

// aggSum skips missing elements and widens: integral elements sum to
// Int64, floating ones to Float64.
func aggSum(a *Aggregable, integral bool) any {
	if integral {
		var sum int64
		a.Seq(func(v any) bool {
			if v != nil {
				sum += toInt64(v)
			}
			return true
		})
		return sum
	}
	var sum float64
	a.Seq(func(v any) bool {
		if v != nil {
			sum += toFloat64(v)
		}
		return true
	})
	return sum
}

func aggExtreme(a *Aggregable, elem types.Type, wantGreater bool) any {
	var best any
	a.Seq(func(v any) bool {
		if v == nil {
			return true
		}
		if best == nil {
			best = v
			return true
		}
		c := types.Compare(elem, v, best)
		if wantGreater && c > 0 || !wantGreater && c < 0 {
			best = v
		}
		return true
	})
	return best
}

// aggStats runs Welford's algorithm over the non-missing elements and
// reports the population standard deviation. With no non-missing
// elements the moments and extremes are missing but the counters are
// zero.
func aggStats(a *Aggregable) any {
	var (
		n          int64
		mean, m2   float64
		sum        float64
		minV, maxV float64
	)
	a.Seq(func(v any) bool {
		if v == nil {
			return true
		}
		x := toFloat64(v)
		n++
		if n == 1 || x < minV {
			minV = x
		}
		if n == 1 || x > maxV {
			maxV = x
		}
		delta := x - mean
		mean += delta / float64(n)
		m2 += delta * (x - mean)
		sum += x
		return true
	})
	if n == 0 {
		return []any{nil, nil, nil, nil, int64(0), 0.0}
	}
	return []any{mean, math.Sqrt(m2 / float64(n)), minV, maxV, n, sum}
}

func aggCollect(a *Aggregable) any {
	vs := []any{}
	a.Seq(func(v any) bool {
		vs = append(vs, v)
		return true
	})
	return vs
}

// aggFraction divides the count of elements whose predicate holds by
// the count of all elements. A missing predicate result counts only
// toward the denominator; an empty aggregable yields NaN.
func aggFraction(a *Aggregable, lam lambdaThunk, f *Frame) any {
	var num, den int64
	a.Seq(func(v any) bool {
		den++
		if lam.apply(f, v) == true {
			num++
		}
		return true
	})
	return float64(num) / float64(den)
}

// aggFilter keeps elements whose predicate is true; false and missing
// both drop. The result iterates lazily over the source.
func aggFilter(a *Aggregable, lam lambdaThunk, f *Frame) any {
	return &Aggregable{Elem: a.Elem, Seq: func(yield func(any) bool) {
		a.Seq(func(v any) bool {
			if lam.apply(f, v) == true {
				return yield(v)
			}
			return true
		})
	}}
}

// aggMap transforms every element, missing included: the lambda body
// decides how missing arguments propagate.
func aggMap(a *Aggregable, elem types.Type, lam lambdaThunk, f *Frame) any {
	return &Aggregable{Elem: elem, Seq: func(yield func(any) bool) {
		a.Seq(func(v any) bool {
			return yield(lam.apply(f, v))
		})
	}}
}

func toInt64(v any) int64 {
	if n, ok := v.(int32); ok {
		return int64(n)
	}
	return v.(int64)
}

func toFloat64(v any) float64 {
	switch n := v.(type) {
	case int32:
		return float64(n)
	case int64:
		return float64(n)
	case float32:
		return float64(n)
	}
	return v.(float64)
}
