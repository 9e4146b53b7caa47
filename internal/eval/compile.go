package eval

import (
	"fmt"

	"github.com/gexlang/gex/internal/ast"
	"github.com/gexlang/gex/internal/types"
)

// thunk evaluates one compiled node against a frame.
type thunk func(f *Frame) any

// Program is a compiled expression. It holds no mutable state, so one
// Program may run concurrently over distinct frames.
type Program struct {
	root thunk
	typ  types.Type
	base int
	size int
}

// Compile lowers a checked expression to closures. All name and
// overload resolution happened during checking; the closures only
// move values.
func Compile(c *Checked) *Program {
	cp := &compiler{info: c.info}
	return &Program{root: cp.compile(c.expr), typ: c.typ, base: c.base, size: c.size}
}

// Type returns the program's result type.
func (p *Program) Type() types.Type { return p.typ }

// Run evaluates the program against a frame of context values. The
// frame must come from the context the expression was checked with;
// it is grown to hold scratch slots and may be reused across calls.
// A nil result is the missing value. Runtime faults such as integer
// division by zero return a *FatalError.
func (p *Program) Run(f *Frame) (result any, err error) {
	if f.base != p.base {
		return nil, fmt.Errorf("frame has %d context slots, program expects %d", f.base, p.base)
	}
	f.grow(p.size)
	defer func() {
		if r := recover(); r != nil {
			fe, ok := r.(*FatalError)
			if !ok {
				panic(r)
			}
			result, err = nil, fe
		}
	}()
	return p.root(f), nil
}

type compiler struct {
	info map[ast.Expression]*nodeInfo
}

func (c *compiler) at(e ast.Expression) *nodeInfo {
	info, ok := c.info[e]
	if !ok {
		panic(fmt.Sprintf("expression %T was not checked", e))
	}
	return info
}

func (c *compiler) compile(e ast.Expression) thunk {
	switch n := e.(type) {
	case *ast.IntLiteral:
		v := n.Value
		return func(*Frame) any { return v }
	case *ast.Int64Literal:
		v := n.Value
		return func(*Frame) any { return v }
	case *ast.FloatLiteral:
		v := n.Value
		return func(*Frame) any { return v }
	case *ast.BoolLiteral:
		v := n.Value
		return func(*Frame) any { return v }
	case *ast.StringLiteral:
		v := n.Value
		return func(*Frame) any { return v }
	case *ast.MissingLiteral:
		return func(*Frame) any { return nil }
	case *ast.Identifier:
		slot := c.at(n).slot
		return func(f *Frame) any { return f.values[slot] }
	case *ast.PrefixExpression:
		return c.call(c.at(n), c.compile(n.Right))
	case *ast.InfixExpression:
		return c.compileInfix(n)
	case *ast.IfExpression:
		return c.compileIf(n)
	case *ast.LetExpression:
		return c.compileLet(n)
	case *ast.ArrayLiteral:
		return c.compileArray(n)
	case *ast.StructLiteral:
		return c.compileStruct(n)
	case *ast.CallExpression:
		return c.compileArgs(c.at(n), n.Args...)
	case *ast.GenomeConstructor:
		return c.compileArgs(c.at(n), n.Args...)
	case *ast.MethodCallExpression:
		info := c.at(n)
		if info.aggOp != "" {
			return c.compileAgg(n, info)
		}
		return c.compileArgs(info, append([]ast.Expression{n.Receiver}, n.Args...)...)
	case *ast.SelectExpression:
		return c.compileSelect(n)
	case *ast.IndexExpression:
		return c.call(c.at(n), c.compile(n.Receiver), c.compile(n.Index))
	case *ast.SliceExpression:
		return c.compileSlice(n)
	}
	panic(fmt.Sprintf("cannot compile %T", e))
}

func (c *compiler) compileArgs(info *nodeInfo, args ...ast.Expression) thunk {
	ts := make([]thunk, len(args))
	for i, a := range args {
		ts[i] = c.compile(a)
	}
	return c.call(info, ts...)
}

// call applies a resolved impl to its argument thunks. Arguments
// evaluate left to right; a strict call stops at the first missing
// argument and returns missing without evaluating the rest.
func (c *compiler) call(info *nodeInfo, args ...thunk) thunk {
	fn, convs, lenient := info.fn, info.convs, info.lenient
	return func(f *Frame) any {
		vals := make([]any, len(args))
		for i, arg := range args {
			v := arg(f)
			if v == nil && !lenient {
				return nil
			}
			if v != nil && convs != nil && convs[i] != nil {
				v = convs[i](v)
			}
			vals[i] = v
		}
		return fn(vals)
	}
}

func (c *compiler) compileInfix(n *ast.InfixExpression) thunk {
	info := c.at(n)
	left, right := c.compile(n.Left), c.compile(n.Right)
	switch n.Operator {
	case "&&", "&":
		return func(f *Frame) any {
			l := left(f)
			if l == false {
				return false
			}
			r := right(f)
			if r == false {
				return false
			}
			if l == nil || r == nil {
				return nil
			}
			return true
		}
	case "||", "|":
		return func(f *Frame) any {
			l := left(f)
			if l == true {
				return true
			}
			r := right(f)
			if r == true {
				return true
			}
			if l == nil || r == nil {
				return nil
			}
			return false
		}
	}
	return c.call(info, left, right)
}

func (c *compiler) compileIf(n *ast.IfExpression) thunk {
	info := c.at(n)
	cond := c.compile(n.Condition)
	cons := c.converted(c.compile(n.Consequence), info.convs, 0)
	alt := c.converted(c.compile(n.Alternative), info.convs, 1)
	return func(f *Frame) any {
		switch cond(f) {
		case true:
			return cons(f)
		case false:
			return alt(f)
		}
		return nil
	}
}

func (c *compiler) converted(t thunk, convs []conv, i int) thunk {
	if convs == nil || convs[i] == nil {
		return t
	}
	cv := convs[i]
	return func(f *Frame) any {
		v := t(f)
		if v == nil {
			return nil
		}
		return cv(v)
	}
}

func (c *compiler) compileLet(n *ast.LetExpression) thunk {
	slots := c.at(n).slots
	values := make([]thunk, len(n.Bindings))
	for i, b := range n.Bindings {
		values[i] = c.compile(b.Value)
	}
	body := c.compile(n.Body)
	return func(f *Frame) any {
		for i, v := range values {
			f.values[slots[i]] = v(f)
		}
		return body(f)
	}
}

func (c *compiler) compileArray(n *ast.ArrayLiteral) thunk {
	info := c.at(n)
	elems := make([]thunk, len(n.Elements))
	for i, el := range n.Elements {
		elems[i] = c.converted(c.compile(el), info.convs, i)
	}
	return func(f *Frame) any {
		vs := make([]any, len(elems))
		for i, el := range elems {
			vs[i] = el(f)
		}
		return vs
	}
}

func (c *compiler) compileStruct(n *ast.StructLiteral) thunk {
	fields := make([]thunk, len(n.Fields))
	for i, fe := range n.Fields {
		fields[i] = c.compile(fe.Value)
	}
	return func(f *Frame) any {
		vs := make([]any, len(fields))
		for i, fv := range fields {
			vs[i] = fv(f)
		}
		return vs
	}
}

func (c *compiler) compileSelect(n *ast.SelectExpression) thunk {
	info := c.at(n)
	recv := c.compile(n.Receiver)
	if info.isField {
		idx := info.field
		return func(f *Frame) any {
			v := recv(f)
			if v == nil {
				return nil
			}
			return v.([]any)[idx]
		}
	}
	return c.call(info, recv)
}

// compileSlice clamps bounds to the array like Python slicing, so out
// of range bounds never fault. A missing receiver or bound yields
// missing.
func (c *compiler) compileSlice(n *ast.SliceExpression) thunk {
	recv := c.compile(n.Receiver)
	var start, end thunk
	if n.Start != nil {
		start = c.compile(n.Start)
	}
	if n.End != nil {
		end = c.compile(n.End)
	}
	return func(f *Frame) any {
		v := recv(f)
		if v == nil {
			return nil
		}
		arr := v.([]any)
		lo, hi := 0, len(arr)
		if start != nil {
			sv := start(f)
			if sv == nil {
				return nil
			}
			lo = clamp(int(sv.(int32)), 0, len(arr))
		}
		if end != nil {
			ev := end(f)
			if ev == nil {
				return nil
			}
			hi = clamp(int(ev.(int32)), lo, len(arr))
		}
		out := make([]any, hi-lo)
		copy(out, arr[lo:hi])
		return out
	}
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
