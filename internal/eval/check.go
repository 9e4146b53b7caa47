// Package eval typechecks and evaluates parsed expressions. An
// expression is checked once against an EvalContext, compiled once to
// closures, and run many times over refilled frames. Missing values
// travel as nil and propagate through strict operations; runtime
// faults surface as *FatalError.
package eval

import (
	"strings"

	"github.com/gexlang/gex/internal/ast"
	"github.com/gexlang/gex/internal/diagnostics"
	"github.com/gexlang/gex/internal/genome"
	"github.com/gexlang/gex/internal/token"
	"github.com/gexlang/gex/internal/types"
)

// nodeInfo is what checking learns about one node: its type and the
// resolution compiling bakes in.
type nodeInfo struct {
	typ     types.Type
	slot    int    // identifier frame slot, or lambda parameter slot
	slots   []int  // let binding slots
	fn      impl   // resolved operator, method or function
	convs   []conv // per-argument widenings; branch widenings for if
	lenient bool
	isField bool   // select resolves to a struct field
	field   int    // struct field index
	aggOp   string // aggregation method name
	elem    types.Type
}

// Checked is a typechecked expression, ready to compile. The AST it
// was built from is never mutated; everything checking learned lives
// here.
type Checked struct {
	expr ast.Expression
	typ  types.Type
	info map[ast.Expression]*nodeInfo
	base int
	size int
}

// Type returns the expression's checked type.
func (c *Checked) Type() types.Type { return c.typ }

// Check resolves names against ctx and types every node bottom-up.
// The first failure aborts with a *diagnostics.Error carrying the
// offending node's position. The checked expression must have a
// realizable result type.
func Check(expr ast.Expression, ctx *EvalContext, opts Options) (*Checked, error) {
	c := &checker{
		ctx:  ctx,
		opts: opts,
		info: make(map[ast.Expression]*nodeInfo),
		base: ctx.Len(),
	}
	for _, sym := range ctx.Symbols() {
		if err := c.validateGenomes(sym.Type, token.Position{}); err != nil {
			return nil, err
		}
	}
	info, err := c.check(expr)
	if err != nil {
		return nil, err
	}
	if !types.Realizable(info.typ) {
		return nil, c.failf(expr.GetToken().Pos,
			"unrealizable type as result of expression: %s", info.typ)
	}
	return &Checked{expr: expr, typ: info.typ, info: c.info, base: c.base, size: c.base + c.nlocals}, nil
}

// binding is a let binding or lambda parameter in scope.
type binding struct {
	name string
	typ  types.Type
	slot int
}

type checker struct {
	ctx     *EvalContext
	opts    Options
	info    map[ast.Expression]*nodeInfo
	base    int
	nlocals int
	scope   []binding
}

// newSlot allocates a scratch slot past the context slots. Slots are
// never reused, so a closure capturing one stays valid after the
// binding's scope ends.
func (c *checker) newSlot() int {
	s := c.base + c.nlocals
	c.nlocals++
	return s
}

func (c *checker) lookupName(name string) (binding, bool) {
	for i := len(c.scope) - 1; i >= 0; i-- {
		if c.scope[i].name == name {
			return c.scope[i], true
		}
	}
	if sym, ok := c.ctx.Lookup(name); ok {
		return binding{name: sym.Name, typ: sym.Type, slot: sym.Slot}, true
	}
	return binding{}, false
}

func (c *checker) set(e ast.Expression, info *nodeInfo) *nodeInfo {
	c.info[e] = info
	return info
}

func (c *checker) failf(pos token.Position, format string, args ...any) *diagnostics.Error {
	return diagnostics.NewType(pos, format, args...)
}

func (c *checker) check(e ast.Expression) (*nodeInfo, error) {
	switch n := e.(type) {
	case *ast.IntLiteral:
		return c.set(e, &nodeInfo{typ: types.TInt32}), nil
	case *ast.Int64Literal:
		return c.set(e, &nodeInfo{typ: types.TInt64}), nil
	case *ast.FloatLiteral:
		return c.set(e, &nodeInfo{typ: types.TFloat64}), nil
	case *ast.BoolLiteral:
		return c.set(e, &nodeInfo{typ: types.TBoolean}), nil
	case *ast.StringLiteral:
		return c.set(e, &nodeInfo{typ: types.TString}), nil
	case *ast.MissingLiteral:
		return c.checkMissing(n)
	case *ast.Identifier:
		return c.checkIdentifier(n)
	case *ast.PrefixExpression:
		return c.checkPrefix(n)
	case *ast.InfixExpression:
		return c.checkInfix(n)
	case *ast.IfExpression:
		return c.checkIf(n)
	case *ast.LetExpression:
		return c.checkLet(n)
	case *ast.ArrayLiteral:
		return c.checkArray(n)
	case *ast.StructLiteral:
		return c.checkStruct(n)
	case *ast.CallExpression:
		return c.checkCall(n)
	case *ast.GenomeConstructor:
		return c.checkCtor(n, n.Name, n.RG, n.Args)
	case *ast.MethodCallExpression:
		return c.checkMethodCall(n)
	case *ast.SelectExpression:
		return c.checkSelect(n)
	case *ast.IndexExpression:
		return c.checkIndex(n)
	case *ast.SliceExpression:
		return c.checkSlice(n)
	case *ast.LambdaExpression:
		return nil, c.failf(n.GetToken().Pos, "lambda expressions are allowed only as aggregation arguments")
	case *ast.SplatExpression:
		return nil, c.failf(n.GetToken().Pos, "splat expressions are allowed only in named expression lists")
	}
	return nil, c.failf(e.GetToken().Pos, "cannot check %T", e)
}

func (c *checker) checkMissing(n *ast.MissingLiteral) (*nodeInfo, error) {
	t := n.Annotation
	pos := n.GetToken().Pos
	if types.IsRequired(t) {
		return nil, c.failf(pos, "NA cannot have required type %s", t)
	}
	if !types.Realizable(t) {
		return nil, c.failf(pos, "NA cannot have unrealizable type %s", t)
	}
	if err := c.validateGenomes(t, pos); err != nil {
		return nil, err
	}
	return c.set(n, &nodeInfo{typ: t}), nil
}

func (c *checker) checkIdentifier(n *ast.Identifier) (*nodeInfo, error) {
	b, ok := c.lookupName(n.Value)
	if !ok {
		return nil, c.failf(n.GetToken().Pos, "unknown symbol %s", n.Value)
	}
	return c.set(n, &nodeInfo{typ: b.typ, slot: b.slot}), nil
}

func (c *checker) checkPrefix(n *ast.PrefixExpression) (*nodeInfo, error) {
	right, err := c.check(n.Right)
	if err != nil {
		return nil, err
	}
	m, ok := lookup(builtins.unary[n.Operator], []types.Type{right.typ})
	if !ok {
		return nil, c.failf(n.GetToken().Pos, "invalid argument to unary %s: %s", n.Operator, right.typ)
	}
	return c.set(n, &nodeInfo{typ: m.result, fn: m.fn, convs: m.convs}), nil
}

func (c *checker) checkInfix(n *ast.InfixExpression) (*nodeInfo, error) {
	left, err := c.check(n.Left)
	if err != nil {
		return nil, err
	}
	right, err := c.check(n.Right)
	if err != nil {
		return nil, err
	}
	pos := n.GetToken().Pos

	switch n.Operator {
	case "&&", "&", "||", "|":
		if !isBoolean(left.typ) || !isBoolean(right.typ) {
			return nil, c.failf(pos, "invalid arguments to %s: %s and %s", n.Operator, left.typ, right.typ)
		}
		return c.set(n, &nodeInfo{typ: types.TBoolean}), nil
	case "~":
		if !isString(left.typ) || !isString(right.typ) {
			return nil, c.failf(pos, "invalid arguments to ~: %s and %s", left.typ, right.typ)
		}
		return c.set(n, &nodeInfo{typ: types.TBoolean, fn: regexMatch}), nil
	case "==", "!=", "<", "<=", ">", ">=":
		return c.checkComparison(n, left, right)
	}

	m, ok := lookup(builtins.binary[n.Operator], []types.Type{left.typ, right.typ})
	if !ok {
		return nil, c.failf(pos, "invalid arguments to %s: %s and %s", n.Operator, left.typ, right.typ)
	}
	return c.set(n, &nodeInfo{typ: m.result, fn: m.fn, convs: m.convs}), nil
}

// checkComparison types an equality or ordering operator. Numeric
// operands compare after promotion; anything else must be the same
// realizable type up to required flags. The impl closes over the
// comparison type, so no dispatch remains at run time.
func (c *checker) checkComparison(n *ast.InfixExpression, left, right *nodeInfo) (*nodeInfo, error) {
	lt, rt := left.typ, right.typ
	var cmpType types.Type
	var convs []conv
	if types.IsNumeric(lt) && types.IsNumeric(rt) {
		p, _ := types.Promote(lt, rt)
		cmpType = p
		lc, rc := widen(lt, p), widen(rt, p)
		if lc != nil || rc != nil {
			convs = []conv{lc, rc}
		}
	} else if !types.CanCompare(lt, rt) {
		return nil, c.failf(n.GetToken().Pos, "cannot compare values of types %s and %s", lt, rt)
	} else {
		cmpType = types.Optional(lt)
	}
	return c.set(n, &nodeInfo{typ: types.TBoolean, fn: comparisonImpl(n.Operator, cmpType), convs: convs}), nil
}

func (c *checker) checkIf(n *ast.IfExpression) (*nodeInfo, error) {
	cond, err := c.check(n.Condition)
	if err != nil {
		return nil, err
	}
	if !isBoolean(cond.typ) {
		return nil, c.failf(n.Condition.GetToken().Pos, "if condition must be Boolean, got %s", cond.typ)
	}
	cons, err := c.check(n.Consequence)
	if err != nil {
		return nil, err
	}
	alt, err := c.check(n.Alternative)
	if err != nil {
		return nil, err
	}
	t, convs, ok := commonType([]types.Type{cons.typ, alt.typ})
	if !ok {
		return nil, c.failf(n.GetToken().Pos, "if branches have incompatible types %s and %s", cons.typ, alt.typ)
	}
	return c.set(n, &nodeInfo{typ: t, convs: convs}), nil
}

// checkLet types a parallel let. Binding values see only the
// surrounding scope; the bound names become visible together in the
// body, so chaining requires nesting.
func (c *checker) checkLet(n *ast.LetExpression) (*nodeInfo, error) {
	seen := make(map[string]bool, len(n.Bindings))
	bound := make([]binding, 0, len(n.Bindings))
	slots := make([]int, len(n.Bindings))
	for i, b := range n.Bindings {
		if seen[b.Name] {
			return nil, c.failf(b.Token.Pos, "duplicate let binding %s", b.Name)
		}
		seen[b.Name] = true
		vi, err := c.check(b.Value)
		if err != nil {
			return nil, err
		}
		slots[i] = c.newSlot()
		bound = append(bound, binding{name: b.Name, typ: vi.typ, slot: slots[i]})
	}
	c.scope = append(c.scope, bound...)
	body, err := c.check(n.Body)
	c.scope = c.scope[:len(c.scope)-len(bound)]
	if err != nil {
		return nil, err
	}
	return c.set(n, &nodeInfo{typ: body.typ, slots: slots}), nil
}

func (c *checker) checkArray(n *ast.ArrayLiteral) (*nodeInfo, error) {
	if len(n.Elements) == 0 {
		return nil, c.failf(n.GetToken().Pos, "cannot infer element type of empty array")
	}
	ts := make([]types.Type, len(n.Elements))
	for i, el := range n.Elements {
		info, err := c.check(el)
		if err != nil {
			return nil, err
		}
		ts[i] = info.typ
	}
	elem, convs, ok := commonType(ts)
	if !ok {
		first := ts[0]
		for i, t := range ts[1:] {
			if _, _, ok := commonType([]types.Type{first, t}); !ok {
				return nil, c.failf(n.Elements[i+1].GetToken().Pos,
					"array literal elements have incompatible types %s and %s", first, t)
			}
		}
		return nil, c.failf(n.GetToken().Pos,
			"array literal elements have incompatible types %s and %s", first, ts[len(ts)-1])
	}
	return c.set(n, &nodeInfo{typ: types.Array{Elem: elem}, convs: convs}), nil
}

func (c *checker) checkStruct(n *ast.StructLiteral) (*nodeInfo, error) {
	names := make([]string, len(n.Fields))
	fieldTypes := make([]types.Type, len(n.Fields))
	seen := make(map[string]bool, len(n.Fields))
	for i, f := range n.Fields {
		if seen[f.Name] {
			return nil, c.failf(f.Token.Pos, "duplicate field name %s", f.Name)
		}
		seen[f.Name] = true
		info, err := c.check(f.Value)
		if err != nil {
			return nil, err
		}
		names[i] = f.Name
		fieldTypes[i] = info.typ
	}
	return c.set(n, &nodeInfo{typ: types.NewStruct(names, fieldTypes)}), nil
}

func (c *checker) checkCall(n *ast.CallExpression) (*nodeInfo, error) {
	pos := n.GetToken().Pos
	switch n.Function {
	case "Locus", "Variant", "Interval":
		if c.opts.Reference == "" {
			return nil, c.failf(pos, "no default reference genome configured")
		}
		return c.checkCtor(n, n.Function, c.opts.Reference, n.Args)
	}
	sigs, known := builtins.functions[n.Function]
	if !known {
		return nil, c.failf(pos, "unknown function %s", n.Function)
	}
	args, err := c.checkArgs(n.Args)
	if err != nil {
		return nil, err
	}
	m, ok := lookup(sigs, args)
	if !ok {
		return nil, c.failf(pos, "invalid arguments to %s: (%s)", n.Function, typeList(args))
	}
	return c.set(n, &nodeInfo{typ: m.result, fn: m.fn, convs: m.convs, lenient: m.lenient}), nil
}

// checkCtor types a reference-genome constructor, qualified or
// resolved against the configured default.
func (c *checker) checkCtor(node ast.Expression, name, rgName string, argExprs []ast.Expression) (*nodeInfo, error) {
	pos := node.GetToken().Pos
	rg, err := c.genomeByName(rgName, pos)
	if err != nil {
		return nil, err
	}
	args, err := c.checkArgs(argExprs)
	if err != nil {
		return nil, err
	}
	m, ok := lookup(constructorSignatures(name, rgName, rg), args)
	if !ok {
		return nil, c.failf(pos, "invalid arguments to %s: (%s)", name, typeList(args))
	}
	return c.set(node, &nodeInfo{typ: m.result, fn: m.fn, convs: m.convs}), nil
}

func (c *checker) checkMethodCall(n *ast.MethodCallExpression) (*nodeInfo, error) {
	recv, err := c.check(n.Receiver)
	if err != nil {
		return nil, err
	}
	if agg, ok := types.Optional(recv.typ).(types.Aggregable); ok {
		return c.checkAggMethod(n, agg)
	}
	args, err := c.checkArgs(n.Args)
	if err != nil {
		return nil, err
	}
	return c.resolveMethod(n, recv.typ, n.Method, args, n.GetToken().Pos)
}

func (c *checker) resolveMethod(node ast.Expression, recvType types.Type, name string, args []types.Type, pos token.Position) (*nodeInfo, error) {
	sigs, err := c.genomeMethodSigs(recvType, name, pos)
	if err != nil {
		return nil, err
	}
	if sigs == nil {
		sigs = builtins.methods[name]
	}
	if len(sigs) == 0 {
		return nil, c.failf(pos, "%s has no method %s", recvType, name)
	}
	full := append([]types.Type{recvType}, args...)
	m, ok := lookup(sigs, full)
	if !ok {
		return nil, c.failf(pos, "invalid arguments to %s.%s: (%s)", recvType, name, typeList(args))
	}
	return c.set(node, &nodeInfo{typ: m.result, fn: m.fn, convs: m.convs, lenient: m.lenient}), nil
}

// checkSelect types field access. A struct field wins; otherwise the
// name resolves as a zero-argument method, so s.length and s.length()
// are the same call.
func (c *checker) checkSelect(n *ast.SelectExpression) (*nodeInfo, error) {
	recv, err := c.check(n.Receiver)
	if err != nil {
		return nil, err
	}
	pos := n.GetToken().Pos
	if st, ok := recv.typ.(types.Struct); ok {
		if f, ok := st.Field(n.Field); ok {
			return c.set(n, &nodeInfo{typ: types.Optional(f.Type), isField: true, field: f.Index}), nil
		}
	}
	ni, err := c.resolveMethod(n, recv.typ, n.Field, nil, pos)
	if err != nil {
		return nil, c.failf(pos, "%s has no field or method %s", recv.typ, n.Field)
	}
	return ni, nil
}

func (c *checker) checkIndex(n *ast.IndexExpression) (*nodeInfo, error) {
	recv, err := c.check(n.Receiver)
	if err != nil {
		return nil, err
	}
	idx, err := c.check(n.Index)
	if err != nil {
		return nil, err
	}
	pos := n.GetToken().Pos
	switch t := types.Optional(recv.typ).(type) {
	case types.Array:
		if _, ok := types.Optional(idx.typ).(types.Int32); !ok {
			return nil, c.failf(n.Index.GetToken().Pos, "array index must be Int32, got %s", idx.typ)
		}
		return c.set(n, &nodeInfo{typ: t.Elem, fn: arrayIndex}), nil
	case types.Dict:
		if !types.Same(t.Key, types.Optional(idx.typ)) {
			return nil, c.failf(n.Index.GetToken().Pos, "dict key must be %s, got %s", t.Key, idx.typ)
		}
		return c.set(n, &nodeInfo{typ: t.Value, fn: dictIndex}), nil
	}
	return nil, c.failf(pos, "cannot index %s", recv.typ)
}

func (c *checker) checkSlice(n *ast.SliceExpression) (*nodeInfo, error) {
	recv, err := c.check(n.Receiver)
	if err != nil {
		return nil, err
	}
	t, ok := types.Optional(recv.typ).(types.Array)
	if !ok {
		return nil, c.failf(n.GetToken().Pos, "cannot slice %s", recv.typ)
	}
	for _, bound := range []ast.Expression{n.Start, n.End} {
		if bound == nil {
			continue
		}
		bi, err := c.check(bound)
		if err != nil {
			return nil, err
		}
		if _, ok := types.Optional(bi.typ).(types.Int32); !ok {
			return nil, c.failf(bound.GetToken().Pos, "slice bound must be Int32, got %s", bi.typ)
		}
	}
	return c.set(n, &nodeInfo{typ: t}), nil
}

func (c *checker) checkArgs(args []ast.Expression) ([]types.Type, error) {
	ts := make([]types.Type, len(args))
	for i, a := range args {
		info, err := c.check(a)
		if err != nil {
			return nil, err
		}
		ts[i] = info.typ
	}
	return ts, nil
}

// validateGenomes rejects types naming reference genomes the registry
// does not know.
func (c *checker) validateGenomes(t types.Type, pos token.Position) error {
	switch typ := t.(type) {
	case types.Locus:
		_, err := c.genomeByName(typ.RG, pos)
		return err
	case types.Variant:
		_, err := c.genomeByName(typ.RG, pos)
		return err
	case types.Array:
		return c.validateGenomes(typ.Elem, pos)
	case types.Set:
		return c.validateGenomes(typ.Elem, pos)
	case types.Dict:
		if err := c.validateGenomes(typ.Key, pos); err != nil {
			return err
		}
		return c.validateGenomes(typ.Value, pos)
	case types.Interval:
		return c.validateGenomes(typ.Point, pos)
	case types.Aggregable:
		return c.validateGenomes(typ.Elem, pos)
	case types.Struct:
		for _, f := range typ.Fields {
			if err := c.validateGenomes(f.Type, pos); err != nil {
				return err
			}
		}
	}
	return nil
}

func (c *checker) genomeByName(name string, pos token.Position) (*genome.ReferenceGenome, error) {
	rg, ok := c.opts.genomes().Get(name)
	if !ok {
		return nil, c.failf(pos, "unknown reference genome %s", name)
	}
	return rg, nil
}

// commonType unifies branch or element types: all-numeric entries
// promote to the widest, anything else must agree up to required
// flags. The result is canonical optional; convs widen the entries
// that need it.
func commonType(ts []types.Type) (types.Type, []conv, bool) {
	if len(ts) == 0 {
		return nil, nil, false
	}
	numeric := true
	for _, t := range ts {
		if !types.IsNumeric(t) {
			numeric = false
			break
		}
	}
	if numeric {
		common := types.Optional(ts[0])
		for _, t := range ts[1:] {
			common, _ = types.Promote(common, t)
		}
		var convs []conv
		for i, t := range ts {
			if cv := widen(t, common); cv != nil {
				if convs == nil {
					convs = make([]conv, len(ts))
				}
				convs[i] = cv
			}
		}
		return common, convs, true
	}
	common := types.Optional(ts[0])
	for _, t := range ts[1:] {
		if !types.Same(common, types.Optional(t)) {
			return nil, nil, false
		}
	}
	return common, nil, true
}

func isBoolean(t types.Type) bool {
	_, ok := types.Optional(t).(types.Boolean)
	return ok
}

func isString(t types.Type) bool {
	_, ok := types.Optional(t).(types.String)
	return ok
}

func typeList(ts []types.Type) string {
	parts := make([]string, len(ts))
	for i, t := range ts {
		parts[i] = t.String()
	}
	return strings.Join(parts, ", ")
}
