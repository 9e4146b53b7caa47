package types

// Same reports structural equality, including the required flag, after
// resolving bound variables. Two unbound variables are the same only
// when they are the same box.
func Same(a, b Type) bool {
	a = shallowResolve(a)
	b = shallowResolve(b)

	switch at := a.(type) {
	case *Variable:
		bv, ok := b.(*Variable)
		return ok && at == bv
	case Array:
		bt, ok := b.(Array)
		return ok && at.Required == bt.Required && Same(at.Elem, bt.Elem)
	case Set:
		bt, ok := b.(Set)
		return ok && at.Required == bt.Required && Same(at.Elem, bt.Elem)
	case Dict:
		bt, ok := b.(Dict)
		return ok && at.Required == bt.Required &&
			Same(at.Key, bt.Key) && Same(at.Value, bt.Value)
	case Interval:
		bt, ok := b.(Interval)
		return ok && at.Required == bt.Required && Same(at.Point, bt.Point)
	case Aggregable:
		bt, ok := b.(Aggregable)
		return ok && Same(at.Elem, bt.Elem)
	case Struct:
		bt, ok := b.(Struct)
		if !ok || at.Required != bt.Required || len(at.Fields) != len(bt.Fields) {
			return false
		}
		for i := range at.Fields {
			if at.Fields[i].Name != bt.Fields[i].Name {
				return false
			}
			if !Same(at.Fields[i].Type, bt.Fields[i].Type) {
				return false
			}
		}
		return true
	default:
		return a == b
	}
}

// Unify matches a signature pattern against a concrete type, binding any
// unbound variables in the pattern. An optional pattern accepts both
// optional and required concrete types; a required pattern accepts only
// required ones. Unify returns false without undoing partial bindings;
// callers clear the pattern before retrying.
func Unify(pattern, concrete Type) bool {
	switch p := pattern.(type) {
	case *Variable:
		if p.Box == nil {
			p.Box = concrete
			return true
		}
		return Unify(p.Box, concrete)
	case Array:
		c, ok := concrete.(Array)
		return ok && reqCompatible(p.Required, c.Required) && Unify(p.Elem, c.Elem)
	case Set:
		c, ok := concrete.(Set)
		return ok && reqCompatible(p.Required, c.Required) && Unify(p.Elem, c.Elem)
	case Dict:
		c, ok := concrete.(Dict)
		return ok && reqCompatible(p.Required, c.Required) &&
			Unify(p.Key, c.Key) && Unify(p.Value, c.Value)
	case Interval:
		c, ok := concrete.(Interval)
		return ok && reqCompatible(p.Required, c.Required) && Unify(p.Point, c.Point)
	case Aggregable:
		c, ok := concrete.(Aggregable)
		return ok && Unify(p.Elem, c.Elem)
	case Struct:
		c, ok := concrete.(Struct)
		if !ok || !reqCompatible(p.Required, c.Required) || len(p.Fields) != len(c.Fields) {
			return false
		}
		for i := range p.Fields {
			if p.Fields[i].Name != c.Fields[i].Name {
				return false
			}
			if !Unify(p.Fields[i].Type, c.Fields[i].Type) {
				return false
			}
		}
		return true
	default:
		return samePrimitive(pattern, concrete)
	}
}

func reqCompatible(patternRequired, concreteRequired bool) bool {
	return !patternRequired || concreteRequired
}

func samePrimitive(pattern, concrete Type) bool {
	switch p := pattern.(type) {
	case Boolean:
		c, ok := concrete.(Boolean)
		return ok && reqCompatible(p.Required, c.Required)
	case Int32:
		c, ok := concrete.(Int32)
		return ok && reqCompatible(p.Required, c.Required)
	case Int64:
		c, ok := concrete.(Int64)
		return ok && reqCompatible(p.Required, c.Required)
	case Float32:
		c, ok := concrete.(Float32)
		return ok && reqCompatible(p.Required, c.Required)
	case Float64:
		c, ok := concrete.(Float64)
		return ok && reqCompatible(p.Required, c.Required)
	case String:
		c, ok := concrete.(String)
		return ok && reqCompatible(p.Required, c.Required)
	case Call:
		c, ok := concrete.(Call)
		return ok && reqCompatible(p.Required, c.Required)
	case AltAllele:
		c, ok := concrete.(AltAllele)
		return ok && reqCompatible(p.Required, c.Required)
	case Locus:
		c, ok := concrete.(Locus)
		return ok && p.RG == c.RG && reqCompatible(p.Required, c.Required)
	case Variant:
		c, ok := concrete.(Variant)
		return ok && p.RG == c.RG && reqCompatible(p.Required, c.Required)
	}
	return false
}

// Clear unbinds every variable box reachable from t.
func Clear(t Type) {
	switch typ := t.(type) {
	case *Variable:
		typ.Box = nil
	case Array:
		Clear(typ.Elem)
	case Set:
		Clear(typ.Elem)
	case Dict:
		Clear(typ.Key)
		Clear(typ.Value)
	case Interval:
		Clear(typ.Point)
	case Aggregable:
		Clear(typ.Elem)
	case Struct:
		for _, f := range typ.Fields {
			Clear(f.Type)
		}
	}
}

// Resolve substitutes bound variables throughout t, producing a type
// with no bound boxes. Unbound variables are left in place.
func Resolve(t Type) Type {
	switch typ := t.(type) {
	case *Variable:
		if typ.Box == nil {
			return typ
		}
		return Resolve(typ.Box)
	case Array:
		return Array{Elem: Resolve(typ.Elem), Required: typ.Required}
	case Set:
		return Set{Elem: Resolve(typ.Elem), Required: typ.Required}
	case Dict:
		return Dict{Key: Resolve(typ.Key), Value: Resolve(typ.Value), Required: typ.Required}
	case Interval:
		return Interval{Point: Resolve(typ.Point), Required: typ.Required}
	case Aggregable:
		return Aggregable{Elem: Resolve(typ.Elem)}
	case Struct:
		fields := make([]Field, len(typ.Fields))
		for i, f := range typ.Fields {
			fields[i] = Field{Name: f.Name, Type: Resolve(f.Type), Index: f.Index}
		}
		return Struct{Fields: fields, Required: typ.Required}
	}
	return t
}

// Instantiate deep-copies t, replacing each variable by a fresh unbound
// box. Variables sharing a name share the fresh box, so a signature like
// orElse(T, T) -> T stays linked. Passing the same map across several
// types links variables between them.
func Instantiate(t Type, fresh map[string]*Variable) Type {
	switch typ := t.(type) {
	case *Variable:
		v, ok := fresh[typ.Name]
		if !ok {
			v = &Variable{Name: typ.Name}
			fresh[typ.Name] = v
		}
		return v
	case Array:
		return Array{Elem: Instantiate(typ.Elem, fresh), Required: typ.Required}
	case Set:
		return Set{Elem: Instantiate(typ.Elem, fresh), Required: typ.Required}
	case Dict:
		return Dict{
			Key:      Instantiate(typ.Key, fresh),
			Value:    Instantiate(typ.Value, fresh),
			Required: typ.Required,
		}
	case Interval:
		return Interval{Point: Instantiate(typ.Point, fresh), Required: typ.Required}
	case Aggregable:
		return Aggregable{Elem: Instantiate(typ.Elem, fresh)}
	case Struct:
		fields := make([]Field, len(typ.Fields))
		for i, f := range typ.Fields {
			fields[i] = Field{Name: f.Name, Type: Instantiate(f.Type, fresh), Index: f.Index}
		}
		return Struct{Fields: fields, Required: typ.Required}
	}
	return t
}

func shallowResolve(t Type) Type {
	for {
		v, ok := t.(*Variable)
		if !ok || v.Box == nil {
			return t
		}
		t = v.Box
	}
}
