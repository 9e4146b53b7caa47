package eval

import (
	"fmt"

	"github.com/gexlang/gex/internal/genome"
	"github.com/gexlang/gex/internal/types"
)

// Symbol is one named slot of an evaluation context.
type Symbol struct {
	Name string
	Type types.Type
	Slot int
}

// EvalContext is the ordered symbol table an expression is checked
// against. Slots are dense from zero in binding order; the caller fills
// a Frame with one value per slot before each run.
type EvalContext struct {
	symbols []Symbol
	index   map[string]int
}

func NewContext() *EvalContext {
	return &EvalContext{index: make(map[string]int)}
}

// Bind adds a symbol and returns its slot. Binding a name that already
// exists replaces its type and keeps the slot.
func (c *EvalContext) Bind(name string, t types.Type) int {
	if i, ok := c.index[name]; ok {
		c.symbols[i].Type = t
		return i
	}
	slot := len(c.symbols)
	c.symbols = append(c.symbols, Symbol{Name: name, Type: t, Slot: slot})
	c.index[name] = slot
	return slot
}

// Lookup returns the symbol bound to name.
func (c *EvalContext) Lookup(name string) (Symbol, bool) {
	if c == nil {
		return Symbol{}, false
	}
	i, ok := c.index[name]
	if !ok {
		return Symbol{}, false
	}
	return c.symbols[i], true
}

// Len returns the number of bound symbols.
func (c *EvalContext) Len() int {
	if c == nil {
		return 0
	}
	return len(c.symbols)
}

// Symbols returns the bound symbols in slot order.
func (c *EvalContext) Symbols() []Symbol {
	if c == nil {
		return nil
	}
	out := make([]Symbol, len(c.symbols))
	copy(out, c.symbols)
	return out
}

// Frame carries the runtime values for one evaluation: one value per
// context slot, followed by scratch slots for let bindings and lambda
// parameters. A frame belongs to one goroutine; concurrent runs of the
// same program use separate frames.
type Frame struct {
	values []any
	base   int
}

// NewFrame returns an empty frame sized for the context.
func NewFrame(c *EvalContext) *Frame {
	n := c.Len()
	return &Frame{values: make([]any, n), base: n}
}

// Set stores the value for a context slot. Missing is nil.
func (f *Frame) Set(slot int, v any) {
	if slot < 0 || slot >= f.base {
		panic(fmt.Sprintf("slot %d out of range for frame of %d", slot, f.base))
	}
	f.values[slot] = v
}

// grow extends the frame to hold a program's scratch slots, clearing
// any values a previous run left behind.
func (f *Frame) grow(size int) {
	if cap(f.values) < size {
		vs := make([]any, size)
		copy(vs, f.values[:f.base])
		f.values = vs
		return
	}
	f.values = f.values[:size]
	for i := f.base; i < size; i++ {
		f.values[i] = nil
	}
}

// Options configure name resolution during checking. There is no
// process-global default reference genome; Reference names the build
// that unqualified Locus, Variant and Interval constructors resolve
// against.
type Options struct {
	// Genomes supplies reference genomes by name. Nil means the
	// built-in registry with GRCh37 and GRCh38.
	Genomes *genome.Registry
	// Reference is the default reference genome name. Empty rejects
	// unqualified genome constructors.
	Reference string
}

var builtinGenomes = genome.NewRegistry()

func (o Options) genomes() *genome.Registry {
	if o.Genomes != nil {
		return o.Genomes
	}
	return builtinGenomes
}
