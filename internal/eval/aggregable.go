package eval

import "github.com/gexlang/gex/internal/types"

// Aggregable is the runtime value of an Aggregable[T] slot: a
// re-iterable sequence of elements. Seq calls yield for each element
// in order and stops early when yield returns false. Missing elements
// are yielded as nil.
type Aggregable struct {
	Elem types.Type
	Seq  func(yield func(any) bool)
}

// FromSlice adapts a materialized slice of elements.
func FromSlice(elem types.Type, vs []any) *Aggregable {
	return &Aggregable{
		Elem: elem,
		Seq: func(yield func(any) bool) {
			for _, v := range vs {
				if !yield(v) {
					return
				}
			}
		},
	}
}
