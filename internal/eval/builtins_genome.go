package eval

import (
	"github.com/gexlang/gex/internal/genome"
	"github.com/gexlang/gex/internal/token"
	"github.com/gexlang/gex/internal/types"
)

func callPred(fn func(genome.Call) bool) impl {
	return func(args []any) any { return fn(args[0].(genome.Call)) }
}

func callInt(fn func(genome.Call) int32) impl {
	return func(args []any) any { return fn(args[0].(genome.Call)) }
}

func registerCallMethods(r *registry) {
	r.method("isHomRef", sig(types.TBoolean, callPred(genome.Call.IsHomRef), types.TCall))
	r.method("isHet", sig(types.TBoolean, callPred(genome.Call.IsHet), types.TCall))
	r.method("isHomVar", sig(types.TBoolean, callPred(genome.Call.IsHomVar), types.TCall))

	// isCalled and isNotCalled ask about missingness itself, so they
	// must see the missing value instead of short-circuiting on it.
	r.method("isCalled",
		lenient(sig(types.TBoolean, func(args []any) any { return args[0] != nil }, types.TCall)))
	r.method("isNotCalled",
		lenient(sig(types.TBoolean, func(args []any) any { return args[0] == nil }, types.TCall)))

	r.method("nNonRefAlleles", sig(types.TInt32, callInt(genome.Call.NNonRefAlleles), types.TCall))
	r.method("gtj", sig(types.TInt32, callInt(genome.Call.GTJ), types.TCall))
	r.method("gtk", sig(types.TInt32, callInt(genome.Call.GTK), types.TCall))
	r.method("gt", sig(types.TInt32, func(args []any) any {
		return int32(args[0].(genome.Call))
	}, types.TCall))
	r.method("toString", sig(types.TString, func(args []any) any {
		return args[0].(genome.Call).String()
	}, types.TCall))
}

func altPred(fn func(genome.AltAllele) bool) impl {
	return func(args []any) any { return fn(args[0].(genome.AltAllele)) }
}

func registerAltAlleleMethods(r *registry) {
	r.method("ref", sig(types.TString, func(args []any) any {
		return args[0].(genome.AltAllele).Ref
	}, types.TAltAllele))
	r.method("alt", sig(types.TString, func(args []any) any {
		return args[0].(genome.AltAllele).Alt
	}, types.TAltAllele))

	r.method("isStar", sig(types.TBoolean, altPred(genome.AltAllele.IsStar), types.TAltAllele))
	r.method("isSNP", sig(types.TBoolean, altPred(genome.AltAllele.IsSNP), types.TAltAllele))
	r.method("isMNP", sig(types.TBoolean, altPred(genome.AltAllele.IsMNP), types.TAltAllele))
	r.method("isInsertion", sig(types.TBoolean, altPred(genome.AltAllele.IsInsertion), types.TAltAllele))
	r.method("isDeletion", sig(types.TBoolean, altPred(genome.AltAllele.IsDeletion), types.TAltAllele))
	r.method("isIndel", sig(types.TBoolean, altPred(genome.AltAllele.IsIndel), types.TAltAllele))
	r.method("isComplex", sig(types.TBoolean, altPred(genome.AltAllele.IsComplex), types.TAltAllele))
	r.method("isTransition", sig(types.TBoolean, altPred(genome.AltAllele.IsTransition), types.TAltAllele))
	r.method("isTransversion", sig(types.TBoolean, altPred(genome.AltAllele.IsTransversion), types.TAltAllele))
}

// genomeMethodSigs builds signatures for methods whose receiver type
// names a reference genome. They cannot live in the static registry:
// the genome is part of the type and, for region predicates, part of
// the behavior.
func (c *checker) genomeMethodSigs(recv types.Type, name string, pos token.Position) ([]signature, error) {
	switch t := types.Optional(recv).(type) {
	case types.Locus:
		return locusMethodSigs(t, name), nil
	case types.Variant:
		rg, err := c.genomeByName(t.RG, pos)
		if err != nil {
			return nil, err
		}
		return variantMethodSigs(t, name, rg), nil
	case types.Interval:
		return intervalMethodSigs(t, name), nil
	}
	return nil, nil
}

func locusMethodSigs(t types.Locus, name string) []signature {
	switch name {
	case "contig":
		return []signature{sig(types.TString, func(args []any) any {
			return args[0].(genome.Locus).Contig
		}, t)}
	case "position":
		return []signature{sig(types.TInt32, func(args []any) any {
			return args[0].(genome.Locus).Position
		}, t)}
	}
	return nil
}

func variantMethodSigs(t types.Variant, name string, rg *genome.ReferenceGenome) []signature {
	one := func(result types.Type, fn impl) []signature {
		return []signature{sig(result, fn, t)}
	}
	switch name {
	case "contig":
		return one(types.TString, func(args []any) any { return args[0].(genome.Variant).Contig })
	case "start":
		return one(types.TInt32, func(args []any) any { return args[0].(genome.Variant).Start })
	case "ref":
		return one(types.TString, func(args []any) any { return args[0].(genome.Variant).Ref })
	case "alt":
		return one(types.TString, func(args []any) any {
			v := args[0].(genome.Variant)
			if !v.IsBiallelic() {
				fatalf("alt called on multiallelic variant %s", v)
			}
			return v.AltAlleles[0].Alt
		})
	case "altAllele":
		return one(types.TAltAllele, func(args []any) any {
			v := args[0].(genome.Variant)
			if !v.IsBiallelic() {
				fatalf("altAllele called on multiallelic variant %s", v)
			}
			return v.AltAlleles[0]
		})
	case "altAlleles":
		return one(types.Array{Elem: types.TAltAllele}, func(args []any) any {
			alleles := args[0].(genome.Variant).AltAlleles
			out := make([]any, len(alleles))
			for i, a := range alleles {
				out[i] = a
			}
			return out
		})
	case "nAltAlleles":
		return one(types.TInt32, func(args []any) any {
			return int32(args[0].(genome.Variant).NAltAlleles())
		})
	case "nAlleles":
		return one(types.TInt32, func(args []any) any {
			return int32(args[0].(genome.Variant).NAlleles())
		})
	case "nGenotypes":
		return one(types.TInt32, func(args []any) any {
			return int32(args[0].(genome.Variant).NGenotypes())
		})
	case "isBiallelic":
		return one(types.TBoolean, func(args []any) any {
			return args[0].(genome.Variant).IsBiallelic()
		})
	case "locus":
		return one(types.Locus{RG: t.RG}, func(args []any) any {
			return args[0].(genome.Variant).Locus()
		})
	case "inXPar":
		return one(types.TBoolean, func(args []any) any {
			return rg.InXPar(args[0].(genome.Variant).Locus())
		})
	case "inYPar":
		return one(types.TBoolean, func(args []any) any {
			return rg.InYPar(args[0].(genome.Variant).Locus())
		})
	case "inXNonPar":
		return one(types.TBoolean, func(args []any) any {
			return rg.InXNonPar(args[0].(genome.Variant).Locus())
		})
	case "inYNonPar":
		return one(types.TBoolean, func(args []any) any {
			return rg.InYNonPar(args[0].(genome.Variant).Locus())
		})
	case "isAutosomal":
		return one(types.TBoolean, func(args []any) any {
			return rg.IsAutosomal(args[0].(genome.Variant).Contig)
		})
	}
	return nil
}

func intervalMethodSigs(t types.Interval, name string) []signature {
	switch name {
	case "start":
		return []signature{sig(t.Point, func(args []any) any {
			return args[0].(genome.Interval).Start
		}, t)}
	case "end":
		return []signature{sig(t.Point, func(args []any) any {
			return args[0].(genome.Interval).End
		}, t)}
	case "contains":
		return []signature{sig(types.TBoolean, intervalContains(t.Point), t, t.Point)}
	case "overlaps":
		return []signature{sig(types.TBoolean, intervalOverlaps(t.Point), t, t)}
	}
	return nil
}

// intervalContains tests membership in the half-open range
// [start, end).
func intervalContains(point types.Type) impl {
	return func(args []any) any {
		iv := args[0].(genome.Interval)
		return types.Compare(point, iv.Start, args[1]) <= 0 &&
			types.Compare(point, args[1], iv.End) < 0
	}
}

func intervalOverlaps(point types.Type) impl {
	return func(args []any) any {
		a, b := args[0].(genome.Interval), args[1].(genome.Interval)
		return types.Compare(point, a.Start, b.End) < 0 &&
			types.Compare(point, b.Start, a.End) < 0
	}
}

// constructorSignatures builds the overloads of a genomic constructor
// against one reference genome. Malformed argument strings are runtime
// faults, not check errors, because they usually arrive from data.
func constructorSignatures(name, rgName string, rg *genome.ReferenceGenome) []signature {
	switch name {
	case "Locus":
		lt := types.Locus{RG: rgName}
		return []signature{
			sig(lt, func(args []any) any {
				l, err := genome.ParseLocus(rg, args[0].(string))
				if err != nil {
					fatalf("%v", err)
				}
				return l
			}, types.TString),
			sig(lt, func(args []any) any {
				return genome.Locus{Contig: args[0].(string), Position: args[1].(int32)}
			}, types.TString, types.TInt32),
		}
	case "Variant":
		vt := types.Variant{RG: rgName}
		return []signature{
			sig(vt, func(args []any) any {
				v, err := genome.ParseVariant(args[0].(string))
				if err != nil {
					fatalf("%v", err)
				}
				return v
			}, types.TString),
			sig(vt, func(args []any) any {
				ref := args[2].(string)
				return genome.Variant{
					Contig:     args[0].(string),
					Start:      args[1].(int32),
					Ref:        ref,
					AltAlleles: []genome.AltAllele{{Ref: ref, Alt: args[3].(string)}},
				}
			}, types.TString, types.TInt32, types.TString, types.TString),
		}
	case "Interval":
		lt := types.Locus{RG: rgName}
		it := types.Interval{Point: lt}
		return []signature{
			sig(it, func(args []any) any {
				iv, err := genome.ParseInterval(rg, args[0].(string))
				if err != nil {
					fatalf("%v", err)
				}
				return iv
			}, types.TString),
			sig(it, func(args []any) any {
				return makeInterval(args[0].(genome.Locus), args[1].(genome.Locus))
			}, lt, lt),
			sig(it, func(args []any) any {
				contig := args[0].(string)
				return makeInterval(
					genome.Locus{Contig: contig, Position: args[1].(int32)},
					genome.Locus{Contig: contig, Position: args[2].(int32)})
			}, types.TString, types.TInt32, types.TInt32),
		}
	}
	return nil
}

func makeInterval(start, end genome.Locus) genome.Interval {
	if genome.CompareLoci(start, end) >= 0 {
		fatalf("invalid interval %s-%s: start must precede end", start, end)
	}
	return genome.Interval{Start: start, End: end}
}
