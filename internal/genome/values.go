// Package genome provides reference genomes and the runtime
// representations of genomic values: loci, variants, alleles, genotype
// calls and intervals. Reference genomes come from an embedded registry,
// a YAML definition or a remote metadata service.
package genome

import (
	"fmt"
	"strings"
)

// Locus is a 1-based chromosomal position.
type Locus struct {
	Contig   string
	Position int32
}

func (l Locus) String() string {
	return fmt.Sprintf("%s:%d", l.Contig, l.Position)
}

// CompareLoci orders loci by contig name, then position.
func CompareLoci(a, b Locus) int {
	if a.Contig != b.Contig {
		if a.Contig < b.Contig {
			return -1
		}
		return 1
	}
	switch {
	case a.Position < b.Position:
		return -1
	case a.Position > b.Position:
		return 1
	}
	return 0
}

// Interval is a half-open locus range [Start, End). Points are held as
// opaque values so intervals over non-locus point types share the
// representation; ordering of points is supplied by the caller.
type Interval struct {
	Start any
	End   any
}

// AltAllele is a reference/alternate allele pair at a single site.
type AltAllele struct {
	Ref string
	Alt string
}

func (a AltAllele) String() string { return a.Ref + "/" + a.Alt }

// IsStar reports whether the alternate is the upstream-deletion marker.
func (a AltAllele) IsStar() bool { return a.Alt == "*" }

// IsSNP reports a single-nucleotide substitution, either a simple 1bp
// pair or an equal-length pair differing at exactly one position.
func (a AltAllele) IsSNP() bool {
	if a.IsStar() {
		return false
	}
	if len(a.Ref) == 1 && len(a.Alt) == 1 {
		return a.Ref != a.Alt
	}
	return len(a.Ref) == len(a.Alt) && a.nMismatch() == 1
}

func (a AltAllele) IsMNP() bool {
	return len(a.Ref) > 1 && len(a.Ref) == len(a.Alt) && a.nMismatch() > 1
}

func (a AltAllele) IsInsertion() bool {
	return len(a.Ref) < len(a.Alt) && !a.IsStar() &&
		a.Ref[0] == a.Alt[0] && strings.HasSuffix(a.Alt, a.Ref[1:])
}

func (a AltAllele) IsDeletion() bool {
	return len(a.Alt) < len(a.Ref) &&
		a.Ref[0] == a.Alt[0] && strings.HasSuffix(a.Ref, a.Alt[1:])
}

func (a AltAllele) IsIndel() bool { return a.IsInsertion() || a.IsDeletion() }

func (a AltAllele) IsComplex() bool {
	return len(a.Ref) != len(a.Alt) && !a.IsIndel() && !a.IsStar()
}

// IsTransition reports a purine-purine or pyrimidine-pyrimidine SNP.
func (a AltAllele) IsTransition() bool {
	if !a.IsSNP() {
		return false
	}
	r, t := a.snpPair()
	return (r == 'A' && t == 'G') || (r == 'G' && t == 'A') ||
		(r == 'C' && t == 'T') || (r == 'T' && t == 'C')
}

// IsTransversion reports a purine-pyrimidine SNP.
func (a AltAllele) IsTransversion() bool {
	return a.IsSNP() && !a.IsTransition()
}

func (a AltAllele) nMismatch() int {
	n := 0
	for i := 0; i < len(a.Ref); i++ {
		if a.Ref[i] != a.Alt[i] {
			n++
		}
	}
	return n
}

// snpPair returns the mismatching base pair of a SNP.
func (a AltAllele) snpPair() (byte, byte) {
	for i := 0; i < len(a.Ref); i++ {
		if a.Ref[i] != a.Alt[i] {
			return a.Ref[i], a.Alt[i]
		}
	}
	return 0, 0
}

// CompareAltAlleles orders allele pairs by reference, then alternate.
func CompareAltAlleles(a, b AltAllele) int {
	if a.Ref != b.Ref {
		if a.Ref < b.Ref {
			return -1
		}
		return 1
	}
	if a.Alt != b.Alt {
		if a.Alt < b.Alt {
			return -1
		}
		return 1
	}
	return 0
}

// Variant is a site: a starting locus, a reference allele and one or
// more alternate alleles.
type Variant struct {
	Contig     string
	Start      int32
	Ref        string
	AltAlleles []AltAllele
}

func (v Variant) String() string {
	alts := make([]string, len(v.AltAlleles))
	for i, a := range v.AltAlleles {
		alts[i] = a.Alt
	}
	return fmt.Sprintf("%s:%d:%s:%s", v.Contig, v.Start, v.Ref, strings.Join(alts, ","))
}

func (v Variant) NAltAlleles() int  { return len(v.AltAlleles) }
func (v Variant) NAlleles() int     { return 1 + len(v.AltAlleles) }
func (v Variant) IsBiallelic() bool { return len(v.AltAlleles) == 1 }

// NGenotypes is the number of diploid genotype call indices at this site.
func (v Variant) NGenotypes() int {
	n := v.NAlleles()
	return n * (n + 1) / 2
}

func (v Variant) Locus() Locus { return Locus{Contig: v.Contig, Position: v.Start} }

// CompareVariants orders variants by locus, reference allele, then
// alternate alleles.
func CompareVariants(a, b Variant) int {
	if c := CompareLoci(a.Locus(), b.Locus()); c != 0 {
		return c
	}
	if a.Ref != b.Ref {
		if a.Ref < b.Ref {
			return -1
		}
		return 1
	}
	na, nb := len(a.AltAlleles), len(b.AltAlleles)
	for i := 0; i < na && i < nb; i++ {
		if c := CompareAltAlleles(a.AltAlleles[i], b.AltAlleles[i]); c != 0 {
			return c
		}
	}
	switch {
	case na < nb:
		return -1
	case na > nb:
		return 1
	}
	return 0
}
