package genome

import (
	"fmt"
	"sort"
)

// Contig is a named sequence with its length in bases.
type Contig struct {
	Name   string
	Length int32
}

// Region is a half-open position range [Start, End) on one contig, used
// for pseudoautosomal regions.
type Region struct {
	Contig string
	Start  int32
	End    int32
}

func (r Region) contains(l Locus) bool {
	return l.Contig == r.Contig && r.Start <= l.Position && l.Position < r.End
}

// ReferenceGenome is an ordered contig set with sex and mitochondrial
// contig designations and pseudoautosomal regions. It is immutable after
// construction and safe for concurrent reads.
type ReferenceGenome struct {
	Name      string
	Contigs   []Contig
	XContigs  []string
	YContigs  []string
	MTContigs []string
	PAR       []Region

	lengths  map[string]int32
	byPrefix []string // contig names sorted longest first
	x, y, mt map[string]bool
}

// New builds a reference genome and its lookup indexes. Contig order is
// preserved as given.
func New(name string, contigs []Contig, xContigs, yContigs, mtContigs []string, par []Region) (*ReferenceGenome, error) {
	if name == "" {
		return nil, fmt.Errorf("reference genome requires a name")
	}
	if len(contigs) == 0 {
		return nil, fmt.Errorf("reference genome %s has no contigs", name)
	}

	rg := &ReferenceGenome{
		Name:      name,
		Contigs:   contigs,
		XContigs:  xContigs,
		YContigs:  yContigs,
		MTContigs: mtContigs,
		PAR:       par,
		lengths:   make(map[string]int32, len(contigs)),
		byPrefix:  make([]string, 0, len(contigs)),
		x:         toSet(xContigs),
		y:         toSet(yContigs),
		mt:        toSet(mtContigs),
	}
	for _, c := range contigs {
		if c.Length <= 0 {
			return nil, fmt.Errorf("reference genome %s: contig %s has non-positive length %d", name, c.Name, c.Length)
		}
		if _, dup := rg.lengths[c.Name]; dup {
			return nil, fmt.Errorf("reference genome %s: duplicate contig %s", name, c.Name)
		}
		rg.lengths[c.Name] = c.Length
		rg.byPrefix = append(rg.byPrefix, c.Name)
	}
	sort.Slice(rg.byPrefix, func(i, j int) bool {
		if len(rg.byPrefix[i]) != len(rg.byPrefix[j]) {
			return len(rg.byPrefix[i]) > len(rg.byPrefix[j])
		}
		return rg.byPrefix[i] < rg.byPrefix[j]
	})
	for _, r := range par {
		if _, ok := rg.lengths[r.Contig]; !ok {
			return nil, fmt.Errorf("reference genome %s: PAR region on unknown contig %s", name, r.Contig)
		}
	}
	return rg, nil
}

func toSet(names []string) map[string]bool {
	m := make(map[string]bool, len(names))
	for _, n := range names {
		m[n] = true
	}
	return m
}

// ContigLength returns the length of the named contig.
func (rg *ReferenceGenome) ContigLength(contig string) (int32, bool) {
	n, ok := rg.lengths[contig]
	return n, ok
}

// HasContig reports whether the contig is part of this reference.
func (rg *ReferenceGenome) HasContig(contig string) bool {
	_, ok := rg.lengths[contig]
	return ok
}

// MatchContigPrefix finds the longest contig name that is a prefix of s
// and returns it with the unconsumed remainder. Longest-first matching
// keeps contigs like "1" from shadowing "10" in "10:55".
func (rg *ReferenceGenome) MatchContigPrefix(s string) (contig, rest string, ok bool) {
	for _, name := range rg.byPrefix {
		if len(s) >= len(name) && s[:len(name)] == name {
			return name, s[len(name):], true
		}
	}
	return "", s, false
}

func (rg *ReferenceGenome) IsX(contig string) bool  { return rg.x[contig] }
func (rg *ReferenceGenome) IsY(contig string) bool  { return rg.y[contig] }
func (rg *ReferenceGenome) IsMT(contig string) bool { return rg.mt[contig] }

// InXPar reports whether the locus lies in a pseudoautosomal region of
// an X contig.
func (rg *ReferenceGenome) InXPar(l Locus) bool {
	return rg.IsX(l.Contig) && rg.inPar(l)
}

// InYPar reports whether the locus lies in a pseudoautosomal region of
// a Y contig.
func (rg *ReferenceGenome) InYPar(l Locus) bool {
	return rg.IsY(l.Contig) && rg.inPar(l)
}

// InXNonPar reports an X locus outside the pseudoautosomal regions.
func (rg *ReferenceGenome) InXNonPar(l Locus) bool {
	return rg.IsX(l.Contig) && !rg.inPar(l)
}

// InYNonPar reports a Y locus outside the pseudoautosomal regions.
func (rg *ReferenceGenome) InYNonPar(l Locus) bool {
	return rg.IsY(l.Contig) && !rg.inPar(l)
}

// IsAutosomal reports a contig that is neither sex nor mitochondrial.
func (rg *ReferenceGenome) IsAutosomal(contig string) bool {
	return !rg.IsX(contig) && !rg.IsY(contig) && !rg.IsMT(contig)
}

func (rg *ReferenceGenome) inPar(l Locus) bool {
	for _, r := range rg.PAR {
		if r.contains(l) {
			return true
		}
	}
	return false
}

// GRCh37 is the b37 reference build: plain contig names, main contigs
// only.
func GRCh37() *ReferenceGenome {
	rg, err := New("GRCh37",
		[]Contig{
			{"1", 249250621}, {"2", 243199373}, {"3", 198022430},
			{"4", 191154276}, {"5", 180915260}, {"6", 171115067},
			{"7", 159138663}, {"8", 146364022}, {"9", 141213431},
			{"10", 135534747}, {"11", 135006516}, {"12", 133851895},
			{"13", 115169878}, {"14", 107349540}, {"15", 102531392},
			{"16", 90354753}, {"17", 81195210}, {"18", 78077248},
			{"19", 59128983}, {"20", 63025520}, {"21", 48129895},
			{"22", 51304566}, {"X", 155270560}, {"Y", 59373566},
			{"MT", 16569},
		},
		[]string{"X"}, []string{"Y"}, []string{"MT"},
		[]Region{
			{"X", 60001, 2699521}, {"X", 154931044, 155260561},
			{"Y", 10001, 2649521}, {"Y", 59034050, 59363567},
		})
	if err != nil {
		panic(err)
	}
	return rg
}

// GRCh38 is the hg38 reference build: chr-prefixed contig names, main
// contigs only.
func GRCh38() *ReferenceGenome {
	rg, err := New("GRCh38",
		[]Contig{
			{"chr1", 248956422}, {"chr2", 242193529}, {"chr3", 198295559},
			{"chr4", 190214555}, {"chr5", 181538259}, {"chr6", 170805979},
			{"chr7", 159345973}, {"chr8", 145138636}, {"chr9", 138394717},
			{"chr10", 133797422}, {"chr11", 135086622}, {"chr12", 133275309},
			{"chr13", 114364328}, {"chr14", 107043718}, {"chr15", 101991189},
			{"chr16", 90338345}, {"chr17", 83257441}, {"chr18", 80373285},
			{"chr19", 58617616}, {"chr20", 64444167}, {"chr21", 46709983},
			{"chr22", 50818468}, {"chrX", 156040895}, {"chrY", 57227415},
			{"chrM", 16569},
		},
		[]string{"chrX"}, []string{"chrY"}, []string{"chrM"},
		[]Region{
			{"chrX", 10001, 2781480}, {"chrX", 155701383, 156030896},
			{"chrY", 10001, 2781480}, {"chrY", 56887903, 57217416},
		})
	if err != nil {
		panic(err)
	}
	return rg
}
