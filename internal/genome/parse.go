package genome

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Position literal grammar. Positions accept the sentinels START and END,
// the multiplier suffixes K (thousands) and M (millions) including
// fractional forms like 1.5K and 1.234M, and plain integers. Plain
// integers saturate to MaxInt32 on overflow instead of failing; interval
// files in the wild use oversized positions as an end-of-contig sentinel.

// parsedPos is a position that may still refer to the end of its contig.
type parsedPos struct {
	value int32
	isEnd bool
}

func parsePos(s string) (parsedPos, error) {
	switch s {
	case "START", "Start", "start":
		return parsedPos{value: 1}, nil
	case "END", "End", "end":
		return parsedPos{isEnd: true}, nil
	case "":
		return parsedPos{}, fmt.Errorf("empty position")
	}

	digits := s
	scaleWidth := 0
	switch s[len(s)-1] {
	case 'K', 'k':
		digits, scaleWidth = s[:len(s)-1], 3
	case 'M', 'm':
		digits, scaleWidth = s[:len(s)-1], 6
	}

	intPart, fracPart := digits, ""
	if i := strings.IndexByte(digits, '.'); i >= 0 {
		intPart, fracPart = digits[:i], digits[i+1:]
		if scaleWidth == 0 || fracPart == "" || len(fracPart) > scaleWidth {
			return parsedPos{}, fmt.Errorf("invalid position %q", s)
		}
	}
	if !allDigits(intPart) || !allDigits(fracPart) {
		return parsedPos{}, fmt.Errorf("invalid position %q", s)
	}

	// 1.5K becomes digits 15 scaled by 10^(3-1); 1.234M becomes 1234
	// scaled by 10^(6-3).
	n := satDigits(intPart + fracPart)
	for i := len(fracPart); i < scaleWidth; i++ {
		n *= 10
	}
	if n > math.MaxInt32 {
		n = math.MaxInt32
	}
	return parsedPos{value: int32(n)}, nil
}

func allDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// satDigits converts decimal digits to an integer, capping at MaxInt32.
func satDigits(s string) int64 {
	var n int64
	for i := 0; i < len(s); i++ {
		n = n*10 + int64(s[i]-'0')
		if n > math.MaxInt32 {
			return math.MaxInt32
		}
	}
	return n
}

// ParsePosition parses a position literal on the given contig, resolving
// the END sentinel through the reference genome's contig length.
func ParsePosition(rg *ReferenceGenome, contig, s string) (int32, error) {
	p, err := parsePos(s)
	if err != nil {
		return 0, err
	}
	if p.isEnd {
		length, ok := rg.ContigLength(contig)
		if !ok {
			return 0, fmt.Errorf("contig %q not found in reference genome %s", contig, rg.Name)
		}
		return length, nil
	}
	return p.value, nil
}

// ParseLocus parses a "contig:pos" literal. The contig is matched by
// longest prefix against the reference genome's contig names and pos uses
// the position literal grammar.
func ParseLocus(rg *ReferenceGenome, s string) (Locus, error) {
	contig, rest, ok := rg.MatchContigPrefix(s)
	if !ok {
		return Locus{}, fmt.Errorf("invalid locus %q: no contig of reference genome %s matches", s, rg.Name)
	}
	if !strings.HasPrefix(rest, ":") {
		return Locus{}, fmt.Errorf("invalid locus %q: expected contig:pos", s)
	}
	pos, err := ParsePosition(rg, contig, rest[1:])
	if err != nil {
		return Locus{}, fmt.Errorf("invalid locus %q: %v", s, err)
	}
	return Locus{Contig: contig, Position: pos}, nil
}

// ParseInterval parses an interval literal in one of four forms:
//
//	contig:pos-contig:pos   explicit loci
//	contig:pos-pos          both positions on the first contig
//	contig-contig           position 1 of the first to the length of the second
//	contig                  the whole contig
//
// The result is half-open and the start must precede the end.
func ParseInterval(rg *ReferenceGenome, s string) (Interval, error) {
	c1, rest, ok := rg.MatchContigPrefix(s)
	if !ok {
		return Interval{}, fmt.Errorf("invalid interval %q: no contig of reference genome %s matches", s, rg.Name)
	}

	var start, end Locus
	switch {
	case rest == "":
		length, _ := rg.ContigLength(c1)
		start = Locus{Contig: c1, Position: 1}
		end = Locus{Contig: c1, Position: length}

	case rest[0] == '-':
		c2, tail, ok := rg.MatchContigPrefix(rest[1:])
		if !ok || tail != "" {
			return Interval{}, fmt.Errorf("invalid interval %q: %q is not a contig of reference genome %s", s, rest[1:], rg.Name)
		}
		length, _ := rg.ContigLength(c2)
		start = Locus{Contig: c1, Position: 1}
		end = Locus{Contig: c2, Position: length}

	case rest[0] == ':':
		dash := strings.IndexByte(rest, '-')
		if dash < 0 {
			return Interval{}, fmt.Errorf("invalid interval %q: expected start-end", s)
		}
		p1, err := ParsePosition(rg, c1, rest[1:dash])
		if err != nil {
			return Interval{}, fmt.Errorf("invalid interval %q: %v", s, err)
		}
		start = Locus{Contig: c1, Position: p1}
		second := rest[dash+1:]
		if c2, tail, ok := rg.MatchContigPrefix(second); ok && strings.HasPrefix(tail, ":") {
			p2, err := ParsePosition(rg, c2, tail[1:])
			if err != nil {
				return Interval{}, fmt.Errorf("invalid interval %q: %v", s, err)
			}
			end = Locus{Contig: c2, Position: p2}
		} else {
			p2, err := ParsePosition(rg, c1, second)
			if err != nil {
				return Interval{}, fmt.Errorf("invalid interval %q: %v", s, err)
			}
			end = Locus{Contig: c1, Position: p2}
		}

	default:
		return Interval{}, fmt.Errorf("invalid interval %q: expected contig:pos", s)
	}

	if CompareLoci(start, end) >= 0 {
		return Interval{}, fmt.Errorf("invalid interval %q: start must precede end", s)
	}
	return Interval{Start: start, End: end}, nil
}

// ParseVariant parses a "contig:start:ref:alt1,alt2" literal.
func ParseVariant(s string) (Variant, error) {
	parts := strings.Split(s, ":")
	if len(parts) != 4 {
		return Variant{}, fmt.Errorf("invalid variant %q: expected 4 colon-delimited fields, found %d", s, len(parts))
	}
	start, err := strconv.ParseInt(parts[1], 10, 32)
	if err != nil {
		return Variant{}, fmt.Errorf("invalid variant %q: bad start position %q", s, parts[1])
	}
	ref := parts[2]
	altStrs := strings.Split(parts[3], ",")
	alts := make([]AltAllele, len(altStrs))
	for i, alt := range altStrs {
		if alt == "" {
			return Variant{}, fmt.Errorf("invalid variant %q: empty alternate allele", s)
		}
		alts[i] = AltAllele{Ref: ref, Alt: alt}
	}
	if ref == "" {
		return Variant{}, fmt.Errorf("invalid variant %q: empty reference allele", s)
	}
	return Variant{Contig: parts[0], Start: int32(start), Ref: ref, AltAlleles: alts}, nil
}
