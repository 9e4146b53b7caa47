package genome

import (
	"math"
	"testing"
)

func TestParsePosition(t *testing.T) {
	rg := GRCh37()

	tests := []struct {
		contig string
		pos    string
		want   int32
	}{
		{"1", "START", 1},
		{"1", "Start", 1},
		{"1", "start", 1},
		{"1", "END", 249250621},
		{"MT", "end", 16569},
		{"1", "1000", 1000},
		{"1", "1K", 1000},
		{"1", "1.5K", 1500},
		{"1", "12.5K", 12500},
		{"1", "0.5K", 500},
		{"1", "25k", 25000},
		{"1", "2M", 2000000},
		{"1", "1.234M", 1234000},
		{"1", "3.123456m", 3123456},
		{"1", "4000000000", math.MaxInt32},
		{"1", "3000000K", math.MaxInt32},
	}
	for _, tt := range tests {
		t.Run(tt.pos, func(t *testing.T) {
			got, err := ParsePosition(rg, tt.contig, tt.pos)
			if err != nil {
				t.Fatalf("ParsePosition(%q): %v", tt.pos, err)
			}
			if got != tt.want {
				t.Errorf("ParsePosition(%q) = %d, want %d", tt.pos, got, tt.want)
			}
		})
	}
}

func TestParsePositionErrors(t *testing.T) {
	rg := GRCh37()

	bad := []string{
		"",
		"abc",
		"1.5",
		"1.2345K",
		"1.0000001M",
		"1..5K",
		"K",
		".5K",
		"1.K",
	}
	for _, pos := range bad {
		if _, err := ParsePosition(rg, "1", pos); err == nil {
			t.Errorf("ParsePosition(%q) should fail", pos)
		}
	}

	if _, err := ParsePosition(rg, "Z", "END"); err == nil {
		t.Error("END on an unknown contig should fail")
	}
}

func TestParseLocus(t *testing.T) {
	rg := GRCh37()

	tests := []struct {
		in   string
		want Locus
	}{
		{"1:100", Locus{"1", 100}},
		{"10:55", Locus{"10", 55}},
		{"X:1.5K", Locus{"X", 1500}},
		{"MT:END", Locus{"MT", 16569}},
		{"22:16M", Locus{"22", 16000000}},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseLocus(rg, tt.in)
			if err != nil {
				t.Fatalf("ParseLocus(%q): %v", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("ParseLocus(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}

	rg38 := GRCh38()
	got, err := ParseLocus(rg38, "chr10:55")
	if err != nil {
		t.Fatalf("ParseLocus(chr10:55): %v", err)
	}
	if got != (Locus{"chr10", 55}) {
		t.Errorf("chr10 should not resolve to chr1, got %v", got)
	}
}

func TestParseLocusErrors(t *testing.T) {
	rg := GRCh37()

	bad := []string{"Z:100", "1", "1:abc", "1:"}
	for _, in := range bad {
		if _, err := ParseLocus(rg, in); err == nil {
			t.Errorf("ParseLocus(%q) should fail", in)
		}
	}
}

func TestParseInterval(t *testing.T) {
	rg := GRCh37()

	tests := []struct {
		in         string
		start, end Locus
	}{
		{"1:100-200", Locus{"1", 100}, Locus{"1", 200}},
		{"1:100-2:200", Locus{"1", 100}, Locus{"2", 200}},
		{"1-10", Locus{"1", 1}, Locus{"10", 135534747}},
		{"20", Locus{"20", 1}, Locus{"20", 63025520}},
		{"16:29.5M-30.2M", Locus{"16", 29500000}, Locus{"16", 30200000}},
		{"X:START-END", Locus{"X", 1}, Locus{"X", 155270560}},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseInterval(rg, tt.in)
			if err != nil {
				t.Fatalf("ParseInterval(%q): %v", tt.in, err)
			}
			if got.Start != tt.start || got.End != tt.end {
				t.Errorf("ParseInterval(%q) = [%v, %v), want [%v, %v)",
					tt.in, got.Start, got.End, tt.start, tt.end)
			}
		})
	}
}

func TestParseIntervalErrors(t *testing.T) {
	rg := GRCh37()

	bad := []string{
		"1:200-100",
		"1:100-100",
		"1:100",
		"Z",
		"1-Z",
		"1:abc-200",
	}
	for _, in := range bad {
		if _, err := ParseInterval(rg, in); err == nil {
			t.Errorf("ParseInterval(%q) should fail", in)
		}
	}
}

func TestParseVariant(t *testing.T) {
	v, err := ParseVariant("1:100:A:T")
	if err != nil {
		t.Fatalf("ParseVariant: %v", err)
	}
	want := Variant{Contig: "1", Start: 100, Ref: "A", AltAlleles: []AltAllele{{Ref: "A", Alt: "T"}}}
	if v.Contig != want.Contig || v.Start != want.Start || v.Ref != want.Ref {
		t.Errorf("ParseVariant = %v, want %v", v, want)
	}
	if len(v.AltAlleles) != 1 || v.AltAlleles[0] != want.AltAlleles[0] {
		t.Errorf("alt alleles = %v", v.AltAlleles)
	}

	multi, err := ParseVariant("X:5000:AT:A,ATT")
	if err != nil {
		t.Fatalf("ParseVariant multiallelic: %v", err)
	}
	if len(multi.AltAlleles) != 2 {
		t.Fatalf("expected 2 alt alleles, got %d", len(multi.AltAlleles))
	}
	if !multi.AltAlleles[0].IsDeletion() || !multi.AltAlleles[1].IsInsertion() {
		t.Error("expected one deletion and one insertion")
	}
}

func TestParseVariantErrors(t *testing.T) {
	bad := []string{
		"1:100:A",
		"1:100:A:T:G",
		"1:x:A:T",
		"1:100::T",
		"1:100:A:",
	}
	for _, in := range bad {
		if _, err := ParseVariant(in); err == nil {
			t.Errorf("ParseVariant(%q) should fail", in)
		}
	}
}
