package genome

import (
	"fmt"
	"math"
)

// Call is a diploid genotype call stored as a triangle-number index over
// unordered allele pairs: index(j, k) = k(k+1)/2 + j with j <= k, so
// 0/0 -> 0, 0/1 -> 1, 1/1 -> 2, 0/2 -> 3 and so on.
type Call int32

// MakeCall encodes an unordered allele pair.
func MakeCall(j, k int32) Call {
	if j > k {
		j, k = k, j
	}
	return Call(k*(k+1)/2 + j)
}

// GTPair decodes the call into its allele pair, j <= k.
func (c Call) GTPair() (j, k int32) {
	k = int32((isqrt64(8*int64(c)+1) - 1) / 2)
	j = int32(c) - k*(k+1)/2
	return j, k
}

// GTJ returns the smaller allele index of the pair.
func (c Call) GTJ() int32 {
	j, _ := c.GTPair()
	return j
}

// GTK returns the larger allele index of the pair.
func (c Call) GTK() int32 {
	_, k := c.GTPair()
	return k
}

func (c Call) IsHomRef() bool { return c == 0 }

func (c Call) IsHet() bool {
	j, k := c.GTPair()
	return j != k
}

func (c Call) IsHomVar() bool {
	j, k := c.GTPair()
	return j == k && j > 0
}

// NNonRefAlleles counts the non-reference alleles carried by the call.
func (c Call) NNonRefAlleles() int32 {
	j, k := c.GTPair()
	var n int32
	if j != 0 {
		n++
	}
	if k != 0 {
		n++
	}
	return n
}

func (c Call) String() string {
	j, k := c.GTPair()
	return fmt.Sprintf("%d/%d", j, k)
}

// isqrt64 is the integer square root. The float estimate is corrected
// so the triangle decoding stays exact near perfect squares.
func isqrt64(n int64) int64 {
	if n < 0 {
		return 0
	}
	x := int64(math.Sqrt(float64(n)))
	for x > 0 && x*x > n {
		x--
	}
	for (x+1)*(x+1) <= n {
		x++
	}
	return x
}
