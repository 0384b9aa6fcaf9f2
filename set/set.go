// Package set provides a fixed-size set of non-negative integers that
// supports concurrent insertion.
//
// Bits is used to account for tagged items flowing through a queue: every
// consumer adds the tag it observed, and a second Add of the same tag
// reports a duplicate.
package set

import (
	"bytes"
	"fmt"
	"math/bits"
	"sync/atomic"
)

const (
	setBits = 6 // each word holds 2^setBits values
	setMask = 1<<setBits - 1
)

// Bits is a set of integers in [0, Cap()).
// Its zero value is an empty set of capacity zero; use NewBits.
type Bits struct {
	dirty []atomic.Uint64
	cap   int
}

// NewBits returns an empty set able to hold values in [0, n).
func NewBits(n int) *Bits {
	if n < 0 {
		n = 0
	}
	return &Bits{
		dirty: make([]atomic.Uint64, (n+setMask)>>setBits),
		cap:   n,
	}
}

// x = 64*idx + mod
// idx = x/64 (x>>6) , mod = x%64 (x&(1<<6-1))
func idxMod(x int) (idx int, mod uint) {
	return x >> setBits, uint(x & setMask)
}

// Cap returns the exclusive upper bound of the values the set can hold.
func (s *Bits) Cap() int {
	return s.cap
}

// Add inserts x and reports whether x was absent before the call.
// Add panics if x is outside [0, Cap()).
func (s *Bits) Add(x int) bool {
	if x < 0 || x >= s.cap {
		panic(fmt.Sprintf("set: value %d out of range [0, %d)", x, s.cap))
	}
	idx, mod := idxMod(x)
	bit := uint64(1) << mod
	return s.dirty[idx].Or(bit)&bit == 0
}

// Has reports whether the set contains x.
func (s *Bits) Has(x int) bool {
	if x < 0 || x >= s.cap {
		// overflow
		return false
	}
	idx, mod := idxMod(x)
	return (s.dirty[idx].Load()>>mod)&1 == 1
}

// Len return the number of elements in set
func (s *Bits) Len() int {
	var sum int
	for i := range s.dirty {
		sum += bits.OnesCount64(s.dirty[i].Load())
	}
	return sum
}

// Full reports whether every value in [0, Cap()) is present.
func (s *Bits) Full() bool {
	return s.Len() == s.cap
}

// Missing returns, in ascending order, up to limit values of [0, Cap())
// absent from the set. A limit <= 0 means no limit.
func (s *Bits) Missing(limit int) []int {
	var out []int
	for x := 0; x < s.cap; x++ {
		if !s.Has(x) {
			out = append(out, x)
			if limit > 0 && len(out) == limit {
				break
			}
		}
	}
	return out
}

// Items return all element in the set
func (s *Bits) Items() []int {
	array := make([]int, 0, s.Len())
	for i := range s.dirty {
		item := s.dirty[i].Load()
		for item != 0 {
			j := bits.TrailingZeros64(item)
			array = append(array, i<<setBits+j)
			item &= item - 1
		}
	}
	return array
}

// String returns the set as a string of the form "{1 2 3}".
func (s *Bits) String() string {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for _, x := range s.Items() {
		if buf.Len() > len("{") {
			buf.WriteByte(' ')
		}
		fmt.Fprintf(&buf, "%d", x)
	}
	buf.WriteByte('}')
	return buf.String()
}
