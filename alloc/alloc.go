package alloc

import (
	"github.com/mit-pdos/simplefs/util"
)

// Alloc uses an in-memory bit map to allocate and free numbers in
// [0, max). Bit 0 is permanently reserved, so 0 doubles as the
// "nothing free" sentinel.
//
// The map is never persisted; callers rebuild it from the on-disk
// structures with MarkUsed.
type Alloc struct {
	max    uint64
	bitmap []byte
}

// MkMaxAlloc makes an allocator for numbers [1, max), with bit 0
// pre-reserved.
func MkMaxAlloc(max uint64) *Alloc {
	a := &Alloc{
		max:    max,
		bitmap: make([]byte, util.RoundUp(max, 8)),
	}
	if max > 0 {
		a.MarkUsed(0)
	}
	return a
}

func (a *Alloc) Max() uint64 {
	return a.max
}

func (a *Alloc) Test(num uint64) bool {
	i := num / 8
	bit := num % 8
	return a.bitmap[i]&(1<<bit) != 0
}

// MarkUsed sets bit num. Idempotent.
func (a *Alloc) MarkUsed(num uint64) {
	if num >= a.max {
		panic("MarkUsed")
	}
	i := num / 8
	bit := num % 8
	a.bitmap[i] = a.bitmap[i] | (1 << bit)
}

// FreeNum clears bit num. Idempotent.
func (a *Alloc) FreeNum(num uint64) {
	if num == 0 || num >= a.max {
		panic("FreeNum")
	}
	i := num / 8
	bit := num % 8
	a.bitmap[i] = a.bitmap[i] & ^(byte(1) << bit)
}

// AllocNum returns the lowest free number, marking it used, or 0 if
// the map is full. Scanning from the bottom keeps allocation order
// deterministic.
func (a *Alloc) AllocNum() uint64 {
	for num := uint64(1); num < a.max; num++ {
		i := num / 8
		if a.bitmap[i] == 0xff {
			num += 7 - num%8
			continue
		}
		if !a.Test(num) {
			a.MarkUsed(num)
			util.DPrintf(10, "AllocNum: %d\n", num)
			return num
		}
	}
	return 0
}

func popCnt(b byte) uint64 {
	var count uint64
	for bit := uint64(0); bit < 8; bit++ {
		if b&(1<<bit) != 0 {
			count++
		}
	}
	return count
}

// NumFree reports how many numbers are unallocated (the reserved bit
// 0 counts as allocated).
func (a *Alloc) NumFree() uint64 {
	var used uint64
	for _, b := range a.bitmap {
		used += popCnt(b)
	}
	return a.max - used
}
