package arena

import (
	"go.uber.org/zap"

	linearsrgb "github.com/wippyai/linear-srgb"
	"github.com/wippyai/linear-srgb/errors"
)

const (
	// AlignF32 is the alignment of float32 blocks.
	AlignF32 = 4
	// AlignU8 is the alignment of byte blocks.
	AlignU8 = 1

	addressLimit = uint64(1) << 32
)

// Bump hands out blocks from pages it appends to a region. It never frees.
//
// The allocator owns the half-open range [next, end). When that range is
// exhausted it grows the region by whole pages. If the region grew for some
// other reason in the meantime (a guest's own allocator, say), the new range
// starts at the old end of the region so foreign pages are never touched.
type Bump struct {
	mem  linearsrgb.LinearMemory
	next uint64
	end  uint64
}

var _ linearsrgb.Allocator = (*Bump)(nil)

// NewBump creates an allocator over mem. Pages that already exist belong to
// someone else; nothing is reserved until the first non-empty allocation.
func NewBump(mem linearsrgb.LinearMemory) *Bump {
	size := uint64(mem.Size())
	return &Bump{mem: mem, next: size, end: size}
}

// Alloc reserves size bytes aligned to align and returns their offset.
// The contents are not initialized. size 0 returns an aligned offset that
// must not be dereferenced and reserves nothing.
func (b *Bump) Alloc(size, align uint32) (uint32, error) {
	if align == 0 || align&(align-1) != 0 {
		return 0, errors.New(errors.PhaseAlloc, errors.KindInvalidInput).
			Value(align).
			Detail("alignment %d is not a power of two", align).
			Build()
	}

	ptr := alignUp(b.next, align)
	if size == 0 {
		return uint32(ptr), nil
	}

	if ptr+uint64(size) > b.end {
		if err := b.reserve(size, align); err != nil {
			return 0, err
		}
		ptr = alignUp(b.next, align)
	}

	b.next = ptr + uint64(size)
	Logger().Debug("bump alloc",
		zap.Uint32("size", size),
		zap.Uint32("align", align),
		zap.Uint64("ptr", ptr))
	return uint32(ptr), nil
}

// AllocF32 reserves n uninitialized float32 elements.
func (b *Bump) AllocF32(n uint32) (uint32, error) {
	bytes := uint64(n) * 4
	if bytes >= addressLimit {
		return 0, errors.Overflow(errors.PhaseAlloc, bytes, "u32")
	}
	return b.Alloc(uint32(bytes), AlignF32)
}

// AllocU8 reserves n uninitialized bytes.
func (b *Bump) AllocU8(n uint32) (uint32, error) {
	return b.Alloc(n, AlignU8)
}

func (b *Bump) reserve(size, align uint32) error {
	memEnd := uint64(b.mem.Size())
	start := b.next
	if memEnd != b.end {
		start = memEnd
	}

	need := alignUp(start, align) + uint64(size)
	if need > addressLimit {
		return errors.AllocationFailed(errors.PhaseAlloc, size, align)
	}
	pages := (need - memEnd + linearsrgb.PageSize - 1) / linearsrgb.PageSize

	prev, err := b.mem.Grow(uint32(pages))
	if err != nil {
		return errors.New(errors.PhaseAlloc, errors.KindAllocation).
			Value(size).
			Cause(err).
			Detail("grow %d pages for %d bytes", pages, size).
			Build()
	}
	if base := uint64(prev) * linearsrgb.PageSize; base != memEnd {
		// The region changed size between Size and Grow.
		start = base
	}

	b.next = start
	b.end = (uint64(prev) + pages) * linearsrgb.PageSize
	Logger().Debug("bump reserve",
		zap.Uint64("pages", pages),
		zap.Uint64("start", start),
		zap.Uint64("end", b.end))
	return nil
}

func alignUp(v uint64, align uint32) uint64 {
	a := uint64(align)
	return (v + a - 1) &^ (a - 1)
}
