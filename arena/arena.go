package arena

import (
	"github.com/tetratelabs/wazero/experimental"

	linearsrgb "github.com/wippyai/linear-srgb"
	"github.com/wippyai/linear-srgb/errors"
)

// maxPages is the largest region addressable with 32-bit offsets.
const maxPages = 1 << 16

// Arena is a growable byte region. The zero value is an empty region with
// the default page limit.
type Arena struct {
	buf      []byte
	maxPages uint32
}

var (
	_ linearsrgb.LinearMemory      = (*Arena)(nil)
	_ experimental.LinearMemory    = (*Arena)(nil)
	_ experimental.MemoryAllocator = (*Arena)(nil)
)

// New creates an arena of initialPages pages. limit caps growth in pages;
// 0 means the 4 GiB addressing limit.
func New(initialPages, limit uint32) *Arena {
	a := &Arena{maxPages: limit}
	if initialPages > 0 {
		a.buf = make([]byte, uint64(initialPages)*linearsrgb.PageSize)
	}
	return a
}

func (a *Arena) limit() uint64 {
	if a.maxPages == 0 || a.maxPages > maxPages {
		return maxPages
	}
	return uint64(a.maxPages)
}

// Size returns the region size in bytes.
func (a *Arena) Size() uint32 {
	return uint32(len(a.buf))
}

// Pages returns the region size in pages.
func (a *Arena) Pages() uint32 {
	return uint32(len(a.buf) / linearsrgb.PageSize)
}

// Bytes returns the whole region. The slice is invalidated by the next grow.
func (a *Arena) Bytes() []byte {
	return a.buf
}

// Grow extends the region by deltaPages zeroed pages and returns the
// previous size in pages.
func (a *Arena) Grow(deltaPages uint32) (uint32, error) {
	prev := a.Pages()
	if deltaPages == 0 {
		return prev, nil
	}
	next := uint64(prev) + uint64(deltaPages)
	if next > a.limit() {
		return prev, errors.New(errors.PhaseMemory, errors.KindAllocation).
			Value(deltaPages).
			Detail("cannot grow from %d to %d pages (limit %d)", prev, next, a.limit()).
			Build()
	}
	a.resize(next * linearsrgb.PageSize)
	return prev, nil
}

func (a *Arena) resize(size uint64) {
	if size <= uint64(cap(a.buf)) {
		old := len(a.buf)
		a.buf = a.buf[:size]
		clear(a.buf[old:])
		return
	}
	nb := make([]byte, size, growCap(uint64(cap(a.buf)), size))
	copy(nb, a.buf)
	a.buf = nb
}

// growCap doubles the capacity until it fits size, without passing the
// 4 GiB addressing limit.
func growCap(current, size uint64) uint64 {
	c := current
	if c == 0 {
		c = linearsrgb.PageSize
	}
	for c < size {
		c *= 2
	}
	if c > maxPages*linearsrgb.PageSize {
		c = maxPages * linearsrgb.PageSize
	}
	if c < size {
		c = size
	}
	return c
}

// Read returns a view of length bytes at offset.
func (a *Arena) Read(offset, length uint32) ([]byte, error) {
	end := uint64(offset) + uint64(length)
	if end > uint64(len(a.buf)) {
		return nil, errors.OutOfBounds(errors.PhaseMemory, uint64(offset), uint64(length), a.Size())
	}
	return a.buf[offset:end:end], nil
}

// Write copies data into the region at offset.
func (a *Arena) Write(offset uint32, data []byte) error {
	end := uint64(offset) + uint64(len(data))
	if end > uint64(len(a.buf)) {
		return errors.OutOfBounds(errors.PhaseMemory, uint64(offset), uint64(len(data)), a.Size())
	}
	copy(a.buf[offset:end], data)
	return nil
}

// Allocate implements experimental.MemoryAllocator. It hands out the arena
// itself, so one Arena backs at most one guest memory. capBytes preallocates
// backing storage; maxBytes caps growth.
func (a *Arena) Allocate(capBytes, maxBytes uint64) experimental.LinearMemory {
	if pages := maxBytes / linearsrgb.PageSize; pages > 0 && pages < a.limit() {
		a.maxPages = uint32(pages)
	}
	if capBytes > uint64(cap(a.buf)) {
		nb := make([]byte, len(a.buf), capBytes)
		copy(nb, a.buf)
		a.buf = nb
	}
	return a
}

// Reallocate implements experimental.LinearMemory. It returns nil when size
// exceeds the page limit, which the guest sees as a failed memory.grow.
func (a *Arena) Reallocate(size uint64) []byte {
	if size > a.limit()*linearsrgb.PageSize {
		return nil
	}
	if size > uint64(len(a.buf)) {
		a.resize(size)
	}
	return a.buf[:size]
}

// Free implements experimental.LinearMemory. It is a no-op: pages handed
// out by the arena stay owned by their callers after the guest closes.
func (a *Arena) Free() {}
