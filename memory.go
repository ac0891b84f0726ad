package linearsrgb

// PageSize is the granularity of region growth, matching WASM linear memory.
const PageSize = 65536

// Memory represents a linear byte region addressed by 32-bit offsets.
// Read returns a view into the region, not a copy.
type Memory interface {
	Read(offset uint32, length uint32) ([]byte, error)
	Write(offset uint32, data []byte) error
}

// MemorySizer provides the current size of the region in bytes.
type MemorySizer interface {
	Size() uint32
}

// MemoryGrower grows the region by whole pages and reports the previous size
// in pages.
type MemoryGrower interface {
	Grow(deltaPages uint32) (uint32, error)
}

// LinearMemory is a region that can be read, written, sized and grown.
type LinearMemory interface {
	Memory
	MemorySizer
	MemoryGrower
}

// Allocator reserves blocks inside a region. There is no Free: blocks are
// owned by the caller for the life of the region.
type Allocator interface {
	Alloc(size, align uint32) (uint32, error)
}
