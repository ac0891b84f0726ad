// Package arena provides the growable memory region and the bump allocator
// that hands out blocks inside it.
//
// An Arena is a single contiguous byte region that grows in 64 KiB pages and
// never shrinks. It can also back a wazero guest memory directly, since it
// implements experimental.LinearMemory and experimental.MemoryAllocator:
//
//	a := arena.New(0, 0)
//	ctx = experimental.WithMemoryAllocator(ctx, a)
//	mod, err := r.InstantiateModule(ctx, compiled, cfg)
//	// a.Bytes() is now the guest's linear memory
//
// A Bump allocator reserves blocks from fresh pages it grows onto the end of
// any linearsrgb.LinearMemory. Blocks are never freed and never initialized.
package arena
