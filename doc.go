// Package linearsrgb converts linear-light float32 color samples into 8-bit
// sRGB samples and hands out raw buffers inside a growable memory region so a
// host can fill them without copying.
//
// # Architecture Overview
//
//	linearsrgb/          Root package with core Memory and Allocator interfaces
//	├── transfer/        sRGB transfer functions and slice converters
//	├── arena/           Growable page-based region and bump allocator
//	├── kernel/          convert / alloc_f32 / alloc_u8 / get_memory over a region
//	├── engine/          wazero host module exposing the kernel to guests
//	├── runtime/         High-level API for kernel instances
//	├── raster/          Image output for encoded samples
//	├── errors/          Structured error types
//	└── cmd/             srgb CLI and the wasip1 kernel build
//
// # Quick Start
//
// Convert samples through a wasm kernel instance:
//
//	rt, err := runtime.New(ctx)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer rt.Close(ctx)
//
//	inst, err := rt.NewInstance(ctx)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer inst.Close(ctx)
//
//	out, err := inst.ConvertSamples(ctx, []float32{0, 0.5, 1})
//	fmt.Println(out) // [0 188 255]
//
// Or call the kernel directly on a Go-owned arena:
//
//	k := kernel.New(arena.New(0, 0))
//	in, _ := k.AllocF32(3)
//	out, _ := k.AllocU8(3)
//	// write little-endian float32 samples at in ...
//	err := k.Convert(in, 3, out)
//
// # Memory Model
//
// Regions only grow, never shrink. Allocations are never reclaimed; ownership
// of every reserved block passes to the caller for the life of the region.
// Views returned by Memory.Read stay valid until the region grows.
//
// # Thread Safety
//
// Kernels and instances are single-threaded. Callers that share a region
// across goroutines must serialize access themselves.
package linearsrgb
