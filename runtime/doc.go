// Package runtime provides the high-level API for running the sRGB kernel
// under WebAssembly.
//
// # Quick Start
//
//	ctx := context.Background()
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
//	out, err := inst.ConvertSamples(ctx, []float32{0, 0.0031308, 0.5, 1})
//	fmt.Println(out) // [0 10 188 255]
//
// # Kernels
//
// Two kinds of kernel are supported:
//
//	NewInstance(ctx)        - Built-in kernel, implemented by the host
//	LoadKernel(ctx, bytes)  - External module exporting the same ABI
//
// The built-in kernel is a small generated module that owns a memory and
// forwards convert, alloc_f32 and alloc_u8 to the linear_srgb host module.
// Its memory is backed by an arena.Arena.
//
// External kernels must export convert, alloc_f32, alloc_u8 and memory.
// The wasip1 build of cmd/srgb-wasm is one:
//
//	GOOS=wasip1 GOARCH=wasm go build -buildmode=c-shared -o srgb.wasm ./cmd/srgb-wasm
//
//	mod, err := rt.LoadKernel(ctx, wasmBytes)
//	inst, err := mod.Instantiate(ctx)
//
// Modules importing wasi_snapshot_preview1 get WASI instantiated on load.
// Reactors exporting _initialize have it run at instantiation.
//
// # Memory
//
// Allocations are never freed. ConvertSamples reuses its blocks across
// calls and only allocates when a larger batch arrives. Memory() returns
// the instance's linear memory; views into it are invalidated by growth.
//
// # Configuration
//
//	runtime.New(ctx,
//	    runtime.WithMemoryLimitPages(256), // 16 MiB per instance
//	    runtime.WithWASI(),
//	    runtime.WithLogger(logger),
//	)
package runtime
