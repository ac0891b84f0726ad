// Package wasm provides the WASM binary encoding used to synthesize the
// guest module that owns a kernel instance's memory.
//
// # Encoding
//
// LEB128 (Little Endian Base 128) encoding for WebAssembly integers:
//
//	encoded := wasm.EncodeULEB128(300) // 0xac 0x02
//
// # Synthetic Modules
//
// Generate a module that defines a memory, imports host functions and
// re-exports each of them through a forwarding function:
//
//	b := wasm.NewSynthModuleBuilder("linear_srgb")
//	b.SetMemory("memory", 1)
//	b.AddFunc("alloc_u8", []api.ValueType{api.ValueTypeI32}, []api.ValueType{api.ValueTypeI32})
//	bin := b.Build()
//
// Calls through the forwarding functions reach the host with the synthetic
// module as the caller, so host functions operate on its memory.
package wasm
