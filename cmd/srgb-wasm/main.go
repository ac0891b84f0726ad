//go:build wasip1

// Command srgb-wasm is the kernel as a WebAssembly reactor. Build with
//
//	GOOS=wasip1 GOARCH=wasm go build -buildmode=c-shared -o srgb.wasm ./cmd/srgb-wasm
//
// and load it with runtime.LoadKernel. The module exports convert,
// alloc_f32 and alloc_u8; the toolchain exports memory, which is the whole
// linear memory of the instance.
package main

import (
	"unsafe"

	"github.com/wippyai/linear-srgb/transfer"
)

// pinned keeps every block handed to the host reachable, so the collector
// never reclaims or reuses it.
var pinned [][]byte

//go:wasmexport convert
func convert(ptr *float32, n uint32, out *uint8) {
	if n == 0 {
		return
	}
	in := unsafe.Slice(ptr, n)
	dst := unsafe.Slice(out, n)
	transfer.ConvertUnchecked(in, dst)
}

//go:wasmexport alloc_f32
func allocF32(n uint32) *float32 {
	if n == 0 {
		return nil
	}
	// Backed by uint32 words for 4-byte alignment.
	words := make([]uint32, n)
	pinned = append(pinned, unsafe.Slice((*byte)(unsafe.Pointer(&words[0])), uintptr(n)*4))
	return (*float32)(unsafe.Pointer(&words[0]))
}

//go:wasmexport alloc_u8
func allocU8(n uint32) *uint8 {
	if n == 0 {
		return nil
	}
	block := make([]byte, n)
	pinned = append(pinned, block)
	return &block[0]
}

func main() {}
