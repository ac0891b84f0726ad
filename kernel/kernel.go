// Package kernel exposes the conversion kernel over a shared linear memory
// region: convert, alloc_f32, alloc_u8 and get_memory.
//
// Offsets address the region directly. Input samples are little-endian
// float32 values, as written by a WASM host into linear memory.
package kernel

import (
	"encoding/binary"
	"math"

	linearsrgb "github.com/wippyai/linear-srgb"
	"github.com/wippyai/linear-srgb/arena"
	"github.com/wippyai/linear-srgb/errors"
	"github.com/wippyai/linear-srgb/transfer"
)

// Kernel binds one memory region and the bump allocator that reserves
// blocks inside it. It is not safe for concurrent use.
type Kernel struct {
	mem   linearsrgb.LinearMemory
	alloc *arena.Bump
}

// New creates a kernel over mem.
func New(mem linearsrgb.LinearMemory) *Kernel {
	return &Kernel{
		mem:   mem,
		alloc: arena.NewBump(mem),
	}
}

// Convert encodes n float32 samples at inPtr into n bytes at outPtr.
// Both ranges are checked before anything is written.
func (k *Kernel) Convert(inPtr, n, outPtr uint32) error {
	if n == 0 {
		return nil
	}
	inLen := uint64(n) * 4
	if uint64(inPtr)+inLen > uint64(k.mem.Size()) {
		return errors.OutOfBounds(errors.PhaseConvert, uint64(inPtr), inLen, k.mem.Size())
	}
	src, err := k.mem.Read(inPtr, uint32(inLen))
	if err != nil {
		return errors.Wrap(errors.PhaseConvert, errors.KindOutOfBounds, err, "input range")
	}
	dst, err := k.mem.Read(outPtr, n)
	if err != nil {
		return errors.Wrap(errors.PhaseConvert, errors.KindOutOfBounds, err, "output range")
	}
	convertBytes(src, dst)
	return nil
}

// AllocF32 reserves n uninitialized float32 elements and returns their
// offset. The block is never freed.
func (k *Kernel) AllocF32(n uint32) (uint32, error) {
	return k.alloc.AllocF32(n)
}

// AllocU8 reserves n uninitialized bytes and returns their offset. The block
// is never freed.
func (k *Kernel) AllocU8(n uint32) (uint32, error) {
	return k.alloc.AllocU8(n)
}

// Memory returns the whole region the kernel operates on.
func (k *Kernel) Memory() linearsrgb.LinearMemory {
	return k.mem
}

// ConvertAt is the unchecked form of Convert over a raw region. Ranges
// outside buf panic.
func ConvertAt(buf []byte, inPtr, n, outPtr uint32) {
	in := uint64(inPtr)
	out := uint64(outPtr)
	convertBytes(buf[in:in+uint64(n)*4], buf[out:out+uint64(n)])
}

// convertBytes reads little-endian float32 samples from src. The output may
// start at the same offset as the input: byte i is written only after
// sample i has been read.
func convertBytes(src, dst []byte) {
	for i := range dst {
		v := math.Float32frombits(binary.LittleEndian.Uint32(src[i*4:]))
		dst[i] = transfer.EncodeByte(v)
	}
}
