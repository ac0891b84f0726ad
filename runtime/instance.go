package runtime

import (
	"context"
	"encoding/binary"
	"math"

	"github.com/tetratelabs/wazero/api"

	"github.com/wippyai/linear-srgb/arena"
	"github.com/wippyai/linear-srgb/engine"
	"github.com/wippyai/linear-srgb/errors"
)

// Instance is a live kernel: the built-in one or a loaded module. It is not
// safe for concurrent use.
type Instance struct {
	runtime *Runtime
	mod     api.Module
	arena   *arena.Arena

	convert  api.Function
	allocF32 api.Function
	allocU8  api.Function

	// Scratch blocks reused by ConvertSamples.
	scratchIn  uint32
	scratchOut uint32
	scratchCap uint32
}

func newInstance(r *Runtime, mod api.Module, a *arena.Arena) (*Instance, error) {
	i := &Instance{
		runtime:  r,
		mod:      mod,
		arena:    a,
		convert:  mod.ExportedFunction(engine.FuncConvert),
		allocF32: mod.ExportedFunction(engine.FuncAllocF32),
		allocU8:  mod.ExportedFunction(engine.FuncAllocU8),
	}
	if i.convert == nil || i.allocF32 == nil || i.allocU8 == nil || mod.Memory() == nil {
		_ = mod.Close(context.Background())
		return nil, errors.NotInitialized(errors.PhaseRuntime, "kernel exports")
	}
	return i, nil
}

// Name returns the module name of the instance.
func (i *Instance) Name() string {
	return i.mod.Name()
}

// AllocF32 reserves n float32 elements in instance memory.
func (i *Instance) AllocF32(ctx context.Context, n uint32) (uint32, error) {
	return i.alloc(ctx, i.allocF32, n)
}

// AllocU8 reserves n bytes in instance memory.
func (i *Instance) AllocU8(ctx context.Context, n uint32) (uint32, error) {
	return i.alloc(ctx, i.allocU8, n)
}

func (i *Instance) alloc(ctx context.Context, fn api.Function, n uint32) (uint32, error) {
	results, err := fn.Call(ctx, api.EncodeU32(n))
	if err != nil {
		return 0, callError(ctx, errors.PhaseAlloc, err, fn.Definition().Name())
	}
	return api.DecodeU32(results[0]), nil
}

// Convert encodes n float32 samples at inPtr into n bytes at outPtr.
func (i *Instance) Convert(ctx context.Context, inPtr, n, outPtr uint32) error {
	if _, err := i.convert.Call(ctx, api.EncodeU32(inPtr), api.EncodeU32(n), api.EncodeU32(outPtr)); err != nil {
		return callError(ctx, errors.PhaseConvert, err, engine.FuncConvert)
	}
	return nil
}

// callError classifies a failed guest call. Errors raised by the host kernel
// keep their kind, cancellation is returned as is and anything else the
// guest does is reported as a trap.
func callError(ctx context.Context, phase errors.Phase, err error, fn string) error {
	if kind, ok := errors.KindOf(err); ok {
		return errors.Wrap(phase, kind, err, fn)
	}
	if ctx.Err() != nil {
		return err
	}
	return errors.Wrap(phase, errors.KindTrap, err, fn)
}

// Memory returns the instance's linear memory.
func (i *Instance) Memory() api.Memory {
	return i.mod.Memory()
}

// Arena returns the arena backing the built-in kernel's memory, or nil for
// loaded kernels.
func (i *Instance) Arena() *arena.Arena {
	return i.arena
}

// WriteFloat32s stores samples little-endian at ptr.
func (i *Instance) WriteFloat32s(ptr uint32, samples []float32) error {
	buf := make([]byte, len(samples)*4)
	for j, v := range samples {
		binary.LittleEndian.PutUint32(buf[j*4:], math.Float32bits(v))
	}
	mem := i.mod.Memory()
	if !mem.Write(ptr, buf) {
		return errors.OutOfBounds(errors.PhaseMemory, uint64(ptr), uint64(len(buf)), mem.Size())
	}
	return nil
}

// ReadBytes returns a copy of n bytes at ptr.
func (i *Instance) ReadBytes(ptr, n uint32) ([]byte, error) {
	mem := i.mod.Memory()
	view, ok := mem.Read(ptr, n)
	if !ok {
		return nil, errors.OutOfBounds(errors.PhaseMemory, uint64(ptr), uint64(n), mem.Size())
	}
	out := make([]byte, n)
	copy(out, view)
	return out, nil
}

// ConvertSamples runs samples through the kernel and returns the encoded
// bytes. Blocks are reused across calls and only reallocated when a larger
// batch arrives, since the kernel never frees.
func (i *Instance) ConvertSamples(ctx context.Context, samples []float32) ([]byte, error) {
	if len(samples) == 0 {
		return []byte{}, nil
	}
	if uint64(len(samples)) > math.MaxUint32 {
		return nil, errors.Overflow(errors.PhaseConvert, len(samples), "u32")
	}
	n := uint32(len(samples))

	if n > i.scratchCap {
		in, err := i.AllocF32(ctx, n)
		if err != nil {
			return nil, err
		}
		out, err := i.AllocU8(ctx, n)
		if err != nil {
			return nil, err
		}
		i.scratchIn, i.scratchOut, i.scratchCap = in, out, n
	}

	if err := i.WriteFloat32s(i.scratchIn, samples); err != nil {
		return nil, err
	}
	if err := i.Convert(ctx, i.scratchIn, n, i.scratchOut); err != nil {
		return nil, err
	}
	return i.ReadBytes(i.scratchOut, n)
}

// Close closes the instance and drops its allocator state.
func (i *Instance) Close(ctx context.Context) error {
	i.runtime.engine.Host().Forget(i.mod.Name())
	return i.mod.Close(ctx)
}
