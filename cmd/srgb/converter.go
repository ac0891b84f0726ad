package main

import (
	"context"
	"encoding/binary"
	"fmt"
	"math"
	"os"

	"go.uber.org/zap"

	"github.com/wippyai/linear-srgb/arena"
	"github.com/wippyai/linear-srgb/kernel"
	"github.com/wippyai/linear-srgb/runtime"
)

const (
	engineNative = "native"
	engineWasm   = "wasm"
)

// converter runs samples through one of the kernel implementations.
type converter interface {
	Name() string
	Convert(ctx context.Context, samples []float32) ([]byte, error)
	Close(ctx context.Context) error
}

func newConverter(ctx context.Context, opts options, logger *zap.Logger) (converter, error) {
	name := opts.engine
	if opts.kernelFile != "" {
		name = engineWasm
	}

	switch name {
	case engineNative:
		arena.SetLogger(logger)
		return newNativeConverter(), nil
	case engineWasm:
		return newWasmConverter(ctx, opts.kernelFile, logger)
	}
	return nil, fmt.Errorf("unknown engine %q (want %s or %s)", name, engineNative, engineWasm)
}

// nativeConverter drives the kernel directly over a Go-owned arena.
type nativeConverter struct {
	k *kernel.Kernel

	in, out uint32
	cap     uint32
}

func newNativeConverter() *nativeConverter {
	return &nativeConverter{k: kernel.New(arena.New(0, 0))}
}

func (c *nativeConverter) Name() string { return engineNative }

func (c *nativeConverter) Convert(_ context.Context, samples []float32) ([]byte, error) {
	if uint64(len(samples)) > math.MaxUint32 {
		return nil, fmt.Errorf("%d samples exceed the 32-bit address space", len(samples))
	}
	n := uint32(len(samples))
	if n > c.cap {
		in, err := c.k.AllocF32(n)
		if err != nil {
			return nil, err
		}
		out, err := c.k.AllocU8(n)
		if err != nil {
			return nil, err
		}
		c.in, c.out, c.cap = in, out, n
	}

	buf := make([]byte, len(samples)*4)
	for i, v := range samples {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(v))
	}
	mem := c.k.Memory()
	if err := mem.Write(c.in, buf); err != nil {
		return nil, err
	}
	if err := c.k.Convert(c.in, n, c.out); err != nil {
		return nil, err
	}
	view, err := mem.Read(c.out, n)
	if err != nil {
		return nil, err
	}
	return append([]byte(nil), view...), nil
}

func (c *nativeConverter) Close(context.Context) error { return nil }

// wasmConverter runs the kernel as a wazero instance: the built-in one, or
// an external module when a kernel file is given.
type wasmConverter struct {
	rt   *runtime.Runtime
	inst *runtime.Instance
}

func newWasmConverter(ctx context.Context, kernelFile string, logger *zap.Logger) (*wasmConverter, error) {
	rt, err := runtime.New(ctx, runtime.WithLogger(logger))
	if err != nil {
		return nil, fmt.Errorf("create runtime: %w", err)
	}

	var inst *runtime.Instance
	if kernelFile == "" {
		inst, err = rt.NewInstance(ctx)
	} else {
		inst, err = loadKernelFile(ctx, rt, kernelFile)
	}
	if err != nil {
		rt.Close(ctx)
		return nil, err
	}
	return &wasmConverter{rt: rt, inst: inst}, nil
}

func loadKernelFile(ctx context.Context, rt *runtime.Runtime, path string) (*runtime.Instance, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read kernel: %w", err)
	}
	mod, err := rt.LoadKernel(ctx, data)
	if err != nil {
		return nil, fmt.Errorf("load kernel: %w", err)
	}
	inst, err := mod.Instantiate(ctx)
	if err != nil {
		return nil, fmt.Errorf("instantiate kernel: %w", err)
	}
	return inst, nil
}

func (c *wasmConverter) Name() string { return engineWasm }

func (c *wasmConverter) Convert(ctx context.Context, samples []float32) ([]byte, error) {
	return c.inst.ConvertSamples(ctx, samples)
}

func (c *wasmConverter) Close(ctx context.Context) error {
	err := c.inst.Close(ctx)
	if rerr := c.rt.Close(ctx); err == nil {
		err = rerr
	}
	return err
}
