package wasm

import (
	"bytes"
	"context"
	"testing"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
)

var testMagicVersion = []byte{0x00, 0x61, 0x73, 0x6d, 0x01, 0x00, 0x00, 0x00}

func TestEncodeULEB128(t *testing.T) {
	tests := []struct {
		input    uint32
		expected []byte
	}{
		{0, []byte{0x00}},
		{1, []byte{0x01}},
		{127, []byte{0x7f}},
		{128, []byte{0x80, 0x01}},
		{300, []byte{0xac, 0x02}},
		{0xFFFFFFFF, []byte{0xff, 0xff, 0xff, 0xff, 0x0f}},
	}

	for _, tc := range tests {
		if got := EncodeULEB128(tc.input); !bytes.Equal(got, tc.expected) {
			t.Errorf("EncodeULEB128(%d) = %x, want %x", tc.input, got, tc.expected)
		}
	}
}

func TestValTypeToWasm_AllTypes(t *testing.T) {
	tests := []struct {
		input    api.ValueType
		expected byte
	}{
		{api.ValueTypeI32, 0x7f},
		{api.ValueTypeI64, 0x7e},
		{api.ValueTypeF32, 0x7d},
		{api.ValueTypeF64, 0x7c},
	}

	for _, tc := range tests {
		result := ValTypeToWasm(tc.input)
		if result != tc.expected {
			t.Errorf("ValTypeToWasm(%v) = 0x%02x, want 0x%02x", tc.input, result, tc.expected)
		}
	}
}

func TestSynthModuleBuilder_Empty(t *testing.T) {
	if NewSynthModuleBuilder("host").Build() != nil {
		t.Error("empty builder should produce nil")
	}
}

func TestSynthModuleBuilder_MemoryOnly(t *testing.T) {
	b := NewSynthModuleBuilder("host")
	b.SetMemory("memory", 2)

	bin := b.Build()
	if !bytes.HasPrefix(bin, testMagicVersion) {
		t.Fatal("expected valid WASM header")
	}

	ctx := context.Background()
	rt := wazero.NewRuntime(ctx)
	defer rt.Close(ctx)

	mod, err := rt.Instantiate(ctx, bin)
	if err != nil {
		t.Fatalf("instantiate: %v", err)
	}
	defer mod.Close(ctx)

	mem := mod.ExportedMemory("memory")
	if mem == nil {
		t.Fatal("expected memory export")
	}
	if mem.Size() != 2*65536 {
		t.Errorf("memory size = %d, want %d", mem.Size(), 2*65536)
	}
}

func TestSynthModuleBuilder_MemoryMax(t *testing.T) {
	b := NewSynthModuleBuilder("host")
	b.SetMemory("memory", 1)
	b.SetMemoryMax(2)

	ctx := context.Background()
	rt := wazero.NewRuntime(ctx)
	defer rt.Close(ctx)

	mod, err := rt.Instantiate(ctx, b.Build())
	if err != nil {
		t.Fatalf("instantiate: %v", err)
	}
	defer mod.Close(ctx)

	mem := mod.ExportedMemory("memory")
	if _, ok := mem.Grow(1); !ok {
		t.Error("grow within max should succeed")
	}
	if _, ok := mem.Grow(1); ok {
		t.Error("grow past max should fail")
	}
}

func TestSynthModuleBuilder_ForwardsToHost(t *testing.T) {
	ctx := context.Background()
	rt := wazero.NewRuntime(ctx)
	defer rt.Close(ctx)

	var callerMemSize uint32
	_, err := rt.NewHostModuleBuilder("host").
		NewFunctionBuilder().
		WithGoModuleFunction(api.GoModuleFunc(func(_ context.Context, mod api.Module, stack []uint64) {
			callerMemSize = mod.Memory().Size()
			stack[0] = api.EncodeU32(api.DecodeU32(stack[0]) + api.DecodeU32(stack[1]))
		}), []api.ValueType{api.ValueTypeI32, api.ValueTypeI32}, []api.ValueType{api.ValueTypeI32}).
		Export("add").
		NewFunctionBuilder().
		WithGoModuleFunction(api.GoModuleFunc(func(_ context.Context, mod api.Module, stack []uint64) {
			mod.Memory().WriteByte(api.DecodeU32(stack[0]), 0x5a)
		}), []api.ValueType{api.ValueTypeI32}, nil).
		Export("poke").
		Instantiate(ctx)
	if err != nil {
		t.Fatalf("failed to create host module: %v", err)
	}

	b := NewSynthModuleBuilder("host")
	b.SetMemory("memory", 1)
	b.AddFunc("add", []api.ValueType{api.ValueTypeI32, api.ValueTypeI32}, []api.ValueType{api.ValueTypeI32})
	b.AddFunc("poke", []api.ValueType{api.ValueTypeI32}, nil)

	compiled, err := rt.CompileModule(ctx, b.Build())
	if err != nil {
		t.Fatalf("failed to compile synthetic module: %v", err)
	}
	defer compiled.Close(ctx)

	mod, err := rt.InstantiateModule(ctx, compiled, wazero.NewModuleConfig().WithName("synth"))
	if err != nil {
		t.Fatalf("failed to instantiate: %v", err)
	}
	defer mod.Close(ctx)

	results, err := mod.ExportedFunction("add").Call(ctx, 40, 2)
	if err != nil {
		t.Fatalf("call add: %v", err)
	}
	if results[0] != 42 {
		t.Errorf("add(40, 2) = %d, want 42", results[0])
	}
	if callerMemSize != 65536 {
		t.Errorf("host saw caller memory of %d bytes, want 65536", callerMemSize)
	}

	if _, err := mod.ExportedFunction("poke").Call(ctx, 100); err != nil {
		t.Fatalf("call poke: %v", err)
	}
	if v, _ := mod.Memory().ReadByte(100); v != 0x5a {
		t.Errorf("memory[100] = 0x%02x, want 0x5a", v)
	}
}
