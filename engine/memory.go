package engine

import (
	"github.com/tetratelabs/wazero/api"

	linearsrgb "github.com/wippyai/linear-srgb"
	"github.com/wippyai/linear-srgb/errors"
)

// WrapMemory wraps a wazero api.Memory to implement linearsrgb.LinearMemory.
func WrapMemory(mem api.Memory) linearsrgb.LinearMemory {
	if mem == nil {
		return nil
	}
	return &Wrapper{Mem: mem}
}

// Wrapper adapts wazero api.Memory to the linearsrgb.LinearMemory interface.
type Wrapper struct {
	Mem api.Memory
}

// Read returns a view of length bytes at offset.
func (m *Wrapper) Read(offset uint32, length uint32) ([]byte, error) {
	data, ok := m.Mem.Read(offset, length)
	if !ok {
		return nil, errors.OutOfBounds(errors.PhaseMemory, uint64(offset), uint64(length), m.Mem.Size())
	}
	return data, nil
}

// Write writes bytes to memory.
func (m *Wrapper) Write(offset uint32, data []byte) error {
	if !m.Mem.Write(offset, data) {
		return errors.OutOfBounds(errors.PhaseMemory, uint64(offset), uint64(len(data)), m.Mem.Size())
	}
	return nil
}

// Size returns the memory size in bytes.
func (m *Wrapper) Size() uint32 {
	return m.Mem.Size()
}

// Grow grows memory by deltaPages and returns the previous size in pages.
func (m *Wrapper) Grow(deltaPages uint32) (uint32, error) {
	prev, ok := m.Mem.Grow(deltaPages)
	if !ok {
		return 0, errors.New(errors.PhaseMemory, errors.KindAllocation).
			Value(deltaPages).
			Detail("memory.grow by %d pages failed at %d bytes", deltaPages, m.Mem.Size()).
			Build()
	}
	return prev, nil
}
