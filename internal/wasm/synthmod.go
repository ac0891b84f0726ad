package wasm

import (
	"github.com/tetratelabs/wazero/api"
)

const (
	sectionType     = 0x01
	sectionImport   = 0x02
	sectionFunction = 0x03
	sectionMemory   = 0x05
	sectionExport   = 0x07
	sectionCode     = 0x0a

	externFunc   = 0x00
	externMemory = 0x02

	opLocalGet = 0x20
	opCall     = 0x10
	opEnd      = 0x0b
)

// SynthModuleBuilder builds a module that defines its own memory and
// forwards a set of exported functions to host imports.
type SynthModuleBuilder struct {
	hostModuleName   string
	memoryExportName string
	funcs            []synthFunc
	memoryMinPages   uint32
	memoryMaxPages   uint32
	hasMemoryMax     bool
}

type synthFunc struct {
	name        string
	paramTypes  []api.ValueType
	resultTypes []api.ValueType
}

// NewSynthModuleBuilder creates a builder importing from hostModuleName.
func NewSynthModuleBuilder(hostModuleName string) *SynthModuleBuilder {
	return &SynthModuleBuilder{
		hostModuleName: hostModuleName,
	}
}

// AddFunc adds a function to import and re-export under the same name.
func (b *SynthModuleBuilder) AddFunc(name string, params, results []api.ValueType) {
	b.funcs = append(b.funcs, synthFunc{
		name:        name,
		paramTypes:  params,
		resultTypes: results,
	})
}

// SetMemory defines a memory of minPages pages exported as exportName.
func (b *SynthModuleBuilder) SetMemory(exportName string, minPages uint32) {
	b.memoryExportName = exportName
	b.memoryMinPages = minPages
}

// SetMemoryMax caps the defined memory at maxPages pages.
func (b *SynthModuleBuilder) SetMemoryMax(maxPages uint32) {
	b.memoryMaxPages = maxPages
	b.hasMemoryMax = true
}

// HasMemory returns true if a memory is defined.
func (b *SynthModuleBuilder) HasMemory() bool {
	return b.memoryExportName != ""
}

// Build generates the WASM module bytes.
func (b *SynthModuleBuilder) Build() []byte {
	if len(b.funcs) == 0 && !b.HasMemory() {
		return nil
	}

	hasFuncs := len(b.funcs) > 0
	var wasm []byte

	// Magic and version
	wasm = append(wasm, 0x00, 0x61, 0x73, 0x6d)
	wasm = append(wasm, 0x01, 0x00, 0x00, 0x00)

	if hasFuncs {
		wasm = appendSection(wasm, sectionType, b.buildTypeSection())
		wasm = appendSection(wasm, sectionImport, b.buildImportSection())
		wasm = appendSection(wasm, sectionFunction, b.buildFuncSection())
	}
	if b.HasMemory() {
		wasm = appendSection(wasm, sectionMemory, b.buildMemorySection())
	}
	wasm = appendSection(wasm, sectionExport, b.buildExportSection())
	if hasFuncs {
		wasm = appendSection(wasm, sectionCode, b.buildCodeSection())
	}

	return wasm
}

// buildTypeSection emits one signature per function, in function order.
func (b *SynthModuleBuilder) buildTypeSection() []byte {
	var section []byte
	section = append(section, EncodeULEB128(uint32(len(b.funcs)))...)

	for _, f := range b.funcs {
		section = append(section, 0x60)
		section = append(section, EncodeULEB128(uint32(len(f.paramTypes)))...)
		for _, t := range f.paramTypes {
			section = append(section, ValTypeToWasm(t))
		}
		section = append(section, EncodeULEB128(uint32(len(f.resultTypes)))...)
		for _, t := range f.resultTypes {
			section = append(section, ValTypeToWasm(t))
		}
	}

	return section
}

func (b *SynthModuleBuilder) buildImportSection() []byte {
	var section []byte
	section = append(section, EncodeULEB128(uint32(len(b.funcs)))...)

	for i, f := range b.funcs {
		section = appendName(section, b.hostModuleName)
		section = appendName(section, f.name)
		section = append(section, externFunc)
		section = append(section, EncodeULEB128(uint32(i))...)
	}

	return section
}

func (b *SynthModuleBuilder) buildFuncSection() []byte {
	var section []byte
	section = append(section, EncodeULEB128(uint32(len(b.funcs)))...)
	for i := range b.funcs {
		section = append(section, EncodeULEB128(uint32(i))...)
	}
	return section
}

func (b *SynthModuleBuilder) buildMemorySection() []byte {
	var section []byte
	section = append(section, 0x01)
	if b.hasMemoryMax {
		section = append(section, 0x01)
		section = append(section, EncodeULEB128(b.memoryMinPages)...)
		section = append(section, EncodeULEB128(b.memoryMaxPages)...)
	} else {
		section = append(section, 0x00)
		section = append(section, EncodeULEB128(b.memoryMinPages)...)
	}
	return section
}

func (b *SynthModuleBuilder) buildExportSection() []byte {
	var section []byte

	numExports := len(b.funcs)
	if b.HasMemory() {
		numExports++
	}
	section = append(section, EncodeULEB128(uint32(numExports))...)

	if b.HasMemory() {
		section = appendName(section, b.memoryExportName)
		section = append(section, externMemory)
		section = append(section, 0x00)
	}

	// Defined functions follow the imports in the function index space.
	numImports := len(b.funcs)
	for i, f := range b.funcs {
		section = appendName(section, f.name)
		section = append(section, externFunc)
		section = append(section, EncodeULEB128(uint32(numImports+i))...)
	}

	return section
}

func (b *SynthModuleBuilder) buildCodeSection() []byte {
	var section []byte
	section = append(section, EncodeULEB128(uint32(len(b.funcs)))...)

	for i, f := range b.funcs {
		funcBody := b.buildFuncBody(i, f)
		section = append(section, EncodeULEB128(uint32(len(funcBody)))...)
		section = append(section, funcBody...)
	}

	return section
}

// buildFuncBody forwards every parameter to the import at importIdx.
func (b *SynthModuleBuilder) buildFuncBody(importIdx int, f synthFunc) []byte {
	var body []byte
	body = append(body, 0x00) // no locals

	for i := range f.paramTypes {
		body = append(body, opLocalGet)
		body = append(body, EncodeULEB128(uint32(i))...)
	}

	body = append(body, opCall)
	body = append(body, EncodeULEB128(uint32(importIdx))...)
	body = append(body, opEnd)

	return body
}
