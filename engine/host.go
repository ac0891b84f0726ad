package engine

import (
	"context"
	"sync"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
	"go.uber.org/zap"

	"github.com/wippyai/linear-srgb/errors"
	"github.com/wippyai/linear-srgb/kernel"
)

// HostModuleName is the module name guests import the kernel from.
const HostModuleName = "linear_srgb"

// Exported function names, shared by the host module and kernel guests.
const (
	FuncConvert  = "convert"
	FuncAllocF32 = "alloc_f32"
	FuncAllocU8  = "alloc_u8"
	MemoryExport = "memory"
)

var (
	i32 = api.ValueTypeI32

	convertParams = []api.ValueType{i32, i32, i32}
	allocParams   = []api.ValueType{i32}
	allocResults  = []api.ValueType{i32}
)

// Signature describes one host function of the kernel ABI.
type Signature struct {
	Name    string
	Params  []api.ValueType
	Results []api.ValueType
}

// Signatures lists the kernel ABI functions in import order.
func Signatures() []Signature {
	return []Signature{
		{Name: FuncConvert, Params: convertParams},
		{Name: FuncAllocF32, Params: allocParams, Results: allocResults},
		{Name: FuncAllocU8, Params: allocParams, Results: allocResults},
	}
}

// HostModule implements the linear_srgb host functions. Kernels are created
// lazily per calling module and bound to its memory.
type HostModule struct {
	kernels map[string]boundKernel
	mu      sync.Mutex
}

// boundKernel remembers the memory a kernel was created over, so a module
// that reuses a closed module's name is not handed the old allocator.
type boundKernel struct {
	mem api.Memory
	k   *kernel.Kernel
}

// NewHostModule creates a host module with no bound callers.
func NewHostModule() *HostModule {
	return &HostModule{
		kernels: make(map[string]boundKernel),
	}
}

// Instantiate registers the host functions in r.
func (h *HostModule) Instantiate(ctx context.Context, r wazero.Runtime) (api.Module, error) {
	builder := r.NewHostModuleBuilder(HostModuleName)

	builder.NewFunctionBuilder().
		WithGoModuleFunction(api.GoModuleFunc(h.convert), convertParams, nil).
		WithParameterNames("ptr", "len", "output_ptr").
		Export(FuncConvert)

	builder.NewFunctionBuilder().
		WithGoModuleFunction(api.GoModuleFunc(h.allocF32), allocParams, allocResults).
		WithParameterNames("size").
		Export(FuncAllocF32)

	builder.NewFunctionBuilder().
		WithGoModuleFunction(api.GoModuleFunc(h.allocU8), allocParams, allocResults).
		WithParameterNames("size").
		Export(FuncAllocU8)

	mod, err := builder.Instantiate(ctx)
	if err != nil {
		return nil, errors.Registration(HostModuleName, "*", err)
	}
	return mod, nil
}

// Kernel returns the kernel bound to mod's memory, creating it on first use.
func (h *HostModule) Kernel(mod api.Module) (*kernel.Kernel, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	name := mod.Name()
	mem := mod.Memory()
	if mem == nil {
		delete(h.kernels, name)
		return nil, errors.NotFound(errors.PhaseHost, "memory of module", name)
	}
	if b, ok := h.kernels[name]; ok {
		if b.mem == mem {
			return b.k, nil
		}
		Logger().Debug("rebinding kernel", zap.String("module", name))
	}

	k := kernel.New(WrapMemory(mem))
	h.kernels[name] = boundKernel{mem: mem, k: k}
	Logger().Debug("bound kernel", zap.String("module", name), zap.Uint32("memory_bytes", mem.Size()))
	return k, nil
}

// Forget drops the kernel bound to the named module.
func (h *HostModule) Forget(name string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.kernels, name)
}

func (h *HostModule) mustKernel(mod api.Module) *kernel.Kernel {
	k, err := h.Kernel(mod)
	if err != nil {
		panic(err)
	}
	return k
}

func (h *HostModule) convert(_ context.Context, mod api.Module, stack []uint64) {
	ptr := api.DecodeU32(stack[0])
	n := api.DecodeU32(stack[1])
	out := api.DecodeU32(stack[2])

	if err := h.mustKernel(mod).Convert(ptr, n, out); err != nil {
		Logger().Debug("convert trapped", zap.String("module", mod.Name()), zap.Error(err))
		panic(err)
	}
	debugf("convert ptr=%d len=%d out=%d", ptr, n, out)
}

func (h *HostModule) allocF32(_ context.Context, mod api.Module, stack []uint64) {
	n := api.DecodeU32(stack[0])
	ptr, err := h.mustKernel(mod).AllocF32(n)
	if err != nil {
		Logger().Debug("alloc_f32 trapped", zap.String("module", mod.Name()), zap.Error(err))
		panic(err)
	}
	stack[0] = api.EncodeU32(ptr)
}

func (h *HostModule) allocU8(_ context.Context, mod api.Module, stack []uint64) {
	n := api.DecodeU32(stack[0])
	ptr, err := h.mustKernel(mod).AllocU8(n)
	if err != nil {
		Logger().Debug("alloc_u8 trapped", zap.String("module", mod.Name()), zap.Error(err))
		panic(err)
	}
	stack[0] = api.EncodeU32(ptr)
}
