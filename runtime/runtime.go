package runtime

import (
	"context"
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
	"github.com/tetratelabs/wazero/experimental"
	"go.uber.org/zap"

	"github.com/wippyai/linear-srgb/arena"
	"github.com/wippyai/linear-srgb/engine"
	"github.com/wippyai/linear-srgb/errors"
	"github.com/wippyai/linear-srgb/internal/wasm"
)

const (
	// StartInitialize is the reactor initializer exported by c-shared
	// wasip1 builds. It runs before any kernel export is called.
	StartInitialize = "_initialize"

	instancePrefix = "linear_srgb_instance_"
	kernelPrefix   = "linear_srgb_kernel_"
)

// Runtime owns a wazero engine with the linear_srgb host module registered.
type Runtime struct {
	engine *engine.Engine
	cfg    config

	shimOnce sync.Once
	shim     wazero.CompiledModule
	shimErr  error

	seq atomic.Uint64
}

// New creates a runtime.
func New(ctx context.Context, opts ...Option) (*Runtime, error) {
	var cfg config
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.logger != nil {
		engine.SetLogger(cfg.logger)
		arena.SetLogger(cfg.logger)
	}

	eng, err := engine.NewEngineWithConfig(ctx, &engine.Config{MemoryLimitPages: cfg.memoryLimitPages})
	if err != nil {
		return nil, errors.Load("create engine", err)
	}

	if cfg.wasi {
		if err := eng.EnsureWASI(ctx); err != nil {
			_ = eng.Close(ctx)
			return nil, errors.Load("instantiate WASI", err)
		}
	}

	return &Runtime{engine: eng, cfg: cfg}, nil
}

// Close releases all runtime resources, closing every instance.
func (r *Runtime) Close(ctx context.Context) error {
	return r.engine.Close(ctx)
}

// Engine returns the underlying engine.
func (r *Runtime) Engine() *engine.Engine {
	return r.engine
}

// NewInstance creates an instance of the built-in kernel. Its linear memory
// is backed by an arena.Arena, so the host sees the same bytes the guest
// does without copying.
func (r *Runtime) NewInstance(ctx context.Context) (*Instance, error) {
	compiled, err := r.compileShim(ctx)
	if err != nil {
		return nil, err
	}

	a := arena.New(0, r.cfg.memoryLimitPages)
	name := r.nextName(instancePrefix)
	cfg := wazero.NewModuleConfig().WithName(name).WithStartFunctions()

	mod, err := r.engine.Instantiate(experimental.WithMemoryAllocator(ctx, a), compiled, cfg)
	if err != nil {
		return nil, errors.Instantiation(err)
	}
	return newInstance(r, mod, a)
}

// compileShim builds and compiles the forwarding module once per runtime.
func (r *Runtime) compileShim(ctx context.Context) (wazero.CompiledModule, error) {
	r.shimOnce.Do(func() {
		b := wasm.NewSynthModuleBuilder(engine.HostModuleName)
		b.SetMemory(engine.MemoryExport, 1)
		if r.cfg.memoryLimitPages > 0 {
			b.SetMemoryMax(r.cfg.memoryLimitPages)
		}
		for _, sig := range engine.Signatures() {
			b.AddFunc(sig.Name, sig.Params, sig.Results)
		}

		compiled, err := r.engine.Compile(ctx, b.Build())
		if err != nil {
			r.shimErr = errors.Load("compile kernel shim", err)
			return
		}
		r.shim = compiled
	})
	return r.shim, r.shimErr
}

// LoadKernel compiles an external module exporting the kernel ABI, such as
// the wasip1 build of cmd/srgb-wasm.
func (r *Runtime) LoadKernel(ctx context.Context, wasmBytes []byte) (*Module, error) {
	compiled, err := r.engine.Compile(ctx, wasmBytes)
	if err != nil {
		return nil, errors.Load("compile kernel", err)
	}

	if err := checkExports(compiled); err != nil {
		_ = compiled.Close(ctx)
		return nil, err
	}

	for _, def := range compiled.ImportedFunctions() {
		if mod, _, _ := def.Import(); mod == engine.WASIModuleName {
			if err := r.engine.EnsureWASI(ctx); err != nil {
				_ = compiled.Close(ctx)
				return nil, errors.Load("instantiate WASI", err)
			}
			break
		}
	}

	_, initialize := compiled.ExportedFunctions()[StartInitialize]
	engine.Logger().Debug("loaded kernel",
		zap.Int("bytes", len(wasmBytes)),
		zap.Bool("reactor", initialize))

	return &Module{
		runtime:    r,
		compiled:   compiled,
		initialize: initialize,
	}, nil
}

// checkExports verifies that compiled exports the kernel functions with the
// expected signatures, plus a memory.
func checkExports(compiled wazero.CompiledModule) error {
	funcs := compiled.ExportedFunctions()
	for _, sig := range engine.Signatures() {
		def, ok := funcs[sig.Name]
		if !ok {
			return errors.NotFound(errors.PhaseLoad, "export", sig.Name)
		}
		if !sameTypes(def.ParamTypes(), sig.Params) || !sameTypes(def.ResultTypes(), sig.Results) {
			return errors.New(errors.PhaseLoad, errors.KindInvalidData).
				Value(sig.Name).
				Detail("export %q has signature %v -> %v, want %v -> %v",
					sig.Name, def.ParamTypes(), def.ResultTypes(), sig.Params, sig.Results).
				Build()
		}
	}
	if _, ok := compiled.ExportedMemories()[engine.MemoryExport]; !ok {
		return errors.NotFound(errors.PhaseLoad, "export", engine.MemoryExport)
	}
	return nil
}

func sameTypes(a, b []api.ValueType) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func (r *Runtime) nextName(prefix string) string {
	return prefix + strconv.FormatUint(r.seq.Add(1), 10)
}
