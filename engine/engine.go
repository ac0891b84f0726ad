package engine

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
)

// Engine owns a wazero runtime with the linear_srgb host module registered.
type Engine struct {
	runtime      wazero.Runtime
	host         *HostModule
	wasiInitMu   sync.Mutex
	wasiInitDone atomic.Bool
}

// Config holds configuration for engine creation
type Config struct {
	// MemoryLimitPages sets the maximum memory per instance in pages (64KB each).
	// 0 means default (65536 pages = 4GB).
	// 256 = 16MB, 1024 = 64MB, 4096 = 256MB
	MemoryLimitPages uint32
}

// NewEngine creates a new wazero-based engine
func NewEngine(ctx context.Context) (*Engine, error) {
	return NewEngineWithConfig(ctx, nil)
}

// NewEngineWithConfig creates a new engine with custom configuration
func NewEngineWithConfig(ctx context.Context, cfg *Config) (*Engine, error) {
	runtimeCfg := wazero.NewRuntimeConfig()
	if cfg != nil && cfg.MemoryLimitPages > 0 {
		runtimeCfg = runtimeCfg.WithMemoryLimitPages(cfg.MemoryLimitPages)
	}

	runtime := wazero.NewRuntimeWithConfig(ctx, runtimeCfg)
	host := NewHostModule()
	if _, err := host.Instantiate(ctx, runtime); err != nil {
		_ = runtime.Close(ctx)
		return nil, err
	}

	return &Engine{runtime: runtime, host: host}, nil
}

// Runtime returns the underlying wazero runtime.
func (e *Engine) Runtime() wazero.Runtime {
	return e.runtime
}

// Host returns the registered host module.
func (e *Engine) Host() *HostModule {
	return e.host
}

// EnsureWASI instantiates WASI preview1 once per engine.
func (e *Engine) EnsureWASI(ctx context.Context) error {
	if e.wasiInitDone.Load() {
		return nil
	}

	e.wasiInitMu.Lock()
	defer e.wasiInitMu.Unlock()

	if e.wasiInitDone.Load() {
		return nil
	}

	if e.runtime.Module(WASIModuleName) == nil {
		if _, err := InstantiateWASI(ctx, e.runtime); err != nil {
			return fmt.Errorf("instantiate WASI: %w", err)
		}
	}

	e.wasiInitDone.Store(true)
	return nil
}

// Compile compiles a core module.
func (e *Engine) Compile(ctx context.Context, wasmBytes []byte) (wazero.CompiledModule, error) {
	compiled, err := e.runtime.CompileModule(ctx, wasmBytes)
	if err != nil {
		return nil, fmt.Errorf("compile failed: %w", err)
	}
	return compiled, nil
}

// Instantiate instantiates a compiled module under the given configuration.
func (e *Engine) Instantiate(ctx context.Context, compiled wazero.CompiledModule, cfg wazero.ModuleConfig) (api.Module, error) {
	mod, err := e.runtime.InstantiateModule(ctx, compiled, cfg)
	if err != nil {
		return nil, fmt.Errorf("instantiate failed: %w", err)
	}
	debugf("instantiated %s", mod.Name())
	return mod, nil
}

// Close closes the runtime and every module in it.
func (e *Engine) Close(ctx context.Context) error {
	return e.runtime.Close(ctx)
}
