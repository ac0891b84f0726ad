package runtime

import (
	"context"

	"github.com/tetratelabs/wazero"

	"github.com/wippyai/linear-srgb/errors"
)

// Module is a compiled external kernel.
type Module struct {
	runtime    *Runtime
	compiled   wazero.CompiledModule
	initialize bool
}

// Instantiate creates an instance of the kernel. Reactors run _initialize
// first; nothing else is started.
func (m *Module) Instantiate(ctx context.Context) (*Instance, error) {
	cfg := wazero.NewModuleConfig().WithName(m.runtime.nextName(kernelPrefix))
	if m.initialize {
		cfg = cfg.WithStartFunctions(StartInitialize)
	} else {
		cfg = cfg.WithStartFunctions()
	}

	mod, err := m.runtime.engine.Instantiate(ctx, m.compiled, cfg)
	if err != nil {
		return nil, errors.Instantiation(err)
	}
	return newInstance(m.runtime, mod, nil)
}

// Export is an exported name of the module.
type Export struct {
	Name string
}

// Exports lists the exported functions of the module.
func (m *Module) Exports() []Export {
	defs := m.compiled.ExportedFunctions()
	exports := make([]Export, 0, len(defs))
	for name := range defs {
		exports = append(exports, Export{Name: name})
	}
	return exports
}

// Close releases the compiled module. Instances stay usable.
func (m *Module) Close(ctx context.Context) error {
	return m.compiled.Close(ctx)
}
