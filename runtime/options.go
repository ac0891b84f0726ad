package runtime

import "go.uber.org/zap"

type config struct {
	logger           *zap.Logger
	memoryLimitPages uint32
	wasi             bool
}

// Option configures a Runtime.
type Option func(*config)

// WithMemoryLimitPages caps every instance's memory at pages 64 KiB pages.
// 0 means the 4 GiB addressing limit.
func WithMemoryLimitPages(pages uint32) Option {
	return func(c *config) {
		c.memoryLimitPages = pages
	}
}

// WithWASI instantiates WASI preview1 up front. Kernels that import it get
// it on load regardless.
func WithWASI() Option {
	return func(c *config) {
		c.wasi = true
	}
}

// WithLogger sets the logger of the engine and arena packages.
func WithLogger(l *zap.Logger) Option {
	return func(c *config) {
		c.logger = l
	}
}
