// Package engine wires the conversion kernel into wazero.
//
// # Architecture
//
// The engine package provides three main types:
//
//	Engine      - Creates and manages a wazero runtime
//	HostModule  - The linear_srgb host module imported by guests
//	Wrapper     - Adapts api.Memory to linearsrgb.LinearMemory
//
// # Host ABI
//
// Guests import the following functions from the "linear_srgb" module:
//
//	Function    Params            Results
//	───────────────────────────────────────
//	convert     ptr, len, out     -
//	alloc_f32   len               ptr
//	alloc_u8    len               ptr
//
// Every call operates on the calling module's memory. Allocator state is
// tracked per calling module name; call Forget when a guest closes.
//
// # Traps
//
// The raw ABI has no error channel. A failed conversion or allocation panics
// inside the host function, which wazero surfaces as a trap to the guest and
// as an error to the Go caller of the guest export.
package engine
