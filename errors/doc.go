// Package errors provides structured error types for the linear-srgb library.
//
// Errors are categorized by Phase (where the error occurred) and Kind (error category).
// The Error type carries the offending value, a detail message and a cause chain.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseConvert, errors.KindLengthMismatch).
//		Value(n).
//		Detail("input has %d samples, output has %d", len(in), len(out)).
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.OutOfBounds(errors.PhaseMemory, offset, length, size)
//	err := errors.AllocationFailed(errors.PhaseAlloc, size, align)
//
// All errors implement the standard error interface and support errors.Is/As.
package errors
