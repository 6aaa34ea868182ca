// Package errors provides structured error types for the callconv library.
//
// Errors are categorized by Phase (where the error occurred) and Kind (error
// category). The Error type carries the architecture and convention names
// involved, a field path, and a cause chain.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseDispatch, errors.KindUnsupportedArch).
//		Arch("m68k").
//		Conv("C").
//		Detail("no rule module registered").
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.UnsupportedArch("m68k", "C")
//	err := errors.InvalidConvention("Pascal")
//
// All errors implement the standard error interface and support errors.Is/As.
//
// Only recoverable conditions are expressed this way: an unknown
// architecture, an unparsable convention or target description. Contract
// violations inside the classifier (malformed mode transitions, bad register
// widths) panic instead; they indicate bugs, not inputs.
package errors
