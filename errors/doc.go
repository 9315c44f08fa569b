// Package errors provides structured error types for gsi-script.
//
// Errors are categorized by Phase (which pipeline stage failed) and Kind (fault category).
// Every fault is fatal to the file being processed; callers decide whether to move on
// to the next file.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.PhaseRebuild, errors.KindLineBreakOverflow).
//		Path("record 0012").
//		Value(4).
//		Detail("4 line breaks, at most 3 allowed").
//		Build()
//
// Or use convenience constructors for the common faults:
//
//	err := errors.UnknownOpcode(addr, 0x7F)
//	err := errors.MissingJumpTarget(addr, target)
//
// All errors implement the standard error interface and support errors.Is/As.
// The Err* sentinels match on Kind alone:
//
//	if errors.Is(err, gserrors.ErrMissingJumpTarget) { ... }
package errors
