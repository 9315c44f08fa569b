package errors

import (
	"fmt"
	"strings"
)

// Phase indicates where in the pipeline the error occurred
type Phase string

const (
	PhaseRead     Phase = "read"     // binary script to instructions
	PhaseExport   Phase = "export"   // blocks to text
	PhaseParse    Phase = "parse"    // translation file parsing
	PhaseRebuild  Phase = "rebuild"  // text substitution
	PhaseSave     Phase = "save"     // flattening and relocation
	PhaseValidate Phase = "validate" // invariant checks
	PhaseConfig   Phase = "config"   // tool configuration
)

// Kind categorizes the error
type Kind string

const (
	KindUnknownOpcode         Kind = "unknown_opcode"
	KindAddressTableMismatch  Kind = "address_table_mismatch"
	KindTextLineup            Kind = "text_lineup"
	KindBlockIndexMismatch    Kind = "block_index_mismatch"
	KindLineBreakOverflow     Kind = "line_break_overflow"
	KindUnknownEscapeSequence Kind = "unknown_escape_sequence"
	KindMissingJumpTarget     Kind = "missing_jump_target"
	KindTruncated             Kind = "truncated"
	KindEncoding              Kind = "encoding"
	KindMalformedRuby         Kind = "malformed_ruby"
	KindDuplicateSpeaker      Kind = "duplicate_speaker"
	KindNotSegmented          Kind = "not_segmented"
	KindInvariant             Kind = "invariant"
	KindInvalidInput          Kind = "invalid_input"
)

// Sentinels for errors.Is checks that do not care about the phase.
var (
	ErrUnknownOpcode         = &Error{Kind: KindUnknownOpcode}
	ErrAddressTableMismatch  = &Error{Kind: KindAddressTableMismatch}
	ErrTextLineup            = &Error{Kind: KindTextLineup}
	ErrBlockIndexMismatch    = &Error{Kind: KindBlockIndexMismatch}
	ErrLineBreakOverflow     = &Error{Kind: KindLineBreakOverflow}
	ErrUnknownEscapeSequence = &Error{Kind: KindUnknownEscapeSequence}
	ErrMissingJumpTarget     = &Error{Kind: KindMissingJumpTarget}
	ErrTruncated             = &Error{Kind: KindTruncated}
)

// Error is the structured error type used throughout the tool
type Error struct {
	Value  any
	Cause  error
	Phase  Phase
	Kind   Kind
	Detail string
	Path   []string
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteByte('[')
	b.WriteString(string(e.Phase))
	b.WriteString("] ")
	b.WriteString(string(e.Kind))

	if len(e.Path) > 0 {
		b.WriteString(" at ")
		b.WriteString(strings.Join(e.Path, "/"))
	}

	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	}

	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}

	return b.String()
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error.
// A target without a phase matches on kind alone.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	if t.Phase != "" && t.Phase != e.Phase {
		return false
	}
	return e.Kind == t.Kind
}

// Builder provides structured error construction
type Builder struct {
	err Error
}

// New creates a new error builder
func New(phase Phase, kind Kind) *Builder {
	return &Builder{
		err: Error{
			Phase: phase,
			Kind:  kind,
		},
	}
}

// Path sets the location path, e.g. block and sector
func (b *Builder) Path(path ...string) *Builder {
	b.err.Path = path
	return b
}

// Value sets the offending value
func (b *Builder) Value(v any) *Builder {
	b.err.Value = v
	return b
}

// Cause sets the underlying error
func (b *Builder) Cause(err error) *Builder {
	b.err.Cause = err
	return b
}

// Detail sets the human-readable detail message
func (b *Builder) Detail(msg string, args ...any) *Builder {
	if len(args) > 0 {
		b.err.Detail = fmt.Sprintf(msg, args...)
	} else {
		b.err.Detail = msg
	}
	return b
}

// Build returns the constructed error
func (b *Builder) Build() *Error {
	return &b.err
}

// Convenience constructors, one per fault the pipeline can raise

// UnknownOpcode reports a byte that is not part of the instruction set
func UnknownOpcode(addr uint32, op byte) *Error {
	return &Error{
		Phase:  PhaseRead,
		Kind:   KindUnknownOpcode,
		Detail: fmt.Sprintf("unknown opcode 0x%02X at 0x%08X", op, addr),
		Value:  op,
	}
}

// AddressTableMismatch reports a text-block start missing from the offset table
func AddressTableMismatch(addr uint32) *Error {
	return &Error{
		Phase:  PhaseRead,
		Kind:   KindAddressTableMismatch,
		Detail: fmt.Sprintf("text block at 0x%08X not found in offset table", addr),
		Value:  addr,
	}
}

// Truncated reports input that ends inside a structure
func Truncated(phase Phase, what string, pos int, cause error) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindTruncated,
		Detail: fmt.Sprintf("%s truncated at offset %d", what, pos),
		Value:  pos,
		Cause:  cause,
	}
}

// TextLineup reports a malformed translation file
func TextLineup(line int, detail string) *Error {
	return &Error{
		Phase:  PhaseParse,
		Kind:   KindTextLineup,
		Path:   []string{fmt.Sprintf("line %d", line)},
		Detail: detail,
		Value:  line,
	}
}

// BlockIndexMismatch reports blocks and translation records out of step
func BlockIndexMismatch(phase Phase, want, got int) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindBlockIndexMismatch,
		Detail: fmt.Sprintf("expected index %d, got %d", want, got),
		Value:  got,
	}
}

// LineBreakOverflow reports a record with more visual lines than a text box holds
func LineBreakOverflow(index, breaks, limit int) *Error {
	return &Error{
		Phase:  PhaseRebuild,
		Kind:   KindLineBreakOverflow,
		Path:   []string{fmt.Sprintf("record %04d", index)},
		Detail: fmt.Sprintf("%d line breaks, at most %d allowed", breaks, limit),
		Value:  breaks,
	}
}

// UnknownEscapeSequence reports an escape argument other than newline or ruby
func UnknownEscapeSequence(addr uint32, arg byte) *Error {
	return &Error{
		Phase:  PhaseExport,
		Kind:   KindUnknownEscapeSequence,
		Detail: fmt.Sprintf("escape 0x%02X at 0x%08X", arg, addr),
		Value:  arg,
	}
}

// MissingJumpTarget reports a jump whose target is no longer an instruction start
func MissingJumpTarget(addr, target uint32) *Error {
	return &Error{
		Phase:  PhaseSave,
		Kind:   KindMissingJumpTarget,
		Detail: fmt.Sprintf("jump at 0x%08X targets 0x%08X", addr, target),
		Value:  target,
	}
}

// Encoding reports text that cannot be converted
func Encoding(phase Phase, detail string, cause error) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindEncoding,
		Detail: detail,
		Cause:  cause,
	}
}

// NotSegmented reports an operation that needs command blocks on an unsegmented script
func NotSegmented(phase Phase) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindNotSegmented,
		Detail: "script has no command blocks",
	}
}

// Invariant reports a broken structural invariant
func Invariant(detail string, args ...any) *Error {
	return &Error{
		Phase:  PhaseValidate,
		Kind:   KindInvariant,
		Detail: fmt.Sprintf(detail, args...),
	}
}

// InvalidInput creates an invalid input error
func InvalidInput(phase Phase, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidInput,
		Detail: detail,
	}
}

// Wrap wraps an existing error with additional context
func Wrap(phase Phase, kind Kind, cause error, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   kind,
		Detail: detail,
		Cause:  cause,
	}
}
