package errors

import (
	"errors"
	"strings"
	"testing"
)

func TestError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *Error
		contains []string
	}{
		{
			name: "full error",
			err: &Error{
				Phase:  PhaseRebuild,
				Kind:   KindLineBreakOverflow,
				Path:   []string{"block 0003", "sector 1"},
				Detail: "4 line breaks",
			},
			contains: []string{"[rebuild]", "line_break_overflow", "block 0003/sector 1", "4 line breaks"},
		},
		{
			name: "minimal error",
			err: &Error{
				Phase: PhaseRead,
				Kind:  KindTruncated,
			},
			contains: []string{"[read]", "truncated"},
		},
		{
			name: "error with cause",
			err: &Error{
				Phase:  PhaseSave,
				Kind:   KindEncoding,
				Detail: "speaker name",
				Cause:  errors.New("underlying error"),
			},
			contains: []string{"[save]", "encoding", "speaker name", "caused by", "underlying error"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg := tt.err.Error()
			for _, s := range tt.contains {
				if !strings.Contains(msg, s) {
					t.Errorf("error message %q does not contain %q", msg, s)
				}
			}
		})
	}
}

func TestError_Unwrap(t *testing.T) {
	cause := errors.New("root cause")
	err := &Error{
		Phase: PhaseRead,
		Kind:  KindTruncated,
		Cause: cause,
	}

	if !errors.Is(err.Unwrap(), cause) {
		t.Error("Unwrap did not return cause")
	}
	if !errors.Is(err, cause) {
		t.Error("errors.Is did not find cause through chain")
	}
}

func TestError_Is(t *testing.T) {
	err := MissingJumpTarget(0x10, 0x20)

	if !err.Is(&Error{Phase: PhaseSave, Kind: KindMissingJumpTarget}) {
		t.Error("Is should match same phase and kind")
	}
	if err.Is(&Error{Phase: PhaseRead, Kind: KindMissingJumpTarget}) {
		t.Error("Is should not match different phase")
	}
	if err.Is(&Error{Phase: PhaseSave, Kind: KindTruncated}) {
		t.Error("Is should not match different kind")
	}
	if !errors.Is(err, ErrMissingJumpTarget) {
		t.Error("errors.Is should match phase-less sentinel")
	}
	if errors.Is(err, ErrTruncated) {
		t.Error("errors.Is should not match other sentinel")
	}
}

func TestBuilder(t *testing.T) {
	cause := errors.New("root")
	err := New(PhaseRebuild, KindLineBreakOverflow).
		Path("record 0001").
		Value(4).
		Cause(cause).
		Detail("%d breaks, limit %d", 4, 3).
		Build()

	if err.Phase != PhaseRebuild {
		t.Errorf("Phase = %v, want %v", err.Phase, PhaseRebuild)
	}
	if err.Kind != KindLineBreakOverflow {
		t.Errorf("Kind = %v, want %v", err.Kind, KindLineBreakOverflow)
	}
	if len(err.Path) != 1 || err.Path[0] != "record 0001" {
		t.Errorf("Path = %v, want [record 0001]", err.Path)
	}
	if err.Value != 4 {
		t.Errorf("Value = %v, want 4", err.Value)
	}
	if !errors.Is(err.Cause, cause) {
		t.Errorf("Cause = %v, want %v", err.Cause, cause)
	}
	if err.Detail != "4 breaks, limit 3" {
		t.Errorf("Detail = %q, want '4 breaks, limit 3'", err.Detail)
	}
}

func TestConvenienceConstructors(t *testing.T) {
	tests := []struct {
		name  string
		err   *Error
		phase Phase
		kind  Kind
		text  string
	}{
		{"UnknownOpcode", UnknownOpcode(0x24, 0x7F), PhaseRead, KindUnknownOpcode, "0x7F"},
		{"AddressTableMismatch", AddressTableMismatch(0x40), PhaseRead, KindAddressTableMismatch, "0x00000040"},
		{"Truncated", Truncated(PhaseRead, "string operand", 12, nil), PhaseRead, KindTruncated, "offset 12"},
		{"TextLineup", TextLineup(7, "body before header"), PhaseParse, KindTextLineup, "line 7"},
		{"BlockIndexMismatch", BlockIndexMismatch(PhaseRebuild, 3, 4), PhaseRebuild, KindBlockIndexMismatch, "expected index 3"},
		{"LineBreakOverflow", LineBreakOverflow(2, 4, 3), PhaseRebuild, KindLineBreakOverflow, "record 0002"},
		{"UnknownEscapeSequence", UnknownEscapeSequence(0x10, 2), PhaseExport, KindUnknownEscapeSequence, "0x02"},
		{"MissingJumpTarget", MissingJumpTarget(0x10, 0x99), PhaseSave, KindMissingJumpTarget, "0x00000099"},
		{"Encoding", Encoding(PhaseRebuild, "gbk", nil), PhaseRebuild, KindEncoding, "gbk"},
		{"NotSegmented", NotSegmented(PhaseExport), PhaseExport, KindNotSegmented, "no command blocks"},
		{"Invariant", Invariant("address %d", 5), PhaseValidate, KindInvariant, "address 5"},
		{"InvalidInput", InvalidInput(PhaseConfig, "bad workers"), PhaseConfig, KindInvalidInput, "bad workers"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err.Phase != tt.phase {
				t.Errorf("Phase = %v, want %v", tt.err.Phase, tt.phase)
			}
			if tt.err.Kind != tt.kind {
				t.Errorf("Kind = %v, want %v", tt.err.Kind, tt.kind)
			}
			if !strings.Contains(tt.err.Error(), tt.text) {
				t.Errorf("Error() = %q, should contain %q", tt.err.Error(), tt.text)
			}
		})
	}
}

func TestWrap(t *testing.T) {
	cause := errors.New("disk full")
	err := Wrap(PhaseSave, KindInvalidInput, cause, "write script")
	if !errors.Is(err, cause) {
		t.Error("Wrap should keep cause reachable")
	}
	if !strings.Contains(err.Error(), "write script") {
		t.Errorf("Error() = %q, missing detail", err.Error())
	}
}
