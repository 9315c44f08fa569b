package mes

import (
	gserrors "github.com/wippyai/gsi-script/errors"
)

// Validate checks the script for structural validity.
func (s *Script) Validate() error {
	if err := s.validateAddresses(); err != nil {
		return err
	}
	if err := s.validateTextOffsets(); err != nil {
		return err
	}
	if err := s.validateJumpTargets(); err != nil {
		return err
	}
	if err := s.validateCoverage(); err != nil {
		return err
	}
	return nil
}

// ParseValidate parses a MES file and validates it.
func ParseValidate(data []byte) (*Script, error) {
	s, err := Parse(data)
	if err != nil {
		return nil, err
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Script) validateAddresses() error {
	first := true
	var prev uint32
	for i, in := range s.Instructions {
		if in.Synthetic {
			continue
		}
		if !first && in.Address <= prev {
			return gserrors.Invariant("instruction %d at 0x%08X does not follow 0x%08X", i, in.Address, prev)
		}
		first = false
		prev = in.Address
	}
	return nil
}

func (s *Script) validateTextOffsets() error {
	known := make(map[uint32]struct{}, len(s.TextBlockOffsets))
	for _, off := range s.TextBlockOffsets {
		known[off] = struct{}{}
	}
	for _, in := range s.Instructions {
		if in.Opcode != OpMesJ || in.Synthetic {
			continue
		}
		if _, ok := known[in.Address]; !ok {
			err := gserrors.AddressTableMismatch(in.Address)
			err.Phase = gserrors.PhaseValidate
			return err
		}
	}
	return nil
}

func (s *Script) validateJumpTargets() error {
	starts := make(map[uint32]struct{}, len(s.Instructions))
	for _, in := range s.Instructions {
		if !in.Synthetic {
			starts[in.Address] = struct{}{}
		}
	}
	for _, in := range s.Instructions {
		target, ok := in.JumpTarget()
		if !ok {
			continue
		}
		if _, ok := starts[target]; !ok {
			err := gserrors.MissingJumpTarget(in.Address, target)
			err.Phase = gserrors.PhaseValidate
			return err
		}
	}
	return nil
}

func (s *Script) validateCoverage() error {
	if !s.Segmented() {
		return nil
	}
	next := 0
	index := 0
	for bi, b := range s.Blocks {
		if len(b.Sectors) == 0 {
			return gserrors.Invariant("block %d has no sectors", bi)
		}
		for si, sec := range b.Sectors {
			if sec.Start != next || sec.End < sec.Start {
				return gserrors.Invariant("block %d sector %d spans [%d,%d), expected start %d", bi, si, sec.Start, sec.End, next)
			}
			next = sec.End
		}
		if b.ContainsText {
			index++
			if b.Index != index {
				err := gserrors.BlockIndexMismatch(gserrors.PhaseValidate, index, b.Index)
				return err
			}
		}
	}
	if next != len(s.Instructions) {
		return gserrors.Invariant("blocks cover %d of %d instructions", next, len(s.Instructions))
	}
	return nil
}
